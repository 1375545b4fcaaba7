// Package analytics turns the current vacancy snapshot into the payloads served
// by the API: per-role statistics, overall statistics and the competitors report.
package analytics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fr4nk3nst1ner/salarybarometer/internal/aggregate"
	"github.com/fr4nk3nst1ner/salarybarometer/internal/catalog"
	"github.com/fr4nk3nst1ner/salarybarometer/internal/models"
	"github.com/fr4nk3nst1ner/salarybarometer/internal/utils"
)

// NoDataMessage is returned in place of statistics for a role without salaries
const NoDataMessage = "No data found for this role"

const (
	unknownEmployment = "Не указано"
	unknownSchedule   = "Не указано"
)

// Source provides the snapshot to analyse
type Source interface {
	Current() *models.Snapshot
}

// Options tune the computations
type Options struct {
	// OutlierMultiplier drops role salaries above this multiple of the median; 0 disables it
	OutlierMultiplier float64
	HistogramBins     int
}

// Service computes statistics over the current snapshot
type Service struct {
	cat  *catalog.Catalog
	src  Source
	opts Options
}

// New creates an analytics service
func New(cat *catalog.Catalog, src Source, opts Options) *Service {
	if opts.HistogramBins <= 0 {
		opts.HistogramBins = 10
	}
	return &Service{cat: cat, src: src, opts: opts}
}

// Roles returns the tracked roles in catalog order
func (s *Service) Roles() []models.Role {
	return s.cat.RoleList()
}

// salaried is a vacancy paired with its monthly salary
type salaried struct {
	v      models.Vacancy
	salary MonthlySalary
}

// RoleStats computes the statistics of the role at index. An unknown index is a
// NotFound error; a role without usable salaries yields a payload carrying only Error.
func (s *Service) RoleStats(index int) (*models.RoleStats, error) {
	role, err := s.cat.Role(index)
	if err != nil {
		return nil, err
	}

	var rows []salaried
	for _, v := range s.snapshot().Items {
		if !role.Matches(v) {
			continue
		}
		if sal, ok := NormalizeSalary(v); ok {
			rows = append(rows, salaried{v: v, salary: sal})
		}
	}
	if len(rows) == 0 {
		return &models.RoleStats{Error: NoDataMessage}, nil
	}

	values := make([]float64, len(rows))
	for i, r := range rows {
		values[i] = r.salary.Avg
	}
	keep, filter := FilterOutliers(values, s.opts.OutlierMultiplier)
	kept := rows[:0:0]
	for i, r := range rows {
		if keep[i] {
			kept = append(kept, r)
		}
	}
	if len(kept) == 0 {
		return &models.RoleStats{Error: NoDataMessage, FilterStats: filter}, nil
	}

	salaries := make([]float64, len(kept))
	vacancies := make([]models.Vacancy, len(kept))
	for i, r := range kept {
		salaries[i] = r.salary.Avg
		vacancies[i] = r.v
	}
	metrics := aggregate.ComputeSummary(salaries)

	return &models.RoleStats{
		Role:           role.Name,
		Metrics:        &metrics,
		Comparison:     s.comparison(kept),
		BubbleData:     bubbles(kept),
		ExperienceDist: ExperienceDistribution(vacancies),
		SalaryDist:     SalaryDistribution(salaries, s.opts.HistogramBins),
		EmploymentDist: EmploymentDistribution(vacancies),
		ScheduleDist:   ScheduleDistribution(vacancies),
		FilterStats:    filter,
	}, nil
}

// OverallStats computes statistics over every vacancy of the snapshot. Metrics
// cover the vacancies with a usable salary, distributions cover all of them.
func (s *Service) OverallStats() *models.OverallStats {
	items := s.snapshot().Items

	var salaries []float64
	for _, v := range items {
		if sal, ok := NormalizeSalary(v); ok {
			salaries = append(salaries, sal.Avg)
		}
	}

	out := &models.OverallStats{
		TotalCount:     len(items),
		ExperienceDist: ExperienceDistribution(items),
		EmploymentDist: EmploymentDistribution(items),
		ScheduleDist:   ScheduleDistribution(items),
	}
	if len(salaries) > 0 {
		metrics := aggregate.ComputeSummary(salaries)
		out.Metrics = &metrics
	}
	return out
}

// Competitors returns the competitors table placed on the market scale of all
// salaried vacancies, with the snapshot's own figures for each company
func (s *Service) Competitors() *models.CompetitorsReport {
	items := s.snapshot().Items

	var market []float64
	byEmployer := make(map[string][]float64)
	for _, v := range items {
		sal, ok := NormalizeSalary(v)
		if !ok {
			continue
		}
		market = append(market, sal.Avg)
		if v.Employer != nil {
			key := compact(v.Employer.Name)
			byEmployer[key] = append(byEmployer[key], sal.Avg)
		}
	}

	report := &models.CompetitorsReport{Rows: make([]models.CompetitorRow, 0, len(s.cat.Competitors))}
	var metrics aggregate.SummaryMetrics
	if len(market) > 0 {
		metrics = aggregate.ComputeSummary(market)
		report.Market = &metrics
	}

	for _, c := range s.cat.Competitors {
		row := models.CompetitorRow{Competitor: c}
		if metrics.HasRange() {
			pos := aggregate.ComputePosition(c.MaxSalary, *metrics.Min, *metrics.Max)
			row.Position = &pos
		}

		name := compact(c.Company)
		var own []float64
		for employer, values := range byEmployer {
			if name != "" && strings.Contains(employer, name) {
				own = append(own, values...)
			}
		}
		row.Vacancies = len(own)
		if len(own) > 0 {
			summary := aggregate.ComputeSummary(own)
			row.SalaryAvg = summary.Avg
		}
		report.Rows = append(report.Rows, row)
	}
	return report
}

func (s *Service) snapshot() *models.Snapshot {
	snap := s.src.Current()
	if snap == nil {
		return &models.Snapshot{}
	}
	return snap
}

// comparison averages the reference employer against everyone else; a side
// without vacancies stays 0
func (s *Service) comparison(rows []salaried) *models.Comparison {
	var ref, market []float64
	for _, r := range rows {
		if r.v.EmployerID() == s.cat.ReferenceEmployerID {
			ref = append(ref, r.salary.Avg)
		} else {
			market = append(market, r.salary.Avg)
		}
	}

	cmp := &models.Comparison{}
	if m := aggregate.ComputeSummary(ref); m.Avg != nil {
		cmp.Pulkovo = *m.Avg
	}
	if m := aggregate.ComputeSummary(market); m.Avg != nil {
		cmp.Market = *m.Avg
	}
	return cmp
}

type bubbleKey struct {
	salary     float64
	experience float64
	label      string
}

// bubbles groups vacancies by salary and experience, sorted by salary,
// experience weight and label
func bubbles(rows []salaried) []models.BubblePoint {
	counts := make(map[bubbleKey]int)
	for _, r := range rows {
		band := catalog.ExperienceBand(r.v.Experience)
		counts[bubbleKey{salary: r.salary.Avg, experience: band.Weight, label: band.Name}]++
	}

	out := make([]models.BubblePoint, 0, len(counts))
	for k, n := range counts {
		out = append(out, models.BubblePoint{
			Salary:          k.salary,
			Experience:      k.experience,
			ExperienceLabel: k.label,
			Count:           n,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Salary != b.Salary {
			return a.Salary < b.Salary
		}
		if a.Experience != b.Experience {
			return a.Experience < b.Experience
		}
		return a.ExperienceLabel < b.ExperienceLabel
	})
	return out
}

// ExperienceDistribution counts vacancies per experience band in catalog order
func ExperienceDistribution(items []models.Vacancy) []models.NamedValue {
	buckets := aggregate.BucketBy(items, func(v models.Vacancy) string {
		return catalog.ExperienceBand(v.Experience).Name
	}, catalog.Names(catalog.Experience))

	out := make([]models.NamedValue, len(buckets))
	for i, b := range buckets {
		out[i] = models.NamedValue{Name: b.Label, Value: b.Count}
	}
	return out
}

// EmploymentDistribution counts vacancies per employment type in catalog order
func EmploymentDistribution(items []models.Vacancy) []models.NamedCount {
	return namedCounts(aggregate.BucketBy(items, func(v models.Vacancy) string {
		return catalog.Label(v.Employment, catalog.Employment, unknownEmployment)
	}, catalog.Names(catalog.Employment)))
}

// ScheduleDistribution counts vacancies per schedule in catalog order
func ScheduleDistribution(items []models.Vacancy) []models.NamedCount {
	return namedCounts(aggregate.BucketBy(items, func(v models.Vacancy) string {
		return catalog.Label(v.Schedule, catalog.Schedule, unknownSchedule)
	}, catalog.Names(catalog.Schedule)))
}

// SalaryDistribution bins salaries into equal-width ranges labeled "lower - upper"
func SalaryDistribution(salaries []float64, bins int) []models.RangeCount {
	hist := aggregate.Histogram(salaries, bins)
	out := make([]models.RangeCount, len(hist))
	for i, b := range hist {
		out[i] = models.RangeCount{
			Range: fmt.Sprintf("%d - %d", int(b.Lower), int(b.Upper)),
			Count: b.Count,
		}
	}
	return out
}

func namedCounts(buckets []aggregate.DistributionBucket) []models.NamedCount {
	out := make([]models.NamedCount, len(buckets))
	for i, b := range buckets {
		out[i] = models.NamedCount{Name: b.Label, Count: b.Count}
	}
	return out
}

// compact normalizes a company name and drops spaces so "Яндекс.Лавка" and
// "Яндекс Лавка" compare equal
func compact(name string) string {
	return strings.ReplaceAll(utils.NormalizeCompanyName(name), " ", "")
}
