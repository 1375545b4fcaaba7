package models

import (
	"time"

	"github.com/fr4nk3nst1ner/salarybarometer/internal/aggregate"
)

// IDName is the {id, name} pair hh.ru uses for dictionaries
type IDName struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Salary represents the salary block of a vacancy. Bounds are optional.
type Salary struct {
	From     *float64 `json:"from"`
	To       *float64 `json:"to"`
	Currency string   `json:"currency"`
	Gross    *bool    `json:"gross,omitempty"`
}

// SalaryRange is the newer salary block which also carries the payment mode
type SalaryRange struct {
	Salary
	Mode      *IDName `json:"mode,omitempty"`
	Frequency *IDName `json:"frequency,omitempty"`
}

// Employer represents the employer of a vacancy
type Employer struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Snippet holds the highlighted requirement and responsibility fragments
type Snippet struct {
	Requirement    string `json:"requirement,omitempty"`
	Responsibility string `json:"responsibility,omitempty"`
}

// Vacancy represents one item of the hh.ru vacancy search
type Vacancy struct {
	ID                string       `json:"id"`
	Name              string       `json:"name"`
	Area              *IDName      `json:"area,omitempty"`
	Salary            *Salary      `json:"salary"`
	SalaryRange       *SalaryRange `json:"salary_range,omitempty"`
	Employer          *Employer    `json:"employer,omitempty"`
	Experience        *IDName      `json:"experience,omitempty"`
	Employment        *IDName      `json:"employment,omitempty"`
	Schedule          *IDName      `json:"schedule,omitempty"`
	ProfessionalRoles []IDName     `json:"professional_roles"`
	Snippet           *Snippet     `json:"snippet,omitempty"`
	PublishedAt       string       `json:"published_at,omitempty"`
	AlternateURL      string       `json:"alternate_url,omitempty"`
}

// EmployerID returns the employer id or an empty string
func (v Vacancy) EmployerID() string {
	if v.Employer == nil {
		return ""
	}
	return v.Employer.ID
}

// SnapshotMeta describes a collection run
type SnapshotMeta struct {
	RunID        string    `json:"run_id,omitempty"`
	FetchedAt    time.Time `json:"fetched_at"`
	TotalFetched int       `json:"total_fetched"`
	Groups       int       `json:"groups,omitempty"`
}

// Snapshot is the collected vacancy set persisted between runs
type Snapshot struct {
	Items []Vacancy    `json:"items"`
	Meta  SnapshotMeta `json:"meta"`
}

// Role is one entry of the roles list
type Role struct {
	Name string `json:"name"`
}

// Comparison holds the reference employer average against the rest of the market.
// Zero means no observations on that side.
type Comparison struct {
	Pulkovo float64 `json:"pulkovo"`
	Market  float64 `json:"market"`
}

// BubblePoint is one aggregated point of the salary vs experience chart
type BubblePoint struct {
	Salary          float64 `json:"salary"`
	Experience      float64 `json:"experience"`
	ExperienceLabel string  `json:"experience_label"`
	Count           int     `json:"count"`
}

// NamedValue feeds pie charts
type NamedValue struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// NamedCount feeds categorical bar charts
type NamedCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// RangeCount is one salary histogram bar
type RangeCount struct {
	Range string `json:"range"`
	Count int    `json:"count"`
}

// FilterStats reports what the outlier filter removed
type FilterStats struct {
	TotalBeforeFilter int      `json:"total_before_filter"`
	FilteredCount     int      `json:"filtered_count"`
	MedianSalary      *float64 `json:"median_salary"`
	ThresholdSalary   *float64 `json:"threshold_salary"`
}

// RoleStats is the /api/stats/{index} payload. Error is set instead of the
// data fields when the role has no usable salaries.
type RoleStats struct {
	Role           string                    `json:"role,omitempty"`
	Metrics        *aggregate.SummaryMetrics `json:"metrics,omitempty"`
	Comparison     *Comparison               `json:"comparison,omitempty"`
	BubbleData     []BubblePoint             `json:"bubble_data,omitempty"`
	ExperienceDist []NamedValue              `json:"experience_dist,omitempty"`
	SalaryDist     []RangeCount              `json:"salary_dist,omitempty"`
	EmploymentDist []NamedCount              `json:"employment_dist,omitempty"`
	ScheduleDist   []NamedCount              `json:"schedule_dist,omitempty"`
	FilterStats    *FilterStats              `json:"filter_stats,omitempty"`
	Error          string                    `json:"error,omitempty"`
}

// OverallStats is the /api/overall-stats payload
type OverallStats struct {
	TotalCount     int                       `json:"total_count"`
	Metrics        *aggregate.SummaryMetrics `json:"metrics,omitempty"`
	ExperienceDist []NamedValue              `json:"experience_dist"`
	EmploymentDist []NamedCount              `json:"employment_dist"`
	ScheduleDist   []NamedCount              `json:"schedule_dist"`
}

// MonthlySalary is a per-position salary summary of a B1 block
type MonthlySalary struct {
	Avg    *float64 `json:"avg"`
	Median *float64 `json:"median"`
}

// Display returns avg, falling back to median
func (m MonthlySalary) Display() (float64, bool) {
	if m.Avg != nil && *m.Avg != 0 {
		return *m.Avg, true
	}
	if m.Median != nil && *m.Median != 0 {
		return *m.Median, true
	}
	return 0, false
}

// TableValue returns median, falling back to avg, as shown in the positions table
func (m MonthlySalary) TableValue() (float64, bool) {
	if m.Median != nil && *m.Median != 0 {
		return *m.Median, true
	}
	if m.Avg != nil && *m.Avg != 0 {
		return *m.Avg, true
	}
	return 0, false
}

// Position is one job position inside a B1 block
type Position struct {
	Name          string        `json:"name"`
	MonthlySalary MonthlySalary `json:"monthly_salary"`
}

// BlockRef is an entry of the block list
type BlockRef struct {
	Name string `json:"name"`
}

// Block is a named grouping of positions from the B1 salary review
type Block struct {
	Name      string     `json:"name"`
	Positions []Position `json:"positions"`
}

// Competitor is one row of the competitors salary table
type Competitor struct {
	Company    string  `json:"company" yaml:"company"`
	HourlyRate float64 `json:"hourly_rate" yaml:"hourly_rate"`
	MinSalary  float64 `json:"min_salary" yaml:"min_salary"`
	MaxSalary  float64 `json:"max_salary" yaml:"max_salary"`
}

// ErrorResponse is the body of any failed API call
type ErrorResponse struct {
	Error string `json:"error"`
}

// CompetitorRow is a competitors table entry enriched with what the snapshot
// says about that company
type CompetitorRow struct {
	Competitor
	// Position of MaxSalary on the market scale, absent when the scale has no width
	Position  *float64 `json:"position,omitempty"`
	Vacancies int      `json:"vacancies"`
	SalaryAvg *float64 `json:"salary_avg,omitempty"`
}

// CompetitorsReport is the /api/competitors payload
type CompetitorsReport struct {
	Market *aggregate.SummaryMetrics `json:"market,omitempty"`
	Rows   []CompetitorRow           `json:"rows"`
}
