package analytics

import (
	"github.com/montanaflynn/stats"

	"github.com/fr4nk3nst1ner/salarybarometer/internal/models"
)

const (
	currencyRUB = "RUR"

	modeShift = "SHIFT"
	modeHour  = "HOUR"

	// shifts and hours in a month
	shiftMultiplier = 20
	hourMultiplier  = 156
)

// MonthlySalary is a vacancy salary brought to monthly rubles
type MonthlySalary struct {
	From float64
	To   float64
	Avg  float64
}

// NormalizeSalary converts the vacancy salary to monthly rubles.
// A missing bound takes the value of the other one; per-shift and hourly rates
// are scaled by the payment mode of salary_range. Non-ruble or empty salaries
// report ok=false.
func NormalizeSalary(v models.Vacancy) (MonthlySalary, bool) {
	salary := v.Salary
	if salary == nil && v.SalaryRange != nil {
		salary = &v.SalaryRange.Salary
	}
	if salary == nil || salary.Currency != currencyRUB {
		return MonthlySalary{}, false
	}
	if salary.From == nil && salary.To == nil {
		return MonthlySalary{}, false
	}

	from, to := salary.From, salary.To
	if from == nil {
		from = to
	}
	if to == nil {
		to = from
	}

	multiplier := 1.0
	if v.SalaryRange != nil && v.SalaryRange.Mode != nil {
		switch v.SalaryRange.Mode.ID {
		case modeShift:
			multiplier = shiftMultiplier
		case modeHour:
			multiplier = hourMultiplier
		}
	}

	return MonthlySalary{
		From: *from * multiplier,
		To:   *to * multiplier,
		Avg:  (*from + *to) / 2 * multiplier,
	}, true
}

// FilterOutliers drops values above multiplier times their median. The mask
// reports which input positions were kept. A multiplier <= 0 keeps everything
// and returns nil stats.
func FilterOutliers(values []float64, multiplier float64) ([]bool, *models.FilterStats) {
	keep := make([]bool, len(values))
	for i := range keep {
		keep[i] = true
	}
	if multiplier <= 0 || len(values) == 0 {
		return keep, nil
	}

	median, err := stats.Median(values)
	if err != nil {
		return keep, nil
	}
	threshold := median * multiplier

	kept := 0
	for i, v := range values {
		if v > threshold {
			keep[i] = false
			continue
		}
		kept++
	}

	return keep, &models.FilterStats{
		TotalBeforeFilter: len(values),
		FilteredCount:     kept,
		MedianSalary:      &median,
		ThresholdSalary:   &threshold,
	}
}
