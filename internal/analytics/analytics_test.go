package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fr4nk3nst1ner/salarybarometer/internal/catalog"
	"github.com/fr4nk3nst1ner/salarybarometer/internal/errors"
	"github.com/fr4nk3nst1ner/salarybarometer/internal/models"
)

type staticSource struct {
	snap *models.Snapshot
}

func (s staticSource) Current() *models.Snapshot { return s.snap }

func vacancy(id, role, employerID, employer string, salary float64, exp, employment, schedule string) models.Vacancy {
	v := models.Vacancy{
		ID:                id,
		ProfessionalRoles: []models.IDName{{ID: role}},
		Employer:          &models.Employer{ID: employerID, Name: employer},
	}
	if salary > 0 {
		v.Salary = &models.Salary{From: ptr(salary), To: ptr(salary), Currency: "RUR"}
	}
	if exp != "" {
		v.Experience = &models.IDName{ID: exp}
	}
	if employment != "" {
		v.Employment = &models.IDName{ID: employment}
	}
	if schedule != "" {
		v.Schedule = &models.IDName{ID: schedule}
	}
	return v
}

func testCatalog() *catalog.Catalog {
	return &catalog.Catalog{
		Roles: []catalog.RoleGroup{
			{Name: "Грузчик на склад", IDs: []int{31, 52}},
			{Name: "Кинолог", IDs: []int{90}},
		},
		Competitors: []models.Competitor{
			{Company: "Яндекс Лавка", HourlyRate: 400, MinSalary: 16000, MaxSalary: 93808},
			{Company: "Теремок", HourlyRate: 240, MinSalary: 9600, MaxSalary: 83640},
		},
		ReferenceEmployerID: catalog.ReferenceEmployerID,
	}
}

func testSnapshot() *models.Snapshot {
	return &models.Snapshot{Items: []models.Vacancy{
		vacancy("1", "31", "666661", "Пулково", 60000, "noExperience", "full", "shift"),
		vacancy("2", "52", "100", "ООО Яндекс.Лавка", 80000, "between1And3", "full", "fullDay"),
		vacancy("3", "31", "101", "Склад", 40000, "noExperience", "part", "shift"),
		vacancy("4", "31", "102", "Склад 2", 40000, "noExperience", "", ""),
		vacancy("5", "31", "103", "Без зарплаты", 0, "moreThan6", "full", "fullDay"),
		vacancy("6", "10", "104", "Аналитика", 200000, "between3And6", "full", "remote"),
	}}
}

func TestRoleStats(t *testing.T) {
	svc := New(testCatalog(), staticSource{testSnapshot()}, Options{})

	got, err := svc.RoleStats(0)
	require.NoError(t, err)
	assert.Empty(t, got.Error)
	assert.Equal(t, "Грузчик на склад", got.Role)

	require.NotNil(t, got.Metrics)
	assert.Equal(t, 4, got.Metrics.Count)
	assert.Equal(t, 55000.0, *got.Metrics.Avg)
	assert.Equal(t, 40000.0, *got.Metrics.Median)
	assert.Equal(t, 40000.0, *got.Metrics.Min)
	assert.Equal(t, 80000.0, *got.Metrics.Max)

	require.NotNil(t, got.Comparison)
	assert.Equal(t, 60000.0, got.Comparison.Pulkovo)
	assert.InDelta(t, 53333.33, got.Comparison.Market, 0.01)

	assert.Equal(t, []models.BubblePoint{
		{Salary: 40000, Experience: 0, ExperienceLabel: "Нет опыта", Count: 2},
		{Salary: 60000, Experience: 0, ExperienceLabel: "Нет опыта", Count: 1},
		{Salary: 80000, Experience: 2, ExperienceLabel: "От 1 года до 3 лет", Count: 1},
	}, got.BubbleData)

	assert.Equal(t, []models.NamedValue{
		{Name: "Нет опыта", Value: 3},
		{Name: "От 1 года до 3 лет", Value: 1},
		{Name: "От 3 до 6 лет", Value: 0},
		{Name: "Более 6 лет", Value: 0},
	}, got.ExperienceDist)

	require.Len(t, got.SalaryDist, 10)
	assert.Equal(t, models.RangeCount{Range: "40000 - 44000", Count: 2}, got.SalaryDist[0])
	assert.Equal(t, models.RangeCount{Range: "76000 - 80000", Count: 1}, got.SalaryDist[9])

	assert.Equal(t, models.NamedCount{Name: "Полная занятость", Count: 2}, got.EmploymentDist[0])
	assert.Equal(t, models.NamedCount{Name: "Частичная занятость", Count: 1}, got.EmploymentDist[1])
	last := got.EmploymentDist[len(got.EmploymentDist)-1]
	assert.Equal(t, models.NamedCount{Name: "Не указано", Count: 1}, last)

	assert.Equal(t, models.NamedCount{Name: "Полный день", Count: 1}, got.ScheduleDist[0])
	assert.Equal(t, models.NamedCount{Name: "Сменный график", Count: 2}, got.ScheduleDist[1])

	assert.Nil(t, got.FilterStats)
}

func TestRoleStatsNoData(t *testing.T) {
	svc := New(testCatalog(), staticSource{testSnapshot()}, Options{})

	got, err := svc.RoleStats(1)
	require.NoError(t, err)
	assert.Equal(t, &models.RoleStats{Error: NoDataMessage}, got)
}

func TestRoleStatsUnknownIndex(t *testing.T) {
	svc := New(testCatalog(), staticSource{testSnapshot()}, Options{})

	for _, index := range []int{-1, 2, 99} {
		_, err := svc.RoleStats(index)
		require.Error(t, err)
		assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))
	}
}

func TestRoleStatsWithOutlierFilter(t *testing.T) {
	snap := testSnapshot()
	snap.Items = append(snap.Items, vacancy("7", "31", "105", "Странный", 5000000, "noExperience", "full", "shift"))

	svc := New(testCatalog(), staticSource{snap}, Options{OutlierMultiplier: 5})
	got, err := svc.RoleStats(0)
	require.NoError(t, err)

	require.NotNil(t, got.FilterStats)
	assert.Equal(t, 5, got.FilterStats.TotalBeforeFilter)
	assert.Equal(t, 4, got.FilterStats.FilteredCount)
	assert.Equal(t, 80000.0, *got.Metrics.Max)
}

func TestRoleStatsNilSnapshot(t *testing.T) {
	svc := New(testCatalog(), staticSource{}, Options{})
	got, err := svc.RoleStats(0)
	require.NoError(t, err)
	assert.Equal(t, NoDataMessage, got.Error)
}

func TestOverallStats(t *testing.T) {
	svc := New(testCatalog(), staticSource{testSnapshot()}, Options{})
	got := svc.OverallStats()

	assert.Equal(t, 6, got.TotalCount)
	require.NotNil(t, got.Metrics)
	assert.Equal(t, 5, got.Metrics.Count)
	assert.Equal(t, 40000.0, *got.Metrics.Min)
	assert.Equal(t, 200000.0, *got.Metrics.Max)

	assert.Equal(t, models.NamedValue{Name: "Нет опыта", Value: 3}, got.ExperienceDist[0])
	assert.Equal(t, models.NamedValue{Name: "Более 6 лет", Value: 1}, got.ExperienceDist[3])
	assert.Equal(t, models.NamedCount{Name: "Полная занятость", Count: 4}, got.EmploymentDist[0])
	assert.Equal(t, models.NamedCount{Name: "Удаленная работа", Count: 1}, got.ScheduleDist[3])
}

func TestOverallStatsEmpty(t *testing.T) {
	svc := New(testCatalog(), staticSource{&models.Snapshot{}}, Options{})
	got := svc.OverallStats()

	assert.Equal(t, 0, got.TotalCount)
	assert.Nil(t, got.Metrics)
	assert.Len(t, got.ExperienceDist, 4)
}

func TestCompetitors(t *testing.T) {
	svc := New(testCatalog(), staticSource{testSnapshot()}, Options{})
	got := svc.Competitors()

	require.NotNil(t, got.Market)
	require.Len(t, got.Rows, 2)

	lavka := got.Rows[0]
	assert.Equal(t, "Яндекс Лавка", lavka.Company)
	assert.Equal(t, 1, lavka.Vacancies)
	require.NotNil(t, lavka.SalaryAvg)
	assert.Equal(t, 80000.0, *lavka.SalaryAvg)
	require.NotNil(t, lavka.Position)
	assert.InDelta(t, (93808.0-40000)/160000*100, *lavka.Position, 0.001)

	teremok := got.Rows[1]
	assert.Equal(t, 0, teremok.Vacancies)
	assert.Nil(t, teremok.SalaryAvg)
}

func TestCompetitorsWithoutMarket(t *testing.T) {
	svc := New(testCatalog(), staticSource{&models.Snapshot{}}, Options{})
	got := svc.Competitors()

	assert.Nil(t, got.Market)
	require.Len(t, got.Rows, 2)
	assert.Nil(t, got.Rows[0].Position)
}

func TestSalaryDistributionConstant(t *testing.T) {
	got := SalaryDistribution([]float64{50000, 50000}, 10)
	require.Len(t, got, 10)
	assert.Equal(t, "49999 - 49999", got[0].Range)
	total := 0
	for _, b := range got {
		total += b.Count
	}
	assert.Equal(t, 2, total)
}
