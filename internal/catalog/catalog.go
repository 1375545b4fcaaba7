// Package catalog holds the reference data of the barometer: tracked role groups,
// dictionary label orders, the reference employer and the competitors table.
package catalog

import (
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/fr4nk3nst1ner/salarybarometer/internal/errors"
	"github.com/fr4nk3nst1ner/salarybarometer/internal/models"
)

// ReferenceEmployerID is the hh.ru employer id compared against the market (Пулково)
const ReferenceEmployerID = "666661"

// RoleGroup is a tracked role and the hh.ru professional_role ids it covers
type RoleGroup struct {
	Name string `yaml:"name"`
	IDs  []int  `yaml:"ids"`
}

// Band is a dictionary entry with an id, a display name and an optional numeric weight
type Band struct {
	ID     string
	Name   string
	Weight float64
}

// Catalog bundles all reference data
type Catalog struct {
	Roles               []RoleGroup         `yaml:"roles"`
	Competitors         []models.Competitor `yaml:"competitors"`
	ReferenceEmployerID string              `yaml:"reference_employer_id"`
}

var defaultRoles = []RoleGroup{
	{Name: "Грузчик на склад", IDs: []int{31, 52}},
	{Name: "Аналитик данных", IDs: []int{156, 150, 10}},
	{Name: "ML инженер", IDs: []int{165, 96}},
	{Name: "Машинист катка", IDs: []int{63}},
	{Name: "Инженер склада", IDs: []int{81}},
	{Name: "Машинист фрезы", IDs: []int{128, 86}},
	{Name: "Агент по регистрации пассажиров (ПО)", IDs: []int{70}},
	{Name: "Фельдшер / фельдшер скорой медицинской помощи", IDs: []int{15, 24, 64}},
	{Name: "Специалист по обслуживанию ВС", IDs: []int{111, 173, 44, 46}},
	{Name: "Мойщик-уборщик", IDs: []int{130}},
	{Name: "Агент по сервису", IDs: []int{89}},
	{Name: "Агент по сервису в Бизнес-зал", IDs: []int{89}},
	{Name: "Медицинская сестра/медицинский брат", IDs: []int{64}},
	{Name: "Системный инженер", IDs: []int{114}},
	{Name: "Инспектор Перронного Контроля", IDs: []int{131, 81, 52}},
	{Name: "Кинолог", IDs: []int{90, 120}},
	{Name: "Инженер холодильных установок", IDs: []int{111, 144}},
	{Name: "Инспектор Группы Быстрого Реагирования", IDs: []int{90, 120, 95}},
}

var defaultCompetitors = []models.Competitor{
	{Company: "Яндекс Лавка", HourlyRate: 400, MinSalary: 16000, MaxSalary: 93808},
	{Company: "Яндекс Еда", HourlyRate: 400, MinSalary: 16000, MaxSalary: 101516},
	{Company: "Самокат", HourlyRate: 350, MinSalary: 14000, MaxSalary: 63140},
	{Company: "Яндекс Крауд", HourlyRate: 350, MinSalary: 14000, MaxSalary: 75440},
	{Company: "Т-Банк", HourlyRate: 330, MinSalary: 13200, MaxSalary: 65600},
	{Company: "Ozon", HourlyRate: 320, MinSalary: 12800, MaxSalary: 106600},
	{Company: "Улыбка радуги", HourlyRate: 300, MinSalary: 12000, MaxSalary: 49200},
	{Company: "Булочные Вольчека", HourlyRate: 300, MinSalary: 12000, MaxSalary: 49200},
	{Company: "Ростелеком", HourlyRate: 280, MinSalary: 11200, MaxSalary: 100000},
	{Company: "Burger King", HourlyRate: 280, MinSalary: 11200, MaxSalary: 98333},
	{Company: "Токио-сити", HourlyRate: 260, MinSalary: 10400, MaxSalary: 56666},
	{Company: "Додо пицца", HourlyRate: 250, MinSalary: 10000, MaxSalary: 41000},
	{Company: "ЛюдиЛюбят", HourlyRate: 250, MinSalary: 10000, MaxSalary: 50400},
	{Company: "Вкусно и точка", HourlyRate: 250, MinSalary: 10000, MaxSalary: 49200},
	{Company: "Теремок", HourlyRate: 240, MinSalary: 9600, MaxSalary: 83640},
}

// Experience bands in display order. Weights place them on the bubble chart axis.
var Experience = []Band{
	{ID: "noExperience", Name: "Нет опыта", Weight: 0},
	{ID: "between1And3", Name: "От 1 года до 3 лет", Weight: 2},
	{ID: "between3And6", Name: "От 3 до 6 лет", Weight: 4.5},
	{ID: "moreThan6", Name: "Более 6 лет", Weight: 8},
}

// Employment types in display order
var Employment = []Band{
	{ID: "full", Name: "Полная занятость"},
	{ID: "part", Name: "Частичная занятость"},
	{ID: "project", Name: "Проектная работа"},
	{ID: "volunteer", Name: "Волонтерство"},
	{ID: "probation", Name: "Стажировка"},
}

// Schedules in display order
var Schedule = []Band{
	{ID: "fullDay", Name: "Полный день"},
	{ID: "shift", Name: "Сменный график"},
	{ID: "flexible", Name: "Гибкий график"},
	{ID: "remote", Name: "Удаленная работа"},
	{ID: "flyInFlyOut", Name: "Вахтовый метод"},
}

// DefaultExperience is used when a vacancy carries no experience block
var DefaultExperience = Experience[0]

// Default returns the built-in catalog
func Default() *Catalog {
	c := &Catalog{
		Roles:               make([]RoleGroup, len(defaultRoles)),
		Competitors:         make([]models.Competitor, len(defaultCompetitors)),
		ReferenceEmployerID: ReferenceEmployerID,
	}
	copy(c.Roles, defaultRoles)
	copy(c.Competitors, defaultCompetitors)
	return c
}

// Load returns the default catalog overlaid with the YAML file at path.
// An empty path means defaults only. Sections missing from the file keep their defaults.
func Load(path string) (*Catalog, error) {
	c := Default()
	if path == "" {
		return c, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read catalog %s", path)
	}

	var file Catalog
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrap(errors.InvalidInput(err.Error()), "parse catalog")
	}

	if len(file.Roles) > 0 {
		c.Roles = file.Roles
	}
	if len(file.Competitors) > 0 {
		c.Competitors = file.Competitors
	}
	if file.ReferenceEmployerID != "" {
		c.ReferenceEmployerID = file.ReferenceEmployerID
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks that every role has a name and at least one id
func (c *Catalog) Validate() error {
	for i, r := range c.Roles {
		if strings.TrimSpace(r.Name) == "" {
			return errors.InvalidInput("role without a name at position " + strconv.Itoa(i))
		}
		if len(r.IDs) == 0 {
			return errors.InvalidInput("role " + r.Name + " has no professional_role ids")
		}
	}
	return nil
}

// Role returns the role group at index
func (c *Catalog) Role(index int) (RoleGroup, error) {
	if index < 0 || index >= len(c.Roles) {
		return RoleGroup{}, errors.NotFound("Role")
	}
	return c.Roles[index], nil
}

// RoleList returns the public role names in catalog order
func (c *Catalog) RoleList() []models.Role {
	out := make([]models.Role, len(c.Roles))
	for i, r := range c.Roles {
		out[i] = models.Role{Name: r.Name}
	}
	return out
}

// Matches reports whether the vacancy carries any professional role of the group
func (r RoleGroup) Matches(v models.Vacancy) bool {
	for _, pr := range v.ProfessionalRoles {
		for _, id := range r.IDs {
			if pr.ID == strconv.Itoa(id) {
				return true
			}
		}
	}
	return false
}

// ExperienceBand resolves the band of a vacancy, defaulting to no experience.
// The name on the vacancy wins over the built-in display name.
func ExperienceBand(exp *models.IDName) Band {
	if exp == nil {
		return DefaultExperience
	}
	band := Band{ID: exp.ID, Name: exp.Name}
	for _, b := range Experience {
		if b.ID == exp.ID {
			band.Weight = b.Weight
			if band.Name == "" {
				band.Name = b.Name
			}
			return band
		}
	}
	if band.Name == "" {
		band.Name = DefaultExperience.Name
	}
	return band
}

// Names returns the display names of the bands in order
func Names(bands []Band) []string {
	out := make([]string, len(bands))
	for i, b := range bands {
		out[i] = b.Name
	}
	return out
}

// Label returns the name of a dictionary entry, falling back to the built-in name
// for its id and then to fallback
func Label(entry *models.IDName, bands []Band, fallback string) string {
	if entry == nil {
		return fallback
	}
	if entry.Name != "" {
		return entry.Name
	}
	for _, b := range bands {
		if b.ID == entry.ID {
			return b.Name
		}
	}
	return fallback
}
