package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fr4nk3nst1ner/salarybarometer/internal/errors"
	"github.com/fr4nk3nst1ner/salarybarometer/internal/models"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()

	assert.Len(t, c.Roles, 18)
	assert.Len(t, c.Competitors, 15)
	assert.Equal(t, ReferenceEmployerID, c.ReferenceEmployerID)
	require.NoError(t, c.Validate())

	// callers get their own copy
	c.Roles[0].Name = "changed"
	assert.Equal(t, "Грузчик на склад", Default().Roles[0].Name)
}

func TestRoleOutOfRange(t *testing.T) {
	c := Default()

	_, err := c.Role(-1)
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))
	_, err = c.Role(len(c.Roles))
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))

	r, err := c.Role(2)
	require.NoError(t, err)
	assert.Equal(t, "ML инженер", r.Name)
}

func TestRoleMatches(t *testing.T) {
	r := RoleGroup{Name: "Кинолог", IDs: []int{90, 120}}

	assert.True(t, r.Matches(models.Vacancy{ProfessionalRoles: []models.IDName{{ID: "7"}, {ID: "120"}}}))
	assert.False(t, r.Matches(models.Vacancy{ProfessionalRoles: []models.IDName{{ID: "91"}}}))
	assert.False(t, r.Matches(models.Vacancy{}))
}

func TestLoadOverridesRoles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	content := `roles:
  - name: Courier
    ids: [1, 2]
  - name: Picker
    ids: [3]
reference_employer_id: "42"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []models.Role{{Name: "Courier"}, {Name: "Picker"}}, c.RoleList())
	assert.Equal(t, "42", c.ReferenceEmployerID)
	// competitors were not in the file and keep their defaults
	assert.Len(t, c.Competitors, 15)
}

func TestLoadRejectsRoleWithoutIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("roles:\n  - name: Empty\n"), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestLoadEmptyPath(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.Len(t, c.Roles, 18)
}

func TestExperienceBand(t *testing.T) {
	assert.Equal(t, DefaultExperience, ExperienceBand(nil))

	b := ExperienceBand(&models.IDName{ID: "between3And6", Name: "От 3 до 6 лет"})
	assert.Equal(t, 4.5, b.Weight)

	b = ExperienceBand(&models.IDName{ID: "moreThan6"})
	assert.Equal(t, "Более 6 лет", b.Name)
	assert.Equal(t, 8.0, b.Weight)
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Не указано", Label(nil, Schedule, "Не указано"))
	assert.Equal(t, "Сменный график", Label(&models.IDName{ID: "shift"}, Schedule, "x"))
	assert.Equal(t, "Custom", Label(&models.IDName{ID: "shift", Name: "Custom"}, Schedule, "x"))
	assert.Equal(t, "x", Label(&models.IDName{ID: "unknown"}, Schedule, "x"))
}
