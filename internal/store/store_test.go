package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fr4nk3nst1ner/salarybarometer/internal/models"
)

func fixedClock(ts string) func() time.Time {
	return func() time.Time {
		t, _ := time.Parse(stampLayout, ts)
		return t
	}
}

func TestSaveAndLatest(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "data"))

	s.now = fixedClock("20260125_144856")
	_, err := s.Save(&models.Snapshot{Items: []models.Vacancy{{ID: "old"}}})
	require.NoError(t, err)

	s.now = fixedClock("20260126_090000")
	path, err := s.Save(&models.Snapshot{Items: []models.Vacancy{{ID: "new"}}, Meta: models.SnapshotMeta{TotalFetched: 1}})
	require.NoError(t, err)
	assert.Equal(t, "vacancies_20260126_090000.json", filepath.Base(path))

	latest, err := s.Latest()
	require.NoError(t, err)
	require.Len(t, latest.Items, 1)
	assert.Equal(t, "new", latest.Items[0].ID)
	assert.Equal(t, 1, latest.Meta.TotalFetched)
}

func TestLatestAcceptsLegacyTxt(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "vacancies_20260125_144856.txt"), []byte(`{"items":[{"id":"legacy"}]}`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.json"), []byte(`{}`), 0644))

	snap, err := New(dir).Latest()
	require.NoError(t, err)
	require.Len(t, snap.Items, 1)
	assert.Equal(t, "legacy", snap.Items[0].ID)
}

func TestLatestMissingDirectory(t *testing.T) {
	snap, err := New(filepath.Join(t.TempDir(), "missing")).Latest()
	require.NoError(t, err)
	assert.Empty(t, snap.Items)
}

func TestLatestCorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "vacancies_20260125_144856.json"), []byte(`{not json`), 0644))

	_, err := New(dir).Latest()
	require.Error(t, err)
}

func TestReloadSwapsCurrent(t *testing.T) {
	s := New(t.TempDir())
	assert.Empty(t, s.Current().Items)

	_, err := s.Save(&models.Snapshot{Items: []models.Vacancy{{ID: "1"}, {ID: "2"}}})
	require.NoError(t, err)

	snap, err := s.Reload()
	require.NoError(t, err)
	assert.Len(t, snap.Items, 2)
	assert.Same(t, snap, s.Current())

	s.Set(nil)
	assert.NotNil(t, s.Current())
}
