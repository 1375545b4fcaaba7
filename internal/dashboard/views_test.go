package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fr4nk3nst1ner/salarybarometer/internal/aggregate"
)

func TestRouterResolve(t *testing.T) {
	r := DefaultRouter()

	tests := []struct {
		path string
		want Kind
		ok   bool
	}{
		{"/", KindBarometer, true},
		{"", KindBarometer, true},
		{"/b1", KindB1, true},
		{"/b1/", KindB1, true},
		{"/competitors?sort=max", KindCompetitors, true},
		{"/overall", KindOverall, true},
		{"/unknown", KindBarometer, false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			v, ok := r.Resolve(tt.path)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, v.Name)
		})
	}
}

func TestNewRouterRejectsDuplicatePaths(t *testing.T) {
	_, err := NewRouter([]View{{Name: KindB1, Path: "/b1"}, {Name: KindOverall, Path: "/b1/"}})
	require.Error(t, err)

	_, err = NewRouter(nil)
	require.Error(t, err)
}

func TestViewItemPath(t *testing.T) {
	r := DefaultRouter()
	barometer, ok := r.ByKind(KindBarometer)
	require.True(t, ok)
	assert.Equal(t, "/api/stats/1", barometer.ItemPath(1))

	overall, _ := r.ByKind(KindOverall)
	assert.Equal(t, "/api/overall-stats", overall.ItemPath(3))
}

func TestFieldValue(t *testing.T) {
	m := aggregate.ComputeSummary([]float64{10, 20, 30, 40})
	values := map[string]float64{}
	for _, f := range metricFields {
		v := f.Value(m)
		require.NotNil(t, v)
		values[f.Key] = *v
	}
	assert.Equal(t, map[string]float64{"avg": 25, "median": 20, "min": 10, "max": 40}, values)
	assert.Nil(t, Field{Key: "p90"}.Value(m))
}
