package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type vacancy struct {
	experience string
}

func TestBucketByKeepsLabelOrder(t *testing.T) {
	items := []vacancy{{"moreThan6"}, {"noExperience"}, {"moreThan6"}, {"between1And3"}}
	labels := []string{"noExperience", "between1And3", "between3And6", "moreThan6"}

	got := BucketBy(items, func(v vacancy) string { return v.experience }, labels)

	assert.Equal(t, []DistributionBucket{
		{Label: "noExperience", Count: 1},
		{Label: "between1And3", Count: 1},
		{Label: "between3And6", Count: 0},
		{Label: "moreThan6", Count: 2},
	}, got)
}

func TestBucketByOrderIndependentOfInput(t *testing.T) {
	labels := []string{"a", "b", "c"}
	key := func(s string) string { return s }

	first := BucketBy([]string{"c", "a", "b", "a"}, key, labels)
	second := BucketBy([]string{"a", "a", "b", "c"}, key, labels)

	assert.Equal(t, first, second)
}

func TestBucketByUnknownKeysAppended(t *testing.T) {
	key := func(s string) string { return s }
	got := BucketBy([]string{"z", "a", "y", "z"}, key, []string{"a", "b"})

	assert.Equal(t, []DistributionBucket{
		{Label: "a", Count: 1},
		{Label: "b", Count: 0},
		{Label: "z", Count: 2},
		{Label: "y", Count: 1},
	}, got)
}

func TestNonZero(t *testing.T) {
	in := []DistributionBucket{{"a", 0}, {"b", 3}, {"c", 0}, {"d", 1}}
	assert.Equal(t, []DistributionBucket{{"b", 3}, {"d", 1}}, NonZero(in))
	assert.Empty(t, NonZero(nil))
}

func TestHistogram(t *testing.T) {
	values := []float64{0, 1, 2, 5, 9.5, 10}
	bins := Histogram(values, 10)

	require.Len(t, bins, 10)
	assert.Equal(t, 0.0, bins[0].Lower)
	assert.Equal(t, 10.0, bins[9].Upper)
	assert.Equal(t, 1, bins[0].Count)
	assert.Equal(t, 1, bins[1].Count)
	assert.Equal(t, 1, bins[2].Count)
	assert.Equal(t, 1, bins[5].Count)
	// max lands in the closed last bin together with 9.5
	assert.Equal(t, 2, bins[9].Count)

	total := 0
	for _, b := range bins {
		total += b.Count
	}
	assert.Equal(t, len(values), total)
}

func TestHistogramConstantValues(t *testing.T) {
	bins := Histogram([]float64{50000, 50000}, 10)

	require.Len(t, bins, 10)
	assert.Equal(t, 49999.5, bins[0].Lower)
	assert.Equal(t, 50000.5, bins[9].Upper)
	total := 0
	for _, b := range bins {
		total += b.Count
	}
	assert.Equal(t, 2, total)
}

func TestHistogramEmpty(t *testing.T) {
	assert.Nil(t, Histogram(nil, 10))
	assert.Nil(t, Histogram([]float64{1}, 0))
}
