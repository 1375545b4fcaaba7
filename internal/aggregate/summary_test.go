package aggregate

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeSummaryEmpty(t *testing.T) {
	m := ComputeSummary(nil)

	assert.Equal(t, 0, m.Count)
	assert.Nil(t, m.Avg)
	assert.Nil(t, m.Median)
	assert.Nil(t, m.Min)
	assert.Nil(t, m.Max)
	assert.True(t, m.Empty())
	assert.False(t, m.HasRange())
}

func TestComputeSummarySingle(t *testing.T) {
	m := ComputeSummary([]float64{100})

	require.Equal(t, 1, m.Count)
	assert.Equal(t, 100.0, *m.Avg)
	assert.Equal(t, 100.0, *m.Median)
	assert.Equal(t, 100.0, *m.Min)
	assert.Equal(t, 100.0, *m.Max)
	assert.False(t, m.HasRange())
}

func TestComputeSummaryLowerMiddleMedian(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		median float64
	}{
		{"even takes lower middle", []float64{10, 20, 30, 40}, 20},
		{"even unsorted input", []float64{40, 10, 30, 20}, 20},
		{"odd takes middle", []float64{5, 1, 3}, 3},
		{"two values", []float64{70000, 50000}, 50000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := ComputeSummary(tt.values)
			assert.Equal(t, tt.median, *m.Median)
		})
	}
}

func TestComputeSummaryDoesNotMutateInput(t *testing.T) {
	values := []float64{30, 10, 20}
	ComputeSummary(values)
	assert.Equal(t, []float64{30, 10, 20}, values)
}

func TestComputeSummaryOrderingInvariant(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 200; i++ {
		n := 1 + r.Intn(50)
		values := make([]float64, n)
		for j := range values {
			values[j] = r.Float64() * 300000
		}
		m := ComputeSummary(values)
		assert.LessOrEqual(t, *m.Min, *m.Median)
		assert.LessOrEqual(t, *m.Median, *m.Max)
		assert.LessOrEqual(t, *m.Min, *m.Avg)
		assert.LessOrEqual(t, *m.Avg, *m.Max)
	}
}

func TestComputeSummaryConstantListAvgWithinBounds(t *testing.T) {
	m := ComputeSummary([]float64{0.1, 0.1, 0.1})
	assert.LessOrEqual(t, *m.Avg, *m.Max)
	assert.GreaterOrEqual(t, *m.Avg, *m.Min)
}

func TestComputePosition(t *testing.T) {
	assert.Equal(t, PositionFloor, ComputePosition(50000, 50000, 150000))
	assert.Equal(t, PositionCeil, ComputePosition(150000, 50000, 150000))
	assert.InDelta(t, 50.0, ComputePosition(100000, 50000, 150000), 1e-9)
	assert.InDelta(t, 25.0, ComputePosition(75000, 50000, 150000), 1e-9)
	assert.Equal(t, PositionFloor, ComputePosition(-10, 0, 100))
	assert.Equal(t, PositionCeil, ComputePosition(1e9, 0, 100))
}

func TestComputePositionDegenerateScale(t *testing.T) {
	assert.Equal(t, PositionFallback, ComputePosition(70000, 70000, 70000))
	assert.Equal(t, PositionFallback, ComputePosition(1, 10, 5))
}

func TestComputePositionNaN(t *testing.T) {
	nan := math.NaN()
	assert.Equal(t, PositionFallback, ComputePosition(nan, 0, 100))
	assert.Equal(t, PositionFallback, ComputePosition(50, nan, 100))
	assert.Equal(t, PositionFallback, ComputePosition(50, 0, nan))
}

func TestTicks(t *testing.T) {
	m := ComputeSummary([]float64{100, 200, 300, 500})
	ticks, ok := Ticks(m)

	require.True(t, ok)
	assert.Equal(t, 200.0, ticks.P25)
	assert.Equal(t, 200.0, ticks.Median)
	assert.Equal(t, 400.0, ticks.P75)
	assert.Equal(t, 500.0, ticks.Max)

	_, ok = Ticks(ComputeSummary(nil))
	assert.False(t, ok)
}
