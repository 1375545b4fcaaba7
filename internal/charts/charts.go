// Package charts renders the dashboard charts as PNG images.
package charts

import (
	stderrors "errors"
	"io"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/fr4nk3nst1ner/salarybarometer/internal/aggregate"
	"github.com/fr4nk3nst1ner/salarybarometer/internal/models"
	"github.com/fr4nk3nst1ner/salarybarometer/internal/utils"
)

// ErrNoData is returned when there is nothing to draw
var ErrNoData = stderrors.New("no data to chart")

const (
	width  = 800
	height = 420

	labelLength = 18
)

var palette = []drawing.Color{
	drawing.ColorFromHex("1f77b4"),
	drawing.ColorFromHex("ff7f0e"),
	drawing.ColorFromHex("2ca02c"),
	drawing.ColorFromHex("d62728"),
	drawing.ColorFromHex("9467bd"),
	drawing.ColorFromHex("8c564b"),
}

// Item is one labeled value
type Item struct {
	Label string
	Value float64
}

// FromNamedCounts converts employment or schedule buckets
func FromNamedCounts(in []models.NamedCount) []Item {
	out := make([]Item, len(in))
	for i, c := range in {
		out[i] = Item{Label: c.Name, Value: float64(c.Count)}
	}
	return out
}

// BucketsFromNamedValues converts experience buckets for pie charts
func BucketsFromNamedValues(in []models.NamedValue) []aggregate.DistributionBucket {
	out := make([]aggregate.DistributionBucket, len(in))
	for i, c := range in {
		out[i] = aggregate.DistributionBucket{Label: c.Name, Count: c.Value}
	}
	return out
}

// FromRanges converts the salary histogram
func FromRanges(in []models.RangeCount) []Item {
	out := make([]Item, len(in))
	for i, c := range in {
		out[i] = Item{Label: c.Range, Value: float64(c.Count)}
	}
	return out
}

// Bar draws a bar chart. All-zero input is ErrNoData.
func Bar(w io.Writer, title string, items []Item) error {
	if total(items) == 0 {
		return ErrNoData
	}

	bars := make([]chart.Value, len(items))
	for i, it := range items {
		bars[i] = chart.Value{
			Label: utils.TruncateString(it.Label, labelLength),
			Value: it.Value,
			Style: chart.Style{FillColor: palette[0], StrokeColor: palette[0]},
		}
	}

	bc := chart.BarChart{
		Title:    title,
		Width:    width,
		Height:   height,
		BarWidth: barWidth(len(items)),
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16},
		},
		// explicit range so equal bars still have a span
		YAxis: chart.YAxis{Range: &chart.ContinuousRange{Min: 0, Max: peak(items) * 1.1}},
		Bars:  bars,
	}
	return bc.Render(chart.PNG, w)
}

// Pie draws a pie chart of the non-empty buckets
func Pie(w io.Writer, title string, buckets []aggregate.DistributionBucket) error {
	values := pieValues(buckets)
	if len(values) == 0 {
		return ErrNoData
	}

	pie := chart.PieChart{
		Title:  title,
		Width:  height,
		Height: height,
		Values: values,
	}
	return pie.Render(chart.PNG, w)
}

func pieValues(buckets []aggregate.DistributionBucket) []chart.Value {
	var values []chart.Value
	for _, b := range aggregate.NonZero(buckets) {
		values = append(values, chart.Value{
			Label: b.Label,
			Value: float64(b.Count),
			Style: chart.Style{FillColor: palette[len(values)%len(palette)]},
		})
	}
	return values
}

// Scatter draws salary against experience; dot size follows the vacancy count
func Scatter(w io.Writer, title string, points []models.BubblePoint) error {
	if len(points) == 0 {
		return ErrNoData
	}

	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	maxCount := 1
	for i, p := range points {
		xs[i] = p.Salary
		ys[i] = p.Experience
		if p.Count > maxCount {
			maxCount = p.Count
		}
	}

	series := chart.ContinuousSeries{
		Name:    "vacancies",
		XValues: xs,
		YValues: ys,
		Style: chart.Style{
			StrokeWidth: chart.Disabled,
			DotColor:    palette[0].WithAlpha(160),
			DotWidthProvider: func(_, _ chart.Range, index int, _, _ float64) float64 {
				return 3 + 9*float64(points[index].Count)/float64(maxCount)
			},
		},
	}

	ch := chart.Chart{
		Title:  title,
		Width:  width,
		Height: height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16},
		},
		XAxis: chart.XAxis{
			Name:  "₽",
			Range: paddedRange(xs, 0.05),
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return utils.FormatNumber(f)
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: -0.5, Max: 8.5},
		},
		Series: []chart.Series{series},
	}
	return ch.Render(chart.PNG, w)
}

// paddedRange keeps a non-zero span so single points still render
func paddedRange(values []float64, pad float64) *chart.ContinuousRange {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = math.Max(math.Abs(hi), 1)
	}
	return &chart.ContinuousRange{Min: lo - span*pad, Max: hi + span*pad}
}

func barWidth(n int) int {
	if n == 0 {
		return 0
	}
	bw := (width - 80) / n * 2 / 3
	if bw > 60 {
		return 60
	}
	return bw
}

func peak(items []Item) float64 {
	max := 0.0
	for _, it := range items {
		max = math.Max(max, it.Value)
	}
	return max
}

func total(items []Item) float64 {
	sum := 0.0
	for _, it := range items {
		sum += it.Value
	}
	return sum
}
