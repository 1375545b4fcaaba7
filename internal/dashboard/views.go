package dashboard

import (
	"fmt"
	"strings"

	"github.com/fr4nk3nst1ner/salarybarometer/internal/aggregate"
	"github.com/fr4nk3nst1ner/salarybarometer/internal/errors"
)

// Kind identifies what a view shows
type Kind string

const (
	KindBarometer   Kind = "barometer"
	KindB1          Kind = "b1"
	KindCompetitors Kind = "competitors"
	KindOverall     Kind = "overall"
)

// Field is a metric card of a view
type Field struct {
	Key   string
	Label string
}

// Value picks the field out of summary metrics
func (f Field) Value(m aggregate.SummaryMetrics) *float64 {
	switch f.Key {
	case "avg":
		return m.Avg
	case "median":
		return m.Median
	case "min":
		return m.Min
	case "max":
		return m.Max
	}
	return nil
}

// View describes one report page. ListPath, when set, returns the selectable
// items and FetchPath is a format string taking the selected index.
type View struct {
	Name      Kind
	Title     string
	Path      string
	ListPath  string
	FetchPath string
	Fields    []Field
}

// ItemPath returns the fetch path for the selected index
func (v View) ItemPath(index int) string {
	if !strings.Contains(v.FetchPath, "%d") {
		return v.FetchPath
	}
	return fmt.Sprintf(v.FetchPath, index)
}

var metricFields = []Field{
	{Key: "avg", Label: "Среднее"},
	{Key: "median", Label: "Медиана"},
	{Key: "min", Label: "Минимум"},
	{Key: "max", Label: "Максимум"},
}

// DefaultViews are the report pages in menu order
var DefaultViews = []View{
	{
		Name:      KindBarometer,
		Title:     "Барометр вакансий ВВСС",
		Path:      "/",
		ListPath:  "/api/roles",
		FetchPath: "/api/stats/%d",
		Fields:    metricFields,
	},
	{
		Name:      KindB1,
		Title:     "Обзор зарплат Б1",
		Path:      "/b1",
		ListPath:  "/api/b1/blocks",
		FetchPath: "/api/b1/blocks/%d",
		Fields:    metricFields,
	},
	{
		Name:      KindCompetitors,
		Title:     "Конкуренты",
		Path:      "/competitors",
		FetchPath: "/api/competitors",
	},
	{
		Name:      KindOverall,
		Title:     "Общая статистика",
		Path:      "/overall",
		FetchPath: "/api/overall-stats",
		Fields:    metricFields,
	},
}

// Router maps URL paths to views. The first view is the fallback.
type Router struct {
	views  []View
	byPath map[string]int
}

// NewRouter builds a router; paths must be unique
func NewRouter(views []View) (*Router, error) {
	if len(views) == 0 {
		return nil, errors.ConfigInvalid("no views configured")
	}
	r := &Router{views: views, byPath: make(map[string]int, len(views))}
	for i, v := range views {
		p := cleanPath(v.Path)
		if _, dup := r.byPath[p]; dup {
			return nil, errors.ConfigInvalid("duplicate view path " + p)
		}
		r.byPath[p] = i
	}
	return r, nil
}

// DefaultRouter routes the built-in views
func DefaultRouter() *Router {
	r, _ := NewRouter(DefaultViews)
	return r
}

// Resolve returns the view for path; unknown paths fall back to the first view
// with ok=false
func (r *Router) Resolve(path string) (View, bool) {
	if i, ok := r.byPath[cleanPath(path)]; ok {
		return r.views[i], true
	}
	return r.Default(), false
}

// Default returns the fallback view
func (r *Router) Default() View {
	return r.views[0]
}

// Views returns all views in menu order
func (r *Router) Views() []View {
	return append([]View(nil), r.views...)
}

// ByKind returns the first view of the given kind
func (r *Router) ByKind(kind Kind) (View, bool) {
	for _, v := range r.views {
		if v.Name == kind {
			return v, true
		}
	}
	return View{}, false
}

func cleanPath(p string) string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	p = "/" + strings.Trim(strings.TrimSpace(p), "/")
	return p
}
