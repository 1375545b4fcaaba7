package server

import (
	"fmt"
	"html/template"
	"net/http"
	"strconv"

	"github.com/dustin/go-humanize"

	"github.com/fr4nk3nst1ner/salarybarometer/internal/aggregate"
	"github.com/fr4nk3nst1ner/salarybarometer/internal/b1"
	"github.com/fr4nk3nst1ner/salarybarometer/internal/dashboard"
	"github.com/fr4nk3nst1ner/salarybarometer/internal/models"
	"github.com/fr4nk3nst1ner/salarybarometer/internal/utils"
)

var templateFuncs = template.FuncMap{
	"rub": func(v *float64) string {
		if v == nil {
			return "—"
		}
		return utils.FormatRubles(*v)
	},
	"rubv": utils.FormatRubles,
	"comma": func(n int) string {
		return humanize.Comma(int64(n))
	},
	"pct": func(v float64) string {
		return strconv.FormatFloat(v, 'f', 1, 64) + "%"
	},
	"field": func(f dashboard.Field, m *aggregate.SummaryMetrics) *float64 {
		if m == nil {
			return nil
		}
		return f.Value(*m)
	},
	"band": dashboard.MarketBand,
	"tableValue": func(m models.MonthlySalary) string {
		if v, ok := m.TableValue(); ok {
			return utils.FormatRubles(v)
		}
		return "—"
	},
	"anyCount": chartAvailable,
	"deref": func(v *float64) float64 {
		if v == nil {
			return 0
		}
		return *v
	},
	"dict": func(kv ...any) (map[string]any, error) {
		if len(kv)%2 != 0 {
			return nil, fmt.Errorf("dict: odd number of arguments")
		}
		m := make(map[string]any, len(kv)/2)
		for i := 0; i < len(kv); i += 2 {
			key, ok := kv[i].(string)
			if !ok {
				return nil, fmt.Errorf("dict: key %v is not a string", kv[i])
			}
			m[key] = kv[i+1]
		}
		return m, nil
	},
}

// market is the comparison card of a role page
type market struct {
	Pulkovo  float64
	Market   float64
	Position float64
	Ticks    aggregate.ScaleTicks
}

type pageData struct {
	View    dashboard.View
	Views   []dashboard.View
	Error   string
	Options []option

	Index   int
	Stats   *models.RoleStats
	Market  *market
	Overall *models.OverallStats

	Block        *models.Block
	BlockMetrics *aggregate.SummaryMetrics

	Competitors *models.CompetitorsReport
}

type option struct {
	Index    int
	Name     string
	Selected bool
}

func (s *Server) handleView(view dashboard.View) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := pageData{View: view, Views: s.deps.Views.Views()}
		index := viewIndex(r)
		data.Index = index

		switch view.Name {
		case dashboard.KindBarometer:
			s.barometerPage(&data, index)
		case dashboard.KindB1:
			s.b1Page(&data, index)
		case dashboard.KindCompetitors:
			data.Competitors = s.deps.Analytics.Competitors()
		case dashboard.KindOverall:
			data.Overall = s.deps.Analytics.OverallStats()
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := s.templates.ExecuteTemplate(w, string(view.Name)+".html", data); err != nil {
			s.log.Error("template %s: %v", view.Name, err)
			http.Error(w, "Template error", http.StatusInternalServerError)
		}
	}
}

// viewIndex reads the selected item from ?i=. Absent means the first item; a
// malformed value maps to -1 so the page reports it not found, as the API does.
func viewIndex(r *http.Request) int {
	raw := r.URL.Query().Get("i")
	if raw == "" {
		return 0
	}
	index, err := strconv.Atoi(raw)
	if err != nil {
		return -1
	}
	return index
}

func (s *Server) barometerPage(data *pageData, index int) {
	for i, role := range s.deps.Analytics.Roles() {
		data.Options = append(data.Options, option{Index: i, Name: role.Name, Selected: i == index})
	}
	data.Overall = s.deps.Analytics.OverallStats()

	stats, err := s.deps.Analytics.RoleStats(index)
	if err != nil {
		data.Error = err.Error()
		return
	}
	if stats.Error != "" {
		data.Error = stats.Error
		return
	}
	data.Stats = stats

	m := *stats.Metrics
	if stats.Comparison != nil && stats.Comparison.Pulkovo > 0 && m.HasRange() {
		ticks, _ := aggregate.Ticks(m)
		data.Market = &market{
			Pulkovo:  stats.Comparison.Pulkovo,
			Market:   stats.Comparison.Market,
			Position: aggregate.ComputePosition(stats.Comparison.Pulkovo, *m.Min, *m.Max),
			Ticks:    ticks,
		}
	}
}

func (s *Server) b1Page(data *pageData, index int) {
	for i, block := range s.deps.Book.Blocks() {
		data.Options = append(data.Options, option{Index: i, Name: block.Name, Selected: i == index})
	}
	if len(data.Options) == 0 {
		data.Error = "Данные Б1 не загружены"
		return
	}

	block, err := s.deps.Book.Block(index)
	if err != nil {
		data.Error = err.Error()
		return
	}
	metrics := b1.Summary(*block)
	data.Block = block
	data.BlockMetrics = &metrics
}
