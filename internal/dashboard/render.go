package dashboard

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/pterm/pterm"

	"github.com/fr4nk3nst1ner/salarybarometer/internal/aggregate"
	"github.com/fr4nk3nst1ner/salarybarometer/internal/b1"
	"github.com/fr4nk3nst1ner/salarybarometer/internal/models"
	"github.com/fr4nk3nst1ner/salarybarometer/internal/utils"
)

const (
	scaleWidth = 48
	noValue    = "—"
)

// Market bands of the comparison scale, by marker position
const (
	BandBelow = "Ниже рынка"
	BandIn    = "В рынке"
	BandAbove = "Выше рынка"
)

// MarketBand names the band a scale position falls into
func MarketBand(pos float64) string {
	switch {
	case pos < 25:
		return BandBelow
	case pos > 75:
		return BandAbove
	default:
		return BandIn
	}
}

// Renderer draws a State on a terminal
type Renderer struct {
	w io.Writer
}

// NewRenderer creates a renderer writing to w
func NewRenderer(w io.Writer) *Renderer {
	return &Renderer{w: w}
}

// Render draws the current view
func (r *Renderer) Render(s State) error {
	r.println(pterm.DefaultHeader.WithFullWidth().Sprint(s.View.Title))

	switch s.View.Name {
	case KindBarometer:
		return r.barometer(s)
	case KindB1:
		return r.b1(s)
	case KindCompetitors:
		return r.competitors(s)
	case KindOverall:
		return r.overall(s)
	}
	return nil
}

func (r *Renderer) barometer(s State) error {
	if s.Overall != nil {
		r.println("Всего вакансий: " + humanize.Comma(int64(s.Overall.TotalCount)))
	}
	r.status(s, CatRoles)
	if s.SelectedRole >= 0 && s.SelectedRole < len(s.Roles) {
		r.println(pterm.DefaultSection.Sprint(s.Roles[s.SelectedRole].Name))
	}
	if !r.status(s, CatStats) || s.Stats == nil || s.Stats.Metrics == nil {
		return nil
	}

	stats := s.Stats
	r.println("Всего вакансий по профессии: " + strconv.Itoa(stats.Metrics.Count))
	if stats.Comparison != nil {
		r.marketCard(*stats.Metrics, *stats.Comparison)
	}
	if err := r.metrics(s.View.Fields, *stats.Metrics); err != nil {
		return err
	}
	if stats.FilterStats != nil {
		r.println(fmt.Sprintf("Отфильтровано выбросов: %d из %d",
			stats.FilterStats.TotalBeforeFilter-stats.FilterStats.FilteredCount, stats.FilterStats.TotalBeforeFilter))
	}

	if err := r.bars("Распределение зарплат", rangeBars(stats.SalaryDist)); err != nil {
		return err
	}
	if err := r.bars("Распределение опыта", valueBars(stats.ExperienceDist)); err != nil {
		return err
	}
	if err := r.bars("Тип занятости", countBars(stats.EmploymentDist)); err != nil {
		return err
	}
	return r.bars("График работы", countBars(stats.ScheduleDist))
}

func (r *Renderer) b1(s State) error {
	r.println("Региональный обзор Санкт-Петербург 2024")
	r.status(s, CatBlocks)
	if !r.status(s, CatBlock) || s.Block == nil {
		return nil
	}

	r.println(pterm.DefaultSection.Sprint(s.Block.Name))
	r.println("Должностей в блоке: " + strconv.Itoa(len(s.Block.Positions)))
	if err := r.metrics(s.View.Fields, b1.Summary(*s.Block)); err != nil {
		return err
	}

	data := pterm.TableData{{"Должность", "Зарплата в месяц"}}
	for _, p := range s.Block.Positions {
		value := noValue
		if v, ok := p.MonthlySalary.TableValue(); ok {
			value = utils.FormatRubles(v)
		}
		data = append(data, []string{p.Name, value})
	}
	return r.table(data)
}

func (r *Renderer) competitors(s State) error {
	r.println("Сравнение зарплат по компаниям")
	if !r.status(s, CatCompetitors) || s.Competitors == nil {
		return nil
	}

	data := pterm.TableData{{"Название компании", "ЧТС", "Минимальная зарплата", "Максимальная зарплата", "Вакансий", "Положение"}}
	for _, c := range s.Competitors.Rows {
		position := noValue
		if c.Position != nil {
			position = MarketBand(*c.Position)
		}
		data = append(data, []string{
			c.Company,
			humanize.Comma(int64(math.Round(c.HourlyRate))),
			utils.FormatRubles(c.MinSalary),
			utils.FormatRubles(c.MaxSalary),
			strconv.Itoa(c.Vacancies),
			position,
		})
	}
	return r.table(data)
}

func (r *Renderer) overall(s State) error {
	if !r.status(s, CatOverall) || s.Overall == nil {
		return nil
	}
	o := s.Overall
	r.println("Всего вакансий: " + humanize.Comma(int64(o.TotalCount)))
	if o.Metrics != nil {
		if err := r.metrics(s.View.Fields, *o.Metrics); err != nil {
			return err
		}
	}
	if err := r.bars("Распределение опыта", valueBars(o.ExperienceDist)); err != nil {
		return err
	}
	if err := r.bars("Распределение по типу занятости", countBars(o.EmploymentDist)); err != nil {
		return err
	}
	return r.bars("Распределение по графику работы", countBars(o.ScheduleDist))
}

// status prints the loading or error line of a category and reports whether
// its data can be shown
func (r *Renderer) status(s State, cat Category) bool {
	if s.Loading[cat] {
		r.println("Загрузка...")
		return false
	}
	if msg := s.Errors[cat]; msg != "" {
		r.println(pterm.Error.Sprint(msg))
		return false
	}
	return true
}

func (r *Renderer) marketCard(m aggregate.SummaryMetrics, cmp models.Comparison) {
	ticks, ok := aggregate.Ticks(m)
	if !ok || cmp.Pulkovo <= 0 || !m.HasRange() {
		return
	}

	pos := aggregate.ComputePosition(cmp.Pulkovo, *m.Min, *m.Max)
	marker := int(math.Round(pos / 100 * float64(scaleWidth-1)))

	var scale strings.Builder
	for i := 0; i < scaleWidth; i++ {
		switch {
		case i == marker:
			scale.WriteString(pterm.FgLightWhite.Sprint("▼"))
		case i < scaleWidth/4:
			scale.WriteString(pterm.FgRed.Sprint("▬"))
		case i >= scaleWidth*3/4:
			scale.WriteString(pterm.FgGreen.Sprint("▬"))
		default:
			scale.WriteString(pterm.FgYellow.Sprint("▬"))
		}
	}

	r.println(pterm.DefaultSection.WithLevel(2).Sprint("Сравнение с рынком по заработной плате"))
	r.println(fmt.Sprintf("Пулково: %s (%s), рынок: %s",
		utils.FormatRubles(cmp.Pulkovo), MarketBand(pos), utils.FormatRubles(cmp.Market)))
	r.println(scale.String())
	r.println(fmt.Sprintf("%s | %s | %s | %s",
		utils.FormatRubles(ticks.P25), utils.FormatRubles(ticks.Median),
		utils.FormatRubles(ticks.P75), utils.FormatRubles(ticks.Max)))
}

func (r *Renderer) metrics(fields []Field, m aggregate.SummaryMetrics) error {
	if len(fields) == 0 {
		return nil
	}
	header := make([]string, len(fields))
	row := make([]string, len(fields))
	for i, f := range fields {
		header[i] = f.Label
		row[i] = noValue
		if v := f.Value(m); v != nil {
			row[i] = utils.FormatRubles(*v)
		}
	}
	return r.table(pterm.TableData{header, row})
}

func (r *Renderer) table(data pterm.TableData) error {
	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	r.println(out)
	return nil
}

func (r *Renderer) bars(title string, bars pterm.Bars) error {
	r.println(pterm.DefaultSection.WithLevel(2).Sprint(title))
	total := 0
	for _, b := range bars {
		total += b.Value
	}
	if total == 0 {
		r.println("Нет данных")
		return nil
	}
	out, err := pterm.DefaultBarChart.WithBars(bars).WithHorizontal().WithShowValue().Srender()
	if err != nil {
		return err
	}
	r.println(out)
	return nil
}

func (r *Renderer) println(s string) {
	fmt.Fprintln(r.w, s)
}

func rangeBars(in []models.RangeCount) pterm.Bars {
	out := make(pterm.Bars, 0, len(in))
	for _, c := range in {
		out = append(out, pterm.Bar{Label: c.Range, Value: c.Count})
	}
	return out
}

// valueBars drops empty buckets, like the pie chart it replaces
func valueBars(in []models.NamedValue) pterm.Bars {
	out := make(pterm.Bars, 0, len(in))
	for _, c := range in {
		if c.Value > 0 {
			out = append(out, pterm.Bar{Label: c.Name, Value: c.Value})
		}
	}
	return out
}

func countBars(in []models.NamedCount) pterm.Bars {
	out := make(pterm.Bars, 0, len(in))
	for _, c := range in {
		out = append(out, pterm.Bar{Label: c.Name, Value: c.Count})
	}
	return out
}
