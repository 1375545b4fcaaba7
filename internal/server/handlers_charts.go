package server

import (
	"bytes"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fr4nk3nst1ner/salarybarometer/internal/charts"
	"github.com/fr4nk3nst1ner/salarybarometer/internal/errors"
	"github.com/fr4nk3nst1ner/salarybarometer/internal/models"
)

func (s *Server) handleRoleChart(w http.ResponseWriter, r *http.Request) {
	index, err := indexParam(r)
	if err != nil {
		s.writeError(w, errors.NotFound("Role"))
		return
	}
	stats, err := s.deps.Analytics.RoleStats(index)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if stats.Error != "" {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	var buf bytes.Buffer
	switch kind := chi.URLParam(r, "kind"); kind {
	case "salary":
		err = charts.Bar(&buf, "Распределение зарплат", charts.FromRanges(stats.SalaryDist))
	case "experience":
		err = charts.Pie(&buf, "Распределение опыта", charts.BucketsFromNamedValues(stats.ExperienceDist))
	case "employment":
		err = charts.Bar(&buf, "Тип занятости", charts.FromNamedCounts(stats.EmploymentDist))
	case "schedule":
		err = charts.Bar(&buf, "График работы", charts.FromNamedCounts(stats.ScheduleDist))
	case "bubble":
		err = charts.Scatter(&buf, "Зарплата и опыт", stats.BubbleData)
	default:
		s.writeError(w, errors.NotFound("Chart "+kind))
		return
	}
	s.writePNG(w, &buf, err)
}

func (s *Server) handleOverallChart(w http.ResponseWriter, r *http.Request) {
	overall := s.deps.Analytics.OverallStats()

	var buf bytes.Buffer
	var err error
	switch kind := chi.URLParam(r, "kind"); kind {
	case "experience":
		err = charts.Pie(&buf, "Распределение опыта", charts.BucketsFromNamedValues(overall.ExperienceDist))
	case "employment":
		err = charts.Bar(&buf, "Распределение по типу занятости", charts.FromNamedCounts(overall.EmploymentDist))
	case "schedule":
		err = charts.Bar(&buf, "Распределение по графику работы", charts.FromNamedCounts(overall.ScheduleDist))
	default:
		s.writeError(w, errors.NotFound("Chart "+kind))
		return
	}
	s.writePNG(w, &buf, err)
}

func (s *Server) writePNG(w http.ResponseWriter, buf *bytes.Buffer, err error) {
	if errors.Is(err, charts.ErrNoData) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		s.writeError(w, errors.Wrap(err, "render chart"))
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(buf.Bytes())
}

// chartAvailable reports whether a distribution has anything to draw
func chartAvailable(counts []models.NamedCount) bool {
	for _, c := range counts {
		if c.Count > 0 {
			return true
		}
	}
	return false
}
