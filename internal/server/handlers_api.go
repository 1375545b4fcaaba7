package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fr4nk3nst1ner/salarybarometer/internal/errors"
	"github.com/fr4nk3nst1ner/salarybarometer/internal/models"
)

type healthResponse struct {
	Status     string     `json:"status"`
	Vacancies  int        `json:"vacancies"`
	FetchedAt  *time.Time `json:"fetched_at,omitempty"`
	RunID      string     `json:"run_id,omitempty"`
	Blocks     int        `json:"blocks"`
	Collecting bool       `json:"collecting"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok", Blocks: len(s.deps.Book.Blocks())}
	if s.deps.Snapshots != nil {
		if snap := s.deps.Snapshots.Current(); snap != nil {
			resp.Vacancies = len(snap.Items)
			resp.RunID = snap.Meta.RunID
			if !snap.Meta.FetchedAt.IsZero() {
				fetched := snap.Meta.FetchedAt
				resp.FetchedAt = &fetched
			}
		}
	}
	if s.deps.Collector != nil {
		resp.Collecting = s.deps.Collector.Running()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRoles(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.Analytics.Roles())
}

func (s *Server) handleRoleStats(w http.ResponseWriter, r *http.Request) {
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
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleOverallStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.Analytics.OverallStats())
}

func (s *Server) handleBlocks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.Book.Blocks())
}

func (s *Server) handleBlock(w http.ResponseWriter, r *http.Request) {
	index, err := indexParam(r)
	if err != nil {
		s.writeError(w, errors.NotFound("Block"))
		return
	}
	block, err := s.deps.Book.Block(index)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, block)
}

func (s *Server) handleCompetitors(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.Analytics.Competitors())
}

// handleCollect starts a collection in the background
func (s *Server) handleCollect(w http.ResponseWriter, r *http.Request) {
	if s.deps.Collector == nil {
		s.writeError(w, errors.New(errors.CodeNotFound, "collection is not configured"))
		return
	}
	if err := s.deps.Collector.Start(s.baseCtx); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "started"})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/api/") || strings.HasPrefix(r.URL.Path, "/charts/") {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Not Found"})
		return
	}
	// unknown pages land on the default view
	http.Redirect(w, r, s.deps.Views.Default().Path, http.StatusFound)
}

func indexParam(r *http.Request) (int, error) {
	return strconv.Atoi(chi.URLParam(r, "index"))
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed: %v", err)
	}

	msg := err.Error()
	var appErr *errors.AppError
	if errors.As(err, &appErr) {
		msg = appErr.Message
	}
	writeJSON(w, status, models.ErrorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
