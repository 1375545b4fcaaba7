// Package collector pulls vacancies for every tracked role group from hh.ru and
// stores them as a snapshot.
package collector

import (
	"context"
	"io"
	"sync/atomic"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/fr4nk3nst1ner/salarybarometer/internal/catalog"
	"github.com/fr4nk3nst1ner/salarybarometer/internal/errors"
	"github.com/fr4nk3nst1ner/salarybarometer/internal/hh"
	"github.com/fr4nk3nst1ner/salarybarometer/internal/logging"
	"github.com/fr4nk3nst1ner/salarybarometer/internal/models"
	"github.com/fr4nk3nst1ner/salarybarometer/internal/utils"
)

// ErrAlreadyRunning is returned when a run is requested while another one is in progress
var ErrAlreadyRunning = errors.Conflict("collection already running")

// Searcher fetches one page of vacancies
type Searcher interface {
	Search(ctx context.Context, p hh.SearchParams) (*hh.SearchPage, error)
}

// Saver persists a snapshot and returns where it went
type Saver interface {
	Save(snap *models.Snapshot) (string, error)
}

// Options tune a collection run
type Options struct {
	Area         int
	PerPage      int
	MaxPages     int
	RequestDelay time.Duration
	Parallelism  int
	// Progress draws a progress bar on ProgressOut (stderr when nil)
	Progress    bool
	ProgressOut io.Writer
}

// GroupResult reports one role group of a run
type GroupResult struct {
	Role    string `json:"role"`
	Pages   int    `json:"pages"`
	Fetched int    `json:"fetched"`
	Error   string `json:"error,omitempty"`
}

// RunResult reports a finished run
type RunResult struct {
	RunID      string        `json:"run_id"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	Total      int           `json:"total"`
	Duplicates int           `json:"duplicates"`
	Groups     []GroupResult `json:"groups"`
	Path       string        `json:"path,omitempty"`
}

// Collector runs collections; at most one at a time
type Collector struct {
	searcher Searcher
	saver    Saver
	roles    []catalog.RoleGroup
	opts     Options
	log      *logging.Logger
	running  atomic.Bool
	now      func() time.Time
}

// New creates a collector for the given role groups
func New(searcher Searcher, saver Saver, roles []catalog.RoleGroup, opts Options, log *logging.Logger) *Collector {
	if opts.Parallelism <= 0 {
		opts.Parallelism = 1
	}
	return &Collector{
		searcher: searcher,
		saver:    saver,
		roles:    roles,
		opts:     opts,
		log:      log,
		now:      time.Now,
	}
}

// Running reports whether a run is in progress
func (c *Collector) Running() bool {
	return c.running.Load()
}

// TryStart claims the collector for a run carried out by RunClaimed.
// It reports false when a run is already in progress.
func (c *Collector) TryStart() bool {
	return c.running.CompareAndSwap(false, true)
}

// Run fetches every role group, de-duplicates vacancies by id and saves the snapshot.
// A failing page ends its group only. A run that fetched nothing saves nothing.
func (c *Collector) Run(ctx context.Context) (*RunResult, error) {
	if !c.TryStart() {
		return nil, ErrAlreadyRunning
	}
	return c.RunClaimed(ctx)
}

// RunClaimed performs a run claimed with TryStart and releases the claim when done
func (c *Collector) RunClaimed(ctx context.Context) (*RunResult, error) {
	defer c.running.Store(false)

	result := &RunResult{
		RunID:     uuid.NewString(),
		StartedAt: c.now(),
		Groups:    make([]GroupResult, len(c.roles)),
	}
	c.log.Info("collection %s started for %d role groups", result.RunID, len(c.roles))

	bar := pb.New(len(c.roles))
	if c.opts.Progress {
		if c.opts.ProgressOut != nil {
			bar.SetWriter(c.opts.ProgressOut)
		}
	} else {
		bar.SetWriter(io.Discard)
	}
	bar.Start()
	defer bar.Finish()

	fetched := make([][]models.Vacancy, len(c.roles))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.Parallelism)

	for i, role := range c.roles {
		i, role := i, role
		g.Go(func() error {
			items, gr := c.fetchGroup(gctx, role)
			fetched[i] = items
			result.Groups[i] = gr
			bar.Increment()
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "collection cancelled")
	}

	items, dups := dedupe(fetched)
	result.Total = len(items)
	result.Duplicates = dups
	result.FinishedAt = c.now()

	if len(items) == 0 {
		c.log.Warn("collection %s fetched no vacancies, keeping the previous snapshot", result.RunID)
		return result, errors.ExternalServiceError("hh.ru", errors.New(errors.CodeNotFound, "no vacancies fetched"))
	}

	path, err := c.saver.Save(&models.Snapshot{
		Items: items,
		Meta: models.SnapshotMeta{
			RunID:        result.RunID,
			FetchedAt:    result.FinishedAt,
			TotalFetched: len(items),
			Groups:       len(c.roles),
		},
	})
	if err != nil {
		return result, errors.Wrap(err, "save snapshot")
	}
	result.Path = path

	c.log.Info("collection %s saved %d vacancies (%d duplicates dropped) to %s",
		result.RunID, result.Total, dups, path)
	return result, nil
}

func (c *Collector) fetchGroup(ctx context.Context, role catalog.RoleGroup) ([]models.Vacancy, GroupResult) {
	gr := GroupResult{Role: role.Name}
	var items []models.Vacancy

	for page := 0; page < c.opts.MaxPages; page++ {
		if err := sleep(ctx, c.opts.RequestDelay); err != nil {
			gr.Error = err.Error()
			break
		}

		c.log.Debug("fetching %s (roles %v), page %d", role.Name, role.IDs, page)
		resp, err := c.searcher.Search(ctx, hh.SearchParams{
			Area:              c.opts.Area,
			PerPage:           c.opts.PerPage,
			Page:              page,
			ProfessionalRoles: role.IDs,
		})
		if err != nil {
			c.log.Warn("%s page %d failed: %v", role.Name, page, err)
			gr.Error = err.Error()
			break
		}

		gr.Pages++
		items = append(items, resp.Items...)

		if len(resp.Items) < c.opts.PerPage {
			break
		}
		if resp.Pages > 0 && page+1 >= resp.Pages {
			break
		}
	}

	gr.Fetched = len(items)
	c.log.Info("group %s done: %d vacancies over %d pages", role.Name, gr.Fetched, gr.Pages)
	return items, gr
}

// dedupe flattens the per-group results keeping the first occurrence of every id
// and cleans search highlight markup out of the text fields
func dedupe(groups [][]models.Vacancy) ([]models.Vacancy, int) {
	seen := make(map[string]bool)
	var out []models.Vacancy
	dups := 0

	for _, items := range groups {
		for _, v := range items {
			if v.ID != "" {
				if seen[v.ID] {
					dups++
					continue
				}
				seen[v.ID] = true
			}
			v.Name = utils.StripMarkup(v.Name)
			if v.Snippet != nil {
				snippet := *v.Snippet
				snippet.Requirement = utils.StripMarkup(snippet.Requirement)
				snippet.Responsibility = utils.StripMarkup(snippet.Responsibility)
				v.Snippet = &snippet
			}
			out = append(out, v)
		}
	}
	return out, dups
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
