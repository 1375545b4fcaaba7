package dashboard

import (
	"context"
	"net/http"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/fr4nk3nst1ner/salarybarometer/internal/errors"
	"github.com/fr4nk3nst1ner/salarybarometer/internal/logging"
	"github.com/fr4nk3nst1ner/salarybarometer/internal/models"
)

// ErrSuperseded is returned for a request that a newer one of its category replaced
var ErrSuperseded = errors.New(errors.CodeConflict, "request superseded")

// Category is a group of fetches that supersede each other
type Category string

const (
	CatRoles       Category = "roles"
	CatStats       Category = "stats"
	CatOverall     Category = "overall"
	CatBlocks      Category = "blocks"
	CatBlock       Category = "block"
	CatCompetitors Category = "competitors"
)

// messages shown when the API cannot be reached
var transportMessages = map[Category]string{
	CatRoles:       "Не удалось загрузить список профессий",
	CatStats:       "Не удалось загрузить статистику",
	CatOverall:     "Не удалось загрузить общую статистику",
	CatBlocks:      "Ошибка загрузки данных Б1",
	CatBlock:       "Ошибка загрузки блока",
	CatCompetitors: "Не удалось загрузить данные по конкурентам",
}

// State is everything the renderer needs. Selected indexes are -1 when unset.
type State struct {
	View          View
	Roles         []models.Role
	SelectedRole  int
	Stats         *models.RoleStats
	Overall       *models.OverallStats
	Blocks        []models.BlockRef
	SelectedBlock int
	Block         *models.Block
	Competitors   *models.CompetitorsReport
	Loading       map[Category]bool
	Errors        map[Category]string
}

// Controller owns the view state. Every category carries a request token: a new
// fetch cancels the one in flight and responses with an outdated token are dropped.
type Controller struct {
	client Fetcher
	router *Router
	log    *logging.Logger

	mu      sync.Mutex
	state   State
	tokens  map[Category]uint64
	cancels map[Category]context.CancelFunc
}

// NewController creates a controller showing the router's default view
func NewController(client Fetcher, router *Router, log *logging.Logger) *Controller {
	return &Controller{
		client: client,
		router: router,
		log:    log,
		state: State{
			View:          router.Default(),
			SelectedRole:  -1,
			SelectedBlock: -1,
			Loading:       map[Category]bool{},
			Errors:        map[Category]string{},
		},
		tokens:  map[Category]uint64{},
		cancels: map[Category]context.CancelFunc{},
	}
}

// State returns a copy of the current state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.state
	s.Loading = make(map[Category]bool, len(c.state.Loading))
	for k, v := range c.state.Loading {
		s.Loading[k] = v
	}
	s.Errors = make(map[Category]string, len(c.state.Errors))
	for k, v := range c.state.Errors {
		s.Errors[k] = v
	}
	return s
}

// Start opens the default view
func (c *Controller) Start(ctx context.Context) error {
	_, err := c.Navigate(ctx, c.router.Default().Path)
	return err
}

// Navigate switches to the view routed at path and loads what it shows.
// Independent loads run concurrently.
func (c *Controller) Navigate(ctx context.Context, path string) (View, error) {
	view, ok := c.router.Resolve(path)
	if !ok {
		c.log.Debug("no view at %s, showing %s", path, view.Path)
	}

	c.mu.Lock()
	c.state.View = view
	haveRoles := len(c.state.Roles) > 0
	haveBlocks := len(c.state.Blocks) > 0
	c.mu.Unlock()

	// loads are independent; one failing must not cancel the others
	var g errgroup.Group
	switch view.Name {
	case KindBarometer:
		if !haveRoles {
			g.Go(func() error { return c.loadRoles(ctx, view) })
		}
		if overall, found := c.router.ByKind(KindOverall); found {
			g.Go(func() error { return c.loadOverall(ctx, overall) })
		}
	case KindB1:
		if !haveBlocks {
			g.Go(func() error { return c.loadBlocks(ctx, view) })
		}
	case KindCompetitors:
		g.Go(func() error { return c.loadCompetitors(ctx, view) })
	case KindOverall:
		g.Go(func() error { return c.loadOverall(ctx, view) })
	}
	return view, g.Wait()
}

// SelectRole loads the statistics of the role at index
func (c *Controller) SelectRole(ctx context.Context, index int) error {
	view, ok := c.router.ByKind(KindBarometer)
	if !ok {
		return errors.NotFound("Barometer view")
	}

	var stats models.RoleStats
	selectRole := func(s *State) { s.SelectedRole = index }
	err := c.fetch(ctx, CatStats, view.ItemPath(index), &stats, selectRole, func(s *State, err error) {
		switch {
		case err != nil:
			s.Stats = nil
		case stats.Error != "":
			// an error body counts as a failed fetch
			s.Stats = nil
			s.Errors[CatStats] = stats.Error
		default:
			s.Stats = &stats
		}
	})
	if err == nil && stats.Error != "" {
		return &APIError{Status: http.StatusOK, Message: stats.Error}
	}
	return err
}

// SelectBlock loads the B1 block at index
func (c *Controller) SelectBlock(ctx context.Context, index int) error {
	view, ok := c.router.ByKind(KindB1)
	if !ok {
		return errors.NotFound("B1 view")
	}

	var block models.Block
	selectBlock := func(s *State) { s.SelectedBlock = index }
	return c.fetch(ctx, CatBlock, view.ItemPath(index), &block, selectBlock, func(s *State, err error) {
		if err != nil {
			s.Block = nil
			return
		}
		s.Block = &block
	})
}

func (c *Controller) loadRoles(ctx context.Context, view View) error {
	var roles []models.Role
	err := c.fetch(ctx, CatRoles, view.ListPath, &roles, nil, func(s *State, err error) {
		if err == nil {
			s.Roles = roles
		}
	})
	if err != nil || len(roles) == 0 {
		return ignoreSuperseded(err)
	}
	return ignoreSuperseded(c.SelectRole(ctx, 0))
}

func (c *Controller) loadOverall(ctx context.Context, view View) error {
	var overall models.OverallStats
	return ignoreSuperseded(c.fetch(ctx, CatOverall, view.FetchPath, &overall, nil, func(s *State, err error) {
		if err == nil {
			s.Overall = &overall
		}
	}))
}

func (c *Controller) loadBlocks(ctx context.Context, view View) error {
	var blocks []models.BlockRef
	err := c.fetch(ctx, CatBlocks, view.ListPath, &blocks, nil, func(s *State, err error) {
		if err == nil {
			s.Blocks = blocks
		}
	})
	if err != nil || len(blocks) == 0 {
		return ignoreSuperseded(err)
	}
	return ignoreSuperseded(c.SelectBlock(ctx, 0))
}

func (c *Controller) loadCompetitors(ctx context.Context, view View) error {
	var report models.CompetitorsReport
	return ignoreSuperseded(c.fetch(ctx, CatCompetitors, view.FetchPath, &report, nil, func(s *State, err error) {
		if err == nil {
			s.Competitors = &report
		}
	}))
}

// fetch runs one request of a category. prepare runs under the lock together with
// issuing the token; apply runs under the lock only when the response is still the
// latest of its category.
func (c *Controller) fetch(ctx context.Context, cat Category, path string, out interface{}, prepare func(*State), apply func(*State, error)) error {
	rctx, token := c.begin(ctx, cat, prepare)
	err := c.client.GetJSON(rctx, path, out)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.tokens[cat] != token {
		c.log.Debug("dropping stale %s response for %s", cat, path)
		return ErrSuperseded
	}
	if cancel := c.cancels[cat]; cancel != nil {
		cancel()
		delete(c.cancels, cat)
	}
	c.state.Loading[cat] = false

	if err != nil {
		c.state.Errors[cat] = errorMessage(cat, err)
		c.log.Warn("%s request %s failed: %v", cat, path, err)
	}
	apply(&c.state, err)
	return err
}

func (c *Controller) begin(ctx context.Context, cat Category, prepare func(*State)) (context.Context, uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if prepare != nil {
		prepare(&c.state)
	}
	if cancel := c.cancels[cat]; cancel != nil {
		cancel()
	}
	c.tokens[cat]++
	rctx, cancel := context.WithCancel(ctx)
	c.cancels[cat] = cancel
	c.state.Loading[cat] = true
	delete(c.state.Errors, cat)
	return rctx, c.tokens[cat]
}

func ignoreSuperseded(err error) error {
	if errors.Is(err, ErrSuperseded) {
		return nil
	}
	return err
}

// errorMessage surfaces API error bodies verbatim and hides transport details
// behind a localized message
func errorMessage(cat Category, err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	if msg, ok := transportMessages[cat]; ok {
		return msg
	}
	return "Не удалось загрузить данные"
}
