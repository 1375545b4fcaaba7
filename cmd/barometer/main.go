package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/pterm/pterm"

	"github.com/fr4nk3nst1ner/salarybarometer/internal/aggregate"
	"github.com/fr4nk3nst1ner/salarybarometer/internal/analytics"
	"github.com/fr4nk3nst1ner/salarybarometer/internal/b1"
	"github.com/fr4nk3nst1ner/salarybarometer/internal/catalog"
	"github.com/fr4nk3nst1ner/salarybarometer/internal/collector"
	"github.com/fr4nk3nst1ner/salarybarometer/internal/config"
	"github.com/fr4nk3nst1ner/salarybarometer/internal/dashboard"
	"github.com/fr4nk3nst1ner/salarybarometer/internal/hh"
	"github.com/fr4nk3nst1ner/salarybarometer/internal/logging"
	"github.com/fr4nk3nst1ner/salarybarometer/internal/notify"
	"github.com/fr4nk3nst1ner/salarybarometer/internal/scheduler"
	"github.com/fr4nk3nst1ner/salarybarometer/internal/server"
	"github.com/fr4nk3nst1ner/salarybarometer/internal/store"
	"github.com/fr4nk3nst1ner/salarybarometer/internal/ui"
)

// printExamples displays usage examples for the program
func printExamples() {
	fmt.Println("\n📋 Salary Barometer Usage Examples 📋")
	fmt.Println("\n1. Serve the API and the dashboard on port 8000, collecting every 12 hours:")
	fmt.Println("   barometer -mode serve -port 8000")

	fmt.Println("\n2. Print the barometer of the third role from a running instance:")
	fmt.Println("   barometer -mode report -api http://localhost:8000 -role 2")

	fmt.Println("\n3. Print a B1 block or the competitors table:")
	fmt.Println("   barometer -mode report -view /b1 -block 1")
	fmt.Println("   barometer -mode report -view /competitors")

	fmt.Println("\n4. Collect vacancies once into ./data with a progress bar:")
	fmt.Println("   barometer -mode collect -data ./data")

	fmt.Println("\n5. Obtain an hh.ru access token (HH_CLIENT_ID and HH_CLIENT_SECRET must be set):")
	fmt.Println("   barometer -mode auth")
	fmt.Println()
}

type options struct {
	mode    string
	view    string
	role    int
	block   int
	code    string
	silence bool
}

func main() {
	mode := flag.String("mode", "serve", "Mode to run: serve, report, collect, auth")
	port := flag.Int("port", 0, "Port to listen on (overrides PORT)")
	dataDir := flag.String("data", "", "Snapshot directory (overrides DATA_DIR)")
	apiURL := flag.String("api", "", "Barometer API used by report mode (overrides BAROMETER_API_URL)")
	view := flag.String("view", "/", "View printed by report mode: /, /b1, /competitors, /overall")
	role := flag.Int("role", 0, "Role index shown by the barometer view")
	block := flag.Int("block", 0, "Block index shown by the B1 view")
	code := flag.String("code", "", "Authorization code to exchange in auth mode")
	examples := flag.Bool("examples", false, "Show usage examples")

	// Banner control flags (two aliases for the same functionality)
	silence := flag.Bool("silence", false, "Silence the banner")
	noBanner := flag.Bool("nobanner", false, "Silence the banner (alias for -silence)")

	flag.Parse()

	ui.PrintBanner(*silence || *noBanner)

	if *examples {
		printExamples()
		return
	}

	// .env is optional, the environment wins
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}
	if *dataDir != "" {
		cfg.Paths.DataDir = *dataDir
	}
	if *apiURL != "" {
		cfg.Dashboard.APIURL = strings.TrimRight(*apiURL, "/")
	}

	logger := logging.New(os.Stderr, logging.ParseLevel(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := options{mode: *mode, view: *view, role: *role, block: *block, code: *code, silence: *silence || *noBanner}
	if err := run(ctx, cfg, logger, opts); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *logging.Logger, opts options) error {
	switch opts.mode {
	case "serve":
		return runServe(ctx, cfg, logger)
	case "report":
		return runReport(ctx, cfg, logger, opts)
	case "collect":
		return runCollect(ctx, cfg, logger, opts)
	case "auth":
		return runAuth(ctx, cfg, opts)
	default:
		return fmt.Errorf("unknown mode %q, expected serve, report, collect or auth", opts.mode)
	}
}

func newHHClient(cfg *config.Config) *hh.Client {
	return hh.New(hh.Options{
		BaseURL:      cfg.HH.BaseURL,
		OAuthURL:     cfg.HH.OAuthURL,
		UserAgent:    cfg.HH.UserAgent,
		AccessToken:  cfg.HH.AccessToken,
		ClientID:     cfg.HH.ClientID,
		ClientSecret: cfg.HH.ClientSecret,
		RedirectURI:  cfg.HH.RedirectURI,
		ProxyURL:     cfg.HH.ProxyURL,
		Timeout:      cfg.HH.Timeout,
	})
}

func newPipelineFromConfig(cfg *config.Config, cat *catalog.Catalog, st *store.Store, logger *logging.Logger, progress bool) *pipeline {
	col := collector.New(newHHClient(cfg), st, cat.Roles, collector.Options{
		Area:         cfg.HH.Area,
		PerPage:      cfg.HH.PerPage,
		MaxPages:     cfg.HH.MaxPages,
		RequestDelay: cfg.HH.RequestDelay,
		Parallelism:  cfg.Collector.Parallelism,
		Progress:     progress,
	}, logger)

	return &pipeline{
		collector: col,
		store:     st,
		notifier:  notify.NewTelegram(cfg.Telegram.BotToken, cfg.Telegram.ChatID, logger),
		log:       logger,
	}
}

// openStore loads the newest snapshot; a broken file is logged and the store starts empty
func openStore(cfg *config.Config, logger *logging.Logger) *store.Store {
	st := store.New(cfg.Paths.DataDir)
	snap, err := st.Reload()
	if err != nil {
		logger.Warn("loading snapshot from %s: %v", cfg.Paths.DataDir, err)
		return st
	}
	logger.Info("loaded %d vacancies from %s", len(snap.Items), cfg.Paths.DataDir)
	return st
}

func openBook(path string, logger *logging.Logger) *b1.Book {
	if path == "" {
		return b1.Empty()
	}
	book, err := b1.Open(path)
	if err != nil {
		logger.Warn("B1 data unavailable: %v", err)
		return b1.Empty()
	}
	logger.Info("loaded %d B1 blocks from %s", len(book.Blocks()), path)
	return book
}

func newAnalytics(cfg *config.Config, cat *catalog.Catalog, st *store.Store) *analytics.Service {
	return analytics.New(cat, st, analytics.Options{
		OutlierMultiplier: cfg.Analytics.OutlierMultiplier,
		HistogramBins:     cfg.Analytics.HistogramBins,
	})
}

func runServe(ctx context.Context, cfg *config.Config, logger *logging.Logger) error {
	cat, err := catalog.Load(cfg.Paths.CatalogFile)
	if err != nil {
		return err
	}
	st := openStore(cfg, logger)
	p := newPipelineFromConfig(cfg, cat, st, logger, false)

	srv, err := server.New(server.Deps{
		Analytics: newAnalytics(cfg, cat, st),
		Book:      openBook(cfg.Paths.B1File, logger),
		Snapshots: st,
		Collector: p,
		Views:     dashboard.DefaultRouter(),
		Log:       logger,
	})
	if err != nil {
		return err
	}

	sched := scheduler.New("collect", cfg.Collector.Interval, cfg.Collector.RunOnStart, p.Collect, logger)
	go sched.Run(ctx)

	return srv.Run(ctx, cfg.Server.Addr())
}

func runReport(ctx context.Context, cfg *config.Config, logger *logging.Logger, opts options) error {
	client := dashboard.NewClient(cfg.Dashboard.APIURL, cfg.Dashboard.Timeout)
	ctrl := dashboard.NewController(client, dashboard.DefaultRouter(), logger)

	view, err := ctrl.Navigate(ctx, opts.view)
	if err != nil {
		logger.Debug("navigate %s: %v", opts.view, err)
	}
	// index 0 is selected by the list load already
	switch {
	case view.Name == dashboard.KindBarometer && opts.role > 0:
		if err := ctrl.SelectRole(ctx, opts.role); err != nil {
			logger.Debug("select role %d: %v", opts.role, err)
		}
	case view.Name == dashboard.KindB1 && opts.block > 0:
		if err := ctrl.SelectBlock(ctx, opts.block); err != nil {
			logger.Debug("select block %d: %v", opts.block, err)
		}
	}

	// fetch failures are part of the state and rendered as such
	return dashboard.NewRenderer(os.Stdout).Render(ctrl.State())
}

func runCollect(ctx context.Context, cfg *config.Config, logger *logging.Logger, opts options) error {
	cat, err := catalog.Load(cfg.Paths.CatalogFile)
	if err != nil {
		return err
	}
	st := store.New(cfg.Paths.DataDir)
	p := newPipelineFromConfig(cfg, cat, st, logger, !opts.silence)

	res, err := p.run(ctx)
	if err != nil {
		return err
	}

	pterm.Success.Printfln("Collected %d vacancies (%d duplicates dropped) into %s", res.Total, res.Duplicates, res.Path)
	return printRoleSummary(newAnalytics(cfg, cat, st))
}

// printRoleSummary prints the median of every role colored against the market scale
func printRoleSummary(svc *analytics.Service) error {
	overall := svc.OverallStats()
	var ticks aggregate.ScaleTicks
	if overall.Metrics != nil {
		ticks, _ = aggregate.Ticks(*overall.Metrics)
	}

	data := pterm.TableData{{"Роль", "Вакансий", "Медиана"}}
	for i, role := range svc.Roles() {
		stats, err := svc.RoleStats(i)
		if err != nil {
			return err
		}
		if stats.Metrics == nil || stats.Metrics.Median == nil {
			data = append(data, []string{role.Name, "0", ui.ColorizeSalary(0, ticks.P25, ticks.P75)})
			continue
		}
		data = append(data, []string{
			role.Name,
			fmt.Sprint(stats.Metrics.Count),
			ui.ColorizeSalary(*stats.Metrics.Median, ticks.P25, ticks.P75),
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func runAuth(ctx context.Context, cfg *config.Config, opts options) error {
	client := newHHClient(cfg)

	code := opts.code
	if code == "" {
		url := client.AuthorizeURL()
		pterm.Info.Println("Open the authorization page and grant access:")
		pterm.Println(ui.FormatURL(url, url, true))
		pterm.Print("Authorization code: ")

		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			return fmt.Errorf("read authorization code: %w", err)
		}
		code = line
	}

	tokens, err := client.ExchangeCode(ctx, code)
	if err != nil {
		return err
	}

	pterm.Success.Println("Tokens received. Put the access token into HH_ACCESS_TOKEN:")
	return pterm.DefaultTable.WithData(pterm.TableData{
		{"access_token", tokens.AccessToken},
		{"refresh_token", tokens.RefreshToken},
		{"token_type", tokens.TokenType},
		{"expires_in", fmt.Sprint(tokens.ExpiresIn)},
	}).Render()
}
