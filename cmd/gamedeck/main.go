package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/gamedeck/internal/adapter"
	"github.com/mmcdole/gamedeck/internal/browse"
	"github.com/mmcdole/gamedeck/internal/catalog"
	"github.com/mmcdole/gamedeck/internal/domain"
	"github.com/mmcdole/gamedeck/internal/tui"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

// Version is set at build time via -ldflags
var Version = "dev"

// app is what every command needs, built once from the config
type app struct {
	cfg      *adapter.Config
	logger   *slog.Logger
	client   *catalog.Client
	svc      *browse.Service
	launcher *adapter.Launcher
	closer   io.Closer
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	root := &cli.Command{
		Name:    "gamedeck",
		Usage:   "Browse a game catalog from the terminal",
		Version: Version,
		Action: withApp(func(ctx context.Context, c *cli.Command, a *app) error {
			if !term.IsTerminal(int(os.Stdout.Fd())) {
				// piped: print the first page instead of drawing the UI
				return printGames(ctx, os.Stdout, a.svc, a.defaultFilter(), 1)
			}
			if !a.cfg.IsConfigured() {
				return runSetupFlow(ctx, a.cfg)
			}
			return a.runTUI()
		}),
		Commands: []*cli.Command{
			gamesCommand(),
			gameCommand(),
			newsCommand(),
			genresCommand(),
			platformsCommand(),
			reviewCommand(),
			{
				Name:  "setup",
				Usage: "Configure the catalog server",
				Action: withApp(func(ctx context.Context, c *cli.Command, a *app) error {
					return runSetupFlow(ctx, a.cfg)
				}),
			},
		},
	}

	return root.Run(context.Background(), os.Args)
}

// withApp builds the app before running action and releases it after
func withApp(action func(context.Context, *cli.Command, *app) error) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		var a app
		if err := a.init(); err != nil {
			return err
		}
		defer a.close()
		return action(ctx, c, &a)
	}
}

// init loads configuration and wires the services
func (a *app) init() error {
	cfg, err := adapter.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	a.cfg = cfg

	// Setup logger
	logger, closer, err := adapter.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = adapter.NullLogger()
	}
	a.logger = logger
	a.closer = closer
	slog.SetDefault(logger)

	logger.Info("starting gamedeck", "version", Version)

	hints, err := catalog.AdapterFor(cfg.Browse.HasMoreFrom)
	if err != nil {
		return fmt.Errorf("invalid browse.has_more_from: %w", err)
	}
	a.client = catalog.NewClient(cfg.Server.URL, logger,
		catalog.WithTimeout(cfg.Server.Timeout),
		catalog.WithAdapter(hints),
	)

	a.svc = browse.NewService(a.client, logger,
		browse.WithPageSize(cfg.Browse.PageSize),
		browse.WithQuickSearchSize(cfg.Browse.QuickSearchSize),
	)
	a.launcher = adapter.NewLauncher(cfg.UI.Browser, logger)
	return nil
}

func (a *app) close() {
	if a.closer != nil {
		a.closer.Close()
	}
}

func (a *app) defaultFilter() domain.Filter {
	return domain.DefaultFilter().WithOrdering(domain.Ordering(a.cfg.Browse.Ordering))
}

func (a *app) runTUI() error {
	model := tui.NewModel(a.svc, a.launcher, a.logger, tui.Options{
		FilterDebounce: a.cfg.Browse.FilterDebounce,
		SearchDebounce: a.cfg.Browse.SearchDebounce,
		StartScreen:    a.cfg.UI.StartScreen,
		Ordering:       domain.Ordering(a.cfg.Browse.Ordering),
	})

	// Run the TUI
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	a.logger.Info("starting TUI")

	if _, err := p.Run(); err != nil {
		a.logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	a.logger.Info("shutting down")
	return nil
}
