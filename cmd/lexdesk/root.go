package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/csheth/lexdesk/internal/advice"
	"github.com/csheth/lexdesk/internal/config"
	"github.com/csheth/lexdesk/internal/library"
	"github.com/csheth/lexdesk/internal/logging"
	"github.com/csheth/lexdesk/internal/news"
	"github.com/csheth/lexdesk/internal/session"
	"github.com/csheth/lexdesk/internal/tui"
)

type rootOptions struct {
	configPath  string
	backend     string
	model       string
	endpoint    string
	noAltScreen bool
	verbose     bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "lexdesk",
		Short: "LexDesk - Indian legal counsel and drafting in your terminal",
		Long: `LexDesk answers questions on Indian law, drafts FIRs, notices and affidavits,
and keeps a reference of common IPC sections and checklists.

Examples:
  lexdesk
  lexdesk --backend ollama --model llama3.1
  lexdesk ask "My employer has not paid my salary for three months"
  lexdesk news`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), opts, cmd.ErrOrStderr())
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "path to config.toml (default "+config.DefaultPath()+")")
	flags.StringVar(&opts.backend, "backend", "", "advice backend (gemini, ollama, openai, mock)")
	flags.StringVar(&opts.model, "model", "", "override the backend's model name")
	flags.StringVar(&opts.endpoint, "endpoint", "", "custom API base URL or Ollama host")
	flags.BoolVar(&opts.verbose, "verbose", false, "log at debug level")
	cmd.Flags().BoolVar(&opts.noAltScreen, "no-alt-screen", false, "disable the alternate screen buffer")

	cmd.AddCommand(newAskCmd(opts), newNewsCmd(opts), newInitConfigCmd(opts))
	return cmd
}

// app holds what every subcommand builds from flags and config.
type app struct {
	cfg     config.Config
	logger  *zap.Logger
	adviser advice.Adviser
}

func (o *rootOptions) loadConfig() (config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if err := cfg.Apply(config.Overrides{
		Backend:  o.backend,
		Model:    o.model,
		Endpoint: o.endpoint,
		Verbose:  o.verbose,
	}); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func (o *rootOptions) setup(ctx context.Context) (*app, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(logging.Options{File: cfg.Log.File, Level: cfg.Log.Level})
	if err != nil {
		return nil, err
	}
	adviser, err := advice.New(ctx, advice.Config{
		Backend:         cfg.Advice.Backend,
		Model:           cfg.Advice.Model,
		Endpoint:        cfg.Advice.Endpoint,
		APIKey:          cfg.Advice.APIKey,
		SearchGrounding: cfg.Advice.SearchGrounding,
	})
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}
	adviser = advice.WithRateLimit(adviser, cfg.Advice.RequestsPerMinute)
	adviser = advice.WithLogging(adviser, logger)
	logger.Info("lexdesk starting",
		zap.String("version", Version),
		zap.String("backend", adviser.Name()),
		zap.String("model", cfg.Advice.Model))
	return &app{cfg: cfg, logger: logger, adviser: adviser}, nil
}

func (a *app) conversation() *session.Conversation {
	store := session.NewStore(session.Greeting(time.Now()))
	return session.NewConversation(store, a.adviser,
		session.WithHistoryWindow(a.cfg.Session.HistoryWindow),
		session.WithTimeout(a.cfg.Advice.Timeout.Duration),
		session.WithLogger(a.logger))
}

func (a *app) feed() *news.Feed {
	return news.NewFeed(a.adviser,
		news.WithPrompt(a.cfg.News.Prompt),
		news.WithFallbackURL(a.cfg.News.FallbackURL),
		news.WithFetchTimeout(a.cfg.Advice.Timeout.Duration),
		news.WithLogger(a.logger))
}

func runTUI(ctx context.Context, opts *rootOptions, stderr io.Writer) error {
	a, err := opts.setup(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = a.logger.Sync() }()

	catalog, err := library.LoadOrDefault(a.cfg.Catalog.Path)
	if err != nil {
		// a broken override should not keep the app from starting
		fmt.Fprintln(stderr, "catalog override ignored:", err)
		a.logger.Warn("catalog override ignored", zap.Error(err))
		catalog = library.Default()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	programOpts := []tea.ProgramOption{tea.WithContext(ctx), tea.WithMouseCellMotion()}
	if !opts.noAltScreen {
		programOpts = append(programOpts, tea.WithAltScreen())
	}
	program := tea.NewProgram(tui.New(tui.Config{
		Conversation: a.conversation(),
		Feed:         a.feed(),
		Catalog:      catalog,
		Logger:       a.logger,
		Context:      ctx,
	}), programOpts...)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		_, err := program.Run()
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	})
	if a.cfg.Catalog.Path != "" && a.cfg.Catalog.Watch {
		g.Go(func() error {
			err := library.Watch(gctx, a.cfg.Catalog.Path, a.logger, func(c library.Catalog) {
				program.Send(tui.CatalogUpdated(c))
			})
			if err != nil {
				a.logger.Warn("catalog watch stopped", zap.Error(err))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("program error: %w", err)
	}
	return nil
}
