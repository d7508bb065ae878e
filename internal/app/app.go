package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"taskdigest/internal/aggregate"
	"taskdigest/internal/config"
	"taskdigest/internal/infrastructure/llm"
	"taskdigest/internal/infrastructure/render"
	"taskdigest/internal/infrastructure/scheduler"
	"taskdigest/internal/infrastructure/source"
	"taskdigest/internal/infrastructure/storage"
	"taskdigest/internal/infrastructure/telegram"
	"taskdigest/internal/logging"
	"taskdigest/internal/parse"
	"taskdigest/internal/policy"
	"taskdigest/internal/ports"
	"taskdigest/internal/report"
	"taskdigest/internal/usecase"
)

const probeTimeout = 3 * time.Second

// ErrNoDatabase is returned by History when no audit store is configured.
var ErrNoDatabase = errors.New("no database configured")

// Application wires configuration to the use cases and owns shared
// resources for the process lifetime.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	pipeline *usecase.Pipeline
	sched    *usecase.Scheduler
	db       *sql.DB
	repo     *storage.PostgresRepository
}

// New builds a runnable application instance from resolved configuration.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	artifacts, err := render.NewDirStore(cfg.Output.Dir)
	if err != nil {
		return nil, fmt.Errorf("prepare output dir: %w", err)
	}

	a := &Application{cfg: cfg, logger: baseLogger}

	var extractor ports.Extractor
	var summarizer ports.Summarizer
	if cfg.LLM.Mode == "ollama" {
		if llm.Available(cfg.LLM.BaseURL, probeTimeout) {
			client := llm.NewOllamaClient(llm.Options{
				BaseURL:          cfg.LLM.BaseURL,
				Model:            cfg.LLM.Model,
				ExtractTimeout:   cfg.LLM.ExtractTimeout(),
				SummarizeTimeout: cfg.LLM.Timeout(),
			}, baseLogger.With("component", "llm.ollama"))
			extractor = client
			summarizer = client
		} else {
			baseLogger.Warn("ollama unreachable, running without enrichment",
				"base_url", cfg.LLM.BaseURL)
		}
	}

	if cfg.Database.DSN != "" {
		db, err := sql.Open("postgres", cfg.Database.DSN)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		a.db = db
		a.repo = storage.NewPostgresRepository(db)
	}

	var notifier ports.Notifier
	tg := cfg.Notifications.Telegram
	if tg.BotToken != "" && tg.ChatID != "" {
		notifier = telegram.NewNotifier(tg.BotToken, tg.ChatID)
	}

	var repo ports.ReportRepository
	if a.repo != nil {
		repo = a.repo
	}

	a.pipeline = usecase.NewPipeline(usecase.PipelineDeps{
		Source:     source.NewFSSource(cfg.Input.Dir, baseLogger.With("component", "source")),
		Extractor:  extractor,
		Summarizer: summarizer,
		Renderer:   render.Compact{},
		Artifacts:  artifacts,
		Repository: repo,
		Notifier:   notifier,
		Registry:   parse.NewRegistry(),
		Aggregator: aggregate.New(cfg.Notes.Standup, cfg.Notes.Slack, cfg.Notes.Email),
		Builder:    report.NewBuilder(policy.New(cfg.Policy)),

		MaxChars:    cfg.Chunking.MaxChars,
		Overlap:     cfg.Chunking.Overlap,
		SkipExtract: cfg.LLM.SkipExtract,
		Logger:      baseLogger.With("component", "pipeline"),
	})

	if cfg.Scheduler.Enabled {
		a.sched = usecase.NewScheduler(scheduler.NewDaily(24*time.Hour), a.pipeline)
	}

	return a, nil
}

// RunOnce executes a single digest pass and logs the resulting counts.
func (a *Application) RunOnce(ctx context.Context) error {
	now := time.Now().In(a.cfg.Scheduler.Location())
	rep, err := a.pipeline.Run(ctx, now)
	if err != nil {
		return err
	}

	a.logger.Info("digest complete",
		"run_id", rep.RunID,
		"items", len(rep.All),
		"output_dir", a.cfg.Output.Dir)
	return nil
}

// RunDaemon executes runs on the recurring schedule until ctx is cancelled.
func (a *Application) RunDaemon(ctx context.Context) error {
	if a.sched == nil {
		a.sched = usecase.NewScheduler(scheduler.NewDaily(24*time.Hour), a.pipeline)
	}

	if err := a.sched.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return a.sched.Stop(stopCtx)
}

// History lists the most recent persisted run ids, newest first.
func (a *Application) History(ctx context.Context, limit int) ([]string, error) {
	if a.repo == nil {
		return nil, ErrNoDatabase
	}
	return a.repo.RecentRunIDs(ctx, limit)
}

// Close releases shared resources.
func (a *Application) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}
