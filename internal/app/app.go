package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"TeamNewsBot/internal/config"
	"TeamNewsBot/internal/domain"
	"TeamNewsBot/internal/infrastructure/feed"
	"TeamNewsBot/internal/infrastructure/llm"
	"TeamNewsBot/internal/infrastructure/scheduler"
	"TeamNewsBot/internal/infrastructure/storage"
	"TeamNewsBot/internal/infrastructure/twitter"
	"TeamNewsBot/internal/logging"
	"TeamNewsBot/internal/ports"
	"TeamNewsBot/internal/thread"
	"TeamNewsBot/internal/usecase"
)

const shutdownTimeout = 2 * time.Minute

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg       config.Config
	logger    *slog.Logger
	pipeline  *usecase.Pipeline
	threadErr error
}

// New builds every adapter from cfg. An unusable text-generation provider does
// not fail construction; it surfaces only when a thread is requested.
func New(cfg config.Config, baseLogger *slog.Logger) *Application {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	httpClient := &http.Client{Timeout: cfg.Pipeline.FetchTimeout}
	reader := feed.NewReader(httpClient, cfg.Pipeline.UserAgent)
	source := feed.NewSource(reader, cfg.DomainSources(), baseLogger.With("component", "source"))

	ledger := storage.OpenFileLedger(cfg.Ledger.Path, baseLogger.With("component", "ledger"))
	publisher := twitter.NewPublisher(cfg.Twitter, cfg.Pipeline.ThreadDelay, baseLogger.With("component", "publisher"))

	var threads ports.ThreadWriter
	provider, threadErr := llm.DefaultRegistry().Resolve(cfg.AI, nil)
	if threadErr == nil {
		threads = thread.NewGenerator(provider, baseLogger.With("component", "thread", "provider", provider.Name()))
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Source:       source,
		Ledger:       ledger,
		Publisher:    publisher,
		Threads:      threads,
		Logger:       baseLogger.With("component", "pipeline"),
		RecencyHours: cfg.Pipeline.RecencyHours,
		PostDelay:    cfg.Pipeline.PostDelay,
	})

	return &Application{cfg: cfg, logger: baseLogger, pipeline: pipeline, threadErr: threadErr}
}

// Run performs one default pass: publish every new matching article.
func (a *Application) Run(ctx context.Context) (domain.Report, error) {
	if err := a.cfg.ValidatePublishing(); err != nil {
		return domain.Report{}, err
	}
	return a.pipeline.Run(ctx)
}

// Preview lists what Run would post.
func (a *Application) Preview(ctx context.Context) ([]domain.Draft, error) {
	return a.pipeline.Preview(ctx)
}

// DryRun drafts a post for the most recent article.
func (a *Application) DryRun(ctx context.Context) (domain.Draft, error) {
	return a.pipeline.DryRun(ctx)
}

// TestPost posts the most recent article live without touching the ledger.
func (a *Application) TestPost(ctx context.Context) (domain.Draft, error) {
	if err := a.cfg.ValidatePublishing(); err != nil {
		return domain.Draft{}, err
	}
	return a.pipeline.TestPost(ctx)
}

// Thread generates, and when live publishes, a thread about the most recent article.
func (a *Application) Thread(ctx context.Context, live bool) (domain.Article, domain.Thread, error) {
	if a.threadErr != nil {
		return domain.Article{}, nil, a.threadErr
	}
	if live {
		if err := a.cfg.ValidatePublishing(); err != nil {
			return domain.Article{}, nil, err
		}
	}
	return a.pipeline.Thread(ctx, live)
}

// Schedule runs the default pass now and then every configured interval until ctx ends.
func (a *Application) Schedule(ctx context.Context) error {
	if err := a.cfg.ValidatePublishing(); err != nil {
		return err
	}

	driver := scheduler.NewCronScheduler(a.cfg.Scheduler.Spec(), a.cfg.Scheduler.Location())
	sched := usecase.NewScheduler(driver, a.pipeline, a.logger.With("component", "scheduler"))

	a.logger.Info("starting scheduler", "every_hours", a.cfg.Scheduler.IntervalHours)
	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := sched.Stop(stopCtx); err != nil {
		return fmt.Errorf("stop scheduler: %w", err)
	}
	return ctx.Err()
}
