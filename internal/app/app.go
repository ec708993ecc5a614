// Package app initializes and holds the services of one scrape run, acting as
// a dependency injection container for the CLI.
package app

import (
	"context"
	"fmt"
	"io"
	"time"

	gcsstorage "cloud.google.com/go/storage"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/JakeFAU/kanji-crawler/internal/clock/system"
	"github.com/JakeFAU/kanji-crawler/internal/config"
	"github.com/JakeFAU/kanji-crawler/internal/extract"
	collyfetcher "github.com/JakeFAU/kanji-crawler/internal/fetcher/colly"
	"github.com/JakeFAU/kanji-crawler/internal/id/uuid"
	"github.com/JakeFAU/kanji-crawler/internal/logging"
	"github.com/JakeFAU/kanji-crawler/internal/metrics"
	"github.com/JakeFAU/kanji-crawler/internal/output"
	"github.com/JakeFAU/kanji-crawler/internal/policy/ratelimit"
	"github.com/JakeFAU/kanji-crawler/internal/scraper"
	"github.com/JakeFAU/kanji-crawler/internal/storage"
	"github.com/JakeFAU/kanji-crawler/internal/storage/gcs"
	"github.com/JakeFAU/kanji-crawler/internal/storage/local"
)

// App holds the shared services of a run.
type App struct {
	cfg       config.Config
	logger    *zap.Logger
	logCloser io.Closer
	store     storage.BlobStore
	gcsClient *gcsstorage.Client
	metrics   *metrics.Metrics
	clock     *system.Clock
}

// Option customizes App construction.
type Option func(*options)

type options struct {
	console    io.Writer
	gcsOptions []option.ClientOption
}

// WithConsole mirrors log lines to w instead of stderr.
func WithConsole(w io.Writer) Option {
	return func(o *options) { o.console = w }
}

// WithGCSOptions passes client options to the GCS client, when one is used.
func WithGCSOptions(opts ...option.ClientOption) Option {
	return func(o *options) { o.gcsOptions = append(o.gcsOptions, opts...) }
}

// GetLogger returns the run's logger.
func (a *App) GetLogger() *zap.Logger {
	return a.logger
}

// GetStorage returns the store the result artifact is written to.
func (a *App) GetStorage() storage.BlobStore {
	return a.store
}

// GetMetrics returns the run's collectors.
func (a *App) GetMetrics() *metrics.Metrics {
	return a.metrics
}

// NewApp creates the logger, storage and metrics for a run. It fails fast when
// any of them cannot be initialized; these are the only faults that abort a run.
func NewApp(ctx context.Context, cfg config.Config, opts ...Option) (*App, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	clock := system.New()
	logger, logCloser, err := logging.New(logging.Config{
		Dir:         cfg.Logging.Dir,
		StartedAt:   clock.Now(),
		Development: cfg.Logging.Development,
		Console:     o.console,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}

	runID, err := uuid.New().NewID()
	if err != nil {
		_ = logCloser.Close()
		return nil, err
	}
	logger = logger.With(zap.String("run_id", runID))

	a := &App{
		cfg:       cfg,
		logger:    logger,
		logCloser: logCloser,
		metrics:   metrics.New(),
		clock:     clock,
	}

	if cfg.Storage.GCSBucket != "" {
		client, err := gcsstorage.NewClient(ctx, o.gcsOptions...)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to create GCS client: %w", err)
		}
		a.gcsClient = client
		a.store, err = gcs.New(client, gcs.Config{Bucket: cfg.Storage.GCSBucket, Prefix: cfg.Storage.Prefix})
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
		logger.Info("Using GCS storage", zap.String("bucket", cfg.Storage.GCSBucket))
	} else {
		a.store, err = local.New(local.Config{BaseDir: cfg.Output.Dir})
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
	}

	return a, nil
}

// Scrape runs the whole pipeline and writes the result artifact. Page and
// write faults are logged and do not produce an error; only a pipeline that
// cannot be built does.
func (a *App) Scrape(ctx context.Context) (scraper.Summary, error) {
	a.logger.Info("Starting kanji scraper")

	extractor, err := extract.New(a.cfg.Extract.Selector)
	if err != nil {
		return scraper.Summary{}, fmt.Errorf("init extractor: %w", err)
	}
	limiter := ratelimit.New(ratelimit.Config{RPS: a.cfg.Crawler.RateLimitRPS}, a.metrics)
	fetcher, err := collyfetcher.New(collyfetcher.Config{
		UserAgent: a.cfg.Crawler.UserAgent,
		MaxConns:  a.cfg.Crawler.MaxConns,
		Timeout:   a.cfg.RequestTimeout(),
		Limiter:   limiter,
	})
	if err != nil {
		return scraper.Summary{}, fmt.Errorf("init fetcher: %w", err)
	}

	s := scraper.New(
		scraper.Options{BatchSize: a.cfg.Crawler.BatchSize, GroupPause: a.cfg.Crawler.GroupPause},
		fetcher,
		extractor,
		a.clock,
		a.metrics,
		a.logger,
	)
	started := time.Now()
	records, summary := s.Run(ctx, a.cfg.Crawler.Targets)

	// Whatever was gathered is saved even when the run was canceled.
	uri, err := output.NewWriter(a.store, a.clock).Write(context.WithoutCancel(ctx), records)
	if err != nil {
		a.logger.Error("Error saving results to JSON", zap.Error(err))
	} else {
		a.logger.Info("Results saved", zap.String("uri", uri), zap.Int("records", len(records)))
	}

	a.logger.Info("Scraping completed",
		zap.Int("groups", summary.Groups),
		zap.Int("pages_fetched", summary.PagesFetched),
		zap.Int("pages_failed", summary.PagesFailed),
		zap.Int("parse_failures", summary.ParseFailures),
		zap.Int("records", summary.Records),
		zap.Duration("elapsed", time.Since(started)),
	)
	return summary, nil
}

// Close flushes metrics, releases the storage client and closes the log file.
func (a *App) Close() {
	if path := a.cfg.Metrics.Textfile; path != "" {
		if err := a.metrics.WriteTextfile(path); err != nil {
			a.logger.Error("Failed to write metrics textfile", zap.Error(err))
		}
	}
	if a.gcsClient != nil {
		if err := a.gcsClient.Close(); err != nil {
			a.logger.Warn("Error closing GCS client", zap.Error(err))
		}
	}
	_ = a.logCloser.Close() //nolint:errcheck // the logger is unusable past this point
}
