package scraper

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	collyfetcher "github.com/JakeFAU/kanji-crawler/internal/fetcher/colly"
	"github.com/JakeFAU/kanji-crawler/internal/kanji"
	"github.com/JakeFAU/kanji-crawler/internal/metrics"
)

// Fetcher retrieves one page. It reports failures in the result, never as an error.
type Fetcher interface {
	Fetch(ctx context.Context, url string) collyfetcher.Result
}

// Extractor turns a page body into records.
type Extractor interface {
	Extract(body []byte, sourceURL string) ([]kanji.Record, error)
}

// Pauser suspends the run between groups.
type Pauser interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// Options tune batching.
type Options struct {
	BatchSize  int
	GroupPause time.Duration
}

// Summary counts what a run did.
type Summary struct {
	Groups        int
	Pauses        int
	PagesFetched  int
	PagesFailed   int
	ParseFailures int
	Records       int
}

// Scraper coordinates fetch and extraction across groups of targets.
type Scraper struct {
	opts      Options
	fetcher   Fetcher
	extractor Extractor
	pauser    Pauser
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

// New builds a Scraper. m may be nil.
func New(
	opts Options,
	fetcher Fetcher,
	extractor Extractor,
	pauser Pauser,
	m *metrics.Metrics,
	logger *zap.Logger,
) *Scraper {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 5
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scraper{
		opts:      opts,
		fetcher:   fetcher,
		extractor: extractor,
		pauser:    pauser,
		metrics:   m,
		logger:    logger,
	}
}

// Run processes every target and returns the records in group order, then
// input order within a group, then document order within a page.
func (s *Scraper) Run(ctx context.Context, targets []string) ([]kanji.Record, Summary) {
	var summary Summary
	records := []kanji.Record{}

	offset := 0
	for i, group := range kanji.Chunk(targets, s.opts.BatchSize) {
		if i > 0 {
			if err := s.pauser.Sleep(ctx, s.opts.GroupPause); err != nil {
				s.logger.Error("Run interrupted between groups",
					zap.Int("next_url_index", offset+1),
					zap.Error(err),
				)
				break
			}
			summary.Pauses++
		}

		s.logger.Info("Processing URLs",
			zap.Int("from", offset+1),
			zap.Int("to", offset+len(group)),
		)
		records = append(records, s.processGroup(ctx, group, &summary)...)
		offset += len(group)
		summary.Groups++
		s.metrics.ObserveGroup()
	}

	summary.Records = len(records)
	return records, summary
}

func (s *Scraper) processGroup(ctx context.Context, group []string, summary *Summary) []kanji.Record {
	pages := s.fetchGroup(ctx, group)

	var out []kanji.Record
	for _, page := range pages {
		level := kanji.LevelOf(page.URL)
		s.metrics.ObserveFetch(level, page.StatusCode, page.Duration)
		if !page.OK() {
			summary.PagesFailed++
			s.logFetchFailure(page)
			continue
		}
		summary.PagesFetched++

		found, err := s.extractor.Extract(page.Body, page.URL)
		if err != nil {
			summary.ParseFailures++
			s.metrics.ObserveParseFailure()
			s.logger.Error("Error parsing HTML",
				zap.String("url", page.URL),
				zap.Error(err),
			)
			continue
		}
		s.logger.Info("Extracted kanji",
			zap.String("url", page.URL),
			zap.Int("count", len(found)),
		)
		s.metrics.ObserveRecords(level, len(found))
		out = append(out, found...)
	}
	return out
}

// fetchGroup fetches every target concurrently and returns once all of them
// have settled. Results keep the order of group.
func (s *Scraper) fetchGroup(ctx context.Context, group []string) []collyfetcher.Result {
	results := make([]collyfetcher.Result, len(group))
	var g errgroup.Group
	for i, url := range group {
		g.Go(func() error {
			res := s.fetcher.Fetch(ctx, url)
			res.URL = url
			results[i] = res
			return nil
		})
	}
	_ = g.Wait() //nolint:errcheck // fetch goroutines never return an error
	return results
}

func (s *Scraper) logFetchFailure(page collyfetcher.Result) {
	if page.Failure == collyfetcher.FailureStatus {
		s.logger.Error("Error fetching page",
			zap.String("url", page.URL),
			zap.Int("status_code", page.StatusCode),
		)
		return
	}
	s.logger.Error("Exception while fetching page",
		zap.String("url", page.URL),
		zap.String("failure", string(page.Failure)),
		zap.Error(page.Err),
	)
}
