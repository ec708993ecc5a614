// Package collyfetcher fetches category pages with gocolly over a shared,
// connection-capped HTTP transport.
package collyfetcher

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"
)

// FailureKind classifies why a fetch produced no content.
type FailureKind string

// Failure kinds reported on Result.
const (
	FailureNone      FailureKind = ""
	FailureStatus    FailureKind = "status"
	FailureTransport FailureKind = "transport"
	FailureCanceled  FailureKind = "canceled"
	FailureEmpty     FailureKind = "empty"
)

// Result is the outcome of one fetch. A failed fetch carries no body.
type Result struct {
	URL        string
	StatusCode int
	Body       []byte
	Duration   time.Duration
	Failure    FailureKind
	Err        error
}

// OK reports whether the fetch produced content worth extracting.
func (r Result) OK() bool {
	return r.Failure == FailureNone && len(r.Body) > 0
}

// Waiter paces requests before they are issued.
type Waiter interface {
	Wait(ctx context.Context, url string) error
}

// Config controls collector behavior.
type Config struct {
	UserAgent string
	// MaxConns caps concurrent connections across every fetch made by the Fetcher.
	MaxConns int
	Timeout  time.Duration
	// Limiter is optional.
	Limiter Waiter
}

// Fetcher issues GET requests through clones of one base collector, so every
// fetch shares the same connection pool and parallelism limit.
type Fetcher struct {
	cfg           Config
	baseCollector *colly.Collector
}

type collectorHooks interface {
	OnResponse(colly.ResponseCallback)
	OnError(colly.ErrorCallback)
}

// New builds a Fetcher.
func New(cfg Config) (*Fetcher, error) {
	if cfg.MaxConns <= 0 {
		cfg.MaxConns = 10
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	c := colly.NewCollector(colly.Async(false))
	c.AllowURLRevisit = true
	if cfg.UserAgent != "" {
		c.UserAgent = cfg.UserAgent
	}
	c.WithTransport(newHTTPTransport(cfg.MaxConns))
	c.SetRequestTimeout(cfg.Timeout)
	if err := c.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: cfg.MaxConns,
	}); err != nil {
		return nil, fmt.Errorf("set collector limits: %w", err)
	}

	return &Fetcher{
		cfg:           cfg,
		baseCollector: c,
	}, nil
}

// Fetch executes a single HTTP GET. It never returns an error: failures are
// reported through Result.Failure with an empty body.
func (f *Fetcher) Fetch(ctx context.Context, url string) Result {
	start := time.Now()
	result := Result{URL: url}

	if f.cfg.Limiter != nil {
		if err := f.cfg.Limiter.Wait(ctx, url); err != nil {
			return failed(result, classify(ctx, err), err, start)
		}
	}

	collector := f.baseCollector.Clone()
	collector.Context = ctx

	var fetchErr error
	f.configureCollectorHooks(collector, &result, &fetchErr)

	visitErr := collector.Visit(url)
	switch {
	case fetchErr != nil && result.StatusCode > 0:
		return failed(result, FailureStatus, fetchErr, start)
	case fetchErr != nil:
		return failed(result, classify(ctx, fetchErr), fetchErr, start)
	case visitErr != nil:
		return failed(result, classify(ctx, visitErr), visitErr, start)
	case result.StatusCode != http.StatusOK:
		return failed(result, FailureStatus, fmt.Errorf("unexpected status %d", result.StatusCode), start)
	case len(result.Body) == 0:
		return failed(result, FailureEmpty, errors.New("empty response body"), start)
	}
	result.Duration = time.Since(start)
	return result
}

func (f *Fetcher) configureCollectorHooks(hooks collectorHooks, result *Result, fetchErr *error) {
	hooks.OnResponse(func(r *colly.Response) {
		result.StatusCode = r.StatusCode
		result.Body = append([]byte(nil), r.Body...)
	})

	hooks.OnError(func(r *colly.Response, err error) {
		if r != nil {
			result.StatusCode = r.StatusCode
		}
		*fetchErr = err
	})
}

func failed(result Result, kind FailureKind, err error, start time.Time) Result {
	result.Body = nil
	result.Failure = kind
	result.Err = err
	result.Duration = time.Since(start)
	return result
}

func classify(ctx context.Context, err error) FailureKind {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		return FailureCanceled
	}
	return FailureTransport
}

func newHTTPTransport(maxConns int) *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   15 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxConnsPerHost:       maxConns,
		MaxIdleConns:          maxConns,
		MaxIdleConnsPerHost:   maxConns,
		IdleConnTimeout:       90 * time.Second,
	}
}
