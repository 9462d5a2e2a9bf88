package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"techdaily/internal/crawler"
	"techdaily/internal/model"
	"techdaily/internal/store"
	"techdaily/logger"
	apperrors "techdaily/pkg/errors"
)

// Worker fans an orchestration run out across all registered source
// adapters. Adapters run in a bounded pool and never share mutable state;
// each returns its result over a channel and the worker reduces them after
// the pool drains.
type Worker struct {
	crawlers    []crawler.Crawler
	store       *store.Store
	publisher   publisher
	concurrency int
	timeout     time.Duration
}

// publisher is the subset of services/publisher.Publisher the worker needs
type publisher interface {
	Publish(source string, message []byte) error
	Trim() error
}

// Summary is the reduced outcome of one orchestration run.
// TotalAttempted counts the records adapters handed back, successful or not.
type Summary struct {
	TotalAttempted int       `json:"total_attempted"`
	TotalSuccess   int       `json:"total_success"`
	TotalFailed    int       `json:"total_failed"`
	CompletedAt    time.Time `json:"completed_at"`
}

// SourceResult is the outcome of running a single adapter
type SourceResult struct {
	Success      bool   `json:"success"`
	Source       string `json:"source"`
	TotalCrawled int    `json:"total_crawled"`
	SuccessCount int    `json:"success_count"`
	ErrorCount   int    `json:"error_count"`
	Message      string `json:"message,omitempty"`
}

// NewWorker creates a new orchestration worker
func NewWorker(
	crawlers []crawler.Crawler,
	st *store.Store,
	pub publisher,
	concurrency int,
	timeout time.Duration,
) *Worker {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Worker{
		crawlers:    crawlers,
		store:       st,
		publisher:   pub,
		concurrency: concurrency,
		timeout:     timeout,
	}
}

// CrawlAll runs every available adapter with the given per-source limit and
// reduces their results. Adapter failures are absorbed into the summary;
// this method itself never fails.
func (w *Worker) CrawlAll(ctx context.Context, perSource int) Summary {
	log := logger.ForWorker()
	start := time.Now()
	log.Info().Int("adapters", len(w.crawlers)).Int("per_source", perSource).Msg("Starting orchestration run")

	results := make(chan SourceResult, len(w.crawlers))
	sem := make(chan struct{}, w.concurrency)
	var wg sync.WaitGroup

	for _, c := range w.crawlers {
		if !c.IsAvailable() {
			log.Warn().Str("source", c.GetSource()).Msg("Source unavailable, skipping")
			continue
		}

		wg.Add(1)
		go func(c crawler.Crawler) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results <- w.runAdapter(ctx, c, perSource)
		}(c)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	var summary Summary
	for res := range results {
		summary.TotalAttempted += res.TotalCrawled
		summary.TotalSuccess += res.SuccessCount
		summary.TotalFailed += res.ErrorCount
	}
	summary.CompletedAt = time.Now()

	if w.publisher != nil {
		if err := w.publisher.Trim(); err != nil {
			log.Error().Err(err).Msg("Stream trim failed")
		}
	}

	log.Info().
		Int("attempted", summary.TotalAttempted).
		Int("success", summary.TotalSuccess).
		Int("failed", summary.TotalFailed).
		Dur("elapsed", time.Since(start)).
		Msg("Orchestration run finished")
	return summary
}

// CrawlAllAsync starts a run and returns immediately; the summary is
// delivered on the returned channel when the run completes. Cancelling an
// in-flight run is not supported.
func (w *Worker) CrawlAllAsync(ctx context.Context, perSource int) <-chan Summary {
	future := make(chan Summary, 1)
	go func() {
		future <- w.CrawlAll(ctx, perSource)
		close(future)
	}()
	return future
}

// CrawlOne runs a single adapter selected by source name, matched
// case-insensitively. An unknown name is a structured failure, not an error.
func (w *Worker) CrawlOne(ctx context.Context, source string, limit int) SourceResult {
	for _, c := range w.crawlers {
		if !strings.EqualFold(c.GetSource(), source) {
			continue
		}
		if !c.IsAvailable() {
			return SourceResult{
				Source:  c.GetSource(),
				Message: apperrors.NewUnavailable(c.GetSource(), nil).Error(),
			}
		}
		return w.runAdapter(ctx, c, limit)
	}
	return SourceResult{
		Source:  source,
		Message: fmt.Sprintf("unknown source: %s", source),
	}
}

// AvailableSources lists the source names of adapters whose probe passes
func (w *Worker) AvailableSources() []string {
	sources := make([]string, 0, len(w.crawlers))
	for _, c := range w.crawlers {
		if c.IsAvailable() {
			sources = append(sources, c.GetSource())
		}
	}
	return sources
}

// Statistics returns cumulative per-source success counts
func (w *Worker) Statistics() (map[string]int64, error) {
	return w.store.SourceStatistics()
}

// runAdapter executes one adapter under its own timeout and audit record.
// A panicking adapter is contained here and recorded as a failed attempt.
func (w *Worker) runAdapter(ctx context.Context, c crawler.Crawler, limit int) (result SourceResult) {
	log := logger.ForCrawler(c.GetName())
	result = SourceResult{Source: c.GetSource()}

	attempt, err := w.store.CreateAttempt(c.GetSource())
	if err != nil {
		log.Error().Err(err).Msg("Failed to open crawl attempt")
		result.Message = "failed to open crawl attempt"
		return result
	}

	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("Adapter panicked")
			result = SourceResult{
				Source:     c.GetSource(),
				ErrorCount: result.ErrorCount,
				Message:    fmt.Sprintf("adapter panicked: %v", r),
			}
			w.finalize(attempt, result, model.CrawlFailed, result.Message)
		}
	}()

	runCtx := ctx
	if w.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}

	articles, err := c.CrawlArticles(runCtx, limit)
	if err != nil {
		retryable := false
		var ce *apperrors.CrawlerError
		if errors.As(err, &ce) {
			retryable = ce.IsRetryable()
		}
		log.Error().Err(err).Bool("retryable", retryable).Msg("Adapter failed")
		result.Message = err.Error()
		w.finalize(attempt, result, model.CrawlFailed, err.Error())
		return result
	}

	for i := range articles {
		result.TotalCrawled++
		saved, saveErr := w.store.SaveArticle(&articles[i])
		if saveErr != nil {
			if apperrors.IsDuplicate(saveErr) {
				log.Debug().Str("url", articles[i].URL).Msg("Duplicate article skipped")
			} else {
				log.Error().Err(saveErr).Str("url", articles[i].URL).Msg("Failed to save article")
			}
			result.ErrorCount++
			continue
		}
		result.SuccessCount++
		w.announce(saved)
	}

	result.Success = true
	w.finalize(attempt, result, model.CrawlCompleted, "")

	log.Info().
		Int("crawled", result.TotalCrawled).
		Int("saved", result.SuccessCount).
		Int("errors", result.ErrorCount).
		Msg("Adapter finished")
	return result
}

// announce publishes a newly stored article downstream. Best effort; the
// article is already persisted.
func (w *Worker) announce(article *model.Article) {
	if w.publisher == nil {
		return
	}
	payload, err := json.Marshal(article)
	if err != nil {
		logger.ForPublisher().Error().Err(err).Msg("Failed to encode article")
		return
	}
	if err := w.publisher.Publish(article.Source, payload); err != nil {
		logger.ForPublisher().Error().Err(err).Str("url", article.URL).Msg("Failed to publish article")
	}
}

func (w *Worker) finalize(attempt *model.CrawlAttempt, result SourceResult, status model.CrawlStatus, errMsg string) {
	attempt.TotalCrawled = result.TotalCrawled
	attempt.SuccessCount = result.SuccessCount
	attempt.ErrorCount = result.ErrorCount
	attempt.Status = status
	attempt.ErrorMessage = errMsg
	if err := w.store.FinalizeAttempt(attempt); err != nil {
		logger.ForWorker().Error().Err(err).Str("source", attempt.Source).Msg("Failed to finalize crawl attempt")
	}
}
