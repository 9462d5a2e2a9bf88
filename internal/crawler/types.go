package crawler

import (
	"context"

	"techdaily/internal/model"
)

// Crawler is the contract every source adapter implements. Adding a source
// means registering a new implementation in the factory; no reflection.
type Crawler interface {
	// CrawlArticles retrieves up to limit normalized articles from a source.
	// A source that is merely unreachable or empty yields an empty slice;
	// an error means the whole run for this source failed.
	CrawlArticles(ctx context.Context, limit int) ([]model.Article, error)

	// GetName returns the crawler's name for logging and identification
	GetName() string

	// GetSource returns the source label stamped on produced articles
	GetSource() string

	// IsAvailable reports whether the source should be crawled at all.
	// Unavailable sources are skipped, not counted as failures.
	IsAvailable() bool
}
