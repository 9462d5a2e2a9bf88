package crawler

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/PuerkitoBio/goquery"

	"techdaily/helpers"
	apperrors "techdaily/pkg/errors"
	"techdaily/services/cache"
)

// BaseCrawler provides common functionality for all source adapters
type BaseCrawler struct {
	Name      string
	Source    string
	URL       string
	CacheKey  string
	CacheSvc  cache.CacheService
	BlockTime time.Duration
	Delayer   helpers.Delayer
}

// GetName returns the crawler's name
func (c *BaseCrawler) GetName() string {
	return c.Name
}

// GetSource returns the source label
func (c *BaseCrawler) GetSource() string {
	return c.Source
}

// IsAvailable defaults to true; adapters with flaky upstreams override it
// with a homepage probe.
func (c *BaseCrawler) IsAvailable() bool {
	return true
}

// delay blocks for the configured politeness pause between sequential
// calls against the same source. Blocks only this adapter's goroutine.
func (c *BaseCrawler) delay() {
	if c.Delayer != nil {
		c.Delayer.Delay()
	}
}

// fetchWithCache fetches fetchURL, honoring the adapter's rate-limit block
// key. When the upstream answers 429 the key is set so the next runs skip
// the source until the block expires. The URL is a parameter, not adapter
// state; overlapping runs on one adapter must never share a mutable URL.
func (c *BaseCrawler) fetchWithCache(ctx context.Context, fetchURL string) (io.Reader, error) {
	if c.CacheSvc != nil && c.CacheKey != "" {
		if _, err := c.CacheSvc.Get(c.CacheKey); err == nil {
			return nil, apperrors.NewRateLimit(c.Source, c.BlockTime)
		}
	}

	body, err := helpers.FetchWithRandomHeaders(ctx, fetchURL)
	if err != nil {
		if c.CacheSvc != nil && c.CacheKey != "" && errors.Is(err, helpers.ErrRateLimited) {
			c.CacheSvc.Set(c.CacheKey, []byte("1"), c.BlockTime)
		}
		return nil, err
	}

	return body, nil
}

// createDocument creates a goquery document from a reader
func (c *BaseCrawler) createDocument(reader io.Reader) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return nil, apperrors.NewParsing(c.Source, "HTML parse error", err)
	}
	return doc, nil
}
