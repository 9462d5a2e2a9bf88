package worker

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"techdaily/internal/crawler"
	"techdaily/internal/model"
	"techdaily/internal/store"
)

type fakeCrawler struct {
	name      string
	source    string
	available bool
	articles  []model.Article
	err       error
	panics    bool
}

func (f *fakeCrawler) CrawlArticles(ctx context.Context, limit int) ([]model.Article, error) {
	if f.panics {
		panic("adapter blew up")
	}
	if f.err != nil {
		return nil, f.err
	}
	if len(f.articles) > limit {
		return f.articles[:limit], nil
	}
	return f.articles, nil
}

func (f *fakeCrawler) GetName() string   { return f.name }
func (f *fakeCrawler) GetSource() string { return f.source }
func (f *fakeCrawler) IsAvailable() bool { return f.available }

type fakePublisher struct {
	mu        sync.Mutex
	published []string
	trimmed   int
}

func (p *fakePublisher) Publish(source string, message []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, source)
	return nil
}

func (p *fakePublisher) Trim() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.trimmed++
	return nil
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "worker_test.db"))
	assert.NoError(t, err)
	assert.NoError(t, st.AutoMigrate())
	return st
}

func uniqueArticles(source string, n int) []model.Article {
	articles := make([]model.Article, n)
	for i := range articles {
		articles[i] = model.Article{
			Title:       fmt.Sprintf("%s article %d", source, i),
			URL:         fmt.Sprintf("https://example.com/%s/%d", source, i),
			Source:      source,
			PublishTime: time.Now(),
		}
	}
	return articles
}

func TestCrawlAll_MixedOutcomes(t *testing.T) {
	st := newTestStore(t)
	pub := &fakePublisher{}

	// adapter-3 returns five records all sharing a URL that already exists
	dupURL := "https://example.com/known"
	_, err := st.SaveArticle(&model.Article{Title: "known", URL: dupURL, Source: "seed"})
	assert.NoError(t, err)

	dups := make([]model.Article, 5)
	for i := range dups {
		dups[i] = model.Article{Title: "dup", URL: dupURL, Source: "adapter-3"}
	}

	w := NewWorker([]crawler.Crawler{
		&fakeCrawler{name: "A1", source: "adapter-1", available: true, articles: uniqueArticles("adapter-1", 5)},
		&fakeCrawler{name: "A2", source: "adapter-2", available: true, err: errors.New("upstream exploded")},
		&fakeCrawler{name: "A3", source: "adapter-3", available: true, articles: dups},
	}, st, pub, 4, time.Minute)

	summary := w.CrawlAll(context.Background(), 5)

	assert.Equal(t, 10, summary.TotalAttempted)
	assert.Equal(t, 5, summary.TotalSuccess)
	assert.Equal(t, 5, summary.TotalFailed)

	// only the genuinely new rows were stored
	count, err := st.CountArticles()
	assert.NoError(t, err)
	assert.Equal(t, int64(6), count)

	attempts, err := st.AttemptsSince(time.Now().Add(-time.Minute))
	assert.NoError(t, err)
	assert.Len(t, attempts, 3)

	bySource := make(map[string]model.CrawlAttempt, len(attempts))
	for _, a := range attempts {
		bySource[a.Source] = a
	}
	assert.Equal(t, model.CrawlCompleted, bySource["adapter-1"].Status)
	assert.Equal(t, 5, bySource["adapter-1"].SuccessCount)
	assert.Equal(t, model.CrawlFailed, bySource["adapter-2"].Status)
	assert.Contains(t, bySource["adapter-2"].ErrorMessage, "upstream exploded")
	assert.Equal(t, model.CrawlCompleted, bySource["adapter-3"].Status)
	assert.Equal(t, 5, bySource["adapter-3"].ErrorCount)

	// each stored article was announced, and the stream trimmed once
	assert.Len(t, pub.published, 5)
	assert.Equal(t, 1, pub.trimmed)
}

func TestCrawlAll_SkipsUnavailableSources(t *testing.T) {
	st := newTestStore(t)

	w := NewWorker([]crawler.Crawler{
		&fakeCrawler{name: "Up", source: "up", available: true, articles: uniqueArticles("up", 2)},
		&fakeCrawler{name: "Down", source: "down", available: false, articles: uniqueArticles("down", 2)},
	}, st, nil, 2, time.Minute)

	summary := w.CrawlAll(context.Background(), 5)
	assert.Equal(t, 2, summary.TotalSuccess)

	// the skipped source leaves no attempt record
	attempts, err := st.AttemptsSince(time.Now().Add(-time.Minute))
	assert.NoError(t, err)
	assert.Len(t, attempts, 1)
	assert.Equal(t, "up", attempts[0].Source)
}

func TestCrawlAll_ContainsPanics(t *testing.T) {
	st := newTestStore(t)

	w := NewWorker([]crawler.Crawler{
		&fakeCrawler{name: "Boom", source: "boom", available: true, panics: true},
		&fakeCrawler{name: "OK", source: "ok", available: true, articles: uniqueArticles("ok", 3)},
	}, st, nil, 2, time.Minute)

	summary := w.CrawlAll(context.Background(), 5)
	assert.Equal(t, 3, summary.TotalSuccess)

	attempts, err := st.AttemptsSince(time.Now().Add(-time.Minute))
	assert.NoError(t, err)

	var boom *model.CrawlAttempt
	for i := range attempts {
		if attempts[i].Source == "boom" {
			boom = &attempts[i]
		}
	}
	assert.NotNil(t, boom)
	assert.Equal(t, model.CrawlFailed, boom.Status)
	assert.Contains(t, boom.ErrorMessage, "adapter blew up")
}

func TestCrawlAllAsync(t *testing.T) {
	st := newTestStore(t)

	w := NewWorker([]crawler.Crawler{
		&fakeCrawler{name: "A", source: "a", available: true, articles: uniqueArticles("a", 2)},
	}, st, nil, 2, time.Minute)

	future := w.CrawlAllAsync(context.Background(), 5)
	select {
	case summary := <-future:
		assert.Equal(t, 2, summary.TotalSuccess)
	case <-time.After(5 * time.Second):
		t.Fatal("async crawl did not complete")
	}
}

func TestCrawlOne(t *testing.T) {
	st := newTestStore(t)

	w := NewWorker([]crawler.Crawler{
		&fakeCrawler{name: "Dev.to", source: "Dev.to", available: true, articles: uniqueArticles("Dev.to", 3)},
		&fakeCrawler{name: "Down", source: "down", available: false},
	}, st, nil, 2, time.Minute)

	// matching is case-insensitive
	res := w.CrawlOne(context.Background(), "dev.TO", 3)
	assert.True(t, res.Success)
	assert.Equal(t, "Dev.to", res.Source)
	assert.Equal(t, 3, res.SuccessCount)

	res = w.CrawlOne(context.Background(), "down", 3)
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "unavailable")

	res = w.CrawlOne(context.Background(), "nope", 3)
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "unknown source")
}

func TestAvailableSources(t *testing.T) {
	w := NewWorker([]crawler.Crawler{
		&fakeCrawler{name: "A", source: "a", available: true},
		&fakeCrawler{name: "B", source: "b", available: false},
		&fakeCrawler{name: "C", source: "c", available: true},
	}, nil, nil, 2, time.Minute)

	assert.Equal(t, []string{"a", "c"}, w.AvailableSources())
}
