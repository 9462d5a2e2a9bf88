package crawler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"techdaily/internal/model"
)

func TestDevToCrawler_CrawlArticles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "7", r.URL.Query().Get("top"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{
				"title": "Understanding Goroutines",
				"description": "A deep dive into the Go scheduler",
				"url": "https://dev.to/a/goroutines",
				"published_at": "2024-03-01T10:00:00Z",
				"tag_list": ["go", "concurrency"],
				"page_views_count": 1200,
				"public_reactions_count": 88,
				"user": {"name": "Jordan Doe"}
			},
			{
				"title": "",
				"url": "https://dev.to/a/broken",
				"user": {"name": "Nobody"}
			},
			{
				"title": "SQLite in production",
				"description": "Yes, really",
				"url": "https://dev.to/a/sqlite",
				"published_at": "not-a-timestamp",
				"tag_list": ["databases"],
				"user": {"name": "Sam Lee"}
			}
		]`))
	}))
	defer srv.Close()

	c := NewDevToCrawler(srv.URL)
	articles, err := c.CrawlArticles(context.Background(), 5)
	assert.NoError(t, err)
	assert.Len(t, articles, 2)

	first := articles[0]
	assert.Equal(t, "Understanding Goroutines", first.Title)
	assert.Equal(t, "https://dev.to/a/goroutines", first.URL)
	assert.Equal(t, "Dev.to", first.Source)
	assert.Equal(t, "Jordan Doe", first.Author)
	assert.Equal(t, "go,concurrency", first.Tags)
	assert.Equal(t, 1200, first.Views)
	assert.Equal(t, 88, first.Likes)
	assert.Equal(t, model.ArticlePublished, first.Status)

	// Unparseable publish time falls back to now rather than dropping the record
	assert.False(t, articles[1].PublishTime.IsZero())
}

func TestDevToCrawler_HonorsLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"title": "one", "url": "https://dev.to/1", "published_at": "2024-03-01T10:00:00Z"},
			{"title": "two", "url": "https://dev.to/2", "published_at": "2024-03-01T11:00:00Z"},
			{"title": "three", "url": "https://dev.to/3", "published_at": "2024-03-01T12:00:00Z"}
		]`))
	}))
	defer srv.Close()

	c := NewDevToCrawler(srv.URL)
	articles, err := c.CrawlArticles(context.Background(), 2)
	assert.NoError(t, err)
	assert.Len(t, articles, 2)
}

func TestDevToCrawler_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewDevToCrawler(srv.URL)
	_, err := c.CrawlArticles(context.Background(), 5)
	assert.Error(t, err)
}
