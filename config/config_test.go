package config

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	apperrors "techdaily/pkg/errors"
)

func TestLoadConfigDefaults(t *testing.T) {
	os.Clearenv()

	cfg := LoadConfig()

	assert.Equal(t, ":8080", cfg.ServerAddr)
	assert.Equal(t, "data/techdaily.db", cfg.DBPath)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, "articles", cfg.RedisStream)
	assert.Equal(t, 4, cfg.CrawlConcurrency)
	assert.Equal(t, 5, cfg.ArticlesPerSource)
	assert.Equal(t, "https://dev.to/api/articles", cfg.DevToURL)
	assert.Equal(t, []string{"https://developer.ibm.com/articles/feed/"}, cfg.FeedURLs)
	assert.Equal(t, "development", cfg.Environment)
	assert.False(t, cfg.IsProduction())
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	os.Clearenv()
	os.Setenv("SERVER_ADDR", ":9090")
	os.Setenv("CRAWL_CONCURRENCY", "8")
	os.Setenv("FEED_URLS", "https://a.example/feed, https://b.example/rss ,")
	os.Setenv("TECHDAILY_ENVIRONMENT", "production")
	os.Setenv("CRAWL_TIMEOUT_SECONDS", "30")
	defer os.Clearenv()

	cfg := LoadConfig()

	assert.Equal(t, ":9090", cfg.ServerAddr)
	assert.Equal(t, 8, cfg.CrawlConcurrency)
	assert.Equal(t, []string{"https://a.example/feed", "https://b.example/rss"}, cfg.FeedURLs)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 30*time.Second, cfg.CrawlTimeout())
}

func TestValidate(t *testing.T) {
	os.Clearenv()

	cfg := LoadConfig()
	cfg.CrawlConcurrency = 0
	err := cfg.Validate()
	assert.Error(t, err)
	var ce *apperrors.CrawlerError
	assert.True(t, errors.As(err, &ce))
	assert.Equal(t, apperrors.ErrorTypeConfiguration, ce.Type)

	cfg = LoadConfig()
	cfg.ArticlesPerSource = -1
	assert.Error(t, cfg.Validate())

	cfg = LoadConfig()
	cfg.DBPath = ""
	assert.Error(t, cfg.Validate())

	cfg = LoadConfig()
	cfg.AIBaseURL = ""
	assert.Error(t, cfg.Validate())
}
