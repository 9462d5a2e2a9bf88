package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	apperrors "techdaily/pkg/errors"
)

// Config represents the application configuration
type Config struct {
	// HTTP server
	ServerAddr string

	// SQLite database
	DBPath string

	// Redis configuration (article announce stream)
	RedisAddr            string
	RedisDB              int
	RedisStream          string
	RedisStreamMaxLength int64

	// Memcache configuration (rate-limit block cache); empty disables it
	MemcacheAddr string

	// Crawl configuration
	CrawlConcurrency  int
	ArticlesPerSource int
	CrawlCron         string
	ReportCron        string

	// URLs for the different sources
	DevToURL          string
	HackerNewsBaseURL string
	GitHubTrendingURL string
	FeedURLs          []string

	// AI backend
	AIAPIKey      string
	AIBaseURL     string
	AIReportModel string
	AIQuickModel  string

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() Config {
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	streamMaxLen, _ := strconv.ParseInt(getEnv("REDIS_STREAM_MAX_LENGTH", "500"), 10, 64)
	concurrency, _ := strconv.Atoi(getEnv("CRAWL_CONCURRENCY", "4"))
	perSource, _ := strconv.Atoi(getEnv("ARTICLES_PER_SOURCE", "5"))

	return Config{
		ServerAddr:           getEnv("SERVER_ADDR", ":8080"),
		DBPath:               getEnv("DB_PATH", "data/techdaily.db"),
		RedisAddr:            getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:              redisDB,
		RedisStream:          getEnv("REDIS_STREAM", "articles"),
		RedisStreamMaxLength: streamMaxLen,
		MemcacheAddr:         getEnv("MEMCACHE_ADDR", ""),
		CrawlConcurrency:     concurrency,
		ArticlesPerSource:    perSource,
		CrawlCron:            getEnv("CRAWL_CRON", "0 */2 * * *"),
		ReportCron:           getEnv("REPORT_CRON", "30 23 * * *"),
		DevToURL:             getEnv("DEVTO_URL", "https://dev.to/api/articles"),
		HackerNewsBaseURL:    getEnv("HACKERNEWS_URL", "https://hacker-news.firebaseio.com/v0"),
		GitHubTrendingURL:    getEnv("GITHUB_TRENDING_URL", "https://github.com/trending"),
		FeedURLs:             getEnvList("FEED_URLS", "https://developer.ibm.com/articles/feed/"),
		AIAPIKey:             getEnv("AI_API_KEY", ""),
		AIBaseURL:            getEnv("AI_BASE_URL", "https://dashscope.aliyuncs.com"),
		AIReportModel:        getEnv("AI_REPORT_MODEL", "qwen-plus-latest"),
		AIQuickModel:         getEnv("AI_QUICK_MODEL", "qwen-turbo"),
		Environment:          getEnv("TECHDAILY_ENVIRONMENT", "development"),
	}
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	if c.CrawlConcurrency < 1 {
		return apperrors.NewConfiguration(fmt.Sprintf("crawl concurrency must be at least 1, got %d", c.CrawlConcurrency), nil)
	}
	if c.ArticlesPerSource < 1 {
		return apperrors.NewConfiguration(fmt.Sprintf("articles per source must be at least 1, got %d", c.ArticlesPerSource), nil)
	}
	if c.DBPath == "" {
		return apperrors.NewConfiguration("database path must not be empty", nil)
	}
	if c.AIBaseURL == "" {
		return apperrors.NewConfiguration("AI base URL must not be empty", nil)
	}
	return nil
}

// IsProduction reports whether the app runs in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// CrawlTimeout is the overall time budget for a single adapter run
func (c *Config) CrawlTimeout() time.Duration {
	secs, _ := strconv.Atoi(getEnv("CRAWL_TIMEOUT_SECONDS", "120"))
	return time.Duration(secs) * time.Second
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvList retrieves a comma-separated environment variable as a slice
func getEnvList(key, defaultValue string) []string {
	value := getEnv(key, defaultValue)
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
