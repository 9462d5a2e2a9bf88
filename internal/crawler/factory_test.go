package crawler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"techdaily/config"
)

func TestCreateCrawlers(t *testing.T) {
	cfg := &config.Config{
		DevToURL:          "https://dev.to/api/articles",
		HackerNewsBaseURL: "https://hacker-news.firebaseio.com/v0",
		GitHubTrendingURL: "https://github.com/trending",
		FeedURLs: []string{
			"https://developer.ibm.com/articles/feed/",
			"https://www.example.org/rss",
		},
	}

	crawlers := CreateCrawlers(cfg, newMockCacheService())
	assert.Len(t, crawlers, 5)

	sources := make([]string, 0, len(crawlers))
	for _, c := range crawlers {
		sources = append(sources, c.GetSource())
		assert.NotEmpty(t, c.GetName())
	}
	assert.Contains(t, sources, "Dev.to")
	assert.Contains(t, sources, "Hacker News")
	assert.Contains(t, sources, "GitHub Trending")
	assert.Contains(t, sources, "developer.ibm.com")
	assert.Contains(t, sources, "example.org")
}

func TestFeedSourceLabel(t *testing.T) {
	assert.Equal(t, "developer.ibm.com", feedSourceLabel("https://developer.ibm.com/articles/feed/"))
	assert.Equal(t, "example.org", feedSourceLabel("https://www.example.org/rss"))
	assert.Equal(t, "not a url", feedSourceLabel("not a url"))
}
