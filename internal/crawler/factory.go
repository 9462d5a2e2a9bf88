package crawler

import (
	"net/url"
	"strings"
	"time"

	"techdaily/config"
	"techdaily/helpers"
	"techdaily/logger"
	"techdaily/services/cache"
)

// CreateCrawlers builds the adapter registry from the configuration.
// Every registered adapter is an explicit constructor call; adding a
// source means adding a line here.
func CreateCrawlers(cfg *config.Config, cacheSvc cache.CacheService) []Crawler {
	// Scraping targets get a longer, randomized pause than JSON APIs
	apiDelayer := helpers.RandomDelayer{Min: 200 * time.Millisecond, Max: 500 * time.Millisecond}
	htmlDelayer := helpers.RandomDelayer{Min: 1 * time.Second, Max: 6 * time.Second}

	crawlers := []Crawler{
		NewDevToCrawler(cfg.DevToURL),
		NewHackerNewsCrawler(cfg.HackerNewsBaseURL, apiDelayer),
		NewGitHubTrendingCrawler(cfg.GitHubTrendingURL, cacheSvc, htmlDelayer),
	}

	for _, feedURL := range cfg.FeedURLs {
		crawlers = append(crawlers, NewFeedCrawler(feedSourceLabel(feedURL), feedURL))
	}

	for _, c := range crawlers {
		logger.ForCrawler(c.GetName()).WithFields(logger.Fields{
			"source": c.GetSource(),
		}).Info().Msg("Registered crawler")
	}

	return crawlers
}

// feedSourceLabel derives a stable source label from a feed URL host
func feedSourceLabel(feedURL string) string {
	u, err := url.Parse(feedURL)
	if err != nil || u.Host == "" {
		return feedURL
	}
	return strings.TrimPrefix(u.Host, "www.")
}
