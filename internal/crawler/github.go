package crawler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"techdaily/helpers"
	"techdaily/internal/model"
	"techdaily/logger"
	"techdaily/services/cache"
)

// GitHubTrendingCrawler scrapes the GitHub trending page. The markup is
// unstable, so every field is extracted through a chain of fallback
// selectors and missing optional fields get defaults instead of failing
// the record.
type GitHubTrendingCrawler struct {
	BaseCrawler
}

// NewGitHubTrendingCrawler creates a trending-page adapter rooted at pageURL
func NewGitHubTrendingCrawler(pageURL string, cacheSvc cache.CacheService, delayer helpers.Delayer) *GitHubTrendingCrawler {
	return &GitHubTrendingCrawler{
		BaseCrawler: BaseCrawler{
			Name:      "GitHub Trending Crawler",
			Source:    "GitHub Trending",
			URL:       pageURL,
			CacheKey:  "github_trending_rate_limited",
			CacheSvc:  cacheSvc,
			BlockTime: 600 * time.Second,
			Delayer:   delayer,
		},
	}
}

// IsAvailable probes the trending page before a run
func (c *GitHubTrendingCrawler) IsAvailable() bool {
	return helpers.CheckAvailable(c.URL)
}

// CrawlArticles splits the limit across the daily and weekly trending
// ranges, with a politeness delay between the two page fetches.
func (c *GitHubTrendingCrawler) CrawlArticles(ctx context.Context, limit int) ([]model.Article, error) {
	log := logger.ForCrawler(c.Name)

	articles, err := c.crawlRange(ctx, "daily", (limit+1)/2)
	if err != nil {
		return nil, err
	}

	c.delay()

	weekly, err := c.crawlRange(ctx, "weekly", limit-len(articles))
	if err != nil {
		// The daily half already succeeded; keep the partial result
		log.Warn().Err(err).Msg("Weekly trending fetch failed, returning daily results only")
	} else {
		articles = append(articles, weekly...)
	}

	log.Info().Int("count", len(articles)).Msg("Crawled GitHub trending repositories")
	return articles, nil
}

func (c *GitHubTrendingCrawler) crawlRange(ctx context.Context, since string, limit int) ([]model.Article, error) {
	if limit <= 0 {
		return nil, nil
	}

	body, err := c.fetchWithCache(ctx, fmt.Sprintf("%s?since=%s", c.URL, since))
	if err != nil {
		return nil, err
	}

	doc, err := c.createDocument(body)
	if err != nil {
		return nil, err
	}

	var articles []model.Article
	doc.Find("article.Box-row").EachWithBreak(func(i int, s *goquery.Selection) bool {
		if len(articles) >= limit {
			return false
		}
		if article := c.parseRepo(s, since); article != nil {
			articles = append(articles, *article)
		}
		return true
	})

	return articles, nil
}

// parseRepo extracts one repository row. Returns nil when the required
// fields (name and link) cannot be found under any selector.
func (c *GitHubTrendingCrawler) parseRepo(s *goquery.Selection, since string) *model.Article {
	title, href := c.extractTitle(s)
	if title == "" || href == "" {
		return nil
	}

	description := firstText(s, "p.col-9", "p.color-fg-muted", "p")
	if description == "" {
		description = "No description provided"
	}

	stars := parseCount(firstText(s, "a[href$='/stargazers']", "a.Link--muted"))
	language := firstText(s, "span[itemprop='programmingLanguage']", "span.d-inline-block.ml-0.mr-3")

	tags := []string{"GitHub", "Trending", "OpenSource"}
	if language != "" {
		tags = append(tags, language)
	}

	author := ""
	if idx := strings.Index(title, "/"); idx > 0 {
		author = strings.TrimSpace(title[:idx])
	}

	return &model.Article{
		Title:       fmt.Sprintf("GitHub Trending (%s): %s", since, title),
		Summary:     description,
		URL:         "https://github.com" + href,
		Source:      c.Source,
		Author:      author,
		PublishTime: time.Now(),
		CrawlTime:   time.Now(),
		Tags:        model.JoinTags(tags),
		Views:       stars,
		Likes:       stars,
		Status:      model.ArticlePublished,
	}
}

func (c *GitHubTrendingCrawler) extractTitle(s *goquery.Selection) (string, string) {
	for _, selector := range []string{"h2.h3 a", "h2 a", "h1.h3 a"} {
		link := s.Find(selector).First()
		if link.Length() == 0 {
			continue
		}
		href, ok := link.Attr("href")
		if !ok || href == "" {
			continue
		}
		title := normalizeWhitespace(link.Text())
		if title != "" {
			return title, href
		}
	}
	return "", ""
}

// firstText returns the text under the first selector that matches
func firstText(s *goquery.Selection, selectors ...string) string {
	for _, selector := range selectors {
		sel := s.Find(selector).First()
		if sel.Length() > 0 {
			if text := normalizeWhitespace(sel.Text()); text != "" {
				return text
			}
		}
	}
	return ""
}

func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// parseCount parses star counts like "12,345" or "1.2k"
func parseCount(s string) int {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0
	}
	multiplier := 1.0
	if strings.HasSuffix(s, "k") || strings.HasSuffix(s, "K") {
		multiplier = 1000
		s = s[:len(s)-1]
	}
	var value float64
	if _, err := fmt.Sscanf(s, "%f", &value); err != nil {
		return 0
	}
	return int(value * multiplier)
}
