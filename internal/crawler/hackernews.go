package crawler

import (
	"context"
	"fmt"
	"time"

	"techdaily/helpers"
	"techdaily/internal/model"
	"techdaily/logger"
	apperrors "techdaily/pkg/errors"
)

// HackerNewsCrawler is a two-stage adapter: one call for the top-story ID
// list, then one detail call per ID. Every detail fetch fails
// independently; failed IDs are skipped and do not abort the run.
type HackerNewsCrawler struct {
	BaseCrawler
}

type hnItem struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	By          string `json:"by"`
	Score       int    `json:"score"`
	Descendants int    `json:"descendants"`
	Time        int64  `json:"time"`
}

// NewHackerNewsCrawler creates a Hacker News adapter rooted at baseURL
func NewHackerNewsCrawler(baseURL string, delayer helpers.Delayer) *HackerNewsCrawler {
	return &HackerNewsCrawler{
		BaseCrawler: BaseCrawler{
			Name:    "Hacker News Crawler",
			Source:  "Hacker News",
			URL:     baseURL,
			Delayer: delayer,
		},
	}
}

// CrawlArticles fetches top-story IDs, then details per ID with a
// politeness delay between detail calls.
func (c *HackerNewsCrawler) CrawlArticles(ctx context.Context, limit int) ([]model.Article, error) {
	log := logger.ForCrawler(c.Name)

	var storyIDs []int64
	if err := helpers.FetchJSON(ctx, c.URL+"/topstories.json", &storyIDs); err != nil {
		return nil, apperrors.NewNetwork(c.Source, "top stories fetch failed", err)
	}

	articles := make([]model.Article, 0, limit)
	attempted := 0
	failed := 0

	for _, id := range storyIDs {
		if attempted >= limit {
			break
		}
		attempted++

		select {
		case <-ctx.Done():
			log.Warn().Int("collected", len(articles)).Msg("Context done, returning partial results")
			return articles, nil
		default:
		}

		article, err := c.fetchStory(ctx, id)
		if err != nil {
			failed++
			log.Warn().Err(err).Int64("story_id", id).Msg("Failed to fetch story details")
			continue
		}
		if article == nil {
			// Ask/job posts without an external URL
			failed++
			continue
		}

		articles = append(articles, *article)
		c.delay()
	}

	log.Info().
		Int("count", len(articles)).
		Int("failed", failed).
		Msg("Crawled Hacker News articles")
	return articles, nil
}

func (c *HackerNewsCrawler) fetchStory(ctx context.Context, id int64) (*model.Article, error) {
	var item hnItem
	url := fmt.Sprintf("%s/item/%d.json", c.URL, id)
	if err := helpers.FetchJSON(ctx, url, &item); err != nil {
		return nil, err
	}

	if item.URL == "" || item.Title == "" {
		return nil, nil
	}

	publishTime := time.Now()
	if item.Time > 0 {
		publishTime = time.Unix(item.Time, 0)
	}

	return &model.Article{
		Title:       item.Title,
		Summary:     fmt.Sprintf("Hacker News top story, score: %d", item.Score),
		URL:         item.URL,
		Source:      c.Source,
		Author:      item.By,
		PublishTime: publishTime,
		CrawlTime:   time.Now(),
		Tags:        "Tech,News,HackerNews",
		Views:       item.Score,
		Likes:       item.Descendants,
		Status:      model.ArticlePublished,
	}, nil
}
