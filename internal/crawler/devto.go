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

// DevToCrawler reads the Dev.to public articles API: one paginated list
// call with fully structured fields.
type DevToCrawler struct {
	BaseCrawler
}

type devtoArticle struct {
	Title                string   `json:"title"`
	Description          string   `json:"description"`
	URL                  string   `json:"url"`
	PublishedAt          string   `json:"published_at"`
	TagList              []string `json:"tag_list"`
	PageViewsCount       int      `json:"page_views_count"`
	PublicReactionsCount int      `json:"public_reactions_count"`
	User                 struct {
		Name string `json:"name"`
	} `json:"user"`
}

// NewDevToCrawler creates a Dev.to adapter rooted at apiURL
func NewDevToCrawler(apiURL string) *DevToCrawler {
	return &DevToCrawler{
		BaseCrawler: BaseCrawler{
			Name:   "Dev.to Crawler",
			Source: "Dev.to",
			URL:    apiURL,
		},
	}
}

// CrawlArticles fetches the weekly top articles, bounded by limit
func (c *DevToCrawler) CrawlArticles(ctx context.Context, limit int) ([]model.Article, error) {
	log := logger.ForCrawler(c.Name)

	url := fmt.Sprintf("%s?per_page=%d&top=7", c.URL, limit)

	var raw []devtoArticle
	if err := helpers.FetchJSON(ctx, url, &raw); err != nil {
		return nil, apperrors.NewNetwork(c.Source, "article list fetch failed", err)
	}

	articles := make([]model.Article, 0, len(raw))
	for _, item := range raw {
		if item.URL == "" || item.Title == "" {
			continue
		}
		articles = append(articles, c.normalize(item))
		if len(articles) >= limit {
			break
		}
	}

	log.Info().Int("count", len(articles)).Msg("Crawled Dev.to articles")
	return articles, nil
}

func (c *DevToCrawler) normalize(item devtoArticle) model.Article {
	publishTime, err := time.Parse(time.RFC3339, item.PublishedAt)
	if err != nil {
		publishTime = time.Now()
	}

	return model.Article{
		Title:       item.Title,
		Summary:     item.Description,
		URL:         item.URL,
		Source:      c.Source,
		Author:      item.User.Name,
		PublishTime: publishTime,
		CrawlTime:   time.Now(),
		Tags:        model.JoinTags(item.TagList),
		Views:       item.PageViewsCount,
		Likes:       item.PublicReactionsCount,
		Status:      model.ArticlePublished,
	}
}
