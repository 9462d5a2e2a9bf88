package model

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// ArticleStatus tracks an article through its lifecycle. Transitions only
// move forward, never back.
type ArticleStatus string

const (
	ArticlePending    ArticleStatus = "PENDING"
	ArticleTranslated ArticleStatus = "TRANSLATED"
	ArticlePublished  ArticleStatus = "PUBLISHED"
	ArticleArchived   ArticleStatus = "ARCHIVED"
)

// Article is the normalized record every source adapter produces.
// URL is the global uniqueness key; a second record with the same URL is
// treated as already known and discarded.
type Article struct {
	ID          uint          `gorm:"primaryKey" json:"id"`
	Title       string        `gorm:"size:500;not null" json:"title"`
	TitleZh     string        `gorm:"size:500" json:"title_zh,omitempty"`
	Summary     string        `gorm:"type:text" json:"summary"`
	SummaryZh   string        `gorm:"type:text" json:"summary_zh,omitempty"`
	URL         string        `gorm:"size:1000;uniqueIndex;not null" json:"url"`
	Source      string        `gorm:"size:200;index" json:"source"`
	Author      string        `gorm:"size:200" json:"author,omitempty"`
	PublishTime time.Time     `gorm:"index" json:"publish_time"`
	CrawlTime   time.Time     `json:"crawl_time"`
	Tags        string        `gorm:"size:500" json:"tags,omitempty"`
	Views       int           `gorm:"default:0" json:"views"`
	Likes       int           `gorm:"default:0" json:"likes"`
	Status      ArticleStatus `gorm:"size:20;default:PENDING" json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// BeforeCreate stamps the crawl time when the adapter did not
func (a *Article) BeforeCreate(tx *gorm.DB) error {
	if a.CrawlTime.IsZero() {
		a.CrawlTime = time.Now()
	}
	if a.Status == "" {
		a.Status = ArticlePending
	}
	return nil
}

// TagList splits the comma-separated tags column
func (a *Article) TagList() []string {
	if a.Tags == "" {
		return nil
	}
	parts := strings.Split(a.Tags, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// JoinTags builds the tags column value from a list
func JoinTags(tags []string) string {
	return strings.Join(tags, ",")
}
