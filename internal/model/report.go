package model

import (
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
)

// ReportStatus is the daily report lifecycle. A failed generation drops the
// report back to DRAFT with diagnostic content so it stays retryable.
type ReportStatus string

const (
	ReportDraft     ReportStatus = "DRAFT"
	ReportPublished ReportStatus = "PUBLISHED"
	ReportArchived  ReportStatus = "ARCHIVED"
)

// RecommendedArticle is one entry of the AI-picked reading list embedded in
// a daily report.
type RecommendedArticle struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Summary string `json:"summary"`
	Reason  string `json:"reason"`
	Source  string `json:"source"`
	Author  string `json:"author"`
}

// DailyReport is the derived digest keyed by calendar date. ReportDate is
// unique; regenerating for an existing date overwrites the same row.
type DailyReport struct {
	ID                  uint         `gorm:"primaryKey" json:"id"`
	ReportDate          time.Time    `gorm:"uniqueIndex;not null" json:"report_date"`
	Title               string       `gorm:"size:500;not null" json:"title"`
	Summary             string       `gorm:"type:text" json:"summary"`
	Content             string       `gorm:"type:text" json:"content"`
	TodayTrends         string       `gorm:"type:text" json:"today_trends"`
	RecommendedArticles string       `gorm:"type:text" json:"recommended_articles"`
	DailyQuote          string       `gorm:"size:500" json:"daily_quote"`
	SolarTerm           string       `gorm:"size:50" json:"solar_term"`
	ArticleIDs          string       `gorm:"type:text" json:"article_ids"`
	TotalArticles       int          `gorm:"default:0" json:"total_articles"`
	ReadCount           int          `gorm:"default:0" json:"read_count"`
	Status              ReportStatus `gorm:"size:20;default:DRAFT" json:"status"`
	GeneratedAt         time.Time    `json:"generated_at"`
	CreatedAt           time.Time    `json:"created_at"`
	UpdatedAt           time.Time    `json:"updated_at"`
}

// BeforeCreate stamps the generation time
func (r *DailyReport) BeforeCreate(tx *gorm.DB) error {
	if r.GeneratedAt.IsZero() {
		r.GeneratedAt = time.Now()
	}
	if r.Status == "" {
		r.Status = ReportDraft
	}
	return nil
}

// ArticleIDList splits the comma-separated provenance column
func (r *DailyReport) ArticleIDList() []uint {
	if r.ArticleIDs == "" {
		return nil
	}
	parts := strings.Split(r.ArticleIDs, ",")
	out := make([]uint, 0, len(parts))
	for _, p := range parts {
		if id, err := strconv.ParseUint(strings.TrimSpace(p), 10, 32); err == nil {
			out = append(out, uint(id))
		}
	}
	return out
}

// JoinArticleIDs builds the provenance column value from article IDs
func JoinArticleIDs(ids []uint) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatUint(uint64(id), 10)
	}
	return strings.Join(parts, ",")
}
