package model

import "time"

// CrawlStatus is the outcome of one adapter execution within a run.
// Terminal once set to COMPLETED or FAILED.
type CrawlStatus string

const (
	CrawlRunning   CrawlStatus = "RUNNING"
	CrawlCompleted CrawlStatus = "COMPLETED"
	CrawlFailed    CrawlStatus = "FAILED"
)

// CrawlAttempt is the append-only audit record of one adapter's execution
// in one orchestration run.
type CrawlAttempt struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	Source       string      `gorm:"size:200;not null;index" json:"source"`
	TotalCrawled int         `gorm:"default:0" json:"total_crawled"`
	SuccessCount int         `gorm:"default:0" json:"success_count"`
	ErrorCount   int         `gorm:"default:0" json:"error_count"`
	StartedAt    time.Time   `json:"started_at"`
	Status       CrawlStatus `gorm:"size:20;default:RUNNING" json:"status"`
	ErrorMessage string      `gorm:"size:1000" json:"error_message,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}
