package store

import (
	"time"

	"techdaily/internal/model"
)

// CreateAttempt opens the audit record for one adapter execution
func (s *Store) CreateAttempt(source string) (*model.CrawlAttempt, error) {
	attempt := &model.CrawlAttempt{
		Source:    source,
		StartedAt: time.Now(),
		Status:    model.CrawlRunning,
	}
	if err := s.db.Create(attempt).Error; err != nil {
		return nil, err
	}
	return attempt, nil
}

// FinalizeAttempt writes the terminal state of an attempt. The record is
// immutable afterwards.
func (s *Store) FinalizeAttempt(attempt *model.CrawlAttempt) error {
	return s.db.Save(attempt).Error
}

// AttemptsSince returns attempts started at or after the given time,
// newest first.
func (s *Store) AttemptsSince(since time.Time) ([]model.CrawlAttempt, error) {
	var attempts []model.CrawlAttempt
	err := s.db.
		Where("started_at >= ?", since).
		Order("started_at DESC").
		Find(&attempts).Error
	return attempts, err
}

// SourceStatistics aggregates success counts per source
func (s *Store) SourceStatistics() (map[string]int64, error) {
	type row struct {
		Source string
		Total  int64
	}
	var rows []row
	err := s.db.Model(&model.CrawlAttempt{}).
		Select("source, SUM(success_count) AS total").
		Group("source").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	stats := make(map[string]int64, len(rows))
	for _, r := range rows {
		stats[r.Source] = r.Total
	}
	return stats, nil
}
