package store

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"techdaily/internal/model"
)

// FindReportByDate returns the report for the given calendar date, or nil
// when none exists.
func (s *Store) FindReportByDate(date time.Time) (*model.DailyReport, error) {
	var report model.DailyReport
	err := s.db.Where("report_date = ?", DateOnly(date)).First(&report).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// FindReportByID returns the report with the given ID, or nil when absent
func (s *Store) FindReportByID(id uint) (*model.DailyReport, error) {
	var report model.DailyReport
	err := s.db.First(&report, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// SaveReport inserts or updates a daily report row. The unique report_date
// index rejects a duplicate insert from a concurrent generation; callers
// re-fetch by date in that case.
func (s *Store) SaveReport(report *model.DailyReport) error {
	report.ReportDate = DateOnly(report.ReportDate)
	return s.db.Save(report).Error
}

// IncrementReadCount bumps the read counter without touching content
func (s *Store) IncrementReadCount(id uint) error {
	return s.db.Model(&model.DailyReport{}).
		Where("id = ?", id).
		UpdateColumn("read_count", gorm.Expr("read_count + 1")).Error
}

// LatestPublishedReport returns the newest published report, or nil
func (s *Store) LatestPublishedReport() (*model.DailyReport, error) {
	var report model.DailyReport
	err := s.db.
		Where("status = ?", model.ReportPublished).
		Order("report_date DESC").
		First(&report).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// RecentReports returns published reports for the last N days, newest
// first, excluding future dates.
func (s *Store) RecentReports(days int) ([]model.DailyReport, error) {
	today := DateOnly(time.Now())
	start := today.AddDate(0, 0, -(days - 1))

	var reports []model.DailyReport
	err := s.db.
		Where("status = ? AND report_date >= ? AND report_date <= ?",
			model.ReportPublished, start, today).
		Order("report_date DESC").
		Find(&reports).Error
	return reports, err
}
