package store

import (
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"techdaily/internal/model"
)

// Store is the persistence gateway shared by the orchestrator and the
// report assembler. It is the only shared mutable resource in the system;
// concurrency control relies on the unique URL index, not locks.
type Store struct {
	db *gorm.DB
}

// Open opens (creating if necessary) the SQLite database at path
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, err
	}
	return New(db), nil
}

// New wraps an existing gorm handle
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// AutoMigrate creates or updates the schema
func (s *Store) AutoMigrate() error {
	return s.db.AutoMigrate(
		&model.Article{},
		&model.CrawlAttempt{},
		&model.DailyReport{},
	)
}

// DateOnly truncates a timestamp to midnight in its own location, the
// canonical representation of a report date.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
