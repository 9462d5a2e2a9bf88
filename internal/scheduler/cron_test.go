package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"techdaily/config"
)

func TestScheduler_StartAndStop(t *testing.T) {
	cfg := &config.Config{
		CrawlCron:         "0 */2 * * *",
		ReportCron:        "30 23 * * *",
		ArticlesPerSource: 5,
	}

	s := NewScheduler(cfg, nil, nil)
	assert.NoError(t, s.Start())
	defer s.Stop()

	assert.True(t, s.NextCrawlTime().After(time.Now()))
	assert.True(t, s.NextReportTime().After(time.Now()))
}

func TestScheduler_RejectsInvalidSpec(t *testing.T) {
	cfg := &config.Config{
		CrawlCron:  "not a cron spec",
		ReportCron: "30 23 * * *",
	}

	s := NewScheduler(cfg, nil, nil)
	assert.Error(t, s.Start())
}
