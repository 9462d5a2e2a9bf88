package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"techdaily/config"
	"techdaily/internal/report"
	"techdaily/logger"
	"techdaily/services/worker"
)

// Scheduler drives the periodic full crawl and the nightly report build
type Scheduler struct {
	cron          *cron.Cron
	cfg           *config.Config
	worker        *worker.Worker
	assembler     *report.Assembler
	crawlEntryID  cron.EntryID
	reportEntryID cron.EntryID
}

func NewScheduler(cfg *config.Config, w *worker.Worker, a *report.Assembler) *Scheduler {
	return &Scheduler{
		cron:      cron.New(),
		cfg:       cfg,
		worker:    w,
		assembler: a,
	}
}

// Start registers the cron entries and starts the clock
func (s *Scheduler) Start() error {
	log := logger.ForWorker()

	var err error
	s.crawlEntryID, err = s.cron.AddFunc(s.cfg.CrawlCron, func() {
		log.Info().Msg("Scheduled crawl starting")
		s.worker.CrawlAll(context.Background(), s.cfg.ArticlesPerSource)
	})
	if err != nil {
		return err
	}

	s.reportEntryID, err = s.cron.AddFunc(s.cfg.ReportCron, func() {
		log.Info().Msg("Scheduled report generation starting")
		if _, genErr := s.assembler.Generate(time.Now()); genErr != nil {
			logger.ForReport().WithError(genErr).Error().Msg("Scheduled report generation failed")
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	log.Info().
		Str("crawl_cron", s.cfg.CrawlCron).
		Str("report_cron", s.cfg.ReportCron).
		Msg("Scheduler started")
	return nil
}

// NextCrawlTime returns when the next scheduled crawl fires
func (s *Scheduler) NextCrawlTime() time.Time {
	return s.cron.Entry(s.crawlEntryID).Next
}

// NextReportTime returns when the next scheduled report build fires
func (s *Scheduler) NextReportTime() time.Time {
	return s.cron.Entry(s.reportEntryID).Next
}

// Stop stops the clock; a job already running is not interrupted
func (s *Scheduler) Stop() {
	s.cron.Stop()
}
