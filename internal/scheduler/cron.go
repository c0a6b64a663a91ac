package scheduler

import (
	"fmt"

	"github.com/grantgg11/gamegrinding/internal/models"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Scheduler manages background jobs
type Scheduler struct {
	cron   *cron.Cron
	db     *models.Database
	logger *logrus.Logger
}

// NewScheduler creates a new scheduler
func NewScheduler(db *models.Database, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		db:     db,
		logger: logger,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.logger.Info("Starting scheduler")

	// Every hour: database integrity check
	_, err := s.cron.AddFunc("0 * * * *", func() {
		s.runIntegrityCheck()
	})
	if err != nil {
		return fmt.Errorf("failed to add integrity check job: %w", err)
	}

	s.cron.Start()
	s.logger.Info("Scheduler started")

	// Run an initial check immediately
	go s.runIntegrityCheck()

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping scheduler")
	s.cron.Stop()
}

// runIntegrityCheck executes the integrity check job
func (s *Scheduler) runIntegrityCheck() {
	s.logger.Debug("Running database integrity check")

	report, err := s.db.CheckIntegrity()
	if err != nil {
		s.logger.WithError(err).Error("Integrity check failed")
		return
	}

	fields := logrus.Fields{
		"users":        report.Users,
		"games":        report.Games,
		"request_logs": report.RequestLogs,
	}

	if len(report.OrphanedGames) > 0 {
		fields["orphaned_games"] = report.OrphanedGames
		s.logger.WithFields(fields).Warn("Integrity check found orphaned games")
		return
	}

	s.logger.WithFields(fields).Info("Integrity check completed")
}
