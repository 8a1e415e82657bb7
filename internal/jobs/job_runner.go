package jobs

import (
	"time"

	"muontra/internal/config"
	"muontra/internal/logger"
	"muontra/internal/repository"
	"muontra/internal/service"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	loanSvc  service.LoanService
	loanRepo repository.LoanRepository
	emailSvc service.EmailService
	config   *config.Config
	now      func() time.Time
}

// NewJobRunner creates a job runner. emailSvc may be nil, which disables reminders.
func NewJobRunner(loanSvc service.LoanService, loanRepo repository.LoanRepository, emailSvc service.EmailService, cfg *config.Config) *JobRunner {
	return &JobRunner{
		loanSvc:  loanSvc,
		loanRepo: loanRepo,
		emailSvc: emailSvc,
		config:   cfg,
		now:      time.Now,
	}
}

// WithClock replaces the clock used to date reminders.
func (jr *JobRunner) WithClock(now func() time.Time) *JobRunner {
	jr.now = now
	return jr
}

// Config returns the configuration the runner was built with
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}

// RunAll runs every job once, overdue sweep first so reminders see fresh statuses
func (jr *JobRunner) RunAll() {
	jr.MarkOverdueLoans()
	jr.SendOverdueReminders()
}
