package jobs

import (
	"splitbill-backend/internal/config"
	"splitbill-backend/internal/logger"
	"splitbill-backend/internal/repository"
	"splitbill-backend/internal/service"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	expenses repository.ExpenseRepository
	resolver service.IdentityResolver
	email    service.EmailService
	config   *config.Config
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(expenses repository.ExpenseRepository, resolver service.IdentityResolver, email service.EmailService, cfg *config.Config) *JobRunner {
	return &JobRunner{
		expenses: expenses,
		resolver: resolver,
		email:    email,
		config:   cfg,
	}
}

// Config returns the configuration the runner was built with.
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
