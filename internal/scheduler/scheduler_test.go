package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"splitbill-backend/internal/config"
	"splitbill-backend/internal/jobs"
)

func TestNewScheduler_RegistersReminderJob(t *testing.T) {
	cfg := &config.Config{Scheduler: config.SchedulerConfig{SendShareReminders: "0 0 9 * * *"}}
	s, err := NewScheduler(jobs.NewJobRunner(nil, nil, nil, cfg))
	require.NoError(t, err)
	assert.Equal(t, 1, s.Entries())

	s.Start()
	s.Stop()
}

func TestNewScheduler_InvalidSchedule(t *testing.T) {
	cfg := &config.Config{Scheduler: config.SchedulerConfig{SendShareReminders: "every morning"}}
	_, err := NewScheduler(jobs.NewJobRunner(nil, nil, nil, cfg))
	assert.Error(t, err)
}
