package services

import (
	"context"
	"fmt"

	"github.com/mitrahse/vendorhr-api/internal/jobs"
)

type JobService struct {
	worker   *jobs.Worker
	reminder *ReminderService
}

func NewJobService(worker *jobs.Worker, reminder *ReminderService) *JobService {
	return &JobService{
		worker:   worker,
		reminder: reminder,
	}
}

func (s *JobService) GetStatus() jobs.WorkerStats {
	return s.worker.GetStats()
}

// ReminderJob is the job body registered with the scheduler
func (s *JobService) ReminderJob(ctx context.Context) error {
	if s.reminder == nil {
		return fmt.Errorf("reminder service not configured")
	}
	return s.reminder.Run(ctx)
}

// RunReminder runs the reminder digest outside its schedule
func (s *JobService) RunReminder() error {
	return s.worker.RunNow(ReminderJobName, s.ReminderJob)
}
