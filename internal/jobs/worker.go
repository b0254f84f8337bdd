package jobs

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/mitrahse/vendorhr-api/internal/metrics"
	"github.com/mitrahse/vendorhr-api/pkg/logger"
	"github.com/robfig/cron"
)

// Job represents a background task
type Job func(ctx context.Context) error

// Worker manages background jobs and scheduled tasks
type Worker struct {
	ctx           context.Context
	cancel        context.CancelFunc
	wg            sync.WaitGroup
	queue         chan namedJob
	maxConcurrent int
	cron          *cron.Cron
	cronStarted   bool
	stats         WorkerStats
	schedules     map[string]*ScheduleInfo
	statsMu       sync.RWMutex
}

type namedJob struct {
	name string
	run  Job
}

// WorkerStats holds statistics about the worker
type WorkerStats struct {
	ActiveJobs    int            `json:"active_jobs"`
	CompletedJobs int64          `json:"completed_jobs"`
	FailedJobs    int64          `json:"failed_jobs"`
	QueueLength   int            `json:"queue_length"`
	MaxConcurrent int            `json:"max_concurrent"`
	Schedules     []ScheduleInfo `json:"schedules"`
}

// ScheduleInfo describes one recurring job
type ScheduleInfo struct {
	Name      string     `json:"name"`
	Spec      string     `json:"spec"`
	LastRunAt *time.Time `json:"last_run_at"`
	LastError string     `json:"last_error,omitempty"`
	Runs      int64      `json:"runs"`
}

// NewWorker creates a worker with N concurrent processors
func NewWorker(numWorkers int) *Worker {
	if numWorkers < 1 {
		numWorkers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())

	w := &Worker{
		ctx:           ctx,
		cancel:        cancel,
		queue:         make(chan namedJob, 100),
		maxConcurrent: numWorkers,
		cron:          cron.New(),
		schedules:     make(map[string]*ScheduleInfo),
	}

	for i := 0; i < numWorkers; i++ {
		w.wg.Add(1)
		go w.process(i)
	}

	return w
}

// Enqueue adds a job to be processed by the worker pool
func (w *Worker) Enqueue(name string, job Job) {
	select {
	case w.queue <- namedJob{name: name, run: job}:
	default:
		logger.Warn("[Worker] Queue full, running job synchronously", "job", name)
		w.run(name, job)
	}
}

func (w *Worker) process(workerID int) {
	defer w.wg.Done()
	for {
		select {
		case <-w.ctx.Done():
			return
		case job, ok := <-w.queue:
			if !ok {
				return
			}
			w.run(job.name, job.run)
		}
	}
}

// run executes one job with panic recovery and bookkeeping
func (w *Worker) run(name string, job Job) (err error) {
	w.trackJobStart()
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
		if err != nil {
			logger.Error("[Worker] Job failed", "job", name, "error", err)
			w.trackJobFailure()
			metrics.Metrics.JobRuns.WithLabelValues(name, metrics.ResultFailure).Inc()
		} else {
			logger.Debug("[Worker] Job completed", "job", name, "duration", time.Since(start))
			metrics.Metrics.JobRuns.WithLabelValues(name, metrics.ResultSuccess).Inc()
		}
		w.trackJobEnd()
	}()
	return job(w.ctx)
}

// ScheduleEvery runs a job at fixed intervals. The first run happens after the interval (not at startup).
func (w *Worker) ScheduleEvery(name string, interval time.Duration, job Job) {
	w.registerSchedule(name, "@every "+interval.String())
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-w.ctx.Done():
				return
			case <-ticker.C:
				w.runScheduled(name, job)
			}
		}
	}()
}

// ScheduleCron runs a job on a standard five-field cron spec
// ("0 7 * * *") or a descriptor such as "@daily".
func (w *Worker) ScheduleCron(name, spec string, job Job) error {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return fmt.Errorf("invalid cron spec %q for %s: %w", spec, name, err)
	}
	w.registerSchedule(name, spec)
	w.cron.Schedule(schedule, cron.FuncJob(func() {
		if w.ctx.Err() != nil {
			return
		}
		w.runScheduled(name, job)
	}))

	w.statsMu.Lock()
	defer w.statsMu.Unlock()
	if !w.cronStarted {
		w.cron.Start()
		w.cronStarted = true
	}
	return nil
}

// RunNow executes a registered recurring job immediately, outside its schedule
func (w *Worker) RunNow(name string, job Job) error {
	return w.runScheduled(name, job)
}

func (w *Worker) runScheduled(name string, job Job) error {
	err := w.run(name, job)
	now := time.Now()

	w.statsMu.Lock()
	defer w.statsMu.Unlock()
	info, ok := w.schedules[name]
	if !ok {
		return err
	}
	info.LastRunAt = &now
	info.Runs++
	info.LastError = ""
	if err != nil {
		info.LastError = err.Error()
	}
	return err
}

func (w *Worker) registerSchedule(name, spec string) {
	w.statsMu.Lock()
	defer w.statsMu.Unlock()
	w.schedules[name] = &ScheduleInfo{Name: name, Spec: spec}
}

// Shutdown gracefully stops all workers
func (w *Worker) Shutdown() {
	w.statsMu.Lock()
	if w.cronStarted {
		w.cron.Stop()
	}
	w.statsMu.Unlock()
	w.cancel()
	w.wg.Wait()
}

// GetStats returns the current worker statistics
func (w *Worker) GetStats() WorkerStats {
	w.statsMu.RLock()
	defer w.statsMu.RUnlock()
	stats := w.stats
	stats.QueueLength = len(w.queue)
	stats.MaxConcurrent = w.maxConcurrent
	stats.Schedules = make([]ScheduleInfo, 0, len(w.schedules))
	for _, s := range w.schedules {
		stats.Schedules = append(stats.Schedules, *s)
	}
	sort.Slice(stats.Schedules, func(i, j int) bool {
		return stats.Schedules[i].Name < stats.Schedules[j].Name
	})
	return stats
}

func (w *Worker) trackJobStart() {
	w.statsMu.Lock()
	defer w.statsMu.Unlock()
	w.stats.ActiveJobs++
}

// CompletedJobs counts every finished job; FailedJobs is the failed subset
func (w *Worker) trackJobEnd() {
	w.statsMu.Lock()
	defer w.statsMu.Unlock()
	w.stats.ActiveJobs--
	w.stats.CompletedJobs++
}

func (w *Worker) trackJobFailure() {
	w.statsMu.Lock()
	defer w.statsMu.Unlock()
	w.stats.FailedJobs++
}
