package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorker_EnqueueRunsJobs(t *testing.T) {
	w := NewWorker(2)
	defer w.Shutdown()

	var ran int32
	done := make(chan struct{}, 3)
	for i := 0; i < 3; i++ {
		w.Enqueue("count", func(ctx context.Context) error {
			atomic.AddInt32(&ran, 1)
			done <- struct{}{}
			return nil
		})
	}
	for i := 0; i < 3; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("job did not run")
		}
	}
	assert.Equal(t, int32(3), atomic.LoadInt32(&ran))
}

func TestWorker_FailuresAndPanicsAreCounted(t *testing.T) {
	w := NewWorker(1)
	defer w.Shutdown()

	require.Error(t, w.run("fail", func(ctx context.Context) error { return errors.New("boom") }))
	require.Error(t, w.run("panic", func(ctx context.Context) error { panic("oops") }))
	require.NoError(t, w.run("ok", func(ctx context.Context) error { return nil }))

	stats := w.GetStats()
	assert.Equal(t, int64(3), stats.CompletedJobs)
	assert.Equal(t, int64(2), stats.FailedJobs)
	assert.Equal(t, 0, stats.ActiveJobs)
}

func TestWorker_ScheduleCron(t *testing.T) {
	w := NewWorker(1)
	defer w.Shutdown()

	require.Error(t, w.ScheduleCron("bad", "not a spec", func(ctx context.Context) error { return nil }))

	job := func(ctx context.Context) error { return errors.New("smtp down") }
	require.NoError(t, w.ScheduleCron("reminder", "0 7 * * *", job))

	assert.Error(t, w.RunNow("reminder", job))

	stats := w.GetStats()
	require.Len(t, stats.Schedules, 1)
	assert.Equal(t, "reminder", stats.Schedules[0].Name)
	assert.Equal(t, "0 7 * * *", stats.Schedules[0].Spec)
	assert.Equal(t, int64(1), stats.Schedules[0].Runs)
	assert.Equal(t, "smtp down", stats.Schedules[0].LastError)
	assert.NotNil(t, stats.Schedules[0].LastRunAt)
}
