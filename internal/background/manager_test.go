package background

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobprospect/internal/config"
)

func testManager(t *testing.T) *TaskManagerImpl {
	t.Helper()
	cfg, err := config.LoadConfig("")
	require.NoError(t, err)
	cfg.BackgroundTasks.MaxConcurrentTasks = 2

	tm := NewTaskManager(cfg)
	require.NoError(t, tm.Start(context.Background()))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = tm.Stop(ctx)
	})
	return tm
}

func waitForStatus(t *testing.T, tm TaskManager, processID string, want TaskStatus) *TaskResult {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		result, err := tm.GetTaskResult(context.Background(), processID)
		if err == nil && result.Status == want {
			return result
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("task %s never reached status %s", processID, want)
	return nil
}

func TestSubmitRunsTaskToSuccess(t *testing.T) {
	tm := testManager(t)

	err := tm.Submit(context.Background(), "p1", map[string]interface{}{"kind": "test"},
		func(ctx context.Context) (interface{}, error) {
			return "done", nil
		})
	require.NoError(t, err)

	result := waitForStatus(t, tm, "p1", TaskStatusSuccess)
	assert.Equal(t, "done", result.Data)
	assert.NotNil(t, result.CompletedAt)
	assert.NotNil(t, result.ProcessingTime)
	assert.Equal(t, "test", result.Metadata["kind"])
}

func TestSubmitRecordsFailure(t *testing.T) {
	tm := testManager(t)

	err := tm.Submit(context.Background(), "p2", nil,
		func(ctx context.Context) (interface{}, error) {
			return nil, errors.New("provider exploded")
		})
	require.NoError(t, err)

	result := waitForStatus(t, tm, "p2", TaskStatusFailure)
	assert.Equal(t, "provider exploded", result.Error)
}

func TestCancelTaskMarksStopped(t *testing.T) {
	tm := testManager(t)

	started := make(chan struct{})
	err := tm.Submit(context.Background(), "p3", nil,
		func(ctx context.Context) (interface{}, error) {
			close(started)
			<-ctx.Done()
			return nil, ctx.Err()
		})
	require.NoError(t, err)

	<-started
	require.NoError(t, tm.CancelTask("p3"))

	waitForStatus(t, tm, "p3", TaskStatusStopped)
}

func TestCancelUnknownTask(t *testing.T) {
	tm := testManager(t)
	assert.ErrorIs(t, tm.CancelTask("nope"), ErrTaskNotFound)
}

func TestGetTaskStatusUnknown(t *testing.T) {
	tm := testManager(t)
	_, err := tm.GetTaskStatus(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestStopWaitsForRunningTask(t *testing.T) {
	cfg, err := config.LoadConfig("")
	require.NoError(t, err)
	cfg.BackgroundTasks.MaxConcurrentTasks = 2

	tm := NewTaskManager(cfg)
	require.NoError(t, tm.Start(context.Background()))

	started := make(chan struct{})
	err = tm.Submit(context.Background(), "p-stop", nil,
		func(ctx context.Context) (interface{}, error) {
			close(started)
			time.Sleep(100 * time.Millisecond)
			return "done", nil
		})
	require.NoError(t, err)
	<-started

	// The worker finishes while Stop is already waiting; Stop must observe
	// that instead of burning the whole shutdown deadline.
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	begin := time.Now()
	require.NoError(t, tm.Stop(ctx))
	assert.Less(t, time.Since(begin), 2*time.Second)

	result, err := tm.GetTaskResult(context.Background(), "p-stop")
	require.NoError(t, err)
	assert.Equal(t, TaskStatusSuccess, result.Status)
}

func TestGetTaskResultReturnsCopy(t *testing.T) {
	tm := testManager(t)

	err := tm.Submit(context.Background(), "p-copy", nil,
		func(ctx context.Context) (interface{}, error) {
			return "done", nil
		})
	require.NoError(t, err)
	waitForStatus(t, tm, "p-copy", TaskStatusSuccess)

	first, err := tm.GetTaskResult(context.Background(), "p-copy")
	require.NoError(t, err)
	first.Status = TaskStatusFailure
	first.Error = "mutated by caller"

	second, err := tm.GetTaskResult(context.Background(), "p-copy")
	require.NoError(t, err)
	assert.Equal(t, TaskStatusSuccess, second.Status)
	assert.Empty(t, second.Error)
}

func TestStatusPollDuringRun(t *testing.T) {
	tm := testManager(t)

	release := make(chan struct{})
	err := tm.Submit(context.Background(), "p-poll", nil,
		func(ctx context.Context) (interface{}, error) {
			<-release
			return "done", nil
		})
	require.NoError(t, err)

	// Poll continuously while the worker finishes the task; the store must
	// never hand both sides the same mutable result.
	polling := make(chan struct{})
	go func() {
		defer close(polling)
		for i := 0; i < 200; i++ {
			_, _ = tm.GetTaskResult(context.Background(), "p-poll")
			time.Sleep(time.Millisecond)
		}
	}()
	close(release)
	<-polling

	waitForStatus(t, tm, "p-poll", TaskStatusSuccess)
}

func TestStoreCleanupDropsOldTasks(t *testing.T) {
	store := NewInMemoryTaskStore()
	ctx := context.Background()

	old := &TaskResult{ProcessID: "old", CreatedAt: time.Now().Add(-48 * time.Hour)}
	fresh := &TaskResult{ProcessID: "fresh", CreatedAt: time.Now()}
	require.NoError(t, store.Store(ctx, old))
	require.NoError(t, store.Store(ctx, fresh))

	require.NoError(t, store.Cleanup(ctx, 24*time.Hour))

	_, err := store.Get(ctx, "old")
	assert.ErrorIs(t, err, ErrTaskNotFound)
	_, err = store.Get(ctx, "fresh")
	assert.NoError(t, err)
}
