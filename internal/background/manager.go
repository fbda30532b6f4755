package background

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"jobprospect/internal/config"
	"jobprospect/internal/logging"
	"jobprospect/internal/logging/types"
)

const (
	DefaultMaxWorkers   = 4
	DefaultMaxQueueSize = 16

	MaxWorkers   = 64
	MaxQueueSize = 1024
)

// TaskFunc is the unit of work executed by a worker. The returned value is
// stored as the task's result data. Returning context.Canceled marks the
// task as stopped rather than failed.
type TaskFunc func(ctx context.Context) (interface{}, error)

// TaskManager manages background search tasks: submission, execution,
// cooperative cancellation and retention.
type TaskManager interface {
	// Start starts the task manager
	Start(ctx context.Context) error

	// Stop stops the task manager gracefully
	Stop(ctx context.Context) error

	// Submit queues a task for background execution under the given process ID
	Submit(ctx context.Context, processID string, metadata map[string]interface{}, fn TaskFunc) error

	// CancelTask requests cooperative cancellation of a queued or running task
	CancelTask(processID string) error

	// GetTaskResult retrieves the result of a task by process ID
	GetTaskResult(ctx context.Context, processID string) (*TaskResult, error)

	// GetTaskStatus retrieves the status of a task by process ID
	GetTaskStatus(ctx context.Context, processID string) (TaskStatus, error)

	// ListTasks lists all known tasks (for monitoring)
	ListTasks(ctx context.Context) ([]*TaskResult, error)

	// IsHealthy checks if the task manager is healthy
	IsHealthy() bool
}

// TaskManagerImpl implements the TaskManager interface
type TaskManagerImpl struct {
	config     *config.Config
	store      TaskStore
	logger     types.Logger
	taskChan   chan *taskExecution
	maxWorkers int

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.RWMutex
	running bool

	// cancels has its own lock: workers drop their entry while Stop holds
	// tm.mu waiting for them, so the registry must never contend with it.
	cancelMu sync.Mutex
	cancels  map[string]context.CancelFunc
}

type taskExecution struct {
	processID string
	ctx       context.Context
	cancel    context.CancelFunc
	execute   TaskFunc
}

// NewTaskManager creates a new task manager sized from configuration.
func NewTaskManager(cfg *config.Config) *TaskManagerImpl {
	logger := logging.GetGlobalLogger()

	maxWorkers := cfg.BackgroundTasks.MaxConcurrentTasks
	if maxWorkers <= 0 {
		maxWorkers = DefaultMaxWorkers
	} else if maxWorkers > MaxWorkers {
		logger.Warn("max_concurrent_tasks above limit, clamping", map[string]interface{}{
			"configured": maxWorkers,
			"limit":      MaxWorkers,
		})
		maxWorkers = MaxWorkers
	}

	return &TaskManagerImpl{
		config:     cfg,
		store:      NewInMemoryTaskStore(),
		logger:     logger,
		taskChan:   make(chan *taskExecution, DefaultMaxQueueSize),
		maxWorkers: maxWorkers,
		cancels:    make(map[string]context.CancelFunc),
	}
}

// Start starts the worker and cleanup goroutines.
func (tm *TaskManagerImpl) Start(ctx context.Context) error {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	if tm.running {
		return fmt.Errorf("task manager already running")
	}

	tm.ctx, tm.cancel = context.WithCancel(ctx)
	tm.running = true

	for i := 0; i < tm.maxWorkers; i++ {
		tm.wg.Add(1)
		go tm.worker(i)
	}

	tm.wg.Add(1)
	go tm.cleanupRoutine()

	tm.logger.Info("Task manager started", map[string]interface{}{
		"max_workers": tm.maxWorkers,
	})
	return nil
}

// Stop stops the task manager gracefully, waiting for in-flight tasks until
// the context expires.
func (tm *TaskManagerImpl) Stop(ctx context.Context) error {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	if !tm.running {
		return nil
	}

	tm.logger.Info("Stopping task manager...")

	tm.cancel()
	close(tm.taskChan)

	done := make(chan struct{})
	go func() {
		tm.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		tm.logger.Info("Task manager stopped gracefully")
	case <-ctx.Done():
		tm.logger.Warn("Task manager shutdown timed out")
	}

	tm.running = false
	return nil
}

// Submit queues a task for background execution.
func (tm *TaskManagerImpl) Submit(ctx context.Context, processID string, metadata map[string]interface{}, fn TaskFunc) error {
	if !tm.IsHealthy() {
		return fmt.Errorf("task manager is not healthy")
	}

	result := &TaskResult{
		ProcessID: processID,
		Status:    TaskStatusAccepted,
		CreatedAt: time.Now(),
		Metadata:  metadata,
	}
	if err := tm.store.Store(ctx, result); err != nil {
		return fmt.Errorf("failed to store task result: %w", err)
	}

	taskCtx, cancelFunc := context.WithTimeout(tm.ctx, tm.config.BackgroundTasks.TaskTimeout)
	tm.cancelMu.Lock()
	tm.cancels[processID] = cancelFunc
	tm.cancelMu.Unlock()

	execution := &taskExecution{
		processID: processID,
		ctx:       taskCtx,
		cancel:    cancelFunc,
		execute:   fn,
	}

	select {
	case tm.taskChan <- execution:
		tm.logger.Info("Task accepted", map[string]interface{}{
			"process_id": processID,
		})
		return nil
	case <-ctx.Done():
		tm.forgetCancel(processID)
		return ctx.Err()
	default:
		tm.forgetCancel(processID)
		return fmt.Errorf("task queue is full")
	}
}

// CancelTask cancels the context of a queued or running task. The task
// itself decides when to observe the cancellation.
func (tm *TaskManagerImpl) CancelTask(processID string) error {
	tm.cancelMu.Lock()
	cancelFunc, ok := tm.cancels[processID]
	tm.cancelMu.Unlock()

	if !ok {
		return ErrTaskNotFound
	}
	cancelFunc()
	tm.logger.Info("Task cancellation requested", map[string]interface{}{
		"process_id": processID,
	})
	return nil
}

// GetTaskResult retrieves the result of a task by process ID
func (tm *TaskManagerImpl) GetTaskResult(ctx context.Context, processID string) (*TaskResult, error) {
	return tm.store.Get(ctx, processID)
}

// GetTaskStatus retrieves the status of a task by process ID
func (tm *TaskManagerImpl) GetTaskStatus(ctx context.Context, processID string) (TaskStatus, error) {
	result, err := tm.store.Get(ctx, processID)
	if err != nil {
		return "", err
	}
	return result.Status, nil
}

// ListTasks lists all known tasks (for monitoring)
func (tm *TaskManagerImpl) ListTasks(ctx context.Context) ([]*TaskResult, error) {
	return tm.store.List(ctx)
}

// IsHealthy checks if the task manager is healthy
func (tm *TaskManagerImpl) IsHealthy() bool {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	return tm.running && tm.ctx.Err() == nil
}

func (tm *TaskManagerImpl) forgetCancel(processID string) {
	tm.cancelMu.Lock()
	delete(tm.cancels, processID)
	tm.cancelMu.Unlock()
}

// worker processes tasks from the task channel
func (tm *TaskManagerImpl) worker(workerID int) {
	defer tm.wg.Done()

	for {
		select {
		case <-tm.ctx.Done():
			return
		case task, ok := <-tm.taskChan:
			if !ok {
				return
			}
			tm.processTask(workerID, task)
		}
	}
}

func (tm *TaskManagerImpl) processTask(workerID int, task *taskExecution) {
	defer task.cancel()
	defer tm.forgetCancel(task.processID)

	startTime := time.Now()
	tm.logger.Info("Processing task", map[string]interface{}{
		"worker_id":  workerID,
		"process_id": task.processID,
	})

	tm.setStatus(task.processID, TaskStatusProcessing)

	data, err := task.execute(task.ctx)
	processingTime := time.Since(startTime)

	result, getErr := tm.store.Get(context.Background(), task.processID)
	if getErr != nil {
		result = &TaskResult{
			ProcessID: task.processID,
			CreatedAt: startTime,
		}
	}

	completedAt := time.Now()
	result.Data = data
	result.CompletedAt = &completedAt
	result.ProcessingTime = &processingTime

	switch {
	case err == nil:
		result.Status = TaskStatusSuccess
	case errors.Is(err, context.Canceled):
		result.Status = TaskStatusStopped
	default:
		result.Status = TaskStatusFailure
		result.Error = err.Error()
		tm.logger.Error("Task execution failed", map[string]interface{}{
			"worker_id":       workerID,
			"process_id":      task.processID,
			"processing_time": processingTime.String(),
			"error":           err.Error(),
		})
	}

	if storeErr := tm.store.Store(context.Background(), result); storeErr != nil {
		tm.logger.Error("Failed to store task result", map[string]interface{}{
			"process_id": task.processID,
			"error":      storeErr.Error(),
		})
	}

	tm.logger.Info("Task finished", map[string]interface{}{
		"worker_id":       workerID,
		"process_id":      task.processID,
		"status":          string(result.Status),
		"processing_time": processingTime.String(),
	})
}

func (tm *TaskManagerImpl) setStatus(processID string, status TaskStatus) {
	result, err := tm.store.Get(context.Background(), processID)
	if err != nil {
		return
	}
	result.Status = status
	if err := tm.store.Update(context.Background(), result); err != nil {
		tm.logger.Error("Failed to update task status", map[string]interface{}{
			"process_id": processID,
			"error":      err.Error(),
		})
	}
}

// cleanupRoutine periodically removes old task results
func (tm *TaskManagerImpl) cleanupRoutine() {
	defer tm.wg.Done()

	interval := tm.config.BackgroundTasks.CleanupInterval
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-tm.ctx.Done():
			return
		case <-ticker.C:
			maxAge := tm.config.BackgroundTasks.MaxTaskAge
			if maxAge <= 0 {
				maxAge = 24 * time.Hour
			}
			if err := tm.store.Cleanup(context.Background(), maxAge); err != nil {
				tm.logger.Error("Task cleanup failed", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}
	}
}
