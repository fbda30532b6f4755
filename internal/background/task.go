package background

import (
	"context"
	"sync"
	"time"
)

// TaskStatus represents the status of a background search task
type TaskStatus string

const (
	TaskStatusAccepted   TaskStatus = "ACCEPTED"
	TaskStatusProcessing TaskStatus = "PROCESSING"
	TaskStatusSuccess    TaskStatus = "SUCCESS"
	TaskStatusFailure    TaskStatus = "FAILURE"
	TaskStatusStopped    TaskStatus = "STOPPED"
)

// TaskResult represents the stored state of a background task
type TaskResult struct {
	ProcessID      string                 `json:"processId"`
	Status         TaskStatus             `json:"status"`
	Data           interface{}            `json:"data,omitempty"`
	Error          string                 `json:"error,omitempty"`
	CreatedAt      time.Time              `json:"createdAt"`
	CompletedAt    *time.Time             `json:"completedAt,omitempty"`
	ProcessingTime *time.Duration         `json:"processingTime,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}

// TaskStore defines the interface for storing and retrieving task results
type TaskStore interface {
	// Store stores a task result
	Store(ctx context.Context, result *TaskResult) error

	// Get retrieves a task result by process ID
	Get(ctx context.Context, processID string) (*TaskResult, error)

	// Update updates a task result
	Update(ctx context.Context, result *TaskResult) error

	// Delete removes a task result
	Delete(ctx context.Context, processID string) error

	// Cleanup removes expired task results
	Cleanup(ctx context.Context, maxAge time.Duration) error

	// List returns all task results (for monitoring)
	List(ctx context.Context) ([]*TaskResult, error)
}

// InMemoryTaskStore implements TaskStore using in-memory storage
type InMemoryTaskStore struct {
	mu    sync.RWMutex
	tasks map[string]*TaskResult
}

// NewInMemoryTaskStore creates a new in-memory task store
func NewInMemoryTaskStore() *InMemoryTaskStore {
	return &InMemoryTaskStore{
		tasks: make(map[string]*TaskResult),
	}
}

// Store stores a task result
func (s *InMemoryTaskStore) Store(ctx context.Context, result *TaskResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks[result.ProcessID] = result
	return nil
}

// Get retrieves a task result by process ID. The returned value is a copy;
// workers update a task by storing a new result, never by mutating a result
// a caller may still hold.
func (s *InMemoryTaskStore) Get(ctx context.Context, processID string) (*TaskResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result, exists := s.tasks[processID]
	if !exists {
		return nil, ErrTaskNotFound
	}

	copied := *result
	return &copied, nil
}

// Update updates a task result
func (s *InMemoryTaskStore) Update(ctx context.Context, result *TaskResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tasks[result.ProcessID]; !exists {
		return ErrTaskNotFound
	}

	s.tasks[result.ProcessID] = result
	return nil
}

// Delete removes a task result
func (s *InMemoryTaskStore) Delete(ctx context.Context, processID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tasks[processID]; !exists {
		return ErrTaskNotFound
	}

	delete(s.tasks, processID)
	return nil
}

// Cleanup removes expired task results
func (s *InMemoryTaskStore) Cleanup(ctx context.Context, maxAge time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)

	for processID, result := range s.tasks {
		if result.CreatedAt.Before(cutoff) {
			delete(s.tasks, processID)
		}
	}

	return nil
}

// List returns all task results (for monitoring)
func (s *InMemoryTaskStore) List(ctx context.Context) ([]*TaskResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]*TaskResult, 0, len(s.tasks))
	for _, result := range s.tasks {
		copied := *result
		results = append(results, &copied)
	}

	return results, nil
}

// Common errors
var (
	ErrTaskNotFound = NewTaskError("task not found")
)

// TaskError represents a background task error
type TaskError struct {
	Message string
	Code    string
}

func NewTaskError(message string) *TaskError {
	return &TaskError{
		Message: message,
		Code:    "TASK_ERROR",
	}
}

func (e *TaskError) Error() string {
	return e.Message
}
