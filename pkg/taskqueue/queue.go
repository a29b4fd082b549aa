package taskqueue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Queue is the task queue interface. It covers enqueueing documents for
// background processing and inspecting task state afterwards.
type Queue interface {
	// Enqueue adds a task to the queue and returns its ID.
	Enqueue(ctx context.Context, taskType TaskType, documentID string, payload interface{}) (string, error)

	// EnqueueAt schedules a task to run at the given time.
	EnqueueAt(ctx context.Context, taskType TaskType, documentID string, payload interface{}, processAt time.Time) (string, error)

	// EnqueueIn schedules a task to run after the given delay.
	EnqueueIn(ctx context.Context, taskType TaskType, documentID string, payload interface{}, delay time.Duration) (string, error)

	// GetTask returns the task with the given ID.
	GetTask(ctx context.Context, taskID string) (*Task, error)

	// GetTasksByDocument returns every task recorded for a document.
	GetTasksByDocument(ctx context.Context, documentID string) ([]*Task, error)

	// WaitForTask blocks until the task completes or fails.
	// A timeout of 0 means wait indefinitely.
	WaitForTask(ctx context.Context, taskID string, timeout time.Duration) (*Task, error)

	// DeleteTask removes a task and its bookkeeping data.
	DeleteTask(ctx context.Context, taskID string) error

	// UpdateTaskStatus updates the task's status, result and error message.
	UpdateTaskStatus(ctx context.Context, taskID string, status TaskStatus, result interface{}, errorMsg string) error

	// NotifyTaskUpdate publishes a status-change notification for the task.
	NotifyTaskUpdate(ctx context.Context, taskID string) error

	// Close releases queue connections.
	Close() error
}

// Handler executes tasks pulled off the queue.
type Handler interface {
	// ProcessTask runs the task to completion.
	ProcessTask(ctx context.Context, task *Task) error

	// GetTaskTypes returns the task types this handler accepts.
	GetTaskTypes() []TaskType
}

// Worker runs a set of Handlers against the queue.
type Worker interface {
	// RegisterHandler binds a handler to a task type.
	RegisterHandler(taskType TaskType, handler Handler)

	// Start begins consuming tasks. Blocks until Stop is called.
	Start() error

	// Stop shuts the worker down.
	Stop()
}

// Config holds queue connection and scheduling settings.
type Config struct {
	RedisAddr     string         // redis address
	RedisPassword string         // redis password
	RedisDB       int            // redis database index
	Concurrency   int            // concurrent task slots per worker
	RetryLimit    int            // max retries per task
	RetryDelay    time.Duration  // delay between retries
	Queues        map[string]int // queue name to priority weight
}

// DefaultConfig returns the default queue configuration.
func DefaultConfig() *Config {
	return &Config{
		RedisAddr:   "localhost:6379",
		RedisDB:     0,
		Concurrency: 10,
		RetryLimit:  3,
		RetryDelay:  time.Minute,
		Queues: map[string]int{
			"critical": 6,
			"default":  3,
			"low":      1,
		},
	}
}

// TaskInfo is the trimmed-down task view returned to API clients.
type TaskInfo struct {
	ID          string     `json:"id"`           // task identifier
	Type        TaskType   `json:"type"`         // task type
	DocumentID  string     `json:"document_id"`  // associated document ID
	Status      TaskStatus `json:"status"`       // current status
	Error       string     `json:"error"`        // error message, if failed
	CreatedAt   time.Time  `json:"created_at"`   // enqueue time
	StartedAt   *time.Time `json:"started_at"`   // processing start time
	CompletedAt *time.Time `json:"completed_at"` // completion time
	Progress    float64    `json:"progress"`     // progress percentage (0-100)
}

// Factory creates a Queue implementation from a Config.
type Factory func(cfg *Config) (Queue, error)

// NewTaskInfo builds a TaskInfo view from a Task.
func NewTaskInfo(task *Task) *TaskInfo {
	return &TaskInfo{
		ID:          task.ID,
		Type:        task.Type,
		DocumentID:  task.DocumentID,
		Status:      task.Status,
		Error:       task.Error,
		CreatedAt:   task.CreatedAt,
		StartedAt:   task.StartedAt,
		CompletedAt: task.CompletedAt,
		Progress:    getTaskProgress(task),
	}
}

// getTaskProgress derives a coarse progress figure from task status.
func getTaskProgress(task *Task) float64 {
	switch task.Status {
	case StatusPending:
		return 0.0
	case StatusProcessing:
		return 50.0
	case StatusCompleted:
		return 100.0
	case StatusFailed:
		return 50.0
	default:
		return 0.0
	}
}

// ErrTaskNotFound is returned when no task exists for the given ID.
var ErrTaskNotFound = TaskError("task not found")

// ErrTaskTimeout is returned when WaitForTask exceeds its timeout.
var ErrTaskTimeout = TaskError("task timed out")

// ErrInvalidPayload is returned when a task payload cannot be decoded.
var ErrInvalidPayload = TaskError("invalid task payload")

// TaskError is a sentinel error type for queue operations.
type TaskError string

func (e TaskError) Error() string {
	return string(e)
}

// MarshalPayload serializes a task payload to JSON.
func MarshalPayload(payload interface{}) (json.RawMessage, error) {
	if payload == nil {
		return json.RawMessage("{}"), nil
	}
	return json.Marshal(payload)
}

// UnmarshalPayload deserializes a task payload from JSON.
func UnmarshalPayload(data json.RawMessage, v interface{}) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return nil
}

// RegisterQueueFactory registers a queue implementation under a name.
func RegisterQueueFactory(name string, factory Factory) {
	queueFactories[name] = factory
}

var queueFactories = make(map[string]Factory)

// NewQueue creates a queue instance by implementation name.
func NewQueue(name string, cfg *Config) (Queue, error) {
	factory, exists := queueFactories[name]
	if !exists {
		return nil, fmt.Errorf("unknown queue implementation: %s", name)
	}
	return factory(cfg)
}
