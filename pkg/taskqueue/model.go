package taskqueue

import (
	"encoding/json"
	"time"
)

// TaskType identifies the kind of work a task carries.
type TaskType string

const (
	// TaskDocumentProcess runs the full pipeline over a stored document:
	// extract, normalize, classify, clean, date/sector detection, summarize.
	TaskDocumentProcess TaskType = "document_process"
	// TaskDocumentReprocess re-runs the pipeline over a document that was
	// already processed, replacing its record.
	TaskDocumentReprocess TaskType = "document_reprocess"
)

// TaskStatus tracks a task's lifecycle.
type TaskStatus string

const (
	// StatusPending waiting to be picked up
	StatusPending TaskStatus = "pending"
	// StatusProcessing currently running
	StatusProcessing TaskStatus = "processing"
	// StatusCompleted finished successfully
	StatusCompleted TaskStatus = "completed"
	// StatusFailed finished with an error
	StatusFailed TaskStatus = "failed"
)

// Task is the queue's task record.
type Task struct {
	ID          string          `json:"id"`           // task identifier
	Type        TaskType        `json:"type"`         // task type
	DocumentID  string          `json:"document_id"`  // associated document ID
	Status      TaskStatus      `json:"status"`       // current status
	Payload     json.RawMessage `json:"payload"`      // type-specific input data
	Result      json.RawMessage `json:"result"`       // type-specific output data
	Error       string          `json:"error"`        // error message, if failed
	CreatedAt   time.Time       `json:"created_at"`   // enqueue time
	UpdatedAt   time.Time       `json:"updated_at"`   // last state change
	StartedAt   *time.Time      `json:"started_at"`   // processing start time
	CompletedAt *time.Time      `json:"completed_at"` // completion time
	Attempts    int             `json:"attempts"`     // delivery attempts so far
	MaxRetries  int             `json:"max_retries"`  // retry limit
}

// DocumentProcessPayload is the input for a document processing task.
type DocumentProcessPayload struct {
	DocumentID string `json:"document_id"` // document identifier
	FilePath   string `json:"file_path"`   // storage path of the raw file
	FileName   string `json:"file_name"`   // original filename
}

// DocumentProcessResult is the output of a completed processing task.
// It mirrors the assembled document record so clients polling the task
// can read the result without a second lookup.
type DocumentProcessResult struct {
	DocumentID string `json:"document_id"` // document identifier
	Title      string `json:"title"`       // decoded document title
	DocType    string `json:"doc_type"`    // detected document type
	Date       string `json:"date"`        // extracted date, or "Not detected"
	Sector     string `json:"sector"`      // detected policy sector
	Summary    string `json:"summary"`     // generated summary
	Error      string `json:"error"`       // error message, if extraction failed
}
