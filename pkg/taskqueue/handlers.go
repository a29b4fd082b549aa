package taskqueue

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/fyerfyer/civic-doc-system/internal/models"
)

// DocumentProcessor runs the document pipeline over a stored file.
// The document service implements this; the indirection keeps the
// handler free of a dependency on the service package.
type DocumentProcessor interface {
	ProcessStoredDocument(ctx context.Context, documentID string, filePath string, fileName string) (models.DocumentRecord, error)
}

// DocumentProcessHandler handles document processing tasks by running
// the pipeline and writing the assembled record back onto the task.
type DocumentProcessHandler struct {
	processor DocumentProcessor
	queue     Queue
	logger    *logrus.Logger
}

// NewDocumentProcessHandler creates the handler for document tasks.
func NewDocumentProcessHandler(processor DocumentProcessor, queue Queue, logger *logrus.Logger) *DocumentProcessHandler {
	if logger == nil {
		logger = logrus.New()
	}

	return &DocumentProcessHandler{
		processor: processor,
		queue:     queue,
		logger:    logger,
	}
}

// GetTaskTypes returns the task types this handler accepts.
func (h *DocumentProcessHandler) GetTaskTypes() []TaskType {
	return []TaskType{TaskDocumentProcess, TaskDocumentReprocess}
}

// ProcessTask runs the pipeline for the task's document. A pipeline
// outcome of "extraction failed" still produced a placeholder record,
// so it is stored on the task result either way.
func (h *DocumentProcessHandler) ProcessTask(ctx context.Context, task *Task) error {
	var payload DocumentProcessPayload
	if err := UnmarshalPayload(task.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal document process payload: %w", err)
	}

	if payload.DocumentID == "" || payload.FilePath == "" {
		return fmt.Errorf("%w: document_id and file_path are required", ErrInvalidPayload)
	}

	h.logger.WithFields(logrus.Fields{
		"task_id":     task.ID,
		"document_id": payload.DocumentID,
		"file_name":   payload.FileName,
	}).Info("Processing document task")

	rec, procErr := h.processor.ProcessStoredDocument(ctx, payload.DocumentID, payload.FilePath, payload.FileName)

	result := DocumentProcessResult{
		DocumentID: payload.DocumentID,
		Title:      rec.Title,
		DocType:    string(rec.DocType),
		Date:       rec.Date,
		Sector:     string(rec.Sector),
		Summary:    rec.Summary,
	}
	if procErr != nil {
		result.Error = procErr.Error()
	}

	if err := h.queue.UpdateTaskStatus(ctx, task.ID, task.Status, result, ""); err != nil {
		h.logger.WithError(err).WithField("task_id", task.ID).Warn("Failed to attach result to task")
	}

	if procErr != nil {
		h.logger.WithError(procErr).WithFields(logrus.Fields{
			"task_id":     task.ID,
			"document_id": payload.DocumentID,
		}).Error("Document processing failed")
		return fmt.Errorf("failed to process document %s: %w", payload.DocumentID, procErr)
	}

	h.logger.WithFields(logrus.Fields{
		"task_id":     task.ID,
		"document_id": payload.DocumentID,
		"doc_type":    rec.DocType,
		"sector":      rec.Sector,
	}).Info("Document processing completed")

	return nil
}

// RegisterDocumentHandlers binds the document handler to a worker for
// every task type it accepts.
func RegisterDocumentHandlers(worker Worker, handler *DocumentProcessHandler) {
	for _, taskType := range handler.GetTaskTypes() {
		worker.RegisterHandler(taskType, handler)
	}
}
