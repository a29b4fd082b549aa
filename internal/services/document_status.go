package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fyerfyer/civic-doc-system/internal/models"
	"github.com/fyerfyer/civic-doc-system/internal/repository"
	"github.com/sirupsen/logrus"
)

// DocumentStatusManager manages the processing lifecycle of uploaded
// documents.
type DocumentStatusManager struct {
	repo   repository.DocumentRepository // status row storage
	logger *logrus.Logger                // logger
	mu     sync.Mutex                    // serializes state transitions
}

// NewDocumentStatusManager creates a document status manager.
func NewDocumentStatusManager(repo repository.DocumentRepository, logger *logrus.Logger) *DocumentStatusManager {
	if logger == nil {
		logger = logrus.New()
		logger.SetLevel(logrus.InfoLevel)
	}

	return &DocumentStatusManager{
		repo:   repo,
		logger: logger,
	}
}

// MarkAsUploaded records a freshly uploaded document.
func (m *DocumentStatusManager) MarkAsUploaded(ctx context.Context, docID string, fileName string, filePath string, fileSize int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.logger.WithFields(logrus.Fields{
		"doc_id":   docID,
		"filename": fileName,
	}).Info("Marking document as uploaded")

	doc := &models.Document{
		ID:         docID,
		FileName:   fileName,
		FileType:   getFileType(fileName),
		FilePath:   filePath,
		FileSize:   fileSize,
		Status:     models.DocStatusUploaded,
		UploadedAt: time.Now(),
		UpdatedAt:  time.Now(),
		Progress:   0,
	}

	return m.repo.Create(doc)
}

// MarkAsProcessing moves a document into the processing state.
func (m *DocumentStatusManager) MarkAsProcessing(ctx context.Context, docID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, err := m.repo.GetByID(docID)
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	if doc.Status != models.DocStatusUploaded {
		return fmt.Errorf("invalid state transition: document %s is in %s state, expected %s",
			docID, doc.Status, models.DocStatusUploaded)
	}

	m.logger.WithField("doc_id", docID).Info("Marking document as processing")

	return m.repo.UpdateStatus(docID, models.DocStatusProcessing, "")
}

// MarkAsCompleted records a produced document record against the
// status row. Only pipeline outcomes are stored, never the text.
func (m *DocumentStatusManager) MarkAsCompleted(ctx context.Context, docID string, rec models.DocumentRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, err := m.repo.GetByID(docID)
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	if doc.Status != models.DocStatusProcessing && doc.Status != models.DocStatusUploaded {
		return fmt.Errorf("invalid state transition: document %s is in %s state, expected %s or %s",
			docID, doc.Status, models.DocStatusProcessing, models.DocStatusUploaded)
	}

	m.logger.WithFields(logrus.Fields{
		"doc_id":   docID,
		"doc_type": rec.DocType,
		"sector":   rec.Sector,
	}).Info("Marking document as completed")

	now := time.Now()
	doc.Status = models.DocStatusCompleted
	doc.DocType = rec.DocType
	doc.Sector = rec.Sector
	doc.DocDate = rec.Date
	doc.CurrentStage = models.StageCompleted
	doc.ProcessedAt = &now
	doc.Progress = 100
	return m.repo.Update(doc)
}

// MarkAsFailed moves a document into the failed state.
func (m *DocumentStatusManager) MarkAsFailed(ctx context.Context, docID string, errorMsg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, err := m.repo.GetByID(docID)
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	m.logger.WithFields(logrus.Fields{
		"doc_id": docID,
		"error":  errorMsg,
	}).Error("Marking document as failed")

	return m.repo.UpdateStatus(docID, models.DocStatusFailed, errorMsg)
}

// UpdateProgress updates the processing progress.
func (m *DocumentStatusManager) UpdateProgress(ctx context.Context, docID string, progress int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}

	return m.repo.UpdateProgress(docID, progress)
}

// UpdateStage records the pipeline stage a document is in.
func (m *DocumentStatusManager) UpdateStage(ctx context.Context, docID string, stage models.ProcessStage) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, err := m.repo.GetByID(docID)
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	doc.CurrentStage = stage
	return m.repo.Update(doc)
}

// GetStatus returns the status row for a document.
func (m *DocumentStatusManager) GetStatus(ctx context.Context, docID string) (*models.Document, error) {
	return m.repo.GetByID(docID)
}

// getFileType the lower-cased extension without the dot.
func getFileType(fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	return strings.TrimPrefix(ext, ".")
}
