package repository

import "github.com/fyerfyer/civic-doc-system/internal/models"

// DocumentRepository stores and retrieves document processing-status
// rows. Document content never passes through here.
type DocumentRepository interface {
	// Create creates a status row
	Create(doc *models.Document) error

	// Update updates a status row
	Update(doc *models.Document) error

	// GetByID fetches a status row by document ID
	GetByID(id string) (*models.Document, error)

	// List lists status rows with paging and filters
	List(offset, limit int, filters map[string]interface{}) ([]*models.Document, int64, error)

	// Delete removes a status row
	Delete(id string) error

	// UpdateStatus sets the processing status
	UpdateStatus(id string, status models.DocumentStatus, errorMsg string) error

	// UpdateProgress sets the processing progress
	UpdateProgress(id string, progress int) error

	// SaveTask records a queue task for a document
	SaveTask(task *models.DocumentTask) error

	// GetTasks fetches the queue tasks of a document
	GetTasks(docID string) ([]*models.DocumentTask, error)
}
