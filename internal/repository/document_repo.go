package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/fyerfyer/civic-doc-system/internal/database"
	"github.com/fyerfyer/civic-doc-system/internal/models"
	"gorm.io/gorm"
)

// docRepository gorm-backed document repository.
type docRepository struct {
	db *gorm.DB // database connection
}

// NewDocumentRepository creates a repository on the global database
// connection.
func NewDocumentRepository() DocumentRepository {
	return &docRepository{
		db: database.MustDB(),
	}
}

// NewDocumentRepositoryWithDB creates a repository on an explicit
// database connection.
func NewDocumentRepositoryWithDB(db *gorm.DB) DocumentRepository {
	if db == nil {
		db = database.MustDB()
	}
	return &docRepository{
		db: db,
	}
}

// Create creates a status row.
func (r *docRepository) Create(doc *models.Document) error {
	if doc.ID == "" {
		return errors.New("document ID cannot be empty")
	}

	return r.db.Create(doc).Error
}

// Update updates a status row.
func (r *docRepository) Update(doc *models.Document) error {
	if doc.ID == "" {
		return errors.New("document ID cannot be empty")
	}

	return r.db.Save(doc).Error
}

// GetByID fetches a status row by document ID.
func (r *docRepository) GetByID(id string) (*models.Document, error) {
	var doc models.Document
	err := r.db.Where("id = ?", id).First(&doc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", models.ErrDocumentNotFound, id)
		}
		return nil, err
	}
	return &doc, nil
}

// List lists status rows with paging and optional column filters.
func (r *docRepository) List(offset, limit int, filters map[string]interface{}) ([]*models.Document, int64, error) {
	var docs []*models.Document
	var total int64

	query := r.db.Model(&models.Document{})
	for column, value := range filters {
		query = query.Where(fmt.Sprintf("%s = ?", column), value)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("uploaded_at DESC").Offset(offset).Limit(limit).Find(&docs).Error
	if err != nil {
		return nil, 0, err
	}

	return docs, total, nil
}

// Delete removes a status row and its task links.
func (r *docRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("document_id = ?", id).Delete(&models.DocumentTask{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.Document{}).Error
	})
}

// UpdateStatus sets the processing status and error message.
func (r *docRepository) UpdateStatus(id string, status models.DocumentStatus, errorMsg string) error {
	updates := map[string]interface{}{
		"status":     status,
		"error":      errorMsg,
		"updated_at": time.Now(),
	}
	if status == models.DocStatusCompleted {
		updates["processed_at"] = time.Now()
		updates["progress"] = 100
	}

	result := r.db.Model(&models.Document{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", models.ErrDocumentNotFound, id)
	}
	return nil
}

// UpdateProgress sets the processing progress.
func (r *docRepository) UpdateProgress(id string, progress int) error {
	result := r.db.Model(&models.Document{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"progress":   progress,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", models.ErrDocumentNotFound, id)
	}
	return nil
}

// SaveTask records a queue task for a document.
func (r *docRepository) SaveTask(task *models.DocumentTask) error {
	if task.TaskID == "" {
		return errors.New("task ID cannot be empty")
	}
	return r.db.Save(task).Error
}

// GetTasks fetches the queue tasks of a document.
func (r *docRepository) GetTasks(docID string) ([]*models.DocumentTask, error) {
	var tasks []*models.DocumentTask
	err := r.db.Where("document_id = ?", docID).Order("created_at DESC").Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}
