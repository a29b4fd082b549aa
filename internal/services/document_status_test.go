package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/fyerfyer/civic-doc-system/internal/models"
	"github.com/fyerfyer/civic-doc-system/internal/repository"
)

func setupTestRepo(t *testing.T) repository.DocumentRepository {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Document{}, &models.DocumentTask{}))

	return repository.NewDocumentRepositoryWithDB(db)
}

func TestStatusLifecycle(t *testing.T) {
	manager := NewDocumentStatusManager(setupTestRepo(t), nil)
	ctx := context.Background()

	require.NoError(t, manager.MarkAsUploaded(ctx, "doc-1", "Finance Bill.pdf", "2024/01/01/doc-1.pdf", 2048))

	t.Run("uploaded", func(t *testing.T) {
		doc, err := manager.GetStatus(ctx, "doc-1")
		require.NoError(t, err)
		assert.Equal(t, models.DocStatusUploaded, doc.Status)
		assert.Equal(t, "pdf", doc.FileType)
		assert.Equal(t, int64(2048), doc.FileSize)
		assert.Equal(t, 0, doc.Progress)
	})

	t.Run("processing", func(t *testing.T) {
		require.NoError(t, manager.MarkAsProcessing(ctx, "doc-1"))
		doc, err := manager.GetStatus(ctx, "doc-1")
		require.NoError(t, err)
		assert.Equal(t, models.DocStatusProcessing, doc.Status)
	})

	t.Run("processing twice is rejected", func(t *testing.T) {
		err := manager.MarkAsProcessing(ctx, "doc-1")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid state transition")
	})

	t.Run("stage", func(t *testing.T) {
		require.NoError(t, manager.UpdateStage(ctx, "doc-1", models.StageSummarizing))
		doc, err := manager.GetStatus(ctx, "doc-1")
		require.NoError(t, err)
		assert.Equal(t, models.StageSummarizing, doc.CurrentStage)
	})

	t.Run("completed records pipeline outcomes", func(t *testing.T) {
		rec := models.DocumentRecord{
			Title:   "Finance Bill",
			Date:    "5 March 2024",
			Sector:  models.SectorFinance,
			DocType: models.TypeBill,
		}
		require.NoError(t, manager.MarkAsCompleted(ctx, "doc-1", rec))

		doc, err := manager.GetStatus(ctx, "doc-1")
		require.NoError(t, err)
		assert.Equal(t, models.DocStatusCompleted, doc.Status)
		assert.Equal(t, models.TypeBill, doc.DocType)
		assert.Equal(t, models.SectorFinance, doc.Sector)
		assert.Equal(t, "5 March 2024", doc.DocDate)
		assert.Equal(t, models.StageCompleted, doc.CurrentStage)
		assert.Equal(t, 100, doc.Progress)
		assert.NotNil(t, doc.ProcessedAt)
	})

	t.Run("completing a completed document is rejected", func(t *testing.T) {
		err := manager.MarkAsCompleted(ctx, "doc-1", models.DocumentRecord{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid state transition")
	})
}

func TestStatusFailure(t *testing.T) {
	manager := NewDocumentStatusManager(setupTestRepo(t), nil)
	ctx := context.Background()

	require.NoError(t, manager.MarkAsUploaded(ctx, "doc-1", "scan.pdf", "p", 10))
	require.NoError(t, manager.MarkAsFailed(ctx, "doc-1", "no text layer"))

	doc, err := manager.GetStatus(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, models.DocStatusFailed, doc.Status)
	assert.Equal(t, "no text layer", doc.Error)
}

func TestStatusProgressClamped(t *testing.T) {
	manager := NewDocumentStatusManager(setupTestRepo(t), nil)
	ctx := context.Background()

	require.NoError(t, manager.MarkAsUploaded(ctx, "doc-1", "a.txt", "p", 10))

	require.NoError(t, manager.UpdateProgress(ctx, "doc-1", 150))
	doc, err := manager.GetStatus(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, 100, doc.Progress)

	require.NoError(t, manager.UpdateProgress(ctx, "doc-1", -5))
	doc, err = manager.GetStatus(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, 0, doc.Progress)
}

func TestStatusMissingDocument(t *testing.T) {
	manager := NewDocumentStatusManager(setupTestRepo(t), nil)
	ctx := context.Background()

	_, err := manager.GetStatus(ctx, "nope")
	assert.ErrorIs(t, err, models.ErrDocumentNotFound)

	assert.Error(t, manager.MarkAsProcessing(ctx, "nope"))
	assert.Error(t, manager.MarkAsFailed(ctx, "nope", "x"))
}
