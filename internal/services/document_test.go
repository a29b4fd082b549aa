package services

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyerfyer/civic-doc-system/internal/cache"
	"github.com/fyerfyer/civic-doc-system/internal/models"
	"github.com/fyerfyer/civic-doc-system/internal/summarizer"
)

const billText = "REPUBLIC OF KENYA\n" +
	"A BILL FOR\n" +
	"AN ACT of Parliament to amend the law relating to tax and revenue collection; " +
	"the treasury shall administer the budget as provided in this Act."

// newTestService builds a service with a degraded orchestrator, so
// summaries are always the excerpt fallback and no network is touched.
func newTestService(opts ...DocumentOption) *DocumentService {
	o := summarizer.NewOrchestrator(nil, summarizer.DefaultOrchestratorConfig(), nil)
	return NewDocumentService(nil, o, opts...)
}

func TestProcessTextBill(t *testing.T) {
	svc := newTestService()

	rec := svc.ProcessText(context.Background(), billText, "Finance Bill 2024.txt")

	assert.Equal(t, "Finance Bill 2024", rec.Title)
	assert.Equal(t, models.TypeBill, rec.DocType)
	assert.Equal(t, models.SectorFinance, rec.Sector)
	assert.Equal(t, "2024", rec.Date, "the filename year is the only date available")

	assert.True(t, strings.HasSuffix(rec.Summary, "..."))
	assert.Contains(t, rec.Summary, "AN ACT of Parliament")

	assert.NotContains(t, rec.FullText, "REPUBLIC OF KENYA", "letterhead must be cleaned away")
	assert.Contains(t, rec.FullText, "revenue collection")
}

func TestProcessTextPlaceholder(t *testing.T) {
	svc := newTestService()

	rec := svc.ProcessText(context.Background(), "too short to mean anything", "scan.pdf")

	assert.Equal(t, "scan", rec.Title)
	assert.Equal(t, models.DateUnknown, rec.Date)
	assert.Equal(t, models.SectorUnknown, rec.Sector)
	assert.Equal(t, models.TypeGeneral, rec.DocType)
	assert.Contains(t, rec.Summary, "Could not extract readable text")
}

func TestProcessTextHansardOverride(t *testing.T) {
	svc := newTestService()

	text := "NATIONAL ASSEMBLY\nOFFICIAL REPORT\nTuesday, 12th March 2024\n" +
		"The House met at 2.30 p.m. Hon. Members debated the budget and tax measures at length."

	rec := svc.ProcessText(context.Background(), text, "sitting.txt")

	assert.Equal(t, models.TypeHansard, rec.DocType)
	assert.Equal(t, models.SectorParliamentary, rec.Sector,
		"procedural transcripts ignore keyword scores")
	assert.Equal(t, "12th March 2024", rec.Date)
}

func TestProcessTextCaching(t *testing.T) {
	c, err := cache.NewMemoryCache(cache.DefaultConfig())
	require.NoError(t, err)

	svc := newTestService(WithRecordCache(c))
	ctx := context.Background()

	first := svc.ProcessText(ctx, billText, "bill.txt")

	_, found, err := c.Get(recordCacheKey(billText, "bill.txt"))
	require.NoError(t, err)
	assert.True(t, found, "processed record must land in the cache")

	second := svc.ProcessText(ctx, billText, "bill.txt")
	assert.Equal(t, first, second)
}

func TestProcessBatchOrder(t *testing.T) {
	svc := newTestService(WithBatchConcurrency(3))

	inputs := []TextInput{
		{RawText: billText, Filename: "one.txt"},
		{RawText: "tiny", Filename: "two.txt"},
		{RawText: billText, Filename: "three.txt"},
	}

	results := svc.ProcessBatch(context.Background(), inputs)
	require.Len(t, results, 3)

	assert.Equal(t, "one", results[0].Title)
	assert.Equal(t, "two", results[1].Title)
	assert.Equal(t, "three", results[2].Title)

	assert.Equal(t, models.TypeBill, results[0].DocType)
	assert.Equal(t, models.TypeGeneral, results[1].DocType, "a bad input holds the placeholder slot")

	// the session list holds the same records, in completion order
	assert.ElementsMatch(t, results, svc.Records())
}

func TestSearch(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	svc.ProcessText(ctx, billText, "Finance Bill 2024.txt")
	svc.ProcessText(ctx, "too short", "Broken Scan.pdf")

	t.Run("matches title", func(t *testing.T) {
		got := svc.Search("finance bill")
		require.Len(t, got, 1)
		assert.Equal(t, "Finance Bill 2024", got[0].Title)
	})

	t.Run("matches summary", func(t *testing.T) {
		got := svc.Search("could not extract")
		require.Len(t, got, 1)
		assert.Equal(t, "Broken Scan", got[0].Title)
	})

	t.Run("empty query matches everything", func(t *testing.T) {
		assert.Len(t, svc.Search(""), 2)
	})

	t.Run("no match", func(t *testing.T) {
		assert.Empty(t, svc.Search("zebra"))
	})
}

func TestProcessFileSync(t *testing.T) {
	repo := setupTestRepo(t)
	manager := NewDocumentStatusManager(repo, nil)
	svc := newTestService(WithDocumentRepository(repo), WithStatusManager(manager))
	ctx := context.Background()

	// staged files carry a generated ID, so title and date must come
	// from the original upload name, never the stored basename
	path := filepath.Join(t.TempDir(), "0b54c1f2-7d41-4c2e-9a3f-2e6d1c8a9b70.txt")
	require.NoError(t, os.WriteFile(path, []byte(billText), 0644))
	require.NoError(t, manager.MarkAsUploaded(ctx, "doc-1", "Finance Bill 2024.txt", path, int64(len(billText))))

	rec, err := svc.ProcessFile(ctx, "doc-1", path, "Finance Bill 2024.txt")
	require.NoError(t, err)
	assert.Equal(t, models.TypeBill, rec.DocType)
	assert.Equal(t, "Finance Bill 2024", rec.Title)
	assert.Equal(t, "2024", rec.Date)

	doc, err := manager.GetStatus(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, models.DocStatusCompleted, doc.Status)
	assert.Equal(t, models.TypeBill, doc.DocType)
	assert.Equal(t, models.SectorFinance, doc.Sector)
}

func TestProcessFileUnsupportedType(t *testing.T) {
	repo := setupTestRepo(t)
	manager := NewDocumentStatusManager(repo, nil)
	svc := newTestService(WithDocumentRepository(repo), WithStatusManager(manager))
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "doc.docx")
	require.NoError(t, os.WriteFile(path, []byte("content"), 0644))
	require.NoError(t, manager.MarkAsUploaded(ctx, "doc-1", "doc.docx", path, 7))

	rec, err := svc.ProcessFile(ctx, "doc-1", path, "doc.docx")
	require.Error(t, err)
	assert.Equal(t, models.TypeGeneral, rec.DocType, "the caller still gets a placeholder record")

	doc, err := manager.GetStatus(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, models.DocStatusFailed, doc.Status)
}

func TestProcessFileInsufficientText(t *testing.T) {
	repo := setupTestRepo(t)
	manager := NewDocumentStatusManager(repo, nil)
	svc := newTestService(WithDocumentRepository(repo), WithStatusManager(manager))
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "stub.txt")
	require.NoError(t, os.WriteFile(path, []byte("almost nothing"), 0644))
	require.NoError(t, manager.MarkAsUploaded(ctx, "doc-1", "stub.txt", path, 14))

	rec, err := svc.ProcessFile(ctx, "doc-1", path, "stub.txt")
	require.Error(t, err)
	assert.Equal(t, models.DateUnknown, rec.Date)

	doc, err := manager.GetStatus(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, models.DocStatusFailed, doc.Status)
}

func TestProcessFileValidation(t *testing.T) {
	repo := setupTestRepo(t)
	svc := newTestService(WithDocumentRepository(repo))

	_, err := svc.ProcessFile(context.Background(), "", "p", "p")
	assert.Error(t, err)

	_, err = svc.ProcessFile(context.Background(), "id", "", "p")
	assert.Error(t, err)
}
