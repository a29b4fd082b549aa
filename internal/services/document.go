package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fyerfyer/civic-doc-system/internal/cache"
	"github.com/fyerfyer/civic-doc-system/internal/document"
	"github.com/fyerfyer/civic-doc-system/internal/models"
	"github.com/fyerfyer/civic-doc-system/internal/pipeline"
	"github.com/fyerfyer/civic-doc-system/internal/repository"
	"github.com/fyerfyer/civic-doc-system/internal/summarizer"
	"github.com/fyerfyer/civic-doc-system/pkg/storage"
	"github.com/fyerfyer/civic-doc-system/pkg/taskqueue"
	"github.com/sirupsen/logrus"
)

// extractionFailedSummary the fixed human-readable summary placed on
// placeholder records when extraction produced no usable text.
const extractionFailedSummary = "Could not extract readable text from this document. " +
	"The file may be a scanned image without a text layer, or corrupted."

// DocumentService runs the document intelligence pipeline:
// normalization, classification, type-aware cleaning, metadata
// extraction, chunked summarization and record assembly.
type DocumentService struct {
	storage       storage.Storage               // uploaded file staging
	orchestrator  *summarizer.Orchestrator      // chunked summarization
	dateExtractor *pipeline.DateExtractor       // date resolution
	repo          repository.DocumentRepository // processing-status rows
	statusManager *DocumentStatusManager        // status lifecycle
	recordCache   cache.Cache                   // processed-record cache
	taskQueue     taskqueue.Queue               // async processing queue
	asyncEnabled  bool                          // enqueue instead of processing inline
	ocrNormalize  bool                          // use the OCR-safe normalizer
	concurrency   int                           // batch concurrency across documents
	cacheTTL      time.Duration                 // record cache TTL
	timeout       time.Duration                 // per-document processing timeout
	logger        *logrus.Logger                // logger

	mu      sync.Mutex              // guards records
	records []models.DocumentRecord // records processed in this session, in input order
}

// DocumentOption document service option.
type DocumentOption func(*DocumentService)

// NewDocumentService creates a new document service.
func NewDocumentService(
	fileStorage storage.Storage,
	orchestrator *summarizer.Orchestrator,
	opts ...DocumentOption,
) *DocumentService {
	srv := &DocumentService{
		storage:       fileStorage,
		orchestrator:  orchestrator,
		dateExtractor: &pipeline.DateExtractor{},
		concurrency:   4,
		cacheTTL:      24 * time.Hour,
		timeout:       time.Minute * 5,
		logger:        logrus.New(),
	}

	for _, opt := range opts {
		opt(srv)
	}

	return srv
}

// WithDocumentRepository sets the status repository.
func WithDocumentRepository(repo repository.DocumentRepository) DocumentOption {
	return func(s *DocumentService) {
		s.repo = repo
	}
}

// WithStatusManager sets the status manager.
func WithStatusManager(manager *DocumentStatusManager) DocumentOption {
	return func(s *DocumentService) {
		s.statusManager = manager
	}
}

// WithRecordCache sets the processed-record cache.
func WithRecordCache(c cache.Cache) DocumentOption {
	return func(s *DocumentService) {
		s.recordCache = c
	}
}

// WithTaskQueue sets the task queue and enables async processing.
func WithTaskQueue(queue taskqueue.Queue) DocumentOption {
	return func(s *DocumentService) {
		s.taskQueue = queue
		s.asyncEnabled = queue != nil
	}
}

// WithAsyncProcessing toggles async processing.
func WithAsyncProcessing(enabled bool) DocumentOption {
	return func(s *DocumentService) {
		s.asyncEnabled = enabled
	}
}

// WithOCRNormalization switches on the OCR-safe normalizer for
// artifact-heavy sources.
func WithOCRNormalization(enabled bool) DocumentOption {
	return func(s *DocumentService) {
		s.ocrNormalize = enabled
	}
}

// WithBatchConcurrency sets how many documents a batch processes in
// parallel.
func WithBatchConcurrency(n int) DocumentOption {
	return func(s *DocumentService) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithDefaultYear sets the year used when OCR date repair clamps an
// implausible year.
func WithDefaultYear(year int) DocumentOption {
	return func(s *DocumentService) {
		s.dateExtractor.DefaultYear = year
	}
}

// WithTimeout sets the per-document processing timeout.
func WithTimeout(timeout time.Duration) DocumentOption {
	return func(s *DocumentService) {
		s.timeout = timeout
	}
}

// WithLogger sets the logger.
func WithLogger(logger *logrus.Logger) DocumentOption {
	return func(s *DocumentService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Init fills in defaults for unset dependencies.
func (s *DocumentService) Init() error {
	if s.repo == nil {
		s.repo = repository.NewDocumentRepository()
	}
	if s.statusManager == nil {
		s.statusManager = NewDocumentStatusManager(s.repo, s.logger)
	}
	return nil
}

// ProcessText runs the full pipeline over raw extracted text and
// returns the structured record. Total: it never fails outward. An
// input below the minimum extraction length produces a placeholder
// record rather than an error.
func (s *DocumentService) ProcessText(ctx context.Context, rawText, filename string) models.DocumentRecord {
	title := pipeline.DecodeTitle(filename)

	if len(strings.TrimSpace(rawText)) < models.MinExtractedTextLen {
		s.logger.WithFields(logrus.Fields{
			"filename": filename,
			"length":   len(rawText),
		}).Warn("Insufficient extracted text, producing placeholder record")

		rec := models.DocumentRecord{
			Title:    title,
			Date:     models.DateUnknown,
			Sector:   models.SectorUnknown,
			Summary:  extractionFailedSummary,
			FullText: pipeline.Truncate(rawText, models.MaxStoredTextLen),
			DocType:  models.TypeGeneral,
		}
		s.remember(rec)
		return rec
	}

	if rec, ok := s.cachedRecord(rawText, filename); ok {
		s.logger.WithField("filename", filename).Debug("Record cache hit")
		s.remember(rec)
		return rec
	}

	normalized := pipeline.Normalize(rawText)
	if s.ocrNormalize {
		normalized = pipeline.NormalizeOCR(rawText)
	}

	docType := pipeline.Classify(normalized)
	cleaned := pipeline.Clean(normalized, docType)

	// date and sector extraction are independent, run them in parallel
	var date string
	var sector models.SectorLabel
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		date = s.dateExtractor.ExtractDate(cleaned, filename, docType)
	}()
	go func() {
		defer wg.Done()
		sector = pipeline.ResolveSector(cleaned, docType)
	}()
	wg.Wait()

	summary := s.orchestrator.Summarize(ctx, cleaned)

	rec := pipeline.Assemble(title, date, sector, summary, cleaned, docType)

	s.logger.WithFields(logrus.Fields{
		"filename": filename,
		"doc_type": rec.DocType,
		"sector":   rec.Sector,
		"date":     rec.Date,
	}).Info("Document processed")

	s.cacheRecord(rawText, filename, rec)
	s.remember(rec)
	return rec
}

// ProcessExtraction runs the pipeline over an extraction backend
// result, folding an unsuccessful extraction into the placeholder
// path.
func (s *DocumentService) ProcessExtraction(ctx context.Context, extraction document.RawExtraction, filename string) models.DocumentRecord {
	if !extraction.Success {
		return s.ProcessText(ctx, "", filename)
	}
	return s.ProcessText(ctx, extraction.RawText, filename)
}

// ProcessFile extracts text from a stored file and runs the pipeline,
// updating the status row along the way. fileName is the original
// upload name; the staged path carries a generated ID, so title and
// filename-date extraction must not be derived from it. Returns the
// record; the error is non-nil only when extraction itself failed, in
// which case the returned record is the placeholder.
func (s *DocumentService) ProcessFile(ctx context.Context, fileID string, filePath string, fileName string) (models.DocumentRecord, error) {
	if err := s.Init(); err != nil {
		return models.DocumentRecord{}, err
	}

	if fileID == "" {
		return models.DocumentRecord{}, errors.New("fileID cannot be empty")
	}
	if filePath == "" {
		return models.DocumentRecord{}, errors.New("filePath cannot be empty")
	}

	if s.asyncEnabled && s.taskQueue != nil {
		return models.DocumentRecord{}, s.enqueueProcessing(ctx, fileID, filePath, fileName)
	}

	return s.processFileSync(ctx, fileID, filePath, fileName)
}

// ProcessStoredDocument runs the pipeline inline over a stored file.
// Queue workers call this instead of ProcessFile so a dequeued task
// never re-enqueues itself.
func (s *DocumentService) ProcessStoredDocument(ctx context.Context, fileID string, filePath string, fileName string) (models.DocumentRecord, error) {
	if err := s.Init(); err != nil {
		return models.DocumentRecord{}, err
	}

	if fileID == "" {
		return models.DocumentRecord{}, errors.New("fileID cannot be empty")
	}
	if filePath == "" {
		return models.DocumentRecord{}, errors.New("filePath cannot be empty")
	}

	return s.processFileSync(ctx, fileID, filePath, fileName)
}

// enqueueProcessing puts the document on the task queue and returns
// immediately.
func (s *DocumentService) enqueueProcessing(ctx context.Context, fileID string, filePath string, fileName string) error {
	if err := s.statusManager.MarkAsProcessing(ctx, fileID); err != nil {
		s.logger.WithError(err).Error("Failed to mark document as processing")
		// keep going, status tracking must not block processing
	}

	payload := taskqueue.DocumentProcessPayload{
		DocumentID: fileID,
		FilePath:   filePath,
		FileName:   fileName,
	}

	taskID, err := s.taskQueue.Enqueue(ctx, taskqueue.TaskDocumentProcess, fileID, payload)
	if err != nil {
		s.failDocument(ctx, fileID, fmt.Sprintf("failed to enqueue processing task: %v", err))
		return fmt.Errorf("failed to enqueue processing task: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"file_id": fileID,
		"task_id": taskID,
	}).Info("Document processing task enqueued")

	return nil
}

// processFileSync extracts and processes the document inline.
func (s *DocumentService) processFileSync(ctx context.Context, fileID string, filePath string, fileName string) (models.DocumentRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.statusManager.MarkAsProcessing(ctx, fileID); err != nil {
		s.logger.WithError(err).Error("Failed to mark document as processing")
	}

	filename := fileName
	if filename == "" {
		filename = filepath.Base(filePath)
	}

	parser, err := document.ParserFactory(filePath)
	if err != nil {
		s.failDocument(ctx, fileID, fmt.Sprintf("unsupported document type: %v", err))
		rec := s.ProcessText(ctx, "", filename)
		return rec, fmt.Errorf("failed to create parser: %w", err)
	}

	if err := s.statusManager.UpdateStage(ctx, fileID, models.StageExtracting); err != nil {
		s.logger.WithError(err).Warn("Failed to update document stage")
	}

	extraction := document.Extract(parser, filePath)
	rec := s.ProcessExtraction(ctx, extraction, filename)

	if !extraction.Success || len(strings.TrimSpace(extraction.RawText)) < models.MinExtractedTextLen {
		s.failDocument(ctx, fileID, "insufficient text extracted from document")
		return rec, errors.New("insufficient text extracted from document")
	}

	if err := s.statusManager.MarkAsCompleted(ctx, fileID, rec); err != nil {
		s.logger.WithError(err).Warn("Failed to mark document as completed")
	}

	return rec, nil
}

// TextInput one raw document in a batch.
type TextInput struct {
	RawText  string // extracted text
	Filename string // source filename
}

// ProcessBatch processes a batch of documents with bounded concurrency
// across documents. Records come back in input order, and one bad
// document never stops the rest: its slot holds the placeholder
// record.
func (s *DocumentService) ProcessBatch(ctx context.Context, inputs []TextInput) []models.DocumentRecord {
	results := make([]models.DocumentRecord, len(inputs))

	sem := make(chan struct{}, s.concurrency)
	var wg sync.WaitGroup
	for i, in := range inputs {
		wg.Add(1)
		sem <- struct{}{}
		go func(idx int, input TextInput) {
			defer wg.Done()
			defer func() { <-sem }()
			results[idx] = s.ProcessText(ctx, input.RawText, input.Filename)
		}(i, in)
	}
	wg.Wait()

	return results
}

// Records returns the records processed in this session. Under batch
// concurrency records land in completion order; ProcessBatch's return
// value is the input-ordered view.
func (s *DocumentService) Records() []models.DocumentRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.DocumentRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Search filters the session's records by a case-insensitive substring
// match over title and summary.
func (s *DocumentService) Search(query string) []models.DocumentRecord {
	q := strings.ToLower(query)

	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.DocumentRecord
	for _, rec := range s.records {
		if strings.Contains(strings.ToLower(rec.Title), q) ||
			strings.Contains(strings.ToLower(rec.Summary), q) {
			out = append(out, rec)
		}
	}
	return out
}

// remember appends a record to the session list.
func (s *DocumentService) remember(rec models.DocumentRecord) {
	s.mu.Lock()
	s.records = append(s.records, rec)
	s.mu.Unlock()
}

// failDocument marks a document as failed, logging but not propagating
// status-tracking errors.
func (s *DocumentService) failDocument(ctx context.Context, fileID string, msg string) {
	if s.statusManager == nil {
		return
	}
	if err := s.statusManager.MarkAsFailed(ctx, fileID, msg); err != nil {
		s.logger.WithFields(logrus.Fields{
			"file_id": fileID,
			"error":   err.Error(),
		}).Error("Failed to mark document as failed")
	}
}

// cachedRecord looks up a processed record by content hash.
func (s *DocumentService) cachedRecord(rawText, filename string) (models.DocumentRecord, bool) {
	if s.recordCache == nil {
		return models.DocumentRecord{}, false
	}

	value, found, err := s.recordCache.Get(recordCacheKey(rawText, filename))
	if err != nil || !found {
		return models.DocumentRecord{}, false
	}

	var rec models.DocumentRecord
	if err := json.Unmarshal([]byte(value), &rec); err != nil {
		return models.DocumentRecord{}, false
	}
	return rec, true
}

// cacheRecord stores a processed record under its content hash.
func (s *DocumentService) cacheRecord(rawText, filename string, rec models.DocumentRecord) {
	if s.recordCache == nil {
		return
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return
	}
	if err := s.recordCache.Set(recordCacheKey(rawText, filename), string(data), s.cacheTTL); err != nil {
		s.logger.WithError(err).Warn("Failed to cache document record")
	}
}

// recordCacheKey content-addressed cache key for a processed record.
func recordCacheKey(rawText, filename string) string {
	sum := sha256.Sum256([]byte(rawText))
	return cache.GenerateCacheKey("record", filename, hex.EncodeToString(sum[:]))
}
