package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DocumentType is the inferred kind of a legislative document.
// Classification happens once, on normalized text, and the value is
// immutable afterwards.
type DocumentType string

const (
	// TypeBill an Act of Parliament in draft form
	TypeBill DocumentType = "bill"
	// TypeHansard a verbatim transcript of House proceedings
	TypeHansard DocumentType = "hansard"
	// TypeOrderPaper the daily order of business of the House
	TypeOrderPaper DocumentType = "order_paper"
	// TypeCommitteeReport a report of a parliamentary committee
	TypeCommitteeReport DocumentType = "committee_report"
	// TypeGazette a Kenya Gazette issue or notice
	TypeGazette DocumentType = "gazette"
	// TypeGeneral anything that matched no cue
	TypeGeneral DocumentType = "general"
)

// SectorLabel is the inferred policy sector of a document.
type SectorLabel string

const (
	SectorSecurity        SectorLabel = "Security"
	SectorFinance         SectorLabel = "Finance"
	SectorEducation       SectorLabel = "Education"
	SectorHealth          SectorLabel = "Health"
	SectorEnvironment     SectorLabel = "Environment"
	SectorJustice         SectorLabel = "Justice"
	SectorCreativeEconomy SectorLabel = "Creative Economy"
	// SectorParliamentary overrides keyword scores for procedural
	// documents (hansard, order papers)
	SectorParliamentary SectorLabel = "Parliamentary Proceedings"
	// SectorGeneralGovernance the default when nothing scores
	SectorGeneralGovernance SectorLabel = "General Governance"
	// SectorUnknown only appears on extraction-failure placeholder records
	SectorUnknown SectorLabel = "Unknown"
)

const (
	// DateNotDetected the literal stored when no date pattern matched
	DateNotDetected = "Not detected"
	// DateUnknown the literal stored on extraction-failure placeholders
	DateUnknown = "Unknown"

	// MaxStoredTextLen cap on the full text kept in a record,
	// to bound memory and render cost
	MaxStoredTextLen = 8000

	// MinExtractedTextLen texts shorter than this are treated as
	// extraction failures
	MinExtractedTextLen = 80

	// FallbackExcerptLen length of the truncated-excerpt fallback summary
	FallbackExcerptLen = 300
)

// DocumentRecord is the structured output of the processing pipeline.
// One record per input document; Summary is never empty, FullText is
// never longer than MaxStoredTextLen.
type DocumentRecord struct {
	Title    string       `json:"title"`     // derived from the source filename
	Date     string       `json:"date"`      // normalized date or "Not detected"
	Sector   SectorLabel  `json:"sector"`    // inferred policy sector
	Summary  string       `json:"summary"`   // merged chunk summaries or excerpt fallback
	FullText string       `json:"full_text"` // cleaned text, capped
	DocType  DocumentType `json:"doc_type"`  // inferred document type
}

// DocumentStatus lifecycle state of a document being processed.
type DocumentStatus string

const (
	// DocStatusUploaded uploaded, waiting for processing
	DocStatusUploaded DocumentStatus = "uploaded"
	// DocStatusProcessing pipeline running
	DocStatusProcessing DocumentStatus = "processing"
	// DocStatusCompleted record produced
	DocStatusCompleted DocumentStatus = "completed"
	// DocStatusFailed extraction or processing failed
	DocStatusFailed DocumentStatus = "failed"
)

// ProcessStage stage of the pipeline a document is currently in.
type ProcessStage string

const (
	// StageExtracting text extraction from the source file
	StageExtracting ProcessStage = "extracting"
	// StageCleaning normalization, classification and cleaning
	StageCleaning ProcessStage = "cleaning"
	// StageSummarizing chunked summarization
	StageSummarizing ProcessStage = "summarizing"
	// StageCompleted record assembled
	StageCompleted ProcessStage = "completed"
)

// Document is the persisted processing-status row for an uploaded file.
// Only metadata and pipeline outcomes live here; the document content
// itself is never persisted.
type Document struct {
	ID            string         `gorm:"primaryKey"`         // document ID, primary key
	FileName      string         `gorm:"not null"`           // original filename
	FileType      string         `gorm:"not null"`           // file extension type
	FilePath      string         `gorm:"not null"`           // staging path in storage
	FileSize      int64          `gorm:"not null"`           // size in bytes
	Status        DocumentStatus `gorm:"not null;index"`     // processing status
	UploadedAt    time.Time      `gorm:"not null;index"`     // upload time
	ProcessedAt   *time.Time     `gorm:"index"`              // completion time
	UpdatedAt     time.Time      `gorm:"not null;index"`     // last update time
	Progress      int            `gorm:"not null;default:0"` // progress (0-100)
	Error         string         `gorm:"type:text"`          // error message if failed
	DocType       DocumentType   `gorm:"size:30"`            // classified type
	Sector        SectorLabel    `gorm:"size:40"`            // detected sector
	DocDate       string         `gorm:"size:60"`            // extracted date string
	ChunkCount    int            `gorm:"not null;default:0"` // summarizer chunks produced
	CurrentStage  ProcessStage   `gorm:"size:20"`            // current pipeline stage
	CurrentTaskID string         `gorm:"size:50;index"`      // associated queue task ID
	RetryCount    int            `gorm:"default:0"`          // retry count
	Metadata      datatypes.JSON `gorm:"type:json"`          // extra metadata, JSON
}

// BeforeCreate GORM hook, fills timestamps on insert.
func (d *Document) BeforeCreate(tx *gorm.DB) (err error) {
	if d.UploadedAt.IsZero() {
		d.UploadedAt = time.Now()
	}
	d.UpdatedAt = time.Now()
	return nil
}

// BeforeUpdate GORM hook, refreshes the update timestamp.
func (d *Document) BeforeUpdate(tx *gorm.DB) (err error) {
	d.UpdatedAt = time.Now()
	return nil
}

// TableName explicit table name.
func (Document) TableName() string {
	return "documents"
}

// DocumentTask links a document to a task-queue job.
type DocumentTask struct {
	ID         uint           `gorm:"primaryKey;autoIncrement"` // row ID
	DocumentID string         `gorm:"not null;index"`           // document ID
	TaskID     string         `gorm:"not null;uniqueIndex"`     // queue task ID
	TaskType   string         `gorm:"not null;size:50"`         // task type
	Status     string         `gorm:"not null;size:20"`         // task status
	CreatedAt  time.Time      `gorm:"not null"`                 // creation time
	UpdatedAt  time.Time      `gorm:"not null"`                 // update time
	StartedAt  *time.Time     `gorm:""`                         // start time
	EndedAt    *time.Time     `gorm:""`                         // end time
	Error      string         `gorm:"type:text"`                // error message
	Result     datatypes.JSON `gorm:"type:json"`                // task result
	Retries    int            `gorm:"default:0"`                // retry count
	Progress   int            `gorm:"default:0"`                // progress (0-100)
}

// BeforeCreate GORM hook, fills timestamps on insert.
func (dt *DocumentTask) BeforeCreate(tx *gorm.DB) (err error) {
	now := time.Now()
	dt.CreatedAt = now
	dt.UpdatedAt = now
	return nil
}

// BeforeUpdate GORM hook, refreshes the update timestamp.
func (dt *DocumentTask) BeforeUpdate(tx *gorm.DB) (err error) {
	dt.UpdatedAt = time.Now()
	return nil
}

// TableName explicit table name.
func (DocumentTask) TableName() string {
	return "document_tasks"
}
