package model

import (
	"time"

	"github.com/fyerfyer/civic-doc-system/internal/models"
)

// Response is the envelope for every API response.
type Response struct {
	Code    int         `json:"code"`               // 0 on success
	Message string      `json:"message"`            // human-readable message
	Data    interface{} `json:"data,omitempty"`     // payload, may be empty
	TraceID string      `json:"trace_id,omitempty"` // request trace ID
}

// NewSuccessResponse wraps a payload in a success envelope.
func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Code:    0,
		Message: "success",
		Data:    data,
	}
}

// NewErrorResponse builds an error envelope.
func NewErrorResponse(code int, message string) *Response {
	return &Response{
		Code:    code,
		Message: message,
	}
}

// DocumentUploadResponse result of a document upload.
type DocumentUploadResponse struct {
	FileID   string `json:"file_id"`  // assigned document ID
	FileName string `json:"filename"` // original filename
	Status   string `json:"status"`   // uploaded, processing, completed or failed
}

// DocumentStatusResponse processing status of a document.
type DocumentStatusResponse struct {
	FileID      string `json:"file_id"`                // document ID
	FileName    string `json:"filename"`               // original filename
	Status      string `json:"status"`                 // processing status
	Stage       string `json:"stage,omitempty"`        // current pipeline stage
	Progress    int    `json:"progress"`               // progress percentage
	DocType     string `json:"doc_type,omitempty"`     // classified document type
	Sector      string `json:"sector,omitempty"`       // detected policy sector
	Date        string `json:"date,omitempty"`         // extracted document date
	Error       string `json:"error,omitempty"`        // error message, if failed
	UploadedAt  string `json:"uploaded_at"`            // upload time
	ProcessedAt string `json:"processed_at,omitempty"` // completion time
	UpdatedAt   string `json:"updated_at"`             // last update time
}

// NewDocumentStatusResponse builds a status response from a status row.
func NewDocumentStatusResponse(doc *models.Document) *DocumentStatusResponse {
	resp := &DocumentStatusResponse{
		FileID:     doc.ID,
		FileName:   doc.FileName,
		Status:     string(doc.Status),
		Stage:      string(doc.CurrentStage),
		Progress:   doc.Progress,
		DocType:    string(doc.DocType),
		Sector:     string(doc.Sector),
		Date:       doc.DocDate,
		Error:      doc.Error,
		UploadedAt: doc.UploadedAt.Format(time.RFC3339),
		UpdatedAt:  doc.UpdatedAt.Format(time.RFC3339),
	}
	if doc.ProcessedAt != nil {
		resp.ProcessedAt = doc.ProcessedAt.Format(time.RFC3339)
	}
	return resp
}

// DocumentInfo one entry in a document listing.
type DocumentInfo struct {
	FileID     string    `json:"file_id"`            // document ID
	FileName   string    `json:"filename"`           // original filename
	Status     string    `json:"status"`             // processing status
	DocType    string    `json:"doc_type,omitempty"` // classified document type
	Sector     string    `json:"sector,omitempty"`   // detected policy sector
	Date       string    `json:"date,omitempty"`     // extracted document date
	UploadedAt time.Time `json:"uploaded_at"`        // upload time
}

// NewDocumentInfo builds a listing entry from a status row.
func NewDocumentInfo(doc *models.Document) DocumentInfo {
	return DocumentInfo{
		FileID:     doc.ID,
		FileName:   doc.FileName,
		Status:     string(doc.Status),
		DocType:    string(doc.DocType),
		Sector:     string(doc.Sector),
		Date:       doc.DocDate,
		UploadedAt: doc.UploadedAt,
	}
}

// DocumentListResponse a page of documents.
type DocumentListResponse struct {
	Total     int64          `json:"total"`     // total matching rows
	Page      int            `json:"page"`      // current page
	PageSize  int            `json:"page_size"` // page size
	Documents []DocumentInfo `json:"documents"` // documents on this page
}

// DocumentDeleteResponse result of a delete.
type DocumentDeleteResponse struct {
	Success bool   `json:"success"` // whether deletion succeeded
	FileID  string `json:"file_id"` // deleted document ID
}

// RecordSearchResponse matching document records.
// Records serialize with the pipeline's own field names.
type RecordSearchResponse struct {
	Count   int                     `json:"count"`   // number of matches
	Records []models.DocumentRecord `json:"records"` // matching records
}
