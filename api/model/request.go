package model

import (
	"mime/multipart"
)

// PaginationRequest shared paging parameters.
type PaginationRequest struct {
	Page     int `form:"page" json:"page" binding:"omitempty,min=1"`           // page number, 1-based
	PageSize int `form:"page_size" json:"page_size" binding:"omitempty,min=1"` // records per page
}

// GetPage returns the page number, defaulting to 1.
func (p *PaginationRequest) GetPage() int {
	if p.Page <= 0 {
		return 1
	}
	return p.Page
}

// GetPageSize returns the page size, defaulting to 10 and capped at 100.
func (p *PaginationRequest) GetPageSize() int {
	if p.PageSize <= 0 {
		return 10
	}
	if p.PageSize > 100 {
		return 100
	}
	return p.PageSize
}

// DocumentUploadRequest a multipart document upload.
type DocumentUploadRequest struct {
	File *multipart.FileHeader `form:"file" binding:"required"` // the uploaded file
}

// ProcessTextRequest raw text submitted for inline processing.
// Filename is optional; it feeds title derivation and date fallback.
type ProcessTextRequest struct {
	Text     string `json:"text" binding:"required"`      // raw extracted text
	Filename string `json:"filename" binding:"omitempty"` // source filename
}

// DocumentStatusRequest a status lookup by document ID.
type DocumentStatusRequest struct {
	ID string `uri:"id" binding:"required"` // document ID
}

// DocumentListRequest paged document listing with optional filters.
type DocumentListRequest struct {
	PaginationRequest
	Status  string `form:"status" json:"status" binding:"omitempty,docstatus"`  // processing status filter
	DocType string `form:"doc_type" json:"doc_type" binding:"omitempty,doctype"` // document type filter
	Sector  string `form:"sector" json:"sector" binding:"omitempty"`            // policy sector filter
}

// DocumentDeleteRequest a delete by document ID.
type DocumentDeleteRequest struct {
	ID string `uri:"id" binding:"required"` // document ID
}

// RecordSearchRequest a record search over titles and summaries.
type RecordSearchRequest struct {
	Query string `form:"q" json:"q" binding:"omitempty"` // search term
}
