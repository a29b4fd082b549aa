package models

import "errors"

var (
	// ErrDocumentNotFound no document row with the given ID
	ErrDocumentNotFound = errors.New("document not found")

	// ErrInvalidDocumentStatus illegal status transition
	ErrInvalidDocumentStatus = errors.New("invalid document status")
)
