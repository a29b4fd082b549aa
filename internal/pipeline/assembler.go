package pipeline

import (
	"github.com/fyerfyer/civic-doc-system/internal/models"
)

// Assemble composes the final document record. The only transformation
// applied here is the stored-text cap on the cleaned full text.
func Assemble(title, date string, sector models.SectorLabel, summary, cleanedText string, docType models.DocumentType) models.DocumentRecord {
	return models.DocumentRecord{
		Title:    title,
		Date:     date,
		Sector:   sector,
		Summary:  summary,
		FullText: Truncate(cleanedText, models.MaxStoredTextLen),
		DocType:  docType,
	}
}

// Truncate cuts s to at most max bytes.
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
