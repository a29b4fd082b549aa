package document

import (
	"errors"
	"io"
	"path/filepath"
	"strings"
)

// Parser extracts plain text from a source document.
// Implementations are the extraction backend of the pipeline; the rest
// of the system only ever sees the RawExtraction they produce.
type Parser interface {
	// Parse extracts the text content of the file at filePath
	Parse(filePath string) (string, error)

	// ParseReader extracts text from a reader; filename determines the
	// document format
	ParseReader(r io.Reader, filename string) (string, error)
}

// RawExtraction the output of the extraction backend. Created once per
// source file, consumed immediately, never retained.
type RawExtraction struct {
	Success bool   // whether extraction produced usable text
	RawText string // the extracted text, possibly empty
}

// Extract runs a parser and folds its outcome into a RawExtraction.
// Parse failures are not errors to the pipeline, just an unsuccessful
// extraction.
func Extract(p Parser, filePath string) RawExtraction {
	text, err := p.Parse(filePath)
	if err != nil {
		return RawExtraction{Success: false}
	}
	return RawExtraction{Success: true, RawText: text}
}

// ContentType the format of a source document.
type ContentType string

const (
	// PDF document type
	PDF ContentType = "pdf"
	// Markdown document type
	Markdown ContentType = "markdown"
	// PlainText document type
	PlainText ContentType = "plaintext"
	// Unknown unsupported type
	Unknown ContentType = "unknown"
)

// ParserFactory creates the parser matching the file's format.
func ParserFactory(filePath string) (Parser, error) {
	contentType := detectContentType(filePath)

	switch contentType {
	case PDF:
		return NewPDFParser(), nil
	case Markdown:
		return NewMarkdownParser(), nil
	case PlainText:
		return NewPlainTextParser(), nil
	default:
		return nil, errors.New("unsupported document type")
	}
}

// detectContentType detects the format from the file extension.
func detectContentType(filePath string) ContentType {
	ext := strings.ToLower(filepath.Ext(filePath))

	switch ext {
	case ".pdf":
		return PDF
	case ".md", ".markdown":
		return Markdown
	case ".txt":
		return PlainText
	default:
		return Unknown
	}
}

// Content one chunk of document text.
type Content struct {
	Text  string // chunk text
	Index int    // chunk position in the document
}

// Splitter cuts long text into bounded chunks sized for the external
// summarizer's input budget.
type Splitter interface {
	// Split cuts text into chunks
	Split(text string) ([]Content, error)
}
