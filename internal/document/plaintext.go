package document

import (
	"fmt"
	"io"
	"os"
)

// PlainTextParser plain text file parser.
type PlainTextParser struct{}

// NewPlainTextParser creates a new plain text parser.
func NewPlainTextParser() Parser {
	return &PlainTextParser{}
}

// Parse reads a plain text file.
func (p *PlainTextParser) Parse(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open text file: %v", err)
	}
	defer file.Close()

	return p.ParseReader(file, filePath)
}

// ParseReader reads plain text from a reader.
func (p *PlainTextParser) ParseReader(r io.Reader, filename string) (string, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read text file: %v", err)
	}

	return string(content), nil
}
