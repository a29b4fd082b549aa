package document

import (
	"strings"
	"unicode"
)

// SplitterConfig chunker configuration.
type SplitterConfig struct {
	ChunkSize   int // chunk size in characters
	MinChunkLen int // chunks shorter than this are discarded
	MaxChunks   int // chunk count cap (0 means unlimited)
}

// DefaultSplitterConfig returns the default chunker configuration.
// The chunk size tracks the external summarizer's input budget and is
// configurable for that reason.
func DefaultSplitterConfig() SplitterConfig {
	return SplitterConfig{
		ChunkSize:   1000,
		MinChunkLen: 80,
		MaxChunks:   0,
	}
}

// TextSplitter cuts text into fixed-size contiguous chunks, backing
// off to word boundaries so words are not cut in half.
type TextSplitter struct {
	config SplitterConfig
}

// NewTextSplitter creates a new text splitter.
func NewTextSplitter(config SplitterConfig) *TextSplitter {
	if config.ChunkSize <= 0 {
		config.ChunkSize = DefaultSplitterConfig().ChunkSize
	}
	return &TextSplitter{
		config: config,
	}
}

// Split cuts text into chunks. Chunks below the minimum length are
// dropped as unlikely to yield a meaningful summary. Never fails; an
// empty input yields zero chunks.
func (s *TextSplitter) Split(text string) ([]Content, error) {
	if text == "" {
		return []Content{}, nil
	}

	chunks := s.splitByLength(text)

	if s.config.MaxChunks > 0 && len(chunks) > s.config.MaxChunks {
		chunks = chunks[:s.config.MaxChunks]
	}

	var contents []Content
	for _, chunk := range chunks {
		chunk = strings.TrimSpace(chunk)
		if len(chunk) < s.config.MinChunkLen {
			continue
		}
		contents = append(contents, Content{
			Text:  chunk,
			Index: len(contents),
		})
	}

	return contents, nil
}

// splitByLength cuts text into fixed-length slices, preferring to
// break at whitespace.
func (s *TextSplitter) splitByLength(text string) []string {
	var chunks []string

	start := 0
	for start < len(text) {
		end := start + s.config.ChunkSize
		if end >= len(text) {
			chunks = append(chunks, text[start:])
			break
		}

		// back off to the nearest space so words stay whole
		cut := end
		for cut > start && !unicode.IsSpace(rune(text[cut])) {
			cut--
		}
		if cut > start {
			end = cut
		}

		chunks = append(chunks, text[start:end])
		start = end
	}

	return chunks
}
