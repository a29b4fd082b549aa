package pipeline

import (
	"regexp"
	"strings"
)

// whitespaceRun matches runs of two or more whitespace characters,
// newlines included. Single newlines are left alone so that header
// line structure survives for downstream date extraction.
var whitespaceRun = regexp.MustCompile(`\s\s+`)

// ocrNoise matches anything outside the OCR allow-list: letters,
// digits, whitespace and a small set of punctuation.
var ocrNoise = regexp.MustCompile(`[^A-Za-z0-9\s.,;:/-]+`)

// Normalize collapses whitespace and line-break noise into clean,
// analyzable text. Idempotent: Normalize(Normalize(s)) == Normalize(s).
func Normalize(text string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(text, " "))
}

// NormalizeOCR is the OCR-safe variant of Normalize. It additionally
// strips stray symbol noise outside the allow-list before collapsing
// whitespace again.
func NormalizeOCR(text string) string {
	return Normalize(ocrNoise.ReplaceAllString(text, " "))
}
