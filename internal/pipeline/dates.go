package pipeline

import (
	"net/url"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/fyerfyer/civic-doc-system/internal/models"
)

const monthsPattern = `(?:jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|jun(?:e)?|jul(?:y)?|aug(?:ust)?|sep(?:tember)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)`

const weekdaysPattern = `(?:mon|tues?|wednes|thurs?|fri|satur|sun)day`

// datePatterns ordered cascade of date shapes, first match wins.
// Month names accept both full names and 3-letter abbreviations.
var datePatterns = []*regexp.Regexp{
	// 12th February 2026
	regexp.MustCompile(`(?i)\b\d{1,2}(?:st|nd|rd|th)?\s+` + monthsPattern + `\s+\d{4}\b`),
	// February 12, 2026
	regexp.MustCompile(`(?i)\b` + monthsPattern + `\s+\d{1,2}(?:st|nd|rd|th)?,?\s+\d{4}\b`),
	// Monday, 12th February 2026 (weekday stripped before acceptance)
	regexp.MustCompile(`(?i)\b` + weekdaysPattern + `,?\s+\d{1,2}(?:st|nd|rd|th)?\s+` + monthsPattern + `\s+\d{4}\b`),
	// 12/2/2026
	regexp.MustCompile(`(?i)\b\d{1,2}/\d{1,2}/\d{4}\b`),
}

// weekdayPrefix leading weekday on a matched date.
var weekdayPrefix = regexp.MustCompile(`(?i)^` + weekdaysPattern + `,?\s+`)

// filenameYear a bare 4-digit year in 2000-2039, the last-resort
// filename match. Filenames in this domain frequently encode the
// sitting year even when the full date is absent.
var filenameYear = regexp.MustCompile(`\b20[0-3]\d\b`)

// ocrDateNoise characters a recovered date string may not contain.
// Slashes stay so numeric D/M/YYYY dates survive the repair pass.
var ocrDateNoise = regexp.MustCompile(`[^A-Za-z0-9 ,/]+`)

var fourDigitYear = regexp.MustCompile(`\b\d{4}\b`)

// ocrMonthFixes known OCR month misreads. Keys are upper-case because
// the garbled forms show up in scanned all-caps headers.
var ocrMonthFixes = map[string]string{
	"JANURY":   "January",
	"FEBRURY":  "February",
	"FEBUARY":  "February",
	"MARH":     "March",
	"APIL":     "April",
	"AUGST":    "August",
	"SEPTEMER": "September",
	"OCTUBER":  "October",
	"NOVEMER":  "November",
	"DECEMER":  "December",
}

// ocrMonthTypos the garbled forms from ocrMonthFixes as one
// case-insensitive word pattern, applied before date matching.
var ocrMonthTypos = regexp.MustCompile(`(?i)\b(?:janury|februry|febuary|marh|apil|augst|septemer|octuber|novemer|decemer)\b`)

func fixMonthTypos(text string) string {
	return ocrMonthTypos.ReplaceAllStringFunc(text, func(w string) string {
		if fixed, ok := ocrMonthFixes[strings.ToUpper(w)]; ok {
			return fixed
		}
		return w
	})
}

const (
	// ocrYearMin / ocrYearMax the plausible-year window for OCR repair.
	// A 4-digit year outside the window is treated as a corrupted digit
	// rather than a real historical date. This is a heuristic: a genuine
	// out-of-range date is silently rewritten to the default year.
	ocrYearMin = 2000
	ocrYearMax = 2030
)

// DateExtractor resolves a document date from the filename and body
// text. A zero value is usable; DefaultYear falls back to the current
// year when unset.
type DateExtractor struct {
	// DefaultYear replaces implausible 4-digit years during OCR repair.
	DefaultYear int
}

// ExtractDate finds a date for the document. Resolution order: the
// decoded filename first (higher precision than garbled OCR body
// text), then for hansard and order papers the first line alone, which
// carries the sitting date in the header, then the full body. Returns
// models.DateNotDetected when nothing matches; never fails.
func (e *DateExtractor) ExtractDate(text, filename string, docType models.DocumentType) string {
	if d := e.fromFilename(filename); d != "" {
		return d
	}
	// garbled month names must be fixed before matching, or the
	// pattern cascade never sees them as dates at all
	body := fixMonthTypos(text)
	if docType == models.TypeHansard || docType == models.TypeOrderPaper {
		if d := matchDate(firstLine(body)); d != "" {
			return e.repairDate(d)
		}
	}
	if d := matchDate(body); d != "" {
		return e.repairDate(d)
	}
	return models.DateNotDetected
}

// fromFilename runs the pattern cascade over the decoded filename,
// extension stripped, with a bare in-range year as last resort.
func (e *DateExtractor) fromFilename(filename string) string {
	name := DecodeTitle(filename)
	if name == "" {
		return ""
	}
	if d := matchDate(name); d != "" {
		return d
	}
	return filenameYear.FindString(name)
}

// repairDate applies the OCR correction pass to a date recovered from
// body text: strip symbol noise, fix known month misreads, clamp
// implausible years to the default year.
func (e *DateExtractor) repairDate(date string) string {
	date = strings.TrimSpace(ocrDateNoise.ReplaceAllString(date, " "))

	words := strings.Fields(date)
	for i, w := range words {
		if fixed, ok := ocrMonthFixes[strings.ToUpper(w)]; ok {
			words[i] = fixed
		}
	}
	date = strings.Join(words, " ")

	return fourDigitYear.ReplaceAllStringFunc(date, func(y string) string {
		n, err := strconv.Atoi(y)
		if err != nil || (n >= ocrYearMin && n <= ocrYearMax) {
			return y
		}
		return strconv.Itoa(e.defaultYear())
	})
}

func (e *DateExtractor) defaultYear() int {
	if e.DefaultYear > 0 {
		return e.DefaultYear
	}
	return time.Now().Year()
}

// matchDate runs the ordered pattern cascade, stripping any weekday
// prefix from the winning match.
func matchDate(text string) string {
	for _, re := range datePatterns {
		if m := re.FindString(text); m != "" {
			return weekdayPrefix.ReplaceAllString(m, "")
		}
	}
	return ""
}

// firstLine the text up to the first line break.
func firstLine(text string) string {
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		return text[:i]
	}
	return text
}

// DecodeTitle derives a document title from its source filename:
// extension stripped, percent-encoding decoded. Deterministic.
func DecodeTitle(filename string) string {
	name := strings.TrimSuffix(filename, filepath.Ext(filename))
	if decoded, err := url.PathUnescape(name); err == nil {
		name = decoded
	}
	return name
}
