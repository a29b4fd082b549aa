package pipeline

import (
	"regexp"

	"github.com/fyerfyer/civic-doc-system/internal/models"
)

// removalRule one boilerplate-stripping step: everything the pattern
// matches is deleted. Spans are bounded inside the pattern itself so a
// runaway match can never swallow document content.
type removalRule struct {
	pattern *regexp.Regexp
}

// cleanerRules removal rules per document type, applied in order.
var cleanerRules = map[models.DocumentType][]removalRule{
	models.TypeBill: {
		// republic-of-Kenya letterhead block
		{regexp.MustCompile(`(?is)\brepublic of kenya\b[\s.,:-]{0,40}(?:national assembly|the senate)?[\s.,:-]{0,20}`)},
		// arrangement-of-clauses table, a clause-title listing of up to
		// 2000 chars; two consecutive spans because a single count is
		// capped at 1000 and counted repeats cannot nest
		{regexp.MustCompile(`(?is)\barrangement of clauses\b.{0,1000}?.{0,1000}?\ba bill for\b`)},
		// objects-and-reasons heading; the explanatory text after it is content
		{regexp.MustCompile(`(?i)\bobjects and reasons\b[\s.,:-]{0,10}`)},
		// schedule section headings
		{regexp.MustCompile(`(?i)\b(?:first|second|third|fourth)?\s*schedule\b\s*(?:\[|\()s?\.?\s*\d*\s*(?:\]|\))?`)},
	},
	models.TypeHansard: {
		// disclaimer boilerplate, bounded to the editorial sign-off phrase
		{regexp.MustCompile(`(?is)\bdisclaimer\b.{0,400}?\bofficial report\b[.,]?`)},
		// volume and issue numbering
		{regexp.MustCompile(`(?i)\b(?:vol(?:ume)?|no)\.?\s*[ivxlcdm0-9]+\b`)},
		// stage directions
		{regexp.MustCompile(`(?i)\[(?:applause|laughter|interruption|inaudible)[^\]]{0,40}\]`)},
		// quorum-bell notices
		{regexp.MustCompile(`(?i)\(?\bthe quorum bell was rung\b.{0,80}?\)?\.?`)},
		// masthead repeated before the sitting opens
		{regexp.MustCompile(`(?is)\bnational assembly\b[\s.,:-]{0,20}official report\b[\s.,:-]{0,20}`)},
	},
	models.TypeOrderPaper: {
		{regexp.MustCompile(`(?is)\brepublic of kenya\b[\s.,:-]{0,40}(?:national assembly|the senate)?[\s.,:-]{0,20}`)},
		// communication-from-the-chair block
		{regexp.MustCompile(`(?is)\bcommunication from the chair\b.{0,600}?(?:\n|$)`)},
		{regexp.MustCompile(`(?i)\borders of the day\b[\s.,:-]{0,10}`)},
	},
	models.TypeCommitteeReport: {
		{regexp.MustCompile(`(?is)\brepublic of kenya\b[\s.,:-]{0,40}(?:national assembly|the senate)?[\s.,:-]{0,20}`)},
		// report-of header block
		{regexp.MustCompile(`(?is)\breport of the\b.{0,300}?(?:committee|assembly)\b[\s.,:-]{0,20}`)},
	},
	models.TypeGazette: {
		{regexp.MustCompile(`(?i)\bspecial issue\b[\s.,:-]{0,10}`)},
		{regexp.MustCompile(`(?is)\bkenya gazette supplement\b.{0,200}?(?:\n|$)`)},
		// registry and filing stamps
		{regexp.MustCompile(`(?i)\bnational assembly received\b.{0,60}`)},
		{regexp.MustCompile(`(?i)\bdirector legal services\b.{0,60}`)},
		{regexp.MustCompile(`(?i)\bprinted and published by\b.{0,120}`)},
		// standalone page numbers
		{regexp.MustCompile(`(?m)^\s*\d{3,4}\s*$`)},
	},
}

// pageNumberTokens universal post-pass targets: "Page N" tokens and
// bare 3-4 digit numbers standing alone on a line are near-always page
// numbers, not content. Numbers inside running text are left alone so
// that years inside dates survive for the date extractor.
var pageNumberTokens = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bpage\s+\d{1,4}\b`),
	regexp.MustCompile(`(?m)^\s*\d{3,4}\s*$`),
}

// Clean strips boilerplate specific to the document type, then runs
// the universal page-number pass and re-collapses whitespace. Total
// function: a pattern that matches nothing is a no-op, and TypeGeneral
// is a pass-through apart from the whitespace collapse.
func Clean(text string, docType models.DocumentType) string {
	for _, rule := range cleanerRules[docType] {
		text = rule.pattern.ReplaceAllString(text, " ")
	}
	for _, re := range pageNumberTokens {
		text = re.ReplaceAllString(text, " ")
	}
	return Normalize(text)
}
