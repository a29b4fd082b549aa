package pipeline

import (
	"strings"

	"github.com/fyerfyer/civic-doc-system/internal/models"
)

// classifierRule a priority rung of the classification cascade.
// The first rule with any matching cue wins.
type classifierRule struct {
	cues    []string
	docType models.DocumentType
}

// classifierCascade ordered lexical-cue rules. The order is load-bearing:
// hansard transcripts frequently quote bill text, so the rarer and more
// specific bill cues are tested first. Do not reorder.
var classifierCascade = []classifierRule{
	{
		cues:    []string{"a bill for", "arrangement of clauses", "objects and reasons", "enacted by"},
		docType: models.TypeBill,
	},
	{
		cues:    []string{"the house met", "hansard", "speaker", "hon."},
		docType: models.TypeHansard,
	},
	{
		cues:    []string{"order of business", "order paper", "prayers"},
		docType: models.TypeOrderPaper,
	},
	{
		cues:    []string{"committee on", "departmental committee", "report of"},
		docType: models.TypeCommitteeReport,
	},
	{
		cues:    []string{"kenya gazette", "gazette notice"},
		docType: models.TypeGazette,
	},
}

// Classify assigns a document type from lexical cues in the normalized
// text. Deterministic and total: every input maps to exactly one type,
// with TypeGeneral when nothing matches.
func Classify(text string) models.DocumentType {
	lower := strings.ToLower(text)
	for _, rule := range classifierCascade {
		for _, cue := range rule.cues {
			if strings.Contains(lower, cue) {
				return rule.docType
			}
		}
	}
	return models.TypeGeneral
}
