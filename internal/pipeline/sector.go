package pipeline

import (
	"strings"

	"github.com/fyerfyer/civic-doc-system/internal/models"
)

// sectorStems keyword stems per sector, matched as substrings of the
// lower-cased text. Stems rather than whole words so that inflections
// ("taxation", "policing") still count.
var sectorStems = map[models.SectorLabel][]string{
	models.SectorSecurity: {
		"security", "police", "defence", "defense", "military",
		"immigration", "terror", "counter-terrorism",
	},
	models.SectorFinance: {
		"budget", "appropriation", "finance", "tax", "revenue",
		"expenditure", "treasury", "levy", "customs",
	},
	models.SectorEducation: {
		"education", "school", "university", "teacher", "curriculum", "student",
	},
	models.SectorHealth: {
		"health", "hospital", "clinic", "disease", "medical", "vaccine",
	},
	models.SectorEnvironment: {
		"environment", "climate", "wildlife", "forest", "pollution", "conservation",
	},
	models.SectorJustice: {
		"judiciary", "court", "legal", "tribunal", "magistrate",
	},
	models.SectorCreativeEconomy: {
		"creative economy", "film", "music", "arts", "culture", "copyright",
	},
}

// DetectSector scores each candidate sector by keyword-stem frequency
// in the lower-cased text. The strictly highest count wins; ties and an
// all-zero result both resolve to the general-governance default.
func DetectSector(text string) models.SectorLabel {
	lower := strings.ToLower(text)

	best := models.SectorGeneralGovernance
	bestScore := 0
	tied := false

	for sector, stems := range sectorStems {
		score := 0
		for _, stem := range stems {
			score += strings.Count(lower, stem)
		}
		switch {
		case score > bestScore:
			best, bestScore, tied = sector, score, false
		case score == bestScore && score > 0:
			tied = true
		}
	}

	if bestScore == 0 || tied {
		return models.SectorGeneralGovernance
	}
	return best
}

// ResolveSector applies the type-driven override on top of the keyword
// score: procedural transcripts discuss many sectors in passing without
// being substantively about any one of them, so hansard and order
// papers are always labelled as parliamentary proceedings.
func ResolveSector(text string, docType models.DocumentType) models.SectorLabel {
	if docType == models.TypeHansard || docType == models.TypeOrderPaper {
		return models.SectorParliamentary
	}
	return DetectSector(text)
}
