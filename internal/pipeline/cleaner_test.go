package pipeline

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fyerfyer/civic-doc-system/internal/models"
)

func TestCleanBill(t *testing.T) {
	text := "REPUBLIC OF KENYA\nNATIONAL ASSEMBLY\n" +
		"ARRANGEMENT OF CLAUSES\nClause 1 - Short title\nClause 2 - Interpretation\n" +
		"A BILL FOR\nAN ACT of Parliament to amend the law relating to public finance\n" +
		"OBJECTS AND REASONS\nThe principal object of this Bill is to streamline revenue collection."

	got := Clean(text, models.TypeBill)

	assert.NotContains(t, got, "REPUBLIC OF KENYA")
	assert.NotContains(t, got, "ARRANGEMENT OF CLAUSES")
	assert.NotContains(t, got, "Short title")
	assert.NotContains(t, got, "OBJECTS AND REASONS")
	// the explanatory text after the heading is content and must survive
	assert.Contains(t, got, "AN ACT of Parliament")
	assert.Contains(t, got, "principal object of this Bill")
}

func TestCleanBillLongClauseTable(t *testing.T) {
	t.Run("table near the span bound is removed", func(t *testing.T) {
		// roughly 1500 chars of clause titles between the markers
		table := strings.Repeat("Clause 12 - Interpretation of terms\n", 40)
		text := "ARRANGEMENT OF CLAUSES\n" + table +
			"A BILL FOR\nAN ACT of Parliament to regulate county budgets"

		got := Clean(text, models.TypeBill)

		assert.NotContains(t, got, "ARRANGEMENT OF CLAUSES")
		assert.NotContains(t, got, "Interpretation of terms")
		assert.Contains(t, got, "AN ACT of Parliament")
	})

	t.Run("span beyond the bound is left alone", func(t *testing.T) {
		// over 2500 chars, past the 2000-char span bound
		table := strings.Repeat("Clause 12 - Interpretation of terms\n", 70)
		text := "ARRANGEMENT OF CLAUSES\n" + table +
			"A BILL FOR\nAN ACT of Parliament to regulate county budgets"

		got := Clean(text, models.TypeBill)

		assert.Contains(t, got, "ARRANGEMENT OF CLAUSES")
		assert.Contains(t, got, "AN ACT of Parliament")
	})
}

func TestCleanHansard(t *testing.T) {
	text := "NATIONAL ASSEMBLY\nOFFICIAL REPORT\nTuesday, 12th March 2024\n" +
		"DISCLAIMER: The electronic version of the report is for information purposes only. " +
		"A certified copy constitutes the official report.\n" +
		"Hon. Members debated the motion. [Applause] The Member for Kisumu rose. " +
		"(The quorum bell was rung) The sitting resumed."

	got := Clean(text, models.TypeHansard)

	assert.NotContains(t, got, "DISCLAIMER")
	assert.NotContains(t, got, "[Applause]")
	assert.NotContains(t, got, "quorum bell")
	assert.NotContains(t, got, "OFFICIAL REPORT")
	// the sitting date must survive cleaning for date extraction
	assert.Contains(t, got, "12th March 2024")
	assert.Contains(t, got, "debated the motion")
	assert.Contains(t, got, "The sitting resumed")
}

func TestCleanHansardNumbering(t *testing.T) {
	text := "Vol. XII No. 45 The House met at 2.30 p.m."
	got := Clean(text, models.TypeHansard)

	assert.NotContains(t, got, "Vol.")
	assert.NotContains(t, got, "XII")
	assert.NotContains(t, got, "45")
	assert.Contains(t, got, "The House met")
}

func TestCleanOrderPaper(t *testing.T) {
	text := "REPUBLIC OF KENYA\nNATIONAL ASSEMBLY\n" +
		"ORDERS OF THE DAY\n1. Prayers\n2. Administration of Oaths\n" +
		"3. Motion on the Climate Change (Amendment) Bill"

	got := Clean(text, models.TypeOrderPaper)

	assert.NotContains(t, got, "REPUBLIC OF KENYA")
	assert.NotContains(t, got, "ORDERS OF THE DAY")
	assert.Contains(t, got, "Prayers")
	assert.Contains(t, got, "Climate Change (Amendment) Bill")
}

func TestCleanGazette(t *testing.T) {
	text := "SPECIAL ISSUE\nKenya Gazette Supplement No. 42 (National Assembly Bills)\n" +
		"The Public Finance Management (Amendment) Bill, 2024\n" +
		"PRINTED AND PUBLISHED BY THE GOVERNMENT PRINTER, NAIROBI"

	got := Clean(text, models.TypeGazette)

	assert.NotContains(t, got, "SPECIAL ISSUE")
	assert.NotContains(t, got, "Gazette Supplement")
	assert.NotContains(t, got, "GOVERNMENT PRINTER")
	assert.Contains(t, got, "Public Finance Management (Amendment) Bill")
}

func TestCleanPageNumbers(t *testing.T) {
	t.Run("page tokens removed", func(t *testing.T) {
		got := Clean("some content Page 12 more content", models.TypeGeneral)
		assert.Equal(t, "some content more content", got)
	})

	t.Run("standalone numbers removed", func(t *testing.T) {
		got := Clean("first line\n1234\nsecond line", models.TypeGeneral)
		assert.NotContains(t, got, "1234")
		assert.Contains(t, got, "first line")
		assert.Contains(t, got, "second line")
	})

	t.Run("inline years survive", func(t *testing.T) {
		// years inside running text feed the date extractor
		got := Clean("the sitting of 12th March 2024 was adjourned", models.TypeGeneral)
		assert.Contains(t, got, "2024")
	})
}

func TestCleanGeneralPassThrough(t *testing.T) {
	got := Clean("plain  content   with gaps", models.TypeGeneral)
	assert.Equal(t, "plain content with gaps", got)
}

func TestCleanTotal(t *testing.T) {
	// a pattern that matches nothing must be a no-op
	for _, dt := range []models.DocumentType{
		models.TypeBill, models.TypeHansard, models.TypeOrderPaper,
		models.TypeCommitteeReport, models.TypeGazette, models.TypeGeneral,
	} {
		assert.Equal(t, "untouched content", Clean("untouched content", dt))
		assert.Equal(t, "", Clean("", dt))
	}
}
