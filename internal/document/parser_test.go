package document

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jung-kurt/gofpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, content, ext string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture"+ext)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func writeTempPDF(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.pdf")

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "", 12)
	pdf.MultiCell(0, 10, text, "", "", false)
	require.NoError(t, pdf.OutputFileAndClose(path))
	return path
}

func TestPlainTextParser(t *testing.T) {
	file := writeTempFile(t, "ORDER PAPER for Tuesday.\nPrayers.", ".txt")

	p := NewPlainTextParser()
	text, err := p.Parse(file)
	require.NoError(t, err)
	assert.Contains(t, text, "ORDER PAPER")
	assert.Contains(t, text, "Prayers")
}

func TestPlainTextParserReader(t *testing.T) {
	p := NewPlainTextParser()
	text, err := p.ParseReader(strings.NewReader("committee findings"), "report.txt")
	require.NoError(t, err)
	assert.Equal(t, "committee findings", text)
}

func TestMarkdownParser(t *testing.T) {
	content := "# Committee Report\n\nThe committee **recommends** adoption.\n\n- Finding 1\n- Finding 2"
	file := writeTempFile(t, content, ".md")

	p := NewMarkdownParser()
	text, err := p.Parse(file)
	require.NoError(t, err)
	assert.Contains(t, text, "Committee Report")
	assert.Contains(t, text, "recommends adoption")
	assert.Contains(t, text, "Finding 1")
	assert.NotContains(t, text, "**", "markup must be stripped")
	assert.NotContains(t, text, "<", "tags must be stripped")
}

func TestPDFParser(t *testing.T) {
	file := writeTempPDF(t, "REPUBLIC OF KENYA bill text.\nSecond line.")

	p := NewPDFParser()
	text, err := p.Parse(file)
	require.NoError(t, err)
	assert.Contains(t, text, "REPUBLIC OF KENYA")
}

func TestPDFParserMissingFile(t *testing.T) {
	p := NewPDFParser()
	_, err := p.Parse(filepath.Join(t.TempDir(), "absent.pdf"))
	assert.Error(t, err)
}

func TestParserFactory(t *testing.T) {
	cases := []struct {
		name string
		path string
		ok   bool
	}{
		{"pdf", "doc.pdf", true},
		{"markdown", "doc.md", true},
		{"markdown long ext", "doc.markdown", true},
		{"text", "doc.txt", true},
		{"uppercase ext", "DOC.TXT", true},
		{"unsupported", "doc.docx", false},
		{"no extension", "doc", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := ParserFactory(tc.path)
			if tc.ok {
				require.NoError(t, err)
				assert.NotNil(t, p)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestExtract(t *testing.T) {
	t.Run("successful extraction", func(t *testing.T) {
		file := writeTempFile(t, "gazette notice text", ".txt")
		res := Extract(NewPlainTextParser(), file)
		assert.True(t, res.Success)
		assert.Equal(t, "gazette notice text", res.RawText)
	})

	t.Run("parse failure is not an error", func(t *testing.T) {
		res := Extract(NewPlainTextParser(), filepath.Join(t.TempDir(), "absent.txt"))
		assert.False(t, res.Success)
		assert.Empty(t, res.RawText)
	})
}
