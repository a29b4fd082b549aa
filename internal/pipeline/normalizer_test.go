package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	t.Run("collapses whitespace runs", func(t *testing.T) {
		assert.Equal(t, "Hello world next", Normalize("  Hello   world\n\nnext  "))
	})

	t.Run("preserves single newlines", func(t *testing.T) {
		// header line structure must survive for date extraction
		assert.Equal(t, "line one\nline two", Normalize("line one\nline two"))
	})

	t.Run("collapses tabs and carriage returns", func(t *testing.T) {
		assert.Equal(t, "a b c", Normalize("a\t\tb\r\nc"))
	})

	t.Run("idempotent", func(t *testing.T) {
		inputs := []string{
			"  Hello   world  ",
			"line one\nline two",
			"a\t b\n\n c",
			"",
		}
		for _, in := range inputs {
			once := Normalize(in)
			assert.Equal(t, once, Normalize(once), "Normalize must be idempotent for %q", in)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Equal(t, "", Normalize(""))
		assert.Equal(t, "", Normalize("   \n\n  "))
	})
}

func TestNormalizeOCR(t *testing.T) {
	t.Run("strips symbol noise", func(t *testing.T) {
		assert.Equal(t, "a b c", NormalizeOCR("a * b @@ c"))
	})

	t.Run("keeps allowed punctuation", func(t *testing.T) {
		assert.Equal(t, "a.b,c;d:e/f-g", NormalizeOCR("a.b,c;d:e/f-g"))
	})

	t.Run("strips non-ascii artifacts", func(t *testing.T) {
		got := NormalizeOCR("budget © 2024 — report")
		assert.Equal(t, "budget 2024 report", got)
	})
}
