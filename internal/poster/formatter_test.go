package poster

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestFormatQuote(t *testing.T) {
	t.Run("plain quote", func(t *testing.T) {
		assert.Equal(t, "Don't you trust me?", FormatQuote("Don't you trust me?"))
	})

	t.Run("keeps dialogue lines and bold", func(t *testing.T) {
		quote := "Lamb: Never one **without** the other.\nWolf: Never."
		assert.Equal(t, quote, FormatQuote(quote))
	})

	t.Run("long quote is truncated", func(t *testing.T) {
		quote := strings.Repeat("word ", 600)
		result := FormatQuote(quote)
		assert.LessOrEqual(t, utf8.RuneCountInString(result), DiscordMaxLength)
		assert.True(t, strings.HasSuffix(result, "..."))
	})
}

func TestFormatNotification(t *testing.T) {
	assert.Equal(t, "**Refresh partial**\n2 champions failed", FormatNotification("Refresh partial", "2 champions failed"))
	assert.Equal(t, "**Done**", FormatNotification("Done", ""))
}

func TestTruncateQuote(t *testing.T) {
	t.Run("short quote unchanged", func(t *testing.T) {
		quote := "Short quote."
		assert.Equal(t, quote, TruncateQuote(quote, 100))
	})

	t.Run("long quote truncated", func(t *testing.T) {
		quote := "This is a very long quote that needs to be truncated because it exceeds the character limit for the post."
		result := TruncateQuote(quote, 50)

		assert.LessOrEqual(t, utf8.RuneCountInString(result), 50)
		assert.True(t, strings.HasSuffix(result, "..."))
	})

	t.Run("truncates at word boundary", func(t *testing.T) {
		quote := "Word1 word2 word3 word4 word5 word6 word7 word8"
		result := TruncateQuote(quote, 30)
		assert.Equal(t, "Word1 word2 word3 word4...", result)
	})

	t.Run("counts runes", func(t *testing.T) {
		quote := strings.Repeat("狐", 20)
		result := TruncateQuote(quote, 10)
		assert.Equal(t, strings.Repeat("狐", 7)+"...", result)
	})

	t.Run("tiny limit", func(t *testing.T) {
		assert.Equal(t, "ab", TruncateQuote("abcdef", 2))
	})
}

func TestFitsInLimit(t *testing.T) {
	tests := []struct {
		text  string
		limit int
		fits  bool
	}{
		{"Hello", 10, true},
		{"Hello", 5, true},
		{"Hello", 4, false},
		{"", 1, true},
		{"日本語", 3, true},
		{"日本語", 2, false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.fits, FitsInLimit(tt.text, tt.limit))
		})
	}
}

func BenchmarkFormatQuote(b *testing.B) {
	for i := 0; i < b.N; i++ {
		FormatQuote("Lamb: Never one without the other.\nWolf: Never.")
	}
}
