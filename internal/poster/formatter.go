package poster

import (
	"strings"
	"unicode/utf8"
)

// DiscordMaxLength is the maximum character count of a webhook message.
const DiscordMaxLength = 2000

const ellipsis = "..."

// FormatQuote renders a quote as a message body. Bold markers are kept since
// the chat client renders them.
func FormatQuote(quote string) string {
	return TruncateQuote(strings.TrimSpace(quote), DiscordMaxLength)
}

// FormatNotification renders an operator notification.
func FormatNotification(subject, body string) string {
	text := "**" + subject + "**"
	if body != "" {
		text += "\n" + body
	}
	return TruncateQuote(text, DiscordMaxLength)
}

// TruncateQuote shortens quote to at most maxLen runes, ending in "...".
func TruncateQuote(quote string, maxLen int) string {
	if FitsInLimit(quote, maxLen) {
		return quote
	}

	available := maxLen - len(ellipsis)
	if available <= 0 {
		return string([]rune(quote)[:maxLen])
	}

	truncated := string([]rune(quote)[:available])

	// Prefer a word boundary unless it throws away most of the text.
	if lastSpace := strings.LastIndexAny(truncated, " \n"); lastSpace > len(truncated)/2 {
		truncated = truncated[:lastSpace]
	}

	return strings.TrimRight(truncated, " \n.,;:!?") + ellipsis
}

// FitsInLimit checks if text fits within limit runes.
func FitsInLimit(text string, limit int) bool {
	return utf8.RuneCountInString(text) <= limit
}
