// Package extractor pulls speaker quotes out of normalized champion audio pages.
package extractor

import (
	"regexp"
	"strings"

	"github.com/abdulachik/lolquotes/internal/markup"
)

// ReservedName is the one champion whose page is read as multi-speaker dialogue.
const ReservedName = "Kindred"

// BoldMarker replaces the wiki's triple-apostrophe bold marker in quotes.
const BoldMarker = "**"

const wikiBold = "'''"

var (
	// quoteRe matches ''"text"'' on a single line. It is greedy: two spans on
	// one line form a single match from the first opener to the last closer.
	quoteRe = regexp.MustCompile(`''"(.*)"''`)

	// dialogueRe matches Speaker: ''"text"''. The extra ' of a bold opener is
	// captured on its own and makes the utterance bold whether or not the
	// closer is bold too. The quote marks around the text are each optional.
	dialogueRe = regexp.MustCompile(`(Wolf|Lamb|Kindred): ''(?:(')?")?([^"]+)?(?:")?''`)
)

// Strategy turns normalized page text into an ordered list of quotes.
type Strategy func(text string) []string

// StrategyFor picks the extraction strategy for a champion by exact name.
func StrategyFor(name string) Strategy {
	if name == ReservedName {
		return ExtractDialogue
	}
	return ExtractQuotes
}

// Parse runs the full pipeline over a raw audio page: template normalization,
// then the champion's extraction strategy. It never fails; a page without
// quotes yields an empty list.
func Parse(raw, name string) []string {
	return StrategyFor(name)(markup.Normalize(raw))
}

// ExtractQuotes returns every ''"..."'' span in text, top to bottom. Spans that
// reference audio files or are exactly "GG!" are dropped.
func ExtractQuotes(text string) []string {
	quotes := make([]string, 0)

	for _, m := range quoteRe.FindAllStringSubmatch(text, -1) {
		capture := m[1]
		if !keepQuote(capture) {
			continue
		}
		quotes = append(quotes, strings.ReplaceAll(capture, wikiBold, BoldMarker))
	}

	return quotes
}

func keepQuote(capture string) bool {
	return !strings.Contains(capture, "ogg") && capture != "GG!"
}
