package extractor

import (
	"strings"
)

// depthState is the leading-asterisk depth of the last line that produced a
// quote. A line one level deeper continues that quote.
type depthState int

// initialDepth is the state before any line has matched.
const initialDepth depthState = 1

// step reports whether a matched line at depth continues the previous entry and
// returns the state for the next line.
func (s depthState) step(depth int) (continues bool, next depthState) {
	return depth == int(s)+1, depthState(depth)
}

// ExtractDialogue reads text line by line and returns "Speaker: text" entries.
// Consecutive lines nested one list level deeper than the previous match are
// joined onto the previous entry with a newline. Lines without a speaker are
// skipped and leave the depth state alone.
func ExtractDialogue(text string) []string {
	quotes := make([]string, 0)
	state := initialDepth

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		depth := leadingDepth(line)

		for _, m := range dialogueRe.FindAllStringSubmatch(line, -1) {
			quote := formatDialogue(m[1], m[2] != "", m[3])

			var continues bool
			continues, state = state.step(depth)

			if continues && len(quotes) > 0 {
				quotes[len(quotes)-1] += "\n" + quote
			} else {
				quotes = append(quotes, quote)
			}
		}
	}

	return quotes
}

func formatDialogue(speaker string, bold bool, utterance string) string {
	if bold {
		utterance = wikiBold + utterance + wikiBold
	}
	return strings.ReplaceAll(speaker+": "+utterance, wikiBold, BoldMarker)
}

// leadingDepth counts the asterisks a line starts with.
func leadingDepth(line string) int {
	return len(line) - len(strings.TrimLeft(line, "*"))
}
