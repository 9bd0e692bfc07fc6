package markup

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Normalize applies every rule in the catalog once, in catalog order. Each rule
// sees the text produced by the rules before it. Text that no rule matches is
// returned unchanged.
func Normalize(text string) string {
	for _, r := range Rules {
		text = r.Apply(text)
	}
	return text
}

// Apply replaces every non-overlapping match of the rule in text. Replacement
// text is not rescanned.
func (r Rule) Apply(text string) string {
	matches := r.Pattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))

	last := 0
	for _, m := range matches {
		b.WriteString(text[last:m[0]])
		b.WriteString(r.expand(text, m))
		last = m[1]
	}
	b.WriteString(text[last:])

	return b.String()
}

func (r Rule) expand(text string, m []int) string {
	switch r.Policy {
	case Delete:
		return " "
	case EmitLiteral:
		return r.Literal
	}

	if r.Exclude != nil {
		if s, ok := r.slot(text, m, r.Exclude.Slot); ok && strings.HasPrefix(s, r.Exclude.Prefix) {
			return text[m[0]:m[1]]
		}
	}

	for _, name := range r.Fallback {
		s, ok := r.slot(text, m, name)
		if !ok {
			continue
		}
		if r.Policy == EmitUpper {
			// Casers keep state, so each call gets its own.
			return cases.Upper(language.Und).String(s)
		}
		return s
	}

	return text[m[0]:m[1]]
}

// slot returns the text of a named group and whether the group participated.
func (r Rule) slot(text string, m []int, name string) (string, bool) {
	i := r.Pattern.SubexpIndex(name)
	if i < 0 || 2*i+1 >= len(m) || m[2*i] < 0 {
		return "", false
	}
	return text[m[2*i]:m[2*i+1]], true
}

func (r Rule) validate() error {
	if r.Pattern == nil {
		return fmt.Errorf("markup rule %q: missing pattern", r.Name)
	}

	switch r.Policy {
	case EmitSlot, EmitUpper:
		if len(r.Fallback) == 0 {
			return fmt.Errorf("markup rule %q: no fallback slots", r.Name)
		}
	case EmitLiteral, Delete:
	default:
		return fmt.Errorf("markup rule %q: unknown policy %d", r.Name, r.Policy)
	}

	slots := r.Fallback
	if r.Exclude != nil {
		slots = append(slots[:len(slots):len(slots)], r.Exclude.Slot)
	}
	for _, name := range slots {
		if r.Pattern.SubexpIndex(name) < 0 {
			return fmt.Errorf("markup rule %q: pattern has no slot %q", r.Name, name)
		}
	}

	return nil
}
