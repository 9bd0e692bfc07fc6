// Package markup expands the wiki templates found on champion audio pages into
// the plain display text a player would see.
package markup

import (
	"regexp"
)

// Policy decides what a rule emits for each match.
type Policy int

const (
	// EmitSlot emits the first filled slot in the rule's fallback order.
	EmitSlot Policy = iota
	// EmitUpper emits the first filled slot uppercased.
	EmitUpper
	// EmitLiteral emits the rule's fixed literal.
	EmitLiteral
	// Delete replaces the match with a single space.
	Delete
)

// Exclusion leaves a match untouched when the named slot starts with Prefix.
type Exclusion struct {
	Slot   string
	Prefix string
}

// Rule is one template substitution. Fallback lists capture slot names in the
// order they are tried; a slot is filled when its group took part in the match.
type Rule struct {
	Name     string
	Pattern  *regexp.Regexp
	Fallback []string
	Policy   Policy
	Literal  string
	Exclude  *Exclusion
}

// Rules is the template catalog, applied in order. Order matters: File: links
// survive the hyperlink rule so the image rule can delete them.
var Rules = []Rule{
	{
		Name:     "small-caps",
		Pattern:  regexp.MustCompile(`\{\{sbc\|(?P<text>[^}]+)\}\}`),
		Fallback: []string{"text"},
		Policy:   EmitUpper,
	},
	{
		Name:     "champion",
		Pattern:  regexp.MustCompile(`\{\{ci\|(?P<champion>[^}|]+)(?:\|(?P<custom_name>[^}]+))?\}\}`),
		Fallback: []string{"custom_name", "champion"},
	},
	{
		Name:     "link",
		Pattern:  regexp.MustCompile(`\[\[(?P<page>[^\]|]+)(?:\|(?P<link_text>[^\]]+))?\]\]`),
		Fallback: []string{"link_text", "page"},
		Exclude:  &Exclusion{Slot: "page", Prefix: "File:"},
	},
	{
		Name:    "image",
		Pattern: regexp.MustCompile(` ?\[\[File:[^\[]+\]\] ?`),
		Policy:  Delete,
	},
	{
		Name:     "ability",
		Pattern:  regexp.MustCompile(`\{\{ai\|(?P<ability>[^}|]+)(?:\|(?P<champion>[^}|]+))?(?:\|(?P<display_name>[^}]+))?\}\}`),
		Fallback: []string{"display_name", "ability"},
	},
	{
		Name:    "riot-points",
		Pattern: regexp.MustCompile(`\{\{RP([^}]*)\}\}`),
		Policy:  EmitLiteral,
		Literal: "RP",
	},
	{
		Name:     "summoner-spell",
		Pattern:  regexp.MustCompile(`\{\{si\|(?P<spell>[^}]+)\}\}`),
		Fallback: []string{"spell"},
	},
	{
		Name:     "champion-icon",
		Pattern:  regexp.MustCompile(`\{\{[cC]cib?\|(?P<file>[^}|]+)\|(?P<link>[^}|]+)(?:\|(?P<display_name>[^}|]+))?\}\}`),
		Fallback: []string{"display_name", "link"},
	},
	{
		Name:     "ability-short",
		Pattern:  regexp.MustCompile(`\{\{[Aa]s\|(?P<text>[^}|]+)\}\}`),
		Fallback: []string{"text"},
	},
	{
		Name:     "stat-icon",
		Pattern:  regexp.MustCompile(`\{\{sti\|(?P<attribute>[^}|]+)(?:\|(?P<display_name>[^}|]+))?\}\}`),
		Fallback: []string{"display_name", "attribute"},
	},
	{
		Name:     "buff-icon",
		Pattern:  regexp.MustCompile(`\{\{bi\|(?P<buff>[^}|]+)(?:\|(?P<display_name>[^}|]+))?\}\}`),
		Fallback: []string{"display_name", "buff"},
	},
	{
		Name:     "tooltip",
		Pattern:  regexp.MustCompile(`\{\{tt\|(?P<text>[^}|]+)\|(?P<hover>[^}|]+)\}\}`),
		Fallback: []string{"text"},
	},
	{
		Name:     "unit-icon",
		Pattern:  regexp.MustCompile(`\{\{ui\|(?P<unit>[^}|]+)(?:\|(?P<display_name>[^}|]+))?\}\}`),
		Fallback: []string{"display_name", "unit"},
	},
	{
		Name:     "champion-skin",
		Pattern:  regexp.MustCompile(`\{\{csl\|(?P<champ>[^}|]+)(?:\|(?P<skin>[^}|]+))?(?:\|(?P<display_name>[^}|]+))?\}\}`),
		Fallback: []string{"display_name", "skin", "champ"},
	},
	{
		Name:     "faction-icon",
		Pattern:  regexp.MustCompile(`\{\{fi\|(?P<faction>[^}|]+)(?:\|(?P<display_name>[^}|]+))?\}\}`),
		Fallback: []string{"display_name", "faction"},
	},
}

func init() {
	for _, r := range Rules {
		if err := r.validate(); err != nil {
			panic(err)
		}
	}
}
