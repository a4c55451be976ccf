// Package grading decides whether a learner's answer to an exercise is
// correct and explains which differences were forgiven.
package grading

import (
	"strings"
	"unicode"
)

const trailingPunctuation = ".,!?;:"

// curlyQuotes are the typographic variants unified by NormalizeStrict.
const curlyQuotes = "’‘`“”"

var quoteReplacer = strings.NewReplacer(
	"’", "'",
	"‘", "'",
	"`", "'",
	"“", `"`,
	"”", `"`,
)

// NormalizeStrict lowercases s, unifies apostrophes and double quotes and
// collapses whitespace runs to single spaces.
func NormalizeStrict(s string) string {
	t := strings.ToLower(strings.TrimSpace(s))
	t = quoteReplacer.Replace(t)
	return strings.Join(strings.Fields(t), " ")
}

// NormalizeLenient is NormalizeStrict without trailing punctuation.
func NormalizeLenient(s string) string {
	t := NormalizeStrict(s)
	t = strings.TrimRight(t, trailingPunctuation)
	return strings.TrimSpace(t)
}

// NormalizeLenientNoApostrophe is NormalizeLenient with every apostrophe
// removed, so "don't" and "dont" compare equal.
func NormalizeLenientNoApostrophe(s string) string {
	return strings.ReplaceAll(NormalizeLenient(s), "'", "")
}

func endsWithPunctuation(s string) bool {
	t := strings.TrimRightFunc(s, unicode.IsSpace)
	if t == "" {
		return false
	}
	return strings.ContainsRune(trailingPunctuation, rune(t[len(t)-1]))
}

func hasCurlyQuote(s string) bool {
	return strings.ContainsAny(s, curlyQuotes)
}

func hasWhitespaceRun(s string) bool {
	prev := false
	for _, r := range s {
		sp := unicode.IsSpace(r)
		if sp && prev {
			return true
		}
		prev = sp
	}
	return false
}
