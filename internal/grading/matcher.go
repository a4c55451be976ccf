package grading

import (
	"encoding/json"
	"strings"
)

// Mode reports how much leniency a match needed.
type Mode uint8

const (
	ModeStrict Mode = iota
	ModeLenient
)

func (m Mode) String() string {
	switch m {
	case ModeLenient:
		return "lenient"
	default:
		return "strict"
	}
}

func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// Notes shown to the learner after a lenient match.
const (
	NoteTrailingPunctuation = "Trailing punctuation was ignored (e.g. a final period)."
	NoteQuotesUnified       = "Apostrophes and quotation marks were unified (e.g. don’t vs don't)."
	NoteWhitespace          = "Extra whitespace was normalized."
	NoteApostropheOmitted   = "Apostrophe differences were ignored (e.g. don't vs dont)."
)

// Evaluation describes how an answer was compared. Empty Matched or
// AcceptedAnswer serialise as null.
type Evaluation struct {
	Mode           Mode
	Matched        string
	Notes          []string
	AcceptedAnswer string
}

func (e Evaluation) MarshalJSON() ([]byte, error) {
	notes := e.Notes
	if notes == nil {
		notes = []string{}
	}
	return json.Marshal(struct {
		Mode           Mode     `json:"mode"`
		Matched        *string  `json:"matched"`
		Notes          []string `json:"notes"`
		AcceptedAnswer *string  `json:"acceptedAnswer"`
	}{
		Mode:           e.Mode,
		Matched:        nullable(e.Matched),
		Notes:          notes,
		AcceptedAnswer: nullable(e.AcceptedAnswer),
	})
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// tier is one step of the matching cascade. notes receives the raw answer
// and the raw accepted answer that matched.
type tier struct {
	mode      Mode
	normalize func(string) string
	notes     func(rawAnswer, rawMatched string) []string
}

// tiers run strictest first; the first tier with a match wins.
var tiers = []tier{
	{mode: ModeStrict, normalize: NormalizeStrict},
	{mode: ModeLenient, normalize: NormalizeLenient, notes: lenientNotes},
	{mode: ModeLenient, normalize: NormalizeLenientNoApostrophe, notes: apostropheNotes},
}

// MatchAnswer compares a free-text answer against the accepted answers.
func MatchAnswer(answer string, accepted []string) (bool, Evaluation) {
	for _, t := range tiers {
		user := t.normalize(answer)
		for _, candidate := range accepted {
			if t.normalize(candidate) != user {
				continue
			}
			ev := Evaluation{
				Mode:           t.mode,
				Matched:        candidate,
				Notes:          []string{},
				AcceptedAnswer: user,
			}
			if t.notes != nil {
				ev.Notes = t.notes(answer, candidate)
			}
			return true, ev
		}
	}

	compared := NormalizeStrict(answer)
	if compared == "" {
		compared = NormalizeLenient(answer)
	}
	return false, Evaluation{Mode: ModeStrict, Notes: []string{}, AcceptedAnswer: compared}
}

// lenientNotes inspects the raw strings, so it reports what the user typed
// even when that relaxation was not the one that produced the match.
func lenientNotes(rawAnswer, rawMatched string) []string {
	notes := []string{}
	if endsWithPunctuation(rawAnswer) || endsWithPunctuation(rawMatched) {
		notes = append(notes, NoteTrailingPunctuation)
	}
	if hasCurlyQuote(rawAnswer) || hasCurlyQuote(rawMatched) {
		notes = append(notes, NoteQuotesUnified)
	}
	if hasWhitespaceRun(rawAnswer) || hasWhitespaceRun(rawMatched) {
		notes = append(notes, NoteWhitespace)
	}
	return notes
}

// apostropheNotes only compares apostrophe counts, not positions, so it can
// fire when another difference forced the apostrophe-free comparison.
func apostropheNotes(rawAnswer, rawMatched string) []string {
	notes := lenientNotes(rawAnswer, rawMatched)
	a := strings.Count(NormalizeLenient(rawAnswer), "'")
	s := strings.Count(NormalizeLenient(rawMatched), "'")
	if a != s {
		notes = append(notes, NoteApostropheOmitted)
	}
	return notes
}
