package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

type ExerciseType string

const (
	ExerciseTranslate      ExerciseType = "translate"
	ExerciseTranslateEnPl  ExerciseType = "translate_en_pl"
	ExerciseFillBlank      ExerciseType = "fill_blank"
	ExerciseMultipleChoice ExerciseType = "multiple_choice"
)

// ParseExerciseType validates a raw type string.
func ParseExerciseType(s string) (ExerciseType, error) {
	switch t := ExerciseType(strings.TrimSpace(s)); t {
	case ExerciseTranslate, ExerciseTranslateEnPl, ExerciseFillBlank, ExerciseMultipleChoice:
		return t, nil
	default:
		return "", fmt.Errorf("unknown exercise type %q", s)
	}
}

type Exercise struct {
	ID        string           `json:"id"`
	UserID    string           `json:"userId"`
	Type      ExerciseType     `json:"type"`
	Prompt    string           `json:"prompt"`
	Solution  string           `json:"-"`
	Metadata  ExerciseMetadata `json:"metadata"`
	CreatedAt time.Time        `json:"createdAt"`
}

// ExerciseMetadata is one of TranslateMetadata, FillBlankMetadata or
// MultipleChoiceMetadata, selected by the exercise type.
type ExerciseMetadata interface {
	Base() MetadataBase
	isExerciseMetadata()
}

// FreeTextMetadata is implemented by variants that carry alternate solutions.
type FreeTextMetadata interface {
	ExerciseMetadata
	AlternateSolutions() []string
}

type MetadataBase struct {
	Level string `json:"level,omitempty"`
	Topic string `json:"topic,omitempty"`
}

type TranslateMetadata struct {
	MetadataBase
	Solutions  []string `json:"solutions,omitempty"`
	SourceText string   `json:"sourceText,omitempty"`
	Direction  string   `json:"direction,omitempty"`
	Hint       string   `json:"hint,omitempty"`
}

type FillBlankMetadata struct {
	MetadataBase
	Solutions []string `json:"solutions,omitempty"`
	Sentence  string   `json:"sentence,omitempty"`
	Hint      string   `json:"hint,omitempty"`
}

// MultipleChoiceMetadata holds options in A, B, C, D order.
type MultipleChoiceMetadata struct {
	MetadataBase
	Options []string `json:"options,omitempty"`
}

func (m *TranslateMetadata) Base() MetadataBase      { return m.MetadataBase }
func (m *FillBlankMetadata) Base() MetadataBase      { return m.MetadataBase }
func (m *MultipleChoiceMetadata) Base() MetadataBase { return m.MetadataBase }

func (*TranslateMetadata) isExerciseMetadata()      {}
func (*FillBlankMetadata) isExerciseMetadata()      {}
func (*MultipleChoiceMetadata) isExerciseMetadata() {}

func (m *TranslateMetadata) AlternateSolutions() []string { return m.Solutions }
func (m *FillBlankMetadata) AlternateSolutions() []string { return m.Solutions }

var choiceKeys = []string{"A", "B", "C", "D"}

// rawMetadata mirrors the open JSON shape produced by generators and stored
// in the database. Solutions and options are kept raw so mixed-type entries
// can be filtered rather than rejected.
type rawMetadata struct {
	Level      string            `json:"level"`
	Topic      string            `json:"topic"`
	Solutions  []json.RawMessage `json:"solutions"`
	Options    json.RawMessage   `json:"options"`
	SourceText string            `json:"sourceText"`
	Direction  string            `json:"direction"`
	Hint       string            `json:"hint"`
	Sentence   string            `json:"sentence"`
}

// DecodeMetadata narrows a raw metadata document to the variant for t.
// Non-string solution entries are dropped. Multiple-choice options must be
// exactly four strings, given as an array or as an A/B/C/D keyed object.
func DecodeMetadata(t ExerciseType, raw []byte) (ExerciseMetadata, error) {
	var rm rawMetadata
	if len(raw) > 0 && string(raw) != "null" {
		if err := json.Unmarshal(raw, &rm); err != nil {
			return nil, fmt.Errorf("decode metadata: %w", err)
		}
	}
	base := MetadataBase{Level: rm.Level, Topic: rm.Topic}

	switch t {
	case ExerciseTranslate, ExerciseTranslateEnPl:
		return &TranslateMetadata{
			MetadataBase: base,
			Solutions:    stringEntries(rm.Solutions),
			SourceText:   rm.SourceText,
			Direction:    rm.Direction,
			Hint:         rm.Hint,
		}, nil
	case ExerciseFillBlank:
		return &FillBlankMetadata{
			MetadataBase: base,
			Solutions:    stringEntries(rm.Solutions),
			Sentence:     rm.Sentence,
			Hint:         rm.Hint,
		}, nil
	case ExerciseMultipleChoice:
		opts, err := decodeOptions(rm.Options)
		if err != nil {
			return nil, err
		}
		return &MultipleChoiceMetadata{MetadataBase: base, Options: opts}, nil
	default:
		return nil, fmt.Errorf("unknown exercise type %q", t)
	}
}

// EncodeMetadata serialises a metadata variant for storage.
func EncodeMetadata(m ExerciseMetadata) ([]byte, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

func stringEntries(raw []json.RawMessage) []string {
	var out []string
	for _, r := range raw {
		if string(r) == "null" {
			continue
		}
		var s string
		if err := json.Unmarshal(r, &s); err != nil {
			continue
		}
		out = append(out, s)
	}
	return out
}

func decodeOptions(raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		if len(list) != len(choiceKeys) {
			return nil, fmt.Errorf("multiple choice needs %d options, got %d", len(choiceKeys), len(list))
		}
		return list, nil
	}

	var keyed map[string]string
	if err := json.Unmarshal(raw, &keyed); err != nil {
		return nil, fmt.Errorf("options must be a list or an A-D object: %w", err)
	}
	out := make([]string, 0, len(choiceKeys))
	for _, k := range choiceKeys {
		v, ok := keyed[k]
		if !ok {
			v, ok = keyed[strings.ToLower(k)]
		}
		if !ok {
			return nil, fmt.Errorf("options missing key %s", k)
		}
		out = append(out, v)
	}
	return out, nil
}
