package grading

import (
	"fmt"
	"strings"

	"github.com/vytor/lingoflash/internal/models"
)

const (
	FeedbackCorrect      = "Correct ✅"
	feedbackIncorrectFmt = `Not quite. Correct answer: "%s"`
)

// Result is the outcome of grading one answer.
type Result struct {
	Correct         bool       `json:"correct"`
	Score           int        `json:"score"`
	Feedback        string     `json:"feedback"`
	Evaluation      Evaluation `json:"evaluation"`
	CorrectAnswer   string     `json:"correctAnswer"`
	AcceptedAnswers []string   `json:"acceptedAnswers,omitempty"`
}

// AcceptedAnswers returns the solution followed by any alternate solutions,
// trimmed, without blanks and without duplicates, in first-seen order.
func AcceptedAnswers(ex *models.Exercise) []string {
	candidates := []string{ex.Solution}
	if md, ok := ex.Metadata.(models.FreeTextMetadata); ok {
		candidates = append(candidates, md.AlternateSolutions()...)
	}

	seen := make(map[string]struct{}, len(candidates))
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

// Evaluate grades answer against ex. Multiple-choice exercises compare
// option letters; every other type goes through the free-text tiers.
func Evaluate(ex *models.Exercise, answer string) Result {
	var (
		res      Result
		shown    string
		accepted []string
	)

	if ex.Type == models.ExerciseMultipleChoice {
		res.Correct, res.Evaluation = MatchChoice(answer, ex.Solution)
		shown = res.Evaluation.Matched
		if shown == "" {
			shown = ex.Solution
		}
		res.CorrectAnswer = shown
	} else {
		accepted = AcceptedAnswers(ex)
		res.Correct, res.Evaluation = MatchAnswer(answer, accepted)
		shown = res.Evaluation.Matched
		if shown == "" {
			shown = ex.Solution
		}
		res.CorrectAnswer = ex.Solution
		res.AcceptedAnswers = accepted
	}

	if res.Correct {
		res.Score = models.ScoreCorrect
		res.Feedback = FeedbackCorrect
	} else {
		res.Score = models.ScoreIncorrect
		res.Feedback = fmt.Sprintf(feedbackIncorrectFmt, shown)
	}
	return res
}
