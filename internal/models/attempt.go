package models

import "time"

const (
	ScoreCorrect   = 100
	ScoreIncorrect = 0
)

// Attempt is an immutable record of one graded submission.
type Attempt struct {
	ID         string    `json:"id"`
	ExerciseID string    `json:"exerciseId"`
	UserID     string    `json:"-"`
	Answer     string    `json:"answer"`
	IsCorrect  bool      `json:"isCorrect"`
	Score      int       `json:"score"`
	Feedback   string    `json:"feedback"`
	CreatedAt  time.Time `json:"createdAt"`
}

type AttemptExercise struct {
	Type   ExerciseType `json:"type"`
	Prompt string       `json:"prompt"`
}

type AttemptWithExercise struct {
	Attempt
	Exercise AttemptExercise `json:"exercise"`
}

// AttemptTotals are lifetime counts for one user.
type AttemptTotals struct {
	Total   int
	Correct int
}

// AttemptFilter narrows attempt listings. Zero values mean "no constraint".
type AttemptFilter struct {
	UserID     string
	ExerciseID string
	Since      *time.Time
	Correct    *bool
	Limit      int
	OrderDir   string
}

// Activity is the slice of an attempt needed for streaks and charts.
type Activity struct {
	CreatedAt time.Time
	IsCorrect bool
}
