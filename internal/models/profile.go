package models

import (
	"math"
	"time"
)

const (
	DefaultLanguage  = "en"
	DefaultLevel     = "A1"
	DefaultDailyGoal = 10
	MinDailyGoal     = 1
	MaxDailyGoal     = 100
)

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	Profile      *Profile  `json:"profile"`
}

type Profile struct {
	UserID    string  `json:"-"`
	Language  string  `json:"language"`
	Level     string  `json:"level"`
	Goal      *string `json:"goal"`
	DailyGoal int     `json:"dailyGoal"`
}

// DefaultProfile is what a user without a stored profile sees.
func DefaultProfile(userID string) Profile {
	return Profile{
		UserID:    userID,
		Language:  DefaultLanguage,
		Level:     DefaultLevel,
		DailyGoal: DefaultDailyGoal,
	}
}

// ProfileUpdate carries a partial profile change. Empty language and level
// are left as is; Goal is applied only when GoalSet, so an explicit null
// clears it.
type ProfileUpdate struct {
	Language  string
	Level     string
	Goal      *string
	GoalSet   bool
	DailyGoal *float64
}

// ClampDailyGoal floors v and bounds it to the accepted daily goal range.
func ClampDailyGoal(v float64) int {
	v = math.Floor(v)
	if math.IsNaN(v) || v < MinDailyGoal {
		return MinDailyGoal
	}
	if v > MaxDailyGoal {
		return MaxDailyGoal
	}
	return int(v)
}
