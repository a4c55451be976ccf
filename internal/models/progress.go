package models

type ProgressStats struct {
	Total          int     `json:"total"`
	Correct        int     `json:"correct"`
	Accuracy       float64 `json:"accuracy"`
	StreakDays     int     `json:"streakDays"`
	BestStreakDays int     `json:"bestStreakDays"`
	TodayTotal     int     `json:"todayTotal"`
	TodayRemaining int     `json:"todayRemaining"`
	TodayPct       int     `json:"todayPct"`
	TodayDone      bool    `json:"todayDone"`
	DailyGoal      int     `json:"dailyGoal"`
}

type ProgressReport struct {
	Stats          ProgressStats         `json:"stats"`
	RecentAttempts []AttemptWithExercise `json:"recentAttempts"`
	LastAttempt    *AttemptWithExercise  `json:"lastAttempt"`
}

type DayActivity struct {
	Date    string `json:"date"`
	Total   int    `json:"total"`
	Correct int    `json:"correct"`
}

type WeeklyProgress struct {
	Days []DayActivity `json:"days"`
}
