package progress

import (
	"math"
	"time"

	"github.com/vytor/lingoflash/internal/models"
)

// WeekDays is the length of the weekly activity series.
const WeekDays = 7

// Input is everything Stats needs besides the clock.
type Input struct {
	Total     int
	Correct   int
	History   []time.Time // attempt timestamps inside the streak window
	DailyGoal int
}

// Stats assembles the statistics payload for a learner. Day keys, including
// today's, are computed in loc.
func Stats(in Input, now time.Time, loc *time.Location) models.ProgressStats {
	today := DayKey(now, loc)
	days := UniqueDaysDesc(in.History, loc)

	todayTotal := 0
	for _, ts := range in.History {
		if DayKey(ts, loc) == today {
			todayTotal++
		}
	}

	stats := models.ProgressStats{
		Total:          in.Total,
		Correct:        in.Correct,
		Accuracy:       Accuracy(in.Correct, in.Total),
		StreakDays:     CurrentStreak(days, today),
		BestStreakDays: BestStreak(days),
		TodayTotal:     todayTotal,
		DailyGoal:      in.DailyGoal,
	}
	stats.TodayRemaining, stats.TodayPct, stats.TodayDone = dailyGoalProgress(todayTotal, in.DailyGoal)
	return stats
}

// Accuracy is correct/total, or 0 when nothing was attempted.
func Accuracy(correct, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(correct) / float64(total)
}

func dailyGoalProgress(todayTotal, goal int) (remaining, pct int, done bool) {
	remaining = goal - todayTotal
	if remaining < 0 {
		remaining = 0
	}
	if goal > 0 {
		pct = int(math.Round(100 * float64(todayTotal) / float64(goal)))
		if pct > 100 {
			pct = 100
		}
	}
	return remaining, pct, todayTotal >= goal
}

// WindowStart returns the first instant of the day that lies days-1 days
// before now in loc, so a window of n days includes today.
func WindowStart(now time.Time, loc *time.Location, days int) time.Time {
	local := now.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day()-(days-1), 0, 0, 0, 0, loc)
}

// Weekly buckets activities into the trailing seven days ending today,
// oldest first. Days without activity are present with zero counts.
func Weekly(activities []models.Activity, now time.Time, loc *time.Location) models.WeeklyProgress {
	local := now.In(loc)
	days := make([]models.DayActivity, WeekDays)
	index := make(map[string]int, WeekDays)
	for i := 0; i < WeekDays; i++ {
		// Noon keeps DST transitions from shifting the calendar date.
		d := time.Date(local.Year(), local.Month(), local.Day()-(WeekDays-1-i), 12, 0, 0, 0, loc)
		key := d.Format(DayLayout)
		days[i] = models.DayActivity{Date: key}
		index[key] = i
	}

	for _, a := range activities {
		i, ok := index[DayKey(a.CreatedAt, loc)]
		if !ok {
			continue
		}
		days[i].Total++
		if a.IsCorrect {
			days[i].Correct++
		}
	}
	return models.WeeklyProgress{Days: days}
}
