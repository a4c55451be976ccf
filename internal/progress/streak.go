// Package progress turns a learner's attempt history into streaks, daily
// goal progress and weekly activity.
package progress

import (
	"sort"
	"time"
)

// DayLayout is the format of day keys.
const DayLayout = "2006-01-02"

const secondsPerDay = 24 * 60 * 60

// DayKey formats t as a calendar day in loc. Keys and "today" must always
// come from the same location or streaks silently break.
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DayLayout)
}

// UniqueDaysDesc returns the distinct day keys of timestamps, most recent
// first.
func UniqueDaysDesc(timestamps []time.Time, loc *time.Location) []string {
	seen := make(map[string]struct{}, len(timestamps))
	days := make([]string, 0, len(timestamps))
	for _, ts := range timestamps {
		k := DayKey(ts, loc)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		days = append(days, k)
	}
	// Keys sort lexically in calendar order.
	sort.Sort(sort.Reverse(sort.StringSlice(days)))
	return days
}

// dayNumber converts a day key to days since the Unix epoch using only its
// Y-M-D components.
func dayNumber(key string) (int64, bool) {
	d, err := time.Parse(DayLayout, key)
	if err != nil {
		return 0, false
	}
	return d.Unix() / secondsPerDay, true
}

// CurrentStreak counts consecutive active days ending at today. It is 0 when
// today itself has no activity.
func CurrentStreak(daysDesc []string, today string) int {
	todayNum, ok := dayNumber(today)
	if !ok || len(daysDesc) == 0 {
		return 0
	}

	active := make(map[int64]struct{}, len(daysDesc))
	for _, k := range daysDesc {
		if n, ok := dayNumber(k); ok {
			active[n] = struct{}{}
		}
	}

	streak := 0
	for n := todayNum; ; n-- {
		if _, ok := active[n]; !ok {
			break
		}
		streak++
	}
	return streak
}

// BestStreak returns the longest run of consecutive active days in
// daysDesc, or 0 when there are none.
func BestStreak(daysDesc []string) int {
	nums := make([]int64, 0, len(daysDesc))
	for i := len(daysDesc) - 1; i >= 0; i-- {
		if n, ok := dayNumber(daysDesc[i]); ok {
			nums = append(nums, n)
		}
	}
	if len(nums) == 0 {
		return 0
	}

	best, run := 1, 1
	for i := 1; i < len(nums); i++ {
		if nums[i] == nums[i-1]+1 {
			run++
		} else {
			run = 1
		}
		if run > best {
			best = run
		}
	}
	return best
}
