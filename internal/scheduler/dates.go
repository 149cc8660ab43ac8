package scheduler

import "time"

// Slot is a concrete publish assignment for one post.
type Slot struct {
	Date string
	Time string
}

// AssignSlots spaces count slots at the weekly cadence. The cursor seeds at
// tomorrow and advances whole days until it lands on a date with no
// scheduled post; only this first date is occupancy-checked. Subsequent
// slots advance by 7/postsPerWeek days, carrying fractional days across
// iterations so cadences like 3/week land on 2.33-day spacing instead of
// snapping to midnight. Times cycle through preferredTimes in order.
func AssignSlots(count int, postsPerWeek float64, preferredTimes []string, occupied map[string]int, now time.Time) []Slot {
	if count <= 0 || postsPerWeek <= 0 {
		return nil
	}
	if len(preferredTimes) == 0 {
		preferredTimes = []string{"00:00"}
	}

	step := time.Duration(float64(7*24*time.Hour) / postsPerWeek)

	year, month, day := now.Date()
	cursor := time.Date(year, month, day, 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	for occupied[cursor.Format("2006-01-02")] > 0 {
		cursor = cursor.AddDate(0, 0, 1)
	}

	slots := make([]Slot, 0, count)
	for i := 0; i < count; i++ {
		slots = append(slots, Slot{
			Date: cursor.Format("2006-01-02"),
			Time: preferredTimes[i%len(preferredTimes)],
		})
		cursor = cursor.Add(step)
	}
	return slots
}
