// Package calendar merges scheduled and published posts into a date-indexed
// view for auditing the feed. The merge is a pure function of its inputs;
// re-running it against unchanged storage yields an identical view.
package calendar

import (
	"sort"

	"github.com/boggdan95/photo-to-post/internal/post"
)

// SentinelDate buckets posts whose date cannot be resolved. It sorts after
// every real "YYYY-MM-DD" key.
const SentinelDate = "~unscheduled"

// Entry is one post on the calendar.
type Entry struct {
	ID         string
	Country    string
	Location   string
	Time       string
	Status     post.Stage
	PhotoCount int

	// DiversityWarn marks positions where the running count of consecutive
	// same-country posts in the merged chronological feed exceeds the
	// audit threshold. Informational only; it audits the merged result and
	// may disagree with whatever reorder produced it.
	DiversityWarn bool
}

// Day groups the entries sharing a date key.
type Day struct {
	Date    string
	Entries []Entry
}

// View is the merged calendar, sorted ascending by date with the sentinel
// bucket last.
type View struct {
	Days []Day
}

// Total counts entries across all days.
func (v *View) Total() int {
	n := 0
	for _, d := range v.Days {
		n += len(d.Entries)
	}
	return n
}

// Build merges scheduled and published posts into a sorted view and runs
// the diversity audit at warnThreshold. A threshold of zero or less
// disables the audit.
func Build(scheduled, published []*post.Post, warnThreshold int) *View {
	buckets := make(map[string][]Entry)

	for _, p := range scheduled {
		date, timeOfDay := scheduledKey(p)
		buckets[date] = append(buckets[date], newEntry(p, timeOfDay, post.StageScheduled))
	}
	for _, p := range published {
		date, timeOfDay := publishedKey(p)
		buckets[date] = append(buckets[date], newEntry(p, timeOfDay, post.StagePublished))
	}

	dates := make([]string, 0, len(buckets))
	for date := range buckets {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	view := &View{Days: make([]Day, 0, len(dates))}
	for _, date := range dates {
		entries := buckets[date]
		sort.SliceStable(entries, func(i, j int) bool {
			if entries[i].Time != entries[j].Time {
				return entries[i].Time < entries[j].Time
			}
			return entries[i].ID < entries[j].ID
		})
		view.Days = append(view.Days, Day{Date: date, Entries: entries})
	}

	if warnThreshold > 0 {
		audit(view, warnThreshold)
	}
	return view
}

func newEntry(p *post.Post, timeOfDay string, status post.Stage) Entry {
	return Entry{
		ID:         p.ID,
		Country:    p.Country,
		Location:   p.LocationDisplay,
		Time:       timeOfDay,
		Status:     status,
		PhotoCount: p.PhotoCount,
	}
}

func scheduledKey(p *post.Post) (string, string) {
	if p.HasSuggestedSlot() {
		timeOfDay := ""
		if p.Schedule.SuggestedTime != nil {
			timeOfDay = *p.Schedule.SuggestedTime
		}
		return *p.Schedule.SuggestedDate, timeOfDay
	}
	if p.Schedule.ScheduledAt != nil {
		return p.Schedule.ScheduledAt.Format("2006-01-02"), p.Schedule.ScheduledAt.Format("15:04")
	}
	return SentinelDate, ""
}

func publishedKey(p *post.Post) (string, string) {
	if p.Schedule.PublishedAt != nil {
		return p.Schedule.PublishedAt.Format("2006-01-02"), p.Schedule.PublishedAt.Format("15:04")
	}
	if p.HasSuggestedSlot() {
		timeOfDay := ""
		if p.Schedule.SuggestedTime != nil {
			timeOfDay = *p.Schedule.SuggestedTime
		}
		return *p.Schedule.SuggestedDate, timeOfDay
	}
	return SentinelDate, ""
}

// audit walks the flattened date-ordered sequence and flags every position
// where the consecutive same-country run exceeds the threshold.
func audit(view *View, threshold int) {
	run := 0
	last := ""
	for di := range view.Days {
		for ei := range view.Days[di].Entries {
			entry := &view.Days[di].Entries[ei]
			if entry.Country == last {
				run++
			} else {
				last = entry.Country
				run = 1
			}
			if run > threshold {
				entry.DiversityWarn = true
			}
		}
	}
}
