package scheduler

import (
	"sort"
	"time"

	"github.com/boggdan95/photo-to-post/internal/post"
)

// HistoryState seeds the grid reorder with the committed feed's tail: the
// country of the most recent post and how far into a row that country has
// progressed.
type HistoryState struct {
	LastCountry        string
	IncompleteRowCount int
}

// ResolveHistory orders the committed posts (scheduled and published) by
// effective timestamp, newest first, and measures the leading run of
// identical countries modulo the row size. Posts with no resolvable
// timestamp are excluded; an empty result means no history.
func ResolveHistory(committed []*post.Post, groupSize int) HistoryState {
	if groupSize <= 0 {
		return HistoryState{}
	}

	type resolved struct {
		p  *post.Post
		at time.Time
	}
	entries := make([]resolved, 0, len(committed))
	for _, p := range committed {
		at, ok := effectiveTimestamp(p)
		if !ok {
			continue
		}
		entries = append(entries, resolved{p: p, at: at})
	}
	if len(entries) == 0 {
		return HistoryState{}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].at.After(entries[j].at)
	})

	last := entries[0].p.Country
	run := 0
	for _, e := range entries {
		if e.p.Country != last {
			break
		}
		run++
	}
	return HistoryState{LastCountry: last, IncompleteRowCount: run % groupSize}
}

// effectiveTimestamp resolves when a committed post occupies the feed.
// Precedence: the explicit suggested slot, then the publish timestamp
// truncated to the minute, then the creation time embedded in the ID.
func effectiveTimestamp(p *post.Post) (time.Time, bool) {
	if at, ok := p.SuggestedDateTime(); ok {
		return at, true
	}
	if p.Schedule.PublishedAt != nil {
		return p.Schedule.PublishedAt.Truncate(time.Minute), true
	}
	return post.CreationTime(p.ID)
}
