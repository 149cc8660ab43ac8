package scheduler

import "github.com/boggdan95/photo-to-post/internal/post"

// Outcome reports whether a reorder satisfied its constraint or gave up and
// appended the remainder in original order.
type Outcome string

const (
	OutcomeSatisfied  Outcome = "satisfied"
	OutcomeBestEffort Outcome = "best-effort"
)

// ReorderDiverse permutes the batch so no run of same-country posts exceeds
// maxConsecutive. The pass is greedy and deterministic: at each step it scans
// the remaining posts in their current relative order and places the first
// one whose country does not extend the trailing run past the bound. When a
// full scan finds no candidate the remainder is appended unchanged and the
// outcome is best-effort; a visible violation beats a hidden one.
//
// maxConsecutive of zero disables the rule and returns the input as-is.
func ReorderDiverse(items []*post.Post, maxConsecutive int) ([]*post.Post, Outcome) {
	if maxConsecutive <= 0 || len(items) == 0 {
		return items, OutcomeSatisfied
	}

	remaining := make([]*post.Post, len(items))
	copy(remaining, items)
	ordered := make([]*post.Post, 0, len(items))

	for len(remaining) > 0 {
		placed := false
		for i, candidate := range remaining {
			if trailingRun(ordered, candidate.Country) >= maxConsecutive {
				continue
			}
			ordered = append(ordered, candidate)
			remaining = append(remaining[:i], remaining[i+1:]...)
			placed = true
			break
		}
		if !placed {
			ordered = append(ordered, remaining...)
			return ordered, OutcomeBestEffort
		}
	}
	return ordered, OutcomeSatisfied
}

// trailingRun counts how many posts at the tail of ordered share country.
func trailingRun(ordered []*post.Post, country string) int {
	run := 0
	for i := len(ordered) - 1; i >= 0; i-- {
		if ordered[i].Country != country {
			break
		}
		run++
	}
	return run
}
