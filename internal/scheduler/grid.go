package scheduler

import "github.com/boggdan95/photo-to-post/internal/post"

// ReorderGrid permutes the batch into contiguous same-country blocks of at
// most groupSize posts. When the history state reports a partially filled
// row, pending posts of that country are pulled first to complete it. The
// remaining posts are grouped by country, groups ordered by descending
// pending count with first-seen breaking ties, and emitted round-robin in
// chunks of groupSize.
func ReorderGrid(items []*post.Post, groupSize int, history HistoryState) []*post.Post {
	if groupSize <= 0 || len(items) == 0 {
		return items
	}

	remaining := make([]*post.Post, len(items))
	copy(remaining, items)
	ordered := make([]*post.Post, 0, len(items))

	if history.IncompleteRowCount > 0 && history.LastCountry != "" {
		need := groupSize - history.IncompleteRowCount
		for need > 0 {
			idx := indexOfCountry(remaining, history.LastCountry)
			if idx < 0 {
				break
			}
			ordered = append(ordered, remaining[idx])
			remaining = append(remaining[:idx], remaining[idx+1:]...)
			need--
		}
	}

	byCountry := make(map[string][]*post.Post)
	var firstSeen []string
	for _, p := range remaining {
		if _, ok := byCountry[p.Country]; !ok {
			firstSeen = append(firstSeen, p.Country)
		}
		byCountry[p.Country] = append(byCountry[p.Country], p)
	}

	// Descending pending count, first-seen ties. Insertion sort keeps the
	// tie-break stable over the first-seen order.
	groups := make([]string, 0, len(firstSeen))
	for _, country := range firstSeen {
		pos := len(groups)
		for i, other := range groups {
			if len(byCountry[country]) > len(byCountry[other]) {
				pos = i
				break
			}
		}
		groups = append(groups, "")
		copy(groups[pos+1:], groups[pos:])
		groups[pos] = country
	}

	for len(ordered) < len(items) {
		for _, country := range groups {
			pending := byCountry[country]
			take := groupSize
			if take > len(pending) {
				take = len(pending)
			}
			ordered = append(ordered, pending[:take]...)
			byCountry[country] = pending[take:]
		}
	}
	return ordered
}

func indexOfCountry(items []*post.Post, country string) int {
	for i, p := range items {
		if p.Country == country {
			return i
		}
	}
	return -1
}
