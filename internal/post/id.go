package post

import (
	"strings"
	"time"
)

// idTimeLayout matches the timestamp embedded in generated post IDs.
const idTimeLayout = "20060102_150405"

const idPrefix = "post_"

// NewID generates a post identifier embedding the creation timestamp.
// IDs sort lexicographically in creation order, which the history resolver
// relies on as its timestamp of last resort.
func NewID(now time.Time) string {
	return idPrefix + now.Format(idTimeLayout)
}

// CreationTime extracts the creation timestamp embedded in a post ID.
// Returns false for identifiers that do not carry a parsable timestamp.
func CreationTime(id string) (time.Time, bool) {
	trimmed := strings.TrimSpace(id)
	if !strings.HasPrefix(trimmed, idPrefix) {
		return time.Time{}, false
	}
	raw := strings.TrimPrefix(trimmed, idPrefix)
	parsed, err := time.ParseInLocation(idTimeLayout, raw, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}
