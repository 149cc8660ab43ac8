package post

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Stage represents the lifecycle position of a post in the pipeline.
type Stage string

const (
	StageDraft     Stage = "draft"
	StageApproved  Stage = "approved"
	StageScheduled Stage = "scheduled"
	StagePublished Stage = "published"
)

var allStages = []Stage{
	StageDraft,
	StageApproved,
	StageScheduled,
	StagePublished,
}

var stageSet = func() map[Stage]struct{} {
	set := make(map[Stage]struct{}, len(allStages))
	for _, stage := range allStages {
		set[stage] = struct{}{}
	}
	return set
}()

// AllStages returns the ordered list of known stages.
func AllStages() []Stage {
	cp := make([]Stage, len(allStages))
	copy(cp, allStages)
	return cp
}

// ParseStage converts a string into a known Stage.
func ParseStage(value string) (Stage, bool) {
	normalized := Stage(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := stageSet[normalized]
	return normalized, ok
}

// Schedule carries the slot assigned by the scheduling engine and the commit
// timestamps written when a post enters the scheduled and published stages.
// SuggestedDate uses "2006-01-02" and SuggestedTime "HH:MM"; both are nil
// until a scheduling commit sets them and are cleared only by an explicit
// unschedule.
type Schedule struct {
	SuggestedDate *string
	SuggestedTime *string
	ScheduledAt   *time.Time
	PublishedAt   *time.Time
}

// Photo describes one image inside a post's carousel.
type Photo struct {
	Filename      string `json:"filename"`
	OriginalName  string `json:"original_name,omitempty"`
	CloudinaryURL string `json:"cloudinary_url,omitempty"`
	TakenAt       string `json:"taken_at,omitempty"`
}

// Caption is the publish-ready text attached to a post.
type Caption struct {
	Text     string   `json:"text"`
	Hashtags []string `json:"hashtags,omitempty"`
}

// Post is a pipeline item persisted by the store.
//
// Country is the group key the diversity and grid rules operate over; it is
// immutable once the post leaves the approved stage.
type Post struct {
	ID              string
	Stage           Stage
	Country         string
	City            string
	LocationDisplay string
	PhotoCount      int
	Photos          []Photo
	Caption         Caption
	Schedule        Schedule
	InstagramPostID string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ErrInvalid marks records that fail load-time validation and must be
// quarantined rather than scheduled.
var ErrInvalid = errors.New("invalid post record")

// Validate checks the fields every pipeline operation depends on. Records
// failing validation are quarantined by the caller, not propagated.
func (p *Post) Validate() error {
	if p == nil {
		return fmt.Errorf("%w: nil post", ErrInvalid)
	}
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("%w: missing id", ErrInvalid)
	}
	if _, ok := ParseStage(string(p.Stage)); !ok {
		return fmt.Errorf("%w: %s: unknown stage %q", ErrInvalid, p.ID, p.Stage)
	}
	if strings.TrimSpace(p.Country) == "" {
		return fmt.Errorf("%w: %s: missing country", ErrInvalid, p.ID)
	}
	if p.PhotoCount < 0 {
		return fmt.Errorf("%w: %s: negative photo count", ErrInvalid, p.ID)
	}
	return nil
}

// HasSuggestedSlot reports whether the scheduling engine has assigned an
// explicit date to this post.
func (p *Post) HasSuggestedSlot() bool {
	return p.Schedule.SuggestedDate != nil && strings.TrimSpace(*p.Schedule.SuggestedDate) != ""
}

// SuggestedDateTime resolves the explicit slot into a wall-clock time.
// A nil SuggestedTime defaults to midnight, matching how manually scheduled
// posts behave. The second return is false when no explicit date is set or
// the stored strings do not parse.
func (p *Post) SuggestedDateTime() (time.Time, bool) {
	if !p.HasSuggestedSlot() {
		return time.Time{}, false
	}
	timePart := "00:00"
	if p.Schedule.SuggestedTime != nil && strings.TrimSpace(*p.Schedule.SuggestedTime) != "" {
		timePart = strings.TrimSpace(*p.Schedule.SuggestedTime)
	}
	parsed, err := time.ParseInLocation("2006-01-02 15:04", strings.TrimSpace(*p.Schedule.SuggestedDate)+" "+timePart, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}
