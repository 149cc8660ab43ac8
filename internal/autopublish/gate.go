// Package autopublish scans scheduled posts and publishes the ones whose
// slot has arrived, skipping posts that have waited too long.
package autopublish

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/boggdan95/photo-to-post/internal/config"
	"github.com/boggdan95/photo-to-post/internal/logging"
	"github.com/boggdan95/photo-to-post/internal/post"
)

// Publisher performs the external publish call for one post and returns
// the platform's post identifier.
type Publisher interface {
	Publish(ctx context.Context, postID string) (string, error)
}

// ItemLister is the read surface the gate needs from the store.
type ItemLister interface {
	List(ctx context.Context, stages ...post.Stage) ([]*post.Post, error)
}

// Classification names the gate's verdict for one scheduled post.
type Classification string

const (
	ClassNotDue      Classification = "not-due"
	ClassPublishable Classification = "publishable"
	ClassTooLate     Classification = "too-late"
	ClassSkipped     Classification = "skipped"
)

// ItemResult is the gate's per-post outcome.
type ItemResult struct {
	PostID      string
	Class       Classification
	Due         time.Time
	HoursLate   float64
	InstagramID string
	Err         error
}

// Result aggregates one gate run.
type Result struct {
	RunID     string
	Items     []ItemResult
	Published int
	Failed    int
	TooLate   int
	NotDue    int
	Skipped   int
}

// Options tune a single run.
type Options struct {
	// MaxDelayHours overrides the configured lateness tolerance when > 0.
	MaxDelayHours int
	// DryRun classifies without invoking the publisher.
	DryRun bool
}

// Gate classifies scheduled posts as not-yet-due, publishable, or too-late
// and dispatches publishable ones to the publisher.
type Gate struct {
	cfg       *config.Config
	store     ItemLister
	publisher Publisher
	logger    *slog.Logger
	now       func() time.Time
}

// NewGate wires the gate against a store and publisher.
func NewGate(cfg *config.Config, store ItemLister, publisher Publisher, logger *slog.Logger) *Gate {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Gate{
		cfg:       cfg,
		store:     store,
		publisher: publisher,
		logger:    logging.NewComponentLogger(logger, "autopublish"),
		now:       time.Now,
	}
}

// SetClock overrides the time source. Tests only.
func (g *Gate) SetClock(now func() time.Time) {
	g.now = now
}

// Run scans every scheduled post once. Publish failures are recorded per
// post and never abort the scan.
func (g *Gate) Run(ctx context.Context, opts Options) (*Result, error) {
	maxDelay := g.cfg.AutoPublish.MaxDelayHours
	if opts.MaxDelayHours > 0 {
		maxDelay = opts.MaxDelayHours
	}

	result := &Result{RunID: uuid.NewString()}
	logger := g.logger.With(logging.String(logging.FieldRunID, result.RunID))

	scheduled, err := g.store.List(ctx, post.StageScheduled)
	if err != nil {
		return nil, err
	}

	now := g.now()
	for _, p := range scheduled {
		item := ItemResult{PostID: p.ID}

		due, ok := dueTime(p)
		if !ok {
			item.Class = ClassSkipped
			result.Skipped++
			result.Items = append(result.Items, item)
			logger.Warn("post has no resolvable due time",
				logging.String(logging.FieldPostID, p.ID),
			)
			continue
		}
		item.Due = due

		if due.After(now) {
			item.Class = ClassNotDue
			result.NotDue++
			result.Items = append(result.Items, item)
			continue
		}

		item.HoursLate = now.Sub(due).Hours()
		if item.HoursLate > float64(maxDelay) {
			item.Class = ClassTooLate
			result.TooLate++
			result.Items = append(result.Items, item)
			logger.Warn("post is past the publish window",
				logging.String(logging.FieldPostID, p.ID),
				logging.Float64("hours_late", item.HoursLate),
				logging.Int("max_delay_hours", maxDelay),
			)
			continue
		}

		item.Class = ClassPublishable
		if opts.DryRun {
			result.Items = append(result.Items, item)
			continue
		}

		instagramID, err := g.publisher.Publish(ctx, p.ID)
		if err != nil {
			item.Err = err
			result.Failed++
			logger.Error("publish failed",
				logging.String(logging.FieldPostID, p.ID),
				logging.Error(err),
			)
		} else {
			item.InstagramID = instagramID
			result.Published++
			logger.Info("post published",
				logging.String(logging.FieldPostID, p.ID),
				logging.String("instagram_post_id", instagramID),
			)
		}
		result.Items = append(result.Items, item)
	}
	return result, nil
}

// dueTime resolves when a scheduled post should go live. The explicit
// suggested slot wins; otherwise the date and minute are sliced out of the
// scheduled_at timestamp's ISO form.
func dueTime(p *post.Post) (time.Time, bool) {
	if at, ok := p.SuggestedDateTime(); ok {
		return at, true
	}
	if p.HasSuggestedSlot() {
		// A slot exists but does not parse; the caller warns and skips.
		return time.Time{}, false
	}
	if p.Schedule.ScheduledAt == nil {
		return time.Time{}, false
	}
	iso := p.Schedule.ScheduledAt.Format(time.RFC3339)
	if len(iso) < 16 {
		return time.Time{}, false
	}
	at, err := time.ParseInLocation("2006-01-02 15:04", iso[:10]+" "+iso[11:16], time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return at, true
}
