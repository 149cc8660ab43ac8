package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/boggdan95/photo-to-post/internal/config"
	"github.com/boggdan95/photo-to-post/internal/logging"
	"github.com/boggdan95/photo-to-post/internal/post"
	"github.com/boggdan95/photo-to-post/internal/store"
)

// Mode selects which reorder runs over the approved batch.
type Mode string

const (
	ModeDiversity Mode = "diversity"
	ModeGrid      Mode = "grid"
)

// ItemStore is the persistence surface the engine drives. The concrete
// store satisfies it; tests substitute fakes.
type ItemStore interface {
	List(ctx context.Context, stages ...post.Stage) ([]*post.Post, error)
	StampScheduled(ctx context.Context, p *post.Post, date, timeOfDay string, now time.Time) error
	OccupiedDates(ctx context.Context) (map[string]int, error)
}

// ItemResult records the slot assigned to one post, or the commit error
// that kept it in the approved stage.
type ItemResult struct {
	PostID  string
	Country string
	Date    string
	Time    string
	Err     error
}

// Result summarizes one scheduling run.
type Result struct {
	RunID     string
	Mode      Mode
	Outcome   Outcome
	Items     []ItemResult
	Scheduled int
	Failed    int
}

// Engine runs the full scheduling pass: load approved posts, reorder them
// under the configured constraint, assign cadence slots, and commit each
// post to the scheduled stage.
type Engine struct {
	cfg    *config.Config
	store  ItemStore
	logger *slog.Logger
	now    func() time.Time
}

// NewEngine wires the engine against a store.
func NewEngine(cfg *config.Config, itemStore ItemStore, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Engine{
		cfg:    cfg,
		store:  itemStore,
		logger: logging.NewComponentLogger(logger, "scheduler"),
		now:    time.Now,
	}
}

// SetClock overrides the time source. Tests only.
func (e *Engine) SetClock(now func() time.Time) {
	e.now = now
}

// Mode reports which reorder the configuration selects.
func (e *Engine) Mode() Mode {
	if e.cfg.Schedule.GridMode {
		return ModeGrid
	}
	return ModeDiversity
}

// Run executes one scheduling pass. A destination collision aborts the run
// since it signals a duplicate ID or corrupted storage; every other commit
// failure is recorded per item and the batch continues.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	result := &Result{
		RunID:   uuid.NewString(),
		Mode:    e.Mode(),
		Outcome: OutcomeSatisfied,
	}
	logger := e.logger.With(logging.String(logging.FieldRunID, result.RunID))

	pending, err := e.store.List(ctx, post.StageApproved)
	if err != nil {
		return nil, fmt.Errorf("load approved posts: %w", err)
	}
	if len(pending) == 0 {
		logger.Info("no approved posts to schedule")
		return result, nil
	}

	ordered := pending
	switch result.Mode {
	case ModeGrid:
		committed, err := e.store.List(ctx, post.StageScheduled, post.StagePublished)
		if err != nil {
			return nil, fmt.Errorf("load schedule history: %w", err)
		}
		history := ResolveHistory(committed, e.cfg.Schedule.GridGroupSize)
		ordered = ReorderGrid(pending, e.cfg.Schedule.GridGroupSize, history)
		logger.Info("grid reorder complete",
			logging.Int("posts", len(ordered)),
			logging.String("last_country", history.LastCountry),
			logging.Int("incomplete_row", history.IncompleteRowCount),
		)
	default:
		ordered, result.Outcome = ReorderDiverse(pending, e.cfg.Schedule.MaxConsecutiveSameCountry)
		if result.Outcome == OutcomeBestEffort {
			logger.Warn("diversity bound not fully satisfiable, keeping remainder in original order",
				logging.Int("posts", len(ordered)),
			)
		}
	}

	occupied, err := e.store.OccupiedDates(ctx)
	if err != nil {
		return nil, fmt.Errorf("load occupied dates: %w", err)
	}

	now := e.now()
	slots := AssignSlots(len(ordered), e.cfg.Schedule.PostsPerWeek, e.cfg.Schedule.PreferredTimes, occupied, now)

	for i, p := range ordered {
		slot := slots[i]
		item := ItemResult{PostID: p.ID, Country: p.Country, Date: slot.Date, Time: slot.Time}
		err := e.store.StampScheduled(ctx, p, slot.Date, slot.Time, now)
		if err != nil {
			if errors.Is(err, store.ErrDestinationExists) {
				result.Items = append(result.Items, ItemResult{PostID: p.ID, Country: p.Country, Err: err})
				result.Failed++
				return result, fmt.Errorf("destination collision for %s: %w", p.ID, err)
			}
			item.Err = err
			result.Failed++
			logger.Error("failed to commit post",
				logging.String(logging.FieldPostID, p.ID),
				logging.Error(err),
			)
		} else {
			result.Scheduled++
			logger.Info("post scheduled",
				logging.String(logging.FieldPostID, p.ID),
				logging.String("date", slot.Date),
				logging.String("time", slot.Time),
			)
		}
		result.Items = append(result.Items, item)
	}
	return result, nil
}
