package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/boggdan95/photo-to-post/internal/logging"
	"github.com/boggdan95/photo-to-post/internal/post"
)

// Commit moves a post to the target stage, rewriting its schedule metadata
// and relocating its photo payload in one logical transaction. The move is
// idempotent: committing a post to the stage it already occupies rewrites
// metadata and repairs a half-finished payload move without duplicating
// anything. On failure the post remains in its prior stage for retry.
func (s *Store) Commit(ctx context.Context, p *post.Post, target post.Stage) error {
	if p == nil {
		return errors.New("post is nil")
	}
	if _, ok := post.ParseStage(string(target)); !ok {
		return fmt.Errorf("unknown target stage %q", target)
	}

	current, err := s.GetByID(ctx, p.ID)
	if err != nil {
		return err
	}

	sourceDir := s.payloadDir(current)

	moved := *p
	moved.Stage = target
	targetDir := s.payloadDir(&moved)

	if sourceDir != targetDir {
		// Metadata-only posts and payloads already moved by an interrupted
		// prior run both surface as a missing source; neither blocks the
		// commit.
		if err := movePayload(sourceDir, targetDir); err != nil && !errors.Is(err, errNoPayload) {
			return fmt.Errorf("move payload for %s: %w", p.ID, err)
		}
	}

	p.Stage = target
	if err := s.Update(ctx, p); err != nil {
		// Best effort to put the payload back so the item stays fully in
		// its prior stage.
		if sourceDir != targetDir {
			if undoErr := movePayload(targetDir, sourceDir); undoErr != nil && !errors.Is(undoErr, errNoPayload) {
				s.logger.Warn("failed to restore payload after commit error",
					logging.String(logging.FieldPostID, p.ID),
					logging.Error(undoErr),
				)
			}
		}
		p.Stage = current.Stage
		return err
	}
	return nil
}

// ClearSchedule reverts a scheduled post to the approved stage, clearing the
// suggested slot. This is the explicit unschedule action; nothing else ever
// clears a suggested date.
func (s *Store) ClearSchedule(ctx context.Context, p *post.Post) error {
	if p == nil {
		return errors.New("post is nil")
	}
	if p.Stage != post.StageScheduled {
		return fmt.Errorf("post %s is %s, not scheduled", p.ID, p.Stage)
	}
	p.Schedule.SuggestedDate = nil
	p.Schedule.SuggestedTime = nil
	p.Schedule.ScheduledAt = nil
	return s.Commit(ctx, p, post.StageApproved)
}

// Repair reconciles photo payloads with the authoritative stage recorded in
// the database. A payload found under a stale stage directory is moved to
// where the row says it belongs. Safe to re-run; already-consistent posts
// are untouched. Returns the number of payloads relocated.
func (s *Store) Repair(ctx context.Context) (int, error) {
	posts, err := s.List(ctx)
	if err != nil {
		return 0, err
	}

	repaired := 0
	for _, p := range posts {
		expected := s.payloadDir(p)
		if dirExists(expected) {
			continue
		}
		stray, err := s.findStrayPayload(p)
		if err != nil {
			return repaired, err
		}
		if stray == "" {
			continue
		}
		if err := movePayload(stray, expected); err != nil {
			s.logger.Warn("failed to repair payload",
				logging.String(logging.FieldPostID, p.ID),
				logging.String("stray", stray),
				logging.Error(err),
			)
			continue
		}
		s.logger.Info("repaired payload location",
			logging.String(logging.FieldPostID, p.ID),
			logging.String(logging.FieldStage, string(p.Stage)),
		)
		repaired++
	}
	return repaired, nil
}

// StampScheduled records the slot assignment on a post and commits it to the
// scheduled stage.
func (s *Store) StampScheduled(ctx context.Context, p *post.Post, date, timeOfDay string, now time.Time) error {
	p.Schedule.SuggestedDate = &date
	p.Schedule.SuggestedTime = &timeOfDay
	at := now.UTC()
	p.Schedule.ScheduledAt = &at
	return s.Commit(ctx, p, post.StageScheduled)
}
