package autopublish_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/boggdan95/photo-to-post/internal/autopublish"
	"github.com/boggdan95/photo-to-post/internal/config"
	"github.com/boggdan95/photo-to-post/internal/post"
	"github.com/boggdan95/photo-to-post/internal/testsupport"
)

type listerFunc func(ctx context.Context, stages ...post.Stage) ([]*post.Post, error)

func (f listerFunc) List(ctx context.Context, stages ...post.Stage) ([]*post.Post, error) {
	return f(ctx, stages...)
}

type fakePublisher struct {
	published []string
	failFor   map[string]error
}

func (f *fakePublisher) Publish(_ context.Context, postID string) (string, error) {
	if err := f.failFor[postID]; err != nil {
		return "", err
	}
	f.published = append(f.published, postID)
	return "ig_" + postID, nil
}

func fixedLister(posts ...*post.Post) listerFunc {
	return func(context.Context, ...post.Stage) ([]*post.Post, error) {
		return posts, nil
	}
}

func slottedPost(id, date, timeOfDay string) *post.Post {
	return &post.Post{
		ID: id, Stage: post.StageScheduled, Country: "france", PhotoCount: 1,
		Schedule: post.Schedule{SuggestedDate: &date, SuggestedTime: &timeOfDay},
	}
}

func newGate(t *testing.T, cfg *config.Config, lister autopublish.ItemLister, pub autopublish.Publisher, now time.Time) *autopublish.Gate {
	t.Helper()
	gate := autopublish.NewGate(cfg, lister, pub, nil)
	gate.SetClock(func() time.Time { return now })
	return gate
}

func TestGateClassifiesByDelay(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	due := time.Date(2026, time.March, 1, 9, 0, 0, 0, time.Local)
	p := slottedPost("post_20260201_080000", "2026-03-01", "09:00")

	cases := []struct {
		name string
		now  time.Time
		want autopublish.Classification
	}{
		{"two hours late", due.Add(2 * time.Hour), autopublish.ClassPublishable},
		{"thirty hours late", due.Add(30 * time.Hour), autopublish.ClassTooLate},
		{"not yet due", due.Add(-time.Hour), autopublish.ClassNotDue},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pub := &fakePublisher{}
			gate := newGate(t, cfg, fixedLister(p), pub, tc.now)

			result, err := gate.Run(context.Background(), autopublish.Options{})
			if err != nil {
				t.Fatalf("run: %v", err)
			}
			if len(result.Items) != 1 {
				t.Fatalf("expected 1 item, got %d", len(result.Items))
			}
			if result.Items[0].Class != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, result.Items[0].Class)
			}
		})
	}
}

func TestGatePublishesDuePosts(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	now := time.Date(2026, time.March, 1, 11, 0, 0, 0, time.Local)
	p := slottedPost("post_20260201_080000", "2026-03-01", "09:00")
	pub := &fakePublisher{}

	result, err := newGate(t, cfg, fixedLister(p), pub, now).Run(context.Background(), autopublish.Options{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.Published != 1 {
		t.Fatalf("expected 1 published, got %+v", result)
	}
	if result.Items[0].InstagramID != "ig_post_20260201_080000" {
		t.Fatalf("instagram id not recorded: %+v", result.Items[0])
	}
	if len(pub.published) != 1 {
		t.Fatalf("publisher not invoked: %v", pub.published)
	}
}

func TestGateDryRunSkipsPublisher(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	now := time.Date(2026, time.March, 1, 11, 0, 0, 0, time.Local)
	p := slottedPost("post_20260201_080000", "2026-03-01", "09:00")
	pub := &fakePublisher{}

	result, err := newGate(t, cfg, fixedLister(p), pub, now).Run(context.Background(), autopublish.Options{DryRun: true})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.Items[0].Class != autopublish.ClassPublishable {
		t.Fatalf("expected publishable, got %s", result.Items[0].Class)
	}
	if result.Published != 0 || len(pub.published) != 0 {
		t.Fatalf("dry run must not publish: %+v", result)
	}
}

func TestGateContinuesPastPublishFailure(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	now := time.Date(2026, time.March, 1, 11, 0, 0, 0, time.Local)
	first := slottedPost("post_20260201_080000", "2026-03-01", "09:00")
	second := slottedPost("post_20260201_090000", "2026-03-01", "10:00")
	pub := &fakePublisher{failFor: map[string]error{
		"post_20260201_080000": fmt.Errorf("container expired"),
	}}

	result, err := newGate(t, cfg, fixedLister(first, second), pub, now).Run(context.Background(), autopublish.Options{})
	if err != nil {
		t.Fatalf("a publish failure must not abort the scan: %v", err)
	}
	if result.Failed != 1 || result.Published != 1 {
		t.Fatalf("expected 1 failed 1 published, got %+v", result)
	}
	if result.Items[0].Err == nil {
		t.Fatalf("failure not recorded per item: %+v", result.Items[0])
	}
}

func TestGateFallsBackToScheduledAt(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	at := time.Date(2026, time.March, 1, 9, 0, 0, 0, time.Local)
	p := &post.Post{
		ID: "post_20260201_080000", Stage: post.StageScheduled, Country: "france",
		Schedule: post.Schedule{ScheduledAt: &at},
	}
	pub := &fakePublisher{}
	now := at.Add(2 * time.Hour)

	result, err := newGate(t, cfg, fixedLister(p), pub, now).Run(context.Background(), autopublish.Options{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.Items[0].Class != autopublish.ClassPublishable {
		t.Fatalf("expected publishable via scheduled_at fallback, got %+v", result.Items[0])
	}
}

func TestGateSkipsUnresolvablePosts(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	p := &post.Post{ID: "post_20260201_080000", Stage: post.StageScheduled, Country: "france"}
	pub := &fakePublisher{}

	result, err := newGate(t, cfg, fixedLister(p), pub, time.Now()).Run(context.Background(), autopublish.Options{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.Skipped != 1 || result.Items[0].Class != autopublish.ClassSkipped {
		t.Fatalf("expected skip, got %+v", result)
	}
}

func TestGateMaxDelayOverride(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	due := time.Date(2026, time.March, 1, 9, 0, 0, 0, time.Local)
	p := slottedPost("post_20260201_080000", "2026-03-01", "09:00")
	pub := &fakePublisher{}

	// 30 hours late is inside a widened 48 hour window.
	result, err := newGate(t, cfg, fixedLister(p), pub, due.Add(30*time.Hour)).
		Run(context.Background(), autopublish.Options{MaxDelayHours: 48})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.Items[0].Class != autopublish.ClassPublishable {
		t.Fatalf("expected publishable under widened window, got %s", result.Items[0].Class)
	}
}
