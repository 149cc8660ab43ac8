package calendar_test

import (
	"reflect"
	"testing"
	"time"

	"github.com/boggdan95/photo-to-post/internal/calendar"
	"github.com/boggdan95/photo-to-post/internal/post"
)

func scheduledPost(id, country, date, timeOfDay string) *post.Post {
	return &post.Post{
		ID: id, Stage: post.StageScheduled, Country: country, PhotoCount: 2,
		Schedule: post.Schedule{SuggestedDate: &date, SuggestedTime: &timeOfDay},
	}
}

func publishedPost(id, country string, at time.Time) *post.Post {
	return &post.Post{
		ID: id, Stage: post.StagePublished, Country: country, PhotoCount: 1,
		Schedule: post.Schedule{PublishedAt: &at},
	}
}

func TestBuildMergesAndSortsByDate(t *testing.T) {
	scheduled := []*post.Post{
		scheduledPost("post_20260105_090000", "france", "2026-03-10", "07:00"),
		scheduledPost("post_20260105_100000", "italy", "2026-03-05", "19:00"),
	}
	published := []*post.Post{
		publishedPost("post_20260101_080000", "spain", time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)),
	}

	view := calendar.Build(scheduled, published, 3)
	if view.Total() != 3 {
		t.Fatalf("expected 3 entries, got %d", view.Total())
	}
	wantDates := []string{"2026-03-01", "2026-03-05", "2026-03-10"}
	if len(view.Days) != len(wantDates) {
		t.Fatalf("expected %d days, got %d", len(wantDates), len(view.Days))
	}
	for i, date := range wantDates {
		if view.Days[i].Date != date {
			t.Fatalf("day %d: expected %s, got %s", i, date, view.Days[i].Date)
		}
	}
	if view.Days[0].Entries[0].Status != post.StagePublished {
		t.Fatalf("expected published entry first, got %+v", view.Days[0].Entries[0])
	}
	if view.Days[0].Entries[0].Time != "12:00" {
		t.Fatalf("published time should come from the publish timestamp, got %s", view.Days[0].Entries[0].Time)
	}
}

func TestBuildSortsEntriesWithinDay(t *testing.T) {
	scheduled := []*post.Post{
		scheduledPost("post_20260105_090000", "france", "2026-03-10", "19:00"),
		scheduledPost("post_20260105_100000", "italy", "2026-03-10", "07:00"),
	}
	view := calendar.Build(scheduled, nil, 3)
	if len(view.Days) != 1 {
		t.Fatalf("expected single day, got %d", len(view.Days))
	}
	entries := view.Days[0].Entries
	if entries[0].Time != "07:00" || entries[1].Time != "19:00" {
		t.Fatalf("entries not time-sorted: %+v", entries)
	}
}

func TestBuildSentinelBucketSortsLast(t *testing.T) {
	dateless := &post.Post{ID: "post_20260105_090000", Stage: post.StageScheduled, Country: "france"}
	scheduled := []*post.Post{
		dateless,
		scheduledPost("post_20260105_100000", "italy", "2026-03-05", "07:00"),
	}
	view := calendar.Build(scheduled, nil, 3)
	if len(view.Days) != 2 {
		t.Fatalf("expected 2 days, got %d", len(view.Days))
	}
	if view.Days[1].Date != calendar.SentinelDate {
		t.Fatalf("sentinel bucket must sort last, got %v", view.Days)
	}
}

func TestBuildDiversityAuditFlagsLongRuns(t *testing.T) {
	scheduled := []*post.Post{
		scheduledPost("post_20260105_010000", "japan", "2026-03-01", "07:00"),
		scheduledPost("post_20260105_020000", "japan", "2026-03-02", "07:00"),
		scheduledPost("post_20260105_030000", "japan", "2026-03-03", "07:00"),
		scheduledPost("post_20260105_040000", "japan", "2026-03-04", "07:00"),
		scheduledPost("post_20260105_050000", "korea", "2026-03-05", "07:00"),
	}
	view := calendar.Build(scheduled, nil, 3)

	var flags []bool
	for _, day := range view.Days {
		for _, e := range day.Entries {
			flags = append(flags, e.DiversityWarn)
		}
	}
	want := []bool{false, false, false, true, false}
	if !reflect.DeepEqual(flags, want) {
		t.Fatalf("expected flags %v, got %v", want, flags)
	}
}

func TestBuildAuditCrossesStatusBoundary(t *testing.T) {
	// The audit walks the merged chronology, so published and scheduled
	// posts of the same country count as one run.
	published := []*post.Post{
		publishedPost("post_20260101_010000", "japan", time.Date(2026, 3, 1, 7, 0, 0, 0, time.UTC)),
		publishedPost("post_20260101_020000", "japan", time.Date(2026, 3, 2, 7, 0, 0, 0, time.UTC)),
	}
	scheduled := []*post.Post{
		scheduledPost("post_20260105_030000", "japan", "2026-03-03", "07:00"),
	}
	view := calendar.Build(scheduled, published, 2)

	last := view.Days[2].Entries[0]
	if !last.DiversityWarn {
		t.Fatalf("third consecutive japan post should be flagged: %+v", last)
	}
}

func TestBuildIsPure(t *testing.T) {
	scheduled := []*post.Post{
		scheduledPost("post_20260105_090000", "france", "2026-03-10", "07:00"),
		scheduledPost("post_20260105_100000", "italy", "2026-03-05", "19:00"),
	}
	published := []*post.Post{
		publishedPost("post_20260101_080000", "spain", time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)),
	}

	first := calendar.Build(scheduled, published, 3)
	second := calendar.Build(scheduled, published, 3)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("identical inputs must produce identical views")
	}
}

func TestBuildAuditDisabled(t *testing.T) {
	scheduled := []*post.Post{
		scheduledPost("post_20260105_010000", "japan", "2026-03-01", "07:00"),
		scheduledPost("post_20260105_020000", "japan", "2026-03-02", "07:00"),
	}
	view := calendar.Build(scheduled, nil, 0)
	for _, day := range view.Days {
		for _, e := range day.Entries {
			if e.DiversityWarn {
				t.Fatalf("audit disabled, nothing should be flagged: %+v", e)
			}
		}
	}
}
