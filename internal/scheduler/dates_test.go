package scheduler_test

import (
	"testing"
	"time"

	"github.com/boggdan95/photo-to-post/internal/scheduler"
)

func TestAssignSlotsDailyCadence(t *testing.T) {
	now := time.Date(2024, time.January, 1, 15, 30, 0, 0, time.UTC)
	slots := scheduler.AssignSlots(3, 7, []string{"09:00"}, nil, now)

	want := []scheduler.Slot{
		{Date: "2024-01-02", Time: "09:00"},
		{Date: "2024-01-03", Time: "09:00"},
		{Date: "2024-01-04", Time: "09:00"},
	}
	if len(slots) != len(want) {
		t.Fatalf("expected %d slots, got %d", len(want), len(slots))
	}
	for i := range want {
		if slots[i] != want[i] {
			t.Fatalf("slot %d: expected %+v, got %+v", i, want[i], slots[i])
		}
	}
}

func TestAssignSlotsSkipsOccupiedSeedDate(t *testing.T) {
	now := time.Date(2024, time.January, 1, 8, 0, 0, 0, time.UTC)
	occupied := map[string]int{
		"2024-01-02": 1,
		"2024-01-03": 2,
	}
	slots := scheduler.AssignSlots(1, 7, []string{"07:00"}, occupied, now)
	if slots[0].Date != "2024-01-04" {
		t.Fatalf("seed date must skip occupied days, got %s", slots[0].Date)
	}
}

func TestAssignSlotsFractionalCadenceCarries(t *testing.T) {
	// 3 posts/week spaces slots 56 hours apart. The fractional part is
	// carried, not snapped back to midnight, so the fourth slot lands a
	// full week after the first.
	now := time.Date(2024, time.January, 1, 10, 0, 0, 0, time.UTC)
	slots := scheduler.AssignSlots(4, 3, []string{"07:00", "12:00", "19:00"}, nil, now)

	wantDates := []string{"2024-01-02", "2024-01-04", "2024-01-06", "2024-01-09"}
	for i, date := range wantDates {
		if slots[i].Date != date {
			t.Fatalf("slot %d: expected date %s, got %s", i, date, slots[i].Date)
		}
	}
	wantTimes := []string{"07:00", "12:00", "19:00", "07:00"}
	for i, at := range wantTimes {
		if slots[i].Time != at {
			t.Fatalf("slot %d: expected time %s, got %s", i, at, slots[i].Time)
		}
	}
}

func TestAssignSlotsCyclesPreferredTimes(t *testing.T) {
	now := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	slots := scheduler.AssignSlots(5, 7, []string{"07:00", "19:00"}, nil, now)

	want := []string{"07:00", "19:00", "07:00", "19:00", "07:00"}
	for i, at := range want {
		if slots[i].Time != at {
			t.Fatalf("slot %d: expected %s, got %s", i, at, slots[i].Time)
		}
	}
}

func TestAssignSlotsInvalidInput(t *testing.T) {
	now := time.Now()
	if slots := scheduler.AssignSlots(0, 3, nil, nil, now); slots != nil {
		t.Fatalf("expected no slots for empty batch, got %v", slots)
	}
	if slots := scheduler.AssignSlots(2, 0, nil, nil, now); slots != nil {
		t.Fatalf("expected no slots for zero cadence, got %v", slots)
	}
}
