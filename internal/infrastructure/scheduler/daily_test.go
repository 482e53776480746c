package scheduler

import (
	"testing"
	"time"
)

func TestNewDailySchedulerValidation(t *testing.T) {
	t.Parallel()

	if _, err := NewDailyScheduler("25:00", "UTC"); err == nil {
		t.Fatal("expected error for invalid time")
	}
	if _, err := NewDailyScheduler("08:00", "Atlantis/Nowhere"); err == nil {
		t.Fatal("expected error for invalid timezone")
	}
	if _, err := NewDailyScheduler("08:00", "UTC"); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
}

func TestNextTriggerSameDay(t *testing.T) {
	t.Parallel()

	s, err := NewDailyScheduler("18:30", "UTC")
	if err != nil {
		t.Fatalf("new scheduler: %v", err)
	}

	now := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
	next := s.next(now)

	want := time.Date(2026, time.March, 10, 18, 30, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Fatalf("next = %v, want %v", next, want)
	}
}

func TestNextTriggerRollsToTomorrow(t *testing.T) {
	t.Parallel()

	s, err := NewDailyScheduler("08:00", "UTC")
	if err != nil {
		t.Fatalf("new scheduler: %v", err)
	}

	now := time.Date(2026, time.March, 10, 8, 0, 0, 0, time.UTC)
	next := s.next(now)

	want := time.Date(2026, time.March, 11, 8, 0, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Fatalf("next = %v, want %v", next, want)
	}
}
