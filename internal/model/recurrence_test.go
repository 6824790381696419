package model

import (
	"errors"
	"testing"
	"time"
)

// 2026-03-02 is a Monday.
func monday(hour, minute int) time.Time {
	return time.Date(2026, 3, 2, hour, minute, 30, 0, time.Local)
}

func TestNextOccurrenceLaterToday(t *testing.T) {
	a := Alarm{ScheduledTime: "오전 09 : 00", OriginalTime: "오전 09 : 00", Status: StatusActive}
	next, err := NextOccurrence(a, monday(8, 0))
	if err != nil {
		t.Fatalf("next occurrence failed: %v", err)
	}
	if next.Format("2006-01-02 15:04") != "2026-03-02 09:00" {
		t.Fatalf("unexpected next occurrence: %s", next.Format(time.RFC3339))
	}

	// the current minute still counts
	next, err = NextOccurrence(a, monday(9, 0))
	if err != nil || next.Format("15:04") != "09:00" || next.Day() != 2 {
		t.Fatalf("expected current minute to count, got %v %v", next, err)
	}
}

func TestNextOccurrenceSkipsToRepeatDay(t *testing.T) {
	a := Alarm{ScheduledTime: "오후 09 : 00", Status: StatusActive, RepeatDays: []string{"월", "금"}}
	next, err := NextOccurrence(a, monday(22, 0))
	if err != nil {
		t.Fatalf("next occurrence failed: %v", err)
	}
	if next.Weekday() != time.Friday || next.Format("2006-01-02 15:04") != "2026-03-06 21:00" {
		t.Fatalf("unexpected next occurrence: %s", next.Format(time.RFC3339))
	}
}

func TestNextOccurrenceCompletedTodayUsesTomorrow(t *testing.T) {
	a := Alarm{ScheduledTime: "오전 09 : 00", OriginalTime: "오전 09 : 00", Status: StatusCompleted}
	next, err := NextOccurrence(a, monday(7, 0))
	if err != nil {
		t.Fatalf("next occurrence failed: %v", err)
	}
	if next.Format("2006-01-02 15:04") != "2026-03-03 09:00" {
		t.Fatalf("unexpected next occurrence: %s", next.Format(time.RFC3339))
	}
}

func TestNextOccurrenceSnoozedUsesBaselineOnLaterDays(t *testing.T) {
	a := Alarm{ScheduledTime: "오전 09 : 30", OriginalTime: "오전 09 : 00", Status: StatusSnoozed}
	next, err := NextOccurrence(a, monday(9, 10))
	if err != nil || next.Format("15:04") != "09:30" {
		t.Fatalf("expected snoozed slot today, got %v %v", next, err)
	}

	next, err = NextOccurrence(a, monday(10, 0))
	if err != nil || next.Format("2006-01-02 15:04") != "2026-03-03 09:00" {
		t.Fatalf("expected baseline tomorrow, got %v %v", next, err)
	}
}

func TestNextOccurrenceErrors(t *testing.T) {
	if _, err := NextOccurrence(Alarm{ScheduledTime: "9시"}, monday(8, 0)); err == nil {
		t.Fatalf("expected parse error")
	}
	a := Alarm{ScheduledTime: "오전 09 : 00", Status: StatusActive, RepeatDays: []string{"bogus"}}
	if _, err := NextOccurrence(a, monday(8, 0)); !errors.Is(err, ErrNoOccurrence) {
		t.Fatalf("expected ErrNoOccurrence, got %v", err)
	}
}

func TestPreviewOccurrences(t *testing.T) {
	a := Alarm{ScheduledTime: "오전 08 : 00", OriginalTime: "오전 08 : 00", Status: StatusActive, RepeatDays: []string{"월", "수"}}
	got, err := Preview(a, monday(7, 0), 3)
	if err != nil {
		t.Fatalf("preview failed: %v", err)
	}
	want := []string{"2026-03-02 08:00", "2026-03-04 08:00", "2026-03-09 08:00"}
	if len(got) != len(want) {
		t.Fatalf("expected %d occurrences, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i].Format("2006-01-02 15:04") != want[i] {
			t.Fatalf("occurrence %d: expected %s, got %s", i, want[i], got[i].Format("2006-01-02 15:04"))
		}
	}

	empty, err := Preview(a, monday(7, 0), 0)
	if err != nil || len(empty) != 0 {
		t.Fatalf("expected empty preview, got %v %v", empty, err)
	}
}
