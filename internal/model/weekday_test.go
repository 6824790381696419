package model

import (
	"testing"
	"time"
)

func TestWeekdayTag(t *testing.T) {
	if got := WeekdayTag(time.Sunday); got != "일" {
		t.Fatalf("unexpected sunday tag %q", got)
	}
	if got := WeekdayTag(time.Wednesday); got != "수" {
		t.Fatalf("unexpected wednesday tag %q", got)
	}
}

func TestParseWeekdays(t *testing.T) {
	got, err := ParseWeekdays("fri, 월요일,mon  수")
	if err != nil {
		t.Fatalf("parse weekdays: %v", err)
	}
	want := []string{"월", "수", "금"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}

	if _, err := ParseWeekdays("funday"); err == nil {
		t.Fatal("expected error for unknown weekday")
	}
	empty, err := ParseWeekdays("")
	if err != nil || len(empty) != 0 {
		t.Fatalf("expected empty set, got %v %v", empty, err)
	}
}
