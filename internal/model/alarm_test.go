package model

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestAlarmValidate(t *testing.T) {
	a := Alarm{ID: "alarm_1", Name: "칼슘", ScheduledTime: "오전 08 : 00", Status: StatusActive}
	if err := a.Validate(); err != nil {
		t.Fatalf("expected valid alarm, got %v", err)
	}

	a.Status = Status("PAUSED")
	if err := a.Validate(); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}

	a.Status = StatusActive
	a.ScheduledTime = "08:00"
	var fe *FormatError
	if err := a.Validate(); !errors.As(err, &fe) {
		t.Fatalf("expected FormatError, got %v", err)
	}
}

func TestStatusTriggerable(t *testing.T) {
	if !StatusActive.Triggerable() || !StatusSnoozed.Triggerable() {
		t.Fatal("expected active and snoozed to be triggerable")
	}
	if StatusCompleted.Triggerable() {
		t.Fatal("expected completed to be non-triggerable")
	}
}

func TestAlarmDueOn(t *testing.T) {
	monday := time.Date(2026, 2, 9, 9, 0, 0, 0, time.Local)
	tuesday := monday.AddDate(0, 0, 1)

	everyDay := Alarm{}
	if !everyDay.DueOn(monday) || !everyDay.DueOn(tuesday) {
		t.Fatal("empty repeat set must be due every day")
	}

	mondays := Alarm{RepeatDays: []string{"월"}}
	if !mondays.DueOn(monday) {
		t.Fatal("expected due on monday")
	}
	if mondays.DueOn(tuesday) {
		t.Fatal("expected not due on tuesday")
	}
}

func TestAlarmCloneIsDeep(t *testing.T) {
	a := Alarm{RepeatDays: []string{"월", "수"}}
	b := a.Clone()
	b.RepeatDays[0] = "금"
	if a.RepeatDays[0] != "월" {
		t.Fatalf("clone shares repeat days: %v", a.RepeatDays)
	}
}

func TestAlarmJSONFieldNames(t *testing.T) {
	a := Alarm{
		ID:            "alarm_1",
		OwnerID:       "user1",
		Name:          "Vitamin C",
		ScheduledTime: "오전 09 : 00",
		OriginalTime:  "오전 09 : 00",
		Status:        StatusActive,
	}
	raw, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	text := string(raw)
	for _, want := range []string{`"ownerId":"user1"`, `"scheduledTime"`, `"repeatDays":[]`, `"lastTakenDate":null`} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %s in %s", want, text)
		}
	}
	if strings.Contains(text, `"userId"`) {
		t.Fatalf("legacy field written: %s", text)
	}
}

func TestAlarmJSONLegacyFields(t *testing.T) {
	raw := `{"id":"alarm_7","userId":"kim","name":"철분","time":"오후 08 : 00","days":["월","금"],"status":"COMPLETED","lastTakenDate":"2026-02-08"}`
	var a Alarm
	if err := json.Unmarshal([]byte(raw), &a); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if a.OwnerID != "kim" || a.ScheduledTime != "오후 08 : 00" || len(a.RepeatDays) != 2 {
		t.Fatalf("legacy fields not mapped: %+v", a)
	}
	if a.OriginalTime != "" {
		t.Fatalf("original time should stay empty until backfill, got %q", a.OriginalTime)
	}
	if a.Status != StatusCompleted || a.LastTakenDate != "2026-02-08" {
		t.Fatalf("unexpected status fields: %+v", a)
	}
}
