package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

var ErrInvalidStatus = errors.New("model: invalid alarm status")

type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusSnoozed   Status = "SNOOZED"
	StatusCompleted Status = "COMPLETED"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusSnoozed, StatusCompleted:
		return true
	default:
		return false
	}
}

// Triggerable reports whether an alarm in this status may still fire today.
func (s Status) Triggerable() bool {
	return s == StatusActive || s == StatusSnoozed
}

type Alarm struct {
	ID            string   `json:"id"`
	OwnerID       string   `json:"ownerId"`
	Name          string   `json:"name"`
	ScheduledTime string   `json:"scheduledTime"`
	OriginalTime  string   `json:"originalTime"`
	RepeatDays    []string `json:"repeatDays"`
	Status        Status   `json:"status"`
	LastTakenDate string   `json:"lastTakenDate"`
}

func (a Alarm) Validate() error {
	if strings.TrimSpace(a.ID) == "" {
		return errors.New("model: alarm id is required")
	}
	if strings.TrimSpace(a.Name) == "" {
		return errors.New("model: alarm name is required")
	}
	if !a.Status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, a.Status)
	}
	if _, err := ParseTime(a.ScheduledTime); err != nil {
		return err
	}
	return nil
}

// DueOn reports whether the alarm repeats on the weekday of now. An empty
// repeat set means the alarm is due every day.
func (a Alarm) DueOn(now time.Time) bool {
	if len(a.RepeatDays) == 0 {
		return true
	}
	return slices.Contains(a.RepeatDays, WeekdayTag(now.Weekday()))
}

func (a Alarm) Clone() Alarm {
	out := a
	if a.RepeatDays != nil {
		out.RepeatDays = slices.Clone(a.RepeatDays)
	}
	return out
}

type alarmJSON struct {
	ID            string   `json:"id"`
	OwnerID       string   `json:"ownerId"`
	Name          string   `json:"name"`
	ScheduledTime string   `json:"scheduledTime"`
	OriginalTime  *string  `json:"originalTime"`
	RepeatDays    []string `json:"repeatDays"`
	Status        Status   `json:"status"`
	LastTakenDate *string  `json:"lastTakenDate"`

	// field names written by the first desktop release
	UserID string   `json:"userId,omitempty"`
	Time   string   `json:"time,omitempty"`
	Days   []string `json:"days,omitempty"`
}

func (a Alarm) MarshalJSON() ([]byte, error) {
	out := alarmJSON{
		ID:            a.ID,
		OwnerID:       a.OwnerID,
		Name:          a.Name,
		ScheduledTime: a.ScheduledTime,
		RepeatDays:    a.RepeatDays,
		Status:        a.Status,
	}
	if out.RepeatDays == nil {
		out.RepeatDays = []string{}
	}
	if a.OriginalTime != "" {
		out.OriginalTime = &a.OriginalTime
	}
	if a.LastTakenDate != "" {
		out.LastTakenDate = &a.LastTakenDate
	}
	return json.Marshal(out)
}

func (a *Alarm) UnmarshalJSON(data []byte) error {
	var in alarmJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*a = Alarm{
		ID:            in.ID,
		OwnerID:       in.OwnerID,
		Name:          in.Name,
		ScheduledTime: in.ScheduledTime,
		RepeatDays:    in.RepeatDays,
		Status:        in.Status,
	}
	if a.OwnerID == "" {
		a.OwnerID = in.UserID
	}
	if a.ScheduledTime == "" {
		a.ScheduledTime = in.Time
	}
	if a.RepeatDays == nil {
		a.RepeatDays = in.Days
	}
	if in.OriginalTime != nil {
		a.OriginalTime = *in.OriginalTime
	}
	if in.LastTakenDate != nil {
		a.LastTakenDate = *in.LastTakenDate
	}
	if a.Status == "" {
		a.Status = StatusActive
	}
	return nil
}
