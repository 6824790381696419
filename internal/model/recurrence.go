package model

import (
	"errors"
	"slices"
	"time"
)

var ErrNoOccurrence = errors.New("model: alarm has no upcoming occurrence")

// NextOccurrence returns the next instant a would fire after now. Today's
// slot counts only while the alarm is still pending and its minute has not
// passed; otherwise the search continues on the following repeat days at the
// baseline time.
func NextOccurrence(a Alarm, now time.Time) (time.Time, error) {
	scheduled, err := ParseTime(a.ScheduledTime)
	if err != nil {
		return time.Time{}, err
	}
	baseline := scheduled
	if a.OriginalTime != "" {
		if baseline, err = ParseTime(a.OriginalTime); err != nil {
			return time.Time{}, err
		}
	}

	current := truncateMinute(now)
	if a.Status.Triggerable() && a.DueOn(now) {
		at := withClock(now, scheduled)
		if !at.Before(current) {
			return at, nil
		}
	}

	allowed := allowedWeekdays(a.RepeatDays)
	if len(allowed) == 0 {
		return time.Time{}, ErrNoOccurrence
	}
	probe := now.AddDate(0, 0, 1)
	for range 7 {
		if allowed[probe.Weekday()] {
			return withClock(probe, baseline), nil
		}
		probe = probe.AddDate(0, 0, 1)
	}
	return time.Time{}, ErrNoOccurrence
}

// Preview lists the next count occurrences of a starting after now.
func Preview(a Alarm, now time.Time, count int) ([]time.Time, error) {
	if count <= 0 {
		return []time.Time{}, nil
	}
	out := make([]time.Time, 0, count)
	next, err := NextOccurrence(a, now)
	if err != nil {
		return nil, err
	}
	out = append(out, next)

	// Later days always start from the baseline as a fresh ACTIVE alarm.
	fresh := a.Clone()
	fresh.Status = StatusActive
	if fresh.OriginalTime != "" {
		fresh.ScheduledTime = fresh.OriginalTime
	}
	for len(out) < count {
		endOfDay := time.Date(next.Year(), next.Month(), next.Day(), 23, 59, 0, 0, next.Location())
		probe := fresh
		probe.Status = StatusCompleted
		next, err = NextOccurrence(probe, endOfDay)
		if err != nil {
			return nil, err
		}
		out = append(out, next)
	}
	return out, nil
}

func allowedWeekdays(days []string) map[time.Weekday]bool {
	m := make(map[time.Weekday]bool, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		if len(days) == 0 || slices.Contains(days, WeekdayTag(d)) {
			m[d] = true
		}
	}
	return m
}

func withClock(date time.Time, t TimeOfDay) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, t.Hour, t.Minute, 0, 0, date.Location())
}

func truncateMinute(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, t.Location())
}
