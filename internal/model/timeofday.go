package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	MarkerAM = "오전"
	MarkerPM = "오후"

	minutesPerDay = 24 * 60
	dateLayout    = "2006-01-02"
)

// FormatError reports a time-of-day string that does not have the
// "<오전|오후> HH : MM" shape.
type FormatError struct {
	Input  string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("model: invalid time %q: %s", e.Input, e.Reason)
}

// TimeOfDay is a wall-clock time within a single day on the 24-hour scale.
type TimeOfDay struct {
	Hour   int
	Minute int
}

func (t TimeOfDay) minutes() int {
	return t.Hour*60 + t.Minute
}

func (t TimeOfDay) String() string {
	return FormatTime(t.Hour, t.Minute)
}

func ParseTime(text string) (TimeOfDay, error) {
	parts := strings.FieldsFunc(text, func(r rune) bool {
		return r == ':' || r == ' ' || r == '\t'
	})
	if len(parts) != 3 {
		return TimeOfDay{}, &FormatError{Input: text, Reason: "expected marker, hour and minute"}
	}

	pm, err := parseMarker(parts[0])
	if err != nil {
		return TimeOfDay{}, &FormatError{Input: text, Reason: err.Error()}
	}
	hour, err := strconv.Atoi(parts[1])
	if err != nil {
		return TimeOfDay{}, &FormatError{Input: text, Reason: "hour is not numeric"}
	}
	minute, err := strconv.Atoi(parts[2])
	if err != nil {
		return TimeOfDay{}, &FormatError{Input: text, Reason: "minute is not numeric"}
	}
	if hour < 1 || hour > 12 {
		return TimeOfDay{}, &FormatError{Input: text, Reason: "hour must be between 1 and 12"}
	}
	if minute < 0 || minute > 59 {
		return TimeOfDay{}, &FormatError{Input: text, Reason: "minute must be between 0 and 59"}
	}

	switch {
	case pm && hour != 12:
		hour += 12
	case !pm && hour == 12:
		hour = 0
	}
	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

func parseMarker(s string) (bool, error) {
	switch strings.ToUpper(s) {
	case MarkerAM, "AM":
		return false, nil
	case MarkerPM, "PM":
		return true, nil
	default:
		return false, fmt.Errorf("unknown meridiem marker %q", s)
	}
}

// FormatTime renders a 24-hour time as the stored 12-hour representation,
// e.g. FormatTime(21, 5) == "오후 09 : 05".
func FormatTime(hour, minute int) string {
	marker := MarkerAM
	if hour >= 12 {
		marker = MarkerPM
	}
	h := hour % 12
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%s %02d : %02d", marker, h, minute)
}

func FormatClock(t time.Time) string {
	return FormatTime(t.Hour(), t.Minute())
}

// MinuteDifference is the absolute distance between two times of the same day.
func MinuteDifference(a, b TimeOfDay) int {
	diff := a.minutes() - b.minutes()
	if diff < 0 {
		return -diff
	}
	return diff
}

func AddMinutes(t TimeOfDay, delta int) TimeOfDay {
	total := ((t.minutes()+delta)%minutesPerDay + minutesPerDay) % minutesPerDay
	return TimeOfDay{Hour: total / 60, Minute: total % 60}
}

func AddMinutesText(text string, delta int) (string, error) {
	t, err := ParseTime(text)
	if err != nil {
		return text, err
	}
	return AddMinutes(t, delta).String(), nil
}

// Today returns the local calendar date of now as YYYY-MM-DD.
func Today(now time.Time) string {
	return now.Format(dateLayout)
}
