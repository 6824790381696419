package model

import (
	"fmt"
	"strings"
	"time"
)

var weekdayTags = map[time.Weekday]string{
	time.Monday:    "월",
	time.Tuesday:   "화",
	time.Wednesday: "수",
	time.Thursday:  "목",
	time.Friday:    "금",
	time.Saturday:  "토",
	time.Sunday:    "일",
}

// WeekOrder lists the tags Monday first, the order used for display.
var WeekOrder = []string{"월", "화", "수", "목", "금", "토", "일"}

func WeekdayTag(d time.Weekday) string {
	return weekdayTags[d]
}

// ParseWeekday accepts a Korean tag ("월", "월요일") or an English name or
// abbreviation and returns the canonical tag.
func ParseWeekday(raw string) (string, error) {
	token := strings.ToLower(strings.TrimSpace(raw))
	token = strings.TrimSuffix(token, "요일")
	switch token {
	case "월", "mon", "monday":
		return "월", nil
	case "화", "tue", "tuesday":
		return "화", nil
	case "수", "wed", "wednesday":
		return "수", nil
	case "목", "thu", "thursday":
		return "목", nil
	case "금", "fri", "friday":
		return "금", nil
	case "토", "sat", "saturday":
		return "토", nil
	case "일", "sun", "sunday":
		return "일", nil
	default:
		return "", fmt.Errorf("model: unknown weekday %q", raw)
	}
}

// ParseWeekdays splits a comma or space separated list, dropping duplicates
// and returning the tags in week order.
func ParseWeekdays(raw string) ([]string, error) {
	seen := make(map[string]bool)
	for _, token := range strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == ' ' }) {
		tag, err := ParseWeekday(token)
		if err != nil {
			return nil, err
		}
		seen[tag] = true
	}
	out := make([]string, 0, len(seen))
	for _, tag := range WeekOrder {
		if seen[tag] {
			out = append(out, tag)
		}
	}
	return out, nil
}
