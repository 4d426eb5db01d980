package domain

import (
	"sort"
	"strings"
	"time"
)

// ISO 8601 weekday constants and mappings
const (
	Monday    = 1
	Tuesday   = 2
	Wednesday = 3
	Thursday  = 4
	Friday    = 5
	Saturday  = 6
	Sunday    = 7
)

// WeekdayNames maps ISO 8601 weekday numbers to their English names
var WeekdayNames = map[int]string{
	Monday:    "Monday",
	Tuesday:   "Tuesday",
	Wednesday: "Wednesday",
	Thursday:  "Thursday",
	Friday:    "Friday",
	Saturday:  "Saturday",
	Sunday:    "Sunday",
}

// WeekdayNumbers maps weekday numbers as strings to integers
var WeekdayNumbers = map[string]int{
	"1": Monday,
	"2": Tuesday,
	"3": Wednesday,
	"4": Thursday,
	"5": Friday,
	"6": Saturday,
	"7": Sunday,
}

// DefaultActiveDays represents Monday through Friday in ISO format
var DefaultActiveDays = []int{Monday, Tuesday, Wednesday, Thursday, Friday}

// DefaultRole is the default role name when none is configured
const DefaultRole = "On duty"

// Block action IDs carried by the reminder buttons.
const (
	ActionIDConfirm = "rotation_confirm"
	ActionIDSkip    = "rotation_skip"
)

// ParseDays turns "1,2,4,5" into sorted ISO weekdays. Unknown entries and
// duplicates are dropped.
func ParseDays(input string) []int {
	parts := strings.Split(strings.TrimSpace(input), ",")
	seen := make(map[int]bool)
	var days []int

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if dayNum, ok := WeekdayNumbers[part]; ok && !seen[dayNum] {
			seen[dayNum] = true
			days = append(days, dayNum)
		}
	}

	// Sort days in week order (1-7)
	sort.Ints(days)
	return days
}

// ISOWeekday converts Go's Sunday=0 numbering to ISO 8601 (Sunday=7).
func ISOWeekday(d time.Weekday) int {
	if d == time.Sunday {
		return Sunday
	}
	return int(d)
}

// FormatDays renders ISO weekdays as "Monday, Tuesday".
func FormatDays(days []int) string {
	names := make([]string, 0, len(days))
	for _, d := range days {
		if name, ok := WeekdayNames[d]; ok {
			names = append(names, name)
		}
	}
	return strings.Join(names, ", ")
}
