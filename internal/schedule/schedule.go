// Package schedule evaluates the recurring weekly blocking window.
package schedule

import (
	"strconv"
	"strings"
	"time"

	"monotaskr/coordinator/internal/model"
)

// IsBlockingTime reports whether t falls inside the configured blocking
// window. The window is half-open: the end minute itself is not blocking.
// Cross-midnight windows are not supported.
func IsBlockingTime(config model.ScheduleConfig, t time.Time) bool {
	if !config.Enabled {
		return false
	}

	day := int(t.Weekday())
	if !containsDay(config.Days, day) {
		return false
	}

	start, ok := ParseClock(config.StartTime)
	if !ok {
		return false
	}
	end, ok := ParseClock(config.EndTime)
	if !ok {
		return false
	}

	current := t.Hour()*60 + t.Minute()
	return current >= start && current < end
}

// ParseClock converts an "HH:MM" string into minutes since midnight.
func ParseClock(raw string) (int, bool) {
	parts := strings.SplitN(raw, ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, false
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, false
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, false
	}
	return hour*60 + minute, true
}

func containsDay(days []int, day int) bool {
	for _, d := range days {
		if d == day {
			return true
		}
	}
	return false
}
