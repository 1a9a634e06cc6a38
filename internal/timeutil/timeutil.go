// Package timeutil provides utility functions and types for working with
// time-related operations.
package timeutil

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/markusmobius/go-dateparser"
)

const (
	minutesInAnHour = 60
	secondsInAMin   = 60
)

// Round rounds a time value in seconds, minutes, or hours to the nearest integer.
func Round(t float64) int {
	return int(math.Round(t))
}

// MinsToHoursAndMins expresses a minutes value in hours and mins.
func MinsToHoursAndMins(val int) (hrs, mins int) {
	hrs = int(math.Floor(float64(val) / float64(minutesInAnHour)))
	mins = val % minutesInAnHour

	return
}

// RoundToStart resets the given time to the start of the day.
func RoundToStart(t time.Time) time.Time {
	return time.Date(
		t.Year(),
		t.Month(),
		t.Day(),
		0,
		0,
		0,
		0,
		t.Location(),
	)
}

// RoundToEnd resets the given time to the end of the day.
func RoundToEnd(t time.Time) time.Time {
	return time.Date(
		t.Year(),
		t.Month(),
		t.Day(),
		23,
		59,
		59,
		int(time.Second-time.Millisecond),
		t.Location(),
	)
}

// Millis truncates t to millisecond precision and drops the monotonic clock
// reading so that the value survives a JSON round trip unchanged.
func Millis(t time.Time) time.Time {
	return t.Truncate(time.Millisecond)
}

// FormatTimer renders d as HH:MM:SS.
func FormatTimer(d time.Duration) string {
	if d < 0 {
		d = 0
	}

	total := int(d / time.Second)

	return fmt.Sprintf(
		"%02d:%02d:%02d",
		total/(secondsInAMin*minutesInAnHour),
		(total/secondsInAMin)%minutesInAnHour,
		total%secondsInAMin,
	)
}

// FormatDuration renders d as "1h 5m", or "5m" below an hour.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}

	hrs, mins := MinsToHoursAndMins(int(d / time.Minute))
	if hrs > 0 {
		return fmt.Sprintf("%dh %dm", hrs, mins)
	}

	return fmt.Sprintf("%dm", mins)
}

// FormatTimeAgo describes how long ago t happened relative to now. Anything
// older than a day falls back to a date.
func FormatTimeAgo(t, now time.Time) string {
	diff := now.Sub(t)

	mins := int(diff / time.Minute)
	hrs := mins / minutesInAnHour

	switch {
	case mins < 1:
		return "just now"
	case mins < minutesInAnHour:
		return fmt.Sprintf("%dm ago", mins)
	case hrs < 24:
		return fmt.Sprintf("%dh %dm ago", hrs, mins%minutesInAnHour)
	}

	return FormatDay(t, now)
}

// FormatDay returns "Today", "Yesterday", or a short date for t.
func FormatDay(t, now time.Time) string {
	day := RoundToStart(t)
	today := RoundToStart(now)

	switch {
	case day.Equal(today):
		return "Today"
	case day.Equal(today.AddDate(0, 0, -1)):
		return "Yesterday"
	}

	return t.Format("Mon, Jan 2")
}

// FromStr parses an absolute or relative time expression such as
// "20 mins ago" or "2024-05-01 14:30".
func FromStr(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty time expression")
	}

	cfg := &dateparser.Configuration{
		CurrentTime: time.Now(),
	}

	date, err := dateparser.Parse(cfg, s)
	if err != nil {
		return time.Time{}, err
	}

	return Millis(date.Time), nil
}
