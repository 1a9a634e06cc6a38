package stats

import (
	"fmt"
	"strings"
	"time"
)

const hoursPerDay = 24

// Profile identifies the baby the records belong to.
type Profile struct {
	BirthDate *time.Time
	Name      string
}

// Greeting returns the header line and the line beneath it.
func (p Profile) Greeting(now time.Time) (string, string) {
	if p.Name == "" {
		return "Hello, Baby", "Set up your baby's info in the config file"
	}

	if p.BirthDate == nil {
		return "Hello, " + p.Name, ""
	}

	return "Hello, " + p.Name, Age(*p.BirthDate, now)
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}

	return fmt.Sprintf("%d %ss", n, unit)
}

// Age describes how old a baby born at birth is at now in months of
// thirty days, weeks and, during the first week, days.
func Age(birth, now time.Time) string {
	days := max(int(now.Sub(birth).Hours()/hoursPerDay), 0)

	months := days / 30
	weeks := (days % 30) / 7

	if months == 0 && weeks == 0 {
		return plural(days%7, "day") + " old"
	}

	var parts []string

	if months > 0 {
		parts = append(parts, plural(months, "month"))
	}

	if weeks > 0 {
		parts = append(parts, plural(weeks, "week"))
	}

	return strings.Join(parts, " ") + " old"
}
