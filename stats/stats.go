// Package stats summarises a day of feedings and sleep
package stats

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/maruel/natural"
	"github.com/pterm/pterm"

	"github.com/trueinspo/babytimer/internal/models"
	"github.com/trueinspo/babytimer/internal/timeutil"
	"github.com/trueinspo/babytimer/internal/ui"
	"github.com/trueinspo/babytimer/timer"
)

const barChartChar = "▇"

// LocationTotal is the sleep time spent in one place.
type LocationTotal struct {
	Location string
	Duration time.Duration
}

// Summary holds the daily figures shown by the summary command.
type Summary struct {
	Date        time.Time
	Profile     Profile
	Unit        models.VolumeUnit
	LastFeeding *time.Time
	AwakeSince  *time.Time
	Locations   []LocationTotal
	Sleep       time.Duration
	Feedings    int
	AmountML    int
	Naps        int
	Sleeping    bool
}

func onDay(rec *models.Record, start, end time.Time) bool {
	return !rec.StartTime.Before(start) && !rec.StartTime.After(end)
}

// Summarize computes the figures for the day containing day. Open sleeps
// count up to now and paused time is excluded. The "last feeding" and
// "awake for" figures consider every record, not just the chosen day.
func Summarize(feedings, sleeps []*models.Record, day, now time.Time) Summary {
	start, end := timeutil.RoundToStart(day), timeutil.RoundToEnd(day)

	s := Summary{Date: start}

	for _, f := range feedings {
		if s.LastFeeding == nil || f.StartTime.After(*s.LastFeeding) {
			t := f.StartTime
			s.LastFeeding = &t
		}

		if !onDay(f, start, end) {
			continue
		}

		s.Feedings++
		s.AmountML += f.AmountML()
	}

	locations := make(map[string]time.Duration)

	for _, sl := range sleeps {
		if sl.Active() {
			s.Sleeping = true
		} else if s.AwakeSince == nil || sl.EndTime.After(*s.AwakeSince) {
			t := *sl.EndTime
			s.AwakeSince = &t
		}

		if !onDay(sl, start, end) {
			continue
		}

		d := timer.RecordElapsed(sl, now)
		s.Sleep += d

		if sl.Sleep != nil && sl.Sleep.Type == models.SleepNap {
			s.Naps++
		}

		if sl.Sleep != nil && sl.Sleep.Location != "" {
			locations[strings.ToLower(sl.Sleep.Location)] += d
		}
	}

	if s.Sleeping {
		s.AwakeSince = nil
	}

	for loc, d := range locations {
		s.Locations = append(s.Locations, LocationTotal{loc, d})
	}

	slices.SortFunc(s.Locations, func(a, b LocationTotal) int {
		if natural.Less(a.Location, b.Location) {
			return -1
		}

		if natural.Less(b.Location, a.Location) {
			return 1
		}

		return 0
	})

	return s
}

// Rows returns the summary as label/value pairs.
func (s Summary) Rows(now time.Time) [][2]string {
	last := "No data yet"
	if s.LastFeeding != nil {
		last = timeutil.FormatTimeAgo(*s.LastFeeding, now)
	}

	awake := "No data yet"

	switch {
	case s.Sleeping:
		awake = "Currently sleeping"
	case s.AwakeSince != nil:
		awake = "Awake for " + strings.TrimSuffix(
			timeutil.FormatTimeAgo(*s.AwakeSince, now),
			" ago",
		)
	}

	return [][2]string{
		{"Day", timeutil.FormatDay(s.Date, now)},
		{"Feedings", fmt.Sprintf("%d", s.Feedings)},
		{"Bottle & formula", s.Unit.Format(s.AmountML)},
		{"Sleep", timeutil.FormatDuration(s.Sleep)},
		{"Naps", fmt.Sprintf("%d", s.Naps)},
		{"Last feeding", last},
		{"Sleep status", awake},
	}
}

// Print writes the profile greeting, the summary and a per-location sleep
// breakdown.
func (s Summary) Print(w io.Writer, now time.Time) {
	hello, sub := s.Profile.Greeting(now)

	fmt.Fprintln(w, pterm.DefaultSection.Sprint(hello))

	if sub != "" {
		fmt.Fprintln(w, sub)
	}

	ui.PrintPairs(s.Rows(now), w)

	if len(s.Locations) == 0 {
		return
	}

	fmt.Fprintln(w, pterm.DefaultSection.Sprint("Sleep by location"))

	for _, l := range s.Locations {
		bar := ""
		if s.Sleep > 0 {
			bar = strings.Repeat(barChartChar, timeutil.Round(float64(l.Duration)/float64(s.Sleep)*20))
		}

		fmt.Fprintf(w, "%-12s %s %s\n", l.Location, ui.Cyan(bar), timeutil.FormatDuration(l.Duration))
	}
}
