package stats

import (
	"fmt"
	"time"

	"github.com/trueinspo/babytimer/internal/models"
	"github.com/trueinspo/babytimer/internal/timeutil"
	"github.com/trueinspo/babytimer/internal/ui"
	"github.com/trueinspo/babytimer/timer"
)

// OnDay keeps the records that started on the day containing day.
func OnDay(records []*models.Record, day time.Time) []*models.Record {
	start, end := timeutil.RoundToStart(day), timeutil.RoundToEnd(day)

	var out []*models.Record

	for _, r := range records {
		if onDay(r, start, end) {
			out = append(out, r)
		}
	}

	return out
}

// detail describes the variant payload of a record in a few words.
func detail(r *models.Record, unit models.VolumeUnit) string {
	switch {
	case r.Breastfeeding != nil:
		return string(r.Breastfeeding.Side)
	case r.Sleep != nil && r.Sleep.Location != "":
		return fmt.Sprintf("%s, %s", r.Sleep.Type, r.Sleep.Location)
	case r.Sleep != nil:
		return string(r.Sleep.Type)
	case r.Bottle != nil:
		return unit.Format(r.Bottle.AmountML)
	case r.Formula != nil && r.Formula.Brand != "":
		return fmt.Sprintf("%s, %s", unit.Format(r.Formula.AmountML), r.Formula.Brand)
	case r.Formula != nil:
		return unit.Format(r.Formula.AmountML)
	}

	return ""
}

// Table renders records as rows with a header for ui.PrintTable. Open
// timers show their running time and status. Amounts are shown in unit.
func Table(
	records []*models.Record,
	timeFormat string,
	unit models.VolumeUnit,
	now time.Time,
) [][]string {
	data := [][]string{
		{"ID", "KIND", "START", "END", "DURATION", "DETAILS", "NOTES"},
	}

	for _, r := range records {
		end := ""
		duration := ""

		switch {
		case r.Active():
			end = ui.Status(r.IsPaused)
			duration = timeutil.FormatDuration(timer.RecordElapsed(r, now))
		case r.Kind.Timed():
			end = r.EndTime.Format(timeFormat)
			duration = timeutil.FormatDuration(timer.FinalDuration(r))
		}

		data = append(data, []string{
			shortID(r.ID),
			ui.Kind(r.Kind, r.Kind.Title()),
			r.StartTime.Format(timeFormat),
			end,
			duration,
			detail(r, unit),
			r.Notes,
		})
	}

	return data
}

// shortID abbreviates a record ID the way it may be typed back in.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}

	return id
}
