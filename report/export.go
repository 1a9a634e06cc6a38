package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/trueinspo/babytimer/internal/models"
	"github.com/trueinspo/babytimer/internal/timeutil"
	"github.com/trueinspo/babytimer/timer"
)

const dateFormat = "2006-01-02"

var (
	feedingHeader = []string{"Type", "Date", "Time", "Duration", "Amount", "Side", "Notes"}
	sleepHeader   = []string{"Sleep Type", "Date", "Start Time", "End Time", "Duration", "Location"}
)

func duration(r *models.Record) string {
	if r.EndTime == nil || !r.Kind.Timed() {
		return ""
	}

	return timeutil.FormatDuration(timer.FinalDuration(r))
}

func amount(r *models.Record) string {
	if ml := r.AmountML(); ml > 0 {
		return strconv.Itoa(ml)
	}

	return ""
}

// ExportCSV writes the feedings table, a blank line, then the sleeps table.
// Open timers have no duration or end time.
func ExportCSV(
	w io.Writer,
	feedings, sleeps []*models.Record,
	timeFormat string,
) error {
	cw := csv.NewWriter(w)

	rows := [][]string{feedingHeader}

	for _, f := range feedings {
		side := ""
		if f.Breastfeeding != nil {
			side = string(f.Breastfeeding.Side)
		}

		rows = append(rows, []string{
			string(f.Kind),
			f.StartTime.Format(dateFormat),
			f.StartTime.Format(timeFormat),
			duration(f),
			amount(f),
			side,
			f.Notes,
		})
	}

	rows = append(rows, []string{}, sleepHeader)

	for _, s := range sleeps {
		typ, location := "", ""
		if s.Sleep != nil {
			typ, location = string(s.Sleep.Type), s.Sleep.Location
		}

		end := ""
		if s.EndTime != nil {
			end = s.EndTime.Format(timeFormat)
		}

		rows = append(rows, []string{
			typ,
			s.StartTime.Format(dateFormat),
			s.StartTime.Format(timeFormat),
			end,
			duration(s),
			location,
		})
	}

	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}

	return nil
}

// ExportFileName is the default name of an export made on the given date.
func ExportFileName(date string) string {
	return fmt.Sprintf("baby-tracker-export-%s.csv", date)
}
