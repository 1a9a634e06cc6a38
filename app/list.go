package app

import (
	"encoding/json"
	"os"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/trueinspo/babytimer/internal/models"
	"github.com/trueinspo/babytimer/internal/timeutil"
	"github.com/trueinspo/babytimer/internal/ui"
	"github.com/trueinspo/babytimer/report"
	"github.com/trueinspo/babytimer/stats"
)

const noRecordsMsg = "No records found for the specified day"

// reportDay parses the --date flag. It defaults to today.
func reportDay(ctx *cli.Context) (time.Time, error) {
	s := ctx.String("date")
	if s == "" {
		return time.Now(), nil
	}

	day, err := timeutil.FromStr(s)
	if err != nil {
		return time.Time{}, errInvalidDate.Wrap(err)
	}

	return day, nil
}

// collection maps a list argument to a store collection. Both collections
// are returned without one.
func collection(arg string) ([]models.Collection, error) {
	switch strings.ToLower(arg) {
	case "":
		return []models.Collection{models.Feedings, models.Sleeps}, nil
	case "feedings", "feeding", "feed":
		return []models.Collection{models.Feedings}, nil
	case "sleeps", "sleep":
		return []models.Collection{models.Sleeps}, nil
	}

	return nil, errUnknownCollection.Fmt(arg)
}

// listAction prints the records of a day.
func listAction(ctx *cli.Context) error {
	colls, err := collection(ctx.Args().First())
	if err != nil {
		return err
	}

	day, err := reportDay(ctx)
	if err != nil {
		return err
	}

	e, err := openEnv(ctx)
	if err != nil {
		return err
	}

	defer e.Close()

	var records []*models.Record

	for _, coll := range colls {
		records = append(records, stats.OnDay(e.cache.List(coll), day)...)
	}

	if ctx.Bool("json") {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")

		if records == nil {
			records = []*models.Record{}
		}

		return enc.Encode(records)
	}

	if len(records) == 0 {
		pterm.Info.Println(noRecordsMsg)
		return nil
	}

	ui.PrintTable(
		stats.Table(records, e.cfg.TimeFormat(), e.cfg.Display.VolumeUnit, time.Now()),
		os.Stdout,
	)

	return nil
}

// summaryAction prints the totals of a day.
func summaryAction(ctx *cli.Context) error {
	day, err := reportDay(ctx)
	if err != nil {
		return err
	}

	e, err := openEnv(ctx)
	if err != nil {
		return err
	}

	defer e.Close()

	now := time.Now()

	s := stats.Summarize(
		e.cache.List(models.Feedings),
		e.cache.List(models.Sleeps),
		day,
		now,
	)

	s.Unit = e.cfg.Display.VolumeUnit
	s.Profile = stats.Profile{Name: e.cfg.Baby.Name}

	if born, ok := e.cfg.BirthDate(); ok {
		s.Profile.BirthDate = &born
	}

	s.Print(os.Stdout, now)

	return nil
}

// exportAction writes every record to a CSV file.
func exportAction(ctx *cli.Context) error {
	e, err := openEnv(ctx)
	if err != nil {
		return err
	}

	defer e.Close()

	path := ctx.String("out")
	if path == "" {
		path = report.ExportFileName(time.Now().Format(time.DateOnly))
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	err = report.ExportCSV(
		f,
		e.cache.List(models.Feedings),
		e.cache.List(models.Sleeps),
		e.cfg.TimeFormat(),
	)
	if err != nil {
		_ = f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return err
	}

	pterm.Success.Printfln("Exported records to %s", path)

	return nil
}
