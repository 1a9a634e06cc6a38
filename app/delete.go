package app

import (
	"os"
	"time"

	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/trueinspo/babytimer/internal/models"
	"github.com/trueinspo/babytimer/internal/ui"
	"github.com/trueinspo/babytimer/stats"
)

// deleteAction removes a record after confirmation.
func deleteAction(ctx *cli.Context) error {
	e, err := openEnv(ctx)
	if err != nil {
		return err
	}

	defer e.Close()

	rec, err := resolve(e.cache, ctx.Args().First())
	if err != nil {
		return err
	}

	if !ctx.Bool("yes") {
		ui.PrintTable(
			stats.Table(
				[]*models.Record{rec},
				e.cfg.TimeFormat(),
				e.cfg.Display.VolumeUnit,
				time.Now(),
			),
			os.Stdout,
		)

		ok, err := confirm("Delete this record permanently?")
		if err != nil || !ok {
			return err
		}
	}

	if err := e.settle(e.manager.Delete(ctx.Context, rec.ID)); err != nil {
		return err
	}

	pterm.Success.Println("Record deleted")

	return nil
}

// clearAction deletes every record.
func clearAction(ctx *cli.Context) error {
	e, err := openEnv(ctx)
	if err != nil {
		return err
	}

	defer e.Close()

	if !ctx.Bool("yes") {
		ok, err := confirm("Delete every feeding and sleep record permanently?")
		if err != nil || !ok {
			return err
		}
	}

	// open timers leave the live display first
	for _, kind := range models.TimedKinds {
		if rec, ok := e.manager.Active(kind); ok {
			if err := e.settle(e.manager.Delete(ctx.Context, rec.ID)); err != nil {
				return err
			}
		}
	}

	if err := e.db.DeleteAll(); err != nil {
		return err
	}

	for _, coll := range []models.Collection{models.Feedings, models.Sleeps} {
		e.cache.Replace(coll, nil)
	}

	pterm.Success.Println("All records deleted")

	return nil
}
