package app

import (
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/trueinspo/babytimer/internal/models"
	"github.com/trueinspo/babytimer/internal/state"
	"github.com/trueinspo/babytimer/internal/timeutil"
	"github.com/trueinspo/babytimer/report"
	"github.com/trueinspo/babytimer/timer"
)

// logKind maps a log argument to an instant feeding kind.
func logKind(arg string) (models.Kind, error) {
	switch strings.ToLower(arg) {
	case "bottle":
		return models.KindBottle, nil
	case "formula":
		return models.KindFormula, nil
	}

	return "", errUnknownLogKind.Fmt(arg)
}

// logAction records a bottle or formula feeding.
func logAction(ctx *cli.Context) error {
	kind, err := logKind(ctx.Args().First())
	if err != nil {
		return err
	}

	e, err := openEnv(ctx)
	if err != nil {
		return err
	}

	defer e.Close()

	meta, err := metadata(ctx, e.cfg, kind)
	if err != nil {
		return err
	}

	if meta.AmountML <= 0 {
		return errMissingAmount
	}

	rec, err := e.manager.Log(ctx.Context, kind, meta, e.cfg.CLI.At)
	if err = e.settle(err); err != nil {
		return err
	}

	report.Info("Logged %s (%s) at %s",
		e.title(rec),
		e.cfg.Display.VolumeUnit.Format(rec.AmountML()),
		rec.StartTime.Format(e.cfg.TimeFormat()),
	)

	return nil
}

// resolve finds the single record whose ID starts with prefix.
func resolve(cache *state.Cache, prefix string) (*models.Record, error) {
	if prefix == "" {
		return nil, errMissingID
	}

	matches := cache.Match(prefix)

	switch len(matches) {
	case 0:
		return nil, errNoMatch.Fmt(prefix)
	case 1:
		return matches[0], nil
	}

	return nil, errAmbiguousID.Fmt(prefix, len(matches))
}

// correction builds the changes requested by the edit flags. An amount is
// read in unit.
func correction(ctx *cli.Context, unit models.VolumeUnit) (timer.Correction, error) {
	var c timer.Correction

	parse := func(name string) (*time.Time, error) {
		if !ctx.IsSet(name) {
			return nil, nil
		}

		t, err := timeutil.FromStr(ctx.String(name))
		if err != nil {
			return nil, errInvalidDate.Wrap(err)
		}

		return &t, nil
	}

	var err error

	if c.Start, err = parse("start"); err != nil {
		return c, err
	}

	if c.End, err = parse("end"); err != nil {
		return c, err
	}

	if ctx.IsSet("side") {
		c.Side = models.Side(strings.ToLower(ctx.String("side")))
		if !c.Side.Valid() {
			return c, errInvalidSide.Fmt(ctx.String("side"))
		}
	}

	if ctx.IsSet("type") {
		c.SleepType = models.SleepType(strings.ToLower(ctx.String("type")))
		if !c.SleepType.Valid() {
			return c, errInvalidSleepType.Fmt(ctx.String("type"))
		}
	}

	if ctx.IsSet("location") {
		s := ctx.String("location")
		c.Location = &s
	}

	if ctx.IsSet("notes") {
		s := ctx.String("notes")
		c.Notes = &s
	}

	if ctx.IsSet("amount") {
		n := unit.ToML(ctx.Float64("amount"))
		c.AmountML = &n
	}

	return c, nil
}

// editAction corrects a recorded activity.
func editAction(ctx *cli.Context) error {
	e, err := openEnv(ctx)
	if err != nil {
		return err
	}

	defer e.Close()

	c, err := correction(ctx, e.cfg.Display.VolumeUnit)
	if err != nil {
		return err
	}

	rec, err := resolve(e.cache, ctx.Args().First())
	if err != nil {
		return err
	}

	updated, err := e.manager.Correct(ctx.Context, rec.ID, c)
	if err = e.settle(err); err != nil {
		return err
	}

	if updated != nil {
		report.Info("Updated %s %s", e.title(updated), updated.ID)
	}

	return nil
}
