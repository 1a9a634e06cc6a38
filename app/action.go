package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/trueinspo/babytimer/internal/config"
	"github.com/trueinspo/babytimer/internal/models"
	"github.com/trueinspo/babytimer/internal/osutil"
	"github.com/trueinspo/babytimer/internal/pathutil"
	"github.com/trueinspo/babytimer/internal/static"
	"github.com/trueinspo/babytimer/internal/timeutil"
	"github.com/trueinspo/babytimer/internal/ui"
	"github.com/trueinspo/babytimer/notify"
	"github.com/trueinspo/babytimer/report"
	"github.com/trueinspo/babytimer/timer"
)

const (
	envNoColor          = "NO_COLOR"
	envBabytimerNoColor = "BABYTIMER_NO_COLOR"
)

// timedKind maps a command line argument to a timer kind.
func timedKind(arg string) (models.Kind, error) {
	switch strings.ToLower(arg) {
	case "feeding", "feed", "breastfeeding":
		return models.KindBreastfeeding, nil
	case "sleep", "nap":
		return models.KindSleep, nil
	}

	return "", errUnknownTimer.Fmt(arg)
}

// metadata collects the details of a new activity from the flags, the
// config defaults and, with --interactive, a prompt.
func metadata(ctx *cli.Context, cfg *config.Config, kind models.Kind) (models.Metadata, error) {
	meta := cfg.Metadata()

	if s := ctx.String("side"); s != "" {
		meta.Side = models.Side(strings.ToLower(s))
		if !meta.Side.Valid() {
			return meta, errInvalidSide.Fmt(s)
		}
	}

	if s := ctx.String("type"); s != "" {
		meta.SleepType = models.SleepType(strings.ToLower(s))
		if !meta.SleepType.Valid() {
			return meta, errInvalidSleepType.Fmt(s)
		}
	}

	meta.Location = ctx.String("location")
	meta.Notes = ctx.String("notes")
	meta.AmountML = cfg.Display.VolumeUnit.ToML(ctx.Float64("amount"))
	meta.Brand = ctx.String("brand")

	if cfg.CLI.Interactive {
		return promptMetadata(kind, meta, cfg.Display.VolumeUnit)
	}

	return meta, nil
}

// settle turns a persistence failure into a warning. The change stays in
// effect for this process. A successful write retires the warning so the
// next failure is reported again.
func (e *env) settle(err error) error {
	switch {
	case err == nil:
		e.notifier.Clear(notify.TagPersistence)
	case errors.Is(err, timer.ErrPersistence):
		report.Warn(err)
		e.persistenceWarning(err)

		return nil
	}

	return err
}

// openTimer finds the timer a command applies to. Without an argument the
// first open timer is used.
func (e *env) openTimer(arg string) (*models.Record, error) {
	kinds := models.TimedKinds

	if arg != "" {
		kind, err := timedKind(arg)
		if err != nil {
			return nil, err
		}

		kinds = []models.Kind{kind}
	}

	for _, kind := range kinds {
		if rec, ok := e.manager.Active(kind); ok {
			return rec, nil
		}
	}

	return nil, timer.ErrNotRunning
}

// noTimer reports a missing timer without failing the command.
func noTimer(err error) error {
	if errors.Is(err, timer.ErrNotRunning) {
		slog.Debug("no timer to act on")
		pterm.Info.Println("No timer is running")

		return nil
	}

	return err
}

func (e *env) title(rec *models.Record) string {
	return e.cfg.Titles()[rec.Kind]
}

// startAction handles the start command.
func startAction(ctx *cli.Context) error {
	kind, err := timedKind(ctx.Args().First())
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

	rec, err := e.manager.StartAt(ctx.Context, kind, meta, e.cfg.CLI.At)
	if err = e.settle(err); err != nil {
		return err
	}

	report.Started(e.title(rec), rec.StartTime.Format(e.cfg.TimeFormat()))

	return nil
}

// changeAction applies a manager operation to the selected open timer.
func changeAction(
	op func(e *env, ctx *cli.Context, rec *models.Record) (*models.Record, error),
) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		e, err := openEnv(ctx)
		if err != nil {
			return err
		}

		defer e.Close()

		rec, err := e.openTimer(ctx.Args().First())
		if err != nil {
			return noTimer(err)
		}

		updated, err := op(e, ctx, rec)
		if err = e.settle(err); err != nil {
			return noTimer(err)
		}

		if updated == nil {
			return nil
		}

		printStatus(e, updated, time.Now())

		return nil
	}
}

func pauseAction(e *env, ctx *cli.Context, rec *models.Record) (*models.Record, error) {
	return e.manager.Pause(ctx.Context, rec)
}

func resumeAction(e *env, ctx *cli.Context, rec *models.Record) (*models.Record, error) {
	return e.manager.Resume(ctx.Context, rec)
}

func toggleAction(e *env, ctx *cli.Context, rec *models.Record) (*models.Record, error) {
	return e.manager.Toggle(ctx.Context, rec)
}

func switchSideAction(e *env, ctx *cli.Context, rec *models.Record) (*models.Record, error) {
	side := ctx.String("side")
	if side == "" {
		return e.manager.NextSide(ctx.Context, rec)
	}

	return e.manager.SwitchSide(ctx.Context, rec, models.Side(strings.ToLower(side)))
}

// stopAction handles the stop command.
func stopAction(ctx *cli.Context) error {
	e, err := openEnv(ctx)
	if err != nil {
		return err
	}

	defer e.Close()

	rec, err := e.openTimer(ctx.Args().First())
	if err != nil {
		return noTimer(err)
	}

	// the stop hook reports the result
	_, err = e.manager.Stop(ctx.Context, rec)
	if err = e.settle(err); err != nil {
		return noTimer(err)
	}

	return nil
}

// stopped runs after every stopped timer, whether the stop came from a
// command, the watch view or a surface control. It reports the result and
// runs the configured hook. While the watch view owns the terminal, nothing
// is printed and the hook's output goes to the log file.
func (e *env) stopped(ctx context.Context, rec *models.Record, d time.Duration) {
	title := e.title(rec) + " complete"

	out := e.out
	if !e.quiet {
		pterm.Success.Printfln("%s: %s", title, timeutil.FormatDuration(d))
	}

	err := e.notifier.Send(notify.TagTimer, title, timeutil.FormatDuration(d))
	if err != nil {
		slog.DebugContext(ctx, "notification not shown", slog.Any("error", err))
	}

	if err := runSessionCmd(e.cfg.Settings.Cmd, rec, d, out); err != nil {
		slog.ErrorContext(ctx, "session command failed", slog.Any("error", err))

		if !e.quiet {
			report.Error(err)
		}
	}
}

// runSessionCmd executes the configured hook with details of the stopped
// timer in its environment.
func runSessionCmd(line string, rec *models.Record, d time.Duration, out io.Writer) error {
	cmd, err := osutil.Command(line,
		"BABYTIMER_KIND="+string(rec.Kind),
		"BABYTIMER_ID="+rec.ID,
		fmt.Sprintf("BABYTIMER_DURATION=%d", int(d.Seconds())),
	)
	if err != nil {
		return errSessionCmd.Wrap(err)
	}

	if cmd == nil {
		return nil
	}

	cmd.Stdout = out
	cmd.Stderr = out

	if err := cmd.Run(); err != nil {
		return errSessionCmd.Wrap(err)
	}

	return nil
}

func printStatus(e *env, rec *models.Record, now time.Time) {
	line := fmt.Sprintf("%s %s %s",
		ui.Kind(rec.Kind, e.title(rec)),
		timeutil.FormatTimer(timer.RecordElapsed(rec, now)),
		ui.Status(rec.IsPaused),
	)

	if rec.Breastfeeding != nil {
		line += " " + ui.Highlight(string(rec.Breastfeeding.Side))
	}

	pterm.Println(line)
}

// statusAction prints every open timer.
func statusAction(ctx *cli.Context) error {
	e, err := openEnv(ctx)
	if err != nil {
		return err
	}

	defer e.Close()

	now := time.Now()
	found := false

	for _, kind := range models.TimedKinds {
		if rec, ok := e.manager.Active(kind); ok {
			printStatus(e, rec, now)

			found = true
		}
	}

	if !found {
		pterm.Info.Println("No timer is running")
	}

	return nil
}

// watchAction opens the live terminal view.
func watchAction(ctx *cli.Context) error {
	e, err := openEnv(ctx)
	if err != nil {
		return err
	}

	defer e.Close()

	feedings, cancelFeedings := e.db.Subscribe(models.Feedings)
	defer cancelFeedings()

	sleeps, cancelSleeps := e.db.Subscribe(models.Sleeps)
	defer cancelSleeps()

	w := timer.NewWatch(e.manager,
		timer.WithMailbox(e.box, e.cfg.Mailbox.PollInterval),
		timer.WithUpdates(merge(feedings, sleeps)),
		timer.WithStyle(timer.DefaultStyle(e.cfg.Display.DarkTheme)),
		timer.WithTimeFormat(e.cfg.TimeFormat()),
		timer.WithWatchTitles(e.cfg.Titles()),
	)

	e.quiet = true
	if logFile != nil {
		e.out = logFile
	} else {
		e.out = io.Discard
	}

	_, err = tea.NewProgram(w).Run()
	if err != nil {
		return err
	}

	if err := w.Err(); err != nil {
		return e.settle(err)
	}

	return nil
}

// editConfigAction handles the edit-config command which opens the config
// file in the user's default text editor.
func editConfigAction(_ *cli.Context) error {
	cmd, err := osutil.Command(osutil.Editor())
	if err != nil {
		return err
	}

	cmd.Args = append(cmd.Args, pathutil.ConfigFilePath())
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout

	return cmd.Run()
}

func beforeAction(ctx *cli.Context) error {
	// Override the default help template
	cli.AppHelpTemplate = helpText()

	pterm.Error.MessageStyle = pterm.NewStyle(pterm.FgRed)
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "ERROR",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}

	// Disable colour output if NO_COLOR is set
	if _, exists := os.LookupEnv(envNoColor); exists {
		disableStyling()
	}

	// Disable colour output if BABYTIMER_NO_COLOR is set
	if _, exists := os.LookupEnv(envBabytimerNoColor); exists {
		disableStyling()
	}

	if ctx.Bool("no-color") {
		disableStyling()
	}

	if err := pathutil.Initialize(); err != nil {
		return err
	}

	// also creates the data directory the databases live in
	if err := static.Install(pathutil.DataDir()); err != nil {
		return err
	}

	logFile = setupLogger(pathutil.LogFilePath())

	slog.InfoContext(ctx.Context, "babytimer started",
		slog.String("version", config.Version),
		slog.Any("args", ctx.Args().Slice()),
	)

	return nil
}

func afterAction(ctx *cli.Context) error {
	slog.InfoContext(ctx.Context, "exiting babytimer")

	if logFile != nil {
		return logFile.Close()
	}

	return nil
}

// merge fans the store subscriptions into one channel. A reader that falls
// behind misses intermediate snapshots, which the watch view reloads anyway.
func merge(chans ...<-chan []*models.Record) <-chan []*models.Record {
	out := make(chan []*models.Record, 1)

	var wg sync.WaitGroup

	for _, ch := range chans {
		ch := ch

		wg.Add(1)

		go func() {
			defer wg.Done()

			for records := range ch {
				select {
				case out <- records:
				default:
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(out)
	}()

	return out
}
