package app

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"io"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/trueinspo/babytimer/internal/config"
	"github.com/trueinspo/babytimer/internal/models"
	"github.com/trueinspo/babytimer/internal/osutil"
	"github.com/trueinspo/babytimer/internal/state"
	"github.com/trueinspo/babytimer/internal/testutil"
	"github.com/trueinspo/babytimer/live"
	"github.com/trueinspo/babytimer/notify"
	"github.com/trueinspo/babytimer/timer"
)

func newContext(t *testing.T, flags map[string]string) *cli.Context {
	t.Helper()

	f := flag.NewFlagSet("babytimer", flag.ContinueOnError)
	_ = f.String("start", "", "")
	_ = f.String("end", "", "")
	_ = f.String("side", "", "")
	_ = f.String("type", "", "")
	_ = f.String("location", "", "")
	_ = f.String("notes", "", "")
	_ = f.String("brand", "", "")
	_ = f.Float64("amount", 0, "")

	for k, v := range flags {
		require.NoError(t, f.Set(k, v))
	}

	return cli.NewContext(&cli.App{}, f, nil)
}

func TestTimedKind(t *testing.T) {
	cases := map[string]models.Kind{
		"feeding":       models.KindBreastfeeding,
		"Feed":          models.KindBreastfeeding,
		"breastfeeding": models.KindBreastfeeding,
		"sleep":         models.KindSleep,
		"NAP":           models.KindSleep,
	}

	for arg, want := range cases {
		got, err := timedKind(arg)
		require.NoError(t, err, arg)
		assert.Equal(t, want, got, arg)
	}

	_, err := timedKind("bottle")
	assert.ErrorIs(t, err, errUnknownTimer)

	_, err = timedKind("")
	assert.ErrorIs(t, err, errUnknownTimer)
}

func TestLogKind(t *testing.T) {
	k, err := logKind("Formula")
	require.NoError(t, err)
	assert.Equal(t, models.KindFormula, k)

	_, err = logKind("sleep")
	assert.ErrorIs(t, err, errUnknownLogKind)
}

func TestCollection(t *testing.T) {
	colls, err := collection("")
	require.NoError(t, err)
	assert.Equal(t, []models.Collection{models.Feedings, models.Sleeps}, colls)

	colls, err = collection("sleeps")
	require.NoError(t, err)
	assert.Equal(t, []models.Collection{models.Sleeps}, colls)

	_, err = collection("diapers")
	assert.ErrorIs(t, err, errUnknownCollection)
}

func TestMetadata(t *testing.T) {
	cfg := &config.Config{}
	cfg.Feeding.DefaultSide = models.SideRight
	cfg.Sleep.DefaultType = models.SleepNap

	meta, err := metadata(newContext(t, nil), cfg, models.KindBreastfeeding)
	require.NoError(t, err)
	assert.Equal(t, models.SideRight, meta.Side)

	meta, err = metadata(newContext(t, map[string]string{
		"type":     "Night",
		"location": "crib",
	}), cfg, models.KindSleep)
	require.NoError(t, err)
	assert.Equal(t, models.SleepNight, meta.SleepType)
	assert.Equal(t, "crib", meta.Location)

	_, err = metadata(newContext(t, map[string]string{"side": "middle"}), cfg, models.KindBreastfeeding)
	assert.ErrorIs(t, err, errInvalidSide)

	meta, err = metadata(newContext(t, map[string]string{"amount": "90"}), cfg, models.KindBottle)
	require.NoError(t, err)
	assert.Equal(t, 90, meta.AmountML)

	// amounts are entered in the configured unit and stored in millilitres
	cfg.Display.VolumeUnit = models.UnitOz

	meta, err = metadata(newContext(t, map[string]string{"amount": "4.5"}), cfg, models.KindBottle)
	require.NoError(t, err)
	assert.Equal(t, 133, meta.AmountML)
}

func TestAmountText(t *testing.T) {
	assert.Empty(t, amountText(0, models.UnitML))
	assert.Equal(t, "120", amountText(120, models.UnitML))
	assert.Equal(t, "4.1", amountText(120, models.UnitOz))

	assert.NoError(t, validateAmount(" 2.5 "))
	assert.ErrorIs(t, validateAmount("0"), errInvalidAmount)
	assert.ErrorIs(t, validateAmount("lots"), errInvalidAmount)
}

func TestResolve(t *testing.T) {
	cache := state.NewCache()

	var recs []*models.Record

	for i := 0; i < 2; i++ {
		rec, err := models.New(models.KindBottle, models.Metadata{AmountML: 90}, testutil.Day(9, 0))
		require.NoError(t, err)

		recs = append(recs, rec)
	}

	recs[0].ID = "abc12345-0000"
	recs[1].ID = "abd67890-0000"

	cache.Replace(models.Feedings, recs)

	got, err := resolve(cache, "abc")
	require.NoError(t, err)
	assert.Equal(t, "abc12345-0000", got.ID)

	_, err = resolve(cache, "ab")
	assert.ErrorIs(t, err, errAmbiguousID)

	_, err = resolve(cache, "zzz")
	assert.ErrorIs(t, err, errNoMatch)

	_, err = resolve(cache, "")
	assert.ErrorIs(t, err, errMissingID)
}

func TestCorrection(t *testing.T) {
	c, err := correction(newContext(t, map[string]string{
		"start":  "2024-05-01 08:15",
		"notes":  "",
		"amount": "120",
	}), models.UnitML)
	require.NoError(t, err)

	require.NotNil(t, c.Start)
	assert.Equal(t, 8, c.Start.Hour())
	assert.Nil(t, c.End)
	assert.Nil(t, c.Location)

	// an explicitly empty value clears the notes
	require.NotNil(t, c.Notes)
	assert.Empty(t, *c.Notes)

	require.NotNil(t, c.AmountML)
	assert.Equal(t, 120, *c.AmountML)

	_, err = correction(newContext(t, map[string]string{"end": "!!!"}), models.UnitML)
	assert.ErrorIs(t, err, errInvalidDate)

	_, err = correction(newContext(t, map[string]string{"type": "siesta"}), models.UnitML)
	assert.ErrorIs(t, err, errInvalidSleepType)

	c, err = correction(newContext(t, map[string]string{"amount": "4"}), models.UnitOz)
	require.NoError(t, err)
	require.NotNil(t, c.AmountML)
	assert.Equal(t, 118, *c.AmountML)
}

func TestRenderSurface(t *testing.T) {
	now := testutil.Day(10, 0)
	pausedAt := now.Add(-time.Minute)

	running := &live.SurfaceState{
		Phase: live.PhaseActive,
		Authoritative: live.ContentState{
			Title:     "Feeding",
			StartDate: now.Add(-65 * time.Second),
		},
	}

	assert.Equal(t, "Feeding 00:01:05", renderSurface(running, now))

	// a control's pending patch wins over the stored state
	running.Speculative = &live.ContentState{
		Title:                "Feeding",
		StartDate:            running.Authoritative.StartDate,
		Paused:               true,
		PausedAt:             &pausedAt,
		PausedElapsedSeconds: 5,
	}

	assert.Equal(t, "Feeding 00:00:05 (paused)", renderSurface(running, now))

	ended := &live.SurfaceState{Phase: live.PhaseEnded}
	assert.Equal(t, live.EndedTitle, renderSurface(ended, now))
}

func TestRunSessionCmdWithoutCommand(t *testing.T) {
	rec, err := models.New(models.KindSleep, models.Metadata{}, testutil.Day(9, 0))
	require.NoError(t, err)

	assert.NoError(t, runSessionCmd("  ", rec, time.Minute, io.Discard))
}

func testEnv(t *testing.T, sent *[]string) *env {
	t.Helper()

	cfg := &config.Config{}
	cfg.Feeding.Title = "Feeding"
	cfg.Sleep.Title = "Sleeping"

	return &env{
		cfg: cfg,
		notifier: notify.NewDesktop("babytimer", true, notify.WithSender(
			func(title, _, _ string) error {
				*sent = append(*sent, title)
				return nil
			},
		)),
		out:   io.Discard,
		quiet: true,
	}
}

func TestSettle(t *testing.T) {
	var sent []string

	e := testEnv(t, &sent)
	d := e.notifier.(*notify.Desktop)

	// a failed save is a warning and the change stands
	require.NoError(t, e.settle(timer.ErrPersistence.Wrap(errors.New("disk full"))))

	_, ok := d.Last(notify.TagPersistence)
	assert.True(t, ok)
	assert.Equal(t, []string{"Change not saved"}, sent)

	// the next successful save retires the warning
	require.NoError(t, e.settle(nil))

	_, ok = d.Last(notify.TagPersistence)
	assert.False(t, ok)

	// any other failure is returned to the command
	err := e.settle(timer.ErrNotRunning)
	assert.ErrorIs(t, err, timer.ErrNotRunning)
}

func TestStoppedRunsSessionCmd(t *testing.T) {
	if runtime.GOOS == osutil.Windows {
		t.Skip("needs a POSIX shell")
	}

	var sent []string

	e := testEnv(t, &sent)
	e.cfg.Settings.Cmd = `sh -c 'printf "%s %s" "$BABYTIMER_KIND" "$BABYTIMER_DURATION"'`

	var buf bytes.Buffer
	e.out = &buf

	rec, err := models.New(models.KindSleep, models.Metadata{}, testutil.Day(9, 0))
	require.NoError(t, err)

	e.stopped(context.Background(), rec, 90*time.Second)

	assert.Equal(t, "sleep 90", buf.String())
	assert.Equal(t, []string{"Sleeping complete"}, sent)
}

func TestMerge(t *testing.T) {
	a := make(chan []*models.Record, 1)
	b := make(chan []*models.Record, 1)

	out := merge(a, b)

	rec, err := models.New(models.KindSleep, models.Metadata{}, testutil.Day(9, 0))
	require.NoError(t, err)

	b <- []*models.Record{rec}

	select {
	case got := <-out:
		require.Len(t, got, 1)
		assert.Equal(t, rec.ID, got[0].ID)
	case <-time.After(time.Second):
		t.Fatal("snapshot not forwarded")
	}

	close(a)
	close(b)

	select {
	case _, ok := <-out:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("merged channel not closed")
	}
}
