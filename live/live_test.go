package live

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trueinspo/babytimer/internal/models"
	"github.com/trueinspo/babytimer/mailbox"
)

var t0 = time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)

type call struct {
	policy  DismissalPolicy
	op      string
	session string
	state   ContentState
}

type fakeSurface struct {
	requestErr error
	calls      []call
	supported  bool
}

func (f *fakeSurface) Supported() bool {
	return f.supported
}

func (f *fakeSurface) Request(
	_ context.Context,
	attrs Attributes,
	state ContentState,
) (Activity, error) {
	if f.requestErr != nil {
		return nil, f.requestErr
	}

	f.calls = append(f.calls, call{op: "request", session: attrs.SessionID, state: state})

	return &fakeActivity{surface: f, attrs: attrs}, nil
}

type fakeActivity struct {
	surface *fakeSurface
	attrs   Attributes
}

func (a *fakeActivity) Attributes() Attributes {
	return a.attrs
}

func (a *fakeActivity) Update(_ context.Context, state ContentState) error {
	a.surface.calls = append(a.surface.calls, call{
		op:      "update",
		session: a.attrs.SessionID,
		state:   state,
	})

	return nil
}

func (a *fakeActivity) End(
	_ context.Context,
	state ContentState,
	policy DismissalPolicy,
) error {
	a.surface.calls = append(a.surface.calls, call{
		op:      "end",
		session: a.attrs.SessionID,
		state:   state,
		policy:  policy,
	})

	return nil
}

func newRecord(t *testing.T, kind models.Kind) *models.Record {
	t.Helper()

	rec, err := models.New(kind, models.Metadata{}, t0)
	require.NoError(t, err)

	return rec
}

func fixedClock(now *time.Time) func() time.Time {
	return func() time.Time { return *now }
}

func ops(calls []call) []string {
	out := make([]string, len(calls))

	for i := range calls {
		out[i] = calls[i].op + ":" + calls[i].session
	}

	return out
}

func TestBridgeStartUpdateAndSwitchSession(t *testing.T) {
	ctx := context.Background()
	now := t0.Add(time.Minute)
	surface := &fakeSurface{supported: true}
	b := NewBridge(surface, WithClock(fixedClock(&now)))

	feed := newRecord(t, models.KindBreastfeeding)
	require.NoError(t, b.StartOrUpdate(ctx, feed))
	require.NoError(t, b.StartOrUpdate(ctx, feed))

	sleep := newRecord(t, models.KindSleep)
	require.NoError(t, b.StartOrUpdate(ctx, sleep))

	assert.Equal(t, []string{
		"request:" + feed.ID,
		"update:" + feed.ID,
		"end:" + feed.ID,
		"request:" + sleep.ID,
	}, ops(surface.calls))

	assert.Equal(t, Immediate, surface.calls[2].policy)
	assert.Equal(t, "Feeding", surface.calls[0].state.Title)

	attrs, ok := b.Current()
	require.True(t, ok)
	assert.Equal(t, sleep.ID, attrs.SessionID)
	assert.Equal(t, models.KindSleep, attrs.TimerKind)
}

func TestBridgeStopShowsTerminalState(t *testing.T) {
	ctx := context.Background()
	now := t0
	surface := &fakeSurface{supported: true}
	b := NewBridge(surface,
		WithClock(fixedClock(&now)),
		WithDismissAfter(5*time.Second),
	)

	require.NoError(t, b.Stop(ctx))
	assert.Empty(t, surface.calls)

	rec := newRecord(t, models.KindSleep)
	require.NoError(t, b.StartOrUpdate(ctx, rec))
	require.NoError(t, b.Stop(ctx))

	last := surface.calls[len(surface.calls)-1]
	assert.Equal(t, "end", last.op)
	assert.Equal(t, EndedTitle, last.state.Title)
	assert.Equal(t, 5*time.Second, last.policy.After)

	_, ok := b.Current()
	assert.False(t, ok)
}

func TestBridgeSyncClosedRecord(t *testing.T) {
	ctx := context.Background()
	surface := &fakeSurface{supported: true}
	b := NewBridge(surface)

	feed := newRecord(t, models.KindBreastfeeding)
	sleep := newRecord(t, models.KindSleep)

	require.NoError(t, b.Sync(ctx, sleep))

	end := t0.Add(time.Hour)
	feed.EndTime = &end

	// closing a session that is not displayed leaves the display alone
	require.NoError(t, b.Sync(ctx, feed))
	assert.Len(t, surface.calls, 1)

	sleep.EndTime = &end
	require.NoError(t, b.Sync(ctx, sleep))
	assert.Equal(t, "end", surface.calls[len(surface.calls)-1].op)
}

func TestBridgeUnsupported(t *testing.T) {
	ctx := context.Background()
	rec := newRecord(t, models.KindBreastfeeding)

	b := NewBridge(Unsupported{})

	assert.ErrorIs(t, b.StartOrUpdate(ctx, rec), ErrLiveSurfaceUnavailable)
	assert.ErrorIs(t, b.Stop(ctx), ErrLiveSurfaceUnavailable)
	assert.ErrorIs(t, b.Sync(ctx, rec), ErrLiveSurfaceUnavailable)

	failing := &fakeSurface{supported: true, requestErr: errors.New("too many displays")}
	b = NewBridge(failing)

	err := b.StartOrUpdate(ctx, rec)
	assert.ErrorIs(t, err, ErrLiveSurfaceUnavailable)

	_, ok := b.Current()
	assert.False(t, ok)
}

func TestSnapshot(t *testing.T) {
	rec := newRecord(t, models.KindBreastfeeding)
	rec.TotalPausedMs = 60_000

	running := Snapshot(rec, "Feeding", t0.Add(10*time.Minute))
	assert.False(t, running.Paused)
	assert.Equal(t, int64(60), running.TotalPausedSeconds)
	assert.Equal(t, t0.Add(time.Minute), running.Reference())
	assert.Equal(t, 9*time.Minute, running.Render(t0.Add(10*time.Minute)))

	pauseStart := t0.Add(5 * time.Minute)
	rec.IsPaused = true
	rec.PauseStartTime = &pauseStart

	paused := Snapshot(rec, "Feeding", t0.Add(time.Hour))
	assert.True(t, paused.Paused)
	assert.Equal(t, int64(240), paused.PausedElapsedSeconds)
	assert.Equal(t, pauseStart, *paused.PausedAt)
	assert.Equal(t, 4*time.Minute, paused.Render(t0.Add(2*time.Hour)))
}

func TestContentStateToggled(t *testing.T) {
	state := ContentState{Title: "Feeding", StartDate: t0}

	paused := state.Toggled(t0.Add(5 * time.Minute))
	assert.True(t, paused.Paused)
	assert.Equal(t, int64(300), paused.PausedElapsedSeconds)

	resumed := paused.Toggled(t0.Add(6 * time.Minute))
	assert.False(t, resumed.Paused)
	assert.Equal(t, int64(60), resumed.TotalPausedSeconds)
	assert.Nil(t, resumed.PausedAt)
	assert.Equal(t, 9*time.Minute, resumed.Render(t0.Add(10*time.Minute)))

	// the original is untouched
	assert.False(t, state.Paused)
}

func TestKVSurfaceAdoptedByNewBridge(t *testing.T) {
	ctx := context.Background()
	kv := mailbox.NewMemory()
	rec := newRecord(t, models.KindSleep)

	first := NewBridge(NewKVSurface(kv))
	require.NoError(t, first.StartOrUpdate(ctx, rec))

	// a later process drives the same display
	second := NewBridge(NewKVSurface(kv))
	rec.Notes = "still asleep"
	require.NoError(t, second.StartOrUpdate(ctx, rec))

	attrs, ok := second.Current()
	require.True(t, ok)
	assert.Equal(t, rec.ID, attrs.SessionID)

	st, err := NewKVSurface(kv).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, PhaseActive, st.Phase)
	assert.Equal(t, "Sleeping", st.Authoritative.Title)
}

func TestControlsOptimisticPatchOverwrittenByApp(t *testing.T) {
	ctx := context.Background()
	kv := mailbox.NewMemory()
	box := mailbox.New(kv)
	surface := NewKVSurface(kv)

	now := t0.Add(5 * time.Minute)
	surface.now = fixedClock(&now)

	rec := newRecord(t, models.KindBreastfeeding)
	b := NewBridge(surface, WithClock(fixedClock(&now)))
	require.NoError(t, b.StartOrUpdate(ctx, rec))

	controls := NewControls(box, surface)
	controls.now = fixedClock(&now)

	require.NoError(t, controls.TogglePause(ctx))

	st, err := surface.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, st.Speculative)
	assert.True(t, st.Effective().Paused)
	assert.False(t, st.Authoritative.Paused)

	cmd, err := box.Peek(ctx)
	require.NoError(t, err)
	assert.Equal(t, mailbox.ActionTogglePause, cmd.Action)
	assert.Equal(t, rec.ID, cmd.SessionID)
	assert.Equal(t, models.KindBreastfeeding, cmd.TimerKind)

	// the application confirms with the authoritative record
	pauseStart := now
	rec.IsPaused = true
	rec.PauseStartTime = &pauseStart
	require.NoError(t, NewBridge(surface, WithClock(fixedClock(&now))).StartOrUpdate(ctx, rec))

	st, err = surface.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, st.Speculative)
	assert.True(t, st.Effective().Paused)
	assert.Equal(t, int64(300), st.Effective().PausedElapsedSeconds)
}

func TestControlsStopHidesDisplay(t *testing.T) {
	ctx := context.Background()
	kv := mailbox.NewMemory()
	box := mailbox.New(kv)
	surface := NewKVSurface(kv)

	rec := newRecord(t, models.KindSleep)
	require.NoError(t, NewBridge(surface).StartOrUpdate(ctx, rec))

	require.NoError(t, NewControls(box, surface).Stop(ctx))

	st, err := surface.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, PhaseEnded, st.Phase)
	assert.Equal(t, EndedTitle, st.Effective().Title)
	assert.False(t, st.Visible(time.Now().Add(time.Second)))

	_, found, err := surface.Current(ctx)
	require.NoError(t, err)
	assert.False(t, found)

	cmd, err := box.Take(ctx)
	require.NoError(t, err)
	assert.Equal(t, mailbox.ActionStop, cmd.Action)
	assert.Equal(t, rec.ID, cmd.SessionID)
}

func TestControlsWithoutDisplayStillPost(t *testing.T) {
	ctx := context.Background()
	kv := mailbox.NewMemory()
	box := mailbox.New(kv)

	require.NoError(t, NewControls(box, NewKVSurface(kv)).TogglePause(ctx))

	cmd, err := box.Take(ctx)
	require.NoError(t, err)
	assert.Equal(t, mailbox.ActionTogglePause, cmd.Action)
	assert.Empty(t, cmd.SessionID)
}

func TestKVSurfaceEndWithDelay(t *testing.T) {
	ctx := context.Background()
	kv := mailbox.NewMemory()
	surface := NewKVSurface(kv)

	now := t0
	surface.now = fixedClock(&now)

	b := NewBridge(surface, WithClock(fixedClock(&now)), WithDismissAfter(4*time.Second))
	require.NoError(t, b.StartOrUpdate(ctx, newRecord(t, models.KindSleep)))
	require.NoError(t, b.Stop(ctx))

	st, err := surface.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, PhaseEnded, st.Phase)
	assert.True(t, st.Visible(t0.Add(3*time.Second)))
	assert.False(t, st.Visible(t0.Add(4*time.Second)))
}
