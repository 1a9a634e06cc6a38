// Package timer owns the lifecycle of timed activity records and renders the
// live terminal view of a running timer.
package timer

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/davecgh/go-spew/spew"

	"github.com/trueinspo/babytimer/internal/models"
	"github.com/trueinspo/babytimer/internal/state"
	"github.com/trueinspo/babytimer/internal/timeutil"
)

// RecordStore persists records. Writes overwrite the whole record.
type RecordStore interface {
	Put(rec *models.Record) error
	Delete(id string) error
}

// LiveSyncer mirrors a record onto the live display.
type LiveSyncer interface {
	Sync(ctx context.Context, rec *models.Record) error
	// Session reports the session the display is bound to.
	Session(ctx context.Context) (string, bool)
	Stop(ctx context.Context) error
}

// Manager creates, pauses, resumes and closes timer records. It is the only
// writer of records: every mutation updates the cache, persists the record
// and then resynchronises the live display. Operations are serialised.
type Manager struct {
	store RecordStore
	cache *state.Cache
	live   LiveSyncer
	clock  func() time.Time
	onStop StopHook
	mu     sync.Mutex
}

// StopHook observes every stopped timer, whichever control stopped it.
type StopHook func(ctx context.Context, rec *models.Record, d time.Duration)

// Option configures a Manager.
type Option func(*Manager)

// WithLive attaches the live display.
func WithLive(l LiveSyncer) Option {
	return func(m *Manager) {
		m.live = l
	}
}

// OnStop registers fn to run after a timer is stopped. It also runs when
// the record could not be saved, since the timer is closed regardless.
func OnStop(fn StopHook) Option {
	return func(m *Manager) {
		m.onStop = fn
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.clock = now
	}
}

// NewManager returns a manager writing to store and mirroring into cache.
func NewManager(store RecordStore, cache *state.Cache, opts ...Option) *Manager {
	m := &Manager{
		store: store,
		cache: cache,
		clock: time.Now,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

func (m *Manager) now() time.Time {
	return timeutil.Millis(m.clock())
}

// Active returns the open record of kind.
func (m *Manager) Active(kind models.Kind) (*models.Record, bool) {
	return m.cache.Active(kind)
}

// Get returns the cached record with the given id.
func (m *Manager) Get(id string) (*models.Record, bool) {
	return m.cache.Get(id)
}

// Start opens a new timer of kind starting now.
func (m *Manager) Start(
	ctx context.Context,
	kind models.Kind,
	meta models.Metadata,
) (*models.Record, error) {
	return m.StartAt(ctx, kind, meta, time.Time{})
}

// StartAt opens a new timer of kind that began at the given instant. A zero
// instant means now.
func (m *Manager) StartAt(
	ctx context.Context,
	kind models.Kind,
	meta models.Metadata,
	at time.Time,
) (*models.Record, error) {
	if !kind.Timed() {
		return nil, errNotTimed.Fmt(kind.Title())
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.cache.Active(kind); ok {
		return nil, ErrAlreadyActive.Fmt(kind.Title())
	}

	now := m.now()

	start := now
	if !at.IsZero() {
		start = timeutil.Millis(at)
		if start.After(now) {
			return nil, errFutureStart.Fmt(start.Format(time.DateTime))
		}
	}

	rec, err := models.New(kind, meta, start)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "timer started",
		slog.String("id", rec.ID),
		slog.String("kind", string(kind)),
	)

	return rec.Clone(), m.commit(ctx, rec)
}

// Pause freezes a running timer. Pausing a paused timer does nothing.
func (m *Manager) Pause(ctx context.Context, rec *models.Record) (*models.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cur, err := m.current(rec)
	if err != nil {
		return nil, err
	}

	if cur.IsPaused {
		return cur, nil
	}

	now := m.now()
	cur.IsPaused = true
	cur.PauseStartTime = &now

	return cur.Clone(), m.commit(ctx, cur)
}

// Resume restarts a paused timer, adding the pause to its paused total.
// Resuming a running timer does nothing.
func (m *Manager) Resume(ctx context.Context, rec *models.Record) (*models.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cur, err := m.current(rec)
	if err != nil {
		return nil, err
	}

	if !cur.IsPaused {
		return cur, nil
	}

	m.endPause(cur, m.now())

	return cur.Clone(), m.commit(ctx, cur)
}

// Toggle pauses a running timer and resumes a paused one.
func (m *Manager) Toggle(ctx context.Context, rec *models.Record) (*models.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cur, err := m.current(rec)
	if err != nil {
		return nil, err
	}

	now := m.now()

	if cur.IsPaused {
		m.endPause(cur, now)
	} else {
		cur.IsPaused = true
		cur.PauseStartTime = &now
	}

	return cur.Clone(), m.commit(ctx, cur)
}

// Stop closes the timer and returns its final duration. A paused timer ends
// at the instant it was paused.
func (m *Manager) Stop(ctx context.Context, rec *models.Record) (time.Duration, error) {
	stopped, d, err := m.stop(ctx, rec)

	if stopped != nil && m.onStop != nil &&
		(err == nil || errors.Is(err, ErrPersistence)) {
		m.onStop(ctx, stopped, d)
	}

	return d, err
}

func (m *Manager) stop(
	ctx context.Context,
	rec *models.Record,
) (*models.Record, time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cur, err := m.current(rec)
	if err != nil {
		return nil, 0, err
	}

	end := m.now()
	if cur.IsPaused && cur.PauseStartTime != nil {
		end = *cur.PauseStartTime
	}

	cur.EndTime = &end
	cur.IsPaused = false
	cur.PauseStartTime = nil

	d := FinalDuration(cur)

	slog.InfoContext(ctx, "timer stopped",
		slog.String("id", cur.ID),
		slog.String("kind", string(cur.Kind)),
		slog.Duration("duration", d),
	)

	return cur.Clone(), d, m.commit(ctx, cur)
}

// SwitchSide changes the side of a running breastfeeding session.
func (m *Manager) SwitchSide(
	ctx context.Context,
	rec *models.Record,
	side models.Side,
) (*models.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cur, err := m.current(rec)
	if err != nil {
		return nil, err
	}

	return m.switchSide(ctx, cur, side)
}

// NextSide moves a running breastfeeding session to the next side in the
// left, right, both cycle.
func (m *Manager) NextSide(ctx context.Context, rec *models.Record) (*models.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cur, err := m.current(rec)
	if err != nil {
		return nil, err
	}

	if cur.Breastfeeding == nil {
		return nil, errNotBreastfeeding
	}

	return m.switchSide(ctx, cur, cur.Breastfeeding.Side.Next())
}

func (m *Manager) switchSide(
	ctx context.Context,
	cur *models.Record,
	side models.Side,
) (*models.Record, error) {
	if cur.Kind != models.KindBreastfeeding || cur.Breastfeeding == nil {
		return nil, errNotBreastfeeding
	}

	if !side.Valid() {
		return nil, errInvalidCorrection.Wrap(errors.New("unknown side " + string(side)))
	}

	if cur.Breastfeeding.Side == side {
		return cur, nil
	}

	cur.Breastfeeding.Side = side

	return cur.Clone(), m.commit(ctx, cur)
}

// Log records an instant feeding at the given instant, or now when zero.
func (m *Manager) Log(
	ctx context.Context,
	kind models.Kind,
	meta models.Metadata,
	at time.Time,
) (*models.Record, error) {
	if kind.Timed() {
		return nil, errNotInstant.Fmt(kind.Title())
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	when := m.now()
	if !at.IsZero() {
		when = timeutil.Millis(at)
	}

	rec, err := models.New(kind, meta, when)
	if err != nil {
		return nil, err
	}

	return rec.Clone(), m.commit(ctx, rec)
}

// Correction rewrites recorded fields directly, bypassing pause accounting.
// Nil fields are left unchanged.
type Correction struct {
	Start     *time.Time
	End       *time.Time
	Location  *string
	Notes     *string
	AmountML  *int
	Side      models.Side
	SleepType models.SleepType
}

// Correct applies c to the record with the given id. Setting an end time on
// an open record closes it.
func (m *Manager) Correct(
	ctx context.Context,
	id string,
	c Correction,
) (*models.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cur, ok := m.cache.Get(id)
	if !ok {
		return nil, errRecordNotFound.Fmt(id)
	}

	if c.Start != nil {
		cur.StartTime = timeutil.Millis(*c.Start)

		if !cur.Kind.Timed() {
			end := cur.StartTime
			cur.EndTime = &end
		}
	}

	if c.End != nil && cur.Kind.Timed() {
		end := timeutil.Millis(*c.End)
		cur.EndTime = &end
		cur.IsPaused = false
		cur.PauseStartTime = nil
	}

	if cur.EndTime != nil && cur.EndTime.Before(cur.StartTime) {
		return nil, errInvalidCorrection.Wrap(errors.New("end time is before start time"))
	}

	if c.Notes != nil {
		cur.Notes = *c.Notes
	}

	switch {
	case cur.Breastfeeding != nil && c.Side != "":
		cur.Breastfeeding.Side = c.Side
	case cur.Sleep != nil:
		if c.SleepType != "" {
			cur.Sleep.Type = c.SleepType
		}

		if c.Location != nil {
			cur.Sleep.Location = *c.Location
		}
	case cur.Bottle != nil && c.AmountML != nil:
		cur.Bottle.AmountML = *c.AmountML
	case cur.Formula != nil && c.AmountML != nil:
		cur.Formula.AmountML = *c.AmountML
	}

	if err := cur.Validate(); err != nil {
		return nil, errInvalidCorrection.Wrap(err)
	}

	return cur.Clone(), m.commit(ctx, cur)
}

// Delete removes a record. Deleting a running timer takes it off the live
// display.
func (m *Manager) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cur, ok := m.cache.Get(id)
	if !ok {
		return errRecordNotFound.Fmt(id)
	}

	m.cache.Remove(id)

	var err error

	if perr := m.store.Delete(id); perr != nil {
		slog.ErrorContext(ctx, "deleting record failed",
			slog.String("id", id),
			slog.Any("error", perr),
		)

		err = ErrPersistence.Wrap(perr)
	}

	if cur.Active() {
		end := m.now()
		cur.EndTime = &end
		cur.IsPaused = false
		cur.PauseStartTime = nil

		m.syncLive(ctx, cur)
	}

	return err
}

// Reconcile brings the live display in line with the records. It is called
// when the application becomes active. A display bound to an open timer is
// refreshed, one bound to a closed or deleted session is ended, and an
// unbound display shows the most recently started open timer.
func (m *Manager) Reconcile(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.live == nil {
		return
	}

	if id, ok := m.live.Session(ctx); ok {
		rec, found := m.cache.Get(id)
		if found {
			// a closed record ends the display and hands it to another
			// open timer
			m.syncLive(ctx, rec)
			return
		}

		slog.DebugContext(ctx, "live display bound to a deleted record",
			slog.String("session_id", id),
		)

		m.logLive(ctx, m.live.Stop(ctx))
	}

	if rec := m.latestActive(); rec != nil {
		m.syncLive(ctx, rec)
	}
}

// latestActive returns the open timer that started last.
func (m *Manager) latestActive() *models.Record {
	var latest *models.Record

	for _, kind := range models.TimedKinds {
		rec, ok := m.cache.Active(kind)
		if ok && (latest == nil || rec.StartTime.After(latest.StartTime)) {
			latest = rec
		}
	}

	return latest
}

// current resolves rec against the cache, which holds the latest local
// state.
func (m *Manager) current(rec *models.Record) (*models.Record, error) {
	if rec == nil {
		return nil, ErrNotRunning
	}

	cur, ok := m.cache.Get(rec.ID)
	if !ok {
		cur = rec.Clone()
	}

	if !cur.Active() || !cur.Kind.Timed() {
		return nil, ErrNotRunning
	}

	return cur, nil
}

func (m *Manager) endPause(rec *models.Record, now time.Time) {
	if rec.PauseStartTime != nil {
		paused := now.Sub(*rec.PauseStartTime).Milliseconds()
		if paused > 0 {
			rec.TotalPausedMs += paused
		}
	}

	rec.IsPaused = false
	rec.PauseStartTime = nil
}

// commit caches, persists and mirrors rec. The cached state is kept when the
// write fails.
func (m *Manager) commit(ctx context.Context, rec *models.Record) error {
	if slog.Default().Enabled(ctx, slog.LevelDebug) {
		slog.DebugContext(ctx, "committing record", slog.String("record", spew.Sdump(rec)))
	}

	m.cache.Upsert(rec)

	var err error

	if perr := m.store.Put(rec); perr != nil {
		slog.ErrorContext(ctx, "persisting record failed",
			slog.String("id", rec.ID),
			slog.Any("error", perr),
		)

		err = ErrPersistence.Wrap(perr)
	}

	m.syncLive(ctx, rec)

	return err
}

// syncLive updates the live display. When rec has closed, another open
// timer takes over the display.
func (m *Manager) syncLive(ctx context.Context, rec *models.Record) {
	if m.live == nil {
		return
	}

	m.logLive(ctx, m.live.Sync(ctx, rec))

	if rec.Active() {
		return
	}

	for _, kind := range models.TimedKinds {
		if other, ok := m.cache.Active(kind); ok && other.ID != rec.ID {
			m.logLive(ctx, m.live.Sync(ctx, other))
			return
		}
	}
}

func (m *Manager) logLive(ctx context.Context, err error) {
	if err == nil {
		return
	}

	slog.DebugContext(ctx, "live display not updated", slog.Any("error", err))
}
