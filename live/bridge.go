package live

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/trueinspo/babytimer/internal/models"
)

// Bridge mirrors at most one open record onto a Surface.
type Bridge struct {
	surface      Surface
	current      Activity
	now          func() time.Time
	titles       map[models.Kind]string
	dismissAfter time.Duration
	mu           sync.Mutex
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithTitles sets the display title used for each kind.
func WithTitles(titles map[models.Kind]string) Option {
	return func(b *Bridge) {
		for k, v := range titles {
			b.titles[k] = v
		}
	}
}

// WithDismissAfter sets how long the terminal state stays visible after Stop.
func WithDismissAfter(d time.Duration) Option {
	return func(b *Bridge) {
		b.dismissAfter = d
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(b *Bridge) {
		b.now = now
	}
}

// NewBridge returns a bridge for surface.
func NewBridge(surface Surface, opts ...Option) *Bridge {
	b := &Bridge{
		surface: surface,
		now:     time.Now,
		titles: map[models.Kind]string{
			models.KindBreastfeeding: "Feeding",
			models.KindSleep:         "Sleeping",
		},
		dismissAfter: 4 * time.Second,
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Title returns the display title for kind.
func (b *Bridge) Title(kind models.Kind) string {
	if t, ok := b.titles[kind]; ok {
		return t
	}

	return kind.Title()
}

// StartOrUpdate shows rec on the surface. A display bound to another session
// is ended first; a display bound to rec is updated in place.
func (b *Bridge) StartOrUpdate(ctx context.Context, rec *models.Record) error {
	if !b.surface.Supported() {
		return ErrLiveSurfaceUnavailable
	}

	now := b.now()
	state := Snapshot(rec, b.Title(rec.Kind), now)

	b.mu.Lock()
	defer b.mu.Unlock()

	b.attach(ctx)

	if b.current != nil {
		if b.current.Attributes().SessionID == rec.ID {
			err := b.current.Update(ctx, state)
			if err == nil {
				return nil
			}

			slog.DebugContext(ctx, "live display update failed, requesting a new one",
				slog.String("session_id", rec.ID),
				slog.Any("error", err),
			)
		} else {
			err := b.current.End(ctx, Ended(now), Immediate)
			if err != nil {
				slog.DebugContext(ctx, "ending previous live display failed",
					slog.Any("error", err),
				)
			}
		}

		b.current = nil
	}

	act, err := b.surface.Request(ctx, Attributes{
		SessionID: rec.ID,
		TimerKind: rec.Kind,
	}, state)
	if err != nil {
		return ErrLiveSurfaceUnavailable.Wrap(err)
	}

	b.current = act

	return nil
}

// Stop ends the active display with the terminal state, which stays visible
// for the configured dismissal delay.
func (b *Bridge) Stop(ctx context.Context) error {
	if !b.surface.Supported() {
		return ErrLiveSurfaceUnavailable
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.attach(ctx)

	return b.endCurrent(ctx)
}

// Sync shows rec while it is open. Once closed, the display bound to it is
// stopped; a display showing another session is left alone.
func (b *Bridge) Sync(ctx context.Context, rec *models.Record) error {
	if rec.Active() {
		return b.StartOrUpdate(ctx, rec)
	}

	if !b.surface.Supported() {
		return ErrLiveSurfaceUnavailable
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.attach(ctx)

	if b.current == nil || b.current.Attributes().SessionID != rec.ID {
		return nil
	}

	return b.endCurrent(ctx)
}

// Current returns the attributes of the display the bridge is driving.
func (b *Bridge) Current() (Attributes, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.current == nil {
		return Attributes{}, false
	}

	return b.current.Attributes(), true
}

// Session returns the session of the display the bridge drives, adopting a
// display left behind by an earlier process.
func (b *Bridge) Session(ctx context.Context) (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.attach(ctx)

	if b.current == nil {
		return "", false
	}

	return b.current.Attributes().SessionID, true
}

func (b *Bridge) endCurrent(ctx context.Context) error {
	if b.current == nil {
		return nil
	}

	act := b.current
	b.current = nil

	err := act.End(ctx, Ended(b.now()), DismissalPolicy{After: b.dismissAfter})
	if err != nil {
		return ErrLiveSurfaceUnavailable.Wrap(err)
	}

	return nil
}

// attach adopts a display left behind by an earlier process.
func (b *Bridge) attach(ctx context.Context) {
	if b.current != nil {
		return
	}

	a, ok := b.surface.(Attacher)
	if !ok {
		return
	}

	act, found, err := a.Current(ctx)
	if err != nil {
		slog.DebugContext(ctx, "reading current live display failed",
			slog.Any("error", err),
		)

		return
	}

	if found {
		b.current = act
	}
}
