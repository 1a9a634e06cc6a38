package live

import (
	"context"
	"log/slog"
	"time"

	"github.com/trueinspo/babytimer/mailbox"
)

// Controls are the buttons rendered next to a KVSurface display. They run
// outside the application: each one posts a command for the application to
// process and patches the display optimistically in the meantime.
type Controls struct {
	box     *mailbox.Mailbox
	surface *KVSurface
	now     func() time.Time
}

// NewControls returns the controls for surface.
func NewControls(box *mailbox.Mailbox, surface *KVSurface) *Controls {
	return &Controls{
		box:     box,
		surface: surface,
		now:     time.Now,
	}
}

// TogglePause asks the application to pause or resume the displayed timer.
func (c *Controls) TogglePause(ctx context.Context) error {
	st, err := c.post(ctx, mailbox.ActionTogglePause)
	if err != nil || st == nil || st.Phase != PhaseActive {
		return err
	}

	patched := st.Effective().Toggled(c.now())
	st.Speculative = &patched

	return c.surface.Save(ctx, st)
}

// Stop asks the application to stop the displayed timer and hides the
// display right away.
func (c *Controls) Stop(ctx context.Context) error {
	st, err := c.post(ctx, mailbox.ActionStop)
	if err != nil || st == nil || st.Phase != PhaseActive {
		return err
	}

	now := c.now()
	ended := Ended(now)

	st.Phase = PhaseEnded
	st.Speculative = &ended
	st.DismissAt = &now

	return c.surface.Save(ctx, st)
}

// post writes the command, tagged with the displayed session when there is
// one, and returns the stored display.
func (c *Controls) post(
	ctx context.Context,
	action mailbox.Action,
) (*SurfaceState, error) {
	st, err := c.surface.Load(ctx)
	if err != nil {
		slog.WarnContext(ctx, "live display unreadable, posting command without session",
			slog.Any("error", err),
		)

		st = nil
	}

	cmd := mailbox.Command{
		Action:   action,
		PostedAt: c.now(),
	}

	if st != nil && st.Phase == PhaseActive {
		cmd.SessionID = st.Attributes.SessionID
		cmd.TimerKind = st.Attributes.TimerKind
	}

	if err := c.box.Post(ctx, cmd); err != nil {
		return nil, err
	}

	return st, nil
}
