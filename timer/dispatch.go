package timer

import (
	"context"
	"errors"
	"log/slog"

	"github.com/trueinspo/babytimer/internal/models"
	"github.com/trueinspo/babytimer/mailbox"
)

// Drain takes the pending surface command, if any, and applies it as if the
// user had issued it locally. A command that cannot be read is dropped. The
// returned command is nil when there was nothing to process.
func (m *Manager) Drain(ctx context.Context, box *mailbox.Mailbox) (*mailbox.Command, error) {
	cmd, err := box.Take(ctx)
	if errors.Is(err, mailbox.ErrCorruptCommand) {
		slog.WarnContext(ctx, "dropped unreadable surface command", slog.Any("error", err))
		return nil, nil
	}

	if err != nil || cmd == nil {
		return nil, err
	}

	slog.InfoContext(ctx, "processing surface command",
		slog.String("action", string(cmd.Action)),
		slog.String("session_id", cmd.SessionID),
		slog.String("timer_kind", string(cmd.TimerKind)),
	)

	err = m.HandleCommand(ctx, cmd)
	if errors.Is(err, ErrNotRunning) {
		slog.DebugContext(ctx, "surface command targets no running timer",
			slog.String("session_id", cmd.SessionID),
		)

		return cmd, nil
	}

	return cmd, err
}

// HandleCommand applies cmd to the timer it names. Commands for a session
// that has already closed are ignored with ErrNotRunning.
func (m *Manager) HandleCommand(ctx context.Context, cmd *mailbox.Command) error {
	rec := m.target(cmd)
	if rec == nil {
		return ErrNotRunning
	}

	switch cmd.Action {
	case mailbox.ActionTogglePause:
		_, err := m.Toggle(ctx, rec)
		return err
	case mailbox.ActionStop:
		_, err := m.Stop(ctx, rec)
		return err
	}

	return errUnknownAction.Fmt(cmd.Action)
}

func (m *Manager) target(cmd *mailbox.Command) *models.Record {
	if cmd.SessionID != "" {
		rec, ok := m.cache.Get(cmd.SessionID)
		if !ok || !rec.Active() {
			return nil
		}

		return rec
	}

	if cmd.TimerKind != "" {
		rec, _ := m.cache.Active(cmd.TimerKind)
		return rec
	}

	for _, kind := range models.TimedKinds {
		if rec, ok := m.cache.Active(kind); ok {
			return rec
		}
	}

	return nil
}
