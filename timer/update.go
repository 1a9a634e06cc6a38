package timer

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/davecgh/go-spew/spew"

	"github.com/trueinspo/babytimer/internal/models"
	"github.com/trueinspo/babytimer/internal/timeutil"
)

// run performs op on the focused timer off the render loop. Keys pressed
// while an operation is in flight are ignored.
func (w *Watch) run(
	op func(ctx context.Context, rec *models.Record) opDoneMsg,
) tea.Cmd {
	rec := w.focused()
	if rec == nil || w.busy {
		return nil
	}

	w.busy = true

	return func() tea.Msg {
		return op(context.Background(), rec)
	}
}

func (w *Watch) togglePause() tea.Cmd {
	return w.run(func(ctx context.Context, rec *models.Record) opDoneMsg {
		r, err := w.manager.Toggle(ctx, rec)
		return opDoneMsg{rec: r, err: err, kind: rec.Kind}
	})
}

func (w *Watch) stop() tea.Cmd {
	return w.run(func(ctx context.Context, rec *models.Record) opDoneMsg {
		d, err := w.manager.Stop(ctx, rec)
		return opDoneMsg{rec: rec, err: err, stopped: d, kind: rec.Kind, stop: true}
	})
}

func (w *Watch) switchSide() tea.Cmd {
	rec := w.focused()
	if rec == nil || rec.Kind != models.KindBreastfeeding {
		return nil
	}

	return w.run(func(ctx context.Context, rec *models.Record) opDoneMsg {
		r, err := w.manager.NextSide(ctx, rec)
		return opDoneMsg{rec: r, err: err, kind: rec.Kind}
	})
}

func (w *Watch) handleOpDone(msg opDoneMsg) (tea.Model, tea.Cmd) {
	w.busy = false
	w.err = nil

	switch {
	case errors.Is(msg.err, ErrNotRunning):
		slog.Debug("timer closed before the operation applied",
			slog.String("kind", string(msg.kind)))
	case msg.err != nil:
		w.err = msg.err
	}

	// a failed write still closed the cached timer
	stopped := msg.stop && (msg.err == nil || errors.Is(msg.err, ErrPersistence))

	w.refresh()

	if stopped {
		w.done = w.titles[msg.kind] + " complete (" +
			timeutil.FormatDuration(msg.stopped) + ")"
	}

	if stopped && len(w.active) == 0 {
		return w, tea.Quit
	}

	return w, nil
}

func (w *Watch) handleDrained(msg drainedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		slog.Warn("unable to read external action",
			slog.Any("error", msg.err))
	}

	w.refresh()

	if len(w.active) == 0 && msg.cmd != nil {
		w.done = "Timer stopped"
		return w, tea.Quit
	}

	return w, w.poll()
}

func (w *Watch) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, defaultKeymap.togglePause):
		return w, w.togglePause()

	case key.Matches(msg, defaultKeymap.stop):
		return w, w.stop()

	case key.Matches(msg, defaultKeymap.switchSide):
		return w, w.switchSide()

	case key.Matches(msg, defaultKeymap.focus):
		if len(w.active) > 0 {
			w.focus = (w.focus + 1) % len(w.active)
		}

		return w, nil

	case key.Matches(msg, defaultKeymap.quit):
		return w, tea.Quit
	}

	return w, nil
}

func (w *Watch) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		if _, ok := msg.(tickMsg); !ok {
			slog.Debug(spew.Sdump(msg))
		}
	}

	switch msg := msg.(type) {
	case tickMsg:
		w.clock = time.Time(msg)
		return w, w.tick()

	case pollMsg:
		return w, w.drain()

	case drainedMsg:
		return w.handleDrained(msg)

	case changedMsg:
		w.refresh()
		return w, w.waitForChange()

	case opDoneMsg:
		return w.handleOpDone(msg)

	case tea.KeyMsg:
		return w.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		w.help.Width = min(msg.Width-padding*2, maxWidth)
		return w, nil
	}

	return w, nil
}
