package timer

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"github.com/trueinspo/babytimer/internal/models"
	"github.com/trueinspo/babytimer/internal/timeutil"
)

func (w *Watch) title(rec *models.Record) string {
	title := w.titles[rec.Kind]
	if title == "" {
		title = rec.Kind.Title()
	}

	switch {
	case rec.Breastfeeding != nil:
		title += " (" + string(rec.Breastfeeding.Side) + ")"
	case rec.Sleep != nil:
		title += " (" + string(rec.Sleep.Type) + ")"
	}

	return title
}

func (w *Watch) timerView(rec *models.Record, focused bool) string {
	var s strings.Builder

	heading := w.style.Kinds[rec.Kind].Render(w.title(rec))
	if focused && len(w.active) > 1 {
		heading = "> " + heading
	}

	s.WriteString(heading)
	s.WriteString(" ")

	if rec.IsPaused {
		s.WriteString(w.style.Paused.Render("[Paused]"))
	} else {
		s.WriteString(w.style.Hint.Render("since " + rec.StartTime.Format(w.timeFormat)))
	}

	s.WriteString("\n\n")
	s.WriteString(w.style.Clock.Render(
		timeutil.FormatTimer(RecordElapsed(rec, w.clock)),
	))

	return s.String()
}

func (w *Watch) helpView() string {
	bindings := []key.Binding{
		defaultKeymap.togglePause,
		defaultKeymap.stop,
	}

	if rec := w.focused(); rec != nil && rec.Kind == models.KindBreastfeeding {
		bindings = append(bindings, defaultKeymap.switchSide)
	}

	if len(w.active) > 1 {
		bindings = append(bindings, defaultKeymap.focus)
	}

	bindings = append(bindings, defaultKeymap.quit)

	return w.help.ShortHelpView(bindings)
}

func (w *Watch) View() string {
	if len(w.active) == 0 {
		msg := w.done
		if msg == "" {
			msg = "No timer is running"
		}

		return w.style.Base.Render(msg) + "\n"
	}

	views := make([]string, 0, len(w.active)+2)

	for i, rec := range w.active {
		views = append(views, w.timerView(rec, i == w.focus))
	}

	if w.err != nil {
		views = append(views, w.style.Error.Render(w.err.Error()))
	}

	views = append(views, w.helpView())

	return w.style.Base.Render(strings.Join(views, "\n\n"))
}
