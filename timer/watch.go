package timer

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/trueinspo/babytimer/internal/models"
	"github.com/trueinspo/babytimer/mailbox"
)

const (
	padding  = 2
	maxWidth = 60
)

// Style holds the lipgloss styles of the watch view.
type Style struct {
	Base   lipgloss.Style
	Clock  lipgloss.Style
	Hint   lipgloss.Style
	Paused lipgloss.Style
	Error  lipgloss.Style
	Kinds  map[models.Kind]lipgloss.Style
}

// DefaultStyle returns the watch styles for a dark or light terminal.
func DefaultStyle(dark bool) Style {
	hint := lipgloss.Color("#7D7D7D")
	if !dark {
		hint = lipgloss.Color("#4A4A4A")
	}

	return Style{
		Base:   lipgloss.NewStyle().Padding(1, padding),
		Clock:  lipgloss.NewStyle().Bold(true),
		Hint:   lipgloss.NewStyle().Foreground(hint),
		Paused: lipgloss.NewStyle().Foreground(lipgloss.Color("#F2C14E")).Bold(true),
		Error:  lipgloss.NewStyle().Foreground(lipgloss.Color("#E94F37")),
		Kinds: map[models.Kind]lipgloss.Style{
			models.KindBreastfeeding: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C492B1")),
			models.KindSleep:         lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#12EAEA")),
		},
	}
}

type (
	tickMsg time.Time

	pollMsg struct{}

	// drainedMsg reports the outcome of taking a command from the mailbox.
	drainedMsg struct {
		cmd *mailbox.Command
		err error
	}

	// opDoneMsg reports the outcome of an operation started by a key press.
	opDoneMsg struct {
		rec     *models.Record
		err     error
		stopped time.Duration
		kind    models.Kind
		stop    bool
	}

	// changedMsg is a collection snapshot delivered by the store.
	changedMsg []*models.Record
)

// Watch is the bubbletea model behind the live terminal view. It renders
// every open timer, ticking once a second without touching storage, and
// periodically drains the external action mailbox.
type Watch struct {
	manager    *Manager
	box        *mailbox.Mailbox
	updates    <-chan []*models.Record
	now        func() time.Time
	titles     map[models.Kind]string
	err        error
	clock      time.Time
	help       help.Model
	style      Style
	timeFormat string
	done       string
	active     []*models.Record
	pollEvery  time.Duration
	focus      int
	busy       bool
}

type WatchOption func(*Watch)

// WithMailbox makes the view apply commands posted by external controls.
func WithMailbox(box *mailbox.Mailbox, every time.Duration) WatchOption {
	return func(w *Watch) {
		w.box = box
		w.pollEvery = every
	}
}

// WithUpdates re-renders the view whenever the store reports a change.
func WithUpdates(ch <-chan []*models.Record) WatchOption {
	return func(w *Watch) {
		w.updates = ch
	}
}

func WithStyle(s Style) WatchOption {
	return func(w *Watch) {
		w.style = s
	}
}

func WithTimeFormat(layout string) WatchOption {
	return func(w *Watch) {
		w.timeFormat = layout
	}
}

// WithWatchTitles sets the heading shown for each kind of timer.
func WithWatchTitles(titles map[models.Kind]string) WatchOption {
	return func(w *Watch) {
		w.titles = titles
	}
}

func WithWatchClock(now func() time.Time) WatchOption {
	return func(w *Watch) {
		w.now = now
	}
}

// NewWatch returns the view model for the manager's open timers.
func NewWatch(m *Manager, opts ...WatchOption) *Watch {
	w := &Watch{
		manager:    m,
		now:        time.Now,
		help:       help.New(),
		style:      DefaultStyle(true),
		timeFormat: "03:04 PM",
		pollEvery:  time.Second,
		titles: map[models.Kind]string{
			models.KindBreastfeeding: "Feeding",
			models.KindSleep:         "Sleeping",
		},
	}

	for _, opt := range opts {
		opt(w)
	}

	w.clock = w.now()
	w.refresh()

	return w
}

func (w *Watch) Init() tea.Cmd {
	return tea.Batch(w.tick(), w.poll(), w.waitForChange())
}

func (w *Watch) tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (w *Watch) poll() tea.Cmd {
	if w.box == nil {
		return nil
	}

	return tea.Tick(w.pollEvery, func(time.Time) tea.Msg {
		return pollMsg{}
	})
}

func (w *Watch) drain() tea.Cmd {
	return func() tea.Msg {
		cmd, err := w.manager.Drain(context.Background(), w.box)
		return drainedMsg{cmd: cmd, err: err}
	}
}

func (w *Watch) waitForChange() tea.Cmd {
	if w.updates == nil {
		return nil
	}

	return func() tea.Msg {
		records, ok := <-w.updates
		if !ok {
			return nil
		}

		return changedMsg(records)
	}
}

// refresh reloads the open timers from the manager, keeping the focused
// timer selected when it is still open.
func (w *Watch) refresh() {
	var focusedID string
	if f := w.focused(); f != nil {
		focusedID = f.ID
	}

	w.active = w.active[:0]

	for _, kind := range models.TimedKinds {
		if rec, ok := w.manager.Active(kind); ok {
			w.active = append(w.active, rec)
		}
	}

	w.focus = 0

	for i, rec := range w.active {
		if rec.ID == focusedID {
			w.focus = i
		}
	}
}

func (w *Watch) focused() *models.Record {
	if w.focus < 0 || w.focus >= len(w.active) {
		return nil
	}

	return w.active[w.focus]
}

// Active returns the timers currently shown.
func (w *Watch) Active() []*models.Record {
	return w.active
}

// Err returns the last operation error shown in the view.
func (w *Watch) Err() error {
	return w.err
}
