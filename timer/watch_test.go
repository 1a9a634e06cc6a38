package timer

import (
	"context"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trueinspo/babytimer/internal/models"
	"github.com/trueinspo/babytimer/internal/state"
	"github.com/trueinspo/babytimer/internal/testutil"
	"github.com/trueinspo/babytimer/mailbox"
)

type countingStore struct {
	puts int
	mu   sync.Mutex
}

func (s *countingStore) Put(*models.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.puts++

	return nil
}

func (s *countingStore) Delete(string) error {
	return nil
}

func (s *countingStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.puts
}

type watchFixture struct {
	store   *countingStore
	manager *Manager
	clock   *testutil.Clock
	stopped []time.Duration
}

func newWatchFixture(t *testing.T, kinds ...models.Kind) *watchFixture {
	t.Helper()

	f := &watchFixture{
		store: &countingStore{},
		clock: &testutil.Clock{T: testutil.Day(9, 0)},
	}

	f.manager = NewManager(f.store, state.NewCache(),
		WithClock(f.clock.Now),
		OnStop(func(_ context.Context, _ *models.Record, d time.Duration) {
			f.stopped = append(f.stopped, d)
		}),
	)

	for _, kind := range kinds {
		_, err := f.manager.Start(context.Background(), kind, models.Metadata{})
		require.NoError(t, err)
	}

	return f
}

func press(k string) tea.KeyMsg {
	if k == "tab" {
		return tea.KeyMsg{Type: tea.KeyTab}
	}

	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// feed runs a command returned by the model and feeds its message back.
func feed(t *testing.T, w *Watch, cmd tea.Cmd) tea.Cmd {
	t.Helper()

	require.NotNil(t, cmd)

	_, next := w.Update(cmd())

	return next
}

func TestWatchTickDoesNotPersist(t *testing.T) {
	f := newWatchFixture(t, models.KindBreastfeeding)
	w := NewWatch(f.manager, WithWatchClock(f.clock.Now))

	puts := f.store.count()

	for i := 1; i <= 65; i++ {
		_, cmd := w.Update(tickMsg(f.clock.T.Add(time.Duration(i) * time.Second)))
		assert.NotNil(t, cmd)
	}

	assert.Equal(t, puts, f.store.count())
	assert.Contains(t, w.View(), "00:01:05")
	assert.Contains(t, w.View(), "Feeding (left)")
}

func TestWatchTogglePause(t *testing.T) {
	f := newWatchFixture(t, models.KindSleep)
	w := NewWatch(f.manager)

	f.clock.Advance(10 * time.Minute)

	_, cmd := w.Update(press("p"))
	require.NotNil(t, cmd)

	// a second press while the first is in flight is ignored
	_, again := w.Update(press("p"))
	assert.Nil(t, again)

	feed(t, w, cmd)

	require.Len(t, w.Active(), 1)
	assert.True(t, w.Active()[0].IsPaused)

	_, _ = w.Update(tickMsg(f.clock.T.Add(time.Hour)))
	assert.Contains(t, w.View(), "[Paused]")
	assert.Contains(t, w.View(), "00:10:00")
}

func TestWatchStopLastTimerQuits(t *testing.T) {
	f := newWatchFixture(t, models.KindBreastfeeding)

	w := NewWatch(f.manager)

	f.clock.Advance(25 * time.Minute)

	_, cmd := w.Update(press("s"))
	next := feed(t, w, cmd)

	require.NotNil(t, next)
	assert.IsType(t, tea.QuitMsg{}, next())

	assert.Equal(t, []time.Duration{25 * time.Minute}, f.stopped)
	assert.Empty(t, w.Active())
	assert.Contains(t, w.View(), "Feeding complete (25m)")
}

func TestWatchStopKeepsOtherTimer(t *testing.T) {
	f := newWatchFixture(t, models.KindBreastfeeding, models.KindSleep)
	w := NewWatch(f.manager)

	require.Len(t, w.Active(), 2)

	// focus the sleep timer and stop it
	_, _ = w.Update(press("tab"))
	assert.Equal(t, models.KindSleep, w.focused().Kind)

	_, cmd := w.Update(press("s"))
	next := feed(t, w, cmd)

	assert.Nil(t, next)
	require.Len(t, w.Active(), 1)
	assert.Equal(t, models.KindBreastfeeding, w.Active()[0].Kind)
}

func TestWatchSwitchSide(t *testing.T) {
	f := newWatchFixture(t, models.KindBreastfeeding, models.KindSleep)
	w := NewWatch(f.manager)

	_, cmd := w.Update(press("w"))
	feed(t, w, cmd)

	rec, ok := f.manager.Active(models.KindBreastfeeding)
	require.True(t, ok)
	assert.Equal(t, models.SideRight, rec.Breastfeeding.Side)

	// sleep timers have no side
	_, _ = w.Update(press("tab"))
	_, cmd = w.Update(press("w"))
	assert.Nil(t, cmd)
}

func TestWatchDrainsMailbox(t *testing.T) {
	ctx := context.Background()
	box := mailbox.New(mailbox.NewMemory())

	f := newWatchFixture(t, models.KindSleep)
	w := NewWatch(f.manager, WithMailbox(box, 500*time.Millisecond))

	require.NoError(t, box.Post(ctx, mailbox.Command{Action: mailbox.ActionTogglePause}))

	_, cmd := w.Update(pollMsg{})
	next := feed(t, w, cmd)

	assert.NotNil(t, next, "polling continues")
	require.Len(t, w.Active(), 1)
	assert.True(t, w.Active()[0].IsPaused)

	require.NoError(t, box.Post(ctx, mailbox.Command{Action: mailbox.ActionStop}))

	_, cmd = w.Update(pollMsg{})
	next = feed(t, w, cmd)

	require.NotNil(t, next)
	assert.IsType(t, tea.QuitMsg{}, next())
	assert.Empty(t, w.Active())

	// a stop from the mailbox reaches the stop hook like a key press
	assert.Len(t, f.stopped, 1)
}

func TestWatchNoTimers(t *testing.T) {
	f := newWatchFixture(t)
	w := NewWatch(f.manager)

	assert.Contains(t, w.View(), "No timer is running")

	_, cmd := w.Update(press("p"))
	assert.Nil(t, cmd)
}
