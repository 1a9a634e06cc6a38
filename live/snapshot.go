package live

import (
	"time"

	"github.com/trueinspo/babytimer/internal/models"
	"github.com/trueinspo/babytimer/timer"
)

// EndedTitle is shown by a display in its terminal state.
const EndedTitle = "Timer complete"

// Attributes identify the session a display is bound to. They never change
// for the lifetime of a display.
type Attributes struct {
	SessionID string      `json:"session_id"`
	TimerKind models.Kind `json:"timer_kind"`
}

// ContentState is the snapshot a display renders. While running, the display
// counts up from Reference() on its own clock. While paused it shows the
// frozen PausedElapsedSeconds.
type ContentState struct {
	StartDate            time.Time  `json:"start_date"`
	PausedAt             *time.Time `json:"paused_at,omitempty"`
	Title                string     `json:"title"`
	TotalPausedSeconds   int64      `json:"total_paused_seconds"`
	PausedElapsedSeconds int64      `json:"paused_elapsed_seconds"`
	Paused               bool       `json:"paused"`
}

// Snapshot derives the content state of rec at now.
func Snapshot(rec *models.Record, title string, now time.Time) ContentState {
	state := ContentState{
		Title:              title,
		StartDate:          rec.StartTime,
		TotalPausedSeconds: int64(rec.TotalPaused() / time.Second),
		Paused:             rec.IsPaused,
	}

	if rec.IsPaused {
		elapsed := timer.RecordElapsed(rec, now)
		state.PausedElapsedSeconds = int64(elapsed / time.Second)

		if rec.PauseStartTime != nil {
			t := *rec.PauseStartTime
			state.PausedAt = &t
		}
	}

	return state
}

// Ended returns the terminal state shown after a timer stops.
func Ended(now time.Time) ContentState {
	return ContentState{
		Title:     EndedTitle,
		StartDate: now,
		Paused:    true,
	}
}

// Reference is the instant the display counts up from while running.
func (s ContentState) Reference() time.Time {
	return s.StartDate.Add(time.Duration(s.TotalPausedSeconds) * time.Second)
}

// Render returns the elapsed time the display shows at now.
func (s ContentState) Render(now time.Time) time.Duration {
	if s.Paused {
		return time.Duration(s.PausedElapsedSeconds) * time.Second
	}

	d := now.Sub(s.Reference())
	if d < 0 {
		return 0
	}

	return d
}

// Toggled applies pause or resume arithmetic to the cached state, as a
// surface control does before the application has confirmed the change.
func (s ContentState) Toggled(now time.Time) ContentState {
	next := s

	if s.Paused {
		if s.PausedAt != nil {
			next.TotalPausedSeconds += int64(now.Sub(*s.PausedAt) / time.Second)
		}

		next.Paused = false
		next.PausedElapsedSeconds = 0
		next.PausedAt = nil

		return next
	}

	next.Paused = true
	next.PausedElapsedSeconds = int64(s.Render(now) / time.Second)
	next.PausedAt = &now

	return next
}
