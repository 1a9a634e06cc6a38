package timer

import (
	"time"

	"github.com/trueinspo/babytimer/internal/models"
)

// Elapsed returns the running time of a timer that started at start and has
// accumulated totalPaused. While paused the clock is frozen at pauseStart.
// The result is never negative: clock skew or a corrupted paused total yields
// zero.
func Elapsed(
	start time.Time,
	totalPaused time.Duration,
	paused bool,
	pauseStart *time.Time,
	now time.Time,
) time.Duration {
	ref := now
	if paused && pauseStart != nil {
		ref = *pauseStart
	}

	d := ref.Sub(start) - totalPaused
	if d < 0 {
		return 0
	}

	return d
}

// RecordElapsed returns the elapsed time of rec at now. For a closed record
// this is its final duration.
func RecordElapsed(rec *models.Record, now time.Time) time.Duration {
	if rec == nil {
		return 0
	}

	if rec.EndTime != nil {
		return FinalDuration(rec)
	}

	return Elapsed(
		rec.StartTime,
		rec.TotalPaused(),
		rec.IsPaused,
		rec.PauseStartTime,
		now,
	)
}

// FinalDuration is end - start - paused for a closed record, clamped at zero.
func FinalDuration(rec *models.Record) time.Duration {
	if rec == nil || rec.EndTime == nil {
		return 0
	}

	return Elapsed(rec.StartTime, rec.TotalPaused(), false, nil, *rec.EndTime)
}
