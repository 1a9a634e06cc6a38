package timer

import "github.com/trueinspo/babytimer/internal/apperr"

var (
	ErrAlreadyActive = &apperr.Error{
		Message: "a %s timer is already running: stop it before starting another",
	}

	ErrNotRunning = &apperr.Error{
		Message: "no timer is running",
	}

	ErrPersistence = &apperr.Error{
		Message: "saving the record failed; changes are kept locally",
	}

	errNotTimed = &apperr.Error{
		Message: "%s entries are not timed",
	}

	errNotInstant = &apperr.Error{
		Message: "%s entries must be started as a timer",
	}

	errFutureStart = &apperr.Error{
		Message: "start time %s is in the future",
	}

	errRecordNotFound = &apperr.Error{
		Message: "record %s not found",
	}

	errNotBreastfeeding = &apperr.Error{
		Message: "only breastfeeding sessions have a side",
	}

	errInvalidCorrection = &apperr.Error{
		Message: "invalid correction",
	}

	errUnknownAction = &apperr.Error{
		Message: "unknown command action %q",
	}
)
