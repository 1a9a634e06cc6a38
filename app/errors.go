package app

import "github.com/trueinspo/babytimer/internal/apperr"

var (
	errUnknownTimer = &apperr.Error{
		Message: "unknown timer %q: expected feeding or sleep",
	}

	errUnknownLogKind = &apperr.Error{
		Message: "unknown feeding %q: expected bottle or formula",
	}

	errUnknownCollection = &apperr.Error{
		Message: "unknown log %q: expected feedings or sleeps",
	}

	errMissingID = &apperr.Error{
		Message: "a record id is required (see 'babytimer list')",
	}

	errNoMatch = &apperr.Error{
		Message: "no record matches %q",
	}

	errAmbiguousID = &apperr.Error{
		Message: "%q matches %d records: type more of the id",
	}

	errInvalidSide = &apperr.Error{
		Message: "unknown side %q: expected left, right or both",
	}

	errInvalidSleepType = &apperr.Error{
		Message: "unknown sleep type %q: expected nap or night",
	}

	errMissingAmount = &apperr.Error{
		Message: "an amount is required: pass --amount or use --interactive",
	}

	errInvalidDate = &apperr.Error{
		Message: "invalid date",
	}

	errSessionCmd = &apperr.Error{
		Message: "session command failed",
	}
)
