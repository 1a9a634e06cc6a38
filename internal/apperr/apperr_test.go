package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

var (
	errSentinel = &Error{Message: "record %s not found"}
	errOther    = &Error{Message: "record %s not found"}
)

func TestErrorIs(t *testing.T) {
	formatted := errSentinel.Fmt("abc")

	assert.Equal(t, "record abc not found", formatted.Error())
	assert.ErrorIs(t, formatted, errSentinel)
	assert.NotErrorIs(t, formatted, errOther)

	wrapped := fmt.Errorf("saving: %w", formatted)
	assert.ErrorIs(t, wrapped, errSentinel)
}

func TestErrorWrap(t *testing.T) {
	cause := errors.New("disk full")

	err := errOther.Wrap(cause)

	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, errOther)
	assert.Equal(t, "record %s not found: disk full", err.Error())
}
