// Package live keeps a live countdown display in step with the running timer
// record. A display can only show one session at a time and renders its own
// clock between pushes.
package live

import (
	"context"
	"time"

	"github.com/trueinspo/babytimer/internal/apperr"
)

var ErrLiveSurfaceUnavailable = &apperr.Error{
	Message: "live display unavailable",
}

var errActivityGone = &apperr.Error{
	Message: "live display %s is no longer active",
}

// DismissalPolicy controls how long an ended display stays visible.
type DismissalPolicy struct {
	After time.Duration
}

// Immediate removes the display as soon as it ends.
var Immediate = DismissalPolicy{}

// Surface hosts live displays.
type Surface interface {
	// Supported reports whether the host can show a display right now.
	Supported() bool
	Request(ctx context.Context, attrs Attributes, state ContentState) (Activity, error)
}

// Activity is a handle to a display created by Request.
type Activity interface {
	Attributes() Attributes
	Update(ctx context.Context, state ContentState) error
	End(ctx context.Context, state ContentState, policy DismissalPolicy) error
}

// Attacher is implemented by surfaces whose displays outlive the process
// that created them. Current returns the display that is still visible.
type Attacher interface {
	Current(ctx context.Context) (Activity, bool, error)
}

// Unsupported is a surface with no display capability.
type Unsupported struct{}

func (Unsupported) Supported() bool {
	return false
}

func (Unsupported) Request(
	context.Context,
	Attributes,
	ContentState,
) (Activity, error) {
	return nil, ErrLiveSurfaceUnavailable
}
