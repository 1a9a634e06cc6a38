package app

import (
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/trueinspo/babytimer/internal/pathutil"
	"github.com/trueinspo/babytimer/internal/timeutil"
	"github.com/trueinspo/babytimer/live"
	"github.com/trueinspo/babytimer/mailbox"
)

// The surface commands stand in for the buttons of a status bar display.
// They only touch the shared database, so they work while another
// babytimer process holds the record store.

func openSurface() (*mailbox.SQLite, *live.KVSurface, error) {
	shared, err := mailbox.OpenSQLite(pathutil.SharedDBPath())
	if err != nil {
		return nil, nil, err
	}

	return shared, live.NewKVSurface(shared), nil
}

// surfaceShowAction prints the stored display, one line, as a status bar
// would render it. Nothing is printed when no display is visible.
func surfaceShowAction(ctx *cli.Context) error {
	shared, surface, err := openSurface()
	if err != nil {
		return err
	}

	defer shared.Close()

	st, err := surface.Load(ctx.Context)
	if err != nil {
		return err
	}

	now := time.Now()

	if st == nil || !st.Visible(now) {
		return nil
	}

	fmt.Fprintln(os.Stdout, renderSurface(st, now))

	return nil
}

func renderSurface(st *live.SurfaceState, now time.Time) string {
	state := st.Effective()

	if st.Phase == live.PhaseEnded {
		return live.EndedTitle
	}

	line := fmt.Sprintf("%s %s", state.Title, timeutil.FormatTimer(state.Render(now)))
	if state.Paused {
		line += " (paused)"
	}

	return line
}

// surfaceControlAction presses one of the display's buttons.
func surfaceControlAction(press func(*live.Controls, *cli.Context) error) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		shared, surface, err := openSurface()
		if err != nil {
			return err
		}

		defer shared.Close()

		return press(live.NewControls(mailbox.New(shared), surface), ctx)
	}
}

func pressToggle(c *live.Controls, ctx *cli.Context) error {
	return c.TogglePause(ctx.Context)
}

func pressStop(c *live.Controls, ctx *cli.Context) error {
	return c.Stop(ctx.Context)
}
