package config

import (
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/trueinspo/babytimer/internal/timeutil"
)

// CLIOptions represents command-line configuration options.
type CLIOptions struct {
	At            string
	Surface       string
	SessionCmd    string
	DisableNotify bool
	Interactive   bool
}

// WithCLIConfig returns an Option that loads configuration from CLI flags.
func WithCLIConfig(ctx *cli.Context) Option {
	return func(c *Config) error {
		opts := CLIOptions{
			At:            ctx.String("at"),
			Surface:       ctx.String("surface"),
			SessionCmd:    ctx.String("session-cmd"),
			DisableNotify: ctx.Bool("disable-notification"),
			Interactive:   ctx.Bool("interactive"),
		}

		return applyCLIOptions(c, opts, time.Now)
	}
}

// applyCLIOptions applies CLI options to the config.
func applyCLIOptions(c *Config, opts CLIOptions, now func() time.Time) error {
	if opts.DisableNotify {
		c.Notifications.Enabled = false
	}

	if opts.Surface != "" {
		c.Live.Surface = SurfaceKind(strings.ToLower(strings.TrimSpace(opts.Surface)))
	}

	if opts.SessionCmd != "" {
		c.Settings.Cmd = opts.SessionCmd
	}

	c.CLI.Interactive = opts.Interactive

	if opts.At == "" {
		c.CLI.At = timeutil.Millis(now())
		return nil
	}

	at, err := timeutil.FromStr(opts.At)
	if err != nil {
		return errInvalidAt.Wrap(err)
	}

	c.CLI.At = at

	return nil
}
