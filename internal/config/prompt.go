package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"

	"github.com/trueinspo/babytimer/internal/models"
)

const asciiLogo = `
 _           _           _   _
| |__   __ _| |__  _   _| |_(_)_ __ ___   ___ _ __
| '_ \ / _' | '_ \| | | | __| | '_ ' _ \ / _ \ '__|
| |_) | (_| | |_) | |_| | |_| | | | | | |  __/ |
|_.__/ \__,_|_.__/ \__, |\__|_|_| |_| |_|\___|_|
                   |___/`

// PromptOptions holds the user's responses to the configuration prompts.
type PromptOptions struct {
	Name      string
	Unit      models.VolumeUnit
	Side      models.Side
	SleepType models.SleepType
	Surface   SurfaceKind
}

// WithPromptConfig returns an Option that configures settings via
// interactive prompts. It does nothing once a config file exists.
func WithPromptConfig(configPath string) Option {
	return func(c *Config) error {
		_, err := os.Stat(configPath)
		if err == nil || !errors.Is(err, os.ErrNotExist) {
			return err
		}

		opts, err := promptUser()
		if err != nil {
			return fmt.Errorf("user prompt failed: %w", err)
		}

		applyPromptOptions(c, opts)

		return nil
	}
}

// promptUser handles the interactive configuration process.
func promptUser() (PromptOptions, error) {
	var opts PromptOptions

	pterm.Println(asciiLogo)

	_ = putils.BulletListFromString(`Follow the prompts below to configure babytimer for the first time.
Select your preferred value, or press ENTER to accept the defaults.
Edit the config file with 'babytimer edit-config' to change any settings.`, " ").
		Render()

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Baby's name").
				Description("Shown at the top of the daily summary. Leave blank to skip.").
				Value(&opts.Name),
			huh.NewSelect[models.VolumeUnit]().
				Title("Unit for bottle and formula amounts").
				Options(
					huh.NewOption("Millilitres (ml)", models.UnitML).Selected(true),
					huh.NewOption("Fluid ounces (oz)", models.UnitOz),
				).
				Value(&opts.Unit),
		),
		huh.NewGroup(
			huh.NewSelect[models.Side]().
				Title("Side to start a breastfeeding timer on").
				Options(
					huh.NewOption("Left", models.SideLeft).Selected(true),
					huh.NewOption("Right", models.SideRight),
					huh.NewOption("Both", models.SideBoth),
				).
				Value(&opts.Side),
		),
		huh.NewGroup(
			huh.NewSelect[models.SleepType]().
				Title("Default sleep type").
				Options(
					huh.NewOption("Nap", models.SleepNap).Selected(true),
					huh.NewOption("Night", models.SleepNight),
				).
				Value(&opts.SleepType),
		),
		huh.NewGroup(
			huh.NewSelect[SurfaceKind]().
				Title("Where should the running timer be shown?").
				Options(
					huh.NewOption("Shared state file (local widgets)", SurfaceKV).Selected(true),
					huh.NewOption("MQTT broker", SurfaceMQTT),
					huh.NewOption("Nowhere", SurfaceOff),
				).
				Value(&opts.Surface),
		),
	)

	err := form.Run()
	if err != nil {
		return opts, fmt.Errorf("form interaction failed: %w", err)
	}

	return opts, nil
}

// applyPromptOptions applies the user's prompt responses to the configuration.
func applyPromptOptions(c *Config, opts PromptOptions) {
	c.Baby.Name = strings.TrimSpace(opts.Name)
	c.Display.VolumeUnit = opts.Unit
	c.Feeding.DefaultSide = opts.Side
	c.Sleep.DefaultType = opts.SleepType
	c.Live.Surface = opts.Surface
}
