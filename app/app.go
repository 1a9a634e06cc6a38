package app

import (
	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/trueinspo/babytimer/internal/config"
)

// disableStyling disables all styling provided by pterm.
func disableStyling() {
	pterm.DisableColor()
	pterm.DisableStyling()
	pterm.Debug.Prefix.Text = ""
	pterm.Info.Prefix.Text = ""
	pterm.Success.Prefix.Text = ""
	pterm.Warning.Prefix.Text = ""
	pterm.Error.Prefix.Text = ""
	pterm.Fatal.Prefix.Text = ""
}

func startFlags() []cli.Flag {
	return append([]cli.Flag{atFlag, interactiveFlag}, metadataFlags...)
}

// Get retrieves the babytimer app instance.
func Get() *cli.App {
	return &cli.App{
		Name: "babytimer",
		Usage: `
		Babytimer tracks breastfeeding sessions, sleeps and bottle feedings from
		the command-line. Running timers can be paused and resumed and are
		mirrored to a live display that other programs can control.`,
		UsageText:            "[COMMAND] [OPTIONS]",
		Version:              config.Version,
		EnableBashCompletion: true,
		Commands: []*cli.Command{
			{
				Name:      "start",
				Usage:     "Start a feeding or sleep timer",
				ArgsUsage: "feeding|sleep",
				Flags:     startFlags(),
				Action:    startAction,
			},
			{
				Name:      "pause",
				Usage:     "Pause a running timer",
				ArgsUsage: "[feeding|sleep]",
				Action:    changeAction(pauseAction),
			},
			{
				Name:      "resume",
				Usage:     "Resume a paused timer",
				ArgsUsage: "[feeding|sleep]",
				Action:    changeAction(resumeAction),
			},
			{
				Name:      "toggle",
				Usage:     "Pause a running timer or resume a paused one",
				ArgsUsage: "[feeding|sleep]",
				Action:    changeAction(toggleAction),
			},
			{
				Name:      "stop",
				Usage:     "Stop a timer and save the session",
				ArgsUsage: "[feeding|sleep]",
				Action:    stopAction,
			},
			{
				Name:    "switch-side",
				Aliases: []string{"switch"},
				Usage:   "Change the side of the running breastfeeding session",
				Flags:   []cli.Flag{sideFlag},
				Action:  changeAction(switchSideAction),
			},
			{
				Name:   "status",
				Usage:  "Print the open timers",
				Action: statusAction,
			},
			{
				Name:   "watch",
				Usage:  "Show the open timers live and control them from the keyboard",
				Action: watchAction,
			},
			{
				Name:      "log",
				Usage:     "Record a bottle or formula feeding",
				ArgsUsage: "bottle|formula",
				Flags:     startFlags(),
				Action:    logAction,
			},
			{
				Name:      "edit",
				Usage:     "Correct a recorded activity",
				ArgsUsage: "<id>",
				Flags:     append([]cli.Flag{startFlag, endFlag}, metadataFlags...),
				Action:    editAction,
			},
			{
				Name:      "delete",
				Usage:     "Delete a recorded activity",
				ArgsUsage: "<id>",
				Flags:     []cli.Flag{yesFlag},
				Action:    deleteAction,
			},
			{
				Name:      "list",
				Usage:     "List the activities of a day",
				ArgsUsage: "[feedings|sleeps]",
				Flags:     []cli.Flag{dateFlag, jsonFlag},
				Action:    listAction,
			},
			{
				Name:   "summary",
				Usage:  "Summarise the feedings and sleeps of a day",
				Flags:  []cli.Flag{dateFlag},
				Action: summaryAction,
			},
			{
				Name:   "export",
				Usage:  "Export every record to a CSV file",
				Flags:  []cli.Flag{outFlag},
				Action: exportAction,
			},
			{
				Name:   "clear",
				Usage:  "Delete every record",
				Flags:  []cli.Flag{yesFlag},
				Action: clearAction,
			},
			{
				Name:  "surface",
				Usage: "Read or control the live display kept in the shared database",
				Subcommands: []*cli.Command{
					{
						Name:   "show",
						Usage:  "Print the live display",
						Action: surfaceShowAction,
					},
					{
						Name:   "toggle",
						Usage:  "Press the pause/resume button of the live display",
						Action: surfaceControlAction(pressToggle),
					},
					{
						Name:   "stop",
						Usage:  "Press the stop button of the live display",
						Action: surfaceControlAction(pressStop),
					},
				},
			},
			{
				Name:   "edit-config",
				Usage:  "Edit the configuration file",
				Action: editConfigAction,
			},
		},
		Flags: []cli.Flag{
			noColorFlag,
			disableNotificationFlag,
			sessionCmdFlag,
			surfaceFlag,
		},
		Before: beforeAction,
		After:  afterAction,
	}
}
