package app

import "github.com/urfave/cli/v2"

var (
	atFlag = &cli.StringFlag{
		Name:  "at",
		Usage: "Start or log an activity in the past (e.g. '20 mins ago' or '14:30')",
	}

	noColorFlag = &cli.BoolFlag{
		Name:  "no-color",
		Usage: "Disable coloured output",
	}

	disableNotificationFlag = &cli.BoolFlag{
		Name:    "disable-notification",
		Aliases: []string{"d"},
		Usage:   "Disable the system notification that appears after a timer is stopped",
	}

	sessionCmdFlag = &cli.StringFlag{
		Name:    "session-cmd",
		Aliases: []string{"cmd"},
		Usage:   "Execute an arbitrary command after a timer is stopped",
	}

	surfaceFlag = &cli.StringFlag{
		Name:  "surface",
		Usage: "Where the running timer is shown: kv, mqtt or off",
	}

	interactiveFlag = &cli.BoolFlag{
		Name:    "interactive",
		Aliases: []string{"i"},
		Usage:   "Prompt for the details of the activity",
	}

	sideFlag = &cli.StringFlag{
		Name:  "side",
		Usage: "Breastfeeding side: left, right or both",
	}

	sleepTypeFlag = &cli.StringFlag{
		Name:    "type",
		Aliases: []string{"t"},
		Usage:   "Sleep type: nap or night",
	}

	locationFlag = &cli.StringFlag{
		Name:    "location",
		Aliases: []string{"l"},
		Usage:   "Where the baby is sleeping (e.g. crib, stroller)",
	}

	notesFlag = &cli.StringFlag{
		Name:    "notes",
		Aliases: []string{"n"},
		Usage:   "Free-form notes",
	}

	amountFlag = &cli.Float64Flag{
		Name:    "amount",
		Aliases: []string{"a"},
		Usage:   "Amount in the configured volume unit (display.volume_unit)",
	}

	brandFlag = &cli.StringFlag{
		Name:  "brand",
		Usage: "Formula brand",
	}

	dateFlag = &cli.StringFlag{
		Name:  "date",
		Usage: "Day to report on (e.g. 'yesterday' or '2024-05-01'). Defaults to today",
	}

	startFlag = &cli.StringFlag{
		Name:  "start",
		Usage: "Corrected start time",
	}

	endFlag = &cli.StringFlag{
		Name:  "end",
		Usage: "Corrected end time. Closes a running timer",
	}

	outFlag = &cli.StringFlag{
		Name:    "out",
		Aliases: []string{"o"},
		Usage:   "Write the export to this file instead of the current directory",
	}

	jsonFlag = &cli.BoolFlag{
		Name:  "json",
		Usage: "Print the records as JSON",
	}

	yesFlag = &cli.BoolFlag{
		Name:    "yes",
		Aliases: []string{"y"},
		Usage:   "Do not ask for confirmation",
	}
)

// metadataFlags describe a new or corrected activity.
var metadataFlags = []cli.Flag{
	sideFlag,
	sleepTypeFlag,
	locationFlag,
	notesFlag,
	amountFlag,
	brandFlag,
}
