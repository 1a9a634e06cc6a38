package ui

import (
	"github.com/pterm/pterm"

	"github.com/trueinspo/babytimer/internal/models"
)

var DarkTheme bool

func Green(a any) string {
	if DarkTheme {
		return pterm.LightGreen(a)
	}

	return pterm.Green(a)
}

func Cyan(a any) string {
	if DarkTheme {
		return pterm.LightCyan(a)
	}

	return pterm.Cyan(a)
}

func Magenta(a any) string {
	if DarkTheme {
		return pterm.LightMagenta(a)
	}

	return pterm.Magenta(a)
}

func Yellow(a any) string {
	if DarkTheme {
		return pterm.LightYellow(a)
	}

	return pterm.Yellow(a)
}

func Highlight(a any) string {
	if DarkTheme {
		return pterm.LightWhite(a)
	}

	return pterm.Black(a)
}

// Kind colours a value by the activity it belongs to.
func Kind(k models.Kind, a any) string {
	switch k {
	case models.KindBreastfeeding:
		return Magenta(a)
	case models.KindSleep:
		return Cyan(a)
	case models.KindBottle, models.KindFormula:
		return Green(a)
	}

	return Highlight(a)
}

// Status renders the running or paused badge of a timer.
func Status(paused bool) string {
	if paused {
		return Yellow("paused")
	}

	return Green("running")
}
