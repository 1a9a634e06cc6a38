package app

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/trueinspo/babytimer/internal/models"
)

var errInvalidAmount = errors.New("enter an amount above zero")

func parseAmount(s string) (float64, error) {
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || n <= 0 {
		return 0, errInvalidAmount
	}

	return n, nil
}

func validateAmount(s string) error {
	_, err := parseAmount(s)
	return err
}

// amountText renders a stored amount in unit for editing.
func amountText(ml int, unit models.VolumeUnit) string {
	if ml <= 0 {
		return ""
	}

	if unit == models.UnitOz {
		return strconv.FormatFloat(float64(ml)/models.MLPerOz, 'f', 1, 64)
	}

	return strconv.Itoa(ml)
}

// promptMetadata asks for the details of a new activity, starting from the
// values given on the command line. Amounts are entered in unit.
func promptMetadata(
	kind models.Kind,
	meta models.Metadata,
	unit models.VolumeUnit,
) (models.Metadata, error) {
	amount := amountText(meta.AmountML, unit)

	if unit == "" {
		unit = models.UnitML
	}

	var fields []huh.Field

	switch kind {
	case models.KindBreastfeeding:
		fields = append(fields, huh.NewSelect[models.Side]().
			Title("Side").
			Options(
				huh.NewOption("Left", models.SideLeft),
				huh.NewOption("Right", models.SideRight),
				huh.NewOption("Both", models.SideBoth),
			).
			Value(&meta.Side))
	case models.KindSleep:
		fields = append(fields,
			huh.NewSelect[models.SleepType]().
				Title("Sleep type").
				Options(
					huh.NewOption("Nap", models.SleepNap),
					huh.NewOption("Night", models.SleepNight),
				).
				Value(&meta.SleepType),
			huh.NewSelect[string]().
				Title("Location").
				Options(
					huh.NewOption("Not set", ""),
					huh.NewOption("Crib", "crib"),
					huh.NewOption("Bassinet", "bassinet"),
					huh.NewOption("Stroller", "stroller"),
					huh.NewOption("Car seat", "car"),
					huh.NewOption("In arms", "arms"),
					huh.NewOption("Other", "other"),
				).
				Value(&meta.Location),
		)
	case models.KindBottle, models.KindFormula:
		fields = append(fields, huh.NewInput().
			Title(fmt.Sprintf("Amount (%s)", unit)).
			Validate(validateAmount).
			Value(&amount))

		if kind == models.KindFormula {
			fields = append(fields, huh.NewInput().
				Title("Brand").
				Value(&meta.Brand))
		}
	}

	fields = append(fields, huh.NewText().
		Title("Notes").
		Value(&meta.Notes))

	err := huh.NewForm(huh.NewGroup(fields...)).Run()
	if err != nil {
		return meta, fmt.Errorf("form interaction failed: %w", err)
	}

	if n, err := parseAmount(amount); err == nil {
		meta.AmountML = unit.ToML(n)
	}

	return meta, nil
}

// confirm asks a yes/no question.
func confirm(title string) (bool, error) {
	var ok bool

	err := huh.NewConfirm().
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(&ok).
		Run()
	if err != nil {
		return false, fmt.Errorf("form interaction failed: %w", err)
	}

	return ok, nil
}
