package models

import (
	"fmt"
	"math"
)

// VolumeUnit is the unit amounts are entered and shown in. Records always
// store millilitres.
type VolumeUnit string

const (
	UnitML VolumeUnit = "ml"
	UnitOz VolumeUnit = "oz"
)

// MLPerOz is the number of millilitres in a US fluid ounce.
const MLPerOz = 29.5735

// Valid reports whether u is a known unit.
func (u VolumeUnit) Valid() bool {
	return u == UnitML || u == UnitOz
}

// ToML converts an amount entered in u to millilitres.
func (u VolumeUnit) ToML(amount float64) int {
	if u == UnitOz {
		return int(math.Round(amount * MLPerOz))
	}

	return int(math.Round(amount))
}

// Format renders ml in u. An empty unit means millilitres.
func (u VolumeUnit) Format(ml int) string {
	if u == UnitOz {
		return fmt.Sprintf("%.1f oz", float64(ml)/MLPerOz)
	}

	return fmt.Sprintf("%d ml", ml)
}
