// Package models defines the activity records shared by the store, the timer
// and the live surface.
package models

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
)

// Kind discriminates the variant held by a Record.
type Kind string

const (
	KindBreastfeeding Kind = "breastfeeding"
	KindSleep         Kind = "sleep"
	KindBottle        Kind = "bottle"
	KindFormula       Kind = "formula"
)

// Collection is the store collection a record is kept in.
type Collection string

const (
	Feedings Collection = "feedings"
	Sleeps   Collection = "sleeps"
)

// Side is the breast used during a breastfeeding session.
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
	SideBoth  Side = "both"
)

// SleepType distinguishes naps from night sleep.
type SleepType string

const (
	SleepNap   SleepType = "nap"
	SleepNight SleepType = "night"
)

var (
	sides      = []Side{SideLeft, SideRight, SideBoth}
	sleepTypes = []SleepType{SleepNap, SleepNight}
	kinds      = []Kind{KindBreastfeeding, KindSleep, KindBottle, KindFormula}
)

// TimedKinds lists the kinds backed by a running timer.
var TimedKinds = []Kind{KindBreastfeeding, KindSleep}

// Timed reports whether records of this kind run as timers.
func (k Kind) Timed() bool {
	return k == KindBreastfeeding || k == KindSleep
}

// Collection returns the collection records of this kind are stored in.
func (k Kind) Collection() Collection {
	if k == KindSleep {
		return Sleeps
	}

	return Feedings
}

// Title is the human readable name of the kind.
func (k Kind) Title() string {
	switch k {
	case KindBreastfeeding:
		return "Breastfeeding"
	case KindSleep:
		return "Sleep"
	case KindBottle:
		return "Bottle (pumped)"
	case KindFormula:
		return "Formula"
	}

	return string(k)
}

// ParseKind converts s into a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !slices.Contains(kinds, k) {
		return "", fmt.Errorf("unknown activity kind %q", s)
	}

	return k, nil
}

// Valid reports whether s is a known side.
func (s Side) Valid() bool {
	return slices.Contains(sides, s)
}

// Next cycles left -> right -> both -> left.
func (s Side) Next() Side {
	i := slices.Index(sides, s)

	return sides[(i+1)%len(sides)]
}

// Valid reports whether t is a known sleep type.
func (t SleepType) Valid() bool {
	return slices.Contains(sleepTypes, t)
}

// Breastfeeding holds the breastfeeding variant fields.
type Breastfeeding struct {
	Side Side `json:"side"`
}

// Sleep holds the sleep variant fields.
type Sleep struct {
	Type     SleepType `json:"type"`
	Location string    `json:"location,omitempty"`
}

// Bottle holds the fields of a pumped-milk bottle feeding.
type Bottle struct {
	AmountML int `json:"amount_ml"`
}

// Formula holds the fields of a formula feeding.
type Formula struct {
	AmountML int    `json:"amount_ml"`
	Brand    string `json:"brand,omitempty"`
}

// Record is a persisted activity entry. Timed records can be running, paused
// or closed; instant records are created closed. Exactly one of the variant
// pointers is set and it matches Kind.
type Record struct {
	StartTime      time.Time      `json:"start_time"`
	EndTime        *time.Time     `json:"end_time,omitempty"`
	PauseStartTime *time.Time     `json:"pause_start_time,omitempty"`
	Breastfeeding  *Breastfeeding `json:"breastfeeding,omitempty"`
	Sleep          *Sleep         `json:"sleep,omitempty"`
	Bottle         *Bottle        `json:"bottle,omitempty"`
	Formula        *Formula       `json:"formula,omitempty"`
	ID             string         `json:"id"`
	Kind           Kind           `json:"kind"`
	Notes          string         `json:"notes,omitempty"`
	TotalPausedMs  int64          `json:"total_paused_ms"`
	IsPaused       bool           `json:"is_paused"`
}

// Metadata carries the variant specific values used to create a record.
type Metadata struct {
	Side      Side
	SleepType SleepType
	Location  string
	Brand     string
	Notes     string
	AmountML  int
}

// NewID returns a fresh record identifier.
func NewID() string {
	return uuid.NewString()
}

// New builds a record of the given kind starting at start. Instant kinds are
// closed immediately.
func New(kind Kind, meta Metadata, start time.Time) (*Record, error) {
	rec := &Record{
		ID:        NewID(),
		Kind:      kind,
		StartTime: start,
		Notes:     meta.Notes,
	}

	switch kind {
	case KindBreastfeeding:
		side := meta.Side
		if side == "" {
			side = SideLeft
		}

		rec.Breastfeeding = &Breastfeeding{Side: side}
	case KindSleep:
		typ := meta.SleepType
		if typ == "" {
			typ = SleepNap
		}

		rec.Sleep = &Sleep{Type: typ, Location: meta.Location}
	case KindBottle:
		rec.Bottle = &Bottle{AmountML: meta.AmountML}
	case KindFormula:
		rec.Formula = &Formula{AmountML: meta.AmountML, Brand: meta.Brand}
	default:
		return nil, fmt.Errorf("unknown activity kind %q", kind)
	}

	if !kind.Timed() {
		end := start
		rec.EndTime = &end
	}

	if err := rec.Validate(); err != nil {
		return nil, err
	}

	return rec, nil
}

// Active reports whether the record is still running.
func (r *Record) Active() bool {
	return r != nil && r.EndTime == nil
}

// TotalPaused returns the cumulative paused time.
func (r *Record) TotalPaused() time.Duration {
	return time.Duration(r.TotalPausedMs) * time.Millisecond
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}

	c := *r

	if r.EndTime != nil {
		t := *r.EndTime
		c.EndTime = &t
	}

	if r.PauseStartTime != nil {
		t := *r.PauseStartTime
		c.PauseStartTime = &t
	}

	if r.Breastfeeding != nil {
		b := *r.Breastfeeding
		c.Breastfeeding = &b
	}

	if r.Sleep != nil {
		s := *r.Sleep
		c.Sleep = &s
	}

	if r.Bottle != nil {
		b := *r.Bottle
		c.Bottle = &b
	}

	if r.Formula != nil {
		f := *r.Formula
		c.Formula = &f
	}

	return &c
}

// AmountML returns the volume of a bottle or formula feeding.
func (r *Record) AmountML() int {
	switch {
	case r.Bottle != nil:
		return r.Bottle.AmountML
	case r.Formula != nil:
		return r.Formula.AmountML
	}

	return 0
}

// Validate checks the variant and timer invariants.
func (r *Record) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("record has no id")
	}

	variants := 0

	for _, set := range []bool{
		r.Breastfeeding != nil,
		r.Sleep != nil,
		r.Bottle != nil,
		r.Formula != nil,
	} {
		if set {
			variants++
		}
	}

	if variants != 1 {
		return fmt.Errorf("record %s must hold exactly one variant, got %d", r.ID, variants)
	}

	switch r.Kind {
	case KindBreastfeeding:
		if r.Breastfeeding == nil {
			return fmt.Errorf("record %s: kind %s without breastfeeding fields", r.ID, r.Kind)
		}

		if !r.Breastfeeding.Side.Valid() {
			return fmt.Errorf("record %s: invalid side %q", r.ID, r.Breastfeeding.Side)
		}
	case KindSleep:
		if r.Sleep == nil {
			return fmt.Errorf("record %s: kind %s without sleep fields", r.ID, r.Kind)
		}

		if !r.Sleep.Type.Valid() {
			return fmt.Errorf("record %s: invalid sleep type %q", r.ID, r.Sleep.Type)
		}
	case KindBottle:
		if r.Bottle == nil {
			return fmt.Errorf("record %s: kind %s without bottle fields", r.ID, r.Kind)
		}
	case KindFormula:
		if r.Formula == nil {
			return fmt.Errorf("record %s: kind %s without formula fields", r.ID, r.Kind)
		}
	default:
		return fmt.Errorf("record %s: unknown kind %q", r.ID, r.Kind)
	}

	if r.IsPaused && (r.PauseStartTime == nil || r.EndTime != nil) {
		return fmt.Errorf("record %s: paused record must be open with a pause start", r.ID)
	}

	if !r.IsPaused && r.PauseStartTime != nil {
		return fmt.Errorf("record %s: pause start set on a running record", r.ID)
	}

	if r.TotalPausedMs < 0 {
		return fmt.Errorf("record %s: negative paused time", r.ID)
	}

	if !r.Kind.Timed() && (r.IsPaused || r.TotalPausedMs != 0) {
		return fmt.Errorf("record %s: %s entries cannot be paused", r.ID, r.Kind)
	}

	return nil
}
