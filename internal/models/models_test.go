package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var start = time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)

func TestNewTimedRecord(t *testing.T) {
	rec, err := New(KindBreastfeeding, Metadata{Side: SideRight}, start)
	require.NoError(t, err)

	assert.NotEmpty(t, rec.ID)
	assert.True(t, rec.Active())
	assert.Equal(t, SideRight, rec.Breastfeeding.Side)
	assert.Nil(t, rec.Sleep)
	assert.Zero(t, rec.TotalPausedMs)
}

func TestNewDefaults(t *testing.T) {
	feed, err := New(KindBreastfeeding, Metadata{}, start)
	require.NoError(t, err)
	assert.Equal(t, SideLeft, feed.Breastfeeding.Side)

	sleep, err := New(KindSleep, Metadata{Location: "crib"}, start)
	require.NoError(t, err)
	assert.Equal(t, SleepNap, sleep.Sleep.Type)
	assert.Equal(t, "crib", sleep.Sleep.Location)
	assert.Equal(t, Sleeps, sleep.Kind.Collection())
}

func TestNewInstantRecordIsClosed(t *testing.T) {
	rec, err := New(KindFormula, Metadata{AmountML: 90, Brand: "Aptamil"}, start)
	require.NoError(t, err)

	assert.False(t, rec.Active())
	assert.Equal(t, start, *rec.EndTime)
	assert.Equal(t, 90, rec.AmountML())
	assert.Equal(t, Feedings, rec.Kind.Collection())
}

func TestNewRejectsInvalidVariant(t *testing.T) {
	_, err := New(KindBreastfeeding, Metadata{Side: "middle"}, start)
	assert.Error(t, err)

	_, err = New(KindSleep, Metadata{SleepType: "siesta"}, start)
	assert.Error(t, err)

	_, err = New("diaper", Metadata{}, start)
	assert.Error(t, err)
}

func TestValidateInvariants(t *testing.T) {
	pauseStart := start.Add(time.Minute)
	end := start.Add(time.Hour)

	cases := []struct {
		mutate func(r *Record)
		name   string
		ok     bool
	}{
		{
			name:   "running",
			mutate: func(_ *Record) {},
			ok:     true,
		},
		{
			name: "paused with pause start",
			mutate: func(r *Record) {
				r.IsPaused = true
				r.PauseStartTime = &pauseStart
			},
			ok: true,
		},
		{
			name: "paused without pause start",
			mutate: func(r *Record) {
				r.IsPaused = true
			},
		},
		{
			name: "paused but closed",
			mutate: func(r *Record) {
				r.IsPaused = true
				r.PauseStartTime = &pauseStart
				r.EndTime = &end
			},
		},
		{
			name: "pause start without pause",
			mutate: func(r *Record) {
				r.PauseStartTime = &pauseStart
			},
		},
		{
			name: "negative paused time",
			mutate: func(r *Record) {
				r.TotalPausedMs = -1
			},
		},
		{
			name: "two variants",
			mutate: func(r *Record) {
				r.Sleep = &Sleep{Type: SleepNap}
			},
		},
		{
			name: "variant does not match kind",
			mutate: func(r *Record) {
				r.Kind = KindSleep
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, err := New(KindBreastfeeding, Metadata{}, start)
			require.NoError(t, err)

			tc.mutate(rec)

			if tc.ok {
				assert.NoError(t, rec.Validate())
			} else {
				assert.Error(t, rec.Validate())
			}
		})
	}
}

func TestSideNext(t *testing.T) {
	assert.Equal(t, SideRight, SideLeft.Next())
	assert.Equal(t, SideBoth, SideRight.Next())
	assert.Equal(t, SideLeft, SideBoth.Next())
}

func TestCloneIsDeep(t *testing.T) {
	rec, err := New(KindSleep, Metadata{SleepType: SleepNight}, start)
	require.NoError(t, err)

	pauseStart := start.Add(time.Minute)
	rec.IsPaused = true
	rec.PauseStartTime = &pauseStart

	c := rec.Clone()
	c.Sleep.Location = "car"
	*c.PauseStartTime = start

	assert.Empty(t, rec.Sleep.Location)
	assert.Equal(t, pauseStart, *rec.PauseStartTime)
}

func TestVolumeUnit(t *testing.T) {
	assert.True(t, UnitML.Valid())
	assert.True(t, UnitOz.Valid())
	assert.False(t, VolumeUnit("cups").Valid())

	assert.Equal(t, "120 ml", UnitML.Format(120))
	assert.Equal(t, "120 ml", VolumeUnit("").Format(120))
	assert.Equal(t, "4.1 oz", UnitOz.Format(120))

	assert.Equal(t, 90, UnitML.ToML(90))
	assert.Equal(t, 118, UnitOz.ToML(4))
	assert.Equal(t, 133, UnitOz.ToML(4.5))
}
