package state

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trueinspo/babytimer/internal/models"
)

var t0 = time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)

func newRecord(t *testing.T, kind models.Kind, start time.Time) *models.Record {
	t.Helper()

	rec, err := models.New(kind, models.Metadata{}, start)
	require.NoError(t, err)

	return rec
}

func TestCacheUpsertAndActive(t *testing.T) {
	c := NewCache()

	old := newRecord(t, models.KindBreastfeeding, t0)
	end := t0.Add(20 * time.Minute)
	old.EndTime = &end
	c.Upsert(old)

	_, ok := c.Active(models.KindBreastfeeding)
	assert.False(t, ok)

	open := newRecord(t, models.KindBreastfeeding, t0.Add(time.Hour))
	c.Upsert(open)

	got, ok := c.Active(models.KindBreastfeeding)
	require.True(t, ok)
	assert.Equal(t, open.ID, got.ID)

	_, ok = c.Active(models.KindSleep)
	assert.False(t, ok)

	list := c.List(models.Feedings)
	require.Len(t, list, 2)
	assert.Equal(t, open.ID, list[0].ID)
}

func TestCacheIgnoresInstantKindsForActive(t *testing.T) {
	c := NewCache()

	c.Upsert(newRecord(t, models.KindBottle, t0))

	_, ok := c.Active(models.KindBreastfeeding)
	assert.False(t, ok)
}

func TestCacheReturnsCopies(t *testing.T) {
	c := NewCache()

	rec := newRecord(t, models.KindSleep, t0)
	c.Upsert(rec)

	rec.Notes = "mutated after insert"

	got, ok := c.Get(rec.ID)
	require.True(t, ok)
	assert.Empty(t, got.Notes)

	got.Notes = "mutated after read"

	again, _ := c.Get(rec.ID)
	assert.Empty(t, again.Notes)
}

func TestCacheReplaceAndRemove(t *testing.T) {
	c := NewCache()

	a := newRecord(t, models.KindSleep, t0)
	b := newRecord(t, models.KindSleep, t0.Add(time.Hour))

	c.Replace(models.Sleeps, []*models.Record{a, b})

	list := c.List(models.Sleeps)
	require.Len(t, list, 2)
	assert.Equal(t, b.ID, list[0].ID)

	c.Remove(b.ID)

	_, ok := c.Get(b.ID)
	assert.False(t, ok)
	assert.Len(t, c.List(models.Sleeps), 1)
}

func TestCacheMatch(t *testing.T) {
	c := NewCache()

	a := newRecord(t, models.KindSleep, t0)
	a.ID = "abc12345-0000"
	b := newRecord(t, models.KindBottle, t0)
	b.ID = "abd99999-0000"

	c.Upsert(a)
	c.Upsert(b)

	assert.Len(t, c.Match("ab"), 2)

	got := c.Match("abc")
	require.Len(t, got, 1)
	assert.Equal(t, a.ID, got[0].ID)

	assert.Empty(t, c.Match("zzz"))
	assert.Empty(t, c.Match(""))
}
