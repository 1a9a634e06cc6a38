// Package state holds the in-memory mirror of the record collections.
package state

import (
	"slices"
	"strings"
	"sync"

	"github.com/trueinspo/babytimer/internal/models"
)

// Cache mirrors the store collections. It is owned by whoever constructs it
// and handed to the components that read or write records, so tests can use a
// fresh cache without a store. All accessors return copies.
type Cache struct {
	collections map[models.Collection][]*models.Record
	mu          sync.RWMutex
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{
		collections: make(map[models.Collection][]*models.Record),
	}
}

// Replace swaps a whole collection with a fresh snapshot, as delivered by a
// store subscription.
func (c *Cache) Replace(coll models.Collection, records []*models.Record) {
	snapshot := make([]*models.Record, len(records))

	for i := range records {
		snapshot[i] = records[i].Clone()
	}

	sortByStart(snapshot)

	c.mu.Lock()
	c.collections[coll] = snapshot
	c.mu.Unlock()
}

// Upsert inserts rec or replaces the cached record with the same id.
func (c *Cache) Upsert(rec *models.Record) {
	coll := rec.Kind.Collection()
	rec = rec.Clone()

	c.mu.Lock()
	defer c.mu.Unlock()

	records := c.collections[coll]

	i := slices.IndexFunc(records, func(r *models.Record) bool {
		return r.ID == rec.ID
	})
	if i >= 0 {
		records[i] = rec
	} else {
		records = append(records, rec)
	}

	sortByStart(records)

	c.collections[coll] = records
}

// Remove drops the record with the given id from every collection.
func (c *Cache) Remove(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for coll, records := range c.collections {
		c.collections[coll] = slices.DeleteFunc(records, func(r *models.Record) bool {
			return r.ID == id
		})
	}
}

// Get returns the record with the given id.
func (c *Cache) Get(id string) (*models.Record, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, records := range c.collections {
		for _, r := range records {
			if r.ID == id {
				return r.Clone(), true
			}
		}
	}

	return nil, false
}

// Match returns every record whose id starts with prefix.
func (c *Cache) Match(prefix string) []*models.Record {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []*models.Record

	if prefix == "" {
		return out
	}

	for _, records := range c.collections {
		for _, r := range records {
			if strings.HasPrefix(r.ID, prefix) {
				out = append(out, r.Clone())
			}
		}
	}

	return out
}

// Active returns the open record of the given kind, if any. When more than one
// is open, the most recently started wins.
func (c *Cache) Active(kind models.Kind) (*models.Record, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, r := range c.collections[kind.Collection()] {
		if r.Kind == kind && r.Active() {
			return r.Clone(), true
		}
	}

	return nil, false
}

// List returns a copy of a collection, most recent first.
func (c *Cache) List(coll models.Collection) []*models.Record {
	c.mu.RLock()
	defer c.mu.RUnlock()

	records := c.collections[coll]
	out := make([]*models.Record, len(records))

	for i := range records {
		out[i] = records[i].Clone()
	}

	return out
}

func sortByStart(records []*models.Record) {
	slices.SortStableFunc(records, func(a, b *models.Record) int {
		return b.StartTime.Compare(a.StartTime)
	})
}
