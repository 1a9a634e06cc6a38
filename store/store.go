// Package store persists activity records in a local BoltDB database and
// notifies subscribers whenever a collection changes.
package store

import (
	"encoding/json"
	"errors"
	"io/fs"
	"slices"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/trueinspo/babytimer/internal/apperr"
	"github.com/trueinspo/babytimer/internal/models"
)

var (
	errAlreadyRunning = &apperr.Error{
		Message: "is babytimer already running? Only one instance can open the database at a time",
	}

	ErrRecordNotFound = &apperr.Error{
		Message: "record %s not found",
	}
)

var collections = []models.Collection{models.Feedings, models.Sleeps}

// Client is a BoltDB database client.
type Client struct {
	*bolt.DB
	subs map[models.Collection][]chan []*models.Record
	mu   sync.Mutex
}

// NewClient opens the database at dbPath and prepares its buckets.
func NewClient(dbPath string) (*Client, error) {
	db, err := openDB(dbPath)
	if err != nil {
		return nil, err
	}

	err = db.Update(migrate)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Client{
		DB:   db,
		subs: make(map[models.Collection][]chan []*models.Record),
	}, nil
}

// openDB creates or opens a database and locks it.
func openDB(pathToDB string) (*bolt.DB, error) {
	var fileMode fs.FileMode = 0o600

	db, err := bolt.Open(
		pathToDB,
		fileMode,
		&bolt.Options{Timeout: 1 * time.Second},
	)
	if err != nil {
		if errors.Is(err, bolt.ErrDatabaseOpen) ||
			errors.Is(err, bolt.ErrTimeout) {
			return nil, errAlreadyRunning
		}

		return nil, err
	}

	return db, nil
}

// Put creates or overwrites rec.
func (c *Client) Put(rec *models.Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	value, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	coll := rec.Kind.Collection()

	err = c.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(coll)).Put([]byte(rec.ID), value)
	})
	if err != nil {
		return err
	}

	c.notify(coll)

	return nil
}

// Get returns the record with the given id.
func (c *Client) Get(id string) (*models.Record, error) {
	var rec *models.Record

	err := c.View(func(tx *bolt.Tx) error {
		for _, coll := range collections {
			v := tx.Bucket([]byte(coll)).Get([]byte(id))
			if v == nil {
				continue
			}

			rec = &models.Record{}

			return json.Unmarshal(v, rec)
		}

		return ErrRecordNotFound.Fmt(id)
	})
	if err != nil {
		return nil, err
	}

	return rec, nil
}

// Delete removes the record with the given id.
func (c *Client) Delete(id string) error {
	var changed models.Collection

	err := c.Update(func(tx *bolt.Tx) error {
		for _, coll := range collections {
			b := tx.Bucket([]byte(coll))
			if b.Get([]byte(id)) == nil {
				continue
			}

			changed = coll

			return b.Delete([]byte(id))
		}

		return ErrRecordNotFound.Fmt(id)
	})
	if err != nil {
		return err
	}

	c.notify(changed)

	return nil
}

// DeleteAll empties every collection.
func (c *Client) DeleteAll() error {
	err := c.Update(func(tx *bolt.Tx) error {
		for _, coll := range collections {
			if err := tx.DeleteBucket([]byte(coll)); err != nil {
				return err
			}

			if _, err := tx.CreateBucket([]byte(coll)); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	for _, coll := range collections {
		c.notify(coll)
	}

	return nil
}

// List returns every record in coll, most recently started first.
func (c *Client) List(coll models.Collection) ([]*models.Record, error) {
	var records []*models.Record

	err := c.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(coll)).ForEach(func(_, v []byte) error {
			var rec models.Record

			if err := json.Unmarshal(v, &rec); err != nil {
				return err
			}

			records = append(records, &rec)

			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(records, func(a, b *models.Record) int {
		return b.StartTime.Compare(a.StartTime)
	})

	return records, nil
}

// Range returns the records in coll that overlap [start, end]. Open records
// are treated as running until now.
func (c *Client) Range(
	coll models.Collection,
	start, end time.Time,
) ([]*models.Record, error) {
	records, err := c.List(coll)
	if err != nil {
		return nil, err
	}

	now := time.Now()

	return slices.DeleteFunc(records, func(r *models.Record) bool {
		finish := now
		if r.EndTime != nil {
			finish = *r.EndTime
		}

		return r.StartTime.After(end) || finish.Before(start)
	}), nil
}

// Subscribe delivers a full snapshot of coll after every change, starting
// with the current contents. Slow readers only ever see the latest
// snapshot. The returned function cancels the subscription.
func (c *Client) Subscribe(
	coll models.Collection,
) (<-chan []*models.Record, func()) {
	ch := make(chan []*models.Record, 1)

	c.mu.Lock()
	c.subs[coll] = append(c.subs[coll], ch)

	if records, err := c.List(coll); err == nil {
		deliver(ch, records)
	}

	c.mu.Unlock()

	cancel := func() {
		c.mu.Lock()
		defer c.mu.Unlock()

		i := slices.Index(c.subs[coll], ch)
		if i < 0 {
			// already cancelled or closed with the client
			return
		}

		c.subs[coll] = slices.Delete(c.subs[coll], i, i+1)

		close(ch)
	}

	return ch, cancel
}

func (c *Client) notify(coll models.Collection) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.subs[coll]) == 0 {
		return
	}

	records, err := c.List(coll)
	if err != nil {
		return
	}

	for _, ch := range c.subs[coll] {
		deliver(ch, records)
	}
}

// deliver replaces a stale undelivered snapshot instead of blocking.
func deliver(ch chan []*models.Record, records []*models.Record) {
	snapshot := make([]*models.Record, len(records))

	for i := range records {
		snapshot[i] = records[i].Clone()
	}

	for {
		select {
		case ch <- snapshot:
			return
		default:
		}

		select {
		case <-ch:
		default:
		}
	}
}

// Close closes the database and every subscription.
func (c *Client) Close() error {
	c.mu.Lock()

	for coll, subs := range c.subs {
		for _, ch := range subs {
			close(ch)
		}

		delete(c.subs, coll)
	}

	c.mu.Unlock()

	return c.DB.Close()
}
