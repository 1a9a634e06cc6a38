package store

import (
	"time"

	"github.com/trueinspo/babytimer/internal/models"
)

// DB is the database storage interface.
type DB interface {
	// Put creates a record or overwrites the stored record with the same id.
	Put(rec *models.Record) error
	// Get returns a single record by id
	Get(id string) (*models.Record, error)
	Delete(id string) error
	DeleteAll() error
	// List returns a collection ordered by start time, newest first
	List(coll models.Collection) ([]*models.Record, error)
	// Range returns the records of a collection that overlap a time window
	Range(coll models.Collection, start, end time.Time) ([]*models.Record, error)
	// Subscribe delivers full collection snapshots after every change
	Subscribe(coll models.Collection) (<-chan []*models.Record, func())
	Close() error
}

var _ DB = (*Client)(nil)
