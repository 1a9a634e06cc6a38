package store

import (
	"encoding/binary"
	"encoding/json"

	"go.etcd.io/bbolt"

	"github.com/trueinspo/babytimer/internal/models"
)

const (
	metaBucket    = "meta"
	schemaKey     = "schema_version"
	schemaVersion = 2
)

// migrate creates the buckets and upgrades records written by older
// versions.
func migrate(tx *bbolt.Tx) error {
	meta, err := tx.CreateBucketIfNotExists([]byte(metaBucket))
	if err != nil {
		return err
	}

	for _, coll := range collections {
		if _, err := tx.CreateBucketIfNotExists([]byte(coll)); err != nil {
			return err
		}
	}

	var current uint64
	if v := meta.Get([]byte(schemaKey)); len(v) == 8 {
		current = binary.BigEndian.Uint64(v)
	}

	if current >= schemaVersion {
		return nil
	}

	if current < 2 {
		for _, coll := range collections {
			if err := fillVariantDefaults(tx.Bucket([]byte(coll))); err != nil {
				return err
			}
		}
	}

	v := make([]byte, 8)
	binary.BigEndian.PutUint64(v, schemaVersion)

	return meta.Put([]byte(schemaKey), v)
}

// fillVariantDefaults gives records saved before sides and sleep types were
// required the defaults used for new records.
func fillVariantDefaults(bucket *bbolt.Bucket) error {
	updates := make(map[string][]byte)

	err := bucket.ForEach(func(k, v []byte) error {
		var rec models.Record

		if err := json.Unmarshal(v, &rec); err != nil {
			return err
		}

		changed := false

		switch rec.Kind {
		case models.KindBreastfeeding:
			if rec.Breastfeeding == nil {
				rec.Breastfeeding = &models.Breastfeeding{}
			}

			if rec.Breastfeeding.Side == "" {
				rec.Breastfeeding.Side = models.SideLeft
				changed = true
			}
		case models.KindSleep:
			if rec.Sleep == nil {
				rec.Sleep = &models.Sleep{}
			}

			if rec.Sleep.Type == "" {
				rec.Sleep.Type = models.SleepNap
				changed = true
			}
		}

		if !changed {
			return nil
		}

		b, err := json.Marshal(&rec)
		if err != nil {
			return err
		}

		updates[string(k)] = b

		return nil
	})
	if err != nil {
		return err
	}

	// writes are applied after iterating since they invalidate the cursor
	for k, v := range updates {
		if err := bucket.Put([]byte(k), v); err != nil {
			return err
		}
	}

	return nil
}
