package zone

import (
	"bytes"
	"encoding/binary"
	"time"

	bbolt "go.etcd.io/bbolt"

	"github.com/nsforge/authdns/internal/dns/common/clock"
	"github.com/nsforge/authdns/internal/dns/domain"
)

var (
	bucketRecords = []byte("records")
	bucketMeta    = []byte("meta")
)

// SnapshotStore persists an already-built zone's records to a bbolt file so
// a restart can repopulate a DictBackend without re-running whatever
// programmatic zone-population code built it the first time. This is a
// binary cache, not a zone-file parser: it stores the wire form of records
// that were already inserted once, and never parses presentation-format
// zone text.
type SnapshotStore struct {
	db    *bbolt.DB
	clock clock.Clock
}

// OpenSnapshotStore opens (or creates) a bbolt database at path.
func OpenSnapshotStore(path string) (*SnapshotStore, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}
	if err := db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketRecords); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(bucketMeta)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SnapshotStore{db: db, clock: clock.RealClock{}}, nil
}

// SetClock overrides the store's clock, used to pin "updated at" timestamps
// in tests instead of racing the wall clock.
func (s *SnapshotStore) SetClock(c clock.Clock) {
	s.clock = c
}

// Close closes the underlying database.
func (s *SnapshotStore) Close() error { return s.db.Close() }

// Save writes records into origin's bucket under the records bucket,
// replacing any earlier snapshot of origin, keyed by an incrementing sequence so record order
// within a name is preserved across a reload, and bumps the meta
// "updated" timestamp.
func (s *SnapshotStore) Save(origin domain.Name, records []domain.Record) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		recordsRoot := tx.Bucket(bucketRecords)
		if err := recordsRoot.DeleteBucket([]byte(origin.String())); err != nil && err != bbolt.ErrBucketNotFound {
			return err
		}
		zoneBucket, err := recordsRoot.CreateBucket([]byte(origin.String()))
		if err != nil {
			return err
		}
		for i, rec := range records {
			w := domain.NewWriter(0)
			if err := rec.EncodeTo(w); err != nil {
				return err
			}
			seq := make([]byte, 8)
			binary.BigEndian.PutUint64(seq, uint64(i))
			if err := zoneBucket.Put(seq, w.Bytes()); err != nil {
				return err
			}
		}

		meta := tx.Bucket(bucketMeta)
		updated := make([]byte, 8)
		binary.BigEndian.PutUint64(updated, uint64(s.clock.Now().Unix()))
		return meta.Put(append([]byte("updated:"), origin.String()...), updated)
	})
}

// UpdatedAt returns the timestamp of the most recent Save for origin, and
// false if origin has never been saved.
func (s *SnapshotStore) UpdatedAt(origin domain.Name) (time.Time, bool, error) {
	var t time.Time
	var found bool
	err := s.db.View(func(tx *bbolt.Tx) error {
		meta := tx.Bucket(bucketMeta)
		v := meta.Get(append([]byte("updated:"), origin.String()...))
		if v == nil {
			return nil
		}
		found = true
		t = time.Unix(int64(binary.BigEndian.Uint64(v)), 0)
		return nil
	})
	return t, found, err
}

// Load reads back every record previously saved for origin, decoding each
// with domain.DecodeRecord.
func (s *SnapshotStore) Load(origin domain.Name) ([]domain.Record, error) {
	var records []domain.Record
	err := s.db.View(func(tx *bbolt.Tx) error {
		root := tx.Bucket(bucketRecords)
		if root == nil {
			return nil
		}
		zoneBucket := root.Bucket([]byte(origin.String()))
		if zoneBucket == nil {
			return nil
		}
		c := zoneBucket.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			r := domain.NewReader(bytes.Clone(v))
			rec, err := domain.DecodeRecord(r)
			if err != nil {
				return err
			}
			records = append(records, rec)
		}
		return nil
	})
	return records, err
}

// LoadInto reads origin's saved records directly into backend via Insert,
// restoring a DictBackend to its pre-restart state without re-running
// whatever programmatic population built it originally.
func (s *SnapshotStore) LoadInto(origin domain.Name, backend *DictBackend) error {
	records, err := s.Load(origin)
	if err != nil {
		return err
	}
	for _, rec := range records {
		if err := backend.Insert(rec); err != nil {
			return err
		}
	}
	return nil
}
