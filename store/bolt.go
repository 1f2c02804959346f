package store

import (
	"context"
	"encoding/binary"
	"time"

	bolt "go.etcd.io/bbolt"
)

var (
	pagesBucket    = []byte("pages")
	countersBucket = []byte("counters")
)

// Bolt is a persistent file-backed Store. Cached pages are stored with their
// absolute expiry encoded as an 8-byte big-endian UnixNano prefix before the
// value; counters live in a separate bucket as big-endian int64. Bolt's
// single-writer transactions make Incr atomic.
type Bolt struct {
	db *bolt.DB
}

// OpenBolt opens (or creates) a Bolt store at path.
func OpenBolt(path string) (*Bolt, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		for _, b := range [][]byte{pagesBucket, countersBucket} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Bolt{db: db}, nil
}

// Incr increments the named counter inside a write transaction.
func (s *Bolt) Incr(_ context.Context, name string) (int64, error) {
	var n int64
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(countersBucket)
		if v := b.Get([]byte(name)); v != nil {
			n = int64(binary.BigEndian.Uint64(v))
		}
		n++
		var buf [8]byte
		binary.BigEndian.PutUint64(buf[:], uint64(n))
		return b.Put([]byte(name), buf[:])
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

// Get returns the cached value if present and not expired. Expired entries
// are reported absent; they are physically removed on the next SetEx for the
// same key, since a read-only transaction cannot delete.
func (s *Bolt) Get(_ context.Context, key string) ([]byte, bool, error) {
	var out []byte
	var ok bool
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(pagesBucket).Get([]byte(key))
		if v == nil {
			return nil
		}
		expiresAt := int64(binary.BigEndian.Uint64(v[:8]))
		if time.Now().UnixNano() > expiresAt {
			return nil
		}
		out = append([]byte(nil), v[8:]...)
		ok = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return out, ok, nil
}

// SetEx stores a value under key, expiring ttl from now.
func (s *Bolt) SetEx(_ context.Context, key string, val []byte, ttl time.Duration) error {
	buf := make([]byte, 8+len(val))
	binary.BigEndian.PutUint64(buf[:8], uint64(time.Now().Add(ttl).UnixNano()))
	copy(buf[8:], val)
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(pagesBucket).Put([]byte(key), buf)
	})
}

// Close closes the underlying database.
func (s *Bolt) Close() error {
	return s.db.Close()
}
