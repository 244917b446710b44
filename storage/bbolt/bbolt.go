// Package bbolt provides a BBolt-backed storage.Store.
package bbolt

import (
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/nutricare/nutrikit/storage"
)

var (
	bucketSession = []byte("session")
	bucketRefresh = []byte("refresh_token")
	recordKey     = []byte("record")
)

// Store implements storage.Store backed by a BBolt database. It is the
// durable analog of a browser cookie jar: entries are saved with a max-age
// and expired entries read as absent.
type Store struct {
	db  *bbolt.DB
	now func() time.Time
}

var _ storage.Store = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore returns a Store backed by the given BBolt database.
func NewStore(db *bbolt.DB, opts ...Option) *Store {
	s := &Store{db: db, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewStoreFromFile opens a BBolt database at the given path and returns a new Store.
func NewStoreFromFile(path string, options *bbolt.Options, opts ...Option) (*Store, error) {
	db, err := bbolt.Open(path, 0600, options)
	if err != nil {
		return nil, fmt.Errorf("opening bbolt db: %w", err)
	}
	return NewStore(db, opts...), nil
}

// Close closes the underlying BBolt database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) put(bucket []byte, data []byte, maxAge time.Duration) error {
	rec := storage.Record{
		Data:      data,
		ExpiresAt: s.now().Add(maxAge),
	}
	encoded, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucket)
		if err != nil {
			return err
		}
		return b.Put(recordKey, encoded)
	})
}

// get returns the unexpired payload for bucket, or storage.ErrNotFound.
// Undecodable stored bytes also read as absent so that a corrupted store
// never wedges the caller.
func (s *Store) get(bucket []byte) ([]byte, error) {
	var rec storage.Record
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return storage.ErrNotFound
		}
		data := b.Get(recordKey)
		if data == nil {
			return storage.ErrNotFound
		}
		if err := json.Unmarshal(data, &rec); err != nil {
			return storage.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if s.now().After(rec.ExpiresAt) {
		return nil, storage.ErrNotFound
	}
	return rec.Data, nil
}

func (s *Store) clear(bucket []byte) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		return b.Delete(recordKey)
	})
}

func (s *Store) SaveSession(data []byte, maxAge time.Duration) error {
	return s.put(bucketSession, data, maxAge)
}

func (s *Store) LoadSession() ([]byte, error) {
	return s.get(bucketSession)
}

func (s *Store) Exists() bool {
	_, err := s.get(bucketSession)
	return err == nil
}

func (s *Store) ClearSession() error {
	return s.clear(bucketSession)
}

func (s *Store) SaveRefreshToken(token string, maxAge time.Duration) error {
	return s.put(bucketRefresh, []byte(token), maxAge)
}

func (s *Store) RefreshToken() (string, error) {
	data, err := s.get(bucketRefresh)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (s *Store) ClearRefreshToken() error {
	return s.clear(bucketRefresh)
}
