package storage

import (
	"context"
	"os"
	"path/filepath"

	"github.com/boltdb/bolt"

	"github.com/yourname/healthtrack/internal"
)

const kvBucket = "health"

// BoltStore persists keys in a single BoltDB bucket.
type BoltStore struct {
	db     *bolt.DB
	logger internal.Logger
}

func NewBoltStore(path string, logger internal.Logger) (*BoltStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		logger.Errorf("storage: failed to open bolt db %s: %v", path, err)
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(kvBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &BoltStore{db: db, logger: logger}, nil
}

func (s *BoltStore) Get(ctx context.Context, key string) (string, bool, error) {
	var val []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(kvBucket))
		if bucket == nil {
			return nil
		}
		if v := bucket.Get([]byte(key)); v != nil {
			val = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return "", false, err
	}
	if val == nil {
		return "", false, nil
	}
	return string(val), true, nil
}

func (s *BoltStore) Set(ctx context.Context, key, value string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists([]byte(kvBucket))
		if err != nil {
			return err
		}
		return bucket.Put([]byte(key), []byte(value))
	})
}

func (s *BoltStore) Delete(ctx context.Context, key string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(kvBucket))
		if bucket == nil {
			return nil
		}
		return bucket.Delete([]byte(key))
	})
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

var _ KVStore = (*BoltStore)(nil)
