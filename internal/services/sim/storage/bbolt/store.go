// Package bbolt provides a BoltDB-backed save slot store.
package bbolt

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/louisbranch/shelfsim/internal/platform/timeouts"
	"github.com/louisbranch/shelfsim/internal/services/sim/storage"
	"go.etcd.io/bbolt"
)

const slotBucket = "slots"

// Store keeps one key per slot in a single bucket.
type Store struct {
	db *bbolt.DB
}

// Open opens a BoltDB-backed store at the provided path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	db, err := bbolt.Open(cleanPath, 0o600, &bbolt.Options{Timeout: timeouts.StorageDial})
	if err != nil {
		return nil, fmt.Errorf("open storage db: %w", err)
	}

	store := &Store{db: db}
	if err := store.ensureBuckets(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying BoltDB database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Put replaces the payload of slot inside one update transaction.
func (s *Store) Put(ctx context.Context, slot string, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return fmt.Errorf("storage is not configured")
	}
	slot = strings.TrimSpace(slot)
	if slot == "" {
		return storage.ErrSlotRequired
	}
	if payload == nil {
		payload = []byte{}
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(slotBucket))
		if bucket == nil {
			return fmt.Errorf("slot bucket is missing")
		}
		return bucket.Put([]byte(slot), payload)
	})
}

// Get returns a copy of the payload of slot.
func (s *Store) Get(ctx context.Context, slot string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	slot = strings.TrimSpace(slot)
	if slot == "" {
		return nil, storage.ErrSlotRequired
	}

	var payload []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(slotBucket))
		if bucket == nil {
			return fmt.Errorf("slot bucket is missing")
		}
		value := bucket.Get([]byte(slot))
		if value == nil {
			return storage.ErrNotFound
		}
		// Bolt values are only valid for the life of the transaction.
		payload = append([]byte(nil), value...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return payload, nil
}

func (s *Store) ensureBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(slotBucket))
		if err != nil {
			return fmt.Errorf("create slot bucket: %w", err)
		}
		return nil
	})
}
