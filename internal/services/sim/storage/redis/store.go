// Package redis provides a Redis-backed save slot store for deployments that
// keep saves off the local disk.
package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/louisbranch/shelfsim/internal/platform/timeouts"
	"github.com/louisbranch/shelfsim/internal/services/sim/storage"
	goredis "github.com/redis/go-redis/v9"
)

// KeyPrefix namespaces slot keys.
const KeyPrefix = "shelfsim:slot:"

// Store keeps one key per slot.
type Store struct {
	client goredis.UniversalClient
	prefix string
}

// Open parses url, connects and pings the server.
func Open(ctx context.Context, url string) (*Store, error) {
	if strings.TrimSpace(url) == "" {
		return nil, fmt.Errorf("redis url is required")
	}
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	opts.DialTimeout = timeouts.StorageDial
	client := goredis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, timeouts.StorageDial)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return New(client, KeyPrefix), nil
}

// New wraps an existing client. A blank prefix uses KeyPrefix.
func New(client goredis.UniversalClient, prefix string) *Store {
	if prefix == "" {
		prefix = KeyPrefix
	}
	return &Store{client: client, prefix: prefix}
}

// Close closes the client.
func (s *Store) Close() error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Close()
}

// Put replaces the payload of slot with a single SET without expiry.
func (s *Store) Put(ctx context.Context, slot string, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.client == nil {
		return fmt.Errorf("storage is not configured")
	}
	slot = strings.TrimSpace(slot)
	if slot == "" {
		return storage.ErrSlotRequired
	}
	if err := s.client.Set(ctx, s.key(slot), payload, 0).Err(); err != nil {
		return fmt.Errorf("put slot %s: %w", slot, err)
	}
	return nil
}

// Get returns the payload of slot.
func (s *Store) Get(ctx context.Context, slot string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.client == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	slot = strings.TrimSpace(slot)
	if slot == "" {
		return nil, storage.ErrSlotRequired
	}
	payload, err := s.client.Get(ctx, s.key(slot)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get slot %s: %w", slot, err)
	}
	return payload, nil
}

func (s *Store) key(slot string) string {
	return s.prefix + slot
}
