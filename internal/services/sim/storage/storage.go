// Package storage defines the durable slot contract for simulation saves and
// the repository that encodes the aggregate state into a slot.
package storage

import (
	"context"
	"errors"
	"time"
)

// DefaultSlot is the slot holding the session save.
const DefaultSlot = "GameData"

// ErrNotFound indicates the requested slot holds no payload.
var ErrNotFound = errors.New("slot not found")

// Store persists opaque payloads by slot name. Put replaces the whole slot in
// one write.
type Store interface {
	Put(ctx context.Context, slot string, payload []byte) error
	Get(ctx context.Context, slot string) ([]byte, error)
}

// Closer is implemented by stores holding external resources.
type Closer interface {
	Close() error
}

// Timestamped is implemented by stores that record when a slot was written.
type Timestamped interface {
	UpdatedAt(ctx context.Context, slot string) (time.Time, error)
}
