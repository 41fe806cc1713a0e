package storage

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// ErrSlotRequired indicates a blank slot name.
var ErrSlotRequired = errors.New("slot name is required")

// Memory stores slots in memory.
type Memory struct {
	mu    sync.Mutex
	slots map[string][]byte
}

// NewMemory creates a new in-memory slot store.
func NewMemory() *Memory {
	return &Memory{slots: make(map[string][]byte)}
}

// Put replaces the payload of slot.
func (m *Memory) Put(ctx context.Context, slot string, payload []byte) error {
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	if m == nil {
		return errors.New("slot store is required")
	}
	slot = strings.TrimSpace(slot)
	if slot == "" {
		return ErrSlotRequired
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.slots[slot] = append([]byte(nil), payload...)
	return nil
}

// Get returns a copy of the payload of slot.
func (m *Memory) Get(ctx context.Context, slot string) ([]byte, error) {
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
	if m == nil {
		return nil, errors.New("slot store is required")
	}
	slot = strings.TrimSpace(slot)
	if slot == "" {
		return nil, ErrSlotRequired
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	payload, ok := m.slots[slot]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), payload...), nil
}
