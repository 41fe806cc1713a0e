package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	apperrors "github.com/louisbranch/shelfsim/internal/platform/errors"
	"github.com/louisbranch/shelfsim/internal/services/sim/domain/state"
)

// Repository saves and loads the aggregate state through a slot store.
type Repository struct {
	store Store
	slot  string
}

// NewRepository returns a repository over store for slot. A blank slot uses
// DefaultSlot.
func NewRepository(store Store, slot string) *Repository {
	slot = strings.TrimSpace(slot)
	if slot == "" {
		slot = DefaultSlot
	}
	return &Repository{store: store, slot: slot}
}

// Slot returns the slot name.
func (r *Repository) Slot() string {
	return r.slot
}

// Save writes the full state document.
func (r *Repository) Save(ctx context.Context, st *state.State) error {
	if r == nil || r.store == nil {
		return fmt.Errorf("storage is not configured")
	}
	if st == nil {
		return fmt.Errorf("state is required")
	}
	payload, err := Encode(st)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeSaveWriteFailed, "encode state", err)
	}
	if err := r.store.Put(ctx, r.slot, payload); err != nil {
		return apperrors.Wrap(apperrors.CodeSaveWriteFailed, "write slot "+r.slot, err)
	}
	return nil
}

// SavedAt returns when the slot was last written. ok is false when the store
// does not record write times or the slot is empty.
func (r *Repository) SavedAt(ctx context.Context) (at time.Time, ok bool, err error) {
	if r == nil {
		return time.Time{}, false, nil
	}
	stamped, isStamped := r.store.(Timestamped)
	if !isStamped {
		return time.Time{}, false, nil
	}
	at, err = stamped.UpdatedAt(ctx, r.slot)
	if errors.Is(err, ErrNotFound) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	return at, true, nil
}

// Load reads the state document. found is false when the slot is empty.
func (r *Repository) Load(ctx context.Context) (*state.State, bool, error) {
	if r == nil || r.store == nil {
		return nil, false, fmt.Errorf("storage is not configured")
	}
	payload, err := r.store.Get(ctx, r.slot)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read slot %s: %w", r.slot, err)
	}
	st, err := Decode(payload)
	if err != nil {
		return nil, false, err
	}
	return st, true, nil
}

// Encode serializes st as JSON.
func Encode(st *state.State) ([]byte, error) {
	return json.Marshal(st)
}

// Decode parses a state document strictly. Unknown fields, trailing data and
// structurally invalid states are reported as CodeSaveCorrupt.
func Decode(payload []byte) (*state.State, error) {
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.DisallowUnknownFields()

	var st state.State
	if err := dec.Decode(&st); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeSaveCorrupt, "decode state", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, apperrors.New(apperrors.CodeSaveCorrupt, "decode state: trailing data after document")
	}
	if err := st.Validate(); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeSaveCorrupt, "validate state", err)
	}
	return &st, nil
}
