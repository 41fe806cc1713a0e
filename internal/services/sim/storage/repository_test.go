package storage

import (
	"context"
	"errors"
	"reflect"
	"testing"

	apperrors "github.com/louisbranch/shelfsim/internal/platform/errors"
	"github.com/louisbranch/shelfsim/internal/services/sim/domain/state"
)

func fullState() *state.State {
	return &state.State{
		Name:       "Corner Market",
		Balance:    123456,
		Level:      4,
		Experience: 17,
		PlacedObjects: []state.PlacedObject{
			{
				FurnitureID: 2,
				Position:    state.Vec3{X: 1.25, Y: 0, Z: -3.5},
				Rotation:    state.Quat{Y: 0.70710678, W: 0.70710678},
				InTransit:   true,
				Shelves:     []state.ShelfSnapshot{{ProductID: 3, Quantity: 12}, {}},
				Contents: []state.ContainerSnapshot{
					{Definition: "small_box", Position: state.Vec3{X: 1}, Rotation: state.Quat{W: 1}, ProductID: 4, Quantity: 2},
				},
			},
		},
		Containers: []state.ContainerSnapshot{
			{Definition: "large_box", Position: state.Vec3{Z: 9}, Rotation: state.Quat{W: 1}, Open: true},
		},
		CustomPrices:   []state.CustomPrice{{ProductID: 3, Price: 410}},
		PendingOrders:  700,
		UnpaidProducts: 55,
		Licensed:       state.NewIDSet(1, 2, 3, 4),
		ExpansionTier:  2,
		Day:            12,
		Minutes:        615,
		Period:         state.Period{Revenue: 9000, Spending: 3000, OpeningBalance: 117456},
		Mission:        &state.MissionProgress{MissionID: 4, Progress: 7},
	}
}

func TestRepositoryRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		state *state.State
	}{
		{name: "empty", state: &state.State{Level: 1}},
		{name: "populated", state: fullState()},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := NewRepository(NewMemory(), "")
			ctx := context.Background()
			if err := repo.Save(ctx, tc.state); err != nil {
				t.Fatalf("save: %v", err)
			}
			loaded, found, err := repo.Load(ctx)
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if !found {
				t.Fatal("expected saved state to be found")
			}
			if !reflect.DeepEqual(loaded, tc.state) {
				t.Fatalf("loaded = %+v\nwant %+v", loaded, tc.state)
			}
		})
	}
}

func TestRepositoryLoadMissingSlot(t *testing.T) {
	repo := NewRepository(NewMemory(), "Other")
	st, found, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if found || st != nil {
		t.Fatalf("found = %v state = %+v, want nothing", found, st)
	}
	if repo.Slot() != "Other" {
		t.Fatalf("slot = %q, want Other", repo.Slot())
	}
}

func TestRepositoryLoadCorruptPayload(t *testing.T) {
	tests := map[string]string{
		"not json":      `{"name": `,
		"wrong type":    `{"balance": "lots"}`,
		"unknown field": `{"level": 1, "gems": 5}`,
		"trailing":      `{"level": 1} {"level": 2}`,
		"invalid level": `{"level": 0}`,
	}
	for name, payload := range tests {
		t.Run(name, func(t *testing.T) {
			store := NewMemory()
			if err := store.Put(context.Background(), DefaultSlot, []byte(payload)); err != nil {
				t.Fatalf("put: %v", err)
			}
			st, found, err := NewRepository(store, "").Load(context.Background())
			if !apperrors.HasCode(err, apperrors.CodeSaveCorrupt) {
				t.Fatalf("error = %v, want %s", err, apperrors.CodeSaveCorrupt)
			}
			if found || st != nil {
				t.Fatal("expected no partial state on corrupt payload")
			}
		})
	}
}

type failingStore struct{ err error }

func (f failingStore) Put(context.Context, string, []byte) error { return f.err }
func (f failingStore) Get(context.Context, string) ([]byte, error) {
	return nil, f.err
}

func TestRepositoryPropagatesStoreErrors(t *testing.T) {
	boom := errors.New("disk full")
	repo := NewRepository(failingStore{err: boom}, "")

	err := repo.Save(context.Background(), &state.State{Level: 1})
	if !apperrors.HasCode(err, apperrors.CodeSaveWriteFailed) || !errors.Is(err, boom) {
		t.Fatalf("save error = %v, want write failure wrapping cause", err)
	}
	if _, _, err := repo.Load(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("load error = %v, want cause", err)
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	if _, err := store.Get(ctx, "a"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get missing error = %v, want ErrNotFound", err)
	}
	if err := store.Put(ctx, " ", []byte("x")); !errors.Is(err, ErrSlotRequired) {
		t.Fatalf("put blank error = %v, want ErrSlotRequired", err)
	}

	payload := []byte("first")
	if err := store.Put(ctx, "a", payload); err != nil {
		t.Fatalf("put: %v", err)
	}
	payload[0] = 'X'
	if err := store.Put(ctx, "b", []byte("other")); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, err := store.Get(ctx, "a")
	if err != nil || string(got) != "first" {
		t.Fatalf("get = %q (%v), want first", got, err)
	}

	if err := store.Put(ctx, "a", []byte("second")); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, _ = store.Get(ctx, "a")
	if string(got) != "second" {
		t.Fatalf("get after overwrite = %q, want second", got)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if err := store.Put(cancelled, "a", nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("put with cancelled ctx error = %v", err)
	}

	var nilStore *Memory
	if _, err := nilStore.Get(ctx, "a"); err == nil {
		t.Fatal("expected error from nil store")
	}
}

func TestRepositorySavedAtWithoutTimestamps(t *testing.T) {
	repo := NewRepository(NewMemory(), "")
	if err := repo.Save(context.Background(), &state.State{Level: 1, Day: 1}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, ok, err := repo.SavedAt(context.Background()); err != nil || ok {
		t.Fatalf("saved at = ok %v err %v, want not recorded", ok, err)
	}
}
