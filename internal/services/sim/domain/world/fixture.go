package world

import (
	"errors"
	"fmt"

	"github.com/louisbranch/shelfsim/internal/services/sim/domain/catalog"
	"github.com/louisbranch/shelfsim/internal/services/sim/domain/state"
)

// ErrShelfRange is returned for a shelf index the fixture does not have.
var ErrShelfRange = errors.New("shelf index out of range")

// InTransitPosition is where objects that were being carried at save time
// are parked on load, below the playable floor.
var InTransitPosition = state.Vec3{X: 0, Y: -1000, Z: 0}

// Fixture is a live placed object: shelving, racks and counters.
type Fixture struct {
	def       catalog.Furniture
	pose      state.Pose
	inTransit bool
	shelves   []state.ShelfSnapshot
	contents  []*Crate
}

func newFixture(def catalog.Furniture, pose state.Pose) *Fixture {
	return &Fixture{
		def:     def,
		pose:    pose,
		shelves: make([]state.ShelfSnapshot, def.Shelves),
	}
}

// Definition returns the furniture definition.
func (f *Fixture) Definition() catalog.Furniture {
	return f.def
}

// Pose returns the current pose.
func (f *Fixture) Pose() state.Pose {
	return f.pose
}

// InTransit reports whether the fixture is being carried.
func (f *Fixture) InTransit() bool {
	return f.inTransit
}

// PickUp marks the fixture as carried.
func (f *Fixture) PickUp() {
	f.inTransit = true
}

// MoveTo places the fixture at pose and ends any carry.
func (f *Fixture) MoveTo(pose state.Pose) {
	f.pose = pose
	f.inTransit = false
}

// Shelf returns the assignment of shelf i.
func (f *Fixture) Shelf(i int) (state.ShelfSnapshot, error) {
	if i < 0 || i >= len(f.shelves) {
		return state.ShelfSnapshot{}, fmt.Errorf("shelf %d of %s: %w", i, f.def.Name, ErrShelfRange)
	}
	return f.shelves[i], nil
}

// Stock puts quantity units of productID on shelf i. A shelf holds a single
// product; stocking a different product replaces it.
func (f *Fixture) Stock(i, productID, quantity int) error {
	if i < 0 || i >= len(f.shelves) {
		return fmt.Errorf("stock shelf %d of %s: %w", i, f.def.Name, ErrShelfRange)
	}
	if productID <= 0 || quantity <= 0 {
		return fmt.Errorf("stock shelf %d: product and quantity must be positive", i)
	}
	shelf := &f.shelves[i]
	if shelf.ProductID != productID {
		shelf.ProductID = productID
		shelf.Quantity = 0
	}
	shelf.Quantity += quantity
	return nil
}

// ClearShelf empties shelf i.
func (f *Fixture) ClearShelf(i int) error {
	if i < 0 || i >= len(f.shelves) {
		return fmt.Errorf("clear shelf %d of %s: %w", i, f.def.Name, ErrShelfRange)
	}
	f.shelves[i] = state.ShelfSnapshot{}
	return nil
}

// Contents returns the crates stored on the fixture.
func (f *Fixture) Contents() []*Crate {
	return append([]*Crate(nil), f.contents...)
}

// Snapshot appends the fixture and its nested crates.
func (f *Fixture) Snapshot(buf *Buffer) {
	obj := state.PlacedObject{
		FurnitureID: f.def.ID,
		Position:    f.pose.Position,
		Rotation:    f.pose.Rotation,
		InTransit:   f.inTransit,
		Shelves:     append([]state.ShelfSnapshot{}, f.shelves...),
		Contents:    make([]state.ContainerSnapshot, 0, len(f.contents)),
	}
	for _, c := range f.contents {
		obj.Contents = append(obj.Contents, c.snapshot())
	}
	buf.PlacedObjects = append(buf.PlacedObjects, obj)
}
