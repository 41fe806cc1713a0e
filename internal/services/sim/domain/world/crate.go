package world

import (
	"errors"
	"fmt"

	"github.com/louisbranch/shelfsim/internal/services/sim/domain/catalog"
	"github.com/louisbranch/shelfsim/internal/services/sim/domain/state"
)

var (
	// ErrCrateFull is returned when a fill exceeds the container capacity.
	ErrCrateFull = errors.New("crate capacity exceeded")
	// ErrMixedProduct is returned when filling a crate that holds another
	// product.
	ErrMixedProduct = errors.New("crate holds a different product")
)

// Crate is a live box. It holds at most one product.
type Crate struct {
	def       catalog.Container
	pose      state.Pose
	open      bool
	productID int
	quantity  int
}

func newCrate(def catalog.Container, pose state.Pose) *Crate {
	return &Crate{def: def, pose: pose}
}

// Definition returns the container definition.
func (c *Crate) Definition() catalog.Container {
	return c.def
}

// Pose returns the current pose.
func (c *Crate) Pose() state.Pose {
	return c.pose
}

// MoveTo places the crate at pose.
func (c *Crate) MoveTo(pose state.Pose) {
	c.pose = pose
}

// Open lifts the lid.
func (c *Crate) Open() { c.open = true }

// Close shuts the lid.
func (c *Crate) Close() { c.open = false }

// IsOpen reports whether the lid is open.
func (c *Crate) IsOpen() bool { return c.open }

// Contents returns the held product and quantity; productID is zero when
// empty.
func (c *Crate) Contents() (productID, quantity int) {
	return c.productID, c.quantity
}

// Fill adds quantity units of productID.
func (c *Crate) Fill(productID, quantity int) error {
	if productID <= 0 || quantity <= 0 {
		return fmt.Errorf("fill crate: product and quantity must be positive")
	}
	if c.productID != 0 && c.productID != productID {
		return fmt.Errorf("fill crate with product %d: %w", productID, ErrMixedProduct)
	}
	if c.quantity+quantity > c.def.Capacity {
		return fmt.Errorf("fill crate %s with %d: %w", c.def.Name, quantity, ErrCrateFull)
	}
	c.productID = productID
	c.quantity += quantity
	return nil
}

// Take removes up to n units and returns how many were removed. The crate
// becomes empty when its last unit is taken.
func (c *Crate) Take(n int) int {
	if n <= 0 || c.quantity == 0 {
		return 0
	}
	if n > c.quantity {
		n = c.quantity
	}
	c.quantity -= n
	if c.quantity == 0 {
		c.productID = 0
	}
	return n
}

// Snapshot appends the crate to the loose container list.
func (c *Crate) Snapshot(buf *Buffer) {
	buf.Containers = append(buf.Containers, c.snapshot())
}

func (c *Crate) snapshot() state.ContainerSnapshot {
	return state.ContainerSnapshot{
		Definition: c.def.Name,
		Position:   c.pose.Position,
		Rotation:   c.pose.Rotation,
		Open:       c.open,
		ProductID:  c.productID,
		Quantity:   c.quantity,
	}
}

func (c *Crate) restore(snap state.ContainerSnapshot) {
	if !snap.Empty() && snap.Quantity > 0 {
		c.productID = snap.ProductID
		c.quantity = snap.Quantity
	}
	if snap.Open {
		c.Open()
	}
}
