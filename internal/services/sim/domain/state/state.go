// Package state defines the aggregate root persisted for a simulation session.
//
// A State is created once per cold start (fresh or loaded), mutated in place
// by the ledger, progression, mission and licensing components, and written to
// the durable slot at every checkpoint. There is never more than one live
// mutable copy per process.
package state

// Cents is a fixed-point currency amount in hundredths of the base unit.
type Cents int64

// Vec3 is a position in world space.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Quat is an orientation quaternion.
type Quat struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
	W float64 `json:"w"`
}

// IdentityRotation returns the no-rotation quaternion.
func IdentityRotation() Quat {
	return Quat{W: 1}
}

// Pose groups a position and orientation.
type Pose struct {
	Position Vec3
	Rotation Quat
}

// ShelfSnapshot records the product assignment of one shelf on a fixture.
type ShelfSnapshot struct {
	ProductID int `json:"product_id"`
	Quantity  int `json:"quantity"`
}

// PlacedObject is the snapshot of a placed fixture (shelving, counters, racks).
type PlacedObject struct {
	FurnitureID int                 `json:"furniture_id"`
	Position    Vec3                `json:"position"`
	Rotation    Quat                `json:"rotation"`
	InTransit   bool                `json:"in_transit"`
	Shelves     []ShelfSnapshot     `json:"shelves"`
	Contents    []ContainerSnapshot `json:"contents"`
}

// Pose returns the stored pose of the object.
func (p PlacedObject) Pose() Pose {
	return Pose{Position: p.Position, Rotation: p.Rotation}
}

// ContainerSnapshot is the snapshot of a box or crate.
//
// ProductID zero means the container is empty, and Quantity is zero exactly
// then.
type ContainerSnapshot struct {
	Definition string `json:"definition"`
	Position   Vec3   `json:"position"`
	Rotation   Quat   `json:"rotation"`
	Open       bool   `json:"open"`
	ProductID  int    `json:"product_id"`
	Quantity   int    `json:"quantity"`
}

// Empty reports whether the container holds no product.
func (c ContainerSnapshot) Empty() bool {
	return c.ProductID == 0
}

// Pose returns the stored pose of the container.
func (c ContainerSnapshot) Pose() Pose {
	return Pose{Position: c.Position, Rotation: c.Rotation}
}

// CustomPrice overrides the catalog price of one product.
type CustomPrice struct {
	ProductID int   `json:"product_id"`
	Price     Cents `json:"price"`
}

// Period summarizes the money flow of the current in-game day.
type Period struct {
	Revenue        Cents `json:"revenue"`
	Spending       Cents `json:"spending"`
	OpeningBalance Cents `json:"opening_balance"`
}

// MissionProgress tracks the active mission. A nil record means every
// catalog mission is finished.
type MissionProgress struct {
	MissionID int  `json:"mission_id"`
	Progress  int  `json:"progress"`
	Complete  bool `json:"complete"`
}

// State is the persisted aggregate root of a session.
type State struct {
	Name           string              `json:"name"`
	Balance        Cents               `json:"balance"`
	Level          int                 `json:"level"`
	Experience     int                 `json:"experience"`
	PlacedObjects  []PlacedObject      `json:"placed_objects"`
	Containers     []ContainerSnapshot `json:"containers"`
	CustomPrices   []CustomPrice       `json:"custom_prices"`
	PendingOrders  Cents               `json:"pending_orders"`
	UnpaidProducts Cents               `json:"unpaid_products"`
	Licensed       IDSet               `json:"licensed"`
	ExpansionTier  int                 `json:"expansion_tier"`
	Day            int                 `json:"day"`
	Minutes        int                 `json:"minutes"`
	Period         Period              `json:"period"`
	Mission        *MissionProgress    `json:"mission"`
}

// CustomPrice returns the override for productID, if any.
func (s *State) CustomPrice(productID int) (Cents, bool) {
	for _, entry := range s.CustomPrices {
		if entry.ProductID == productID {
			return entry.Price, true
		}
	}
	return 0, false
}

// UpsertCustomPrice sets the override for productID, updating an existing
// entry in place so each product has at most one entry.
func (s *State) UpsertCustomPrice(productID int, price Cents) {
	for i := range s.CustomPrices {
		if s.CustomPrices[i].ProductID == productID {
			s.CustomPrices[i].Price = price
			return
		}
	}
	s.CustomPrices = append(s.CustomPrices, CustomPrice{ProductID: productID, Price: price})
}

// Clone returns a deep copy that shares no mutable memory with s.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	cloned := *s
	if s.PlacedObjects != nil {
		cloned.PlacedObjects = make([]PlacedObject, len(s.PlacedObjects))
		for i, obj := range s.PlacedObjects {
			cloned.PlacedObjects[i] = clonePlacedObject(obj)
		}
	}
	if s.Containers != nil {
		cloned.Containers = append([]ContainerSnapshot{}, s.Containers...)
	}
	if s.CustomPrices != nil {
		cloned.CustomPrices = append([]CustomPrice{}, s.CustomPrices...)
	}
	cloned.Licensed = s.Licensed.Clone()
	if s.Mission != nil {
		mission := *s.Mission
		cloned.Mission = &mission
	}
	return &cloned
}

func clonePlacedObject(obj PlacedObject) PlacedObject {
	cloned := obj
	if obj.Shelves != nil {
		cloned.Shelves = append([]ShelfSnapshot{}, obj.Shelves...)
	}
	if obj.Contents != nil {
		cloned.Contents = append([]ContainerSnapshot{}, obj.Contents...)
	}
	return cloned
}
