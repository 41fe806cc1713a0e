package state

import "fmt"

// Validate checks the structural invariants a decoded payload must satisfy
// before it may replace the live state.
func (s *State) Validate() error {
	if s == nil {
		return fmt.Errorf("state is required")
	}
	if s.Level < 1 {
		return fmt.Errorf("level must be at least 1, got %d", s.Level)
	}
	if s.Experience < 0 {
		return fmt.Errorf("experience must not be negative, got %d", s.Experience)
	}
	if s.Day < 0 || s.Minutes < 0 {
		return fmt.Errorf("clock must not be negative (day %d, minutes %d)", s.Day, s.Minutes)
	}
	if s.PendingOrders < 0 || s.UnpaidProducts < 0 {
		return fmt.Errorf("pending values must not be negative")
	}
	for i, obj := range s.PlacedObjects {
		if obj.FurnitureID <= 0 {
			return fmt.Errorf("placed object %d: furniture id must be positive", i)
		}
		for j, shelf := range obj.Shelves {
			if err := validateContents(shelf.ProductID, shelf.Quantity); err != nil {
				return fmt.Errorf("placed object %d shelf %d: %w", i, j, err)
			}
		}
		for j, nested := range obj.Contents {
			if err := validateContainer(nested); err != nil {
				return fmt.Errorf("placed object %d content %d: %w", i, j, err)
			}
		}
	}
	for i, container := range s.Containers {
		if err := validateContainer(container); err != nil {
			return fmt.Errorf("container %d: %w", i, err)
		}
	}
	seen := make(map[int]struct{}, len(s.CustomPrices))
	for _, entry := range s.CustomPrices {
		if _, dup := seen[entry.ProductID]; dup {
			return fmt.Errorf("duplicate custom price for product %d", entry.ProductID)
		}
		seen[entry.ProductID] = struct{}{}
	}
	if s.Mission != nil {
		if s.Mission.MissionID <= 0 {
			return fmt.Errorf("mission id must be positive, got %d", s.Mission.MissionID)
		}
		if s.Mission.Progress < 0 {
			return fmt.Errorf("mission progress must not be negative")
		}
	}
	return nil
}

func validateContainer(c ContainerSnapshot) error {
	if c.Definition == "" {
		return fmt.Errorf("definition name is required")
	}
	return validateContents(c.ProductID, c.Quantity)
}

func validateContents(productID, quantity int) error {
	if productID < 0 || quantity < 0 {
		return fmt.Errorf("product id and quantity must not be negative")
	}
	if (productID == 0) != (quantity == 0) {
		return fmt.Errorf("quantity %d does not match product %d", quantity, productID)
	}
	return nil
}
