package state

import (
	"bytes"
	"encoding/json"
	"sort"
)

// IDSet is a set of integer identifiers. It serializes as a sorted JSON
// array so persisted payloads are stable between saves.
type IDSet map[int]struct{}

// NewIDSet builds a set from ids.
func NewIDSet(ids ...int) IDSet {
	set := make(IDSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// Has reports membership.
func (s IDSet) Has(id int) bool {
	_, ok := s[id]
	return ok
}

// Add inserts id, allocating the set when needed. The set has no removal
// operation: licensed products only accumulate.
func (s *IDSet) Add(id int) {
	if *s == nil {
		*s = make(IDSet)
	}
	(*s)[id] = struct{}{}
}

// Sorted returns the members in ascending order.
func (s IDSet) Sorted() []int {
	ids := make([]int, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Clone copies the set, preserving nil.
func (s IDSet) Clone() IDSet {
	if s == nil {
		return nil
	}
	cloned := make(IDSet, len(s))
	for id := range s {
		cloned[id] = struct{}{}
	}
	return cloned
}

// MarshalJSON encodes the set as a sorted array, or null when nil.
func (s IDSet) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("null"), nil
	}
	return json.Marshal(s.Sorted())
}

// UnmarshalJSON decodes a JSON array of ids.
func (s *IDSet) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*s = nil
		return nil
	}
	var ids []int
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	*s = NewIDSet(ids...)
	return nil
}
