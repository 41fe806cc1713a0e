package world

import "github.com/louisbranch/shelfsim/internal/services/sim/domain/state"

// Buffer collects snapshots during a gather. Participants append to it; the
// state only sees the result once every participant has written.
type Buffer struct {
	PlacedObjects []state.PlacedObject
	Containers    []state.ContainerSnapshot
}

// Participant is a live object that contributes a snapshot at checkpoint.
type Participant interface {
	Snapshot(buf *Buffer)
}

// Participants is the save-trigger registry. Registration order is the
// snapshot order.
type Participants struct {
	entries []Participant
}

// NewParticipants returns an empty registry.
func NewParticipants() *Participants {
	return &Participants{}
}

// Register adds p. Registering the same participant twice is a no-op.
func (r *Participants) Register(p Participant) {
	if p == nil || r.index(p) >= 0 {
		return
	}
	r.entries = append(r.entries, p)
}

// Unregister removes p if present.
func (r *Participants) Unregister(p Participant) {
	i := r.index(p)
	if i < 0 {
		return
	}
	r.entries = append(r.entries[:i:i], r.entries[i+1:]...)
}

// Len returns the number of registered participants.
func (r *Participants) Len() int {
	return len(r.entries)
}

func (r *Participants) index(p Participant) int {
	for i, entry := range r.entries {
		if entry == p {
			return i
		}
	}
	return -1
}

// Gather asks every participant for its snapshot into a fresh buffer, then
// swaps the buffer into st.
func (r *Participants) Gather(st *state.State) {
	buf := Buffer{
		PlacedObjects: []state.PlacedObject{},
		Containers:    []state.ContainerSnapshot{},
	}
	for _, p := range r.entries {
		p.Snapshot(&buf)
	}
	st.PlacedObjects = buf.PlacedObjects
	st.Containers = buf.Containers
}
