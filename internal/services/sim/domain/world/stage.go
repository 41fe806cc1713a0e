// Package world hosts the live objects of a session and moves them between
// the live scene and the persisted state.
//
// Rebuild turns a loaded state into live fixtures and crates. Gather (through
// Participants) turns them back into snapshots at checkpoint time.
package world

import (
	"fmt"

	apperrors "github.com/louisbranch/shelfsim/internal/platform/errors"
	"github.com/louisbranch/shelfsim/internal/platform/logging"
	"github.com/louisbranch/shelfsim/internal/services/sim/domain/catalog"
	"github.com/louisbranch/shelfsim/internal/services/sim/domain/state"
	"go.uber.org/zap"
)

// Stage is the headless scene. Every top-level fixture and crate is a
// registered participant while it is on stage.
type Stage struct {
	catalog      *catalog.Registry
	participants *Participants
	logger       *zap.Logger
	fixtures     []*Fixture
	crates       []*Crate
}

// NewStage returns an empty stage registering its objects with participants.
func NewStage(reg *catalog.Registry, participants *Participants, logger *zap.Logger) *Stage {
	if participants == nil {
		participants = NewParticipants()
	}
	logger = logging.OrNop(logger)
	return &Stage{catalog: reg, participants: participants, logger: logger}
}

// Participants returns the registry used by the stage.
func (s *Stage) Participants() *Participants {
	return s.participants
}

// Fixtures returns the live fixtures in spawn order.
func (s *Stage) Fixtures() []*Fixture {
	return append([]*Fixture(nil), s.fixtures...)
}

// Crates returns the loose crates in spawn order.
func (s *Stage) Crates() []*Crate {
	return append([]*Crate(nil), s.crates...)
}

// SpawnFixture places a new fixture of furnitureID at pose.
func (s *Stage) SpawnFixture(furnitureID int, pose state.Pose) (*Fixture, error) {
	def, ok := s.catalog.Furniture(furnitureID)
	if !ok {
		return nil, apperrors.WithMetadata(apperrors.CodeNotFound, "furniture not found", map[string]string{
			"furniture_id": fmt.Sprint(furnitureID),
		})
	}
	f := newFixture(def, pose)
	s.fixtures = append(s.fixtures, f)
	s.participants.Register(f)
	return f, nil
}

// SpawnCrate places a new empty crate of the named definition at pose.
func (s *Stage) SpawnCrate(definition string, pose state.Pose) (*Crate, error) {
	c, err := s.newCrate(definition, pose)
	if err != nil {
		return nil, err
	}
	s.crates = append(s.crates, c)
	s.participants.Register(c)
	return c, nil
}

func (s *Stage) newCrate(definition string, pose state.Pose) (*Crate, error) {
	def, ok := s.catalog.Container(definition)
	if !ok {
		return nil, apperrors.WithMetadata(apperrors.CodeNotFound, "container not found", map[string]string{
			"container": definition,
		})
	}
	return newCrate(def, pose), nil
}

// StoreCrate moves a loose crate onto fixture f. The crate stops being a
// participant of its own and is saved as part of the fixture.
func (s *Stage) StoreCrate(f *Fixture, c *Crate) error {
	i := indexOf(s.crates, c)
	if i < 0 {
		return fmt.Errorf("store crate: crate is not on stage")
	}
	if indexOf(s.fixtures, f) < 0 {
		return fmt.Errorf("store crate: fixture is not on stage")
	}
	s.crates = append(s.crates[:i:i], s.crates[i+1:]...)
	s.participants.Unregister(c)
	f.contents = append(f.contents, c)
	return nil
}

// RemoveFixture takes f off stage.
func (s *Stage) RemoveFixture(f *Fixture) {
	if i := indexOf(s.fixtures, f); i >= 0 {
		s.fixtures = append(s.fixtures[:i:i], s.fixtures[i+1:]...)
		s.participants.Unregister(f)
	}
}

// RemoveCrate takes c off stage.
func (s *Stage) RemoveCrate(c *Crate) {
	if i := indexOf(s.crates, c); i >= 0 {
		s.crates = append(s.crates[:i:i], s.crates[i+1:]...)
		s.participants.Unregister(c)
	}
}

// Clear destroys every live object.
func (s *Stage) Clear() {
	for _, f := range s.fixtures {
		s.participants.Unregister(f)
	}
	for _, c := range s.crates {
		s.participants.Unregister(c)
	}
	s.fixtures = nil
	s.crates = nil
}

func indexOf[T comparable](items []T, target T) int {
	for i, item := range items {
		if item == target {
			return i
		}
	}
	return -1
}
