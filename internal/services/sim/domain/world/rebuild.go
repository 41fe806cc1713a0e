package world

import (
	"github.com/louisbranch/shelfsim/internal/services/sim/domain/catalog"
	"github.com/louisbranch/shelfsim/internal/services/sim/domain/ledger"
	"github.com/louisbranch/shelfsim/internal/services/sim/domain/licensing"
	"github.com/louisbranch/shelfsim/internal/services/sim/domain/mission"
	"github.com/louisbranch/shelfsim/internal/services/sim/domain/state"
	"go.uber.org/zap"
)

// Report counts what a rebuild restored and skipped.
type Report struct {
	Fixtures int
	Crates   int
	Skipped  int
	Refunded state.Cents
}

// Rebuild replaces the stage contents with the objects recorded in st, then
// folds pending values into the balance through l. Running it twice yields
// the same scene.
func (s *Stage) Rebuild(st *state.State, l *ledger.Ledger) Report {
	s.Clear()

	var report Report
	for _, snap := range st.PlacedObjects {
		def, ok := s.catalog.Furniture(snap.FurnitureID)
		if !ok {
			s.logger.Warn("skipping placed object with unknown furniture", zap.Int("furniture_id", snap.FurnitureID))
			report.Skipped++
			continue
		}

		pose := snap.Pose()
		if snap.InTransit {
			pose = state.Pose{Position: InTransitPosition, Rotation: state.IdentityRotation()}
		}
		f := newFixture(def, pose)
		f.inTransit = snap.InTransit
		s.restoreShelves(f, snap.Shelves)
		for _, nested := range snap.Contents {
			c, ok := s.restoreCrate(nested)
			if !ok {
				report.Skipped++
				continue
			}
			f.contents = append(f.contents, c)
		}

		s.fixtures = append(s.fixtures, f)
		s.participants.Register(f)
		report.Fixtures++
	}

	for _, snap := range st.Containers {
		c, ok := s.restoreCrate(snap)
		if !ok {
			report.Skipped++
			continue
		}
		s.crates = append(s.crates, c)
		s.participants.Register(c)
		report.Crates++
	}

	report.Refunded = l.FoldPending()
	s.logger.Info("world rebuilt",
		zap.Int("fixtures", report.Fixtures),
		zap.Int("crates", report.Crates),
		zap.Int("skipped", report.Skipped),
		zap.Int64("refunded", int64(report.Refunded)),
	)
	return report
}

func (s *Stage) restoreShelves(f *Fixture, shelves []state.ShelfSnapshot) {
	for i, shelf := range shelves {
		if i >= len(f.shelves) {
			s.logger.Warn("dropping shelf beyond fixture capacity",
				zap.Int("furniture_id", f.def.ID),
				zap.Int("shelf", i),
			)
			continue
		}
		if shelf.ProductID == 0 {
			continue
		}
		if _, ok := s.catalog.Product(shelf.ProductID); !ok {
			s.logger.Warn("dropping shelf with unknown product", zap.Int("product_id", shelf.ProductID))
			continue
		}
		f.shelves[i] = shelf
	}
}

func (s *Stage) restoreCrate(snap state.ContainerSnapshot) (*Crate, bool) {
	c, err := s.newCrate(snap.Definition, snap.Pose())
	if err != nil {
		s.logger.Warn("skipping container with unknown definition", zap.String("container", snap.Definition))
		return nil, false
	}
	c.restore(snap)
	return c, true
}

// NewState builds the state of a fresh session from catalog defaults.
func NewState(reg *catalog.Registry) *state.State {
	defaults := reg.Defaults()
	st := &state.State{
		Name:          defaults.StoreName,
		Balance:       defaults.StartingBalance,
		Level:         1,
		PlacedObjects: []state.PlacedObject{},
		Containers:    []state.ContainerSnapshot{},
		CustomPrices:  []state.CustomPrice{},
		Licensed:      state.NewIDSet(),
		Day:           1,
		Minutes:       reg.StartMinutes(),
		Period:        state.Period{OpeningBalance: defaults.StartingBalance},
		Mission:       mission.Start(reg),
	}
	licensing.SeedDefaults(reg, &st.Licensed)
	return st
}
