// Package mission tracks the single active campaign goal and advances through
// the catalog missions in id order.
package mission

import (
	"strconv"

	apperrors "github.com/louisbranch/shelfsim/internal/platform/errors"
	"github.com/louisbranch/shelfsim/internal/platform/logging"
	"github.com/louisbranch/shelfsim/internal/services/sim/domain/catalog"
	"github.com/louisbranch/shelfsim/internal/services/sim/domain/ledger"
	"github.com/louisbranch/shelfsim/internal/services/sim/domain/notify"
	"github.com/louisbranch/shelfsim/internal/services/sim/domain/state"
	"go.uber.org/zap"
)

// Machine drives the mission record stored on a state.
type Machine struct {
	state   *state.State
	catalog *catalog.Registry
	ledger  *ledger.Ledger
	bus     *notify.Bus
	logger  *zap.Logger
}

// New returns a mission machine. A nil logger discards warnings.
func New(st *state.State, reg *catalog.Registry, l *ledger.Ledger, bus *notify.Bus, logger *zap.Logger) *Machine {
	logger = logging.OrNop(logger)
	return &Machine{state: st, catalog: reg, ledger: l, bus: bus, logger: logger}
}

// Current returns the active mission definition and its progress record.
// ok is false when every mission is finished or the stored id is not in the
// catalog.
func (m *Machine) Current() (catalog.Mission, *state.MissionProgress, bool) {
	record := m.state.Mission
	if record == nil {
		return catalog.Mission{}, nil, false
	}
	def, found := m.catalog.Mission(record.MissionID)
	if !found {
		m.logger.Warn("active mission not in catalog", zap.Int("mission_id", record.MissionID))
		return catalog.Mission{}, nil, false
	}
	return def, record, true
}

// UpdateProgress credits amount toward the active mission when goal matches
// its type. Targeted goals only count when itemID is the mission target.
// Every matched call emits a mission update, including zero amounts.
func (m *Machine) UpdateProgress(goal catalog.GoalType, amount, itemID int) {
	def, record, ok := m.Current()
	if !ok || record.Complete || def.Goal != goal {
		return
	}
	targeted, err := goal.Targeted()
	if err != nil {
		m.logger.Warn("unknown mission goal", zap.String("goal", string(goal)))
		return
	}
	if targeted && itemID != def.TargetID {
		return
	}

	if amount > 0 {
		record.Progress += amount
	}
	if record.Progress >= def.Amount {
		record.Progress = def.Amount
		record.Complete = true
	}
	m.bus.MissionUpdated(notify.MissionUpdate{Definition: &def, Progress: record})
}

// Advance pays the reward of the completed mission and activates the next
// one in catalog order, or finishes the campaign when none is left.
func (m *Machine) Advance() error {
	def, record, ok := m.Current()
	if !ok {
		return apperrors.New(apperrors.CodeMissionNoneActive, "no active mission")
	}
	if !record.Complete {
		return apperrors.WithMetadata(apperrors.CodeMissionIncomplete, "mission is not complete", map[string]string{
			"mission_id": strconv.Itoa(def.ID),
		})
	}

	if def.Reward != 0 {
		m.ledger.Credit(def.Reward)
	}

	next, found := m.catalog.NextMission(def.ID)
	if !found {
		m.state.Mission = nil
		m.logger.Info("campaign finished", zap.Int("last_mission_id", def.ID))
		m.bus.MissionUpdated(notify.MissionUpdate{})
		return nil
	}
	m.state.Mission = &state.MissionProgress{MissionID: next.ID}
	m.logger.Debug("mission advanced", zap.Int("from", def.ID), zap.Int("to", next.ID))
	m.bus.MissionUpdated(notify.MissionUpdate{Definition: &next, Progress: m.state.Mission})
	return nil
}

// Start activates the first catalog mission, or nil when the catalog has
// none.
func Start(reg *catalog.Registry) *state.MissionProgress {
	first, ok := reg.FirstMission()
	if !ok {
		return nil
	}
	return &state.MissionProgress{MissionID: first.ID}
}
