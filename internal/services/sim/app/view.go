package app

import "github.com/louisbranch/shelfsim/internal/services/sim/domain/state"

// View is a read-only summary of the session.
type View struct {
	Name        string       `json:"name"`
	Balance     state.Cents  `json:"balance"`
	BalanceText string       `json:"balance_text"`
	Level       int          `json:"level"`
	Experience  int          `json:"experience"`
	Progress    float64      `json:"progress"`
	Day         int          `json:"day"`
	TimeOfDay   string       `json:"time_of_day"`
	MinutesLeft int          `json:"minutes_left"`
	Paused      bool         `json:"paused"`
	Fixtures    int          `json:"fixtures"`
	Crates      int          `json:"crates"`
	Licensed    []int        `json:"licensed"`
	Mission     *MissionView `json:"mission"`
}

// MissionView describes the active mission.
type MissionView struct {
	ID       int         `json:"id"`
	Goal     string      `json:"goal"`
	TargetID int         `json:"target_id,omitempty"`
	Progress int         `json:"progress"`
	Amount   int         `json:"amount"`
	Complete bool        `json:"complete"`
	Reward   state.Cents `json:"reward"`
}

// View returns the current summary.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	sim := &s.sim
	st := sim.State
	view := View{
		Name:        st.Name,
		Balance:     st.Balance,
		BalanceText: sim.Ledger.Format(st.Balance),
		Level:       st.Level,
		Experience:  st.Experience,
		Progress:    sim.Progression.Fraction(),
		Day:         st.Day,
		TimeOfDay:   sim.Clock.TimeOfDay(),
		MinutesLeft: sim.Clock.Remaining(),
		Paused:      s.paused,
		Fixtures:    len(sim.Stage.Fixtures()),
		Crates:      len(sim.Stage.Crates()),
		Licensed:    st.Licensed.Sorted(),
	}
	if def, record, ok := sim.Missions.Current(); ok {
		view.Mission = &MissionView{
			ID:       def.ID,
			Goal:     string(def.Goal),
			TargetID: def.TargetID,
			Progress: record.Progress,
			Amount:   def.Amount,
			Complete: record.Complete,
			Reward:   def.Reward,
		}
	}
	return view
}
