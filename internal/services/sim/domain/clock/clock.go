// Package clock advances the in-game day and closes the period summary at
// each rollover.
package clock

import (
	"fmt"

	"github.com/louisbranch/shelfsim/internal/services/sim/domain/catalog"
	"github.com/louisbranch/shelfsim/internal/services/sim/domain/notify"
	"github.com/louisbranch/shelfsim/internal/services/sim/domain/state"
)

// Clock moves State.Minutes between the catalog opening and closing times.
// Minutes counts from midnight.
type Clock struct {
	state   *state.State
	catalog *catalog.Registry
	bus     *notify.Bus
}

// New returns a clock over st.
func New(st *state.State, reg *catalog.Registry, bus *notify.Bus) *Clock {
	return &Clock{state: st, catalog: reg, bus: bus}
}

// Advance moves time forward and returns the number of days closed.
func (c *Clock) Advance(minutes int) int {
	if minutes <= 0 {
		return 0
	}
	start, end := c.catalog.StartMinutes(), c.catalog.CloseMinutes()
	if c.state.Minutes < start {
		c.state.Minutes = start
	}
	c.state.Minutes += minutes

	closed := 0
	for c.state.Minutes >= end {
		overflow := c.state.Minutes - end
		c.closeDay()
		c.state.Minutes = start + overflow
		closed++
	}
	return closed
}

func (c *Clock) closeDay() {
	summary := c.state.Period
	c.state.Day++
	c.state.Period = state.Period{OpeningBalance: c.state.Balance}
	c.bus.DayClosed(summary)
}

// TimeOfDay renders the current time as HH:MM.
func (c *Clock) TimeOfDay() string {
	return Format(c.state.Minutes)
}

// Remaining returns the minutes left until closing.
func (c *Clock) Remaining() int {
	left := c.catalog.CloseMinutes() - c.state.Minutes
	if left < 0 {
		return 0
	}
	return left
}

// Format renders minutes since midnight as HH:MM.
func Format(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	minutes %= 24 * 60
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
