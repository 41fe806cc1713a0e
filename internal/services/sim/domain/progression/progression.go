// Package progression accumulates experience and resolves level-ups against
// an exponential cost curve.
package progression

import (
	"fmt"
	"math"

	"github.com/louisbranch/shelfsim/internal/services/sim/domain/notify"
	"github.com/louisbranch/shelfsim/internal/services/sim/domain/state"
)

// Curve is the experience cost of a level: ceil(Base * Growth^(level-1)).
type Curve struct {
	Base   float64 `env:"XP_BASE" envDefault:"100"`
	Growth float64 `env:"XP_GROWTH" envDefault:"1.5"`
}

// DefaultCurve returns the stock cost curve.
func DefaultCurve() Curve {
	return Curve{Base: 100, Growth: 1.5}
}

// Validate checks that every level has a positive cost.
func (c Curve) Validate() error {
	if c.Base < 1 {
		return fmt.Errorf("xp base must be at least 1, got %v", c.Base)
	}
	if c.Growth < 1 {
		return fmt.Errorf("xp growth must be at least 1, got %v", c.Growth)
	}
	return nil
}

// CostToNext returns the experience needed to leave level. Costs beyond the
// int range saturate at math.MaxInt.
func (c Curve) CostToNext(level int) int {
	if level < 1 {
		level = 1
	}
	cost := math.Ceil(c.Base * math.Pow(c.Growth, float64(level-1)))
	if cost >= math.MaxInt {
		return math.MaxInt
	}
	return int(cost)
}

// Engine applies experience to a state.
type Engine struct {
	state *state.State
	curve Curve
	bus   *notify.Bus
}

// New returns an engine over st.
func New(st *state.State, curve Curve, bus *notify.Bus) *Engine {
	return &Engine{state: st, curve: curve, bus: bus}
}

// Curve returns the configured cost curve.
func (e *Engine) Curve() Curve {
	return e.curve
}

// AddExperience adds amount and resolves every level crossed, emitting one
// level-up per level, then the progress fraction for the resulting level.
// Negative amounts are ignored. Experience saturates at math.MaxInt.
func (e *Engine) AddExperience(amount int) {
	if amount < 0 {
		return
	}
	if e.state.Experience > math.MaxInt-amount {
		e.state.Experience = math.MaxInt
	} else {
		e.state.Experience += amount
	}
	e.resolve()
	e.bus.ExperienceProgress(e.Fraction())
}

// Settle resolves level-ups already owed by the stored experience, as after
// loading a save written under a cheaper curve. It returns the levels gained
// and only notifies when at least one was.
func (e *Engine) Settle() int {
	gained := e.resolve()
	if gained > 0 {
		e.bus.ExperienceProgress(e.Fraction())
	}
	return gained
}

func (e *Engine) resolve() int {
	gained := 0
	for {
		cost := e.curve.CostToNext(e.state.Level)
		if e.state.Experience < cost {
			return gained
		}
		e.state.Experience -= cost
		e.state.Level++
		gained++
		e.bus.LevelUp(e.state.Level)
	}
}

// CostToNext returns the cost of the current level.
func (e *Engine) CostToNext() int {
	return e.curve.CostToNext(e.state.Level)
}

// Fraction returns experience over the cost of the current level.
func (e *Engine) Fraction() float64 {
	cost := e.CostToNext()
	if cost <= 0 {
		return 0
	}
	return float64(e.state.Experience) / float64(cost)
}
