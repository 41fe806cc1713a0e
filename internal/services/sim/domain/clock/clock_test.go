package clock

import (
	"testing"

	"github.com/louisbranch/shelfsim/internal/services/sim/domain/catalog"
	"github.com/louisbranch/shelfsim/internal/services/sim/domain/notify"
	"github.com/louisbranch/shelfsim/internal/services/sim/domain/state"
)

func testRegistry(t *testing.T) *catalog.Registry {
	t.Helper()
	reg, err := catalog.New(catalog.Document{
		Defaults: catalog.Defaults{StartTime: "08:00", MinutesPerDay: 120},
	})
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	return reg
}

func TestAdvanceWithinDay(t *testing.T) {
	st := &state.State{Day: 1, Minutes: 480}
	c := New(st, testRegistry(t), nil)

	if closed := c.Advance(45); closed != 0 {
		t.Fatalf("closed = %d, want 0", closed)
	}
	if st.Minutes != 525 {
		t.Fatalf("minutes = %d, want 525", st.Minutes)
	}
	if got := c.TimeOfDay(); got != "08:45" {
		t.Fatalf("time of day = %q, want 08:45", got)
	}
	if got := c.Remaining(); got != 75 {
		t.Fatalf("remaining = %d, want 75", got)
	}
}

func TestAdvanceRolloverClosesPeriod(t *testing.T) {
	st := &state.State{
		Day:     1,
		Minutes: 590,
		Balance: 1200,
		Period:  state.Period{Revenue: 300, Spending: 100, OpeningBalance: 1000},
	}
	bus := notify.NewBus()
	var closedPeriods []state.Period
	bus.OnDayClosed(func(p state.Period) { closedPeriods = append(closedPeriods, p) })
	c := New(st, testRegistry(t), bus)

	if closed := c.Advance(15); closed != 1 {
		t.Fatalf("closed = %d, want 1", closed)
	}
	if st.Day != 2 {
		t.Fatalf("day = %d, want 2", st.Day)
	}
	if st.Minutes != 485 {
		t.Fatalf("minutes = %d, want 485", st.Minutes)
	}
	if len(closedPeriods) != 1 || closedPeriods[0].Revenue != 300 || closedPeriods[0].OpeningBalance != 1000 {
		t.Fatalf("closed periods = %+v", closedPeriods)
	}
	want := state.Period{OpeningBalance: 1200}
	if st.Period != want {
		t.Fatalf("new period = %+v, want %+v", st.Period, want)
	}
}

func TestAdvanceAcrossSeveralDays(t *testing.T) {
	st := &state.State{Day: 3, Minutes: 480}
	c := New(st, testRegistry(t), nil)

	if closed := c.Advance(250); closed != 2 {
		t.Fatalf("closed = %d, want 2", closed)
	}
	if st.Day != 5 || st.Minutes != 490 {
		t.Fatalf("day = %d minutes = %d, want 5 and 490", st.Day, st.Minutes)
	}
}

func TestAdvanceIgnoresNonPositive(t *testing.T) {
	st := &state.State{Day: 1, Minutes: 500}
	c := New(st, testRegistry(t), nil)
	c.Advance(0)
	c.Advance(-10)
	if st.Minutes != 500 {
		t.Fatalf("minutes = %d, want 500", st.Minutes)
	}
}

func TestFormat(t *testing.T) {
	tests := map[int]string{
		0:    "00:00",
		480:  "08:00",
		1199: "19:59",
		-5:   "00:00",
	}
	for minutes, want := range tests {
		if got := Format(minutes); got != want {
			t.Fatalf("Format(%d) = %q, want %q", minutes, got, want)
		}
	}
}
