// Package ledger owns every balance mutation of a session.
//
// Each change is classified against the current period: a positive delta is
// revenue, a negative delta is spending. Subscribers always receive the new
// balance, even when the delta is zero.
package ledger

import (
	"github.com/louisbranch/shelfsim/internal/services/sim/domain/notify"
	"github.com/louisbranch/shelfsim/internal/services/sim/domain/state"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Ledger mutates the balance and pending values of a state.
type Ledger struct {
	state   *state.State
	bus     *notify.Bus
	unit    currency.Unit
	printer *message.Printer
}

// Option customizes a Ledger.
type Option func(*Ledger)

// WithCurrency sets the currency unit and locale used by Format.
func WithCurrency(unit currency.Unit, locale language.Tag) Option {
	return func(l *Ledger) {
		l.unit = unit
		l.printer = message.NewPrinter(locale)
	}
}

// New returns a ledger over st. A nil bus disables notifications.
func New(st *state.State, bus *notify.Bus, opts ...Option) *Ledger {
	l := &Ledger{
		state:   st,
		bus:     bus,
		unit:    currency.USD,
		printer: message.NewPrinter(language.AmericanEnglish),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

// Balance returns the current balance.
func (l *Ledger) Balance() state.Cents {
	return l.state.Balance
}

// SetBalance replaces the balance and books the delta into the period.
func (l *Ledger) SetBalance(value state.Cents) {
	delta := value - l.state.Balance
	switch {
	case delta > 0:
		l.state.Period.Revenue += delta
	case delta < 0:
		l.state.Period.Spending += -delta
	}
	l.state.Balance = value
	l.bus.BalanceChanged(value)
}

// Credit adds amount to the balance.
func (l *Ledger) Credit(amount state.Cents) {
	l.SetBalance(l.state.Balance + amount)
}

// Debit removes amount from the balance. The balance may go negative.
func (l *Ledger) Debit(amount state.Cents) {
	l.SetBalance(l.state.Balance - amount)
}

// ReserveOrder pays for an order that has not been delivered yet. The cost
// stays recorded as pending until ReceiveOrder.
func (l *Ledger) ReserveOrder(cost state.Cents) {
	if cost <= 0 {
		return
	}
	l.Debit(cost)
	l.state.PendingOrders += cost
}

// ReceiveOrder clears cost from the pending value once the goods arrive.
func (l *Ledger) ReceiveOrder(cost state.Cents) {
	l.state.PendingOrders = floor(l.state.PendingOrders - cost)
}

// HoldUnpaid records the value of products a customer is carrying but has not
// paid for yet.
func (l *Ledger) HoldUnpaid(value state.Cents) {
	if value <= 0 {
		return
	}
	l.state.UnpaidProducts += value
}

// ReleaseUnpaid removes value from the unpaid products total.
func (l *Ledger) ReleaseUnpaid(value state.Cents) {
	l.state.UnpaidProducts = floor(l.state.UnpaidProducts - value)
}

// FoldPending refunds pending orders and unpaid products into the balance and
// zeroes both. It returns the refunded amount.
func (l *Ledger) FoldPending() state.Cents {
	refund := l.state.PendingOrders + l.state.UnpaidProducts
	l.state.PendingOrders = 0
	l.state.UnpaidProducts = 0
	if refund != 0 {
		l.Credit(refund)
	}
	return refund
}

// Format renders cents as localized currency text.
func (l *Ledger) Format(cents state.Cents) string {
	amount := float64(cents) / 100
	return l.printer.Sprint(currency.Symbol(l.unit.Amount(amount)))
}

func floor(v state.Cents) state.Cents {
	if v < 0 {
		return 0
	}
	return v
}
