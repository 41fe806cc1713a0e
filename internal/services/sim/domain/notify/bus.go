// Package notify fans outbound simulation notifications out to presentation
// collaborators (HUD, audio, analytics). Delivery is synchronous on the
// mutation thread and best-effort: a nil Bus drops everything.
package notify

import (
	"github.com/louisbranch/shelfsim/internal/services/sim/domain/catalog"
	"github.com/louisbranch/shelfsim/internal/services/sim/domain/state"
)

// Unsubscribe removes a previously registered handler. Calling it more than
// once is a no-op.
type Unsubscribe func()

// MissionUpdate carries the active mission definition and its progress
// record. Both are nil once every mission is finished.
type MissionUpdate struct {
	Definition *catalog.Mission
	Progress   *state.MissionProgress
}

// Bus holds typed subscriber lists. It is not safe for concurrent use; the
// owning session serializes access.
type Bus struct {
	balance  topic[state.Cents]
	price    topic[int]
	progress topic[float64]
	levelUp  topic[int]
	mission  topic[MissionUpdate]
	dayClose topic[state.Period]
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// OnBalanceChanged subscribes to new balance values.
func (b *Bus) OnBalanceChanged(fn func(state.Cents)) Unsubscribe {
	if b == nil {
		return func() {}
	}
	return b.balance.subscribe(fn)
}

// OnPriceChanged subscribes to custom price updates by product id.
func (b *Bus) OnPriceChanged(fn func(productID int)) Unsubscribe {
	if b == nil {
		return func() {}
	}
	return b.price.subscribe(fn)
}

// OnExperienceProgress subscribes to the experience fraction toward the next
// level.
func (b *Bus) OnExperienceProgress(fn func(float64)) Unsubscribe {
	if b == nil {
		return func() {}
	}
	return b.progress.subscribe(fn)
}

// OnLevelUp subscribes to level-up events, one per level crossed.
func (b *Bus) OnLevelUp(fn func(level int)) Unsubscribe {
	if b == nil {
		return func() {}
	}
	return b.levelUp.subscribe(fn)
}

// OnMissionUpdated subscribes to mission progress and advancement.
func (b *Bus) OnMissionUpdated(fn func(MissionUpdate)) Unsubscribe {
	if b == nil {
		return func() {}
	}
	return b.mission.subscribe(fn)
}

// OnDayClosed subscribes to period summaries emitted at day rollover.
func (b *Bus) OnDayClosed(fn func(state.Period)) Unsubscribe {
	if b == nil {
		return func() {}
	}
	return b.dayClose.subscribe(fn)
}

// BalanceChanged delivers the new balance.
func (b *Bus) BalanceChanged(balance state.Cents) {
	if b != nil {
		b.balance.publish(balance)
	}
}

// PriceChanged delivers the product whose custom price was set.
func (b *Bus) PriceChanged(productID int) {
	if b != nil {
		b.price.publish(productID)
	}
}

// ExperienceProgress delivers the fraction of the current level earned.
func (b *Bus) ExperienceProgress(fraction float64) {
	if b != nil {
		b.progress.publish(fraction)
	}
}

// LevelUp delivers a newly reached level.
func (b *Bus) LevelUp(level int) {
	if b != nil {
		b.levelUp.publish(level)
	}
}

// MissionUpdated delivers the active mission after a change.
func (b *Bus) MissionUpdated(update MissionUpdate) {
	if b != nil {
		b.mission.publish(update)
	}
}

// DayClosed delivers the summary of the period that just ended.
func (b *Bus) DayClosed(period state.Period) {
	if b != nil {
		b.dayClose.publish(period)
	}
}

type subscriber[T any] struct {
	id uint64
	fn func(T)
}

type topic[T any] struct {
	nextID uint64
	subs   []subscriber[T]
}

func (t *topic[T]) subscribe(fn func(T)) Unsubscribe {
	if fn == nil {
		return func() {}
	}
	t.nextID++
	id := t.nextID
	t.subs = append(t.subs, subscriber[T]{id: id, fn: fn})
	return func() {
		for i, sub := range t.subs {
			if sub.id == id {
				t.subs = append(t.subs[:i:i], t.subs[i+1:]...)
				return
			}
		}
	}
}

// publish iterates over a snapshot so handlers may unsubscribe while being
// notified.
func (t *topic[T]) publish(v T) {
	subs := t.subs
	for _, sub := range subs {
		sub.fn(v)
	}
}
