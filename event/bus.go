package event

import (
	"fmt"
	"log"
)

// Subscriber receives every event published on the bus it is attached to
type Subscriber interface {
	// HandleEvent processes a single event synchronously.
	// A returned error is logged and does not stop delivery.
	HandleEvent(ev *Event) error
}

// SubscriberFunc adapts a function to Subscriber
type SubscriberFunc func(ev *Event) error

func (f SubscriberFunc) HandleEvent(ev *Event) error { return f(ev) }

// Bus is the per-game publish/subscribe dispatcher
//
// Architecture:
//   - Subscriber list is fixed at construction
//   - Delivery is synchronous, in subscription order
//   - Events published by a handler are queued and delivered after the
//     current event reaches every subscriber (FIFO)
//   - Not safe for concurrent use; the owning game serializes Publish
type Bus struct {
	subscribers []Subscriber
	relay       func(Event)

	pending     []*Event
	dispatching bool
	delivered   uint64
}

// NewBus captures subscribers. relay receives events bound outside the game
// and may be nil.
func NewBus(subscribers []Subscriber, relay func(Event)) *Bus {
	subs := make([]Subscriber, len(subscribers))
	copy(subs, subscribers)
	return &Bus{
		subscribers: subs,
		relay:       relay,
	}
}

// Publish delivers ev to every subscriber. Each subscriber receives the same
// *Event.
func (b *Bus) Publish(ev *Event) {
	if ev == nil {
		return
	}
	b.pending = append(b.pending, ev)
	if b.dispatching {
		return
	}

	b.dispatching = true
	defer func() { b.dispatching = false }()

	for len(b.pending) > 0 {
		next := b.pending[0]
		b.pending[0] = nil
		b.pending = b.pending[1:]
		for _, s := range b.subscribers {
			b.deliver(s, next)
		}
	}
	b.pending = b.pending[:0]
}

func (b *Bus) deliver(s Subscriber, ev *Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("game %s: %s handler panicked: %v", ev.GameID, ev.Kind, r)
		}
	}()
	b.delivered++
	if err := s.HandleEvent(ev); err != nil {
		log.Printf("game %s: %s handler: %v", ev.GameID, ev.Kind, err)
	}
}

// Relay forwards an externally-bound event to the transport boundary
func (b *Bus) Relay(ev Event) {
	if b.relay == nil {
		return
	}
	if !ev.Kind.Outward() {
		log.Printf("game %s: refusing to relay internal event %s", ev.GameID, ev.Kind)
		return
	}
	b.relay(ev)
}

// Len returns the number of subscribers
func (b *Bus) Len() int {
	return len(b.subscribers)
}

// Delivered returns the total number of handler invocations so far
func (b *Bus) Delivered() uint64 {
	return b.delivered
}

// UnexpectedPayload builds the error handlers return for a mistyped payload
func UnexpectedPayload(ev *Event, want string) error {
	return fmt.Errorf("%s event: payload %T, want %s", ev.Kind, ev.Payload, want)
}
