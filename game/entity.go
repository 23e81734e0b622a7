package game

import (
	"errors"

	"github.com/djthomann/snackman/event"
)

var ErrSlotsExhausted = errors.New("spawn slots exhausted")

// Kind tags an entity variant for dispatch
type Kind uint8

const (
	KindEater Kind = iota
	KindChaser
	KindWanderer
	KindConsumable
)

func (k Kind) String() string {
	switch k {
	case KindEater:
		return "eater"
	case KindChaser:
		return "chaser"
	case KindWanderer:
		return "wanderer"
	case KindConsumable:
		return "consumable"
	default:
		return "unknown"
	}
}

// Positioned is anything with a place and a collision circle
type Positioned interface {
	ID() string
	Kind() Kind
	Position() Vec
	Radius() float64
}

// Movable entities request movement through the world's collision resolver
type Movable interface {
	Positioned
	// Step resolves and commits d, returning the displacement actually applied
	Step(d Vec) Vec
}

// Mover is an entity that moves and listens on the game bus.
// Implemented by Eater, Chaser and Wanderer only.
type Mover interface {
	Movable
	event.Subscriber
	base() *body
}

type body struct {
	id     string
	kind   Kind
	pos    Vec
	spawn  Vec
	radius float64
	speed  float64
	world  *World
}

func (b *body) ID() string      { return b.id }
func (b *body) Kind() Kind      { return b.kind }
func (b *body) Position() Vec   { return b.pos }
func (b *body) Radius() float64 { return b.radius }
func (b *body) Speed() float64  { return b.speed }
func (b *body) Spawn() Vec      { return b.spawn }
func (b *body) base() *body     { return b }

// controls holds the externally driven state of a player entity
type controls struct {
	ClientID string
	Name     string
	intent   Vec
}

// SetIntent stores the latest movement vector from input
func (c *controls) SetIntent(v Vec) { c.intent = Intent(v) }

func (c *controls) Intent() Vec { return c.intent }

func (c *controls) targets(ev *event.Event, id string) bool {
	if ev.EntityID != "" {
		return ev.EntityID == id
	}
	return c.ClientID != "" && ev.ClientID == c.ClientID
}

// Eater is the player-controlled collector
type Eater struct {
	body
	controls
	slot  int
	score int
}

func (e *Eater) Score() int { return e.score }

// Slot is the corner spawn slot the eater occupies
func (e *Eater) Slot() int { return e.slot }

func (e *Eater) Step(d Vec) Vec { return e.world.Move(e, d) }

func (e *Eater) HandleEvent(ev *event.Event) error {
	return e.world.steer(e, &e.controls, ev)
}

// Chaser is the player-controlled pursuer
type Chaser struct {
	body
	controls
	scared      bool
	scaredUntil int
}

func (c *Chaser) Scared() bool { return c.scared }

func (c *Chaser) Step(d Vec) Vec { return c.world.Move(c, d) }

func (c *Chaser) HandleEvent(ev *event.Event) error {
	if ev.Kind == event.KindTick {
		if c.scared && c.world.tick >= c.scaredUntil {
			c.scared = false
			c.world.emit(event.KindEntityScared, c.id, nil)
		}
		return nil
	}
	return c.world.steer(c, &c.controls, ev)
}

func (c *Chaser) scare(until int) {
	c.scared = true
	c.scaredUntil = until
}

// Wanderer is an autonomous creature that roams and lays items
type Wanderer struct {
	body
	heading     float64
	layCooldown int
}

func (w *Wanderer) Heading() float64 { return w.heading }

func (w *Wanderer) Step(d Vec) Vec { return w.world.Move(w, d) }

func (w *Wanderer) HandleEvent(ev *event.Event) error {
	if ev.Kind != event.KindTick {
		return nil
	}
	w.world.wander(w)
	return nil
}

func (w *Wanderer) OccupantID() string { return w.id }
func (w *Wanderer) Item() bool         { return false }
