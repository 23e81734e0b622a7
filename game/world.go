package game

import (
	"fmt"
	"log"
	"math"

	"golang.org/x/exp/rand"

	"github.com/djthomann/snackman/event"
	"github.com/djthomann/snackman/level"
)

// World owns the entities of one game and applies movement and its side
// effects. It is not safe for concurrent use; the game loop is its only
// caller.
type World struct {
	GameID string
	Config Config
	Grid   *level.Grid

	rng     *rand.Rand
	nextID  func() string
	publish func(*event.Event)

	movers    []Mover
	eaters    []*Eater
	chasers   []*Chaser
	wanderers []*Wanderer
	items     int
	tick      int
}

// NewWorld builds an empty world over grid. nextID mints entity ids.
func NewWorld(gameID string, cfg Config, grid *level.Grid, rng *rand.Rand, nextID func() string) *World {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	if nextID == nil {
		n := 0
		nextID = func() string {
			n++
			return fmt.Sprintf("e%d", n)
		}
	}
	return &World{
		GameID: gameID,
		Config: cfg,
		Grid:   grid,
		rng:    rng,
		nextID: nextID,
	}
}

// SetPublisher routes side-effect events. Usually the game bus's Publish.
func (w *World) SetPublisher(fn func(*event.Event)) { w.publish = fn }

func (w *World) emit(kind event.Kind, entityID string, payload any) {
	if w.publish == nil {
		return
	}
	w.publish(&event.Event{Kind: kind, GameID: w.GameID, EntityID: entityID, Payload: payload})
}

func (w *World) Tick() int { return w.tick }

// Advance moves the simulation clock forward and returns the new tick
func (w *World) Advance() int {
	w.tick++
	return w.tick
}

func (w *World) Items() int { return w.items }

func (w *World) Movers() []Mover {
	out := make([]Mover, len(w.movers))
	copy(out, w.movers)
	return out
}

// Subscribers lists every mover as a bus subscriber in spawn order
func (w *World) Subscribers() []event.Subscriber {
	out := make([]event.Subscriber, len(w.movers))
	for i, m := range w.movers {
		out[i] = m
	}
	return out
}

func (w *World) Eaters() []*Eater       { return w.eaters }
func (w *World) Chasers() []*Chaser     { return w.chasers }
func (w *World) Wanderers() []*Wanderer { return w.wanderers }

// Find returns the mover with id or nil
func (w *World) Find(id string) Mover {
	for _, m := range w.movers {
		if m.ID() == id {
			return m
		}
	}
	return nil
}

// Leader returns the eater with the highest score, first spawned on ties
func (w *World) Leader() *Eater {
	var best *Eater
	for _, e := range w.eaters {
		if best == nil || e.score > best.score {
			best = e
		}
	}
	return best
}

// SeedConsumables places a random item on every Item tile that has none
func (w *World) SeedConsumables() int {
	n := 0
	for _, tiles := range w.Grid.AllTiles() {
		for _, t := range tiles {
			if t.Occupation() != level.Item || t.Occupant() != nil {
				continue
			}
			c := NewConsumable(w.nextID(), t.Col, t.Row, RandomNutrition(w.rng), w.Config.ConsumableRadius)
			if err := w.Grid.SetOccupation(t, level.Item, c); err != nil {
				log.Printf("world %s: seed %d,%d: %v", w.GameID, t.Col, t.Row, err)
				continue
			}
			n++
		}
	}
	w.items += n
	return n
}

func (w *World) newBody(kind Kind, at Vec, radius, speed float64) body {
	return body{
		id:     w.nextID(),
		kind:   kind,
		pos:    at,
		spawn:  at,
		radius: radius,
		speed:  speed,
		world:  w,
	}
}

// SpawnEater places a player eater in the next free corner
func (w *World) SpawnEater(clientID, name string) (*Eater, error) {
	slot := len(w.eaters)
	if slot >= MaxEaters {
		return nil, fmt.Errorf("%w: eaters", ErrSlotsExhausted)
	}
	corner := w.Grid.Clearings().Corners[slot]
	e := &Eater{
		body:     w.newBody(KindEater, tileCenter(corner.Col, corner.Row), w.Config.EaterRadius, w.Config.EaterSpeed),
		controls: controls{ClientID: clientID, Name: name},
		slot:     slot,
	}
	w.eaters = append(w.eaters, e)
	w.movers = append(w.movers, e)
	return e, nil
}

// SpawnChaser places a player chaser on the center clearing
func (w *World) SpawnChaser(clientID, name string) (*Chaser, error) {
	if len(w.chasers) >= MaxChasers {
		return nil, fmt.Errorf("%w: chasers", ErrSlotsExhausted)
	}
	center := w.Grid.Clearings().Center
	c := &Chaser{
		body:     w.newBody(KindChaser, tileCenter(center.Col, center.Row), w.Config.ChaserRadius, w.Config.ChaserSpeed),
		controls: controls{ClientID: clientID, Name: name},
	}
	w.chasers = append(w.chasers, c)
	w.movers = append(w.movers, c)
	return c, nil
}

// SpawnWanderers puts one wanderer on every free wanderer clearing
func (w *World) SpawnWanderers() []*Wanderer {
	var out []*Wanderer
	for _, p := range w.Grid.Clearings().Wanderers {
		t := w.Grid.TileAt(p.Col, p.Row)
		if t == nil || t.Occupation() != level.Free || t.Occupant() != nil {
			continue
		}
		cfg := w.Config
		radius := cfg.WandererMinRadius + w.rng.Float64()*(cfg.WandererMaxRadius-cfg.WandererMinRadius)
		wd := &Wanderer{
			body:        w.newBody(KindWanderer, tileCenter(p.Col, p.Row), radius, cfg.WandererSpeed),
			heading:     w.rng.Float64() * 2 * math.Pi,
			layCooldown: WandererLayTicks,
		}
		if err := w.Grid.SetOccupation(t, level.Free, wd); err != nil {
			log.Printf("world %s: wanderer at %d,%d: %v", w.GameID, p.Col, p.Row, err)
			continue
		}
		w.wanderers = append(w.wanderers, wd)
		w.movers = append(w.movers, wd)
		out = append(out, wd)
	}
	return out
}

// Move resolves d for m, commits the result and applies every contact.
// Returns the displacement actually applied.
func (w *World) Move(m Mover, d Vec) Vec {
	b := m.base()
	actual, contacts := Resolve(m, d, w.Grid, w.movers)
	if !actual.IsZero() {
		old := b.pos
		b.pos = b.pos.Add(actual)
		if wd, ok := m.(*Wanderer); ok {
			w.trackOccupancy(wd, old)
		}
		w.emit(event.KindEntityMoved, b.id, nil)
	}
	for _, c := range contacts {
		w.applyContact(m, c)
	}
	return actual
}

func (w *World) steer(m Mover, c *controls, ev *event.Event) error {
	if ev.Kind != event.KindMove || !c.targets(ev, m.ID()) {
		return nil
	}
	p, ok := ev.Payload.(event.MovePayload)
	if !ok {
		return event.UnexpectedPayload(ev, "MovePayload")
	}
	c.SetIntent(Vec{X: p.X, Z: p.Z})
	w.Move(m, Displacement(c.intent, m.base().speed, w.Config.SpeedModifier))
	return nil
}

func (w *World) applyContact(m Mover, c Contact) {
	switch c.Kind {
	case ContactConsume:
		e, ok := m.(*Eater)
		item, isItem := c.Other.(*Consumable)
		if ok && isItem {
			w.consume(e, item, c.Tile)
		}
	case ContactCatch:
		var e *Eater
		var ch *Chaser
		switch v := m.(type) {
		case *Eater:
			e = v
			ch, _ = c.Other.(*Chaser)
		case *Chaser:
			ch = v
			e, _ = c.Other.(*Eater)
		}
		if e != nil && ch != nil {
			w.catch(e, ch)
		}
	}
}

func (w *World) consume(e *Eater, c *Consumable, t *level.Tile) {
	effect, ok := c.ConsumedBy(e)
	if !ok {
		return
	}
	if t != nil && t.Occupant() == c {
		w.Grid.Clear(t)
	}
	w.items--
	e.score += effect.Calories
	w.emit(event.KindConsumed, c.id, itemPayload(c))
	w.emit(event.KindEntityChanged, e.id, nil)
	if !effect.ScaresChasers {
		return
	}
	for _, ch := range w.chasers {
		ch.scare(w.tick + ScareTicks)
		w.emit(event.KindEntityScared, ch.id, nil)
	}
}

// catch settles an eater and chaser touching. A scared chaser is sent home
// and the eater earns a bonus; otherwise the eater loses calories and is
// sent home.
func (w *World) catch(e *Eater, ch *Chaser) {
	if ch.scared {
		ch.scared = false
		w.respawn(ch)
		e.score += CatchBonus
		w.emit(event.KindEntityScared, ch.id, nil)
		w.emit(event.KindEntityChanged, e.id, nil)
		return
	}
	e.score -= ScarePenalty
	if e.score < 0 {
		e.score = 0
	}
	w.respawn(e)
	w.emit(event.KindEntityScared, e.id, nil)
}

func (w *World) respawn(m Mover) {
	b := m.base()
	b.pos = b.spawn
	w.emit(event.KindEntityMoved, b.id, nil)
}

func itemPayload(c *Consumable) event.ItemPayload {
	col, row := c.Tile()
	return event.ItemPayload{ItemID: c.id, Col: col, Row: row, Nutrition: c.nutrition.String()}
}

var cardinals = [4]float64{0, math.Pi / 2, math.Pi, 3 * math.Pi / 2}

// wander advances a wanderer one tick: jitter the heading, turn away from
// walls ahead, move, and lay an item when the cooldown runs out
func (w *World) wander(wd *Wanderer) {
	wd.heading += (w.rng.Float64()*2 - 1) * WandererJitter
	if w.facingWall(wd, wd.heading) {
		wd.heading = w.freeHeading(wd)
	}
	speed := wd.speed * w.Config.SpeedModifier / TickHz
	if speed > 0 {
		d := Vec{X: math.Cos(wd.heading), Z: math.Sin(wd.heading)}.Scale(speed)
		if got := w.Move(wd, d); got.Len() < d.Len()/2 {
			wd.heading = w.freeHeading(wd)
		}
	}
	wd.layCooldown--
	if wd.layCooldown <= 0 {
		wd.layCooldown = WandererLayTicks
		w.layItem(wd)
	}
}

func (w *World) facingWall(wd *Wanderer, heading float64) bool {
	reach := wd.radius + WandererProbe
	probe := wd.pos.Add(Vec{X: math.Cos(heading), Z: math.Sin(heading)}.Scale(reach))
	col, row := tileOf(probe)
	return w.Grid.IsWall(col, row)
}

func (w *World) freeHeading(wd *Wanderer) float64 {
	for _, i := range w.rng.Perm(len(cardinals)) {
		if !w.facingWall(wd, cardinals[i]) {
			return cardinals[i]
		}
	}
	return wd.heading + math.Pi
}

// layItem drops a fresh consumable on a free neighbouring tile, skipping
// clearings and tiles under a mover
func (w *World) layItem(wd *Wanderer) {
	col, row := tileOf(wd.pos)
	dirs := [4]level.Point{{Col: 1}, {Col: -1}, {Row: 1}, {Row: -1}}
	for _, i := range w.rng.Perm(len(dirs)) {
		nc, nr := col+dirs[i].Col, row+dirs[i].Row
		t := w.Grid.TileAt(nc, nr)
		if t == nil || t.Occupation() != level.Free || t.Occupant() != nil || w.Grid.IsClearing(nc, nr) {
			continue
		}
		if w.occupied(nc, nr) {
			continue
		}
		c := NewConsumable(w.nextID(), nc, nr, RandomNutrition(w.rng), w.Config.ConsumableRadius)
		if err := w.Grid.SetOccupation(t, level.Item, c); err != nil {
			log.Printf("world %s: lay at %d,%d: %v", w.GameID, nc, nr, err)
			return
		}
		w.items++
		w.emit(event.KindItemSpawned, wd.id, itemPayload(c))
		return
	}
}

func (w *World) occupied(col, row int) bool {
	for _, m := range w.movers {
		mc, mr := tileOf(m.Position())
		if mc == col && mr == row {
			return true
		}
	}
	return false
}

// trackOccupancy keeps the wanderer registered as occupant of the tile it
// stands on
func (w *World) trackOccupancy(wd *Wanderer, old Vec) {
	oc, or := tileOf(old)
	nc, nr := tileOf(wd.pos)
	if oc == nc && or == nr {
		return
	}
	if t := w.Grid.TileAt(oc, or); t != nil && t.Occupant() == level.Occupant(wd) {
		w.Grid.Clear(t)
		// another wanderer still standing here takes the tile over
		for _, other := range w.wanderers {
			if other == wd {
				continue
			}
			if c, r := tileOf(other.pos); c == oc && r == or {
				if err := w.Grid.SetOccupation(t, level.Free, other); err != nil {
					log.Printf("world %s: track %s: %v", w.GameID, other.id, err)
				}
				break
			}
		}
	}
	if t := w.Grid.TileAt(nc, nr); t != nil && t.Occupation() == level.Free && t.Occupant() == nil {
		if err := w.Grid.SetOccupation(t, level.Free, wd); err != nil {
			log.Printf("world %s: track %s: %v", w.GameID, wd.id, err)
		}
	}
}
