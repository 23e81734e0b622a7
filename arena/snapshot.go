package arena

import (
	"sort"

	"github.com/djthomann/snackman/event"
	"github.com/djthomann/snackman/game"
	"github.com/djthomann/snackman/level"
	"github.com/djthomann/snackman/protocol"
)

func (g *Game) snapshot() *protocol.GameStart {
	grid := g.world.Grid
	s := &protocol.GameStart{
		GameID:    g.ID,
		Width:     grid.Width(),
		Height:    grid.Height(),
		Layout:    grid.Layout(),
		GameTime:  g.cfg.GameTime,
		Eaters:    make([]protocol.EaterSnapshot, 0, len(g.world.Eaters())),
		Chasers:   make([]protocol.ChaserSnapshot, 0, len(g.world.Chasers())),
		Wanderers: make([]protocol.WandererSnapshot, 0, len(g.world.Wanderers())),
		Items:     make([]protocol.ItemSnapshot, 0, g.world.Items()),
	}
	for _, e := range g.world.Eaters() {
		s.Eaters = append(s.Eaters, eaterSnapshot(e))
	}
	for _, c := range g.world.Chasers() {
		s.Chasers = append(s.Chasers, chaserSnapshot(c))
	}
	for _, w := range g.world.Wanderers() {
		s.Wanderers = append(s.Wanderers, wandererSnapshot(w))
	}
	for _, tiles := range grid.AllTiles() {
		for _, t := range tiles {
			if t.Occupation() != level.Item {
				continue
			}
			if c, ok := t.Occupant().(*game.Consumable); ok {
				s.Items = append(s.Items, protocol.ItemSnapshot{
					ID:        c.ID(),
					Col:       t.Col,
					Row:       t.Row,
					Nutrition: c.Nutrition().String(),
				})
			}
		}
	}
	return s
}

func (g *Game) delta(d game.Delta) *protocol.Delta {
	out := &protocol.Delta{
		Tick:      g.world.Tick(),
		Remaining: g.remaining(),
		Consumed:  itemSnapshots(d.Consumed),
		Spawned:   itemSnapshots(d.Spawned),
	}
	for _, id := range d.Eaters {
		if e, ok := g.world.Find(id).(*game.Eater); ok {
			out.Eaters = append(out.Eaters, eaterSnapshot(e))
		}
	}
	for _, id := range d.Chasers {
		if c, ok := g.world.Find(id).(*game.Chaser); ok {
			out.Chasers = append(out.Chasers, chaserSnapshot(c))
		}
	}
	for _, id := range d.Wanderers {
		if w, ok := g.world.Find(id).(*game.Wanderer); ok {
			out.Wanderers = append(out.Wanderers, wandererSnapshot(w))
		}
	}
	return out
}

// result ranks eaters by score. The winner is the top eater, or nobody when
// no eater scored.
func (g *Game) result(reason string) *protocol.GameOver {
	over := &protocol.GameOver{GameID: g.ID, Reason: reason}
	for _, e := range g.world.Eaters() {
		over.Scores = append(over.Scores, protocol.Score{ID: e.ID(), Name: e.Name, Score: e.Score()})
	}
	sort.SliceStable(over.Scores, func(i, j int) bool {
		return over.Scores[i].Score > over.Scores[j].Score
	})
	if len(over.Scores) > 0 && over.Scores[0].Score > 0 {
		over.Winner = over.Scores[0].ID
		over.WinnerName = over.Scores[0].Name
	}
	return over
}

func eaterSnapshot(e *game.Eater) protocol.EaterSnapshot {
	p := e.Position()
	return protocol.EaterSnapshot{
		ID:       e.ID(),
		ClientID: e.ClientID,
		Name:     e.Name,
		X:        p.X,
		Z:        p.Z,
		R:        e.Radius(),
		Score:    e.Score(),
	}
}

func chaserSnapshot(c *game.Chaser) protocol.ChaserSnapshot {
	p := c.Position()
	return protocol.ChaserSnapshot{
		ID:       c.ID(),
		ClientID: c.ClientID,
		Name:     c.Name,
		X:        p.X,
		Z:        p.Z,
		R:        c.Radius(),
		Scared:   c.Scared(),
	}
}

func wandererSnapshot(w *game.Wanderer) protocol.WandererSnapshot {
	p := w.Position()
	return protocol.WandererSnapshot{ID: w.ID(), X: p.X, Z: p.Z, R: w.Radius(), H: w.Heading()}
}

func itemSnapshots(items []event.ItemPayload) []protocol.ItemSnapshot {
	if len(items) == 0 {
		return nil
	}
	out := make([]protocol.ItemSnapshot, len(items))
	for i, it := range items {
		out[i] = protocol.ItemSnapshot{ID: it.ItemID, Col: it.Col, Row: it.Row, Nutrition: it.Nutrition}
	}
	return out
}
