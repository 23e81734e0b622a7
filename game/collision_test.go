package game

import (
	"math"
	"strings"
	"testing"

	"golang.org/x/exp/rand"

	"github.com/djthomann/snackman/event"
	"github.com/djthomann/snackman/level"
)

// gridFrom parses rows of '#' wall, '.' free and 'o' item
func gridFrom(t *testing.T, rows ...string) *level.Grid {
	t.Helper()
	r := strings.NewReplacer("#", "-1,", ".", "0,", "o", "1,")
	var b strings.Builder
	for _, row := range rows {
		line := r.Replace(row)
		b.WriteString(strings.TrimSuffix(line, ","))
		b.WriteString("\n")
	}
	g, err := level.Read(strings.NewReader(b.String()))
	if err != nil {
		t.Fatalf("grid: %v", err)
	}
	return g
}

func openRoom(t *testing.T, w, h int) *level.Grid {
	t.Helper()
	rows := make([]string, h)
	for row := range rows {
		if row == 0 || row == h-1 {
			rows[row] = strings.Repeat("#", w)
			continue
		}
		rows[row] = "#" + strings.Repeat(".", w-2) + "#"
	}
	return gridFrom(t, rows...)
}

func newTestWorld(g *level.Grid) *World {
	return NewWorld("g1", Default(), g, rand.New(rand.NewSource(7)), nil)
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-4 }

func TestWallSlideKeepsFreeAxis(t *testing.T) {
	w := newTestWorld(openRoom(t, 9, 9))
	e, err := w.SpawnEater("c1", "ann")
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}

	got := e.Step(Vec{X: -0.5, Z: 0.3})
	pos := e.Position()
	if pos.X >= 1.5 || pos.X < 1+e.Radius() {
		t.Fatalf("x = %f, want flush against west wall (>= %f)", pos.X, 1+e.Radius())
	}
	if !near(pos.Z, 1.8) {
		t.Fatalf("z = %f, want 1.8 (free axis keeps moving)", pos.Z)
	}
	if !near(got.Z, 0.3) || got.X >= 0 {
		t.Fatalf("applied displacement = %+v", got)
	}
}

func TestWallBlocksHeadOn(t *testing.T) {
	w := newTestWorld(gridFrom(t,
		"#########",
		"#.#.....#",
		"#.#.....#",
		"#.......#",
		"#.......#",
		"#.......#",
		"#.......#",
		"#.......#",
		"#########",
	))
	e, _ := w.SpawnEater("c1", "ann")
	e.Step(Vec{X: 1})
	if hitsWall(w.Grid, e.Position(), e.Radius()) {
		t.Fatalf("eater overlaps wall at %+v", e.Position())
	}
	if e.Position().X > 2-e.Radius() {
		t.Fatalf("eater passed into wall column: x=%f", e.Position().X)
	}
	e.Step(Vec{X: 0.05})
	if e.Position().X > 2-e.Radius() {
		t.Fatalf("second push moved into wall: x=%f", e.Position().X)
	}
}

func TestRandomMovesNeverOverlapWalls(t *testing.T) {
	cfg := level.DefaultConfig(21, 15)
	cfg.Seed = 3
	g, err := level.Generate(cfg)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	w := newTestWorld(g)
	w.SeedConsumables()
	e, _ := w.SpawnEater("c1", "ann")
	rng := rand.New(rand.NewSource(11))

	for i := 0; i < 3000; i++ {
		d := Vec{X: rng.Float64()*1.2 - 0.6, Z: rng.Float64()*1.2 - 0.6}
		e.Step(d)
		p := e.Position()
		if hitsWall(g, p, e.Radius()) {
			t.Fatalf("move %d: eater at %+v overlaps a wall", i, p)
		}
		if !g.InBounds(int(p.X), int(p.Z)) {
			t.Fatalf("move %d: eater left the grid: %+v", i, p)
		}
	}
}

func TestConsumeOnce(t *testing.T) {
	c := NewConsumable("c", 1, 1, Unhealthy, 0.2)
	e := &Eater{}
	effect, ok := c.ConsumedBy(e)
	if !ok || effect.Calories != CaloriesUnhealthy || effect.ScaresChasers {
		t.Fatalf("first consume = %+v, %v", effect, ok)
	}
	if _, ok := c.ConsumedBy(e); ok {
		t.Fatalf("second consume succeeded")
	}
}

func TestEaterConsumesItemAndScaresChasers(t *testing.T) {
	w := newTestWorld(openRoom(t, 9, 9))
	var got []event.Kind
	w.SetPublisher(func(ev *event.Event) { got = append(got, ev.Kind) })

	e, _ := w.SpawnEater("c1", "ann")
	ch, _ := w.SpawnChaser("c2", "bob")
	tile := w.Grid.TileAt(2, 1)
	item := NewConsumable("food", 2, 1, Healthy, w.Config.ConsumableRadius)
	if err := w.Grid.SetOccupation(tile, level.Item, item); err != nil {
		t.Fatalf("place: %v", err)
	}
	w.items++

	e.Step(Vec{X: 0.6})
	if e.Score() != CaloriesHealthy {
		t.Fatalf("score = %d, want %d", e.Score(), CaloriesHealthy)
	}
	if tile.Occupation() != level.Free || tile.Occupant() != nil {
		t.Fatalf("tile after consume = %s %v", tile.Occupation(), tile.Occupant())
	}
	if w.Items() != 0 {
		t.Fatalf("items = %d, want 0", w.Items())
	}
	if !ch.Scared() {
		t.Fatalf("chaser not scared by healthy item")
	}
	want := []event.Kind{event.KindEntityMoved, event.KindConsumed, event.KindEntityChanged, event.KindEntityScared}
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("event %d = %s, want %s", i, got[i], want[i])
		}
	}

	e.Step(Vec{X: -0.1})
	e.Step(Vec{X: 0.1})
	if e.Score() != CaloriesHealthy {
		t.Fatalf("item counted twice: score %d", e.Score())
	}

	for i := 0; i < ScareTicks; i++ {
		w.Advance()
		ch.HandleEvent(&event.Event{Kind: event.KindTick})
	}
	if ch.Scared() {
		t.Fatalf("chaser still scared after %d ticks", ScareTicks)
	}
}

func TestCatchByNormalChaserSendsEaterHome(t *testing.T) {
	w := newTestWorld(openRoom(t, 9, 9))
	e, _ := w.SpawnEater("c1", "ann")
	ch, _ := w.SpawnChaser("c2", "bob")
	e.score = 1000
	ch.pos = Vec{X: 2.3, Z: 1.5}

	e.Step(Vec{X: 0.2})
	if e.Score() != 1000-ScarePenalty {
		t.Fatalf("score = %d, want %d", e.Score(), 1000-ScarePenalty)
	}
	if e.Position() != e.Spawn() {
		t.Fatalf("eater at %+v, want spawn %+v", e.Position(), e.Spawn())
	}

	e.score = 100
	ch.pos = Vec{X: 2.3, Z: 1.5}
	e.Step(Vec{X: 0.2})
	if e.Score() != 0 {
		t.Fatalf("score = %d, want floor 0", e.Score())
	}
}

func TestCatchingScaredChaser(t *testing.T) {
	w := newTestWorld(openRoom(t, 9, 9))
	e, _ := w.SpawnEater("c1", "ann")
	ch, _ := w.SpawnChaser("c2", "bob")
	ch.scare(100)
	ch.pos = Vec{X: 1.5, Z: 2.3}

	ch.Step(Vec{Z: -0.2})
	if e.Score() != CatchBonus {
		t.Fatalf("score = %d, want %d", e.Score(), CatchBonus)
	}
	if ch.Position() != ch.Spawn() || ch.Scared() {
		t.Fatalf("chaser at %+v scared=%v, want home and calm", ch.Position(), ch.Scared())
	}
}

func TestEatersBlockEachOther(t *testing.T) {
	w := newTestWorld(openRoom(t, 9, 9))
	a, _ := w.SpawnEater("c1", "ann")
	b, _ := w.SpawnEater("c2", "bea")
	b.pos = Vec{X: 2.3, Z: 1.5}

	if got := a.Step(Vec{X: 0.2}); !got.IsZero() {
		t.Fatalf("eater moved into another eater: %+v", got)
	}
	if got := a.Step(Vec{Z: 0.2}); got.IsZero() {
		t.Fatalf("sideways move blocked")
	}
}

func TestChaserPassesThroughChaser(t *testing.T) {
	w := newTestWorld(openRoom(t, 9, 9))
	a, _ := w.SpawnChaser("c1", "ann")
	b, _ := w.SpawnChaser("c2", "bea")
	b.pos = Vec{X: 4.2, Z: 3.5}

	if got := a.Step(Vec{X: 0.2}); got.IsZero() {
		t.Fatalf("chasers should not block each other")
	}
}
