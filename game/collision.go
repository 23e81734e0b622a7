package game

import (
	"math"

	"github.com/djthomann/snackman/level"
)

// ContactKind is an interaction produced by a resolved movement
type ContactKind uint8

const (
	ContactConsume ContactKind = iota + 1 // eater touched an item
	ContactCatch                          // eater and chaser touched
)

// Contact names the entity touched after a move. Tile is set for consumes.
type Contact struct {
	Kind  ContactKind
	Other Positioned
	Tile  *level.Tile
}

// Resolve clips d against walls and blocking entities and lists the
// contacts found at the destination. Walls are resolved per axis, X then Z,
// in sub-steps of at most MaxSubStep so fast movers cannot tunnel.
func Resolve(m Positioned, d Vec, grid *level.Grid, others []Mover) (Vec, []Contact) {
	start := m.Position()
	r := m.Radius()

	actual := slide(grid, start, r, d)
	dest := start.Add(actual)

	for _, o := range others {
		if o.ID() == m.ID() || !blocks(m.Kind(), o.Kind()) {
			continue
		}
		reach := r + o.Radius()
		now := dest.Dist(o.Position())
		if now < reach && now < start.Dist(o.Position()) {
			actual = Vec{}
			dest = start
			break
		}
	}

	var contacts []Contact
	for _, o := range others {
		if o.ID() == m.ID() || !catches(m.Kind(), o.Kind()) {
			continue
		}
		if dest.Dist(o.Position()) < r+o.Radius() {
			contacts = append(contacts, Contact{Kind: ContactCatch, Other: o})
		}
	}
	if m.Kind() == KindEater {
		contacts = append(contacts, itemContacts(grid, dest, r)...)
	}
	return actual, contacts
}

// blocks reports whether two kinds are solid to each other. Wanderers are
// solid to everything, eaters to each other.
func blocks(a, b Kind) bool {
	if a == KindWanderer || b == KindWanderer {
		return true
	}
	return a == KindEater && b == KindEater
}

func catches(a, b Kind) bool {
	return (a == KindEater && b == KindChaser) || (a == KindChaser && b == KindEater)
}

func itemContacts(grid *level.Grid, p Vec, r float64) []Contact {
	var out []Contact
	forTiles(p, r+0.5, func(col, row int) {
		t := grid.TileAt(col, row)
		if t == nil || t.Occupation() != level.Item {
			return
		}
		c, ok := t.Occupant().(*Consumable)
		if !ok || c.Consumed() {
			return
		}
		if p.Dist(c.Position()) < r+c.Radius() {
			out = append(out, Contact{Kind: ContactConsume, Other: c, Tile: t})
		}
	})
	return out
}

// forTiles visits every tile touched by the bounding box of a circle
func forTiles(p Vec, r float64, fn func(col, row int)) {
	minC, maxC := int(math.Floor(p.X-r)), int(math.Floor(p.X+r))
	minR, maxR := int(math.Floor(p.Z-r)), int(math.Floor(p.Z+r))
	for row := minR; row <= maxR; row++ {
		for col := minC; col <= maxC; col++ {
			fn(col, row)
		}
	}
}

// hitsWall reports whether the circle's bounding box overlaps a wall or
// leaves the grid
func hitsWall(grid *level.Grid, p Vec, r float64) bool {
	hit := false
	forTiles(p, r, func(col, row int) {
		if !hit && grid.IsWall(col, row) {
			hit = true
		}
	})
	return hit
}

func slide(grid *level.Grid, from Vec, r float64, d Vec) Vec {
	if d.IsZero() {
		return Vec{}
	}
	n := int(math.Ceil(d.Len() / MaxSubStep))
	if n < 1 {
		n = 1
	}
	step := d.Scale(1 / float64(n))
	pos := from
	for i := 0; i < n; i++ {
		pos.X += slideAxis(grid, pos, r, step.X, true)
		pos.Z += slideAxis(grid, pos, r, step.Z, false)
	}
	return pos.Sub(from)
}

// slideAxis moves along one axis, clamping flush against the first wall
// instead of stopping short. Returns the distance actually travelled.
func slideAxis(grid *level.Grid, pos Vec, r, delta float64, alongX bool) float64 {
	if delta == 0 {
		return 0
	}
	cur := pos.Z
	if alongX {
		cur = pos.X
	}
	target := cur + delta
	if !hitsWall(grid, with(pos, target, alongX), r) {
		return delta
	}

	var limit float64
	if delta > 0 {
		limit = math.Floor(target+r) - r - WallEpsilon
		if limit <= cur {
			return 0
		}
	} else {
		limit = math.Floor(target-r) + 1 + r + WallEpsilon
		if limit >= cur {
			return 0
		}
	}
	if hitsWall(grid, with(pos, limit, alongX), r) {
		return 0
	}
	return limit - cur
}

func with(p Vec, v float64, alongX bool) Vec {
	if alongX {
		p.X = v
	} else {
		p.Z = v
	}
	return p
}
