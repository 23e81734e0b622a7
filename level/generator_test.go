package level

import (
	"errors"
	"reflect"
	"testing"
)

func mustGenerate(t *testing.T, w, h int, seed int64) *Grid {
	t.Helper()
	cfg := DefaultConfig(w, h)
	cfg.Seed = seed
	g, err := Generate(cfg)
	if err != nil {
		t.Fatalf("generate %dx%d: %v", w, h, err)
	}
	return g
}

var sizes = []struct{ w, h int }{
	{7, 7}, {8, 8}, {15, 10}, {10, 15}, {29, 19}, {40, 31},
}

func TestGenerateDimensions(t *testing.T) {
	g := mustGenerate(t, 15, 10, 1)
	if g.Height() != 10 || len(g.AllTiles()) != 10 {
		t.Fatalf("rows = %d, want 10", len(g.AllTiles()))
	}
	if g.Width() != 15 || len(g.AllTiles()[0]) != 15 {
		t.Fatalf("cols = %d, want 15", len(g.AllTiles()[0]))
	}
}

func TestGenerateBorderIsWall(t *testing.T) {
	for _, s := range sizes {
		g := mustGenerate(t, s.w, s.h, 42)
		for row := 0; row < s.h; row++ {
			for col := 0; col < s.w; col++ {
				if g.IsBorder(col, row) && g.TileAt(col, row).Occupation() != Wall {
					t.Fatalf("%dx%d: border %d,%d is %s", s.w, s.h, col, row, g.TileAt(col, row).Occupation())
				}
			}
		}
	}
}

func TestGenerateClearingsFree(t *testing.T) {
	for _, s := range sizes {
		g := mustGenerate(t, s.w, s.h, 7)
		c := g.Clearings()
		points := append([]Point{c.Center}, c.Corners[:]...)
		points = append(points, c.Wanderers...)
		for _, p := range points {
			if occ := g.TileAt(p.Col, p.Row).Occupation(); occ != Free {
				t.Fatalf("%dx%d: clearing %v is %s", s.w, s.h, p, occ)
			}
		}
	}
}

func TestGenerateClearingPositions(t *testing.T) {
	g := mustGenerate(t, 15, 10, 3)
	c := g.Clearings()
	want := [4]Point{{1, 1}, {13, 7}, {1, 7}, {13, 1}}
	if c.Corners != want {
		t.Fatalf("corners = %v, want %v", c.Corners, want)
	}
	if c.Center != (Point{7, 5}) {
		t.Fatalf("center = %v, want {7 5}", c.Center)
	}
	if len(c.Wanderers) != 2 {
		t.Fatalf("wanderer spawns = %v, want 2", c.Wanderers)
	}
}

func TestGeneratePerfectMaze(t *testing.T) {
	for _, s := range sizes {
		for seed := int64(1); seed <= 20; seed++ {
			g := mustGenerate(t, s.w, s.h, seed)
			open, pairs := 0, 0
			for row := 0; row < s.h; row++ {
				for col := 0; col < s.w; col++ {
					if g.IsWall(col, row) {
						continue
					}
					open++
					if !g.IsWall(col+1, row) {
						pairs++
					}
					if !g.IsWall(col, row+1) {
						pairs++
					}
				}
			}
			if pairs != open-1 {
				t.Fatalf("%dx%d seed %d: %d passages for %d open tiles, want %d", s.w, s.h, seed, pairs, open, open-1)
			}
			if reached := floodFill(g, g.Clearings().Corners[0]); reached != open {
				t.Fatalf("%dx%d seed %d: reached %d of %d open tiles", s.w, s.h, seed, reached, open)
			}
		}
	}
}

func floodFill(g *Grid, start Point) int {
	seen := map[Point]bool{start: true}
	queue := []Point{start}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		for _, d := range []Point{{0, -1}, {0, 1}, {-1, 0}, {1, 0}} {
			n := Point{Col: p.Col + d.Col, Row: p.Row + d.Row}
			if seen[n] || g.IsWall(n.Col, n.Row) {
				continue
			}
			seen[n] = true
			queue = append(queue, n)
		}
	}
	return len(seen)
}

func TestGenerateMarksPassagesAsItems(t *testing.T) {
	g := mustGenerate(t, 29, 19, 11)
	for _, tiles := range g.AllTiles() {
		for _, tile := range tiles {
			clearing := g.IsClearing(tile.Col, tile.Row)
			switch tile.Occupation() {
			case Free:
				if !clearing {
					t.Fatalf("non-clearing %d,%d left free", tile.Col, tile.Row)
				}
			case Item:
				if clearing {
					t.Fatalf("clearing %d,%d marked item", tile.Col, tile.Row)
				}
			}
			if tile.Occupant() != nil {
				t.Fatalf("fresh grid has occupant at %d,%d", tile.Col, tile.Row)
			}
		}
	}
	if g.Count(Item) == 0 {
		t.Fatalf("expected items in generated grid")
	}
}

func TestGenerateSameSeedSameLayout(t *testing.T) {
	a := mustGenerate(t, 15, 10, 2024)
	b := mustGenerate(t, 15, 10, 2024)
	if !reflect.DeepEqual(a.Layout(), b.Layout()) {
		t.Fatalf("same seed produced different layouts")
	}
}

func TestGenerateDifferentSeedsDiffer(t *testing.T) {
	base := mustGenerate(t, 29, 19, 1).Layout()
	for seed := int64(2); seed < 10; seed++ {
		if !reflect.DeepEqual(base, mustGenerate(t, 29, 19, seed).Layout()) {
			return
		}
	}
	t.Fatalf("eight different seeds all produced the same layout")
}

func TestGenerateRunCapLimitsCorridors(t *testing.T) {
	cfg := DefaultConfig(41, 21)
	cfg.ExtendOdds = 1
	cfg.MaxRun = 2
	cfg.Seed = 5
	g, err := Generate(cfg)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	lastRow := lastCell(21)
	for row := 1; row < lastRow; row += 2 {
		length := 0
		for col := 1; col < 40; col++ {
			if g.IsWall(col, row) {
				length = 0
				continue
			}
			length++
			// maxRun cells plus the connector between them
			if length > 2*cfg.MaxRun-1 {
				t.Fatalf("row %d: corridor longer than run cap at col %d", row, col)
			}
		}
	}
}

func TestGenerateInvalidDimensions(t *testing.T) {
	cases := []struct{ w, h int }{{6, 10}, {10, 6}, {0, 0}, {-3, 12}}
	for _, c := range cases {
		_, err := Generate(DefaultConfig(c.w, c.h))
		if !errors.Is(err, ErrInvalidDimensions) {
			t.Fatalf("%dx%d: err = %v, want ErrInvalidDimensions", c.w, c.h, err)
		}
	}
}
