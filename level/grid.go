package level

import (
	"errors"
	"fmt"
)

// MinSize is the smallest width or height that fits a border, three maze
// cells per axis and the corner/centre clearings
const MinSize = 7

var (
	ErrInvalidDimensions = errors.New("invalid grid dimensions")
	ErrMalformedGrid     = errors.New("malformed grid")
	ErrOccupation        = errors.New("invalid tile occupation")
)

// Grid is the authoritative tile map of one game.
// Not safe for concurrent use: the owning game serializes access.
type Grid struct {
	width, height int
	tiles         [][]*Tile // [row][col]
	clearings     Clearings
}

// Clearings are the reserved spawn cells that always stay Free
type Clearings struct {
	// Corners in spawn slot order: top-left, bottom-right, bottom-left, top-right
	Corners   [4]Point
	Center    Point
	Wanderers []Point
}

func checkDimensions(width, height int) error {
	if width < MinSize || height < MinSize {
		return fmt.Errorf("%w: %dx%d, need at least %dx%d", ErrInvalidDimensions, width, height, MinSize, MinSize)
	}
	return nil
}

// newGrid allocates a grid with every tile set to Wall
func newGrid(width, height int) *Grid {
	g := &Grid{
		width:     width,
		height:    height,
		tiles:     make([][]*Tile, height),
		clearings: computeClearings(width, height),
	}
	for row := range g.tiles {
		g.tiles[row] = make([]*Tile, width)
		for col := range g.tiles[row] {
			g.tiles[row][col] = &Tile{Col: col, Row: row, occupation: Wall}
		}
	}
	return g
}

// lastCell returns the largest odd interior index for a side of length n
func lastCell(n int) int {
	last := n - 2
	if last%2 == 0 {
		last--
	}
	return last
}

// midCell returns the odd index closest to the middle of a side of length n
func midCell(n int) int {
	mid := n / 2
	if mid%2 == 0 {
		mid--
	}
	if mid < 1 {
		mid = 1
	}
	return mid
}

func computeClearings(width, height int) Clearings {
	lx, ly := lastCell(width), lastCell(height)
	c := Clearings{
		Corners: [4]Point{
			{Col: 1, Row: 1},
			{Col: lx, Row: ly},
			{Col: 1, Row: ly},
			{Col: lx, Row: 1},
		},
		Center: Point{Col: midCell(width), Row: midCell(height)},
	}

	for _, off := range [2]int{2, -2} {
		p := Point{Col: c.Center.Col + off, Row: c.Center.Row + off}
		if p.Col < 1 || p.Col > lx || p.Row < 1 || p.Row > ly {
			continue
		}
		taken := false
		for _, corner := range c.Corners {
			if corner == p {
				taken = true
				break
			}
		}
		if !taken {
			c.Wanderers = append(c.Wanderers, p)
		}
	}
	return c
}

func (g *Grid) Width() int  { return g.width }
func (g *Grid) Height() int { return g.height }

// TileAt returns the tile at col/row, or nil when out of bounds
func (g *Grid) TileAt(col, row int) *Tile {
	if !g.InBounds(col, row) {
		return nil
	}
	return g.tiles[row][col]
}

// AllTiles returns the row-major tile view. Callers must not reslice it.
func (g *Grid) AllTiles() [][]*Tile {
	return g.tiles
}

func (g *Grid) InBounds(col, row int) bool {
	return col >= 0 && col < g.width && row >= 0 && row < g.height
}

func (g *Grid) IsBorder(col, row int) bool {
	return col == 0 || row == 0 || col == g.width-1 || row == g.height-1
}

// IsWall treats out-of-bounds coordinates as walls
func (g *Grid) IsWall(col, row int) bool {
	t := g.TileAt(col, row)
	return t == nil || t.occupation == Wall
}

func (g *Grid) Clearings() Clearings {
	return g.clearings
}

// IsClearing reports whether the tile is a reserved spawn cell
func (g *Grid) IsClearing(col, row int) bool {
	p := Point{Col: col, Row: row}
	if p == g.clearings.Center {
		return true
	}
	for _, c := range g.clearings.Corners {
		if c == p {
			return true
		}
	}
	for _, w := range g.clearings.Wanderers {
		if w == p {
			return true
		}
	}
	return false
}

// SetOccupation changes a tile's kind and occupant, keeping the invariants:
// border tiles stay Wall, walls carry no occupant, Item tiles hold exactly one
// item occupant, Free tiles hold nothing or a non-item occupant
func (g *Grid) SetOccupation(t *Tile, occ Occupation, occupant Occupant) error {
	if t == nil || g.TileAt(t.Col, t.Row) != t {
		return fmt.Errorf("%w: tile not part of grid", ErrOccupation)
	}
	if g.IsBorder(t.Col, t.Row) && occ != Wall {
		return fmt.Errorf("%w: border tile %d,%d must stay wall", ErrOccupation, t.Col, t.Row)
	}
	switch occ {
	case Wall:
		if occupant != nil {
			return fmt.Errorf("%w: wall %d,%d cannot hold %s", ErrOccupation, t.Col, t.Row, occupant.OccupantID())
		}
	case Item:
		if occupant == nil || !occupant.Item() {
			return fmt.Errorf("%w: item tile %d,%d needs an item occupant", ErrOccupation, t.Col, t.Row)
		}
	case Free:
		if occupant != nil && occupant.Item() {
			return fmt.Errorf("%w: free tile %d,%d cannot hold item %s", ErrOccupation, t.Col, t.Row, occupant.OccupantID())
		}
	default:
		return fmt.Errorf("%w: unknown occupation %d", ErrOccupation, occ)
	}
	t.occupation = occ
	t.occupant = occupant
	return nil
}

// Clear reverts a non-wall tile to Free with no occupant
func (g *Grid) Clear(t *Tile) {
	if t == nil || t.occupation == Wall {
		return
	}
	t.occupation = Free
	t.occupant = nil
}

// Layout returns the occupation codes row by row
func (g *Grid) Layout() [][]int {
	out := make([][]int, g.height)
	for row, tiles := range g.tiles {
		out[row] = make([]int, g.width)
		for col, t := range tiles {
			out[row][col] = t.occupation.Code()
		}
	}
	return out
}

// Count returns how many tiles have the given occupation
func (g *Grid) Count(occ Occupation) int {
	n := 0
	for _, tiles := range g.tiles {
		for _, t := range tiles {
			if t.occupation == occ {
				n++
			}
		}
	}
	return n
}
