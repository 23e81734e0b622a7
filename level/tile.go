package level

import "fmt"

// Occupation is the semantic state of a grid cell
type Occupation int8

const (
	Free Occupation = iota
	Wall
	Item
)

// Text codes used by the grid file format
const (
	CodeWall = -1
	CodeFree = 0
	CodeItem = 1
)

func (o Occupation) String() string {
	switch o {
	case Free:
		return "free"
	case Wall:
		return "wall"
	case Item:
		return "item"
	default:
		return fmt.Sprintf("occupation(%d)", int8(o))
	}
}

// Code returns the file format code for o
func (o Occupation) Code() int {
	switch o {
	case Wall:
		return CodeWall
	case Item:
		return CodeItem
	default:
		return CodeFree
	}
}

// OccupationFromCode is the inverse of Occupation.Code
func OccupationFromCode(code int) (Occupation, bool) {
	switch code {
	case CodeWall:
		return Wall, true
	case CodeFree:
		return Free, true
	case CodeItem:
		return Item, true
	}
	return Free, false
}

// Occupant is a non-owning reference from a tile to whatever sits on it.
// Item reports whether the occupant is a consumable (allowed on Item tiles only).
type Occupant interface {
	OccupantID() string
	Item() bool
}

// Point is an integer tile coordinate
type Point struct {
	Col, Row int
}

// Tile is one cell of the grid
type Tile struct {
	Col, Row int

	occupation Occupation
	occupant   Occupant
}

func (t *Tile) Occupation() Occupation { return t.occupation }

// Occupant returns the entity currently on the tile, or nil
func (t *Tile) Occupant() Occupant { return t.occupant }

func (t *Tile) Point() Point { return Point{Col: t.Col, Row: t.Row} }
