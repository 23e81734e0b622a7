package game

import "math"

// Vec is a position or displacement on the ground plane. X runs along
// columns, Z along rows.
type Vec struct {
	X, Z float64
}

func (v Vec) Add(o Vec) Vec       { return Vec{v.X + o.X, v.Z + o.Z} }
func (v Vec) Sub(o Vec) Vec       { return Vec{v.X - o.X, v.Z - o.Z} }
func (v Vec) Scale(f float64) Vec { return Vec{v.X * f, v.Z * f} }
func (v Vec) Len() float64        { return math.Hypot(v.X, v.Z) }
func (v Vec) Dist(o Vec) float64  { return v.Sub(o).Len() }
func (v Vec) IsZero() bool        { return v.X == 0 && v.Z == 0 }

// tileCenter returns the world position of a tile's centre
func tileCenter(col, row int) Vec {
	return Vec{float64(col) + 0.5, float64(row) + 0.5}
}

// tileOf returns the tile containing p
func tileOf(p Vec) (col, row int) {
	return int(math.Floor(p.X)), int(math.Floor(p.Z))
}
