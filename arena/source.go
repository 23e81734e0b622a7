package arena

import (
	"bytes"

	"github.com/djthomann/snackman/game"
	"github.com/djthomann/snackman/level"
)

// GridSource produces a fresh grid for each new game. Games mutate their
// grid, so a source must never hand out the same instance twice.
type GridSource interface {
	Grid(cfg game.Config) (*level.Grid, error)
}

type GridSourceFunc func(cfg game.Config) (*level.Grid, error)

func (f GridSourceFunc) Grid(cfg game.Config) (*level.Grid, error) { return f(cfg) }

// Generated builds a sidewinder maze sized by the game config
type Generated struct {
	Seed int64 // 0 picks a random layout
}

func (s Generated) Grid(cfg game.Config) (*level.Grid, error) {
	gc := level.DefaultConfig(cfg.MapWidth, cfg.MapHeight)
	gc.Seed = s.Seed
	return level.Generate(gc)
}

// GridFile loads a grid saved in the text format
type GridFile string

func (p GridFile) Grid(game.Config) (*level.Grid, error) {
	return level.LoadFile(string(p))
}

// StaticGrid hands out copies of one layout
type StaticGrid struct {
	text []byte
}

// Static snapshots the structure of g. Occupants are not kept.
func Static(g *level.Grid) (StaticGrid, error) {
	var buf bytes.Buffer
	if err := level.Write(&buf, g); err != nil {
		return StaticGrid{}, err
	}
	return StaticGrid{text: buf.Bytes()}, nil
}

func (s StaticGrid) Grid(game.Config) (*level.Grid, error) {
	return level.Read(bytes.NewReader(s.text))
}
