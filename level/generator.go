package level

import (
	"time"

	"golang.org/x/exp/rand"
)

const (
	DefaultExtendOdds = 0.3
	DefaultMaxRun     = 3
)

type Config struct {
	Width, Height int

	// ExtendOdds is the chance a sidewinder run carves east instead of closing
	ExtendOdds float64

	// MaxRun caps a run's length in cells; a full run is closed early to
	// avoid long straight corridors. 0 uses DefaultMaxRun.
	MaxRun int

	Seed int64 // Optional (0 = Random)
}

// DefaultConfig returns the generation parameters for a width x height grid
func DefaultConfig(width, height int) Config {
	return Config{
		Width:      width,
		Height:     height,
		ExtendOdds: DefaultExtendOdds,
		MaxRun:     DefaultMaxRun,
	}
}

// Generate builds a bordered grid with a sidewinder maze interior.
//
// Maze cells sit on odd coordinates; the even tiles between two cells are the
// walls a carve removes. The result is a perfect maze: every open tile is
// reachable and there are no loops. Clearings are left Free, every other open
// tile becomes Item.
func Generate(cfg Config) (*Grid, error) {
	if err := checkDimensions(cfg.Width, cfg.Height); err != nil {
		return nil, err
	}
	if cfg.MaxRun <= 0 {
		cfg.MaxRun = DefaultMaxRun
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(uint64(seed)))

	g := newGrid(cfg.Width, cfg.Height)
	sidewinder(g, cfg.ExtendOdds, cfg.MaxRun, rng)

	for _, tiles := range g.tiles {
		for _, t := range tiles {
			if t.occupation != Wall && !g.IsClearing(t.Col, t.Row) {
				t.occupation = Item
			}
		}
	}
	return g, nil
}

func sidewinder(g *Grid, odds float64, maxRun int, rng *rand.Rand) {
	lastCol := lastCell(g.width)
	lastRow := lastCell(g.height)

	open := func(col, row int) {
		g.tiles[row][col].occupation = Free
	}

	run := make([]int, 0, maxRun)
	for row := 1; row <= lastRow; row += 2 {
		run = run[:0]
		for col := 1; col <= lastCol; col += 2 {
			open(col, row)
			run = append(run, col)

			atEast := col == lastCol
			if row == lastRow {
				// No row below: link the whole row
				if !atEast {
					open(col+1, row)
				}
				continue
			}

			extend := !atEast && len(run) < maxRun && rng.Float64() < odds
			if extend {
				open(col+1, row)
				continue
			}

			south := run[rng.Intn(len(run))]
			open(south, row+1)
			run = run[:0]
		}
	}
}
