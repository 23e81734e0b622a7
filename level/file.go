package level

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Write stores the grid structure as comma-separated occupation codes, one
// line per row. Occupants are not persisted.
func Write(w io.Writer, g *Grid) error {
	cw := csv.NewWriter(w)
	record := make([]string, g.width)
	for _, tiles := range g.tiles {
		for col, t := range tiles {
			record[col] = strconv.Itoa(t.occupation.Code())
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Read parses the format produced by Write
func Read(r io.Reader) (*Grid, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		if errors.Is(err, csv.ErrFieldCount) {
			return nil, fmt.Errorf("%w: ragged rows: %v", ErrMalformedGrid, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformedGrid, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: empty", ErrMalformedGrid)
	}

	height, width := len(records), len(records[0])
	if err := checkDimensions(width, height); err != nil {
		return nil, err
	}

	g := newGrid(width, height)
	for row, record := range records {
		for col, field := range record {
			code, err := strconv.Atoi(strings.TrimSpace(field))
			if err != nil {
				return nil, fmt.Errorf("%w: row %d col %d: %v", ErrMalformedGrid, row, col, err)
			}
			occ, ok := OccupationFromCode(code)
			if !ok {
				return nil, fmt.Errorf("%w: row %d col %d: unknown code %d", ErrMalformedGrid, row, col, code)
			}
			if g.IsBorder(col, row) && occ != Wall {
				return nil, fmt.Errorf("%w: border tile %d,%d is %s", ErrMalformedGrid, col, row, occ)
			}
			g.tiles[row][col].occupation = occ
		}
	}
	if err := checkSpawns(g); err != nil {
		return nil, err
	}
	return g, nil
}

// checkSpawns rejects grids whose corner or centre clearings are walled in.
// Eaters and chasers spawn there unconditionally.
func checkSpawns(g *Grid) error {
	spawns := append(g.clearings.Corners[:], g.clearings.Center)
	for _, p := range spawns {
		if g.tiles[p.Row][p.Col].occupation == Wall {
			return fmt.Errorf("%w: spawn tile %d,%d is a wall", ErrMalformedGrid, p.Col, p.Row)
		}
	}
	return nil
}

// SaveFile writes the grid to path, replacing any existing file
func SaveFile(path string, g *Grid) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, g); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// LoadFile reads a grid previously stored with SaveFile
func LoadFile(path string) (*Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	g, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return g, nil
}
