package main

import (
	"fmt"
	"sort"

	"github.com/gdamore/tcell/v2"

	"github.com/djthomann/snackman/level"
	"github.com/djthomann/snackman/protocol"
)

// view mirrors one game from start and delta messages
type view struct {
	gameID    string
	width     int
	height    int
	walls     [][]bool
	items     map[level.Point]string // nutrition by tile
	eaters    map[string]protocol.EaterSnapshot
	chasers   map[string]protocol.ChaserSnapshot
	wanderers map[string]protocol.WandererSnapshot
	remaining float64
	over      *protocol.GameOver
}

// cue is a sound the spectator should play after applying a message
type cue int

const (
	cueNone cue = iota
	cueEat
	cueScare
	cueLay
)

func newView() *view {
	return &view{
		items:     make(map[level.Point]string),
		eaters:    make(map[string]protocol.EaterSnapshot),
		chasers:   make(map[string]protocol.ChaserSnapshot),
		wanderers: make(map[string]protocol.WandererSnapshot),
	}
}

func (v *view) applyStart(s protocol.GameStart) {
	*v = *newView()
	v.gameID, v.width, v.height = s.GameID, s.Width, s.Height
	v.remaining = float64(s.GameTime)
	v.walls = make([][]bool, len(s.Layout))
	for row, codes := range s.Layout {
		v.walls[row] = make([]bool, len(codes))
		for col, code := range codes {
			v.walls[row][col] = code == level.Wall.Code()
		}
	}
	for _, it := range s.Items {
		v.items[level.Point{Col: it.Col, Row: it.Row}] = it.Nutrition
	}
	for _, e := range s.Eaters {
		v.eaters[e.ID] = e
	}
	for _, c := range s.Chasers {
		v.chasers[c.ID] = c
	}
	for _, w := range s.Wanderers {
		v.wanderers[w.ID] = w
	}
}

// applyDelta folds d into the view and returns the loudest cue it caused
func (v *view) applyDelta(d protocol.Delta) cue {
	out := cueNone
	v.remaining = d.Remaining
	for _, it := range d.Spawned {
		v.items[level.Point{Col: it.Col, Row: it.Row}] = it.Nutrition
		out = cueLay
	}
	for _, it := range d.Consumed {
		delete(v.items, level.Point{Col: it.Col, Row: it.Row})
		out = cueEat
	}
	for _, e := range d.Eaters {
		v.eaters[e.ID] = e
	}
	for _, c := range d.Chasers {
		if c.Scared && !v.chasers[c.ID].Scared {
			out = cueScare
		}
		v.chasers[c.ID] = c
	}
	for _, w := range d.Wanderers {
		v.wanderers[w.ID] = w
	}
	return out
}

func (v *view) applyOver(o protocol.GameOver) {
	v.over = &o
	v.remaining = 0
}

var (
	wallStyle     = tcell.StyleDefault.Foreground(tcell.ColorGray)
	eaterStyle    = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	chaserStyle   = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	scaredStyle   = tcell.StyleDefault.Foreground(tcell.ColorBlue).Bold(true)
	wandererStyle = tcell.StyleDefault.Foreground(tcell.ColorPurple)
	textStyle     = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	itemStyles    = map[string]tcell.Style{
		"healthy":   tcell.StyleDefault.Foreground(tcell.ColorGreen),
		"neutral":   tcell.StyleDefault.Foreground(tcell.ColorOlive),
		"unhealthy": tcell.StyleDefault.Foreground(tcell.ColorMaroon),
	}
)

// draw renders two screen columns per tile so the maze keeps its aspect
func (v *view) draw(s tcell.Screen) {
	s.Clear()
	for row, cols := range v.walls {
		for col, wall := range cols {
			if wall {
				s.SetContent(col*2, row, '█', nil, wallStyle)
				s.SetContent(col*2+1, row, '█', nil, wallStyle)
			}
		}
	}
	for p, n := range v.items {
		s.SetContent(p.Col*2, p.Row, '•', nil, itemStyles[n])
	}
	for _, w := range v.wanderers {
		s.SetContent(int(w.X*2), int(w.Z), 'w', nil, wandererStyle)
	}
	for _, c := range v.chasers {
		style := chaserStyle
		if c.Scared {
			style = scaredStyle
		}
		s.SetContent(int(c.X*2), int(c.Z), 'C', nil, style)
	}
	for _, e := range v.eaters {
		s.SetContent(int(e.X*2), int(e.Z), 'E', nil, eaterStyle)
	}

	x := v.width*2 + 2
	y := 0
	put(s, x, y, textStyle, fmt.Sprintf("game %s", v.gameID))
	y += 2
	put(s, x, y, textStyle, fmt.Sprintf("time  %4.0fs", v.remaining))
	y += 2
	for _, line := range v.scoreLines() {
		put(s, x, y, eaterStyle, line)
		y++
	}
	if v.over != nil {
		y++
		msg := "game over: no winner"
		if v.over.WinnerName != "" {
			msg = "game over: " + v.over.WinnerName + " wins"
		}
		put(s, x, y, textStyle, msg)
	}
	s.Show()
}

func (v *view) scoreLines() []string {
	eaters := make([]protocol.EaterSnapshot, 0, len(v.eaters))
	for _, e := range v.eaters {
		eaters = append(eaters, e)
	}
	sort.Slice(eaters, func(i, j int) bool {
		if eaters[i].Score != eaters[j].Score {
			return eaters[i].Score > eaters[j].Score
		}
		return eaters[i].ID < eaters[j].ID
	})
	lines := make([]string, len(eaters))
	for i, e := range eaters {
		name := e.Name
		if name == "" {
			name = e.ClientID
		}
		lines[i] = fmt.Sprintf("%-12s %6d kcal", name, e.Score)
	}
	return lines
}

func put(s tcell.Screen, x, y int, style tcell.Style, text string) {
	for i, r := range []rune(text) {
		s.SetContent(x+i, y, r, nil, style)
	}
}
