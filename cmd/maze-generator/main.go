package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/djthomann/snackman/level"
	"github.com/djthomann/snackman/store"
)

func main() {
	w := flag.Int("w", 29, "width in tiles (min 7, odd preferred)")
	h := flag.Int("h", 19, "height in tiles (min 7, odd preferred)")
	seed := flag.Int64("seed", 0, "random seed, 0 = clock")
	odds := flag.Float64("odds", 0.3, "chance of extending a run east")
	run := flag.Int("run", 3, "longest east-west run")
	out := flag.String("o", "", "write the grid text format to this file")
	csv := flag.Bool("csv", false, "print the text format even on a terminal")
	dbPath := flag.String("store", "", "bbolt grid store to save into")
	name := flag.String("name", "", "name to save under in -store")
	flag.Parse()

	cfg := level.Config{Width: *w, Height: *h, ExtendOdds: *odds, MaxRun: *run, Seed: *seed}
	startT := time.Now()
	g, err := level.Generate(cfg)
	if err != nil {
		log.Fatalf("generate: %v", err)
	}
	dur := time.Since(startT)

	if *out != "" {
		if err := level.SaveFile(*out, g); err != nil {
			log.Fatalf("save: %v", err)
		}
	}
	if *dbPath != "" {
		if *name == "" {
			log.Fatal("-store needs -name")
		}
		s, err := store.Open(*dbPath)
		if err != nil {
			log.Fatal(err)
		}
		err = s.Put(*name, g)
		s.Close()
		if err != nil {
			log.Fatalf("store: %v", err)
		}
	}

	if *csv || !term.IsTerminal(int(os.Stdout.Fd())) {
		if err := level.Write(os.Stdout, g); err != nil {
			log.Fatal(err)
		}
		return
	}

	fmt.Printf("Done in %v\n", dur)
	fmt.Printf("Grid Dimensions: %dx%d, %d items\n", g.Width(), g.Height(), g.Count(level.Item))
	draw(g)
}

func draw(g *level.Grid) {
	c := g.Clearings()
	marks := map[level.Point]rune{c.Center: 'C'}
	for _, p := range c.Corners {
		marks[p] = 'E'
	}
	for _, p := range c.Wanderers {
		marks[p] = 'W'
	}

	bw := bufio.NewWriter(os.Stdout)
	defer bw.Flush()
	for _, tiles := range g.AllTiles() {
		for _, t := range tiles {
			if r, ok := marks[t.Point()]; ok {
				bw.WriteRune(r)
				continue
			}
			switch t.Occupation() {
			case level.Wall:
				bw.WriteRune('█')
			case level.Item:
				bw.WriteRune('•')
			default:
				bw.WriteRune(' ')
			}
		}
		bw.WriteRune('\n')
	}
}
