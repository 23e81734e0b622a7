package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/djthomann/snackman/arena"
	"github.com/djthomann/snackman/config"
	"github.com/djthomann/snackman/network"
	"github.com/djthomann/snackman/protocol"
	"github.com/djthomann/snackman/store"
)

const pruneEvery = time.Minute

func main() {
	envFile := flag.String("env", ".env", "dotenv file to load")
	flag.Parse()

	settings, err := config.Load(*envFile)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	enc, err := protocol.ParseEncoding(settings.Encoding)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	var grids network.GridLookup
	if settings.GridStore != "" {
		s, err := store.Open(settings.GridStore)
		if err != nil {
			log.Fatalf("grid store: %v", err)
		}
		defer s.Close()
		grids = s
		if names, err := s.Names(); err == nil {
			log.Printf("grid store %s: %d saved grids", settings.GridStore, len(names))
		}
	}

	reg := arena.NewRegistry(nil)
	defer reg.Close()
	srv := network.NewServer(reg, settings.Game, enc, grids)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		ticker := time.NewTicker(pruneEvery)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := reg.Prune(); n > 0 {
					log.Printf("pruned %d finished games", n)
				}
			}
		}
	}()

	httpSrv := &http.Server{Addr: settings.Addr, Handler: srv.Handler()}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()

	log.Printf("listening on %s (ws endpoint: /ws, encoding %s)", settings.Addr, enc)
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}
