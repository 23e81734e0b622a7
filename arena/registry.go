package arena

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/djthomann/snackman/event"
	"github.com/djthomann/snackman/game"
)

// GameInfo is returned by the API for the game list.
type GameInfo struct {
	ID      string `json:"id"`
	Status  string `json:"status"`
	Players int    `json:"players"`
}

// Registry holds every game by id and routes events to them. Games run in
// their own goroutine from creation until removed.
type Registry struct {
	mu       sync.RWMutex
	games    map[string]*Game
	players  map[string]int
	pending  map[string]struct{} // ids reserved by a CreateGame in progress
	notifier Notifier
	ids      *IDSource

	// GameTime overrides the configured game length when set
	GameTime time.Duration
}

func NewRegistry(n Notifier) *Registry {
	return &Registry{
		games:    make(map[string]*Game),
		players:  make(map[string]int),
		pending:  make(map[string]struct{}),
		notifier: n,
		ids:      NewIDSource(),
	}
}

// SetNotifier replaces the outbound sink for games created afterwards
func (r *Registry) SetNotifier(n Notifier) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifier = n
}

// CreateGame builds and starts a game. An empty id gets a fresh uuid. An id
// held by a running game is refused; a finished one is replaced.
func (r *Registry) CreateGame(cfg game.Config, id string, src GridSource, players []Player) (string, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if src == nil {
		src = Generated{}
	}

	// Reserve the id, then build without the lock so loading a grid never
	// stalls routing for other games.
	r.mu.Lock()
	if _, busy := r.pending[id]; busy {
		r.mu.Unlock()
		return "", fmt.Errorf("%w: %s", ErrDuplicateGame, id)
	}
	if old, ok := r.games[id]; ok && old.Status() != Finished {
		r.mu.Unlock()
		return "", fmt.Errorf("%w: %s", ErrDuplicateGame, id)
	}
	r.pending[id] = struct{}{}
	notifier, gameTime := r.notifier, r.GameTime
	r.mu.Unlock()

	g, err := r.build(cfg, id, src, players, notifier, gameTime)

	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.pending, id)
	if err != nil {
		return "", err
	}
	if old, ok := r.games[id]; ok {
		old.Stop()
	}
	r.games[id] = g
	r.players[id] = len(players)
	go g.Run()
	log.Printf("registry: created game %s (%d games)", id, len(r.games))
	return id, nil
}

func (r *Registry) build(cfg game.Config, id string, src GridSource, players []Player, n Notifier, gameTime time.Duration) (*Game, error) {
	grid, err := src.Grid(cfg)
	if err != nil {
		return nil, fmt.Errorf("create game %s: %w", id, err)
	}
	return New(Params{
		ID:       id,
		Config:   cfg,
		Grid:     grid,
		Players:  players,
		Notifier: n,
		IDs:      r.ids.Next,
		GameTime: gameTime,
	})
}

// RouteEvent hands ev to the game named by ev.GameID. Events for unknown
// games are dropped.
func (r *Registry) RouteEvent(ev *event.Event) {
	if ev == nil {
		return
	}
	r.mu.RLock()
	g, ok := r.games[ev.GameID]
	r.mu.RUnlock()
	if !ok {
		return
	}
	g.Submit(ev)
}

func (r *Registry) Game(id string) (*Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.games[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, id)
	}
	return g, nil
}

// Remove drops a finished game
func (r *Registry) Remove(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.games[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrGameNotFound, id)
	}
	if g.Status() != Finished {
		return fmt.Errorf("%w: %s", ErrGameRunning, id)
	}
	g.Stop()
	delete(r.games, id)
	delete(r.players, id)
	return nil
}

// Prune removes every finished game and returns how many went
func (r *Registry) Prune() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, g := range r.games {
		if g.Status() != Finished {
			continue
		}
		g.Stop()
		delete(r.games, id)
		delete(r.players, id)
		n++
	}
	return n
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.games)
}

// ListGames returns all games with status and roster size.
func (r *Registry) ListGames() []GameInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]GameInfo, 0, len(r.games))
	for id, g := range r.games {
		out = append(out, GameInfo{ID: id, Status: g.Status().String(), Players: r.players[id]})
	}
	return out
}

// Close stops every game
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, g := range r.games {
		g.Stop()
		delete(r.games, id)
		delete(r.players, id)
	}
}
