package arena

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/djthomann/snackman/event"
	"github.com/djthomann/snackman/game"
	"github.com/djthomann/snackman/level"
)

func newTestRegistry(t *testing.T) (*Registry, *fakeNotifier) {
	t.Helper()
	n := newFakeNotifier()
	r := NewRegistry(n)
	t.Cleanup(r.Close)
	return r, n
}

func eaterRoster() []Player {
	return []Player{{ClientID: "c1", Name: "ann", Role: RoleEater}}
}

func TestCreateGameAllocatesUUID(t *testing.T) {
	r, n := newTestRegistry(t)
	id, err := r.CreateGame(testConfig(), "", Generated{Seed: 2}, eaterRoster())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("id %q is not a uuid: %v", id, err)
	}
	if r.Len() != 1 {
		t.Fatalf("len = %d, want 1", r.Len())
	}
	if ev := n.await(t, event.KindGameStart, time.Second); ev.GameID != id {
		t.Fatalf("start for %q, want %q", ev.GameID, id)
	}
	g, err := r.Game(id)
	if err != nil || g.Status() != Running {
		t.Fatalf("game lookup = %v, %v", g, err)
	}
}

func TestCreateGameRejectsRunningDuplicate(t *testing.T) {
	r, _ := newTestRegistry(t)
	if _, err := r.CreateGame(testConfig(), "arena", Generated{Seed: 1}, eaterRoster()); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err := r.CreateGame(testConfig(), "arena", Generated{Seed: 1}, eaterRoster())
	if !errors.Is(err, ErrDuplicateGame) {
		t.Fatalf("duplicate err = %v, want ErrDuplicateGame", err)
	}
}

func TestCreateGameLoadsGridWithoutBlockingRegistry(t *testing.T) {
	r, _ := newTestRegistry(t)
	if _, err := r.CreateGame(testConfig(), "other", Generated{Seed: 1}, eaterRoster()); err != nil {
		t.Fatalf("create: %v", err)
	}

	loading := make(chan struct{})
	release := make(chan struct{})
	slow := GridSourceFunc(func(cfg game.Config) (*level.Grid, error) {
		close(loading)
		<-release
		return Generated{Seed: 3}.Grid(cfg)
	})
	created := make(chan error, 1)
	go func() {
		_, err := r.CreateGame(testConfig(), "slow", slow, eaterRoster())
		created <- err
	}()
	<-loading

	looked := make(chan error, 1)
	go func() {
		_, err := r.Game("other")
		looked <- err
	}()
	select {
	case err := <-looked:
		if err != nil {
			t.Fatalf("lookup during load: %v", err)
		}
	case <-time.After(time.Second):
		close(release)
		t.Fatalf("registry locked while a grid loads")
	}

	if _, err := r.CreateGame(testConfig(), "slow", Generated{Seed: 1}, eaterRoster()); !errors.Is(err, ErrDuplicateGame) {
		t.Fatalf("create over a pending id err = %v, want ErrDuplicateGame", err)
	}

	close(release)
	if err := <-created; err != nil {
		t.Fatalf("slow create: %v", err)
	}
	if r.Len() != 2 {
		t.Fatalf("len = %d, want 2", r.Len())
	}
}

func TestFinishedGameCanBeRemovedOrReplaced(t *testing.T) {
	r, n := newTestRegistry(t)
	r.GameTime = 100 * time.Millisecond
	if _, err := r.CreateGame(testConfig(), "arena", Generated{Seed: 1}, eaterRoster()); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := r.Remove("arena"); !errors.Is(err, ErrGameRunning) {
		t.Fatalf("remove running err = %v, want ErrGameRunning", err)
	}
	n.await(t, event.KindGameOver, 2*time.Second)

	r.GameTime = time.Minute
	if _, err := r.CreateGame(testConfig(), "arena", Generated{Seed: 1}, eaterRoster()); err != nil {
		t.Fatalf("replace finished game: %v", err)
	}
	g, _ := r.Game("arena")
	if g.Status() != Running {
		t.Fatalf("replacement status = %s", g.Status())
	}

	r.GameTime = 100 * time.Millisecond
	if _, err := r.CreateGame(testConfig(), "short", Generated{Seed: 1}, eaterRoster()); err != nil {
		t.Fatalf("create: %v", err)
	}
	for {
		ev := n.await(t, event.KindGameOver, 2*time.Second)
		if ev.GameID == "short" {
			break
		}
	}
	if err := r.Remove("short"); err != nil {
		t.Fatalf("remove finished: %v", err)
	}
	if _, err := r.Game("short"); !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("lookup after remove err = %v", err)
	}
	if err := r.Remove("short"); !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("second remove err = %v", err)
	}
}

func TestPruneDropsOnlyFinishedGames(t *testing.T) {
	r, n := newTestRegistry(t)
	r.GameTime = 100 * time.Millisecond
	if _, err := r.CreateGame(testConfig(), "short", Generated{Seed: 1}, eaterRoster()); err != nil {
		t.Fatalf("create: %v", err)
	}
	r.GameTime = time.Minute
	if _, err := r.CreateGame(testConfig(), "long", Generated{Seed: 1}, eaterRoster()); err != nil {
		t.Fatalf("create: %v", err)
	}
	n.await(t, event.KindGameOver, 2*time.Second)

	if got := r.Prune(); got != 1 {
		t.Fatalf("pruned %d, want 1", got)
	}
	if _, err := r.Game("long"); err != nil {
		t.Fatalf("running game pruned: %v", err)
	}
	if len(r.ListGames()) != 1 {
		t.Fatalf("list = %+v", r.ListGames())
	}
}

func TestRouteEventToUnknownGameIsDropped(t *testing.T) {
	r, n := newTestRegistry(t)
	r.RouteEvent(&event.Event{Kind: event.KindMove, GameID: "nope", ClientID: "c1", Payload: event.MovePayload{X: 1}})
	r.RouteEvent(nil)

	select {
	case ev := <-n.ch:
		t.Fatalf("unexpected notification %s", ev.Kind)
	case <-time.After(100 * time.Millisecond):
	}
	if r.Len() != 0 {
		t.Fatalf("len = %d", r.Len())
	}
}

func TestRouteEventReachesGame(t *testing.T) {
	r, n := newTestRegistry(t)
	id, err := r.CreateGame(testConfig(), "", Generated{Seed: 4}, eaterRoster())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	n.await(t, event.KindGameStart, time.Second)
	r.RouteEvent(&event.Event{Kind: event.KindRegister, GameID: id, ClientID: "c1"})
	if ev := n.await(t, event.KindGameStart, time.Second); ev.ClientID != "c1" {
		t.Fatalf("resync addressed to %q", ev.ClientID)
	}
}

func TestGridSources(t *testing.T) {
	cfg := testConfig()
	g, err := Generated{Seed: 9}.Grid(cfg)
	if err != nil {
		t.Fatalf("generated: %v", err)
	}
	if g.Width() != cfg.MapWidth || g.Height() != cfg.MapHeight {
		t.Fatalf("generated %dx%d, want %dx%d", g.Width(), g.Height(), cfg.MapWidth, cfg.MapHeight)
	}

	static, err := Static(g)
	if err != nil {
		t.Fatalf("static: %v", err)
	}
	a, _ := static.Grid(cfg)
	b, _ := static.Grid(cfg)
	if a == b || a.TileAt(1, 1) == b.TileAt(1, 1) {
		t.Fatalf("static source shared a grid instance")
	}
	if a.Count(level.Item) != g.Count(level.Item) {
		t.Fatalf("static copy changed layout")
	}

	path := filepath.Join(t.TempDir(), "map.csv")
	if err := level.SaveFile(path, g); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := GridFile(path).Grid(cfg); err != nil {
		t.Fatalf("grid file: %v", err)
	}

	calls := 0
	fn := GridSourceFunc(func(c game.Config) (*level.Grid, error) {
		calls++
		return Generated{Seed: 1}.Grid(c)
	})
	if _, err := fn.Grid(cfg); err != nil || calls != 1 {
		t.Fatalf("func source: %v, calls %d", err, calls)
	}
}

func TestParseRole(t *testing.T) {
	if r, err := ParseRole("chaser"); err != nil || r != RoleChaser {
		t.Fatalf("ParseRole(chaser) = %q, %v", r, err)
	}
	if _, err := ParseRole("ghost"); !errors.Is(err, ErrUnknownRole) {
		t.Fatalf("ParseRole(ghost) err = %v", err)
	}
}

func TestIDSourceIsMonotonic(t *testing.T) {
	s := NewIDSource()
	prev := s.Next()
	for i := 0; i < 100; i++ {
		next := s.Next()
		if next <= prev {
			t.Fatalf("id %q not after %q", next, prev)
		}
		prev = next
	}
}
