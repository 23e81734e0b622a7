package arena

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/exp/rand"

	"github.com/djthomann/snackman/event"
	"github.com/djthomann/snackman/game"
	"github.com/djthomann/snackman/level"
	"github.com/djthomann/snackman/protocol"
)

// Status is the lifecycle phase of a game
type Status int32

const (
	Initializing Status = iota
	Running
	Finished
)

func (s Status) String() string {
	switch s {
	case Initializing:
		return "initializing"
	case Running:
		return "running"
	case Finished:
		return "finished"
	}
	return "unknown"
}

// Params configures a new game
type Params struct {
	ID       string
	Config   game.Config
	Grid     *level.Grid
	Players  []Player
	Notifier Notifier
	IDs      func() string // entity ids; nil uses a per-game counter
	Seed     int64         // wanderer and nutrition randomness; 0 = clock
	GameTime time.Duration // overrides Config.GameTime when set
}

// Game runs one match. All simulation state is owned by the Run goroutine;
// other goroutines talk to it through Submit.
type Game struct {
	ID string

	inbox          chan *event.Event
	cfg            game.Config
	world          *game.World
	bus            *event.Bus
	state          *game.State
	notifier       Notifier
	tickHz         int
	broadcastEvery int
	status         atomic.Int32

	start    *protocol.GameStart
	over     *protocol.GameOver
	timer    *time.Timer
	deadline time.Time

	quit     chan struct{}
	stopOnce sync.Once
}

// New builds the world, spawns the roster, starts the countdown and relays
// the game start. The game is Running when New returns; call Run to drive it.
func New(p Params) (*Game, error) {
	if p.Grid == nil {
		return nil, errors.New("new game: nil grid")
	}
	if err := p.Config.Validate(); err != nil {
		return nil, fmt.Errorf("new game %s: %w", p.ID, err)
	}
	seed := p.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	broadcastEvery := protocol.SimTickHz / protocol.BroadcastHz
	if broadcastEvery <= 0 {
		broadcastEvery = 1
	}
	g := &Game{
		ID:             p.ID,
		inbox:          make(chan *event.Event, 256),
		cfg:            p.Config,
		state:          game.NewState(),
		notifier:       p.Notifier,
		tickHz:         protocol.SimTickHz,
		broadcastEvery: broadcastEvery,
		quit:           make(chan struct{}),
	}
	g.world = game.NewWorld(p.ID, p.Config, p.Grid, rand.New(rand.NewSource(uint64(seed))), p.IDs)
	g.world.SeedConsumables()
	for _, pl := range p.Players {
		g.spawn(pl)
	}
	g.world.SpawnWanderers()

	subs := append(g.world.Subscribers(), event.SubscriberFunc(g.track))
	g.bus = event.NewBus(subs, g.relay)
	g.world.SetPublisher(g.bus.Publish)

	length := p.GameTime
	if length <= 0 {
		length = p.Config.Duration()
	}
	g.status.Store(int32(Running))
	g.deadline = time.Now().Add(length)
	g.timer = time.AfterFunc(length, func() {
		g.Submit(&event.Event{Kind: event.KindTimeUp, GameID: g.ID})
	})

	g.start = g.snapshot()
	g.bus.Relay(event.Event{Kind: event.KindGameStart, GameID: g.ID, Payload: g.start})
	log.Printf("game %s: running with %d eaters, %d chasers, %d wanderers",
		g.ID, len(g.world.Eaters()), len(g.world.Chasers()), len(g.world.Wanderers()))
	return g, nil
}

func (g *Game) spawn(p Player) {
	var err error
	switch p.Role {
	case RoleEater:
		_, err = g.world.SpawnEater(p.ClientID, p.Name)
	case RoleChaser:
		_, err = g.world.SpawnChaser(p.ClientID, p.Name)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownRole, p.Role)
	}
	if err != nil {
		log.Printf("game %s: skip player %s: %v", g.ID, p.ClientID, err)
	}
}

func (g *Game) Status() Status { return Status(g.status.Load()) }

// Submit queues ev for the game goroutine. Returns false if the game was
// stopped or already finished.
func (g *Game) Submit(ev *event.Event) bool {
	if ev == nil {
		return false
	}
	if g.Status() == Finished {
		log.Printf("game %s: %v: dropped %s", g.ID, ErrStaleEvent, ev.Kind)
		return false
	}
	select {
	case g.inbox <- ev:
		return true
	case <-g.quit:
		return false
	}
}

func (g *Game) Stop() {
	g.stopOnce.Do(func() {
		g.timer.Stop()
		close(g.quit)
	})
}

func (g *Game) Run() {
	ticker := time.NewTicker(time.Second / time.Duration(g.tickHz))
	defer ticker.Stop()

	for {
		select {
		case <-g.quit:
			return
		case ev := <-g.inbox:
			g.handle(ev)
		case <-ticker.C:
			g.tick()
		}
	}
}

func (g *Game) handle(ev *event.Event) {
	if g.Status() != Running {
		log.Printf("game %s: %v: dropped %s", g.ID, ErrStaleEvent, ev.Kind)
		return
	}
	switch ev.Kind {
	case event.KindTimeUp:
		g.finish("time")
		return
	case event.KindRegister:
		g.resync(ev)
		return
	}
	g.bus.Publish(ev)
	g.checkScore()
}

func (g *Game) tick() {
	if g.Status() != Running {
		return
	}
	n := g.world.Advance()
	g.bus.Publish(&event.Event{Kind: event.KindTick, GameID: g.ID, Payload: event.TickPayload{Tick: n}})
	if n%g.broadcastEvery == 0 {
		g.broadcastDelta()
	}
}

// resync refreshes the cached start and sends it to the registering client
func (g *Game) resync(ev *event.Event) {
	clientID := ev.ClientID
	if p, ok := ev.Payload.(event.RegisterPayload); ok && p.ClientID != "" {
		clientID = p.ClientID
	}
	g.start = g.snapshot()
	g.bus.Relay(event.Event{Kind: event.KindGameStart, GameID: g.ID, ClientID: clientID, Payload: g.start})
}

func (g *Game) checkScore() {
	if leader := g.world.Leader(); leader != nil && leader.Score() >= g.cfg.ScoreToWin {
		g.finish("score")
	}
}

func (g *Game) finish(reason string) {
	if !g.status.CompareAndSwap(int32(Running), int32(Finished)) {
		return
	}
	g.timer.Stop()
	if !g.state.Empty() {
		g.broadcastDelta()
	}
	g.over = g.result(reason)
	log.Printf("game %s: finished (%s), winner %q", g.ID, reason, g.over.WinnerName)
	g.bus.Relay(event.Event{Kind: event.KindGameOver, GameID: g.ID, Payload: g.over})
}

func (g *Game) broadcastDelta() {
	d := g.delta(g.state.Drain())
	g.bus.Relay(event.Event{Kind: event.KindDelta, GameID: g.ID, Payload: d})
}

// track feeds the delta tracker. It is the last bus subscriber.
func (g *Game) track(ev *event.Event) error {
	g.state.Observe(ev, g.kindOf)
	return nil
}

func (g *Game) kindOf(id string) (game.Kind, bool) {
	m := g.world.Find(id)
	if m == nil {
		return 0, false
	}
	return m.Kind(), true
}

func (g *Game) relay(ev event.Event) {
	if g.notifier == nil {
		return
	}
	g.notifier.Notify(ev)
}

func (g *Game) remaining() float64 {
	if g.Status() == Finished {
		return 0
	}
	left := time.Until(g.deadline).Seconds()
	if left < 0 {
		return 0
	}
	return left
}
