package network

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/djthomann/snackman/arena"
	"github.com/djthomann/snackman/event"
	"github.com/djthomann/snackman/game"
	"github.com/djthomann/snackman/level"
	"github.com/djthomann/snackman/protocol"
)

var upgrader = websocket.Upgrader{
	// For dev, allow all origins. Lock this down in prod.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// GridLookup resolves saved grid names for create requests
type GridLookup interface {
	Get(name string) (*level.Grid, error)
}

// Server is the websocket boundary of a registry. It turns frames into
// events and fans game output back out to the bound connections.
type Server struct {
	reg      *arena.Registry
	cfg      game.Config
	enc      protocol.Encoding
	grids    GridLookup
	mu       sync.RWMutex
	sessions map[string]map[*client]struct{} // by game id
}

// NewServer wires itself as the registry's notifier. grids may be nil.
func NewServer(reg *arena.Registry, cfg game.Config, enc protocol.Encoding, grids GridLookup) *Server {
	s := &Server{
		reg:      reg,
		cfg:      cfg,
		enc:      enc,
		grids:    grids,
		sessions: make(map[string]map[*client]struct{}),
	}
	reg.SetNotifier(s)
	return s
}

// Handler serves /ws and the /games listing
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.HandleWS)
	mux.HandleFunc("/games", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(s.reg.ListGames()); err != nil {
			log.Println("games:", err)
		}
	})
	return mux
}

func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	enc := s.enc
	if q := r.URL.Query().Get("enc"); q != "" {
		parsed, err := protocol.ParseEncoding(q)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		enc = parsed
	}

	// Upgrade HTTP -> WebSocket
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("upgrade:", err)
		return
	}

	// Basic timeouts + pong handling (keeps connections healthy)
	conn.SetReadLimit(readLimit)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	c := newClient(conn, enc)
	go c.writePump()
	defer func() {
		s.unbind(c)
		c.close()
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Println("read:", err)
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		s.dispatch(c, msg)
	}
}

func (s *Server) dispatch(c *client, msg []byte) {
	env, err := c.enc.DecodeEnvelope(msg)
	if err != nil {
		c.reply(protocol.MsgError, protocol.Error{Code: "bad_frame", Message: err.Error()})
		return
	}
	switch env.T {
	case protocol.MsgCreate:
		req, err := protocol.DecodePayload[protocol.Create](env)
		if err != nil {
			c.reply(protocol.MsgError, protocol.Error{Code: "bad_payload", Message: err.Error()})
			return
		}
		s.create(c, req)
	case protocol.MsgHello:
		h, err := protocol.DecodePayload[protocol.Hello](env)
		if err != nil {
			c.reply(protocol.MsgError, protocol.Error{Code: "bad_payload", Message: err.Error()})
			return
		}
		s.hello(c, h)
	case protocol.MsgMove:
		m, err := protocol.DecodePayload[protocol.Move](env)
		if err != nil {
			c.reply(protocol.MsgError, protocol.Error{Code: "bad_payload", Message: err.Error()})
			return
		}
		gameID, clientID := c.identity()
		if gameID == "" {
			c.reply(protocol.MsgError, protocol.Error{Code: "no_game", Message: "send hello first"})
			return
		}
		if c.watching() {
			c.reply(protocol.MsgError, protocol.Error{Code: "spectator", Message: "spectators cannot move"})
			return
		}
		s.reg.RouteEvent(&event.Event{
			Kind:     event.KindMove,
			GameID:   gameID,
			ClientID: clientID,
			Payload:  event.MovePayload{X: m.X, Z: m.Z},
		})
	default:
		c.reply(protocol.MsgError, protocol.Error{Code: "unknown_type", Message: fmt.Sprintf("unknown message type %q", env.T)})
	}
}

func (s *Server) create(c *client, req protocol.Create) {
	players := make([]arena.Player, 0, len(req.Players))
	for _, p := range req.Players {
		role, err := arena.ParseRole(p.Role)
		if err != nil {
			c.reply(protocol.MsgError, protocol.Error{Code: "bad_role", Message: err.Error()})
			return
		}
		players = append(players, arena.Player{ClientID: p.ClientID, Name: p.Name, Role: role})
	}

	var src arena.GridSource = arena.Generated{Seed: req.Seed}
	if req.Grid != "" {
		if s.grids == nil {
			c.reply(protocol.MsgError, protocol.Error{Code: "no_store", Message: "saved grids are not enabled"})
			return
		}
		name := req.Grid
		src = arena.GridSourceFunc(func(game.Config) (*level.Grid, error) {
			return s.grids.Get(name)
		})
	}

	id, err := s.reg.CreateGame(s.cfg, req.GameID, src, players)
	if err != nil {
		code := "create_failed"
		if errors.Is(err, arena.ErrDuplicateGame) {
			code = "duplicate_game"
		}
		c.reply(protocol.MsgError, protocol.Error{Code: code, Message: err.Error()})
		return
	}
	c.reply(protocol.MsgCreated, protocol.Created{GameID: id})
}

func (s *Server) hello(c *client, h protocol.Hello) {
	if h.V != protocol.Version {
		c.reply(protocol.MsgError, protocol.Error{Code: "bad_version", Message: fmt.Sprintf("protocol version %d, want %d", h.V, protocol.Version)})
		return
	}
	if _, err := s.reg.Game(h.GameID); err != nil {
		c.reply(protocol.MsgError, protocol.Error{Code: "no_game", Message: err.Error()})
		return
	}
	clientID := h.ClientID
	if clientID == "" {
		if !h.Spectate {
			c.reply(protocol.MsgError, protocol.Error{Code: "no_client", Message: "clientId required"})
			return
		}
		clientID = "spectator-" + uuid.NewString()
	}

	s.unbind(c)
	c.bind(h.GameID, clientID, h.Spectate)
	s.mu.Lock()
	set, ok := s.sessions[h.GameID]
	if !ok {
		set = make(map[*client]struct{})
		s.sessions[h.GameID] = set
	}
	set[c] = struct{}{}
	s.mu.Unlock()

	c.reply(protocol.MsgWelcome, protocol.Welcome{ClientID: clientID, GameID: h.GameID, TickHz: protocol.SimTickHz})
	s.reg.RouteEvent(&event.Event{
		Kind:     event.KindRegister,
		GameID:   h.GameID,
		ClientID: clientID,
		Payload:  event.RegisterPayload{ClientID: clientID, Name: h.Name},
	})
}

func (s *Server) unbind(c *client) {
	gameID, _ := c.identity()
	if gameID == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if set, ok := s.sessions[gameID]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(s.sessions, gameID)
		}
	}
}

var messageTypes = map[event.Kind]string{
	event.KindGameStart: protocol.MsgStart,
	event.KindDelta:     protocol.MsgDelta,
	event.KindGameOver:  protocol.MsgOver,
}

// Notify implements arena.Notifier. Frames are encoded once per encoding
// and queued without blocking the game.
func (s *Server) Notify(ev event.Event) {
	t, ok := messageTypes[ev.Kind]
	if !ok {
		return
	}
	s.mu.RLock()
	targets := make([]*client, 0, len(s.sessions[ev.GameID]))
	for c := range s.sessions[ev.GameID] {
		if ev.ClientID != "" {
			if _, id := c.identity(); id != ev.ClientID {
				continue
			}
		}
		targets = append(targets, c)
	}
	s.mu.RUnlock()

	frames := make(map[protocol.Encoding][]byte, 2)
	for _, c := range targets {
		b, ok := frames[c.enc]
		if ok && b == nil {
			continue
		}
		if !ok {
			var err error
			b, err = c.enc.Encode(t, ev.Payload)
			if err != nil {
				log.Printf("network: encode %s for game %s as %s: %v", t, ev.GameID, c.enc, err)
				frames[c.enc] = nil
				continue
			}
			frames[c.enc] = b
		}
		c.enqueue(b)
	}
}

// Sessions returns how many connections are bound to a game
func (s *Server) Sessions(gameID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions[gameID])
}
