package arena

import (
	"errors"
	"fmt"

	"github.com/djthomann/snackman/event"
)

var (
	ErrUnknownRole   = errors.New("unknown role")
	ErrGameNotFound  = errors.New("game not found")
	ErrStaleEvent    = errors.New("event for finished game")
	ErrDuplicateGame = errors.New("game id already running")
	ErrGameRunning   = errors.New("game still running")
)

// Role is the kind of entity a player controls
type Role string

const (
	RoleEater  Role = "eater"
	RoleChaser Role = "chaser"
)

func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleEater, RoleChaser:
		return r, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
}

// Player is one roster entry of a game
type Player struct {
	ClientID string
	Name     string
	Role     Role
}

// Notifier receives every event leaving a game: start, delta and game over.
// ClientID is set when the event is meant for one client only. Called from
// the game goroutine, so implementations must not block.
type Notifier interface {
	Notify(ev event.Event)
}

type NotifierFunc func(ev event.Event)

func (f NotifierFunc) Notify(ev event.Event) { f(ev) }
