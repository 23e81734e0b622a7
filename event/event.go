package event

// Kind tags the variant of an Event
type Kind uint8

const (
	// KindMove is a player's movement intent
	// Source: transport | Payload: MovePayload
	KindMove Kind = iota + 1

	// KindRegister announces a client taking its slot in a game
	// Source: transport | Payload: RegisterPayload
	KindRegister

	// KindTick advances autonomous entities by one simulation step
	// Source: game loop | Payload: TickPayload
	KindTick

	// KindTimeUp signals the game countdown elapsed
	// Source: game timer | Payload: nil
	KindTimeUp

	// KindEntityMoved reports a committed position change
	// Source: movers | Payload: nil, EntityID set
	KindEntityMoved

	// KindEntityChanged reports a non-positional change (score)
	// Source: collision side effects | Payload: nil, EntityID set
	KindEntityChanged

	// KindEntityScared reports a scare outcome on an eater or chaser
	// Source: collision side effects, chaser timeout | Payload: nil, EntityID set
	KindEntityScared

	// KindConsumed reports an item removed from its tile
	// Source: collision side effects | Payload: ItemPayload
	KindConsumed

	// KindItemSpawned reports a new item laid on a tile
	// Source: wanderers | Payload: ItemPayload
	KindItemSpawned

	// KindGameStart carries the full roster and grid outward
	// Source: game | Payload: *protocol.GameStart
	KindGameStart

	// KindDelta carries changed entities outward
	// Source: game | Payload: *protocol.Delta
	KindDelta

	// KindGameOver carries the final result outward
	// Source: game | Payload: *protocol.GameOver
	KindGameOver
)

var kindNames = map[Kind]string{
	KindMove:          "move",
	KindRegister:      "register",
	KindTick:          "tick",
	KindTimeUp:        "time-up",
	KindEntityMoved:   "entity-moved",
	KindEntityChanged: "entity-changed",
	KindEntityScared:  "entity-scared",
	KindConsumed:      "consumed",
	KindItemSpawned:   "item-spawned",
	KindGameStart:     "game-start",
	KindDelta:         "delta",
	KindGameOver:      "game-over",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Outward reports whether events of this kind leave the game
func (k Kind) Outward() bool {
	return k == KindGameStart || k == KindDelta || k == KindGameOver
}

// Event is a single message addressed to one game. Events are published once
// and not retained.
type Event struct {
	Kind     Kind
	GameID   string
	EntityID string // subject entity, when there is one
	ClientID string // originating client for player intents
	Payload  any
}

// MovePayload is a movement vector on the X/Z plane, magnitude clamped to 1
type MovePayload struct {
	X, Z float64
}

type RegisterPayload struct {
	ClientID string
	Name     string
	Role     string
}

type TickPayload struct {
	Tick int
}

type ItemPayload struct {
	ItemID    string
	Col, Row  int
	Nutrition string
}
