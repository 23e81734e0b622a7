package protocol

//input structs coming in from the client.

// Hello binds a connection to its slot in a game
type Hello struct {
	V        int    `json:"v"`                  // version
	GameID   string `json:"gameId"`             // game to join
	ClientID string `json:"clientId"`           // slot owner, as listed at create
	Name     string `json:"name,omitempty"`     // optional display name
	Spectate bool   `json:"spectate,omitempty"` // watch without a slot
}

// Create asks the server to start a game for a fixed roster
type Create struct {
	GameID  string       `json:"gameId,omitempty"` // empty lets the server pick
	Seed    int64        `json:"seed,omitempty"`   // 0 = random maze
	Grid    string       `json:"grid,omitempty"`   // saved grid name instead of a generated one
	Players []PlayerSpec `json:"players"`
}

type PlayerSpec struct {
	ClientID string `json:"clientId"`
	Name     string `json:"name,omitempty"`
	Role     string `json:"role"` // "eater" or "chaser"
}

type Move struct {
	X float64 `json:"x"` // -1..1 movement along columns
	Z float64 `json:"z"` // -1..1 movement along rows
}
