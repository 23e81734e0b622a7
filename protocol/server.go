package protocol

type Welcome struct {
	ClientID string `json:"clientId"`
	GameID   string `json:"gameId"`
	TickHz   int    `json:"tickHz"`
}

type Created struct {
	GameID string `json:"gameId"`
}

// GameStart is the full picture of a game. Clients build their scene from it.
type GameStart struct {
	GameID    string             `json:"gameId"`
	Width     int                `json:"width"`
	Height    int                `json:"height"`
	Layout    [][]int            `json:"layout"` // occupation codes, row major
	GameTime  int                `json:"gameTime"`
	Eaters    []EaterSnapshot    `json:"eaters"`
	Chasers   []ChaserSnapshot   `json:"chasers"`
	Wanderers []WandererSnapshot `json:"wanderers"`
	Items     []ItemSnapshot     `json:"items"`
}

// Delta lists only what changed since the previous broadcast
type Delta struct {
	Tick      int                `json:"tick"`
	Remaining float64            `json:"remaining"` // seconds left
	Eaters    []EaterSnapshot    `json:"eaters,omitempty"`
	Chasers   []ChaserSnapshot   `json:"chasers,omitempty"`
	Wanderers []WandererSnapshot `json:"wanderers,omitempty"`
	Consumed  []ItemSnapshot     `json:"consumed,omitempty"`
	Spawned   []ItemSnapshot     `json:"spawned,omitempty"`
}

type GameOver struct {
	GameID     string  `json:"gameId"`
	Reason     string  `json:"reason"` // "time" or "score"
	Winner     string  `json:"winner,omitempty"`
	WinnerName string  `json:"winnerName,omitempty"`
	Scores     []Score `json:"scores"`
}

type Score struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}

type EaterSnapshot struct {
	ID       string  `json:"id"`
	ClientID string  `json:"clientId"`
	Name     string  `json:"name"`
	X        float64 `json:"x"`
	Z        float64 `json:"z"`
	R        float64 `json:"r"`
	Score    int     `json:"score"`
}

type ChaserSnapshot struct {
	ID       string  `json:"id"`
	ClientID string  `json:"clientId"`
	Name     string  `json:"name"`
	X        float64 `json:"x"`
	Z        float64 `json:"z"`
	R        float64 `json:"r"`
	Scared   bool    `json:"scared,omitempty"`
}

type WandererSnapshot struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Z  float64 `json:"z"`
	R  float64 `json:"r"`
	H  float64 `json:"h,omitempty"` // heading, radians
}

type ItemSnapshot struct {
	ID        string `json:"id"`
	Col       int    `json:"col"`
	Row       int    `json:"row"`
	Nutrition string `json:"nutrition"`
}

type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
