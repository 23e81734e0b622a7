package game

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidConfig = errors.New("invalid game config")

// Config is applied when a game is built and copied by value into it, so a
// running game never sees later changes
type Config struct {
	ScoreToWin    int     `json:"scoreToWin"`
	SpeedModifier float64 `json:"speedModifier"`
	EaterSpeed    float64 `json:"eaterSpeed"`    // tiles per second
	ChaserSpeed   float64 `json:"chaserSpeed"`   // tiles per second
	WandererSpeed float64 `json:"wandererSpeed"` // tiles per second
	MapWidth      int     `json:"mapWidth"`
	MapHeight     int     `json:"mapHeight"`

	EaterRadius       float64 `json:"eaterRadius"`
	ChaserRadius      float64 `json:"chaserRadius"`
	WandererMinRadius float64 `json:"wandererMinRadius"`
	WandererMaxRadius float64 `json:"wandererMaxRadius"`
	ConsumableRadius  float64 `json:"consumableRadius"`

	GameTime int `json:"gameTime"` // seconds
}

// Default returns a playable configuration
func Default() Config {
	return Config{
		ScoreToWin:        10000,
		SpeedModifier:     1,
		EaterSpeed:        4,
		ChaserSpeed:       4.5,
		WandererSpeed:     1.5,
		MapWidth:          29,
		MapHeight:         19,
		EaterRadius:       0.35,
		ChaserRadius:      0.35,
		WandererMinRadius: 0.1,
		WandererMaxRadius: 0.45,
		ConsumableRadius:  0.2,
		GameTime:          300,
	}
}

// Duration returns the wall-clock length of a game
func (c Config) Duration() time.Duration {
	return time.Duration(c.GameTime) * time.Second
}

// Validate rejects values the simulation cannot run with. Radii must stay
// under half a tile so every entity fits a corridor.
func (c Config) Validate() error {
	switch {
	case c.ScoreToWin <= 0:
		return fmt.Errorf("%w: scoreToWin %d", ErrInvalidConfig, c.ScoreToWin)
	case c.SpeedModifier <= 0:
		return fmt.Errorf("%w: speedModifier %g", ErrInvalidConfig, c.SpeedModifier)
	case c.EaterSpeed < 0 || c.ChaserSpeed < 0 || c.WandererSpeed < 0:
		return fmt.Errorf("%w: negative speed", ErrInvalidConfig)
	case c.GameTime <= 0:
		return fmt.Errorf("%w: gameTime %d", ErrInvalidConfig, c.GameTime)
	case c.WandererMinRadius > c.WandererMaxRadius:
		return fmt.Errorf("%w: wanderer radius range %g..%g", ErrInvalidConfig, c.WandererMinRadius, c.WandererMaxRadius)
	}
	for name, r := range map[string]float64{
		"eaterRadius":       c.EaterRadius,
		"chaserRadius":      c.ChaserRadius,
		"wandererMinRadius": c.WandererMinRadius,
		"wandererMaxRadius": c.WandererMaxRadius,
		"consumableRadius":  c.ConsumableRadius,
	} {
		if r <= 0 || r >= 0.5 {
			return fmt.Errorf("%w: %s %g must be in (0, 0.5)", ErrInvalidConfig, name, r)
		}
	}
	return nil
}
