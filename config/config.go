package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/djthomann/snackman/game"
)

var ErrInvalidValue = errors.New("invalid config value")

// Settings is everything the server reads from the environment
type Settings struct {
	Addr      string // SNACKMAN_ADDR
	Encoding  string // SNACKMAN_ENCODING, default wire format
	GridStore string // SNACKMAN_GRID_STORE, bbolt file of saved grids
	Game      game.Config
}

func Defaults() Settings {
	return Settings{
		Addr:     ":8080",
		Encoding: "json",
		Game:     game.Default(),
	}
}

// InitConfig loads .env files into the environment. Variables already set
// win. A missing file is not an error.
func InitConfig(files ...string) error {
	if err := godotenv.Load(files...); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Println("No .env file, using environment only")
			return nil
		}
		return fmt.Errorf("loading .env: %w", err)
	}

	log.Println("Successfully loaded environment variables")
	return nil
}

func GetEnvVariable(v string) (string, error) {
	if v == "" {
		return "", fmt.Errorf("input param empty")
	}
	b := os.Getenv(v)
	if b == "" {
		return "", fmt.Errorf("failed to get variable for %s", v)
	}

	return b, nil

}

// Load reads .env files and SNACKMAN_* variables over Defaults
func Load(files ...string) (Settings, error) {
	if err := InitConfig(files...); err != nil {
		return Settings{}, err
	}
	s := Defaults()

	for name, dst := range map[string]*string{
		"SNACKMAN_ADDR":       &s.Addr,
		"SNACKMAN_ENCODING":   &s.Encoding,
		"SNACKMAN_GRID_STORE": &s.GridStore,
	} {
		if v, err := GetEnvVariable(name); err == nil {
			*dst = v
		}
	}

	g := &s.Game
	ints := map[string]*int{
		"SNACKMAN_SCORE_TO_WIN": &g.ScoreToWin,
		"SNACKMAN_MAP_WIDTH":    &g.MapWidth,
		"SNACKMAN_MAP_HEIGHT":   &g.MapHeight,
		"SNACKMAN_GAME_TIME":    &g.GameTime,
	}
	for name, dst := range ints {
		v, err := GetEnvVariable(name)
		if err != nil {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return Settings{}, fmt.Errorf("%w: %s=%q", ErrInvalidValue, name, v)
		}
		*dst = n
	}

	floats := map[string]*float64{
		"SNACKMAN_SPEED_MODIFIER":      &g.SpeedModifier,
		"SNACKMAN_EATER_SPEED":         &g.EaterSpeed,
		"SNACKMAN_CHASER_SPEED":        &g.ChaserSpeed,
		"SNACKMAN_WANDERER_SPEED":      &g.WandererSpeed,
		"SNACKMAN_EATER_RADIUS":        &g.EaterRadius,
		"SNACKMAN_CHASER_RADIUS":       &g.ChaserRadius,
		"SNACKMAN_WANDERER_MIN_RADIUS": &g.WandererMinRadius,
		"SNACKMAN_WANDERER_MAX_RADIUS": &g.WandererMaxRadius,
		"SNACKMAN_CONSUMABLE_RADIUS":   &g.ConsumableRadius,
	}
	for name, dst := range floats {
		v, err := GetEnvVariable(name)
		if err != nil {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return Settings{}, fmt.Errorf("%w: %s=%q", ErrInvalidValue, name, v)
		}
		*dst = f
	}

	if err := s.Game.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}
