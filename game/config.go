package game

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// Environment variables read by LoadConfig
const (
	EnvSeed     = "SWARMARENA_SEED"
	EnvSound    = "SWARMARENA_SOUND"
	EnvProfile  = "SWARMARENA_PROFILE"
	EnvMaxSwarm = "SWARMARENA_MAX_SWARM"
	EnvCellSize = "SWARMARENA_CELL_SIZE"
)

// Config holds window driver settings
type Config struct {
	// ScreenWidth is the window width in pixels
	ScreenWidth int

	// ScreenHeight is the window height in pixels
	ScreenHeight int

	// Title is the window title
	Title string

	// TPS is the simulation rate; one arena tick per ebiten update
	TPS int

	// MaxSwarmSize is the menu's initial swarm threshold
	MaxSwarmSize int

	// SwarmStep is the menu's +/- increment
	SwarmStep int

	// Seed fixes the random source when non-zero
	Seed int64

	// CellSize is the spatial grid cell size in arena units
	CellSize float64

	// HoldFinal is how long the final frame stays up before the game-over screen
	HoldFinal time.Duration

	// Sound enables beep sound effects
	Sound bool

	// Profile enables CPU profile capture when TPS drops
	Profile bool

	// ProfileDir is where captured profiles are written
	ProfileDir string
}

// DefaultConfig returns a default configuration
func DefaultConfig() Config {
	return Config{
		ScreenWidth:  900,
		ScreenHeight: 900,
		Title:        "Big Ball vs Small Balls",
		TPS:          60,
		MaxSwarmSize: 200,
		SwarmStep:    50,
		CellSize:     50,
		HoldFinal:    2 * time.Second,
		Sound:        true,
		ProfileDir:   "profiles",
	}
}

// HoldTicks returns HoldFinal expressed in updates
func (c Config) HoldTicks() int {
	return int(c.HoldFinal.Seconds() * float64(c.TPS))
}

// LoadConfig loads an optional .env file and overlays SWARMARENA_* variables
// on the defaults. A missing env file is not an error.
func LoadConfig(envFile string) (Config, error) {
	cfg := DefaultConfig()

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return cfg, errors.Wrapf(err, "load %s", envFile)
		}
	}

	if v, ok := os.LookupEnv(EnvSeed); ok {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return cfg, errors.Wrapf(err, "parse %s", EnvSeed)
		}
		cfg.Seed = seed
	}
	if v, ok := os.LookupEnv(EnvSound); ok {
		sound, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, errors.Wrapf(err, "parse %s", EnvSound)
		}
		cfg.Sound = sound
	}
	if v, ok := os.LookupEnv(EnvProfile); ok {
		profile, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, errors.Wrapf(err, "parse %s", EnvProfile)
		}
		cfg.Profile = profile
	}
	if v, ok := os.LookupEnv(EnvMaxSwarm); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, errors.Wrapf(err, "parse %s", EnvMaxSwarm)
		}
		cfg.MaxSwarmSize = n
	}
	if v, ok := os.LookupEnv(EnvCellSize); ok {
		size, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return cfg, errors.Wrapf(err, "parse %s", EnvCellSize)
		}
		if size <= 0 {
			return cfg, errors.Errorf("%s must be positive, got %v", EnvCellSize, size)
		}
		cfg.CellSize = size
	}
	return cfg, nil
}
