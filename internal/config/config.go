package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultPort      = "8080"
	defaultServer    = "ws://localhost:8080/ws"
	defaultScoreFile = "gotris-topscore.json"
)

// Config holds the settings shared by the gotris binaries. Flags given on the
// command line are applied on top of it by each main.
type Config struct {
	Port         string
	ServerURL    string
	TopScoreFile string
	Seed         int64
	Randomizer   string
	DebugLog     string
}

// Load reads an optional .env file and then the environment. A missing .env
// is not an error.
func Load(envFiles ...string) (Config, error) {
	if err := godotenv.Load(envFiles...); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load env file: %w", err)
		}
	} else {
		log.Println("Loaded environment variables from .env")
	}

	cfg := Config{
		Port:         getenv("PORT", defaultPort),
		ServerURL:    getenv("GOTRIS_SERVER", defaultServer),
		TopScoreFile: getenv("GOTRIS_TOPSCORE_FILE", defaultScorePath()),
		Randomizer:   getenv("GOTRIS_RANDOMIZER", "uniform"),
		DebugLog:     os.Getenv("GOTRIS_DEBUG_LOG"),
	}

	if v := os.Getenv("GOTRIS_SEED"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("parse GOTRIS_SEED %q: %w", v, err)
		}
		cfg.Seed = seed
	}

	return cfg, nil
}

// SeedOrNow returns the configured seed, or a time based one when unset.
func (c Config) SeedOrNow() int64 {
	if c.Seed != 0 {
		return c.Seed
	}
	return time.Now().UnixNano()
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func defaultScorePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return defaultScoreFile
	}
	return filepath.Join(dir, "gotris", "topscore.json")
}
