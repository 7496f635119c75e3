package config

import (
	"encoding/json"
	"log"
	"os"
	"strconv"
)

// Config holds all configurable server and pacing parameters.
type Config struct {
	HTTPPort  int    `json:"http_port"`
	DecksFile string `json:"decks_file"`

	// OpponentStepDelayMS spaces the scripted opponent's actions so a
	// player at the board can follow its turn. DrawAdvanceDelayMS is the
	// short hold before the automatic Draw-phase advance.
	OpponentStepDelayMS int `json:"opponent_step_delay_ms"`
	DrawAdvanceDelayMS  int `json:"draw_advance_delay_ms"`
}

// Defaults returns a Config with the stock values.
func Defaults() *Config {
	return &Config{
		HTTPPort:            8080,
		DecksFile:           "decks.yaml",
		OpponentStepDelayMS: 1000,
		DrawAdvanceDelayMS:  500,
	}
}

// Load reads configuration from an optional config.json file, then
// applies environment variable overrides. Fields not set in either
// source retain their default values.
func Load() *Config {
	cfg := Defaults()

	if f, err := os.Open("config.json"); err == nil {
		defer f.Close()
		if err := json.NewDecoder(f).Decode(cfg); err != nil {
			log.Printf("Warning: failed to parse config.json: %v", err)
		}
	}

	overrideInt(&cfg.HTTPPort, "HTTP_PORT")
	overrideString(&cfg.DecksFile, "DECKS_FILE")
	overrideInt(&cfg.OpponentStepDelayMS, "OPPONENT_STEP_DELAY_MS")
	overrideInt(&cfg.DrawAdvanceDelayMS, "DRAW_ADVANCE_DELAY_MS")

	return cfg
}

func overrideInt(field *int, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			*field = n
		} else {
			log.Printf("Warning: invalid value for %s: %q", envKey, val)
		}
	}
}

func overrideString(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}
