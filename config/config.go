// Package config loads demo settings from FRAMEBRIDGE_* environment variables and flags
package config

import (
	"errors"
	"flag"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds demo settings; flags registered by RegisterFlags override the environment
type Config struct {
	FrameRate      int    `env:"FRAME_RATE" envDefault:"60"`
	Balls          int    `env:"BALLS" envDefault:"3"`
	Seed           uint64 `env:"SEED" envDefault:"1"`
	Debug          bool   `env:"DEBUG" envDefault:"false"`
	LogDir         string `env:"LOG_DIR" envDefault:"logs"`
	Sound          bool   `env:"SOUND" envDefault:"true"`
	ContainerID    string `env:"CONTAINER_ID" envDefault:"canvasHolder"`
	ButtonsBitmask bool   `env:"BUTTONS_BITMASK" envDefault:"false"`
}

// Prefix is prepended to every variable name
const Prefix = "FRAMEBRIDGE_"

// ParseEnv loads configuration from environment variables
func ParseEnv(cfg *Config) error {
	if cfg == nil {
		return errors.New("config target is required")
	}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: Prefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// RegisterFlags binds cfg fields to fs using the current values as defaults
func RegisterFlags(fs *flag.FlagSet, cfg *Config) {
	fs.IntVar(&cfg.FrameRate, "fps", cfg.FrameRate, "frame rate for the render scheduler")
	fs.IntVar(&cfg.Balls, "balls", cfg.Balls, "number of seed balls")
	fs.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "random seed for ball generation")
	fs.BoolVar(&cfg.Debug, "debug", cfg.Debug, "enable debug logging")
	fs.StringVar(&cfg.LogDir, "log-dir", cfg.LogDir, "directory for debug logs")
	fs.BoolVar(&cfg.Sound, "sound", cfg.Sound, "play bounce sounds")
	fs.StringVar(&cfg.ContainerID, "container", cfg.ContainerID, "surface container id")
	fs.BoolVar(&cfg.ButtonsBitmask, "buttons-bitmask", cfg.ButtonsBitmask, "report pressed buttons as a bitmask instead of mirroring button")
}

// Validate rejects settings the demo cannot run with
func (c *Config) Validate() error {
	if c.FrameRate <= 0 {
		return fmt.Errorf("frame rate must be positive, got %d", c.FrameRate)
	}
	if c.Balls < 0 {
		return fmt.Errorf("ball count must not be negative, got %d", c.Balls)
	}
	if c.ContainerID == "" {
		return errors.New("container id is required")
	}
	return nil
}

// Load parses the environment, then args through fs, then validates
func Load(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return cfg, err
	}
	RegisterFlags(fs, &cfg)
	if args == nil {
		args = []string{}
	}
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
