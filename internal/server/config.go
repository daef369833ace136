package server

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Config is the complete service configuration.
type Config struct {
	Server ServerSettings `hcl:"server,block"`
	Game   GameSettings   `hcl:"game,block"`
}

// ServerSettings contains service-level configuration.
type ServerSettings struct {
	LogLevel string `hcl:"log_level,optional"`
}

// GameSettings configures per-game timing and determinism.
type GameSettings struct {
	// ReactionWindowMs is the reaction window in milliseconds.
	ReactionWindowMs int `hcl:"reaction_window_ms,optional"`
	// Seed makes deck shuffles deterministic when non-zero.
	Seed int64 `hcl:"seed,optional"`
}

// ReactionWindow returns the configured reaction window duration.
func (g GameSettings) ReactionWindow() time.Duration {
	return time.Duration(g.ReactionWindowMs) * time.Millisecond
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Server: ServerSettings{LogLevel: "info"},
		Game:   GameSettings{ReactionWindowMs: 30000},
	}
}

// LoadConfig parses an HCL configuration file, filling unset fields from
// the defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	return ParseConfig(data, path)
}

// ParseConfig parses HCL configuration bytes.
func ParseConfig(data []byte, filename string) (Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return Config{}, fmt.Errorf("failed to parse config: %s", diags.Error())
	}

	var cfg Config
	if diags := gohcl.DecodeBody(file.Body, nil, &cfg); diags.HasErrors() {
		return Config{}, fmt.Errorf("failed to decode config: %s", diags.Error())
	}

	defaults := DefaultConfig()
	if cfg.Server.LogLevel == "" {
		cfg.Server.LogLevel = defaults.Server.LogLevel
	}
	if cfg.Game.ReactionWindowMs == 0 {
		cfg.Game.ReactionWindowMs = defaults.Game.ReactionWindowMs
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks configuration bounds.
func (c Config) Validate() error {
	if c.Game.ReactionWindowMs < 0 {
		return fmt.Errorf("reaction_window_ms must be >= 0, got %d", c.Game.ReactionWindowMs)
	}
	switch c.Server.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q", c.Server.LogLevel)
	}
	return nil
}
