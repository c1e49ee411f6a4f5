package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Server   ServerConfig   `toml:"server"`
	AI       AIConfig       `toml:"ai"`
	LLM      LLMConfig      `toml:"llm"`
	Patterns PatternsConfig `toml:"patterns"`
	Logging  LoggingConfig  `toml:"logging"`
}

type ServerConfig struct {
	Name        string        `toml:"name"`
	TickRate    time.Duration `toml:"tick_rate"`
	ArenaWidth  float64       `toml:"arena_width"`
	ArenaHeight float64       `toml:"arena_height"`
	StartTime   int64         // set at boot, not from config
}

type AIConfig struct {
	UpdateInterval         time.Duration `toml:"update_interval"`
	ReactionDistance       float64       `toml:"reaction_distance"`
	DefaultPatternDuration time.Duration `toml:"default_pattern_duration"`
	DamageReactionRatio    float64       `toml:"damage_reaction_ratio"`
	AccuracyHighWater      float64       `toml:"accuracy_high_water"`
	AccuracyLowWater       float64       `toml:"accuracy_low_water"`
	AdaptStep              float64       `toml:"adapt_step"`
	HistoryCapacity        int           `toml:"history_capacity"`
}

type LLMConfig struct {
	BaseURL        string        `toml:"base_url"`
	Model          string        `toml:"model"`
	APIKey         string        `toml:"api_key"` // empty means look at BOSSAI_API_KEY
	RequestSpacing time.Duration `toml:"request_spacing"`
	RequestTimeout time.Duration `toml:"request_timeout"`
	MaxHistory     int           `toml:"max_history"`
	MaxTokens      int           `toml:"max_tokens"`
	Temperature    float64       `toml:"temperature"`
}

type PatternsConfig struct {
	TuningFile string `toml:"tuning_file"` // yaml overrides, optional
	ScriptDir  string `toml:"script_dir"`  // lua patterns, optional
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.applyEnv()
	cfg.Server.StartTime = time.Now().Unix()
	return cfg, nil
}

// Default returns the stock configuration, used when no config file is
// given on the command line.
func Default() *Config {
	cfg := defaults()
	cfg.applyEnv()
	cfg.Server.StartTime = time.Now().Unix()
	return cfg
}

// applyEnv fills credentials from the environment. An explicit config
// value wins over the environment.
func (c *Config) applyEnv() {
	if c.LLM.APIKey == "" {
		c.LLM.APIKey = os.Getenv("BOSSAI_API_KEY")
	}
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Name:        "bossai",
			TickRate:    16 * time.Millisecond,
			ArenaWidth:  800,
			ArenaHeight: 600,
		},
		AI: AIConfig{
			UpdateInterval:         2 * time.Second,
			ReactionDistance:       100,
			DefaultPatternDuration: 5 * time.Second,
			DamageReactionRatio:    0.1,
			AccuracyHighWater:      0.8,
			AccuracyLowWater:       0.3,
			AdaptStep:              0.1,
			HistoryCapacity:        20,
		},
		LLM: LLMConfig{
			BaseURL:        "https://api.openai.com/v1",
			Model:          "gpt-4o-mini",
			RequestSpacing: 2 * time.Second,
			RequestTimeout: 10 * time.Second,
			MaxHistory:     6,
			MaxTokens:      500,
			Temperature:    0.7,
		},
		Patterns: PatternsConfig{
			TuningFile: "data/patterns.yaml",
			ScriptDir:  "scripts",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
