// Package config provides configuration management for doctor.
// It uses Viper for flexible configuration loading with support for:
// - Multiple formats (JSON, YAML, TOML)
// - Environment variables
// - Hot-reload
// - Default values
package config

import (
	"os"
	"sync"
	"time"
)

// Config represents the complete doctor configuration.
type Config struct {
	Logger       LoggerConfig       `mapstructure:"logger" json:"logger"`
	Discord      DiscordConfig      `mapstructure:"discord" json:"discord"`
	Interactions InteractionsConfig `mapstructure:"interactions" json:"interactions"`
	Redis        RedisConfig        `mapstructure:"redis" json:"redis"`
	Index        IndexConfig        `mapstructure:"index" json:"index"`
	RateLimit    RateLimitConfig    `mapstructure:"ratelimit" json:"ratelimit"`
	mu           sync.RWMutex
}

// LoggerConfig configures log output.
type LoggerConfig struct {
	Level       string `mapstructure:"level" json:"level"`
	OutputPath  string `mapstructure:"output_path" json:"output_path"`
	MaxSize     int    `mapstructure:"max_size" json:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups" json:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" json:"max_age"`
	Compress    bool   `mapstructure:"compress" json:"compress"`
	Development bool   `mapstructure:"development" json:"development"`
}

// DiscordConfig for the Discord front-end.
type DiscordConfig struct {
	Enabled         bool     `mapstructure:"enabled" json:"enabled"`
	Token           string   `mapstructure:"token" json:"token"`
	Prefix          string   `mapstructure:"prefix" json:"prefix"`
	AllowFrom       []string `mapstructure:"allow_from" json:"allow_from"`
	OwnerID         string   `mapstructure:"owner_id" json:"owner_id"`
	GuildIDs        []string `mapstructure:"guild_ids" json:"guild_ids"`
	RegisterOnStart bool     `mapstructure:"register_on_start" json:"register_on_start"`
}

// InteractionsConfig controls how long pending choices are kept.
type InteractionsConfig struct {
	Backend       string `mapstructure:"backend" json:"backend"` // "memory" or "redis"
	TTL           string `mapstructure:"ttl" json:"ttl"`
	SweepInterval string `mapstructure:"sweep_interval" json:"sweep_interval"`
	Prefix        string `mapstructure:"prefix" json:"prefix"`
}

// RedisConfig is the shared Redis connection.
type RedisConfig struct {
	Addr     string `mapstructure:"addr" json:"addr"`
	Password string `mapstructure:"password" json:"password"`
	DB       int    `mapstructure:"db" json:"db"`
}

// IndexConfig points at the Javadoc index files and tunes fuzzy search.
type IndexConfig struct {
	Paths       []string `mapstructure:"paths" json:"paths"`
	MaxResults  int      `mapstructure:"max_results" json:"max_results"`
	MaxDistance int      `mapstructure:"max_distance" json:"max_distance"`
}

// RateLimitConfig limits how often a single user may invoke commands.
type RateLimitConfig struct {
	PerSecond float64 `mapstructure:"per_second" json:"per_second"` // 0 disables
	Burst     int     `mapstructure:"burst" json:"burst"`
}

// DefaultConfig returns a new Config with default values.
func DefaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()

	return &Config{
		Logger: LoggerConfig{
			Level:      "info",
			OutputPath: homeDir + "/.doctor/logs/doctor.log",
			MaxSize:    100,
			MaxBackups: 3,
			MaxAge:     7,
			Compress:   true,
		},
		Discord: DiscordConfig{
			Enabled:   false,
			AllowFrom: []string{},
			GuildIDs:  []string{},
		},
		Interactions: InteractionsConfig{
			Backend:       "memory",
			TTL:           "15m",
			SweepInterval: "1m",
			Prefix:        "doctor:interaction:",
		},
		Redis: RedisConfig{
			Addr: "",
			DB:   0,
		},
		Index: IndexConfig{
			Paths:       []string{homeDir + "/.doctor/index"},
			MaxResults:  25,
			MaxDistance: 2,
		},
		RateLimit: RateLimitConfig{
			PerSecond: 1,
			Burst:     5,
		},
	}
}

// InteractionTTL returns the parsed interaction lifetime.
func (c *Config) InteractionTTL() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return parseDurationOr(c.Interactions.TTL, 15*time.Minute)
}

// SweepInterval returns the parsed sweep interval.
func (c *Config) SweepInterval() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return parseDurationOr(c.Interactions.SweepInterval, time.Minute)
}

// IndexPaths returns the index paths with ~ expanded.
func (c *Config) IndexPaths() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	paths := make([]string, 0, len(c.Index.Paths))
	for _, p := range c.Index.Paths {
		paths = append(paths, expandPath(p))
	}
	return paths
}

func parseDurationOr(raw string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}

// expandPath expands ~ to home directory.
func expandPath(path string) string {
	if path == "" {
		return path
	}
	if path[0] == '~' {
		home, _ := os.UserHomeDir()
		if len(path) > 1 && path[1] == '/' {
			return home + path[1:]
		}
		return home
	}
	return path
}
