// Package config loads the runtime configuration of the intake binaries.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Store backends.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "INTAKE_"

// Config is the full runtime configuration.
type Config struct {
	// Addr is the HTTP listen address of "intake serve".
	Addr string `yaml:"addr" json:"addr"`
	// Dir is the directory of draft files used by the CLI and to seed the store.
	Dir string    `yaml:"dir" json:"dir"`
	Log LogConfig `yaml:"log" json:"log"`

	Store StoreConfig `yaml:"store" json:"store"`

	// StrictReachability makes unreachable sections block publishing.
	StrictReachability bool `yaml:"strictReachability" json:"strictReachability"`

	GenAI GenAIConfig `yaml:"genai" json:"genai"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

// StoreConfig selects and configures the persistence backend.
type StoreConfig struct {
	Backend string      `yaml:"backend" json:"backend"`
	Redis   RedisConfig `yaml:"redis" json:"redis"`
	Mongo   MongoConfig `yaml:"mongo" json:"mongo"`

	Privacy PrivacyConfig `yaml:"privacy" json:"privacy"`
}

// PrivacyConfig protects submission answers at rest.
type PrivacyConfig struct {
	// MaskAnswers are regular expressions over block ids whose answers are
	// replaced by a mask before saving.
	MaskAnswers []string `yaml:"maskAnswers" json:"maskAnswers"`
	// EncryptionKey is a base64 AES-256 key. Empty disables encryption.
	EncryptionKey string `yaml:"encryptionKey" json:"encryptionKey"`
	// FallbackKeys are retired base64 keys still accepted for decryption.
	FallbackKeys []string `yaml:"fallbackKeys" json:"fallbackKeys"`
}

// RedisConfig configures the redis store and its distributed locker.
type RedisConfig struct {
	URL    string `yaml:"url" json:"url"`
	Prefix string `yaml:"prefix" json:"prefix"`
}

// MongoConfig configures the mongo store.
type MongoConfig struct {
	URI      string `yaml:"uri" json:"uri"`
	Database string `yaml:"database" json:"database"`
}

// GenAIConfig configures the routing proposal generator.
// An empty APIKey disables generation.
type GenAIConfig struct {
	APIKey string `yaml:"apiKey" json:"apiKey"`
	Model  string `yaml:"model" json:"model"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Addr: ":8080",
		Dir:  ".",
		Log:  LogConfig{Level: "info", Format: "text"},
		Store: StoreConfig{
			Backend: BackendMemory,
			Redis:   RedisConfig{URL: "redis://localhost:6379/0", Prefix: "intake:"},
			Mongo:   MongoConfig{URI: "mongodb://localhost:27017", Database: "intake"},
		},
	}
}

// Load reads path (YAML, or JSON by extension) over the defaults and then
// applies environment overrides. A missing file is not an error when path is
// empty or the file does not exist, so the binaries run without one.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := decode(path, data, &cfg); err != nil {
				return Config{}, err
			}
		case os.IsNotExist(err):
		default:
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func decode(path string, data []byte, cfg *Config) error {
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
		return nil
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return nil
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"ADDR":           &cfg.Addr,
		"DIR":            &cfg.Dir,
		"LOG_LEVEL":      &cfg.Log.Level,
		"LOG_FORMAT":     &cfg.Log.Format,
		"STORE":          &cfg.Store.Backend,
		"REDIS_URL":      &cfg.Store.Redis.URL,
		"REDIS_PREFIX":   &cfg.Store.Redis.Prefix,
		"MONGO_URI":      &cfg.Store.Mongo.URI,
		"MONGO_DATABASE": &cfg.Store.Mongo.Database,
		"GENAI_API_KEY":  &cfg.GenAI.APIKey,
		"GENAI_MODEL":    &cfg.GenAI.Model,
		"ENCRYPTION_KEY": &cfg.Store.Privacy.EncryptionKey,
	}
	for key, dst := range strs {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = v
		}
	}

	if v, ok := lookup(EnvPrefix + "STRICT_REACHABILITY"); ok {
		strict, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %sSTRICT_REACHABILITY %q: %w", EnvPrefix, v, err)
		}
		cfg.StrictReachability = strict
	}
	return nil
}

// Validate reports settings no component can run with.
func (c Config) Validate() error {
	switch c.Store.Backend {
	case BackendMemory, BackendRedis, BackendMongo:
	default:
		return fmt.Errorf("unknown store backend %q (want memory, redis or mongo)", c.Store.Backend)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q (want text or json)", c.Log.Format)
	}
	return nil
}
