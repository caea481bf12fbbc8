package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Database    DatabaseConfig    `toml:"database"`
	Store       StoreConfig       `toml:"store"`
	Credentials CredentialsConfig `toml:"credentials"`
	Coach       CoachConfig       `toml:"coach"`
	Video       VideoConfig       `toml:"video"`
	Limits      LimitsConfig      `toml:"limits"`
	Log         LogConfig         `toml:"log"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// StoreConfig selects the key-value backend holding the state document.
type StoreConfig struct {
	Backend   string `toml:"backend"`
	Key       string `toml:"key"`
	RedisAddr string `toml:"redis_addr"`
	RedisDB   int    `toml:"redis_db"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Gemini GeminiConfig `toml:"gemini"`
}

// GeminiConfig contains generative API credentials and endpoint.
type GeminiConfig struct {
	APIKey      string `toml:"api_key"`
	APIKeyEnv   string `toml:"api_key_env"`
	AccessToken string `toml:"access_token"`
	BaseURL     string `toml:"base_url"`
}

// CoachConfig configures the text advisory model.
type CoachConfig struct {
	Model       string  `toml:"model"`
	Temperature float64 `toml:"temperature"`
}

// VideoConfig configures the motivational video workflow.
type VideoConfig struct {
	Model           string        `toml:"model"`
	Prompt          string        `toml:"prompt"`
	Resolution      string        `toml:"resolution"`
	AspectRatio     string        `toml:"aspect_ratio"`
	PollInterval    time.Duration `toml:"poll_interval"`
	MessageInterval time.Duration `toml:"message_interval"`
	MaxPollAttempts int           `toml:"max_poll_attempts"`
	OutputDir       string        `toml:"output_dir"`
}

// LimitsConfig throttles outbound requests to the generative API.
type LimitsConfig struct {
	RequestsPerSecond float64 `toml:"requests_per_second"`
	Burst             int     `toml:"burst"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level   string `toml:"level"`
	TUIFile string `toml:"tui_file"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Values missing from the file keep the embedded defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ResolveConfig loads the config at path when it exists, falling back to defaults otherwise.
func ResolveConfig(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	if _, err := os.Stat(path); err != nil {
		return DefaultConfig(), nil
	}
	return LoadConfig(path)
}

// ResolveAPIKey returns the configured key, preferring the literal value over the environment variable.
func (g GeminiConfig) ResolveAPIKey() string {
	if g.APIKey != "" {
		return g.APIKey
	}
	if g.APIKeyEnv != "" {
		return os.Getenv(g.APIKeyEnv)
	}
	return ""
}
