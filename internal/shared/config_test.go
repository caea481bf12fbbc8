package shared

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "./fithub.db" {
			t.Errorf("expected database path ./fithub.db, got %s", config.Database.Path)
		}

		if config.Store.Key != "fithub_pro" {
			t.Errorf("expected store key fithub_pro, got %s", config.Store.Key)
		}

		if config.Store.Backend != "sqlite" {
			t.Errorf("expected sqlite backend, got %s", config.Store.Backend)
		}

		if config.Coach.Temperature != 0.7 {
			t.Errorf("expected coach temperature 0.7, got %v", config.Coach.Temperature)
		}

		if config.Video.PollInterval != 10*time.Second {
			t.Errorf("expected poll interval 10s, got %v", config.Video.PollInterval)
		}

		if config.Video.MessageInterval != 4*time.Second {
			t.Errorf("expected message interval 4s, got %v", config.Video.MessageInterval)
		}

		if config.Video.Resolution != "720p" || config.Video.AspectRatio != "16:9" {
			t.Errorf("unexpected video format %s %s", config.Video.Resolution, config.Video.AspectRatio)
		}

		if config.Credentials.Gemini.APIKeyEnv != "GEMINI_API_KEY" {
			t.Errorf("expected api key env GEMINI_API_KEY, got %s", config.Credentials.Gemini.APIKeyEnv)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Database.Path != defaultConfig.Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[database]
path = "/custom/path.db"

[store]
backend = "redis"
redis_addr = "10.0.0.1:6379"

[credentials.gemini]
api_key = "test_api_key"

[video]
poll_interval = "2s"
max_poll_attempts = 5
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected database path /custom/path.db, got %s", config.Database.Path)
		}

		if config.Store.Backend != "redis" || config.Store.RedisAddr != "10.0.0.1:6379" {
			t.Errorf("unexpected store config %+v", config.Store)
		}

		if config.Store.Key != "fithub_pro" {
			t.Errorf("unset key should keep default, got %s", config.Store.Key)
		}

		if config.Video.PollInterval != 2*time.Second || config.Video.MaxPollAttempts != 5 {
			t.Errorf("unexpected video config %+v", config.Video)
		}

		if config.Video.MessageInterval != 4*time.Second {
			t.Errorf("unset message interval should keep default, got %v", config.Video.MessageInterval)
		}
	})

	t.Run("LoadConfig Invalid", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("[database\npath ="), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if _, err := LoadConfig(configPath); err == nil {
			t.Error("expected parse error")
		}
	})

	t.Run("ResolveConfig Missing File", func(t *testing.T) {
		config, err := ResolveConfig(filepath.Join(t.TempDir(), "absent.toml"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if config.Store.Key != "fithub_pro" {
			t.Errorf("expected defaults, got key %s", config.Store.Key)
		}
	})

	t.Run("ResolveAPIKey", func(t *testing.T) {
		t.Setenv("FITHUB_TEST_KEY", "from-env")

		tests := []struct {
			name string
			cfg  GeminiConfig
			want string
		}{
			{name: "literal wins", cfg: GeminiConfig{APIKey: "literal", APIKeyEnv: "FITHUB_TEST_KEY"}, want: "literal"},
			{name: "env fallback", cfg: GeminiConfig{APIKeyEnv: "FITHUB_TEST_KEY"}, want: "from-env"},
			{name: "nothing", cfg: GeminiConfig{}, want: ""},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				if got := tt.cfg.ResolveAPIKey(); got != tt.want {
					t.Errorf("ResolveAPIKey() = %q, want %q", got, tt.want)
				}
			})
		}
	})
}
