package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// EnvPrefix marks environment variables that override config values.
const EnvPrefix = "LUNAR_"

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (LUNAR_*). A double underscore separates
// nested keys: LUNAR_ADMIN__PASSWORD sets admin.password.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// envKey maps LUNAR_SERVER__PORT to server.port.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

var validStorageBackends = map[StorageBackend]bool{
	StorageSQLite: true,
	StorageFile:   true,
}

var validSessionBackends = map[SessionBackend]bool{
	SessionMemory: true,
	SessionRedis:  true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d: must be between 1 and 65535", c.Server.Port)
	}

	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}

	if !validStorageBackends[c.Storage.Backend] {
		return fmt.Errorf("invalid storage.backend %q: must be one of sqlite, file", c.Storage.Backend)
	}

	if c.Admin.Username == "" || c.Admin.Password == "" {
		return fmt.Errorf("admin.username and admin.password are required")
	}
	if c.Admin.SessionTTLMinutes <= 0 {
		return fmt.Errorf("admin.session_ttl_minutes must be positive")
	}
	if !validSessionBackends[c.Admin.SessionBackend] {
		return fmt.Errorf("invalid admin.session_backend %q: must be one of memory, redis", c.Admin.SessionBackend)
	}
	if c.Admin.SessionBackend == SessionRedis && c.Admin.RedisAddr == "" {
		return fmt.Errorf("admin.redis_addr is required for the redis session backend")
	}

	v := c.Viewer
	if v.AutoRotateIntervalMS < 50 || v.AutoRotateIntervalMS > 500 {
		return fmt.Errorf("viewer.auto_rotate_interval_ms must be between 50 and 500")
	}
	if v.PointerSensitivity < 1 || v.TouchSensitivity < 1 {
		return fmt.Errorf("viewer sensitivities must be at least 1")
	}
	if v.ZoomStep <= 0 {
		return fmt.Errorf("viewer.zoom_step must be positive")
	}
	if v.MinZoom <= 0 || v.MinZoom > 1 || v.MaxZoom < 1 {
		return fmt.Errorf("viewer zoom bounds must satisfy 0 < min_zoom <= 1 <= max_zoom")
	}

	if c.Contact.RatePerMinute < 0 {
		return fmt.Errorf("contact.rate_per_minute must be non-negative")
	}
	if c.Audit.RetentionDays < 0 {
		return fmt.Errorf("audit.retention_days must be non-negative")
	}

	return nil
}
