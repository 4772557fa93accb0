package config

import "path/filepath"

// DefaultConfigFile is the config file looked up in the working directory.
const DefaultConfigFile = ".lunar.yml"

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		DataDir: ".lunar",
		Server: ServerConfig{
			Port: 8080,
		},
		Storage: StorageConfig{
			Backend: StorageSQLite,
		},
		Admin: AdminConfig{
			Username:          "admin",
			Password:          "admin123",
			SessionTTLMinutes: 12 * 60,
			SessionBackend:    SessionMemory,
			RedisAddr:         "localhost:6379",
			RedisPrefix:       "lunar:session:",
		},
		Viewer: ViewerConfig{
			AutoRotateIntervalMS: 100,
			PointerSensitivity:   2,
			TouchSensitivity:     3,
			ZoomStep:             0.2,
			MinZoom:              0.5,
			MaxZoom:              3.0,
		},
		Contact: ContactConfig{
			RatePerMinute: 10,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
		Audit: AuditConfig{
			RetentionDays: 365,
		},
	}
}

// StoragePath resolves the file used by the configured storage backend.
func (c *Config) StoragePath() string {
	p := c.Storage.Path
	if p == "" {
		switch c.Storage.Backend {
		case StorageFile:
			p = "collection.json"
		default:
			p = "lunar.db"
		}
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.DataDir, p)
}

// DatabasePath is the SQLite file that holds services, CRM and audit data.
// It is shared with the collection when the sqlite backend is selected.
func (c *Config) DatabasePath() string {
	if c.Storage.Backend == StorageSQLite {
		return c.StoragePath()
	}
	return filepath.Join(c.DataDir, "lunar.db")
}
