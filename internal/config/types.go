package config

// StorageBackend selects where collection items are persisted.
type StorageBackend string

const (
	StorageSQLite StorageBackend = "sqlite"
	StorageFile   StorageBackend = "file"
)

// SessionBackend selects where admin sessions are kept.
type SessionBackend string

const (
	SessionMemory SessionBackend = "memory"
	SessionRedis  SessionBackend = "redis"
)

// Config is the top-level lunar configuration, corresponding to .lunar.yml.
type Config struct {
	DataDir       string              `yaml:"data_dir" koanf:"data_dir"`
	Server        ServerConfig        `yaml:"server" koanf:"server"`
	Storage       StorageConfig       `yaml:"storage" koanf:"storage"`
	Admin         AdminConfig         `yaml:"admin" koanf:"admin"`
	Viewer        ViewerConfig        `yaml:"viewer" koanf:"viewer"`
	Content       ContentConfig       `yaml:"content" koanf:"content"`
	Notifications NotificationsConfig `yaml:"notifications" koanf:"notifications"`
	Contact       ContactConfig       `yaml:"contact" koanf:"contact"`
	Metrics       MetricsConfig       `yaml:"metrics" koanf:"metrics"`
	Audit         AuditConfig         `yaml:"audit" koanf:"audit"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port            int  `yaml:"port" koanf:"port"`
	AllowAllOrigins bool `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}

// StorageConfig selects the collection backend. Path is relative to DataDir
// unless absolute; an empty path picks a per-backend default file name.
type StorageConfig struct {
	Backend StorageBackend `yaml:"backend" koanf:"backend"`
	Path    string         `yaml:"path" koanf:"path"`
}

// AdminConfig holds the admin gate credentials and session settings.
type AdminConfig struct {
	Username          string         `yaml:"username" koanf:"username"`
	Password          string         `yaml:"password" koanf:"password"`
	SessionTTLMinutes int            `yaml:"session_ttl_minutes" koanf:"session_ttl_minutes"`
	SessionBackend    SessionBackend `yaml:"session_backend" koanf:"session_backend"`
	RedisAddr         string         `yaml:"redis_addr" koanf:"redis_addr"`
	RedisPrefix       string         `yaml:"redis_prefix" koanf:"redis_prefix"`
}

// ViewerConfig tunes the interactive image viewer.
type ViewerConfig struct {
	AutoRotateIntervalMS int     `yaml:"auto_rotate_interval_ms" koanf:"auto_rotate_interval_ms"`
	PointerSensitivity   int     `yaml:"pointer_sensitivity" koanf:"pointer_sensitivity"`
	TouchSensitivity     int     `yaml:"touch_sensitivity" koanf:"touch_sensitivity"`
	ZoomStep             float64 `yaml:"zoom_step" koanf:"zoom_step"`
	MinZoom              float64 `yaml:"min_zoom" koanf:"min_zoom"`
	MaxZoom              float64 `yaml:"max_zoom" koanf:"max_zoom"`
}

// ContentConfig points at a directory of markdown overrides for the marketing pages.
type ContentConfig struct {
	Dir string `yaml:"dir" koanf:"dir"`
}

// NotificationsConfig holds outbound notification targets.
type NotificationsConfig struct {
	InquiryWebhookURL string `yaml:"inquiry_webhook_url" koanf:"inquiry_webhook_url"`
}

// ContactConfig throttles the public contact form.
type ContactConfig struct {
	RatePerMinute int `yaml:"rate_per_minute" koanf:"rate_per_minute"`
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled" koanf:"enabled"`
}

// AuditConfig controls how long audit entries are kept. Zero keeps them forever.
type AuditConfig struct {
	RetentionDays int `yaml:"retention_days" koanf:"retention_days"`
}
