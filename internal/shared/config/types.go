package config

import "fmt"

type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	Mode           string   `mapstructure:"mode"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	Timezone       string   `mapstructure:"timezone"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	DSN             string `mapstructure:"dsn"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

// GetDSN returns the MySQL DSN built from the discrete fields, or the
// configured DSN verbatim for sqlite.
func (d *DatabaseConfig) GetDSN() string {
	if d.IsSQLite() {
		if d.DSN == "" {
			return "civicpulse.db"
		}
		return d.DSN
	}
	if d.DSN != "" {
		return d.DSN
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&collation=utf8mb4_general_ci&parseTime=true&loc=UTC",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

func (d *DatabaseConfig) IsSQLite() bool {
	return d.Driver == "sqlite" || d.Driver == "sqlite3"
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type JWTConfig struct {
	Secret           string `mapstructure:"secret"`
	AccessExpMinutes int    `mapstructure:"access_exp_minutes"`
}

type AuthConfig struct {
	JWT JWTConfig `mapstructure:"jwt"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// TriageConfig tunes the background enrichment of new complaints.
type TriageConfig struct {
	DuplicateThreshold       float64 `mapstructure:"duplicate_threshold"`
	KeywordsFile             string  `mapstructure:"keywords_file"`
	EnrichmentRetries        int     `mapstructure:"enrichment_retries"`
	EnrichmentTimeoutSeconds int     `mapstructure:"enrichment_timeout_seconds"`
	DispatcherBuffer         int     `mapstructure:"dispatcher_buffer"`
}

type SLAConfig struct {
	Enabled             bool `mapstructure:"enabled"`
	ScanIntervalMinutes int  `mapstructure:"scan_interval_minutes"`
}

type RateLimitConfig struct {
	CreatePerMinute int `mapstructure:"create_per_minute"`
	UpvotePerMinute int `mapstructure:"upvote_per_minute"`
}
