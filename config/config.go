package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config application-wide configuration
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"db"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Log        LogConfig        `mapstructure:"log"`
	Payroll    PayrollConfig    `mapstructure:"payroll"`
	Attendance AttendanceConfig `mapstructure:"attendance"`
	Sync       SyncConfig       `mapstructure:"sync"`
	Scheduler  SchedulerConfig  `mapstructure:"scheduler"`
}

// ServerConfig HTTP server
type ServerConfig struct {
	Port      int        `mapstructure:"port"`
	BaseURL   string     `mapstructure:"base_url"`
	BodyLimit int64      `mapstructure:"body_limit"`
	CORS      CORSConfig `mapstructure:"cors"`
}

// CORSConfig cross-origin settings
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// DatabaseConfig PostgreSQL connection
type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Name            string `mapstructure:"name"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	SSLMode         string `mapstructure:"sslmode"`
	Timezone        string `mapstructure:"timezone"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`  // minutes
	ConnMaxIdleTime int    `mapstructure:"conn_max_idle_time"` // minutes
}

// DSN builds the PostgreSQL connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode, c.Timezone,
	)
}

// RedisConfig remote mirror / pub-sub / rate limit backend
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AuthConfig JWT settings
type AuthConfig struct {
	JWTSecret       string        `mapstructure:"jwt_secret"`
	AccessTokenTTL  time.Duration `mapstructure:"access_token_ttl"`
	RefreshTokenTTL time.Duration `mapstructure:"refresh_token_ttl"`
}

// LogConfig logging
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// PayrollConfig defaults applied by the payroll engine when an assignment
// carries no explicit value.
type PayrollConfig struct {
	BreakThresholdHours float64 `mapstructure:"break_threshold_hours"`
	BreakHours          float64 `mapstructure:"break_hours"`
	MealAllowance       float64 `mapstructure:"meal_allowance"`
	TravelAllowance     float64 `mapstructure:"travel_allowance"`
	DefaultSellRate     float64 `mapstructure:"default_sell_rate"`
	Currency            string  `mapstructure:"currency"`
}

// AttendanceConfig check-in/out geolocation policy
type AttendanceConfig struct {
	MaxAttempts             int           `mapstructure:"max_attempts"`
	Backoff                 time.Duration `mapstructure:"backoff"`
	AttemptTimeout          time.Duration `mapstructure:"attempt_timeout"`
	AccuracyThresholdMeters float64       `mapstructure:"accuracy_threshold_meters"`
	GeofenceRadiusMeters    float64       `mapstructure:"geofence_radius_meters"` // 0 disables the venue distance check
	Timezone                string        `mapstructure:"timezone"`
}

// Location resolves the configured day-boundary timezone.
func (c *AttendanceConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// SyncConfig outbox → remote mirror replication
type SyncConfig struct {
	Interval    time.Duration `mapstructure:"interval"`
	BatchSize   int           `mapstructure:"batch_size"`
	MaxAttempts int           `mapstructure:"max_attempts"`
	BaseBackoff time.Duration `mapstructure:"base_backoff"`
}

// SchedulerConfig background jobs
type SchedulerConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

// Load reads configuration from file and environment.
// Precedence: env > file > defaults
func Load(path string) (*Config, error) {
	v := viper.New()

	// ── defaults ──
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("server.body_limit", 1<<20)
	v.SetDefault("server.cors.allow_origins", []string{"http://localhost:5173"})

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.name", "staffdesk")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.timezone", "UTC")
	v.SetDefault("db.max_open_conns", 25)
	v.SetDefault("db.max_idle_conns", 10)
	v.SetDefault("db.conn_max_lifetime", 60)
	v.SetDefault("db.conn_max_idle_time", 30)

	v.SetDefault("redis.enabled", true)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.access_token_ttl", "15m")
	v.SetDefault("auth.refresh_token_ttl", "168h")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("payroll.break_threshold_hours", 5)
	v.SetDefault("payroll.break_hours", 1)
	v.SetDefault("payroll.meal_allowance", 10)
	v.SetDefault("payroll.travel_allowance", 15)
	v.SetDefault("payroll.default_sell_rate", 25)
	v.SetDefault("payroll.currency", "EUR")

	v.SetDefault("attendance.max_attempts", 3)
	v.SetDefault("attendance.backoff", "1500ms")
	v.SetDefault("attendance.attempt_timeout", "10s")
	v.SetDefault("attendance.accuracy_threshold_meters", 50)
	v.SetDefault("attendance.geofence_radius_meters", 0)
	v.SetDefault("attendance.timezone", "UTC")

	v.SetDefault("sync.interval", "30s")
	v.SetDefault("sync.batch_size", 50)
	v.SetDefault("sync.max_attempts", 8)
	v.SetDefault("sync.base_backoff", "5s")

	v.SetDefault("scheduler.interval", "1m")

	// ── config file ──
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// ── environment ──
	v.SetEnvPrefix("STAFFDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the settings the service cannot run without
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("config: auth.jwt_secret must not be empty")
	}
	if len(c.Auth.JWTSecret) < 16 {
		return fmt.Errorf("config: auth.jwt_secret must be at least 16 characters")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port must be between 1 and 65535")
	}
	if c.Attendance.MaxAttempts <= 0 {
		return fmt.Errorf("config: attendance.max_attempts must be positive")
	}
	if c.Attendance.AccuracyThresholdMeters <= 0 {
		return fmt.Errorf("config: attendance.accuracy_threshold_meters must be positive")
	}
	if _, err := c.Attendance.Location(); err != nil {
		return fmt.Errorf("config: attendance.timezone: %w", err)
	}
	if c.Payroll.MealAllowance < 0 || c.Payroll.TravelAllowance < 0 || c.Payroll.DefaultSellRate < 0 {
		return fmt.Errorf("config: payroll amounts must not be negative")
	}
	if c.Sync.BatchSize <= 0 {
		return fmt.Errorf("config: sync.batch_size must be positive")
	}
	if c.Sync.Interval <= 0 || c.Scheduler.Interval <= 0 {
		return fmt.Errorf("config: sync.interval and scheduler.interval must be positive")
	}
	return nil
}
