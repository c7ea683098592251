package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

// Config is the full application configuration.
type Config struct {
	Server    ServerConfig    `json:"server"`
	Database  DatabaseConfig  `json:"database"`
	Uploads   UploadsConfig   `json:"uploads"`
	Auth      AuthConfig      `json:"auth"`
	RateLimit RateLimitConfig `json:"rate_limit"`
	Consul    ConsulConfig    `json:"consul"`
	Jaeger    JaegerConfig    `json:"jaeger"`
	Log       LogConfig       `json:"log"`
}

type ServerConfig struct {
	Name string `json:"name"` // service name (logs, tracing, consul)
	Host string `json:"host"`
	Port int    `json:"port"`
}

type DatabaseConfig struct {
	Host           string `json:"host"`
	Port           int    `json:"port"`
	User           string `json:"user"`
	Password       string `json:"password"`
	Database       string `json:"database"`
	MaxIdle        int    `json:"max_idle"`        // max idle connections
	MaxOpen        int    `json:"max_open"`        // connection pool limit
	ConnectTimeout int    `json:"connect_timeout"` // seconds
	RetryInterval  int    `json:"retry_interval"`  // seconds between reconnect attempts
	ProbeInterval  int    `json:"probe_interval"`  // seconds between health probes
}

// UploadsConfig describes where uploaded images live and how they are served.
type UploadsConfig struct {
	Dir        string `json:"dir"`         // storage root, created lazily
	PublicBase string `json:"public_base"` // base URL stored names resolve under
	MaxBytes   int64  `json:"max_bytes"`   // multipart parse cap
}

type AuthConfig struct {
	Enabled   bool   `json:"enabled"` // gate mutating catalog routes behind JWT
	JWTSecret string `json:"jwt_secret"`
	Issuer    string `json:"issuer"`
	Audience  string `json:"audience"`
	TTLHours  int    `json:"ttl_hours"`
}

type RateLimitConfig struct {
	Capacity      int64 `json:"capacity"`       // token bucket capacity (global)
	RefillPerSec  int64 `json:"refill_per_sec"` // token bucket refill rate
	LoginWindow   int   `json:"login_window"`   // seconds, sliding window on /api/login
	LoginAttempts int   `json:"login_attempts"` // max attempts per window
}

type ConsulConfig struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

type JaegerConfig struct {
	Endpoint string  `json:"endpoint"`
	Sampler  float64 `json:"sampler"` // 0.0-1.0
}

type LogConfig struct {
	Level  string `json:"level"`  // debug, info, warn, error
	Format string `json:"format"` // json, text
	Output string `json:"output"` // stdout, file
	Path   string `json:"path"`
}

// LoadConfig reads a JSON config file. A missing file falls back to the
// default development config rather than failing.
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		logrus.Warnf("Config file not found: %s, using default config", configPath)
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// DefaultConfig is the development configuration. It mirrors the defaults the
// service historically ran with (local MySQL "llanteria", pool limit 10).
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Name: "llanteria-api",
			Host: "0.0.0.0",
			Port: 3000,
		},
		Database: DatabaseConfig{
			Host:           "127.0.0.1",
			Port:           3306,
			User:           "root",
			Password:       "",
			Database:       "llanteria",
			MaxIdle:        5,
			MaxOpen:        10,
			ConnectTimeout: 10,
			RetryInterval:  2,
			ProbeInterval:  10,
		},
		Uploads: UploadsConfig{
			Dir:        "uploads",
			PublicBase: "http://localhost:3000/uploads",
			MaxBytes:   32 << 20,
		},
		Auth: AuthConfig{
			Enabled:   false,
			JWTSecret: "",
			Issuer:    "llanteria",
			Audience:  "llanteria",
			TTLHours:  24,
		},
		RateLimit: RateLimitConfig{
			Capacity:      100,
			RefillPerSec:  50,
			LoginWindow:   60,
			LoginAttempts: 10,
		},
		Consul: ConsulConfig{
			Host: "localhost",
			Port: 8500,
		},
		Jaeger: JaegerConfig{
			Endpoint: "http://localhost:14268/api/traces",
			Sampler:  1.0,
		},
		Log: LogConfig{
			Level:  "debug",
			Format: "text",
			Output: "stdout",
			Path:   "logs/app.log",
		},
	}
}
