package config

import (
	"net"
	"strconv"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Dictionary DictionaryConfig `yaml:"dictionary"`
	Session    SessionConfig    `yaml:"session"`
	UI         UIConfig         `yaml:"ui"`
	Log        LogConfig        `yaml:"log"`
	CORS       CORSConfig       `yaml:"cors"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Content-Type"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"false"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// DictionaryConfig holds settings for the external dictionary service.
type DictionaryConfig struct {
	BaseURL   string        `yaml:"base_url"   env:"DICT_BASE_URL"   env-default:"https://api.dictionaryapi.dev/api/v2/entries/en"`
	Timeout   time.Duration `yaml:"timeout"    env:"DICT_TIMEOUT"    env-default:"10s"`
	UserAgent string        `yaml:"user_agent" env:"DICT_USER_AGENT" env-default:"words/1.0"`
}

// SessionConfig controls the lifetime of per-browser lookup state.
type SessionConfig struct {
	CookieName      string        `yaml:"cookie_name"      env:"SESSION_COOKIE_NAME"      env-default:"words_session"`
	IdleTTL         time.Duration `yaml:"idle_ttl"         env:"SESSION_IDLE_TTL"         env-default:"30m"`
	CleanupInterval time.Duration `yaml:"cleanup_interval" env:"SESSION_CLEANUP_INTERVAL" env-default:"1m"`
	Secure          bool          `yaml:"secure"           env:"SESSION_SECURE"           env-default:"false"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	// ErrorDetail is "collapsed" (every failure reads "no definitions found")
	// or "detailed" (the failure kind is shown as well).
	ErrorDetail string `yaml:"error_detail" env:"UI_ERROR_DETAIL" env-default:"collapsed"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// Addr returns the host:port the HTTP server listens on.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}
