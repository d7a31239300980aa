package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Provider is the read-only view of configuration handed to components.
type Provider interface {
	GetAddr() string
	GetLogFormat() string
	GetLogLevel() string

	GetSendBuffer() int
	GetReadLimit() int64
	GetWriteTimeout() time.Duration
	GetPingInterval() time.Duration

	GetTracingEnabled() bool
	GetTracingServiceName() string
	GetTracingZipkinURL() string
}

// Config holds all configuration for the application.
type Config struct {
	Addr      string
	LogFormat string
	LogLevel  string

	SendBuffer   int
	ReadLimit    int64
	WriteTimeout time.Duration
	PingInterval time.Duration

	TracingEnabled     bool
	TracingServiceName string
	TracingZipkinURL   string
}

var _ Provider = (*Config)(nil)

// Default returns the configuration used when no environment is set.
func Default() *Config {
	return &Config{
		Addr:               ":8080",
		LogFormat:          "text",
		LogLevel:           "info",
		SendBuffer:         256,
		ReadLimit:          4096,
		WriteTimeout:       10 * time.Second,
		PingInterval:       30 * time.Second,
		TracingServiceName: "relay",
		TracingZipkinURL:   "http://localhost:9411/api/v2/spans",
	}
}

// New loads a .env file if present, then overlays environment variables on
// Default. Malformed values keep the default and are reported.
func New() *Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, relying on environment variables")
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv builds a Config from lookup, which has the shape of os.LookupEnv.
func FromEnv(lookup func(string) (string, bool)) *Config {
	cfg := Default()
	l := loader{lookup: lookup}

	l.str("RELAY_ADDR", &cfg.Addr)
	l.str("LOG_FORMAT", &cfg.LogFormat)
	l.str("LOG_LEVEL", &cfg.LogLevel)

	l.integer("WS_SEND_BUFFER", &cfg.SendBuffer)
	readLimit := int(cfg.ReadLimit)
	l.integer("WS_READ_LIMIT", &readLimit)
	cfg.ReadLimit = int64(readLimit)
	l.duration("WS_WRITE_TIMEOUT", &cfg.WriteTimeout)
	l.duration("WS_PING_INTERVAL", &cfg.PingInterval)

	l.boolean("TRACING_ENABLED", &cfg.TracingEnabled)
	l.str("TRACING_SERVICE_NAME", &cfg.TracingServiceName)
	l.str("TRACING_ZIPKIN_URL", &cfg.TracingZipkinURL)

	return cfg
}

type loader struct {
	lookup func(string) (string, bool)
}

func (l loader) get(key string) (string, bool) {
	v, ok := l.lookup(key)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func (l loader) str(key string, dst *string) {
	if v, ok := l.get(key); ok {
		*dst = v
	}
}

func (l loader) integer(key string, dst *int) {
	v, ok := l.get(key)
	if !ok {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("Ignoring invalid config value", "key", key, "value", v, "default", *dst)
		return
	}
	*dst = n
}

func (l loader) duration(key string, dst *time.Duration) {
	v, ok := l.get(key)
	if !ok {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Warn("Ignoring invalid config value", "key", key, "value", v, "default", *dst)
		return
	}
	*dst = d
}

func (l loader) boolean(key string, dst *bool) {
	v, ok := l.get(key)
	if !ok {
		return
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("Ignoring invalid config value", "key", key, "value", v, "default", *dst)
		return
	}
	*dst = b
}

func (c *Config) GetAddr() string                { return c.Addr }
func (c *Config) GetLogFormat() string           { return c.LogFormat }
func (c *Config) GetLogLevel() string            { return c.LogLevel }
func (c *Config) GetSendBuffer() int             { return c.SendBuffer }
func (c *Config) GetReadLimit() int64            { return c.ReadLimit }
func (c *Config) GetWriteTimeout() time.Duration { return c.WriteTimeout }
func (c *Config) GetPingInterval() time.Duration { return c.PingInterval }
func (c *Config) GetTracingEnabled() bool        { return c.TracingEnabled }
func (c *Config) GetTracingServiceName() string  { return c.TracingServiceName }
func (c *Config) GetTracingZipkinURL() string    { return c.TracingZipkinURL }
