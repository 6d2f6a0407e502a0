package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Session storage backends.
const (
	SessionBackendMemory = "memory"
	SessionBackendFile   = "file"
	SessionBackendRedis  = "redis"
)

// Config holds the runtime configuration for the Splitora client.
type Config struct {
	ServiceName string
	Env         string
	LogLevel    string

	APIBaseURL     string
	RequestTimeout time.Duration

	SessionBackend string
	SessionFile    string
	RedisAddr      string
	RedisDB        int
	RedisPass      string
	RedisNamespace string
	SessionTTL     time.Duration

	RateLimitRPS   int
	RateLimitBurst int

	ProfileCacheTTL      time.Duration
	TokenRefreshInterval time.Duration

	GatewayHost      string
	GatewayPort      int
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	HTTPBodyLimit    int
}

// Load loads configuration from environment variables and optional .env file.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		ServiceName:          GetEnv("SERVICE_NAME", "splitora"),
		Env:                  GetEnv("ENV", "dev"),
		LogLevel:             GetEnv("LOG_LEVEL", "warn"),
		APIBaseURL:           strings.TrimRight(GetEnv("SPLITORA_API_BASE_URL", "http://localhost:3000/api"), "/"),
		RequestTimeout:       GetEnvDuration("SPLITORA_REQUEST_TIMEOUT", 10*time.Second),
		SessionBackend:       strings.ToLower(GetEnv("SPLITORA_SESSION_BACKEND", SessionBackendFile)),
		SessionFile:          GetEnv("SPLITORA_SESSION_FILE", defaultSessionFile()),
		RedisAddr:            GetEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:              GetEnvInt("REDIS_DB", 0),
		RedisPass:            GetEnv("REDIS_PASS", ""),
		RedisNamespace:       GetEnv("REDIS_NAMESPACE", "splitora:session:"),
		SessionTTL:           GetEnvDuration("SPLITORA_SESSION_TTL", 0),
		RateLimitRPS:         GetEnvInt("SPLITORA_RATE_LIMIT_RPS", 20),
		RateLimitBurst:       GetEnvInt("SPLITORA_RATE_LIMIT_BURST", 40),
		ProfileCacheTTL:      GetEnvDuration("SPLITORA_PROFILE_CACHE_TTL", 30*time.Second),
		TokenRefreshInterval: GetEnvDuration("SPLITORA_TOKEN_REFRESH_INTERVAL", time.Minute),
		GatewayHost:          GetEnv("SPLITORA_GATEWAY_HOST", "127.0.0.1"),
		GatewayPort:          GetEnvInt("SPLITORA_GATEWAY_PORT", 9040),
		HTTPReadTimeout:      GetEnvDuration("HTTP_READ_TIMEOUT", 10*time.Second),
		HTTPWriteTimeout:     GetEnvDuration("HTTP_WRITE_TIMEOUT", 15*time.Second),
		HTTPIdleTimeout:      GetEnvDuration("HTTP_IDLE_TIMEOUT", 60*time.Second),
		HTTPBodyLimit:        GetEnvInt("HTTP_BODY_LIMIT", 1*1024*1024),
	}
	if GetEnvBool("SPLITORA_VERBOSE", false) {
		cfg.LogLevel = "debug"
	}
	return cfg
}

// Validate reports configuration that cannot work at runtime.
func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("SPLITORA_API_BASE_URL must not be empty")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("SPLITORA_REQUEST_TIMEOUT must be positive, got %s", c.RequestTimeout)
	}
	if c.TokenRefreshInterval <= 0 {
		return fmt.Errorf("SPLITORA_TOKEN_REFRESH_INTERVAL must be positive, got %s", c.TokenRefreshInterval)
	}
	if c.GatewayPort <= 0 || c.GatewayPort > 65535 {
		return fmt.Errorf("SPLITORA_GATEWAY_PORT out of range: %d", c.GatewayPort)
	}
	switch c.SessionBackend {
	case SessionBackendMemory, SessionBackendRedis:
	case SessionBackendFile:
		if c.SessionFile == "" {
			return fmt.Errorf("SPLITORA_SESSION_FILE must be set for the file session backend")
		}
	default:
		return fmt.Errorf("unknown session backend %q", c.SessionBackend)
	}
	return nil
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "splitora", "session.json")
}
