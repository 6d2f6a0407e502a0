package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	envVars := []string{
		"SERVICE_NAME", "ENV", "LOG_LEVEL", "SPLITORA_API_BASE_URL",
		"SPLITORA_REQUEST_TIMEOUT", "SPLITORA_SESSION_BACKEND",
		"REDIS_ADDR", "REDIS_DB", "REDIS_NAMESPACE", "SPLITORA_GATEWAY_HOST", "SPLITORA_GATEWAY_PORT",
		"HTTP_BODY_LIMIT",
	}
	for _, key := range envVars {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.ServiceName != "splitora" {
		t.Errorf("expected ServiceName=splitora, got %s", cfg.ServiceName)
	}
	if cfg.APIBaseURL != "http://localhost:3000/api" {
		t.Errorf("expected default base URL, got %s", cfg.APIBaseURL)
	}
	if cfg.RequestTimeout != 10*time.Second {
		t.Errorf("expected RequestTimeout=10s, got %v", cfg.RequestTimeout)
	}
	if cfg.SessionBackend != SessionBackendFile {
		t.Errorf("expected SessionBackend=file, got %s", cfg.SessionBackend)
	}
	if cfg.RedisNamespace != "splitora:session:" {
		t.Errorf("expected RedisNamespace=splitora:session:, got %s", cfg.RedisNamespace)
	}
	if cfg.GatewayHost != "127.0.0.1" {
		t.Errorf("expected GatewayHost=127.0.0.1, got %s", cfg.GatewayHost)
	}
	if cfg.GatewayPort != 9040 {
		t.Errorf("expected GatewayPort=9040, got %d", cfg.GatewayPort)
	}
	if cfg.HTTPBodyLimit != 1*1024*1024 {
		t.Errorf("expected HTTPBodyLimit=1048576, got %d", cfg.HTTPBodyLimit)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SPLITORA_API_BASE_URL", "https://api.splitora.test/v2/")
	t.Setenv("SPLITORA_REQUEST_TIMEOUT", "3s")
	t.Setenv("SPLITORA_SESSION_BACKEND", "REDIS")
	t.Setenv("REDIS_DB", "4")

	cfg := Load()

	if cfg.APIBaseURL != "https://api.splitora.test/v2" {
		t.Errorf("expected trailing slash trimmed, got %s", cfg.APIBaseURL)
	}
	if cfg.RequestTimeout != 3*time.Second {
		t.Errorf("expected RequestTimeout=3s, got %v", cfg.RequestTimeout)
	}
	if cfg.SessionBackend != SessionBackendRedis {
		t.Errorf("expected SessionBackend=redis, got %s", cfg.SessionBackend)
	}
	if cfg.RedisDB != 4 {
		t.Errorf("expected RedisDB=4, got %d", cfg.RedisDB)
	}
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("SPLITORA_REQUEST_TIMEOUT", "soon")
	t.Setenv("REDIS_DB", "four")

	cfg := Load()

	if cfg.RequestTimeout != 10*time.Second {
		t.Errorf("expected fallback RequestTimeout=10s, got %v", cfg.RequestTimeout)
	}
	if cfg.RedisDB != 0 {
		t.Errorf("expected fallback RedisDB=0, got %d", cfg.RedisDB)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			APIBaseURL:           "http://x",
			RequestTimeout:       time.Second,
			SessionBackend:       SessionBackendMemory,
			TokenRefreshInterval: time.Minute,
			GatewayPort:          9040,
		}
	}
	cfg := valid()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}

	cfg.SessionBackend = "cookie"
	if err := cfg.Validate(); err == nil {
		t.Error("expected unknown backend to be rejected")
	}

	cfg.SessionBackend = SessionBackendFile
	cfg.SessionFile = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected file backend without path to be rejected")
	}

	cfg = valid()
	cfg.RequestTimeout = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected zero timeout to be rejected")
	}

	cfg = valid()
	cfg.TokenRefreshInterval = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected zero refresh interval to be rejected")
	}

	cfg = valid()
	cfg.GatewayPort = 70000
	if err := cfg.Validate(); err == nil {
		t.Error("expected out-of-range port to be rejected")
	}
}

func TestGetEnvBool(t *testing.T) {
	t.Setenv("SPLITORA_FLAG", "true")
	if !GetEnvBool("SPLITORA_FLAG", false) {
		t.Error("expected true")
	}
	t.Setenv("SPLITORA_FLAG", "nope")
	if GetEnvBool("SPLITORA_FLAG", false) {
		t.Error("expected fallback false for invalid value")
	}
}

func TestLoad_VerboseForcesDebug(t *testing.T) {
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("SPLITORA_VERBOSE", "1")

	if cfg := Load(); cfg.LogLevel != "debug" {
		t.Errorf("expected LogLevel=debug, got %s", cfg.LogLevel)
	}
}

func TestGetEnv_TrimsAndFallsBack(t *testing.T) {
	t.Setenv("SPLITORA_X", "  value  ")
	if got := GetEnv("SPLITORA_X", "def"); got != "value" {
		t.Errorf("expected trimmed value, got %q", got)
	}
	t.Setenv("SPLITORA_X", "   ")
	if got := GetEnv("SPLITORA_X", "def"); got != "def" {
		t.Errorf("expected default for blank value, got %q", got)
	}
	t.Setenv("SPLITORA_N", "ten")
	if got := GetEnvInt("SPLITORA_N", 10); got != 10 {
		t.Errorf("expected default for unparsable int, got %d", got)
	}
}

func TestLoad_BackgroundDefaults(t *testing.T) {
	t.Setenv("SPLITORA_PROFILE_CACHE_TTL", "")
	t.Setenv("SPLITORA_TOKEN_REFRESH_INTERVAL", "90s")

	cfg := Load()
	if cfg.ProfileCacheTTL != 30*time.Second {
		t.Errorf("expected ProfileCacheTTL=30s, got %v", cfg.ProfileCacheTTL)
	}
	if cfg.TokenRefreshInterval != 90*time.Second {
		t.Errorf("expected TokenRefreshInterval=90s, got %v", cfg.TokenRefreshInterval)
	}
}
