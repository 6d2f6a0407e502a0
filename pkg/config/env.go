package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// lookup returns the trimmed value of key parsed with parse. Unset, blank
// or unparsable values yield def, so a typo in the environment falls back
// to the default instead of failing the command.
func lookup[T any](key string, def T, parse func(string) (T, error)) T {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := parse(raw)
	if err != nil {
		return def
	}
	return v
}

func GetEnv(key, def string) string {
	return lookup(key, def, func(s string) (string, error) { return s, nil })
}

func GetEnvInt(key string, def int) int {
	return lookup(key, def, strconv.Atoi)
}

// GetEnvDuration accepts Go duration syntax, e.g. "90s" or "1m30s".
func GetEnvDuration(key string, def time.Duration) time.Duration {
	return lookup(key, def, time.ParseDuration)
}

func GetEnvBool(key string, def bool) bool {
	return lookup(key, def, strconv.ParseBool)
}
