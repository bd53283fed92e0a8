// Package config reads process configuration from the environment. Tenant
// credentials never live here; they arrive per-request in the configuration
// token.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"cinemind/services/suggest"
)

type Config struct {
	// Port the HTTP server listens on.
	Port string
	// CacheTTL is the validity window for cached candidate lists.
	CacheTTL time.Duration
	// GeminiModels is the ordered model pool for the suggestion fallback.
	GeminiModels []string
	// LogFile enables rotated file logging when set.
	LogFile string
}

func Load() Config {
	cfg := Config{
		Port:         "7000",
		CacheTTL:     10 * time.Minute,
		GeminiModels: suggest.DefaultModels,
	}
	if v := strings.TrimSpace(os.Getenv("ADDON_PORT")); v != "" {
		cfg.Port = v
	}
	if v := strings.TrimSpace(os.Getenv("CACHE_TTL_MINUTES")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.CacheTTL = time.Duration(n) * time.Minute
		}
	}
	if v := strings.TrimSpace(os.Getenv("GEMINI_MODELS")); v != "" {
		var pool []string
		for _, m := range strings.Split(v, ",") {
			if m = strings.TrimSpace(m); m != "" {
				pool = append(pool, m)
			}
		}
		if len(pool) > 0 {
			cfg.GeminiModels = pool
		}
	}
	cfg.LogFile = strings.TrimSpace(os.Getenv("LOG_FILE"))
	return cfg
}
