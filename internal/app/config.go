package app

import (
	"fmt"
	"log"
	"os"
	"strings"
)

type Config struct {
	Env      string
	HTTPAddr string

	// CORS allowlist; "*" permits any origin.
	CORSAllow []string

	// Cap on each client's outbound delivery queue. A client whose queue
	// overflows is disconnected.
	QueueDepth int

	// HTTP requests allowed per IP per minute.
	RateMax int
}

func LoadConfig() Config {
	cfg := Config{
		Env:      getEnv("APP_ENV", "dev"),
		HTTPAddr: getEnv("HTTP_ADDR", ":8000"),
	}
	cfg.QueueDepth = getEnvInt("OUT_QUEUE_DEPTH", 256)
	cfg.RateMax = getEnvInt("RATE_MAX", 120)
	cfg.CORSAllow = splitCSV(getEnv("CORS_ALLOW", "*"))
	log.Printf("config: %+v\n", cfg)
	return cfg
}

// getEnv returns the env var or a default
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// getEnvInt parses an int env var with a fallback
func getEnvInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		var i int
		_, _ = fmt.Sscanf(v, "%d", &i)
		if i > 0 {
			return i
		}
	}
	return def
}

// splitCSV trims and filters a comma-separated list
func splitCSV(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
