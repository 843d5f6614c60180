package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port        int
	CORSOrigins []string

	// Google Cloud key used by the speech-to-text relay.
	GoogleAPIKey string

	// Debate engine
	DebateContextWindow int
	DebateMaxSessions   int
	DebateTurnDelay     time.Duration
}

func Load() Config {
	port := 4646
	if v := os.Getenv("PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			port = n
		}
	}

	origins := []string{"*"}
	if v := os.Getenv("CORS_ALLOW_ORIGINS"); v != "" {
		origins = origins[:0]
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
	}

	window := 6
	if v := os.Getenv("DEBATE_CONTEXT_WINDOW"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			window = n
		}
	}

	maxSessions := 1024
	if v := os.Getenv("DEBATE_MAX_SESSIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			maxSessions = n
		}
	}

	turnDelay := 3 * time.Second
	if v := os.Getenv("DEBATE_TURN_DELAY"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			turnDelay = d
		}
	}

	return Config{
		Port:                port,
		CORSOrigins:         origins,
		GoogleAPIKey:        os.Getenv("GOOGLE_API_KEY"),
		DebateContextWindow: window,
		DebateMaxSessions:   maxSessions,
		DebateTurnDelay:     turnDelay,
	}
}
