package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Addr   string // API bind address
	LogDir string // logs + audit directory
	Debug  bool

	DatabaseURL string // empty means in-memory ignore store

	TargetsURL string   // HTTP fleet source; JSON array of domains
	Targets    []string // static fleet, used when TargetsURL is empty

	CheckCycle   time.Duration // time between cycle starts
	MaxFailures  int           // consecutive-failure threshold == retry budget
	RetryDelay   time.Duration
	Timeout      time.Duration // per-probe
	VerifyTLS    bool
	HealthAPIKey string

	Concurrency int // max domains probed at once

	SlackWebhook   string
	TelegramToken  string
	TelegramChatID string

	PublicAPIKeys []string
	AdminAPIKeys  []string
	PublicRPM     int
	PublicBurst   int
	AdminRPM      int
	AdminBurst    int
}

func FromEnv() Config {
	cfg := Config{
		Addr:           envStr("ADDR", "127.0.0.1:8080"),
		LogDir:         envStr("LOG_DIR", "logs"),
		Debug:          envBool("DEBUG", false),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		TargetsURL:     os.Getenv("TARGETS_URL"),
		Targets:        envList("TARGETS"),
		CheckCycle:     envSeconds("CHECK_CYCLE_SECONDS", 300),
		MaxFailures:    envInt("MAX_FAILURES", 3, 1),
		RetryDelay:     envSeconds("RETRY_DELAY_SECONDS", 5),
		Timeout:        envSeconds("TIMEOUT_SECONDS", 10),
		VerifyTLS:      envBool("VERIFY_TLS", true),
		HealthAPIKey:   os.Getenv("HEALTH_API_KEY"),
		Concurrency:    envInt("MAX_CONCURRENT_CHECKS", 8, 1),
		SlackWebhook:   os.Getenv("SLACK_WEBHOOK"),
		TelegramToken:  os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChatID: os.Getenv("TELEGRAM_CHAT_ID"),
		PublicAPIKeys:  envList("PUBLIC_API_KEYS"),
		AdminAPIKeys:   envList("ADMIN_API_KEYS"),
		PublicRPM:      envInt("PUBLIC_RPM", 120, 0),
		PublicBurst:    envInt("PUBLIC_BURST", 60, 0),
		AdminRPM:       envInt("ADMIN_RPM", 60, 0),
		AdminBurst:     envInt("ADMIN_BURST", 30, 0),
	}
	return cfg
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def, min int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= min {
			return n
		}
	}
	return def
}

func envSeconds(key string, defSeconds int) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return time.Duration(n) * time.Second
		}
	}
	return time.Duration(defSeconds) * time.Second
}

func envBool(key string, def bool) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	switch v {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return def
}

func envList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
