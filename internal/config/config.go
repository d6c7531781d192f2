package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds service configuration.
type Config struct {
	DatabaseURL        string
	ServerAddr         string
	BotToken           string
	WebhookSecret      string
	PrimaryApprovers   []int64
	SecondaryApprovers []int64
	SensitiveBrandRule string
	ProfileCacheTTL    time.Duration
}

// Load reads configuration from environment. A local .env file is applied
// first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		user := getenv("POSTGRES_USER", "goods_gate")
		pass := getenv("POSTGRES_PASSWORD", "goods_gate_pass")
		db := getenv("POSTGRES_DB", "goods_gate")
		host := getenv("POSTGRES_HOST", "localhost")
		port := getenv("POSTGRES_PORT", "5432")
		sslmode := getenv("DATABASE_SSLMODE", "disable")
		dsn = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", user, pass, host, port, db, sslmode)
	}

	token := os.Getenv("BOT_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("BOT_TOKEN is required")
	}

	primary, err := parseIDList(os.Getenv("PRIMARY_APPROVER_IDS"))
	if err != nil {
		return nil, fmt.Errorf("PRIMARY_APPROVER_IDS: %w", err)
	}
	secondary, err := parseIDList(os.Getenv("SECONDARY_APPROVER_IDS"))
	if err != nil {
		return nil, fmt.Errorf("SECONDARY_APPROVER_IDS: %w", err)
	}

	return &Config{
		DatabaseURL:        dsn,
		ServerAddr:         getenv("SERVER_ADDR", "0.0.0.0:8080"),
		BotToken:           token,
		WebhookSecret:      os.Getenv("WEBHOOK_SECRET"),
		PrimaryApprovers:   primary,
		SecondaryApprovers: secondary,
		SensitiveBrandRule: os.Getenv("SENSITIVE_BRAND_RULE"),
		ProfileCacheTTL:    parseDuration(getenv("PROFILE_CACHE_TTL", "5m"), 5*time.Minute),
	}, nil
}

func getenv(key, def string) string {
	val := os.Getenv(key)
	if val == "" {
		return def
	}
	return val
}

func parseDuration(val string, def time.Duration) time.Duration {
	if val == "" {
		return def
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return def
	}
	return d
}

func parseIDList(val string) ([]int64, error) {
	if strings.TrimSpace(val) == "" {
		return nil, nil
	}
	parts := strings.Split(val, ",")
	out := make([]int64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q", p)
		}
		out = append(out, id)
	}
	return out, nil
}
