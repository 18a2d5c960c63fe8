package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ariefcatur/korzinka-bot/internal/postgres"
)

type Config struct {
	BotToken     string
	DB           postgres.Options
	AdminIDs     []int64
	RedisAddr    string   // empty disables dedup
	KafkaBrokers []string // empty disables checkout events
	HTTPAddr     string
	ServiceName  string
	BotWorkers   int

	LedgerGroup   string
	LedgerWorkers int

	LogLevel string
}

// Load reads the environment. Only malformed values are errors; whether a
// setting is required depends on the command, see RequireBot.
func Load() (Config, error) {
	var errs []string
	num := func(k string, def int) int {
		n, err := strconv.Atoi(getenv(k, strconv.Itoa(def)))
		if err != nil || n <= 0 {
			errs = append(errs, k+" must be a positive integer")
			return def
		}
		return n
	}
	dur := func(k string, def time.Duration) time.Duration {
		d, err := time.ParseDuration(getenv(k, def.String()))
		if err != nil || d <= 0 {
			errs = append(errs, k+" must be a positive duration")
			return def
		}
		return d
	}

	admins, err := parseIDs(os.Getenv("ADMIN_IDS"))
	if err != nil {
		errs = append(errs, err.Error())
	}

	c := Config{
		BotToken: os.Getenv("BOT_TOKEN"),
		DB: postgres.Options{
			Host:           getenv("DB_HOST", "localhost"),
			Port:           strconv.Itoa(num("DB_PORT", 5432)),
			Name:           getenv("DB_NAME", "korzinka"),
			User:           getenv("DB_USER", "postgres"),
			Password:       os.Getenv("DB_PASSWORD"),
			MaxConns:       int32(num("DB_MAX_CONNS", 8)),
			ConnectTimeout: dur("DB_CONNECT_TIMEOUT", 10*time.Second),
		},
		AdminIDs:      admins,
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		KafkaBrokers:  splitCSV(os.Getenv("KAFKA_BROKERS")),
		HTTPAddr:      getenv("HTTP_ADDR", ":8081"),
		ServiceName:   getenv("SERVICE_NAME", "korzinka-bot"),
		BotWorkers:    num("BOT_WORKERS", 8),
		LedgerGroup:   getenv("LEDGER_GROUP", "korzinka-ledger"),
		LedgerWorkers: num("LEDGER_WORKERS", 4),
		LogLevel:      getenv("LOG_LEVEL", "info"),
	}
	if len(errs) > 0 {
		return c, fmt.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return c, nil
}

func (c Config) RequireBot() error {
	if c.BotToken == "" {
		return fmt.Errorf("config: BOT_TOKEN is not set")
	}
	return nil
}

func (c Config) RequireKafka() error {
	if len(c.KafkaBrokers) == 0 {
		return fmt.Errorf("config: KAFKA_BROKERS is not set")
	}
	return nil
}

func parseIDs(s string) ([]int64, error) {
	var ids []int64
	for _, p := range splitCSV(s) {
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("ADMIN_IDS: %q is not a user id", p)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
