// Package config loads service settings from .env, the environment and flags.
package config

import (
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// Config stores service settings.
type Config struct {
	Port       int
	DB         DB
	Kafka      Kafka
	StatusSync StatusSync
	Chat       Chat
	Dispatch   Dispatch
	RateLimit  RateLimit
	Admin      Admin
}

// DB holds postgres connection settings.
type DB struct {
	Host string
	Port string
	User string
	Pass string
	Name string
}

// DSN returns a postgres connection string.
func (d DB) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=disable",
		d.User, d.Pass, net.JoinHostPort(d.Host, d.Port), d.Name)
}

// Kafka holds order lifecycle consumer settings. An empty broker list disables the consumer.
type Kafka struct {
	Brokers     []string
	GroupID     string
	OrdersTopic string
}

// Enabled reports whether the consumer should run.
func (k Kafka) Enabled() bool { return len(k.Brokers) > 0 && k.OrdersTopic != "" }

// StatusSync configures pushes to the order-management API. An empty BaseURL disables them.
type StatusSync struct {
	BaseURL     string
	MaxAttempts int
	RetryDelay  time.Duration
	Timeout     time.Duration
}

// Chat configures offer delivery. An empty BotToken disables it.
type Chat struct {
	BaseURL  string
	BotToken string
	Timeout  time.Duration
}

// Dispatch configures the in-memory assignment store.
type Dispatch struct {
	AssignmentTTL time.Duration
	SweepInterval time.Duration
}

// RateLimit configures the per client token bucket on the dispatch routes.
type RateLimit struct {
	Enabled    bool
	Rate       float64
	Burst      int
	TTL        time.Duration
	MaxBuckets int
}

// Admin configures the debug listener serving pprof and metrics.
// A zero Port disables it; non-loopback clients need User and Pass.
type Admin struct {
	Port int
	User string
	Pass string
}

// Load reads configuration in order: .env (if present) → environment → flags.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("warning: .env not loaded: %v", err)
	}

	cfg := &Config{
		Port:       DefaultPort(),
		DB:         DefaultDB(),
		Kafka:      DefaultKafka(),
		StatusSync: DefaultStatusSync(),
		Chat:       DefaultChat(),
		Dispatch:   DefaultDispatch(),
		RateLimit:  DefaultRateLimit(),
		Admin:      DefaultAdmin(),
	}

	e := &envReader{}
	cfg.Port = e.int("PORT", cfg.Port)

	cfg.DB.Host = e.str("POSTGRES_HOST", cfg.DB.Host)
	cfg.DB.Port = e.str("POSTGRES_PORT", cfg.DB.Port)
	cfg.DB.User = e.str("POSTGRES_USER", cfg.DB.User)
	cfg.DB.Pass = e.str("POSTGRES_PASSWORD", cfg.DB.Pass)
	cfg.DB.Name = e.str("POSTGRES_DB", cfg.DB.Name)
	if _, err := strconv.Atoi(cfg.DB.Port); err != nil {
		e.fail("POSTGRES_PORT", cfg.DB.Port)
	}

	cfg.Kafka.Brokers = e.list("KAFKA_BROKERS", cfg.Kafka.Brokers)
	cfg.Kafka.GroupID = e.str("KAFKA_GROUP_ID", cfg.Kafka.GroupID)
	cfg.Kafka.OrdersTopic = e.str("KAFKA_ORDERS_TOPIC", cfg.Kafka.OrdersTopic)

	cfg.StatusSync.BaseURL = e.str("STATUS_API_BASE_URL", cfg.StatusSync.BaseURL)
	cfg.StatusSync.MaxAttempts = e.int("STATUS_SYNC_MAX_ATTEMPTS", cfg.StatusSync.MaxAttempts)
	cfg.StatusSync.RetryDelay = e.duration("STATUS_SYNC_RETRY_DELAY", cfg.StatusSync.RetryDelay)
	cfg.StatusSync.Timeout = e.duration("STATUS_SYNC_TIMEOUT", cfg.StatusSync.Timeout)

	cfg.Chat.BaseURL = e.str("CHAT_API_BASE_URL", cfg.Chat.BaseURL)
	cfg.Chat.BotToken = e.str("CHAT_BOT_TOKEN", cfg.Chat.BotToken)
	cfg.Chat.Timeout = e.duration("CHAT_TIMEOUT", cfg.Chat.Timeout)

	cfg.Dispatch.AssignmentTTL = e.duration("DISPATCH_ASSIGNMENT_TTL", cfg.Dispatch.AssignmentTTL)
	cfg.Dispatch.SweepInterval = e.duration("DISPATCH_SWEEP_INTERVAL", cfg.Dispatch.SweepInterval)

	cfg.RateLimit.Enabled = e.bool("RATE_LIMIT_ENABLED", cfg.RateLimit.Enabled)
	cfg.RateLimit.Rate = e.float("RATE_LIMIT_RPS", cfg.RateLimit.Rate)
	cfg.RateLimit.Burst = e.int("RATE_LIMIT_BURST", cfg.RateLimit.Burst)
	cfg.RateLimit.TTL = e.duration("RATE_LIMIT_TTL", cfg.RateLimit.TTL)
	cfg.RateLimit.MaxBuckets = e.int("RATE_LIMIT_MAX_BUCKETS", cfg.RateLimit.MaxBuckets)

	cfg.Admin.Port = e.int("ADMIN_PORT", cfg.Admin.Port)
	cfg.Admin.User = e.str("ADMIN_USER", cfg.Admin.User)
	cfg.Admin.Pass = e.str("ADMIN_PASSWORD", cfg.Admin.Pass)

	if e.err != nil {
		return nil, e.err
	}

	fs := pflag.NewFlagSet(os.Args[0], pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.IntVarP(&cfg.Port, "port", "p", cfg.Port, "port to listen on")
	fs.IntVar(&cfg.Admin.Port, "admin-port", cfg.Admin.Port, "pprof and metrics port, 0 disables")
	if err := fs.Parse(os.Args[1:]); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.Admin.Port < 0 || c.Admin.Port > 65535 || (c.Admin.Port != 0 && c.Admin.Port == c.Port) {
		return fmt.Errorf("invalid ADMIN_PORT: %d", c.Admin.Port)
	}
	if c.StatusSync.MaxAttempts < 1 {
		return fmt.Errorf("invalid STATUS_SYNC_MAX_ATTEMPTS: %d", c.StatusSync.MaxAttempts)
	}
	if c.StatusSync.RetryDelay < 0 {
		return fmt.Errorf("invalid STATUS_SYNC_RETRY_DELAY: %s", c.StatusSync.RetryDelay)
	}
	if c.Dispatch.AssignmentTTL < 0 {
		return fmt.Errorf("invalid DISPATCH_ASSIGNMENT_TTL: %s", c.Dispatch.AssignmentTTL)
	}
	if c.Dispatch.AssignmentTTL > 0 && c.Dispatch.SweepInterval <= 0 {
		return fmt.Errorf("invalid DISPATCH_SWEEP_INTERVAL: %s", c.Dispatch.SweepInterval)
	}
	if c.RateLimit.Enabled && (c.RateLimit.Rate <= 0 || c.RateLimit.Burst <= 0) {
		return errors.New("rate limit enabled with non-positive rps or burst")
	}
	return nil
}

// envReader keeps the first parse error so Load can report it once.
type envReader struct{ err error }

func (e *envReader) fail(key, raw string) {
	if e.err == nil {
		e.err = fmt.Errorf("invalid %s: %q", key, raw)
	}
}

func (e *envReader) str(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func (e *envReader) int(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.fail(key, v)
		return def
	}
	return n
}

func (e *envReader) float(key string, def float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		e.fail(key, v)
		return def
	}
	return f
}

func (e *envReader) bool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		e.fail(key, v)
		return def
	}
	return b
}

func (e *envReader) duration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		e.fail(key, v)
		return def
	}
	return d
}

func (e *envReader) list(key string, def []string) []string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
