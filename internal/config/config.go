package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

type Config struct {
	//App
	Env string // dev / staging / prod
	//HTTP
	HTTPAddr string

	// Storage
	StoreDriver   string // postgres / memory
	DBAddr        string
	DBDebug       bool
	DBAutoMigrate bool

	// Sessions (empty RedisAddr → in-memory sessions)
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	SessionTTL    time.Duration

	// Events (empty RabbitURL → noop publisher)
	RabbitURL      string
	RabbitExchange string

	// Password hashing
	Argon2MemoryKiB uint32
	Argon2Time      uint32
	Argon2Threads   uint8
	HashConcurrency int64

	// Optional first administrator
	BootstrapAdminEmail    string
	BootstrapAdminPassword string

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
}

// SecureCookies reports whether session cookies carry Secure and the __Host- prefix.
func (c *Config) SecureCookies() bool { return c.Env != "dev" }

func Load() (*Config, error) {
	// .env is optional; real environment variables win
	_ = godotenv.Load()

	cfg := &Config{
		Env:            getEnv("ENV", "dev"),
		HTTPAddr:       getEnv("HTTP_ADDR", ":8080"),
		StoreDriver:    strings.ToLower(getEnv("STORE_DRIVER", StorePostgres)),
		DBAddr:         strings.TrimSpace(os.Getenv("DB_ADDR")),
		RedisAddr:      strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		RabbitURL:      strings.TrimSpace(os.Getenv("RABBIT_URL")),
		RabbitExchange: getEnv("RABBIT_EXCHANGE", "access.events"),

		BootstrapAdminEmail:    os.Getenv("BOOTSTRAP_ADMIN_EMAIL"),
		BootstrapAdminPassword: os.Getenv("BOOTSTRAP_ADMIN_PASSWORD"),
	}

	switch cfg.Env {
	case "dev", "staging", "prod":
	default:
		return nil, fmt.Errorf("invalid ENV %q: want dev, staging or prod", cfg.Env)
	}

	// Storage
	switch cfg.StoreDriver {
	case StorePostgres:
		if cfg.DBAddr == "" {
			return nil, fmt.Errorf("missing required env var: DB_ADDR (STORE_DRIVER=postgres)")
		}
	case StoreMemory:
	default:
		return nil, fmt.Errorf("invalid STORE_DRIVER %q: want postgres or memory", cfg.StoreDriver)
	}

	var err error
	if cfg.DBDebug, err = getBool("DB_DEBUG", false); err != nil {
		return nil, err
	}
	if cfg.DBAutoMigrate, err = getBool("DB_AUTO_MIGRATE", true); err != nil {
		return nil, err
	}

	// Sessions
	rdb, err := getInt("REDIS_DB", 0, 0, math.MaxInt32)
	if err != nil {
		return nil, err
	}
	cfg.RedisDB = int(rdb)

	if cfg.SessionTTL, err = getDuration("SESSION_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.SessionTTL <= 0 {
		return nil, fmt.Errorf("SESSION_TTL must be positive")
	}

	// Hashing
	mem, err := getInt("ARGON2_MEMORY_KIB", 64*1024, 8, math.MaxUint32)
	if err != nil {
		return nil, err
	}
	cfg.Argon2MemoryKiB = uint32(mem)

	it, err := getInt("ARGON2_TIME", 3, 1, math.MaxUint32)
	if err != nil {
		return nil, err
	}
	cfg.Argon2Time = uint32(it)

	th, err := getInt("ARGON2_THREADS", 1, 1, math.MaxUint8)
	if err != nil {
		return nil, err
	}
	cfg.Argon2Threads = uint8(th)

	hc, err := getInt("HASH_CONCURRENCY", 4, 1, 1024)
	if err != nil {
		return nil, err
	}
	cfg.HashConcurrency = int64(hc)

	// Bootstrap admin: both or neither
	if (cfg.BootstrapAdminEmail == "") != (cfg.BootstrapAdminPassword == "") {
		return nil, fmt.Errorf("BOOTSTRAP_ADMIN_EMAIL and BOOTSTRAP_ADMIN_PASSWORD must be set together")
	}

	//Timeout values are optional and have a default value if not
	if cfg.HTTPReadTimeout, err = getDuration("HTTP_READ_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.HTTPWriteTimeout, err = getDuration("HTTP_WRITE_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.HTTPIdleTimeout, err = getDuration("HTTP_IDLE_TIMEOUT", time.Minute); err != nil {
		return nil, err
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid duration for %s: %q: %w", key, v, err)
	}
	return d, nil
}

func getBool(key string, def bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid bool for %s: %q: %w", key, v, err)
	}
	return b, nil
}

// getInt parses key as an integer within [lo, hi].
func getInt(key string, def, lo, hi int64) (int64, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid integer for %s: %q: %w", key, v, err)
	}
	if n < lo || n > hi {
		return 0, fmt.Errorf("%s out of range [%d, %d]: %d", key, lo, hi, n)
	}
	return n, nil
}
