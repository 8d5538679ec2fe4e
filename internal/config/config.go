package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	TokenStoreFile   = "file"
	TokenStoreRedis  = "redis"
	TokenStoreMemory = "memory"
)

type Config struct {
	APIURL      string
	HTTPTimeout time.Duration
	RateLimit   float64
	RateBurst   int

	TokenStore    string
	TokenFile     string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	Timezone     string
	DismissAfter time.Duration

	LogLevel  string
	LogPretty bool

	// API stub (dev/testes)
	StubPort  string
	StubSeed  bool
	JWTSecret string
}

// Load lê o .env (se existir) e depois as variáveis de ambiente.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		APIURL:      getEnv("FINDCUT_API_URL", "http://localhost:3001/api"),
		HTTPTimeout: getEnvAsDuration("HTTP_TIMEOUT", 15*time.Second),
		RateLimit:   getEnvAsFloat("API_RATE_LIMIT", 0),
		RateBurst:   getEnvAsInt("API_RATE_BURST", 5),

		TokenStore:    strings.ToLower(strings.TrimSpace(getEnv("TOKEN_STORE", TokenStoreFile))),
		TokenFile:     getEnv("TOKEN_FILE", defaultTokenFile()),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		Timezone:     getEnv("TIMEZONE", "America/Sao_Paulo"),
		DismissAfter: getEnvAsDuration("BOOKING_DISMISS_AFTER", 900*time.Millisecond),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogPretty: getEnvAsBool("LOG_PRETTY", true),

		StubPort:  getEnv("STUB_API_PORT", "3001"),
		StubSeed:  getEnvAsBool("STUB_SEED", true),
		JWTSecret: getEnv("JWT_SECRET", "changeme"),
	}
}

func (c *Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("FINDCUT_API_URL is invalid: %q", c.APIURL)
	}

	switch c.TokenStore {
	case TokenStoreFile:
		if c.TokenFile == "" {
			return fmt.Errorf("TOKEN_FILE is required when TOKEN_STORE=file")
		}
	case TokenStoreRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required when TOKEN_STORE=redis")
		}
	case TokenStoreMemory:
	default:
		return fmt.Errorf("TOKEN_STORE must be one of file, redis, memory (got %q)", c.TokenStore)
	}

	if c.DismissAfter < 0 {
		return fmt.Errorf("BOOKING_DISMISS_AFTER must not be negative")
	}

	return nil
}

func (c *Config) StubAddr() string {
	return fmt.Sprintf(":%s", c.StubPort)
}

func defaultTokenFile() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return ".findcut-token"
	}
	return filepath.Join(dir, "findcut", "token")
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvAsInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getEnvAsFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func getEnvAsBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getEnvAsDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
