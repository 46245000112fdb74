package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	dailysession "github.com/hanja-cards/backend/internal/domain/daily_session"
	"github.com/hanja-cards/backend/internal/store"
)

type Config struct {
	// Storage
	CatalogPath string // JSON or YAML item list
	StoreDriver string // sqlite, badger or memory
	StorePath   string // file for sqlite, directory for badger

	// Session sizing
	DailyBaseCount     int
	ExtraWrongMax      int
	ExtraRandomOptions []int

	WriteQueueSize int
}

// ServerConfig adds the settings only the HTTP server needs.
type ServerConfig struct {
	*Config
	ServerAddress   string
	ShutdownTimeout time.Duration
}

// Load reads .env if present, then the environment. Invalid values are fatal.
func Load() *Config {
	_ = godotenv.Load()
	cfg, err := FromEnv()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	return cfg
}

// LoadServer is Load plus the required server variables.
func LoadServer() *ServerConfig {
	cfg := Load()
	return &ServerConfig{
		Config:          cfg,
		ServerAddress:   mustGetenv("SERVER_ADDRESS"),
		ShutdownTimeout: mustGetDuration("SHUTDOWN_TIMEOUT"),
	}
}

// FromEnv reads the optional settings without touching .env.
func FromEnv() (*Config, error) {
	defaults := dailysession.DefaultConfig()

	cfg := &Config{
		CatalogPath: getenvDefault("CATALOG_PATH", "data/hanja4_cards.json"),
		StoreDriver: getenvDefault("STORE_DRIVER", store.DriverSQLite),
		StorePath:   getenvDefault("STORE_PATH", "hanja.db"),
	}

	var err error
	if cfg.DailyBaseCount, err = getenvInt("DAILY_BASE_COUNT", defaults.DailyBaseCount); err != nil {
		return nil, err
	}
	if cfg.ExtraWrongMax, err = getenvInt("EXTRA_WRONG_MAX", defaults.ExtraWrongMax); err != nil {
		return nil, err
	}
	if cfg.ExtraRandomOptions, err = getenvInts("EXTRA_RANDOM_OPTIONS", defaults.ExtraRandomOptions); err != nil {
		return nil, err
	}
	if cfg.WriteQueueSize, err = getenvInt("WRITE_QUEUE_SIZE", 64); err != nil {
		return nil, err
	}

	switch cfg.StoreDriver {
	case store.DriverSQLite, store.DriverBadger, store.DriverMemory:
	default:
		return nil, fmt.Errorf("STORE_DRIVER=%q must be one of sqlite, badger, memory", cfg.StoreDriver)
	}

	return cfg, nil
}

// Session returns the session sizing settings.
func (c *Config) Session() dailysession.Config {
	return dailysession.Config{
		DailyBaseCount:     c.DailyBaseCount,
		ExtraRandomOptions: append([]int(nil), c.ExtraRandomOptions...),
		ExtraWrongMax:      c.ExtraWrongMax,
	}
}

func mustGetenv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("config: required environment variable %s is not set", k)
	}
	return v
}

func mustGetDuration(k string) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("config: required environment variable %s is not set", k)
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("config: %s=%q is not a valid duration: %v", k, v, err)
	}
	return d
}

func getenvDefault(k, fallback string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return fallback
}

func getenvInt(k string, fallback int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s=%q is not a positive integer", k, v)
	}
	return n, nil
}

// getenvInts parses a comma-separated list such as "10,20,30".
func getenvInts(k string, fallback []int) ([]int, error) {
	v := os.Getenv(k)
	if v == "" {
		return fallback, nil
	}
	var out []int
	for _, part := range strings.Split(v, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("%s=%q must be a list of positive integers", k, v)
		}
		out = append(out, n)
	}
	return out, nil
}
