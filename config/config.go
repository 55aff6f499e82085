// Package config loads server configuration from the environment,
// optionally seeded from a .env file.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Defaults mirror the original service's fallback values.
const (
	DefaultMemoryLimit = 16_000_000
	DefaultDataPath    = "./.db_data"
	DefaultBindURL     = "127.0.0.1:8000"
)

// Config holds the values read from the environment at startup.
type Config struct {
	MemoryLimit int64
	DataPath    string
	BindURL     string
}

// Load reads .env (if present; a missing file is not an error, same
// as the original's dotenv().ok()) and then MEMORY_LIMIT, DATA_PATH,
// and BIND_URL from the environment, falling back to defaults.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Config{}, err
	}

	cfg := Config{
		MemoryLimit: DefaultMemoryLimit,
		DataPath:    DefaultDataPath,
		BindURL:     DefaultBindURL,
	}
	if v := os.Getenv("MEMORY_LIMIT"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return Config{}, err
		}
		cfg.MemoryLimit = n
	}
	if v := os.Getenv("DATA_PATH"); v != "" {
		cfg.DataPath = v
	}
	if v := os.Getenv("BIND_URL"); v != "" {
		cfg.BindURL = v
	}
	return cfg, nil
}
