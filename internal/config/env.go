package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

const (
	EnvDataDir  = "VERLET_DATA"
	EnvStore    = "VERLET_STORE"
	EnvLogLevel = "VERLET_LOG_LEVEL"
)

// Env holds defaults that command-line flags fall back to.
type Env struct {
	DataDir  string
	Store    string
	LogLevel string
}

func DefaultEnv() Env {
	return Env{DataDir: "./data", Store: "file", LogLevel: "info"}
}

// LoadEnv reads the given dotenv files (".env" when none are named) into the
// process environment without overriding variables that are already set,
// then resolves Env from it. Missing files are ignored.
func LoadEnv(files ...string) (Env, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Env{}, err
		}
	}

	env := DefaultEnv()
	if v := os.Getenv(EnvDataDir); v != "" {
		env.DataDir = v
	}
	if v := os.Getenv(EnvStore); v != "" {
		env.Store = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		env.LogLevel = v
	}
	return env, nil
}
