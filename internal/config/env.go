package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// Settings are process-level defaults read from the environment
type Settings struct {
	RulesFile string
	Format    string
	Addr      string
	LogLevel  string
	Env       string
}

// DefaultSettings are used for any variable that is unset
var DefaultSettings = Settings{
	Format:   "console",
	Addr:     ":8080",
	LogLevel: "info",
	Env:      "development",
}

// LoadEnvironment loads the given .env files (".env" when none are given)
// and reads JPTAX_* variables. A missing .env file is not an error.
func LoadEnvironment(files ...string) (Settings, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Settings{}, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	s := DefaultSettings
	s.RulesFile = getEnv("JPTAX_RULES", s.RulesFile)
	s.Format = getEnv("JPTAX_FORMAT", s.Format)
	s.Addr = getEnv("JPTAX_ADDR", s.Addr)
	s.LogLevel = getEnv("JPTAX_LOG_LEVEL", s.LogLevel)
	s.Env = getEnv("JPTAX_ENV", s.Env)
	return s, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
