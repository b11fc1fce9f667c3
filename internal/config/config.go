package config

import (
	"errors"
	"os"
	"time"

	env "github.com/caarlos0/env/v7"
	"github.com/joho/godotenv"
)

type Config struct {
	Port           string        `env:"PORT" envDefault:"8080"`
	BackendURL     string        `env:"BACKEND_API_URL" envDefault:"http://localhost:3000"`
	BackendTimeout time.Duration `env:"BACKEND_TIMEOUT" envDefault:"10s"`
	SessionSecret  string        `env:"SESSION_SECRET" envDefault:"super_secret_key"`
	LogLevel       string        `env:"LOG_LEVEL" envDefault:"info"`
}

// New loads .env (if present) and parses the environment. A missing .env file
// is not an error; anything else is.
func New(envPath string) (Config, error) {
	var c Config

	if err := godotenv.Load(envPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, err
	}

	if err := env.Parse(&c); err != nil {
		return Config{}, err
	}

	return c, nil
}
