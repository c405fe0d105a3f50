package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"
)

// Env holds settings taken from the process environment. They become the
// defaults for the matching command-line flags.
type Env struct {
	Repo    string `env:"TALLY_REPO" envDefault:"."`
	Verbose bool   `env:"TALLY_VERBOSE"`
}

// LoadEnv reads Env, first seeding the environment from the given dotenv
// files (or ./.env when none are given). Missing files are ignored and
// variables already set are never overridden.
func LoadEnv(files ...string) (Env, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Env{Repo: "."}, fmt.Errorf("loading .env: %w", err)
	}
	var e Env
	if err := env.Parse(&e); err != nil {
		return Env{Repo: "."}, fmt.Errorf("parsing environment: %w", err)
	}
	return e, nil
}
