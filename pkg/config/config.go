// Package config loads cmd/mstrun's Config struct from a .env file or the
// environment with cleanenv, then validates it with go-playground/validator
// struct tags (e.g. Algorithm's validate:"oneof=prim-seq kruskal-seq
// prim-par kruskal-par").
package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
)

// Load populates cfg from .env if present, falling back to the process
// environment, then validates the result.
func Load[T any](cfg *T) error {
	if err := cleanenv.ReadConfig(".env", cfg); err != nil {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return fmt.Errorf("failed to read env config: %w", err)
		}
	}

	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	return nil
}
