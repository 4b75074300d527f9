package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads KEY=VALUE pairs from the given files into the process
// environment without overriding variables that are already set.
// Missing files are skipped.
func LoadDotEnv(files ...string) error {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// ProviderEnvVar names the plain env var that carries the provider key.
func ProviderEnvVar(provider string) string {
	switch provider {
	case ProviderSerpAPI:
		return "SERPAPI_KEY"
	case ProviderJSearch:
		return "RAPIDAPI_KEY"
	}
	return ""
}
