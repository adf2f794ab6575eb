package config

import (
	"fmt"

	"github.com/joho/godotenv"
)

// LoadEnvFile loads KEY=VALUE pairs from path into the process environment.
// Variables that are already set win, so an explicit SOURCE_DATE_EPOCH from the
// build pipeline is never overridden by a checked-in file.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}
