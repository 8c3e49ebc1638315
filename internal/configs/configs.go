// Package configs loads optional per-project CLI defaults from a
// .sealed.toml file next to the env file. The core encryption and
// document code never reads it; it only pre-fills command-line flag
// defaults.
package configs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// SettingsFile is the optional per-project settings file name.
const SettingsFile = ".sealed.toml"

// Settings are CLI defaults. Zero values mean "not configured".
type Settings struct {
	// EnvFile overrides the default .env path.
	EnvFile string `toml:"env_file"`

	// KeyFile is a default --key-file path.
	KeyFile string `toml:"key_file"`
}

// Load reads SettingsFile from dir. A missing file is not an error and
// yields zero Settings.
func Load(dir string) (Settings, error) {
	var s Settings

	if _, err := toml.DecodeFile(filepath.Join(dir, SettingsFile), &s); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Settings{}, nil
		}
		return Settings{}, fmt.Errorf("failed to read %s: %w", SettingsFile, err)
	}

	return s, nil
}
