//go:build !windows

package config

import (
	"os"
	"path/filepath"
)

func picturesDir() string {
	if dir := os.Getenv("XDG_PICTURES_DIR"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, "Pictures")
}
