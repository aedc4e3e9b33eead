package config

import (
	"os"
	"path/filepath"
)

// FindConfig locates the pipeline config file. It first looks for
// config.<ext> in the experiments directory itself, then walks up the
// directory tree for a .hxp.<ext> file.
func FindConfig(dir string) string {
	exts := []string{"toml", "yml", "yaml", "json"}

	for _, ext := range exts {
		path := filepath.Join(dir, "config."+ext)

		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	for {
		for _, ext := range exts {
			path := filepath.Join(dir, ".hxp."+ext)

			if _, err := os.Stat(path); err == nil {
				return path
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}

		dir = parent
	}

	return ""
}
