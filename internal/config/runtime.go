package config

import (
	"os"
	"path/filepath"
)

const defaultRuntimeDir = ".climaqa"

// GetRuntimePath is usable before any config is parsed, e.g. to locate .env.
func GetRuntimePath() string {
	return resolveRuntimePath(os.Getenv("CLIMAQA_RUNTIME_PATH"))
}

// EnvPath is the .env file inside a runtime directory.
func EnvPath(runtimePath string) string {
	return filepath.Join(runtimePath, ".env")
}

func resolveRuntimePath(path string) string {
	if path == "" {
		path = defaultRuntimeDir
	}

	if !filepath.IsAbs(path) {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path)
	}
	return path
}
