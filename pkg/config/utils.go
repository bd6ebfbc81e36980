package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// findEnvFile resolves name against dir and each of its ancestors in turn,
// returning the path of the closest regular file with that name. An empty
// name means ".env". Absolute names are only checked as given. It returns
// an error wrapping os.ErrNotExist once the filesystem root is passed.
func findEnvFile(dir, name string) (string, error) {
	if name == "" {
		name = ".env"
	}
	if filepath.IsAbs(name) {
		if isRegularFile(name) {
			return name, nil
		}
		return "", fmt.Errorf("env file %s: %w", name, os.ErrNotExist)
	}

	for curr := filepath.Clean(dir); ; {
		if candidate := filepath.Join(curr, name); isRegularFile(candidate) {
			return candidate, nil
		}
		parent := filepath.Dir(curr)
		if parent == curr {
			return "", fmt.Errorf("env file %s not found above %s: %w", name, dir, os.ErrNotExist)
		}
		curr = parent
	}
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
