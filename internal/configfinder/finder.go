// Package configfinder locates the configuration directory and the
// configuration files in it.
package configfinder

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/logparser/logparser-go/pkg/logparser/configfile"
)

// EnvConfigDir is the environment variable name for specifying the config
// directory.
const EnvConfigDir = "LOGPARSER_CONFIG_DIR"

// DefaultConfigDir is used, relative to the working directory, when neither
// an explicit directory nor EnvConfigDir is set.
const DefaultConfigDir = "configs"

// Sentinel errors.
var (
	ErrConfigDirNotFound = errors.New("config directory not found")
	ErrConfigNotFound    = errors.New("config not found")
)

// FindConfigDir returns the configuration directory.
//
// Priority:
//  1. explicit (if non-empty)
//  2. LOGPARSER_CONFIG_DIR environment variable
//  3. DefaultConfigDir, created when create is true
//
// The returned path has symlinks resolved.
func FindConfigDir(explicit string, create bool) (string, error) {
	if explicit != "" {
		if resolved := resolveDir(explicit); resolved != "" {
			return resolved, nil
		}
		return "", fmt.Errorf("%w: specified directory is invalid", ErrConfigDirNotFound)
	}

	if envDir := os.Getenv(EnvConfigDir); envDir != "" {
		if resolved := resolveDir(envDir); resolved != "" {
			return resolved, nil
		}
		return "", fmt.Errorf("%w: %s environment variable points to invalid directory", ErrConfigDirNotFound, EnvConfigDir)
	}

	if create {
		if err := os.MkdirAll(DefaultConfigDir, 0o755); err != nil {
			return "", fmt.Errorf("creating config directory: %w", err)
		}
	}
	if resolved := resolveDir(DefaultConfigDir); resolved != "" {
		return resolved, nil
	}
	return "", ErrConfigDirNotFound
}

// List returns the names, without extension, of the configuration files in
// dir, sorted. When several files share a name the first extension in
// configfile.Extensions wins, so a name appears once.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading config directory: %w", err)
	}

	seen := make(map[string]bool)
	var names []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		if _, err := configfile.DetectFormat(e.Name()); err != nil {
			continue
		}
		name := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		if seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Resolve maps nameOrPath to a configuration file. An existing file path is
// returned as is; otherwise nameOrPath is looked up in dir with each of
// configfile.Extensions in turn.
func Resolve(dir, nameOrPath string) (string, error) {
	if nameOrPath == "" {
		return "", fmt.Errorf("%w: empty name", ErrConfigNotFound)
	}
	if isRegular(nameOrPath) {
		return nameOrPath, nil
	}
	if dir != "" {
		for _, ext := range configfile.Extensions {
			candidate := filepath.Join(dir, nameOrPath+ext)
			if isRegular(candidate) {
				return candidate, nil
			}
		}
	}
	return "", fmt.Errorf("%w: %q", ErrConfigNotFound, nameOrPath)
}

func isRegular(path string) bool {
	info, err := os.Lstat(path)
	return err == nil && info.Mode().IsRegular()
}

// resolveDir resolves symlinks and checks the result is a directory.
// Returns the resolved path if valid, empty string otherwise.
func resolveDir(dir string) string {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return ""
	}
	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return ""
	}
	abs, err := filepath.Abs(resolved)
	if err != nil {
		return ""
	}
	return abs
}
