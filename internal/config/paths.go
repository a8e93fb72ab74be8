package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths contains the resolved input and log locations
type Paths struct {
	ExecutableDir  string
	PostsFile      string
	BenchmarksFile string
	LogFile        string
}

// GetPaths resolves the configured files.
// Relative paths are tried against the working directory first and then
// against the directory holding the executable.
func (c *Config) GetPaths() (*Paths, error) {
	exeDir, err := executableDir()
	if err != nil {
		return nil, err
	}

	return &Paths{
		ExecutableDir:  exeDir,
		PostsFile:      resolvePath(c.Data.PostsFile, exeDir),
		BenchmarksFile: resolvePath(c.Data.BenchmarksFile, exeDir),
		LogFile:        resolvePath(c.Logging.FilePath, exeDir),
	}, nil
}

func executableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to get executable path: %w", err)
	}
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return "", fmt.Errorf("failed to resolve executable symlinks: %w", err)
	}
	return filepath.Dir(exe), nil
}

// resolvePath keeps absolute paths and paths that exist relative to the
// working directory; anything else is anchored at baseDir
func resolvePath(path, baseDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if _, err := os.Stat(path); err == nil {
		abs, err := filepath.Abs(path)
		if err == nil {
			return abs
		}
		return path
	}
	return filepath.Join(baseDir, path)
}
