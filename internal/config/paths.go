package config

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// AppDirName is the directory name used under XDG base directories.
const AppDirName = "create-computelabs-app"

// Paths contains standard filesystem paths for create-computelabs-app.
type Paths struct {
	// ConfigDir is $XDG_CONFIG_HOME/create-computelabs-app.
	ConfigDir string

	// ConfigFile is the path to the config file inside ConfigDir.
	ConfigFile string
}

// DefaultPaths returns the default paths.
func DefaultPaths() *Paths {
	dir := filepath.Join(xdg.ConfigHome, AppDirName)
	return &Paths{
		ConfigDir:  dir,
		ConfigFile: filepath.Join(dir, "config.yaml"),
	}
}

// GetConfigFile returns the config file path.
// If CCA_CONFIG is set, it takes precedence.
func GetConfigFile() (string, error) {
	if envPath := os.Getenv("CCA_CONFIG"); envPath != "" {
		return envPath, nil
	}
	return DefaultPaths().ConfigFile, nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if len(path) == 0 {
		return path, nil
	}

	if path[0] != '~' {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	if len(path) == 1 {
		return homeDir, nil
	}

	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, path[2:]), nil
	}

	// ~username is not supported
	return path, nil
}
