package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Environment variable prefix for configuration.
const envPrefix = "CCA"

// envBindings maps config keys to their environment variables.
var envBindings = map[string]string{
	"author":            "CCA_AUTHOR",
	"templatesDir":      "CCA_TEMPLATES_DIR",
	"defaultType":       "CCA_DEFAULT_TYPE",
	"git.init":          "CCA_GIT_INIT",
	"git.initialCommit": "CCA_GIT_INITIAL_COMMIT",
	"log.timestamps":    "CCA_LOG_TIMESTAMPS",
}

// Loader handles loading and merging configuration from a file and the
// environment.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	v := viper.New()

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	return &Loader{v: v}
}

// Load loads configuration from the given file path.
// If configFile is empty, the default path is used. A missing file is not an
// error. Environment variables take precedence over file values.
func (l *Loader) Load(configFile string) (*Config, error) {
	if configFile == "" {
		var err error
		configFile, err = GetConfigFile()
		if err != nil {
			return nil, fmt.Errorf("getting config file path: %w", err)
		}
	}

	expandedPath, err := ExpandPath(configFile)
	if err != nil {
		return nil, fmt.Errorf("expanding config path: %w", err)
	}

	l.v.SetConfigFile(expandedPath)
	l.v.SetConfigType("yaml")

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config file %s: %w", expandedPath, err)
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// LoadWithDefaults loads configuration and applies defaults.
func (l *Loader) LoadWithDefaults(configFile string) (*Config, error) {
	cfg, err := l.Load(configFile)
	if err != nil {
		return nil, err
	}
	return cfg.WithDefaults(), nil
}

// Source reports whether key was set in the environment or config file.
func (l *Loader) Source(key string) ConfigSource {
	if envKey, ok := envBindings[key]; ok {
		if _, set := os.LookupEnv(envKey); set {
			return SourceEnv
		}
	}
	if l.v.InConfig(key) {
		return SourceConfig
	}
	return SourceDefault
}
