package config

import (
	"os"

	"github.com/computelabs/create-computelabs-app/internal/output"
)

// ConfigSource indicates where a configuration value came from.
type ConfigSource string

const (
	// SourceFlag indicates value came from command-line flag.
	SourceFlag ConfigSource = "flag"
	// SourceEnv indicates value came from environment variable.
	SourceEnv ConfigSource = "env"
	// SourceConfig indicates value came from config file.
	SourceConfig ConfigSource = "config"
	// SourceDefault indicates value is the built-in default.
	SourceDefault ConfigSource = "default"
)

// ResolvedValue is a single configuration value with its provenance.
type ResolvedValue struct {
	Key    string
	Value  string
	Source ConfigSource
	// Shadowed contains values that were overridden by higher precedence.
	Shadowed map[ConfigSource]string
}

// ResolveStringOptions describes one string setting to resolve.
type ResolveStringOptions struct {
	Key          string
	FlagValue    string
	EnvVar       string
	ConfigValue  string
	DefaultValue string
}

// ResolveString resolves a value using precedence flag > env > config > default.
// Empty strings count as unset at every level.
func ResolveString(opts ResolveStringOptions) ResolvedValue {
	result := ResolvedValue{
		Key:      opts.Key,
		Shadowed: make(map[ConfigSource]string),
	}

	var envValue string
	if opts.EnvVar != "" {
		envValue = os.Getenv(opts.EnvVar)
	}

	candidates := []struct {
		source ConfigSource
		value  string
	}{
		{SourceFlag, opts.FlagValue},
		{SourceEnv, envValue},
		{SourceConfig, opts.ConfigValue},
		{SourceDefault, opts.DefaultValue},
	}

	for _, c := range candidates {
		if c.value == "" {
			continue
		}
		if result.Source == "" {
			result.Value = c.value
			result.Source = c.source
			continue
		}
		result.Shadowed[c.source] = c.value
	}

	return result
}

// ResolveConfigPathOptions contains options for config path resolution.
type ResolveConfigPathOptions struct {
	// FlagValue is the --config flag value (empty if not set).
	FlagValue string
}

// ResolveConfigPath resolves the config file path using precedence:
// (1) --config flag, (2) CCA_CONFIG env, (3) the XDG default.
func ResolveConfigPath(opts ResolveConfigPathOptions) ResolvedValue {
	return ResolveString(ResolveStringOptions{
		Key:          "config",
		FlagValue:    opts.FlagValue,
		EnvVar:       "CCA_CONFIG",
		DefaultValue: DefaultPaths().ConfigFile,
	})
}

// ResolveAllOptions carries raw flag values and the loaded file config.
type ResolveAllOptions struct {
	ConfigFlag       string
	TemplatesDirFlag string
	AuthorFlag       string
	TypeFlag         string
	NoGitFlag        bool
	Config           *Config
}

// ResolvedConfig is the effective configuration for one invocation.
type ResolvedConfig struct {
	ConfigPath   ResolvedValue
	TemplatesDir ResolvedValue
	Author       ResolvedValue
	DefaultType  ResolvedValue
	GitInit      bool
	// GitInitialCommit is only meaningful when GitInit is true.
	GitInitialCommit bool
}

// ResolveAll resolves every setting used by the create pipeline.
func ResolveAll(opts ResolveAllOptions) *ResolvedConfig {
	cfg := opts.Config
	if cfg == nil {
		cfg = DefaultConfig()
	}

	return &ResolvedConfig{
		ConfigPath: ResolveConfigPath(ResolveConfigPathOptions{FlagValue: opts.ConfigFlag}),
		TemplatesDir: ResolveString(ResolveStringOptions{
			Key:         "templatesDir",
			FlagValue:   opts.TemplatesDirFlag,
			EnvVar:      "CCA_TEMPLATES_DIR",
			ConfigValue: cfg.TemplatesDir,
		}),
		Author: ResolveString(ResolveStringOptions{
			Key:         "author",
			FlagValue:   opts.AuthorFlag,
			EnvVar:      "CCA_AUTHOR",
			ConfigValue: cfg.Author,
		}),
		DefaultType: ResolveString(ResolveStringOptions{
			Key:          "type",
			FlagValue:    opts.TypeFlag,
			EnvVar:       "CCA_DEFAULT_TYPE",
			ConfigValue:  cfg.DefaultType,
			DefaultValue: "standard",
		}),
		GitInit:          !opts.NoGitFlag && cfg.GitInit(),
		GitInitialCommit: cfg.GitInitialCommit(),
	}
}

// Values returns the resolved string values in a stable order.
func (r *ResolvedConfig) Values() []ResolvedValue {
	return []ResolvedValue{r.ConfigPath, r.TemplatesDir, r.Author, r.DefaultType}
}

// LogResolvedValues logs configuration resolution at DEBUG level.
func LogResolvedValues(values []ResolvedValue) {
	for _, v := range values {
		output.Debug("config value resolved",
			"key", v.Key,
			"value", v.Value,
			"source", v.Source,
		)
		for source, shadowed := range v.Shadowed {
			output.Debug("  shadowed by higher precedence",
				"key", v.Key,
				"shadowed_source", source,
				"shadowed_value", shadowed,
			)
		}
	}
}
