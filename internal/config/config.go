// Package config provides user configuration loading and resolution.
package config

// GitConfig contains version control settings for generated projects.
type GitConfig struct {
	// Init controls whether a git repository is initialized.
	// Env: CCA_GIT_INIT, Default: true
	Init *bool `mapstructure:"init" yaml:"init,omitempty"`

	// InitialCommit controls whether the generated files are committed.
	// Env: CCA_GIT_INITIAL_COMMIT, Default: true
	InitialCommit *bool `mapstructure:"initialCommit" yaml:"initialCommit,omitempty"`
}

// LogConfig contains logging-related settings.
type LogConfig struct {
	// Timestamps controls whether timestamps are shown in log output.
	// Default: true. Override with --timestamps flag.
	Timestamps *bool `mapstructure:"timestamps" yaml:"timestamps,omitempty"`
}

// Config represents the create-computelabs-app user configuration, loaded
// from $XDG_CONFIG_HOME/create-computelabs-app/config.yaml.
type Config struct {
	// Author is the default author name written into generated projects.
	// Env: CCA_AUTHOR
	Author string `mapstructure:"author" yaml:"author,omitempty"`

	// TemplatesDir is an on-disk template repository used instead of the
	// embedded one.
	// Env: CCA_TEMPLATES_DIR
	TemplatesDir string `mapstructure:"templatesDir" yaml:"templatesDir,omitempty"`

	// DefaultType is the project type preselected in interactive mode.
	// Env: CCA_DEFAULT_TYPE
	DefaultType string `mapstructure:"defaultType" yaml:"defaultType,omitempty"`

	Git GitConfig `mapstructure:"git" yaml:"git,omitempty"`
	Log LogConfig `mapstructure:"log" yaml:"log,omitempty"`
}

// DefaultConfig returns a Config with all default values populated.
func DefaultConfig() *Config {
	return &Config{
		DefaultType: "standard",
		Git: GitConfig{
			Init:          boolPtr(true),
			InitialCommit: boolPtr(true),
		},
		Log: LogConfig{
			Timestamps: boolPtr(true),
		},
	}
}

// WithDefaults fills unset fields from DefaultConfig and returns c.
func (c *Config) WithDefaults() *Config {
	d := DefaultConfig()
	if c.DefaultType == "" {
		c.DefaultType = d.DefaultType
	}
	if c.Git.Init == nil {
		c.Git.Init = d.Git.Init
	}
	if c.Git.InitialCommit == nil {
		c.Git.InitialCommit = d.Git.InitialCommit
	}
	if c.Log.Timestamps == nil {
		c.Log.Timestamps = d.Log.Timestamps
	}
	return c
}

// GitInit reports whether git initialization is enabled.
func (c *Config) GitInit() bool {
	return c.Git.Init == nil || *c.Git.Init
}

// GitInitialCommit reports whether the initial commit is enabled.
func (c *Config) GitInitialCommit() bool {
	return c.Git.InitialCommit == nil || *c.Git.InitialCommit
}

func boolPtr(b bool) *bool {
	return &b
}
