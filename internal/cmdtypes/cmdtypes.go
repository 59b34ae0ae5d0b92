// Package cmdtypes provides shared types for the cmd package and its sub-packages.
// It is separate from internal/cmd to avoid import cycles between internal/cmd
// and internal/cmd/templates.
package cmdtypes

import (
	"github.com/computelabs/create-computelabs-app/internal/config"
	"github.com/computelabs/create-computelabs-app/internal/templates"
)

// GlobalConfig holds CLI-wide configuration resolved during PersistentPreRunE.
// It is populated once at startup and passed explicitly into every sub-command
// constructor.
type GlobalConfig struct {
	// Config is the loaded user configuration with defaults applied.
	Config *config.Config

	// Resolved holds the effective values with their sources.
	Resolved *config.ResolvedConfig

	Verbose bool
}

// TemplatesDir returns the resolved on-disk template root, or "" for the
// embedded repository.
func (g *GlobalConfig) TemplatesDir() string {
	if g == nil || g.Resolved == nil {
		return ""
	}
	return g.Resolved.TemplatesDir.Value
}

// Repository opens the template repository selected by --templates,
// CCA_TEMPLATES_DIR or the config file, falling back to the embedded one.
func (g *GlobalConfig) Repository() (*templates.Repository, error) {
	if dir := g.TemplatesDir(); dir != "" {
		return templates.FromDir(dir)
	}
	return templates.Embedded(), nil
}
