package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/computelabs/create-computelabs-app/internal/output"
	"github.com/computelabs/create-computelabs-app/internal/version"
)

// NewVersionCmd creates the version command.
func NewVersionCmd(detect version.NodeDetector) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Show create-computelabs-app version information.

Displays:
  - CLI version, commit, and build date
  - Node.js runtime found on PATH`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			ctx := c.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			output.Println(version.FullVersionString(version.Get(), detect(ctx)))
			return nil
		},
	}
}
