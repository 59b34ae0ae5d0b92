package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/computelabs/create-computelabs-app/internal/cmdtypes"
	"github.com/computelabs/create-computelabs-app/internal/cmdutil"
	oerrors "github.com/computelabs/create-computelabs-app/internal/errors"
	"github.com/computelabs/create-computelabs-app/internal/harness"
	"github.com/computelabs/create-computelabs-app/internal/output"
)

// NewValidateCmd creates the validate command.
func NewValidateCmd(cfg *cmdtypes.GlobalConfig) *cobra.Command {
	var keepFlag bool

	c := &cobra.Command{
		Use:   "validate",
		Short: "Validate the template repository",
		Long: `Validate the template repository by generating one project per type.

Checks:
  - base/, base/package.json and every overlay directory exist
  - each generated project contains the files its type needs
  - each generated project declares the dependencies its type needs
  - the standard project contains no AI or Web3 code

Examples:
  # Validate the embedded templates
  create-computelabs-app validate

  # Validate a working copy and keep the generated projects
  create-computelabs-app validate --templates ./templates --keep`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			ctx := c.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return runValidate(ctx, cfg, keepFlag)
		},
	}

	c.Flags().BoolVar(&keepFlag, "keep", false, "Keep the generated projects for inspection")

	return c
}

func runValidate(ctx context.Context, cfg *cmdtypes.GlobalConfig, keep bool) error {
	repo, err := cfg.Repository()
	if err != nil {
		return cmdutil.ExitErrorFor("cannot open template repository", err)
	}
	manifest, err := repo.LoadManifest()
	if err != nil {
		return cmdutil.ExitErrorFor("template validation failed", err)
	}

	output.Println(output.FormatBanner("Validating templates") + " " + output.StyleDim.Render(repo.Source()))

	report, err := harness.Run(ctx, repo, manifest, harness.Options{Keep: keep})
	if err != nil {
		return cmdutil.ExitErrorFor("template validation failed", err)
	}

	printReport(report, cfg.Verbose)

	if keep {
		for _, s := range report.Scenarios {
			output.Info("kept generated project", "scenario", s.Name, "path", report.ScenarioDir(s.Name))
		}
	}

	if !report.Passed() {
		failed := 0
		for _, s := range report.Scenarios {
			if !s.Passed() {
				failed++
			}
		}
		msg := "template structure is invalid"
		if report.StructureOK() {
			msg = fmt.Sprintf("%d of %d scenarios failed", failed, len(report.Scenarios))
		}
		output.Error("template validation failed", "reason", msg)
		return &oerrors.ExitError{
			Code:    oerrors.ExitGeneralError,
			Err:     oerrors.Wrap(oerrors.ErrValidation, msg),
			Printed: true,
		}
	}

	output.Println("")
	output.Println(output.StyleSummary.Render(fmt.Sprintf("All %d scenarios passed", len(report.Scenarios))))
	return nil
}

// printReport prints the structure checks and one block per scenario.
// Passing checks are only listed with --verbose.
func printReport(report *harness.Report, verbose bool) {
	output.Println("")
	for _, c := range report.Structure {
		if verbose || !c.Passed {
			printCheck("", c)
		}
	}

	for _, s := range report.Scenarios {
		output.Println("")
		line := fmt.Sprintf("%s (%d checks)", output.StyleNoun.Render(s.Name), len(s.Checks))
		if s.Passed() {
			output.Println(output.FormatCheckmark(line))
		} else {
			output.Println(output.FormatCross(line))
		}
		checks := s.Failures()
		if verbose {
			checks = s.Checks
		}
		for _, c := range checks {
			printCheck("    ", c)
		}
		for _, w := range s.Warnings {
			output.Println("    " + output.StatusStyle(output.StatusSkipped).Render("warning: "+w))
		}
	}
}

func printCheck(indent string, c harness.Check) {
	if c.Kind == harness.KindFile || c.Kind == harness.KindForbidden {
		status := output.StatusPassed
		if !c.Passed {
			status = output.StatusFailed
		}
		output.Println(indent + output.FormatFileLine(c.Subject, status))
		return
	}

	label := c.Kind + " " + c.Subject
	if c.Passed {
		output.Println(indent + output.FormatCheckmark(label))
		return
	}
	line := output.FormatCross(label)
	if c.Detail != "" {
		line += output.StyleDim.Render(" (" + c.Detail + ")")
	}
	output.Println(indent + line)
}
