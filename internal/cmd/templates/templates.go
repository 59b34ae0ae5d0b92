// Package templates provides the `create-computelabs-app templates` command group.
package templates

import (
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/computelabs/create-computelabs-app/internal/answers"
	"github.com/computelabs/create-computelabs-app/internal/cmdtypes"
	"github.com/computelabs/create-computelabs-app/internal/cmdutil"
	"github.com/computelabs/create-computelabs-app/internal/compose"
	oerrors "github.com/computelabs/create-computelabs-app/internal/errors"
	"github.com/computelabs/create-computelabs-app/internal/output"
	"github.com/computelabs/create-computelabs-app/internal/pkgjson"
	tmpl "github.com/computelabs/create-computelabs-app/internal/templates"
)

// previewDir is where previews are composed on the in-memory filesystem.
const previewDir = "/preview"

// NewTemplatesCmd creates the templates command group.
func NewTemplatesCmd(cfg *cmdtypes.GlobalConfig) *cobra.Command {
	c := &cobra.Command{
		Use:   "templates",
		Short: "Inspect project templates",
		Long: `Commands for discovering and inspecting the project templates.

The template repository is the embedded one unless --templates or
CCA_TEMPLATES_DIR points at a directory.`,
	}

	c.AddCommand(
		newListCmd(cfg),
		newShowCmd(cfg),
		newDiffCmd(cfg),
	)

	return c
}

func newListCmd(cfg *cmdtypes.GlobalConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List project types",
		Long:  `Lists the project types declared by the template manifest with their overlay and follow-up questions.`,
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return cmdutil.ExitErrorFor("cannot list templates", runList(cfg))
		},
	}
}

func newShowCmd(cfg *cmdtypes.GlobalConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "show <type>",
		Short: "Show the files a project type creates",
		Long: `Shows the file tree a project type creates and where each file comes
from: the base template, the overlay, or an overlay file replacing a base file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return cmdutil.ExitErrorFor("cannot show template", runShow(cfg, args[0]))
		},
	}
}

func newDiffCmd(cfg *cmdtypes.GlobalConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "diff <type>",
		Short: "Show the package.json changes of a project type",
		Long: `Shows how the overlay's package.json.snippet changes the base package.json
for a project type, as a structural YAML diff.`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return cmdutil.ExitErrorFor("cannot diff template", runDiff(cfg, args[0]))
		},
	}
}

func runList(cfg *cmdtypes.GlobalConfig) error {
	repo, manifest, err := load(cfg)
	if err != nil {
		return err
	}

	tbl := output.NewTable("TYPE", "LABEL", "OVERLAY", "QUESTIONS")
	for _, pt := range manifest.ProjectTypes {
		overlay := pt.Overlay
		if overlay == "" {
			overlay = "-"
		}
		questions := "-"
		if len(pt.Questions) > 0 {
			questions = strings.Join(pt.Questions, ", ")
		}
		tbl.Row(string(pt.ID), pt.Label, overlay, questions)
	}

	output.Println(fmt.Sprintf("Templates from %s (node %s)", output.StyleNoun.Render(repo.Source()), manifest.NodeVersion))
	output.Println(tbl.String())
	return nil
}

func runShow(cfg *cmdtypes.GlobalConfig, typeArg string) error {
	p, err := preview(cfg, typeArg)
	if err != nil {
		return err
	}

	files := p.compose.Origins()
	if p.merge != nil && p.merge.Changed() {
		files[pkgjson.ManifestFile] = "base + overlay dependencies"
	}

	label := p.typ.Label()
	if p.overlay != "" {
		label += " (" + p.overlay + ")"
	}
	output.Println(output.StyleSummary.Render(label))
	output.Print(output.RenderFileTree(string(p.typ), files))
	return nil
}

func runDiff(cfg *cmdtypes.GlobalConfig, typeArg string) error {
	p, err := preview(cfg, typeArg)
	if err != nil {
		return err
	}
	if p.merge == nil || !p.merge.Changed() {
		output.Println(fmt.Sprintf("%s does not change %s", p.typ.Label(), pkgjson.ManifestFile))
		return nil
	}

	diff, err := pkgjson.Diff(p.merge.Before, p.merge.After, output.IsTTY())
	if err != nil {
		return err
	}
	output.Print(diff)
	return nil
}

type previewResult struct {
	typ     answers.ProjectType
	overlay string
	compose *compose.Result
	merge   *pkgjson.MergeReport
}

// preview composes a project type on an in-memory filesystem.
func preview(cfg *cmdtypes.GlobalConfig, typeArg string) (*previewResult, error) {
	t, err := answers.ParseProjectType(typeArg)
	if err != nil {
		return nil, oerrors.NewValidationError(err.Error(), "", "type", "Run create-computelabs-app templates list")
	}

	repo, manifest, err := load(cfg)
	if err != nil {
		return nil, err
	}
	if _, ok := manifest.Lookup(t); !ok {
		return nil, oerrors.NewNotFoundError(
			fmt.Sprintf("project type %q is not declared by the manifest", t),
			tmpl.ManifestFile,
			"Run create-computelabs-app templates list",
		)
	}

	base, err := repo.Base()
	if err != nil {
		return nil, err
	}

	res := &previewResult{typ: t}
	var overlay fs.FS
	if name, ok := manifest.OverlayFor(t); ok {
		ov, found, err := repo.Overlay(name)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, oerrors.NewNotFoundError("overlay directory is missing",
				tmpl.OptionalDir+"/"+name, "Run create-computelabs-app validate")
		}
		overlay = ov
		res.overlay = name
	}

	mem := afero.NewMemMapFs()
	if res.compose, err = compose.New(mem).Compose(base, overlay, previewDir); err != nil {
		return nil, err
	}
	if res.merge, err = pkgjson.MergeFile(mem, previewDir, overlay); err != nil {
		return nil, err
	}
	return res, nil
}

func load(cfg *cmdtypes.GlobalConfig) (*tmpl.Repository, *tmpl.Manifest, error) {
	repo, err := cfg.Repository()
	if err != nil {
		return nil, nil, err
	}
	manifest, err := repo.LoadManifest()
	if err != nil {
		return nil, nil, err
	}
	return repo, manifest, nil
}
