package cmd

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/computelabs/create-computelabs-app/internal/answers"
	"github.com/computelabs/create-computelabs-app/internal/cmdtypes"
	"github.com/computelabs/create-computelabs-app/internal/cmdutil"
	oerrors "github.com/computelabs/create-computelabs-app/internal/errors"
	"github.com/computelabs/create-computelabs-app/internal/output"
	"github.com/computelabs/create-computelabs-app/internal/pipeline"
	"github.com/computelabs/create-computelabs-app/internal/project"
	"github.com/computelabs/create-computelabs-app/internal/templates"
	"github.com/computelabs/create-computelabs-app/internal/vcs"
	"github.com/computelabs/create-computelabs-app/internal/version"
)

// gitClient is the part of vcs.Git the create command uses.
type gitClient interface {
	pipeline.GitInitializer
	UserName(ctx context.Context) string
}

// cmdEnv holds the process-level collaborators of the commands. Tests
// replace them to avoid real prompts, git and node.
type cmdEnv struct {
	fs          afero.Fs
	git         gitClient
	detectNode  version.NodeDetector
	prompter    answers.Prompter
	interactive func() bool
}

func defaultEnv() *cmdEnv {
	return &cmdEnv{
		fs:          afero.NewOsFs(),
		git:         vcs.New(),
		detectNode:  version.DetectNode,
		prompter:    answers.NewHuhPrompter(),
		interactive: output.IsInputTTY,
	}
}

func runCreate(cmd *cobra.Command, args []string, cfg *cmdtypes.GlobalConfig, flags *cmdutil.CreateFlags, env *cmdEnv) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	interactive := !flags.Yes && env.interactive()

	output.Println(output.FormatBanner("create-computelabs-app"))

	name, err := projectName(ctx, args, interactive, env.prompter)
	if err != nil {
		return cmdutil.ExitErrorFor("project creation failed", err)
	}

	preset, err := flags.Preset(cmd)
	if err != nil {
		return cmdutil.ExitErrorFor("project creation failed", err)
	}

	repo, err := cfg.Repository()
	if err != nil {
		return cmdutil.ExitErrorFor("cannot open template repository", err)
	}
	output.Debug("using template repository", "source", repo.Source())

	collector := &answers.Collector{
		Prompter:      env.prompter,
		Interactive:   interactive,
		DefaultType:   defaultType(cfg),
		DefaultAuthor: defaultAuthor(ctx, cfg, env.git),
	}

	p := &pipeline.Pipeline{
		Repo: repo,
		Fs:   env.fs,
		Resolver: &project.Resolver{
			Fs:          env.fs,
			Force:       flags.Force,
			Interactive: interactive,
			Confirm: func(ctx context.Context, message string) (bool, error) {
				ok, err := env.prompter.Confirm(ctx, message, false)
				if errors.Is(err, answers.ErrAborted) {
					return false, oerrors.ErrCancelled
				}
				return ok, err
			},
		},
		Collector:  collector,
		Git:        env.git,
		DetectNode: env.detectNode,
		Step: func(ctx context.Context, title string, fn func() error) error {
			return output.RunWithSpinner(ctx, fn, output.WithTitle(title))
		},
		ManifestLoaded: func(m *templates.Manifest) {
			collector.Types = m.Choices()
		},
	}

	res, err := p.Run(ctx, pipeline.Options{
		ProjectName: name,
		Preset:      preset,
		Git:         cfg.Resolved.GitInit,
		GitCommit:   cfg.Resolved.GitInitialCommit,
	})
	if err != nil {
		return cmdutil.ExitErrorFor("project creation failed", err)
	}

	printSummary(res, cfg.Verbose)
	return nil
}

// projectName returns the positional name, asking for it when missing in
// interactive mode.
func projectName(ctx context.Context, args []string, interactive bool, prompter answers.Prompter) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	if !interactive {
		return "", &oerrors.DetailError{
			Type:    "validation failed",
			Message: "a project name is required",
			Field:   "project-name",
			Hint:    "Run create-computelabs-app my-app",
			Cause:   oerrors.ErrValidation,
		}
	}

	name, err := prompter.Input(ctx, "Project name", "my-app")
	if err != nil {
		if errors.Is(err, answers.ErrAborted) {
			return "", oerrors.ErrCancelled
		}
		return "", err
	}
	return strings.TrimSpace(name), nil
}

// defaultType returns the configured default project type, falling back to
// standard when the configured value is unknown.
func defaultType(cfg *cmdtypes.GlobalConfig) answers.ProjectType {
	resolved := cfg.Resolved.DefaultType
	t, err := answers.ParseProjectType(resolved.Value)
	if err != nil {
		output.Warn("ignoring configured default project type", "source", resolved.Source, "error", err)
		return answers.TypeStandard
	}
	return t
}

// defaultAuthor returns the configured author, or the git user name.
func defaultAuthor(ctx context.Context, cfg *cmdtypes.GlobalConfig, git gitClient) string {
	if author := cfg.Resolved.Author.Value; author != "" {
		return author
	}
	return git.UserName(ctx)
}
