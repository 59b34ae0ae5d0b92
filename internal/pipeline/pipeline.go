// Package pipeline sequences project creation: manifest, runtime check,
// answers, target directory, composition, merge, substitution, env files
// and git. Any fatal error after the target directory is prepared rolls it
// back.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"github.com/computelabs/create-computelabs-app/internal/answers"
	"github.com/computelabs/create-computelabs-app/internal/compose"
	oerrors "github.com/computelabs/create-computelabs-app/internal/errors"
	"github.com/computelabs/create-computelabs-app/internal/envfile"
	"github.com/computelabs/create-computelabs-app/internal/output"
	"github.com/computelabs/create-computelabs-app/internal/pkgjson"
	"github.com/computelabs/create-computelabs-app/internal/project"
	"github.com/computelabs/create-computelabs-app/internal/substitute"
	"github.com/computelabs/create-computelabs-app/internal/templates"
	"github.com/computelabs/create-computelabs-app/internal/vcs"
	"github.com/computelabs/create-computelabs-app/internal/version"
)

// AnswerCollector produces the answer set for a project.
type AnswerCollector interface {
	Collect(ctx context.Context, projectName string, preset answers.Preset) (answers.Set, error)
}

// GitInitializer initializes a repository in a generated project.
type GitInitializer interface {
	Init(ctx context.Context, dir string, commit bool) (vcs.InitResult, error)
}

// StepRunner runs a long phase, for example behind a spinner.
type StepRunner func(ctx context.Context, title string, fn func() error) error

// Options configures one run.
type Options struct {
	ProjectName string
	Preset      answers.Preset

	// Git enables repository initialization; GitCommit additionally makes
	// the initial commit.
	Git       bool
	GitCommit bool
}

// Result describes a successful run.
type Result struct {
	Target      *project.Target
	Answers     answers.Set
	Overlay     string
	Node        version.NodeInfo
	Compose     *compose.Result
	Merge       *pkgjson.MergeReport
	Substituted []string
	EnvFiles    []string
	Git         vcs.InitResult
	Warnings    []Warning
}

// Files maps every generated file to its origin, for the summary tree.
func (r *Result) Files() map[string]string {
	files := r.Compose.Origins()
	if r.Merge != nil && r.Merge.Changed() {
		files[pkgjson.ManifestFile] = "base + overlay dependencies"
	}
	for _, f := range r.EnvFiles {
		files[f] = "generated"
	}
	return files
}

// Pipeline holds the collaborators of a run.
type Pipeline struct {
	Repo      *templates.Repository
	Fs        afero.Fs
	Resolver  *project.Resolver
	Collector AnswerCollector
	Git       GitInitializer

	// DetectNode defaults to version.DetectNode.
	DetectNode version.NodeDetector

	// Now defaults to time.Now.
	Now func() time.Time

	// Step defaults to calling fn directly.
	Step StepRunner

	// ManifestLoaded, when set, is called with the validated manifest
	// before answers are collected.
	ManifestLoaded func(*templates.Manifest)
}

// Run creates a project. A nil error always comes with a complete project
// on disk; a non-nil error after the target phase comes with the target
// rolled back.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*Result, error) {
	res := &Result{}

	manifest, err := p.Repo.LoadManifest()
	if err != nil {
		return nil, &PhaseError{Phase: PhaseManifest, Err: err}
	}
	if p.ManifestLoaded != nil {
		p.ManifestLoaded(manifest)
	}

	if res.Node, err = p.checkRuntime(ctx, manifest); err != nil {
		return nil, &PhaseError{Phase: PhaseRuntime, Err: err}
	}
	if !res.Node.Found {
		res.Warnings = append(res.Warnings, Warning{
			Phase:   PhaseRuntime,
			Message: fmt.Sprintf("Node.js not found; the generated project requires node %s", manifest.NodeVersion),
		})
	}

	// Reject a bad name before asking any question.
	if _, err := p.Resolver.Inspect(opts.ProjectName); err != nil {
		return nil, &PhaseError{Phase: PhaseTarget, Err: err}
	}

	set, err := p.Collector.Collect(ctx, opts.ProjectName, opts.Preset)
	if err != nil {
		return nil, &PhaseError{Phase: PhaseAnswers, Err: err}
	}
	res.Answers = set

	target, err := p.Resolver.Resolve(ctx, opts.ProjectName)
	if err != nil {
		return nil, &PhaseError{Phase: PhaseTarget, Err: err}
	}
	res.Target = target

	if err := p.generate(ctx, manifest, target, opts, res); err != nil {
		return nil, p.rollback(target, err)
	}

	if opts.Git {
		p.initGit(ctx, target.Path, opts.GitCommit, res)
	}

	return res, nil
}

// generate runs the phases that write into the target directory.
func (p *Pipeline) generate(ctx context.Context, manifest *templates.Manifest, target *project.Target, opts Options, res *Result) error {
	log := output.ProjectLogger(opts.ProjectName)

	base, err := p.Repo.Base()
	if err != nil {
		return &PhaseError{Phase: PhaseCompose, Err: err}
	}

	overlay, err := p.overlay(manifest, res)
	if err != nil {
		return &PhaseError{Phase: PhaseCompose, Err: err}
	}

	err = p.step(ctx, "Copying template files...", func() error {
		r, err := compose.New(p.Fs).Compose(base, overlay, target.Path)
		res.Compose = r
		return err
	})
	if err != nil {
		return &PhaseError{Phase: PhaseCompose, Err: err}
	}
	log.Debug("template composed", "files", len(res.Compose.Files()), "overlay", res.Overlay)

	report, err := pkgjson.MergeFile(p.Fs, target.Path, overlay)
	switch {
	case err != nil:
		res.Warnings = append(res.Warnings, Warning{
			Phase:   PhaseMerge,
			Message: "could not merge overlay dependencies; package.json keeps the base dependencies",
			Err:     err,
		})
	case report == nil:
		if err := pkgjson.NormalizeFile(p.Fs, target.Path); err != nil {
			res.Warnings = append(res.Warnings, Warning{
				Phase:   PhaseMerge,
				Message: "could not normalize package.json; it is left as copied",
				Err:     err,
			})
		}
	}
	res.Merge = report

	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	changed, err := substitute.New(p.Fs).Apply(target.Path, substitute.ValuesFor(res.Answers, now()))
	if err != nil {
		return &PhaseError{Phase: PhaseSubstitute, Err: err}
	}
	res.Substituted = changed

	if res.EnvFiles, err = envfile.Write(p.Fs, target.Path, res.Answers); err != nil {
		return &PhaseError{Phase: PhaseEnv, Err: err}
	}
	return nil
}

// overlay selects the one overlay for the answered type. A declared
// overlay missing from the repository is skipped with a warning.
func (p *Pipeline) overlay(manifest *templates.Manifest, res *Result) (fs.FS, error) {
	name, ok := manifest.OverlayFor(res.Answers.Type)
	if !ok {
		return nil, nil
	}
	overlay, found, err := p.Repo.Overlay(name)
	if err != nil {
		return nil, err
	}
	if !found {
		res.Warnings = append(res.Warnings, Warning{
			Phase:   PhaseCompose,
			Message: fmt.Sprintf("overlay %q is missing from the template repository; generating the base template only", name),
		})
		return nil, nil
	}
	res.Overlay = name
	return overlay, nil
}

func (p *Pipeline) checkRuntime(ctx context.Context, manifest *templates.Manifest) (version.NodeInfo, error) {
	detect := p.DetectNode
	if detect == nil {
		detect = version.DetectNode
	}
	info := detect(ctx)
	if !info.Found {
		output.Debug("node not detected", "reason", info.Message)
		return info, nil
	}

	ok, err := version.Satisfies(info.Version, manifest.NodeVersion)
	if err != nil {
		return info, oerrors.NewVersionError(
			fmt.Sprintf("cannot compare node version: %v", err),
			map[string]string{"Detected": info.Version, "Required": manifest.NodeVersion},
			"")
	}
	if !ok {
		return info, oerrors.NewVersionError(
			fmt.Sprintf("node %s does not satisfy the required range %s", info.Version, manifest.NodeVersion),
			map[string]string{"Detected": info.Version, "Required": manifest.NodeVersion, "Path": info.Path},
			"Install a supported Node.js release, for example with nvm",
		)
	}
	output.Debug("node version ok", "version", info.Version, "required", manifest.NodeVersion)
	return info, nil
}

func (p *Pipeline) initGit(ctx context.Context, dir string, commit bool, res *Result) {
	if p.Git == nil {
		return
	}
	r, err := p.Git.Init(ctx, dir, commit)
	res.Git = r
	if err == nil {
		return
	}
	msg := "could not initialize a git repository"
	if errors.Is(err, vcs.ErrGitNotFound) {
		msg = "git is not installed; skipped repository initialization"
	} else if r.Initialized {
		msg = "git repository initialized but the initial commit failed"
	}
	res.Warnings = append(res.Warnings, Warning{Phase: PhaseGit, Message: msg, Err: err})
}

func (p *Pipeline) step(ctx context.Context, title string, fn func() error) error {
	if p.Step == nil {
		return fn()
	}
	return p.Step(ctx, title, fn)
}

// rollback undoes the target directory after a fatal error. A directory
// this run created or cleared is removed; a directory that was already
// empty is emptied again.
func (p *Pipeline) rollback(target *project.Target, cause error) error {
	var pe *PhaseError
	if !errors.As(cause, &pe) {
		pe = &PhaseError{Phase: PhaseCompose, Err: cause}
	}

	// A target that existed empty beforehand, such as a mount point, is kept.
	var err error
	if target.Created || target.Cleared {
		err = p.Fs.RemoveAll(target.Path)
	} else {
		err = p.emptyDir(target.Path)
	}
	if err != nil {
		pe.RollbackErr = err
		output.Warn("could not remove partial project", "path", target.Path, "error", err)
		return pe
	}
	pe.RolledBack = true
	output.Debug("rolled back partial project", "path", target.Path)
	return pe
}

func (p *Pipeline) emptyDir(dir string) error {
	entries, err := afero.ReadDir(p.Fs, dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if err := p.Fs.RemoveAll(filepath.Join(dir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}
