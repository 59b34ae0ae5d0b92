package harness

import (
	"context"
	"fmt"
	iofs "io/fs"
	"path"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/computelabs/create-computelabs-app/internal/compose"
	"github.com/computelabs/create-computelabs-app/internal/envfile"
	"github.com/computelabs/create-computelabs-app/internal/output"
	"github.com/computelabs/create-computelabs-app/internal/pkgjson"
	"github.com/computelabs/create-computelabs-app/internal/templates"
)

// Check kinds.
const (
	KindStructure  = "structure"
	KindFile       = "file"
	KindDependency = "dependency"
	KindForbidden  = "forbidden"
	KindGenerate   = "generate"
)

// Check is the outcome of one assertion.
type Check struct {
	Kind    string
	Subject string
	Passed  bool
	Detail  string
}

// ScenarioReport holds the checks of one scenario.
type ScenarioReport struct {
	Name     string
	Dir      string
	Checks   []Check
	Warnings []string
}

// Passed reports whether every check of the scenario passed.
func (s *ScenarioReport) Passed() bool {
	for _, c := range s.Checks {
		if !c.Passed {
			return false
		}
	}
	return true
}

// Failures returns the failed checks.
func (s *ScenarioReport) Failures() []Check {
	var out []Check
	for _, c := range s.Checks {
		if !c.Passed {
			out = append(out, c)
		}
	}
	return out
}

// Report is the result of a harness run.
type Report struct {
	Structure []Check
	Scenarios []*ScenarioReport

	// ScratchDir is where projects were generated. It is removed after the
	// run unless Options.Keep is set.
	ScratchDir string
}

// StructureOK reports whether the repository layout checks passed.
func (r *Report) StructureOK() bool {
	for _, c := range r.Structure {
		if !c.Passed {
			return false
		}
	}
	return true
}

// Passed reports whether the structure and every scenario passed.
func (r *Report) Passed() bool {
	if !r.StructureOK() || len(r.Scenarios) == 0 {
		return false
	}
	for _, s := range r.Scenarios {
		if !s.Passed() {
			return false
		}
	}
	return true
}

// ScenarioDir returns where the named scenario was generated.
func (r *Report) ScenarioDir(name string) string {
	return filepath.Join(r.ScratchDir, name)
}

// Options configures a run.
type Options struct {
	// Fs holds the scratch directory. Defaults to the OS filesystem.
	Fs afero.Fs

	// ScratchDir overrides the generated temporary directory.
	ScratchDir string

	// Keep leaves generated projects on disk.
	Keep bool

	// Scenarios defaults to Scenarios().
	Scenarios []Scenario
}

// Run validates the repository structure and then generates and checks
// every scenario. Problems are reported in the Report; the error is only
// for failures of the harness itself.
func Run(ctx context.Context, repo *templates.Repository, manifest *templates.Manifest, opts Options) (*Report, error) {
	fs := opts.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	scenarios := opts.Scenarios
	if scenarios == nil {
		scenarios = Scenarios()
	}

	report := &Report{Structure: checkStructure(repo, manifest)}
	if !report.StructureOK() {
		output.Debug("template structure invalid, skipping scenarios")
		return report, nil
	}

	scratch := opts.ScratchDir
	if scratch == "" {
		dir, err := afero.TempDir(fs, "", "create-computelabs-app-validate-")
		if err != nil {
			return nil, fmt.Errorf("creating scratch directory: %w", err)
		}
		scratch = dir
	}
	report.ScratchDir = scratch
	if !opts.Keep {
		defer func() {
			if err := fs.RemoveAll(scratch); err != nil {
				output.Warn("could not remove scratch directory", "path", scratch, "error", err)
			}
		}()
	}

	for _, sc := range scenarios {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		report.Scenarios = append(report.Scenarios, runScenario(fs, repo, manifest, scratch, sc))
	}
	return report, nil
}

func checkStructure(repo *templates.Repository, manifest *templates.Manifest) []Check {
	var checks []Check
	add := func(subject string, err error) {
		c := Check{Kind: KindStructure, Subject: subject, Passed: err == nil}
		if err != nil {
			c.Detail = err.Error()
		}
		checks = append(checks, c)
	}

	base, err := repo.Base()
	add(templates.BaseDir+"/", err)
	if err == nil {
		_, err = iofs.Stat(base, pkgjson.ManifestFile)
		add(path.Join(templates.BaseDir, pkgjson.ManifestFile), err)
	}

	for _, name := range manifest.Overlays {
		_, ok, err := repo.Overlay(name)
		if err == nil && !ok {
			err = fmt.Errorf("overlay directory is missing")
		}
		add(path.Join(templates.OptionalDir, name)+"/", err)
	}
	return checks
}

func runScenario(fs afero.Fs, repo *templates.Repository, manifest *templates.Manifest, scratch string, sc Scenario) *ScenarioReport {
	dir := filepath.Join(scratch, sc.Name)
	rep := &ScenarioReport{Name: sc.Name, Dir: dir}
	fail := func(err error) *ScenarioReport {
		rep.Checks = append(rep.Checks, Check{Kind: KindGenerate, Subject: sc.Name, Detail: err.Error()})
		return rep
	}

	if err := fs.RemoveAll(dir); err != nil {
		return fail(err)
	}
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return fail(err)
	}

	base, err := repo.Base()
	if err != nil {
		return fail(err)
	}
	overlay, err := scenarioOverlay(repo, manifest, sc)
	if err != nil {
		return fail(err)
	}

	if _, err := compose.New(fs).Compose(base, overlay, dir); err != nil {
		return fail(err)
	}
	if _, err := pkgjson.MergeFile(fs, dir, overlay); err != nil {
		rep.Warnings = append(rep.Warnings, fmt.Sprintf("could not merge package.json: %v", err))
	}
	if _, err := envfile.Write(fs, dir, sc.Answers); err != nil {
		return fail(err)
	}

	for _, f := range sc.RequiredFiles {
		ok, err := afero.Exists(fs, filepath.Join(dir, filepath.FromSlash(f)))
		c := Check{Kind: KindFile, Subject: f, Passed: ok && err == nil}
		if !c.Passed {
			c.Detail = "missing required file"
		}
		rep.Checks = append(rep.Checks, c)
	}

	for _, f := range sc.ForbiddenPaths {
		ok, _ := afero.Exists(fs, filepath.Join(dir, filepath.FromSlash(f)))
		c := Check{Kind: KindForbidden, Subject: f, Passed: !ok}
		if ok {
			c.Detail = "path must not be generated for this project type"
		}
		rep.Checks = append(rep.Checks, c)
	}

	rep.Checks = append(rep.Checks, checkDependencies(fs, dir, sc.RequiredDependencies)...)
	return rep
}

// scenarioOverlay returns the overlay declared for the scenario's type. The
// structure check has already confirmed it exists.
func scenarioOverlay(repo *templates.Repository, manifest *templates.Manifest, sc Scenario) (iofs.FS, error) {
	name, ok := manifest.OverlayFor(sc.Answers.Type)
	if !ok {
		return nil, nil
	}
	overlay, found, err := repo.Overlay(name)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("overlay %q is missing", name)
	}
	return overlay, nil
}

func checkDependencies(fs afero.Fs, dir string, required []string) []Check {
	if len(required) == 0 {
		return nil
	}
	data, err := afero.ReadFile(fs, filepath.Join(dir, pkgjson.ManifestFile))
	if err == nil {
		var m *pkgjson.Manifest
		if m, err = pkgjson.Parse(data); err == nil {
			checks := make([]Check, 0, len(required))
			for _, dep := range required {
				c := Check{Kind: KindDependency, Subject: dep, Passed: m.Has(dep)}
				if !c.Passed {
					c.Detail = "missing dependency"
				}
				checks = append(checks, c)
			}
			return checks
		}
	}
	return []Check{{Kind: KindDependency, Subject: pkgjson.ManifestFile, Detail: fmt.Sprintf("cannot read: %v", err)}}
}
