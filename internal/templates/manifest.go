package templates

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/computelabs/create-computelabs-app/internal/answers"
	oerrors "github.com/computelabs/create-computelabs-app/internal/errors"
	"github.com/computelabs/create-computelabs-app/internal/output"
	"github.com/computelabs/create-computelabs-app/internal/version"
)

//go:embed schema.cue
var manifestSchema []byte

var (
	schemaOnce  sync.Once
	schemaCtx   *cue.Context
	schemaValue cue.Value
	schemaErr   error
)

// ProjectTypeDescriptor is one selectable project type.
type ProjectTypeDescriptor struct {
	ID        answers.ProjectType `json:"id" yaml:"id"`
	Label     string              `json:"label" yaml:"label"`
	Overlay   string              `json:"overlay,omitempty" yaml:"overlay,omitempty"`
	Questions []string            `json:"questions,omitempty" yaml:"questions,omitempty"`
}

// Manifest is the template repository manifest. It is read once per run and
// never modified.
type Manifest struct {
	NodeVersion  string                  `json:"nodeVersion" yaml:"nodeVersion"`
	Overlays     []string                `json:"overlays" yaml:"overlays"`
	ProjectTypes []ProjectTypeDescriptor `json:"projectTypes" yaml:"projectTypes"`
}

// LoadManifest reads and validates the repository manifest.
func (r *Repository) LoadManifest() (*Manifest, error) {
	data, err := fs.ReadFile(r.fsys, ManifestFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, oerrors.NewNotFoundError(
				"template manifest not found",
				r.source+"/"+ManifestFile,
				"The template repository root must contain manifest.yaml",
			)
		}
		return nil, oerrors.NewFilesystemError("cannot read template manifest", ManifestFile, err)
	}

	m, err := ParseManifest(data)
	if err != nil {
		var detail *oerrors.DetailError
		if errors.As(err, &detail) && detail.Location == "" {
			detail.Location = r.source + "/" + ManifestFile
		}
		return nil, err
	}

	output.Debug("loaded template manifest",
		"source", r.source,
		"types", len(m.ProjectTypes),
		"overlays", len(m.Overlays),
	)
	return m, nil
}

// ParseManifest decodes YAML manifest bytes, checks them against the CUE
// schema and then checks the cross references the schema cannot express.
func ParseManifest(data []byte) (*Manifest, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, oerrors.NewValidationError(fmt.Sprintf("malformed manifest: %v", err), "", "", "")
	}
	if raw == nil {
		return nil, oerrors.NewValidationError("manifest is empty", "", "", "")
	}

	schema, err := manifestDefinition()
	if err != nil {
		return nil, fmt.Errorf("compiling manifest schema: %w", err)
	}

	v := schema.Unify(schemaCtx.Encode(raw))
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, oerrors.NewValidationError(
			fmt.Sprintf("manifest does not match schema: %v", err), "", "", "")
	}

	var m Manifest
	if err := v.Decode(&m); err != nil {
		return nil, oerrors.NewValidationError(fmt.Sprintf("decoding manifest: %v", err), "", "", "")
	}

	if err := m.check(); err != nil {
		return nil, err
	}
	return &m, nil
}

func manifestDefinition() (cue.Value, error) {
	schemaOnce.Do(func() {
		schemaCtx = cuecontext.New()
		compiled := schemaCtx.CompileBytes(manifestSchema, cue.Filename("schema.cue"))
		if err := compiled.Err(); err != nil {
			schemaErr = err
			return
		}
		schemaValue = compiled.LookupPath(cue.ParsePath("#Manifest"))
		schemaErr = schemaValue.Err()
	})
	return schemaValue, schemaErr
}

func (m *Manifest) check() error {
	if _, err := version.ParseConstraint(m.NodeVersion); err != nil {
		return oerrors.NewValidationError(
			fmt.Sprintf("nodeVersion %q is not a valid semver range: %v", m.NodeVersion, err),
			"", "nodeVersion", "Use a range such as \">=18.17.0\"")
	}

	seen := make(map[answers.ProjectType]bool)
	for _, pt := range m.ProjectTypes {
		if seen[pt.ID] {
			return oerrors.NewValidationError(
				fmt.Sprintf("project type %q is declared twice", pt.ID), "", "projectTypes", "")
		}
		seen[pt.ID] = true

		if pt.Overlay != "" && !slices.Contains(m.Overlays, pt.Overlay) {
			return oerrors.NewValidationError(
				fmt.Sprintf("project type %q references overlay %q which is not listed in overlays", pt.ID, pt.Overlay),
				"", "projectTypes."+string(pt.ID)+".overlay", "")
		}
	}
	return nil
}

// Lookup returns the descriptor for t.
func (m *Manifest) Lookup(t answers.ProjectType) (ProjectTypeDescriptor, bool) {
	for _, pt := range m.ProjectTypes {
		if pt.ID == t {
			return pt, true
		}
	}
	return ProjectTypeDescriptor{}, false
}

// OverlayFor returns the single overlay applied for t, if any.
func (m *Manifest) OverlayFor(t answers.ProjectType) (string, bool) {
	pt, ok := m.Lookup(t)
	if !ok || pt.Overlay == "" {
		return "", false
	}
	return pt.Overlay, true
}

// Choices converts the declared project types to prompt choices.
func (m *Manifest) Choices() []answers.TypeChoice {
	out := make([]answers.TypeChoice, 0, len(m.ProjectTypes))
	for _, pt := range m.ProjectTypes {
		out = append(out, answers.TypeChoice{ID: pt.ID, Label: pt.Label, Questions: pt.Questions})
	}
	return out
}
