package answers

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	oerrors "github.com/computelabs/create-computelabs-app/internal/errors"
	"github.com/computelabs/create-computelabs-app/internal/output"
)

// Option is one choice offered by a select prompt.
type Option struct {
	Label string
	Value string
}

// Prompter asks the user questions. ErrAborted (or any error wrapping it)
// means the user gave up and maps to a cancelled run.
type Prompter interface {
	Input(ctx context.Context, title, placeholder string) (string, error)
	Select(ctx context.Context, title string, options []Option, initial string) (string, error)
	MultiSelect(ctx context.Context, title string, options []Option, initial []string) ([]string, error)
	Confirm(ctx context.Context, title string, initial bool) (bool, error)
}

// ErrAborted is returned by prompters when the user aborts (Ctrl+C).
var ErrAborted = errors.New("prompt aborted")

// TypeChoice describes a project type offered to the user, as declared by
// the template manifest.
type TypeChoice struct {
	ID        ProjectType
	Label     string
	Questions []string
}

// Preset carries values supplied up front through flags or configuration.
// A nil pointer field means "not supplied".
type Preset struct {
	Description *string
	Author      *string
	Type        *ProjectType
	Providers   []Provider
	Examples    *bool
	Network     *Network
	Defi        *bool
}

// Collector gathers a complete Set. In non-interactive mode every missing
// value takes its default; in interactive mode missing values are asked.
type Collector struct {
	// Prompter is required when Interactive is true.
	Prompter    Prompter
	Interactive bool

	// Types lists the selectable project types. Empty means all types.
	Types []TypeChoice

	// DefaultType is preselected, or used directly in non-interactive mode.
	DefaultType ProjectType

	// DefaultAuthor is offered when the author is not preset, for example
	// the git user name.
	DefaultAuthor string
}

// Collect returns the validated answer set for projectName.
func (c *Collector) Collect(ctx context.Context, projectName string, preset Preset) (Set, error) {
	if c.Interactive && c.Prompter == nil {
		return Set{}, fmt.Errorf("interactive collection requires a prompter")
	}

	set := Set{ProjectName: projectName}

	var err error
	if set.Description, err = c.stringAnswer(ctx, preset.Description, "Project description", "A modern web application"); err != nil {
		return Set{}, err
	}
	if set.Author, err = c.stringAnswer(ctx, preset.Author, "Author name", c.DefaultAuthor); err != nil {
		return Set{}, err
	}
	if set.Author == "" {
		set.Author = c.DefaultAuthor
	}

	if set.Type, err = c.projectType(ctx, preset.Type); err != nil {
		return Set{}, err
	}

	for _, q := range c.questionsFor(set.Type) {
		switch q {
		case QuestionAIProviders:
			set.Providers, err = c.providers(ctx, preset.Providers)
		case QuestionIncludeExamples:
			set.IncludeExamples, err = c.boolAnswer(ctx, preset.Examples, "Include AI example pages and API routes?", true)
		case QuestionSolanaNetwork:
			set.Network, err = c.network(ctx, preset.Network)
		case QuestionIncludeDefi:
			set.IncludeDefi, err = c.boolAnswer(ctx, preset.Defi, "Include DeFi features (token swap)?", true)
		default:
			output.Debug("ignoring unknown manifest question", "question", q)
		}
		if err != nil {
			return Set{}, err
		}
	}

	set = set.Normalize()
	if err := set.Validate(); err != nil {
		return Set{}, err
	}

	output.Debug("answers collected",
		"type", set.Type,
		"providers", len(set.Providers),
		"network", set.Network,
	)
	return set, nil
}

// questionsFor returns the follow-up questions for t: the manifest's list
// when declared, otherwise the type defaults. Questions the type's
// invariants need are always included.
func (c *Collector) questionsFor(t ProjectType) []string {
	qs := DefaultQuestions(t)
	for _, choice := range c.Types {
		if choice.ID == t && len(choice.Questions) > 0 {
			qs = append([]string(nil), choice.Questions...)
		}
	}
	if t.RequiresAI() && !slices.Contains(qs, QuestionAIProviders) {
		qs = append(qs, QuestionAIProviders)
	}
	if t.RequiresWeb3() && !slices.Contains(qs, QuestionSolanaNetwork) {
		qs = append(qs, QuestionSolanaNetwork)
	}
	return qs
}

func (c *Collector) stringAnswer(ctx context.Context, preset *string, title, placeholder string) (string, error) {
	if preset != nil {
		return strings.TrimSpace(*preset), nil
	}
	if !c.Interactive {
		return "", nil
	}
	v, err := c.Prompter.Input(ctx, title, placeholder)
	if err != nil {
		return "", promptError(err)
	}
	return strings.TrimSpace(v), nil
}

func (c *Collector) boolAnswer(ctx context.Context, preset *bool, title string, def bool) (bool, error) {
	if preset != nil {
		return *preset, nil
	}
	if !c.Interactive {
		return def, nil
	}
	v, err := c.Prompter.Confirm(ctx, title, def)
	if err != nil {
		return false, promptError(err)
	}
	return v, nil
}

func (c *Collector) projectType(ctx context.Context, preset *ProjectType) (ProjectType, error) {
	if preset != nil {
		return *preset, nil
	}

	def := c.DefaultType
	if !def.Valid() {
		def = TypeStandard
	}
	if !c.Interactive {
		return def, nil
	}

	choices := c.Types
	if len(choices) == 0 {
		for _, t := range ProjectTypes() {
			choices = append(choices, TypeChoice{ID: t, Label: t.Label()})
		}
	}
	options := make([]Option, 0, len(choices))
	for _, choice := range choices {
		label := choice.Label
		if label == "" {
			label = choice.ID.Label()
		}
		options = append(options, Option{Label: label, Value: string(choice.ID)})
	}

	v, err := c.Prompter.Select(ctx, "Which type of project do you want to create?", options, string(def))
	if err != nil {
		return "", promptError(err)
	}
	return ParseProjectType(v)
}

func (c *Collector) providers(ctx context.Context, preset []Provider) ([]Provider, error) {
	if len(preset) > 0 {
		return preset, nil
	}
	if !c.Interactive {
		return []Provider{ProviderOpenAI}, nil
	}

	options := make([]Option, 0, len(Providers()))
	for _, p := range Providers() {
		options = append(options, Option{Label: p.Label(), Value: string(p)})
	}
	values, err := c.Prompter.MultiSelect(ctx, "Select AI providers", options, []string{string(ProviderOpenAI)})
	if err != nil {
		return nil, promptError(err)
	}
	return ParseProviders(values)
}

func (c *Collector) network(ctx context.Context, preset *Network) (Network, error) {
	if preset != nil {
		return *preset, nil
	}
	if !c.Interactive {
		return NetworkDevnet, nil
	}

	options := make([]Option, 0, len(Networks()))
	for _, n := range Networks() {
		options = append(options, Option{Label: n.Label(), Value: string(n)})
	}
	v, err := c.Prompter.Select(ctx, "Select Solana network", options, string(NetworkDevnet))
	if err != nil {
		return "", promptError(err)
	}
	return ParseNetwork(v)
}

// promptError maps an aborted prompt to a cancellation.
func promptError(err error) error {
	if errors.Is(err, ErrAborted) {
		return oerrors.ErrCancelled
	}
	return fmt.Errorf("prompting: %w", err)
}
