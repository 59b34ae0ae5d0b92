package answers

import (
	"context"
	"errors"

	"github.com/charmbracelet/huh"
)

// HuhPrompter asks questions in the terminal with charmbracelet/huh forms.
type HuhPrompter struct {
	// Accessible switches huh to its screen-reader friendly mode.
	Accessible bool
}

// NewHuhPrompter creates a terminal prompter.
func NewHuhPrompter() *HuhPrompter {
	return &HuhPrompter{}
}

func (p *HuhPrompter) run(ctx context.Context, field huh.Field) error {
	form := huh.NewForm(huh.NewGroup(field)).
		WithAccessible(p.Accessible).
		WithShowHelp(true)

	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ErrAborted
		}
		return err
	}
	return nil
}

// Input asks for free text.
func (p *HuhPrompter) Input(ctx context.Context, title, placeholder string) (string, error) {
	var value string
	err := p.run(ctx, huh.NewInput().
		Title(title).
		Placeholder(placeholder).
		Value(&value))
	return value, err
}

// Select asks for one option.
func (p *HuhPrompter) Select(ctx context.Context, title string, options []Option, initial string) (string, error) {
	value := initial
	err := p.run(ctx, huh.NewSelect[string]().
		Title(title).
		Options(huhOptions(options, nil)...).
		Value(&value))
	return value, err
}

// MultiSelect asks for one or more options.
func (p *HuhPrompter) MultiSelect(ctx context.Context, title string, options []Option, initial []string) ([]string, error) {
	value := append([]string(nil), initial...)
	err := p.run(ctx, huh.NewMultiSelect[string]().
		Title(title).
		Options(huhOptions(options, initial)...).
		Validate(func(v []string) error {
			if len(v) == 0 {
				return errors.New("select at least one option")
			}
			return nil
		}).
		Value(&value))
	return value, err
}

// Confirm asks a yes/no question.
func (p *HuhPrompter) Confirm(ctx context.Context, title string, initial bool) (bool, error) {
	value := initial
	err := p.run(ctx, huh.NewConfirm().
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(&value))
	return value, err
}

func huhOptions(options []Option, selected []string) []huh.Option[string] {
	out := make([]huh.Option[string], 0, len(options))
	for _, o := range options {
		opt := huh.NewOption(o.Label, o.Value)
		for _, s := range selected {
			if s == o.Value {
				opt = opt.Selected(true)
			}
		}
		out = append(out, opt)
	}
	return out
}
