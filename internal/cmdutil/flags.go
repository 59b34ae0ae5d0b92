// Package cmdutil provides shared command utilities: the create flag group
// and error reporting for the command layer.
package cmdutil

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/computelabs/create-computelabs-app/internal/answers"
	oerrors "github.com/computelabs/create-computelabs-app/internal/errors"
)

// CreateFlags holds the flags that preset answers or change how a project
// is created.
type CreateFlags struct {
	Type        string
	Description string
	Author      string
	Providers   []string
	Examples    bool
	Network     string
	Defi        bool

	Yes   bool
	Force bool
	NoGit bool
}

// AddTo registers the create flags on the given cobra command.
func (f *CreateFlags) AddTo(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.Type, "type", "t", "",
		"Project type: standard, ai, web3, ai-web3 (env: CCA_DEFAULT_TYPE)")
	cmd.Flags().StringVar(&f.Description, "description", "",
		"Project description")
	cmd.Flags().StringVar(&f.Author, "author", "",
		"Author name (env: CCA_AUTHOR, default: git user.name)")
	cmd.Flags().StringSliceVar(&f.Providers, "providers", nil,
		"AI providers: openai, anthropic, gemini, ollama (repeatable or comma separated)")
	cmd.Flags().BoolVar(&f.Examples, "examples", true,
		"Include AI example pages and API routes")
	cmd.Flags().StringVar(&f.Network, "network", "",
		"Solana network: devnet, testnet, mainnet-beta")
	cmd.Flags().BoolVar(&f.Defi, "defi", true,
		"Include DeFi features (token swap)")
	cmd.Flags().BoolVarP(&f.Yes, "yes", "y", false,
		"Accept defaults for every question not answered by a flag")
	cmd.Flags().BoolVarP(&f.Force, "force", "f", false,
		"Overwrite a non-empty target directory without asking")
	cmd.Flags().BoolVar(&f.NoGit, "no-git", false,
		"Skip git repository initialization")
}

// Preset converts the flags the user actually set into an answer preset.
// Flags left at their defaults stay unset so that they can still be asked.
func (f *CreateFlags) Preset(cmd *cobra.Command) (answers.Preset, error) {
	var p answers.Preset
	changed := cmd.Flags().Changed

	if changed("description") {
		p.Description = &f.Description
	}
	if changed("author") {
		p.Author = &f.Author
	}
	if changed("type") {
		t, err := answers.ParseProjectType(f.Type)
		if err != nil {
			return answers.Preset{}, flagError("type", err)
		}
		p.Type = &t
	}
	if changed("providers") {
		providers, err := answers.ParseProviders(f.Providers)
		if err != nil {
			return answers.Preset{}, flagError("providers", err)
		}
		p.Providers = providers
	}
	if changed("examples") {
		p.Examples = &f.Examples
	}
	if changed("network") {
		n, err := answers.ParseNetwork(f.Network)
		if err != nil {
			return answers.Preset{}, flagError("network", err)
		}
		p.Network = &n
	}
	if changed("defi") {
		p.Defi = &f.Defi
	}
	return p, nil
}

func flagError(flag string, err error) error {
	hint := ""
	var unknown *answers.UnknownValueError
	if errors.As(err, &unknown) && unknown.Suggestion != "" {
		hint = "Did you mean --" + flag + " " + unknown.Suggestion + "?"
	}
	return &oerrors.DetailError{
		Type:    "validation failed",
		Message: err.Error(),
		Field:   "--" + flag,
		Hint:    hint,
		Cause:   fmt.Errorf("%w: %w", oerrors.ErrValidation, err),
	}
}
