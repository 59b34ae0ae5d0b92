// Package envfile renders the .env.local and .env.example files of a
// generated project.
package envfile

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/afero"

	"github.com/computelabs/create-computelabs-app/internal/answers"
	oerrors "github.com/computelabs/create-computelabs-app/internal/errors"
)

// File names.
const (
	LocalFile   = ".env.local"
	ExampleFile = ".env.example"
)

// Fixed values written into every matching project.
const (
	AppURL           = "http://localhost:3000"
	JupiterAPIURL    = "https://quote-api.jup.ag/v6"
	MonthlyBudgetUSD = "100"
)

var assignment = regexp.MustCompile(`^(#\s*)?([A-Za-z_][A-Za-z0-9_]*)=.*$`)

// Content is the rendered pair of env files.
type Content struct {
	Local   string
	Example string
}

type builder struct {
	strings.Builder
}

func (b *builder) section(title string) {
	if b.Len() > 0 {
		b.WriteString("\n")
	}
	b.WriteString("# " + title + "\n")
}

func (b *builder) set(key, value string) {
	b.WriteString(key + "=" + value + "\n")
}

func (b *builder) commented(key, value string) {
	b.WriteString("# " + key + "=" + value + "\n")
}

// Render builds the env files for set.
func Render(set answers.Set) Content {
	var b builder

	if set.Type.RequiresAI() {
		b.section("AI providers (uncomment and fill in the credentials you use)")
		for _, p := range set.Providers {
			b.commented(p.CredentialEnv(), p.CredentialDefault())
		}
		b.section("AI settings")
		primary := string(set.PrimaryProvider())
		b.set("DEFAULT_AI_PROVIDER", primary)
		b.set("NEXT_PUBLIC_DEFAULT_AI_PROVIDER", primary)
		b.set("MONTHLY_AI_BUDGET_USD", MonthlyBudgetUSD)
		b.set("ENABLE_COST_OPTIMIZATION", "true")
		if set.IncludeExamples {
			b.set("NEXT_PUBLIC_ENABLE_AI_DEMO", "true")
		}
	}

	if set.Type.RequiresWeb3() {
		b.section("Solana")
		b.set("NEXT_PUBLIC_SOLANA_NETWORK", string(set.Network))
		b.set("NEXT_PUBLIC_RPC_URL", set.Network.RPCURL())
		if set.IncludeDefi {
			b.set("NEXT_PUBLIC_JUPITER_API_URL", JupiterAPIURL)
		}
	}

	b.section("App")
	b.set("NEXT_PUBLIC_APP_URL", AppURL)

	local := b.String()
	return Content{Local: local, Example: Example(local)}
}

// Example blanks the value of every assignment line, commented or not, and
// keeps keys, comments and blank lines.
func Example(local string) string {
	lines := strings.Split(local, "\n")
	for i, line := range lines {
		if m := assignment.FindStringSubmatch(line); m != nil {
			lines[i] = m[1] + m[2] + "="
		}
	}
	return strings.Join(lines, "\n")
}

// Write renders and writes both files into dir and returns their names.
func Write(fs afero.Fs, dir string, set answers.Set) ([]string, error) {
	c := Render(set)
	files := []struct {
		name string
		data string
	}{
		{LocalFile, c.Local},
		{ExampleFile, c.Example},
	}

	written := make([]string, 0, len(files))
	for _, f := range files {
		p := filepath.Join(dir, f.name)
		if err := afero.WriteFile(fs, p, []byte(f.data), 0o644); err != nil {
			return written, oerrors.NewFilesystemError("cannot write environment file", p, err)
		}
		written = append(written, f.name)
	}
	return written, nil
}
