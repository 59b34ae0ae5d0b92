// Package substitute replaces placeholder tokens in a fixed set of
// generated files.
package substitute

import (
	"bytes"
	"encoding/json"
	"errors"
	"io/fs"
	"path"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/afero"

	"github.com/computelabs/create-computelabs-app/internal/answers"
	oerrors "github.com/computelabs/create-computelabs-app/internal/errors"
	"github.com/computelabs/create-computelabs-app/internal/output"
)

// CompanyName is the organisation credited in generated projects.
const CompanyName = "Compute Labs"

// Placeholder tokens.
const (
	TokenProjectName        = "{{PROJECT_NAME}}"
	TokenProjectDescription = "{{PROJECT_DESCRIPTION}}"
	TokenCompanyName        = "{{COMPANY_NAME}}"
	TokenCurrentYear        = "{{CURRENT_YEAR}}"
	TokenAuthorName         = "{{AUTHOR_NAME}}"
)

// Files are the project-relative paths that may carry tokens. Nothing else
// is rewritten.
var Files = []string{
	"package.json",
	"README.md",
	"src/app/layout.tsx",
	"src/app/[locale]/layout.tsx",
	"src/app/[locale]/page.tsx",
	"src/components/layouts/Footer.tsx",
	"src/components/layouts/Header.tsx",
}

// Values holds the replacement for every token.
type Values struct {
	ProjectName string
	Description string
	Company     string
	Year        string
	Author      string
}

// ValuesFor derives replacement values from an answer set.
func ValuesFor(set answers.Set, now time.Time) Values {
	description := set.Description
	if description == "" {
		description = DefaultDescription(set.Type)
	}
	author := set.Author
	if author == "" {
		author = CompanyName
	}
	return Values{
		ProjectName: set.ProjectName,
		Description: description,
		Company:     CompanyName,
		Year:        strconv.Itoa(now.Year()),
		Author:      author,
	}
}

// DefaultDescription is used when no description was given.
func DefaultDescription(t answers.ProjectType) string {
	return "A " + t.Label() + " project built with " + CompanyName
}

func (v Values) pairs() [][2][]byte {
	return [][2][]byte{
		{[]byte(TokenProjectName), []byte(v.ProjectName)},
		{[]byte(TokenProjectDescription), []byte(v.Description)},
		{[]byte(TokenCompanyName), []byte(v.Company)},
		{[]byte(TokenCurrentYear), []byte(v.Year)},
		{[]byte(TokenAuthorName), []byte(v.Author)},
	}
}

// Replace substitutes every token occurrence in data.
func (v Values) Replace(data []byte) []byte {
	for _, p := range v.pairs() {
		data = bytes.ReplaceAll(data, p[0], p[1])
	}
	return data
}

// JSONEscaped returns the values quoted for use inside JSON string
// literals.
func (v Values) JSONEscaped() Values {
	return Values{
		ProjectName: jsonString(v.ProjectName),
		Description: jsonString(v.Description),
		Company:     jsonString(v.Company),
		Year:        jsonString(v.Year),
		Author:      jsonString(v.Author),
	}
}

// jsonString escapes s as a JSON string body, without the quotes and
// without HTML escaping.
func jsonString(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return s
	}
	out := bytes.TrimRight(buf.Bytes(), "\n")
	return string(out[1 : len(out)-1])
}

// Engine rewrites token files in place.
type Engine struct {
	Fs afero.Fs
}

// New creates an Engine over fs.
func New(fs afero.Fs) *Engine {
	return &Engine{Fs: fs}
}

// Apply substitutes tokens in the token files below dir and returns the
// paths that changed. Values written into .json files are JSON-escaped.
// Missing files are skipped; any other read or write failure is fatal.
// Applying twice changes nothing the second time.
func (e *Engine) Apply(dir string, values Values) ([]string, error) {
	var changed []string
	jsonValues := values.JSONEscaped()
	for _, rel := range Files {
		p := filepath.Join(dir, filepath.FromSlash(rel))

		data, err := afero.ReadFile(e.Fs, p)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				output.Debug("token file not present", "file", rel)
				continue
			}
			return changed, oerrors.NewFilesystemError("cannot read file for substitution", p, err)
		}

		v := values
		if path.Ext(rel) == ".json" {
			v = jsonValues
		}
		out := v.Replace(data)
		if bytes.Equal(out, data) {
			continue
		}

		info, err := e.Fs.Stat(p)
		if err != nil {
			return changed, oerrors.NewFilesystemError("cannot stat file for substitution", p, err)
		}
		if err := afero.WriteFile(e.Fs, p, out, info.Mode().Perm()); err != nil {
			return changed, oerrors.NewFilesystemError("cannot write substituted file", p, err)
		}
		changed = append(changed, rel)
	}
	return changed, nil
}
