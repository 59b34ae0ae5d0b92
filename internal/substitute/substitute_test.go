package substitute

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/computelabs/create-computelabs-app/internal/answers"
	oerrors "github.com/computelabs/create-computelabs-app/internal/errors"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestValuesFor(t *testing.T) {
	v := ValuesFor(answers.Set{ProjectName: "my-app", Type: answers.TypeWeb3}, fixedNow)

	assert.Equal(t, "my-app", v.ProjectName)
	assert.Equal(t, "A Web3 Solana project built with Compute Labs", v.Description)
	assert.Equal(t, "Compute Labs", v.Company)
	assert.Equal(t, "2026", v.Year)
	assert.Equal(t, "Compute Labs", v.Author, "blank author falls back to the company")

	v = ValuesFor(answers.Set{ProjectName: "x", Description: "Mine", Author: "Ada"}, fixedNow)
	assert.Equal(t, "Mine", v.Description)
	assert.Equal(t, "Ada", v.Author)
}

func TestReplace(t *testing.T) {
	v := Values{ProjectName: "p", Description: "d", Company: "c", Year: "2026", Author: "a"}
	got := v.Replace([]byte("{{PROJECT_NAME}} {{PROJECT_NAME}} {{PROJECT_DESCRIPTION}} © {{CURRENT_YEAR}} {{COMPANY_NAME}} by {{AUTHOR_NAME}} {{OTHER}}"))
	assert.Equal(t, "p p d © 2026 c by a {{OTHER}}", string(got))
}

func TestApply(t *testing.T) {
	fs := afero.NewMemMapFs()
	write := func(p, s string) {
		require.NoError(t, afero.WriteFile(fs, "/p/"+p, []byte(s), 0o644))
	}
	write("package.json", `{"name":"{{PROJECT_NAME}}"}`)
	write("src/components/layouts/Footer.tsx", "© {{CURRENT_YEAR}} {{COMPANY_NAME}}")
	write("src/app/[locale]/page.tsx", "no tokens here")
	write("src/lib/other.ts", "{{PROJECT_NAME}}")

	e := New(fs)
	values := ValuesFor(answers.Set{ProjectName: "my-app", Type: answers.TypeStandard}, fixedNow)

	changed, err := e.Apply("/p", values)
	require.NoError(t, err)
	assert.Equal(t, []string{"package.json", "src/components/layouts/Footer.tsx"}, changed)

	data, _ := afero.ReadFile(fs, "/p/package.json")
	assert.Equal(t, `{"name":"my-app"}`, string(data))
	data, _ = afero.ReadFile(fs, "/p/src/components/layouts/Footer.tsx")
	assert.Equal(t, "© 2026 Compute Labs", string(data))
	data, _ = afero.ReadFile(fs, "/p/src/lib/other.ts")
	assert.Equal(t, "{{PROJECT_NAME}}", string(data), "files outside the list are untouched")

	changed, err = e.Apply("/p", values)
	require.NoError(t, err)
	assert.Empty(t, changed, "second run is a no-op")
}

func TestApply_EscapesValuesInJSON(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/p/package.json",
		[]byte(`{"name":"{{PROJECT_NAME}}","description":"{{PROJECT_DESCRIPTION}}","author":"{{AUTHOR_NAME}}"}`), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/p/README.md", []byte("{{PROJECT_DESCRIPTION}} by {{AUTHOR_NAME}}"), 0o644))

	values := ValuesFor(answers.Set{
		ProjectName: "my-app",
		Description: `My "cool" <app> & more`,
		Author:      `C:\dev`,
	}, fixedNow)
	_, err := New(fs).Apply("/p", values)
	require.NoError(t, err)

	data, err := afero.ReadFile(fs, "/p/package.json")
	require.NoError(t, err)
	var pkg map[string]string
	require.NoError(t, json.Unmarshal(data, &pkg), string(data))
	assert.Equal(t, `My "cool" <app> & more`, pkg["description"])
	assert.Equal(t, `C:\dev`, pkg["author"])
	assert.Contains(t, string(data), `<app> & more`, "no HTML escaping")

	readme, _ := afero.ReadFile(fs, "/p/README.md")
	assert.Equal(t, `My "cool" <app> & more by C:\dev`, string(readme), "other files get raw values")
}

func TestApply_WriteFailure(t *testing.T) {
	mem := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(mem, "/p/README.md", []byte("# {{PROJECT_NAME}}"), 0o644))

	_, err := New(afero.NewReadOnlyFs(mem)).Apply("/p", Values{ProjectName: "x"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, oerrors.ErrFilesystem))
}
