package pkgjson

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const baseManifest = `{
  "name": "{{PROJECT_NAME}}",
  "version": "0.1.0",
  "private": true,
  "scripts": {
    "dev": "next dev"
  },
  "dependencies": {
    "react": "^18.3.1",
    "next": "14.2.5"
  },
  "devDependencies": {
    "typescript": "^5.5.3"
  }
}
`

func TestParse_KeepsTopLevelOrder(t *testing.T) {
	m, err := Parse([]byte(baseManifest))
	require.NoError(t, err)

	out, err := m.Marshal()
	require.NoError(t, err)

	want := `{
  "name": "{{PROJECT_NAME}}",
  "version": "0.1.0",
  "private": true,
  "scripts": {
    "dev": "next dev"
  },
  "dependencies": {
    "next": "14.2.5",
    "react": "^18.3.1"
  },
  "devDependencies": {
    "typescript": "^5.5.3"
  }
}
`
	assert.Equal(t, want, string(out))
	assert.Equal(t, "{{PROJECT_NAME}}", m.Name())
}

func TestMerge_OverlayWins(t *testing.T) {
	m, err := Parse([]byte(baseManifest))
	require.NoError(t, err)

	report := m.Merge(&Snippet{
		Dependencies:    map[string]string{"next": "15.0.0", "openai": "^4.52.7", "react": "^18.3.1"},
		DevDependencies: map[string]string{"@types/bn.js": "^5.1.5"},
	})

	assert.Equal(t, "15.0.0", m.Dependencies["next"])
	assert.Equal(t, "^4.52.7", m.Dependencies["openai"])
	assert.Equal(t, "^18.3.1", m.Dependencies["react"], "existing keys are kept")
	assert.Equal(t, "^5.5.3", m.DevDependencies["typescript"])

	assert.Equal(t, []string{"openai"}, report.Dependencies.Added)
	assert.Equal(t, []string{"next"}, report.Dependencies.Overridden)
	assert.Equal(t, []string{"@types/bn.js"}, report.DevDependencies.Added)
	assert.True(t, report.Changed())
	assert.True(t, m.Has("@types/bn.js"))
	assert.False(t, m.Has("left-pad"))
}

func TestMerge_Deterministic(t *testing.T) {
	a := `{"name":"x","dependencies":{"b":"1","a":"1","c":"1"}}`
	b := `{"name":"x","dependencies":{"c":"1","a":"1","b":"1"}}`

	var outputs []string
	for _, src := range []string{a, b} {
		m, err := Parse([]byte(src))
		require.NoError(t, err)
		m.Merge(&Snippet{Dependencies: map[string]string{"z": "2", "d": "2"}})
		out, err := m.Marshal()
		require.NoError(t, err)
		outputs = append(outputs, string(out))
	}
	assert.Equal(t, outputs[0], outputs[1])
	assert.Contains(t, outputs[0], `"a": "1",
    "b": "1",
    "c": "1",
    "d": "2",
    "z": "2"`)
}

func TestMerge_AddsMissingGroup(t *testing.T) {
	m, err := Parse([]byte(`{"name":"x"}`))
	require.NoError(t, err)

	m.Merge(&Snippet{DevDependencies: map[string]string{"vitest": "^2"}})
	out, err := m.Marshal()
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"name\": \"x\",\n  \"devDependencies\": {\n    \"vitest\": \"^2\"\n  }\n}\n", string(out))
}

func TestMarshal_NoHTMLEscaping(t *testing.T) {
	m, err := Parse([]byte(`{"name":"x","dependencies":{"a":">=1 <2"}}`))
	require.NoError(t, err)
	out, err := m.Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(out), `">=1 <2"`)
}

func TestParseSnippet(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
		schema  bool
	}{
		{name: "deps only", input: `{"dependencies":{"openai":"^4"}}`},
		{name: "both groups", input: `{"dependencies":{},"devDependencies":{"x":"1"}}`},
		{name: "empty", input: `{}`},
		{name: "malformed", input: `{"dependencies":`, wantErr: true},
		{name: "unknown key", input: `{"scripts":{"dev":"x"}}`, wantErr: true, schema: true},
		{name: "non-string version", input: `{"dependencies":{"openai":4}}`, wantErr: true, schema: true},
		{name: "array", input: `[]`, wantErr: true, schema: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSnippet([]byte(tt.input))
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var se *SchemaError
			assert.Equal(t, tt.schema, errors.As(err, &se))
			if tt.schema {
				assert.NotEmpty(t, se.Issues)
			}
		})
	}
}

func TestParse_RejectsBadManifest(t *testing.T) {
	_, err := Parse([]byte(`{"version":"1"}`))
	var se *SchemaError
	require.True(t, errors.As(err, &se), "name is required")

	_, err = Parse([]byte(`{"name":"x","dependencies":["react"]}`))
	assert.True(t, errors.As(err, &se))
}

func TestMergeFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/p/package.json", []byte(baseManifest), 0o644))

	overlay := fstest.MapFS{
		"package.json.snippet": {Data: []byte(`{"dependencies":{"openai":"^4.52.7"}}`)},
	}
	report, err := MergeFile(fs, "/p", overlay)
	require.NoError(t, err)
	require.NotNil(t, report)
	assert.Equal(t, []string{"openai"}, report.Dependencies.Added)

	data, err := afero.ReadFile(fs, "/p/package.json")
	require.NoError(t, err)
	assert.Equal(t, string(report.After), string(data))
	assert.Contains(t, string(data), `"openai": "^4.52.7"`)

	diff, err := Diff(report.Before, report.After, false)
	require.NoError(t, err)
	assert.Contains(t, diff, "openai")
}

func TestMergeFile_NoSnippet(t *testing.T) {
	fs := afero.NewMemMapFs()
	report, err := MergeFile(fs, "/p", fstest.MapFS{})
	assert.NoError(t, err)
	assert.Nil(t, report)

	report, err = MergeFile(fs, "/p", nil)
	assert.NoError(t, err)
	assert.Nil(t, report)
}

func TestNormalizeFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/p/package.json", []byte(baseManifest), 0o644))

	require.NoError(t, NormalizeFile(fs, "/p"))
	data, err := afero.ReadFile(fs, "/p/package.json")
	require.NoError(t, err)

	m, err := Parse([]byte(baseManifest))
	require.NoError(t, err)
	want, err := m.Marshal()
	require.NoError(t, err)
	assert.Equal(t, string(want), string(data))
	assert.Less(t, strings.Index(string(data), `"next"`), strings.Index(string(data), `"react"`))

	assert.NoError(t, NormalizeFile(fs, "/missing"))
}

func TestNormalizeFile_InvalidManifestUntouched(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/p/package.json", []byte(`{nope`), 0o644))

	require.Error(t, NormalizeFile(fs, "/p"))
	data, _ := afero.ReadFile(fs, "/p/package.json")
	assert.Equal(t, `{nope`, string(data))
}

func TestMergeFile_MalformedSnippetLeavesManifest(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/p/package.json", []byte(baseManifest), 0o644))

	overlay := fstest.MapFS{"package.json.snippet": {Data: []byte(`{nope`)}}
	_, err := MergeFile(fs, "/p", overlay)
	require.Error(t, err)

	data, err := afero.ReadFile(fs, "/p/package.json")
	require.NoError(t, err)
	assert.Equal(t, baseManifest, string(data))
}
