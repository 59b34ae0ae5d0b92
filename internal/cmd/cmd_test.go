package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/computelabs/create-computelabs-app/internal/answers"
	oerrors "github.com/computelabs/create-computelabs-app/internal/errors"
	"github.com/computelabs/create-computelabs-app/internal/output"
	"github.com/computelabs/create-computelabs-app/internal/testutil"
	"github.com/computelabs/create-computelabs-app/internal/vcs"
	"github.com/computelabs/create-computelabs-app/internal/version"
)

type fakeGit struct {
	user     string
	calls    int
	commit   bool
	dir      string
	initErr  error
	initDone vcs.InitResult
}

func (g *fakeGit) Init(_ context.Context, dir string, commit bool) (vcs.InitResult, error) {
	g.calls++
	g.dir = dir
	g.commit = commit
	if g.initErr != nil {
		return vcs.InitResult{}, g.initErr
	}
	return g.initDone, nil
}

func (g *fakeGit) UserName(context.Context) string { return g.user }

// defaultsPrompter accepts every default and answers confirmations from a map.
type defaultsPrompter struct {
	confirms map[string]bool
	asked    []string
}

func (p *defaultsPrompter) Input(_ context.Context, title, _ string) (string, error) {
	p.asked = append(p.asked, title)
	return "", nil
}

func (p *defaultsPrompter) Select(_ context.Context, title string, _ []answers.Option, initial string) (string, error) {
	p.asked = append(p.asked, title)
	return initial, nil
}

func (p *defaultsPrompter) MultiSelect(_ context.Context, title string, _ []answers.Option, initial []string) ([]string, error) {
	p.asked = append(p.asked, title)
	return initial, nil
}

func (p *defaultsPrompter) Confirm(_ context.Context, title string, initial bool) (bool, error) {
	p.asked = append(p.asked, title)
	if v, ok := p.confirms[title]; ok {
		return v, nil
	}
	return initial, nil
}

type runResult struct {
	dir    string
	stdout *bytes.Buffer
	logs   *bytes.Buffer
	git    *fakeGit
	err    error
}

// run executes the root command in a fresh working directory with fake
// collaborators. setup runs inside the working directory before the command.
func run(t *testing.T, env *cmdEnv, setup func(dir string), args ...string) runResult {
	t.Helper()

	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("CCA_CONFIG", filepath.Join(dir, "no-config.yaml"))
	t.Setenv("CCA_AUTHOR", "")
	t.Setenv("CCA_TEMPLATES_DIR", "")
	t.Setenv("CCA_DEFAULT_TYPE", "")
	if setup != nil {
		setup(dir)
	}

	git := &fakeGit{user: "Git User", initDone: vcs.InitResult{Initialized: true, Committed: true}}
	if env == nil {
		env = &cmdEnv{}
	}
	if env.fs == nil {
		env.fs = afero.NewOsFs()
	}
	if env.git == nil {
		env.git = git
	}
	if env.detectNode == nil {
		env.detectNode = func(context.Context) version.NodeInfo {
			return version.NodeInfo{Version: "v20.11.1", Path: "/usr/bin/node", Found: true}
		}
	}
	if env.prompter == nil {
		env.prompter = &defaultsPrompter{}
	}
	if env.interactive == nil {
		env.interactive = func() bool { return false }
	}

	var stdout, logs bytes.Buffer
	prev := output.SetOutput(&stdout)
	t.Cleanup(func() { output.SetOutput(prev) })
	output.SetLogWriter(&logs)
	t.Cleanup(func() { output.SetLogWriter(os.Stderr) })

	root := newRootCmd(env)
	root.SetArgs(args)
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	err := root.Execute()

	g, _ := env.git.(*fakeGit)
	return runResult{dir: dir, stdout: &stdout, logs: &logs, git: g, err: err}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func requireExitError(t *testing.T, err error) *oerrors.ExitError {
	t.Helper()
	var exitErr *oerrors.ExitError
	require.True(t, errors.As(err, &exitErr), "expected ExitError, got %v", err)
	assert.Equal(t, oerrors.ExitGeneralError, exitErr.Code)
	assert.True(t, exitErr.Printed)
	return exitErr
}

func TestNewRootCmd(t *testing.T) {
	cmd := NewRootCmd()

	assert.Equal(t, "create-computelabs-app <project-name>", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)

	for _, name := range []string{"type", "description", "author", "providers", "examples", "network", "defi", "yes", "force", "no-git"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "flag %s", name)
	}
	for _, name := range []string{"config", "templates", "verbose", "timestamps"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), "persistent flag %s", name)
	}

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.Subset(t, names, []string{"validate", "templates", "version"})
}

func TestCreate_StandardProject(t *testing.T) {
	res := run(t, nil, nil, "my-app", "--yes")
	require.NoError(t, res.err)

	project := filepath.Join(res.dir, "my-app")
	pkg := readFile(t, filepath.Join(project, "package.json"))
	assert.Contains(t, pkg, `"name": "my-app"`)
	assert.Contains(t, pkg, `"author": "Git User"`, "git user name is the default author")
	assert.NotContains(t, pkg, "{{")

	assert.Equal(t, "# App\nNEXT_PUBLIC_APP_URL=http://localhost:3000\n", readFile(t, filepath.Join(project, ".env.local")))
	assert.FileExists(t, filepath.Join(project, ".env.example"))
	assert.NoDirExists(t, filepath.Join(project, "src", "lib", "ai"))

	assert.Equal(t, 1, res.git.calls)
	assert.True(t, res.git.commit)
	assert.Equal(t, project, res.git.dir)

	out := res.stdout.String()
	assert.Contains(t, out, "Created Standard Web2 project")
	assert.Contains(t, out, "npm run dev")
	assert.NotContains(t, out, "No git repository was created")
}

func TestCreate_AIProjectFromFlags(t *testing.T) {
	res := run(t, nil, nil, "my-ai", "-y", "-t", "ai", "--providers", "anthropic,ollama", "--no-git")
	require.NoError(t, res.err)

	project := filepath.Join(res.dir, "my-ai")
	pkg := readFile(t, filepath.Join(project, "package.json"))
	assert.Contains(t, pkg, "@anthropic-ai/sdk")
	assert.Contains(t, pkg, `"react"`, "base dependencies survive the merge")

	env := readFile(t, filepath.Join(project, ".env.local"))
	assert.Contains(t, env, "ANTHROPIC_API_KEY=")
	assert.Contains(t, env, "OLLAMA_HOST=http://localhost:11434")
	assert.FileExists(t, filepath.Join(project, "src", "lib", "ai", "ai-service.ts"))

	assert.Zero(t, res.git.calls, "--no-git skips initialization")

	out := res.stdout.String()
	assert.Contains(t, out, "Created AI-Powered project")
	assert.Contains(t, out, "`ANTHROPIC_API_KEY`")
	assert.Contains(t, out, "ollama serve")
	assert.Contains(t, out, "No git repository was created")
}

func TestCreate_Web3ProjectVerbose(t *testing.T) {
	res := run(t, nil, nil, "chain-app", "-y", "-t", "web3", "--network", "testnet", "--verbose")
	require.NoError(t, res.err)

	env := readFile(t, filepath.Join(res.dir, "chain-app", ".env.local"))
	assert.Contains(t, env, "NEXT_PUBLIC_SOLANA_NETWORK=testnet")

	out := res.stdout.String()
	assert.Contains(t, out, "api.testnet.solana.com")
	assert.Contains(t, out, "package.json dependencies from the overlay")
	assert.Contains(t, out, "@solana/web3.js")
	assert.Contains(t, res.logs.String(), "config value resolved")
}

func TestCreate_GitFailureIsWarning(t *testing.T) {
	env := &cmdEnv{git: &fakeGit{initErr: errors.New("git exploded")}}
	res := run(t, env, nil, "my-app", "-y")
	require.NoError(t, res.err)

	assert.FileExists(t, filepath.Join(res.dir, "my-app", "package.json"))
	assert.Contains(t, res.logs.String(), "git exploded")
}

func TestCreate_InvalidNameCreatesNothing(t *testing.T) {
	res := run(t, nil, nil, "My App", "-y")
	requireExitError(t, res.err)

	assert.True(t, errors.Is(res.err, oerrors.ErrValidation))
	assert.NoDirExists(t, filepath.Join(res.dir, "My App"))
	assert.Contains(t, res.logs.String(), "capital letters")
}

func TestCreate_MissingNameNonInteractive(t *testing.T) {
	res := run(t, nil, nil, "-y")
	requireExitError(t, res.err)
	assert.Contains(t, res.logs.String(), "a project name is required")
}

func TestCreate_InvalidTypeFlag(t *testing.T) {
	res := run(t, nil, nil, "my-app", "-y", "--type", "mobile")
	requireExitError(t, res.err)
	assert.NoDirExists(t, filepath.Join(res.dir, "my-app"))
}

func TestCreate_NonEmptyDirectory(t *testing.T) {
	seed := func(dir string) {
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "my-app"), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "my-app", "keep.txt"), []byte("x"), 0o644))
	}

	t.Run("refused without force", func(t *testing.T) {
		res := run(t, nil, seed, "my-app", "-y")
		requireExitError(t, res.err)
		assert.FileExists(t, filepath.Join(res.dir, "my-app", "keep.txt"))
		assert.Contains(t, res.logs.String(), "--force")
	})

	t.Run("overwritten with force", func(t *testing.T) {
		res := run(t, nil, seed, "my-app", "-y", "--force")
		require.NoError(t, res.err)
		assert.NoFileExists(t, filepath.Join(res.dir, "my-app", "keep.txt"))
		assert.FileExists(t, filepath.Join(res.dir, "my-app", "package.json"))
	})

	t.Run("declined interactively is a cancellation", func(t *testing.T) {
		p := &defaultsPrompter{confirms: map[string]bool{"Directory my-app already exists. Overwrite?": false}}
		env := &cmdEnv{prompter: p, interactive: func() bool { return true }}

		res := run(t, env, seed, "my-app")
		require.NoError(t, res.err, "cancellation exits 0")
		assert.FileExists(t, filepath.Join(res.dir, "my-app", "keep.txt"))
		assert.Contains(t, res.logs.String(), "cancelled")
		assert.Contains(t, p.asked, "Which type of project do you want to create?")
	})
}

func TestCreate_InteractivePromptsForName(t *testing.T) {
	p := &namePrompter{name: "asked-app"}
	env := &cmdEnv{prompter: p, interactive: func() bool { return true }}

	res := run(t, env, nil)
	require.NoError(t, res.err)
	assert.FileExists(t, filepath.Join(res.dir, "asked-app", "package.json"))
}

// namePrompter answers the project name question and accepts defaults for
// everything else.
type namePrompter struct {
	defaultsPrompter
	name string
}

func (p *namePrompter) Input(ctx context.Context, title, placeholder string) (string, error) {
	if title == "Project name" {
		return p.name, nil
	}
	return p.defaultsPrompter.Input(ctx, title, placeholder)
}

func TestCreate_TemplatesDirMissing(t *testing.T) {
	res := run(t, nil, nil, "my-app", "-y", "--templates", "does-not-exist")
	requireExitError(t, res.err)
	assert.True(t, errors.Is(res.err, oerrors.ErrNotFound))
}

func TestCreate_ConfigFileAuthor(t *testing.T) {
	res := run(t, nil, func(dir string) {
		cfg := filepath.Join(dir, "config.yaml")
		require.NoError(t, os.WriteFile(cfg, []byte("author: Config Author\n"), 0o644))
		t.Setenv("CCA_CONFIG", cfg)
	}, "my-app", "-y")
	require.NoError(t, res.err)

	pkg := readFile(t, filepath.Join(res.dir, "my-app", "package.json"))
	assert.Contains(t, pkg, `"author": "Config Author"`)
}

func TestValidate_EmbeddedTemplates(t *testing.T) {
	res := run(t, nil, nil, "validate")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout.String(), "All 4 scenarios passed")
}

func TestValidate_BrokenRepository(t *testing.T) {
	res := run(t, nil, func(dir string) {
		testutil.WriteTree(t, filepath.Join(dir, "tmpl"), map[string]string{
			"manifest.yaml": `nodeVersion: ">=18.17.0"
overlays: [ai-structured]
projectTypes:
  - id: standard
    label: Standard Web2
  - id: ai
    label: AI-Powered
    overlay: ai-structured
`,
			"base/README.md": "# {{PROJECT_NAME}}\n",
		})
	}, "validate", "--templates", "tmpl")

	requireExitError(t, res.err)
	out := res.stdout.String()
	assert.Contains(t, out, "base/package.json")
	assert.Contains(t, out, "optional/ai-structured/")
	assert.Contains(t, res.logs.String(), "template structure is invalid")
}

func TestTemplatesList(t *testing.T) {
	res := run(t, nil, nil, "templates", "list")
	require.NoError(t, res.err)

	out := res.stdout.String()
	for _, want := range []string{"standard", "ai-structured", "web3-solana-starter", "ai-web3-combined", "solanaNetwork"} {
		assert.Contains(t, out, want)
	}
}

func TestTemplatesShowAndDiff(t *testing.T) {
	res := run(t, nil, nil, "templates", "show", "web3")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout.String(), "overlay (overrides base)")

	res = run(t, nil, nil, "templates", "diff", "ai")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout.String(), "openai")

	res = run(t, nil, nil, "templates", "diff", "standard")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout.String(), "does not change package.json")

	res = run(t, nil, nil, "templates", "diff", "mobile")
	requireExitError(t, res.err)
}

func TestVersionCmd(t *testing.T) {
	res := run(t, nil, nil, "version")
	require.NoError(t, res.err)

	out := res.stdout.String()
	assert.Contains(t, out, "create-computelabs-app:")
	assert.Contains(t, out, "v20.11.1")
}
