// Package e2e provides end-to-end tests for create-computelabs-app.
package e2e

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/computelabs/create-computelabs-app/internal/testutil"
)

var binary string

func TestMain(m *testing.M) {
	// Build the binary once for all tests
	tmpDir, err := os.MkdirTemp("", "create-computelabs-app-e2e-*")
	if err != nil {
		panic("failed to create temp dir: " + err.Error())
	}

	binary = filepath.Join(tmpDir, "create-computelabs-app")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	cmd := exec.CommandContext(ctx, "go", "build", "-o", binary, "../../cmd/create-computelabs-app")
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		cancel()
		os.RemoveAll(tmpDir)
		panic("failed to build binary: " + err.Error())
	}
	cancel() // Call cancel explicitly before os.Exit

	code := m.Run()
	os.RemoveAll(tmpDir)
	os.Exit(code)
}

// runCLI runs the binary in workDir with an isolated configuration and
// returns its output and exit code.
func runCLI(t *testing.T, workDir string, args ...string) (stdout, stderr string, code int) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Dir = workDir
	cmd.Env = append(os.Environ(),
		"CCA_CONFIG="+filepath.Join(workDir, "no-config.yaml"),
		"CCA_AUTHOR=E2E Author",
		"CCA_TEMPLATES_DIR=",
	)

	stdoutBytes, err := cmd.Output()
	var stderrBytes []byte
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		stderrBytes = exitErr.Stderr
		return string(stdoutBytes), string(stderrBytes), exitErr.ExitCode()
	}
	require.NoError(t, err)
	return string(stdoutBytes), "", 0
}

func TestE2E_CreateEveryType(t *testing.T) {
	tests := []struct {
		typ   string
		args  []string
		files []string
	}{
		{"standard", nil, []string{"package.json", "src/app/layout.tsx", ".env.local"}},
		{"ai", []string{"--providers", "openai"}, []string{"src/lib/ai/ai-service.ts", "src/app/api/ai/chat/route.ts"}},
		{"web3", []string{"--network", "devnet"}, []string{"src/lib/solana/connection.ts", "src/components/defi/token-swap.tsx"}},
		{"ai-web3", nil, []string{"src/lib/ai/ai-service.ts", "src/lib/solana/connection.ts"}},
	}

	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			dir := t.TempDir()
			args := append([]string{"app-" + tt.typ, "--yes", "--no-git", "--type", tt.typ}, tt.args...)

			_, stderr, code := runCLI(t, dir, args...)
			require.Equal(t, 0, code, "stderr: %s", stderr)

			for _, f := range tt.files {
				assert.FileExists(t, filepath.Join(dir, "app-"+tt.typ, filepath.FromSlash(f)))
			}
			pkg, err := os.ReadFile(filepath.Join(dir, "app-"+tt.typ, "package.json"))
			require.NoError(t, err)
			assert.Contains(t, string(pkg), `"author": "E2E Author"`)
		})
	}
}

func TestE2E_NonEmptyDirectoryNeedsForce(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, filepath.Join(dir, "my-app"), "notes.txt", "keep me")

	_, stderr, code := runCLI(t, dir, "my-app", "--yes", "--no-git")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "--force")
	assert.FileExists(t, filepath.Join(dir, "my-app", "notes.txt"))

	_, stderr, code = runCLI(t, dir, "my-app", "--yes", "--no-git", "--force")
	require.Equal(t, 0, code, "stderr: %s", stderr)
	assert.NoFileExists(t, filepath.Join(dir, "my-app", "notes.txt"))
}

func TestE2E_InvalidNameExitsOne(t *testing.T) {
	dir := t.TempDir()

	_, stderr, code := runCLI(t, dir, "Bad_Name", "--yes", "--no-git")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "capital letters")
	assert.NoDirExists(t, filepath.Join(dir, "Bad_Name"))
}

func TestE2E_UnknownFlagExitsOne(t *testing.T) {
	_, stderr, code := runCLI(t, t.TempDir(), "my-app", "--bogus")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "unknown flag")
}

func TestE2E_Validate(t *testing.T) {
	stdout, stderr, code := runCLI(t, t.TempDir(), "validate")
	require.Equal(t, 0, code, "stderr: %s", stderr)
	assert.Contains(t, stdout, "All 4 scenarios passed")
}

func TestE2E_Version(t *testing.T) {
	stdout, _, code := runCLI(t, t.TempDir(), "version")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "create-computelabs-app:")
}
