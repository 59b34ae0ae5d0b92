package project

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/computelabs/create-computelabs-app/internal/errors"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{"simple", "my-app", ""},
		{"underscore and digit", "my-app_2", ""},
		{"dots", "app.v1.beta", ""},
		{"tilde", "app~beta", "special characters"},
		{"empty", "", "cannot be empty"},
		{"blank", "   ", "cannot be empty"},
		{"uppercase", "Upper", "capital letters"},
		{"leading dot", ".hidden", "start with a period"},
		{"leading underscore", "_private", "start with an underscore"},
		{"space", "has space", "URL-friendly"},
		{"trailing space", "app ", "leading or trailing spaces"},
		{"special", "app!", "special characters"},
		{"reserved", "node_modules", "not a valid package name"},
		{"favicon", "favicon.ico", "not a valid package name"},
		{"core module", "http", "core module"},
		{"too long", strings.Repeat("a", 215), "longer than 214"},
		{"slash", "a/b", "URL-friendly"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			var invalid *InvalidNameError
			require.True(t, errors.As(err, &invalid))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateName_ReportsEveryProblem(t *testing.T) {
	err := ValidateName(".Bad Name")
	var invalid *InvalidNameError
	require.True(t, errors.As(err, &invalid))
	assert.GreaterOrEqual(t, len(invalid.Problems), 3)
}

const cwd = "/work"

func newResolver(fs afero.Fs) *Resolver {
	return &Resolver{Fs: fs, Cwd: cwd}
}

func TestResolve_Absent(t *testing.T) {
	fs := afero.NewMemMapFs()
	r := newResolver(fs)

	target, err := r.Resolve(context.Background(), "my-app")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(cwd, "my-app"), target.Path)
	assert.Equal(t, Absent, target.State)
	assert.True(t, target.Created)

	ok, err := afero.DirExists(fs, target.Path)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestResolve_EmptyDir(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/work/my-app", 0o755))

	target, err := newResolver(fs).Resolve(context.Background(), "my-app")
	require.NoError(t, err)
	assert.Equal(t, Empty, target.State)
	assert.False(t, target.Created)
	assert.False(t, target.Cleared)
}

func seedNonEmpty(t *testing.T, fs afero.Fs) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, "/work/my-app/keep.txt", []byte("original"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/work/my-app/sub/nested.txt", []byte("nested"), 0o644))
}

func TestResolve_NonEmptyDeclined(t *testing.T) {
	fs := afero.NewMemMapFs()
	seedNonEmpty(t, fs)

	r := newResolver(fs)
	r.Interactive = true
	var asked string
	r.Confirm = func(_ context.Context, msg string) (bool, error) {
		asked = msg
		return false, nil
	}

	_, err := r.Resolve(context.Background(), "my-app")
	assert.True(t, errors.Is(err, oerrors.ErrCancelled))
	assert.Contains(t, asked, "already exists")

	data, err := afero.ReadFile(fs, "/work/my-app/keep.txt")
	require.NoError(t, err)
	assert.Equal(t, "original", string(data), "declined overwrite leaves contents untouched")
	data, err = afero.ReadFile(fs, "/work/my-app/sub/nested.txt")
	require.NoError(t, err)
	assert.Equal(t, "nested", string(data))
}

func TestResolve_NonEmptyConfirmed(t *testing.T) {
	fs := afero.NewMemMapFs()
	seedNonEmpty(t, fs)

	r := newResolver(fs)
	r.Interactive = true
	r.Confirm = func(context.Context, string) (bool, error) { return true, nil }

	target, err := r.Resolve(context.Background(), "my-app")
	require.NoError(t, err)
	assert.Equal(t, NonEmpty, target.State)
	assert.True(t, target.Cleared)

	entries, err := afero.ReadDir(fs, target.Path)
	require.NoError(t, err)
	assert.Empty(t, entries)

	ok, err := afero.DirExists(fs, target.Path)
	require.NoError(t, err)
	assert.True(t, ok, "directory itself is kept")
}

func TestResolve_NonInteractive(t *testing.T) {
	fs := afero.NewMemMapFs()
	seedNonEmpty(t, fs)

	_, err := newResolver(fs).Resolve(context.Background(), "my-app")
	require.Error(t, err)
	assert.True(t, errors.Is(err, oerrors.ErrValidation))
	assert.Contains(t, err.Error(), "--force")

	r := newResolver(fs)
	r.Force = true
	target, err := r.Resolve(context.Background(), "my-app")
	require.NoError(t, err)
	assert.True(t, target.Cleared)
}

func TestResolve_ConfirmError(t *testing.T) {
	fs := afero.NewMemMapFs()
	seedNonEmpty(t, fs)

	boom := errors.New("tty closed")
	r := newResolver(fs)
	r.Interactive = true
	r.Confirm = func(context.Context, string) (bool, error) { return false, boom }

	_, err := r.Resolve(context.Background(), "my-app")
	assert.ErrorIs(t, err, boom)
}

func TestResolve_FileInTheWay(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/work/my-app", []byte("x"), 0o644))

	_, err := newResolver(fs).Resolve(context.Background(), "my-app")
	assert.True(t, errors.Is(err, oerrors.ErrValidation))
}

func TestResolve_InvalidName(t *testing.T) {
	fs := afero.NewMemMapFs()

	_, err := newResolver(fs).Resolve(context.Background(), "Upper")
	require.Error(t, err)
	assert.True(t, errors.Is(err, oerrors.ErrValidation))

	var invalid *InvalidNameError
	assert.True(t, errors.As(err, &invalid))

	ok, _ := afero.Exists(fs, "/work/Upper")
	assert.False(t, ok, "invalid names never touch the filesystem")
}

func TestDirStateString(t *testing.T) {
	assert.Equal(t, "absent", Absent.String())
	assert.Equal(t, "non-empty", NonEmpty.String())
}
