// Package templates provides the template repository: the base tree, the
// optional overlays and the manifest describing them.
package templates

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"

	oerrors "github.com/computelabs/create-computelabs-app/internal/errors"
)

//go:embed all:payload
var payloadFS embed.FS

const (
	// ManifestFile is the manifest path relative to the repository root.
	ManifestFile = "manifest.yaml"

	// BaseDir holds the tree every project starts from.
	BaseDir = "base"

	// OptionalDir holds one directory per overlay.
	OptionalDir = "optional"

	// SnippetFile is the dependency fragment at an overlay root.
	SnippetFile = "package.json.snippet"
)

// Repository is a read-only template root. It is either the embedded
// payload or a directory on disk.
type Repository struct {
	fsys   fs.FS
	source string
}

// Embedded returns the repository compiled into the binary.
func Embedded() *Repository {
	sub, err := fs.Sub(payloadFS, "payload")
	if err != nil {
		// fs.Sub only fails on an invalid path literal.
		panic(err)
	}
	return &Repository{fsys: sub, source: "embedded"}
}

// FromDir returns a repository rooted at dir.
func FromDir(dir string) (*Repository, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, oerrors.NewNotFoundError(
				"template directory does not exist",
				dir,
				"Pass --templates with a directory containing manifest.yaml, base/ and optional/",
			)
		}
		return nil, oerrors.NewFilesystemError("cannot access template directory", dir, err)
	}
	if !info.IsDir() {
		return nil, oerrors.NewValidationError("template path is not a directory", dir, "templates", "")
	}
	return &Repository{fsys: os.DirFS(dir), source: dir}, nil
}

// FromFS wraps an arbitrary fs.FS, used by tests.
func FromFS(fsys fs.FS, source string) *Repository {
	return &Repository{fsys: fsys, source: source}
}

// Source describes where the repository comes from.
func (r *Repository) Source() string {
	return r.source
}

// FS returns the repository root.
func (r *Repository) FS() fs.FS {
	return r.fsys
}

// Base returns the base template tree.
func (r *Repository) Base() (fs.FS, error) {
	if err := r.requireDir(BaseDir); err != nil {
		return nil, err
	}
	return fs.Sub(r.fsys, BaseDir)
}

// Overlay returns the tree of the named overlay. ok is false when the
// overlay directory does not exist.
func (r *Repository) Overlay(name string) (overlay fs.FS, ok bool, err error) {
	dir := path.Join(OptionalDir, name)
	info, err := fs.Stat(r.fsys, dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, oerrors.NewFilesystemError("cannot access overlay", dir, err)
	}
	if !info.IsDir() {
		return nil, false, oerrors.NewValidationError(
			fmt.Sprintf("overlay %q is not a directory", name), dir, "overlays", "")
	}
	sub, err := fs.Sub(r.fsys, dir)
	if err != nil {
		return nil, false, err
	}
	return sub, true, nil
}

// Files lists every regular file in fsys as slash separated paths in
// lexical order.
func Files(fsys fs.FS) ([]string, error) {
	var files []string
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, p)
		}
		return nil
	})
	return files, err
}

func (r *Repository) requireDir(dir string) error {
	info, err := fs.Stat(r.fsys, dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return oerrors.NewNotFoundError(
				fmt.Sprintf("template repository has no %s/ directory", dir),
				path.Join(r.source, dir),
				"",
			)
		}
		return oerrors.NewFilesystemError("cannot access template directory", dir, err)
	}
	if !info.IsDir() {
		return oerrors.NewValidationError(fmt.Sprintf("%s is not a directory", dir), dir, "", "")
	}
	return nil
}
