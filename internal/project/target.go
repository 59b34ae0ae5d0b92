package project

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	oerrors "github.com/computelabs/create-computelabs-app/internal/errors"
	"github.com/computelabs/create-computelabs-app/internal/output"
)

// DirState is the state of the target path before generation.
type DirState int

const (
	// Absent means nothing exists at the path.
	Absent DirState = iota
	// Empty means an empty directory exists.
	Empty
	// NonEmpty means a directory with at least one entry exists.
	NonEmpty
)

func (s DirState) String() string {
	switch s {
	case Absent:
		return "absent"
	case Empty:
		return "empty"
	case NonEmpty:
		return "non-empty"
	default:
		return fmt.Sprintf("DirState(%d)", int(s))
	}
}

// Target is the directory a project is generated into.
type Target struct {
	// Path is absolute.
	Path string

	// State is what was found before the resolver prepared the directory.
	State DirState

	// Created is true when the resolver created the directory.
	Created bool

	// Cleared is true when existing contents were removed.
	Cleared bool
}

// Confirmer asks whether existing contents may be removed.
type Confirmer func(ctx context.Context, message string) (bool, error)

// Resolver turns a project name into a prepared, empty target directory.
type Resolver struct {
	Fs afero.Fs

	// Cwd is the directory the project is created in. Empty means the
	// process working directory.
	Cwd string

	// Force clears a non-empty directory without asking.
	Force bool

	// Interactive allows Confirm to be asked.
	Interactive bool

	// Confirm is asked before clearing a non-empty directory.
	Confirm Confirmer
}

// Inspect validates name and reports the state of its target path without
// changing anything.
func (r *Resolver) Inspect(name string) (*Target, error) {
	if err := ValidateName(name); err != nil {
		var invalid *InvalidNameError
		errors.As(err, &invalid)
		return nil, &oerrors.DetailError{
			Type:    "validation failed",
			Message: err.Error(),
			Field:   "project-name",
			Hint:    "Use lowercase letters, digits, and - . _ ~ (for example my-app)",
			Cause:   fmt.Errorf("%w: %w", oerrors.ErrValidation, invalid),
		}
	}

	cwd := r.Cwd
	if cwd == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, oerrors.NewFilesystemError("cannot determine working directory", "", err)
		}
		cwd = wd
	}
	path, err := filepath.Abs(filepath.Join(cwd, name))
	if err != nil {
		return nil, oerrors.NewFilesystemError("cannot resolve target path", name, err)
	}

	state, err := r.state(path)
	if err != nil {
		return nil, err
	}
	return &Target{Path: path, State: state}, nil
}

// Resolve validates name, resolves the target path and leaves an empty
// directory at it. Declining the overwrite confirmation returns
// ErrCancelled and leaves the directory untouched.
func (r *Resolver) Resolve(ctx context.Context, name string) (*Target, error) {
	target, err := r.Inspect(name)
	if err != nil {
		return nil, err
	}

	switch target.State {
	case Absent:
		if err := r.Fs.MkdirAll(target.Path, 0o755); err != nil {
			return nil, oerrors.NewFilesystemError("cannot create project directory", target.Path, err)
		}
		target.Created = true
		output.Debug("created project directory", "path", target.Path)

	case NonEmpty:
		if !r.Force {
			if !r.Interactive || r.Confirm == nil {
				return nil, oerrors.NewValidationError(
					fmt.Sprintf("directory %s already exists and is not empty", name),
					target.Path,
					"project-name",
					"Use --force to overwrite it, or choose another name",
				)
			}
			ok, err := r.Confirm(ctx, fmt.Sprintf("Directory %s already exists. Overwrite?", name))
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, oerrors.ErrCancelled
			}
		}
		if err := r.clear(target.Path); err != nil {
			return nil, err
		}
		target.Cleared = true
		output.Debug("cleared existing project directory", "path", target.Path)
	}

	return target, nil
}

func (r *Resolver) state(path string) (DirState, error) {
	info, err := r.Fs.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Absent, nil
		}
		return Absent, oerrors.NewFilesystemError("cannot access target path", path, err)
	}
	if !info.IsDir() {
		return Absent, oerrors.NewValidationError(
			"a file with the project name already exists", path, "project-name",
			"Remove the file or choose another name")
	}

	entries, err := afero.ReadDir(r.Fs, path)
	if err != nil {
		return Absent, oerrors.NewFilesystemError("cannot read target directory", path, err)
	}
	if len(entries) == 0 {
		return Empty, nil
	}
	return NonEmpty, nil
}

// clear removes every entry of dir, keeping dir itself.
func (r *Resolver) clear(dir string) error {
	entries, err := afero.ReadDir(r.Fs, dir)
	if err != nil {
		return oerrors.NewFilesystemError("cannot read target directory", dir, err)
	}
	for _, e := range entries {
		p := filepath.Join(dir, e.Name())
		if err := r.Fs.RemoveAll(p); err != nil {
			return oerrors.NewFilesystemError("cannot remove existing file", p, err)
		}
	}
	return nil
}
