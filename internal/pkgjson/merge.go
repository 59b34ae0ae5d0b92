package pkgjson

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/computelabs/create-computelabs-app/internal/output"
)

const (
	// ManifestFile is the project dependency manifest.
	ManifestFile = "package.json"

	// SnippetFile is read from the overlay root.
	SnippetFile = "package.json.snippet"
)

// MergeFile merges the overlay snippet into projectDir/package.json. It
// returns a nil report when the overlay has no snippet. On error the
// project manifest is left as it was.
func MergeFile(fsys afero.Fs, projectDir string, overlay fs.FS) (*MergeReport, error) {
	if overlay == nil {
		return nil, nil
	}
	snippetData, err := fs.ReadFile(overlay, SnippetFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", SnippetFile, err)
	}
	snippet, err := ParseSnippet(snippetData)
	if err != nil {
		return nil, err
	}

	path := filepath.Join(projectDir, ManifestFile)
	before, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", ManifestFile, err)
	}
	m, err := Parse(before)
	if err != nil {
		return nil, err
	}

	report := m.Merge(snippet)
	after, err := m.Marshal()
	if err != nil {
		return nil, err
	}
	if err := afero.WriteFile(fsys, path, after, 0o644); err != nil {
		return nil, fmt.Errorf("writing %s: %w", ManifestFile, err)
	}

	report.Before = before
	report.After = after
	output.Debug("merged dependency snippet",
		"added", len(report.Dependencies.Added)+len(report.DevDependencies.Added),
		"overridden", len(report.Dependencies.Overridden)+len(report.DevDependencies.Overridden),
	)
	return &report, nil
}

// NormalizeFile rewrites projectDir/package.json in the same form MergeFile
// writes, with dependency keys sorted. A missing manifest is not an error.
// On error the manifest is left as it was.
func NormalizeFile(fsys afero.Fs, projectDir string) error {
	path := filepath.Join(projectDir, ManifestFile)
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading %s: %w", ManifestFile, err)
	}
	m, err := Parse(data)
	if err != nil {
		return err
	}
	out, err := m.Marshal()
	if err != nil {
		return err
	}
	if bytes.Equal(out, data) {
		return nil
	}
	if err := afero.WriteFile(fsys, path, out, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", ManifestFile, err)
	}
	return nil
}

// Diff renders a structural diff of two package.json documents.
func Diff(before, after []byte, useColor bool) (string, error) {
	return output.DiffDocuments("package.json (base)", before, "package.json (merged)", after, useColor)
}
