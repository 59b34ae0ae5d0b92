// Package compose copies the base template and at most one overlay into a
// project directory.
package compose

import (
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"slices"

	"github.com/spf13/afero"

	oerrors "github.com/computelabs/create-computelabs-app/internal/errors"
	"github.com/computelabs/create-computelabs-app/internal/output"
)

// SnippetFile is the overlay dependency fragment. It is merged, not copied.
const SnippetFile = "package.json.snippet"

var (
	placeholderFiles = []string{".gitkeep", ".keep"}
	metadataFiles    = []string{".DS_Store", "Thumbs.db", "desktop.ini"}
)

// Excluded reports whether a slash separated template path is never copied.
func Excluded(p string) bool {
	base := path.Base(p)
	if slices.Contains(placeholderFiles, base) || slices.Contains(metadataFiles, base) {
		return true
	}
	for dir := path.Dir(p); dir != "." && dir != "/"; dir = path.Dir(dir) {
		if path.Base(dir) == "node_modules" {
			return true
		}
	}
	return base == "node_modules"
}

// Result lists what Compose copied. All lists are slash separated paths
// relative to the project root, sorted.
type Result struct {
	BaseFiles    []string
	OverlayFiles []string

	// Overridden are paths copied from base and then replaced by the overlay.
	Overridden []string
}

// Files returns every file present after composition.
func (r *Result) Files() []string {
	all := append(append([]string(nil), r.BaseFiles...), r.OverlayFiles...)
	slices.Sort(all)
	return slices.Compact(all)
}

// Origins maps each file to where it came from, for the summary tree.
func (r *Result) Origins() map[string]string {
	out := make(map[string]string, len(r.BaseFiles)+len(r.OverlayFiles))
	for _, f := range r.BaseFiles {
		out[f] = "base"
	}
	for _, f := range r.OverlayFiles {
		out[f] = "overlay"
	}
	for _, f := range r.Overridden {
		out[f] = "overlay (overrides base)"
	}
	return out
}

// Composer writes template trees into an afero filesystem.
type Composer struct {
	Fs afero.Fs
}

// New creates a Composer writing to fs.
func New(fs afero.Fs) *Composer {
	return &Composer{Fs: fs}
}

// Compose copies base into target, then overlay on top of it with
// overwrite. A nil overlay copies base only. The caller owns rollback.
func (c *Composer) Compose(base, overlay fs.FS, target string) (*Result, error) {
	res := &Result{}

	copied, err := c.copyTree(base, target, false)
	if err != nil {
		return nil, err
	}
	res.BaseFiles = copied
	output.Debug("copied base template", "files", len(copied))

	if overlay == nil {
		return res, nil
	}

	copied, err = c.copyTree(overlay, target, true)
	if err != nil {
		return nil, err
	}
	res.OverlayFiles = copied
	for _, f := range copied {
		if _, found := slices.BinarySearch(res.BaseFiles, f); found {
			res.Overridden = append(res.Overridden, f)
		}
	}
	output.Debug("applied overlay", "files", len(copied), "overridden", len(res.Overridden))

	return res, nil
}

func (c *Composer) copyTree(src fs.FS, target string, isOverlay bool) ([]string, error) {
	var copied []string

	err := fs.WalkDir(src, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == "." {
			return nil
		}
		if d.IsDir() {
			if d.Name() == "node_modules" {
				return fs.SkipDir
			}
			return nil
		}
		if Excluded(p) || (isOverlay && p == SnippetFile) {
			return nil
		}

		if err := c.copyFile(src, p, filepath.Join(target, filepath.FromSlash(p))); err != nil {
			return err
		}
		copied = append(copied, p)
		return nil
	})
	if err != nil {
		return nil, oerrors.NewFilesystemError("cannot copy template files", target, err)
	}

	slices.Sort(copied)
	return copied, nil
}

func (c *Composer) copyFile(src fs.FS, p, dst string) error {
	data, err := fs.ReadFile(src, p)
	if err != nil {
		return fmt.Errorf("reading %s: %w", p, err)
	}
	mode := fs.FileMode(0o644)
	if info, err := fs.Stat(src, p); err == nil && info.Mode().Perm()&0o111 != 0 {
		mode = 0o755
	}

	if err := c.Fs.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", p, err)
	}
	if err := afero.WriteFile(c.Fs, dst, data, mode); err != nil {
		return fmt.Errorf("writing %s: %w", p, err)
	}
	return nil
}
