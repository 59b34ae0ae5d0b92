package version

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// nodeVersionRegex matches node version output like "v20.11.1".
var nodeVersionRegex = regexp.MustCompile(`v?\d+\.\d+\.\d+(?:-[a-zA-Z0-9.]+)?`)

// NodeInfo describes the Node.js runtime found on PATH.
type NodeInfo struct {
	// Version is the detected runtime version with a "v" prefix.
	Version string `json:"version"`

	// Path is the path to the node binary.
	Path string `json:"path"`

	// Found indicates if node was found in PATH.
	Found bool `json:"found"`

	// Message explains a detection failure.
	Message string `json:"message,omitempty"`
}

// String returns a human-readable runtime description.
func (n NodeInfo) String() string {
	if !n.Found {
		return "  Runtime Version: not found\n  Runtime Path:    -"
	}
	return fmt.Sprintf("  Runtime Version: %s\n  Runtime Path:    %s", n.Version, n.Path)
}

// NodeDetector finds the Node.js runtime. Tests substitute a fixed result.
type NodeDetector func(ctx context.Context) NodeInfo

// DetectNode finds node on PATH and reads its version.
func DetectNode(ctx context.Context) NodeInfo {
	path, err := exec.LookPath("node")
	if err != nil {
		return NodeInfo{Message: "node binary not found in PATH"}
	}

	cmd := exec.CommandContext(ctx, path, "--version")
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		return NodeInfo{Path: path, Found: true, Message: "failed to get node version: " + err.Error()}
	}

	v, err := extractVersion(out.String())
	if err != nil {
		return NodeInfo{Path: path, Found: true, Message: err.Error()}
	}
	return NodeInfo{Version: v, Path: path, Found: true}
}

// extractVersion extracts the version number from runtime output.
func extractVersion(output string) (string, error) {
	match := nodeVersionRegex.FindString(strings.TrimSpace(output))
	if match == "" {
		return "", &versionParseError{output: output}
	}
	if !strings.HasPrefix(match, "v") {
		match = "v" + match
	}
	return match, nil
}

// versionParseError indicates failure to parse runtime version output.
type versionParseError struct {
	output string
}

func (e *versionParseError) Error() string {
	return "failed to parse node version from output: " + e.output
}

// ParseConstraint parses a node version range such as ">=18.17.0".
func ParseConstraint(constraint string) (*semver.Constraints, error) {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return nil, fmt.Errorf("parsing version constraint %q: %w", constraint, err)
	}
	return c, nil
}

// Satisfies reports whether runtimeVersion satisfies constraint.
// A leading "v" on the version is accepted.
func Satisfies(runtimeVersion, constraint string) (bool, error) {
	c, err := ParseConstraint(constraint)
	if err != nil {
		return false, err
	}

	v, err := semver.NewVersion(strings.TrimPrefix(runtimeVersion, "v"))
	if err != nil {
		return false, fmt.Errorf("parsing runtime version %q: %w", runtimeVersion, err)
	}
	return c.Check(v), nil
}
