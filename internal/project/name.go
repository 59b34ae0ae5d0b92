// Package project validates project names and prepares the target directory.
package project

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// maxNameLength is the longest name the npm registry accepts.
const maxNameLength = 214

var (
	urlSafeName  = regexp.MustCompile(`^[a-z0-9\-._]+$`)
	specialChars = regexp.MustCompile(`[~'!()*]`)
)

var reservedNames = []string{"node_modules", "favicon.ico"}

// nodeCoreModules are the Node.js builtin module names a package may not
// shadow.
var nodeCoreModules = []string{
	"assert", "async_hooks", "buffer", "child_process", "cluster", "console",
	"constants", "crypto", "dgram", "diagnostics_channel", "dns", "domain",
	"events", "fs", "http", "http2", "https", "inspector", "module", "net",
	"os", "path", "perf_hooks", "process", "punycode", "querystring",
	"readline", "repl", "stream", "string_decoder", "sys", "timers", "tls",
	"trace_events", "tty", "url", "util", "v8", "vm", "wasi",
	"worker_threads", "zlib",
}

// InvalidNameError lists every rule a project name breaks.
type InvalidNameError struct {
	Name     string
	Problems []string
}

func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("invalid project name %q: %s", e.Name, strings.Join(e.Problems, "; "))
}

// ValidateName checks that name is usable as an npm package name and
// therefore as the generated package.json name. It does not touch the
// filesystem.
func ValidateName(name string) error {
	var problems []string

	if strings.TrimSpace(name) == "" {
		return &InvalidNameError{Name: name, Problems: []string{"name cannot be empty"}}
	}
	if len(name) > maxNameLength {
		problems = append(problems, fmt.Sprintf("name cannot be longer than %d characters", maxNameLength))
	}
	if strings.HasPrefix(name, ".") {
		problems = append(problems, "name cannot start with a period")
	}
	if strings.HasPrefix(name, "_") {
		problems = append(problems, "name cannot start with an underscore")
	}
	if strings.TrimSpace(name) != name {
		problems = append(problems, "name cannot contain leading or trailing spaces")
	}
	if strings.ToLower(name) != name {
		problems = append(problems, "name can no longer contain capital letters")
	}
	if specialChars.MatchString(name) {
		problems = append(problems, `name can no longer contain special characters ("~'!()*")`)
	}
	if !urlSafeName.MatchString(name) {
		problems = append(problems, "name can only contain URL-friendly characters")
	}
	if slices.Contains(reservedNames, strings.ToLower(name)) {
		problems = append(problems, fmt.Sprintf("%s is not a valid package name", name))
	}
	if slices.Contains(nodeCoreModules, strings.ToLower(name)) {
		problems = append(problems, fmt.Sprintf("%s is a core module name", name))
	}

	if len(problems) > 0 {
		return &InvalidNameError{Name: name, Problems: problems}
	}
	return nil
}
