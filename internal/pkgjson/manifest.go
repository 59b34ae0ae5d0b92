// Package pkgjson reads, merges and writes package.json dependency
// manifests.
package pkgjson

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
)

// Dependency group keys.
const (
	GroupDependencies    = "dependencies"
	GroupDevDependencies = "devDependencies"
)

// Manifest is a parsed package.json. Top-level keys keep their original
// order; the dependency groups are editable maps and are written with
// their keys sorted.
type Manifest struct {
	keys   []string
	fields map[string]json.RawMessage

	Dependencies    map[string]string
	DevDependencies map[string]string
}

// Snippet is an overlay dependency fragment.
type Snippet struct {
	Dependencies    map[string]string `json:"dependencies,omitempty"`
	DevDependencies map[string]string `json:"devDependencies,omitempty"`
}

// Parse decodes package.json bytes.
func Parse(data []byte) (*Manifest, error) {
	if err := validate(packageSchema, "package.json", data); err != nil {
		return nil, err
	}

	m := &Manifest{fields: make(map[string]json.RawMessage)}

	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("reading package.json: %w", err)
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("reading package.json key: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v in package.json", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("reading package.json value for %q: %w", key, err)
		}
		if _, dup := m.fields[key]; !dup {
			m.keys = append(m.keys, key)
		}
		m.fields[key] = raw
	}

	var err error
	if m.Dependencies, err = m.group(GroupDependencies); err != nil {
		return nil, err
	}
	if m.DevDependencies, err = m.group(GroupDevDependencies); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Manifest) group(key string) (map[string]string, error) {
	raw, ok := m.fields[key]
	if !ok {
		return nil, nil
	}
	var out map[string]string
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", key, err)
	}
	return out, nil
}

// ParseSnippet decodes and validates a package.json.snippet.
func ParseSnippet(data []byte) (*Snippet, error) {
	if err := validate(snippetSchema, "package.json.snippet", data); err != nil {
		return nil, err
	}
	var s Snippet
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decoding package.json.snippet: %w", err)
	}
	return &s, nil
}

// Name returns the package name.
func (m *Manifest) Name() string {
	var name string
	_ = json.Unmarshal(m.fields["name"], &name)
	return name
}

// Has reports whether pkg is a runtime or development dependency.
func (m *Manifest) Has(pkg string) bool {
	_, inDeps := m.Dependencies[pkg]
	_, inDev := m.DevDependencies[pkg]
	return inDeps || inDev
}

// GroupReport lists the keys a merge touched in one dependency group.
type GroupReport struct {
	Added      []string
	Overridden []string
}

// MergeReport describes a merge.
type MergeReport struct {
	Dependencies    GroupReport
	DevDependencies GroupReport

	// Before and After hold the serialized manifest around the merge. They
	// are only set by MergeFile.
	Before []byte
	After  []byte
}

// Changed reports whether the merge added or replaced anything.
func (r *MergeReport) Changed() bool {
	return len(r.Dependencies.Added)+len(r.Dependencies.Overridden)+
		len(r.DevDependencies.Added)+len(r.DevDependencies.Overridden) > 0
}

// Merge folds s into m. Snippet values win on collision and no existing key
// is removed.
func (m *Manifest) Merge(s *Snippet) MergeReport {
	var report MergeReport
	m.Dependencies, report.Dependencies = mergeGroup(m.Dependencies, s.Dependencies)
	m.DevDependencies, report.DevDependencies = mergeGroup(m.DevDependencies, s.DevDependencies)
	return report
}

func mergeGroup(dst, src map[string]string) (map[string]string, GroupReport) {
	var report GroupReport
	if len(src) == 0 {
		return dst, report
	}
	if dst == nil {
		dst = make(map[string]string, len(src))
	}
	for k, v := range src {
		old, exists := dst[k]
		switch {
		case !exists:
			report.Added = append(report.Added, k)
		case old != v:
			report.Overridden = append(report.Overridden, k)
		}
		dst[k] = v
	}
	slices.Sort(report.Added)
	slices.Sort(report.Overridden)
	return dst, report
}

// Marshal writes the manifest with two-space indentation, dependency keys
// sorted and a trailing newline. Equal manifests produce identical bytes.
func (m *Manifest) Marshal() ([]byte, error) {
	keys := slices.Clone(m.keys)
	for _, g := range []string{GroupDependencies, GroupDevDependencies} {
		if m.groupMap(g) != nil && !slices.Contains(keys, g) {
			keys = append(keys, g)
		}
	}

	var buf bytes.Buffer
	buf.WriteString("{")
	for i, key := range keys {
		if i > 0 {
			buf.WriteString(",")
		}
		buf.WriteString("\n  ")

		k, err := encode(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteString(": ")

		var value []byte
		if deps := m.groupMap(key); deps != nil || isGroup(key) {
			value, err = encode(deps)
		} else {
			value = m.fields[key]
		}
		if err != nil {
			return nil, fmt.Errorf("encoding %s: %w", key, err)
		}
		if err := json.Indent(&buf, value, "  ", "  "); err != nil {
			return nil, fmt.Errorf("formatting %s: %w", key, err)
		}
	}
	if len(keys) > 0 {
		buf.WriteString("\n")
	}
	buf.WriteString("}\n")
	return buf.Bytes(), nil
}

func isGroup(key string) bool {
	return key == GroupDependencies || key == GroupDevDependencies
}

func (m *Manifest) groupMap(key string) map[string]string {
	switch key {
	case GroupDependencies:
		return m.Dependencies
	case GroupDevDependencies:
		return m.DevDependencies
	default:
		return nil
	}
}

// encode marshals v compactly without HTML escaping. Maps come out with
// sorted keys.
func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
