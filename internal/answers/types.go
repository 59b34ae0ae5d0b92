// Package answers defines the answer set that drives project generation and
// collects it from flags or interactive prompts.
package answers

import (
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// ProjectType selects the overlay applied on top of the base template.
type ProjectType string

const (
	// TypeStandard is the plain web application, no overlay.
	TypeStandard ProjectType = "standard"
	// TypeAI adds AI provider integrations.
	TypeAI ProjectType = "ai"
	// TypeWeb3 adds Solana wallet and DeFi features.
	TypeWeb3 ProjectType = "web3"
	// TypeAIWeb3 combines AI and Web3 through a dedicated overlay.
	TypeAIWeb3 ProjectType = "ai-web3"
)

// ProjectTypes returns all project types in display order.
func ProjectTypes() []ProjectType {
	return []ProjectType{TypeStandard, TypeAI, TypeWeb3, TypeAIWeb3}
}

// Valid reports whether t is a known project type.
func (t ProjectType) Valid() bool {
	switch t {
	case TypeStandard, TypeAI, TypeWeb3, TypeAIWeb3:
		return true
	default:
		return false
	}
}

// RequiresAI reports whether the type needs AI provider answers.
func (t ProjectType) RequiresAI() bool {
	return t == TypeAI || t == TypeAIWeb3
}

// RequiresWeb3 reports whether the type needs Solana answers.
func (t ProjectType) RequiresWeb3() bool {
	return t == TypeWeb3 || t == TypeAIWeb3
}

// Label returns a human-readable name.
func (t ProjectType) Label() string {
	switch t {
	case TypeStandard:
		return "Standard Web2"
	case TypeAI:
		return "AI-Powered"
	case TypeWeb3:
		return "Web3 Solana"
	case TypeAIWeb3:
		return "AI + Web3"
	default:
		return titleCaser.String(string(t))
	}
}

// UnknownValueError reports a value outside a closed set, with the closest
// known value when one exists.
type UnknownValueError struct {
	Kind       string
	Value      string
	Valid      []string
	Suggestion string
}

func (e *UnknownValueError) Error() string {
	msg := fmt.Sprintf("unknown %s %q (valid: %s)", e.Kind, e.Value, strings.Join(e.Valid, ", "))
	if e.Suggestion != "" {
		msg += fmt.Sprintf("; did you mean %q?", e.Suggestion)
	}
	return msg
}

// suggest returns the best fuzzy match for value among candidates.
func suggest(value string, candidates []string) string {
	if value == "" {
		return ""
	}
	matches := fuzzy.Find(value, candidates)
	if len(matches) == 0 {
		return ""
	}
	return matches[0].Str
}

// ParseProjectType parses s into a ProjectType.
func ParseProjectType(s string) (ProjectType, error) {
	t := ProjectType(strings.ToLower(strings.TrimSpace(s)))
	if t.Valid() {
		return t, nil
	}

	valid := make([]string, 0, len(ProjectTypes()))
	for _, pt := range ProjectTypes() {
		valid = append(valid, string(pt))
	}
	return "", &UnknownValueError{
		Kind:       "project type",
		Value:      s,
		Valid:      valid,
		Suggestion: suggest(strings.ToLower(s), valid),
	}
}

// Provider is an AI provider integration the generated app can talk to.
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderGemini    Provider = "gemini"
	ProviderOllama    Provider = "ollama"
)

// Providers returns all providers in display order.
func Providers() []Provider {
	return []Provider{ProviderOpenAI, ProviderAnthropic, ProviderGemini, ProviderOllama}
}

// Valid reports whether p is a known provider.
func (p Provider) Valid() bool {
	switch p {
	case ProviderOpenAI, ProviderAnthropic, ProviderGemini, ProviderOllama:
		return true
	default:
		return false
	}
}

// Label returns a human-readable provider name.
func (p Provider) Label() string {
	switch p {
	case ProviderOpenAI:
		return "OpenAI (GPT-4o, GPT-4o mini)"
	case ProviderAnthropic:
		return "Anthropic (Claude)"
	case ProviderGemini:
		return "Google (Gemini)"
	case ProviderOllama:
		return "Ollama (local models)"
	default:
		return titleCaser.String(string(p))
	}
}

// CredentialEnv returns the environment variable the generated app reads
// for this provider.
func (p Provider) CredentialEnv() string {
	switch p {
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	case ProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	case ProviderGemini:
		return "GOOGLE_API_KEY"
	case ProviderOllama:
		return "OLLAMA_HOST"
	default:
		return ""
	}
}

// CredentialDefault returns the placeholder value written for the
// credential. Only Ollama has a non-secret default.
func (p Provider) CredentialDefault() string {
	if p == ProviderOllama {
		return "http://localhost:11434"
	}
	return ""
}

// ParseProviders parses provider names, accepting comma-separated entries.
// Order is preserved and duplicates are dropped.
func ParseProviders(values []string) ([]Provider, error) {
	valid := make([]string, 0, len(Providers()))
	for _, p := range Providers() {
		valid = append(valid, string(p))
	}

	seen := make(map[Provider]bool)
	var out []Provider
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			part = strings.ToLower(strings.TrimSpace(part))
			if part == "" {
				continue
			}
			p := Provider(part)
			if !p.Valid() {
				return nil, &UnknownValueError{
					Kind:       "AI provider",
					Value:      part,
					Valid:      valid,
					Suggestion: suggest(part, valid),
				}
			}
			if !seen[p] {
				seen[p] = true
				out = append(out, p)
			}
		}
	}
	return out, nil
}

// Network is a Solana cluster.
type Network string

const (
	NetworkDevnet      Network = "devnet"
	NetworkTestnet     Network = "testnet"
	NetworkMainnetBeta Network = "mainnet-beta"
)

// Networks returns all networks in display order.
func Networks() []Network {
	return []Network{NetworkDevnet, NetworkTestnet, NetworkMainnetBeta}
}

// Valid reports whether n is a known network.
func (n Network) Valid() bool {
	switch n {
	case NetworkDevnet, NetworkTestnet, NetworkMainnetBeta:
		return true
	default:
		return false
	}
}

// Label returns a human-readable network name.
func (n Network) Label() string {
	if n == NetworkMainnetBeta {
		return "Mainnet Beta (real funds)"
	}
	return titleCaser.String(string(n))
}

// RPCURL returns the public RPC endpoint for the network.
func (n Network) RPCURL() string {
	switch n {
	case NetworkDevnet:
		return "https://api.devnet.solana.com"
	case NetworkTestnet:
		return "https://api.testnet.solana.com"
	case NetworkMainnetBeta:
		return "https://api.mainnet-beta.solana.com"
	default:
		return ""
	}
}

// ParseNetwork parses s into a Network.
func ParseNetwork(s string) (Network, error) {
	n := Network(strings.ToLower(strings.TrimSpace(s)))
	if n.Valid() {
		return n, nil
	}

	valid := make([]string, 0, len(Networks()))
	for _, nw := range Networks() {
		valid = append(valid, string(nw))
	}
	return "", &UnknownValueError{
		Kind:       "Solana network",
		Value:      s,
		Valid:      valid,
		Suggestion: suggest(strings.ToLower(s), valid),
	}
}
