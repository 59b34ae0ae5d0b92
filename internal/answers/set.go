package answers

import (
	"fmt"
	"strings"
)

// Question identifiers used by template manifests to declare which
// follow-up questions a project type asks.
const (
	QuestionAIProviders     = "aiProviders"
	QuestionIncludeExamples = "includeExamples"
	QuestionSolanaNetwork   = "solanaNetwork"
	QuestionIncludeDefi     = "includeDefi"
)

// DefaultQuestions returns the follow-up questions implied by a project type.
func DefaultQuestions(t ProjectType) []string {
	var qs []string
	if t.RequiresAI() {
		qs = append(qs, QuestionAIProviders, QuestionIncludeExamples)
	}
	if t.RequiresWeb3() {
		qs = append(qs, QuestionSolanaNetwork, QuestionIncludeDefi)
	}
	return qs
}

// Set is the complete answer set for one run. It is built once by the
// Collector and treated as immutable afterwards.
type Set struct {
	ProjectName     string
	Description     string
	Author          string
	Type            ProjectType
	Providers       []Provider
	IncludeExamples bool
	Network         Network
	IncludeDefi     bool
}

// InvalidAnswersError lists every problem found in an answer set.
type InvalidAnswersError struct {
	Problems []string
}

func (e *InvalidAnswersError) Error() string {
	return "invalid answers: " + strings.Join(e.Problems, "; ")
}

// Validate checks the answer set invariants: a known type, at least one
// provider for AI types, and a network for Web3 types. Fields that do not
// apply to the type are ignored.
func (s Set) Validate() error {
	var problems []string

	if !s.Type.Valid() {
		problems = append(problems, fmt.Sprintf("unknown project type %q", s.Type))
	}
	if s.Type.RequiresAI() {
		if len(s.Providers) == 0 {
			problems = append(problems, "at least one AI provider is required")
		}
		for _, p := range s.Providers {
			if !p.Valid() {
				problems = append(problems, fmt.Sprintf("unknown AI provider %q", p))
			}
		}
	}
	if s.Type.RequiresWeb3() && !s.Network.Valid() {
		if s.Network == "" {
			problems = append(problems, "a Solana network is required")
		} else {
			problems = append(problems, fmt.Sprintf("unknown Solana network %q", s.Network))
		}
	}

	if len(problems) > 0 {
		return &InvalidAnswersError{Problems: problems}
	}
	return nil
}

// Normalize returns a copy with fields that do not apply to the type
// cleared, so that equal inputs always produce equal output.
func (s Set) Normalize() Set {
	out := s
	out.Description = strings.TrimSpace(s.Description)
	out.Author = strings.TrimSpace(s.Author)
	if s.Type.RequiresAI() {
		out.Providers = append([]Provider(nil), s.Providers...)
	} else {
		out.Providers = nil
		out.IncludeExamples = false
	}
	if !s.Type.RequiresWeb3() {
		out.Network = ""
		out.IncludeDefi = false
	}
	return out
}

// PrimaryProvider returns the first selected provider, or "" when none.
func (s Set) PrimaryProvider() Provider {
	if len(s.Providers) == 0 {
		return ""
	}
	return s.Providers[0]
}
