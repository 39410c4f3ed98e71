// Package patterns defines the check catalog that agentlint runs against
// loaded artifacts. A pattern is a pure predicate with a fixed certainty:
// it inspects one artifact and either fires a finding or stays silent.
// Patterns never touch disk and never mutate their input.
//
// Certainty discipline:
//
//	HIGH:   objectively verifiable (a tool is used but never declared, a
//	        fenced JSON example fails to parse)
//	MEDIUM: heuristic, needs judgment (verbosity ratios, token estimates)
//	LOW:    stylistic
//
// Only HIGH findings are eligible for auto-fixing, and suppression never
// changes a finding's certainty. Both rules are enforced downstream; the
// catalog just records the classification.
package patterns

import (
	"github.com/steveyegge/agentlint/internal/artifact"
)

// Certainty is the confidence that a finding is a true defect.
type Certainty string

const (
	CertaintyHigh   Certainty = "HIGH"
	CertaintyMedium Certainty = "MEDIUM"
	CertaintyLow    Certainty = "LOW"
)

// rank orders certainties for comparisons (HIGH wins).
func (c Certainty) rank() int {
	switch c {
	case CertaintyHigh:
		return 3
	case CertaintyMedium:
		return 2
	case CertaintyLow:
		return 1
	}
	return 0
}

// Higher reports whether c outranks other.
func (c Certainty) Higher(other Certainty) bool {
	return c.rank() > other.rank()
}

// Category groups related patterns for querying and reporting.
type Category string

const (
	CategoryStructure    Category = "structure"
	CategoryCapabilities Category = "capabilities"
	CategoryClarity      Category = "clarity"
	CategoryConsistency  Category = "consistency"
	CategorySchema       Category = "schema"
	CategoryBudget       Category = "budget"
)

// Finding is the result of a pattern firing against an artifact.
type Finding struct {
	File        string    `json:"file"`
	Line        int       `json:"line"`
	PatternID   string    `json:"patternId"`
	Issue       string    `json:"issue"`
	Fix         string    `json:"fix,omitempty"`
	Certainty   Certainty `json:"certainty"`
	Category    Category  `json:"category"`
	AutoFixable bool      `json:"autoFixable"`

	// Source names the analyzer that produced the finding. After
	// deduplication, Sources lists every analyzer that reported it.
	Source  string   `json:"source"`
	Sources []string `json:"sources,omitempty"`
}

// CheckFunc inspects one artifact. A nil result means the pattern did not
// fire. Implementations must be deterministic and side-effect free.
type CheckFunc func(a *artifact.Artifact) *Finding

// Pattern is a named check with fixed classification.
type Pattern struct {
	ID        string
	Category  Category
	Certainty Certainty
	AutoFix   bool
	AppliesTo []artifact.Type
	Check     CheckFunc
}

// Applies reports whether the pattern runs against artifacts of type t.
func (p *Pattern) Applies(t artifact.Type) bool {
	for _, at := range p.AppliesTo {
		if at == t {
			return true
		}
	}
	return false
}

// finding builds a Finding pre-populated from the pattern's classification.
func (p *Pattern) finding(a *artifact.Artifact, line int, issue, fix string) *Finding {
	return &Finding{
		File:        a.Path,
		Line:        line,
		PatternID:   p.ID,
		Issue:       issue,
		Fix:         fix,
		Certainty:   p.Certainty,
		Category:    p.Category,
		AutoFixable: p.AutoFix,
	}
}
