package patterns

import (
	"fmt"
	"strings"

	"github.com/steveyegge/agentlint/internal/artifact"
)

// Project-memory patterns. Memory files (CLAUDE.md / AGENTS.md) are read on
// every session; rules without rationale age into cargo cult.

func memoryPatterns() []*Pattern {
	return []*Pattern{
		unexplainedRuleRatio(),
		duplicateHeadings(),
	}
}

// ruleMarkers open an imperative rule line.
var ruleMarkers = []string{
	"MUST", "NEVER", "ALWAYS", "REQUIRED", "FORBIDDEN", "CRITICAL",
	"DO NOT", "Don't", "don't",
}

// explanationMarkers signal that a rule carries its own rationale.
var explanationMarkers = []string{
	"because", "so that", "to avoid", "to prevent", "otherwise", "since",
}

// unexplainedRuleRatio fires when more than UnexplainedRuleRatio of the
// imperative rules in a memory file lack an adjoining explanation, either
// in the same sentence or on the line that follows.
func unexplainedRuleRatio() *Pattern {
	p := &Pattern{
		ID:        "unexplained_rule_ratio",
		Category:  CategoryClarity,
		Certainty: CertaintyMedium,
		AppliesTo: []artifact.Type{artifact.TypeProjectMemory},
	}
	p.Check = func(a *artifact.Artifact) *Finding {
		lines := strings.Split(StripFences(a.Body), "\n")
		total, unexplained := 0, 0
		for i, line := range lines {
			trimmed := strings.TrimLeft(strings.TrimSpace(line), "-*+ ")
			if trimmed == "" || strings.HasPrefix(trimmed, "#") {
				continue
			}
			if !hasRuleMarker(trimmed) {
				continue
			}
			total++
			if hasExplanation(trimmed) {
				continue
			}
			// An indented follow-up line counts as the explanation.
			if i+1 < len(lines) && isIndentedContinuation(lines[i+1]) {
				continue
			}
			unexplained++
		}
		if total < MinRulesForRatioCheck {
			return nil
		}
		ratio := float64(unexplained) / float64(total)
		if ratio <= UnexplainedRuleRatio {
			return nil
		}
		return p.finding(a, 0,
			fmt.Sprintf("%d of %d imperative rules (%.0f%%) carry no explanation",
				unexplained, total, ratio*100),
			"add a short why to each bare rule")
	}
	return p
}

func hasRuleMarker(line string) bool {
	for _, marker := range ruleMarkers {
		if strings.Contains(line, marker) {
			return true
		}
	}
	return false
}

func hasExplanation(line string) bool {
	lower := strings.ToLower(line)
	for _, marker := range explanationMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

func isIndentedContinuation(line string) bool {
	if strings.TrimSpace(line) == "" {
		return false
	}
	return strings.HasPrefix(line, "  ") || strings.HasPrefix(line, "\t")
}

// duplicateHeadings fires when the same heading text appears twice,
// usually the residue of appending to a memory file without reading it.
func duplicateHeadings() *Pattern {
	p := &Pattern{
		ID:        "duplicate_headings",
		Category:  CategoryConsistency,
		Certainty: CertaintyLow,
		AppliesTo: []artifact.Type{artifact.TypeProjectMemory},
	}
	p.Check = func(a *artifact.Artifact) *Finding {
		seen := make(map[string]bool)
		for _, h := range Headings(a.Body) {
			key := strings.ToLower(strings.TrimSpace(h.Text))
			if seen[key] {
				return p.finding(a, h.Line,
					fmt.Sprintf("heading %q appears more than once", h.Text),
					"merge the duplicate sections")
			}
			seen[key] = true
		}
		return nil
	}
	return p
}
