package patterns

import (
	"fmt"

	"github.com/steveyegge/agentlint/internal/artifact"
)

// SectionSpec describes a required section: its pattern id, canonical
// heading, the aliases that satisfy it, and which artifact types need it.
// CanonicalSections order also determines where the fixer inserts a missing
// section.
type SectionSpec struct {
	PatternID string
	Heading   string
	Aliases   []string
	AppliesTo []artifact.Type
}

// CanonicalSections is the ordered list of sections an instruction file is
// expected to carry. Insertion order for fixes follows this list.
var CanonicalSections = []SectionSpec{
	{
		PatternID: "missing_role_section",
		Heading:   "Role",
		Aliases:   []string{"role", "persona", "identity", "who you are"},
		AppliesTo: []artifact.Type{artifact.TypeAgent},
	},
	{
		PatternID: "missing_output_format_section",
		Heading:   "Output Format",
		Aliases:   []string{"output format", "output", "response format", "report format"},
		AppliesTo: []artifact.Type{artifact.TypeAgent},
	},
	{
		PatternID: "missing_constraints_section",
		Heading:   "Constraints",
		Aliases:   []string{"constraints", "rules", "boundaries", "limitations"},
		AppliesTo: []artifact.Type{artifact.TypeAgent, artifact.TypeSkill},
	},
	{
		PatternID: "missing_verification_section",
		Heading:   "Verification",
		Aliases:   []string{"verification", "validation", "success criteria", "definition of done"},
		AppliesTo: []artifact.Type{artifact.TypeAgent, artifact.TypeSkill},
	},
}

// SectionByPatternID returns the spec for a section pattern id.
func SectionByPatternID(id string) (SectionSpec, bool) {
	for _, s := range CanonicalSections {
		if s.PatternID == id {
			return s, true
		}
	}
	return SectionSpec{}, false
}

func sectionPatterns() []*Pattern {
	out := make([]*Pattern, 0, len(CanonicalSections))
	for _, spec := range CanonicalSections {
		out = append(out, missingSection(spec))
	}
	return out
}

// missingSection fires when the body lacks the given section under any of
// its accepted aliases. Presence of a heading is objectively verifiable and
// the fix inserts a placeholder at a deterministic position.
func missingSection(spec SectionSpec) *Pattern {
	p := &Pattern{
		ID:        spec.PatternID,
		Category:  CategoryStructure,
		Certainty: CertaintyHigh,
		AutoFix:   true,
		AppliesTo: spec.AppliesTo,
	}
	p.Check = func(a *artifact.Artifact) *Finding {
		if HasSection(a.Body, spec.Aliases...) {
			return nil
		}
		return p.finding(a, 0,
			fmt.Sprintf("%s is missing a %s section", a.Type, spec.Heading),
			fmt.Sprintf("add a \"## %s\" section", spec.Heading))
	}
	return p
}
