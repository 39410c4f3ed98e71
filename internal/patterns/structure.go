package patterns

import (
	"fmt"

	"github.com/steveyegge/agentlint/internal/artifact"
)

// Structural patterns: the metadata every instruction file needs before its
// content is worth reviewing.

func structurePatterns() []*Pattern {
	return []*Pattern{
		missingFrontmatter(),
		missingDescription(),
	}
}

// missingFrontmatter fires when a document that requires a metadata block
// has none. Objectively verifiable, and mechanically fixable by inserting a
// placeholder block.
func missingFrontmatter() *Pattern {
	p := &Pattern{
		ID:        "missing_frontmatter",
		Category:  CategoryStructure,
		Certainty: CertaintyHigh,
		AutoFix:   true,
		AppliesTo: []artifact.Type{artifact.TypeAgent, artifact.TypeCommand, artifact.TypeSkill},
	}
	p.Check = func(a *artifact.Artifact) *Finding {
		if a.Frontmatter != nil {
			return nil
		}
		return p.finding(a, 1,
			fmt.Sprintf("%s has no frontmatter block", a.Type),
			"insert a frontmatter block with name and description placeholders")
	}
	return p
}

// missingDescription fires when the frontmatter exists but declares no
// description. Descriptions drive delegation decisions; an empty one makes
// the artifact invisible to the model that routes work to it.
func missingDescription() *Pattern {
	p := &Pattern{
		ID:        "missing_description",
		Category:  CategoryStructure,
		Certainty: CertaintyHigh,
		AppliesTo: []artifact.Type{artifact.TypeAgent, artifact.TypeCommand, artifact.TypeSkill},
	}
	p.Check = func(a *artifact.Artifact) *Finding {
		if a.Frontmatter == nil {
			return nil // missing_frontmatter already covers this
		}
		if desc, ok := a.Frontmatter.Get("description"); ok && desc != "" {
			return nil
		}
		return p.finding(a, 1,
			fmt.Sprintf("%s frontmatter has no description", a.Type),
			"add a one-line description stating when to use this "+string(a.Type))
	}
	return p
}
