package patterns

import (
	"fmt"
	"strings"

	"github.com/steveyegge/agentlint/internal/artifact"
)

// Capability patterns: the gap between what an artifact is allowed to do and
// what its body actually does.

func capabilityPatterns() []*Pattern {
	return []*Pattern{
		wildcardToolGrant(),
		undeclaredToolUse(),
	}
}

// wildcardToolGrant fires when the capability-restriction field grants
// everything. A wildcard grant defeats the point of declaring capabilities;
// the fix narrows it to the tools the body demonstrably uses.
func wildcardToolGrant() *Pattern {
	p := &Pattern{
		ID:        "wildcard_tool_grant",
		Category:  CategoryCapabilities,
		Certainty: CertaintyHigh,
		AutoFix:   true,
		AppliesTo: []artifact.Type{artifact.TypeAgent, artifact.TypeSkill},
	}
	p.Check = func(a *artifact.Artifact) *Finding {
		declared, has := DeclaredCapabilities(a)
		if !has || !declared.Wildcard() {
			return nil
		}
		key, _ := a.Frontmatter.CapabilityKey()
		line := FindLine(a.RawContent, key+":")
		return p.finding(a, line,
			fmt.Sprintf("%s grants unrestricted tool access (%s: *)", a.Type, key),
			"narrow the grant to the tools this "+string(a.Type)+" actually uses")
	}
	return p
}

// undeclaredToolUse fires once per capability that the body exercises but
// the frontmatter never declares. Only meaningful when a restriction exists:
// no declaration at all means the artifact runs unrestricted, which is a
// different (wildcard-shaped) conversation.
func undeclaredToolUse() *Pattern {
	p := &Pattern{
		ID:        "undeclared_tool_use",
		Category:  CategoryCapabilities,
		Certainty: CertaintyHigh,
		AppliesTo: []artifact.Type{artifact.TypeAgent, artifact.TypeCommand, artifact.TypeSkill},
	}
	p.Check = func(a *artifact.Artifact) *Finding {
		declared, has := DeclaredCapabilities(a)
		if !has || declared.Wildcard() {
			return nil
		}
		missing := declared.Missing(UsedCapabilities(a))
		if len(missing) == 0 {
			return nil
		}
		key, _ := a.Frontmatter.CapabilityKey()
		line := FindLine(a.RawContent, key+":")
		return p.finding(a, line,
			fmt.Sprintf("body exercises undeclared tools: %s", strings.Join(missing, ", ")),
			fmt.Sprintf("add %s to the %s declaration or remove the usage", strings.Join(missing, ", "), key))
	}
	return p
}
