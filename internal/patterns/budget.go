package patterns

import (
	"fmt"

	"github.com/steveyegge/agentlint/internal/artifact"
)

// tokenBudgets maps artifact type to its estimated-token budget. Manifests
// are machine-consumed and carry no budget.
var tokenBudgets = map[artifact.Type]int{
	artifact.TypeAgent:         AgentTokenBudget,
	artifact.TypeCommand:       CommandTokenBudget,
	artifact.TypeSkill:         SkillTokenBudget,
	artifact.TypeProjectMemory: MemoryTokenBudget,
	artifact.TypePrompt:        PromptTokenBudget,
}

func budgetPatterns() []*Pattern {
	return []*Pattern{excessiveLength()}
}

// excessiveLength fires when the estimated token cost of a document exceeds
// its type's budget. The estimate is chars/4, deliberately crude, which is
// why this is MEDIUM, not HIGH.
func excessiveLength() *Pattern {
	p := &Pattern{
		ID:        "excessive_length",
		Category:  CategoryBudget,
		Certainty: CertaintyMedium,
		AppliesTo: []artifact.Type{
			artifact.TypeAgent, artifact.TypeCommand, artifact.TypeSkill,
			artifact.TypeProjectMemory, artifact.TypePrompt,
		},
	}
	p.Check = func(a *artifact.Artifact) *Finding {
		budget, ok := tokenBudgets[a.Type]
		if !ok {
			return nil
		}
		estimated := EstimateTokens(a.RawContent)
		if estimated <= budget {
			return nil
		}
		return p.finding(a, 0,
			fmt.Sprintf("estimated %d tokens exceeds the %d-token budget for a %s",
				estimated, budget, a.Type),
			"split the document or cut low-value prose")
	}
	return p
}
