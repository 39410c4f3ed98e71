package patterns

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/steveyegge/agentlint/internal/artifact"
)

// Clarity patterns: prose defects that dilute an instruction file without
// making it wrong.

func clarityPatterns() []*Pattern {
	return []*Pattern{
		verbosePhrasing(),
		aggressiveEmphasis(),
		headingLevelJump(),
		vagueDirective(),
	}
}

// verbosePhrasing fires when stock filler phrasing appears in the body. The
// rewrite is mechanical (the fixer shares the phrase table), but whether
// the phrasing is actually harmful needs judgment, hence MEDIUM, which
// also means the HIGH-only fixer gate will skip it.
func verbosePhrasing() *Pattern {
	p := &Pattern{
		ID:        "verbose_phrasing",
		Category:  CategoryClarity,
		Certainty: CertaintyMedium,
		AutoFix:   true,
		AppliesTo: []artifact.Type{
			artifact.TypeAgent, artifact.TypeCommand, artifact.TypeSkill, artifact.TypePrompt,
		},
	}
	p.Check = func(a *artifact.Artifact) *Finding {
		prose := StripFences(a.Body)
		var hits []string
		for _, phrase := range verbosePhrases {
			if strings.Contains(prose, phrase.From) {
				hits = append(hits, strings.TrimSpace(phrase.From))
			}
		}
		if len(hits) == 0 {
			return nil
		}
		line := FindLine(a.RawContent, hits[0])
		return p.finding(a, line,
			fmt.Sprintf("stock verbose phrasing: %q", hits[0]),
			"replace filler phrases with their concise equivalents")
	}
	return p
}

// aggressiveEmphasis fires when the body shouts in all-caps beyond the
// recognized acronym/severity vocabulary. Stylistic, so LOW.
func aggressiveEmphasis() *Pattern {
	p := &Pattern{
		ID:        "aggressive_emphasis",
		Category:  CategoryClarity,
		Certainty: CertaintyLow,
		AutoFix:   true,
		AppliesTo: []artifact.Type{
			artifact.TypeAgent, artifact.TypeCommand, artifact.TypeSkill,
			artifact.TypeProjectMemory, artifact.TypePrompt,
		},
	}
	p.Check = func(a *artifact.Artifact) *Finding {
		words := AggressiveEmphasisWords(a.Body)
		if len(words) == 0 {
			return nil
		}
		line := FindLine(a.RawContent, words[0])
		return p.finding(a, line,
			fmt.Sprintf("aggressive all-caps emphasis (%q and %d more)", words[0], len(words)-1),
			"reserve capitals for acronyms and severity keywords")
	}
	return p
}

// headingLevelJump fires when a heading skips levels (## followed by ####).
func headingLevelJump() *Pattern {
	p := &Pattern{
		ID:        "heading_level_jump",
		Category:  CategoryClarity,
		Certainty: CertaintyLow,
		AutoFix:   true,
		AppliesTo: []artifact.Type{
			artifact.TypeAgent, artifact.TypeCommand, artifact.TypeSkill,
			artifact.TypeProjectMemory, artifact.TypePrompt,
		},
	}
	p.Check = func(a *artifact.Artifact) *Finding {
		prev := 0
		for _, h := range Headings(a.Body) {
			if prev > 0 && h.Level > prev+1 {
				return p.finding(a, FindLine(a.RawContent, strings.Repeat("#", h.Level)+" "+h.Text),
					fmt.Sprintf("heading %q jumps from level %d to %d", h.Text, prev, h.Level),
					"clamp heading levels to parent+1")
			}
			prev = h.Level
		}
		return nil
	}
	return p
}

// vagueDirectiveRe matches hedged, unactionable phrasing.
var vagueDirectiveRe = regexp.MustCompile(`(?i)\b(handle (?:it|this|errors?) appropriately|as needed|if necessary|and so on|etc\.)`)

// vagueDirective fires on hedged directives that give the model latitude
// where the author probably wanted none.
func vagueDirective() *Pattern {
	p := &Pattern{
		ID:        "vague_directive",
		Category:  CategoryClarity,
		Certainty: CertaintyLow,
		AppliesTo: []artifact.Type{artifact.TypePrompt, artifact.TypeCommand},
	}
	p.Check = func(a *artifact.Artifact) *Finding {
		m := vagueDirectiveRe.FindString(StripFences(a.Body))
		if m == "" {
			return nil
		}
		return p.finding(a, FindLine(a.RawContent, m),
			fmt.Sprintf("vague directive: %q", m),
			"state the concrete behavior expected instead")
	}
	return p
}
