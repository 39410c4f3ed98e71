package analyzer

import (
	"regexp"
	"strings"

	"github.com/steveyegge/agentlint/internal/artifact"
	"github.com/steveyegge/agentlint/internal/patterns"
)

// instruction is one imperative sentence lifted from an artifact body.
type instruction struct {
	Text string
	Line int
}

// docView is the corpus-wide relational view of one artifact: what it may
// do, what it actually does, who it talks about, and what it demands.
type docView struct {
	art          *artifact.Artifact
	declared     *patterns.CapabilitySet
	hasDecl      bool
	used         *patterns.CapabilitySet
	refs         map[string]bool // names of other artifacts mentioned
	instructions []instruction
}

// buildCorpus constructs the relational view for every artifact. Reference
// detection needs the full name table first, so this is a two-pass build.
func buildCorpus(arts []*artifact.Artifact) []*docView {
	names := make(map[string]*artifact.Artifact, len(arts))
	for _, a := range arts {
		names[a.Name()] = a
	}

	views := make([]*docView, 0, len(arts))
	for _, a := range arts {
		declared, hasDecl := patterns.DeclaredCapabilities(a)
		v := &docView{
			art:          a,
			declared:     declared,
			hasDecl:      hasDecl,
			used:         patterns.UsedCapabilities(a),
			refs:         findReferences(a, names),
			instructions: extractInstructions(a),
		}
		views = append(views, v)
	}
	return views
}

// findReferences collects the names of other corpus artifacts mentioned in
// this artifact's body or frontmatter.
func findReferences(a *artifact.Artifact, names map[string]*artifact.Artifact) map[string]bool {
	refs := make(map[string]bool)
	haystack := a.RawContent
	for name, target := range names {
		if target == a || name == "" {
			continue
		}
		if containsName(haystack, name) {
			refs[name] = true
		}
	}
	return refs
}

var nameBoundary = `[^a-zA-Z0-9_-]`

// containsName reports a word-bounded occurrence of name in content.
// Artifact names are slugs; substring matching would make "review" claim
// a reference from "code-reviewer".
func containsName(content, name string) bool {
	re, err := regexp.Compile(`(^|` + nameBoundary + `)` + regexp.QuoteMeta(name) + `($|` + nameBoundary + `)`)
	if err != nil {
		return strings.Contains(content, name)
	}
	return re.MatchString(content)
}

// imperativeRe marks a sentence as an instruction.
var imperativeRe = regexp.MustCompile(`\b(MUST|NEVER|ALWAYS|REQUIRED|FORBIDDEN|CRITICAL|DO NOT)\b|\bdon't\b|\bDon't\b`)

// extractInstructions returns the imperative-instruction sentences of an
// artifact body, excluding headings and fenced code.
func extractInstructions(a *artifact.Artifact) []instruction {
	var out []instruction
	bodyOffset := strings.Count(a.RawContent, "\n") - strings.Count(a.Body, "\n")
	for i, line := range strings.Split(patterns.StripFences(a.Body), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if !imperativeRe.MatchString(trimmed) {
			continue
		}
		text := strings.TrimLeft(trimmed, "-*+>0123456789. ")
		out = append(out, instruction{
			Text: text,
			Line: bodyOffset + i + 1,
		})
	}
	return out
}
