package fixer

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/steveyegge/agentlint/internal/patterns"
)

// DefaultScopedTools is what a wildcard tool grant is narrowed to: the
// read-only trio. Anything beyond that deserves a deliberate declaration.
const DefaultScopedTools = "Read, Grep, Glob"

// InsertFrontmatter prepends a placeholder metadata block when the document
// has none. Idempotent: a document that already opens with a delimiter is
// returned unchanged.
func InsertFrontmatter(content, name string) string {
	if strings.HasPrefix(content, "---\n") || strings.HasPrefix(content, "---\r\n") {
		return content
	}
	block := fmt.Sprintf("---\nname: %s\ndescription: TODO describe when to use this\n---\n\n", name)
	return block + content
}

func nameFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

var wildcardToolsRe = regexp.MustCompile(`(?m)^(tools|allowed-tools):\s*["']?\*["']?\s*$`)

// NarrowWildcardTools replaces an unrestricted tool grant with the default
// scoped set. Idempotent: the rewritten line no longer matches.
func NarrowWildcardTools(content string) string {
	fm, rest, ok := splitFrontmatterRegion(content)
	if !ok {
		return content
	}
	fixed := wildcardToolsRe.ReplaceAllString(fm, "${1}: "+DefaultScopedTools)
	return fixed + rest
}

// splitFrontmatterRegion separates the raw frontmatter region (delimiters
// included) from the rest of the document. The closing delimiter must be a
// whole "---" line; a "----" thematic break does not end the region.
func splitFrontmatterRegion(content string) (fm, rest string, ok bool) {
	if !strings.HasPrefix(content, "---\n") {
		return "", content, false
	}
	end := closingDelimiterIndex(content[4:])
	if end < 0 {
		return "", content, false
	}
	// Include the closing delimiter line.
	cut := 4 + end + len("\n---")
	if cut < len(content) && content[cut] == '\n' {
		cut++
	}
	return content[:cut], content[cut:], true
}

// closingDelimiterIndex locates the "\n---" that starts a whole closing
// delimiter line within the text following the opening delimiter.
func closingDelimiterIndex(s string) int {
	start := 0
	for {
		idx := strings.Index(s[start:], "\n---")
		if idx < 0 {
			return -1
		}
		pos := start + idx
		after := pos + len("\n---")
		if after == len(s) || s[after] == '\n' {
			return pos
		}
		start = pos + 1
	}
}

// InsertSection adds a missing section at its deterministic position: in
// CanonicalSections order, before the first later canonical section that
// already exists, otherwise at the end of the document. Idempotent: an
// existing section (under any alias) leaves the document unchanged.
func InsertSection(content string, spec patterns.SectionSpec) string {
	fm, body, _ := splitFrontmatterRegion(content)
	if patterns.HasSection(body, spec.Aliases...) {
		return content
	}

	section := fmt.Sprintf("## %s\n\nTODO: describe the %s.\n", spec.Heading, strings.ToLower(spec.Heading))

	insertAt := -1
	passed := false
	for _, other := range patterns.CanonicalSections {
		if other.PatternID == spec.PatternID {
			passed = true
			continue
		}
		if !passed {
			continue
		}
		// First canonical section after ours that exists in the body.
		if line := sectionLine(body, other.Aliases); line > 0 {
			insertAt = line
			break
		}
	}

	lines := strings.Split(body, "\n")
	if insertAt < 1 || insertAt > len(lines) {
		trimmed := strings.TrimRight(body, "\n")
		if trimmed == "" {
			return fm + section
		}
		return fm + trimmed + "\n\n" + section
	}
	before := strings.TrimRight(strings.Join(lines[:insertAt-1], "\n"), "\n")
	after := strings.Join(lines[insertAt-1:], "\n")
	if before == "" {
		return fm + section + "\n" + after
	}
	return fm + before + "\n\n" + section + "\n" + after
}

// sectionLine returns the 1-indexed line of the first heading matching any
// alias, or 0.
func sectionLine(body string, aliases []string) int {
	for _, h := range patterns.Headings(body) {
		text := strings.ToLower(h.Text)
		for _, alias := range aliases {
			if strings.Contains(text, strings.ToLower(alias)) {
				return h.Line
			}
		}
	}
	return 0
}

// SimplifyVerbosePhrasing rewrites stock filler phrasing using the shared
// phrase table. Idempotent because no replacement reintroduces a source
// phrase.
func SimplifyVerbosePhrasing(content string) string {
	out := content
	for _, phrase := range patterns.VerbosePhrases() {
		out = strings.ReplaceAll(out, phrase.From, phrase.To)
	}
	return out
}

var headingLineRe = regexp.MustCompile(`^(#{1,6})(\s+.*)$`)

// ClampHeadingJumps rewrites headings so no heading is more than one level
// deeper than the one before it. Fenced code is untouched. Idempotent: the
// clamped sequence has no jumps left.
func ClampHeadingJumps(content string) string {
	lines := strings.Split(content, "\n")
	inFence := false
	prev := 0
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		m := headingLineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		level := len(m[1])
		if prev > 0 && level > prev+1 {
			level = prev + 1
			lines[i] = strings.Repeat("#", level) + m[2]
		}
		prev = level
	}
	return strings.Join(lines, "\n")
}

var (
	shoutWordRe = regexp.MustCompile(`\b[A-Z][A-Z']{3,}\b`)
	multiBangRe = regexp.MustCompile(`!{2,}`)
)

// ToneDownEmphasis lowercases aggressive all-caps words (keeping a leading
// capital) and collapses stacked exclamation marks. Recognized acronyms and
// severity tokens are preserved via the shared allowlist; fenced code is
// untouched. Idempotent: rewritten words are no longer all-caps.
func ToneDownEmphasis(content string) string {
	lines := strings.Split(content, "\n")
	inFence := false
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		line = shoutWordRe.ReplaceAllStringFunc(line, func(w string) string {
			if patterns.EmphasisAllowlist[strings.ToUpper(w)] {
				return w
			}
			return w[:1] + strings.ToLower(w[1:])
		})
		lines[i] = multiBangRe.ReplaceAllString(line, "!")
	}
	return strings.Join(lines, "\n")
}
