package patterns

import (
	"regexp"
	"sort"
	"strings"

	"github.com/steveyegge/agentlint/internal/artifact"
)

// KnownTools is the capability vocabulary: the tools an agent, command, or
// skill may declare and exercise.
var KnownTools = []string{
	"Read", "Write", "Edit", "Grep", "Glob", "Bash",
	"WebFetch", "WebSearch", "Task", "NotebookEdit", "TodoWrite",
}

// CapabilitySet is a set of declared or exercised tool capabilities. A
// wildcard declaration grants every tool.
type CapabilitySet struct {
	tools    map[string]bool
	wildcard bool
}

// NewCapabilitySet returns an empty set.
func NewCapabilitySet() *CapabilitySet {
	return &CapabilitySet{tools: make(map[string]bool)}
}

// Add inserts a capability.
func (s *CapabilitySet) Add(tool string) {
	s.tools[tool] = true
}

// Grants reports whether the set covers tool. A wildcard set grants
// everything.
func (s *CapabilitySet) Grants(tool string) bool {
	return s.wildcard || s.tools[tool]
}

// Wildcard reports whether the set was declared as "*".
func (s *CapabilitySet) Wildcard() bool {
	return s.wildcard
}

// Empty reports whether nothing is declared.
func (s *CapabilitySet) Empty() bool {
	return !s.wildcard && len(s.tools) == 0
}

// Tools returns the explicit capabilities, sorted.
func (s *CapabilitySet) Tools() []string {
	out := make([]string, 0, len(s.tools))
	for t := range s.tools {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Missing returns the capabilities in other not granted by s, sorted.
func (s *CapabilitySet) Missing(other *CapabilitySet) []string {
	var out []string
	for _, t := range other.Tools() {
		if !s.Grants(t) {
			out = append(out, t)
		}
	}
	return out
}

// scopedDeclRe matches a scoped declaration like "Bash(git:*)"; the scoped
// form grants the unscoped capability.
var scopedDeclRe = regexp.MustCompile(`^([A-Za-z]+)\(.*\)$`)

// DeclaredCapabilities parses the artifact's capability-restriction field
// into a set. An artifact with no such field returns an empty set; whether
// that means "everything" or "nothing" is a per-pattern decision.
func DeclaredCapabilities(a *artifact.Artifact) (*CapabilitySet, bool) {
	set := NewCapabilitySet()
	if a.Frontmatter == nil {
		return set, false
	}
	key, ok := a.Frontmatter.CapabilityKey()
	if !ok {
		return set, false
	}
	for _, item := range a.Frontmatter.List(key) {
		if item == "*" {
			set.wildcard = true
			continue
		}
		if m := scopedDeclRe.FindStringSubmatch(item); m != nil {
			set.Add(m[1])
			continue
		}
		set.Add(item)
	}
	return set, true
}

// toolMentionPatterns recognize a capability being exercised in body text:
// call syntax ("Read(file)"), or a verb-phrase mention ("use the Read
// tool", "using Grep to...").
var (
	callSyntaxRe = regexp.MustCompile(`\b(Read|Write|Edit|Grep|Glob|Bash|WebFetch|WebSearch|Task|NotebookEdit|TodoWrite)\(`)
	verbPhraseRe = regexp.MustCompile(`(?i)\b(?:use|uses|using|run|runs|invoke|invokes|call|calls|with)\s+(?:the\s+)?(Read|Write|Edit|Grep|Glob|Bash|WebFetch|WebSearch|Task|NotebookEdit|TodoWrite)\b`)

	// shellWordRe spots command-line invocations named in prose ("run git
	// rebase", "npm install the deps"). Word-bounded so "digit" never
	// implies git.
	shellWordRe = regexp.MustCompile(`(?i)\b(?:git|npm|npx|curl|docker|make|pytest|cargo)\s+\w`)
)

// invocationKeywords maps recognized external-invocation phrasing to the
// capability it implies. Matching is case-insensitive on the body text.
var invocationKeywords = []struct {
	Phrase string
	Tool   string
}{
	{"run the command", "Bash"},
	{"shell command", "Bash"},
	{"execute the script", "Bash"},
	{"create a file", "Write"},
	{"write the file", "Write"},
	{"write a file", "Write"},
	{"save the file", "Write"},
	{"save to disk", "Write"},
	{"modify the file", "Edit"},
	{"edit the file", "Edit"},
	{"search the codebase", "Grep"},
	{"search for files", "Glob"},
	{"read the file", "Read"},
	{"fetch the url", "WebFetch"},
	{"search the web", "WebSearch"},
}

// UsedCapabilities extracts the capabilities exercised in the artifact's
// body via call syntax, verb-phrase mention, or recognized external
// invocation keywords. Fenced shell blocks imply Bash.
func UsedCapabilities(a *artifact.Artifact) *CapabilitySet {
	set := NewCapabilitySet()
	prose := StripFences(a.Body)

	for _, m := range callSyntaxRe.FindAllStringSubmatch(a.Body, -1) {
		set.Add(m[1])
	}
	for _, m := range verbPhraseRe.FindAllStringSubmatch(prose, -1) {
		set.Add(normalizeToolName(m[1]))
	}

	lower := strings.ToLower(prose)
	for _, kw := range invocationKeywords {
		if strings.Contains(lower, kw.Phrase) {
			set.Add(kw.Tool)
		}
	}
	if shellWordRe.MatchString(prose) {
		set.Add("Bash")
	}

	for _, block := range FencedBlocks(a.Body) {
		switch block.Lang {
		case "bash", "sh", "shell", "zsh":
			set.Add("Bash")
		}
	}
	return set
}

// normalizeToolName maps a case-insensitive regex capture back to the
// canonical tool spelling.
func normalizeToolName(name string) string {
	for _, t := range KnownTools {
		if strings.EqualFold(t, name) {
			return t
		}
	}
	return name
}
