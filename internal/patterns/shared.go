package patterns

import (
	"regexp"
	"strings"
)

// Heuristic thresholds. These are named so the heuristics stay independently
// testable; none of them should appear inline anywhere else.
const (
	// TokenEstimateDivisor approximates tokens as characters / 4. This is a
	// fixed approximation, not a real tokenizer.
	TokenEstimateDivisor = 4

	// Token budgets per artifact type (estimated tokens). Instruction files
	// beyond these sizes crowd out the task context they share a window with.
	AgentTokenBudget   = 3000
	CommandTokenBudget = 1500
	SkillTokenBudget   = 3000
	MemoryTokenBudget  = 2000
	PromptTokenBudget  = 4000

	// UnexplainedRuleRatio is the fraction of imperative rules in a
	// project-memory file that may lack an adjoining explanation before the
	// unexplained_rule_ratio pattern fires.
	UnexplainedRuleRatio = 0.30

	// MinRulesForRatioCheck avoids firing ratio heuristics on tiny rule sets.
	MinRulesForRatioCheck = 5
)

// EstimateTokens returns the fixed character-count approximation of the
// token cost of s.
func EstimateTokens(s string) int {
	return len(s) / TokenEstimateDivisor
}

// FindLine locates needle in content by substring search and returns its
// 1-indexed line, or 0 when the needle is absent. Zero is the documented
// "no line derived" default for findings.
func FindLine(content, needle string) int {
	if needle == "" {
		return 0
	}
	idx := strings.Index(content, needle)
	if idx < 0 {
		return 0
	}
	return strings.Count(content[:idx], "\n") + 1
}

var headingRe = regexp.MustCompile(`(?m)^(#{1,6})\s+(.+?)\s*$`)

// Heading is a markdown heading outside fenced code.
type Heading struct {
	Level int
	Text  string
	Line  int
}

// Headings returns every markdown heading in body, skipping fenced code
// blocks.
func Headings(body string) []Heading {
	var out []Heading
	inFence := false
	for i, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		m := headingRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		out = append(out, Heading{
			Level: len(m[1]),
			Text:  m[2],
			Line:  i + 1,
		})
	}
	return out
}

// HasSection reports whether body contains a heading matching any of the
// given names (case-insensitive).
func HasSection(body string, names ...string) bool {
	for _, h := range Headings(body) {
		text := strings.ToLower(h.Text)
		for _, name := range names {
			if strings.Contains(text, strings.ToLower(name)) {
				return true
			}
		}
	}
	return false
}

// FencedBlock is a fenced code block with its info string.
type FencedBlock struct {
	Lang    string
	Content string
	Line    int // 1-indexed line of the opening fence
}

// FencedBlocks extracts fenced code blocks from body. An unterminated fence
// yields a block running to end of input; extraction never fails.
func FencedBlocks(body string) []FencedBlock {
	var blocks []FencedBlock
	lines := strings.Split(body, "\n")
	for i := 0; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])
		if !strings.HasPrefix(trimmed, "```") {
			continue
		}
		lang := strings.TrimSpace(strings.TrimPrefix(trimmed, "```"))
		start := i + 1
		end := len(lines)
		for j := start; j < len(lines); j++ {
			if strings.TrimSpace(lines[j]) == "```" {
				end = j
				break
			}
		}
		blocks = append(blocks, FencedBlock{
			Lang:    strings.ToLower(lang),
			Content: strings.Join(lines[start:end], "\n"),
			Line:    i + 1,
		})
		i = end
	}
	return blocks
}

// StripFences replaces fenced code block contents with blank lines so that
// line numbers are preserved while the code itself is excluded from
// prose-oriented checks.
func StripFences(body string) string {
	lines := strings.Split(body, "\n")
	inFence := false
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			inFence = !inFence
			lines[i] = ""
			continue
		}
		if inFence {
			lines[i] = ""
		}
	}
	return strings.Join(lines, "\n")
}

// verbosePhrases maps stock filler phrasing to its concise replacement. The
// fixer shares this table; keeping it here keeps detection and rewrite in
// lockstep.
var verbosePhrases = []struct {
	From string
	To   string
}{
	{"In order to", "To"},
	{"in order to", "to"},
	{"It is important to note that ", ""},
	{"it is important to note that ", ""},
	{"Please note that ", ""},
	{"please note that ", ""},
	{"due to the fact that", "because"},
	{"Due to the fact that", "Because"},
	{"at this point in time", "now"},
	{"makes use of", "uses"},
	{"in the event that", "if"},
}

// VerbosePhrases exposes the rewrite table for the fixer.
func VerbosePhrases() []struct{ From, To string } {
	out := make([]struct{ From, To string }, len(verbosePhrases))
	for i, v := range verbosePhrases {
		out[i] = struct{ From, To string }{v.From, v.To}
	}
	return out
}

// EmphasisAllowlist lists all-caps tokens that aggressive-emphasis checks
// and fixes must leave alone: recognized acronyms plus severity keywords
// that carry meaning in instruction files.
var EmphasisAllowlist = map[string]bool{
	// Acronyms
	"API": true, "APIS": true, "JSON": true, "YAML": true, "HTTP": true,
	"HTTPS": true, "URL": true, "URLS": true, "CLI": true, "SQL": true,
	"HTML": true, "CSS": true, "ID": true, "IDS": true, "AI": true,
	"MCP": true, "README": true, "TODO": true, "PR": true, "CI": true,
	"CD": true, "OK": true, "UI": true, "UX": true, "IO": true,
	// Severity tokens
	"MUST": true, "NEVER": true, "ALWAYS": true, "REQUIRED": true,
	"FORBIDDEN": true, "CRITICAL": true, "IMPORTANT": true, "WARNING": true,
	"NOT": true, "DO": true, "DON'T": true, "NO": true,
}

var allCapsWordRe = regexp.MustCompile(`\b[A-Z][A-Z']{3,}\b`)

// AggressiveEmphasisWords returns the all-caps words in body that are not on
// the allowlist, in order of appearance, excluding fenced code.
func AggressiveEmphasisWords(body string) []string {
	var out []string
	for _, w := range allCapsWordRe.FindAllString(StripFences(body), -1) {
		if !EmphasisAllowlist[strings.ToUpper(w)] {
			out = append(out, w)
		}
	}
	return out
}
