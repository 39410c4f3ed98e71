package patterns

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steveyegge/agentlint/internal/artifact"
)

// check runs one registry pattern against in-memory content.
func check(t *testing.T, id, path, content string) *Finding {
	t.Helper()
	reg := NewRegistry(nil)
	p, ok := reg.ByID(id)
	require.True(t, ok, "pattern %s not registered", id)
	a := artifact.Load(path, content)
	require.True(t, p.Applies(a.Type), "pattern %s does not apply to %s", id, a.Type)
	return p.Check(a)
}

func TestMissingFrontmatter(t *testing.T) {
	f := check(t, "missing_frontmatter", "agents/reviewer.md", "# Reviewer\n\nReview things.\n")
	require.NotNil(t, f)
	assert.Equal(t, CertaintyHigh, f.Certainty)
	assert.True(t, f.AutoFixable)
	assert.Equal(t, 1, f.Line)

	f = check(t, "missing_frontmatter", "agents/reviewer.md", "---\nname: r\ndescription: d\n---\nbody\n")
	assert.Nil(t, f)
}

func TestMissingDescription(t *testing.T) {
	f := check(t, "missing_description", "agents/reviewer.md", "---\nname: r\n---\nbody\n")
	require.NotNil(t, f)
	assert.Equal(t, CertaintyHigh, f.Certainty)

	// Empty value counts as missing.
	f = check(t, "missing_description", "agents/reviewer.md", "---\nname: r\ndescription: \"\"\n---\nbody\n")
	assert.NotNil(t, f)

	// No frontmatter at all is missing_frontmatter's territory.
	f = check(t, "missing_description", "agents/reviewer.md", "body only\n")
	assert.Nil(t, f)

	f = check(t, "missing_description", "agents/reviewer.md", "---\nname: r\ndescription: Reviews PRs\n---\nbody\n")
	assert.Nil(t, f)
}

func TestWildcardToolGrant(t *testing.T) {
	content := "---\nname: r\ndescription: d\ntools: \"*\"\n---\nbody\n"
	f := check(t, "wildcard_tool_grant", "agents/reviewer.md", content)
	require.NotNil(t, f)
	assert.Equal(t, CertaintyHigh, f.Certainty)
	assert.True(t, f.AutoFixable)
	assert.Equal(t, 4, f.Line) // the tools: line

	f = check(t, "wildcard_tool_grant", "agents/reviewer.md",
		"---\nname: r\ndescription: d\ntools: Read, Grep\n---\nbody\n")
	assert.Nil(t, f)
}

func TestUndeclaredToolUse(t *testing.T) {
	// The body asks for a file to be created; Write is never declared.
	content := "---\nname: r\ndescription: d\ntools: Read, Grep\n---\n" +
		"Scan the sources, then create a file with the results.\n"
	f := check(t, "undeclared_tool_use", "agents/reviewer.md", content)
	require.NotNil(t, f)
	assert.Equal(t, CertaintyHigh, f.Certainty)
	assert.Contains(t, f.Issue, "Write")

	// Declared usage is fine.
	ok := "---\nname: r\ndescription: d\ntools: Read, Grep, Write\n---\n" +
		"Scan the sources, then create a file with the results.\n"
	assert.Nil(t, check(t, "undeclared_tool_use", "agents/reviewer.md", ok))

	// No declaration at all means unrestricted, not undeclared.
	none := "---\nname: r\ndescription: d\n---\ncreate a file with the results\n"
	assert.Nil(t, check(t, "undeclared_tool_use", "agents/reviewer.md", none))

	// A wildcard grant covers everything; wildcard_tool_grant handles it.
	wild := "---\nname: r\ndescription: d\ntools: \"*\"\n---\ncreate a file\n"
	assert.Nil(t, check(t, "undeclared_tool_use", "agents/reviewer.md", wild))
}

func TestMissingSections(t *testing.T) {
	bare := "---\nname: r\ndescription: d\n---\n# Reviewer\n\nProse.\n"
	for _, id := range []string{
		"missing_role_section", "missing_output_format_section",
		"missing_constraints_section", "missing_verification_section",
	} {
		f := check(t, id, "agents/reviewer.md", bare)
		require.NotNil(t, f, id)
		assert.Equal(t, CertaintyHigh, f.Certainty, id)
		assert.True(t, f.AutoFixable, id)
	}

	full := "---\nname: r\ndescription: d\n---\n" +
		"## Role\nx\n## Output Format\nx\n## Constraints\nx\n## Verification\nx\n"
	for _, id := range []string{
		"missing_role_section", "missing_output_format_section",
		"missing_constraints_section", "missing_verification_section",
	} {
		assert.Nil(t, check(t, id, "agents/reviewer.md", full), id)
	}

	// Aliases satisfy the requirement.
	aliased := "---\nname: r\ndescription: d\n---\n## Success Criteria\nx\n"
	assert.Nil(t, check(t, "missing_verification_section", "agents/reviewer.md", aliased))
}

func TestExcessiveLength(t *testing.T) {
	small := "---\nname: d\ndescription: d\n---\nshort body\n"
	assert.Nil(t, check(t, "excessive_length", ".claude/commands/deploy.md", small))

	// Command budget is 1500 estimated tokens = 6000 chars.
	big := "---\nname: d\ndescription: d\n---\n" + strings.Repeat("word ", 1300)
	f := check(t, "excessive_length", ".claude/commands/deploy.md", big)
	require.NotNil(t, f)
	assert.Equal(t, CertaintyMedium, f.Certainty)
	assert.False(t, f.AutoFixable)
	assert.Contains(t, f.Issue, "1500-token budget")
}

func TestVerbosePhrasing(t *testing.T) {
	f := check(t, "verbose_phrasing", "notes.md", "In order to ship, run the tests.\n")
	require.NotNil(t, f)
	// MEDIUM with a named fix: the HIGH-only fixer gate must skip it.
	assert.Equal(t, CertaintyMedium, f.Certainty)
	assert.True(t, f.AutoFixable)
	assert.Equal(t, 1, f.Line)

	assert.Nil(t, check(t, "verbose_phrasing", "notes.md", "To ship, run the tests.\n"))

	// Phrases inside fenced code do not count.
	fenced := "```\nIn order to compile\n```\n"
	assert.Nil(t, check(t, "verbose_phrasing", "notes.md", fenced))
}

func TestAggressiveEmphasis(t *testing.T) {
	f := check(t, "aggressive_emphasis", "notes.md", "This is EXTREMELY urgent.\n")
	require.NotNil(t, f)
	assert.Equal(t, CertaintyLow, f.Certainty)
	assert.Contains(t, f.Issue, "EXTREMELY")

	// Severity keywords and acronyms are allowed.
	assert.Nil(t, check(t, "aggressive_emphasis", "notes.md",
		"You MUST return JSON. NEVER guess an API shape.\n"))
}

func TestHeadingLevelJump(t *testing.T) {
	f := check(t, "heading_level_jump", "notes.md", "# Top\n\n### Jumped\n")
	require.NotNil(t, f)
	assert.Equal(t, CertaintyLow, f.Certainty)
	assert.Contains(t, f.Issue, "Jumped")

	assert.Nil(t, check(t, "heading_level_jump", "notes.md", "# Top\n\n## Nested\n\n### Deeper\n"))
}

func TestVagueDirective(t *testing.T) {
	f := check(t, "vague_directive", "notes.md", "Handle errors appropriately.\n")
	require.NotNil(t, f)
	assert.Equal(t, CertaintyLow, f.Certainty)

	f = check(t, "vague_directive", "notes.md", "Retry twice, then fail as needed.\n")
	assert.NotNil(t, f)

	assert.Nil(t, check(t, "vague_directive", "notes.md", "Retry twice, then return the error.\n"))
}

func TestInvalidManifestJSON(t *testing.T) {
	f := check(t, "invalid_manifest_json", "plugin.json", "{not valid json")
	require.NotNil(t, f)
	assert.Equal(t, CertaintyHigh, f.Certainty)

	assert.Nil(t, check(t, "invalid_manifest_json", "plugin.json", `{"name": "x", "version": "1"}`))
}

func TestManifestMissingFields(t *testing.T) {
	f := check(t, "manifest_missing_name", "plugin.json", `{"version": "1.0.0"}`)
	require.NotNil(t, f)
	assert.Contains(t, f.Issue, "name")

	f = check(t, "manifest_missing_version", "plugin.json", `{"name": "acme"}`)
	require.NotNil(t, f)
	assert.Contains(t, f.Issue, "version")

	// Empty string is as missing as absent.
	assert.NotNil(t, check(t, "manifest_missing_name", "plugin.json", `{"name": "", "version": "1"}`))

	ok := `{"name": "acme", "version": "1.0.0"}`
	assert.Nil(t, check(t, "manifest_missing_name", "plugin.json", ok))
	assert.Nil(t, check(t, "manifest_missing_version", "plugin.json", ok))

	// Malformed JSON is invalid_manifest_json's territory.
	assert.Nil(t, check(t, "manifest_missing_name", "plugin.json", "{broken"))
}

func TestSchemaMissingAdditionalProperties(t *testing.T) {
	manifest := `{
  "name": "acme",
  "version": "1.0.0",
  "commands": [
    {"inputSchema": {"type": "object", "properties": {"path": {"type": "string"}}}}
  ]
}`
	f := check(t, "schema_missing_additional_properties", "plugin.json", manifest)
	require.NotNil(t, f)
	assert.Equal(t, CertaintyHigh, f.Certainty)
	assert.True(t, f.AutoFixable)
	assert.Contains(t, f.Issue, "commands[0].inputSchema")

	closed := `{
  "name": "acme",
  "version": "1.0.0",
  "commands": [
    {"inputSchema": {"type": "object", "properties": {}, "additionalProperties": false}}
  ]
}`
	assert.Nil(t, check(t, "schema_missing_additional_properties", "plugin.json", closed))
}

func TestObjectSchemaPaths(t *testing.T) {
	doc := map[string]any{
		"outer": map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		},
		"list": []any{
			map[string]any{
				"schema": map[string]any{
					"type":                 "object",
					"properties":           map[string]any{},
					"additionalProperties": false,
				},
			},
		},
		"notASchema": map[string]any{"type": "string"},
	}
	assert.Equal(t, []string{"outer"}, ObjectSchemaPaths(doc))
}

func TestWildcardPermissions(t *testing.T) {
	f := check(t, "wildcard_permissions", "plugin.json",
		`{"name": "x", "version": "1", "permissions": ["read", "*"]}`)
	require.NotNil(t, f)
	assert.Equal(t, CertaintyHigh, f.Certainty)

	assert.Nil(t, check(t, "wildcard_permissions", "plugin.json",
		`{"name": "x", "version": "1", "permissions": ["read", "write"]}`))
}

func TestInvalidJSONExample(t *testing.T) {
	bad := "# Doc\n\n```json\n{\"key\": unquoted}\n```\n"
	f := check(t, "invalid_json_example", "notes.md", bad)
	require.NotNil(t, f)
	assert.Equal(t, CertaintyHigh, f.Certainty)

	good := "# Doc\n\n```json\n{\"key\": \"value\"}\n```\n"
	assert.Nil(t, check(t, "invalid_json_example", "notes.md", good))

	// Non-json fences are not JSON examples.
	other := "```yaml\nkey: value: nested\n```\n"
	assert.Nil(t, check(t, "invalid_json_example", "notes.md", other))
}

func TestUnexplainedRuleRatio(t *testing.T) {
	// Six rules, four bare: 67% unexplained, well past the threshold.
	body := strings.Join([]string{
		"# Rules",
		"- MUST run gofmt",
		"- NEVER commit secrets",
		"- ALWAYS pin versions",
		"- MUST use the makefile",
		"- MUST squash commits because history stays readable",
		"- NEVER force-push since others track this branch",
	}, "\n") + "\n"
	f := check(t, "unexplained_rule_ratio", "CLAUDE.md", body)
	require.NotNil(t, f)
	assert.Equal(t, CertaintyMedium, f.Certainty)
	assert.Contains(t, f.Issue, "4 of 6")

	// An indented continuation line explains the rule above it.
	explained := strings.Join([]string{
		"- MUST run gofmt",
		"  CI rejects unformatted code.",
		"- NEVER commit secrets because they leak",
		"- ALWAYS pin versions so that builds reproduce",
		"- MUST use the makefile to avoid drift",
		"- NEVER force-push since others track this branch",
	}, "\n") + "\n"
	assert.Nil(t, check(t, "unexplained_rule_ratio", "CLAUDE.md", explained))

	// Under the minimum rule count the ratio never fires.
	tiny := "- MUST do A\n- NEVER do B\n"
	assert.Nil(t, check(t, "unexplained_rule_ratio", "CLAUDE.md", tiny))
}

func TestDuplicateHeadings(t *testing.T) {
	f := check(t, "duplicate_headings", "CLAUDE.md", "## Setup\nx\n## Testing\ny\n## setup\nz\n")
	require.NotNil(t, f)
	assert.Equal(t, CertaintyLow, f.Certainty)
	assert.Equal(t, 5, f.Line)

	assert.Nil(t, check(t, "duplicate_headings", "CLAUDE.md", "## Setup\nx\n## Testing\ny\n"))
}
