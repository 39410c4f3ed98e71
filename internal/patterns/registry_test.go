package patterns

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steveyegge/agentlint/internal/artifact"
)

func TestNewRegistry_Catalog(t *testing.T) {
	reg := NewRegistry(nil)

	ids := reg.IDs()
	assert.NotEmpty(t, ids)

	// Every catalog pattern is retrievable and classified.
	for _, id := range ids {
		p, ok := reg.ByID(id)
		require.True(t, ok, id)
		assert.Equal(t, id, p.ID)
		assert.NotEmpty(t, p.AppliesTo, id)
		assert.Contains(t, []Certainty{CertaintyHigh, CertaintyMedium, CertaintyLow}, p.Certainty, id)
		assert.NotNil(t, p.Check, id)
	}

	_, ok := reg.ByID("no_such_pattern")
	assert.False(t, ok)
}

func TestNewRegistry_ExpectedPatterns(t *testing.T) {
	reg := NewRegistry(nil)

	for _, id := range []string{
		"missing_frontmatter", "missing_description",
		"wildcard_tool_grant", "undeclared_tool_use",
		"missing_role_section", "missing_output_format_section",
		"missing_constraints_section", "missing_verification_section",
		"excessive_length", "verbose_phrasing", "aggressive_emphasis",
		"heading_level_jump", "vague_directive",
		"invalid_manifest_json", "manifest_missing_name", "manifest_missing_version",
		"schema_missing_additional_properties", "wildcard_permissions",
		"invalid_json_example", "unexplained_rule_ratio", "duplicate_headings",
	} {
		_, ok := reg.ByID(id)
		assert.True(t, ok, "missing pattern %s", id)
	}
}

func TestNewRegistry_Overrides(t *testing.T) {
	reg := NewRegistry(map[string]Certainty{
		"verbose_phrasing": CertaintyHigh,
		"unknown_pattern":  CertaintyLow, // stale config entry, ignored
	})

	p, ok := reg.ByID("verbose_phrasing")
	require.True(t, ok)
	assert.Equal(t, CertaintyHigh, p.Certainty)

	// Other patterns keep their catalog certainty.
	other, _ := reg.ByID("excessive_length")
	assert.Equal(t, CertaintyMedium, other.Certainty)
}

func TestRegistry_ForType(t *testing.T) {
	reg := NewRegistry(nil)

	idsFor := func(typ artifact.Type) map[string]bool {
		out := make(map[string]bool)
		for _, p := range reg.ForType(typ) {
			out[p.ID] = true
		}
		return out
	}

	agent := idsFor(artifact.TypeAgent)
	assert.True(t, agent["missing_frontmatter"])
	assert.True(t, agent["missing_role_section"])
	assert.False(t, agent["invalid_manifest_json"])
	assert.False(t, agent["unexplained_rule_ratio"])

	manifest := idsFor(artifact.TypeManifest)
	assert.True(t, manifest["invalid_manifest_json"])
	assert.True(t, manifest["schema_missing_additional_properties"])
	assert.False(t, manifest["missing_frontmatter"])
	assert.False(t, manifest["excessive_length"])

	memory := idsFor(artifact.TypeProjectMemory)
	assert.True(t, memory["unexplained_rule_ratio"])
	assert.True(t, memory["duplicate_headings"])
	assert.False(t, memory["missing_role_section"])
}

func TestRegistry_Queries(t *testing.T) {
	reg := NewRegistry(nil)

	for _, p := range reg.ByCertainty(CertaintyHigh) {
		assert.Equal(t, CertaintyHigh, p.Certainty)
	}
	for _, p := range reg.ByCategory(CategorySchema) {
		assert.Equal(t, CategorySchema, p.Category)
	}

	fixable := make(map[string]bool)
	for _, p := range reg.AutoFixable() {
		assert.True(t, p.AutoFix)
		fixable[p.ID] = true
	}
	assert.True(t, fixable["missing_frontmatter"])
	assert.True(t, fixable["wildcard_tool_grant"])
	assert.False(t, fixable["undeclared_tool_use"])

	assert.Len(t, reg.All(), len(reg.IDs()))
}

func TestCertainty_Higher(t *testing.T) {
	assert.True(t, CertaintyHigh.Higher(CertaintyMedium))
	assert.True(t, CertaintyMedium.Higher(CertaintyLow))
	assert.False(t, CertaintyLow.Higher(CertaintyHigh))
	assert.False(t, CertaintyHigh.Higher(CertaintyHigh))
}
