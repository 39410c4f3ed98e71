package suppress

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steveyegge/agentlint/internal/patterns"
)

func finding(patternID, file string) patterns.Finding {
	return patterns.Finding{
		File:      file,
		PatternID: patternID,
		Issue:     "test issue",
		Certainty: patterns.CertaintyHigh,
	}
}

func TestShouldSuppress_ConfigIgnorePatterns(t *testing.T) {
	cfg := &Config{IgnorePatterns: []string{"verbose_phrasing"}}

	f := finding("verbose_phrasing", "a.md")
	m := ShouldSuppress(&f, cfg, nil)
	require.NotNil(t, m)
	assert.Equal(t, ReasonConfig, m.Reason)

	other := finding("missing_frontmatter", "a.md")
	assert.Nil(t, ShouldSuppress(&other, cfg, nil))
}

func TestShouldSuppress_ConfigIgnoreFiles(t *testing.T) {
	cfg := &Config{IgnoreFiles: []string{"docs/**/*.md", "**/generated.md", "README.md"}}

	tests := []struct {
		file string
		want bool
	}{
		{"docs/guide/intro.md", true},
		{"a/deep/generated.md", true},
		{"README.md", true},
		{"nested/README.md", true}, // bare basename glob matches anywhere
		{"src/intro.md", false},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			f := finding("any_pattern", tt.file)
			got := ShouldSuppress(&f, cfg, nil) != nil
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestShouldSuppress_ConfigRuleScoped(t *testing.T) {
	cfg := &Config{Rules: map[string]RuleOverride{
		"excessive_length": {Files: []string{"legacy/*.md"}},
	}}

	in := finding("excessive_length", "legacy/old.md")
	assert.NotNil(t, ShouldSuppress(&in, cfg, nil))

	// Same pattern outside the scoped files stays active.
	out := finding("excessive_length", "current/new.md")
	assert.Nil(t, ShouldSuppress(&out, cfg, nil))

	// Other patterns in the scoped files stay active.
	otherPattern := finding("missing_frontmatter", "legacy/old.md")
	assert.Nil(t, ShouldSuppress(&otherPattern, cfg, nil))
}

func TestShouldSuppress_LearnedExactPathOnly(t *testing.T) {
	learned := Learned{
		"verbose_phrasing": {Files: []string{"agents/writer.md"}, Confidence: 0.9},
	}

	hit := finding("verbose_phrasing", "agents/writer.md")
	m := ShouldSuppress(&hit, nil, learned)
	require.NotNil(t, m)
	assert.Equal(t, ReasonAutoLearned, m.Reason)
	assert.InDelta(t, 0.9, m.Confidence, 1e-9)

	// A learned rule never widens: not to other files of the same pattern,
	// not to other patterns in the same file, and never via glob semantics.
	otherFile := finding("verbose_phrasing", "agents/other.md")
	assert.Nil(t, ShouldSuppress(&otherFile, nil, learned))

	otherPattern := finding("excessive_length", "agents/writer.md")
	assert.Nil(t, ShouldSuppress(&otherPattern, nil, learned))

	globish := Learned{"verbose_phrasing": {Files: []string{"agents/*.md"}}}
	literal := finding("verbose_phrasing", "agents/writer.md")
	assert.Nil(t, ShouldSuppress(&literal, nil, globish))
}

func TestShouldSuppress_ConfigWinsOverLearned(t *testing.T) {
	cfg := &Config{IgnorePatterns: []string{"verbose_phrasing"}}
	learned := Learned{"verbose_phrasing": {Files: []string{"a.md"}, Confidence: 0.5}}

	f := finding("verbose_phrasing", "a.md")
	m := ShouldSuppress(&f, cfg, learned)
	require.NotNil(t, m)
	assert.Equal(t, ReasonConfig, m.Reason)
}

func TestShouldSuppress_NilInputs(t *testing.T) {
	f := finding("x", "a.md")
	assert.Nil(t, ShouldSuppress(&f, nil, nil))
	assert.Nil(t, ShouldSuppress(nil, &Config{}, Learned{}))
}

func TestFilterFindings(t *testing.T) {
	cfg := &Config{IgnorePatterns: []string{"aggressive_emphasis"}}
	findings := []patterns.Finding{
		finding("missing_frontmatter", "a.md"),
		finding("aggressive_emphasis", "a.md"),
		finding("missing_description", "b.md"),
	}

	active, suppressed := FilterFindings(findings, cfg, nil)
	require.Len(t, active, 2)
	require.Len(t, suppressed, 1)

	assert.Equal(t, "aggressive_emphasis", suppressed[0].Finding.PatternID)
	assert.Equal(t, ReasonConfig, suppressed[0].Match.Reason)

	// Suppression never alters the finding, certainty included.
	assert.Equal(t, patterns.CertaintyHigh, suppressed[0].Finding.Certainty)
}

func TestFilterFindings_NilInput(t *testing.T) {
	active, suppressed := FilterFindings(nil, &Config{}, nil)
	assert.Empty(t, active)
	assert.Empty(t, suppressed)
}

func TestLearned_Merge(t *testing.T) {
	a := Learned{
		"p1": {Files: []string{"x.md"}, Confidence: 0.5, Reason: "first"},
	}
	b := Learned{
		"p1": {Files: []string{"y.md", "x.md"}, Confidence: 0.8},
		"p2": {Files: []string{"z.md"}, Confidence: 1.0, Reason: "second"},
	}

	merged := a.Merge(b)
	require.Len(t, merged, 2)

	p1 := merged["p1"]
	assert.ElementsMatch(t, []string{"x.md", "y.md"}, p1.Files)
	assert.InDelta(t, 0.8, p1.Confidence, 1e-9) // higher confidence wins
	assert.Equal(t, "first", p1.Reason)

	assert.Equal(t, b["p2"], merged["p2"])
}

func TestMatchGlob(t *testing.T) {
	tests := []struct {
		glob string
		file string
		want bool
	}{
		{"a/*.md", "a/x.md", true},
		{"a/*.md", "a/b/x.md", false},
		{"**/x.md", "a/b/x.md", true},
		{"**/x.md", "x.md", true},
		{"**/agents/*.md", "agents/a.md", true},
		{"**/agents/*.md", "x/agents/a.md", true},
		{"**/agents/*.md", "x/y/agents/a.md", true},
		{"**/agents/*.md", "x/agents/nested/a.md", false},
		{"*.json", "deep/tree/plugin.json", true},
		{"plugin.json", "plugin.json", true},
		{"a/*.md", "./a/x.md", true},
	}

	for _, tt := range tests {
		t.Run(tt.glob+"/"+tt.file, func(t *testing.T) {
			assert.Equal(t, tt.want, matchGlob(tt.glob, tt.file))
		})
	}
}
