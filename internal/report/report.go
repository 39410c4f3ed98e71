// Package report deduplicates, aggregates, and renders findings.
package report

import (
	"regexp"
	"sort"
	"strings"

	"github.com/steveyegge/agentlint/internal/patterns"
)

// Summary counts findings by certainty.
type Summary struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

func (s *Summary) add(c patterns.Certainty) {
	switch c {
	case patterns.CertaintyHigh:
		s.High++
	case patterns.CertaintyMedium:
		s.Medium++
	case patterns.CertaintyLow:
		s.Low++
	}
}

// Total returns the summary's overall count.
func (s Summary) Total() int {
	return s.High + s.Medium + s.Low
}

// Report is the canonical machine-readable output shape.
type Report struct {
	Findings   []patterns.Finding `json:"findings"`
	Summary    Summary            `json:"summary"`
	ByEnhancer map[string]Summary `json:"byEnhancer"`
}

// AutoFixableCount returns how many findings carry an auto-fix.
func (r *Report) AutoFixableCount() int {
	n := 0
	for _, f := range r.Findings {
		if f.AutoFixable {
			n++
		}
	}
	return n
}

// Build deduplicates findings and computes the aggregate views.
func Build(findings []patterns.Finding) *Report {
	deduped := Deduplicate(findings)
	rep := &Report{
		Findings:   deduped,
		ByEnhancer: make(map[string]Summary),
	}
	for _, f := range deduped {
		rep.Summary.add(f.Certainty)
		byEnh := rep.ByEnhancer[f.Source]
		byEnh.add(f.Certainty)
		rep.ByEnhancer[f.Source] = byEnh
	}
	return rep
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// dedupKey identifies findings that describe the same defect: same file,
// same line (absent lines collapse to 0), same issue text modulo case and
// whitespace.
type dedupKey struct {
	file  string
	line  int
	issue string
}

func keyOf(f *patterns.Finding) dedupKey {
	issue := strings.ToLower(f.Issue)
	issue = strings.TrimSpace(whitespaceRe.ReplaceAllString(issue, " "))
	return dedupKey{file: f.File, line: f.Line, issue: issue}
}

// Deduplicate collapses colliding findings. The survivor unions every
// colliding Source into Sources; when certainties agree the auto-fixable
// variant wins, otherwise the higher certainty does. Input order is
// preserved for survivors.
func Deduplicate(findings []patterns.Finding) []patterns.Finding {
	var out []patterns.Finding
	index := make(map[dedupKey]int)

	for _, f := range findings {
		key := keyOf(&f)
		at, seen := index[key]
		if !seen {
			f.Sources = []string{f.Source}
			index[key] = len(out)
			out = append(out, f)
			continue
		}
		kept := &out[at]
		kept.Sources = unionSources(kept.Sources, f.Source)
		if f.Certainty.Higher(kept.Certainty) ||
			(f.Certainty == kept.Certainty && f.AutoFixable && !kept.AutoFixable) {
			sources := kept.Sources
			*kept = f
			kept.Sources = sources
		}
	}
	return out
}

func unionSources(sources []string, source string) []string {
	for _, s := range sources {
		if s == source {
			return sources
		}
	}
	sources = append(sources, source)
	sort.Strings(sources)
	return sources
}
