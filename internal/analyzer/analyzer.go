// Package analyzer runs the pattern catalog against loaded artifacts, both
// per-document and corpus-wide. All analysis is synchronous and in-memory;
// the corpus is small and the checks are pure, so there is nothing worth
// parallelizing.
package analyzer

import (
	"github.com/steveyegge/agentlint/internal/artifact"
	"github.com/steveyegge/agentlint/internal/patterns"
)

// CrossFileSource is the Source value attached to corpus-wide findings.
const CrossFileSource = "cross-file-analyzer"

// sourceNames maps an artifact type to the analyzer name reported on its
// findings. The reporter aggregates per-source counts under these names.
var sourceNames = map[artifact.Type]string{
	artifact.TypeAgent:         "agent-analyzer",
	artifact.TypeCommand:       "command-analyzer",
	artifact.TypeSkill:         "skill-analyzer",
	artifact.TypeManifest:      "manifest-analyzer",
	artifact.TypeProjectMemory: "memory-analyzer",
	artifact.TypePrompt:        "prompt-analyzer",
}

// SourceFor returns the analyzer name for an artifact type.
func SourceFor(t artifact.Type) string {
	if name, ok := sourceNames[t]; ok {
		return name
	}
	return "analyzer"
}

// Analyze runs every applicable pattern against a single artifact.
func Analyze(a *artifact.Artifact, reg *patterns.Registry) []patterns.Finding {
	var findings []patterns.Finding
	for _, p := range reg.ForType(a.Type) {
		f := p.Check(a)
		if f == nil {
			continue
		}
		f.Source = SourceFor(a.Type)
		findings = append(findings, *f)
	}
	return findings
}

// AnalyzeAll runs single-document analysis over the whole corpus, then the
// cross-file detectors. Empty and single-document corpora are fine: the
// cross-file detectors simply find nothing.
func AnalyzeAll(arts []*artifact.Artifact, reg *patterns.Registry) []patterns.Finding {
	var findings []patterns.Finding
	for _, a := range arts {
		findings = append(findings, Analyze(a, reg)...)
	}
	findings = append(findings, CrossFile(arts)...)
	return findings
}
