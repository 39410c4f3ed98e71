package analyzer

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/steveyegge/agentlint/internal/artifact"
	"github.com/steveyegge/agentlint/internal/patterns"
)

// Cross-file pattern ids. These live outside the per-document registry
// because they need the whole corpus, but they follow the same id/certainty
// discipline and are suppressible like any other pattern.
const (
	PatternDuplicateInstruction = "duplicate_instruction"
	PatternContradiction        = "contradictory_instructions"
	PatternOrphanedArtifact     = "orphaned_artifact"
	PatternSkillCapabilityGap   = "skill_capability_mismatch"
	PatternPhaseTransitionGap   = "phase_transition_gap"
)

// CrossFile builds the corpus view and runs every cross-file detector.
// Empty and single-document corpora return no findings.
func CrossFile(arts []*artifact.Artifact) []patterns.Finding {
	if len(arts) == 0 {
		return nil
	}
	views := buildCorpus(arts)

	var findings []patterns.Finding
	if len(views) > 1 {
		// The relational detectors are meaningless against a singleton
		// corpus: one file cannot duplicate, contradict, reference, or
		// delegate to anything.
		findings = append(findings, duplicateInstructions(views)...)
		findings = append(findings, contradictions(views)...)
		findings = append(findings, orphans(views)...)
		findings = append(findings, capabilityMismatches(views)...)
	}
	findings = append(findings, phaseCompleteness(views)...)
	return findings
}

func crossFinding(file string, line int, patternID, issue, fix string, certainty patterns.Certainty, category patterns.Category) patterns.Finding {
	return patterns.Finding{
		File:      file,
		Line:      line,
		PatternID: patternID,
		Issue:     issue,
		Fix:       fix,
		Certainty: certainty,
		Category:  category,
		Source:    CrossFileSource,
	}
}

// instructionSite is one occurrence of an instruction in the corpus.
type instructionSite struct {
	view *docView
	inst instruction
}

// duplicateInstructions reports instructions that recur, near-verbatim, in
// DuplicateMinFiles or more files. Clustering is greedy against the first
// occurrence; with the similarity threshold this high, chains that drift
// away from the representative are not a practical concern.
func duplicateInstructions(views []*docView) []patterns.Finding {
	var sites []instructionSite
	for _, v := range views {
		for _, inst := range v.instructions {
			sites = append(sites, instructionSite{view: v, inst: inst})
		}
	}

	type cluster struct {
		rep   instructionSite
		files map[string]bool
	}
	var clusters []*cluster
	for _, site := range sites {
		placed := false
		for _, c := range clusters {
			if Similarity(site.inst.Text, c.rep.inst.Text) >= DuplicateSimilarityThreshold {
				c.files[site.view.art.Path] = true
				placed = true
				break
			}
		}
		if !placed {
			clusters = append(clusters, &cluster{
				rep:   site,
				files: map[string]bool{site.view.art.Path: true},
			})
		}
	}

	var findings []patterns.Finding
	for _, c := range clusters {
		if len(c.files) < DuplicateMinFiles {
			continue
		}
		files := make([]string, 0, len(c.files))
		for f := range c.files {
			files = append(files, f)
		}
		sort.Strings(files)
		findings = append(findings, crossFinding(
			c.rep.view.art.Path, c.rep.inst.Line,
			PatternDuplicateInstruction,
			fmt.Sprintf("instruction %q repeated across %d files (%s)",
				truncate(c.rep.inst.Text, 80), len(files), strings.Join(files, ", ")),
			"move the shared rule into project memory and reference it",
			patterns.CertaintyMedium, patterns.CategoryConsistency,
		))
	}
	return findings
}

// contradictions reports instruction pairs in different files that share a
// subject but disagree on polarity (ALWAYS/MUST vs NEVER/FORBIDDEN).
func contradictions(views []*docView) []patterns.Finding {
	var sites []instructionSite
	for _, v := range views {
		for _, inst := range v.instructions {
			sites = append(sites, instructionSite{view: v, inst: inst})
		}
	}

	var findings []patterns.Finding
	for i := 0; i < len(sites); i++ {
		for j := i + 1; j < len(sites); j++ {
			a, b := sites[i], sites[j]
			if a.view == b.view {
				continue
			}
			pa, pb := instructionPolarity(a.inst.Text), instructionPolarity(b.inst.Text)
			if pa == polarityNone || pb == polarityNone || pa == pb {
				continue
			}
			if Similarity(subject(a.inst.Text), subject(b.inst.Text)) < ContradictionSubjectThreshold {
				continue
			}
			findings = append(findings, crossFinding(
				a.view.art.Path, a.inst.Line,
				PatternContradiction,
				fmt.Sprintf("%q contradicts %q in %s",
					truncate(a.inst.Text, 60), truncate(b.inst.Text, 60), b.view.art.Path),
				"pick one polarity and delete the other rule",
				patterns.CertaintyMedium, patterns.CategoryConsistency,
			))
		}
	}
	return findings
}

// orphans reports agents and skills that nothing in the corpus references.
// Commands are exempt: they are entry points invoked by the user, so zero
// inbound references is their normal state.
func orphans(views []*docView) []patterns.Finding {
	inbound := make(map[string]bool)
	for _, v := range views {
		for name := range v.refs {
			inbound[name] = true
		}
	}

	var findings []patterns.Finding
	for _, v := range views {
		t := v.art.Type
		if t != artifact.TypeAgent && t != artifact.TypeSkill {
			continue
		}
		if inbound[v.art.Name()] {
			continue
		}
		findings = append(findings, crossFinding(
			v.art.Path, 0,
			PatternOrphanedArtifact,
			fmt.Sprintf("%s %q is referenced by nothing in the corpus", t, v.art.Name()),
			"reference it from a command or memory file, or delete it",
			patterns.CertaintyMedium, patterns.CategoryConsistency,
		))
	}
	return findings
}

// capabilityMismatches checks delegation: a skill's declared capability set
// must be a superset of the capabilities exercised by any command that
// references it. Each missing capability is its own finding so that learned
// suppressions can target them individually.
func capabilityMismatches(views []*docView) []patterns.Finding {
	byName := make(map[string]*docView, len(views))
	for _, v := range views {
		byName[v.art.Name()] = v
	}

	var findings []patterns.Finding
	for _, cmd := range views {
		if cmd.art.Type != artifact.TypeCommand {
			continue
		}
		for name := range cmd.refs {
			skill, ok := byName[name]
			if !ok || skill.art.Type != artifact.TypeSkill {
				continue
			}
			if !skill.hasDecl || skill.declared.Wildcard() {
				continue
			}
			for _, missing := range skill.declared.Missing(cmd.used) {
				findings = append(findings, crossFinding(
					skill.art.Path, 0,
					PatternSkillCapabilityGap,
					fmt.Sprintf("skill %q does not declare %s, but command %q delegates work that uses it",
						name, missing, cmd.art.Name()),
					fmt.Sprintf("add %s to the skill's tool declaration", missing),
					patterns.CertaintyHigh, patterns.CategoryCapabilities,
				))
			}
		}
	}
	return findings
}

// manifestPhases is the workflow declaration an orchestrating manifest may
// carry: an ordered phase list plus explicit transition edges.
type manifestPhases struct {
	Phases      []string `json:"phases"`
	Transitions []struct {
		From string `json:"from"`
		To   string `json:"to"`
	} `json:"transitions"`
}

// phaseCompleteness verifies that every adjacent phase pair has a declared
// transition edge. All gaps aggregate into one finding per manifest.
func phaseCompleteness(views []*docView) []patterns.Finding {
	var findings []patterns.Finding
	for _, v := range views {
		if v.art.Type != artifact.TypeManifest {
			continue
		}
		var decl manifestPhases
		if err := json.Unmarshal([]byte(v.art.RawContent), &decl); err != nil {
			continue // invalid_manifest_json covers malformed manifests
		}
		if len(decl.Phases) < 2 {
			continue
		}
		edges := make(map[string]bool, len(decl.Transitions))
		for _, tr := range decl.Transitions {
			edges[tr.From+"->"+tr.To] = true
		}
		var gaps []string
		for i := 0; i+1 < len(decl.Phases); i++ {
			key := decl.Phases[i] + "->" + decl.Phases[i+1]
			if !edges[key] {
				gaps = append(gaps, key)
			}
		}
		if len(gaps) == 0 {
			continue
		}
		findings = append(findings, crossFinding(
			v.art.Path, 0,
			PatternPhaseTransitionGap,
			fmt.Sprintf("phase list declares no transition for: %s", strings.Join(gaps, ", ")),
			"declare a transition edge for each adjacent phase pair",
			patterns.CertaintyHigh, patterns.CategoryConsistency,
		))
	}
	return findings
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
