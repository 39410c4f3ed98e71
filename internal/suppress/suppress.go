// Package suppress filters findings through manual ignore rules and an
// auto-learned suppression table.
//
// The two mechanisms are deliberately asymmetric. Manual config may use
// globs and pattern-wide ignores: a human wrote it, a human owns the blast
// radius. Learned suppression matches on exact (pattern, file) pairs only:
// it silences precisely the instances previously confirmed as false
// positives, never a whole pattern class.
package suppress

import (
	"path"
	"strings"

	"github.com/steveyegge/agentlint/internal/patterns"
)

// Suppression reasons recorded on filtered findings.
const (
	ReasonConfig      = "config"
	ReasonAutoLearned = "auto_learned"
)

// Config is the manual suppression section of external configuration.
// Unknown keys are ignored by the loader; absent sections default empty.
type Config struct {
	// IgnorePatterns suppresses entire pattern ids.
	IgnorePatterns []string `yaml:"ignorePatterns"`

	// IgnoreFiles suppresses every finding in files matching these globs.
	IgnoreFiles []string `yaml:"ignoreFiles"`

	// Rules holds per-pattern overrides: pattern id → file globs for which
	// that one pattern is suppressed.
	Rules map[string]RuleOverride `yaml:"rules"`
}

// RuleOverride scopes one pattern's suppression to specific files.
type RuleOverride struct {
	Files []string `yaml:"files"`
}

// LearnedRule is the auto-learned suppression entry for one pattern id.
type LearnedRule struct {
	// Files is the exact-path set this rule suppresses. No globbing.
	Files []string `yaml:"files"`

	// Confidence is informational: how sure the learner was that these
	// instances are false positives. It does not gate suppression.
	Confidence float64 `yaml:"confidence"`

	Reason string `yaml:"reason"`
}

// Learned maps pattern id to its learned rule.
type Learned map[string]LearnedRule

// Merge folds other into l, unioning file sets and keeping the higher
// confidence. Used to combine the static config's learned section with the
// suppression store.
func (l Learned) Merge(other Learned) Learned {
	out := make(Learned, len(l)+len(other))
	for id, rule := range l {
		out[id] = rule
	}
	for id, rule := range other {
		existing, ok := out[id]
		if !ok {
			out[id] = rule
			continue
		}
		files := make(map[string]bool)
		for _, f := range existing.Files {
			files[f] = true
		}
		for _, f := range rule.Files {
			files[f] = true
		}
		merged := LearnedRule{Confidence: existing.Confidence, Reason: existing.Reason}
		if rule.Confidence > merged.Confidence {
			merged.Confidence = rule.Confidence
		}
		if merged.Reason == "" {
			merged.Reason = rule.Reason
		}
		for f := range files {
			merged.Files = append(merged.Files, f)
		}
		out[id] = merged
	}
	return out
}

// Match describes why a finding was suppressed.
type Match struct {
	Reason     string  `json:"reason"`
	Confidence float64 `json:"confidence,omitempty"`
}

// SuppressedFinding retains a filtered finding with its match, keeping the
// suppressed stream auditable.
type SuppressedFinding struct {
	Finding patterns.Finding `json:"finding"`
	Match   Match            `json:"match"`
}

// ShouldSuppress decides whether a finding is filtered. Manual config wins
// over learned rules; the finding itself, certainty included, is never
// modified. Returns nil when the finding stays active.
func ShouldSuppress(f *patterns.Finding, cfg *Config, learned Learned) *Match {
	if f == nil {
		return nil
	}
	if cfg != nil {
		for _, id := range cfg.IgnorePatterns {
			if id == f.PatternID {
				return &Match{Reason: ReasonConfig}
			}
		}
		for _, glob := range cfg.IgnoreFiles {
			if matchGlob(glob, f.File) {
				return &Match{Reason: ReasonConfig}
			}
		}
		if rule, ok := cfg.Rules[f.PatternID]; ok {
			for _, glob := range rule.Files {
				if matchGlob(glob, f.File) {
					return &Match{Reason: ReasonConfig}
				}
			}
		}
	}
	if rule, ok := learned[f.PatternID]; ok {
		for _, file := range rule.Files {
			// Exact path only. Conservatism is the point: a learned rule
			// for (P, F) must never silence P anywhere else.
			if file == f.File {
				return &Match{Reason: ReasonAutoLearned, Confidence: rule.Confidence}
			}
		}
	}
	return nil
}

// FilterFindings partitions findings into active and suppressed streams.
// A nil input yields empty results rather than an error; partial output
// beats hard failure here.
func FilterFindings(findings []patterns.Finding, cfg *Config, learned Learned) (active []patterns.Finding, suppressed []SuppressedFinding) {
	for i := range findings {
		if m := ShouldSuppress(&findings[i], cfg, learned); m != nil {
			suppressed = append(suppressed, SuppressedFinding{Finding: findings[i], Match: *m})
			continue
		}
		active = append(active, findings[i])
	}
	return active, suppressed
}

// matchGlob matches a file path against a config glob. path.Match handles
// single-segment globs; a "**/" prefix matches the remainder against every
// path suffix so any number of leading directories is stripped, and a bare
// basename glob matches the file's basename anywhere in the tree.
func matchGlob(glob, file string) bool {
	file = strings.TrimPrefix(file, "./")
	if ok, err := path.Match(glob, file); err == nil && ok {
		return true
	}
	if rest, found := strings.CutPrefix(glob, "**/"); found {
		segs := strings.Split(file, "/")
		for i := range segs {
			if ok, err := path.Match(rest, strings.Join(segs[i:], "/")); err == nil && ok {
				return true
			}
		}
	}
	if !strings.Contains(glob, "/") {
		if ok, err := path.Match(glob, path.Base(file)); err == nil && ok {
			return true
		}
	}
	return false
}
