// Package fixer applies auto-fixes for HIGH-certainty findings.
//
// The certainty gate is absolute: MEDIUM and LOW findings are never
// mutated, even when they carry a valid fix. Text documents are rewritten
// through a small set of named, idempotent transforms; structured (JSON)
// documents through a full-document transform or a schema-path mutation.
//
// A fix batch has partial-failure semantics. Each file mutation commits
// independently; a missing target produces an error entry and the batch
// keeps going. There is no cross-file rollback; backups are the recovery
// mechanism.
package fixer

import (
	"fmt"
	"os"
	"sort"

	"github.com/google/uuid"
	"github.com/steveyegge/agentlint/internal/patterns"
)

// Options controls a fix batch.
type Options struct {
	// DryRun computes every fix without writing anything to disk.
	DryRun bool

	// Backup writes each file's pre-fix content to a sibling .bak path
	// before the first mutation touches it.
	Backup bool
}

// AppliedFix records one fix that reached disk (or would have, in dry-run).
type AppliedFix struct {
	File        string `json:"file"`
	PatternID   string `json:"patternId"`
	Description string `json:"description"`
	DryRun      bool   `json:"dryRun,omitempty"`
}

// SkippedFix records a finding the fixer declined, with the reason.
type SkippedFix struct {
	File      string `json:"file"`
	PatternID string `json:"patternId"`
	Reason    string `json:"reason"`
}

// FixError records a finding whose fix failed.
type FixError struct {
	File      string `json:"file"`
	PatternID string `json:"patternId"`
	Reason    string `json:"reason"`
}

// Result traces every input finding to an outcome.
type Result struct {
	BatchID string       `json:"batchId"`
	Applied []AppliedFix `json:"applied"`
	Skipped []SkippedFix `json:"skipped"`
	Errors  []FixError   `json:"errors"`

	// Diffs holds a unified diff per modified file, for dry-run preview.
	Diffs map[string]string `json:"-"`
}

// skipReasonNotHigh is the gate message for sub-HIGH findings.
const skipReasonNotHigh = "only HIGH-certainty findings are auto-fixed"

// Apply runs the fix batch. The returned result is never nil; a nil or
// empty findings slice yields an empty result.
func Apply(findings []patterns.Finding, opts Options) *Result {
	result := &Result{
		BatchID: uuid.NewString(),
		Diffs:   make(map[string]string),
	}

	// Working copies let several findings against one file stack; the
	// original content backs the .bak file and the diff baseline. Fixes
	// accumulate as pending until the file write commits.
	originals := make(map[string]string)
	working := make(map[string]string)
	pending := make(map[string][]AppliedFix)

	for _, f := range findings {
		if f.Certainty != patterns.CertaintyHigh {
			result.Skipped = append(result.Skipped, SkippedFix{
				File: f.File, PatternID: f.PatternID, Reason: skipReasonNotHigh,
			})
			continue
		}
		fix, ok := namedFixes[f.PatternID]
		if !ok {
			result.Skipped = append(result.Skipped, SkippedFix{
				File: f.File, PatternID: f.PatternID,
				Reason: fmt.Sprintf("no registered fix for pattern %q", f.PatternID),
			})
			continue
		}

		content, loaded := working[f.File]
		if !loaded {
			data, err := os.ReadFile(f.File)
			if err != nil {
				result.Errors = append(result.Errors, FixError{
					File: f.File, PatternID: f.PatternID,
					Reason: fmt.Sprintf("reading target: %v", err),
				})
				continue
			}
			content = string(data)
			originals[f.File] = content
			working[f.File] = content
		}

		fixed, err := fix(content, f)
		if err != nil {
			result.Errors = append(result.Errors, FixError{
				File: f.File, PatternID: f.PatternID, Reason: err.Error(),
			})
			continue
		}
		if fixed == content {
			result.Skipped = append(result.Skipped, SkippedFix{
				File: f.File, PatternID: f.PatternID, Reason: "no change needed",
			})
			continue
		}
		working[f.File] = fixed
		pending[f.File] = append(pending[f.File], AppliedFix{
			File: f.File, PatternID: f.PatternID,
			Description: fixDescriptions[f.PatternID],
			DryRun:      opts.DryRun,
		})
	}

	// Commit phase. A fix counts as applied only once its file write lands;
	// a backup or write failure turns every pending fix on that file into an
	// error entry instead.
	files := make([]string, 0, len(working))
	for file := range working {
		files = append(files, file)
	}
	sort.Strings(files)
	for _, file := range files {
		fixed := working[file]
		original := originals[file]
		if fixed == original {
			continue
		}
		result.Diffs[file] = UnifiedDiff(file, original, fixed)
		if opts.DryRun {
			result.Applied = append(result.Applied, pending[file]...)
			continue
		}
		if opts.Backup {
			if err := os.WriteFile(BackupPath(file), []byte(original), 0644); err != nil {
				result.Errors = append(result.Errors, commitErrors(pending[file], fmt.Sprintf("writing backup: %v", err))...)
				continue
			}
		}
		if err := writeFileAtomic(file, []byte(fixed)); err != nil {
			result.Errors = append(result.Errors, commitErrors(pending[file], fmt.Sprintf("writing fixed content: %v", err))...)
			continue
		}
		result.Applied = append(result.Applied, pending[file]...)
	}
	return result
}

// commitErrors converts a file's pending fixes into error entries, one per
// finding, so each input finding still traces to exactly one outcome.
func commitErrors(pend []AppliedFix, reason string) []FixError {
	errs := make([]FixError, 0, len(pend))
	for _, a := range pend {
		errs = append(errs, FixError{File: a.File, PatternID: a.PatternID, Reason: reason})
	}
	return errs
}

// namedFix rewrites a document. Every named fix must be idempotent:
// fix(fix(x)) == fix(x).
type namedFix func(content string, f patterns.Finding) (string, error)

// namedFixes dispatches pattern id → rewrite. Patterns with AutoFix set but
// no entry here (or with certainty below HIGH) are skipped, not errored.
var namedFixes = map[string]namedFix{
	"missing_frontmatter": func(c string, f patterns.Finding) (string, error) {
		return InsertFrontmatter(c, nameFromPath(f.File)), nil
	},
	"wildcard_tool_grant": func(c string, _ patterns.Finding) (string, error) {
		return NarrowWildcardTools(c), nil
	},
	"missing_role_section":          sectionFix("missing_role_section"),
	"missing_output_format_section": sectionFix("missing_output_format_section"),
	"missing_constraints_section":   sectionFix("missing_constraints_section"),
	"missing_verification_section":  sectionFix("missing_verification_section"),
	"verbose_phrasing": func(c string, _ patterns.Finding) (string, error) {
		return SimplifyVerbosePhrasing(c), nil
	},
	"heading_level_jump": func(c string, _ patterns.Finding) (string, error) {
		return ClampHeadingJumps(c), nil
	},
	"aggressive_emphasis": func(c string, _ patterns.Finding) (string, error) {
		return ToneDownEmphasis(c), nil
	},
	"schema_missing_additional_properties": func(c string, _ patterns.Finding) (string, error) {
		return CloseObjectSchemas(c)
	},
}

var fixDescriptions = map[string]string{
	"missing_frontmatter":                  "inserted frontmatter block with placeholders",
	"wildcard_tool_grant":                  "narrowed wildcard tool grant to a scoped set",
	"missing_role_section":                 "inserted Role section",
	"missing_output_format_section":        "inserted Output Format section",
	"missing_constraints_section":          "inserted Constraints section",
	"missing_verification_section":         "inserted Verification section",
	"verbose_phrasing":                     "simplified stock verbose phrasing",
	"heading_level_jump":                   "clamped heading levels to parent+1",
	"aggressive_emphasis":                  "toned down aggressive emphasis",
	"schema_missing_additional_properties": "set additionalProperties: false on open object schemas",
}

// HasNamedFix reports whether the fixer recognizes a pattern id.
func HasNamedFix(patternID string) bool {
	_, ok := namedFixes[patternID]
	return ok
}

func sectionFix(patternID string) namedFix {
	return func(c string, _ patterns.Finding) (string, error) {
		spec, ok := patterns.SectionByPatternID(patternID)
		if !ok {
			return c, fmt.Errorf("unknown section pattern %q", patternID)
		}
		return InsertSection(c, spec), nil
	}
}
