// Package artifact loads and parses the text documents that agentlint
// analyzes: agent definitions, slash commands, skills, plugin manifests,
// project-memory files, and standalone prompts.
//
// Parsing never fails. A document with malformed metadata still loads; it
// simply has no frontmatter. Downstream patterns report the malformation as
// a finding instead of the loader raising an error.
package artifact

import (
	"path/filepath"
	"strings"
)

// Type classifies an artifact by its role in an agent configuration tree.
type Type string

const (
	TypeAgent         Type = "agent"
	TypeCommand       Type = "command"
	TypeSkill         Type = "skill"
	TypeManifest      Type = "manifest"
	TypeProjectMemory Type = "project-memory"
	TypePrompt        Type = "prompt"
)

// Artifact is a single loaded document. It is immutable during analysis:
// patterns read it, the fixer re-reads files from disk before mutating them.
type Artifact struct {
	// Path is the location the artifact was loaded from, relative to the
	// discovery root when discovered, absolute when targeted directly.
	Path string

	// Type is the inferred artifact type.
	Type Type

	// RawContent is the full original file content.
	RawContent string

	// Frontmatter holds the parsed leading metadata block, or nil when the
	// document has none (or the block was malformed).
	Frontmatter *Frontmatter

	// Body is the content after the metadata block. When Frontmatter is nil,
	// Body equals RawContent.
	Body string
}

// Name returns the artifact's declared name, falling back to the file
// basename without extension. Cross-file reference detection keys on this.
func (a *Artifact) Name() string {
	if a.Frontmatter != nil {
		if name, ok := a.Frontmatter.Get("name"); ok && name != "" {
			return name
		}
	}
	base := filepath.Base(a.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Frontmatter is a flat, ordered key→value view of a document's leading
// metadata block. Keys keep their original order and unknown keys are
// preserved but not interpreted.
type Frontmatter struct {
	keys   []string
	values map[string]string
}

// NewFrontmatter returns an empty frontmatter map.
func NewFrontmatter() *Frontmatter {
	return &Frontmatter{values: make(map[string]string)}
}

// Get returns the value for key and whether it was present.
func (f *Frontmatter) Get(key string) (string, bool) {
	v, ok := f.values[key]
	return v, ok
}

// Has reports whether key is present.
func (f *Frontmatter) Has(key string) bool {
	_, ok := f.values[key]
	return ok
}

// Set adds or replaces a key, preserving first-seen order.
func (f *Frontmatter) Set(key, value string) {
	if _, ok := f.values[key]; !ok {
		f.keys = append(f.keys, key)
	}
	f.values[key] = value
}

// Keys returns the keys in original document order.
func (f *Frontmatter) Keys() []string {
	out := make([]string, len(f.keys))
	copy(out, f.keys)
	return out
}

// Len returns the number of keys.
func (f *Frontmatter) Len() int {
	return len(f.keys)
}

// List splits a frontmatter value into items. Handles both comma-separated
// scalars ("Read, Grep") and flow-style lists ("[Read, Grep]").
func (f *Frontmatter) List(key string) []string {
	raw, ok := f.Get(key)
	if !ok {
		return nil
	}
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "[")
	raw = strings.TrimSuffix(raw, "]")
	var items []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		part = strings.Trim(part, `"'`)
		if part != "" {
			items = append(items, part)
		}
	}
	return items
}

// capabilityKeys are the frontmatter fields that restrict which tools an
// artifact may use. Their presence is a secondary type signal: only agents
// and skills declare capability restrictions.
var capabilityKeys = []string{"tools", "allowed-tools"}

// CapabilityKey returns the capability-restriction field present in the
// frontmatter, if any.
func (f *Frontmatter) CapabilityKey() (string, bool) {
	for _, key := range capabilityKeys {
		if f.Has(key) {
			return key, true
		}
	}
	return "", false
}

// InferType determines an artifact's type from its path, with frontmatter
// shape as a tiebreaker. Path segments win: a file under agents/ is an agent
// regardless of its metadata.
func InferType(path string, fm *Frontmatter) Type {
	base := filepath.Base(path)
	lower := strings.ToLower(base)

	switch {
	case lower == "plugin.json" || strings.HasSuffix(lower, ".claude-plugin.json"):
		return TypeManifest
	case strings.HasSuffix(lower, ".json"):
		if inSegment(path, ".claude-plugin") {
			return TypeManifest
		}
	case lower == "claude.md" || lower == "claude.local.md" || lower == "agents.md":
		return TypeProjectMemory
	}

	switch {
	case inSegment(path, "agents"):
		return TypeAgent
	case inSegment(path, "commands"):
		return TypeCommand
	case inSegment(path, "skills") || lower == "skill.md":
		return TypeSkill
	}

	// Ambiguous location: a capability-restriction field implies agent/skill.
	if fm != nil {
		if _, ok := fm.CapabilityKey(); ok {
			return TypeAgent
		}
	}
	if strings.HasSuffix(lower, ".json") {
		return TypeManifest
	}
	return TypePrompt
}

// inSegment reports whether any directory component of path equals seg.
func inSegment(path, seg string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == seg {
			return true
		}
	}
	return false
}
