package patterns

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/steveyegge/agentlint/internal/artifact"
)

// Manifest and schema patterns. Manifests are JSON; a manifest that fails
// to parse degrades to a HIGH finding, never an error.

func manifestPatterns() []*Pattern {
	return []*Pattern{
		invalidManifestJSON(),
		manifestMissingField("manifest_missing_name", "name"),
		manifestMissingField("manifest_missing_version", "version"),
		schemaMissingAdditionalProperties(),
		wildcardPermissions(),
		invalidJSONExample(),
	}
}

// decodeManifest parses the manifest body, returning nil on malformed JSON.
func decodeManifest(a *artifact.Artifact) map[string]any {
	var doc map[string]any
	if err := json.Unmarshal([]byte(a.RawContent), &doc); err != nil {
		return nil
	}
	return doc
}

// invalidManifestJSON fires when the manifest is not valid JSON. This is the
// degraded form of a parse failure: data, not an exception.
func invalidManifestJSON() *Pattern {
	p := &Pattern{
		ID:        "invalid_manifest_json",
		Category:  CategorySchema,
		Certainty: CertaintyHigh,
		AppliesTo: []artifact.Type{artifact.TypeManifest},
	}
	p.Check = func(a *artifact.Artifact) *Finding {
		if json.Valid([]byte(a.RawContent)) {
			return nil
		}
		return p.finding(a, 1, "manifest is not valid JSON", "repair the JSON syntax")
	}
	return p
}

// manifestMissingField fires when a required top-level manifest field is
// absent or empty.
func manifestMissingField(id, field string) *Pattern {
	p := &Pattern{
		ID:        id,
		Category:  CategorySchema,
		Certainty: CertaintyHigh,
		AppliesTo: []artifact.Type{artifact.TypeManifest},
	}
	p.Check = func(a *artifact.Artifact) *Finding {
		doc := decodeManifest(a)
		if doc == nil {
			return nil // invalid_manifest_json already covers this
		}
		if v, ok := doc[field]; ok {
			if s, isStr := v.(string); !isStr || s != "" {
				return nil
			}
		}
		return p.finding(a, 0,
			fmt.Sprintf("manifest declares no %q", field),
			fmt.Sprintf("add a %q field", field))
	}
	return p
}

// ObjectSchemaPaths walks a decoded JSON document and returns the schema
// paths of every object schema ({"type": "object", "properties": ...}) that
// lacks an additionalProperties key, sorted for determinism.
func ObjectSchemaPaths(doc map[string]any) []string {
	var paths []string
	var walk func(node any, path string)
	walk = func(node any, path string) {
		switch v := node.(type) {
		case map[string]any:
			if isOpenObjectSchema(v) {
				paths = append(paths, path)
			}
			keys := make([]string, 0, len(v))
			for k := range v {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				child := k
				if path != "" {
					child = path + "." + k
				}
				walk(v[k], child)
			}
		case []any:
			for i, item := range v {
				walk(item, fmt.Sprintf("%s[%d]", path, i))
			}
		}
	}
	walk(doc, "")
	return paths
}

func isOpenObjectSchema(m map[string]any) bool {
	t, _ := m["type"].(string)
	if t != "object" {
		return false
	}
	if _, hasProps := m["properties"]; !hasProps {
		return false
	}
	_, hasAdditional := m["additionalProperties"]
	return !hasAdditional
}

// schemaMissingAdditionalProperties fires once per object schema in the
// manifest that does not pin additionalProperties. The fix sets it to false
// via a schema-path mutation.
func schemaMissingAdditionalProperties() *Pattern {
	p := &Pattern{
		ID:        "schema_missing_additional_properties",
		Category:  CategorySchema,
		Certainty: CertaintyHigh,
		AutoFix:   true,
		AppliesTo: []artifact.Type{artifact.TypeManifest},
	}
	p.Check = func(a *artifact.Artifact) *Finding {
		doc := decodeManifest(a)
		if doc == nil {
			return nil
		}
		paths := ObjectSchemaPaths(doc)
		if len(paths) == 0 {
			return nil
		}
		return p.finding(a, 0,
			fmt.Sprintf("object schema at %q lacks additionalProperties (%d total)",
				displayPath(paths[0]), len(paths)),
			"set additionalProperties: false on each object schema")
	}
	return p
}

func displayPath(path string) string {
	if path == "" {
		return "(root)"
	}
	return path
}

// wildcardPermissions fires when a manifest permissions list contains a
// bare "*".
func wildcardPermissions() *Pattern {
	p := &Pattern{
		ID:        "wildcard_permissions",
		Category:  CategoryCapabilities,
		Certainty: CertaintyHigh,
		AppliesTo: []artifact.Type{artifact.TypeManifest},
	}
	p.Check = func(a *artifact.Artifact) *Finding {
		doc := decodeManifest(a)
		if doc == nil {
			return nil
		}
		perms, ok := doc["permissions"].([]any)
		if !ok {
			return nil
		}
		for _, perm := range perms {
			if s, isStr := perm.(string); isStr && s == "*" {
				return p.finding(a, FindLine(a.RawContent, `"permissions"`),
					"manifest requests wildcard permissions",
					"enumerate the specific permissions required")
			}
		}
		return nil
	}
	return p
}

// invalidJSONExample fires when a fenced ```json block in a markdown
// artifact fails to parse. An example that cannot parse teaches the model a
// format that does not exist.
func invalidJSONExample() *Pattern {
	p := &Pattern{
		ID:        "invalid_json_example",
		Category:  CategorySchema,
		Certainty: CertaintyHigh,
		AppliesTo: []artifact.Type{
			artifact.TypeAgent, artifact.TypeCommand, artifact.TypeSkill,
			artifact.TypeProjectMemory, artifact.TypePrompt,
		},
	}
	p.Check = func(a *artifact.Artifact) *Finding {
		for _, block := range FencedBlocks(a.Body) {
			if block.Lang != "json" {
				continue
			}
			content := strings.TrimSpace(block.Content)
			if content == "" || json.Valid([]byte(content)) {
				continue
			}
			return p.finding(a, FindLine(a.RawContent, block.Content),
				"fenced json example does not parse",
				"correct the example so it is valid JSON")
		}
		return nil
	}
	return p
}
