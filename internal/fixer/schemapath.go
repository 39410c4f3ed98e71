package fixer

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/steveyegge/agentlint/internal/patterns"
)

// Schema paths address a location inside a structured document: dotted keys
// for objects, bracketed indices for arrays ("tools[2].inputSchema.name").

// pathSegment is one step of a parsed schema path.
type pathSegment struct {
	Key   string
	Index int
	IsIdx bool
}

// parseSchemaPath splits a dotted/bracketed path into segments.
func parseSchemaPath(path string) ([]pathSegment, error) {
	if path == "" {
		return nil, fmt.Errorf("empty schema path")
	}
	var segs []pathSegment
	for _, part := range strings.Split(path, ".") {
		for part != "" {
			open := strings.Index(part, "[")
			if open < 0 {
				segs = append(segs, pathSegment{Key: part})
				break
			}
			if open > 0 {
				segs = append(segs, pathSegment{Key: part[:open]})
			}
			closeIdx := strings.Index(part, "]")
			if closeIdx < open {
				return nil, fmt.Errorf("malformed schema path %q", path)
			}
			idx, err := strconv.Atoi(part[open+1 : closeIdx])
			if err != nil {
				return nil, fmt.Errorf("malformed index in schema path %q: %w", path, err)
			}
			segs = append(segs, pathSegment{Index: idx, IsIdx: true})
			part = part[closeIdx+1:]
		}
	}
	if len(segs) == 0 {
		return nil, fmt.Errorf("empty schema path")
	}
	return segs, nil
}

// SetSchemaPath replaces the value at path inside a decoded JSON document.
// The final segment's container must already exist; SetSchemaPath addresses
// locations, it does not build structure.
func SetSchemaPath(doc map[string]any, path string, value any) error {
	segs, err := parseSchemaPath(path)
	if err != nil {
		return err
	}

	var current any = doc
	for i, seg := range segs {
		last := i == len(segs)-1
		if seg.IsIdx {
			arr, ok := current.([]any)
			if !ok {
				return fmt.Errorf("schema path %q: segment %d is not an array", path, i)
			}
			if seg.Index < 0 || seg.Index >= len(arr) {
				return fmt.Errorf("schema path %q: index %d out of range", path, seg.Index)
			}
			if last {
				arr[seg.Index] = value
				return nil
			}
			current = arr[seg.Index]
			continue
		}
		obj, ok := current.(map[string]any)
		if !ok {
			return fmt.Errorf("schema path %q: segment %d is not an object", path, i)
		}
		if last {
			obj[seg.Key] = value
			return nil
		}
		next, exists := obj[seg.Key]
		if !exists {
			return fmt.Errorf("schema path %q: key %q not found", path, seg.Key)
		}
		current = next
	}
	return nil
}

// TransformJSON decodes content, applies fn to the document, and re-encodes
// with stable two-space indentation. The output always ends in a newline so
// repeated round-trips are byte-identical.
func TransformJSON(content string, fn func(doc map[string]any) error) (string, error) {
	var doc map[string]any
	if err := json.Unmarshal([]byte(content), &doc); err != nil {
		return content, fmt.Errorf("parsing document: %w", err)
	}
	if err := fn(doc); err != nil {
		return content, err
	}
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return content, fmt.Errorf("re-encoding document: %w", err)
	}
	return string(out) + "\n", nil
}

// CloseObjectSchemas sets additionalProperties: false on every object
// schema that lacks it. Idempotent: once set, ObjectSchemaPaths finds
// nothing to do and the stable encoder reproduces the document.
func CloseObjectSchemas(content string) (string, error) {
	return TransformJSON(content, func(doc map[string]any) error {
		for _, path := range patterns.ObjectSchemaPaths(doc) {
			target := "additionalProperties"
			if path != "" {
				target = path + ".additionalProperties"
			}
			if err := SetSchemaPath(doc, target, false); err != nil {
				return err
			}
		}
		return nil
	})
}
