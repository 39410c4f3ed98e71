package fixer

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steveyegge/agentlint/internal/artifact"
	"github.com/steveyegge/agentlint/internal/patterns"
)

func TestParseSchemaPath(t *testing.T) {
	tests := []struct {
		path    string
		want    []pathSegment
		wantErr bool
	}{
		{
			path: "a.b.c",
			want: []pathSegment{{Key: "a"}, {Key: "b"}, {Key: "c"}},
		},
		{
			path: "tools[2].inputSchema",
			want: []pathSegment{{Key: "tools"}, {Index: 2, IsIdx: true}, {Key: "inputSchema"}},
		},
		{
			path: "a[0][1]",
			want: []pathSegment{{Key: "a"}, {Index: 0, IsIdx: true}, {Index: 1, IsIdx: true}},
		},
		{path: "", wantErr: true},
		{path: "a[x]", wantErr: true},
		{path: "a[1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			segs, err := parseSchemaPath(tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, segs); diff != "" {
				t.Errorf("segments mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSetSchemaPath(t *testing.T) {
	doc := map[string]any{
		"tools": []any{
			map[string]any{"inputSchema": map[string]any{"type": "object"}},
		},
	}

	require.NoError(t, SetSchemaPath(doc, "tools[0].inputSchema.additionalProperties", false))

	schema := doc["tools"].([]any)[0].(map[string]any)["inputSchema"].(map[string]any)
	assert.Equal(t, false, schema["additionalProperties"])
}

func TestSetSchemaPath_Errors(t *testing.T) {
	doc := map[string]any{"a": []any{map[string]any{"b": 1}}}

	// Addresses existing structure only; it never builds intermediate nodes.
	assert.Error(t, SetSchemaPath(doc, "missing.key.value", false))
	assert.Error(t, SetSchemaPath(doc, "a[5].b", false))
	assert.Error(t, SetSchemaPath(doc, "a.b", false)) // a is an array, not an object
}

func TestTransformJSON_StableEncoding(t *testing.T) {
	in := `{"b":2,"a":1}`

	once, err := TransformJSON(in, func(map[string]any) error { return nil })
	require.NoError(t, err)
	twice, err := TransformJSON(once, func(map[string]any) error { return nil })
	require.NoError(t, err)

	assert.Equal(t, once, twice)
	assert.True(t, json.Valid([]byte(once)))

	_, err = TransformJSON("{broken", func(map[string]any) error { return nil })
	assert.Error(t, err)
}

func TestCloseObjectSchemas(t *testing.T) {
	manifest := `{
  "name": "acme",
  "version": "1.0.0",
  "commands": [
    {"inputSchema": {"type": "object", "properties": {"path": {"type": "string"}}}},
    {"inputSchema": {"type": "object", "properties": {}, "additionalProperties": true}}
  ]
}`

	reg := patterns.NewRegistry(nil)
	p, ok := reg.ByID("schema_missing_additional_properties")
	require.True(t, ok)

	// The pattern fires before the fix and is silent after it.
	require.NotNil(t, p.Check(artifact.Load("plugin.json", manifest)))

	fixed, err := CloseObjectSchemas(manifest)
	require.NoError(t, err)
	assert.Nil(t, p.Check(artifact.Load("plugin.json", fixed)))

	// The open schema is closed; the explicitly open one is respected.
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(fixed), &doc))
	commands := doc["commands"].([]any)
	first := commands[0].(map[string]any)["inputSchema"].(map[string]any)
	second := commands[1].(map[string]any)["inputSchema"].(map[string]any)
	assert.Equal(t, false, first["additionalProperties"])
	assert.Equal(t, true, second["additionalProperties"])

	// Idempotent to the byte.
	again, err := CloseObjectSchemas(fixed)
	require.NoError(t, err)
	assert.Equal(t, fixed, again)
}
