package artifact

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// frontmatterDelimiter separates the metadata block from the body.
const frontmatterDelimiter = "---"

// Parse splits raw content into frontmatter and body. The metadata block is
// a leading "---" delimited section of flat key: value pairs. Any
// malformation (missing closing delimiter, non-mapping YAML, nested values
// that cannot be flattened) degrades to (nil, content). Parse never fails.
func Parse(content string) (*Frontmatter, string) {
	normalized := strings.ReplaceAll(content, "\r\n", "\n")
	if !strings.HasPrefix(normalized, frontmatterDelimiter+"\n") {
		return nil, content
	}

	rest := normalized[len(frontmatterDelimiter)+1:]
	end := closingDelimiterIndex(rest)
	if end < 0 {
		return nil, content
	}
	block := rest[:end]
	body := rest[end+len(frontmatterDelimiter)+1:]
	body = strings.TrimPrefix(body, "\n")

	fm := parseBlock(block)
	if fm == nil {
		return nil, content
	}
	return fm, body
}

// closingDelimiterIndex locates the "\n---" that starts a whole closing
// delimiter line. Lines that merely begin with the delimiter, such as a
// "----" thematic break, do not close the block.
func closingDelimiterIndex(s string) int {
	marker := "\n" + frontmatterDelimiter
	start := 0
	for {
		idx := strings.Index(s[start:], marker)
		if idx < 0 {
			return -1
		}
		pos := start + idx
		after := pos + len(marker)
		if after == len(s) || s[after] == '\n' {
			return pos
		}
		start = pos + 1
	}
}

// parseBlock parses the delimited block as a flat YAML mapping, preserving
// key order. Returns nil when the block is not a usable mapping.
func parseBlock(block string) *Frontmatter {
	var root yaml.Node
	if err := yaml.Unmarshal([]byte(block), &root); err != nil {
		return nil
	}
	if len(root.Content) == 0 {
		return nil
	}
	mapping := root.Content[0]
	if mapping.Kind != yaml.MappingNode {
		return nil
	}

	fm := NewFrontmatter()
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		keyNode := mapping.Content[i]
		valNode := mapping.Content[i+1]
		if keyNode.Kind != yaml.ScalarNode {
			return nil
		}
		fm.Set(keyNode.Value, flattenValue(valNode))
	}
	return fm
}

// flattenValue renders a YAML value node as a flat string. Sequences become
// comma-joined items so "tools: [Read, Grep]" and "tools: Read, Grep" read
// identically downstream. Anything deeper is re-serialized verbatim; the
// value is preserved but not interpreted.
func flattenValue(n *yaml.Node) string {
	switch n.Kind {
	case yaml.ScalarNode:
		return n.Value
	case yaml.SequenceNode:
		items := make([]string, 0, len(n.Content))
		for _, item := range n.Content {
			items = append(items, flattenValue(item))
		}
		return strings.Join(items, ", ")
	default:
		out, err := yaml.Marshal(n)
		if err != nil {
			return ""
		}
		return strings.TrimSpace(string(out))
	}
}

// Load builds an Artifact from in-memory content.
func Load(path, content string) *Artifact {
	fm, body := Parse(content)
	return &Artifact{
		Path:        path,
		Type:        InferType(path, fm),
		RawContent:  content,
		Frontmatter: fm,
		Body:        body,
	}
}
