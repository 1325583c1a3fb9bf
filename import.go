package formtree

import (
	"bytes"
	"fmt"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/reoring/formtree/i18n"
)

// ParseSchemaJSON decodes a schema document from JSON. Because JSON object
// keys carry no reliable order, ordered collections ("types", "fields") must
// be authored as arrays of {"name": ..., ...} entries.
func ParseSchemaJSON(data []byte) (Schema, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return Schema{}, Issues{Issue{Path: "/", Code: CodeParseError, Message: i18n.T(CodeParseError, nil), Cause: err}}
	}
	return SchemaFromValue(v)
}

// ParseSchemaYAML decodes a schema document from YAML. Mapping order is
// preserved, so "types" and "fields" may be authored either as mappings or
// as arrays of {name: ..., ...} entries.
func ParseSchemaYAML(data []byte) (Schema, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Schema{}, Issues{Issue{Path: "/", Code: CodeParseError, Message: i18n.T(CodeParseError, nil), Cause: err}}
	}
	n := &doc
	if n.Kind == yaml.DocumentNode {
		if len(n.Content) == 0 {
			return Schema{}, Issues{Issue{Path: "/", Code: CodeParseError, Message: i18n.T(CodeParseError, nil), Hint: "empty document"}}
		}
		n = n.Content[0]
	}
	return schemaFromYAMLNode(n)
}

// SchemaFromValue converts a loosely typed descriptor value into a Schema.
// Accepted shapes: Schema, *Schema, and map[string]any with either a "$ref"
// token or a "kind" plus configuration.
func SchemaFromValue(v any) (Schema, error) {
	switch t := v.(type) {
	case Schema:
		return t.Clone(), nil
	case *Schema:
		if t == nil {
			break
		}
		return t.Clone(), nil
	case map[string]any:
		return schemaFromMap(t)
	}
	return Schema{}, Issues{Issue{Path: "/", Code: CodeParseError, Message: i18n.T(CodeParseError, nil), Hint: fmt.Sprintf("cannot read schema from %T", v)}}
}

func schemaFromMap(m map[string]any) (Schema, error) {
	if ref, ok := m["$ref"].(string); ok && ref != "" {
		return Schema{Ref: ref}, nil
	}
	kind, _ := m["kind"].(string)
	if kind == "" {
		return Schema{}, Issues{Issue{Path: "/", Code: CodeParseError, Message: i18n.T(CodeParseError, nil), Hint: "schema needs a kind or a $ref"}}
	}
	out := Schema{Kind: kind}
	for k, v := range m {
		if k == "kind" {
			continue
		}
		cv, err := convertConfigEntry(k, v)
		if err != nil {
			return Schema{}, RebaseIssues(Root().Field(k), err)
		}
		if out.Config == nil {
			out.Config = map[string]any{}
		}
		out.Config[k] = cv
	}
	return out, nil
}

// convertConfigEntry rewrites schema-bearing configuration keys into typed
// descriptors while leaving everything else as plain data.
func convertConfigEntry(key string, v any) (any, error) {
	switch key {
	case "types", "fields":
		return SchemasFromValue(v)
	case "items":
		return SchemaFromValue(v)
	case "defs":
		return defsFromValue(v)
	default:
		return CloneValue(v), nil
	}
}

func defsFromValue(v any) (map[string]Schema, error) {
	switch t := v.(type) {
	case map[string]Schema:
		out := make(map[string]Schema, len(t))
		for k, s := range t {
			out[k] = s.Clone()
		}
		return out, nil
	case map[string]any:
		out := make(map[string]Schema, len(t))
		for k, dv := range t {
			s, err := SchemaFromValue(dv)
			if err != nil {
				return nil, RebaseIssues(Root().Field(k), err)
			}
			out[k] = s
		}
		return out, nil
	}
	return nil, Issues{Issue{Path: "/", Code: CodeParseError, Message: i18n.T(CodeParseError, nil), Hint: fmt.Sprintf("cannot read defs from %T", v)}}
}

// SchemasFromValue converts a loosely typed value into an ordered Schemas
// collection. Ordered inputs (*Schemas, []NamedSchema, []any of entries with
// a "name" key) keep their order.
func SchemasFromValue(v any) (*Schemas, error) {
	switch t := v.(type) {
	case *Schemas:
		return t.Clone(), nil
	case []NamedSchema:
		out := NewSchemas()
		for _, e := range t {
			out.Add(e.Name, e.Schema.Clone())
		}
		return out, nil
	case []any:
		out := NewSchemas()
		for i, ev := range t {
			em, ok := ev.(map[string]any)
			if !ok {
				return nil, Issues{Root().Index(i).Issue(CodeParseError, i18n.T(CodeParseError, nil))}
			}
			name, _ := em["name"].(string)
			if name == "" {
				return nil, Issues{Root().Index(i).Issue(CodeParseError, i18n.T(CodeParseError, nil), "missing", "name")}
			}
			rest := make(map[string]any, len(em))
			for k, vv := range em {
				if k == "name" {
					continue
				}
				rest[k] = vv
			}
			s, err := SchemaFromValue(rest)
			if err != nil {
				return nil, RebaseIssues(Root().Index(i), err)
			}
			out.Add(name, s)
		}
		return out, nil
	}
	return nil, Issues{Issue{Path: "/", Code: CodeParseError, Message: i18n.T(CodeParseError, nil), Hint: fmt.Sprintf("cannot read schemas from %T", v)}}
}

// ---- YAML document walking ----

func schemaFromYAMLNode(n *yaml.Node) (Schema, error) {
	if n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	if n.Kind != yaml.MappingNode {
		return Schema{}, Issues{Issue{Path: "/", Code: CodeParseError, Message: i18n.T(CodeParseError, nil), Hint: "schema must be a mapping"}}
	}
	out := Schema{}
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i].Value
		val := n.Content[i+1]
		switch key {
		case "$ref":
			return Schema{Ref: val.Value}, nil
		case "kind":
			out.Kind = val.Value
			continue
		}
		cv, err := yamlConfigEntry(key, val)
		if err != nil {
			return Schema{}, RebaseIssues(Root().Field(key), err)
		}
		if out.Config == nil {
			out.Config = map[string]any{}
		}
		out.Config[key] = cv
	}
	if out.Kind == "" {
		return Schema{}, Issues{Issue{Path: "/", Code: CodeParseError, Message: i18n.T(CodeParseError, nil), Hint: "schema needs a kind or a $ref"}}
	}
	return out, nil
}

func yamlConfigEntry(key string, val *yaml.Node) (any, error) {
	switch key {
	case "types", "fields":
		return schemasFromYAMLNode(val)
	case "items":
		return schemaFromYAMLNode(val)
	case "defs":
		return yamlDefs(val)
	}
	var plain any
	if err := val.Decode(&plain); err != nil {
		return nil, Issues{Issue{Path: "/", Code: CodeParseError, Message: i18n.T(CodeParseError, nil), Cause: err}}
	}
	return yamlNormalizeValue(plain), nil
}

// schemasFromYAMLNode reads an ordered name → schema collection from either a
// mapping (YAML preserves pair order) or a sequence of entries with a "name".
func schemasFromYAMLNode(n *yaml.Node) (*Schemas, error) {
	if n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	switch n.Kind {
	case yaml.MappingNode:
		out := NewSchemas()
		for i := 0; i+1 < len(n.Content); i += 2 {
			name := n.Content[i].Value
			s, err := schemaFromYAMLNode(n.Content[i+1])
			if err != nil {
				return nil, RebaseIssues(Root().Field(name), err)
			}
			out.Add(name, s)
		}
		return out, nil
	case yaml.SequenceNode:
		out := NewSchemas()
		for i, en := range n.Content {
			name, rest, err := splitYAMLEntry(en)
			if err != nil {
				return nil, RebaseIssues(Root().Index(i), err)
			}
			s, err := schemaFromYAMLNode(rest)
			if err != nil {
				return nil, RebaseIssues(Root().Index(i), err)
			}
			out.Add(name, s)
		}
		return out, nil
	}
	return nil, Issues{Issue{Path: "/", Code: CodeParseError, Message: i18n.T(CodeParseError, nil), Hint: "expected mapping or sequence"}}
}

// splitYAMLEntry strips the "name" pair from an entry mapping and returns the
// remainder as a synthetic mapping node.
func splitYAMLEntry(n *yaml.Node) (string, *yaml.Node, error) {
	if n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	if n.Kind != yaml.MappingNode {
		return "", nil, Issues{Issue{Path: "/", Code: CodeParseError, Message: i18n.T(CodeParseError, nil), Hint: "entry must be a mapping"}}
	}
	name := ""
	rest := &yaml.Node{Kind: yaml.MappingNode}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == "name" {
			name = n.Content[i+1].Value
			continue
		}
		rest.Content = append(rest.Content, n.Content[i], n.Content[i+1])
	}
	if name == "" {
		return "", nil, Issues{Issue{Path: "/", Code: CodeParseError, Message: i18n.T(CodeParseError, nil), Hint: "entry missing name"}}
	}
	return name, rest, nil
}

func yamlDefs(n *yaml.Node) (map[string]Schema, error) {
	if n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	if n.Kind != yaml.MappingNode {
		return nil, Issues{Issue{Path: "/", Code: CodeParseError, Message: i18n.T(CodeParseError, nil), Hint: "defs must be a mapping"}}
	}
	out := map[string]Schema{}
	for i := 0; i+1 < len(n.Content); i += 2 {
		name := n.Content[i].Value
		s, err := schemaFromYAMLNode(n.Content[i+1])
		if err != nil {
			return nil, RebaseIssues(Root().Field(name), err)
		}
		out[name] = s
	}
	return out, nil
}

// yamlNormalizeValue converts YAML-decoded values (which may contain
// map[any]any) into JSON-like map[string]any recursively.
func yamlNormalizeValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = yamlNormalizeValue(vv)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			ks, ok := k.(string)
			if !ok {
				continue
			}
			out[ks] = yamlNormalizeValue(vv)
		}
		return out
	case []any:
		arr := make([]any, len(t))
		for i := range t {
			arr[i] = yamlNormalizeValue(t[i])
		}
		return arr
	default:
		return v
	}
}
