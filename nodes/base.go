// Package nodes provides the built-in node kinds for formtree value trees:
// leaf kinds (text, number, bool, any), container kinds (list, object) and
// the polymorphic-variant Field. All kinds register themselves in the
// default registry under their schema kind name.
package nodes

import (
	formtree "github.com/reoring/formtree"
)

// base carries the pieces shared by every built-in node kind: the logical
// key the node occupies in its parent, the non-owning parent back-reference
// and an optional named-definition scope.
type base struct {
	id     string
	parent formtree.Node
	defs   map[string]formtree.Schema
}

func (b *base) Parent() formtree.Node     { return b.parent }
func (b *base) SetParent(p formtree.Node) { b.parent = p }

// SchemaDef exposes definitions registered on this node through the "defs"
// configuration key. During upward resolution the nearest ancestor wins, so
// inner scopes shadow outer ones.
func (b *base) SchemaDef(name string) (formtree.Schema, bool) {
	s, ok := b.defs[name]
	return s, ok
}

func (b *base) initBase(id string, config map[string]any) error {
	b.id = id
	if raw, ok := config["defs"]; ok {
		defs, err := defsFrom(raw)
		if err != nil {
			return err
		}
		b.defs = defs
	}
	return nil
}

// cloneBase copies the shared state. The copy has no parent; the caller
// reattaches it where the clone is installed.
func (b *base) cloneBase() base {
	out := base{id: b.id}
	if b.defs != nil {
		out.defs = make(map[string]formtree.Schema, len(b.defs))
		for k, s := range b.defs {
			out.defs[k] = s.Clone()
		}
	}
	return out
}

func defsFrom(raw any) (map[string]formtree.Schema, error) {
	switch t := raw.(type) {
	case map[string]formtree.Schema:
		out := make(map[string]formtree.Schema, len(t))
		for k, s := range t {
			out[k] = s.Clone()
		}
		return out, nil
	case map[string]any:
		out := make(map[string]formtree.Schema, len(t))
		for k, v := range t {
			s, err := formtree.SchemaFromValue(v)
			if err != nil {
				return nil, formtree.RebaseIssues(formtree.Root().Field("defs").Field(k), err)
			}
			out[k] = s
		}
		return out, nil
	case nil:
		return nil, nil
	}
	return nil, formtree.Issues{formtree.Root().Field("defs").Issue(formtree.CodeInvalidType, "defs must map names to schemas")}
}

// ---- config reading helpers ----

func cfgString(config map[string]any, key string) (string, bool) {
	v, ok := config[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func cfgBool(config map[string]any, key string) (bool, bool) {
	v, ok := config[key]
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}
