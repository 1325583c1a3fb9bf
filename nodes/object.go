package nodes

import (
	formtree "github.com/reoring/formtree"
	"github.com/reoring/formtree/i18n"
)

// Object holds a fixed, insertion-ordered set of keyed child fields
// ("fields"). Children are built lazily on first access so that field
// schemas referencing an ancestor definition resolve against the fully
// attached tree.
type Object struct {
	base
	fields  *formtree.Schemas
	factory formtree.Factory
	kids    map[string]formtree.Node
}

// SetFactory overrides the node factory. Must be called before the first
// access; defaults to the package-wide registry.
func (n *Object) SetFactory(f formtree.Factory) { n.factory = f }

func (n *Object) Init(id string, config map[string]any) error {
	if err := n.initBase(id, config); err != nil {
		return err
	}
	if n.factory == nil {
		n.factory = formtree.DefaultRegistry()
	}
	raw, ok := config["fields"]
	if !ok {
		n.fields = formtree.NewSchemas()
		return nil
	}
	fields, err := formtree.SchemasFromValue(raw)
	if err != nil {
		return formtree.RebaseIssues(formtree.Root().Field("fields"), err)
	}
	n.fields = fields
	return nil
}

func (n *Object) ensureChildren() error {
	if n.kids != nil {
		return nil
	}
	kids := make(map[string]formtree.Node, n.fields.Len())
	var iss formtree.Issues
	for _, name := range n.fields.Names() {
		s, _ := n.fields.Get(name)
		if s.IsRef() {
			resolved, err := formtree.ResolveRef(n, s.Ref)
			if err != nil {
				iss = formtree.AppendIssues(iss, formtree.RebaseIssues(formtree.Root().Field(name), err)...)
				continue
			}
			s = resolved
		} else {
			s = s.Clone()
		}
		child, err := n.factory.Build(name, s)
		if err != nil {
			iss = formtree.AppendIssues(iss, formtree.RebaseIssues(formtree.Root().Field(name), err)...)
			continue
		}
		child.SetParent(n)
		kids[name] = child
	}
	if len(iss) > 0 {
		return iss
	}
	n.kids = kids
	return nil
}

func (n *Object) Value() (any, bool) {
	if err := n.ensureChildren(); err != nil {
		return nil, false
	}
	out := make(map[string]any, len(n.kids))
	for _, name := range n.fields.Names() {
		child := n.kids[name]
		if child == nil {
			continue
		}
		if v, ok := child.Value(); ok {
			out[name] = v
		}
	}
	return out, true
}

func (n *Object) SetValue(v any) error {
	if err := n.ensureChildren(); err != nil {
		return err
	}
	if v == nil {
		var iss formtree.Issues
		for _, name := range n.fields.Names() {
			if err := n.kids[name].SetValue(nil); err != nil {
				iss = formtree.AppendIssues(iss, formtree.RebaseIssues(formtree.Root().Field(name), err)...)
			}
		}
		if len(iss) > 0 {
			return iss
		}
		return nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return formtree.Issues{formtree.Issue{Path: "/", Code: formtree.CodeInvalidType, Message: i18n.T(formtree.CodeInvalidType, nil), Hint: "expected object"}}
	}
	// unknown keys are ignored; shape validation belongs to the children
	var iss formtree.Issues
	for _, name := range n.fields.Names() {
		if err := n.kids[name].SetValue(m[name]); err != nil {
			iss = formtree.AppendIssues(iss, formtree.RebaseIssues(formtree.Root().Field(name), err)...)
		}
	}
	if len(iss) > 0 {
		return iss
	}
	return nil
}

// FieldNode returns the child installed under name, building children first
// when needed.
func (n *Object) FieldNode(name string) formtree.Node {
	if err := n.ensureChildren(); err != nil {
		return nil
	}
	return n.kids[name]
}

func (n *Object) Clone() formtree.Node {
	c := &Object{base: n.cloneBase(), fields: n.fields.Clone(), factory: n.factory}
	if n.kids != nil {
		c.kids = make(map[string]formtree.Node, len(n.kids))
		for name, child := range n.kids {
			cc := child.Clone()
			cc.SetParent(c)
			c.kids[name] = cc
		}
	}
	return c
}
