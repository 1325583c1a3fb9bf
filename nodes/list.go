package nodes

import (
	"strconv"

	formtree "github.com/reoring/formtree"
	"github.com/reoring/formtree/i18n"
)

// List holds an ordered sequence of children all built from one element
// schema ("items"). Children are rebuilt from the schema on every SetValue;
// a reference element schema is re-resolved per element, so every element
// gets its own independent subtree.
type List struct {
	base
	elem    formtree.Schema
	factory formtree.Factory
	items   []formtree.Node
	set     bool
}

// SetFactory overrides the node factory. Must be called before the first
// SetValue; defaults to the package-wide registry.
func (n *List) SetFactory(f formtree.Factory) { n.factory = f }

func (n *List) Init(id string, config map[string]any) error {
	if err := n.initBase(id, config); err != nil {
		return err
	}
	if n.factory == nil {
		n.factory = formtree.DefaultRegistry()
	}
	raw, ok := config["items"]
	if !ok {
		return formtree.Issues{formtree.Root().Field("items").Issue(formtree.CodeParseError, i18n.T(formtree.CodeParseError, nil), "missing", "items")}
	}
	elem, err := formtree.SchemaFromValue(raw)
	if err != nil {
		return formtree.RebaseIssues(formtree.Root().Field("items"), err)
	}
	n.elem = elem
	return nil
}

func (n *List) Value() (any, bool) {
	if !n.set {
		return nil, false
	}
	out := make([]any, 0, len(n.items))
	for _, it := range n.items {
		v, ok := it.Value()
		if !ok {
			out = append(out, nil)
			continue
		}
		out = append(out, v)
	}
	return out, true
}

func (n *List) SetValue(v any) error {
	if v == nil {
		n.items, n.set = nil, false
		return nil
	}
	seq, ok := v.([]any)
	if !ok {
		return formtree.Issues{formtree.Issue{Path: "/", Code: formtree.CodeInvalidType, Message: i18n.T(formtree.CodeInvalidType, nil), Hint: "expected sequence"}}
	}
	items := make([]formtree.Node, 0, len(seq))
	var iss formtree.Issues
	for i, ev := range seq {
		child, err := n.buildElement(strconv.Itoa(i))
		if err != nil {
			iss = formtree.AppendIssues(iss, formtree.RebaseIssues(formtree.Root().Index(i), err)...)
			continue
		}
		if err := child.SetValue(ev); err != nil {
			iss = formtree.AppendIssues(iss, formtree.RebaseIssues(formtree.Root().Index(i), err)...)
			continue
		}
		items = append(items, child)
	}
	if len(iss) > 0 {
		return iss
	}
	n.items, n.set = items, true
	return nil
}

func (n *List) buildElement(name string) (formtree.Node, error) {
	elem := n.elem
	if elem.IsRef() {
		resolved, err := formtree.ResolveRef(n, elem.Ref)
		if err != nil {
			return nil, err
		}
		elem = resolved
	} else {
		elem = elem.Clone()
	}
	child, err := n.factory.Build(name, elem)
	if err != nil {
		return nil, err
	}
	child.SetParent(n)
	return child, nil
}

// Len returns the number of elements currently held.
func (n *List) Len() int { return len(n.items) }

// At returns the i-th element node, or nil when out of range.
func (n *List) At(i int) formtree.Node {
	if i < 0 || i >= len(n.items) {
		return nil
	}
	return n.items[i]
}

func (n *List) Clone() formtree.Node {
	c := &List{base: n.cloneBase(), elem: n.elem.Clone(), factory: n.factory, set: n.set}
	for _, it := range n.items {
		cc := it.Clone()
		cc.SetParent(c)
		c.items = append(c.items, cc)
	}
	return c
}
