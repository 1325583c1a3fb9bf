package nodes

import (
	formtree "github.com/reoring/formtree"
)

// Any stores an arbitrary JSON-like value without validating its shape. The
// stored value is deep-copied on the way in and out, so callers cannot
// mutate node state through retained references.
type Any struct {
	base
	val any
	set bool
}

func (n *Any) Init(id string, config map[string]any) error {
	if err := n.initBase(id, config); err != nil {
		return err
	}
	if d, ok := config["default"]; ok {
		n.val, n.set = formtree.CloneValue(d), true
	}
	return nil
}

func (n *Any) Value() (any, bool) {
	if !n.set {
		return nil, false
	}
	return formtree.CloneValue(n.val), true
}

func (n *Any) SetValue(v any) error {
	if v == nil {
		n.val, n.set = nil, false
		return nil
	}
	n.val, n.set = formtree.CloneValue(v), true
	return nil
}

func (n *Any) Clone() formtree.Node {
	c := *n
	c.base = n.cloneBase()
	c.val = formtree.CloneValue(n.val)
	return &c
}
