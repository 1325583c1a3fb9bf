package nodes

import (
	formtree "github.com/reoring/formtree"
	"github.com/reoring/formtree/i18n"
)

// Bool stores a boolean value.
type Bool struct {
	base
	val bool
	set bool
}

func (n *Bool) Init(id string, config map[string]any) error {
	if err := n.initBase(id, config); err != nil {
		return err
	}
	if d, ok := cfgBool(config, "default"); ok {
		n.val, n.set = d, true
	}
	return nil
}

func (n *Bool) Value() (any, bool) {
	if !n.set {
		return nil, false
	}
	return n.val, true
}

func (n *Bool) SetValue(v any) error {
	if v == nil {
		n.val, n.set = false, false
		return nil
	}
	b, ok := v.(bool)
	if !ok {
		return formtree.Issues{formtree.Issue{Path: "/", Code: formtree.CodeInvalidType, Message: i18n.T(formtree.CodeInvalidType, nil), Hint: "expected bool"}}
	}
	n.val, n.set = b, true
	return nil
}

func (n *Bool) Clone() formtree.Node {
	c := *n
	c.base = n.cloneBase()
	return &c
}
