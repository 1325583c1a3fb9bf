package nodes

import (
	formtree "github.com/reoring/formtree"
	"github.com/reoring/formtree/i18n"
)

// Text stores a plain string value. It is the default child shape of a
// variant field's built-in "null" candidate.
type Text struct {
	base
	val string
	set bool
}

func (n *Text) Init(id string, config map[string]any) error {
	if err := n.initBase(id, config); err != nil {
		return err
	}
	if d, ok := cfgString(config, "default"); ok {
		n.val, n.set = d, true
	}
	return nil
}

func (n *Text) Value() (any, bool) {
	if !n.set {
		return nil, false
	}
	return n.val, true
}

func (n *Text) SetValue(v any) error {
	if v == nil {
		n.val, n.set = "", false
		return nil
	}
	s, ok := v.(string)
	if !ok {
		return formtree.Issues{formtree.Issue{Path: "/", Code: formtree.CodeInvalidType, Message: i18n.T(formtree.CodeInvalidType, nil), Hint: "expected string"}}
	}
	n.val, n.set = s, true
	return nil
}

func (n *Text) Clone() formtree.Node {
	c := *n
	c.base = n.cloneBase()
	return &c
}
