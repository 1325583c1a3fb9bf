package nodes

import (
	"encoding/json"
	"strconv"

	formtree "github.com/reoring/formtree"
	"github.com/reoring/formtree/i18n"
)

// Number stores a json.Number value so precision survives round-trips. With
// the "coerce" config flag it also accepts numeric strings.
type Number struct {
	base
	val    json.Number
	set    bool
	coerce bool
}

func (n *Number) Init(id string, config map[string]any) error {
	if err := n.initBase(id, config); err != nil {
		return err
	}
	if c, ok := cfgBool(config, "coerce"); ok {
		n.coerce = c
	}
	if d, ok := config["default"]; ok {
		return n.SetValue(d)
	}
	return nil
}

func (n *Number) Value() (any, bool) {
	if !n.set {
		return nil, false
	}
	return n.val, true
}

func (n *Number) SetValue(v any) error {
	if v == nil {
		n.val, n.set = "", false
		return nil
	}
	num, err := n.toNumber(v)
	if err != nil {
		return err
	}
	n.val, n.set = num, true
	return nil
}

func (n *Number) toNumber(v any) (json.Number, error) {
	switch t := v.(type) {
	case json.Number:
		return t, nil
	case float64:
		return json.Number(formatFloat(t)), nil
	case int:
		return json.Number(strconv.Itoa(t)), nil
	case int64:
		return json.Number(strconv.FormatInt(t, 10)), nil
	case string:
		if n.coerce {
			if _, err := strconv.ParseFloat(t, 64); err == nil {
				return json.Number(t), nil
			}
		}
	}
	return "", formtree.Issues{formtree.Issue{Path: "/", Code: formtree.CodeInvalidType, Message: i18n.T(formtree.CodeInvalidType, nil), Hint: "expected number"}}
}

func (n *Number) Clone() formtree.Node {
	c := *n
	c.base = n.cloneBase()
	return &c
}

// formatFloat mirrors the canonical JSON-like float formatting.
func formatFloat(f float64) string { return strconv.FormatFloat(f, 'g', -1, 64) }
