package nodes

import formtree "github.com/reoring/formtree"

// Built-in kinds, available through the default registry under their schema
// kind names.
func init() {
	formtree.MustRegister("text", func() formtree.Node { return &Text{} })
	formtree.MustRegister("number", func() formtree.Node { return &Number{} })
	formtree.MustRegister("bool", func() formtree.Node { return &Bool{} })
	formtree.MustRegister("any", func() formtree.Node { return &Any{} })
	formtree.MustRegister("list", func() formtree.Node { return &List{} })
	formtree.MustRegister("object", func() formtree.Node { return &Object{} })
	formtree.MustRegister("variant", func() formtree.Node { return &Field{} })
}
