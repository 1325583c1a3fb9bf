package formtree

// Node is the contract implemented by every node in a value tree, including
// container nodes and the variant field itself. A node owns its children
// exclusively; the parent back-reference is non-owning and exists only so
// descendants can resolve schema references upward.
type Node interface {
	// Value returns the node's externally visible value. ok is false when
	// the node currently holds no value.
	Value() (v any, ok bool)

	// SetValue feeds a value into the node. Passing nil clears the value.
	// A node rejects values of the wrong shape with Issues; it never keeps
	// a reference into the caller's data that it later mutates.
	SetValue(v any) error

	// Parent returns the owning node, or nil at the root.
	Parent() Node

	// SetParent installs the upward back-reference. Called by the owner
	// after construction; nodes never mutate their ancestors through it.
	SetParent(p Node)

	// Clone returns a deep, independent copy of the node and its subtree.
	// The copy has no parent.
	Clone() Node

	// Init binds the node to the logical key it occupies in its parent's
	// structure and applies its configuration. Unrecognized keys are
	// ignored; missing keys take kind-specific defaults.
	Init(id string, config map[string]any) error
}

// SchemaSource is implemented by nodes that expose named schema definitions
// to their descendants. Reference resolution walks the parent chain upward
// and asks each ancestor in turn; the nearest definition wins.
type SchemaSource interface {
	SchemaDef(name string) (Schema, bool)
}
