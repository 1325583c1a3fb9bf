package formtree

import "github.com/reoring/formtree/i18n"

// ResolveRef resolves a reference token by walking the parent chain upward
// from the given node (the starting node included, so a node's own "defs"
// scope is visible to itself). It never descends or looks sideways into
// siblings. The returned descriptor is an independent copy: recursive
// self-reference produces a new subtree at each instantiation instead of
// aliasing shared schema state.
func ResolveRef(from Node, token string) (Schema, error) {
	if token == "" {
		return Schema{}, Issues{Issue{Path: "/", Code: CodeReferenceNotFound, Message: i18n.T(CodeReferenceNotFound, nil), Hint: "empty reference token"}}
	}
	for n := from; n != nil; n = n.Parent() {
		src, ok := n.(SchemaSource)
		if !ok {
			continue
		}
		if s, ok := src.SchemaDef(token); ok {
			return s.Clone(), nil
		}
	}
	return Schema{}, Issues{Issue{
		Path:    "/",
		Code:    CodeReferenceNotFound,
		Message: i18n.T(CodeReferenceNotFound, map[string]string{"ref": token}),
		Hint:    "no ancestor defines '" + token + "'",
		Params:  map[string]any{"ref": token},
	}}
}
