package formtree

// Package formtree provides:
//
// - A Node contract for recursively nestable value trees (Value/SetValue/Clone/parent chain)
// - Schema descriptors that are either literal (kind + config) or reference tokens resolved lazily up the ancestor chain
// - An insertion-ordered Schemas collection for variant candidates and keyed fields
// - A stable error model via Issues (JSON Pointer, code, message)
//
// Design policy:
// - Keep only public contracts in the root package; put node implementations under nodes/.
// - Place the CLI under cmd/formtree.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	s, err := formtree.ParseSchemaYAML(data)
//	root, err := formtree.DefaultRegistry().Build("root", s)
//	err = root.SetValue(doc)
//	out, ok := root.Value()
