package formtree

// Schema describes a node as authored: either a literal descriptor (Kind plus
// nested configuration) or a reference token naming a schema registered on an
// ancestor (Ref non-empty). Descriptors are immutable as authored; every
// instantiation works on an independent copy so sibling instantiations never
// alias state.
type Schema struct {
	Kind   string
	Ref    string
	Config map[string]any
}

// IsRef reports whether the descriptor is a reference token.
func (s Schema) IsRef() bool { return s.Ref != "" }

// Clone returns a structurally independent copy of the descriptor.
func (s Schema) Clone() Schema {
	out := s
	if s.Config != nil {
		out.Config, _ = CloneValue(s.Config).(map[string]any)
	}
	return out
}

// NamedSchema pairs a key with its schema descriptor.
type NamedSchema struct {
	Name   string
	Schema Schema
}

// Schemas is an insertion-ordered name → Schema mapping. Order is
// significant: it defines default variant selection and presentation order.
// Names are unique; re-adding a name replaces the schema in place.
type Schemas struct {
	names []string
	index map[string]Schema
}

// NewSchemas builds an ordered collection from the given entries.
func NewSchemas(entries ...NamedSchema) *Schemas {
	s := &Schemas{index: map[string]Schema{}}
	for _, e := range entries {
		s.Add(e.Name, e.Schema)
	}
	return s
}

// Add appends (or replaces) a named schema and returns the collection for
// chaining.
func (s *Schemas) Add(name string, sc Schema) *Schemas {
	if name == "" {
		return s
	}
	if s.index == nil {
		s.index = map[string]Schema{}
	}
	if _, exists := s.index[name]; !exists {
		s.names = append(s.names, name)
	}
	s.index[name] = sc
	return s
}

// Get returns the schema registered under name.
func (s *Schemas) Get(name string) (Schema, bool) {
	if s == nil || s.index == nil {
		return Schema{}, false
	}
	sc, ok := s.index[name]
	return sc, ok
}

// Names returns the registered names in insertion order. The slice is a copy.
func (s *Schemas) Names() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Len returns the number of registered schemas.
func (s *Schemas) Len() int {
	if s == nil {
		return 0
	}
	return len(s.names)
}

// First returns the first name in insertion order.
func (s *Schemas) First() (string, bool) {
	if s == nil || len(s.names) == 0 {
		return "", false
	}
	return s.names[0], true
}

// Clone returns an independent copy with every schema deep-copied.
func (s *Schemas) Clone() *Schemas {
	if s == nil {
		return nil
	}
	out := NewSchemas()
	for _, n := range s.names {
		out.Add(n, s.index[n].Clone())
	}
	return out
}

// CloneValue deep-copies a JSON-like value tree (map[string]any, []any,
// scalars). Schema descriptors and Schemas collections embedded in
// configuration are cloned through their own Clone methods. Unknown types
// are returned as-is.
func CloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = CloneValue(vv)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = CloneValue(t[i])
		}
		return out
	case Schema:
		return t.Clone()
	case *Schemas:
		return t.Clone()
	default:
		return v
	}
}
