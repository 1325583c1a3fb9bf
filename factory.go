package formtree

import (
	"fmt"
	"sort"
	"sync"

	"github.com/reoring/formtree/i18n"
)

// Factory turns a (name, schema) pair into a concrete node instance. name is
// the logical key the node will occupy in its parent's structure. The caller
// guarantees the schema is a structurally independent copy, so the factory
// and its result can keep it without aliasing the caller's state.
type Factory interface {
	Build(name string, s Schema) (Node, error)
}

// FactoryFunc adapts a function to the Factory interface.
type FactoryFunc func(name string, s Schema) (Node, error)

func (f FactoryFunc) Build(name string, s Schema) (Node, error) { return f(name, s) }

// Constructor creates an empty node of one kind, ready for Init.
type Constructor func() Node

// Registry maps schema kinds to node constructors. The zero value is not
// usable; create one with NewRegistry.
type Registry struct {
	mu    sync.RWMutex
	kinds map[string]Constructor
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{kinds: map[string]Constructor{}}
}

// Register registers a constructor for a kind.
func (r *Registry) Register(kind string, c Constructor) error {
	if kind == "" {
		return fmt.Errorf("formtree: cannot register empty kind")
	}
	if c == nil {
		return fmt.Errorf("formtree: nil constructor for kind %q", kind)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.kinds[kind]; exists {
		return fmt.Errorf("formtree: kind %q already registered", kind)
	}
	r.kinds[kind] = c
	return nil
}

// Kinds returns the registered kind names in ascending order.
func (r *Registry) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.kinds))
	for k := range r.kinds {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Build implements Factory. It selects the constructor by the schema's kind,
// creates the node and runs Init with the schema's configuration. Reference
// descriptors must be resolved by the caller before Build.
func (r *Registry) Build(name string, s Schema) (Node, error) {
	if s.IsRef() {
		return nil, Issues{Issue{Path: "/", Code: CodeFactoryFailure, Message: i18n.T(CodeFactoryFailure, nil), Hint: "unresolved reference '" + s.Ref + "'"}}
	}
	r.mu.RLock()
	c := r.kinds[s.Kind]
	r.mu.RUnlock()
	if c == nil {
		return nil, Issues{Issue{
			Path:    "/",
			Code:    CodeUnknownKind,
			Message: i18n.T(CodeUnknownKind, map[string]string{"kind": s.Kind}),
			Hint:    "kind '" + s.Kind + "' is not registered",
			Params:  map[string]any{"kind": s.Kind},
		}}
	}
	n := c()
	if n == nil {
		return nil, Issues{Issue{Path: "/", Code: CodeFactoryFailure, Message: i18n.T(CodeFactoryFailure, nil), Hint: "constructor for kind '" + s.Kind + "' returned no node"}}
	}
	if err := n.Init(name, s.Config); err != nil {
		return nil, err
	}
	return n, nil
}

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the process-wide registry that built-in node kinds
// register themselves into.
func DefaultRegistry() *Registry { return defaultRegistry }

// Register registers a constructor in the default registry.
func Register(kind string, c Constructor) error { return defaultRegistry.Register(kind, c) }

// MustRegister is like Register but panics on error. Intended for package
// init of node implementations.
func MustRegister(kind string, c Constructor) {
	if err := defaultRegistry.Register(kind, c); err != nil {
		panic(err)
	}
}
