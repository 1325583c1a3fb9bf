package nodes

import (
	"dario.cat/mergo"

	formtree "github.com/reoring/formtree"
	"github.com/reoring/formtree/i18n"
)

const (
	defaultValueKey = "value"
	typeTagKey      = "type"
)

// Field is the polymorphic-variant value field. It owns a set of candidate
// variant schemas, the currently selected variant name and exactly one child
// node built from that variant. Switching the selection tears the child down
// and builds a fresh one; encode/decode map the child's raw value to and
// from the externally visible value (type tag, external key, value wrap).
//
// All operations are synchronous and unlocked; callers serialize access.
type Field struct {
	base
	factory formtree.Factory

	variants *formtree.Schemas
	selected string
	child    formtree.Node

	valueKey               string
	externalKey            string
	externalKeyPlaceholder string
	showTypeTag            bool
	copyValueOnSwitch      bool
}

// fieldOptions carries the recognized configuration keys. Pointer fields
// distinguish "not set" from explicit zero values, so an authored
// showTypeTag: false survives merging against the true default.
type fieldOptions struct {
	ValueKey               *string
	ExternalKey            *string
	ExternalKeyPlaceholder *string
	ShowTypeTag            *bool
	CopyValueOnSwitch      *bool
	DefaultType            *string
	Types                  *formtree.Schemas
}

func defaultOptions() fieldOptions {
	return fieldOptions{
		ValueKey:               ptr(""),
		ExternalKey:            ptr(""),
		ExternalKeyPlaceholder: ptr("Object key…"),
		ShowTypeTag:            ptr(true),
		CopyValueOnSwitch:      ptr(false),
		Types:                  formtree.NewSchemas(formtree.NamedSchema{Name: "null", Schema: formtree.Schema{Kind: "text"}}),
	}
}

func optionsFromConfig(config map[string]any) (fieldOptions, error) {
	var o fieldOptions
	if s, ok := cfgString(config, "valueKey"); ok {
		o.ValueKey = &s
	}
	if s, ok := cfgString(config, "externalKey"); ok {
		o.ExternalKey = &s
	}
	if s, ok := cfgString(config, "externalKeyPlaceholder"); ok {
		o.ExternalKeyPlaceholder = &s
	}
	if s, ok := cfgString(config, "defaultType"); ok {
		o.DefaultType = &s
	}
	if b, ok := cfgBool(config, "showTypeTag"); ok {
		o.ShowTypeTag = &b
	}
	if b, ok := cfgBool(config, "copyValueOnSwitch"); ok {
		o.CopyValueOnSwitch = &b
	}
	if raw, ok := config["types"]; ok {
		ts, err := formtree.SchemasFromValue(raw)
		if err != nil {
			return o, formtree.RebaseIssues(formtree.Root().Field("types"), err)
		}
		if ts.Len() > 0 {
			o.Types = ts
		}
	}
	return o, nil
}

// SetFactory overrides the node factory used for child construction. Must be
// called before Init; defaults to the package-wide registry.
func (f *Field) SetFactory(fac formtree.Factory) { f.factory = fac }

// Init merges the configuration over the defaults and records the initial
// selection: defaultType when present and valid, otherwise the first
// candidate in insertion order. The child is built on first access so that
// reference candidates resolve against the fully attached tree.
func (f *Field) Init(id string, config map[string]any) error {
	if err := f.initBase(id, config); err != nil {
		return err
	}
	if f.factory == nil {
		f.factory = formtree.DefaultRegistry()
	}
	opts, err := optionsFromConfig(config)
	if err != nil {
		return err
	}
	// WithoutDereference keeps explicitly configured false/empty options from
	// being clobbered by non-zero defaults
	if err := mergo.Merge(&opts, defaultOptions(), mergo.WithoutDereference); err != nil {
		return formtree.IssuesFromErr("/", err)
	}
	f.valueKey = *opts.ValueKey
	f.externalKey = *opts.ExternalKey
	f.externalKeyPlaceholder = *opts.ExternalKeyPlaceholder
	f.showTypeTag = *opts.ShowTypeTag
	f.copyValueOnSwitch = *opts.CopyValueOnSwitch
	f.variants = opts.Types

	selected, _ := f.variants.First()
	if opts.DefaultType != nil {
		if _, ok := f.variants.Get(*opts.DefaultType); ok {
			selected = *opts.DefaultType
		}
	}
	f.selected = selected
	return nil
}

func (f *Field) ensureChild() error {
	if f.child != nil {
		return nil
	}
	return f.SetType(f.selected)
}

// SetType switches the selected variant. On any failure — unknown variant,
// unresolved reference, factory failure — the previously installed child
// remains in place and the error is returned to the caller.
func (f *Field) SetType(name string) error {
	schema, ok := f.variants.Get(name)
	if !ok {
		return formtree.Issues{formtree.Issue{
			Path:    "/",
			Code:    formtree.CodeUnknownVariant,
			Message: i18n.T(formtree.CodeUnknownVariant, map[string]string{"variant": name}),
			Hint:    "variant '" + name + "' is not a candidate",
			Params:  map[string]any{"variant": name},
		}}
	}

	// snapshot the externally visible value before touching anything
	var snapshot any
	haveSnapshot := false
	if f.copyValueOnSwitch && f.child != nil {
		snapshot, haveSnapshot = f.Value()
	}

	resolved := schema
	if schema.IsRef() {
		s, err := formtree.ResolveRef(f, schema.Ref)
		if err != nil {
			return err
		}
		resolved = s
	} else {
		resolved = schema.Clone()
	}

	child, err := f.factory.Build(name, resolved)
	if err != nil {
		return err
	}
	if child == nil {
		return formtree.Issues{formtree.Issue{Path: "/", Code: formtree.CodeFactoryFailure, Message: i18n.T(formtree.CodeFactoryFailure, nil), Hint: "factory returned no node for variant '" + name + "'"}}
	}

	child.SetParent(f)
	f.child = child
	f.selected = name
	if haveSnapshot {
		// best-effort transplant: the switch is committed; a shape mismatch
		// surfaces as the child's own SetValue error
		return f.SetValue(snapshot)
	}
	return nil
}

// Type returns the currently selected variant name.
func (f *Field) Type() string { return f.selected }

// PossibleTypes returns the selectable variant names in insertion order.
func (f *Field) PossibleTypes() []string { return f.variants.Names() }

// ExternalKeyPlaceholder returns the chooser-UI placeholder text for the
// external key entry.
func (f *Field) ExternalKeyPlaceholder() string { return f.externalKeyPlaceholder }

// Child returns the currently installed child node, building it first when
// needed. Returns nil when the initial switch fails.
func (f *Field) Child() formtree.Node {
	if err := f.ensureChild(); err != nil {
		return nil
	}
	return f.child
}

// Value encodes the child's raw value into the externally visible value.
// Absence propagates unconditionally. Whether the raw value gets wrapped
// under the value key depends on its shape at call time: a keyed structure
// can carry the type tag and external key inline, anything else needs the
// wrap whenever a tag has to be embedded.
func (f *Field) Value() (any, bool) {
	if err := f.ensureChild(); err != nil {
		return nil, false
	}
	raw, ok := f.child.Value()
	if !ok {
		return nil, false
	}
	_, isMap := raw.(map[string]any)
	wantTags := f.externalKey != "" || f.showTypeTag
	wrap := f.valueKey != "" || (!isMap && wantTags)

	if !wrap && !isMap {
		// scalar or sequence with nothing to embed
		return raw, true
	}

	var out map[string]any
	if wrap {
		key := f.valueKey
		if key == "" {
			key = defaultValueKey
		}
		out = map[string]any{key: raw}
	} else {
		src := raw.(map[string]any)
		out = make(map[string]any, len(src)+2)
		for k, v := range src {
			out[k] = v
		}
	}
	if f.externalKey != "" {
		out[f.externalKey] = f.id
	}
	if f.showTypeTag {
		out[typeTagKey] = f.selected
	}
	return out, true
}

// SetValue decodes an externally visible value back into the child. The
// input is borrowed: the type tag is stripped from a shallow copy, never
// from the caller's map.
func (f *Field) SetValue(v any) error {
	if err := f.ensureChild(); err != nil {
		return err
	}
	if !f.showTypeTag {
		return f.child.SetValue(v)
	}
	if m, ok := v.(map[string]any); ok {
		stripped := make(map[string]any, len(m))
		for k, vv := range m {
			if k == typeTagKey {
				continue
			}
			stripped[k] = vv
		}
		return f.child.SetValue(stripped)
	}
	// indexing a scalar or sequence by the value key yields nothing; the
	// child accepts that as clearing its value
	return f.child.SetValue(nil)
}

func (f *Field) Clone() formtree.Node {
	c := &Field{
		base:                   f.cloneBase(),
		factory:                f.factory,
		variants:               f.variants.Clone(),
		selected:               f.selected,
		valueKey:               f.valueKey,
		externalKey:            f.externalKey,
		externalKeyPlaceholder: f.externalKeyPlaceholder,
		showTypeTag:            f.showTypeTag,
		copyValueOnSwitch:      f.copyValueOnSwitch,
	}
	if f.child != nil {
		c.child = f.child.Clone()
		c.child.SetParent(c)
	}
	return c
}

func ptr[T any](v T) *T { return &v }
