package nodes_test

import (
	"reflect"
	"testing"

	formtree "github.com/reoring/formtree"
	"github.com/reoring/formtree/nodes"
)

func textVariant(name string) formtree.NamedSchema {
	return formtree.NamedSchema{Name: name, Schema: formtree.Schema{Kind: "text"}}
}

func newField(t *testing.T, id string, cfg map[string]any) *nodes.Field {
	t.Helper()
	f := &nodes.Field{}
	if err := f.Init(id, cfg); err != nil {
		t.Fatalf("init: %v", err)
	}
	return f
}

func TestField_DefaultSelectionIsFirstCandidate(t *testing.T) {
	f := newField(t, "payment", map[string]any{
		"types": formtree.NewSchemas(textVariant("card"), textVariant("cash"), textVariant("wire")),
	})
	if f.Type() != "card" {
		t.Fatalf("selected = %q", f.Type())
	}
	if got := f.PossibleTypes(); !reflect.DeepEqual(got, []string{"card", "cash", "wire"}) {
		t.Fatalf("possible types = %v", got)
	}
}

func TestField_DefaultTypeHonored(t *testing.T) {
	f := newField(t, "payment", map[string]any{
		"types":       formtree.NewSchemas(textVariant("card"), textVariant("cash")),
		"defaultType": "cash",
	})
	if f.Type() != "cash" {
		t.Fatalf("selected = %q", f.Type())
	}
}

func TestField_InvalidDefaultTypeFallsBackToFirst(t *testing.T) {
	f := newField(t, "payment", map[string]any{
		"types":       formtree.NewSchemas(textVariant("card"), textVariant("cash")),
		"defaultType": "cheque",
	})
	if f.Type() != "card" {
		t.Fatalf("selected = %q", f.Type())
	}
}

func TestField_EmptyConfigGetsNullTextVariant(t *testing.T) {
	f := newField(t, "value", nil)
	if f.Type() != "null" {
		t.Fatalf("selected = %q", f.Type())
	}
	if got := f.PossibleTypes(); !reflect.DeepEqual(got, []string{"null"}) {
		t.Fatalf("possible types = %v", got)
	}
	if _, ok := f.Child().(*nodes.Text); !ok {
		t.Fatalf("child is %T", f.Child())
	}
	if f.ExternalKeyPlaceholder() != "Object key…" {
		t.Fatalf("placeholder = %q", f.ExternalKeyPlaceholder())
	}
}

func TestField_ScalarChildWrappedWithTypeTag(t *testing.T) {
	f := newField(t, "amount", map[string]any{
		"types": formtree.NewSchemas(formtree.NamedSchema{Name: "fixed", Schema: formtree.Schema{Kind: "number"}}),
	})
	if err := f.Child().SetValue(42); err != nil {
		t.Fatalf("set child: %v", err)
	}
	v, ok := f.Value()
	if !ok {
		t.Fatalf("expected a value")
	}
	m := v.(map[string]any)
	if m["type"] != "fixed" {
		t.Fatalf("type tag = %v", m["type"])
	}
	if _, ok := m["value"]; !ok {
		t.Fatalf("scalar not wrapped: %#v", m)
	}
}

func TestField_MapChildCarriesTagInline(t *testing.T) {
	card := formtree.Schema{Kind: "object", Config: map[string]any{
		"fields": formtree.NewSchemas(formtree.NamedSchema{Name: "pan", Schema: formtree.Schema{Kind: "text"}}),
	}}
	f := newField(t, "payment", map[string]any{
		"types": formtree.NewSchemas(formtree.NamedSchema{Name: "card", Schema: card}, textVariant("cash")),
	})
	if err := f.SetValue(map[string]any{"pan": "4111", "type": "card"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, _ := f.Value()
	want := map[string]any{"pan": "4111", "type": "card"}
	if !reflect.DeepEqual(v, want) {
		t.Fatalf("encoded = %#v", v)
	}
}

func TestField_MapChildRoundTrip(t *testing.T) {
	card := formtree.Schema{Kind: "object", Config: map[string]any{
		"fields": formtree.NewSchemas(
			formtree.NamedSchema{Name: "pan", Schema: formtree.Schema{Kind: "text"}},
			formtree.NamedSchema{Name: "ccv", Schema: formtree.Schema{Kind: "text"}},
		),
	}}
	f := newField(t, "payment", map[string]any{
		"types": formtree.NewSchemas(formtree.NamedSchema{Name: "card", Schema: card}),
	})
	in := map[string]any{"pan": "4111", "ccv": "123", "type": "card"}
	if err := f.SetValue(in); err != nil {
		t.Fatalf("set: %v", err)
	}
	out, _ := f.Value()
	if !reflect.DeepEqual(out, in) {
		t.Fatalf("round trip: %#v", out)
	}
	if _, tagged := in["type"]; !tagged {
		t.Fatalf("decode mutated the caller's map")
	}
}

func TestField_ScalarPassthroughWithoutTypeTag(t *testing.T) {
	f := newField(t, "amount", map[string]any{
		"types":       formtree.NewSchemas(formtree.NamedSchema{Name: "fixed", Schema: formtree.Schema{Kind: "number"}}),
		"showTypeTag": false,
	})
	if err := f.SetValue(7); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, ok := f.Value()
	if !ok {
		t.Fatalf("expected a value")
	}
	if _, isMap := v.(map[string]any); isMap {
		t.Fatalf("scalar was wrapped: %#v", v)
	}
}

func TestField_ValueKeyForcesWrap(t *testing.T) {
	card := formtree.Schema{Kind: "object", Config: map[string]any{
		"fields": formtree.NewSchemas(formtree.NamedSchema{Name: "pan", Schema: formtree.Schema{Kind: "text"}}),
	}}
	f := newField(t, "payment", map[string]any{
		"types":    formtree.NewSchemas(formtree.NamedSchema{Name: "card", Schema: card}),
		"valueKey": "data",
	})
	if err := f.Child().SetValue(map[string]any{"pan": "4111"}); err != nil {
		t.Fatalf("set child: %v", err)
	}
	v, _ := f.Value()
	want := map[string]any{"data": map[string]any{"pan": "4111"}, "type": "card"}
	if !reflect.DeepEqual(v, want) {
		t.Fatalf("encoded = %#v", v)
	}
}

func TestField_ExternalKeyEmbedsOwnKey(t *testing.T) {
	f := newField(t, "amount", map[string]any{
		"types":       formtree.NewSchemas(formtree.NamedSchema{Name: "fixed", Schema: formtree.Schema{Kind: "number"}}),
		"externalKey": "field",
		"showTypeTag": false,
	})
	if err := f.Child().SetValue(3); err != nil {
		t.Fatalf("set child: %v", err)
	}
	v, _ := f.Value()
	m := v.(map[string]any)
	if m["field"] != "amount" {
		t.Fatalf("external key = %v", m["field"])
	}
	if _, tagged := m["type"]; tagged {
		t.Fatalf("type tag present despite showTypeTag false: %#v", m)
	}
}

func TestField_AbsencePropagates(t *testing.T) {
	f := newField(t, "payment", map[string]any{
		"types": formtree.NewSchemas(textVariant("note")),
	})
	if _, ok := f.Value(); ok {
		t.Fatalf("expected absence from an empty child")
	}
	if err := f.Child().SetValue("hello"); err != nil {
		t.Fatalf("set child: %v", err)
	}
	if _, ok := f.Value(); !ok {
		t.Fatalf("expected a value")
	}
	if err := f.SetValue(nil); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, ok := f.Value(); ok {
		t.Fatalf("expected absence after clearing")
	}
}

func TestField_UnknownVariantKeepsChild(t *testing.T) {
	f := newField(t, "payment", map[string]any{
		"types": formtree.NewSchemas(textVariant("card"), textVariant("cash")),
	})
	before := f.Child()
	err := f.SetType("cheque")
	iss, ok := formtree.AsIssues(err)
	if !ok || iss[0].Code != formtree.CodeUnknownVariant {
		t.Fatalf("expected unknown_variant, got %v", err)
	}
	if f.Type() != "card" {
		t.Fatalf("selection changed to %q", f.Type())
	}
	if f.Child() != before {
		t.Fatalf("child was torn down")
	}
}

func TestField_FactoryFailureKeepsChild(t *testing.T) {
	reg := formtree.DefaultRegistry()
	failing := formtree.FactoryFunc(func(name string, s formtree.Schema) (formtree.Node, error) {
		if name == "broken" {
			return nil, formtree.Issues{formtree.Issue{Path: "/", Code: formtree.CodeFactoryFailure, Message: "boom"}}
		}
		return reg.Build(name, s)
	})
	f := &nodes.Field{}
	f.SetFactory(failing)
	if err := f.Init("payment", map[string]any{
		"types": formtree.NewSchemas(textVariant("card"), textVariant("broken")),
	}); err != nil {
		t.Fatalf("init: %v", err)
	}
	before := f.Child()
	err := f.SetType("broken")
	iss, ok := formtree.AsIssues(err)
	if !ok || iss[0].Code != formtree.CodeFactoryFailure {
		t.Fatalf("expected factory_failure, got %v", err)
	}
	if f.Type() != "card" || f.Child() != before {
		t.Fatalf("failed switch mutated the field")
	}
}

func TestField_SwitchDiscardsValueByDefault(t *testing.T) {
	f := newField(t, "payment", map[string]any{
		"types": formtree.NewSchemas(textVariant("card"), textVariant("cash")),
	})
	if err := f.Child().SetValue("x"); err != nil {
		t.Fatalf("set child: %v", err)
	}
	if err := f.SetType("cash"); err != nil {
		t.Fatalf("switch: %v", err)
	}
	if _, ok := f.Value(); ok {
		t.Fatalf("value survived a plain switch")
	}
	if err := f.SetType("card"); err != nil {
		t.Fatalf("switch back: %v", err)
	}
	if _, ok := f.Value(); ok {
		t.Fatalf("stale value resurfaced after switching back")
	}
}

func TestField_CopyValueOnSwitch(t *testing.T) {
	f := newField(t, "payment", map[string]any{
		"types": formtree.NewSchemas(
			formtree.NamedSchema{Name: "a", Schema: formtree.Schema{Kind: "any"}},
			formtree.NamedSchema{Name: "b", Schema: formtree.Schema{Kind: "any"}},
		),
		"copyValueOnSwitch": true,
	})
	if err := f.Child().SetValue("x"); err != nil {
		t.Fatalf("set child: %v", err)
	}
	if err := f.SetType("b"); err != nil {
		t.Fatalf("switch: %v", err)
	}
	// the externally visible wrap is carried over with the tag stripped
	got, ok := f.Child().Value()
	if !ok {
		t.Fatalf("snapshot was not transplanted")
	}
	if !reflect.DeepEqual(got, map[string]any{"value": "x"}) {
		t.Fatalf("transplanted = %#v", got)
	}
	if f.Type() != "b" {
		t.Fatalf("selected = %q", f.Type())
	}
}

func TestField_SwitchBuildsFreshChild(t *testing.T) {
	f := newField(t, "payment", map[string]any{
		"types": formtree.NewSchemas(textVariant("card"), textVariant("cash")),
	})
	first := f.Child()
	if err := f.SetType("cash"); err != nil {
		t.Fatalf("switch: %v", err)
	}
	if f.Child() == first {
		t.Fatalf("switch reused the old child")
	}
	if f.Child().Parent() != f {
		t.Fatalf("child not attached to the field")
	}
}

func TestField_ReferenceVariantsAreIndependent(t *testing.T) {
	root := &nodes.Object{}
	err := root.Init("root", map[string]any{
		"defs": map[string]any{
			"card": map[string]any{"kind": "object", "fields": []any{
				map[string]any{"name": "pan", "kind": "text"},
			}},
		},
		"fields": formtree.NewSchemas(
			formtree.NamedSchema{Name: "payment", Schema: formtree.Schema{Kind: "variant", Config: map[string]any{
				"types": formtree.NewSchemas(
					formtree.NamedSchema{Name: "card", Schema: formtree.Schema{Ref: "card"}},
					textVariant("cash"),
				),
			}}},
		),
	})
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	f := root.FieldNode("payment").(*nodes.Field)
	if f.Type() != "card" {
		t.Fatalf("selected = %q", f.Type())
	}
	if err := f.SetValue(map[string]any{"pan": "4111", "type": "card"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	firstChild := f.Child()

	if err := f.SetType("cash"); err != nil {
		t.Fatalf("switch away: %v", err)
	}
	if err := f.SetType("card"); err != nil {
		t.Fatalf("switch back: %v", err)
	}
	if f.Child() == firstChild {
		t.Fatalf("reference produced a shared child instance")
	}
	if _, ok := f.Value(); ok {
		t.Fatalf("fresh instantiation carried old state")
	}
}

func TestField_UnresolvableReferenceKeepsChild(t *testing.T) {
	f := newField(t, "payment", map[string]any{
		"types": formtree.NewSchemas(
			textVariant("cash"),
			formtree.NamedSchema{Name: "card", Schema: formtree.Schema{Ref: "card"}},
		),
	})
	before := f.Child()
	err := f.SetType("card")
	iss, ok := formtree.AsIssues(err)
	if !ok || iss[0].Code != formtree.CodeReferenceNotFound {
		t.Fatalf("expected reference_not_found, got %v", err)
	}
	if f.Type() != "cash" || f.Child() != before {
		t.Fatalf("failed switch mutated the field")
	}
}

func TestField_Clone(t *testing.T) {
	f := newField(t, "payment", map[string]any{
		"types": formtree.NewSchemas(textVariant("card"), textVariant("cash")),
	})
	if err := f.Child().SetValue("x"); err != nil {
		t.Fatalf("set child: %v", err)
	}
	c := f.Clone().(*nodes.Field)
	if c.Parent() != nil {
		t.Fatalf("clone kept a parent")
	}
	if c.Child() == f.Child() {
		t.Fatalf("clone shares the child")
	}
	if c.Child().Parent() != c {
		t.Fatalf("clone's child not reattached")
	}
	if err := c.Child().SetValue("y"); err != nil {
		t.Fatalf("set clone child: %v", err)
	}
	v, _ := f.Child().Value()
	if v != "x" {
		t.Fatalf("clone mutation leaked into the original: %v", v)
	}
}

func TestField_EncodeDoesNotMutateChildMap(t *testing.T) {
	card := formtree.Schema{Kind: "object", Config: map[string]any{
		"fields": formtree.NewSchemas(formtree.NamedSchema{Name: "pan", Schema: formtree.Schema{Kind: "text"}}),
	}}
	f := newField(t, "payment", map[string]any{
		"types": formtree.NewSchemas(formtree.NamedSchema{Name: "card", Schema: card}),
	})
	if err := f.Child().SetValue(map[string]any{"pan": "4111"}); err != nil {
		t.Fatalf("set child: %v", err)
	}
	if _, ok := f.Value(); !ok {
		t.Fatalf("expected a value")
	}
	raw, _ := f.Child().Value()
	if _, tagged := raw.(map[string]any)["type"]; tagged {
		t.Fatalf("encode leaked the tag into child state: %#v", raw)
	}
}
