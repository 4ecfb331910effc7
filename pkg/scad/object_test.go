package scad

import (
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

func TestObjectLeafAndBlock(t *testing.T) {
	o := New(Translate{V: v3.Vec{}})
	if got := o.Code(); got != "translate([0,0,0]);" {
		t.Errorf("leaf code = %q, want %q", got, "translate([0,0,0]);")
	}

	o.AddChild(New(Cube{Size: v3.Vec{X: 1, Y: 1, Z: 1}}))
	want := "translate([0,0,0])\n{\n\tcube([1,1,1]);\n}"
	if got := o.Code(); got != want {
		t.Errorf("block code = %q, want %q", got, want)
	}

	o.SetImportant()
	if got := o.Code(); got != "!"+want {
		t.Errorf("important block code = %q, want %q", got, "!"+want)
	}
}

func TestChildrenRenderInOrder(t *testing.T) {
	d := New(Difference{},
		New(Cube{Size: v3.Vec{X: 5, Y: 5, Z: 5}}),
		New(Sphere{Size: Radius(3)}),
	)
	want := "difference()\n{\n\tcube([5,5,5]);\n\tsphere(r=3);\n}"
	if got := d.Code(); got != want {
		t.Errorf("code = %q, want %q", got, want)
	}
}

func TestNestingCompoundsIndentation(t *testing.T) {
	u := New(Union{},
		New(Translate{V: v3.Vec{X: 1}},
			New(Cube{Size: v3.Vec{X: 1, Y: 1, Z: 1}})),
		New(Sphere{Size: Radius(2)}),
	)
	want := "union()\n{\n\ttranslate([1,0,0])\n\t{\n\t\tcube([1,1,1]);\n\t}\n\tsphere(r=2);\n}"
	if got := u.Code(); got != want {
		t.Errorf("code = %q, want %q", got, want)
	}
}

func TestModifierPrefixes(t *testing.T) {
	tests := []struct {
		name string
		set  func(*Object)
		want string
	}{
		{"none", func(*Object) {}, "union();"},
		{"important", (*Object).SetImportant, "!union();"},
		{"highlighted", (*Object).SetHighlighted, "#union();"},
		{"transparent", (*Object).SetTransparent, "%union();"},
		{"disabled renders nothing", (*Object).SetDisabled, "union();"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := New(Union{})
			tt.set(o)
			if got := o.Code(); got != tt.want {
				t.Errorf("code = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestModifiersAreExclusive(t *testing.T) {
	o := New(Cube{Size: v3.Vec{X: 1, Y: 1, Z: 1}})

	o.SetHighlighted()
	o.SetImportant()
	o.SetTransparent()
	if o.IsImportant() || o.IsHighlighted() {
		t.Error("setting a modifier should clear the previous one")
	}
	if !o.IsTransparent() {
		t.Error("last modifier set should win")
	}
	if got := o.Code(); got != "%cube([1,1,1]);" {
		t.Errorf("code = %q, want %q", got, "%cube([1,1,1]);")
	}

	o.SetDisabled()
	if !o.IsDisabled() || o.IsTransparent() {
		t.Error("disabling should clear the transparent modifier")
	}
	if got := o.Code(); got != "cube([1,1,1]);" {
		t.Errorf("disabled code = %q, want %q", got, "cube([1,1,1]);")
	}

	o.SetModifier(ModifierNone)
	if o.IsDisabled() {
		t.Error("ModifierNone should clear disabled state")
	}
}

func TestBuilderStyleMatchesSetters(t *testing.T) {
	a := New(Union{}).Important()
	b := New(Union{})
	b.SetImportant()
	if a.Code() != b.Code() {
		t.Errorf("builder code %q != setter code %q", a.Code(), b.Code())
	}

	if got := New(Sphere{Size: Radius(1)}).Transparent().Code(); got != "%sphere(r=1);" {
		t.Errorf("code = %q, want %q", got, "%sphere(r=1);")
	}

	// In a chain the last modifier wins, same as repeated setters.
	if got := New(Union{}).Important().Highlighted().Code(); got != "#union();" {
		t.Errorf("chained code = %q, want %q", got, "#union();")
	}
}

func TestChildrenDoesNotAliasInternalState(t *testing.T) {
	o := New(Union{}, New(Cube{Size: v3.Vec{X: 1, Y: 1, Z: 1}}))
	children := o.Children()
	if len(children) != 1 {
		t.Fatalf("children count = %d, want 1", len(children))
	}
	children[0] = nil
	if got := o.Code(); got != "union()\n{\n\tcube([1,1,1]);\n}" {
		t.Errorf("code after mutating returned slice = %q", got)
	}
}

func TestModifierString(t *testing.T) {
	if ModifierNone.String() != "none" {
		t.Errorf("ModifierNone.String() = %q", ModifierNone.String())
	}
	if ModifierImportant.String() != "important" {
		t.Errorf("ModifierImportant.String() = %q", ModifierImportant.String())
	}
	if ModifierDisabled.String() != "disabled" {
		t.Errorf("ModifierDisabled.String() = %q", ModifierDisabled.String())
	}
	if Modifier(99).String() != "unknown" {
		t.Errorf("Modifier(99).String() = %q", Modifier(99).String())
	}
}
