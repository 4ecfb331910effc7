package scad

import "strings"

// Modifier is an OpenSCAD debug modifier. Modifiers are mutually exclusive:
// an object carries exactly one, and setting one replaces whatever was set
// before.
type Modifier int

const (
	ModifierNone        Modifier = iota // no prefix
	ModifierDisabled                    // tracked on the object, renders nothing
	ModifierImportant                   // ! show only this subtree
	ModifierHighlighted                 // # highlight in preview
	ModifierTransparent                 // % render transparent
)

func (m Modifier) String() string {
	switch m {
	case ModifierNone:
		return "none"
	case ModifierDisabled:
		return "disabled"
	case ModifierImportant:
		return "important"
	case ModifierHighlighted:
		return "highlighted"
	case ModifierTransparent:
		return "transparent"
	default:
		return "unknown"
	}
}

// prefix returns the modifier's source-text form.
// TODO: decide whether disabled should render OpenSCAD's "*" prefix instead
// of staying textually inert, and update the tests.
func (m Modifier) prefix() string {
	switch m {
	case ModifierImportant:
		return "!"
	case ModifierHighlighted:
		return "#"
	case ModifierTransparent:
		return "%"
	default:
		return ""
	}
}

// Object is one node of a drawing tree: a drawable element, the objects
// nested inside its block, and an optional debug modifier.
type Object struct {
	element  Element
	children []*Object
	modifier Modifier
}

// New creates an Object for element with the given children attached in
// order. A child belongs to exactly one parent; callers must not attach
// the same Object twice.
func New(element Element, children ...*Object) *Object {
	o := &Object{element: element}
	o.children = append(o.children, children...)
	return o
}

// Element returns the object's drawable element.
func (o *Object) Element() Element {
	return o.element
}

// AddChild appends child to the object's block. Children render in the
// order they were added.
func (o *Object) AddChild(child *Object) {
	o.children = append(o.children, child)
}

// Children returns the attached children in insertion order.
func (o *Object) Children() []*Object {
	children := make([]*Object, len(o.children))
	copy(children, o.children)
	return children
}

// Code renders the object and everything nested inside it as OpenSCAD
// source. An object without children is a single `head;` statement; one
// with children opens a braced block and indents each child's code by one
// tab, so indentation compounds naturally at any depth. No trailing
// newline either way.
func (o *Object) Code() string {
	var b strings.Builder
	b.WriteString(o.modifier.prefix())
	b.WriteString(o.element.Code())
	if len(o.children) == 0 {
		b.WriteString(";")
		return b.String()
	}
	b.WriteString("\n{\n")
	for _, child := range o.children {
		b.WriteString("\t")
		b.WriteString(strings.ReplaceAll(child.Code(), "\n", "\n\t"))
		b.WriteString("\n")
	}
	b.WriteString("}")
	return b.String()
}

// ---------------------------------------------------------------------------
// Modifier state
// ---------------------------------------------------------------------------

// SetModifier replaces the object's modifier.
func (o *Object) SetModifier(m Modifier) {
	o.modifier = m
}

// Modifier returns the current modifier.
func (o *Object) Modifier() Modifier {
	return o.modifier
}

// SetImportant marks the object with the ! modifier.
func (o *Object) SetImportant() { o.SetModifier(ModifierImportant) }

// SetHighlighted marks the object with the # modifier.
func (o *Object) SetHighlighted() { o.SetModifier(ModifierHighlighted) }

// SetTransparent marks the object with the % modifier.
func (o *Object) SetTransparent() { o.SetModifier(ModifierTransparent) }

// SetDisabled marks the object disabled. Disabled state is queryable but
// does not change the rendered text.
func (o *Object) SetDisabled() { o.SetModifier(ModifierDisabled) }

// Important marks the object with the ! modifier and returns it, for use in
// fluent construction chains.
func (o *Object) Important() *Object {
	o.SetModifier(ModifierImportant)
	return o
}

// Highlighted marks the object with the # modifier and returns it.
func (o *Object) Highlighted() *Object {
	o.SetModifier(ModifierHighlighted)
	return o
}

// Transparent marks the object with the % modifier and returns it.
func (o *Object) Transparent() *Object {
	o.SetModifier(ModifierTransparent)
	return o
}

// Disabled marks the object disabled and returns it.
func (o *Object) Disabled() *Object {
	o.SetModifier(ModifierDisabled)
	return o
}

// IsImportant reports whether the object carries the ! modifier.
func (o *Object) IsImportant() bool { return o.modifier == ModifierImportant }

// IsHighlighted reports whether the object carries the # modifier.
func (o *Object) IsHighlighted() bool { return o.modifier == ModifierHighlighted }

// IsTransparent reports whether the object carries the % modifier.
func (o *Object) IsTransparent() bool { return o.modifier == ModifierTransparent }

// IsDisabled reports whether the object is disabled.
func (o *Object) IsDisabled() bool { return o.modifier == ModifierDisabled }
