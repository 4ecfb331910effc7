package scad

import (
	"fmt"
	"strings"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Element is a single drawable OpenSCAD operation: a primitive shape, a
// transform, or a boolean combinator. The set of elements is closed; every
// element renders its head (name plus parameters) without terminator or
// newline, and an Object supplies the surrounding statement syntax.
type Element interface {
	element() // marker method restricting implementations to this package

	// Code renders the element head, e.g. `cube([1,1,1])`.
	Code() string
}

// ---------------------------------------------------------------------------
// 3D primitives
// ---------------------------------------------------------------------------

// Cube is an axis-aligned box anchored at the origin.
type Cube struct {
	Size v3.Vec
}

func (Cube) element() {}

func (e Cube) Code() string {
	return "cube(" + vec3Code(e.Size) + ")"
}

// Sphere is a sphere centered on the origin.
type Sphere struct {
	Size CircleSize
}

func (Sphere) element() {}

func (e Sphere) Code() string {
	return "sphere(" + e.Size.arg("") + ")"
}

// Cylinder is a cylinder extending from the origin along z.
type Cylinder struct {
	Height float64
	Size   CircleSize
}

func (Cylinder) element() {}

func (e Cylinder) Code() string {
	return fmt.Sprintf("cylinder(h=%s,%s)", floatCode(e.Height), e.Size.arg(""))
}

// Cone is a truncated cone, rendered as a cylinder with separate bottom and
// top dimensions.
type Cone struct {
	Height float64
	Bottom CircleSize
	Top    CircleSize
}

func (Cone) element() {}

func (e Cone) Code() string {
	return fmt.Sprintf("cylinder(h=%s,%s,%s)",
		floatCode(e.Height), e.Bottom.arg("1"), e.Top.arg("2"))
}

// Polyhedron is an arbitrary solid given by its vertices and faces. Faces
// index into Points and must wind clockwise when seen from outside.
type Polyhedron struct {
	Points []v3.Vec
	Faces  [][]int
}

func (Polyhedron) element() {}

func (e Polyhedron) Code() string {
	return fmt.Sprintf("polyhedron(points=%s,faces=%s)",
		vec3ListCode(e.Points), intListListCode(e.Faces))
}

// Import pulls in an external model file (STL, OFF, AMF, ...). The path is
// written verbatim; it is resolved by OpenSCAD relative to the output file.
type Import struct {
	File string
}

func (Import) element() {}

func (e Import) Code() string {
	return "import(" + strCode(e.File) + ")"
}

// Surface reads a height field from a data or image file.
type Surface struct {
	File      string
	Center    bool
	Invert    bool
	Convexity int
}

func (Surface) element() {}

func (e Surface) Code() string {
	return fmt.Sprintf("surface(file=%s,center=%s,invert=%s,convexity=%s)",
		strCode(e.File), boolCode(e.Center), boolCode(e.Invert), intCode(e.Convexity))
}

// ---------------------------------------------------------------------------
// 2D primitives
// ---------------------------------------------------------------------------

// Square is an axis-aligned rectangle anchored at the origin.
type Square struct {
	Size v2.Vec
}

func (Square) element() {}

func (e Square) Code() string {
	return "square(" + vec2Code(e.Size) + ")"
}

// Circle is a circle centered on the origin.
type Circle struct {
	Size CircleSize
}

func (Circle) element() {}

func (e Circle) Code() string {
	return "circle(" + e.Size.arg("") + ")"
}

// Polygon is an arbitrary 2D outline. Paths index into Points; when empty,
// the points are used in order as a single outline.
type Polygon struct {
	Points []v2.Vec
	Paths  [][]int
}

func (Polygon) element() {}

func (e Polygon) Code() string {
	if len(e.Paths) == 0 {
		return fmt.Sprintf("polygon(points=%s)", vec2ListCode(e.Points))
	}
	return fmt.Sprintf("polygon(points=%s,paths=%s)",
		vec2ListCode(e.Points), intListListCode(e.Paths))
}

// Text renders a 2D text outline. Only Text itself is mandatory; every other
// parameter is emitted only when set, leaving the rest to OpenSCAD defaults.
type Text struct {
	Text      string
	Size      float64
	Font      string
	HAlign    string // "left", "center", "right"
	VAlign    string // "top", "center", "baseline", "bottom"
	Spacing   float64
	Direction string // "ltr", "rtl", "ttb", "btt"
	Language  string
	Script    string
}

func (Text) element() {}

func (e Text) Code() string {
	params := []string{strCode(e.Text)}
	if e.Size != 0 {
		params = append(params, "size="+floatCode(e.Size))
	}
	if e.Font != "" {
		params = append(params, "font="+strCode(e.Font))
	}
	if e.HAlign != "" {
		params = append(params, "halign="+strCode(e.HAlign))
	}
	if e.VAlign != "" {
		params = append(params, "valign="+strCode(e.VAlign))
	}
	if e.Spacing != 0 {
		params = append(params, "spacing="+floatCode(e.Spacing))
	}
	if e.Direction != "" {
		params = append(params, "direction="+strCode(e.Direction))
	}
	if e.Language != "" {
		params = append(params, "language="+strCode(e.Language))
	}
	if e.Script != "" {
		params = append(params, "script="+strCode(e.Script))
	}
	return "text(" + strings.Join(params, ",") + ")"
}

// ---------------------------------------------------------------------------
// Transforms
// ---------------------------------------------------------------------------

// Translate moves its children by the given offset.
type Translate struct {
	V v3.Vec
}

func (Translate) element() {}

func (e Translate) Code() string {
	return "translate(" + vec3Code(e.V) + ")"
}

// Translate2D moves its 2D children within the plane.
type Translate2D struct {
	V v2.Vec
}

func (Translate2D) element() {}

func (e Translate2D) Code() string {
	return "translate(" + vec2Code(e.V) + ")"
}

// Rotate rotates its children by Euler angles in degrees, applied x then y
// then z.
type Rotate struct {
	Angles v3.Vec
}

func (Rotate) element() {}

func (e Rotate) Code() string {
	return "rotate(" + vec3Code(e.Angles) + ")"
}

// RotateAxis rotates its children by an angle in degrees around an axis
// through the origin.
type RotateAxis struct {
	Angle float64
	Axis  v3.Vec
}

func (RotateAxis) element() {}

func (e RotateAxis) Code() string {
	return fmt.Sprintf("rotate(%s,%s)", floatCode(e.Angle), vec3Code(e.Axis))
}

// Rotate2D rotates its 2D children by an angle in degrees.
type Rotate2D struct {
	Angle float64
}

func (Rotate2D) element() {}

func (e Rotate2D) Code() string {
	return "rotate(" + floatCode(e.Angle) + ")"
}

// Scale scales its children by per-axis factors.
type Scale struct {
	V v3.Vec
}

func (Scale) element() {}

func (e Scale) Code() string {
	return "scale(" + vec3Code(e.V) + ")"
}

// Scale2D scales its 2D children by per-axis factors.
type Scale2D struct {
	V v2.Vec
}

func (Scale2D) element() {}

func (e Scale2D) Code() string {
	return "scale(" + vec2Code(e.V) + ")"
}

// Mirror reflects its children across the plane through the origin with the
// given normal.
type Mirror struct {
	V v3.Vec
}

func (Mirror) element() {}

func (e Mirror) Code() string {
	return "mirror(" + vec3Code(e.V) + ")"
}

// MultMatrix applies an arbitrary affine transformation to its children.
type MultMatrix struct {
	M Matrix4
}

func (MultMatrix) element() {}

func (e MultMatrix) Code() string {
	return "multmatrix(" + e.M.code() + ")"
}

// LinearExtrude extrudes 2D children into a solid along z. All parameters
// are always emitted, so rendered output does not depend on OpenSCAD's
// defaults drifting.
type LinearExtrude struct {
	Height    float64
	Center    bool
	Convexity int
	Twist     float64
	Slices    int
}

// NewLinearExtrude returns a LinearExtrude of the given height with the
// conventional defaults for the remaining parameters.
func NewLinearExtrude(height float64) LinearExtrude {
	return LinearExtrude{Height: height, Center: true, Convexity: 10, Slices: 20}
}

func (LinearExtrude) element() {}

func (e LinearExtrude) Code() string {
	return fmt.Sprintf("linear_extrude(height=%s,center=%s,convexity=%s,twist=%s,slices=%s)",
		floatCode(e.Height), boolCode(e.Center), intCode(e.Convexity),
		floatCode(e.Twist), intCode(e.Slices))
}

// RotateExtrude sweeps 2D children around the z axis.
type RotateExtrude struct {
	Angle     float64
	Convexity int
}

// NewRotateExtrude returns a full-revolution RotateExtrude with the
// conventional convexity.
func NewRotateExtrude() RotateExtrude {
	return RotateExtrude{Angle: 360, Convexity: 10}
}

func (RotateExtrude) element() {}

func (e RotateExtrude) Code() string {
	return fmt.Sprintf("rotate_extrude(angle=%s,convexity=%s)",
		floatCode(e.Angle), intCode(e.Convexity))
}

// OffsetKind selects between offset's radius and delta modes.
type OffsetKind int

const (
	OffsetRadius OffsetKind = iota // rounded corners, r=
	OffsetDelta                    // straight corners, delta=
)

// Offset grows or shrinks the outline of its 2D children. Chamfer only
// applies to delta offsets.
type Offset struct {
	Kind    OffsetKind
	Value   float64
	Chamfer bool
}

func (Offset) element() {}

func (e Offset) Code() string {
	if e.Kind == OffsetDelta {
		return fmt.Sprintf("offset(delta=%s,chamfer=%s)",
			floatCode(e.Value), boolCode(e.Chamfer))
	}
	return fmt.Sprintf("offset(r=%s)", floatCode(e.Value))
}

// Projection flattens 3D children onto the xy plane. With Cut, only the
// cross-section at z=0 is kept.
type Projection struct {
	Cut bool
}

func (Projection) element() {}

func (e Projection) Code() string {
	return "projection(cut=" + boolCode(e.Cut) + ")"
}

// ---------------------------------------------------------------------------
// Boolean operations and grouping
// ---------------------------------------------------------------------------

// Union combines its children into one solid.
type Union struct{}

func (Union) element() {}

func (Union) Code() string { return "union()" }

// Difference subtracts all later children from the first.
type Difference struct{}

func (Difference) element() {}

func (Difference) Code() string { return "difference()" }

// Intersection keeps only the volume common to all children.
type Intersection struct{}

func (Intersection) element() {}

func (Intersection) Code() string { return "intersection()" }

// Hull wraps its children in their convex hull.
type Hull struct{}

func (Hull) element() {}

func (Hull) Code() string { return "hull()" }

// Minkowski combines its children by Minkowski sum.
type Minkowski struct{}

func (Minkowski) element() {}

func (Minkowski) Code() string { return "minkowski()" }

// ---------------------------------------------------------------------------
// Color
// ---------------------------------------------------------------------------

// Color tints its children with an RGB value, each channel in [0,1].
// Values are written verbatim; nothing is clamped.
type Color struct {
	RGB v3.Vec
}

func (Color) element() {}

func (e Color) Code() string {
	return "color(" + vec3Code(e.RGB) + ")"
}

// NamedColor tints its children with one of OpenSCAD's named colors.
type NamedColor struct {
	Name string
}

func (NamedColor) element() {}

func (e NamedColor) Code() string {
	return "color(" + strCode(e.Name) + ")"
}
