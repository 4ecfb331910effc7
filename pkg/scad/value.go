package scad

import (
	"strconv"
	"strings"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
	mt "github.com/rustyoz/Mtransform"
)

// ---------------------------------------------------------------------------
// Scalar rendering
// ---------------------------------------------------------------------------

// floatCode renders a float in minimal form: the fewest digits that round-trip,
// no exponent notation, integral values without a decimal point.
func floatCode(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func intCode(i int) string {
	return strconv.Itoa(i)
}

func boolCode(b bool) string {
	return strconv.FormatBool(b)
}

// strCode renders a quoted string literal. Go's escapes are a subset OpenSCAD
// also accepts (\", \\, \n, \t).
func strCode(s string) string {
	return strconv.Quote(s)
}

// ---------------------------------------------------------------------------
// Vector rendering
// ---------------------------------------------------------------------------

func vec2Code(v v2.Vec) string {
	return "[" + floatCode(v.X) + "," + floatCode(v.Y) + "]"
}

func vec3Code(v v3.Vec) string {
	return "[" + floatCode(v.X) + "," + floatCode(v.Y) + "," + floatCode(v.Z) + "]"
}

func vec2ListCode(vs []v2.Vec) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = vec2Code(v)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

func vec3ListCode(vs []v3.Vec) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = vec3Code(v)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

func intListCode(is []int) string {
	parts := make([]string, len(is))
	for i, n := range is {
		parts[i] = intCode(n)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

func intListListCode(lists [][]int) string {
	parts := make([]string, len(lists))
	for i, l := range lists {
		parts[i] = intListCode(l)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// ---------------------------------------------------------------------------
// Circular dimensions
// ---------------------------------------------------------------------------

// CircleSize expresses a circular dimension as either a radius or a diameter,
// matching OpenSCAD's r=/d= parameter pair. The zero value is a zero radius.
type CircleSize struct {
	value    float64
	diameter bool
}

// Radius returns a CircleSize rendered as r=<value>.
func Radius(r float64) CircleSize {
	return CircleSize{value: r}
}

// Diameter returns a CircleSize rendered as d=<value>.
func Diameter(d float64) CircleSize {
	return CircleSize{value: d, diameter: true}
}

// arg renders the size as a keyword argument. suffix distinguishes numbered
// pairs such as r1=/r2= on cones.
func (c CircleSize) arg(suffix string) string {
	if c.diameter {
		return "d" + suffix + "=" + floatCode(c.value)
	}
	return "r" + suffix + "=" + floatCode(c.value)
}

// ---------------------------------------------------------------------------
// Matrices
// ---------------------------------------------------------------------------

// Matrix4 is a row-major 4x4 transformation matrix, the payload of a
// multmatrix block. Translation lives in the last column.
type Matrix4 [4][4]float64

// Identity4 returns the identity matrix.
func Identity4() Matrix4 {
	var m Matrix4
	m[0][0] = 1
	m[1][1] = 1
	m[2][2] = 1
	m[3][3] = 1
	return m
}

// AffineMatrix embeds a planar affine transform into a Matrix4, leaving the
// z axis untouched. Mtransform and multmatrix share the row-major,
// translation-in-last-column convention, so entries carry over directly.
func AffineMatrix(t *mt.Transform) Matrix4 {
	m := Identity4()
	m[0][0], m[0][1], m[0][3] = t[0][0], t[0][1], t[0][2]
	m[1][0], m[1][1], m[1][3] = t[1][0], t[1][1], t[1][2]
	return m
}

func (m Matrix4) code() string {
	rows := make([]string, len(m))
	for i, row := range m {
		cells := make([]string, len(row))
		for j, c := range row {
			cells[j] = floatCode(c)
		}
		rows[i] = "[" + strings.Join(cells, ",") + "]"
	}
	return "[" + strings.Join(rows, ",") + "]"
}
