package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// Preprocessing tests
// ---------------------------------------------------------------------------

func TestPreprocessKeywords(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "simple keyword",
			input:  `(sphere :r 5)`,
			expect: `(sphere "__kw_r" 5)`,
		},
		{
			name:   "multiple keywords",
			input:  `(cylinder :h 10 :r 3)`,
			expect: `(cylinder "__kw_h" 10 "__kw_r" 3)`,
		},
		{
			name:   "keyword in string preserved",
			input:  `"thing with :keyword inside"`,
			expect: `"thing with :keyword inside"`,
		},
		{
			name:   "assignment operator preserved",
			input:  `(def x := 10)`,
			expect: `(def x := 10)`,
		},
		{
			name:   "kebab-case identifier",
			input:  `(linear-extrude :height 4)`,
			expect: `(linear_extrude "__kw_height" 4)`,
		},
		{
			name:   "minus operator preserved",
			input:  `(- 10 5)`,
			expect: `(- 10 5)`,
		},
		{
			name:   "comment converted to // style",
			input:  `;; comment with :keyword`,
			expect: `// comment with :keyword`,
		},
		{
			name:   "single semicolon comment",
			input:  `; simple comment`,
			expect: `// simple comment`,
		},
		{
			name:   "hyphen in keyword preserved",
			input:  `:line-width`,
			expect: `"__kw_line-width"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expect, preprocessSource(tt.input))
		})
	}
}

// ---------------------------------------------------------------------------
// Evaluation helpers
// ---------------------------------------------------------------------------

// evalCode evaluates source and returns the rendered file, failing the test
// on any error.
func evalCode(t *testing.T, source string) string {
	t.Helper()
	eng := NewEngine()
	f, evalErrs, err := eng.Evaluate(source)
	require.NoError(t, err)
	require.Empty(t, evalErrs)
	require.NotNil(t, f)
	return f.Code()
}

// evalFails evaluates source and asserts it produced eval errors.
func evalFails(t *testing.T, source string) []EvalError {
	t.Helper()
	eng := NewEngine()
	f, evalErrs, err := eng.Evaluate(source)
	require.NoError(t, err)
	require.Nil(t, f)
	require.NotEmpty(t, evalErrs)
	return evalErrs
}

// ---------------------------------------------------------------------------
// Primitive tests
// ---------------------------------------------------------------------------

func TestPrimitiveForms(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{
			name:   "cube",
			source: `(emit (cube :size (vec3 1 1 1)))`,
			want:   "cube([1,1,1]);\n",
		},
		{
			name:   "sphere radius",
			source: `(emit (sphere :r 5))`,
			want:   "sphere(r=5);\n",
		},
		{
			name:   "sphere diameter",
			source: `(emit (sphere :d 10))`,
			want:   "sphere(d=10);\n",
		},
		{
			name:   "cylinder",
			source: `(emit (cylinder :h 10 :d 6))`,
			want:   "cylinder(h=10,d=6);\n",
		},
		{
			name:   "cone with radii",
			source: `(emit (cone :h 5 :r1 4 :r2 1.5))`,
			want:   "cylinder(h=5,r1=4,r2=1.5);\n",
		},
		{
			name:   "cone with diameters",
			source: `(emit (cone :h 5 :d1 8 :d2 2))`,
			want:   "cylinder(h=5,d1=8,d2=2);\n",
		},
		{
			name:   "square",
			source: `(emit (square :size (vec2 3 5)))`,
			want:   "square([3,5]);\n",
		},
		{
			name:   "circle",
			source: `(emit (circle :r 2.5))`,
			want:   "circle(r=2.5);\n",
		},
		{
			name:   "polygon",
			source: `(emit (polygon :points (list (vec2 0 0) (vec2 1 0) (vec2 0 1))))`,
			want:   "polygon(points=[[0,0],[1,0],[0,1]]);\n",
		},
		{
			name:   "polygon with paths",
			source: `(emit (polygon :points (list (vec2 0 0) (vec2 4 0) (vec2 4 4) (vec2 0 4)) :paths (list (list 0 1 2 3))))`,
			want:   "polygon(points=[[0,0],[4,0],[4,4],[0,4]],paths=[[0,1,2,3]]);\n",
		},
		{
			name:   "polyhedron",
			source: `(emit (polyhedron :points (list (vec3 0 0 0) (vec3 1 0 0) (vec3 0 1 0) (vec3 0 0 1)) :faces (list (list 0 1 2) (list 0 1 3) (list 1 2 3) (list 0 2 3))))`,
			want:   "polyhedron(points=[[0,0,0],[1,0,0],[0,1,0],[0,0,1]],faces=[[0,1,2],[0,1,3],[1,2,3],[0,2,3]]);\n",
		},
		{
			name:   "import",
			source: `(emit (import :file "model.stl"))`,
			want:   "import(\"model.stl\");\n",
		},
		{
			name:   "surface",
			source: `(emit (surface :file "map.dat" :center true :convexity 5))`,
			want:   "surface(file=\"map.dat\",center=true,invert=false,convexity=5);\n",
		},
		{
			name:   "text with keyword alignment",
			source: `(emit (text :text "hello" :size 12 :halign :center))`,
			want:   "text(\"hello\",size=12,halign=\"center\");\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, evalCode(t, tt.source))
		})
	}
}

// ---------------------------------------------------------------------------
// Transform tests
// ---------------------------------------------------------------------------

func TestTranslateBuildsTree(t *testing.T) {
	got := evalCode(t, `(emit (translate :by (vec3 0 0 0) (cube :size (vec3 1 1 1))))`)
	require.Equal(t, "translate([0,0,0])\n{\n\tcube([1,1,1]);\n}\n", got)
}

func TestTranslateTwoDimensional(t *testing.T) {
	got := evalCode(t, `(emit (translate :by (vec2 1 2) (circle :r 3)))`)
	require.Equal(t, "translate([1,2])\n{\n\tcircle(r=3);\n}\n", got)
}

func TestRotateForms(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{
			name:   "euler angles",
			source: `(emit (rotate :angles (vec3 90 0 45) (cube :size (vec3 1 1 1))))`,
			want:   "rotate([90,0,45])\n{\n\tcube([1,1,1]);\n}\n",
		},
		{
			name:   "angle around axis",
			source: `(emit (rotate :angle 45 :axis (vec3 0 0 1) (cube :size (vec3 1 1 1))))`,
			want:   "rotate(45,[0,0,1])\n{\n\tcube([1,1,1]);\n}\n",
		},
		{
			name:   "planar angle",
			source: `(emit (rotate :angle 30 (square :size (vec2 2 2))))`,
			want:   "rotate(30)\n{\n\tsquare([2,2]);\n}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, evalCode(t, tt.source))
		})
	}
}

func TestScaleAndMirror(t *testing.T) {
	got := evalCode(t, `(emit (scale :by (vec3 2 1 1) (mirror :by (vec3 1 0 0) (sphere :r 4))))`)
	require.Equal(t, "scale([2,1,1])\n{\n\tmirror([1,0,0])\n\t{\n\t\tsphere(r=4);\n\t}\n}\n", got)
}

func TestMultMatrix(t *testing.T) {
	source := `
(emit (multmatrix
        :m (list (list 1 0 0 5)
                 (list 0 1 0 0)
                 (list 0 0 1 0)
                 (list 0 0 0 1))
        (cube :size (vec3 1 1 1))))
`
	got := evalCode(t, source)
	require.Equal(t, "multmatrix([[1,0,0,5],[0,1,0,0],[0,0,1,0],[0,0,0,1]])\n{\n\tcube([1,1,1]);\n}\n", got)
}

func TestLinearExtrude(t *testing.T) {
	got := evalCode(t, `(emit (linear-extrude :height 4 :twist 180 (square :size (vec2 3 5))))`)
	require.Equal(t,
		"linear_extrude(height=4,center=true,convexity=10,twist=180,slices=20)\n{\n\tsquare([3,5]);\n}\n",
		got)
}

func TestRotateExtrude(t *testing.T) {
	got := evalCode(t, `(emit (rotate-extrude :angle 90 (translate :by (vec2 2 0) (circle :r 1))))`)
	require.Equal(t,
		"rotate_extrude(angle=90,convexity=10)\n{\n\ttranslate([2,0])\n\t{\n\t\tcircle(r=1);\n\t}\n}\n",
		got)
}

func TestOffsetForms(t *testing.T) {
	got := evalCode(t, `(emit (offset :r 2 (square :size (vec2 10 10))))`)
	require.Equal(t, "offset(r=2)\n{\n\tsquare([10,10]);\n}\n", got)

	got = evalCode(t, `(emit (offset :delta 1.5 :chamfer true (square :size (vec2 10 10))))`)
	require.Equal(t, "offset(delta=1.5,chamfer=true)\n{\n\tsquare([10,10]);\n}\n", got)
}

func TestProjection(t *testing.T) {
	got := evalCode(t, `(emit (projection :cut true (cube :size (vec3 5 5 5))))`)
	require.Equal(t, "projection(cut=true)\n{\n\tcube([5,5,5]);\n}\n", got)
}

func TestColorForms(t *testing.T) {
	got := evalCode(t, `(emit (color :rgb (vec3 1 0 0) (sphere :r 1)))`)
	require.Equal(t, "color([1,0,0])\n{\n\tsphere(r=1);\n}\n", got)

	got = evalCode(t, `(emit (color :name :red (sphere :r 1)))`)
	require.Equal(t, "color(\"red\")\n{\n\tsphere(r=1);\n}\n", got)

	got = evalCode(t, `(emit (color :name "dodgerblue" (sphere :r 1)))`)
	require.Equal(t, "color(\"dodgerblue\")\n{\n\tsphere(r=1);\n}\n", got)
}

// ---------------------------------------------------------------------------
// Boolean operation tests
// ---------------------------------------------------------------------------

func TestBooleanOperations(t *testing.T) {
	got := evalCode(t, `(emit (difference (cube :size (vec3 2 2 2)) (sphere :r 1)))`)
	require.Equal(t, "difference()\n{\n\tcube([2,2,2]);\n\tsphere(r=1);\n}\n", got)

	got = evalCode(t, `(emit (hull (cube :size (vec3 1 1 1)) (sphere :r 2)))`)
	require.Equal(t, "hull()\n{\n\tcube([1,1,1]);\n\tsphere(r=2);\n}\n", got)

	got = evalCode(t, `(emit (minkowski (square :size (vec2 4 4)) (circle :r 1)))`)
	require.Equal(t, "minkowski()\n{\n\tsquare([4,4]);\n\tcircle(r=1);\n}\n", got)
}

// ---------------------------------------------------------------------------
// Modifier tests
// ---------------------------------------------------------------------------

func TestModifierForms(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{
			name:   "important",
			source: `(emit (important (translate :by (vec3 0 0 0) (cube :size (vec3 1 1 1)))))`,
			want:   "!translate([0,0,0])\n{\n\tcube([1,1,1]);\n}\n",
		},
		{
			name:   "highlight",
			source: `(emit (highlight (sphere :r 3)))`,
			want:   "#sphere(r=3);\n",
		},
		{
			name:   "transparent",
			source: `(emit (transparent (sphere :r 3)))`,
			want:   "%sphere(r=3);\n",
		},
		{
			name:   "disable leaves text unchanged",
			source: `(emit (disable (sphere :r 3)))`,
			want:   "sphere(r=3);\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, evalCode(t, tt.source))
		})
	}
}

// ---------------------------------------------------------------------------
// Document tests
// ---------------------------------------------------------------------------

func TestDetailAndEmit(t *testing.T) {
	got := evalCode(t, "(detail 30)\n(emit (union) (difference))")
	require.Equal(t, "$fn=30;\nunion();\ndifference();\n", got)
}

func TestEmitAccumulatesInOrder(t *testing.T) {
	source := `
(emit (cube :size (vec3 1 1 1)))
(emit (sphere :r 2))
(emit (cylinder :h 3 :r 1))
`
	got := evalCode(t, source)
	require.Equal(t, "cube([1,1,1]);\nsphere(r=2);\ncylinder(h=3,r=1);\n", got)
}

func TestVariableReference(t *testing.T) {
	source := `
(def radius 7)
(emit (sphere :r radius))
`
	got := evalCode(t, source)
	require.Equal(t, "sphere(r=7);\n", got)
}

// ---------------------------------------------------------------------------
// Error tests
// ---------------------------------------------------------------------------

func TestChildTypeError(t *testing.T) {
	evalErrs := evalFails(t, `(emit (translate :by (vec3 0 0 0) 42))`)
	require.NotEmpty(t, evalErrs[0].Message)
}

func TestMissingRequiredArgument(t *testing.T) {
	evalFails(t, `(emit (translate (cube :size (vec3 1 1 1))))`)
	evalFails(t, `(emit (rotate (cube :size (vec3 1 1 1))))`)
	evalFails(t, `(emit (offset (square :size (vec2 1 1))))`)
}

func TestConflictingSizeArguments(t *testing.T) {
	evalFails(t, `(emit (sphere :r 2 :d 4))`)
	evalFails(t, `(emit (offset :r 1 :delta 2 (square :size (vec2 1 1))))`)
	evalFails(t, `(emit (color :rgb (vec3 1 0 0) :name "red" (sphere :r 1)))`)
}

func TestVectorArityError(t *testing.T) {
	evalFails(t, `(vec3 1 2)`)
	evalFails(t, `(vec2 1 2 3)`)
}

// ---------------------------------------------------------------------------
// Full model test
// ---------------------------------------------------------------------------

func TestFullModel(t *testing.T) {
	source := `
(detail 40)
(def wall 2)

(def body
  (difference
    (cube :size (vec3 30 20 10))
    (translate :by (vec3 wall wall wall)
      (cube :size (vec3 26 16 10)))))

(emit body)
(emit (translate :by (vec3 0 0 19)
        (rotate :angles (vec3 0 180 0)
          (cylinder :h 8 :r 3))))
`
	want := "$fn=40;\n" +
		"difference()\n{\n\tcube([30,20,10]);\n\ttranslate([2,2,2])\n\t{\n\t\tcube([26,16,10]);\n\t}\n}\n" +
		"translate([0,0,19])\n{\n\trotate([0,180,0])\n\t{\n\t\tcylinder(h=8,r=3);\n\t}\n}\n"
	require.Equal(t, want, evalCode(t, source))
}
