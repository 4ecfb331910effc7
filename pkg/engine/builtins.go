package engine

import (
	"fmt"
	"strings"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/scadgen/pkg/scad"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms design Lisp source code before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: linear-extrude -> linear_extrude
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// Check for keyword: colon followed by a letter.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpObject wraps a *scad.Object so trees can be passed between builtins.
type sexpObject struct {
	obj *scad.Object
}

func (o *sexpObject) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(object %s)", o.obj.Element().Code())
}
func (o *sexpObject) Type() *zygo.RegisteredType { return nil }

// sexpVec2 wraps a v2.Vec.
type sexpVec2 struct {
	vec v2.Vec
}

func (v *sexpVec2) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec2 %.1f %.1f)", v.vec.X, v.vec.Y)
}
func (v *sexpVec2) Type() *zygo.RegisteredType { return nil }

// sexpVec3 wraps a v3.Vec.
type sexpVec3 struct {
	vec v3.Vec
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %.1f %.1f %.1f)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value; treat as flag with nil.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toInt extracts an int from a SexpInt.
func toInt(s zygo.Sexp) (int, error) {
	if v, ok := s.(*zygo.SexpInt); ok {
		return int(v.Val), nil
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

// toBool extracts a bool from a SexpBool.
func toBool(s zygo.Sexp) (bool, error) {
	if v, ok := s.(*zygo.SexpBool); ok {
		return v.Val, nil
	}
	return false, fmt.Errorf("expected bool, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_center) and plain strings ("center").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], nil
	}
	return str.S, nil
}

// toVec2 extracts a v2.Vec from a sexpVec2.
func toVec2(s zygo.Sexp) (v2.Vec, error) {
	if v, ok := s.(*sexpVec2); ok {
		return v.vec, nil
	}
	return v2.Vec{}, fmt.Errorf("expected vec2, got %T (%s)", s, s.SexpString(nil))
}

// toVec3 extracts a v3.Vec from a sexpVec3.
func toVec3(s zygo.Sexp) (v3.Vec, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return v3.Vec{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// toObject extracts a *scad.Object from a sexpObject.
func toObject(s zygo.Sexp) (*scad.Object, error) {
	if o, ok := s.(*sexpObject); ok {
		return o.obj, nil
	}
	return nil, fmt.Errorf("expected object, got %T (%s)", s, s.SexpString(nil))
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// childObjects converts trailing positional arguments into child objects.
func childObjects(args []zygo.Sexp, ctx string) ([]*scad.Object, error) {
	children := make([]*scad.Object, 0, len(args))
	for i, a := range args {
		o, err := toObject(a)
		if err != nil {
			return nil, fmt.Errorf("%s: child %d: %w", ctx, i+1, err)
		}
		children = append(children, o)
	}
	return children, nil
}

// circleSizeKeys reads a radius-or-diameter pair from the keyword table.
// At most one of the two keys may be present; with neither, the size is a
// zero radius.
func circleSizeKeys(pa kwArgs, rKey, dKey, ctx string) (scad.CircleSize, error) {
	rv, hasR := pa.kw[rKey]
	dv, hasD := pa.kw[dKey]
	if hasR && hasD {
		return scad.CircleSize{}, fmt.Errorf("%s: specify :%s or :%s, not both", ctx, rKey, dKey)
	}
	if hasD {
		f, err := toFloat64(dv)
		if err != nil {
			return scad.CircleSize{}, fmt.Errorf("%s: %s: %w", ctx, dKey, err)
		}
		return scad.Diameter(f), nil
	}
	if hasR {
		f, err := toFloat64(rv)
		if err != nil {
			return scad.CircleSize{}, fmt.Errorf("%s: %s: %w", ctx, rKey, err)
		}
		return scad.Radius(f), nil
	}
	return scad.Radius(0), nil
}

func circleSize(pa kwArgs, ctx string) (scad.CircleSize, error) {
	return circleSizeKeys(pa, "r", "d", ctx)
}

// vec2List reads a list of vec2 values.
func vec2List(s zygo.Sexp, ctx string) ([]v2.Vec, error) {
	items, err := sexpListToSlice(s)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ctx, err)
	}
	points := make([]v2.Vec, 0, len(items))
	for i, item := range items {
		p, err := toVec2(item)
		if err != nil {
			return nil, fmt.Errorf("%s: entry %d: %w", ctx, i+1, err)
		}
		points = append(points, p)
	}
	return points, nil
}

// vec3List reads a list of vec3 values.
func vec3List(s zygo.Sexp, ctx string) ([]v3.Vec, error) {
	items, err := sexpListToSlice(s)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ctx, err)
	}
	points := make([]v3.Vec, 0, len(items))
	for i, item := range items {
		p, err := toVec3(item)
		if err != nil {
			return nil, fmt.Errorf("%s: entry %d: %w", ctx, i+1, err)
		}
		points = append(points, p)
	}
	return points, nil
}

// intListList reads a list of integer lists (faces, paths).
func intListList(s zygo.Sexp, ctx string) ([][]int, error) {
	rows, err := sexpListToSlice(s)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ctx, err)
	}
	lists := make([][]int, 0, len(rows))
	for i, row := range rows {
		cells, err := sexpListToSlice(row)
		if err != nil {
			return nil, fmt.Errorf("%s: entry %d: %w", ctx, i+1, err)
		}
		indices := make([]int, 0, len(cells))
		for j, c := range cells {
			n, err := toInt(c)
			if err != nil {
				return nil, fmt.Errorf("%s: entry %d, index %d: %w", ctx, i+1, j+1, err)
			}
			indices = append(indices, n)
		}
		lists = append(lists, indices)
	}
	return lists, nil
}

// toMatrix4 reads a 4x4 matrix from a list of four 4-element rows.
func toMatrix4(s zygo.Sexp, ctx string) (scad.Matrix4, error) {
	var m scad.Matrix4
	rows, err := sexpListToSlice(s)
	if err != nil {
		return m, fmt.Errorf("%s: %w", ctx, err)
	}
	if len(rows) != 4 {
		return m, fmt.Errorf("%s: expected 4 rows, got %d", ctx, len(rows))
	}
	for i, row := range rows {
		cells, err := sexpListToSlice(row)
		if err != nil {
			return m, fmt.Errorf("%s: row %d: %w", ctx, i+1, err)
		}
		if len(cells) != 4 {
			return m, fmt.Errorf("%s: row %d: expected 4 values, got %d", ctx, i+1, len(cells))
		}
		for j, c := range cells {
			f, err := toFloat64(c)
			if err != nil {
				return m, fmt.Errorf("%s: row %d, column %d: %w", ctx, i+1, j+1, err)
			}
			m[i][j] = f
		}
	}
	return m, nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerCombinator installs a builtin that wraps its positional child
// objects in elem, e.g. (union a b c).
func registerCombinator(env *zygo.Zlisp, fname string, elem scad.Element) {
	env.AddFunction(fname, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		children, err := childObjects(args, fname)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpObject{obj: scad.New(elem, children...)}, nil
	})
}

// registerModifier installs a builtin that applies a modifier to its single
// object argument and returns that same object, e.g. (important (union ...)).
func registerModifier(env *zygo.Zlisp, fname string, m scad.Modifier) {
	env.AddFunction(fname, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("%s requires exactly 1 object argument, got %d", fname, len(args))
		}
		o, err := toObject(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: %w", fname, err)
		}
		o.SetModifier(m)
		return args[0], nil
	})
}

// registerBuiltins installs all design DSL builtins into a zygomys environment.
// The builtins populate the provided File during evaluation: shape and
// transform forms build Objects, (detail n) and (emit ...) write to the file.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, file *scad.File) {

	// -----------------------------------------------------------------------
	// (vec2 3 5)
	// -----------------------------------------------------------------------
	env.AddFunction("vec2", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("vec2 requires exactly 2 arguments, got %d", len(args))
		}

		x, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec2: x: %w", err)
		}
		y, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec2: y: %w", err)
		}

		return &sexpVec2{vec: v2.Vec{X: x, Y: y}}, nil
	})

	// -----------------------------------------------------------------------
	// (vec3 1 2 3)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}

		x, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: x: %w", err)
		}
		y, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: y: %w", err)
		}
		z, err := toFloat64(args[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: z: %w", err)
		}

		return &sexpVec3{vec: v3.Vec{X: x, Y: y, Z: z}}, nil
	})

	// -----------------------------------------------------------------------
	// (cube :size (vec3 1 1 1))
	// -----------------------------------------------------------------------
	env.AddFunction("cube", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		var size v3.Vec

		if v, ok := pa.kw["size"]; ok {
			vec, err := toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("cube: size: %w", err)
			}
			size = vec
		}

		return &sexpObject{obj: scad.New(scad.Cube{Size: size})}, nil
	})

	// -----------------------------------------------------------------------
	// (sphere :r 5)  or  (sphere :d 10)
	// -----------------------------------------------------------------------
	env.AddFunction("sphere", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		size, err := circleSize(pa, "sphere")
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpObject{obj: scad.New(scad.Sphere{Size: size})}, nil
	})

	// -----------------------------------------------------------------------
	// (cylinder :h 10 :r 3)  or  (cylinder :h 10 :d 6)
	// -----------------------------------------------------------------------
	env.AddFunction("cylinder", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)

		var height float64
		if v, ok := pa.kw["h"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("cylinder: h: %w", err)
			}
			height = f
		}
		size, err := circleSize(pa, "cylinder")
		if err != nil {
			return zygo.SexpNull, err
		}

		return &sexpObject{obj: scad.New(scad.Cylinder{Height: height, Size: size})}, nil
	})

	// -----------------------------------------------------------------------
	// (cone :h 5 :r1 4 :r2 1)  with :d1/:d2 as diameter alternatives
	// -----------------------------------------------------------------------
	env.AddFunction("cone", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)

		var height float64
		if v, ok := pa.kw["h"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("cone: h: %w", err)
			}
			height = f
		}
		bottom, err := circleSizeKeys(pa, "r1", "d1", "cone")
		if err != nil {
			return zygo.SexpNull, err
		}
		top, err := circleSizeKeys(pa, "r2", "d2", "cone")
		if err != nil {
			return zygo.SexpNull, err
		}

		return &sexpObject{obj: scad.New(scad.Cone{Height: height, Bottom: bottom, Top: top})}, nil
	})

	// -----------------------------------------------------------------------
	// (polyhedron :points (list (vec3 ...) ...) :faces (list (list 0 1 2) ...))
	// -----------------------------------------------------------------------
	env.AddFunction("polyhedron", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		ph := scad.Polyhedron{}

		if v, ok := pa.kw["points"]; ok {
			points, err := vec3List(v, "polyhedron: points")
			if err != nil {
				return zygo.SexpNull, err
			}
			ph.Points = points
		}
		if v, ok := pa.kw["faces"]; ok {
			faces, err := intListList(v, "polyhedron: faces")
			if err != nil {
				return zygo.SexpNull, err
			}
			ph.Faces = faces
		}

		return &sexpObject{obj: scad.New(ph)}, nil
	})

	// -----------------------------------------------------------------------
	// (import :file "model.stl")
	// -----------------------------------------------------------------------
	env.AddFunction("import", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)

		v, ok := pa.kw["file"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("import requires a :file path")
		}
		path, err := toString(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("import: file: %w", err)
		}

		return &sexpObject{obj: scad.New(scad.Import{File: path})}, nil
	})

	// -----------------------------------------------------------------------
	// (surface :file "map.dat" :center true :invert false :convexity 5)
	// -----------------------------------------------------------------------
	env.AddFunction("surface", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		sf := scad.Surface{}

		v, ok := pa.kw["file"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("surface requires a :file path")
		}
		path, err := toString(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("surface: file: %w", err)
		}
		sf.File = path

		if v, ok := pa.kw["center"]; ok {
			b, err := toBool(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("surface: center: %w", err)
			}
			sf.Center = b
		}
		if v, ok := pa.kw["invert"]; ok {
			b, err := toBool(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("surface: invert: %w", err)
			}
			sf.Invert = b
		}
		if v, ok := pa.kw["convexity"]; ok {
			n, err := toInt(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("surface: convexity: %w", err)
			}
			sf.Convexity = n
		}

		return &sexpObject{obj: scad.New(sf)}, nil
	})

	// -----------------------------------------------------------------------
	// (square :size (vec2 3 5))
	// -----------------------------------------------------------------------
	env.AddFunction("square", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		var size v2.Vec

		if v, ok := pa.kw["size"]; ok {
			vec, err := toVec2(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("square: size: %w", err)
			}
			size = vec
		}

		return &sexpObject{obj: scad.New(scad.Square{Size: size})}, nil
	})

	// -----------------------------------------------------------------------
	// (circle :r 2)  or  (circle :d 4)
	// -----------------------------------------------------------------------
	env.AddFunction("circle", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		size, err := circleSize(pa, "circle")
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpObject{obj: scad.New(scad.Circle{Size: size})}, nil
	})

	// -----------------------------------------------------------------------
	// (polygon :points (list (vec2 ...) ...) :paths (list (list 0 1 2) ...))
	// -----------------------------------------------------------------------
	env.AddFunction("polygon", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		pg := scad.Polygon{}

		if v, ok := pa.kw["points"]; ok {
			points, err := vec2List(v, "polygon: points")
			if err != nil {
				return zygo.SexpNull, err
			}
			pg.Points = points
		}
		if v, ok := pa.kw["paths"]; ok {
			paths, err := intListList(v, "polygon: paths")
			if err != nil {
				return zygo.SexpNull, err
			}
			pg.Paths = paths
		}

		return &sexpObject{obj: scad.New(pg)}, nil
	})

	// -----------------------------------------------------------------------
	// (text :text "hello" :size 12 :font "Liberation Sans" :halign :center)
	// -----------------------------------------------------------------------
	env.AddFunction("text", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		tx := scad.Text{}

		v, ok := pa.kw["text"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("text requires a :text string")
		}
		s, err := toString(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("text: text: %w", err)
		}
		tx.Text = s

		if v, ok := pa.kw["size"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("text: size: %w", err)
			}
			tx.Size = f
		}
		if v, ok := pa.kw["font"]; ok {
			s, err := toString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("text: font: %w", err)
			}
			tx.Font = s
		}
		if v, ok := pa.kw["halign"]; ok {
			s, err := toKeywordString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("text: halign: %w", err)
			}
			tx.HAlign = s
		}
		if v, ok := pa.kw["valign"]; ok {
			s, err := toKeywordString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("text: valign: %w", err)
			}
			tx.VAlign = s
		}
		if v, ok := pa.kw["spacing"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("text: spacing: %w", err)
			}
			tx.Spacing = f
		}
		if v, ok := pa.kw["direction"]; ok {
			s, err := toKeywordString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("text: direction: %w", err)
			}
			tx.Direction = s
		}
		if v, ok := pa.kw["language"]; ok {
			s, err := toKeywordString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("text: language: %w", err)
			}
			tx.Language = s
		}
		if v, ok := pa.kw["script"]; ok {
			s, err := toKeywordString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("text: script: %w", err)
			}
			tx.Script = s
		}

		return &sexpObject{obj: scad.New(tx)}, nil
	})

	// -----------------------------------------------------------------------
	// (translate :by (vec3 0 0 19) child ...)
	// A vec2 :by produces the 2D form.
	// -----------------------------------------------------------------------
	env.AddFunction("translate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		children, err := childObjects(pa.positional, "translate")
		if err != nil {
			return zygo.SexpNull, err
		}

		v, ok := pa.kw["by"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("translate requires a :by vector")
		}
		var elem scad.Element
		switch vec := v.(type) {
		case *sexpVec3:
			elem = scad.Translate{V: vec.vec}
		case *sexpVec2:
			elem = scad.Translate2D{V: vec.vec}
		default:
			return zygo.SexpNull, fmt.Errorf("translate: by: expected vec2 or vec3, got %T (%s)", v, v.SexpString(nil))
		}

		return &sexpObject{obj: scad.New(elem, children...)}, nil
	})

	// -----------------------------------------------------------------------
	// (scale :by (vec3 2 1 1) child ...)
	// A vec2 :by produces the 2D form.
	// -----------------------------------------------------------------------
	env.AddFunction("scale", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		children, err := childObjects(pa.positional, "scale")
		if err != nil {
			return zygo.SexpNull, err
		}

		v, ok := pa.kw["by"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("scale requires a :by vector")
		}
		var elem scad.Element
		switch vec := v.(type) {
		case *sexpVec3:
			elem = scad.Scale{V: vec.vec}
		case *sexpVec2:
			elem = scad.Scale2D{V: vec.vec}
		default:
			return zygo.SexpNull, fmt.Errorf("scale: by: expected vec2 or vec3, got %T (%s)", v, v.SexpString(nil))
		}

		return &sexpObject{obj: scad.New(elem, children...)}, nil
	})

	// -----------------------------------------------------------------------
	// (rotate :angles (vec3 90 0 45) child ...)   Euler form
	// (rotate :angle 45 :axis (vec3 0 0 1) ...)   axis form
	// (rotate :angle 30 ...)                      2D form
	// -----------------------------------------------------------------------
	env.AddFunction("rotate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		children, err := childObjects(pa.positional, "rotate")
		if err != nil {
			return zygo.SexpNull, err
		}

		var elem scad.Element
		if v, ok := pa.kw["angles"]; ok {
			vec, err := toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("rotate: angles: %w", err)
			}
			elem = scad.Rotate{Angles: vec}
		} else if v, ok := pa.kw["angle"]; ok {
			a, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("rotate: angle: %w", err)
			}
			if av, ok := pa.kw["axis"]; ok {
				axis, err := toVec3(av)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("rotate: axis: %w", err)
				}
				elem = scad.RotateAxis{Angle: a, Axis: axis}
			} else {
				elem = scad.Rotate2D{Angle: a}
			}
		} else {
			return zygo.SexpNull, fmt.Errorf("rotate requires :angles or :angle")
		}

		return &sexpObject{obj: scad.New(elem, children...)}, nil
	})

	// -----------------------------------------------------------------------
	// (mirror :by (vec3 1 0 0) child ...)
	// -----------------------------------------------------------------------
	env.AddFunction("mirror", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		children, err := childObjects(pa.positional, "mirror")
		if err != nil {
			return zygo.SexpNull, err
		}

		v, ok := pa.kw["by"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("mirror requires a :by normal vector")
		}
		vec, err := toVec3(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("mirror: by: %w", err)
		}

		return &sexpObject{obj: scad.New(scad.Mirror{V: vec}, children...)}, nil
	})

	// -----------------------------------------------------------------------
	// (multmatrix :m (list (list 1 0 0 5) (list 0 1 0 0)
	//                      (list 0 0 1 0) (list 0 0 0 1)) child ...)
	// -----------------------------------------------------------------------
	env.AddFunction("multmatrix", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		children, err := childObjects(pa.positional, "multmatrix")
		if err != nil {
			return zygo.SexpNull, err
		}

		v, ok := pa.kw["m"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("multmatrix requires an :m matrix")
		}
		m, err := toMatrix4(v, "multmatrix: m")
		if err != nil {
			return zygo.SexpNull, err
		}

		return &sexpObject{obj: scad.New(scad.MultMatrix{M: m}, children...)}, nil
	})

	// -----------------------------------------------------------------------
	// (linear-extrude :height 4 :twist 180 child ...)
	//
	// Note: registered as "linear_extrude" because zygomys does not support
	// hyphens in identifiers. The preprocessor converts linear-extrude to
	// linear_extrude in the source.
	// -----------------------------------------------------------------------
	env.AddFunction("linear_extrude", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		children, err := childObjects(pa.positional, "linear-extrude")
		if err != nil {
			return zygo.SexpNull, err
		}

		le := scad.NewLinearExtrude(1)
		if v, ok := pa.kw["height"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("linear-extrude: height: %w", err)
			}
			le.Height = f
		}
		if v, ok := pa.kw["center"]; ok {
			b, err := toBool(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("linear-extrude: center: %w", err)
			}
			le.Center = b
		}
		if v, ok := pa.kw["convexity"]; ok {
			n, err := toInt(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("linear-extrude: convexity: %w", err)
			}
			le.Convexity = n
		}
		if v, ok := pa.kw["twist"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("linear-extrude: twist: %w", err)
			}
			le.Twist = f
		}
		if v, ok := pa.kw["slices"]; ok {
			n, err := toInt(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("linear-extrude: slices: %w", err)
			}
			le.Slices = n
		}

		return &sexpObject{obj: scad.New(le, children...)}, nil
	})

	// -----------------------------------------------------------------------
	// (rotate-extrude :angle 90 child ...)
	//
	// Registered as "rotate_extrude"; see linear_extrude.
	// -----------------------------------------------------------------------
	env.AddFunction("rotate_extrude", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		children, err := childObjects(pa.positional, "rotate-extrude")
		if err != nil {
			return zygo.SexpNull, err
		}

		re := scad.NewRotateExtrude()
		if v, ok := pa.kw["angle"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("rotate-extrude: angle: %w", err)
			}
			re.Angle = f
		}
		if v, ok := pa.kw["convexity"]; ok {
			n, err := toInt(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("rotate-extrude: convexity: %w", err)
			}
			re.Convexity = n
		}

		return &sexpObject{obj: scad.New(re, children...)}, nil
	})

	// -----------------------------------------------------------------------
	// (offset :r 2 child ...)  or  (offset :delta 1.5 :chamfer true child ...)
	// -----------------------------------------------------------------------
	env.AddFunction("offset", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		children, err := childObjects(pa.positional, "offset")
		if err != nil {
			return zygo.SexpNull, err
		}

		rv, hasR := pa.kw["r"]
		dv, hasD := pa.kw["delta"]
		if hasR && hasD {
			return zygo.SexpNull, fmt.Errorf("offset: specify :r or :delta, not both")
		}

		var off scad.Offset
		switch {
		case hasR:
			f, err := toFloat64(rv)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("offset: r: %w", err)
			}
			off = scad.Offset{Kind: scad.OffsetRadius, Value: f}
		case hasD:
			f, err := toFloat64(dv)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("offset: delta: %w", err)
			}
			off = scad.Offset{Kind: scad.OffsetDelta, Value: f}
			if cv, ok := pa.kw["chamfer"]; ok {
				b, err := toBool(cv)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("offset: chamfer: %w", err)
				}
				off.Chamfer = b
			}
		default:
			return zygo.SexpNull, fmt.Errorf("offset requires :r or :delta")
		}

		return &sexpObject{obj: scad.New(off, children...)}, nil
	})

	// -----------------------------------------------------------------------
	// (projection :cut true child ...)
	// -----------------------------------------------------------------------
	env.AddFunction("projection", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		children, err := childObjects(pa.positional, "projection")
		if err != nil {
			return zygo.SexpNull, err
		}

		pr := scad.Projection{}
		if v, ok := pa.kw["cut"]; ok {
			b, err := toBool(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("projection: cut: %w", err)
			}
			pr.Cut = b
		}

		return &sexpObject{obj: scad.New(pr, children...)}, nil
	})

	// -----------------------------------------------------------------------
	// (color :rgb (vec3 1 0 0) child ...)  or  (color :name "red" child ...)
	// -----------------------------------------------------------------------
	env.AddFunction("color", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		children, err := childObjects(pa.positional, "color")
		if err != nil {
			return zygo.SexpNull, err
		}

		rv, hasRGB := pa.kw["rgb"]
		nv, hasName := pa.kw["name"]
		if hasRGB && hasName {
			return zygo.SexpNull, fmt.Errorf("color: specify :rgb or :name, not both")
		}

		var elem scad.Element
		switch {
		case hasRGB:
			vec, err := toVec3(rv)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("color: rgb: %w", err)
			}
			elem = scad.Color{RGB: vec}
		case hasName:
			s, err := toKeywordString(nv)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("color: name: %w", err)
			}
			elem = scad.NamedColor{Name: s}
		default:
			return zygo.SexpNull, fmt.Errorf("color requires :rgb or :name")
		}

		return &sexpObject{obj: scad.New(elem, children...)}, nil
	})

	// -----------------------------------------------------------------------
	// Boolean combinators: (union a b ...), (difference a b ...), ...
	// -----------------------------------------------------------------------
	registerCombinator(env, "union", scad.Union{})
	registerCombinator(env, "difference", scad.Difference{})
	registerCombinator(env, "intersection", scad.Intersection{})
	registerCombinator(env, "hull", scad.Hull{})
	registerCombinator(env, "minkowski", scad.Minkowski{})

	// -----------------------------------------------------------------------
	// Modifiers: (important o), (highlight o), (transparent o), (disable o)
	// -----------------------------------------------------------------------
	registerModifier(env, "important", scad.ModifierImportant)
	registerModifier(env, "highlight", scad.ModifierHighlighted)
	registerModifier(env, "transparent", scad.ModifierTransparent)
	registerModifier(env, "disable", scad.ModifierDisabled)

	// -----------------------------------------------------------------------
	// (detail 30)
	// -----------------------------------------------------------------------
	env.AddFunction("detail", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("detail requires exactly 1 argument, got %d", len(args))
		}
		n, err := toInt(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("detail: %w", err)
		}
		file.SetDetail(n)
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (emit obj ...)
	// -----------------------------------------------------------------------
	env.AddFunction("emit", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		objects, err := childObjects(args, "emit")
		if err != nil {
			return zygo.SexpNull, err
		}
		for _, o := range objects {
			file.AddObject(o)
		}
		return zygo.SexpNull, nil
	})
}
