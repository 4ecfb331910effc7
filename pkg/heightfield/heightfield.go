// Package heightfield turns raster images into OpenSCAD surface() data
// files. An image is decoded, optionally resampled to a target grid, and
// its luminance mapped onto a height range; the result is written in the
// .dat format surface(file=...) reads.
package heightfield

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"strconv"
	"strings"

	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
)

// Compile-time interface check.
var _ io.WriterTo = (*Field)(nil)

// Range maps luminance onto heights: a black pixel becomes Min, a white
// pixel Max. Min above Max is allowed and simply runs downhill.
type Range struct {
	Min float64
	Max float64
}

// Field is a rectangular grid of height samples in row-major order, with
// (0,0) the top-left corner as in image space.
type Field struct {
	cols    int
	rows    int
	samples []float64
}

// New returns a zero-filled field of the given dimensions.
func New(cols, rows int) *Field {
	return &Field{
		cols:    cols,
		rows:    rows,
		samples: make([]float64, cols*rows),
	}
}

// Cols returns the number of columns.
func (f *Field) Cols() int { return f.cols }

// Rows returns the number of rows.
func (f *Field) Rows() int { return f.rows }

// At returns the sample at column x, row y.
func (f *Field) At(x, y int) float64 {
	return f.samples[y*f.cols+x]
}

// Set stores a sample at column x, row y.
func (f *Field) Set(x, y int, h float64) {
	f.samples[y*f.cols+x] = h
}

// FromImage samples every pixel of img through r. Luminance uses the
// standard Gray16 conversion, so pure black and pure white map exactly
// onto Min and Max.
func FromImage(img image.Image, r Range) *Field {
	b := img.Bounds()
	f := New(b.Dx(), b.Dy())
	span := r.Max - r.Min
	for y := 0; y < f.rows; y++ {
		for x := 0; x < f.cols; x++ {
			c := color.Gray16Model.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray16)
			f.samples[y*f.cols+x] = r.Min + span*float64(c.Y)/65535
		}
	}
	return f
}

// Decode reads an image in any of the registered formats: PNG, JPEG, GIF,
// BMP, and TIFF.
func Decode(rd io.Reader) (image.Image, error) {
	img, _, err := image.Decode(rd)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// Scale resamples img onto a cols by rows grid with a Catmull-Rom kernel,
// preserving 16-bit channel depth.
func Scale(img image.Image, cols, rows int) image.Image {
	dst := image.NewRGBA64(image.Rect(0, 0, cols, rows))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Over, nil)
	return dst
}

// Read decodes an image from rd, resamples it to cols by rows when those
// differ from the source (0 keeps the source dimension), and maps it
// through r.
func Read(rd io.Reader, cols, rows int, r Range) (*Field, error) {
	img, err := Decode(rd)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	if cols <= 0 {
		cols = b.Dx()
	}
	if rows <= 0 {
		rows = b.Dy()
	}
	if cols != b.Dx() || rows != b.Dy() {
		img = Scale(img, cols, rows)
	}
	return FromImage(img, r), nil
}

// Load reads the image file at path through Read.
func Load(path string, cols, rows int, r Range) (*Field, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	f, err := Read(fh, cols, rows, r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Data renders the field in surface() .dat form: a # comment header, then
// one line per row of space-separated samples in minimal decimal form.
func (f *Field) Data() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %dx%d height field\n", f.cols, f.rows)
	for y := 0; y < f.rows; y++ {
		for x := 0; x < f.cols; x++ {
			if x > 0 {
				b.WriteString(" ")
			}
			b.WriteString(strconv.FormatFloat(f.At(x, y), 'f', -1, 64))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// WriteTo writes the rendered data to w.
func (f *Field) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, f.Data())
	return int64(n), err
}

// Save writes the rendered data to the file at path, creating or
// truncating it.
func (f *Field) Save(path string) error {
	return os.WriteFile(path, []byte(f.Data()), 0644)
}
