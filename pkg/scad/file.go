package scad

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Compile-time interface check.
var _ io.WriterTo = (*File)(nil)

// File collects top-level objects and document-wide settings and renders
// them as a complete OpenSCAD source file.
type File struct {
	objects []*Object
	detail  int
}

// NewFile creates an empty file.
func NewFile() *File {
	return &File{}
}

// SetDetail sets the $fn facet count emitted as the file's first line.
// Zero suppresses the header. The value is written verbatim.
func (f *File) SetDetail(detail int) {
	f.detail = detail
}

// Detail returns the current $fn setting.
func (f *File) Detail() int {
	return f.detail
}

// AddObject appends a top-level object. Objects render in the order they
// were added.
func (f *File) AddObject(o *Object) {
	f.objects = append(f.objects, o)
}

// Objects returns the top-level objects in insertion order.
func (f *File) Objects() []*Object {
	objects := make([]*Object, len(f.objects))
	copy(objects, f.objects)
	return objects
}

// Code renders the whole file: the optional $fn header, then each
// top-level object followed by a newline.
func (f *File) Code() string {
	var b strings.Builder
	if f.detail != 0 {
		fmt.Fprintf(&b, "$fn=%d;\n", f.detail)
	}
	for _, o := range f.objects {
		b.WriteString(o.Code())
		b.WriteString("\n")
	}
	return b.String()
}

// WriteTo writes the rendered file to w.
func (f *File) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, f.Code())
	return int64(n), err
}

// Save renders the file and writes it to path, creating or truncating it.
// I/O errors are returned untouched.
func (f *File) Save(path string) error {
	return os.WriteFile(path, []byte(f.Code()), 0644)
}
