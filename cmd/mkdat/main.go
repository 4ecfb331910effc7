// Command mkdat converts a raster image into an OpenSCAD surface() .dat
// file, mapping pixel luminance onto a height range.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/chazu/scadgen/pkg/heightfield"
)

func main() {
	var (
		inPath  = flag.String("in", "", "Input image (png, jpeg, gif, bmp, tiff).")
		outPath = flag.String("out", "", "Output .dat file; stdout when empty.")
		cols    = flag.Int("cols", 0, "Resample to this many columns (0 keeps the image width).")
		rows    = flag.Int("rows", 0, "Resample to this many rows (0 keeps the image height).")
		minH    = flag.Float64("min", 0, "Height of a black pixel.")
		maxH    = flag.Float64("max", 10, "Height of a white pixel.")
	)
	flag.Parse()

	if *inPath == "" {
		fatalf("usage: mkdat -in relief.png [-out relief.dat] [-cols N] [-rows N] [-min H] [-max H]")
	}

	field, err := heightfield.Load(*inPath, *cols, *rows, heightfield.Range{Min: *minH, Max: *maxH})
	if err != nil {
		fatalf("load %q: %v", *inPath, err)
	}

	if *outPath == "" {
		if _, err := field.WriteTo(os.Stdout); err != nil {
			fatalf("write stdout: %v", err)
		}
		return
	}
	if err := field.Save(*outPath); err != nil {
		fatalf("write %q: %v", *outPath, err)
	}
}

func fatalf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(2)
}
