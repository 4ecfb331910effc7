// Command scadgen evaluates a design source file and writes the resulting
// OpenSCAD code.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/chazu/scadgen/pkg/engine"
)

func main() {
	var (
		inPath  = flag.String("in", "", "Design source file (Lisp).")
		outPath = flag.String("out", "", "Output .scad file; stdout when empty.")
		fn      = flag.Int("fn", 0, "Override the $fn detail level (0 keeps the source's setting).")
	)
	flag.Parse()

	if *inPath == "" {
		fatalf("usage: scadgen -in design.lisp [-out out.scad] [-fn N]")
	}

	source, err := os.ReadFile(*inPath)
	if err != nil {
		fatalf("read %q: %v", *inPath, err)
	}

	file, evalErrs, err := engine.NewEngine().Evaluate(string(source))
	if err != nil {
		fatalf("evaluate %q: %v", *inPath, err)
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			fmt.Fprintf(os.Stderr, "%s: %s\n", *inPath, e.Error())
		}
		os.Exit(1)
	}

	if *fn > 0 {
		file.SetDetail(*fn)
	}

	if *outPath == "" {
		if _, err := file.WriteTo(os.Stdout); err != nil {
			fatalf("write stdout: %v", err)
		}
		return
	}
	if err := file.Save(*outPath); err != nil {
		fatalf("write %q: %v", *outPath, err)
	}
}

func fatalf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(2)
}
