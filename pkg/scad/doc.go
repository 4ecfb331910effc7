// Package scad builds OpenSCAD source code from an in-memory object tree.
// Callers assemble Objects (a drawable element plus ordered children and an
// optional debug modifier), collect them in a File, and render the whole
// tree to OpenSCAD text. Generation is one-way: nothing here parses SCAD.
package scad
