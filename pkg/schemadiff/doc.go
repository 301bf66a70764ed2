// Package schemadiff compares two captured database object sets and produces
// a typed list of differences, plus the coarse safety ordering applied before
// dependency analysis.
//
// Comparison is map-keyed on object identity: a key present only in the
// source set is Removed, only in the target set is Added, and present in both
// with differing attributes is Modified. Strict mode compares definition,
// owner, and size exactly; lenient mode compares only the definition after
// normalizing formatting. Schema and object-type filters run before
// comparison, and known system schemas are excluded unless explicitly
// included.
package schemadiff
