// Package rules assembles the rule edges handed to the executor. An edge
// names its input and output paths, an opaque action and an optional log
// file. Edges are built once per run from the sample registry and the
// validated comparisons; Closure then selects the edges needed to produce a
// resolved output set.
//
// Every edge is immutable once built and may be read from many executor
// workers at the same time.
package rules
