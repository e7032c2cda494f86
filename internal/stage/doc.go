// Package stage holds the fixed catalog of processing stages and the naming
// functions that map a stage and a sample (or a treatment comparison) to the
// concrete paths the stage produces.
//
// Every path is relative to the run's output directory. Names are a pure
// function of their arguments: the executor decides staleness by comparing
// modification times of these exact paths, so two calls with the same input
// must always agree, and two different (stage, subject) pairs must never
// produce the same path.
package stage
