// Package dag holds the dependency graph between rule edges. A node is an
// edge ID; an arc from a producer to a consumer means the consumer reads one
// of the producer's outputs.
package dag
