// Package target maps the user-selectable target names to the concrete set of
// output paths that must exist for the target to be satisfied.
//
// The vocabulary is fixed. Each Target variant carries its own resolution
// strategy; the Resolver only looks the name up and unions the results.
// Resolution is pure: it reads the immutable sample registry, treatment
// groups and stage catalog, and returns a freshly allocated OutputSet, so a
// Resolver may be shared between goroutines.
package target
