// Package config defines the format-agnostic configuration model for the
// pipeline planner, along with the Loader interface implemented by the HCL
// and YAML front ends.
//
// The config.Model is the single source of truth for sample registry
// construction, target resolution and rule assembly. Concrete loaders live in
// separate packages and only translate their format into this model.
package config
