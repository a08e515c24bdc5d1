// Package config defines the format-agnostic task definition model along with
// the Loader interface implemented by the format-specific adapters.
//
// The config.Model is the single source of truth for the dag, scheduler and
// executor packages. Concrete loaders for HCL, TOML and YAML live in
// separate packages.
package config
