// Package loader reads a definition source once, picks the format adapter by
// file extension, and finishes the model: engine defaults, core task
// synthesis and per-task structural checks.
package loader
