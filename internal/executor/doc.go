// Package executor runs planned tasks at most once per run.
//
// Execution happens in two phases. Every planned task is first rendered into a
// Step: its environment is merged, the `${@}` placeholder and `${NAME}`
// references are substituted, and its primary action is fixed. Only when the
// whole plan renders cleanly does the second phase start spawning processes,
// either sequentially in plan order or on a bounded worker pool.
package executor
