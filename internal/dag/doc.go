// Package dag holds the task dependency graph. It is built once per run from
// the loaded definition, validated for referential integrity and acyclicity
// before anything executes, and is read-only afterwards.
//
// Edges point from a prerequisite to the task that depends on it. Every
// traversal follows declaration order so that reports and plans are
// deterministic for identical input.
package dag
