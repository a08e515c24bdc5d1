// Package app contains the run controller. It wires the loader, graph
// validator, scheduler and executor together for one invocation, decoupled
// from any specific entrypoint like a CLI.
package app
