// Package scheduler decides what runs, and in which order, for one requested
// target. It turns the validated task graph and the run's Execution Records
// into a Plan that the executor consumes.
package scheduler
