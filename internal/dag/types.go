package dag

import "sync"

// Graph is a collection of task nodes and their dependencies.
// All operations on the graph are concurrency-safe.
type Graph struct {
	// mutex protects the nodes during concurrent access.
	mutex sync.RWMutex
	// nodes stores all nodes in the graph, keyed by task name.
	nodes map[string]*node
	// order holds the nodes in insertion (declaration) order.
	order []*node
}

// node represents a single task in the graph. It is un-exported to
// enforce interaction with the graph via the public API (using task names),
// not by direct struct manipulation.
type node struct {
	id string
	// deps holds the prerequisites of this node in declaration order.
	deps []*node
}
