package dag

import "sync"

// Graph holds vertices keyed by string id and the arcs between them. In a
// pipeline run each vertex is a rule edge and each arc points from the rule
// producing a file to a rule consuming it. Methods are safe for concurrent
// use.
type Graph struct {
	mutex sync.RWMutex
	nodes map[string]*node
}

// node is one vertex. Callers only ever see ids.
type node struct {
	id string
	// deps are the producers this vertex waits for.
	deps map[string]*node
	// dependents are the consumers waiting for this vertex.
	dependents map[string]*node
}
