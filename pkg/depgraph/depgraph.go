// Package depgraph builds a directed dependency graph over a set of database
// objects, detects circular dependencies, and produces a topological
// execution order.
//
// The graph is rebuilt fresh for every analysis call from the explicit
// dependency edges carried by the objects; it is not a long-lived mutable
// structure. Edges run from the depending object to its dependency, and the
// topological order places every edge's origin before its destination.
package depgraph

import (
	"sort"
	"strings"

	"github.com/schemaport/schemaport/pkg/schema"
	"github.com/yourbasic/graph"
)

// SeverityError marks a circular dependency that blocks automatic ordering.
const SeverityError = "error"

type (
	// Graph is a dependency graph over one analyzed object set. Node
	// identity is the object key; the arena maps translate between keys and
	// the integer vertices the adjacency store uses.
	Graph struct {
		adjacency *graph.Mutable
		keys      []schema.ObjectKey
		indexOf   map[schema.ObjectKey]int
		neighbors [][]int
	}

	// CircularDependency reports one detected cycle: the node sequence in
	// traversal order, where the last node depends back on the first.
	CircularDependency struct {
		Nodes    []schema.ObjectKey
		Severity string
	}
)

// Traversal colors for the depth-first passes.
const (
	white = iota
	gray
	black
)

// Build constructs the dependency graph for a set of objects. Dependency
// edges pointing at objects outside the set are ignored; the graph only
// orders what it was given. Vertex numbering is assigned in sorted key order
// so traversal results are deterministic.
//
// Example usage:
//
//	g := depgraph.Build(snapshot.Objects)
//	cycles := g.DetectCycles()
//	order, complete := g.TopoSort()
func Build(objects []schema.DatabaseObject) *Graph {
	keys := make([]schema.ObjectKey, 0, len(objects))
	for i := range objects {
		keys = append(keys, objects[i].Key())
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })

	g := &Graph{
		adjacency: graph.New(len(keys)),
		keys:      keys,
		indexOf:   make(map[schema.ObjectKey]int, len(keys)),
	}
	for i, key := range keys {
		g.indexOf[key] = i
	}

	for i := range objects {
		o := &objects[i]
		from := g.indexOf[o.Key()]
		for _, dep := range o.Dependencies {
			if to, ok := g.indexOf[dep]; ok && to != from {
				g.adjacency.Add(from, to)
			}
		}
	}

	g.neighbors = make([][]int, len(keys))
	for v := range keys {
		g.adjacency.Visit(v, func(w int, _ int64) bool {
			g.neighbors[v] = append(g.neighbors[v], w)
			return false
		})
		sort.Ints(g.neighbors[v])
	}

	return g
}

// Order returns the number of nodes in the graph.
func (g *Graph) Order() int {
	return len(g.keys)
}

// DetectCycles finds every circular dependency reachable in the graph. Each
// back edge found during the depth-first pass yields one CircularDependency
// whose node sequence is sliced from the live traversal path, so detection
// stays linear in the graph size. Independent cycles are all reported in one
// pass.
func (g *Graph) DetectCycles() []CircularDependency {
	if g.Order() == 0 || graph.Acyclic(g.adjacency) {
		return nil
	}

	var (
		cycles  []CircularDependency
		color   = make([]byte, g.Order())
		pathPos = make([]int, g.Order())
	)

	type frame struct {
		node int
		next int
	}

	for root := range g.keys {
		if color[root] != white {
			continue
		}

		stack := []frame{{node: root}}
		path := []int{root}
		color[root] = gray
		pathPos[root] = 0

		for len(stack) > 0 {
			f := &stack[len(stack)-1]
			if f.next < len(g.neighbors[f.node]) {
				w := g.neighbors[f.node][f.next]
				f.next++

				switch color[w] {
				case white:
					color[w] = gray
					pathPos[w] = len(path)
					path = append(path, w)
					stack = append(stack, frame{node: w})
				case gray:
					// Back edge: the cycle is the path segment from w to
					// the current node.
					nodes := make([]schema.ObjectKey, 0, len(path)-pathPos[w])
					for _, v := range path[pathPos[w]:] {
						nodes = append(nodes, g.keys[v])
					}
					cycles = append(cycles, CircularDependency{Nodes: nodes, Severity: SeverityError})
				}
				continue
			}

			color[f.node] = black
			path = path[:len(path)-1]
			stack = stack[:len(stack)-1]
		}
	}

	return cycles
}

// TopoSort returns the node keys in topological order. When a back edge is
// found the sort aborts and returns whatever order has been committed so far
// with complete=false; a partial result means the graph contains a cycle and
// must not be treated as resolved.
func (g *Graph) TopoSort() (order []schema.ObjectKey, complete bool) {
	var (
		color    = make([]byte, g.Order())
		finished = make([]int, 0, g.Order())
	)

	type frame struct {
		node int
		next int
	}

	for root := range g.keys {
		if color[root] != white {
			continue
		}

		stack := []frame{{node: root}}
		color[root] = gray

		for len(stack) > 0 {
			f := &stack[len(stack)-1]
			if f.next < len(g.neighbors[f.node]) {
				w := g.neighbors[f.node][f.next]
				f.next++

				switch color[w] {
				case white:
					color[w] = gray
					stack = append(stack, frame{node: w})
				case gray:
					return g.finishedOrder(finished), false
				}
				continue
			}

			color[f.node] = black
			finished = append(finished, f.node)
			stack = stack[:len(stack)-1]
		}
	}

	return g.finishedOrder(finished), true
}

// finishedOrder reverses the depth-first finish sequence so every edge points
// from an earlier to a later node.
func (g *Graph) finishedOrder(finished []int) []schema.ObjectKey {
	order := make([]schema.ObjectKey, 0, len(finished))
	for i := len(finished) - 1; i >= 0; i-- {
		order = append(order, g.keys[finished[i]])
	}
	return order
}

// Describe renders the cycle as "a -> b -> c -> a" for warnings and logs.
func (c *CircularDependency) Describe() string {
	if len(c.Nodes) == 0 {
		return ""
	}

	labels := make([]string, 0, len(c.Nodes)+1)
	for _, key := range c.Nodes {
		labels = append(labels, key.String())
	}
	labels = append(labels, c.Nodes[0].String())

	return strings.Join(labels, " -> ")
}
