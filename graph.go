package skilltree

import "fmt"

// children builds the outgoing adjacency of edges.
func children(edges []Edge) map[string][]string {
	adj := make(map[string][]string, len(edges))
	for _, e := range edges {
		adj[e.Source] = append(adj[e.Source], e.Target)
	}
	return adj
}

// reaches reports whether to is reachable from from over the existing
// edges. Each node is expanded at most once.
func reaches(edges []Edge, from, to string) bool {
	adj := children(edges)
	visited := make(map[string]bool)
	stack := []string{from}

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if current == to {
			return true
		}
		if visited[current] {
			continue
		}
		visited[current] = true

		for _, next := range adj[current] {
			if !visited[next] {
				stack = append(stack, next)
			}
		}
	}
	return false
}

// closure returns root and every node reachable from it, in visit order.
func closure(edges []Edge, root string) []string {
	adj := children(edges)
	seen := map[string]bool{root: true}
	order := []string{}
	stack := []string{root}

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		order = append(order, current)

		for _, next := range adj[current] {
			if !seen[next] {
				seen[next] = true
				stack = append(stack, next)
			}
		}
	}
	return order
}

// validateAcyclic checks that the edges don't form a cycle using DFS.
func validateAcyclic(nodes []Node, edges []Edge) error {
	adj := children(edges)

	const (
		unvisited = 0
		visiting  = 1
		visited   = 2
	)

	state := make(map[string]int, len(nodes))
	for _, n := range nodes {
		state[n.ID] = unvisited
	}

	var dfs func(id string) bool
	dfs = func(id string) bool {
		state[id] = visiting
		for _, next := range adj[id] {
			switch state[next] {
			case visiting:
				return true
			case unvisited:
				if dfs(next) {
					return true
				}
			}
		}
		state[id] = visited
		return false
	}

	for _, n := range nodes {
		if state[n.ID] == unvisited && dfs(n.ID) {
			return ErrCyclicDependency
		}
	}
	return nil
}

// Validate checks the structural invariants a loaded snapshot must hold
// before an engine adopts it. Every failure wraps ErrMalformedSnapshot.
func (s *Snapshot) Validate() error {
	if s == nil {
		return fmt.Errorf("%w: no snapshot", ErrMalformedSnapshot)
	}

	ids := make(map[string]bool, len(s.Nodes))
	for _, n := range s.Nodes {
		if n.ID == "" {
			return fmt.Errorf("%w: node without id", ErrMalformedSnapshot)
		}
		if ids[n.ID] {
			return fmt.Errorf("%w: duplicate node %q", ErrMalformedSnapshot, n.ID)
		}
		if !n.Type.Valid() {
			return fmt.Errorf("%w: node %q has unknown type %q", ErrMalformedSnapshot, n.ID, n.Type)
		}
		if n.Data.Name == "" {
			return fmt.Errorf("%w: node %q has no name", ErrMalformedSnapshot, n.ID)
		}
		ids[n.ID] = true
	}

	edgeIDs := make(map[string]bool, len(s.Edges))
	pairs := make(map[[2]string]bool, len(s.Edges))
	for _, e := range s.Edges {
		if e.ID == "" {
			return fmt.Errorf("%w: edge %s -> %s without id", ErrMalformedSnapshot, e.Source, e.Target)
		}
		if edgeIDs[e.ID] {
			return fmt.Errorf("%w: duplicate edge %q", ErrMalformedSnapshot, e.ID)
		}
		edgeIDs[e.ID] = true
		if !ids[e.Source] || !ids[e.Target] {
			return fmt.Errorf("%w: edge %q references unknown node", ErrMalformedSnapshot, e.ID)
		}
		pair := [2]string{e.Source, e.Target}
		if pairs[pair] {
			return fmt.Errorf("%w: edge %q duplicates %s -> %s", ErrMalformedSnapshot, e.ID, e.Source, e.Target)
		}
		pairs[pair] = true
	}

	if err := validateAcyclic(s.Nodes, s.Edges); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedSnapshot, err)
	}
	return nil
}
