package dag

import "sort"

// Resolve linearizes the graph with Kahn's algorithm and returns every
// node exactly once, ordered so each dependency precedes its
// dependents. The ready set is kept sorted by id, so ties between
// equally ready cells break lexicographically and the output is
// deterministic. An empty graph resolves to an empty order. If any
// nodes remain unresolved they form at least one cycle and a CycleError
// naming them is returned instead of a partial order.
func (g *Graph) Resolve() ([]string, error) {
	// Work on a copy; Resolve must not consume the graph.
	inDegree := make(map[string]int, len(g.inDegree))
	for id, d := range g.inDegree {
		inDegree[id] = d
	}

	var ready []string
	for id, d := range inDegree {
		if d == 0 {
			ready = append(ready, id)
		}
	}
	sort.Strings(ready)

	order := make([]string, 0, len(inDegree))
	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		order = append(order, id)

		for _, dep := range g.dependents[id] {
			inDegree[dep]--
			if inDegree[dep] == 0 {
				ready = insertSorted(ready, dep)
			}
		}
	}

	if len(order) != len(inDegree) {
		var remaining []string
		seen := make(map[string]struct{}, len(order))
		for _, id := range order {
			seen[id] = struct{}{}
		}
		for id := range inDegree {
			if _, ok := seen[id]; !ok {
				remaining = append(remaining, id)
			}
		}
		sort.Strings(remaining)
		return nil, &CycleError{Remaining: remaining}
	}

	return order, nil
}

// insertSorted places id into the sorted slice, keeping it sorted.
func insertSorted(s []string, id string) []string {
	i := sort.SearchStrings(s, id)
	s = append(s, "")
	copy(s[i+1:], s[i:])
	s[i] = id
	return s
}
