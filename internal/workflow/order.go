package workflow

// executionOrder returns node indexes in topological order (edge source
// before target). Roots and ties resolve in declared array order, so a graph
// without edges simply runs in the order the nodes were declared. If edges
// form a cycle the unsatisfiable remainder is appended in array order;
// connectivity is advisory for this single-stream design, not authoritative.
func (g *Graph) executionOrder() []int {
	n := len(g.Nodes)
	pos := make(map[string]int, n)
	for i, node := range g.Nodes {
		pos[node.ID] = i
	}
	indegree := make([]int, n)
	successors := make([][]int, n)
	for _, e := range g.Edges {
		s, okS := pos[e.Source]
		t, okT := pos[e.Target]
		if !okS || !okT {
			continue
		}
		successors[s] = append(successors[s], t)
		indegree[t]++
	}

	order := make([]int, 0, n)
	done := make([]bool, n)
	for len(order) < n {
		picked := -1
		for i := 0; i < n; i++ {
			if !done[i] && indegree[i] == 0 {
				picked = i
				break
			}
		}
		if picked < 0 {
			// Cycle: flush the rest in declared order.
			for i := 0; i < n; i++ {
				if !done[i] {
					order = append(order, i)
					done[i] = true
				}
			}
			break
		}
		done[picked] = true
		order = append(order, picked)
		for _, t := range successors[picked] {
			indegree[t]--
		}
	}
	return order
}
