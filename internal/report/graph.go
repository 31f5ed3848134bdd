package report

import "sort"

// GraphNode is one method in the dependency graph, keyed
// "Class.Method".
type GraphNode struct {
	MethodKey           string `json:"methodKey"`
	ClassName           string `json:"className"`
	MethodName          string `json:"methodName"`
	InDegree            int    `json:"inDegree"`
	OutDegree           int    `json:"outDegree"`
	HasCyclicDependency bool   `json:"hasCyclicDependency,omitempty"`
}

// GraphEdge is one call dependency between methods.
type GraphEdge struct {
	FromMethod    string `json:"fromMethod"`
	ToMethod      string `json:"toMethod"`
	Kind          string `json:"kind,omitempty"`
	IsPartOfCycle bool   `json:"isPartOfCycle,omitempty"`
}

// InferenceDependencyGraph is the inter-method call graph with cycle
// marking.
type InferenceDependencyGraph struct {
	Nodes []*GraphNode `json:"nodes"`
	Edges []*GraphEdge `json:"edges"`
}

// BuildDependencyGraph assembles the graph from method keys and their
// dependencies, computing degrees and marking strongly-connected
// cycles.
func BuildDependencyGraph(deps map[string][]string, classOf, methodOf func(key string) string) *InferenceDependencyGraph {
	keys := make([]string, 0, len(deps))
	for key := range deps {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	adjacency := map[string][]string{}
	inDegree := map[string]int{}
	for _, from := range keys {
		targets := deps[from]
		sort.Strings(targets)
		for _, to := range targets {
			if _, known := deps[to]; !known {
				continue
			}
			adjacency[from] = append(adjacency[from], to)
			inDegree[to]++
		}
	}

	cyclic := findCyclicNodes(keys, adjacency)

	graph := &InferenceDependencyGraph{}
	for _, key := range keys {
		graph.Nodes = append(graph.Nodes, &GraphNode{
			MethodKey:           key,
			ClassName:           classOf(key),
			MethodName:          methodOf(key),
			InDegree:            inDegree[key],
			OutDegree:           len(adjacency[key]),
			HasCyclicDependency: cyclic[key],
		})
		for _, to := range adjacency[key] {
			graph.Edges = append(graph.Edges, &GraphEdge{
				FromMethod:    key,
				ToMethod:      to,
				Kind:          "call",
				IsPartOfCycle: cyclic[key] && cyclic[to],
			})
		}
	}
	return graph
}

// findCyclicNodes marks nodes that sit on a directed cycle using
// Tarjan's strongly-connected components: any component larger than
// one node, or a self-loop, is cyclic.
func findCyclicNodes(keys []string, adjacency map[string][]string) map[string]bool {
	index := map[string]int{}
	lowlink := map[string]int{}
	onStack := map[string]bool{}
	var stack []string
	counter := 0
	cyclic := map[string]bool{}

	var strongconnect func(v string)
	strongconnect = func(v string) {
		index[v] = counter
		lowlink[v] = counter
		counter++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range adjacency[v] {
			if _, seen := index[w]; !seen {
				strongconnect(w)
				if lowlink[w] < lowlink[v] {
					lowlink[v] = lowlink[w]
				}
			} else if onStack[w] && index[w] < lowlink[v] {
				lowlink[v] = index[w]
			}
		}

		if lowlink[v] == index[v] {
			var component []string
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				component = append(component, w)
				if w == v {
					break
				}
			}
			if len(component) > 1 {
				for _, w := range component {
					cyclic[w] = true
				}
			} else {
				// Self-loop counts as a cycle.
				w := component[0]
				for _, target := range adjacency[w] {
					if target == w {
						cyclic[w] = true
					}
				}
			}
		}
	}

	for _, v := range keys {
		if _, seen := index[v]; !seen {
			strongconnect(v)
		}
	}
	return cyclic
}
