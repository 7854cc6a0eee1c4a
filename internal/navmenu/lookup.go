package navmenu

// Lookup maps a node name to the node that children of the next level attach to.
type Lookup map[string]*Node

// BuildLookup indexes nodes by name. When two nodes share a name the later
// one wins.
func BuildLookup(nodes []*Node) Lookup {
	lookup := make(Lookup, len(nodes))
	for _, n := range nodes {
		lookup[n.Name] = n
	}
	return lookup
}
