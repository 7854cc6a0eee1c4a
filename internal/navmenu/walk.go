package navmenu

// Visit is called once per node during Walk. Parent is nil for Level0 nodes.
type Visit func(level Level, parent, node *Node) error

// Walk visits every node depth-first in child order and stops at the first
// error returned by fn.
func (m *Menu) Walk(fn Visit) error {
	if m == nil {
		return nil
	}
	for _, root := range m.HeaderLinks {
		if err := walk(Level0, nil, root, fn); err != nil {
			return err
		}
	}
	return nil
}

func walk(level Level, parent, node *Node, fn Visit) error {
	if err := fn(level, parent, node); err != nil {
		return err
	}
	for _, child := range node.Children {
		if err := walk(level+1, node, child, fn); err != nil {
			return err
		}
	}
	return nil
}

// NodesAt returns the nodes at level in walk order: parents in the order they
// are visited, and each parent's children in the order they were attached.
func (m *Menu) NodesAt(level Level) []*Node {
	var nodes []*Node
	_ = m.Walk(func(l Level, _, node *Node) error {
		if l == level {
			nodes = append(nodes, node)
		}
		return nil
	})
	return nodes
}

// CountByLevel returns how many nodes sit at each level.
func (m *Menu) CountByLevel() map[Level]int {
	counts := make(map[Level]int, len(Levels))
	_ = m.Walk(func(level Level, _, _ *Node) error {
		counts[level]++
		return nil
	})
	return counts
}
