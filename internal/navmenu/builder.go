package navmenu

import "fmt"

// Attach materializes one node per entry and, when parents is non-nil, appends
// each node to the children of the parent named by its entry. It returns the
// new nodes in entry order.
//
// A nil parents lookup is only valid for Level0. An entry whose parent cannot
// be resolved fails the whole call with a *ParentNotFoundError.
func Attach(level Level, entries []RawEntry, parents Lookup) ([]*Node, error) {
	if !level.Valid() {
		return nil, fmt.Errorf("attach: unsupported %s", level)
	}
	if parents == nil && level != Level0 {
		return nil, fmt.Errorf("attach: %s requires a parent lookup", level)
	}

	nodes := make([]*Node, 0, len(entries))
	for _, entry := range entries {
		node := newNode(entry)
		if parents != nil {
			parent, ok := parents[entry.Parent()]
			if !ok || entry.ParentName == nil {
				return nil, &ParentNotFoundError{
					Level:      level,
					EntryName:  entry.Title,
					ParentName: entry.Parent(),
				}
			}
			parent.Children = append(parent.Children, node)
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}
