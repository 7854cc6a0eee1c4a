package navmenu

import (
	"context"

	"github.com/ThePrior/Navigation/internal/ctxlog"
)

// ListSource supplies the flat entries stored for one menu level.
type ListSource interface {
	FetchLevel(ctx context.Context, level Level) ([]RawEntry, error)
}

// State is the progress of a single assembly.
type State int

const (
	StateInit State = iota
	StateL0Fetched
	StateL1Linked
	StateL2Linked
	StateDone
)

var stateNames = [...]string{"init", "l0_fetched", "l1_linked", "l2_linked", "done"}

func (s State) String() string {
	if s < StateInit || s > StateDone {
		return "unknown"
	}
	return stateNames[s]
}

// ListNamer is implemented by sources that can name the list backing a level.
// The assembler uses it only for logging.
type ListNamer interface {
	ListName(level Level) string
}

// Assembler builds a three-level Menu from a ListSource.
type Assembler struct {
	source ListSource
}

// NewAssembler returns an Assembler reading from source.
func NewAssembler(source ListSource) *Assembler {
	return &Assembler{source: source}
}

// Assemble fetches the three levels in order and links each level to the
// nodes created by the one before it. Nodes are shared between the returned
// menu and the per-level lookups, so linking a later level mutates the menu in
// place. Any failure aborts the assembly and no menu is returned.
func (a *Assembler) Assemble(ctx context.Context) (*Menu, error) {
	log := ctxlog.FromContext(ctx)
	menu := NewMenu()

	roots, err := a.stage(ctx, Level0, nil)
	if err != nil {
		return nil, err
	}
	menu.HeaderLinks = roots
	log.Debug("menu stage complete", "state", StateL0Fetched)

	if _, err := a.stage(ctx, Level1, BuildLookup(roots)); err != nil {
		return nil, err
	}
	log.Debug("menu stage complete", "state", StateL1Linked)

	// Level-2 parents resolve against Level-1 nodes in root order, so a
	// repeated name binds to the one under the last root that holds it.
	if _, err := a.stage(ctx, Level2, BuildLookup(menu.NodesAt(Level1))); err != nil {
		return nil, err
	}
	log.Debug("menu stage complete", "state", StateL2Linked)

	log.Debug("menu assembled", "state", StateDone, "roots", len(menu.HeaderLinks))
	return menu, nil
}

func (a *Assembler) listName(level Level) string {
	if n, ok := a.source.(ListNamer); ok {
		return n.ListName(level)
	}
	return ""
}

func (a *Assembler) stage(ctx context.Context, level Level, parents Lookup) ([]*Node, error) {
	log := ctxlog.FromContext(ctx)

	list := a.listName(level)

	entries, err := a.source.FetchLevel(ctx, level)
	if err != nil {
		log.Debug("menu fetch failed", "level", int(level), "list", list, "error", err)
		return nil, err
	}

	nodes, err := Attach(level, entries, parents)
	if err != nil {
		log.Debug("menu link failed", "level", int(level), "list", list, "error", err)
		return nil, err
	}
	log.Debug("menu level linked", "level", int(level), "list", list, "entries", len(entries), "linked", len(nodes))
	return nodes, nil
}
