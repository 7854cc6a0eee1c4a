package navmenu

import (
	"fmt"
	"strconv"
	"strings"
)

// Level identifies one of the three fetch stages of a menu.
type Level int

const (
	// Level0 holds the root entries (no parent).
	Level0 Level = iota
	// Level1 holds children of Level0 entries.
	Level1
	// Level2 holds children of Level1 entries.
	Level2
)

// Levels lists every level in assembly order.
var Levels = []Level{Level0, Level1, Level2}

func (l Level) String() string {
	return "level " + strconv.Itoa(int(l))
}

// Valid reports whether l is one of the three supported levels.
func (l Level) Valid() bool {
	return l >= Level0 && l <= Level2
}

// ParseLevel converts "0", "1", "2" (optionally prefixed with "level") into a Level.
func ParseLevel(s string) (Level, error) {
	v := strings.TrimSpace(strings.ToLower(s))
	v = strings.TrimSpace(strings.TrimPrefix(v, "level"))
	n, err := strconv.Atoi(v)
	if err != nil || !Level(n).Valid() {
		return 0, fmt.Errorf("invalid level %q (expected 0, 1 or 2)", s)
	}
	return Level(n), nil
}

// RawEntry is a flat menu record as delivered by a list source.
// ParentName is nil for Level0 entries.
type RawEntry struct {
	Title      string  `json:"title" yaml:"title"`
	URL        string  `json:"url" yaml:"url"`
	Clickable  bool    `json:"clickable" yaml:"clickable"`
	ParentName *string `json:"parent,omitempty" yaml:"parent,omitempty"`
}

// Parent returns the declared parent name, or "" when there is none.
func (e RawEntry) Parent() string {
	if e.ParentName == nil {
		return ""
	}
	return *e.ParentName
}

// Node is an assembled menu element. Children keep fetch order.
type Node struct {
	Name      string  `json:"name" yaml:"name"`
	URL       string  `json:"url" yaml:"url"`
	Clickable bool    `json:"clickable" yaml:"clickable"`
	Children  []*Node `json:"children" yaml:"children"`
}

func newNode(e RawEntry) *Node {
	return &Node{
		Name:      e.Title,
		URL:       e.URL,
		Clickable: e.Clickable,
		Children:  []*Node{},
	}
}

// Menu is the root container of an assembled hierarchy.
// FooterLinks is never populated by assembly.
type Menu struct {
	HeaderLinks []*Node `json:"headerLinks" yaml:"headerLinks"`
	FooterLinks []*Node `json:"footerLinks" yaml:"footerLinks"`
}

// NewMenu returns an empty menu.
func NewMenu() *Menu {
	return &Menu{
		HeaderLinks: []*Node{},
		FooterLinks: []*Node{},
	}
}
