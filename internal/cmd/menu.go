package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ThePrior/Navigation/internal/navmenu"
	"github.com/ThePrior/Navigation/internal/output"
)

var menuCmd = &cobra.Command{
	Use:     "menu",
	Aliases: []string{"assemble"},
	Short:   "Assemble and print the navigation menu",
	Long: `Fetch the level 0, 1 and 2 lists in order and link every entry to its
parent by title.

An entry whose parent title is missing from the level above aborts the
assembly; nothing is printed and the error names the level, entry and parent.

Examples:
  navmenu menu
  navmenu menu -o json
  navmenu menu -o json --query '.headerLinks[].name'
  navmenu menu --source file`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		menu, err := assembleMenu(cmd.Context())
		if err != nil {
			return err
		}
		return printResult(cmd.Context(), menuOutline{menu: menu})
	},
}

var menuFlatCmd = &cobra.Command{
	Use:   "flat",
	Short: "Print one row per assembled node",
	Long: `Assemble the menu and print every node depth-first with its level and
parent title.

Examples:
  navmenu menu flat -o table
  navmenu menu flat -o json --result-sort-by name`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		menu, err := assembleMenu(cmd.Context())
		if err != nil {
			return err
		}
		return printResult(cmd.Context(), flattenMenu(menu))
	},
}

var menuStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Count assembled nodes per level",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		menu, err := assembleMenu(cmd.Context())
		if err != nil {
			return err
		}
		return printResult(cmd.Context(), menuStats(menu))
	},
}

func init() {
	menuCmd.AddCommand(menuFlatCmd)
	menuCmd.AddCommand(menuStatsCmd)
	rootCmd.AddCommand(menuCmd)
}

func assembleMenu(ctx context.Context) (*navmenu.Menu, error) {
	src := GetSource()
	if src == nil {
		return nil, fmt.Errorf("no list source configured")
	}
	return navmenu.NewAssembler(src).Assemble(ctx)
}

// menuOutline renders a Menu as an indented outline in text mode and as the
// menu itself in structured modes.
type menuOutline struct {
	menu *navmenu.Menu
}

func (o menuOutline) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.menu)
}

func (o menuOutline) MarshalYAML() (interface{}, error) {
	return o.menu, nil
}

func (o menuOutline) RenderText(w io.Writer) error {
	if len(o.menu.HeaderLinks) == 0 {
		_, err := fmt.Fprintln(w, "(empty menu)")
		return err
	}
	return o.menu.Walk(func(level navmenu.Level, _, node *navmenu.Node) error {
		line := strings.Repeat("  ", int(level)) + node.Name
		if node.URL != "" {
			line += "  " + node.URL
		}
		if !node.Clickable {
			line += "  (not clickable)"
		}
		_, err := fmt.Fprintln(w, line)
		return err
	})
}

func (o menuOutline) Table() output.Table {
	rows := flattenMenu(o.menu)
	table := output.Table{Headers: []string{"LEVEL", "NAME", "URL", "CLICKABLE", "PARENT"}}
	for _, r := range rows {
		table.Rows = append(table.Rows, []string{
			strconv.Itoa(r.Level), strings.Repeat("  ", r.Level) + r.Name, r.URL, strconv.FormatBool(r.Clickable), r.Parent,
		})
	}
	return table
}

// flatNode is one assembled node with its position in the tree.
type flatNode struct {
	Level     int    `json:"level" yaml:"level"`
	Name      string `json:"name" yaml:"name"`
	URL       string `json:"url" yaml:"url"`
	Clickable bool   `json:"clickable" yaml:"clickable"`
	Parent    string `json:"parent" yaml:"parent"`
	Children  int    `json:"children" yaml:"children"`
}

func (n flatNode) RenderText(w io.Writer) error {
	parent := n.Parent
	if parent == "" {
		parent = "-"
	}
	_, err := fmt.Fprintf(w, "%d\t%s\t%s\tparent=%s\tclickable=%t\n", n.Level, n.Name, n.URL, parent, n.Clickable)
	return err
}

func flattenMenu(menu *navmenu.Menu) []flatNode {
	rows := []flatNode{}
	_ = menu.Walk(func(level navmenu.Level, parent, node *navmenu.Node) error {
		row := flatNode{
			Level:     int(level),
			Name:      node.Name,
			URL:       node.URL,
			Clickable: node.Clickable,
			Children:  len(node.Children),
		}
		if parent != nil {
			row.Parent = parent.Name
		}
		rows = append(rows, row)
		return nil
	})
	return rows
}

type levelCount struct {
	Level int `json:"level" yaml:"level"`
	Nodes int `json:"nodes" yaml:"nodes"`
}

func (c levelCount) RenderText(w io.Writer) error {
	_, err := fmt.Fprintf(w, "level %d: %d\n", c.Level, c.Nodes)
	return err
}

func menuStats(menu *navmenu.Menu) []levelCount {
	counts := menu.CountByLevel()
	stats := make([]levelCount, 0, len(navmenu.Levels))
	for _, level := range navmenu.Levels {
		stats = append(stats, levelCount{Level: int(level), Nodes: counts[level]})
	}
	return stats
}
