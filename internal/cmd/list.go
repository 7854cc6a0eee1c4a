package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ThePrior/Navigation/internal/navmenu"
)

var listCmd = &cobra.Command{
	Use:   "list <level|name>",
	Short: "Print the raw entries of one list",
	Long: `Fetch one list without assembling the menu.

The argument is a level (0, 1, 2 or "level 1") resolved through the
configured list names, or any other list title.

Examples:
  navmenu list 0
  navmenu list "Navigation Menu Level Two" -o table`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		src := GetSource()
		if src == nil {
			return fmt.Errorf("no list source configured")
		}

		var (
			entries []navmenu.RawEntry
			err     error
		)
		if level, parseErr := navmenu.ParseLevel(args[0]); parseErr == nil {
			entries, err = src.FetchLevel(ctx, level)
		} else {
			entries, err = src.FetchList(ctx, args[0])
		}
		if err != nil {
			return err
		}
		return printResult(ctx, entryRows(entries))
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}

// entryRow is a RawEntry with the parent flattened for tables.
type entryRow struct {
	Title     string `json:"title" yaml:"title"`
	URL       string `json:"url" yaml:"url"`
	Clickable bool   `json:"clickable" yaml:"clickable"`
	Parent    string `json:"parent,omitempty" yaml:"parent,omitempty"`
}

func (r entryRow) RenderText(w io.Writer) error {
	line := r.Title
	if r.URL != "" {
		line += "  " + r.URL
	}
	if r.Parent != "" {
		line += "  <- " + r.Parent
	}
	_, err := fmt.Fprintln(w, line)
	return err
}

func entryRows(entries []navmenu.RawEntry) []entryRow {
	rows := make([]entryRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, entryRow{
			Title:     e.Title,
			URL:       e.URL,
			Clickable: e.Clickable,
			Parent:    e.Parent(),
		})
	}
	return rows
}
