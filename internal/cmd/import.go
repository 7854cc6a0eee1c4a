package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ThePrior/Navigation/internal/api"
	"github.com/ThePrior/Navigation/internal/navmenu"
)

// listWriter stores whole lists. *api.SQLiteSource implements it.
type listWriter interface {
	ReplaceList(ctx context.Context, list string, entries []navmenu.RawEntry) error
	Describe() string
	Close() error
}

var (
	importDBPath  string
	importOutline bool
)

var importCmd = &cobra.Command{
	Use:   "import <fixture|->",
	Short: "Load a fixture file into the SQLite source",
	Long: `Replace lists in the SQLite database with the lists of a YAML or JSON
fixture file. Lists not named in the fixture are left untouched.

With --outline (or a .md file) the input is a markdown bullet outline, two
spaces per level, and replaces all three level lists:

  - [Home](/)
  - Services
    - [Consulting](/services/consulting)

The database is --db, then sqlite_path from config, then
~/.config/navmenu/navmenu.db.

Examples:
  navmenu import menu.yaml
  navmenu import menu.json --db ./nav.db
  cat menu.md | navmenu import --outline -
  navmenu --source sqlite menu`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVar(&importDBPath, "db", "", "SQLite database path")
	importCmd.Flags().BoolVar(&importOutline, "outline", false, "Read a markdown outline instead of a fixture")
	rootCmd.AddCommand(importCmd)
}

type importResult struct {
	List    string `json:"list" yaml:"list"`
	Entries int    `json:"entries" yaml:"entries"`
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfigFromFlag()
	if err != nil {
		return formatConfigLoadError(err)
	}

	stdin := stdinFromContext(ctx)
	if strings.TrimSpace(args[0]) == "-" && !inputHasData(stdin) {
		return fmt.Errorf("no input on stdin")
	}
	content, err := readInputSource(args[0], stdin)
	if err != nil {
		return err
	}

	var fx *api.Fixture
	if importOutline || strings.EqualFold(filepath.Ext(args[0]), ".md") {
		entries, err := parseOutline(content)
		if err != nil {
			return fmt.Errorf("parse outline: %w", err)
		}
		if fx, err = outlineFixture(entries, listNamesFromConfig(cfg)); err != nil {
			return err
		}
	} else if fx, err = api.ParseFixture([]byte(content)); err != nil {
		return err
	}
	if len(fx.Lists) == 0 {
		return fmt.Errorf("fixture %s contains no lists", args[0])
	}

	path := firstNonEmpty(importDBPath, cfg.SQLitePath)
	if path == "" {
		if path, err = defaultSQLitePath(); err != nil {
			return err
		}
	}

	db, err := openSQLiteFunc(path, listNamesFromConfig(cfg))
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	names := make([]string, 0, len(fx.Lists))
	for name := range fx.Lists {
		names = append(names, name)
	}
	sort.Strings(names)

	results := make([]importResult, 0, len(names))
	for _, name := range names {
		entries := fx.Lists[name]
		if err := db.ReplaceList(ctx, name, entries); err != nil {
			return fmt.Errorf("import %q: %w", name, err)
		}
		results = append(results, importResult{List: name, Entries: len(entries)})
	}

	if structuredOutputRequested() {
		return printResult(ctx, results)
	}
	out := stdoutFromContext(ctx)
	for _, r := range results {
		fmt.Fprintf(out, "%s: %d entries\n", r.List, r.Entries)
	}
	fmt.Fprintf(out, "Imported %d %s into %s\n", len(results), plural(len(results), "list", "lists"), db.Describe())
	return nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
