package api

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/ThePrior/Navigation/internal/navmenu"
)

func openTestSQLite(t *testing.T) *SQLiteSource {
	t.Helper()
	src, err := NewSQLiteSource(filepath.Join(t.TempDir(), "nav", "menu.db"), ListNames{})
	if err != nil {
		t.Fatalf("NewSQLiteSource: %v", err)
	}
	t.Cleanup(func() { _ = src.Close() })
	return src
}

func seedFromFixture(t *testing.T, src *SQLiteSource) {
	t.Helper()
	fx, err := LoadFixture(writeFixture(t, fixtureYAML))
	if err != nil {
		t.Fatalf("LoadFixture: %v", err)
	}
	for list, entries := range fx.Lists {
		if err := src.ReplaceList(context.Background(), list, entries); err != nil {
			t.Fatalf("ReplaceList(%q): %v", list, err)
		}
	}
}

func TestSQLiteSource_RoundTripKeepsOrder(t *testing.T) {
	src := openTestSQLite(t)
	seedFromFixture(t, src)

	entries, err := src.FetchLevel(context.Background(), navmenu.Level1)
	if err != nil {
		t.Fatalf("FetchLevel: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Title != "About" || entries[1].Title != "Contact" {
		t.Errorf("order not preserved: %+v", entries)
	}
	if !entries[0].Clickable || entries[1].Clickable {
		t.Errorf("clickable not preserved: %+v", entries)
	}
	if entries[0].Parent() != "Home" {
		t.Errorf("parent not preserved: %+v", entries[0])
	}

	roots, err := src.FetchLevel(context.Background(), navmenu.Level0)
	if err != nil {
		t.Fatalf("FetchLevel(0): %v", err)
	}
	if len(roots) != 1 || roots[0].ParentName != nil {
		t.Errorf("unexpected roots %+v", roots)
	}
}

func TestSQLiteSource_ReplaceListOverwrites(t *testing.T) {
	src := openTestSQLite(t)
	seedFromFixture(t, src)

	ctx := context.Background()
	if err := src.ReplaceList(ctx, DefaultLists.Level0, []navmenu.RawEntry{{Title: "Start"}}); err != nil {
		t.Fatalf("ReplaceList: %v", err)
	}
	roots, err := src.FetchList(ctx, DefaultLists.Level0)
	if err != nil {
		t.Fatalf("FetchList: %v", err)
	}
	if len(roots) != 1 || roots[0].Title != "Start" {
		t.Errorf("expected replaced list, got %+v", roots)
	}
}

func TestSQLiteSource_UnknownListIsEmpty(t *testing.T) {
	src := openTestSQLite(t)
	entries, err := src.FetchList(context.Background(), "nothing here")
	if err != nil {
		t.Fatalf("FetchList: %v", err)
	}
	if entries == nil || len(entries) != 0 {
		t.Errorf("expected empty entries, got %#v", entries)
	}
}

func TestSQLiteSource_Assemble(t *testing.T) {
	src := openTestSQLite(t)
	seedFromFixture(t, src)

	menu, err := navmenu.NewAssembler(src).Assemble(context.Background())
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	about := menu.HeaderLinks[0].Children[0]
	if about.Name != "About" || len(about.Children) != 1 || about.Children[0].Name != "Team" {
		t.Errorf("unexpected tree under Home: %+v", menu.HeaderLinks[0])
	}
}
