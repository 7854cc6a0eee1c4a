package api

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ThePrior/Navigation/internal/navmenu"
)

const fixtureYAML = `lists:
  Navigation Menu Level Zero:
    - title: Home
      url: /
      clickable: true
  Navigation Menu Level One:
    - title: About
      url: /about
      clickable: true
      parent: Home
    - title: Contact
      url: /contact
      parent: Home
  Navigation Menu Level Two:
    - title: Team
      url: /about/team
      parent: About
`

func writeFixture(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "menu.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestFileSource_FetchLevel(t *testing.T) {
	src, err := NewFileSource(writeFixture(t, fixtureYAML), ListNames{})
	if err != nil {
		t.Fatalf("NewFileSource: %v", err)
	}

	entries, err := src.FetchLevel(context.Background(), navmenu.Level1)
	if err != nil {
		t.Fatalf("FetchLevel: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Title != "About" || entries[0].Parent() != "Home" || !entries[0].Clickable {
		t.Errorf("unexpected entry %+v", entries[0])
	}
	if entries[1].Clickable {
		t.Errorf("clickable should default to false")
	}

	roots, err := src.FetchLevel(context.Background(), navmenu.Level0)
	if err != nil {
		t.Fatalf("FetchLevel(0): %v", err)
	}
	if roots[0].ParentName != nil {
		t.Errorf("root entry should have no parent")
	}
}

func TestFileSource_JSONFixture(t *testing.T) {
	body := `{"lists": {"Top": [{"title": "Home", "url": "/", "clickable": true}]}}`
	src, err := NewFileSource(writeFixture(t, body), ListNames{Level0: "Top"})
	if err != nil {
		t.Fatalf("NewFileSource: %v", err)
	}
	entries, err := src.FetchLevel(context.Background(), navmenu.Level0)
	if err != nil {
		t.Fatalf("FetchLevel: %v", err)
	}
	if len(entries) != 1 || entries[0].Title != "Home" {
		t.Errorf("unexpected entries %+v", entries)
	}
}

func TestFileSource_ListName(t *testing.T) {
	src, err := NewFileSource(writeFixture(t, fixtureYAML), ListNames{Level0: "Top"})
	if err != nil {
		t.Fatalf("NewFileSource: %v", err)
	}
	if got := src.ListName(navmenu.Level0); got != "Top" {
		t.Errorf("ListName(Level0) = %q, want Top", got)
	}
	if got := src.ListName(navmenu.Level2); got != DefaultLists.Level2 {
		t.Errorf("ListName(Level2) = %q, want %q", got, DefaultLists.Level2)
	}
}

func TestFileSource_MissingList(t *testing.T) {
	src, _ := NewFileSource(writeFixture(t, "lists: {}\n"), ListNames{})

	_, err := src.FetchLevel(context.Background(), navmenu.Level2)
	var srcErr *navmenu.SourceError
	if !errors.As(err, &srcErr) {
		t.Fatalf("expected SourceError, got %v", err)
	}
	if srcErr.Level != navmenu.Level2 || srcErr.List != DefaultLists.Level2 {
		t.Errorf("unexpected error fields %+v", srcErr)
	}
	var notFound NotFoundError
	if !errors.As(err, &notFound) {
		t.Errorf("expected NotFoundError cause, got %v", err)
	}
}

func TestFileSource_BadFile(t *testing.T) {
	src, _ := NewFileSource(filepath.Join(t.TempDir(), "missing.yaml"), ListNames{})
	if _, err := src.FetchList(context.Background(), "x"); err == nil {
		t.Fatal("expected error for missing fixture")
	}

	src, _ = NewFileSource(writeFixture(t, "lists: [unclosed"), ListNames{})
	if _, err := src.FetchList(context.Background(), "x"); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestFileSource_RequiresPath(t *testing.T) {
	if _, err := NewFileSource("", ListNames{}); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestFileSource_Assemble(t *testing.T) {
	src, _ := NewFileSource(writeFixture(t, fixtureYAML), ListNames{})
	menu, err := navmenu.NewAssembler(src).Assemble(context.Background())
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	counts := menu.CountByLevel()
	if counts[navmenu.Level0] != 1 || counts[navmenu.Level1] != 2 || counts[navmenu.Level2] != 1 {
		t.Errorf("unexpected counts %v", counts)
	}
}
