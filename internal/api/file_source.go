package api

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ThePrior/Navigation/internal/navmenu"
)

// Fixture is the on-disk layout read by FileSource. JSON documents are
// accepted as well since they are valid YAML.
//
//	lists:
//	  Navigation Menu Level Zero:
//	    - title: Home
//	      url: /
//	      clickable: true
//	  Navigation Menu Level One:
//	    - title: About
//	      url: /about
//	      parent: Home
type Fixture struct {
	Lists map[string][]navmenu.RawEntry `json:"lists" yaml:"lists"`
}

// FileSource serves lists from a fixture file. The file is re-read on every
// fetch.
type FileSource struct {
	path  string
	lists ListNames
}

// NewFileSource returns a source reading the fixture at path.
func NewFileSource(path string, lists ListNames) (*FileSource, error) {
	if path == "" {
		return nil, fmt.Errorf("fixture path required")
	}
	return &FileSource{path: path, lists: lists.WithDefaults()}, nil
}

// LoadFixture reads and parses a fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fixture: %w", err)
	}
	return ParseFixture(data)
}

// ParseFixture parses fixture YAML or JSON.
func ParseFixture(data []byte) (*Fixture, error) {
	var fx Fixture
	if err := yaml.Unmarshal(data, &fx); err != nil {
		return nil, fmt.Errorf("parsing fixture: %w", err)
	}
	return &fx, nil
}

// Describe returns the fixture path.
func (s *FileSource) Describe() string { return s.path }

// ListName returns the list backing level.
func (s *FileSource) ListName(level navmenu.Level) string { return s.lists.For(level) }

// Lists returns the configured list names.
func (s *FileSource) Lists() ListNames { return s.lists }

// Close is a no-op.
func (s *FileSource) Close() error { return nil }

// FetchLevel reads the list configured for level.
func (s *FileSource) FetchLevel(ctx context.Context, level navmenu.Level) ([]navmenu.RawEntry, error) {
	return fetchLevel(ctx, s.lists, level, s.FetchList)
}

// FetchList returns the entries stored under list.
func (s *FileSource) FetchList(ctx context.Context, list string) ([]navmenu.RawEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, &navmenu.SourceError{List: list, Err: err}
	}
	fx, err := LoadFixture(s.path)
	if err != nil {
		return nil, &navmenu.SourceError{List: list, Err: err}
	}
	entries, ok := fx.Lists[list]
	if !ok {
		return nil, &navmenu.SourceError{
			List:    list,
			Message: fmt.Sprintf("list not present in %s", s.path),
			Err:     NotFoundError{Message: "list not found: " + list},
		}
	}
	if entries == nil {
		entries = []navmenu.RawEntry{}
	}
	return entries, nil
}

var (
	_ Source            = (*FileSource)(nil)
	_ navmenu.ListNamer = (*FileSource)(nil)
)
