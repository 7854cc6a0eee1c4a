package api

import (
	"context"
	"errors"

	"github.com/ThePrior/Navigation/internal/navmenu"
)

// Source reads navigation lists. Every backend (SharePoint REST, fixture
// file, SQLite) implements it, so commands work against any of them.
type Source interface {
	navmenu.ListSource

	// FetchList reads the entries of a list by name, in stored order.
	FetchList(ctx context.Context, list string) ([]navmenu.RawEntry, error)

	// Lists returns the list names used for each menu level.
	Lists() ListNames

	// Describe names the backing store, e.g. a site URL or file path.
	Describe() string

	// Close releases resources held by the source.
	Close() error
}

// ListNames maps each menu level to the list holding its entries.
type ListNames struct {
	Level0 string `json:"level0" yaml:"level0"`
	Level1 string `json:"level1" yaml:"level1"`
	Level2 string `json:"level2" yaml:"level2"`
}

// DefaultLists are the list titles used by the navigation site.
var DefaultLists = ListNames{
	Level0: "Navigation Menu Level Zero",
	Level1: "Navigation Menu Level One",
	Level2: "Navigation Menu Level Two",
}

// For returns the list name for level, or "" for an unknown level.
func (l ListNames) For(level navmenu.Level) string {
	switch level {
	case navmenu.Level0:
		return l.Level0
	case navmenu.Level1:
		return l.Level1
	case navmenu.Level2:
		return l.Level2
	default:
		return ""
	}
}

// WithDefaults fills empty names from DefaultLists.
func (l ListNames) WithDefaults() ListNames {
	if l.Level0 == "" {
		l.Level0 = DefaultLists.Level0
	}
	if l.Level1 == "" {
		l.Level1 = DefaultLists.Level1
	}
	if l.Level2 == "" {
		l.Level2 = DefaultLists.Level2
	}
	return l
}

// fetchLevel resolves the list for level and reads it through fetch, tagging
// any *navmenu.SourceError with the level.
func fetchLevel(ctx context.Context, lists ListNames, level navmenu.Level, fetch func(context.Context, string) ([]navmenu.RawEntry, error)) ([]navmenu.RawEntry, error) {
	name := lists.For(level)
	if name == "" {
		return nil, &navmenu.SourceError{Level: level, Message: "no list configured for " + level.String()}
	}
	entries, err := fetch(ctx, name)
	if err != nil {
		var srcErr *navmenu.SourceError
		if errors.As(err, &srcErr) {
			srcErr.Level = level
		}
		return nil, err
	}
	return entries, nil
}
