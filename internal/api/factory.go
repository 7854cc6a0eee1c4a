package api

import (
	"fmt"
	"strings"
)

// Source kinds accepted by NewSource.
const (
	KindSharePoint = "sharepoint"
	KindFile       = "file"
	KindSQLite     = "sqlite"
)

// SourceConfig selects and configures a list source.
type SourceConfig struct {
	Kind        string
	SiteURL     string
	Token       string
	FixturePath string
	SQLitePath  string
	Lists       ListNames
}

// NewSource creates the list source selected by cfg.Kind. An empty kind means
// SharePoint. Client options only apply to the SharePoint client.
func NewSource(cfg SourceConfig, opts ...ClientOption) (Source, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Kind)) {
	case KindSharePoint, "":
		if strings.TrimSpace(cfg.SiteURL) == "" {
			return nil, fmt.Errorf("site URL required for the sharepoint source")
		}
		opts = append([]ClientOption{WithLists(cfg.Lists)}, opts...)
		return NewClient(cfg.SiteURL, cfg.Token, opts...), nil
	case KindFile:
		return NewFileSource(cfg.FixturePath, cfg.Lists)
	case KindSQLite:
		return NewSQLiteSource(cfg.SQLitePath, cfg.Lists)
	default:
		return nil, fmt.Errorf("unknown source: %s (expected sharepoint|file|sqlite)", cfg.Kind)
	}
}
