package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ThePrior/Navigation/internal/api"
	"github.com/ThePrior/Navigation/internal/config"
)

const defaultProfile = "default"

// loadConfigFromFlag loads config from --config if provided, otherwise from default path.
func loadConfigFromFlag() (*config.Config, error) {
	if strings.TrimSpace(configFile) != "" {
		return config.Load(configFile)
	}
	return config.ReadConfig()
}

func emptyConfig() *config.Config {
	return &config.Config{}
}

func flagChanged(cmd *cobra.Command, name string) bool {
	if cmd == nil {
		return false
	}
	if cmd.Flags().Changed(name) {
		return true
	}
	return cmd.InheritedFlags().Changed(name)
}

// firstNonEmpty returns the first value that is not blank after trimming.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// resolveCredentials resolves site URL and token with precedence:
// flags > env > keyring > config.
func resolveCredentials(cmd *cobra.Command, cfg *config.Config) (site, token string) {
	if flagChanged(cmd, "site") {
		site = strings.TrimSpace(siteURL)
	}
	if flagChanged(cmd, "token") {
		token = strings.TrimSpace(apiToken)
	}

	// Environment
	if site == "" {
		site = strings.TrimSpace(envGet("NAVMENU_SITE_URL"))
	}
	if token == "" {
		token = strings.TrimSpace(envGet("NAVMENU_TOKEN"))
	}

	// Keyring (only if still missing)
	if site == "" || token == "" {
		if store, err := openSecretsStore(); err == nil {
			if tok, err := store.GetToken(defaultProfile); err == nil {
				if site == "" {
					site = strings.TrimSpace(tok.SiteURL)
				}
				if token == "" {
					token = strings.TrimSpace(tok.AccessToken)
				}
			}
		}
	}

	// Config fallback
	if cfg != nil {
		site = firstNonEmpty(site, cfg.SiteURL)
		token = firstNonEmpty(token, cfg.Token)
	}
	return site, token
}

// listNamesFromConfig returns the configured list titles with defaults filled in.
func listNamesFromConfig(cfg *config.Config) api.ListNames {
	if cfg == nil {
		return api.DefaultLists
	}
	return api.ListNames{
		Level0: strings.TrimSpace(cfg.Level0List),
		Level1: strings.TrimSpace(cfg.Level1List),
		Level2: strings.TrimSpace(cfg.Level2List),
	}.WithDefaults()
}

// defaultSQLitePath is where the sqlite source lives when sqlite_path is unset.
func defaultSQLitePath() (string, error) {
	dir, err := config.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "navmenu.db"), nil
}

// resolveSourceConfig decides which list source to open.
// The kind comes from --source, NAVMENU_SOURCE, then config (default sharepoint).
func resolveSourceConfig(cmd *cobra.Command, cfg *config.Config) (api.SourceConfig, error) {
	kind := ""
	if flagChanged(cmd, "source") {
		kind = sourceKind
	}
	kind = strings.ToLower(firstNonEmpty(kind, envGet("NAVMENU_SOURCE"), cfg.Source, api.KindSharePoint))

	srcCfg := api.SourceConfig{
		Kind:  kind,
		Lists: listNamesFromConfig(cfg),
	}

	switch kind {
	case api.KindSharePoint:
		site, token := resolveCredentials(cmd, cfg)
		if site == "" {
			return srcCfg, fmt.Errorf("no site configured. Use --site, NAVMENU_SITE_URL, 'navmenu auth login', or 'navmenu config set site_url <url>'")
		}
		srcCfg.SiteURL = site
		srcCfg.Token = token
	case api.KindFile:
		srcCfg.FixturePath = strings.TrimSpace(cfg.FixturePath)
		if srcCfg.FixturePath == "" {
			return srcCfg, fmt.Errorf("no fixture file configured. Use 'navmenu config set fixture_path <file>'")
		}
	case api.KindSQLite:
		srcCfg.SQLitePath = strings.TrimSpace(cfg.SQLitePath)
		if srcCfg.SQLitePath == "" {
			path, err := defaultSQLitePath()
			if err != nil {
				return srcCfg, err
			}
			srcCfg.SQLitePath = path
		}
	default:
		return srcCfg, fmt.Errorf("unknown source: %s (expected sharepoint|file|sqlite)", kind)
	}
	return srcCfg, nil
}

// clientOptionsFromConfig builds SharePoint client options from config.
func clientOptionsFromConfig(cfg *config.Config) ([]api.ClientOption, error) {
	if cfg == nil {
		return nil, nil
	}
	var opts []api.ClientOption
	if endpoint := strings.TrimSpace(cfg.ListEndpoint); endpoint != "" {
		opts = append(opts, api.WithListEndpoint(endpoint))
	}
	timeout, err := cfg.RequestTimeout()
	if err != nil {
		return nil, err
	}
	if timeout > 0 {
		opts = append(opts, api.WithTimeout(timeout))
	}
	return opts, nil
}

func formatConfigLoadError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("load config: %w", err)
}
