package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ThePrior/Navigation/internal/api"
	"github.com/ThePrior/Navigation/internal/ctxlog"
	"github.com/ThePrior/Navigation/internal/output"
)

var (
	// Version is set at build time
	version = "dev"
	// Commit is set at build time
	commit = "none"
	// Date is set at build time
	date = "unknown"
)

// SetVersionInfo sets the version information from build flags
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = v
	rootCmd.SetVersionTemplate(fmt.Sprintf("navmenu version %s (commit: %s, built: %s)\n", version, commit, date))
}

// Global flags
var (
	siteURL     string
	apiToken    string
	sourceKind  string
	outputFmt   string
	outputType  output.Format
	debug       bool
	configFile  string
	queryExpr   string
	queryFile   string
	errorFmt    string
	quietFlag   bool
	resultLimit int
	resultSort  string
	resultDesc  bool
)

// source is the shared list source
var source api.Source

var rootCmd = &cobra.Command{
	Use:   "navmenu",
	Short: "Assemble navigation menus from SharePoint lists",
	Long: `navmenu builds a three-level navigation menu from three flat lists
(level 0 roots, level 1 children, level 2 grandchildren) whose entries name
their parent by title.

Lists are read from a SharePoint site, a YAML/JSON fixture file, or a SQLite
database.

Environment Variables:
  NAVMENU_SITE_URL  SharePoint site URL
  NAVMENU_TOKEN     Bearer token for the SharePoint REST API
  NAVMENU_SOURCE    List source (sharepoint|file|sqlite)`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeSource()
	},
}

func rootPersistentPreRunE(cmd *cobra.Command, args []string) error {
	skipConfigLoad := isCommand(cmd, "config")
	var cfg = emptyConfig()
	if !skipConfigLoad {
		loadedCfg, err := loadConfigFromFlag()
		if err != nil {
			return formatConfigLoadError(err)
		}
		cfg = loadedCfg
	}

	// Output format selection: --output > config > default
	formatStr := outputFmt
	if !flagChanged(cmd, "output") && !flagChanged(cmd, "format") && strings.TrimSpace(cfg.OutputFormat) != "" {
		formatStr = strings.TrimSpace(cfg.OutputFormat)
	}
	if !flagChanged(cmd, "output") && !flagChanged(cmd, "format") && !isTerminal(cmd.OutOrStdout()) {
		formatStr = "json"
	}
	format, err := output.ParseFormat(formatStr)
	if err != nil {
		return err
	}
	outputType = format
	outputFmt = string(format)

	// jq query
	if queryExpr != "" && queryFile != "" {
		return fmt.Errorf("use only one of --query or --query-file")
	}
	if queryFile != "" {
		loaded, err := readInputSource(queryFile, cmd.InOrStdin())
		if err != nil {
			return err
		}
		queryExpr = loaded
	}

	// Default quiet mode for non-interactive structured output
	if !flagChanged(cmd, "quiet") && !isTerminal(cmd.OutOrStdout()) && output.IsStructured(outputType) {
		quietFlag = true
	}

	ctx := cmd.Context()
	ctx = withIO(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
	ctx = ctxlog.WithLogger(ctx, ctxlog.New(cmd.ErrOrStderr(), debug))
	ctx = output.WithFormat(ctx, outputType)
	ctx = output.WithQuery(ctx, queryExpr)
	ctx = output.WithLimit(ctx, resultLimit)
	ctx = output.WithSort(ctx, resultSort, resultDesc)
	ctx = output.WithQuiet(ctx, quietFlag)
	ctx = WithErrorFormat(ctx, errorFmt)
	cmd.SetContext(ctx)
	rootCmd.SetContext(ctx)

	if err := validateErrorFormat(errorFmt); err != nil {
		return err
	}

	// Commands that manage credentials or config do not read lists.
	if isCommand(cmd, "auth") || isCommand(cmd, "config") || isCommand(cmd, "import") ||
		cmd.Name() == "completion" || cmd.Name() == "help" {
		return nil
	}

	srcCfg, err := resolveSourceConfig(cmd, cfg)
	if err != nil {
		return err
	}
	opts, err := clientOptionsFromConfig(cfg)
	if err != nil {
		return err
	}

	source, err = newSourceFunc(srcCfg, opts...)
	if err != nil {
		return fmt.Errorf("failed to create list source: %w", err)
	}
	ctxlog.FromContext(ctx).Debug("list source ready", "kind", srcCfg.Kind, "target", source.Describe())
	return nil
}

// Execute runs the root command
func Execute() error {
	err := rootCmd.Execute()
	if closeErr := closeSource(); err == nil {
		err = closeErr
	}
	if err != nil {
		printCommandError(rootCmd.Context(), err)
		return err
	}
	return nil
}

// GetSource returns the initialized list source
func GetSource() api.Source {
	return source
}

func closeSource() error {
	if source == nil {
		return nil
	}
	err := source.Close()
	source = nil
	return err
}

// GetOutputFormat returns the configured output format
func GetOutputFormat() output.Format {
	if outputType != "" {
		return outputType
	}
	parsed, err := output.ParseFormat(outputFmt)
	if err != nil {
		return output.FormatText
	}
	return parsed
}

func init() {
	rootCmd.PersistentPreRunE = rootPersistentPreRunE
	rootCmd.SetVersionTemplate(fmt.Sprintf("navmenu version %s (commit: %s, built: %s)\n", version, commit, date))

	// Global flags
	rootCmd.PersistentFlags().StringVar(&siteURL, "site", "", "SharePoint site URL (env: NAVMENU_SITE_URL)")
	rootCmd.PersistentFlags().StringVar(&apiToken, "token", "", "Bearer token (env: NAVMENU_TOKEN)")
	rootCmd.PersistentFlags().StringVar(&sourceKind, "source", "", "List source (sharepoint|file|sqlite) (env: NAVMENU_SOURCE)")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "text", "Output format (text|json|ndjson|table|yaml)")
	rootCmd.PersistentFlags().StringVar(&outputFmt, "format", "text", "Alias for --output")
	rootCmd.PersistentFlags().StringVar(&queryExpr, "query", "", "jq expression to filter JSON output")
	rootCmd.PersistentFlags().StringVar(&queryFile, "query-file", "", "Read jq expression from file (use - for stdin)")
	rootCmd.PersistentFlags().StringVar(&errorFmt, "error-format", "auto", "Error output format (auto|text|json|yaml)")
	rootCmd.PersistentFlags().BoolVar(&quietFlag, "quiet", false, "Suppress non-essential output")
	rootCmd.PersistentFlags().IntVar(&resultLimit, "result-limit", 0, "Limit number of results in output (0 = unlimited)")
	rootCmd.PersistentFlags().StringVar(&resultSort, "result-sort-by", "", "Sort output results by field")
	rootCmd.PersistentFlags().BoolVar(&resultDesc, "result-desc", false, "Sort output results in descending order")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Log requests and assembly stages to stderr")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default: ~/.config/navmenu/config.yaml)")
}

// isCommand reports whether cmd is name or one of its subcommands.
func isCommand(cmd *cobra.Command, name string) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Name() == name {
			return true
		}
	}
	return false
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
