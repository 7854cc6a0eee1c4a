package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ThePrior/Navigation/internal/api"
	"github.com/ThePrior/Navigation/internal/config"
	"github.com/ThePrior/Navigation/internal/output"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage CLI configuration",
	Long: `Manage CLI configuration stored in ~/.config/navmenu/config.yaml.

You can view, set, or unset keys such as site_url, source, level0_list,
fixture_path, timeout, and output_format.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfigFromFlag()
		if err != nil {
			return formatConfigLoadError(err)
		}
		values := configOutput(cfg)
		if structuredOutputRequested() {
			return printStructured(values)
		}

		out := stdoutFromContext(cmd.Context())
		fmt.Fprintln(out, "Config:")
		for _, key := range supportedConfigKeys() {
			fmt.Fprintf(out, "  %s: %v\n", key, values[key])
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

var configUnsetCmd = &cobra.Command{
	Use:   "unset <key>",
	Short: "Unset a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigUnset,
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List supported configuration keys",
	RunE: func(cmd *cobra.Command, args []string) error {
		keys := supportedConfigKeys()
		sort.Strings(keys)

		if structuredOutputRequested() {
			return printStructured(keys)
		}

		out := stdoutFromContext(cmd.Context())
		fmt.Fprintln(out, "Supported keys:")
		for _, key := range keys {
			fmt.Fprintf(out, "  %s\n", key)
		}
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := configPath()
		if err != nil {
			return err
		}
		if structuredOutputRequested() {
			return printStructured(map[string]string{"path": path})
		}
		fmt.Fprintln(stdoutFromContext(cmd.Context()), path)
		return nil
	},
}

func configPath() (string, error) {
	if strings.TrimSpace(configFile) != "" {
		return configFile, nil
	}
	return config.DefaultConfigPath()
}

// configField binds a config key to its struct field.
type configField struct {
	key      string
	ptr      func(*config.Config) *string
	validate func(string) error
}

var configFields = []configField{
	{key: "site_url", ptr: func(c *config.Config) *string { return &c.SiteURL }},
	{key: "list_endpoint", ptr: func(c *config.Config) *string { return &c.ListEndpoint }},
	{key: "level0_list", ptr: func(c *config.Config) *string { return &c.Level0List }},
	{key: "level1_list", ptr: func(c *config.Config) *string { return &c.Level1List }},
	{key: "level2_list", ptr: func(c *config.Config) *string { return &c.Level2List }},
	{key: "token", ptr: func(c *config.Config) *string { return &c.Token }},
	{key: "source", ptr: func(c *config.Config) *string { return &c.Source }, validate: validateSourceKind},
	{key: "fixture_path", ptr: func(c *config.Config) *string { return &c.FixturePath }},
	{key: "sqlite_path", ptr: func(c *config.Config) *string { return &c.SQLitePath }},
	{key: "keyring_backend", ptr: func(c *config.Config) *string { return &c.KeyringBackend }, validate: validateKeyringBackend},
	{key: "output_format", ptr: func(c *config.Config) *string { return &c.OutputFormat }, validate: validateOutputFormat},
	{key: "timeout", ptr: func(c *config.Config) *string { return &c.Timeout }, validate: validateTimeout},
}

func lookupConfigField(key string) (configField, error) {
	for _, f := range configFields {
		if f.key == key {
			return f, nil
		}
	}
	return configField{}, fmt.Errorf("unknown config key: %s", key)
}

func supportedConfigKeys() []string {
	keys := make([]string, 0, len(configFields))
	for _, f := range configFields {
		keys = append(keys, f.key)
	}
	return keys
}

func applyConfigValue(cfg *config.Config, key, value string) error {
	field, err := lookupConfigField(key)
	if err != nil {
		return err
	}
	if field.validate != nil {
		if err := field.validate(value); err != nil {
			return err
		}
	}
	*field.ptr(cfg) = value
	return nil
}

func clearConfigValue(cfg *config.Config, key string) error {
	field, err := lookupConfigField(key)
	if err != nil {
		return err
	}
	*field.ptr(cfg) = ""
	return nil
}

func validateSourceKind(v string) error {
	switch strings.ToLower(v) {
	case api.KindSharePoint, api.KindFile, api.KindSQLite:
		return nil
	}
	return fmt.Errorf("invalid source %q (expected sharepoint|file|sqlite)", v)
}

func validateKeyringBackend(v string) error {
	switch strings.ToLower(v) {
	case "auto", "keychain", "file":
		return nil
	}
	return fmt.Errorf("invalid keyring_backend %q (expected auto|keychain|file)", v)
}

func validateOutputFormat(v string) error {
	_, err := output.ParseFormat(v)
	return err
}

func validateTimeout(v string) error {
	_, err := (&config.Config{Timeout: v}).RequestTimeout()
	return err
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configUnsetCmd)
	configCmd.AddCommand(configKeysCmd)
	configCmd.AddCommand(configPathCmd)

	rootCmd.AddCommand(configCmd)
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key := strings.ToLower(strings.TrimSpace(args[0]))
	value := strings.TrimSpace(args[1])

	cfg, err := loadConfigFromFlag()
	if err != nil {
		return formatConfigLoadError(err)
	}

	if err := applyConfigValue(cfg, key, value); err != nil {
		return err
	}

	path, err := configPath()
	if err != nil {
		return err
	}
	if err := cfg.Save(path); err != nil {
		return err
	}

	if structuredOutputRequested() {
		if key == "token" {
			value = maskToken(value)
		}
		return printStructured(map[string]string{
			"status": "updated",
			"key":    key,
			"value":  value,
		})
	}

	fmt.Fprintf(stdoutFromContext(cmd.Context()), "Updated %s\n", key)
	return nil
}

func runConfigUnset(cmd *cobra.Command, args []string) error {
	key := strings.ToLower(strings.TrimSpace(args[0]))

	cfg, err := loadConfigFromFlag()
	if err != nil {
		return formatConfigLoadError(err)
	}

	if err := clearConfigValue(cfg, key); err != nil {
		return err
	}

	path, err := configPath()
	if err != nil {
		return err
	}
	if err := cfg.Save(path); err != nil {
		return err
	}

	if structuredOutputRequested() {
		return printStructured(map[string]string{
			"status": "unset",
			"key":    key,
		})
	}

	fmt.Fprintf(stdoutFromContext(cmd.Context()), "Unset %s\n", key)
	return nil
}

func configOutput(cfg *config.Config) map[string]interface{} {
	values := make(map[string]interface{}, len(configFields)+1)
	for _, f := range configFields {
		values[f.key] = *f.ptr(cfg)
	}
	values["token"] = maskToken(cfg.Token)
	values["token_set"] = cfg.Token != ""
	return values
}
