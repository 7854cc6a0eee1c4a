package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ThePrior/Navigation/internal/api"
	"github.com/ThePrior/Navigation/internal/secrets"
)

// verifier checks stored credentials against the site.
type verifier interface {
	Verify(ctx context.Context) error
}

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage SharePoint credentials",
	Long: `Manage the SharePoint site URL and bearer token used by the sharepoint source.

Credentials are stored in your system keychain (macOS Keychain,
Windows Credential Manager, or an encrypted file on Linux).

Examples:
  navmenu auth login --site https://contoso.sharepoint.com --token TOKEN
  navmenu auth login  # Interactive prompt
  navmenu auth status --verify
  navmenu auth logout`,
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store the site URL and token",
	Long: `Store the SharePoint site URL and bearer token in the keychain.

Values come from --site/--token, then NAVMENU_SITE_URL/NAVMENU_TOKEN, then an
interactive prompt. The token is checked by reading the level 0 list before it
is stored; a rejected token aborts the login.`,
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear stored credentials",
	RunE:  runLogout,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current authentication status",
	Long: `Display the stored site and a masked token.

Examples:
  navmenu auth status
  navmenu auth status --verify  # Also read the level 0 list`,
	RunE: runStatus,
}

var (
	verifyAuth bool
	skipVerify bool
)

func init() {
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(authCmd)

	loginCmd.Flags().BoolVar(&skipVerify, "no-verify", false, "Store credentials without checking them")
	statusCmd.Flags().BoolVar(&verifyAuth, "verify", false, "Verify credentials against the site")
}

func runLogin(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := stdoutFromContext(ctx)
	structured := structuredOutputRequested()

	store, err := openSecretsStore()
	if err != nil {
		return fmt.Errorf("failed to open credential store: %w", err)
	}

	site := ""
	if flagChanged(cmd, "site") {
		site = siteURL
	}
	token := ""
	if flagChanged(cmd, "token") {
		token = apiToken
	}
	site = firstNonEmpty(site, envGet("NAVMENU_SITE_URL"))
	token = firstNonEmpty(token, envGet("NAVMENU_TOKEN"))

	reader := bufio.NewReader(stdinFromContext(ctx))
	if site == "" {
		if site, err = promptString(ctx, reader, "Site URL: "); err != nil {
			return fmt.Errorf("failed to read site URL: %w", err)
		}
	}
	if site == "" {
		return fmt.Errorf("site URL is required")
	}
	if token == "" {
		if token, err = promptSecret(ctx, reader, "Bearer token: "); err != nil {
			return fmt.Errorf("failed to read token: %w", err)
		}
	}
	if token == "" {
		return fmt.Errorf("token is required")
	}

	if !skipVerify {
		if !structured {
			fmt.Fprintln(out, "Verifying credentials...")
		}
		if err := verifyCredentials(ctx, site, token); err != nil {
			var authErr api.AuthenticationError
			if errors.As(err, &authErr) {
				return fmt.Errorf("authentication failed: %w", err)
			}
			// Other failures (missing list, rate limit) still prove the site answers.
			if !structured {
				fmt.Fprintf(out, "Warning: could not verify credentials: %v\n", err)
			}
		} else if !structured {
			fmt.Fprintln(out, "Credentials verified.")
		}
	}

	tok := secrets.Token{
		Profile:     defaultProfile,
		SiteURL:     strings.TrimRight(site, "/"),
		AccessToken: token,
		CreatedAt:   time.Now().UTC(),
	}
	if err := store.SetToken(defaultProfile, tok); err != nil {
		return fmt.Errorf("failed to store credentials: %w", err)
	}
	if err := store.SetDefaultAccount(defaultProfile); err != nil {
		return fmt.Errorf("failed to set default account: %w", err)
	}

	if structured {
		return printStructured(map[string]interface{}{
			"status": "authenticated",
			"site":   tok.SiteURL,
		})
	}
	fmt.Fprintf(out, "Authenticated for %s\n", tok.SiteURL)
	return nil
}

func verifyCredentials(ctx context.Context, site, token string) error {
	cfg, err := loadConfigFromFlag()
	if err != nil {
		return formatConfigLoadError(err)
	}
	opts, err := clientOptionsFromConfig(cfg)
	if err != nil {
		return err
	}
	opts = append(opts, api.WithLists(listNamesFromConfig(cfg)))
	return newVerifierFunc(site, token, opts...).Verify(ctx)
}

func runLogout(cmd *cobra.Command, args []string) error {
	store, err := openSecretsStore()
	if err != nil {
		return fmt.Errorf("failed to open credential store: %w", err)
	}
	if err := store.DeleteToken(defaultProfile); err != nil && !secrets.IsNotFound(err) {
		return fmt.Errorf("failed to remove credentials: %w", err)
	}

	if structuredOutputRequested() {
		return printStructured(map[string]interface{}{
			"status": "logged_out",
		})
	}
	fmt.Fprintln(stdoutFromContext(cmd.Context()), "Logged out. Credentials removed from the keychain.")
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := stdoutFromContext(ctx)
	structured := structuredOutputRequested()

	store, err := openSecretsStore()
	if err != nil {
		return fmt.Errorf("failed to open credential store: %w", err)
	}

	tok, err := store.GetToken(defaultProfile)
	if err != nil {
		if !secrets.IsNotFound(err) {
			return fmt.Errorf("failed to read credentials: %w", err)
		}
		if structured {
			return printStructured(map[string]interface{}{
				"authenticated": false,
			})
		}
		fmt.Fprintln(out, "Status: Not authenticated")
		fmt.Fprintln(out, "\nRun 'navmenu auth login' to authenticate.")
		return nil
	}

	var verified *bool
	verifyError := ""
	if verifyAuth {
		ok := true
		if err := verifyCredentials(ctx, tok.SiteURL, tok.AccessToken); err != nil {
			ok = false
			verifyError = err.Error()
		}
		verified = &ok
	}

	if structured {
		result := map[string]interface{}{
			"authenticated": true,
			"profile":       tok.Profile,
			"site":          tok.SiteURL,
			"token_preview": maskToken(tok.AccessToken),
		}
		if !tok.CreatedAt.IsZero() {
			result["authenticated_at"] = tok.CreatedAt.Format(time.RFC3339)
		}
		if verifyAuth {
			result["verified"] = verified
			if verifyError != "" {
				result["verify_error"] = verifyError
			}
		}
		return printStructured(result)
	}

	fmt.Fprintln(out, "Status: Authenticated")
	fmt.Fprintf(out, "Profile: %s\n", tok.Profile)
	fmt.Fprintf(out, "Site: %s\n", tok.SiteURL)
	if !tok.CreatedAt.IsZero() {
		fmt.Fprintf(out, "Authenticated at: %s\n", tok.CreatedAt.Format(time.RFC3339))
	}
	fmt.Fprintf(out, "Token: %s\n", maskToken(tok.AccessToken))
	if verified != nil {
		if *verified {
			fmt.Fprintln(out, "Verification: OK")
		} else {
			fmt.Fprintf(out, "Verification: FAILED - %s\n", verifyError)
		}
	}
	return nil
}

// promptString prompts for a line of input.
func promptString(ctx context.Context, reader *bufio.Reader, prompt string) (string, error) {
	fmt.Fprint(stderrFromContext(ctx), prompt)
	input, err := reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && input != "") {
		return "", err
	}
	return strings.TrimSpace(input), nil
}

// promptSecret prompts without echo when stdin is a terminal.
func promptSecret(ctx context.Context, reader *bufio.Reader, prompt string) (string, error) {
	if file, ok := stdinFromContext(ctx).(*os.File); ok && term.IsTerminal(int(file.Fd())) {
		fmt.Fprint(stderrFromContext(ctx), prompt)
		password, err := term.ReadPassword(int(file.Fd()))
		fmt.Fprintln(stderrFromContext(ctx))
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(password)), nil
	}
	return promptString(ctx, reader, prompt)
}

// maskToken masks a token for display, showing only first and last 4 characters
func maskToken(token string) string {
	if len(token) <= 12 {
		return "****"
	}
	return token[:4] + "..." + token[len(token)-4:]
}
