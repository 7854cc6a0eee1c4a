//go:build darwin

package secrets

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"golang.org/x/term"
)

func loginKeychainPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.Getenv("HOME")
	}
	return filepath.Join(home, "Library", "Keychains", "login.keychain-db")
}

// IsKeychainLockedError reports whether errStr comes from a locked keychain.
func IsKeychainLockedError(errStr string) bool {
	return isLockedMessage(errStr)
}

// CheckKeychainLocked reports whether the login keychain is locked.
func CheckKeychainLocked() bool {
	cmd := exec.Command("security", "show-keychain-info", loginKeychainPath())
	return cmd.Run() != nil
}

// UnlockKeychain prompts for the login password through the security tool.
func UnlockKeychain() error {
	cmd := exec.Command("security", "unlock-keychain", loginKeychainPath())
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("unlock keychain: %w", err)
	}
	return nil
}

// EnsureKeychainAccess unlocks the login keychain interactively when it is
// locked, or explains how to do so when no terminal is attached.
func EnsureKeychainAccess() error {
	if os.Getenv(envKeyringBackend) == "file" || !CheckKeychainLocked() {
		return nil
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("login keychain is locked; run: security unlock-keychain %s", loginKeychainPath())
	}
	return UnlockKeychain()
}
