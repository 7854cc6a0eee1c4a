package secrets

import (
	"errors"
	"strings"
	"testing"

	"github.com/99designs/keyring"
)

// lockedKeyring fails every read the way a locked macOS login keychain does.
type lockedKeyring struct {
	*memKeyring
}

func (lockedKeyring) Get(string) (keyring.Item, error) {
	return keyring.Item{}, errors.New("SecItemCopyMatching: errSecInteractionNotAllowed -25308")
}

func TestWrapKeychainError(t *testing.T) {
	notFound := keyring.ErrKeyNotFound
	tests := []struct {
		name       string
		err        error
		wantSame   bool
		wantUnlock bool
	}{
		{"nil", nil, true, false},
		{"missing token", notFound, true, false},
		{"locked by code", errors.New("read token: -25308"), false, true},
		{"locked by name", errors.New("errSecInteractionNotAllowed"), false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := wrapKeychainError(tt.err)
			if tt.wantSame && got != tt.err {
				t.Fatalf("wrapKeychainError() = %v, want %v unchanged", got, tt.err)
			}
			if !tt.wantUnlock {
				return
			}
			if !errors.Is(got, tt.err) {
				t.Errorf("wrapped error should keep the cause")
			}
			for _, want := range []string{"security unlock-keychain", envKeyringBackend + "=file"} {
				if !strings.Contains(got.Error(), want) {
					t.Errorf("wrapped error missing %q: %s", want, got)
				}
			}
		})
	}
}

func TestKeyringStore_LockedKeychainExplainsRecovery(t *testing.T) {
	store := NewKeyringStore(lockedKeyring{newMemKeyring()})

	_, err := store.GetToken("default")
	if err == nil {
		t.Fatal("GetToken() expected error from locked keychain")
	}
	if !strings.Contains(err.Error(), `read token "default"`) {
		t.Errorf("error should name the profile, got %q", err)
	}
	if !strings.Contains(err.Error(), "security unlock-keychain") {
		t.Errorf("error should explain how to unlock, got %q", err)
	}
	if IsNotFound(err) {
		t.Error("locked keychain must not look like a missing token")
	}
}
