// Package secrets keeps SharePoint credentials in the system keyring.
package secrets

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/99designs/keyring"

	"github.com/ThePrior/Navigation/internal/config"
)

const (
	tokenKeyPrefix    = "token:"
	defaultAccountKey = "default_account"

	envKeyringBackend  = "NAVMENU_KEYRING_BACKEND"
	envKeyringPassword = "NAVMENU_KEYRING_PASSWORD"

	keyringOpenTimeout = 5 * time.Second
)

var errKeyringTimeout = errors.New("timed out opening keyring")

// keyringOpenFunc is swapped in tests.
var keyringOpenFunc = keyring.Open

// Token is a stored credential for one profile.
type Token struct {
	Profile     string    `json:"profile"`
	SiteURL     string    `json:"site_url,omitempty"`
	AccessToken string    `json:"access_token"`
	CreatedAt   time.Time `json:"created_at"`
}

// Store persists credentials.
type Store interface {
	Keys() ([]string, error)
	GetToken(profile string) (Token, error)
	SetToken(profile string, tok Token) error
	DeleteToken(profile string) error
	SetDefaultAccount(profile string) error
	GetDefaultAccount() (string, error)
}

// KeyringStore is a Store backed by github.com/99designs/keyring.
type KeyringStore struct {
	ring keyring.Keyring
}

// NewKeyringStore wraps an opened keyring.
func NewKeyringStore(ring keyring.Keyring) *KeyringStore {
	return &KeyringStore{ring: ring}
}

// KeyringBackendInfo records which backend was requested and where the
// setting came from (env, config or default).
type KeyringBackendInfo struct {
	Value  string
	Source string
}

// IsNotFound reports whether err means the requested item does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, keyring.ErrKeyNotFound)
}

// ResolveKeyringBackendInfo picks the backend from NAVMENU_KEYRING_BACKEND,
// then the config file, then "auto".
func ResolveKeyringBackendInfo() (KeyringBackendInfo, error) {
	if v := strings.ToLower(strings.TrimSpace(os.Getenv(envKeyringBackend))); v != "" {
		return KeyringBackendInfo{Value: v, Source: "env"}, nil
	}
	cfg, err := config.ReadConfig()
	if err != nil {
		return KeyringBackendInfo{}, err
	}
	if v := strings.ToLower(strings.TrimSpace(cfg.KeyringBackend)); v != "" {
		return KeyringBackendInfo{Value: v, Source: "config"}, nil
	}
	return KeyringBackendInfo{Value: "auto", Source: "default"}, nil
}

func allowedBackends(info KeyringBackendInfo) ([]keyring.BackendType, error) {
	switch info.Value {
	case "", "auto":
		return nil, nil
	case "keychain":
		return []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
		}, nil
	case "file":
		return []keyring.BackendType{keyring.FileBackend}, nil
	default:
		return nil, fmt.Errorf("invalid keyring backend %q from %s (expected auto|keychain|file)", info.Value, info.Source)
	}
}

// shouldForceFileBackend falls back to the file backend on Linux when no
// D-Bus session is available for the Secret Service.
func shouldForceFileBackend(goos string, info KeyringBackendInfo, dbusAddr string) bool {
	return goos == "linux" && info.Value == "auto" && dbusAddr == ""
}

// shouldUseKeyringTimeout guards against Secret Service prompts that never
// return when a D-Bus session exists but no keyring daemon answers.
func shouldUseKeyringTimeout(goos string, info KeyringBackendInfo, dbusAddr string) bool {
	return goos == "linux" && info.Value == "auto" && dbusAddr != ""
}

func openKeyringWithTimeout(cfg keyring.Config, timeout time.Duration) (keyring.Keyring, error) {
	type result struct {
		ring keyring.Keyring
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		ring, err := keyringOpenFunc(cfg)
		ch <- result{ring: ring, err: err}
	}()

	select {
	case res := <-ch:
		return res.ring, res.err
	case <-time.After(timeout):
		return nil, fmt.Errorf("%w after %s; set %s=file (and %s) to use the encrypted file backend",
			errKeyringTimeout, timeout, envKeyringBackend, envKeyringPassword)
	}
}

func filePasswordFunc() keyring.PromptFunc {
	if pw := os.Getenv(envKeyringPassword); pw != "" {
		return keyring.FixedStringPrompt(pw)
	}
	return keyring.TerminalPrompt
}

// OpenDefault opens the keyring selected by the environment and config.
func OpenDefault() (Store, error) {
	if err := EnsureKeychainAccess(); err != nil {
		return nil, err
	}

	info, err := ResolveKeyringBackendInfo()
	if err != nil {
		return nil, err
	}
	backends, err := allowedBackends(info)
	if err != nil {
		return nil, err
	}

	dbusAddr := os.Getenv("DBUS_SESSION_BUS_ADDRESS")
	if shouldForceFileBackend(runtime.GOOS, info, dbusAddr) {
		backends = []keyring.BackendType{keyring.FileBackend}
	}

	keyringDir, err := config.EnsureKeyringDir()
	if err != nil {
		return nil, err
	}

	cfg := keyring.Config{
		ServiceName:              config.AppName,
		AllowedBackends:          backends,
		KeychainTrustApplication: true,
		FileDir:                  keyringDir,
		FilePasswordFunc:         filePasswordFunc(),
	}

	var ring keyring.Keyring
	if shouldUseKeyringTimeout(runtime.GOOS, info, dbusAddr) {
		ring, err = openKeyringWithTimeout(cfg, keyringOpenTimeout)
	} else {
		ring, err = keyringOpenFunc(cfg)
	}
	if err != nil {
		return nil, wrapKeychainError(err)
	}
	return NewKeyringStore(ring), nil
}

// Keys lists the profiles that have a stored token.
func (s *KeyringStore) Keys() ([]string, error) {
	keys, err := s.ring.Keys()
	if err != nil {
		return nil, wrapKeychainError(err)
	}
	profiles := make([]string, 0, len(keys))
	for _, k := range keys {
		if strings.HasPrefix(k, tokenKeyPrefix) {
			profiles = append(profiles, strings.TrimPrefix(k, tokenKeyPrefix))
		}
	}
	sort.Strings(profiles)
	return profiles, nil
}

// GetToken reads the token stored for profile.
func (s *KeyringStore) GetToken(profile string) (Token, error) {
	item, err := s.ring.Get(tokenKeyPrefix + profile)
	if err != nil {
		return Token{}, wrapKeychainError(fmt.Errorf("read token %q: %w", profile, err))
	}
	var tok Token
	if err := json.Unmarshal(item.Data, &tok); err != nil {
		return Token{}, fmt.Errorf("decode token %q: %w", profile, err)
	}
	return tok, nil
}

// SetToken stores tok under profile.
func (s *KeyringStore) SetToken(profile string, tok Token) error {
	if strings.TrimSpace(profile) == "" {
		return errors.New("profile required")
	}
	tok.Profile = profile
	if tok.CreatedAt.IsZero() {
		tok.CreatedAt = time.Now().UTC()
	}
	data, err := json.Marshal(tok)
	if err != nil {
		return fmt.Errorf("encode token: %w", err)
	}
	err = s.ring.Set(keyring.Item{
		Key:   tokenKeyPrefix + profile,
		Data:  data,
		Label: config.AppName + " " + profile,
	})
	return wrapKeychainError(err)
}

// DeleteToken removes the token stored for profile.
func (s *KeyringStore) DeleteToken(profile string) error {
	if err := s.ring.Remove(tokenKeyPrefix + profile); err != nil {
		return wrapKeychainError(fmt.Errorf("remove token %q: %w", profile, err))
	}
	return nil
}

// SetDefaultAccount records which profile commands use by default.
func (s *KeyringStore) SetDefaultAccount(profile string) error {
	return wrapKeychainError(s.ring.Set(keyring.Item{Key: defaultAccountKey, Data: []byte(profile)}))
}

// GetDefaultAccount returns the default profile, if one was recorded.
func (s *KeyringStore) GetDefaultAccount() (string, error) {
	item, err := s.ring.Get(defaultAccountKey)
	if err != nil {
		return "", wrapKeychainError(err)
	}
	return string(item.Data), nil
}

// wrapKeychainError adds recovery steps to errors caused by a locked macOS
// keychain and returns any other error unchanged.
func wrapKeychainError(err error) error {
	if err == nil {
		return nil
	}
	if !isLockedMessage(err.Error()) {
		return err
	}
	return fmt.Errorf("%w\n\nThe login keychain is locked. Unlock it with:\n  security unlock-keychain %s\nor set %s=file to use the encrypted file backend",
		err, "~/Library/Keychains/login.keychain-db", envKeyringBackend)
}

func isLockedMessage(msg string) bool {
	return strings.Contains(msg, "errSecInteractionNotAllowed") || strings.Contains(msg, "-25308")
}
