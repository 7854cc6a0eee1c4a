package secrets

import (
	"sort"
	"testing"
	"time"

	"github.com/99designs/keyring"
)

// memKeyring is an in-memory keyring.Keyring.
type memKeyring struct {
	items map[string]keyring.Item
}

func newMemKeyring() *memKeyring {
	return &memKeyring{items: map[string]keyring.Item{}}
}

func (m *memKeyring) Get(key string) (keyring.Item, error) {
	item, ok := m.items[key]
	if !ok {
		return keyring.Item{}, keyring.ErrKeyNotFound
	}
	return item, nil
}

func (m *memKeyring) GetMetadata(_ string) (keyring.Metadata, error) {
	return keyring.Metadata{}, nil
}

func (m *memKeyring) Set(item keyring.Item) error {
	m.items[item.Key] = item
	return nil
}

func (m *memKeyring) Remove(key string) error {
	if _, ok := m.items[key]; !ok {
		return keyring.ErrKeyNotFound
	}
	delete(m.items, key)
	return nil
}

func (m *memKeyring) Keys() ([]string, error) {
	keys := make([]string, 0, len(m.items))
	for k := range m.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func TestKeyringStore_TokenRoundTrip(t *testing.T) {
	store := NewKeyringStore(newMemKeyring())

	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	if err := store.SetToken("default", Token{SiteURL: "https://intranet.example", AccessToken: "secret", CreatedAt: created}); err != nil {
		t.Fatalf("SetToken() error = %v", err)
	}

	tok, err := store.GetToken("default")
	if err != nil {
		t.Fatalf("GetToken() error = %v", err)
	}
	if tok.Profile != "default" || tok.SiteURL != "https://intranet.example" || tok.AccessToken != "secret" {
		t.Errorf("unexpected token %+v", tok)
	}
	if !tok.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt = %v, want %v", tok.CreatedAt, created)
	}
}

func TestKeyringStore_SetTokenStampsCreatedAt(t *testing.T) {
	store := NewKeyringStore(newMemKeyring())
	if err := store.SetToken("work", Token{AccessToken: "x"}); err != nil {
		t.Fatal(err)
	}
	tok, _ := store.GetToken("work")
	if tok.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
}

func TestKeyringStore_KeysOnlyListsProfiles(t *testing.T) {
	store := NewKeyringStore(newMemKeyring())
	_ = store.SetToken("work", Token{AccessToken: "a"})
	_ = store.SetToken("home", Token{AccessToken: "b"})
	_ = store.SetDefaultAccount("work")

	keys, err := store.Keys()
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 2 || keys[0] != "home" || keys[1] != "work" {
		t.Errorf("Keys() = %v, want [home work]", keys)
	}

	def, err := store.GetDefaultAccount()
	if err != nil || def != "work" {
		t.Errorf("GetDefaultAccount() = %q, %v", def, err)
	}
}

func TestKeyringStore_DeleteAndNotFound(t *testing.T) {
	store := NewKeyringStore(newMemKeyring())
	_ = store.SetToken("default", Token{AccessToken: "a"})

	if err := store.DeleteToken("default"); err != nil {
		t.Fatalf("DeleteToken() error = %v", err)
	}
	_, err := store.GetToken("default")
	if !IsNotFound(err) {
		t.Errorf("GetToken() after delete error = %v, want not found", err)
	}
	if err := store.DeleteToken("default"); !IsNotFound(err) {
		t.Errorf("second DeleteToken() error = %v, want not found", err)
	}
}

func TestKeyringStore_RequiresProfile(t *testing.T) {
	store := NewKeyringStore(newMemKeyring())
	if err := store.SetToken("  ", Token{}); err == nil {
		t.Error("expected error for empty profile")
	}
}

func TestAllowedBackends(t *testing.T) {
	tests := []struct {
		value   string
		want    []keyring.BackendType
		wantErr bool
	}{
		{"auto", nil, false},
		{"", nil, false},
		{"file", []keyring.BackendType{keyring.FileBackend}, false},
		{"keychain", []keyring.BackendType{keyring.KeychainBackend, keyring.SecretServiceBackend, keyring.WinCredBackend}, false},
		{"vault", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, err := allowedBackends(KeyringBackendInfo{Value: tt.value, Source: "test"})
			if (err != nil) != tt.wantErr {
				t.Fatalf("allowedBackends() error = %v, wantErr %v", err, tt.wantErr)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("allowedBackends() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("allowedBackends()[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestResolveKeyringBackendInfo_Env(t *testing.T) {
	t.Setenv("NAVMENU_KEYRING_BACKEND", " FILE ")
	info, err := ResolveKeyringBackendInfo()
	if err != nil {
		t.Fatal(err)
	}
	if info.Value != "file" || info.Source != "env" {
		t.Errorf("ResolveKeyringBackendInfo() = %+v", info)
	}
}

func TestResolveKeyringBackendInfo_Default(t *testing.T) {
	t.Setenv("NAVMENU_KEYRING_BACKEND", "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	info, err := ResolveKeyringBackendInfo()
	if err != nil {
		t.Fatal(err)
	}
	if info.Value != "auto" || info.Source != "default" {
		t.Errorf("ResolveKeyringBackendInfo() = %+v", info)
	}
}
