package cmd

import (
	"bytes"
	"context"
	"sort"
	"testing"

	"github.com/99designs/keyring"

	"github.com/ThePrior/Navigation/internal/api"
	"github.com/ThePrior/Navigation/internal/navmenu"
	"github.com/ThePrior/Navigation/internal/output"
	"github.com/ThePrior/Navigation/internal/secrets"
)

func withTestContext(t *testing.T, format output.Format) (*bytes.Buffer, *bytes.Buffer, func()) {
	t.Helper()
	in := &bytes.Buffer{}
	out := &bytes.Buffer{}
	errBuf := &bytes.Buffer{}

	ctx := withIO(context.Background(), in, out, errBuf)
	ctx = output.WithFormat(ctx, format)
	ctx = output.WithQuiet(ctx, true)
	rootCmd.SetContext(ctx)

	prevType := outputType
	prevFmt := outputFmt
	outputType = format
	outputFmt = string(format)

	return out, errBuf, func() {
		outputType = prevType
		outputFmt = prevFmt
		rootCmd.SetContext(context.Background())
	}
}

// fakeSource serves fixed lists per level and records fetch order.
type fakeSource struct {
	levels  map[navmenu.Level][]navmenu.RawEntry
	named   map[string][]navmenu.RawEntry
	errs    map[navmenu.Level]error
	fetched []navmenu.Level
	closed  bool
}

func (f *fakeSource) FetchLevel(_ context.Context, level navmenu.Level) ([]navmenu.RawEntry, error) {
	f.fetched = append(f.fetched, level)
	if err := f.errs[level]; err != nil {
		return nil, err
	}
	return f.levels[level], nil
}

func (f *fakeSource) FetchList(_ context.Context, list string) ([]navmenu.RawEntry, error) {
	entries, ok := f.named[list]
	if !ok {
		return nil, &navmenu.SourceError{List: list, Message: "list not found"}
	}
	return entries, nil
}

func (f *fakeSource) Lists() api.ListNames                { return api.DefaultLists }
func (f *fakeSource) ListName(level navmenu.Level) string { return api.DefaultLists.For(level) }
func (f *fakeSource) Describe() string                    { return "fake" }

func (f *fakeSource) Close() error {
	f.closed = true
	return nil
}

func strPtr(s string) *string { return &s }

// sampleSource holds Home/Services at level 0, About and Consulting at
// level 1 and Team at level 2.
func sampleSource() *fakeSource {
	return &fakeSource{levels: map[navmenu.Level][]navmenu.RawEntry{
		navmenu.Level0: {
			{Title: "Home", URL: "/", Clickable: true},
			{Title: "Services", Clickable: false},
		},
		navmenu.Level1: {
			{Title: "About", URL: "/about", Clickable: true, ParentName: strPtr("Home")},
			{Title: "Consulting", URL: "/services/consulting", Clickable: true, ParentName: strPtr("Services")},
		},
		navmenu.Level2: {
			{Title: "Team", URL: "/about/team", Clickable: true, ParentName: strPtr("About")},
		},
	}}
}

// memStore is an in-memory secrets.Store.
type memStore struct {
	tokens         map[string]secrets.Token
	defaultAccount string
}

func newMemStore() *memStore {
	return &memStore{tokens: map[string]secrets.Token{}}
}

func (m *memStore) Keys() ([]string, error) {
	keys := make([]string, 0, len(m.tokens))
	for k := range m.tokens {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (m *memStore) GetToken(profile string) (secrets.Token, error) {
	tok, ok := m.tokens[profile]
	if !ok {
		return secrets.Token{}, keyring.ErrKeyNotFound
	}
	return tok, nil
}

func (m *memStore) SetToken(profile string, tok secrets.Token) error {
	m.tokens[profile] = tok
	return nil
}

func (m *memStore) DeleteToken(profile string) error {
	if _, ok := m.tokens[profile]; !ok {
		return keyring.ErrKeyNotFound
	}
	delete(m.tokens, profile)
	return nil
}

func (m *memStore) SetDefaultAccount(profile string) error {
	m.defaultAccount = profile
	return nil
}

func (m *memStore) GetDefaultAccount() (string, error) {
	return m.defaultAccount, nil
}
