package cmd

import (
	"testing"

	"github.com/ThePrior/Navigation/internal/config"
)

func TestConfigApplyAndClear(t *testing.T) {
	cfg := &config.Config{}

	if err := applyConfigValue(cfg, "level1_list", "Children"); err != nil {
		t.Fatalf("apply level1_list: %v", err)
	}
	if cfg.Level1List != "Children" {
		t.Fatalf("expected level1_list set, got %q", cfg.Level1List)
	}

	if err := clearConfigValue(cfg, "level1_list"); err != nil {
		t.Fatalf("clear level1_list: %v", err)
	}
	if cfg.Level1List != "" {
		t.Fatalf("expected level1_list cleared, got %q", cfg.Level1List)
	}

	if err := applyConfigValue(cfg, "unknown", "x"); err == nil {
		t.Fatalf("expected error for unknown key")
	}
	if err := clearConfigValue(cfg, "unknown"); err == nil {
		t.Fatalf("expected error for unknown key")
	}
}

func TestConfigApplyValidates(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		wantErr bool
	}{
		{"source", "sqlite", false},
		{"source", "ftp", true},
		{"keyring_backend", "file", false},
		{"keyring_backend", "vault", true},
		{"output_format", "yaml", false},
		{"output_format", "xml", true},
		{"timeout", "45s", false},
		{"timeout", "-1s", true},
		{"timeout", "later", true},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			err := applyConfigValue(&config.Config{}, tt.key, tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("applyConfigValue(%s, %s) error = %v, wantErr %v", tt.key, tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestSupportedConfigKeys(t *testing.T) {
	seen := map[string]bool{}
	for _, k := range supportedConfigKeys() {
		seen[k] = true
	}

	for _, k := range []string{
		"site_url", "list_endpoint", "level0_list", "level1_list", "level2_list", "token",
		"source", "fixture_path", "sqlite_path", "keyring_backend", "output_format", "timeout",
	} {
		if !seen[k] {
			t.Errorf("missing key %s", k)
		}
	}
}

func TestConfigOutputMasksToken(t *testing.T) {
	cfg := &config.Config{
		SiteURL: "https://contoso.example",
		Token:   "abcdefghijklmnop",
	}

	values := configOutput(cfg)
	if values["token"] != "abcd...mnop" {
		t.Fatalf("expected masked token, got %v", values["token"])
	}
	if values["token_set"] != true {
		t.Fatalf("expected token_set true")
	}
	if values["site_url"] != "https://contoso.example" {
		t.Fatalf("site_url = %v", values["site_url"])
	}
}
