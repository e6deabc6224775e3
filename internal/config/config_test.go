package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clientconfig")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfigFile(t, `[kheops]
url = https://demo.kheops.online/api/
access_token = file-token
`)
	cfg, err := Load(path, "", "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.URL != "https://demo.kheops.online/api" {
		t.Errorf("URL = %q, want trailing slash stripped", cfg.URL)
	}
	if cfg.AccessToken != "file-token" {
		t.Errorf("AccessToken = %q", cfg.AccessToken)
	}
}

func TestLoadFlagOverridesFile(t *testing.T) {
	path := writeConfigFile(t, `[kheops]
url = https://file.example.com/api
access_token = file-token
`)
	cfg, err := Load(path, "https://flag.example.com/api", "flag-token")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.URL != "https://flag.example.com/api" {
		t.Errorf("URL = %q, flag must win", cfg.URL)
	}
	if cfg.AccessToken != "flag-token" {
		t.Errorf("AccessToken = %q, flag must win", cfg.AccessToken)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, `[kheops]
access_token = file-token
`)
	t.Setenv(EnvAccessToken, "env-token")
	cfg, err := Load(path, "", "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AccessToken != "env-token" {
		t.Errorf("AccessToken = %q, environment must win over file", cfg.AccessToken)
	}
}

func TestLoadFlagOverridesEnv(t *testing.T) {
	t.Setenv(EnvAccessToken, "env-token")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing"), "", "flag-token")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AccessToken != "flag-token" {
		t.Errorf("AccessToken = %q, flag must win over environment", cfg.AccessToken)
	}
}

func TestLoadMissingFileReturnsFlags(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing"), "https://x.example.com", "tok")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.URL != "https://x.example.com" || cfg.AccessToken != "tok" {
		t.Errorf("unexpected config: %+v", cfg)
	}
}

func TestLoadInvalidFile(t *testing.T) {
	path := writeConfigFile(t, "not an ini file\x00\x01")
	if _, err := Load(path, "", ""); err == nil {
		t.Error("expected error for malformed config file")
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	if err := cfg.Validate(); !errors.Is(err, ErrMissingURL) {
		t.Errorf("expected ErrMissingURL, got %v", err)
	}
	cfg.URL = "https://x.example.com"
	if err := cfg.Validate(); !errors.Is(err, ErrMissingToken) {
		t.Errorf("expected ErrMissingToken, got %v", err)
	}
	cfg.AccessToken = "tok"
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "clientconfig")
	in := &Config{URL: "https://x.example.com/api", AccessToken: "tok"}
	if err := Save(in, path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	out, err := Load(path, "", "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if out.URL != in.URL || out.AccessToken != in.AccessToken {
		t.Errorf("round trip mismatch: %+v", out)
	}
}
