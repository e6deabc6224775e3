// Package config provides configuration management for the kheops client.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/ini.v1"
)

// EnvAccessToken is the environment variable consulted for the access
// token when no --token flag is given.
const EnvAccessToken = "ACCESS_TOKEN"

// Config holds the resolved client settings for one invocation.
//
// Config file location:
//   - Windows: %USERPROFILE%\.config\kheops\clientconfig
//   - Unix: ~/.config/kheops/clientconfig
//
// INI format:
//
//	[kheops]
//	url = https://demo.kheops.online/api
//	access_token = <token>
type Config struct {
	// URL is the base URL of the DICOMweb API, without a trailing slash.
	URL string `ini:"url"`

	// AccessToken authorizes requests as a bearer token.
	AccessToken string `ini:"access_token"`

	// ShowProgress enables progress bars on stderr.
	ShowProgress bool

	// Verbosity is the -v flag count.
	Verbosity int
}

// Validation errors
var (
	ErrMissingURL   = errors.New("the URL of the DICOMweb API is required")
	ErrMissingToken = errors.New("an access token is required")
)

// DefaultConfigPath returns the default path for the clientconfig file.
func DefaultConfigPath() (string, error) {
	var configDir string

	if runtime.GOOS == "windows" {
		userProfile := os.Getenv("USERPROFILE")
		if userProfile == "" {
			return "", errors.New("USERPROFILE environment variable not set")
		}
		configDir = filepath.Join(userProfile, ".config", "kheops")
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, ".config", "kheops")
	}

	return filepath.Join(configDir, "clientconfig"), nil
}

// Load resolves the configuration for one invocation. Explicit flag
// values take precedence, then the ACCESS_TOKEN environment variable
// for the token, then the INI config file. A missing config file is
// not an error; missing required values surface in Validate.
func Load(path, urlFlag, tokenFlag string) (*Config, error) {
	cfg := &Config{
		URL:         urlFlag,
		AccessToken: tokenFlag,
	}
	if cfg.AccessToken == "" {
		cfg.AccessToken = os.Getenv(EnvAccessToken)
	}

	if path == "" {
		var err error
		path, err = DefaultConfigPath()
		if err != nil {
			return cfg, nil
		}
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	iniFile, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load clientconfig: %w", err)
	}

	section := iniFile.Section("kheops")
	if cfg.URL == "" {
		cfg.URL = section.Key("url").String()
	}
	if cfg.AccessToken == "" {
		cfg.AccessToken = section.Key("access_token").String()
	}
	cfg.URL = strings.TrimRight(cfg.URL, "/")

	return cfg, nil
}

// Save writes the connection settings to an INI file, creating parent
// directories if needed. The token is sensitive, so the file is
// written with user-only permissions via a temporary file and rename.
func Save(cfg *Config, path string) error {
	if path == "" {
		var err error
		path, err = DefaultConfigPath()
		if err != nil {
			return fmt.Errorf("failed to determine config path: %w", err)
		}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	iniFile := ini.Empty()
	section, err := iniFile.NewSection("kheops")
	if err != nil {
		return fmt.Errorf("failed to create kheops section: %w", err)
	}
	section.Key("url").SetValue(cfg.URL)
	section.Key("access_token").SetValue(cfg.AccessToken)

	tmpPath := path + ".tmp"
	if err := iniFile.SaveTo(tmpPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	if runtime.GOOS != "windows" {
		if err := os.Chmod(tmpPath, 0600); err != nil {
			os.Remove(tmpPath)
			return fmt.Errorf("failed to set config permissions: %w", err)
		}
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to save config: %w", err)
	}

	return nil
}

// Validate checks that the connection settings are complete. It is
// called before any network request is issued.
func (cfg *Config) Validate() error {
	if strings.TrimSpace(cfg.URL) == "" {
		return ErrMissingURL
	}
	if strings.TrimSpace(cfg.AccessToken) == "" {
		return ErrMissingToken
	}
	return nil
}
