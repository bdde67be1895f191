package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sznuper/keeper/internal/account"
)

// CredentialEnvVars are read in order; the first non-empty one supplies
// newline separated credential records.
var CredentialEnvVars = []string{"KEEPER_CREDENTIALS", "PELLA_CREDENTIALS"}

// DefaultConfigPaths returns the search order for config files.
func DefaultConfigPaths() []string {
	var paths []string
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "keeper", "config.yaml"))
	}
	paths = append(paths, "/etc/keeper/config.yaml")
	return paths
}

// Resolve loads the config from the given explicit path, or the first default
// location that exists, or starts empty when there is none. Accounts from the
// environment are appended and defaults applied. The returned path is empty
// when no file was read.
func Resolve(explicit string) (*Config, string, error) {
	path, err := findConfig(explicit)
	if err != nil {
		return nil, "", err
	}

	cfg := &Config{}
	if path != "" {
		cfg, err = Load(path)
		if err != nil {
			return nil, "", err
		}
	}

	envAccounts, err := accountsFromEnv()
	if err != nil {
		return nil, "", err
	}
	cfg.Accounts = append(cfg.Accounts, envAccounts...)
	cfg.ApplyDefaults()

	return cfg, path, nil
}

func accountsFromEnv() ([]account.Account, error) {
	for _, name := range CredentialEnvVars {
		raw := os.Getenv(name)
		if raw == "" {
			continue
		}
		accounts, err := account.ParseBatch(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return accounts, nil
	}
	return nil, nil
}

func findConfig(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	for _, p := range DefaultConfigPaths() {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", nil
}
