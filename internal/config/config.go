package config

import (
	"fmt"
	"os"

	"github.com/a8m/envsubst"
	"github.com/goccy/go-yaml"

	"github.com/sznuper/keeper/internal/account"
)

type Config struct {
	Options  Options            `yaml:"options,omitempty"`
	Globals  map[string]any     `yaml:"globals,omitempty"`
	Services map[string]Service `yaml:"services,omitempty" validate:"dive"`
	Template string             `yaml:"template,omitempty"`
	Notify   []NotifyTarget     `yaml:"notify,omitempty"`
	Schedule string             `yaml:"schedule,omitempty" validate:"omitempty,schedule"`
	Accounts []account.Account  `yaml:"accounts,omitempty" validate:"dive"`
}

// Options are plain strings so every one can be overridden by a CLI flag of
// the same name. Durations are parsed by Durations.
type Options struct {
	BaseURL        string `yaml:"base_url,omitempty" validate:"omitempty,url"`
	Browser        string `yaml:"browser,omitempty"`
	Headless       string `yaml:"headless,omitempty" validate:"omitempty,boolean"`
	WaitTimeout    string `yaml:"wait_timeout,omitempty" validate:"omitempty,duration"`
	SettleTimeout  string `yaml:"settle_timeout,omitempty" validate:"omitempty,duration"`
	PollInterval   string `yaml:"poll_interval,omitempty" validate:"omitempty,duration"`
	ClaimPause     string `yaml:"claim_pause,omitempty" validate:"omitempty,duration"`
	AccountDelay   string `yaml:"account_delay,omitempty" validate:"omitempty,duration"`
	ScreenshotsDir string `yaml:"screenshots_dir,omitempty"`
	Timezone       string `yaml:"timezone,omitempty" validate:"omitempty,timezone"`
}

type Service struct {
	URL    string            `yaml:"url" validate:"required"`
	Params map[string]string `yaml:"params,omitempty"`
}

// NotifyTarget handles a plain service name string or an object with overrides.
type NotifyTarget struct {
	Service  string            `yaml:"service"`
	Template string            `yaml:"template,omitempty"`
	Params   map[string]string `yaml:"params,omitempty"`
}

func (n *NotifyTarget) UnmarshalYAML(unmarshal func(any) error) error {
	var str string
	if err := unmarshal(&str); err == nil {
		n.Service = str
		return nil
	}

	type notifyAlias NotifyTarget
	var obj notifyAlias
	if err := unmarshal(&obj); err != nil {
		return fmt.Errorf("notify: must be a service name string or an object with service/template/params")
	}
	*n = NotifyTarget(obj)
	return nil
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return Parse(data)
}

// Parse expands ${VAR} references and decodes YAML.
func Parse(data []byte) (*Config, error) {
	data, err := envsubst.Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("expanding env vars: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return &cfg, nil
}
