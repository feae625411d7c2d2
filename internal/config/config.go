package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	// EnvPrefix prefixes every environment override, e.g. ST_GITHUB_TOKEN.
	EnvPrefix = "ST"
	// PathEnv overrides the config file location.
	PathEnv = "ST_CONFIG"

	configName = "config"
	configType = "yaml"
)

// Config is the effective configuration.
type Config struct {
	GitHub GitHubConfig `mapstructure:"github" yaml:"github"`
	Remote string       `mapstructure:"remote" yaml:"remote"`
	Submit SubmitConfig `mapstructure:"submit" yaml:"submit"`
	Stack  StackConfig  `mapstructure:"stack" yaml:"stack"`
	Log    LogConfig    `mapstructure:"log" yaml:"log"`
}

// GitHubConfig configures the pull request host.
type GitHubConfig struct {
	// Token falls back to GITHUB_TOKEN, then `gh auth token`.
	Token string `mapstructure:"token" yaml:"token"`
	// Host overrides the hostname parsed from the remote URL.
	Host string `mapstructure:"host" yaml:"host"`
	// Labels are offered first when opening a pull request.
	Labels []string `mapstructure:"labels" yaml:"labels"`
}

// SubmitConfig holds defaults for `st submit`.
type SubmitConfig struct {
	Force bool `mapstructure:"force" yaml:"force"`
	Draft bool `mapstructure:"draft" yaml:"draft"`
}

// StackConfig holds tree maintenance policy.
type StackConfig struct {
	// AllowForkOnDelete lets deleting a branch move several children onto
	// its parent.
	AllowForkOnDelete bool `mapstructure:"allow_fork_on_delete" yaml:"allow_fork_on_delete"`
}

// LogConfig controls the debug log file.
type LogConfig struct {
	File bool `mapstructure:"file" yaml:"file"`
}

// Loaded describes where the configuration came from.
type Loaded struct {
	Config         *Config
	ConfigFileUsed string
}

type keyKind int

const (
	kindString keyKind = iota
	kindBool
	kindList
)

var keys = map[string]keyKind{
	"github.token":               kindString,
	"github.host":                kindString,
	"github.labels":              kindList,
	"remote":                     kindString,
	"submit.force":               kindBool,
	"submit.draft":               kindBool,
	"stack.allow_fork_on_delete": kindBool,
	"log.file":                   kindBool,
}

// Defaults returns the built-in value of every key.
func Defaults() map[string]any {
	return map[string]any{
		"github.token":               "",
		"github.host":                "",
		"github.labels":              []string{},
		"remote":                     "origin",
		"submit.force":               false,
		"submit.draft":               false,
		"stack.allow_fork_on_delete": true,
		"log.file":                   true,
	}
}

// Keys returns every settable key, sorted.
func Keys() []string {
	out := make([]string, 0, len(keys))
	for k := range keys {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// DefaultPath returns $ST_CONFIG, else $XDG_CONFIG_HOME/st/config.yaml,
// else ~/.config/st/config.yaml.
func DefaultPath() (string, error) {
	if p := os.Getenv(PathEnv); p != "" {
		return p, nil
	}
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "st", configName+"."+configType), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to find home directory: %w", err)
	}
	return filepath.Join(home, ".config", "st", configName+"."+configType), nil
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigType(configType)
	v.SetConfigFile(path)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, value := range Defaults() {
		v.SetDefault(key, value)
	}
	return v
}

// Load reads path, which may be missing, and applies ST_ environment
// overrides on top.
func Load(path string) (*Loaded, error) {
	v := newViper(path)
	used := path
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read configuration: %w", err)
		}
		used = ""
	}

	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToSliceHookFunc(","),
		trimStringsHook(),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	return &Loaded{Config: &cfg, ConfigFileUsed: used}, nil
}

func trimStringsHook() mapstructure.DecodeHookFuncKind {
	return func(from, to reflect.Kind, data any) (any, error) {
		if s, ok := data.(string); ok && from == reflect.String && to == reflect.String {
			return strings.TrimSpace(s), nil
		}
		return data, nil
	}
}

// Set writes key=value into the file at path, creating it if needed.
// Environment overrides are not written.
func Set(path, key, value string) error {
	kind, ok := keys[key]
	if !ok {
		return fmt.Errorf("unknown config key %q (known keys: %s)", key, strings.Join(Keys(), ", "))
	}

	var typed any
	switch kind {
	case kindBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s must be true or false: %w", key, err)
		}
		typed = b
	case kindList:
		var list []string
		for _, item := range strings.Split(value, ",") {
			if item = strings.TrimSpace(item); item != "" {
				list = append(list, item)
			}
		}
		typed = list
	default:
		typed = value
	}

	// Only the file's own keys are rewritten, without defaults or env.
	file := viper.New()
	file.SetConfigType(configType)
	file.SetConfigFile(path)
	if err := file.ReadInConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read configuration: %w", err)
		}
	}
	file.Set(key, typed)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := file.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write configuration: %w", err)
	}
	return nil
}

// YAML renders cfg for display, hiding the token.
func (c *Config) YAML() (string, error) {
	shown := *c
	if shown.GitHub.Token != "" {
		shown.GitHub.Token = "********"
	}
	data, err := yaml.Marshal(&shown)
	if err != nil {
		return "", fmt.Errorf("failed to render configuration: %w", err)
	}
	return string(data), nil
}
