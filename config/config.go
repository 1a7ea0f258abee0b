// Package config loads the viewer configuration from an optional YAML file,
// RULES_VIEWER_* environment variables and command line flags, in
// increasing order of precedence.
package config

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/G-Research/prometheus-rules-viewer/alertview"
	"github.com/G-Research/prometheus-rules-viewer/theme"
)

const envPrefix = "RULES_VIEWER"

// Source kinds.
const (
	SourceKube  = "kube"
	SourceFiles = "files"
)

// Config is the full configuration of every subcommand.
type Config struct {
	LogLevel string `mapstructure:"log-level"`
	PluginID string `mapstructure:"plugin-id"`
	// Namespace whose PrometheusRules are served.
	Namespace string       `mapstructure:"namespace"`
	Listen    string       `mapstructure:"listen"`
	Source    SourceConfig `mapstructure:"source"`
	Client    ClientConfig `mapstructure:"client"`
	Theme     theme.Theme  `mapstructure:"theme"`
}

// SourceConfig selects where the backend reads rules from.
type SourceConfig struct {
	Kind        string `mapstructure:"kind"`
	InCluster   bool   `mapstructure:"in-cluster"`
	Kubeconfig  string `mapstructure:"kubeconfig"`
	KubeContext string `mapstructure:"kube-context"`
	Directory   string `mapstructure:"directory"`
	// Context template-expands Directory for the named context.
	Context    string `mapstructure:"context"`
	Prometheus string `mapstructure:"prometheus"`
	Promtool   bool   `mapstructure:"promtool"`
}

// ClientConfig is how the view reaches the backend.
type ClientConfig struct {
	URL   string `mapstructure:"url"`
	Token string `mapstructure:"token"`
}

func setDefaults(v *viper.Viper) {
	d := theme.Default()
	v.SetDefault("log-level", "info")
	v.SetDefault("plugin-id", alertview.DefaultPluginID)
	v.SetDefault("namespace", "opentelemetry")
	v.SetDefault("listen", ":3838")
	v.SetDefault("source.kind", SourceKube)
	v.SetDefault("source.in-cluster", false)
	v.SetDefault("source.kubeconfig", "")
	v.SetDefault("source.kube-context", "")
	v.SetDefault("source.directory", "")
	v.SetDefault("source.context", "")
	v.SetDefault("source.prometheus", "k8s")
	v.SetDefault("source.promtool", false)
	// Every key needs a default, otherwise Unmarshal ignores its
	// environment variable.
	v.SetDefault("client.url", "http://127.0.0.1:3838")
	v.SetDefault("client.token", "")
	v.SetDefault("theme.display.flex", d.Display.Flex)
	v.SetDefault("theme.display.block", d.Display.Block)
	v.SetDefault("theme.display.inline-block", d.Display.InlineBlock)
	v.SetDefault("theme.display.grid", d.Display.Grid)
}

// New returns a viper instance with defaults and environment binding,
// reading configFile when it is not empty.
func New(configFile string) (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "reading config file %s", configFile)
		}
	}
	return v, nil
}

// BindFlags binds each flag in flags to the config key in keys, keyed by
// flag name.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet, keys map[string]string) error {
	for flag, key := range keys {
		f := flags.Lookup(flag)
		if f == nil {
			return errors.Errorf("no such flag %q", flag)
		}
		if err := v.BindPFlag(key, f); err != nil {
			return errors.Wrapf(err, "binding flag %q", flag)
		}
	}
	return nil
}

// Load decodes and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, errors.Wrap(err, "decoding configuration")
	}
	c.Theme = c.Theme.Merge()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks the fields every subcommand relies on.
func (c *Config) Validate() error {
	if c.PluginID == "" {
		return errors.New("plugin-id must not be empty")
	}
	switch c.Source.Kind {
	case SourceKube:
	case SourceFiles:
		if c.Source.Directory == "" {
			return errors.New("source.directory is required for the files source")
		}
	default:
		return errors.Errorf("unknown source kind %q, expected %q or %q", c.Source.Kind, SourceKube, SourceFiles)
	}
	return nil
}
