// prometheus-rules-viewer serves Prometheus rule groups from a cluster or a
// directory of rule files, and renders them grouped and coloured by
// severity, either as an HTML page or in the terminal.
package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/G-Research/prometheus-rules-viewer/config"
)

var log = logrus.WithField("component", "cli")

type globalOptions struct {
	configFile string
	logLevel   string
}

var global globalOptions

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "prometheus-rules-viewer",
		Short:         "Serve and render Prometheus alert rules",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&global.configFile, "config", "", "Configuration file (YAML).")
	root.PersistentFlags().StringVar(&global.logLevel, "log-level", "info", "Log level: debug, info, warning or error.")

	root.AddCommand(newServeCmd(), newViewCmd(), newDumpCmd(), newCheckCmd())
	return root
}

// loadConfig builds the configuration for cmd, with keys mapping the
// command's flag names to configuration keys, and sets up logging.
func loadConfig(cmd *cobra.Command, keys map[string]string) (*config.Config, error) {
	v, err := config.New(global.configFile)
	if err != nil {
		return nil, err
	}

	bound := map[string]string{"log-level": "log-level"}
	for flag, key := range keys {
		bound[flag] = key
	}
	if err := config.BindFlags(v, cmd.Flags(), bound); err != nil {
		return nil, err
	}

	c, err := config.Load(v)
	if err != nil {
		return nil, err
	}

	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, errors.Wrap(err, "parsing log level")
	}
	logrus.SetLevel(level)
	logrus.SetOutput(os.Stderr)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	return c, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errViewFailed) {
			log.Error(err)
		}
		os.Exit(1)
	}
}
