package main

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"
)

func newDumpCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print the PrometheusRuleList the backend would serve",
		Args:  cobra.NoArgs,
	}
	keys := addSourceFlags(cmd.Flags())
	cmd.Flags().StringVarP(&output, "output", "o", "json", "Output format: json or yaml.")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		c, err := loadConfig(cmd, keys)
		if err != nil {
			return err
		}
		src, err := newSource(c)
		if err != nil {
			return err
		}

		rules, err := src.List(cmd.Context(), c.Namespace)
		if err != nil {
			return err
		}

		var buf []byte
		switch output {
		case "json":
			buf, err = json.MarshalIndent(rules, "", "  ")
		case "yaml":
			buf, err = yaml.Marshal(rules)
		default:
			return errors.Errorf("unknown output format %q, expected json or yaml", output)
		}
		if err != nil {
			return errors.Wrapf(err, "marshalling to %s", output)
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(buf))
		return err
	}
	return cmd
}
