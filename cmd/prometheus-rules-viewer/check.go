package main

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/G-Research/prometheus-rules-viewer/promtool"
	"github.com/G-Research/prometheus-rules-viewer/templates"
)

type checkOptions struct {
	context   string
	unitTests bool
}

func newCheckCmd() *cobra.Command {
	o := &checkOptions{}
	cmd := &cobra.Command{
		Use:   "check <rule-directory>",
		Short: "Syntax-check a rule directory with promtool, optionally running its unit tests",
		Args:  cobra.ExactArgs(1),
	}
	cmd.Flags().StringVar(&o.context, "context", "", "Template-expand the directory for this context first.")
	cmd.Flags().BoolVar(&o.unitTests, "unit-tests", false, "Also run the unit tests in <rule-directory>/tests.")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		if _, err := loadConfig(cmd, nil); err != nil {
			return err
		}
		dir := args[0]
		if o.context != "" {
			exp, err := expandForContext(dir, o.context)
			if err != nil {
				return err
			}
			defer exp.Cleanup()
			dir = exp.Directory
		}

		prom, err := promtool.New()
		if err != nil {
			return err
		}

		log.WithField("directory", args[0]).Info("syntax-checking rules")
		if err := prom.CheckDirectory(cmd.Context(), dir); err != nil {
			return err
		}
		if o.unitTests {
			abs, err := filepath.Abs(dir)
			if err != nil {
				return err
			}
			log.WithField("directory", args[0]).Info("running rule unit tests")
			if err := prom.TestDirectory(cmd.Context(), "tests", abs); err != nil {
				return err
			}
		}
		log.Info("rules OK")
		return nil
	}
	return cmd
}

// expandForContext expands the templates in dir for context, which must have
// its own .vars file so a mistyped context is not silently checked against
// the defaults alone.
func expandForContext(dir, context string) (*templates.Expansion, error) {
	set, err := templates.Load(dir)
	if err != nil {
		return nil, err
	}
	known := set.Contexts()
	found := false
	for _, c := range known {
		if c == context {
			found = true
			break
		}
	}
	if !found {
		return nil, errors.Errorf("unknown context %q in %s, expected one of: %s", context, dir, strings.Join(known, ", "))
	}
	return set.Expand(context)
}
