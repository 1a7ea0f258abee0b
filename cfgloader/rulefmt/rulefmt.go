// Package rulefmt mirrors the Prometheus rule file format closely enough to
// read it without pulling in prometheus itself.
package rulefmt

import (
	"fmt"
)

type RuleGroups struct {
	Groups []RuleGroup `yaml:"groups"`
}

type RuleGroup struct {
	Name     string `yaml:"name"`
	Interval string `yaml:"interval,omitempty"`
	Rules    []Rule `yaml:"rules"`
}

type Rule struct {
	Record      string            `yaml:"record,omitempty"`
	Alert       string            `yaml:"alert,omitempty"`
	Expr        string            `yaml:"expr"`
	For         string            `yaml:"for,omitempty"`
	Labels      map[string]string `yaml:"labels,omitempty"`
	Annotations map[string]string `yaml:"annotations,omitempty"`
}

// Validate checks the structural constraints prometheus enforces on load:
// named, unique groups and rules that are either alerts or recordings, each
// with an expression.
func (g RuleGroups) Validate() error {
	seen := make(map[string]bool, len(g.Groups))
	for _, group := range g.Groups {
		if group.Name == "" {
			return fmt.Errorf("rule group has no name")
		}
		if seen[group.Name] {
			return fmt.Errorf("duplicate rule group %q", group.Name)
		}
		seen[group.Name] = true

		for ix, r := range group.Rules {
			if err := r.validate(); err != nil {
				return fmt.Errorf("group %q, rule #%d: %s", group.Name, ix, err)
			}
		}
	}
	return nil
}

func (r Rule) validate() error {
	switch {
	case r.Record != "" && r.Alert != "":
		return fmt.Errorf("only one of record and alert may be set")
	case r.Record == "" && r.Alert == "":
		return fmt.Errorf("one of record or alert must be set")
	case r.Expr == "":
		return fmt.Errorf("expr must be set")
	case r.Record != "" && r.For != "":
		return fmt.Errorf("for is only valid on alerting rules")
	}
	return nil
}
