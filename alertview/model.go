package alertview

import (
	"github.com/G-Research/prometheus-rules-viewer/rulesclient"
)

// RuleGroup is a named, ordered collection of rules.
type RuleGroup struct {
	Name  string
	Rules []Rule
}

// Rule is a single alerting or recording rule as served by the backend.
type Rule struct {
	Alert string
	// Record is set instead of Alert for recording rules.
	Record      string
	Expr        string
	For         string
	Labels      map[string]string
	Annotations map[string]string
}

// DisplayName is the alert name, or the recorded series for recording rules.
func (r Rule) DisplayName() string {
	if r.Alert != "" {
		return r.Alert
	}
	return r.Record
}

// The wire types use pointers so a missing field can be told apart from an
// empty one.

type ruleListBody struct {
	Items *[]*ruleResourceBody `json:"items"`
}

type ruleResourceBody struct {
	Spec *ruleSpecBody `json:"spec"`
}

type ruleSpecBody struct {
	Groups *[]*ruleGroupBody `json:"groups"`
}

type ruleGroupBody struct {
	Name  *string      `json:"name"`
	Rules *[]*ruleBody `json:"rules"`
}

type ruleBody struct {
	Alert       string            `json:"alert"`
	Record      string            `json:"record"`
	Expr        *string           `json:"expr"`
	For         string            `json:"for"`
	Labels      map[string]string `json:"labels"`
	Annotations map[string]string `json:"annotations"`
}

// flatten concatenates spec.groups of every item, in order. Any deviation
// from the expected shape fails the whole body.
func flatten(body *ruleListBody) ([]RuleGroup, error) {
	if body.Items == nil {
		return nil, rulesclient.Shapef("missing items")
	}

	groups := []RuleGroup{}
	for i, item := range *body.Items {
		if item == nil || item.Spec == nil {
			return nil, rulesclient.Shapef("items[%d]: missing spec", i)
		}
		if item.Spec.Groups == nil {
			return nil, rulesclient.Shapef("items[%d]: missing spec.groups", i)
		}
		for j, g := range *item.Spec.Groups {
			if g == nil {
				return nil, rulesclient.Shapef("items[%d].spec.groups[%d]: null group", i, j)
			}
			if g.Name == nil {
				return nil, rulesclient.Shapef("items[%d].spec.groups[%d]: missing name", i, j)
			}
			if g.Rules == nil {
				return nil, rulesclient.Shapef("items[%d].spec.groups[%d]: missing rules", i, j)
			}
			group := RuleGroup{Name: *g.Name, Rules: make([]Rule, 0, len(*g.Rules))}
			for k, r := range *g.Rules {
				if r == nil || r.Expr == nil {
					return nil, rulesclient.Shapef("items[%d].spec.groups[%d].rules[%d]: missing expr", i, j, k)
				}
				// Recording rules name their series in record instead of alert.
				if r.Alert == "" && r.Record == "" {
					return nil, rulesclient.Shapef("items[%d].spec.groups[%d].rules[%d]: missing alert", i, j, k)
				}
				group.Rules = append(group.Rules, Rule{
					Alert:       r.Alert,
					Record:      r.Record,
					Expr:        *r.Expr,
					For:         r.For,
					Labels:      r.Labels,
					Annotations: r.Annotations,
				})
			}
			groups = append(groups, group)
		}
	}
	return groups, nil
}
