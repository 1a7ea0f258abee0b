package alertview

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"
)

const (
	SeverityCritical = "critical"
	SeverityWarning  = "warning"
)

// Page is the view model derived from a FetchState.
type Page struct {
	Loading bool
	Error   string
	Groups  []GroupSection
}

// GroupSection is one labelled rule group.
type GroupSection struct {
	Name  string
	Rules []RuleCard
}

// RuleCard is the presentation of a single rule.
type RuleCard struct {
	Name string
	// Severity is SeverityCritical or SeverityWarning, nothing else.
	Severity string
	// SeverityTag is the raw severity label, SeverityWarning if unset.
	SeverityTag string
	Expr        string
	For         string
	Labels      []string
	Annotations string
}

// Critical reports whether the card uses the critical styling.
func (c RuleCard) Critical() bool {
	return c.Severity == SeverityCritical
}

// Present derives the page for a state. It never sorts or deduplicates
// groups or rules.
func Present(s FetchState) Page {
	switch s.Phase {
	case Loading:
		return Page{Loading: true}
	case Failed:
		msg := s.Message
		if msg == "" {
			msg = FallbackMessage
		}
		return Page{Error: msg}
	case Loaded:
		p := Page{Groups: make([]GroupSection, 0, len(s.Groups))}
		for _, g := range s.Groups {
			section := GroupSection{Name: g.Name, Rules: make([]RuleCard, 0, len(g.Rules))}
			for _, r := range g.Rules {
				section.Rules = append(section.Rules, presentRule(r))
			}
			p.Groups = append(p.Groups, section)
		}
		return p
	}
	return Page{}
}

// Severity classifies a rule: critical when labels["severity"] is
// "critical", warning for any other value or no labels at all.
func Severity(r Rule) string {
	if r.Labels["severity"] == SeverityCritical {
		return SeverityCritical
	}
	return SeverityWarning
}

func presentRule(r Rule) RuleCard {
	card := RuleCard{
		Name:        r.DisplayName(),
		Severity:    Severity(r),
		SeverityTag: r.Labels["severity"],
		Expr:        r.Expr,
		For:         r.For,
		Labels:      labelBadges(r.Labels),
		Annotations: prettyAnnotations(r.Annotations),
	}
	if card.SeverityTag == "" {
		card.SeverityTag = SeverityWarning
	}
	return card
}

// labelBadges formats labels as key=value, ordered by key.
func labelBadges(labels map[string]string) []string {
	if len(labels) == 0 {
		return nil
	}
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	badges := make([]string, 0, len(keys))
	for _, k := range keys {
		badges = append(badges, k+"="+labels[k])
	}
	return badges
}

func prettyAnnotations(annotations map[string]string) string {
	if len(annotations) == 0 {
		return ""
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	// Encoding a map[string]string cannot fail.
	_ = enc.Encode(annotations)
	return strings.TrimSuffix(buf.String(), "\n")
}
