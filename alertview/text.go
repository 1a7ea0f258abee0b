package alertview

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

// TextOptions controls terminal rendering.
type TextOptions struct {
	NoColor bool
}

type palette struct {
	critical, warning, group, dim *color.Color
}

func newPalette(noColor bool) palette {
	p := palette{
		critical: color.New(color.FgRed, color.Bold),
		warning:  color.New(color.FgYellow, color.Bold),
		group:    color.New(color.FgCyan, color.Bold),
		dim:      color.New(color.Faint),
	}
	if noColor {
		for _, c := range []*color.Color{p.critical, p.warning, p.group, p.dim} {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(card RuleCard) *color.Color {
	if card.Critical() {
		return p.critical
	}
	return p.warning
}

// RenderText writes page as indented plain text. Expressions are written
// verbatim, line breaks included. Loading is rendered as a single line;
// callers drawing a live spinner should not call this until the state is
// terminal.
func RenderText(w io.Writer, page Page, opts TextOptions) error {
	p := newPalette(opts.NoColor)
	ew := &errWriter{w: w}

	switch {
	case page.Loading:
		ew.printf("Loading alert rules...\n")
	case page.Error != "":
		ew.printf("%s %s\n", p.critical.Sprint("Error:"), page.Error)
	default:
		for _, g := range page.Groups {
			ew.printf("%s\n", p.group.Sprint(g.Name))
			for _, r := range g.Rules {
				ew.printf("  %s %s\n", p.severity(r).Sprintf("[%s]", r.SeverityTag), r.Name)
				if r.For != "" {
					ew.printf("    for: %s\n", r.For)
				}
				ew.printf("    expr:\n%s\n", indent(r.Expr, "      "))
				if len(r.Labels) > 0 {
					ew.printf("    labels: %s\n", strings.Join(r.Labels, " "))
				}
				if r.Annotations != "" {
					ew.printf("    annotations:\n%s\n", p.dim.Sprint(indent(r.Annotations, "      ")))
				}
			}
		}
	}
	return ew.err
}

// RenderTable writes one row per rule. Loading and error pages fall back to
// RenderText.
func RenderTable(w io.Writer, page Page, opts TextOptions) error {
	if page.Loading || page.Error != "" {
		return RenderText(w, page, opts)
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Group", "Rule", "Severity", "For", "Labels"})
	table.SetAutoWrapText(false)
	table.SetBorder(false)
	for _, g := range page.Groups {
		for _, r := range g.Rules {
			table.Append([]string{g.Name, r.Name, r.Severity, r.For, strings.Join(r.Labels, ",")})
		}
	}
	table.Render()
	return nil
}

// indent prefixes every non-empty line of s. Line breaks, trailing ones
// included, are kept as they are.
func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = prefix + l
		}
	}
	return strings.Join(lines, "\n")
}

// errWriter keeps the first write error so the rendering code stays linear.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...interface{}) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}
