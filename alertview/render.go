package alertview

import (
	"html/template"
	"io"

	"github.com/G-Research/prometheus-rules-viewer/theme"
	"github.com/pkg/errors"
)

const pageTemplate = `<section class="alert-rules" style="display: {{.Theme.Display.Block}}">
<h2>Prometheus alert rules</h2>
{{- if .Page.Loading}}
<div class="spinner" role="progressbar" aria-busy="true" style="display: {{.Theme.Display.InlineBlock}}"></div>
{{- else if .Page.Error}}
<div class="alert alert-error" role="alert"><strong>Error</strong> {{.Page.Error}}</div>
{{- else}}
<div class="groups" style="display: {{.Theme.Display.Flex}}; flex-direction: column">
{{- range .Page.Groups}}
<div class="group">
<h4>{{.Name}}</h4>
<div class="rules" style="display: {{$.Theme.Display.Flex}}; flex-direction: column">
{{- range .Rules}}
<div class="alert alert-{{.Severity}}" data-severity="{{.Severity}}">
<div class="alert-title"><span class="rule-name">{{.Name}}</span> <span class="tag severity">{{.SeverityTag}}</span></div>
{{- if .For}}
<span class="tag for">for: {{.For}}</span>
{{- end}}
<pre class="expr">{{.Expr}}</pre>
{{- if .Labels}}
<div class="labels" style="display: {{$.Theme.Display.Grid}}">
{{- range .Labels}}
<span class="badge">{{.}}</span>
{{- end}}
</div>
{{- end}}
{{- if .Annotations}}
<pre class="annotations">{{.Annotations}}</pre>
{{- end}}
</div>
{{- end}}
</div>
</div>
{{- end}}
</div>
{{- end}}
</section>
`

var pageTmpl = template.Must(template.New("alert-rules").Parse(pageTemplate))

// RenderHTML writes the content region for page, styled with th.
func RenderHTML(w io.Writer, page Page, th theme.Theme) error {
	data := struct {
		Page  Page
		Theme theme.Theme
	}{page, th.Merge()}
	return errors.Wrap(pageTmpl.Execute(w, data), "rendering alert rules page")
}
