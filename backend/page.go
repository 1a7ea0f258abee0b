package backend

import (
	"bytes"
	"net/http"

	"github.com/pkg/errors"

	"github.com/G-Research/prometheus-rules-viewer/alertview"
)

var errNoViewBackend = errors.New("alert rules page has no backend configured")

const pageHead = `<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>Prometheus alert rules</title></head>
<body>
`

const pageFoot = `</body></html>
`

// handleAlertRulesPage mounts a view for the request and renders it once
// the fetch settles. If the client goes away first the view is disposed and
// whatever arrives later is dropped.
func (s *Server) handleAlertRulesPage(w http.ResponseWriter, r *http.Request) {
	var state alertview.FetchState
	if s.viewBackend == nil {
		state = alertview.FetchState{Phase: alertview.Failed, Message: errNoViewBackend.Error()}
	} else {
		view := alertview.New(s.viewBackend, alertview.WithPluginID(s.opts.PluginID))
		view.Mount(r.Context())
		select {
		case <-view.Done():
		case <-r.Context().Done():
			log.Debug("client left before alert rules loaded")
		}
		state = view.State()
		view.Dispose()
	}

	var buf bytes.Buffer
	buf.WriteString(pageHead)
	if err := alertview.RenderHTML(&buf, alertview.Present(state), s.opts.Theme); err != nil {
		log.Errorf("rendering alert rules page: %s", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	buf.WriteString(pageFoot)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := buf.WriteTo(w); err != nil {
		log.Warnf("writing alert rules page: %s", err)
	}
}
