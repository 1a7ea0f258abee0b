package rulesource

import (
	"context"

	v1 "github.com/coreos/prometheus-operator/pkg/apis/monitoring/v1"
	"github.com/pkg/errors"

	"github.com/G-Research/prometheus-rules-viewer/cfgloader"
	"github.com/G-Research/prometheus-rules-viewer/promtool"
	"github.com/G-Research/prometheus-rules-viewer/templates"
)

// FileSource serves a directory of Prometheus rule files as if they had
// been loaded into the cluster.
type FileSource struct {
	Directory string
	// Context, when set, template-expands Directory for that context
	// before loading.
	Context string
	// Prometheus is the name of the prometheus the rules are labelled for.
	Prometheus string
	// Promtool, when set, must accept every file before it is served.
	Promtool *promtool.Promtool
}

// List reloads the directory on every call, so edits show up without a
// restart.
func (f *FileSource) List(ctx context.Context, namespace string) (*v1.PrometheusRuleList, error) {
	dir := f.Directory
	if f.Context != "" {
		exp, err := templates.Expand(f.Directory, f.Context)
		if err != nil {
			return nil, errors.Wrapf(err, "expanding %s for context %s", f.Directory, f.Context)
		}
		defer exp.Cleanup()
		dir = exp.Directory
	}

	if f.Promtool != nil {
		if err := f.Promtool.CheckDirectory(ctx, dir); err != nil {
			return nil, errors.Wrap(err, "promtool rejected rule files")
		}
	}

	rules, err := cfgloader.LoadDirectory(dir, namespace, f.Prometheus)
	if err != nil {
		return nil, err
	}
	log.WithField("directory", f.Directory).Debugf("loaded %d rule files", len(rules.Items))
	return rules, nil
}
