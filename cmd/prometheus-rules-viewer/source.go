package main

import (
	"github.com/spf13/pflag"

	"github.com/G-Research/prometheus-rules-viewer/config"
	"github.com/G-Research/prometheus-rules-viewer/promtool"
	"github.com/G-Research/prometheus-rules-viewer/rulesource"
)

// addSourceFlags registers the rule source flags and returns their
// configuration keys.
func addSourceFlags(flags *pflag.FlagSet) map[string]string {
	flags.String("namespace", "", "Namespace whose PrometheusRules are listed.")
	flags.String("source", "", "Where rules are read from: kube or files.")
	flags.String("kubeconfig", "", "Kubernetes configuration file. Defaults to $KUBECONFIG, then ~/.kube/config.")
	flags.String("kube-context", "", "Kubernetes context to use instead of the current one.")
	flags.Bool("in-cluster", false, "Use the in-cluster service account instead of a kubeconfig.")
	flags.String("dir", "", "Directory of rule files, for the files source.")
	flags.String("context", "", "Template-expand the rule directory for this context.")
	flags.String("prometheus", "", "Name of the prometheus the rule files are labelled for.")
	flags.Bool("promtool", false, "Reject rule files that fail promtool check rules.")

	return map[string]string{
		"namespace":    "namespace",
		"source":       "source.kind",
		"kubeconfig":   "source.kubeconfig",
		"kube-context": "source.kube-context",
		"in-cluster":   "source.in-cluster",
		"dir":          "source.directory",
		"context":      "source.context",
		"prometheus":   "source.prometheus",
		"promtool":     "source.promtool",
	}
}

func newSource(c *config.Config) (rulesource.Source, error) {
	if c.Source.Kind == config.SourceFiles {
		fs := &rulesource.FileSource{
			Directory:  c.Source.Directory,
			Context:    c.Source.Context,
			Prometheus: c.Source.Prometheus,
		}
		if c.Source.Promtool {
			p, err := promtool.New()
			if err != nil {
				return nil, err
			}
			fs.Promtool = p
		}
		log.WithField("directory", fs.Directory).Info("reading rules from files")
		return fs, nil
	}

	log.WithField("namespace", c.Namespace).Info("reading rules from the cluster")
	return rulesource.NewKubeSource(rulesource.KubeOptions{
		InCluster:  c.Source.InCluster,
		Kubeconfig: c.Source.Kubeconfig,
		Context:    c.Source.KubeContext,
	})
}

func mergeKeys(maps ...map[string]string) map[string]string {
	rv := make(map[string]string)
	for _, m := range maps {
		for k, v := range m {
			rv[k] = v
		}
	}
	return rv
}
