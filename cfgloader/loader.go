// cfgloader is a package providing code to load prometheus rule
// definitions into prometheus-operator PrometheusRule objects, as served by
// the resource backend when reading rules from disk.
package cfgloader

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	v1 "github.com/coreos/prometheus-operator/pkg/apis/monitoring/v1"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"
	"k8s.io/apimachinery/pkg/util/intstr"

	"github.com/G-Research/prometheus-rules-viewer/cfgloader/rulefmt"
)

var log = logrus.WithField("component", "cfgloader")

// ErrNoGroups is returned for a rule file without any groups.
var ErrNoGroups = errors.New("no groups found")

// LoadDirectory loads all the YAML files in a directory, in file name
// order, and returns them as a PrometheusRuleList in the given namespace,
// labelled for the named prometheus.
//
// Files that fail to load are left out of the list; their errors are
// aggregated into the returned error.
func LoadDirectory(directory, namespace, prometheus string) (*v1.PrometheusRuleList, error) {
	names, err := filepath.Glob(filepath.Join(directory, "*.yaml"))
	if err != nil {
		return nil, err
	}
	if names == nil {
		return nil, errors.Errorf("no rule files in directory %s", directory)
	}
	sort.Strings(names)

	rv := &v1.PrometheusRuleList{}
	var errs []error
	for _, name := range names {
		rule, err := LoadFile(name, namespace, prometheus)
		if err != nil {
			log.WithField("file", name).Warnf("skipping rule file: %s", err)
			errs = append(errs, err)
			continue
		}
		rv.Items = append(rv.Items, rule)
	}

	return rv, utilerrors.NewAggregate(errs)
}

// ruleName builds the PrometheusRule name from the prometheus it is for
// and the base name of the rule file, which is expected to end in ".yaml".
func ruleName(fileName, prometheus string) string {
	base := strings.TrimSuffix(filepath.Base(fileName), ".yaml")
	base = strings.ReplaceAll(base, ".", "-")
	return prometheus + "-" + base + "-rules"
}

// LoadFile loads a single rule file into a PrometheusRule with its name,
// namespace and prometheus label set.
func LoadFile(name, namespace, prometheus string) (*v1.PrometheusRule, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}

	spec, err := ParseRuleSpec(data)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", name)
	}

	rv := &v1.PrometheusRule{Spec: spec}
	rv.SetNamespace(namespace)
	rv.SetName(ruleName(name, prometheus))
	rv.SetLabels(map[string]string{"prometheus": prometheus, "role": "prometheus-rulefiles"})

	return rv, nil
}

// ParseRuleSpec converts a Prometheus rule file into a PrometheusRuleSpec,
// keeping group and rule order.
func ParseRuleSpec(data []byte) (v1.PrometheusRuleSpec, error) {
	var intermediate rulefmt.RuleGroups
	var rv v1.PrometheusRuleSpec

	if err := yaml.Unmarshal(data, &intermediate); err != nil {
		return rv, err
	}
	if len(intermediate.Groups) == 0 {
		return rv, ErrNoGroups
	}
	if err := intermediate.Validate(); err != nil {
		return rv, err
	}

	for _, g := range intermediate.Groups {
		rg := v1.RuleGroup{Name: g.Name, Interval: g.Interval, Rules: []v1.Rule{}}
		for _, r := range g.Rules {
			rg.Rules = append(rg.Rules, v1.Rule{
				Record:      r.Record,
				Alert:       r.Alert,
				Expr:        intstr.FromString(r.Expr),
				For:         r.For,
				Labels:      r.Labels,
				Annotations: r.Annotations,
			})
		}
		rv.Groups = append(rv.Groups, rg)
	}

	return rv, nil
}
