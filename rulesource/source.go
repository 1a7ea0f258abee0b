// Package rulesource provides the PrometheusRule lists served by the
// resource backend, read either from a cluster or from rule files on disk.
package rulesource

import (
	"context"

	v1 "github.com/coreos/prometheus-operator/pkg/apis/monitoring/v1"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("component", "rulesource")

// Source lists the PrometheusRules of a namespace.
type Source interface {
	List(ctx context.Context, namespace string) (*v1.PrometheusRuleList, error)
}
