package rulesource

import (
	"context"
	"os"
	"path/filepath"

	v1 "github.com/coreos/prometheus-operator/pkg/apis/monitoring/v1"
	monitoringclient "github.com/coreos/prometheus-operator/pkg/client/versioned"
	"github.com/pkg/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/client-go/util/homedir"
)

// KubeOptions selects the cluster a KubeSource talks to.
type KubeOptions struct {
	// InCluster uses the pod's service account and ignores the fields below.
	InCluster  bool
	Kubeconfig string
	// Context overrides the kubeconfig's current context.
	Context string
}

// KubeSource lists PrometheusRule objects through the prometheus-operator
// clientset.
type KubeSource struct {
	list func(namespace string, opts metav1.ListOptions) (*v1.PrometheusRuleList, error)
}

// NewKubeSource connects to the cluster described by opts.
func NewKubeSource(opts KubeOptions) (*KubeSource, error) {
	cfg, err := restConfig(opts)
	if err != nil {
		return nil, err
	}

	client, err := monitoringclient.NewForConfig(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "creating prometheus-operator client")
	}

	return &KubeSource{
		list: func(namespace string, opts metav1.ListOptions) (*v1.PrometheusRuleList, error) {
			return client.MonitoringV1().PrometheusRules(namespace).List(opts)
		},
	}, nil
}

// List returns every PrometheusRule in namespace. The client predates
// context support, so ctx is only checked before the call is made.
func (k *KubeSource) List(ctx context.Context, namespace string) (*v1.PrometheusRuleList, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rules, err := k.list(namespace, metav1.ListOptions{})
	if err != nil {
		return nil, errors.Wrapf(err, "listing PrometheusRules in namespace %q", namespace)
	}
	log.WithField("namespace", namespace).Debugf("listed %d PrometheusRules", len(rules.Items))
	return rules, nil
}

func restConfig(opts KubeOptions) (*rest.Config, error) {
	if opts.InCluster {
		cfg, err := rest.InClusterConfig()
		return cfg, errors.Wrap(err, "loading in-cluster configuration")
	}

	rules := &clientcmd.ClientConfigLoadingRules{ExplicitPath: KubeConfigFile(opts.Kubeconfig)}
	overrides := &clientcmd.ConfigOverrides{CurrentContext: opts.Context}
	cfg, err := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(rules, overrides).ClientConfig()
	return cfg, errors.Wrap(err, "loading kubernetes configuration")
}

// KubeConfigFile resolves the kubeconfig path: the explicit value if set,
// then the KUBECONFIG environment variable, then ~/.kube/config.
func KubeConfigFile(flagval string) string {
	if flagval != "" {
		return flagval
	}
	if filename, ok := os.LookupEnv("KUBECONFIG"); ok {
		return filename
	}
	return filepath.Join(homedir.HomeDir(), ".kube", "config")
}
