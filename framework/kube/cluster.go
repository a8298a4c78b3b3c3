// Package kube implements the Kubernetes-backed environment: the
// platform under test runs as a Deployment, upgrade steps are image
// rollouts, and action batches execute over its SQL interface.
package kube

import (
	"context"
	"fmt"
	"log/slog"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"

	"github.com/redhat/upgrade-checks/test/framework/config"
	"github.com/redhat/upgrade-checks/test/framework/wait"
)

// Labels applied to every resource the harness creates
const (
	// LabelManagedBy is the label key used to identify resources managed by the harness
	LabelManagedBy = "upgrade-test.io/managed-by"
	// LabelInstance is the label key used to identify the specific harness instance
	LabelInstance = "upgrade-test.io/instance"
	// LabelManagedByValue is the value for the managed-by label
	LabelManagedByValue = "upgrade-checks"
)

// Cluster is the handle to the Kubernetes cluster the platform under
// test runs in
type Cluster struct {
	client     kubernetes.Interface
	restConfig *rest.Config
	namespace  string
	logger     *slog.Logger
	config     *config.Config
}

// Option is a function that configures the Cluster
type Option func(*Cluster)

// WithLogger sets a custom logger for the cluster
func WithLogger(logger *slog.Logger) Option {
	return func(c *Cluster) {
		c.logger = logger
	}
}

// WithConfig sets a custom configuration for the cluster
func WithConfig(cfg *config.Config) Option {
	return func(c *Cluster) {
		c.config = cfg
	}
}

// WithClient sets a pre-built Kubernetes client, skipping kubeconfig
// discovery. Used by tests with a fake clientset.
func WithClient(client kubernetes.Interface) Option {
	return func(c *Cluster) {
		c.client = client
	}
}

// New creates a Cluster handle for the specified namespace. Connection
// settings come from the in-cluster service account when running inside
// the cluster, falling back to the local kubeconfig.
func New(namespace string, opts ...Option) (*Cluster, error) {
	if namespace == "" {
		return nil, ErrNamespaceRequired
	}

	c := &Cluster{
		namespace: namespace,
		logger:    slog.Default(),
		config:    config.FromEnv(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.client == nil {
		restConfig, err := rest.InClusterConfig()
		if err != nil {
			restConfig, err = clientcmd.BuildConfigFromFlags("", clientcmd.RecommendedHomeFile)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrClusterConnection, err)
			}
		}

		client, err := kubernetes.NewForConfig(restConfig)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to create kubernetes client: %v", ErrClusterConnection, err)
		}
		c.restConfig = restConfig
		c.client = client
	}

	return c, nil
}

// Namespace returns the namespace used by this cluster handle
func (c *Cluster) Namespace() string {
	return c.namespace
}

// Client returns the Kubernetes client
func (c *Cluster) Client() kubernetes.Interface {
	return c.client
}

// Config returns the Kubernetes REST config
func (c *Cluster) Config() *rest.Config {
	return c.restConfig
}

// Logger returns the logger
func (c *Cluster) Logger() *slog.Logger {
	return c.logger
}

// GetManagedLabels returns the labels applied to all resources created by this harness
func (c *Cluster) GetManagedLabels() map[string]string {
	return map[string]string{
		LabelManagedBy: LabelManagedByValue,
		LabelInstance:  c.namespace,
	}
}

// EnsureNamespace creates the namespace if it doesn't exist
func (c *Cluster) EnsureNamespace(ctx context.Context) error {
	ns := &corev1.Namespace{
		ObjectMeta: metav1.ObjectMeta{
			Name:   c.namespace,
			Labels: c.GetManagedLabels(),
		},
	}

	_, err := c.client.CoreV1().Namespaces().Create(ctx, ns, metav1.CreateOptions{})
	if err != nil {
		_, getErr := c.client.CoreV1().Namespaces().Get(ctx, c.namespace, metav1.GetOptions{})
		if getErr != nil {
			return fmt.Errorf("failed to create namespace: %w", err)
		}
		// Namespace exists, that's fine
	}
	return nil
}

// DeleteNamespace deletes the namespace and waits for it to be gone
func (c *Cluster) DeleteNamespace(ctx context.Context) error {
	err := c.client.CoreV1().Namespaces().Delete(ctx, c.namespace, metav1.DeleteOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete namespace: %w", err)
	}

	return wait.PollContext(ctx, func() (bool, error) {
		_, err := c.client.CoreV1().Namespaces().Get(ctx, c.namespace, metav1.GetOptions{})
		if err != nil {
			// Namespace is gone
			return true, nil
		}
		return false, nil
	}, c.config.NamespaceTimeout, c.config.SettlePollInterval)
}
