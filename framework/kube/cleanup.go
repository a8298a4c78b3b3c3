package kube

import (
	"context"
	"fmt"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/labels"
)

// Cleanup removes every resource the harness created, identified by the
// managed-by labels, and finally deletes the namespace itself.
func (c *Cluster) Cleanup(ctx context.Context) error {
	selector := labels.SelectorFromSet(c.GetManagedLabels()).String()
	listOpts := metav1.ListOptions{LabelSelector: selector}
	deleteOpts := metav1.DeleteOptions{}

	c.logger.Info("cleaning up managed resources", "namespace", c.namespace, "selector", selector)

	if err := c.client.AppsV1().Deployments(c.namespace).DeleteCollection(ctx, deleteOpts, listOpts); err != nil {
		return fmt.Errorf("failed to delete managed deployments: %w", err)
	}
	// Services have no collection delete in the API.
	services, err := c.client.CoreV1().Services(c.namespace).List(ctx, listOpts)
	if err != nil {
		return fmt.Errorf("failed to list managed services: %w", err)
	}
	for _, svc := range services.Items {
		if err := c.client.CoreV1().Services(c.namespace).Delete(ctx, svc.Name, deleteOpts); err != nil {
			return fmt.Errorf("failed to delete service %s: %w", svc.Name, err)
		}
	}
	if err := c.client.CoreV1().ConfigMaps(c.namespace).DeleteCollection(ctx, deleteOpts, listOpts); err != nil {
		return fmt.Errorf("failed to delete managed configmaps: %w", err)
	}

	return c.DeleteNamespace(ctx)
}
