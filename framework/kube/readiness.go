package kube

import (
	"context"
	"fmt"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"

	"github.com/redhat/upgrade-checks/test/framework/wait"
)

// WaitForDeploymentReady waits for the deployment's observed rollout to
// finish with every replica ready
func (c *Cluster) WaitForDeploymentReady(ctx context.Context, name string) error {
	err := wait.PollContext(ctx, func() (bool, error) {
		deployment, err := c.client.AppsV1().Deployments(c.namespace).Get(ctx, name, metav1.GetOptions{})
		if err != nil {
			return false, err
		}

		if deployment.Generation > deployment.Status.ObservedGeneration {
			return false, fmt.Errorf("rollout not observed yet (generation %d > %d)",
				deployment.Generation, deployment.Status.ObservedGeneration)
		}
		want := int32(1)
		if deployment.Spec.Replicas != nil {
			want = *deployment.Spec.Replicas
		}
		if deployment.Status.UpdatedReplicas < want || deployment.Status.ReadyReplicas < want {
			return false, fmt.Errorf("%d/%d replicas updated, %d/%d ready",
				deployment.Status.UpdatedReplicas, want, deployment.Status.ReadyReplicas, want)
		}
		return true, nil
	}, c.config.RolloutTimeout, c.config.RolloutPollInterval)
	if err != nil {
		return fmt.Errorf("deployment %s not ready: %w", name, err)
	}
	return nil
}

// WaitForDeploymentScaledDown waits for the deployment to have no
// remaining replicas
func (c *Cluster) WaitForDeploymentScaledDown(ctx context.Context, name string) error {
	err := wait.PollContext(ctx, func() (bool, error) {
		deployment, err := c.client.AppsV1().Deployments(c.namespace).Get(ctx, name, metav1.GetOptions{})
		if err != nil {
			return false, err
		}
		if deployment.Status.Replicas > 0 {
			return false, fmt.Errorf("%d replicas still running", deployment.Status.Replicas)
		}
		return true, nil
	}, c.config.RolloutTimeout, c.config.RolloutPollInterval)
	if err != nil {
		return fmt.Errorf("deployment %s not scaled down: %w", name, err)
	}
	return nil
}

// ScaleDeployment sets the deployment's replica count
func (c *Cluster) ScaleDeployment(ctx context.Context, name string, replicas int32) error {
	patch := fmt.Sprintf(`{"spec":{"replicas":%d}}`, replicas)
	_, err := c.client.AppsV1().Deployments(c.namespace).Patch(
		ctx, name, types.StrategicMergePatchType, []byte(patch), metav1.PatchOptions{})
	if err != nil {
		return fmt.Errorf("failed to scale deployment %s to %d: %w", name, replicas, err)
	}
	return nil
}
