package collector

import (
	"context"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/labels"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"

	"github.com/netscope/netscope/internal/domain"
)

// labelPartOf is the recommended app.kubernetes.io label naming the
// higher level application a pod belongs to
const labelPartOf = "app.kubernetes.io/part-of"

// systemNamespaces are cluster plumbing and skipped unless asked for
var systemNamespaces = map[string]struct{}{
	"kube-system":     {},
	"kube-public":     {},
	"kube-node-lease": {},
}

// KubernetesCollector scans a cluster, mapping each namespace to a
// network and each pod to a container on it. Service names selecting a
// pod become its resolvable aliases, which is exactly the surface where
// cluster DNS collisions show up.
type KubernetesCollector struct {
	clientset     kubernetes.Interface
	includeSystem bool
}

// NewKubernetesCollector creates a collector with in-cluster or
// kubeconfig auth
func NewKubernetesCollector(kubeconfig string, includeSystem bool) (*KubernetesCollector, error) {
	var cfg *rest.Config
	var err error

	if kubeconfig != "" {
		cfg, err = clientcmd.BuildConfigFromFlags("", kubeconfig)
	} else {
		cfg, err = rest.InClusterConfig()
		if err != nil {
			// Fallback to default kubeconfig
			cfg, err = clientcmd.BuildConfigFromFlags("", clientcmd.RecommendedHomeFile)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("k8s config: %w", err)
	}

	cs, err := kubernetes.NewForConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("k8s clientset: %w", err)
	}

	return &KubernetesCollector{clientset: cs, includeSystem: includeSystem}, nil
}

// Name identifies this source in merged snapshots
func (c *KubernetesCollector) Name() string {
	return "k8s"
}

// Collect lists namespaces, pods and services and folds them into the
// network model
func (c *KubernetesCollector) Collect(ctx context.Context) (*domain.Snapshot, error) {
	snap := domain.NewSnapshot(c.Name())

	namespaces, err := c.clientset.CoreV1().Namespaces().List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("list namespaces: %w", err)
	}

	for _, ns := range namespaces.Items {
		if !c.includeSystem {
			if _, ok := systemNamespaces[ns.Name]; ok {
				continue
			}
		}
		if err := c.collectNamespace(ctx, snap, ns.Name); err != nil {
			return nil, err
		}
	}

	return snap, nil
}

func (c *KubernetesCollector) collectNamespace(ctx context.Context, snap *domain.Snapshot, namespace string) error {
	snap.AddNetwork(namespace)

	pods, err := c.clientset.CoreV1().Pods(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return fmt.Errorf("list pods in %s: %w", namespace, err)
	}

	services, err := c.clientset.CoreV1().Services(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return fmt.Errorf("list services in %s: %w", namespace, err)
	}

	for _, pod := range pods.Items {
		snap.AddNode(namespace, podNode(pod, services.Items))
	}
	return nil
}

// podNode maps one pod into a container node. The first service whose
// selector matches the pod plays the compose service role, any further
// matches become aliases.
func podNode(pod corev1.Pod, services []corev1.Service) domain.NetworkNode {
	node := domain.NetworkNode{
		ContainerID:    string(pod.UID),
		ContainerName:  pod.Name,
		IPAddress:      pod.Status.PodIP,
		ComposeProject: pod.Labels[labelPartOf],
	}

	for _, svc := range services {
		if len(svc.Spec.Selector) == 0 {
			continue
		}
		if !labels.SelectorFromSet(svc.Spec.Selector).Matches(labels.Set(pod.Labels)) {
			continue
		}
		if node.ServiceName == "" {
			node.ServiceName = svc.Name
		} else {
			node.Aliases = append(node.Aliases, svc.Name)
		}
	}
	return node
}
