package conflict

import (
	"fmt"
	"strings"

	"github.com/netscope/netscope/internal/domain"
)

// genericNames are service names so common that reusing them on a shared
// network invites collisions between stacks
var genericNames = map[string]struct{}{
	"db":            {},
	"database":      {},
	"postgres":      {},
	"postgresql":    {},
	"mysql":         {},
	"mariadb":       {},
	"mongo":         {},
	"mongodb":       {},
	"redis":         {},
	"cache":         {},
	"memcached":     {},
	"elasticsearch": {},
	"es":            {},
	"rabbitmq":      {},
	"mq":            {},
	"kafka":         {},
	"zookeeper":     {},
	"api":           {},
	"app":           {},
	"web":           {},
	"backend":       {},
	"frontend":      {},
	"worker":        {},
	"nginx":         {},
	"proxy":         {},
	"traefik":       {},
	"caddy":         {},
}

// IsGenericName reports whether name is a commonly reused service name
func IsGenericName(name string) bool {
	_, ok := genericNames[strings.ToLower(name)]
	return ok
}

// Detector finds DNS naming conflicts in a topology snapshot
type Detector struct {
	warnGeneric bool
}

// NewDetector builds a detector. When warnGenericNames is set, generic
// service names on shared networks produce warning level conflicts even
// without an actual duplicate.
func NewDetector(warnGenericNames bool) *Detector {
	return &Detector{warnGeneric: warnGenericNames}
}

// Analyze inspects every network in the snapshot and returns the report.
// Networks are checked in sorted name order so equal snapshots produce
// reports with identical conflict ordering.
func (d *Detector) Analyze(snap *domain.Snapshot) *domain.Report {
	report := &domain.Report{Conflicts: []domain.Conflict{}}
	if snap == nil {
		return report
	}

	for _, network := range snap.NetworkNames() {
		report.Conflicts = append(report.Conflicts, d.checkNetwork(network, snap.Networks[network])...)
	}

	report.TotalNetworks = snap.NetworkCount()
	report.TotalContainers = snap.ContainerCount()
	return report
}

// checkNetwork runs both rules against one network: duplicate DNS names
// across distinct containers, then generic names on shared networks.
func (d *Detector) checkNetwork(network string, nodes []domain.NetworkNode) []domain.Conflict {
	var conflicts []domain.Conflict

	byName := make(map[string][]domain.NetworkNode)
	var nameOrder []string
	for _, node := range nodes {
		for _, dnsName := range node.DNSNames() {
			if _, ok := byName[dnsName]; !ok {
				nameOrder = append(nameOrder, dnsName)
			}
			byName[dnsName] = append(byName[dnsName], node)
		}
	}

	for _, dnsName := range nameOrder {
		matching := byName[dnsName]
		if len(matching) < 2 {
			continue
		}
		if countDistinct(matching) < 2 {
			continue
		}
		conflicts = append(conflicts, duplicateConflict(network, dnsName, matching))
	}

	if d.warnGeneric && len(nodes) > 1 {
		for _, node := range nodes {
			for _, dnsName := range node.DNSNames() {
				if !IsGenericName(dnsName) {
					continue
				}
				if hasConflict(conflicts, network, dnsName) {
					continue
				}
				conflicts = append(conflicts, genericNameWarning(network, dnsName, node))
			}
		}
	}

	return conflicts
}

func countDistinct(nodes []domain.NetworkNode) int {
	ids := make(map[string]struct{}, len(nodes))
	for _, node := range nodes {
		ids[node.ContainerID] = struct{}{}
	}
	return len(ids)
}

func hasConflict(conflicts []domain.Conflict, network, dnsName string) bool {
	for _, c := range conflicts {
		if c.DNSName == dnsName && c.Network == network {
			return true
		}
	}
	return false
}

// duplicateConflict builds the conflict for one DNS name claimed by
// several distinct containers. Critical means every container is named
// exactly like the DNS name, so not even the owners can tell them apart.
func duplicateConflict(network, dnsName string, matching []domain.NetworkNode) domain.Conflict {
	var unique []domain.NetworkNode
	seen := make(map[string]struct{})
	for _, node := range matching {
		if _, ok := seen[node.ContainerID]; ok {
			continue
		}
		seen[node.ContainerID] = struct{}{}
		unique = append(unique, node)
	}

	severity := domain.SeverityCritical
	for _, node := range unique {
		if node.ContainerName != dnsName {
			severity = domain.SeverityHigh
			break
		}
	}

	names := make([]string, len(unique))
	for i, node := range unique {
		names[i] = node.ContainerName
	}

	description := fmt.Sprintf(
		"DNS name '%s' resolves to multiple containers on network '%s': %s",
		dnsName, network, strings.Join(names, ", "))

	return domain.Conflict{
		Severity:         severity,
		DNSName:          dnsName,
		Network:          network,
		Containers:       names,
		Description:      description,
		Remediation:      duplicateRemediation(network, dnsName, unique),
		ConflictingNames: attributeNames(unique, dnsName),
	}
}

// attributeNames records, per conflicting container, which declaration
// the colliding name came from
func attributeNames(nodes []domain.NetworkNode, dnsName string) []domain.ConflictingName {
	out := make([]domain.ConflictingName, 0, len(nodes))
	for _, node := range nodes {
		for _, entry := range node.DNSNameEntries() {
			if entry.Name == dnsName {
				out = append(out, domain.ConflictingName{
					Container: node.ContainerName,
					Source:    string(entry.Source),
				})
				break
			}
		}
	}
	return out
}

func duplicateRemediation(network, dnsName string, nodes []domain.NetworkNode) []string {
	var remediation []string

	projects := make(map[string]struct{})
	for _, node := range nodes {
		if node.ComposeProject != "" {
			projects[node.ComposeProject] = struct{}{}
		}
	}
	if len(projects) > 1 {
		remediation = append(remediation, fmt.Sprintf(
			"Move each stack to its own isolated network instead of sharing '%s'. "+
				"Only connect services that need external access to the shared network.", network))
	}

	remediation = append(remediation, fmt.Sprintf(
		"Rename the service in one of the compose files to use a unique name (e.g., '%s' -> 'myapp-%s').",
		dnsName, dnsName))

	remediation = append(remediation,
		"Use explicit network aliases in docker-compose.yml to give each service a unique DNS name on the shared network.")

	if IsGenericName(dnsName) {
		remediation = append(remediation,
			"Consider using stack-prefixed names for common services (e.g., 'immich-db', 'seafile-db' instead of just 'db').")
	}

	return remediation
}

// genericNameWarning flags a single container using a generic name on a
// network it shares with others. No duplicate exists yet, so the conflict
// carries no name attribution and lists just the one container.
func genericNameWarning(network, dnsName string, node domain.NetworkNode) domain.Conflict {
	description := fmt.Sprintf(
		"Container '%s' uses generic DNS name '%s' on shared network '%s'. "+
			"This may cause confusion if another stack with the same service name joins this network.",
		node.ContainerName, dnsName, network)

	prefix := node.ComposeProject
	if prefix == "" {
		prefix = "myapp"
	}

	remediation := []string{
		fmt.Sprintf("Rename the service to include a project prefix (e.g., '%s-%s').", prefix, dnsName),
		fmt.Sprintf("Keep '%s' on an isolated network and only expose the application container to '%s'.",
			node.ContainerName, network),
		"Use an explicit network alias in docker-compose.yml to override the DNS name on the shared network.",
	}

	return domain.Conflict{
		Severity:    domain.SeverityWarning,
		DNSName:     dnsName,
		Network:     network,
		Containers:  []string{node.ContainerName},
		Description: description,
		Remediation: remediation,
	}
}

// MultiNetworkContainer names a container attached to more than one network
type MultiNetworkContainer struct {
	Container string
	Networks  []string
}

// FindCrossNetworkContainers lists containers attached to multiple
// networks. Not a conflict by itself, but a hint that separate stacks may
// collide if those networks ever get joined.
func FindCrossNetworkContainers(snap *domain.Snapshot) []MultiNetworkContainer {
	var out []MultiNetworkContainer
	if snap == nil {
		return out
	}
	for _, name := range snap.ContainerNames() {
		networks := snap.NetworksFor(name)
		if len(networks) > 1 {
			out = append(out, MultiNetworkContainer{Container: name, Networks: networks})
		}
	}
	return out
}
