package conflict

import (
	"sort"

	"github.com/netscope/netscope/internal/domain"
)

// severityLookup maps (network, dns name) to the most severe conflict
// recorded for it. Among equal severities the first conflict wins.
func severityLookup(report *domain.Report) map[[2]string]domain.Severity {
	lookup := make(map[[2]string]domain.Severity)
	if report == nil {
		return lookup
	}
	for _, c := range report.Conflicts {
		key := [2]string{c.Network, c.DNSName}
		if current, ok := lookup[key]; !ok || c.Severity.MoreSevere(current) {
			lookup[key] = c.Severity
		}
	}
	return lookup
}

// BuildTree projects a snapshot into the hierarchical network view,
// tagging each container's DNS names with the severity the report found
// for them. Networks and containers are sorted by name; a container's
// conflict entries keep its DNS declaration order.
func BuildTree(snap *domain.Snapshot, report *domain.Report) []domain.TreeNetwork {
	tree := []domain.TreeNetwork{}
	if snap == nil {
		return tree
	}
	lookup := severityLookup(report)

	for _, networkName := range snap.NetworkNames() {
		nodes := append([]domain.NetworkNode(nil), snap.Networks[networkName]...)
		sort.Slice(nodes, func(i, j int) bool {
			return nodes[i].ContainerName < nodes[j].ContainerName
		})

		network := domain.TreeNetwork{
			Name:       networkName,
			Containers: []domain.TreeContainer{},
		}
		for _, node := range nodes {
			conflicts := []domain.TreeConflict{}
			for _, entry := range node.DNSNameEntries() {
				if sev, ok := lookup[[2]string{networkName, entry.Name}]; ok {
					conflicts = append(conflicts, domain.TreeConflict{
						Name:     entry.Name,
						Severity: sev,
						Source:   string(entry.Source),
					})
				}
			}
			network.Containers = append(network.Containers, domain.TreeContainer{
				Name:      node.ContainerName,
				IP:        node.IPAddress,
				Service:   node.ServiceName,
				Aliases:   node.Aliases,
				Conflicts: conflicts,
			})
		}
		tree = append(tree, network)
	}
	return tree
}
