package dashboard

import (
	"fmt"
	"sort"
	"strings"

	"github.com/netscope/netscope/internal/domain"
)

// ContainerTag marks how a container row is highlighted in the views
type ContainerTag string

const (
	TagCritical    ContainerTag = "critical"
	TagHigh        ContainerTag = "high"
	TagHasConflict ContainerTag = "has-conflict"
	TagNone        ContainerTag = "none"
)

// TagFor reduces a container's conflict list to its display tag. A
// container with conflicts is tagged by its dominant severity; warning
// dominance maps to the generic has-conflict tag.
func TagFor(c domain.TreeContainer) ContainerTag {
	if len(c.Conflicts) == 0 {
		return TagNone
	}
	switch domain.DominantSeverity(c.Severities()) {
	case domain.SeverityCritical:
		return TagCritical
	case domain.SeverityHigh:
		return TagHigh
	default:
		return TagHasConflict
	}
}

// Classified is a conflict list split by urgency. Active conflicts
// break DNS resolution right now; potential ones are hygiene findings
// that may bite later.
type Classified struct {
	Active    []domain.Conflict
	Potential []domain.Conflict
}

// Classify partitions conflicts into active (critical and high) and
// potential (everything else). The partition is stable: each bucket
// keeps the input order rather than re-sorting by severity.
func Classify(conflicts []domain.Conflict) Classified {
	var cl Classified
	for _, c := range conflicts {
		switch c.Severity {
		case domain.SeverityCritical, domain.SeverityHigh:
			cl.Active = append(cl.Active, c)
		default:
			cl.Potential = append(cl.Potential, c)
		}
	}
	return cl
}

// SortBySeverity returns a copy ordered most severe first. The sort is
// stable so conflicts of equal severity keep their detection order.
func SortBySeverity(conflicts []domain.Conflict) []domain.Conflict {
	sorted := append([]domain.Conflict(nil), conflicts...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Severity.Rank() < sorted[j].Severity.Rank()
	})
	return sorted
}

// SeverityByContainer maps each conflicted container name to the most
// severe finding it appears in
func SeverityByContainer(conflicts []domain.Conflict) map[string]domain.Severity {
	out := make(map[string]domain.Severity)
	for _, c := range conflicts {
		for _, name := range c.Containers {
			if cur, ok := out[name]; !ok || c.Severity.MoreSevere(cur) {
				out[name] = c.Severity
			}
		}
	}
	return out
}

// FormatSubjects renders the subject line of a conflict: the attributed
// name list when the detector recorded one, the plain container list
// otherwise.
func FormatSubjects(c domain.Conflict) string {
	if len(c.ConflictingNames) > 0 {
		parts := make([]string, len(c.ConflictingNames))
		for i, cn := range c.ConflictingNames {
			parts[i] = fmt.Sprintf("%s (%s)", cn.Container, cn.Source)
		}
		return "Conflicting: " + strings.Join(parts, ", ")
	}
	return "Containers: " + strings.Join(c.Containers, ", ")
}

// ContainerDetail renders the secondary line of a container row from
// whatever is known about it: ip address, compose service, aliases.
// Parts are joined with a middot; the result is empty when nothing is
// known.
func ContainerDetail(c domain.TreeContainer) string {
	var parts []string
	if c.IP != "" {
		parts = append(parts, c.IP)
	}
	if c.Service != "" {
		parts = append(parts, "service: "+c.Service)
	}
	if len(c.Aliases) > 0 {
		parts = append(parts, "aliases: "+strings.Join(c.Aliases, ", "))
	}
	return strings.Join(parts, " · ")
}
