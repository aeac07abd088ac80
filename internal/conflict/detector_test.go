package conflict

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netscope/netscope/internal/domain"
)

func snapshotWith(network string, nodes ...domain.NetworkNode) *domain.Snapshot {
	snap := domain.NewSnapshot("docker")
	for _, node := range nodes {
		snap.AddNode(network, node)
	}
	return snap
}

func TestIsGenericName(t *testing.T) {
	assert.True(t, IsGenericName("db"))
	assert.True(t, IsGenericName("Redis"))
	assert.True(t, IsGenericName("POSTGRES"))
	assert.False(t, IsGenericName("myapp-db"))
	assert.False(t, IsGenericName(""))
}

func TestAnalyzeDuplicateExactNamesIsCritical(t *testing.T) {
	snap := snapshotWith("shared",
		domain.NetworkNode{ContainerID: "aaa", ContainerName: "db"},
		domain.NetworkNode{ContainerID: "bbb", ContainerName: "db"},
	)

	report := NewDetector(false).Analyze(snap)

	require.Len(t, report.Conflicts, 1)
	c := report.Conflicts[0]
	assert.Equal(t, domain.SeverityCritical, c.Severity)
	assert.Equal(t, "db", c.DNSName)
	assert.Equal(t, "shared", c.Network)
	assert.Equal(t, []string{"db", "db"}, c.Containers)
	assert.Equal(t,
		"DNS name 'db' resolves to multiple containers on network 'shared': db, db",
		c.Description)
}

func TestAnalyzeDuplicateViaAliasIsHigh(t *testing.T) {
	snap := snapshotWith("shared",
		domain.NetworkNode{ContainerID: "aaa", ContainerName: "myapp-db", Aliases: []string{"db"}},
		domain.NetworkNode{ContainerID: "bbb", ContainerName: "db"},
	)

	report := NewDetector(false).Analyze(snap)

	require.Len(t, report.Conflicts, 1)
	c := report.Conflicts[0]
	assert.Equal(t, domain.SeverityHigh, c.Severity)
	assert.Equal(t, []string{"myapp-db", "db"}, c.Containers)
	require.Len(t, c.ConflictingNames, 2)
	assert.Equal(t, domain.ConflictingName{Container: "myapp-db", Source: "alias"}, c.ConflictingNames[0])
	assert.Equal(t, domain.ConflictingName{Container: "db", Source: "container name"}, c.ConflictingNames[1])
}

func TestAnalyzeSameContainerTwiceIsNotConflict(t *testing.T) {
	// one container claiming a name through two declarations is fine,
	// the name still resolves to a single endpoint
	snap := snapshotWith("shared",
		domain.NetworkNode{ContainerID: "aaa", ContainerName: "db", ServiceName: "db"},
		domain.NetworkNode{ContainerID: "bbb", ContainerName: "standalone-app"},
	)

	report := NewDetector(false).Analyze(snap)
	assert.Empty(t, report.Conflicts)
}

func TestAnalyzeServiceNameCollision(t *testing.T) {
	snap := snapshotWith("shared",
		domain.NetworkNode{ContainerID: "aaa", ContainerName: "stack1-db-1", ServiceName: "db"},
		domain.NetworkNode{ContainerID: "bbb", ContainerName: "stack2-db-1", ServiceName: "db"},
	)

	report := NewDetector(false).Analyze(snap)

	require.Len(t, report.Conflicts, 1)
	c := report.Conflicts[0]
	assert.Equal(t, domain.SeverityHigh, c.Severity)
	assert.Equal(t, "db", c.DNSName)
	require.Len(t, c.ConflictingNames, 2)
	assert.Equal(t, "service name", c.ConflictingNames[0].Source)
	assert.Equal(t, "service name", c.ConflictingNames[1].Source)
}

func TestAnalyzeGenericNameWarning(t *testing.T) {
	snap := snapshotWith("shared",
		domain.NetworkNode{ContainerID: "aaa", ContainerName: "redis"},
		domain.NetworkNode{ContainerID: "bbb", ContainerName: "myapp-ui"},
	)

	report := NewDetector(true).Analyze(snap)

	require.Len(t, report.Conflicts, 1)
	c := report.Conflicts[0]
	assert.Equal(t, domain.SeverityWarning, c.Severity)
	assert.Equal(t, "redis", c.DNSName)
	assert.Equal(t, []string{"redis"}, c.Containers)
	assert.Empty(t, c.ConflictingNames)
	assert.Contains(t, c.Description, "uses generic DNS name 'redis'")
	require.NotEmpty(t, c.Remediation)
	assert.Equal(t, "Rename the service to include a project prefix (e.g., 'myapp-redis').", c.Remediation[0])
}

func TestAnalyzeGenericWarningUsesComposeProjectPrefix(t *testing.T) {
	snap := snapshotWith("shared",
		domain.NetworkNode{ContainerID: "aaa", ContainerName: "redis", ComposeProject: "immich"},
		domain.NetworkNode{ContainerID: "bbb", ContainerName: "myapp-ui"},
	)

	report := NewDetector(true).Analyze(snap)

	require.Len(t, report.Conflicts, 1)
	assert.Equal(t, "Rename the service to include a project prefix (e.g., 'immich-redis').",
		report.Conflicts[0].Remediation[0])
}

func TestAnalyzeGenericSuppressedByDuplicate(t *testing.T) {
	snap := snapshotWith("shared",
		domain.NetworkNode{ContainerID: "aaa", ContainerName: "db"},
		domain.NetworkNode{ContainerID: "bbb", ContainerName: "db"},
	)

	report := NewDetector(true).Analyze(snap)

	require.Len(t, report.Conflicts, 1)
	assert.Equal(t, domain.SeverityCritical, report.Conflicts[0].Severity)
}

func TestAnalyzeGenericSkippedOnSingleNodeNetwork(t *testing.T) {
	snap := snapshotWith("lonely",
		domain.NetworkNode{ContainerID: "aaa", ContainerName: "redis"},
	)

	report := NewDetector(true).Analyze(snap)
	assert.Empty(t, report.Conflicts)
}

func TestAnalyzeGenericDisabled(t *testing.T) {
	snap := snapshotWith("shared",
		domain.NetworkNode{ContainerID: "aaa", ContainerName: "redis"},
		domain.NetworkNode{ContainerID: "bbb", ContainerName: "myapp-ui"},
	)

	report := NewDetector(false).Analyze(snap)
	assert.Empty(t, report.Conflicts)
}

func TestAnalyzeTotals(t *testing.T) {
	snap := domain.NewSnapshot("docker")
	snap.AddNode("net-a", domain.NetworkNode{ContainerID: "aaa", ContainerName: "one"})
	snap.AddNode("net-a", domain.NetworkNode{ContainerID: "bbb", ContainerName: "two"})
	snap.AddNode("net-b", domain.NetworkNode{ContainerID: "aaa", ContainerName: "one"})
	snap.AddNetwork("net-c")

	report := NewDetector(true).Analyze(snap)

	assert.Equal(t, 3, report.TotalNetworks)
	assert.Equal(t, 2, report.TotalContainers)
}

func TestAnalyzeNilSnapshot(t *testing.T) {
	report := NewDetector(true).Analyze(nil)

	assert.NotNil(t, report)
	assert.Empty(t, report.Conflicts)
	assert.Equal(t, 0, report.TotalNetworks)
}

func TestDuplicateRemediationMultipleProjects(t *testing.T) {
	snap := snapshotWith("shared",
		domain.NetworkNode{ContainerID: "aaa", ContainerName: "immich-db", ServiceName: "db", ComposeProject: "immich"},
		domain.NetworkNode{ContainerID: "bbb", ContainerName: "seafile-db", ServiceName: "db", ComposeProject: "seafile"},
	)

	report := NewDetector(false).Analyze(snap)

	require.Len(t, report.Conflicts, 1)
	remediation := report.Conflicts[0].Remediation
	require.Len(t, remediation, 4)
	assert.Contains(t, remediation[0], "Move each stack to its own isolated network instead of sharing 'shared'")
	assert.Contains(t, remediation[1], "'db' -> 'myapp-db'")
	assert.Contains(t, remediation[2], "explicit network aliases")
	assert.Contains(t, remediation[3], "'immich-db', 'seafile-db'")
}

func TestDuplicateRemediationSingleProject(t *testing.T) {
	snap := snapshotWith("shared",
		domain.NetworkNode{ContainerID: "aaa", ContainerName: "app-1", Aliases: []string{"internal"}},
		domain.NetworkNode{ContainerID: "bbb", ContainerName: "app-2", Aliases: []string{"internal"}},
	)

	report := NewDetector(false).Analyze(snap)

	require.Len(t, report.Conflicts, 1)
	remediation := report.Conflicts[0].Remediation
	// no cross-project advice and no generic-name advice for 'internal'
	require.Len(t, remediation, 2)
	assert.Contains(t, remediation[0], "'internal' -> 'myapp-internal'")
}

func TestFindCrossNetworkContainers(t *testing.T) {
	snap := domain.NewSnapshot("docker")
	snap.AddNode("net-a", domain.NetworkNode{ContainerID: "aaa", ContainerName: "gateway"})
	snap.AddNode("net-b", domain.NetworkNode{ContainerID: "aaa", ContainerName: "gateway"})
	snap.AddNode("net-a", domain.NetworkNode{ContainerID: "bbb", ContainerName: "solo"})

	got := FindCrossNetworkContainers(snap)

	require.Len(t, got, 1)
	assert.Equal(t, "gateway", got[0].Container)
	assert.Equal(t, []string{"net-a", "net-b"}, got[0].Networks)
}

func TestFindCrossNetworkContainersNil(t *testing.T) {
	assert.Empty(t, FindCrossNetworkContainers(nil))
}
