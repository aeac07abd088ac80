package alert

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netscope/netscope/internal/config"
	"github.com/netscope/netscope/internal/domain"
	"github.com/netscope/netscope/internal/observability"
)

// one registration against the default prometheus registry per test binary
var testMetrics = observability.NewMetrics()

type sentAlert struct {
	title    string
	message  string
	priority Priority
}

type stubBackend struct {
	err  error
	sent []sentAlert
}

func (s *stubBackend) Name() string { return "stub" }

func (s *stubBackend) Send(_ context.Context, title, message string, priority Priority) error {
	s.sent = append(s.sent, sentAlert{title: title, message: message, priority: priority})
	return s.err
}

func conflictOn(severity domain.Severity, dnsName, network string) domain.Conflict {
	return domain.Conflict{
		Severity:   severity,
		DNSName:    dnsName,
		Network:    network,
		Containers: []string{dnsName + "-1", dnsName + "-2"},
	}
}

func TestFromConfig(t *testing.T) {
	tests := []struct {
		name      string
		cfg       config.Config
		wantName  string
		wantErr   error
		wantUnset bool
	}{
		{name: "no url", cfg: config.Config{}, wantUnset: true},
		{name: "default type", cfg: config.Config{AlertURL: "http://x"}, wantName: "webhook"},
		{name: "webhook", cfg: config.Config{AlertURL: "http://x", AlertType: "webhook"}, wantName: "webhook"},
		{name: "case folded", cfg: config.Config{AlertURL: "http://x", AlertType: "NTFY"}, wantName: "ntfy"},
		{name: "gotify", cfg: config.Config{AlertURL: "http://x", AlertType: "gotify", GotifyToken: "tok"}, wantName: "gotify"},
		{name: "unknown", cfg: config.Config{AlertURL: "http://x", AlertType: "pagerduty"}, wantErr: domain.ErrUnknownAlertBackend},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := FromConfig(&tt.cfg, nil)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			if tt.wantUnset {
				assert.False(t, d.Configured())
				return
			}
			require.True(t, d.Configured())
			assert.Equal(t, tt.wantName, d.backend.Name())
		})
	}
}

func TestSendConflictAlertComposesMessage(t *testing.T) {
	stub := &stubBackend{}
	d := NewDispatcher(stub, nil)

	report := &domain.Report{Conflicts: []domain.Conflict{
		conflictOn(domain.SeverityCritical, "db", "shared"),
		conflictOn(domain.SeverityHigh, "api", "shared"),
		conflictOn(domain.SeverityHigh, "web", "edge"),
		conflictOn(domain.SeverityWarning, "cache", "backend"),
	}}

	require.NoError(t, d.SendConflictAlert(context.Background(), report))
	require.Len(t, stub.sent, 1)

	got := stub.sent[0]
	assert.Equal(t, "Docker Network Conflicts Detected", got.title)
	assert.Equal(t, PriorityUrgent, got.priority)

	want := strings.Join([]string{
		"Found 4 conflict(s):",
		"  - 1 CRITICAL",
		"  - 2 HIGH",
		"  - 1 WARNING",
		"",
		"Top issues:",
		"  [critical] db on shared",
		"  [high] api on shared",
		"  [high] web on edge",
		"  [warning] cache on backend",
	}, "\n")
	assert.Equal(t, want, got.message)
}

func TestSendConflictAlertOmitsZeroCounts(t *testing.T) {
	stub := &stubBackend{}
	d := NewDispatcher(stub, nil)

	report := &domain.Report{Conflicts: []domain.Conflict{
		conflictOn(domain.SeverityWarning, "cache", "backend"),
	}}

	require.NoError(t, d.SendConflictAlert(context.Background(), report))
	require.Len(t, stub.sent, 1)

	got := stub.sent[0]
	assert.Equal(t, PriorityDefault, got.priority)
	assert.NotContains(t, got.message, "CRITICAL")
	assert.NotContains(t, got.message, "HIGH")
	assert.Contains(t, got.message, "  - 1 WARNING")
}

func TestSendConflictAlertCapsTopIssues(t *testing.T) {
	stub := &stubBackend{}
	d := NewDispatcher(stub, nil)

	report := &domain.Report{}
	names := []string{"db", "api", "web", "cache", "redis", "mysql", "mongo"}
	for _, name := range names {
		report.Conflicts = append(report.Conflicts, conflictOn(domain.SeverityHigh, name, "shared"))
	}

	require.NoError(t, d.SendConflictAlert(context.Background(), report))
	require.Len(t, stub.sent, 1)

	got := stub.sent[0].message
	assert.Contains(t, got, "Found 7 conflict(s):")
	assert.Contains(t, got, "  [high] redis on shared")
	assert.NotContains(t, got, "mysql")
	assert.NotContains(t, got, "mongo")
}

func TestSendConflictAlertSkipsCleanReport(t *testing.T) {
	stub := &stubBackend{}
	d := NewDispatcher(stub, nil)

	require.NoError(t, d.SendConflictAlert(context.Background(), &domain.Report{}))
	require.NoError(t, d.SendConflictAlert(context.Background(), nil))
	assert.Empty(t, stub.sent)
}

func TestSendConflictAlertUnconfigured(t *testing.T) {
	d := NewDispatcher(nil, nil)

	err := d.SendConflictAlert(context.Background(), &domain.Report{Conflicts: []domain.Conflict{
		conflictOn(domain.SeverityHigh, "db", "shared"),
	}})
	assert.ErrorIs(t, err, domain.ErrAlertNotConfigured)

	assert.ErrorIs(t, d.SendTestAlert(context.Background()), domain.ErrAlertNotConfigured)
}

func TestSendTestAlert(t *testing.T) {
	stub := &stubBackend{}
	d := NewDispatcher(stub, nil)

	require.NoError(t, d.SendTestAlert(context.Background()))
	require.Len(t, stub.sent, 1)

	got := stub.sent[0]
	assert.Equal(t, "Docker Network Monitor Test", got.title)
	assert.Equal(t, "This is a test alert from netscope.", got.message)
	assert.Equal(t, PriorityLow, got.priority)
}

func TestSendRecordsMetrics(t *testing.T) {
	// Should not panic with metrics wired, on success and on failure
	d := NewDispatcher(&stubBackend{}, testMetrics)
	require.NoError(t, d.SendTestAlert(context.Background()))

	failing := NewDispatcher(&stubBackend{err: errors.New("boom")}, testMetrics)
	require.Error(t, failing.SendTestAlert(context.Background()))
}

func TestReportPriority(t *testing.T) {
	tests := []struct {
		name   string
		report *domain.Report
		want   Priority
	}{
		{
			name: "critical wins",
			report: &domain.Report{Conflicts: []domain.Conflict{
				conflictOn(domain.SeverityWarning, "a", "n"),
				conflictOn(domain.SeverityCritical, "b", "n"),
				conflictOn(domain.SeverityHigh, "c", "n"),
			}},
			want: PriorityUrgent,
		},
		{
			name: "high without critical",
			report: &domain.Report{Conflicts: []domain.Conflict{
				conflictOn(domain.SeverityWarning, "a", "n"),
				conflictOn(domain.SeverityHigh, "c", "n"),
			}},
			want: PriorityHigh,
		},
		{
			name: "warnings only",
			report: &domain.Report{Conflicts: []domain.Conflict{
				conflictOn(domain.SeverityWarning, "a", "n"),
			}},
			want: PriorityDefault,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, reportPriority(tt.report))
		})
	}
}
