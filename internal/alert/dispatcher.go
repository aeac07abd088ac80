package alert

import (
	"context"
	"fmt"
	"strings"

	"github.com/netscope/netscope/internal/config"
	"github.com/netscope/netscope/internal/domain"
	"github.com/netscope/netscope/internal/observability"
)

const conflictTitle = "Docker Network Conflicts Detected"

// Dispatcher sends notifications through the configured backend and
// records every attempt. A dispatcher without a backend is valid and
// rejects sends with ErrAlertNotConfigured.
type Dispatcher struct {
	backend Backend
	metrics *observability.Metrics
}

// NewDispatcher wraps a backend. Both arguments may be nil.
func NewDispatcher(backend Backend, metrics *observability.Metrics) *Dispatcher {
	return &Dispatcher{backend: backend, metrics: metrics}
}

// FromConfig builds a dispatcher from the alert settings. An empty alert
// URL yields an unconfigured dispatcher, which is not an error; an
// unrecognised backend type is.
func FromConfig(cfg *config.Config, metrics *observability.Metrics) (*Dispatcher, error) {
	if cfg.AlertURL == "" {
		return NewDispatcher(nil, metrics), nil
	}

	switch strings.ToLower(cfg.AlertType) {
	case "", "webhook":
		return NewDispatcher(NewWebhookBackend(cfg.AlertURL), metrics), nil
	case "ntfy":
		return NewDispatcher(NewNtfyBackend(cfg.AlertURL), metrics), nil
	case "gotify":
		return NewDispatcher(NewGotifyBackend(cfg.AlertURL, cfg.GotifyToken), metrics), nil
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownAlertBackend, cfg.AlertType)
	}
}

// Configured reports whether a backend is set
func (d *Dispatcher) Configured() bool {
	return d.backend != nil
}

// SendConflictAlert notifies about the conflicts in the report. A report
// without conflicts is skipped silently.
func (d *Dispatcher) SendConflictAlert(ctx context.Context, report *domain.Report) error {
	if d.backend == nil {
		return domain.ErrAlertNotConfigured
	}
	if report == nil || !report.HasConflicts() {
		return nil
	}
	return d.send(ctx, conflictTitle, conflictMessage(report), reportPriority(report))
}

// SendTestAlert sends a low priority probe so an operator can verify the
// backend configuration end to end
func (d *Dispatcher) SendTestAlert(ctx context.Context) error {
	if d.backend == nil {
		return domain.ErrAlertNotConfigured
	}
	return d.send(ctx, "Docker Network Monitor Test", "This is a test alert from netscope.", PriorityLow)
}

func (d *Dispatcher) send(ctx context.Context, title, message string, priority Priority) error {
	err := d.backend.Send(ctx, title, message, priority)

	if d.metrics != nil {
		status := "success"
		if err != nil {
			status = "error"
		}
		d.metrics.RecordAlert(d.backend.Name(), status)
	}
	return err
}

// conflictMessage builds the notification body: total and per severity
// counts followed by up to five of the reported issues
func conflictMessage(report *domain.Report) string {
	lines := []string{fmt.Sprintf("Found %d conflict(s):", len(report.Conflicts))}
	if n := report.CriticalCount(); n > 0 {
		lines = append(lines, fmt.Sprintf("  - %d CRITICAL", n))
	}
	if n := report.HighCount(); n > 0 {
		lines = append(lines, fmt.Sprintf("  - %d HIGH", n))
	}
	if n := report.WarningCount(); n > 0 {
		lines = append(lines, fmt.Sprintf("  - %d WARNING", n))
	}

	lines = append(lines, "", "Top issues:")
	for i, c := range report.Conflicts {
		if i == maxTopIssues {
			break
		}
		lines = append(lines, fmt.Sprintf("  [%s] %s on %s", c.Severity, c.DNSName, c.Network))
	}

	return strings.Join(lines, "\n")
}

// reportPriority picks the notification urgency from the most severe
// conflict present
func reportPriority(report *domain.Report) Priority {
	switch {
	case report.CriticalCount() > 0:
		return PriorityUrgent
	case report.HighCount() > 0:
		return PriorityHigh
	default:
		return PriorityDefault
	}
}
