package monitor

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/docker/docker/api/types/events"

	"github.com/netscope/netscope/internal/alert"
	"github.com/netscope/netscope/internal/domain"
)

// EventSource is the daemon event stream the monitor consumes.
// DockerCollector implements it.
type EventSource interface {
	Events(ctx context.Context) (<-chan events.Message, <-chan error)
}

// Rescan runs the scan pipeline and returns the resulting conflict
// report. Implementations own their output: the server variant updates
// the shared store, the CLI variant renders to the terminal.
type Rescan func(ctx context.Context) (*domain.Report, error)

const (
	defaultReconnectDelay   = 5 * time.Second
	defaultFailureThreshold = 5
)

type eventKey struct {
	kind   events.Type
	action events.Action
}

// relevantEvents mirrors the subscription filter. The daemon filters
// server side already; the map keeps unexpected stream content out.
var relevantEvents = map[eventKey]struct{}{
	{events.ContainerEventType, events.ActionStart}:    {},
	{events.ContainerEventType, events.ActionStop}:     {},
	{events.ContainerEventType, events.ActionDie}:      {},
	{events.NetworkEventType, events.ActionConnect}:    {},
	{events.NetworkEventType, events.ActionDisconnect}: {},
}

// Monitor watches the event stream and reruns the scan pipeline when
// the stream settles. A burst of events produces a single rescan after
// the debounce window. Stream failures trigger reconnects until the
// consecutive failure threshold is reached.
type Monitor struct {
	source      EventSource
	rescan      Rescan
	dispatcher  *alert.Dispatcher
	debounce    time.Duration
	initialScan bool

	reconnectDelay   time.Duration
	failureThreshold int

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
}

// New creates a monitor. dispatcher may be nil to disable alerting.
func New(
	source EventSource,
	rescan Rescan,
	dispatcher *alert.Dispatcher,
	debounce time.Duration,
	initialScan bool,
) *Monitor {
	return &Monitor{
		source:           source,
		rescan:           rescan,
		dispatcher:       dispatcher,
		debounce:         debounce,
		initialScan:      initialScan,
		reconnectDelay:   defaultReconnectDelay,
		failureThreshold: defaultFailureThreshold,
	}
}

// Start begins consuming events in a goroutine
func (m *Monitor) Start() {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return
	}
	m.running = true

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.mu.Unlock()

	log.Printf("Watching for network changes (debounce=%v)", m.debounce)
	if m.dispatcher != nil && m.dispatcher.Configured() {
		log.Printf("Alerting is enabled")
	}

	go m.run(ctx)
}

// Stop halts the monitor
func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}
	m.running = false
	if m.cancel != nil {
		m.cancel()
	}
	log.Printf("Stopped monitoring")
}

// IsRunning returns whether the monitor is currently active
func (m *Monitor) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

func (m *Monitor) run(ctx context.Context) {
	if m.initialScan {
		m.performScan(ctx)
	}

	failures := 0
	for {
		received, err := m.consume(ctx)
		if ctx.Err() != nil {
			return
		}
		if received {
			failures = 0
		}

		failures++
		log.Printf("Event stream error (%d/%d): %v", failures, m.failureThreshold, err)

		if failures >= m.failureThreshold {
			log.Printf("Event stream failed %d times in a row. Giving up.", m.failureThreshold)
			m.Stop()
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(m.reconnectDelay):
		}
	}
}

// consume drains one subscription until the stream breaks. It reports
// whether any relevant event arrived so the reconnect loop can tell a
// stream that worked and then broke from one that never came up.
func (m *Monitor) consume(ctx context.Context) (bool, error) {
	msgs, errs := m.source.Events(ctx)

	debounce := time.NewTimer(0)
	debounce.Stop()
	// Drain the timer channel in case it fired between NewTimer and Stop.
	select {
	case <-debounce.C:
	default:
	}
	defer debounce.Stop()

	received := false
	for {
		select {
		case <-ctx.Done():
			return received, ctx.Err()
		case err := <-errs:
			return received, err
		case msg, ok := <-msgs:
			if !ok {
				return received, errors.New("event stream closed")
			}
			if _, ok := relevantEvents[eventKey{msg.Type, msg.Action}]; !ok {
				continue
			}
			received = true
			logEvent(msg)
			debounce.Reset(m.debounce)
		case <-debounce.C:
			m.performScan(ctx)
		}
	}
}

// performScan runs the pipeline and dispatches an alert when the scan
// found conflicts
func (m *Monitor) performScan(ctx context.Context) {
	report, err := m.rescan(ctx)
	if err != nil {
		log.Printf("Scan error: %v", err)
		return
	}
	if report == nil || !report.HasConflicts() {
		return
	}

	if m.dispatcher != nil && m.dispatcher.Configured() {
		if err := m.dispatcher.SendConflictAlert(ctx, report); err != nil {
			log.Printf("Failed to send alert: %v", err)
		} else {
			log.Printf("Alert sent (%d conflicts)", len(report.Conflicts))
		}
	}
}

func logEvent(msg events.Message) {
	name := msg.Actor.Attributes["name"]
	if name == "" {
		name = msg.Actor.ID
		if len(name) > 12 {
			name = name[:12]
		}
	}
	log.Printf("Event %s:%s %s", msg.Type, msg.Action, name)
}
