package cache

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/lib/pq"
	"github.com/rs/zerolog"
)

// SchemaChangedChannel is the PostgreSQL NOTIFY channel fired by the schemas table trigger
const SchemaChangedChannel = "schema_changed"

// SchemaChange describes one notification: the operation (INSERT or DELETE) and the app
type SchemaChange struct {
	Operation string
	AppID     string
}

// ParseSchemaChange parses a "<operation>:<app_id>" payload
func ParseSchemaChange(payload string) (SchemaChange, error) {
	op, appID, ok := strings.Cut(payload, ":")
	if !ok || op == "" || appID == "" {
		return SchemaChange{}, fmt.Errorf("invalid schema change payload: %q", payload)
	}
	return SchemaChange{Operation: op, AppID: appID}, nil
}

// ChangeNotifier listens for schema changes made by any registry instance and
// hands them to a callback, keeping per-instance caches consistent.
type ChangeNotifier struct {
	mu       sync.Mutex
	connStr  string
	onChange func(SchemaChange)
	// onReconnect runs after the listener reconnects; notifications may have been missed
	onReconnect func()
	listener    *pq.Listener
	log         zerolog.Logger
	stopCh      chan struct{}
	doneCh      chan struct{}
	stopped     bool
}

// NewChangeNotifier creates a notifier. onReconnect may be nil.
func NewChangeNotifier(connStr string, log zerolog.Logger, onChange func(SchemaChange), onReconnect func()) *ChangeNotifier {
	return &ChangeNotifier{
		connStr:     connStr,
		onChange:    onChange,
		onReconnect: onReconnect,
		log:         log,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}
}

// Start opens the LISTEN connection and starts dispatching notifications
func (n *ChangeNotifier) Start() error {
	reportProblem := func(ev pq.ListenerEventType, err error) {
		switch {
		case err != nil:
			n.log.Warn().Err(err).Msg("schema change listener error")
		case ev == pq.ListenerEventReconnected:
			n.log.Info().Msg("schema change listener reconnected")
		}
	}

	n.listener = pq.NewListener(n.connStr, 10*time.Second, time.Minute, reportProblem)
	if err := n.listener.Listen(SchemaChangedChannel); err != nil {
		n.listener.Close()
		return fmt.Errorf("failed to listen on %s: %w", SchemaChangedChannel, err)
	}

	go n.run(n.listener.Notify)
	return nil
}

// Stop stops dispatching and closes the listener
func (n *ChangeNotifier) Stop() error {
	n.mu.Lock()
	if n.stopped {
		n.mu.Unlock()
		return nil
	}
	n.stopped = true
	close(n.stopCh)
	n.mu.Unlock()

	if n.listener == nil {
		return nil
	}
	<-n.doneCh
	return n.listener.Close()
}

func (n *ChangeNotifier) run(notify <-chan *pq.Notification) {
	defer close(n.doneCh)
	ping := time.NewTicker(90 * time.Second)
	defer ping.Stop()

	for {
		select {
		case <-n.stopCh:
			return
		case notification := <-notify:
			n.handle(notification)
		case <-ping.C:
			go func() {
				if err := n.listener.Ping(); err != nil {
					n.log.Warn().Err(err).Msg("schema change listener ping failed")
				}
			}()
		}
	}
}

// handle dispatches a notification. A nil notification means the connection was re-established.
func (n *ChangeNotifier) handle(notification *pq.Notification) {
	if notification == nil {
		if n.onReconnect != nil {
			n.onReconnect()
		}
		return
	}

	change, err := ParseSchemaChange(notification.Extra)
	if err != nil {
		n.log.Warn().Err(err).Msg("ignoring schema change notification")
		return
	}
	n.log.Debug().Str("app", change.AppID).Str("op", change.Operation).Msg("schema changed")
	n.onChange(change)
}
