package connectivity

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/aidar/sponsortrack/internal/repository"
)

// State describes the primary database connection.
type State string

// Connection states.
const (
	// StateDisabled means no connection string was configured; the fallback is always used.
	StateDisabled     State = "disabled"
	StateConnected    State = "connected"
	StateDisconnected State = "disconnected"
)

// ErrDisabled is returned by Connect when no primary database is configured.
var ErrDisabled = errors.New("primary database is not configured")

// Primary is a store backed by a remote database.
type Primary interface {
	repository.Store
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// Dialer opens a new client to the primary database.
type Dialer func(ctx context.Context) (Primary, error)

// Options controls connection timing.
type Options struct {
	ConnectTimeout time.Duration
	RetryInterval  time.Duration
	CheckInterval  time.Duration
}

// DefaultOptions returns the timings used when none are configured.
func DefaultOptions() Options {
	return Options{
		ConnectTimeout: 3 * time.Second,
		RetryInterval:  5 * time.Second,
		CheckInterval:  15 * time.Second,
	}
}

// Status is a point-in-time view of the connection.
type Status struct {
	Connected bool       `json:"connected"`
	State     State      `json:"state"`
	Source    string     `json:"source"`
	LastError string     `json:"lastError,omitempty"`
	CheckedAt *time.Time `json:"checkedAt,omitempty"`
}

// Manager owns the primary database client and decides, per call,
// whether the primary or the local fallback store serves data.
type Manager struct {
	dial     Dialer
	fallback repository.Store
	opts     Options
	metrics  *Metrics
	logger   *slog.Logger
	now      func() time.Time
	group    singleflight.Group

	mu          sync.RWMutex
	primary     Primary
	state       State
	lastErr     error
	lastAttempt time.Time
	checkedAt   time.Time
}

// NewManager creates a Manager. A nil dial disables the primary entirely.
// metrics may be nil.
func NewManager(dial Dialer, fallback repository.Store, opts Options, metrics *Metrics, logger *slog.Logger) *Manager {
	defaults := DefaultOptions()
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = defaults.ConnectTimeout
	}
	if opts.RetryInterval <= 0 {
		opts.RetryInterval = defaults.RetryInterval
	}
	if opts.CheckInterval <= 0 {
		opts.CheckInterval = defaults.CheckInterval
	}

	state := StateDisconnected
	if dial == nil {
		state = StateDisabled
	}

	return &Manager{
		dial:     dial,
		fallback: fallback,
		opts:     opts,
		metrics:  metrics,
		logger:   logger,
		now:      time.Now,
		state:    state,
	}
}

// Connect makes one bounded attempt to reach the primary: it dials when no
// client exists yet and pings the existing one otherwise. Concurrent calls
// share a single attempt.
func (m *Manager) Connect(ctx context.Context) error {
	if m.dial == nil {
		return ErrDisabled
	}

	_, err, _ := m.group.Do("connect", func() (any, error) {
		// The attempt is shared, so it must not die with the first caller's request.
		attemptCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.opts.ConnectTimeout)
		defer cancel()
		return nil, m.attempt(attemptCtx)
	})
	return err
}

func (m *Manager) attempt(ctx context.Context) error {
	m.mu.Lock()
	m.lastAttempt = m.now()
	primary := m.primary
	m.mu.Unlock()

	var err error
	if primary == nil {
		primary, err = m.dial(ctx)
	} else {
		err = primary.Ping(ctx)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.checkedAt = m.now()
	previous := m.state

	if err != nil {
		m.state = StateDisconnected
		m.lastErr = err
		m.metrics.connectAttempt(false)
		m.logger.Warn("primary database unavailable, using local fallback",
			"error", err,
			"was", previous,
		)
		return err
	}

	m.primary = primary
	m.state = StateConnected
	m.lastErr = nil
	m.metrics.connectAttempt(true)
	if previous != StateConnected {
		m.logger.Info("primary database connected", "source", primary.Name())
	}
	return nil
}

// Store returns the store that should serve the current request. When the
// primary is down and RetryInterval has passed since the last attempt, it
// tries to reconnect first. The choice is recorded in ctx if it carries a
// Selection.
func (m *Manager) Store(ctx context.Context) repository.Store {
	m.mu.RLock()
	state, primary, lastAttempt := m.state, m.primary, m.lastAttempt
	m.mu.RUnlock()

	switch state {
	case StateConnected:
		return m.selected(ctx, primary, true)
	case StateDisabled:
		return m.selected(ctx, m.fallback, false)
	}

	if m.now().Sub(lastAttempt) >= m.opts.RetryInterval {
		if err := m.Connect(ctx); err == nil {
			m.mu.RLock()
			primary = m.primary
			m.mu.RUnlock()
			return m.selected(ctx, primary, true)
		}
	}
	return m.selected(ctx, m.fallback, false)
}

func (m *Manager) selected(ctx context.Context, store repository.Store, primary bool) repository.Store {
	m.metrics.storeSelected(store.Name())
	recordSelection(ctx, store.Name(), primary)
	return store
}

// Run re-probes the primary every CheckInterval until ctx is cancelled.
func (m *Manager) Run(ctx context.Context) {
	if m.dial == nil {
		return
	}

	ticker := time.NewTicker(m.opts.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// failures are logged by attempt
			_ = m.Connect(ctx)
		}
	}
}

// Connected reports whether the primary currently serves requests.
func (m *Manager) Connected() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state == StateConnected
}

// Status returns the current connection status.
func (m *Manager) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()

	status := Status{
		Connected: m.state == StateConnected,
		State:     m.state,
		Source:    m.fallback.Name(),
	}
	if status.Connected {
		status.Source = m.primary.Name()
	}
	if m.lastErr != nil {
		status.LastError = m.lastErr.Error()
	}
	if !m.checkedAt.IsZero() {
		checkedAt := m.checkedAt.UTC()
		status.CheckedAt = &checkedAt
	}
	return status
}

// Close disconnects the primary client, if any.
func (m *Manager) Close(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.primary == nil {
		return nil
	}

	err := m.primary.Close(ctx)
	m.primary = nil
	if m.state == StateConnected {
		m.state = StateDisconnected
	}
	m.metrics.setConnected(false)
	return err
}
