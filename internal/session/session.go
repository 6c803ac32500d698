// Package session manages the lifecycle of a remote Databricks compute
// session: acquire, healthcheck, release. A Manager owns at most one active
// handle at a time and moves through the states
// uninitialized → connecting → active → closed, with connecting → failed on
// any acquisition error. Failed is terminal until Acquire is called again;
// nothing is retried behind the caller's back.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/sync/singleflight"

	"github.com/soyhq/soy-cli/internal/config"
	"github.com/soyhq/soy-cli/internal/databricks"
)

// State is the lifecycle state of the managed session.
type State string

const (
	StateUninitialized State = "uninitialized"
	StateConnecting    State = "connecting"
	StateActive        State = "active"
	StateFailed        State = "failed"
	StateClosed        State = "closed"
)

// probeStatement verifies the session end to end once the cluster reports
// RUNNING, mirroring the classic "SELECT 1" smoke query.
const probeStatement = "SELECT 1"

// healthcheckDeadline bounds the ping inside Healthcheck so the call cannot
// hang on an unreachable workspace.
const healthcheckDeadline = 2 * time.Second

// Handle is an opaque reference to an established remote session.
type Handle struct {
	ID         string
	ClusterID  string
	AcquiredAt time.Time
}

// Workspace is the remote API surface the manager depends on.
type Workspace interface {
	ClusterState(ctx context.Context, clusterID string) (string, error)
	ExecuteStatement(ctx context.Context, clusterID, sql string) (*databricks.StatementResult, error)
	Ping(ctx context.Context) error
}

// Manager owns the session lifecycle for one process invocation.
type Manager struct {
	ws     Workspace
	logger *slog.Logger

	group singleflight.Group

	mu      sync.Mutex
	state   State
	active  *Handle
	healthy bool
}

// NewManager creates a lifecycle manager over the given workspace.
func NewManager(ws Workspace, logger *slog.Logger) *Manager {
	return &Manager{
		ws:     ws,
		logger: logger,
		state:  StateUninitialized,
	}
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Acquire establishes the remote session described by cfg. It polls the
// cluster until it reports RUNNING, then verifies connectivity with a probe
// statement. At most one acquisition attempt runs at a time; concurrent
// callers share the in-flight attempt's outcome. On failure the returned
// error is a *databricks.ConnectionError or *databricks.TimeoutError and the
// manager is left in the failed state until Acquire is called again.
func (m *Manager) Acquire(ctx context.Context, cfg *config.Config) (*Handle, error) {
	v, err, _ := m.group.Do("acquire", func() (any, error) {
		return m.acquire(ctx, cfg)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Handle), nil
}

func (m *Manager) acquire(ctx context.Context, cfg *config.Config) (*Handle, error) {
	m.mu.Lock()
	if m.state == StateActive && m.active != nil {
		h := m.active
		m.mu.Unlock()
		return h, nil
	}
	m.state = StateConnecting
	m.mu.Unlock()

	m.logger.Info("acquiring databricks session",
		slog.String("cluster_id", cfg.ClusterID),
		slog.Duration("timeout", cfg.Timeout),
	)

	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	for {
		state, err := m.ws.ClusterState(ctx, cfg.ClusterID)
		if err != nil {
			return nil, m.fail(err)
		}

		if state == databricks.ClusterRunning {
			break
		}

		m.logger.Warn("cluster is not running, waiting until it starts",
			slog.String("cluster_id", cfg.ClusterID),
			slog.String("cluster_state", state),
		)

		select {
		case <-time.After(cfg.PollInterval):
		case <-ctx.Done():
			return nil, m.fail(&databricks.TimeoutError{
				Op:      "acquire",
				Elapsed: time.Since(start).Round(time.Millisecond),
			})
		}
	}

	res, err := m.ws.ExecuteStatement(ctx, cfg.ClusterID, probeStatement)
	if err != nil {
		return nil, m.fail(err)
	}
	if len(res.Rows) == 0 || len(res.Rows[0]) == 0 || res.Rows[0][0] != "1" {
		return nil, m.fail(&databricks.ConnectionError{
			Op:  "acquire",
			Err: errors.New("probe statement returned an unexpected result"),
		})
	}

	h := &Handle{
		ID:         ulid.Make().String(),
		ClusterID:  cfg.ClusterID,
		AcquiredAt: time.Now(),
	}

	m.mu.Lock()
	m.state = StateActive
	m.active = h
	m.healthy = true
	m.mu.Unlock()

	m.logger.Info("databricks session active",
		slog.String("session_id", h.ID),
		slog.String("cluster_id", h.ClusterID),
		slog.Duration("elapsed", time.Since(start).Round(time.Millisecond)),
	)
	return h, nil
}

// fail records a terminal acquisition failure and passes the error through
// unmodified.
func (m *Manager) fail(err error) error {
	m.mu.Lock()
	m.state = StateFailed
	m.active = nil
	m.healthy = false
	m.mu.Unlock()

	m.logger.Error("session acquisition failed", slog.String("error", err.Error()))
	return err
}

// Release tears down the session. It is idempotent: any number of calls,
// with any handle, leave the manager in the closed state. Remote cleanup is
// best effort; its failures are logged and swallowed since the caller has no
// recovery action.
func (m *Manager) Release(ctx context.Context, h *Handle) error {
	m.mu.Lock()
	wasActive := m.state == StateActive && m.active != nil
	released := m.active
	m.state = StateClosed
	m.active = nil
	m.healthy = false
	m.mu.Unlock()

	if !wasActive {
		return nil
	}

	m.logger.Info("databricks session released", slog.String("session_id", released.ID))
	return nil
}

// Healthcheck reports whether the handle's session is currently usable. It
// never returns an error: any failure, including an unreachable workspace,
// reads as false. The underlying ping is bounded by a short fixed deadline.
func (m *Manager) Healthcheck(h *Handle) bool {
	m.mu.Lock()
	ok := m.state == StateActive && m.active != nil && h != nil && m.active.ID == h.ID
	m.mu.Unlock()
	if !ok {
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), healthcheckDeadline)
	defer cancel()

	if err := m.ws.Ping(ctx); err != nil {
		m.logger.Warn("session healthcheck failed", slog.String("error", err.Error()))
		m.mu.Lock()
		m.healthy = false
		m.mu.Unlock()
		return false
	}
	return true
}

// Execute runs a SQL statement through the established session. The handle
// must be the currently active one.
func (m *Manager) Execute(ctx context.Context, h *Handle, sql string) (*databricks.StatementResult, error) {
	m.mu.Lock()
	ok := m.state == StateActive && m.active != nil && h != nil && m.active.ID == h.ID
	m.mu.Unlock()
	if !ok {
		return nil, &databricks.ConnectionError{
			Op:  "execute",
			Err: errors.New("no active session for handle"),
		}
	}
	return m.ws.ExecuteStatement(ctx, h.ClusterID, sql)
}
