// Package membership tracks node presence and runs the heartbeat-based
// liveness sweep that evicts silent nodes.
package membership

import (
	"context"
	"sync"
	"time"

	"github.com/Geekthedev/korra/domain"
)

// DefaultHeartbeatInterval and DefaultNodeTimeout mirror the reference
// implementation's fixed sweep cadence.
const (
	DefaultHeartbeatInterval = 10 * time.Second
	DefaultNodeTimeout       = 30 * time.Second
)

// Clock abstracts wall-clock reads so the liveness sweep is testable without
// real sleeps.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock backed by time.Now.
type SystemClock struct{}

// Now returns the current wall-clock time.
func (SystemClock) Now() time.Time { return time.Now() }

// Sink receives membership lifecycle notifications.
type Sink interface {
	NodeJoined(node domain.Node)
	NodeLeft(nodeID string)
	NodeEvicted(nodeID string)
}

type nopSink struct{}

func (nopSink) NodeJoined(domain.Node) {}
func (nopSink) NodeLeft(string) {}
func (nopSink) NodeEvicted(string) {}

// Membership is the concurrency-safe node directory.
type Membership struct {
	mu    sync.RWMutex
	nodes map[string]domain.Node
	order []string // insertion order, for the router's first-match placement

	clock             Clock
	heartbeatInterval time.Duration
	nodeTimeout       time.Duration
	selfID            string
	sink              Sink

	cancel context.CancelFunc
	done   chan struct{}
}

// Option configures a Membership at construction time.
type Option func(*Membership)

// WithClock overrides the clock used by the liveness sweep.
func WithClock(c Clock) Option { return func(m *Membership) { m.clock = c } }

// WithHeartbeatInterval overrides the sweep cadence.
func WithHeartbeatInterval(d time.Duration) Option {
	return func(m *Membership) { m.heartbeatInterval = d }
}

// WithNodeTimeout overrides the eviction threshold.
func WithNodeTimeout(d time.Duration) Option {
	return func(m *Membership) { m.nodeTimeout = d }
}

// WithSelfID excludes a node id from the liveness sweep, mirroring the
// coordinator's own node identity guard.
func WithSelfID(id string) Option { return func(m *Membership) { m.selfID = id } }

// New constructs a Membership. Pass nil for sink to skip notifications.
func New(sink Sink, opts ...Option) *Membership {
	if sink == nil {
		sink = nopSink{}
	}
	m := &Membership{
		nodes:             make(map[string]domain.Node),
		clock:             SystemClock{},
		heartbeatInterval: DefaultHeartbeatInterval,
		nodeTimeout:       DefaultNodeTimeout,
		sink:              sink,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Register adds or replaces a node record, setting it Online with a fresh
// heartbeat.
func (m *Membership) Register(node domain.Node) {
	node.Status = domain.NodeStatusOnline
	node.LastHeartbeat = m.clock.Now()
	if node.JoinedAt.IsZero() {
		node.JoinedAt = node.LastHeartbeat
	}
	stored := node.Clone()
	m.mu.Lock()
	if _, exists := m.nodes[node.ID]; !exists {
		m.order = append(m.order, node.ID)
	}
	m.nodes[node.ID] = stored
	m.mu.Unlock()
	m.sink.NodeJoined(stored)
}

// Unregister removes a node, reporting whether it was present.
func (m *Membership) Unregister(nodeID string) bool {
	m.mu.Lock()
	_, ok := m.nodes[nodeID]
	if ok {
		delete(m.nodes, nodeID)
		m.removeOrderLocked(nodeID)
	}
	m.mu.Unlock()
	if ok {
		m.sink.NodeLeft(nodeID)
	}
	return ok
}

func (m *Membership) removeOrderLocked(nodeID string) {
	for i, id := range m.order {
		if id == nodeID {
			m.order = append(m.order[:i], m.order[i+1:]...)
			return
		}
	}
}

// Heartbeat refreshes a node's liveness timestamp, reporting whether the
// node is known.
func (m *Membership) Heartbeat(nodeID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.nodes[nodeID]
	if !ok {
		return false
	}
	n.LastHeartbeat = m.clock.Now()
	m.nodes[nodeID] = n
	return true
}

// SetStatus updates a node's status field directly, used for Busy/Error/
// Offline transitions signalled externally.
func (m *Membership) SetStatus(nodeID string, status domain.NodeStatus) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.nodes[nodeID]
	if !ok {
		return false
	}
	n.Status = status
	m.nodes[nodeID] = n
	return true
}

// Get returns a defensive copy of a node record, if present.
func (m *Membership) Get(nodeID string) (domain.Node, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n, ok := m.nodes[nodeID]
	if !ok {
		return domain.Node{}, false
	}
	return n.Clone(), true
}

// All returns a point-in-time snapshot of every known node in registration
// order, which the router relies on for deterministic first-match placement.
func (m *Membership) All() []domain.Node {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.Node, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.nodes[id].Clone())
	}
	return out
}

// Count returns the number of nodes currently tracked.
func (m *Membership) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.nodes)
}

// StartSweep launches the periodic liveness sweep in a goroutine. It is
// idempotent: calling it a second time before StopSweep is a no-op.
func (m *Membership) StartSweep(ctx context.Context) {
	if m.cancel != nil {
		return
	}
	sweepCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.done = make(chan struct{})
	go m.runSweep(sweepCtx)
}

// StopSweep cancels the sweep and blocks until the in-progress pass, if any,
// completes.
func (m *Membership) StopSweep() {
	if m.cancel == nil {
		return
	}
	m.cancel()
	<-m.done
	m.cancel = nil
}

func (m *Membership) runSweep(ctx context.Context) {
	defer close(m.done)
	ticker := time.NewTicker(m.heartbeatInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.sweep()
		}
	}
}

// sweep evicts every node other than selfID whose last heartbeat is older
// than nodeTimeout.
func (m *Membership) sweep() {
	now := m.clock.Now()
	m.mu.RLock()
	stale := make([]string, 0)
	for id, n := range m.nodes {
		if id == m.selfID {
			continue
		}
		if now.Sub(n.LastHeartbeat) > m.nodeTimeout {
			stale = append(stale, id)
		}
	}
	m.mu.RUnlock()

	for _, id := range stale {
		m.mu.Lock()
		_, ok := m.nodes[id]
		if ok {
			delete(m.nodes, id)
			m.removeOrderLocked(id)
		}
		m.mu.Unlock()
		if ok {
			m.sink.NodeEvicted(id)
		}
	}
}

// Sweep runs one liveness pass synchronously, for tests that drive the clock
// manually instead of relying on the ticker.
func (m *Membership) Sweep() {
	m.sweep()
}
