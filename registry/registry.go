// Package registry implements the agent catalog: a concurrency-safe map of
// agent id to its latest known record and version.
package registry

import (
	"sync"
	"time"

	"github.com/Geekthedev/korra/domain"
)

// Sink receives notifications of registry mutations so the coordinator can
// mirror them to the audit log and live feed without the registry importing
// either.
type Sink interface {
	AgentRegistered(agent domain.Agent)
	AgentUnregistered(agentID string)
}

type nopSink struct{}

func (nopSink) AgentRegistered(domain.Agent) {}
func (nopSink) AgentUnregistered(string) {}

// Registry is the concurrency-safe agent catalog.
type Registry struct {
	mu       sync.RWMutex
	agents   map[string]domain.Agent
	versions map[string]domain.Version
	sink     Sink
}

// New creates an empty Registry. Pass nil for sink to skip notifications.
func New(sink Sink) *Registry {
	if sink == nil {
		sink = nopSink{}
	}
	return &Registry{
		agents:   make(map[string]domain.Agent),
		versions: make(map[string]domain.Version),
		sink:     sink,
	}
}

// Register stores the agent record, stamping RegisteredAt if unset, and
// advances the tracked latest version for its id if the supplied version is
// strictly newer. Register never fails.
func (r *Registry) Register(agent domain.Agent) {
	r.mu.Lock()
	if agent.RegisteredAt.IsZero() {
		agent.RegisteredAt = time.Now()
	}
	stored := agent.Clone()
	r.agents[agent.ID] = stored
	if cur, ok := r.versions[agent.ID]; !ok || agent.Version.GreaterThan(cur) {
		r.versions[agent.ID] = agent.Version
	}
	r.mu.Unlock()
	r.sink.AgentRegistered(stored)
}

// Update overwrites an existing agent record. It reports false if the id was
// not previously registered.
func (r *Registry) Update(agent domain.Agent) bool {
	r.mu.Lock()
	_, existed := r.agents[agent.ID]
	if !existed {
		r.mu.Unlock()
		return false
	}
	stored := agent.Clone()
	r.agents[agent.ID] = stored
	if cur, ok := r.versions[agent.ID]; !ok || agent.Version.GreaterThan(cur) {
		r.versions[agent.ID] = agent.Version
	}
	r.mu.Unlock()
	r.sink.AgentRegistered(stored)
	return true
}

// Unregister removes the agent and its version record, reporting whether it
// was present.
func (r *Registry) Unregister(agentID string) bool {
	r.mu.Lock()
	_, ok := r.agents[agentID]
	if ok {
		delete(r.agents, agentID)
		delete(r.versions, agentID)
	}
	r.mu.Unlock()
	if ok {
		r.sink.AgentUnregistered(agentID)
	}
	return ok
}

// Get returns a defensive copy of the agent record, if present.
func (r *Registry) Get(agentID string) (domain.Agent, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.agents[agentID]
	if !ok {
		return domain.Agent{}, false
	}
	return a.Clone(), true
}

// All returns a point-in-time snapshot of every registered agent.
func (r *Registry) All() []domain.Agent {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Agent, 0, len(r.agents))
	for _, a := range r.agents {
		out = append(out, a.Clone())
	}
	return out
}

// LatestVersion returns the highest version ever registered for agentID.
func (r *Registry) LatestVersion(agentID string) (domain.Version, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.versions[agentID]
	return v, ok
}

// IsRegistered reports whether agentID currently has a stored record.
func (r *Registry) IsRegistered(agentID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.agents[agentID]
	return ok
}
