// Package router implements job placement and the job lifecycle state
// machine: submission, routing onto a capable node, and completion.
package router

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Geekthedev/korra/domain"
)

// AgentLookup is the narrow view of the agent registry the router needs.
type AgentLookup interface {
	IsRegistered(agentID string) bool
}

// NodeLookup is the narrow view of node membership the router needs.
type NodeLookup interface {
	All() []domain.Node
}

// Sink receives job lifecycle notifications.
type Sink interface {
	JobRouted(job domain.Job, reason string)
	JobCompleted(job domain.Job)
	JobFailed(job domain.Job)
	JobCancelled(job domain.Job)
	PolicyRecorded(jobAgentID string, decision AdmissionDecision, reason string)
}

type nopSink struct{}

func (nopSink) JobRouted(domain.Job, string) {}
func (nopSink) JobCompleted(domain.Job) {}
func (nopSink) JobFailed(domain.Job) {}
func (nopSink) JobCancelled(domain.Job) {}
func (nopSink) PolicyRecorded(string, AdmissionDecision, string) {}

// Router owns the active job table and the node→jobs index used to cascade
// evictions.
type Router struct {
	mu         sync.Mutex
	activeJobs map[string]domain.Job
	nodeJobs   map[string][]string // nodeID -> ordered jobIDs

	agents  AgentLookup
	nodes   NodeLookup
	policy  *AdmissionPolicy
	sink    Sink
	ready   bool
	newID   func() string
}

// Option configures a Router at construction time.
type Option func(*Router)

// WithPolicy installs an admission policy; without one every job is allowed.
func WithPolicy(p *AdmissionPolicy) Option { return func(r *Router) { r.policy = p } }

// WithIDFunc overrides job id generation, primarily for tests.
func WithIDFunc(f func() string) Option { return func(r *Router) { r.newID = f } }

// New constructs a Router bound to agents and nodes. Pass nil for sink to
// skip notifications. The router starts uninitialized; call Start before
// routing jobs.
func New(agents AgentLookup, nodes NodeLookup, sink Sink, opts ...Option) *Router {
	if sink == nil {
		sink = nopSink{}
	}
	r := &Router{
		activeJobs: make(map[string]domain.Job),
		nodeJobs:   make(map[string][]string),
		agents:     agents,
		nodes:      nodes,
		sink:       sink,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start marks the router ready to accept routing requests.
func (r *Router) Start() {
	r.mu.Lock()
	r.ready = true
	r.mu.Unlock()
}

// Stop marks the router not ready; in-flight jobs are left untouched.
func (r *Router) Stop() {
	r.mu.Lock()
	r.ready = false
	r.mu.Unlock()
}

// RouteResult reports why a routing attempt did or did not succeed.
type RouteResult struct {
	JobID  string
	Job    domain.Job
	Placed bool
	Reason string
}

// Route attempts to place job onto a capable, online node. On success it
// mutates job to Running, records it, and returns Placed=true. On failure it
// returns Placed=false with Reason set from the {NotReady, PolicyRejected,
// AgentUnknown, NoCapableNode} taxonomy.
func (r *Router) Route(ctx context.Context, job domain.Job) RouteResult {
	r.mu.Lock()
	ready := r.ready
	r.mu.Unlock()
	if !ready {
		return RouteResult{Reason: "NotReady"}
	}

	if r.policy != nil {
		decision, reason, err := r.policy.Evaluate(ctx, map[string]interface{}{
			"agent_id":      job.AgentID,
			"job_metadata":  job.Metadata,
			"input_size":    len(job.Input),
		})
		if err == nil {
			r.sink.PolicyRecorded(job.AgentID, decision, reason)
			if decision == AdmissionBlock {
				return RouteResult{Reason: "PolicyRejected"}
			}
		}
	}

	if !r.agents.IsRegistered(job.AgentID) {
		return RouteResult{Reason: "AgentUnknown"}
	}

	capKey := "agent:" + job.AgentID
	var target domain.Node
	found := false
	for _, n := range r.nodes.All() {
		if n.Status == domain.NodeStatusOnline && n.HasCapability(capKey) {
			target = n
			found = true
			break
		}
	}
	if !found {
		return RouteResult{Reason: "NoCapableNode"}
	}

	if job.ID == "" {
		job.ID = r.generateID()
	}
	job.Input = append([]byte(nil), job.Input...)
	job.Status = domain.JobStatusRunning
	job.StartedAt = time.Now()
	job.ExecutedByNodeID = target.ID

	r.mu.Lock()
	r.activeJobs[job.ID] = job.Clone()
	r.nodeJobs[target.ID] = append(r.nodeJobs[target.ID], job.ID)
	r.mu.Unlock()

	r.sink.JobRouted(job.Clone(), "")
	return RouteResult{JobID: job.ID, Job: job.Clone(), Placed: true}
}

func (r *Router) generateID() string {
	if r.newID != nil {
		return r.newID()
	}
	return uuid.New().String()
}

// NotifyCompleted transitions a Running job to Completed, storing a
// defensive copy of output. It returns false if the job is unknown or not
// currently Running.
func (r *Router) NotifyCompleted(jobID string, output []byte) bool {
	r.mu.Lock()
	job, ok := r.activeJobs[jobID]
	if !ok || job.Status != domain.JobStatusRunning {
		r.mu.Unlock()
		return false
	}
	job.Status = domain.JobStatusCompleted
	job.Output = append([]byte(nil), output...)
	job.CompletedAt = time.Now()
	r.activeJobs[jobID] = job
	r.removeFromNodeIndexLocked(job.ExecutedByNodeID, jobID)
	r.mu.Unlock()
	r.sink.JobCompleted(job.Clone())
	return true
}

// NotifyFailed transitions a Running job to Failed with message.
func (r *Router) NotifyFailed(jobID, message string) bool {
	r.mu.Lock()
	job, ok := r.activeJobs[jobID]
	if !ok || job.Status != domain.JobStatusRunning {
		r.mu.Unlock()
		return false
	}
	job.Status = domain.JobStatusFailed
	job.ErrorMessage = message
	job.CompletedAt = time.Now()
	r.activeJobs[jobID] = job
	r.removeFromNodeIndexLocked(job.ExecutedByNodeID, jobID)
	r.mu.Unlock()
	r.sink.JobFailed(job.Clone())
	return true
}

// Cancel transitions a Pending or Running job to Cancelled.
func (r *Router) Cancel(jobID string) bool {
	r.mu.Lock()
	job, ok := r.activeJobs[jobID]
	if !ok || job.Terminal() {
		r.mu.Unlock()
		return false
	}
	wasRunning := job.Status == domain.JobStatusRunning
	job.Status = domain.JobStatusCancelled
	job.CompletedAt = time.Now()
	r.activeJobs[jobID] = job
	if wasRunning {
		r.removeFromNodeIndexLocked(job.ExecutedByNodeID, jobID)
	}
	r.mu.Unlock()
	r.sink.JobCancelled(job.Clone())
	return true
}

// OnNodeEvicted fails every job currently attributed to nodeID with
// "node-evicted" and purges the node's index entry.
func (r *Router) OnNodeEvicted(nodeID string) {
	r.mu.Lock()
	jobIDs := append([]string(nil), r.nodeJobs[nodeID]...)
	delete(r.nodeJobs, nodeID)
	failed := make([]domain.Job, 0, len(jobIDs))
	for _, id := range jobIDs {
		job, ok := r.activeJobs[id]
		if !ok || job.Status != domain.JobStatusRunning {
			continue
		}
		job.Status = domain.JobStatusFailed
		job.ErrorMessage = "node-evicted"
		job.CompletedAt = time.Now()
		r.activeJobs[id] = job
		failed = append(failed, job.Clone())
	}
	r.mu.Unlock()
	for _, j := range failed {
		r.sink.JobFailed(j)
	}
}

// Get returns a defensive copy of a tracked job.
func (r *Router) Get(jobID string) (domain.Job, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.activeJobs[jobID]
	if !ok {
		return domain.Job{}, false
	}
	return j.Clone(), true
}

// All returns a point-in-time snapshot of every tracked job.
func (r *Router) All() []domain.Job {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Job, 0, len(r.activeJobs))
	for _, j := range r.activeJobs {
		out = append(out, j.Clone())
	}
	return out
}

// NodeJobCount returns how many jobs are currently attributed to nodeID.
func (r *Router) NodeJobCount(nodeID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.nodeJobs[nodeID])
}

func (r *Router) removeFromNodeIndexLocked(nodeID, jobID string) {
	ids := r.nodeJobs[nodeID]
	for i, id := range ids {
		if id == jobID {
			r.nodeJobs[nodeID] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	if len(r.nodeJobs[nodeID]) == 0 {
		delete(r.nodeJobs, nodeID)
	}
}
