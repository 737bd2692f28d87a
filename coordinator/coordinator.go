// Package coordinator is the composition root: it owns one instance of each
// control-plane component, wires their cross-cutting notifications to the
// audit log, live feed, and metrics, and exposes the operations the admin
// API and CLI drive.
package coordinator

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Geekthedev/korra/audit"
	"github.com/Geekthedev/korra/domain"
	"github.com/Geekthedev/korra/live"
	"github.com/Geekthedev/korra/membership"
	"github.com/Geekthedev/korra/metrics"
	"github.com/Geekthedev/korra/obslog"
	"github.com/Geekthedev/korra/proof"
	"github.com/Geekthedev/korra/registry"
	"github.com/Geekthedev/korra/router"
	"github.com/Geekthedev/korra/snapshot"
)

var log = obslog.For("coordinator")

// DefaultWorkerPoolSize matches the reference implementation's fixed thread
// pool for background work fanned out by the coordinator.
const DefaultWorkerPoolSize = 10

// Config configures a Coordinator at construction time.
type Config struct {
	WorkerPoolSize    int
	HeartbeatInterval time.Duration
	NodeTimeout       time.Duration
	SnapshotBaseDir   string
	AuditDSN          string
	AdmissionPolicy   string // rego module source; empty uses router.DefaultAdmissionPolicy
}

// Coordinator owns the control-plane components and their lifecycle.
type Coordinator struct {
	id string

	Agents     *registry.Registry
	Nodes      *membership.Membership
	Proofs     *proof.Validator
	Jobs       *router.Router
	Snapshots  *snapshot.Store
	Metrics    *metrics.Registry

	audit *audit.Log
	feed  *live.Hub

	pool *workerPool

	mu      sync.Mutex
	running bool
}

// New builds a Coordinator and all of its components, wiring the audit log
// and live feed as the shared notification sink for every component. Apart
// from the live feed's fan-out goroutine and the worker pool, it starts no
// background task; call Start for the router and the liveness sweep.
func New(cfg Config) (*Coordinator, error) {
	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = DefaultWorkerPoolSize
	}
	if cfg.HeartbeatInterval <= 0 {
		cfg.HeartbeatInterval = membership.DefaultHeartbeatInterval
	}
	if cfg.NodeTimeout <= 0 {
		cfg.NodeTimeout = membership.DefaultNodeTimeout
	}

	auditLog, err := audit.Open(cfg.AuditDSN)
	if err != nil {
		return nil, fmt.Errorf("open audit log: %w", err)
	}

	feed := live.NewHub()
	go feed.Run()

	m := metrics.New()

	c := &Coordinator{
		id:      uuid.New().String(),
		audit:   auditLog,
		feed:    feed,
		Metrics: m,
		pool:    newWorkerPool(cfg.WorkerPoolSize),
	}

	sink := &eventSink{c: c}
	c.Agents = registry.New(sink)
	c.Nodes = membership.New(sink,
		membership.WithHeartbeatInterval(cfg.HeartbeatInterval),
		membership.WithNodeTimeout(cfg.NodeTimeout),
		membership.WithSelfID(c.id),
	)
	c.Proofs = proof.New(sink)
	c.Snapshots = snapshot.New(cfg.SnapshotBaseDir)

	policyContent := cfg.AdmissionPolicy
	if policyContent == "" {
		policyContent = router.DefaultAdmissionPolicy
	}
	policy, err := router.NewAdmissionPolicy(context.Background(), policyContent)
	if err != nil {
		auditLog.Close()
		return nil, fmt.Errorf("build admission policy: %w", err)
	}
	c.Jobs = router.New(c.Agents, c.Nodes, sink, router.WithPolicy(policy))

	return c, nil
}

// ID returns the coordinator's own generated node id, excluded from its own
// liveness sweep.
func (c *Coordinator) ID() string { return c.id }

// Start is idempotent. It brings the job router online and starts the
// membership liveness sweep.
func (c *Coordinator) Start(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return
	}
	c.Jobs.Start()
	c.Nodes.StartSweep(ctx)
	c.running = true
	log.Info().Str("coordinator_id", c.id).Msg("coordinator started")
}

// Stop is idempotent. It stops accepting new placements, cancels the
// liveness sweep, drains the worker pool, and closes the audit log. The live
// feed hub is not stopped and keeps its connections.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return
	}
	c.Jobs.Stop()
	c.Nodes.StopSweep()
	c.pool.drain()
	if err := c.audit.Close(); err != nil {
		log.Warn().Err(err).Msg("failed to close audit log cleanly")
	}
	c.running = false
	log.Info().Str("coordinator_id", c.id).Msg("coordinator stopped")
}

// Submit routes a new job, generating its id and stamping CreatedAt.
func (c *Coordinator) Submit(ctx context.Context, job domain.Job) router.RouteResult {
	if job.ID == "" {
		job.ID = uuid.New().String()
	}
	job.CreatedAt = time.Now()
	job.Status = domain.JobStatusPending
	return c.Jobs.Route(ctx, job)
}

// RegisterNode delegates to membership and updates the online-nodes gauge.
func (c *Coordinator) RegisterNode(node domain.Node) {
	c.Nodes.Register(node)
	c.Metrics.NodesRegistered.Inc()
	c.Metrics.NodesOnline.Set(float64(c.Nodes.Count()))
}

// UnregisterNode delegates to membership and updates the online-nodes gauge.
func (c *Coordinator) UnregisterNode(nodeID string) bool {
	ok := c.Nodes.Unregister(nodeID)
	if ok {
		c.Metrics.NodesOnline.Set(float64(c.Nodes.Count()))
	}
	return ok
}

// eventSink fans out every component's lifecycle notification to the audit
// log, the live feed, and metrics. It implements registry.Sink,
// membership.Sink, proof.Sink, and router.Sink.
type eventSink struct{ c *Coordinator }

// record dispatches the audit write and live-feed broadcast onto the shared
// worker pool so a slow disk or a full broadcast channel does not add latency
// to the caller's routing/registration path while the pool's task queue has
// room; once the queue is full, the caller blocks in Submit.
func (s *eventSink) record(kind domain.AuditEventKind, subjectID string, detail interface{}) {
	body, _ := json.Marshal(detail)
	evt := domain.AuditEvent{
		EventID:    uuid.New().String(),
		Kind:       kind,
		SubjectID:  subjectID,
		Detail:     string(body),
		OccurredAt: time.Now(),
	}
	s.c.pool.Submit(func() {
		s.c.audit.RecordBestEffort(evt)
		s.c.feed.Broadcast(string(kind), detail)
	})
}

func (s *eventSink) AgentRegistered(agent domain.Agent) {
	s.record(domain.AuditAgentRegistered, agent.ID, agent)
}

func (s *eventSink) AgentUnregistered(agentID string) {
	s.record(domain.AuditAgentUnregistered, agentID, map[string]string{"agent_id": agentID})
}

func (s *eventSink) NodeJoined(node domain.Node) {
	s.record(domain.AuditNodeJoined, node.ID, node)
}

func (s *eventSink) NodeLeft(nodeID string) {
	s.record(domain.AuditNodeLeft, nodeID, map[string]string{"node_id": nodeID})
}

func (s *eventSink) NodeEvicted(nodeID string) {
	s.c.Metrics.NodesEvicted.Inc()
	s.c.Metrics.NodesOnline.Set(float64(s.c.Nodes.Count()))
	s.record(domain.AuditNodeEvicted, nodeID, map[string]string{"node_id": nodeID})
	s.c.Jobs.OnNodeEvicted(nodeID)
}

func (s *eventSink) ProofRegistered(p domain.Proof) {
	s.record(domain.AuditProofRegistered, p.ID, p)
}

func (s *eventSink) ProofValidated(proofID string, result domain.ValidationResult) {
	s.c.Metrics.ProofsValidated.WithLabelValues(string(result)).Inc()
	s.record(domain.AuditProofValidated, proofID, map[string]string{"result": string(result)})
}

func (s *eventSink) JobRouted(job domain.Job, reason string) {
	s.c.Metrics.JobsRouted.Inc()
	s.c.Metrics.JobsRunning.Inc()
	s.record(domain.AuditJobRouted, job.ID, job)
}

func (s *eventSink) JobCompleted(job domain.Job) {
	s.c.Metrics.JobsCompleted.Inc()
	s.c.Metrics.JobsRunning.Dec()
	s.record(domain.AuditJobCompleted, job.ID, job)
}

func (s *eventSink) JobFailed(job domain.Job) {
	s.c.Metrics.JobsFailed.Inc()
	s.c.Metrics.JobsRunning.Dec()
	s.record(domain.AuditJobFailed, job.ID, job)
}

func (s *eventSink) JobCancelled(job domain.Job) {
	s.c.Metrics.JobsCancelled.Inc()
	s.c.Metrics.JobsRunning.Dec()
	s.record(domain.AuditJobCancelled, job.ID, job)
}

func (s *eventSink) PolicyRecorded(agentID string, decision router.AdmissionDecision, reason string) {
	if decision == router.AdmissionAllow {
		return
	}
	s.record(domain.AuditEventKind("policy_"+string(decision)), agentID, map[string]string{
		"agent_id": agentID, "reason": reason,
	})
}

// CreateSnapshot durably persists payload under componentID and records the
// creation to the audit log and live feed.
func (c *Coordinator) CreateSnapshot(componentID string, payload []byte) (string, error) {
	id, err := c.Snapshots.Create(componentID, payload)
	if err != nil {
		log.Warn().Err(err).Str("component_id", componentID).Msg("snapshot create failed")
		return "", err
	}
	c.Metrics.SnapshotsCreated.Inc()
	sink := &eventSink{c: c}
	sink.record(domain.AuditSnapshotCreated, id, map[string]interface{}{
		"component_id": componentID, "snapshot_id": id, "size": len(payload),
	})
	return id, nil
}

// LoadSnapshot returns the payload for snapshotID, wherever it was created.
func (c *Coordinator) LoadSnapshot(snapshotID string) ([]byte, error) {
	return c.Snapshots.Load(snapshotID)
}

// ListSnapshots returns componentID's recorded snapshots in creation order.
func (c *Coordinator) ListSnapshots(componentID string) []domain.SnapshotMeta {
	return c.Snapshots.List(componentID)
}

// DeleteSnapshot removes snapshotID and records the deletion to the audit
// log and live feed, reporting whether it was present.
func (c *Coordinator) DeleteSnapshot(snapshotID string) bool {
	ok := c.Snapshots.Delete(snapshotID)
	if !ok {
		return false
	}
	c.Metrics.SnapshotsDeleted.Inc()
	sink := &eventSink{c: c}
	sink.record(domain.AuditSnapshotDeleted, snapshotID, map[string]string{"snapshot_id": snapshotID})
	return true
}

// Audit exposes the audit log for query endpoints.
func (c *Coordinator) Audit() *audit.Log { return c.audit }

// Feed exposes the live hub for WebSocket upgrade handling.
func (c *Coordinator) Feed() *live.Hub { return c.feed }
