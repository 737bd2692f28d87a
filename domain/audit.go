package domain

import "time"

// AuditEventKind classifies a durable lifecycle event.
type AuditEventKind string

const (
	AuditAgentRegistered   AuditEventKind = "agent_registered"
	AuditAgentUnregistered AuditEventKind = "agent_unregistered"
	AuditNodeJoined        AuditEventKind = "node_joined"
	AuditNodeLeft          AuditEventKind = "node_left"
	AuditNodeEvicted       AuditEventKind = "node_evicted"
	AuditJobRouted         AuditEventKind = "job_routed"
	AuditJobCompleted      AuditEventKind = "job_completed"
	AuditJobFailed         AuditEventKind = "job_failed"
	AuditJobCancelled      AuditEventKind = "job_cancelled"
	AuditProofRegistered   AuditEventKind = "proof_registered"
	AuditProofValidated    AuditEventKind = "proof_validated"
	AuditSnapshotCreated   AuditEventKind = "snapshot_created"
	AuditSnapshotDeleted   AuditEventKind = "snapshot_deleted"
)

// AuditEvent is an append-only record of a control-plane transition.
type AuditEvent struct {
	EventID    string
	Kind       AuditEventKind
	SubjectID  string
	Detail     string
	OccurredAt time.Time
}
