package domain

import "time"

// JobStatus is a job's position in its lifecycle state machine.
type JobStatus string

const (
	JobStatusPending   JobStatus = "PENDING"
	JobStatusRunning   JobStatus = "RUNNING"
	JobStatusCompleted JobStatus = "COMPLETED"
	JobStatusFailed    JobStatus = "FAILED"
	JobStatusCancelled JobStatus = "CANCELLED"
	JobStatusTimeout   JobStatus = "TIMEOUT"
)

// Job is a single execution request bound to a target agent.
type Job struct {
	ID                string
	AgentID           string
	Input             []byte
	Metadata          map[string]string
	CreatedAt         time.Time
	StartedAt         time.Time
	CompletedAt       time.Time
	Status            JobStatus
	Output            []byte
	ExecutedByNodeID  string
	ErrorMessage      string
}

// Clone returns a deep copy including defensive copies of the byte payloads.
func (j Job) Clone() Job {
	c := j
	if j.Input != nil {
		c.Input = append([]byte(nil), j.Input...)
	}
	if j.Output != nil {
		c.Output = append([]byte(nil), j.Output...)
	}
	if j.Metadata != nil {
		c.Metadata = make(map[string]string, len(j.Metadata))
		for k, v := range j.Metadata {
			c.Metadata[k] = v
		}
	}
	return c
}

// Terminal reports whether the job has reached a state with no further transitions.
func (j Job) Terminal() bool {
	switch j.Status {
	case JobStatusCompleted, JobStatusFailed, JobStatusCancelled, JobStatusTimeout:
		return true
	default:
		return false
	}
}
