package domain

import "time"

// AgentKind classifies the role an agent plays.
type AgentKind string

const (
	AgentKindAnalyzer    AgentKind = "ANALYZER"
	AgentKindTransformer AgentKind = "TRANSFORMER"
	AgentKindValidator   AgentKind = "VALIDATOR"
	AgentKindCoordinator AgentKind = "COORDINATOR"
	AgentKindCustom      AgentKind = "CUSTOM"
)

// AgentStatus is the lifecycle status of an agent record.
type AgentStatus string

const (
	AgentStatusActive    AgentStatus = "ACTIVE"
	AgentStatusInactive  AgentStatus = "INACTIVE"
	AgentStatusExecuting AgentStatus = "EXECUTING"
	AgentStatusError     AgentStatus = "ERROR"
	AgentStatusUpdating  AgentStatus = "UPDATING"
)

// Agent is a registered, versioned compute unit hosted on capable nodes.
type Agent struct {
	ID            string
	Name          string
	Kind          AgentKind
	Version       Version
	Description   string
	ModuleLocator string
	Metadata      map[string]string
	RegisteredAt  time.Time
	Status        AgentStatus
}

// Clone returns a deep copy safe to hand to callers outside the registry.
func (a Agent) Clone() Agent {
	c := a
	if a.Metadata != nil {
		c.Metadata = make(map[string]string, len(a.Metadata))
		for k, v := range a.Metadata {
			c.Metadata[k] = v
		}
	}
	return c
}

// CapabilityKey is the string a node advertises to claim it can host this agent.
func (a Agent) CapabilityKey() string {
	return "agent:" + a.ID
}
