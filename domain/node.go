package domain

import "time"

// NodeStatus is the liveness/activity status of a node.
type NodeStatus string

const (
	NodeStatusOnline       NodeStatus = "ONLINE"
	NodeStatusBusy         NodeStatus = "BUSY"
	NodeStatusUnresponsive NodeStatus = "UNRESPONSIVE"
	NodeStatusOffline      NodeStatus = "OFFLINE"
	NodeStatusError        NodeStatus = "ERROR"
)

// Node is a compute host that can execute jobs on behalf of registered agents.
type Node struct {
	ID            string
	Hostname      string
	Address       string
	Port          int
	Capabilities  map[string]string
	JoinedAt      time.Time
	LastHeartbeat time.Time
	Status        NodeStatus
}

// Clone returns a deep copy safe to hand to callers outside membership.
func (n Node) Clone() Node {
	c := n
	if n.Capabilities != nil {
		c.Capabilities = make(map[string]string, len(n.Capabilities))
		for k, v := range n.Capabilities {
			c.Capabilities[k] = v
		}
	}
	return c
}

// HasCapability reports whether the node advertises the given capability key.
func (n Node) HasCapability(key string) bool {
	_, ok := n.Capabilities[key]
	return ok
}
