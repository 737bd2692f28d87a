package router

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Geekthedev/korra/domain"
)

type fakeAgents struct{ known map[string]bool }

func (f fakeAgents) IsRegistered(id string) bool { return f.known[id] }

type fakeNodes struct{ nodes []domain.Node }

func (f fakeNodes) All() []domain.Node { return f.nodes }

func idGen(id string) func() string {
	return func() string { return id }
}

func TestRouteHappyPath(t *testing.T) {
	agents := fakeAgents{known: map[string]bool{"a1": true}}
	nodes := fakeNodes{nodes: []domain.Node{
		{ID: "n1", Status: domain.NodeStatusOnline, Capabilities: map[string]string{"agent:a1": ""}},
	}}
	r := New(agents, nodes, nil, WithIDFunc(idGen("job-1")))
	r.Start()

	result := r.Route(context.Background(), domain.Job{AgentID: "a1", Input: []byte("hello")})
	assert.True(t, result.Placed)
	assert.Equal(t, "job-1", result.JobID)
	assert.Equal(t, domain.JobStatusRunning, result.Job.Status)
	assert.Equal(t, "n1", result.Job.ExecutedByNodeID)
	assert.Equal(t, 1, r.NodeJobCount("n1"))
}

func TestRouteNoCapableNode(t *testing.T) {
	agents := fakeAgents{known: map[string]bool{"a1": true}}
	nodes := fakeNodes{nodes: []domain.Node{{ID: "n1", Status: domain.NodeStatusOnline}}}
	r := New(agents, nodes, nil)
	r.Start()

	result := r.Route(context.Background(), domain.Job{AgentID: "a1"})
	assert.False(t, result.Placed)
	assert.Equal(t, "NoCapableNode", result.Reason)
	assert.Empty(t, r.All())
}

func TestRouteUnknownAgent(t *testing.T) {
	r := New(fakeAgents{known: map[string]bool{}}, fakeNodes{}, nil)
	r.Start()

	result := r.Route(context.Background(), domain.Job{AgentID: "ghost"})
	assert.False(t, result.Placed)
	assert.Equal(t, "AgentUnknown", result.Reason)
}

func TestRouteNotReady(t *testing.T) {
	r := New(fakeAgents{}, fakeNodes{}, nil)
	result := r.Route(context.Background(), domain.Job{AgentID: "a1"})
	assert.False(t, result.Placed)
	assert.Equal(t, "NotReady", result.Reason)
}

func TestNotifyCompletedIsIdempotentSafe(t *testing.T) {
	agents := fakeAgents{known: map[string]bool{"a1": true}}
	nodes := fakeNodes{nodes: []domain.Node{
		{ID: "n1", Status: domain.NodeStatusOnline, Capabilities: map[string]string{"agent:a1": ""}},
	}}
	r := New(agents, nodes, nil, WithIDFunc(idGen("job-1")))
	r.Start()
	r.Route(context.Background(), domain.Job{AgentID: "a1", Input: []byte("x")})

	assert.True(t, r.NotifyCompleted("job-1", []byte("out1")))
	assert.False(t, r.NotifyCompleted("job-1", []byte("out2")))

	job, _ := r.Get("job-1")
	assert.Equal(t, domain.JobStatusCompleted, job.Status)
	assert.Equal(t, "out1", string(job.Output))
}

func TestOnNodeEvictedFailsRunningJobs(t *testing.T) {
	agents := fakeAgents{known: map[string]bool{"a1": true}}
	nodes := fakeNodes{nodes: []domain.Node{
		{ID: "n1", Status: domain.NodeStatusOnline, Capabilities: map[string]string{"agent:a1": ""}},
	}}
	ids := []string{"job-1", "job-2"}
	i := 0
	r := New(agents, nodes, nil, WithIDFunc(func() string {
		id := ids[i]
		i++
		return id
	}))
	r.Start()
	r.Route(context.Background(), domain.Job{AgentID: "a1"})
	r.Route(context.Background(), domain.Job{AgentID: "a1"})

	r.OnNodeEvicted("n1")

	j1, _ := r.Get("job-1")
	j2, _ := r.Get("job-2")
	assert.Equal(t, domain.JobStatusFailed, j1.Status)
	assert.Equal(t, "node-evicted", j1.ErrorMessage)
	assert.Equal(t, domain.JobStatusFailed, j2.Status)
	assert.Equal(t, 0, r.NodeJobCount("n1"))
}

func TestCancelTerminalIsNoOp(t *testing.T) {
	agents := fakeAgents{known: map[string]bool{"a1": true}}
	nodes := fakeNodes{nodes: []domain.Node{
		{ID: "n1", Status: domain.NodeStatusOnline, Capabilities: map[string]string{"agent:a1": ""}},
	}}
	r := New(agents, nodes, nil, WithIDFunc(idGen("job-1")))
	r.Start()
	r.Route(context.Background(), domain.Job{AgentID: "a1"})
	r.NotifyCompleted("job-1", []byte("done"))

	assert.False(t, r.Cancel("job-1"))
}

func TestPolicyBlockPreventsRouting(t *testing.T) {
	agents := fakeAgents{known: map[string]bool{"a1": true}}
	nodes := fakeNodes{nodes: []domain.Node{
		{ID: "n1", Status: domain.NodeStatusOnline, Capabilities: map[string]string{"agent:a1": ""}},
	}}
	policy, err := NewAdmissionPolicy(context.Background(), `
package job_admission
default decision = "block"
`)
	if err != nil {
		t.Fatal(err)
	}
	r := New(agents, nodes, nil, WithPolicy(policy))
	r.Start()

	result := r.Route(context.Background(), domain.Job{AgentID: "a1"})
	assert.False(t, result.Placed)
	assert.Equal(t, "PolicyRejected", result.Reason)
	assert.Empty(t, r.All())
}
