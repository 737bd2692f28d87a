package membership

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Geekthedev/korra/domain"
)

type fakeClock struct{ now time.Time }

func (f *fakeClock) Now() time.Time { return f.now }
func (f *fakeClock) Advance(d time.Duration) { f.now = f.now.Add(d) }

type recordingSink struct {
	joined  []string
	left    []string
	evicted []string
}

func (r *recordingSink) NodeJoined(n domain.Node) { r.joined = append(r.joined, n.ID) }
func (r *recordingSink) NodeLeft(id string)       { r.left = append(r.left, id) }
func (r *recordingSink) NodeEvicted(id string)    { r.evicted = append(r.evicted, id) }

func TestRegisterHeartbeatUnregister(t *testing.T) {
	sink := &recordingSink{}
	m := New(sink)

	m.Register(domain.Node{ID: "n1", Hostname: "h1"})
	n, ok := m.Get("n1")
	assert.True(t, ok)
	assert.Equal(t, domain.NodeStatusOnline, n.Status)

	assert.True(t, m.Heartbeat("n1"))
	assert.False(t, m.Heartbeat("missing"))

	assert.True(t, m.Unregister("n1"))
	assert.Equal(t, []string{"n1"}, sink.joined)
	assert.Equal(t, []string{"n1"}, sink.left)
}

func TestSweepEvictsStaleNodes(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	sink := &recordingSink{}
	m := New(sink, WithClock(clock), WithNodeTimeout(30*time.Second))

	m.Register(domain.Node{ID: "n1"})
	clock.Advance(31 * time.Second)
	m.Sweep()

	_, ok := m.Get("n1")
	assert.False(t, ok)
	assert.Equal(t, []string{"n1"}, sink.evicted)
}

func TestSweepSkipsFreshHeartbeat(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	m := New(nil, WithClock(clock), WithNodeTimeout(30*time.Second))

	m.Register(domain.Node{ID: "n1"})
	clock.Advance(20 * time.Second)
	m.Heartbeat("n1")
	clock.Advance(20 * time.Second)
	m.Sweep()

	_, ok := m.Get("n1")
	assert.True(t, ok)
}

func TestSweepSkipsSelf(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	m := New(nil, WithClock(clock), WithNodeTimeout(30*time.Second), WithSelfID("coordinator"))

	m.Register(domain.Node{ID: "coordinator"})
	clock.Advance(time.Hour)
	m.Sweep()

	_, ok := m.Get("coordinator")
	assert.True(t, ok)
}

func TestAllPreservesInsertionOrder(t *testing.T) {
	m := New(nil)
	m.Register(domain.Node{ID: "n1"})
	m.Register(domain.Node{ID: "n2"})
	m.Register(domain.Node{ID: "n3"})

	all := m.All()
	ids := make([]string, len(all))
	for i, n := range all {
		ids[i] = n.ID
	}
	assert.Equal(t, []string{"n1", "n2", "n3"}, ids)
}
