// Package metrics exposes the coordinator's Prometheus counters and gauges.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Registry bundles the coordinator's metrics behind a private prometheus
// registry so a process can host more than one coordinator without name
// collisions.
type Registry struct {
	reg *prometheus.Registry

	JobsRouted    prometheus.Counter
	JobsCompleted prometheus.Counter
	JobsFailed    prometheus.Counter
	JobsCancelled prometheus.Counter

	NodesRegistered prometheus.Counter
	NodesEvicted    prometheus.Counter
	NodesOnline     prometheus.Gauge

	JobsRunning prometheus.Gauge

	ProofsValidated *prometheus.CounterVec

	SnapshotsCreated prometheus.Counter
	SnapshotsDeleted prometheus.Counter
}

// New builds and registers a fresh metrics registry.
func New() *Registry {
	reg := prometheus.NewRegistry()
	m := &Registry{
		reg: reg,
		JobsRouted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "korra_jobs_routed_total",
			Help: "Total number of jobs successfully routed to a node.",
		}),
		JobsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "korra_jobs_completed_total",
			Help: "Total number of jobs that completed successfully.",
		}),
		JobsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "korra_jobs_failed_total",
			Help: "Total number of jobs that failed.",
		}),
		JobsCancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "korra_jobs_cancelled_total",
			Help: "Total number of jobs cancelled before completion.",
		}),
		NodesRegistered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "korra_nodes_registered_total",
			Help: "Total number of node registrations observed.",
		}),
		NodesEvicted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "korra_nodes_evicted_total",
			Help: "Total number of nodes evicted for missed heartbeats.",
		}),
		NodesOnline: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "korra_nodes_online",
			Help: "Current number of nodes known to membership.",
		}),
		JobsRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "korra_jobs_running",
			Help: "Current number of jobs in the running state.",
		}),
		ProofsValidated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "korra_proofs_validated_total",
			Help: "Total number of proof validations by result.",
		}, []string{"result"}),
		SnapshotsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "korra_snapshots_created_total",
			Help: "Total number of component snapshots created.",
		}),
		SnapshotsDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "korra_snapshots_deleted_total",
			Help: "Total number of component snapshots deleted.",
		}),
	}
	reg.MustRegister(
		m.JobsRouted, m.JobsCompleted, m.JobsFailed, m.JobsCancelled,
		m.NodesRegistered, m.NodesEvicted, m.NodesOnline, m.JobsRunning,
		m.ProofsValidated, m.SnapshotsCreated, m.SnapshotsDeleted,
	)
	return m
}

// Gatherer exposes the underlying prometheus.Gatherer for the /metrics handler.
func (m *Registry) Gatherer() prometheus.Gatherer {
	return m.reg
}
