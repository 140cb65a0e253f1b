// Package metrics exposes Prometheus counters for reply dispatch, message
// mirroring and storage writes. A nil *Metrics is valid and records nothing.
package metrics

import "github.com/prometheus/client_golang/prometheus"

type Metrics struct {
	Registry *prometheus.Registry

	dispatches     *prometheus.CounterVec
	mirrorFailures prometheus.Counter
	slotWrites     *prometheus.CounterVec
}

// New registers the counters on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		dispatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aiteam",
			Name:      "reply_dispatch_total",
			Help:      "Reply generations by path (demo, live) and outcome (ok, error).",
		}, []string{"path", "outcome"}),
		mirrorFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "aiteam",
			Name:      "message_mirror_failures_total",
			Help:      "Chat messages that could not be mirrored to the data service.",
		}),
		slotWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aiteam",
			Name:      "storage_slot_writes_total",
			Help:      "Storage slot write-backs by slot and outcome.",
		}, []string{"slot", "outcome"}),
	}
	m.Registry.MustRegister(m.dispatches, m.mirrorFailures, m.slotWrites)
	return m
}

func outcome(ok bool) string {
	if ok {
		return "ok"
	}
	return "error"
}

func (m *Metrics) Dispatch(path string, ok bool) {
	if m == nil {
		return
	}
	m.dispatches.WithLabelValues(path, outcome(ok)).Inc()
}

func (m *Metrics) MirrorFailed() {
	if m == nil {
		return
	}
	m.mirrorFailures.Inc()
}

func (m *Metrics) SlotWrite(slot string, ok bool) {
	if m == nil {
		return
	}
	m.slotWrites.WithLabelValues(slot, outcome(ok)).Inc()
}

// DispatchCounter returns the counter for path and outcome, for inspection.
func (m *Metrics) DispatchCounter(path string, ok bool) prometheus.Counter {
	return m.dispatches.WithLabelValues(path, outcome(ok))
}

func (m *Metrics) MirrorFailureCounter() prometheus.Counter {
	return m.mirrorFailures
}

func (m *Metrics) SlotWriteCounter(slot string, ok bool) prometheus.Counter {
	return m.slotWrites.WithLabelValues(slot, outcome(ok))
}
