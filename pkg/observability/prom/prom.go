// Package prom implements the observability hooks on top of Prometheus
// collectors.
package prom

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/roomkit/pkg/observability"
)

const namespace = "roomkit"

// Hooks records engine, storage and share events as Prometheus metrics.
type Hooks struct {
	mutations      *prometheus.CounterVec
	placed         prometheus.Gauge
	history        *prometheus.CounterVec
	historyDepth   *prometheus.GaugeVec
	restores       *prometheus.CounterVec
	persists       *prometheus.CounterVec
	persistSkipped prometheus.Counter
	persistSeconds prometheus.Histogram
	persistBytes   prometheus.Gauge
	shares         *prometheus.CounterVec
}

var (
	_ observability.EngineHooks  = (*Hooks)(nil)
	_ observability.StorageHooks = (*Hooks)(nil)
	_ observability.ShareHooks   = (*Hooks)(nil)
)

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) (*Hooks, error) {
	h := &Hooks{
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mutations_total",
			Help:      "Placed-list mutations by operation.",
		}, []string{"op"}),
		placed: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "placed_items",
			Help:      "Number of placed items after the last mutation.",
		}),
		history: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "history_steps_total",
			Help:      "Undo and redo steps applied.",
		}, []string{"op"}),
		historyDepth: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "history_depth",
			Help:      "Snapshot stack depth after the last undo or redo.",
		}, []string{"stack"}),
		restores: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "restores_total",
			Help:      "Startup restores by outcome.",
		}, []string{"outcome"}),
		persists: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "persists_total",
			Help:      "Write-through attempts by result.",
		}, []string{"result"}),
		persistSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "persists_skipped_total",
			Help:      "Writes elided because the payload was unchanged.",
		}),
		persistSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "persist_duration_seconds",
			Help:      "Write-through latency.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		}),
		persistBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "persist_payload_bytes",
			Help:      "Size of the last persisted payload.",
		}),
		shares: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "share_links_decoded_total",
			Help:      "Share links decoded by outcome.",
		}, []string{"outcome"}),
	}

	for _, c := range []prometheus.Collector{
		h.mutations, h.placed, h.history, h.historyDepth, h.restores,
		h.persists, h.persistSkipped, h.persistSeconds, h.persistBytes, h.shares,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return h, nil
}

// Install registers h as the engine, storage and share hooks.
func (h *Hooks) Install() {
	observability.SetEngineHooks(h)
	observability.SetStorageHooks(h)
	observability.SetShareHooks(h)
}

func (h *Hooks) OnMutation(op string, placed int) {
	h.mutations.WithLabelValues(op).Inc()
	h.placed.Set(float64(placed))
}

func (h *Hooks) OnHistory(op string, past, future int) {
	h.history.WithLabelValues(op).Inc()
	h.historyDepth.WithLabelValues("past").Set(float64(past))
	h.historyDepth.WithLabelValues("future").Set(float64(future))
}

func (h *Hooks) OnRestore(_ context.Context, _ string, outcome string) {
	h.restores.WithLabelValues(outcome).Inc()
}

func (h *Hooks) OnPersist(_ context.Context, _ string, size int, d time.Duration, err error) {
	if err != nil {
		h.persists.WithLabelValues("error").Inc()
		return
	}
	h.persists.WithLabelValues("ok").Inc()
	h.persistSeconds.Observe(d.Seconds())
	h.persistBytes.Set(float64(size))
}

func (h *Hooks) OnPersistSkipped(context.Context, string) {
	h.persistSkipped.Inc()
}

func (h *Hooks) OnShareDecoded(_ context.Context, outcome string) {
	h.shares.WithLabelValues(outcome).Inc()
}
