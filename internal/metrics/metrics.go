// Package metrics exposes Prometheus metrics about the presence feed and the
// cards rendered from it.
package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hay-kot/nowcard/internal/core/card"
	"github.com/hay-kot/nowcard/internal/core/presence"
)

const namespace = "nowcard"

var presenceStates = []presence.State{
	presence.Online,
	presence.Idle,
	presence.DoNotDisturb,
	presence.Offline,
	presence.Streaming,
}

// Registry holds the Prometheus registry and the metrics recorded by nowcard.
type Registry struct {
	prom *prometheus.Registry

	snapshots  prometheus.Counter
	reconnects prometheus.Counter
	fetches    *prometheus.CounterVec
	cards      *prometheus.CounterVec
	presence   *prometheus.GaugeVec
}

// NewRegistry creates a Registry with the Go and process collectors and all
// nowcard metrics registered.
func NewRegistry() (*Registry, error) {
	reg := prometheus.NewRegistry()

	if err := reg.Register(collectors.NewGoCollector()); err != nil {
		return nil, fmt.Errorf("registering go collector: %w", err)
	}
	if err := reg.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		return nil, fmt.Errorf("registering process collector: %w", err)
	}

	r := &Registry{
		prom: reg,
		snapshots: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshots_received_total",
			Help:      "Presence snapshots received from the live feed.",
		}),
		reconnects: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_reconnects_total",
			Help:      "Times the live feed connection was re-established.",
		}),
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetches_total",
			Help:      "On-demand presence fetches by result.",
		}, []string{"result"}),
		cards: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cards_rendered_total",
			Help:      "Cards rendered by primary activity action.",
		}, []string{"action"}),
		presence: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "presence_state",
			Help:      "Current presence state of the watched user (1 for the active state).",
		}, []string{"state"}),
	}

	for _, c := range []prometheus.Collector{r.snapshots, r.reconnects, r.fetches, r.cards, r.presence} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("registering metric: %w", err)
		}
	}

	return r, nil
}

// Handler returns an http.Handler for the /metrics endpoint.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.prom, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// ObserveSnapshot records a snapshot delivered by the live feed and sets the
// presence gauge from the card built for it.
func (r *Registry) ObserveSnapshot(c card.Card) {
	r.snapshots.Inc()
	for _, s := range presenceStates {
		v := 0.0
		if s == c.Presence {
			v = 1
		}
		r.presence.With(prometheus.Labels{"state": string(s)}).Set(v)
	}
}

// ObserveReconnect records a feed reconnect.
func (r *Registry) ObserveReconnect() {
	r.reconnects.Inc()
}

// ObserveFetch records the outcome of an on-demand fetch.
func (r *Registry) ObserveFetch(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.fetches.With(prometheus.Labels{"result": result}).Inc()
}

// ObserveCard records a rendered card.
func (r *Registry) ObserveCard(c card.Card) {
	action := "none"
	if c.Activity != nil {
		action = string(c.Activity.Action)
	}
	r.cards.With(prometheus.Labels{"action": action}).Inc()
}
