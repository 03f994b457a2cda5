// Package metrics exposes engine activity as Prometheus collectors,
// wired in through lifecycle hooks.
package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/gamebase54/gamebot/pkg/domain"
)

// Collectors bundles the engine's Prometheus metrics.
type Collectors struct {
	Updates    *prometheus.CounterVec
	Renders    *prometheus.CounterVec
	Broadcasts prometheus.Counter
	Deliveries *prometheus.CounterVec
}

// New creates unregistered collectors.
func New() *Collectors {
	return &Collectors{
		Updates: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gamebot_updates_total",
				Help: "Total inbound updates by kind and scene",
			},
			[]string{"kind", "scene"},
		),
		Renders: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gamebot_renders_total",
				Help: "Total list renders, split by create vs in-place edit",
			},
			[]string{"scene", "mode"},
		),
		Broadcasts: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "gamebot_broadcasts_total",
				Help: "Total notifications pulled and fanned out",
			},
		),
		Deliveries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gamebot_broadcast_deliveries_total",
				Help: "Broadcast delivery outcomes",
			},
			[]string{"outcome"},
		),
	}
}

// Register registers all collectors with reg.
func (c *Collectors) Register(reg prometheus.Registerer) error {
	for _, collector := range []prometheus.Collector{c.Updates, c.Renders, c.Broadcasts, c.Deliveries} {
		if err := reg.Register(collector); err != nil {
			return err
		}
	}
	return nil
}

// Hooks returns lifecycle hooks that feed the collectors.
func (c *Collectors) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnUpdate: func(ctx context.Context, e *domain.UpdateEvent) {
			c.Updates.WithLabelValues(string(e.Kind), e.SceneID).Inc()
		},
		OnRender: func(ctx context.Context, e *domain.RenderEvent) {
			mode := "edit"
			if e.Created {
				mode = "create"
			}
			c.Renders.WithLabelValues(e.SceneID, mode).Inc()
		},
		OnBroadcast: func(ctx context.Context, e *domain.BroadcastEvent) {
			c.Broadcasts.Inc()
			c.Deliveries.WithLabelValues("ok").Add(float64(e.Recipients - e.Failed))
			c.Deliveries.WithLabelValues("failed").Add(float64(e.Failed))
		},
	}
}
