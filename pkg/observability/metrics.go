// Package observability turns tree notifications into Prometheus metrics and log lines.
package observability

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/aretw0/checktree/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics counts what happens in a tree.
type Metrics struct {
	registry *prometheus.Registry

	Choices *prometheus.CounterVec
	Events  *prometheus.CounterVec
	Focus   prometheus.Counter
}

// NewMetrics registers the collectors on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Choices: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "checktree_choices_total",
				Help: "Total number of committed checkbox toggles",
			},
			[]string{"checked"},
		),
		Events: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "checktree_events_total",
				Help: "Total number of input events dispatched",
			},
			[]string{"kind"},
		),
		Focus: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "checktree_keyboard_focus_total",
			Help: "Total number of keyboard focus restorations",
		}),
	}
	m.registry.MustRegister(m.Choices, m.Events, m.Focus)
	return m
}

// Hooks returns observers that update the collectors.
func (m *Metrics) Hooks() domain.Hooks {
	return domain.Hooks{
		OnCheckChanged: func(ctx context.Context, e *domain.ChoiceEvent) {
			m.Choices.WithLabelValues(strconv.FormatBool(e.Checked)).Inc()
		},
		OnFocusFromKeyboard: func(ctx context.Context, e *domain.FocusEvent) {
			m.Focus.Inc()
		},
		OnDispatch: func(ctx context.Context, e *domain.InputEvent) {
			m.Events.WithLabelValues(string(e.Kind)).Inc()
		},
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry so hosts can add collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// LoggingHooks logs every committed choice and focus restoration.
func LoggingHooks(logger *slog.Logger) domain.Hooks {
	return domain.Hooks{
		OnCheckChanged: func(ctx context.Context, e *domain.ChoiceEvent) {
			logger.Info("check_changed", "node_id", e.Node, "checked", e.Checked)
		},
		OnFocusFromKeyboard: func(ctx context.Context, e *domain.FocusEvent) {
			logger.Debug("keyboard_focus")
		},
	}
}
