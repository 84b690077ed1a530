package observability

import (
	"context"

	"github.com/PatrickMassot/lean-gym/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the session collectors.
type Metrics struct {
	Sessions   prometheus.Counter
	Dispatches *prometheus.CounterVec
	Duration   *prometheus.HistogramVec
	Branches   prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Sessions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lean_gym_sessions_total",
			Help: "Total number of sessions started",
		}),
		Dispatches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lean_gym_dispatches_total",
				Help: "Total number of dispatched commands by outcome",
			},
			[]string{"outcome"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "lean_gym_dispatch_duration_seconds",
				Help:    "Duration of command dispatch, engine calls included",
				Buckets: prometheus.ExponentialBuckets(0.0005, 4, 10),
			},
			[]string{"outcome"},
		),
		Branches: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "lean_gym_branches",
			Help: "Number of branches in the current session",
		}),
	}

	for _, c := range []prometheus.Collector{m.Sessions, m.Dispatches, m.Duration, m.Branches} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Hooks records lifecycle events into the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnSessionStart: func(ctx context.Context, e *domain.SessionEvent) {
			m.Sessions.Inc()
			m.Branches.Set(1)
		},
		OnDispatch: func(ctx context.Context, e *domain.DispatchEvent) {
			outcome := string(e.Outcome)
			m.Dispatches.WithLabelValues(outcome).Inc()
			m.Duration.WithLabelValues(outcome).Observe(e.Duration.Seconds())
			if e.NewBranch != nil {
				m.Branches.Inc()
			}
		},
	}
}
