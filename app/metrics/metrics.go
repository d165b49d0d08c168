package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "fooddelivery"

// Metrics is nil-safe so services and tests can run without a registry.
type Metrics struct {
	stepTransitions   *prometheus.CounterVec
	rejectedAdvances  *prometheus.CounterVec
	orderPlacements   *prometheus.CounterVec
	quantityUpdates   *prometheus.CounterVec
	pricingRecomputes prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		stepTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "checkout",
			Name:      "step_transitions_total",
			Help:      "Checkout wizard step transitions.",
		}, []string{"from", "to"}),
		rejectedAdvances: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "checkout",
			Name:      "rejected_transitions_total",
			Help:      "Transitions refused by validation, availability or terminal state.",
		}, []string{"kind"}),
		orderPlacements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "checkout",
			Name:      "order_placements_total",
			Help:      "Order placement attempts by result.",
		}, []string{"result"}),
		quantityUpdates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cart",
			Name:      "quantity_updates_total",
			Help:      "Debounced quantity updates by outcome (applied, superseded, failed).",
		}, []string{"outcome"}),
		pricingRecomputes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pricing",
			Name:      "recomputes_total",
			Help:      "Payable amount recomputations.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.stepTransitions, m.rejectedAdvances, m.orderPlacements, m.quantityUpdates, m.pricingRecomputes)
	}
	return m
}

func (m *Metrics) StepTransition(from, to string) {
	if m == nil {
		return
	}
	m.stepTransitions.WithLabelValues(from, to).Inc()
}

func (m *Metrics) RejectedTransition(kind string) {
	if m == nil {
		return
	}
	m.rejectedAdvances.WithLabelValues(kind).Inc()
}

func (m *Metrics) OrderPlacement(result string) {
	if m == nil {
		return
	}
	m.orderPlacements.WithLabelValues(result).Inc()
}

func (m *Metrics) QuantityUpdate(outcome string) {
	if m == nil {
		return
	}
	m.quantityUpdates.WithLabelValues(outcome).Inc()
}

func (m *Metrics) PricingRecompute() {
	if m == nil {
		return
	}
	m.pricingRecomputes.Inc()
}
