// Package metrics holds the prometheus counters for the storefront client.
// A Metrics built with a nil registerer is a no-op, as is a nil *Metrics.
package metrics

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// Outcome label values.
const (
	OutcomeSuccess  = "success"
	OutcomeFailure  = "failure"
	OutcomeSkipped  = "skipped"
	OutcomeRejected = "rejected"
	OutcomeInvalid  = "invalid"
)

// Metrics records refresh, replay, basket and order counters.
type Metrics struct {
	refresh         *prometheus.CounterVec
	replays         prometheus.Counter
	staleRecoveries prometheus.Counter
	submissions     *prometheus.CounterVec
}

// New registers the storefront metrics on the provided registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		return &Metrics{}
	}
	refresh := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_token_refresh_total",
		Help: "Token refresh attempts by outcome.",
	}, []string{"outcome"})
	replays := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "storefront_request_replay_total",
		Help: "Requests replayed after a token refresh.",
	})
	staleRecoveries := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "storefront_basket_stale_recoveries_total",
		Help: "Basket add retries after a stale basket was detected.",
	})
	submissions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_order_submissions_total",
		Help: "Order submissions by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(refresh, replays, staleRecoveries, submissions)
	return &Metrics{
		refresh:         refresh,
		replays:         replays,
		staleRecoveries: staleRecoveries,
		submissions:     submissions,
	}
}

// IncRefresh counts a refresh attempt.
func (m *Metrics) IncRefresh(outcome string) {
	if m == nil || m.refresh == nil {
		return
	}
	m.refresh.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncReplay counts a replayed request.
func (m *Metrics) IncReplay() {
	if m == nil || m.replays == nil {
		return
	}
	m.replays.Inc()
}

// IncStaleRecovery counts a stale-basket retry.
func (m *Metrics) IncStaleRecovery() {
	if m == nil || m.staleRecoveries == nil {
		return
	}
	m.staleRecoveries.Inc()
}

// IncSubmission counts an order submission.
func (m *Metrics) IncSubmission(outcome string) {
	if m == nil || m.submissions == nil {
		return
	}
	m.submissions.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// Dump writes every gathered family in the prometheus text format.
func Dump(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gathering metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("writing %s: %w", mf.GetName(), err)
		}
	}
	return nil
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
