package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeCompleted           = "completed"
	OutcomeMissingAccount      = "missing_account"
	OutcomeSameAccount         = "same_account"
	OutcomeInvalidAmount       = "invalid_amount"
	OutcomeInsufficientBalance = "insufficient_balance"
	OutcomeError               = "error"
)

// Transfers groups the collectors the transfer service reports to. A nil
// *Transfers is valid and records nothing.
type Transfers struct {
	outcomes *prometheus.CounterVec
	duration prometheus.Histogram
	crossFX  *prometheus.CounterVec
}

func NewTransfers(reg prometheus.Registerer) *Transfers {
	t := &Transfers{
		outcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_transfers_total",
				Help: "Transfer requests by outcome",
			},
			[]string{"outcome"},
		),
		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "ledger_transfer_duration_seconds",
				Help:    "Time spent validating and committing a transfer",
				Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1},
			},
		),
		crossFX: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_conversions_total",
				Help: "Committed transfers by currency pair",
			},
			[]string{"from_currency", "to_currency"},
		),
	}
	reg.MustRegister(t.outcomes, t.duration, t.crossFX)
	return t
}

func (t *Transfers) Observe(outcome string, elapsed time.Duration) {
	if t == nil {
		return
	}
	t.outcomes.WithLabelValues(outcome).Inc()
	t.duration.Observe(elapsed.Seconds())
}

func (t *Transfers) Converted(from, to string) {
	if t == nil {
		return
	}
	t.crossFX.WithLabelValues(from, to).Inc()
}
