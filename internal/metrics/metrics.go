package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	LookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_lookups_total",
			Help: "Record lookups by kind and outcome",
		},
		[]string{"kind", "outcome"}, // material|customer , found|not_found|invalid
	)

	ReferenceRows = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "dashboard_reference_rows",
			Help: "Rows indexed per reference table at startup",
		},
		[]string{"table"},
	)
)

// Outcome labels for LookupsTotal.
const (
	OutcomeFound    = "found"
	OutcomeNotFound = "not_found"
	OutcomeInvalid  = "invalid"
)

func MustRegister(r prometheus.Registerer) {
	r.MustRegister(
		LookupsTotal,
		ReferenceRows,
	)
}
