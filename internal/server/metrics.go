package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var saleOperations = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "salora",
		Name:      "sale_operations_total",
		Help:      "Count of sale lifecycle operations by scope and operation.",
	},
	[]string{"scope", "op"},
)

func recordSaleOp(scope, op string) {
	saleOperations.WithLabelValues(scope, op).Inc()
}
