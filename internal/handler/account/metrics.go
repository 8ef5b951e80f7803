package account

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var operationOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "uhc",
	Subsystem: "admin",
	Name:      "account_operations_total",
	Help:      "Account operations by outcome code",
}, []string{"operation", "code"})

func recordOutcome(operation, code string) {
	operationOutcomes.WithLabelValues(operation, code).Inc()
}
