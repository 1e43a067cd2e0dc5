package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Schedule engine metrics

	ResolutionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shabbat_guard",
		Name:      "resolutions_total",
		Help:      "Cycle resolutions per tenant, by outcome.",
	}, []string{"outcome"})

	RetriesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "shabbat_guard",
		Name:      "retries_total",
		Help:      "Retry timers armed after failed resolutions.",
	})

	// Gateway metrics

	GatewayActionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shabbat_guard",
		Name:      "gateway_actions_total",
		Help:      "Lock/unlock actions dispatched to the messaging gateway, by outcome.",
	}, []string{"action", "outcome"})

	// Timer store metrics

	PendingJobs = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "shabbat_guard",
		Name:      "pending_jobs",
		Help:      "Jobs currently pending in the timer store.",
	})
)

func Register() {
	prometheus.MustRegister(
		ResolutionsTotal,
		RetriesTotal,
		GatewayActionsTotal,
		PendingJobs,
	)
}

func Handler() http.Handler {
	return promhttp.Handler()
}
