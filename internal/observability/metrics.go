package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	LookupsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "unitfinder_lookups_total",
			Help: "Total lookup requests processed",
		},
	)

	LookupsEmpty = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "unitfinder_lookups_empty_total",
			Help: "Lookups where every strategy came back empty",
		},
	)

	ScrapeFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "unitfinder_scrape_failures_total",
			Help: "Listing pages that could not be fetched or parsed",
		},
	)

	CacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "unitfinder_cache_hits_total",
			Help: "Lookups served from the response cache",
		},
	)

	StrategyHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "unitfinder_strategy_hits_total",
			Help: "Candidate sets produced, by search strategy",
		},
		[]string{"strategy"},
	)
)

// Register installs the collectors on the default registry. Call once at
// startup.
func Register() {
	prometheus.MustRegister(LookupsTotal, LookupsEmpty, ScrapeFailures, CacheHits, StrategyHits)
}

// Handler returns the /metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
