package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/HarshMishra-Git/Air-Cargo-Booking-Tracking/pkg/model"
)

// Prom exports observations as Prometheus counters.
type Prom struct {
	created       prometheus.Counter
	transitions   *prometheus.CounterVec
	cacheHits     *prometheus.CounterVec
	cacheMisses   *prometheus.CounterVec
	routeSearches prometheus.Counter
	lockConflicts prometheus.Counter
}

func NewProm(reg prometheus.Registerer) *Prom {
	p := &Prom{
		created: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bookings_created_total",
			Help: "Total number of bookings created",
		}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "booking_transitions_total",
			Help: "Total number of booking lifecycle transitions",
		}, []string{"status"}),
		cacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		}, []string{"cache_type"}),
		cacheMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		}, []string{"cache_type"}),
		routeSearches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "route_searches_total",
			Help: "Total number of route searches",
		}),
		lockConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lock_conflicts_total",
			Help: "Total number of failed lock acquisitions",
		}),
	}
	reg.MustRegister(p.created, p.transitions, p.cacheHits, p.cacheMisses, p.routeSearches, p.lockConflicts)
	return p
}

func (p *Prom) OnBookingCreated() {
	p.created.Inc()
}

func (p *Prom) OnTransition(status model.Status) {
	p.transitions.WithLabelValues(string(status)).Inc()
}

func (p *Prom) OnCacheHit(kind string) {
	p.cacheHits.WithLabelValues(kind).Inc()
}

func (p *Prom) OnCacheMiss(kind string) {
	p.cacheMisses.WithLabelValues(kind).Inc()
}

func (p *Prom) OnRouteSearch() {
	p.routeSearches.Inc()
}

func (p *Prom) OnLockConflict() {
	p.lockConflicts.Inc()
}
