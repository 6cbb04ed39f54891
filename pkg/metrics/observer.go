// Package metrics defines the observer interface through which core
// components report what happened, without depending on any concrete
// metrics backend. Sinks: Nop (default), Counters (tests), Prom
// (Prometheus exporter).
package metrics

import (
	"sync"

	"github.com/HarshMishra-Git/Air-Cargo-Booking-Tracking/pkg/model"
)

type Observer interface {
	OnBookingCreated()
	OnTransition(status model.Status)
	OnCacheHit(kind string)
	OnCacheMiss(kind string)
	OnRouteSearch()
	OnLockConflict()
}

// Nop discards all observations.
type Nop struct{}

func (Nop) OnBookingCreated()         {}
func (Nop) OnTransition(model.Status) {}
func (Nop) OnCacheHit(string)         {}
func (Nop) OnCacheMiss(string)        {}
func (Nop) OnRouteSearch()            {}
func (Nop) OnLockConflict()           {}

// Counters is an in-memory sink used by tests to assert which hooks
// fired. Read it through Snapshot.
type Counters struct {
	mu            sync.Mutex
	created       int
	transitions   map[model.Status]int
	cacheHits     map[string]int
	cacheMisses   map[string]int
	routeSearches int
	lockConflicts int
}

func NewCounters() *Counters {
	return &Counters{
		transitions: make(map[model.Status]int),
		cacheHits:   make(map[string]int),
		cacheMisses: make(map[string]int),
	}
}

func (c *Counters) OnBookingCreated() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.created++
}

func (c *Counters) OnTransition(status model.Status) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.transitions[status]++
}

func (c *Counters) OnCacheHit(kind string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cacheHits[kind]++
}

func (c *Counters) OnCacheMiss(kind string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cacheMisses[kind]++
}

func (c *Counters) OnRouteSearch() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.routeSearches++
}

func (c *Counters) OnLockConflict() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lockConflicts++
}

// CounterSnapshot is a point-in-time copy of the counters, safe to
// inspect while the service keeps running.
type CounterSnapshot struct {
	Created       int
	Transitions   map[model.Status]int
	CacheHits     map[string]int
	CacheMisses   map[string]int
	RouteSearches int
	LockConflicts int
}

func (c *Counters) Snapshot() CounterSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := CounterSnapshot{
		Created:       c.created,
		Transitions:   make(map[model.Status]int, len(c.transitions)),
		CacheHits:     make(map[string]int, len(c.cacheHits)),
		CacheMisses:   make(map[string]int, len(c.cacheMisses)),
		RouteSearches: c.routeSearches,
		LockConflicts: c.lockConflicts,
	}
	for k, v := range c.transitions {
		out.Transitions[k] = v
	}
	for k, v := range c.cacheHits {
		out.CacheHits[k] = v
	}
	for k, v := range c.cacheMisses {
		out.CacheMisses[k] = v
	}
	return out
}
