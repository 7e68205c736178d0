package cache

import (
	"github.com/prometheus/client_golang/prometheus"
)

// InstrumentedService decorates a CacheService with prometheus counters.
type InstrumentedService struct {
	CacheService

	hits   prometheus.Counter
	misses prometheus.Counter
	puts   prometheus.Counter
	clears prometheus.Counter
}

// Instrument wraps service and registers its collectors on reg.
func Instrument(service CacheService, reg prometheus.Registerer) (*InstrumentedService, error) {
	s := &InstrumentedService{
		CacheService: service,
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "catalog", Subsystem: "cache", Name: "hits_total",
			Help: "Cache lookups that found a value.",
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "catalog", Subsystem: "cache", Name: "misses_total",
			Help: "Cache lookups that found nothing.",
		}),
		puts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "catalog", Subsystem: "cache", Name: "puts_total",
			Help: "Values stored in the cache.",
		}),
		clears: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "catalog", Subsystem: "cache", Name: "clears_total",
			Help: "Full cache invalidations.",
		}),
	}

	size := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "catalog", Subsystem: "cache", Name: "entries",
		Help: "Entries currently held.",
	}, func() float64 { return float64(service.Len()) })

	for _, c := range []prometheus.Collector{s.hits, s.misses, s.puts, s.clears, size} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return s, nil
}

func (s *InstrumentedService) Get(key string) (any, bool) {
	v, ok := s.CacheService.Get(key)
	if ok {
		s.hits.Inc()
	} else {
		s.misses.Inc()
	}
	return v, ok
}

func (s *InstrumentedService) Put(key string, value any) {
	s.CacheService.Put(key, value)
	s.puts.Inc()
}

func (s *InstrumentedService) PutIfEpoch(epoch uint64, key string, value any) bool {
	stored := s.CacheService.PutIfEpoch(epoch, key, value)
	if stored {
		s.puts.Inc()
	}
	return stored
}

func (s *InstrumentedService) Clear() {
	s.CacheService.Clear()
	s.clears.Inc()
}
