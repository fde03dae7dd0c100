package sim

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/vkngwrapper/contigsim/memutils/metadata"
)

const (
	resultSuccess     = "success"
	resultOutOfMemory = "out_of_memory"
	resultNotFound    = "not_found"
	resultInvalid     = "invalid"
)

// Metrics holds the prometheus collectors maintained by a Simulator
type Metrics struct {
	Allocations    *prometheus.CounterVec
	Releases       *prometheus.CounterVec
	Compactions    prometheus.Counter
	BytesMoved     prometheus.Counter
	AllocatedBytes prometheus.Gauge
	FreeRegions    prometheus.Gauge
}

func newMetrics(registerer prometheus.Registerer) *Metrics {
	factory := promauto.With(registerer)

	return &Metrics{
		Allocations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "contigsim",
			Name:      "allocations_total",
			Help:      "Total number of allocation requests by strategy and result.",
		}, []string{"strategy", "result"}),
		Releases: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "contigsim",
			Name:      "releases_total",
			Help:      "Total number of release requests by result.",
		}, []string{"result"}),
		Compactions: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "contigsim",
			Name:      "compactions_total",
			Help:      "Total number of compactions.",
		}),
		BytesMoved: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "contigsim",
			Name:      "bytes_moved_total",
			Help:      "Total number of allocated bytes relocated by compaction.",
		}),
		AllocatedBytes: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "contigsim",
			Name:      "allocated_bytes",
			Help:      "Number of bytes currently allocated.",
		}),
		FreeRegions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "contigsim",
			Name:      "free_regions",
			Help:      "Number of free regions (holes) in the address space.",
		}),
	}
}

func (m *Metrics) observe(space *metadata.AddressSpace) {
	m.AllocatedBytes.Set(float64(space.Size() - space.SumFreeSize()))
	m.FreeRegions.Set(float64(space.FreeRegionsCount()))
}
