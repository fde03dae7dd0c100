package sim

import (
	"context"
	"log/slog"

	"github.com/cockroachdb/errors"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/vkngwrapper/contigsim/internal/utils"
	"github.com/vkngwrapper/contigsim/memutils"
	"github.com/vkngwrapper/contigsim/memutils/defrag"
	"github.com/vkngwrapper/contigsim/memutils/metadata"
)

// Simulator is the consumer-facing contiguous allocation simulator. It wraps a single
// metadata.AddressSpace with logging, metrics, compaction statistics and, unless created with
// SimulatorCreateExternallySynchronized, a mutex.
type Simulator struct {
	logger  *slog.Logger
	mutex   utils.OptionalRWMutex
	space   *metadata.AddressSpace
	metrics *Metrics

	compaction defrag.CompactionContext
}

// Metrics returns the prometheus collectors maintained by this simulator
func (s *Simulator) Metrics() *Metrics {
	return s.metrics
}

// Size returns the total number of simulated bytes
func (s *Simulator) Size() int {
	return s.space.Size()
}

// Allocate places size bytes for owner using strategy. See metadata.AddressSpace.Allocate.
func (s *Simulator) Allocate(owner string, size int, strategy metadata.AllocationStrategy) error {
	s.logger.Debug("Simulator::Allocate",
		slog.String("Owner", owner),
		slog.Int("Size", size),
		slog.String("Strategy", strategy.String()),
	)

	s.mutex.Lock()
	defer s.mutex.Unlock()

	err := s.space.Allocate(owner, size, strategy)
	s.metrics.Allocations.WithLabelValues(strategy.String(), allocResult(err)).Inc()
	if err != nil {
		s.logger.Debug("  Simulator::Allocate FAILED", slog.Any("error", err))
		return err
	}

	s.metrics.observe(s.space)
	return nil
}

// Release frees every region held by owner. See metadata.AddressSpace.Release.
func (s *Simulator) Release(owner string) error {
	s.logger.Debug("Simulator::Release", slog.String("Owner", owner))

	s.mutex.Lock()
	defer s.mutex.Unlock()

	err := s.space.Release(owner)
	if err != nil {
		s.metrics.Releases.WithLabelValues(resultNotFound).Inc()
		s.logger.Debug("  Simulator::Release FAILED", slog.Any("error", err))
		return err
	}

	s.metrics.Releases.WithLabelValues(resultSuccess).Inc()
	s.metrics.observe(s.space)
	return nil
}

// Compact moves every allocation to the lowest addresses and returns the statistics of the
// run. It cannot fail.
func (s *Simulator) Compact() defrag.DefragmentationStats {
	s.logger.Debug("Simulator::Compact")

	s.mutex.Lock()
	defer s.mutex.Unlock()

	stats, err := s.compaction.Run()
	if err != nil {
		s.logger.LogAttrs(context.Background(), slog.LevelError, "compaction produced an unexpected layout",
			slog.Any("error", err))
	}

	s.metrics.Compactions.Inc()
	s.metrics.BytesMoved.Add(float64(stats.BytesMoved))
	s.metrics.observe(s.space)

	s.logger.Debug("  Compacted",
		slog.Int("AllocationsMoved", stats.AllocationsMoved),
		slog.Int("BytesMoved", stats.BytesMoved),
		slog.Int("FreeRegionsBefore", stats.FreeRegionsBefore),
	)

	return stats
}

// Snapshot returns a copy of all regions in ascending address order
func (s *Simulator) Snapshot() []metadata.Region {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.space.Snapshot()
}

// CompactionStats returns the statistics accumulated over every Compact call
func (s *Simulator) CompactionStats() defrag.DefragmentationStats {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.compaction.Stats
}

// CalculateStatistics adds the current state of the address space into stats, so several
// simulators can be totaled into one DetailedStatistics. Clear stats before the first call.
func (s *Simulator) CalculateStatistics(stats *memutils.DetailedStatistics) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	s.calculateStatistics(stats)
}

func (s *Simulator) calculateStatistics(stats *memutils.DetailedStatistics) {
	var spaceStats memutils.DetailedStatistics
	spaceStats.Clear()
	s.space.AddDetailedStatistics(&spaceStats)

	stats.AddDetailedStatistics(&spaceStats)
}

// Validate runs the address space's internal consistency checks
func (s *Simulator) Validate() error {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	err := s.space.Validate()
	if err != nil {
		return errors.Wrap(err, "address space failed validation")
	}
	return nil
}

// BuildStatsString returns a JSON document describing the simulator. When detailedMap is
// true, every region is listed as well.
func (s *Simulator) BuildStatsString(detailedMap bool) string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var stats memutils.DetailedStatistics
	stats.Clear()
	s.calculateStatistics(&stats)

	writer := jwriter.NewWriter()
	root := writer.Object()

	total := root.Name("Total").Object()
	printDetailedStatistics(total, &stats)
	total.End()

	spaceObj := root.Name("AddressSpace").Object()
	s.space.BlockJsonData(spaceObj)
	if detailedMap {
		s.printDetailedMap(spaceObj)
	}
	spaceObj.End()

	compaction := root.Name("Compaction").Object()
	compaction.Name("BytesMoved").Int(s.compaction.Stats.BytesMoved)
	compaction.Name("AllocationsMoved").Int(s.compaction.Stats.AllocationsMoved)
	compaction.End()

	root.End()

	return string(writer.Bytes())
}

func printDetailedStatistics(json jwriter.ObjectState, stats *memutils.DetailedStatistics) {
	json.Name("RegionCount").Int(stats.RegionCount)
	json.Name("AllocationCount").Int(stats.AllocationCount)
	json.Name("UnusedRangeCount").Int(stats.UnusedRangeCount)
	json.Name("TotalBytes").Int(stats.TotalBytes)
	json.Name("AllocationBytes").Int(stats.AllocationBytes)
	json.Name("UnusedBytes").Int(stats.UnusedBytes())

	if stats.AllocationCount > 0 {
		json.Name("AllocationSizeMin").Int(stats.AllocationSizeMin)
		json.Name("AllocationSizeMax").Int(stats.AllocationSizeMax)
	}

	if stats.UnusedRangeCount > 0 {
		json.Name("UnusedRangeSizeMin").Int(stats.UnusedRangeSizeMin)
		json.Name("UnusedRangeSizeMax").Int(stats.UnusedRangeSizeMax)
	}

	json.Name("ExternalFragmentation").Float64(stats.ExternalFragmentation())
}

func (s *Simulator) printDetailedMap(json jwriter.ObjectState) {
	arrayState := json.Name("Regions").Array()
	defer arrayState.End()

	_ = s.space.VisitAllRegions(func(region metadata.Region) error {
		obj := arrayState.Object()
		defer obj.End()

		obj.Name("Start").Int(region.Start)
		obj.Name("End").Int(region.End)
		obj.Name("Size").Int(region.Size())
		if region.Free {
			obj.Name("Type").String("FREE")
		} else {
			obj.Name("Type").String("ALLOCATED")
			obj.Name("Owner").String(region.Owner)
		}

		return nil
	})
}

func allocResult(err error) string {
	switch {
	case err == nil:
		return resultSuccess
	case errors.Is(err, memutils.OutOfMemoryError):
		return resultOutOfMemory
	default:
		return resultInvalid
	}
}
