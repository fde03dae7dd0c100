package defrag

import "github.com/vkngwrapper/contigsim/memutils/metadata"

//go:generate mockgen -source defrag.go -destination mocks/mocks.go -package mock_defrag

// Compactable is an address space that can be compacted in a single pass. metadata.AddressSpace
// satisfies it.
type Compactable interface {
	Snapshot() []metadata.Region
	Compact()
}

var _ Compactable = &metadata.AddressSpace{}

// DefragmentationStats contains basic metrics for one or more compaction runs
type DefragmentationStats struct {
	// BytesMoved is the number of bytes held by allocations whose start address changed
	BytesMoved int
	// AllocationsMoved is the number of allocations whose start address changed
	AllocationsMoved int
	// FreeRegionsBefore is the number of holes before compaction
	FreeRegionsBefore int
	// FreeRegionsAfter is the number of holes after compaction, which is never more than 1
	FreeRegionsAfter int
	// LargestFreeBefore is the size of the largest hole before compaction
	LargestFreeBefore int
	// LargestFreeAfter is the size of the largest hole after compaction
	LargestFreeAfter int
}

// Add sums the movement counters of stats into s. The hole counters describe a single
// run, so they are replaced by those of stats.
func (s *DefragmentationStats) Add(stats DefragmentationStats) {
	s.BytesMoved += stats.BytesMoved
	s.AllocationsMoved += stats.AllocationsMoved
	s.FreeRegionsBefore = stats.FreeRegionsBefore
	s.FreeRegionsAfter = stats.FreeRegionsAfter
	s.LargestFreeBefore = stats.LargestFreeBefore
	s.LargestFreeAfter = stats.LargestFreeAfter
}

func holeStats(regions []metadata.Region) (count int, largest int) {
	for _, region := range regions {
		if !region.Free {
			continue
		}

		count++
		if region.Size() > largest {
			largest = region.Size()
		}
	}

	return count, largest
}
