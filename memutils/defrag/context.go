package defrag

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/contigsim/memutils/metadata"
)

// CompactionContext drives compaction runs against a single Compactable and accumulates their
// statistics. It can be reused for any number of runs.
type CompactionContext struct {
	// Target is the address space this context exists to compact
	Target Compactable
	// Stats accumulates movement statistics across all runs of this context
	Stats DefragmentationStats

	moves []DefragmentationMove
}

// Run compacts Target once and verifies the result against the planned moves. It returns the
// statistics of this run. An error indicates that Target did not compact as expected; Target
// has been compacted regardless.
func (c *CompactionContext) Run() (DefragmentationStats, error) {
	if c.Target == nil {
		panic("attempted to run compaction without a target")
	}

	var stats DefragmentationStats

	before := c.Target.Snapshot()
	c.moves = PlanMoves(before)
	stats.FreeRegionsBefore, stats.LargestFreeBefore = holeStats(before)

	c.Target.Compact()

	after := c.Target.Snapshot()
	stats.FreeRegionsAfter, stats.LargestFreeAfter = holeStats(after)

	for _, move := range c.moves {
		stats.AllocationsMoved++
		stats.BytesMoved += move.Size
	}

	c.Stats.Add(stats)

	return stats, verifyCompaction(before, after)
}

// Moves returns the relocations performed by the most recent Run
func (c *CompactionContext) Moves() []DefragmentationMove {
	return c.moves
}

func verifyCompaction(before, after []metadata.Region) error {
	var allocated []metadata.Region
	for _, region := range before {
		if !region.Free {
			allocated = append(allocated, region)
		}
	}

	nextOffset := 0
	for index, region := range after {
		if region.Free {
			if index != len(after)-1 {
				return errors.Errorf("compaction left free region %s before the end of the space", region)
			}
			continue
		}

		if index >= len(allocated) {
			return errors.Errorf("compaction produced an unexpected allocation %s", region)
		}

		original := allocated[index]
		if region.Owner != original.Owner || region.Size() != original.Size() {
			return errors.Errorf("compaction reordered allocations: expected %s at index %d, found %s", original, index, region)
		}

		if region.Start != nextOffset {
			return errors.Errorf("compaction left allocation %s at %d instead of %d", region, region.Start, nextOffset)
		}

		nextOffset += region.Size()
	}

	if nextOffset != totalSize(allocated) {
		return errors.Errorf("compaction kept %d allocated bytes, expected %d", nextOffset, totalSize(allocated))
	}

	return nil
}

func totalSize(regions []metadata.Region) int {
	size := 0
	for _, region := range regions {
		size += region.Size()
	}
	return size
}
