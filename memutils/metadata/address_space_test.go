package metadata_test

import (
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/google/go-cmp/cmp"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/contigsim/memutils"
	"github.com/vkngwrapper/contigsim/memutils/metadata"
)

const separatorSize = 10

func free(start, end int) metadata.Region {
	return metadata.Region{Start: start, End: end, Free: true}
}

func taken(start, end int, owner string) metadata.Region {
	return metadata.Region{Start: start, End: end, Owner: owner}
}

// buildHoles lays out one hole per entry of holeSizes, in order, each followed by a small
// allocation owned by sep<i> so the holes can't merge. The space is sized to fit exactly.
func buildHoles(t *testing.T, holeSizes ...int) *metadata.AddressSpace {
	total := 0
	for _, size := range holeSizes {
		total += size + separatorSize
	}

	space, err := metadata.NewAddressSpace(total)
	require.NoError(t, err)

	for i, size := range holeSizes {
		require.NoError(t, space.Allocate(fmt.Sprintf("hole%d", i), size, metadata.AllocationStrategyFirstFit))
		require.NoError(t, space.Allocate(fmt.Sprintf("sep%d", i), separatorSize, metadata.AllocationStrategyFirstFit))
	}

	for i := range holeSizes {
		require.NoError(t, space.Release(fmt.Sprintf("hole%d", i)))
	}

	require.NoError(t, space.Validate())
	require.Equal(t, len(holeSizes), space.FreeRegionsCount())
	return space
}

func TestNewAddressSpace(t *testing.T) {
	space, err := metadata.NewAddressSpace(1000)
	require.NoError(t, err)
	require.Equal(t, []metadata.Region{free(0, 999)}, space.Snapshot())
	require.Equal(t, 1000, space.Size())
	require.Equal(t, 1000, space.SumFreeSize())
	require.True(t, space.IsEmpty())
	require.NoError(t, space.Validate())

	_, err = metadata.NewAddressSpace(0)
	require.True(t, errors.Is(err, memutils.InvalidSizeError))

	_, err = metadata.NewAddressSpace(-5)
	require.True(t, errors.Is(err, memutils.InvalidSizeError))
}

func TestStrategySelection(t *testing.T) {
	testCases := map[string]struct {
		Holes         []int
		Request       int
		Strategy      metadata.AllocationStrategy
		ExpectedStart int
	}{
		"FirstFitTieBreak": {
			Holes:         []int{100, 50, 100},
			Request:       50,
			Strategy:      metadata.AllocationStrategyFirstFit,
			ExpectedStart: 0,
		},
		"FirstFitSkipsSmallHoles": {
			Holes:         []int{100, 50, 200},
			Request:       150,
			Strategy:      metadata.AllocationStrategyFirstFit,
			ExpectedStart: 100 + separatorSize + 50 + separatorSize,
		},
		"BestFitSmallestThatFits": {
			Holes:         []int{300, 100, 200},
			Request:       150,
			Strategy:      metadata.AllocationStrategyBestFit,
			ExpectedStart: 300 + separatorSize + 100 + separatorSize,
		},
		"BestFitTieBreak": {
			Holes:         []int{100, 50, 100, 50},
			Request:       40,
			Strategy:      metadata.AllocationStrategyBestFit,
			ExpectedStart: 100 + separatorSize,
		},
		"WorstFitLargest": {
			Holes:         []int{300, 100, 200},
			Request:       150,
			Strategy:      metadata.AllocationStrategyWorstFit,
			ExpectedStart: 0,
		},
		"WorstFitTieBreak": {
			Holes:         []int{50, 100, 100},
			Request:       50,
			Strategy:      metadata.AllocationStrategyWorstFit,
			ExpectedStart: 50 + separatorSize,
		},
	}

	for testName, testCase := range testCases {
		t.Run(testName, func(t *testing.T) {
			space := buildHoles(t, testCase.Holes...)

			success, request, err := space.CreateAllocationRequest(testCase.Request, testCase.Strategy)
			require.NoError(t, err)
			require.True(t, success)
			require.Equal(t, testCase.ExpectedStart, request.Offset)

			require.NoError(t, space.Alloc(request, "P"))
			require.NoError(t, space.Validate())

			var found bool
			_ = space.VisitAllRegions(func(region metadata.Region) error {
				if region.Owner == "P" {
					found = true
					require.Equal(t, testCase.ExpectedStart, region.Start)
					require.Equal(t, testCase.Request, region.Size())
				}
				return nil
			})
			require.True(t, found)
		})
	}
}

func TestAllocateSplitsHole(t *testing.T) {
	space, err := metadata.NewAddressSpace(1000)
	require.NoError(t, err)

	require.NoError(t, space.Allocate("A", 300, metadata.AllocationStrategyFirstFit))
	require.Equal(t, []metadata.Region{
		taken(0, 299, "A"),
		free(300, 999),
	}, space.Snapshot())
	require.Equal(t, 700, space.SumFreeSize())
	require.Equal(t, 1, space.AllocationCount())
	require.NoError(t, space.Validate())
}

func TestAllocateExactFit(t *testing.T) {
	space, err := metadata.NewAddressSpace(1000)
	require.NoError(t, err)

	require.NoError(t, space.Allocate("A", 1000, metadata.AllocationStrategyBestFit))
	require.Equal(t, []metadata.Region{taken(0, 999, "A")}, space.Snapshot())
	require.Equal(t, 0, space.FreeRegionsCount())
	require.Equal(t, 0, space.SumFreeSize())
	require.NoError(t, space.Validate())

	err = space.Allocate("B", 1, metadata.AllocationStrategyFirstFit)
	require.True(t, errors.Is(err, memutils.OutOfMemoryError))
}

func TestAllocateInvalidArguments(t *testing.T) {
	space, err := metadata.NewAddressSpace(1000)
	require.NoError(t, err)
	before := space.Snapshot()

	err = space.Allocate("A", 0, metadata.AllocationStrategyFirstFit)
	require.True(t, errors.Is(err, memutils.InvalidSizeError))

	err = space.Allocate("A", -10, metadata.AllocationStrategyFirstFit)
	require.True(t, errors.Is(err, memutils.InvalidSizeError))

	err = space.Allocate("", 10, metadata.AllocationStrategyFirstFit)
	require.True(t, errors.Is(err, memutils.InvalidOwnerError))

	err = space.Allocate("A", 10, metadata.AllocationStrategy(0))
	require.True(t, errors.Is(err, memutils.InvalidStrategyError))

	require.Equal(t, before, space.Snapshot())
}

func TestOutOfMemoryLeavesStateUnchanged(t *testing.T) {
	space := buildHoles(t, 300, 100, 200)
	before := space.Snapshot()

	for _, strategy := range []metadata.AllocationStrategy{
		metadata.AllocationStrategyFirstFit,
		metadata.AllocationStrategyBestFit,
		metadata.AllocationStrategyWorstFit,
	} {
		// 600 bytes are free in total, but never contiguously
		err := space.Allocate("big", 301, strategy)
		require.True(t, errors.Is(err, memutils.OutOfMemoryError), strategy.String())
		require.Empty(t, cmp.Diff(before, space.Snapshot()))
	}

	success, _, err := space.CreateAllocationRequest(math.MaxInt, metadata.AllocationStrategyWorstFit)
	require.NoError(t, err)
	require.False(t, success)
}

func TestOwnerNotFoundLeavesStateUnchanged(t *testing.T) {
	space, err := metadata.NewAddressSpace(1000)
	require.NoError(t, err)
	require.NoError(t, space.Allocate("A", 100, metadata.AllocationStrategyFirstFit))
	before := space.Snapshot()

	err = space.Release("B")
	require.True(t, errors.Is(err, memutils.OwnerNotFoundError))
	require.Equal(t, before, space.Snapshot())

	require.NoError(t, space.Release("A"))
	err = space.Release("A")
	require.True(t, errors.Is(err, memutils.OwnerNotFoundError))
}

func TestReleaseMergesNeighbors(t *testing.T) {
	space, err := metadata.NewAddressSpace(500)
	require.NoError(t, err)

	for _, owner := range []string{"A", "B", "C", "D"} {
		require.NoError(t, space.Allocate(owner, 100, metadata.AllocationStrategyFirstFit))
	}

	require.NoError(t, space.Release("A"))
	require.NoError(t, space.Release("C"))
	require.Equal(t, []metadata.Region{
		free(0, 99),
		taken(100, 199, "B"),
		free(200, 299),
		taken(300, 399, "D"),
		free(400, 499),
	}, space.Snapshot())

	// Releasing B joins three free regions into one
	require.NoError(t, space.Release("B"))
	require.Equal(t, []metadata.Region{
		free(0, 299),
		taken(300, 399, "D"),
		free(400, 499),
	}, space.Snapshot())
	require.Equal(t, 2, space.FreeRegionsCount())

	require.NoError(t, space.Release("D"))
	require.Equal(t, []metadata.Region{free(0, 499)}, space.Snapshot())
	require.True(t, space.IsEmpty())
	require.NoError(t, space.Validate())
}

func TestReleaseAllRegionsOfOwner(t *testing.T) {
	space, err := metadata.NewAddressSpace(1000)
	require.NoError(t, err)

	require.NoError(t, space.Allocate("A", 100, metadata.AllocationStrategyFirstFit))
	require.NoError(t, space.Allocate("B", 100, metadata.AllocationStrategyFirstFit))
	require.NoError(t, space.Allocate("A", 100, metadata.AllocationStrategyFirstFit))
	require.Equal(t, 2, space.OwnerRegions("A"))
	require.Equal(t, 2, space.OwnerCount())

	require.NoError(t, space.Release("A"))
	require.Equal(t, []metadata.Region{
		free(0, 99),
		taken(100, 199, "B"),
		free(200, 999),
	}, space.Snapshot())
	require.Equal(t, 0, space.OwnerRegions("A"))
	require.Equal(t, 1, space.OwnerCount())
	require.NoError(t, space.Validate())
}

func TestAllocateReleaseRoundTrip(t *testing.T) {
	space := buildHoles(t, 300, 100, 200)
	before := space.Snapshot()

	for _, strategy := range []metadata.AllocationStrategy{
		metadata.AllocationStrategyFirstFit,
		metadata.AllocationStrategyBestFit,
		metadata.AllocationStrategyWorstFit,
	} {
		require.NoError(t, space.Allocate("tmp", 75, strategy))
		require.NoError(t, space.Release("tmp"))
		require.Empty(t, cmp.Diff(before, space.Snapshot()), strategy.String())
	}
}

func TestCompactionScenario(t *testing.T) {
	space, err := metadata.NewAddressSpace(1048576)
	require.NoError(t, err)

	require.NoError(t, space.Allocate("P1", 300000, metadata.AllocationStrategyFirstFit))
	require.NoError(t, space.Allocate("P2", 200000, metadata.AllocationStrategyFirstFit))
	require.NoError(t, space.Release("P1"))
	require.NoError(t, space.Allocate("P3", 100000, metadata.AllocationStrategyFirstFit))

	require.Equal(t, []metadata.Region{
		taken(0, 99999, "P3"),
		free(100000, 299999),
		taken(300000, 499999, "P2"),
		free(500000, 1048575),
	}, space.Snapshot())

	space.Compact()
	require.Equal(t, []metadata.Region{
		taken(0, 99999, "P3"),
		taken(100000, 299999, "P2"),
		free(300000, 1048575),
	}, space.Snapshot())
	require.Equal(t, 1, space.FreeRegionsCount())
	require.Equal(t, 1048576-300000, space.SumFreeSize())
	require.NoError(t, space.Validate())

	// Compaction is idempotent
	compacted := space.Snapshot()
	space.Compact()
	require.Empty(t, cmp.Diff(compacted, space.Snapshot()))
}

func TestCompactFullAndEmpty(t *testing.T) {
	space, err := metadata.NewAddressSpace(300)
	require.NoError(t, err)

	space.Compact()
	require.Equal(t, []metadata.Region{free(0, 299)}, space.Snapshot())

	require.NoError(t, space.Allocate("A", 100, metadata.AllocationStrategyFirstFit))
	require.NoError(t, space.Allocate("B", 100, metadata.AllocationStrategyFirstFit))
	require.NoError(t, space.Allocate("C", 100, metadata.AllocationStrategyFirstFit))
	require.NoError(t, space.Release("B"))
	require.NoError(t, space.Allocate("D", 100, metadata.AllocationStrategyFirstFit))

	// The allocations fill the space exactly, so no trailing free region is emitted
	space.Compact()
	require.Equal(t, []metadata.Region{
		taken(0, 99, "A"),
		taken(100, 199, "D"),
		taken(200, 299, "C"),
	}, space.Snapshot())
	require.Equal(t, 0, space.FreeRegionsCount())
	require.NoError(t, space.Validate())
}

func TestAllocStaleRequest(t *testing.T) {
	space, err := metadata.NewAddressSpace(1000)
	require.NoError(t, err)

	success, request, err := space.CreateAllocationRequest(100, metadata.AllocationStrategyFirstFit)
	require.NoError(t, err)
	require.True(t, success)

	require.NoError(t, space.Allocate("A", 50, metadata.AllocationStrategyFirstFit))

	err = space.Alloc(request, "B")
	require.Error(t, err)
	require.Equal(t, []metadata.Region{
		taken(0, 49, "A"),
		free(50, 999),
	}, space.Snapshot())

	err = space.Alloc(metadata.AllocationRequest{RegionIndex: 7}, "B")
	require.Error(t, err)
}

func TestStatistics(t *testing.T) {
	space := buildHoles(t, 300, 100, 200)

	var stats memutils.Statistics
	space.AddStatistics(&stats)
	require.Equal(t, memutils.Statistics{
		RegionCount:     6,
		AllocationCount: 3,
		TotalBytes:      630,
		AllocationBytes: 30,
	}, stats)

	var detailed memutils.DetailedStatistics
	detailed.Clear()
	space.AddDetailedStatistics(&detailed)
	require.Equal(t, memutils.DetailedStatistics{
		Statistics:         stats,
		UnusedRangeCount:   3,
		AllocationSizeMin:  separatorSize,
		AllocationSizeMax:  separatorSize,
		UnusedRangeSizeMin: 100,
		UnusedRangeSizeMax: 300,
	}, detailed)
	require.InDelta(t, 0.5, detailed.ExternalFragmentation(), 0.0001)

	space.Compact()
	detailed.Clear()
	space.AddDetailedStatistics(&detailed)
	require.Equal(t, 1, detailed.UnusedRangeCount)
	require.Zero(t, detailed.ExternalFragmentation())
}

func TestBlockJsonData(t *testing.T) {
	space, err := metadata.NewAddressSpace(1000)
	require.NoError(t, err)
	require.NoError(t, space.Allocate("A", 100, metadata.AllocationStrategyFirstFit))

	writer := jwriter.NewWriter()
	obj := writer.Object()
	space.BlockJsonData(obj)
	obj.End()

	require.NoError(t, writer.Error())
	require.JSONEq(t, `{"TotalBytes":1000,"UnusedBytes":900,"Allocations":1,"UnusedRanges":1,"Owners":1}`, string(writer.Bytes()))
}

func TestClear(t *testing.T) {
	space := buildHoles(t, 10, 20)
	space.Clear()
	require.Equal(t, []metadata.Region{free(0, 49)}, space.Snapshot())
	require.Equal(t, 0, space.OwnerCount())
	require.NoError(t, space.Validate())
}

func TestRandomOperationsStayConsistent(t *testing.T) {
	rng := rand.New(rand.NewSource(4302))
	space, err := metadata.NewAddressSpace(1 << 16)
	require.NoError(t, err)

	strategies := []metadata.AllocationStrategy{
		metadata.AllocationStrategyFirstFit,
		metadata.AllocationStrategyBestFit,
		metadata.AllocationStrategyWorstFit,
	}

	for i := 0; i < 2000; i++ {
		owner := fmt.Sprintf("P%d", rng.Intn(40))

		switch op := rng.Intn(10); {
		case op < 6:
			err = space.Allocate(owner, 1+rng.Intn(4096), strategies[rng.Intn(len(strategies))])
			if err != nil {
				require.True(t, errors.Is(err, memutils.OutOfMemoryError), "%+v", err)
			}
		case op < 9:
			err = space.Release(owner)
			if err != nil {
				require.True(t, errors.Is(err, memutils.OwnerNotFoundError), "%+v", err)
			}
		default:
			space.Compact()
			require.LessOrEqual(t, space.FreeRegionsCount(), 1)
		}

		require.NoError(t, space.Validate())
	}
}
