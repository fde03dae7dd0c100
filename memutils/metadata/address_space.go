package metadata

import (
	"github.com/cockroachdb/errors"
	"github.com/dolthub/swiss"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/vkngwrapper/contigsim/memutils"
	"golang.org/x/exp/slices"
)

// AddressSpace partitions the simulated range [0, Size()-1] into an ordered list of allocated
// and free regions. The list always covers the whole range with no gaps or overlaps, and no
// two free regions are ever adjacent.
//
// AddressSpace performs no locking: callers that share one between goroutines must serialize
// access themselves.
type AddressSpace struct {
	size    int
	regions []Region

	allocCount int
	freeCount  int
	freeSize   int
	// owners maps each owner to the number of allocated regions it holds
	owners *swiss.Map[string, int]
}

var _ memutils.Validatable = &AddressSpace{}

// NewAddressSpace creates an address space of totalSize bytes consisting of a single free
// region. It returns memutils.InvalidSizeError if totalSize is not positive.
func NewAddressSpace(totalSize int) (*AddressSpace, error) {
	err := memutils.CheckPositive(totalSize, "total size")
	if err != nil {
		return nil, err
	}

	m := &AddressSpace{size: totalSize}
	m.Clear()
	return m, nil
}

// Clear frees every allocation, leaving a single free region spanning the whole space
func (m *AddressSpace) Clear() {
	m.regions = append(m.regions[:0], freeRegion(0, m.size-1))
	m.allocCount = 0
	m.freeCount = 1
	m.freeSize = m.size
	m.owners = swiss.NewMap[string, int](16)
}

// Size returns the total number of bytes in the address space
func (m *AddressSpace) Size() int { return m.size }

// AllocationCount returns the number of allocated regions
func (m *AddressSpace) AllocationCount() int { return m.allocCount }

// FreeRegionsCount returns the number of free regions (holes)
func (m *AddressSpace) FreeRegionsCount() int { return m.freeCount }

// SumFreeSize returns the number of free bytes
func (m *AddressSpace) SumFreeSize() int { return m.freeSize }

// IsEmpty returns true if nothing is allocated
func (m *AddressSpace) IsEmpty() bool { return m.allocCount == 0 }

// OwnerCount returns the number of distinct owners holding at least one region
func (m *AddressSpace) OwnerCount() int { return m.owners.Count() }

// OwnerRegions returns the number of allocated regions held by owner
func (m *AddressSpace) OwnerRegions(owner string) int {
	count, _ := m.owners.Get(owner)
	return count
}

// Snapshot returns a copy of all regions in ascending address order
func (m *AddressSpace) Snapshot() []Region {
	return slices.Clone(m.regions)
}

// VisitAllRegions calls handleRegion once for each region in ascending address order,
// stopping at the first error
func (m *AddressSpace) VisitAllRegions(handleRegion func(region Region) error) error {
	for _, region := range m.regions {
		err := handleRegion(region)
		if err != nil {
			return err
		}
	}

	return nil
}

// CreateAllocationRequest selects the hole that would hold an allocation of allocSize bytes
// under strategy. It returns false with no error if no hole is large enough. The address
// space is not modified.
func (m *AddressSpace) CreateAllocationRequest(allocSize int, strategy AllocationStrategy) (bool, AllocationRequest, error) {
	var allocRequest AllocationRequest

	err := memutils.CheckPositive(allocSize, "allocation size")
	if err != nil {
		return false, allocRequest, err
	}

	if !strategy.IsValid() {
		return false, allocRequest, errors.Wrapf(memutils.InvalidStrategyError, "strategy value %d", strategy)
	}

	memutils.DebugValidate(m)

	// Is the space big enough at all?
	if allocSize > m.freeSize {
		return false, allocRequest, nil
	}

	selected := -1
	selectedSize := 0

	for index, region := range m.regions {
		if !region.Free {
			continue
		}

		holeSize := region.Size()
		if holeSize < allocSize {
			continue
		}

		switch strategy {
		case AllocationStrategyFirstFit:
			selected = index
			selectedSize = holeSize
		case AllocationStrategyBestFit:
			// Strict comparison keeps the lowest address among equal sizes
			if selected == -1 || holeSize < selectedSize {
				selected = index
				selectedSize = holeSize
			}
		case AllocationStrategyWorstFit:
			if selected == -1 || holeSize > selectedSize {
				selected = index
				selectedSize = holeSize
			}
		}

		if strategy == AllocationStrategyFirstFit {
			break
		}
	}

	if selected == -1 {
		return false, allocRequest, nil
	}

	allocRequest.RegionIndex = selected
	allocRequest.Offset = m.regions[selected].Start
	allocRequest.Size = allocSize
	allocRequest.HoleSize = selectedSize
	allocRequest.Strategy = strategy

	return true, allocRequest, nil
}

// Alloc commits an AllocationRequest, placing an allocation owned by owner at the start of the
// selected hole. The hole is converted in place on an exact fit, or split into the allocation
// followed by a free remainder. An error is returned if the request no longer matches the
// address space.
func (m *AddressSpace) Alloc(request AllocationRequest, owner string) error {
	if owner == "" {
		return errors.WithStack(memutils.InvalidOwnerError)
	}

	if request.RegionIndex < 0 || request.RegionIndex >= len(m.regions) {
		return errors.Errorf("allocation request region index %d is out of range", request.RegionIndex)
	}

	hole := m.regions[request.RegionIndex]
	if !hole.Free {
		return errors.Errorf("allocation request region at offset %d is not free", hole.Start)
	}
	if hole.Start != request.Offset || hole.Size() != request.HoleSize {
		return errors.Errorf("allocation request expected a hole of %d bytes at offset %d, but found %s", request.HoleSize, request.Offset, hole)
	}
	if request.Size < 1 || request.Size > request.HoleSize {
		return errors.Errorf("allocation request for %d bytes does not fit a hole of %d bytes", request.Size, request.HoleSize)
	}

	allocEnd := hole.Start + request.Size - 1
	m.regions[request.RegionIndex] = allocatedRegion(hole.Start, allocEnd, owner)

	if request.ExactFit() {
		m.freeCount--
	} else {
		// The remainder's successor was never free: the hole was maximal
		m.regions = slices.Insert(m.regions, request.RegionIndex+1, freeRegion(allocEnd+1, hole.End))
	}

	m.freeSize -= request.Size
	m.allocCount++

	count, _ := m.owners.Get(owner)
	m.owners.Put(owner, count+1)

	return nil
}

// Allocate places a new region of allocSize bytes owned by owner in the hole chosen by
// strategy. It returns memutils.OutOfMemoryError, leaving the address space untouched, if no
// hole is large enough.
func (m *AddressSpace) Allocate(owner string, allocSize int, strategy AllocationStrategy) error {
	if owner == "" {
		return errors.WithStack(memutils.InvalidOwnerError)
	}

	success, request, err := m.CreateAllocationRequest(allocSize, strategy)
	if err != nil {
		return err
	}

	if !success {
		return errors.Wrapf(memutils.OutOfMemoryError, "owner %s requested %d bytes", owner, allocSize)
	}

	return m.Alloc(request, owner)
}

// Release frees every region held by owner and merges the resulting adjacent free regions.
// It returns memutils.OwnerNotFoundError, leaving the address space untouched, if owner holds
// no region.
func (m *AddressSpace) Release(owner string) error {
	count, ok := m.owners.Get(owner)
	if !ok || count == 0 {
		return errors.Wrapf(memutils.OwnerNotFoundError, "owner %s", owner)
	}

	for index := range m.regions {
		region := &m.regions[index]
		if region.Free || region.Owner != owner {
			continue
		}

		region.Free = true
		region.Owner = ""
		m.allocCount--
		m.freeCount++
		m.freeSize += region.Size()
	}

	m.owners.Delete(owner)
	m.mergeFreeRegions()

	memutils.DebugValidate(m)
	return nil
}

func (m *AddressSpace) mergeFreeRegions() {
	index := 0
	for index < len(m.regions)-1 {
		current := m.regions[index]
		next := m.regions[index+1]

		if !current.Free || !next.Free {
			index++
			continue
		}

		// Stay on this index: the merged region may have another free neighbor
		m.regions[index].End = next.End
		m.regions = slices.Delete(m.regions, index+1, index+2)
		m.freeCount--
	}
}

// Compact relocates every allocated region to the lowest addresses, preserving their relative
// order, sizes, and owners, and collapses all free space into one trailing free region. If the
// allocations fill the space exactly, there is no trailing free region.
func (m *AddressSpace) Compact() {
	compacted := make([]Region, 0, m.allocCount+1)
	nextAddress := 0

	for _, region := range m.regions {
		if region.Free {
			continue
		}

		end := nextAddress + region.Size() - 1
		compacted = append(compacted, allocatedRegion(nextAddress, end, region.Owner))
		nextAddress = end + 1
	}

	m.freeCount = 0
	if nextAddress < m.size {
		compacted = append(compacted, freeRegion(nextAddress, m.size-1))
		m.freeCount = 1
	}

	m.regions = compacted
	memutils.DebugValidate(m)
}

// Validate performs internal consistency checks on the region list and counters. It should
// never return an error.
func (m *AddressSpace) Validate() error {
	if len(m.regions) == 0 {
		return errors.New("the address space has no regions")
	}

	if m.regions[0].Start != 0 {
		return errors.Errorf("the first region should start at 0, but instead it starts at %d", m.regions[0].Start)
	}

	if last := m.regions[len(m.regions)-1]; last.End != m.size-1 {
		return errors.Errorf("the last region should end at %d, but instead it ends at %d", m.size-1, last.End)
	}

	var allocCount, freeCount, freeSize int
	owners := make(map[string]int)

	for index, region := range m.regions {
		if region.Size() < 1 {
			return errors.Errorf("region %s has a size of %d", region, region.Size())
		}

		if index > 0 {
			prev := m.regions[index-1]
			if prev.End+1 != region.Start {
				return errors.Errorf("region %s does not begin immediately after region %s", region, prev)
			}
			if prev.Free && region.Free {
				return errors.Errorf("free regions %s and %s are adjacent and were not merged", prev, region)
			}
		}

		if region.Free {
			if region.Owner != "" {
				return errors.Errorf("free region %s has owner %q", region, region.Owner)
			}
			freeCount++
			freeSize += region.Size()
			continue
		}

		if region.Owner == "" {
			return errors.Errorf("allocated region %s has no owner", region)
		}
		allocCount++
		owners[region.Owner]++
	}

	if allocCount != m.allocCount {
		return errors.Errorf("the allocation count of the address space is %d, but the allocated regions only added up to %d", m.allocCount, allocCount)
	}

	if freeCount != m.freeCount {
		return errors.Errorf("the free region count of the address space is %d, but there were %d free regions", m.freeCount, freeCount)
	}

	if freeSize != m.freeSize {
		return errors.Errorf("the free size of the address space is %d, but the free regions added up to %d", m.freeSize, freeSize)
	}

	if len(owners) != m.owners.Count() {
		return errors.Errorf("the owner index holds %d owners, but the regions name %d", m.owners.Count(), len(owners))
	}

	for owner, count := range owners {
		indexed, _ := m.owners.Get(owner)
		if indexed != count {
			return errors.Errorf("the owner index lists %d regions for %s, but it holds %d", indexed, owner, count)
		}
	}

	return nil
}

// AddStatistics sums this address space's counters into stats
func (m *AddressSpace) AddStatistics(stats *memutils.Statistics) {
	stats.RegionCount += len(m.regions)
	stats.AllocationCount += m.allocCount
	stats.TotalBytes += m.size
	stats.AllocationBytes += m.size - m.freeSize
}

// AddDetailedStatistics sums this address space's per-region statistics into stats
func (m *AddressSpace) AddDetailedStatistics(stats *memutils.DetailedStatistics) {
	for _, region := range m.regions {
		if region.Free {
			stats.AddUnusedRange(region.Size())
		} else {
			stats.AddAllocation(region.Size())
		}
	}
}

// BlockJsonData populates a json object with summary information about this address space
func (m *AddressSpace) BlockJsonData(json jwriter.ObjectState) {
	json.Name("TotalBytes").Int(m.size)
	json.Name("UnusedBytes").Int(m.freeSize)
	json.Name("Allocations").Int(m.allocCount)
	json.Name("UnusedRanges").Int(m.freeCount)
	json.Name("Owners").Int(m.owners.Count())
}
