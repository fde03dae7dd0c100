package memutils

import "math"

// Statistics holds the cheap counters of an address space
type Statistics struct {
	RegionCount     int
	AllocationCount int
	TotalBytes      int
	AllocationBytes int
}

func (s *Statistics) Clear() {
	s.RegionCount = 0
	s.AllocationCount = 0
	s.TotalBytes = 0
	s.AllocationBytes = 0
}

func (s *Statistics) AddStatistics(other *Statistics) {
	s.RegionCount += other.RegionCount
	s.AllocationCount += other.AllocationCount
	s.TotalBytes += other.TotalBytes
	s.AllocationBytes += other.AllocationBytes
}

// UnusedBytes is the number of bytes not held by any allocation
func (s *Statistics) UnusedBytes() int {
	return s.TotalBytes - s.AllocationBytes
}

// DetailedStatistics extends Statistics with per-range size extremes. Call Clear before
// accumulating into it so the minimums start at math.MaxInt.
type DetailedStatistics struct {
	Statistics
	UnusedRangeCount   int
	AllocationSizeMin  int
	AllocationSizeMax  int
	UnusedRangeSizeMin int
	UnusedRangeSizeMax int
}

func (s *DetailedStatistics) Clear() {
	s.Statistics.Clear()
	s.UnusedRangeCount = 0
	s.AllocationSizeMin = math.MaxInt
	s.AllocationSizeMax = 0
	s.UnusedRangeSizeMin = math.MaxInt
	s.UnusedRangeSizeMax = 0
}

func (s *DetailedStatistics) AddUnusedRange(size int) {
	s.RegionCount++
	s.TotalBytes += size
	s.UnusedRangeCount++

	if size < s.UnusedRangeSizeMin {
		s.UnusedRangeSizeMin = size
	}

	if size > s.UnusedRangeSizeMax {
		s.UnusedRangeSizeMax = size
	}
}

func (s *DetailedStatistics) AddAllocation(size int) {
	s.RegionCount++
	s.TotalBytes += size
	s.AllocationCount++
	s.AllocationBytes += size

	if size < s.AllocationSizeMin {
		s.AllocationSizeMin = size
	}

	if size > s.AllocationSizeMax {
		s.AllocationSizeMax = size
	}
}

func (s *DetailedStatistics) AddDetailedStatistics(other *DetailedStatistics) {
	s.Statistics.AddStatistics(&other.Statistics)
	s.UnusedRangeCount += other.UnusedRangeCount

	if other.UnusedRangeSizeMin < s.UnusedRangeSizeMin {
		s.UnusedRangeSizeMin = other.UnusedRangeSizeMin
	}

	if other.UnusedRangeSizeMax > s.UnusedRangeSizeMax {
		s.UnusedRangeSizeMax = other.UnusedRangeSizeMax
	}

	if other.AllocationSizeMin < s.AllocationSizeMin {
		s.AllocationSizeMin = other.AllocationSizeMin
	}

	if other.AllocationSizeMax > s.AllocationSizeMax {
		s.AllocationSizeMax = other.AllocationSizeMax
	}
}

// ExternalFragmentation returns 1 - (largest unused range / total unused bytes), which is 0
// when all unused memory sits in a single range and approaches 1 as it scatters. It is 0 when
// there is no unused memory.
func (s *DetailedStatistics) ExternalFragmentation() float64 {
	unused := s.UnusedBytes()
	if unused == 0 || s.UnusedRangeCount == 0 {
		return 0
	}

	return 1 - float64(s.UnusedRangeSizeMax)/float64(unused)
}
