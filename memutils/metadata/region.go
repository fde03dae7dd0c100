package metadata

import "fmt"

// Region is a maximal contiguous range of addresses that share one allocation state.
// Start and End are both inclusive.
type Region struct {
	Start int
	End   int
	Free  bool
	// Owner identifies the requester of an allocated region. It is empty for free regions.
	Owner string
}

// Size returns the number of bytes covered by the region
func (r Region) Size() int {
	return r.End - r.Start + 1
}

func (r Region) String() string {
	if r.Free {
		return fmt.Sprintf("[%d:%d] free", r.Start, r.End)
	}
	return fmt.Sprintf("[%d:%d] %s", r.Start, r.End, r.Owner)
}

func freeRegion(start, end int) Region {
	return Region{Start: start, End: end, Free: true}
}

func allocatedRegion(start, end int, owner string) Region {
	return Region{Start: start, End: end, Owner: owner}
}
