package metadata

// AllocationRequest is returned from AddressSpace.CreateAllocationRequest and indicates which
// hole the address space intends to place a new allocation in. It can be committed with
// AddressSpace.Alloc as long as the address space has not been modified in between.
type AllocationRequest struct {
	// RegionIndex is the index of the selected hole in the region list
	RegionIndex int
	// Offset is the first address of the selected hole, which is also the first address of the
	// new allocation
	Offset int
	// Size is the number of bytes requested
	Size int
	// HoleSize is the size of the selected hole at the time the request was created
	HoleSize int
	// Strategy is the strategy that selected the hole
	Strategy AllocationStrategy
}

// ExactFit returns true if committing the request consumes the whole hole
func (r AllocationRequest) ExactFit() bool {
	return r.Size == r.HoleSize
}
