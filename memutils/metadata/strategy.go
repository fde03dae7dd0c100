package metadata

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/contigsim/memutils"
)

// AllocationStrategy selects which free region (hole) satisfies a new allocation
type AllocationStrategy uint32

const (
	// AllocationStrategyFirstFit chooses the lowest-address hole that is large enough
	AllocationStrategyFirstFit AllocationStrategy = iota + 1
	// AllocationStrategyBestFit chooses the smallest hole that is large enough. Among holes of
	// equal size, the lowest address wins.
	AllocationStrategyBestFit
	// AllocationStrategyWorstFit chooses the largest hole. Among holes of equal size, the
	// lowest address wins.
	AllocationStrategyWorstFit
)

var allocationStrategyMapping = map[AllocationStrategy]string{
	AllocationStrategyFirstFit: "FirstFit",
	AllocationStrategyBestFit:  "BestFit",
	AllocationStrategyWorstFit: "WorstFit",
}

func (s AllocationStrategy) String() string {
	return allocationStrategyMapping[s]
}

// Letter returns the single-letter command form of the strategy: F, B, or W
func (s AllocationStrategy) Letter() string {
	str := allocationStrategyMapping[s]
	if str == "" {
		return ""
	}
	return str[:1]
}

// IsValid returns true for the three supported strategies
func (s AllocationStrategy) IsValid() bool {
	_, ok := allocationStrategyMapping[s]
	return ok
}

// ParseAllocationStrategy reads a strategy token. Only the first character matters and it is
// case-insensitive: F, B, or W. An empty token means first fit.
func ParseAllocationStrategy(token string) (AllocationStrategy, error) {
	if token == "" {
		return AllocationStrategyFirstFit, nil
	}

	switch strings.ToUpper(token[:1]) {
	case "F":
		return AllocationStrategyFirstFit, nil
	case "B":
		return AllocationStrategyBestFit, nil
	case "W":
		return AllocationStrategyWorstFit, nil
	}

	return 0, errors.Wrapf(memutils.InvalidStrategyError, "unknown strategy %q", token)
}
