package defrag

import (
	"fmt"

	"github.com/vkngwrapper/contigsim/memutils/metadata"
)

// DefragmentationMove describes the relocation of one allocated region during compaction
type DefragmentationMove struct {
	Owner     string
	Size      int
	SrcOffset int
	DstOffset int
}

func (m DefragmentationMove) String() string {
	return fmt.Sprintf("%s: %d bytes from %d to %d", m.Owner, m.Size, m.SrcOffset, m.DstOffset)
}

// PlanMoves returns the relocations that compacting regions would perform: allocations are
// packed from address 0 in their current order. Allocations that would not change address are
// left out.
func PlanMoves(regions []metadata.Region) []DefragmentationMove {
	var moves []DefragmentationMove
	nextOffset := 0

	for _, region := range regions {
		if region.Free {
			continue
		}

		if region.Start != nextOffset {
			moves = append(moves, DefragmentationMove{
				Owner:     region.Owner,
				Size:      region.Size(),
				SrcOffset: region.Start,
				DstOffset: nextOffset,
			})
		}

		nextOffset += region.Size()
	}

	return moves
}
