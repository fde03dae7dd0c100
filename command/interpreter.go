package command

import (
	"fmt"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/contigsim/memutils"
	"github.com/vkngwrapper/contigsim/memutils/defrag"
	"github.com/vkngwrapper/contigsim/memutils/metadata"
)

//go:generate mockgen -source interpreter.go -destination mocks/mocks.go -package mock_command

// Allocator is the set of operations the interpreter drives. sim.Simulator satisfies it.
type Allocator interface {
	Allocate(owner string, size int, strategy metadata.AllocationStrategy) error
	Release(owner string) error
	Compact() defrag.DefragmentationStats
	Snapshot() []metadata.Region
	BuildStatsString(detailedMap bool) string
}

// Interpreter executes command lines against an Allocator and writes the results to Out
type Interpreter struct {
	Allocator Allocator
	Out       io.Writer
	// JSONStats makes STAT print the allocator's JSON stats document instead of one line
	// per region
	JSONStats bool
}

// FormatRegion renders one STAT line
func FormatRegion(region metadata.Region) string {
	if region.Free {
		return fmt.Sprintf("Addresses [%d:%d] Unused", region.Start, region.End)
	}
	return fmt.Sprintf("Addresses [%d:%d] Process %s", region.Start, region.End, region.Owner)
}

// Execute parses and runs one command line. It returns true when the line asks to exit.
// Failures are reported on Out and never end the session.
func (i *Interpreter) Execute(line string) bool {
	cmd, err := Parse(line)
	if err != nil {
		i.printError(cmd, err)
		return false
	}

	switch cmd.Kind {
	case KindRequest:
		err = i.Allocator.Allocate(cmd.Owner, cmd.Size, cmd.Strategy)
	case KindRelease:
		err = i.Allocator.Release(cmd.Owner)
	case KindCompact:
		i.Allocator.Compact()
	case KindStatus:
		i.printStatus()
	case KindExit:
		return true
	}

	if err != nil {
		i.printError(cmd, err)
	}

	return false
}

func (i *Interpreter) printStatus() {
	if i.JSONStats {
		fmt.Fprintln(i.Out, i.Allocator.BuildStatsString(true))
		return
	}

	for _, region := range i.Allocator.Snapshot() {
		fmt.Fprintln(i.Out, FormatRegion(region))
	}
}

func (i *Interpreter) printError(cmd Command, err error) {
	switch {
	case errors.Is(err, memutils.OutOfMemoryError):
		fmt.Fprintf(i.Out, "Error: Not enough memory for process %s.\n", cmd.Owner)
	case errors.Is(err, memutils.OwnerNotFoundError):
		fmt.Fprintf(i.Out, "Error: Process %s not found.\n", cmd.Owner)
	default:
		if hint := errors.FlattenHints(err); hint != "" {
			fmt.Fprintln(i.Out, hint)
			return
		}
		fmt.Fprintf(i.Out, "Error: %v\n", err)
	}
}
