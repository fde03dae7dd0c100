package command

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/contigsim/memutils"
	"github.com/vkngwrapper/contigsim/memutils/metadata"
)

// Kind identifies which operation a command line requests
type Kind uint32

const (
	// KindNone is a blank line
	KindNone Kind = iota
	// KindRequest is RQ <owner> <bytes> <F|B|W>
	KindRequest
	// KindRelease is RL <owner>
	KindRelease
	// KindCompact is C
	KindCompact
	// KindStatus is STAT
	KindStatus
	// KindExit is X
	KindExit
)

var kindMapping = map[Kind]string{
	KindNone:    "None",
	KindRequest: "RQ",
	KindRelease: "RL",
	KindCompact: "C",
	KindStatus:  "STAT",
	KindExit:    "X",
}

func (k Kind) String() string {
	return kindMapping[k]
}

const (
	requestUsage  = "Invalid RQ command. Usage: RQ <ProcessId> <Bytes> <F|B|W>"
	releaseUsage  = "Invalid RL command. Usage: RL <ProcessId>"
	sizeValue     = "Invalid size value. Please enter an integer number of bytes."
	sizePositive  = "Requested size must be greater than zero."
	strategyUsage = "Invalid strategy. Use F, B, or W."
	commandUsage  = "Invalid command. Please enter RQ, RL, C, STAT, or X."
)

// Command is a parsed command line
type Command struct {
	Kind     Kind
	Owner    string
	Size     int
	Strategy metadata.AllocationStrategy
}

// Parse converts one line of user text into a Command. The command word is case-insensitive.
// Errors wrap memutils.InvalidCommandError, memutils.InvalidSizeError or
// memutils.InvalidStrategyError and carry a hint with the message to show the user.
func Parse(line string) (Command, error) {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return Command{Kind: KindNone}, nil
	}

	switch strings.ToUpper(tokens[0]) {
	case "RQ":
		return parseRequest(tokens)
	case "RL":
		if len(tokens) != 2 {
			return Command{}, errors.WithHint(
				errors.Wrapf(memutils.InvalidCommandError, "RL takes 1 argument, got %d", len(tokens)-1),
				releaseUsage)
		}
		return Command{Kind: KindRelease, Owner: tokens[1]}, nil
	case "C":
		return Command{Kind: KindCompact}, nil
	case "STAT":
		return Command{Kind: KindStatus}, nil
	case "X":
		return Command{Kind: KindExit}, nil
	}

	return Command{}, errors.WithHint(
		errors.Wrapf(memutils.InvalidCommandError, "unknown command %q", tokens[0]),
		commandUsage)
}

func parseRequest(tokens []string) (Command, error) {
	if len(tokens) != 4 {
		return Command{}, errors.WithHint(
			errors.Wrapf(memutils.InvalidCommandError, "RQ takes 3 arguments, got %d", len(tokens)-1),
			requestUsage)
	}

	size, err := strconv.Atoi(tokens[2])
	if err != nil {
		return Command{}, errors.WithHint(
			errors.Mark(errors.Wrapf(err, "size %q", tokens[2]), memutils.InvalidCommandError),
			sizeValue)
	}

	err = memutils.CheckPositive(size, "requested size")
	if err != nil {
		return Command{}, errors.WithHint(err, sizePositive)
	}

	strategy, err := metadata.ParseAllocationStrategy(tokens[3])
	if err != nil {
		return Command{}, errors.WithHint(err, strategyUsage)
	}

	return Command{
		Kind:     KindRequest,
		Owner:    tokens[1],
		Size:     size,
		Strategy: strategy,
	}, nil
}
