package sim

import (
	"io"
	"log/slog"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/vkngwrapper/contigsim/internal/utils"
	"github.com/vkngwrapper/contigsim/memutils/defrag"
	"github.com/vkngwrapper/contigsim/memutils/metadata"
)

// CreateFlags indicate specific simulator behaviors to activate or deactivate
type CreateFlags int32

const (
	// SimulatorCreateExternallySynchronized ensures that the simulator will not be synchronized
	// internally. The consumer must guarantee it is used from only one goroutine at a time or is
	// synchronized by some other mechanism.
	SimulatorCreateExternallySynchronized CreateFlags = 1 << iota
)

var createFlagsMapping = map[CreateFlags]string{
	SimulatorCreateExternallySynchronized: "SimulatorCreateExternallySynchronized",
}

func (f CreateFlags) String() string {
	var names []string
	for flag := SimulatorCreateExternallySynchronized; flag <= f && flag != 0; flag <<= 1 {
		if f&flag != 0 {
			names = append(names, createFlagsMapping[flag])
		}
	}

	return strings.Join(names, "|")
}

// CreateOptions contains optional settings when creating a simulator
type CreateOptions struct {
	// Flags indicates specific simulator behaviors to activate or deactivate
	Flags CreateFlags
	// Registerer receives the simulator's prometheus collectors. When nil, the collectors are
	// still maintained but are not registered anywhere.
	Registerer prometheus.Registerer
}

// New creates a Simulator over an address space of totalSize bytes. logger may be nil, in which
// case nothing is logged. It returns memutils.InvalidSizeError if totalSize is not positive.
func New(logger *slog.Logger, totalSize int, options CreateOptions) (*Simulator, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	space, err := metadata.NewAddressSpace(totalSize)
	if err != nil {
		return nil, err
	}

	simulator := &Simulator{
		logger:  logger,
		mutex:   utils.OptionalRWMutex{UseMutex: options.Flags&SimulatorCreateExternallySynchronized == 0},
		space:   space,
		metrics: newMetrics(options.Registerer),
	}
	simulator.compaction = defrag.CompactionContext{Target: space}
	simulator.metrics.observe(space)

	logger.Debug("Simulator::New",
		slog.Int("TotalSize", totalSize),
		slog.String("Flags", options.Flags.String()),
	)

	return simulator, nil
}
