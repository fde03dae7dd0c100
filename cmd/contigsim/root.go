package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/vkngwrapper/contigsim/sim"
)

var (
	// Global flags
	configPath  string
	memorySize  string
	logLevel    string
	jsonStats   bool
	metricsAddr string
	synchronize bool
)

var rootCmd = &cobra.Command{
	Use:   "contigsim",
	Short: "Simulate contiguous memory allocation",
	Long: `contigsim simulates a contiguous address space shared by processes. Commands
are read from standard input:

  RQ <ProcessId> <Bytes> <F|B|W>   request memory with first, best or worst fit
  RL <ProcessId>                   release every region held by a process
  C                                compact allocations toward address 0
  STAT                             print the address space
  X                                exit

Example:
  contigsim
  contigsim --memory 4M --json
  contigsim --config contigsim.yaml`,
	Version:      "0.1.0",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSimulator(cmd)
	},
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to a YAML config file")
	rootCmd.Flags().StringVarP(&memorySize, "memory", "m", "", "Address space size, e.g. 4M (megabytes if no unit)")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, or error")
	rootCmd.Flags().BoolVar(&jsonStats, "json", false, "Print STAT output as JSON")
	rootCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve prometheus metrics at this address")
	rootCmd.Flags().BoolVar(&synchronize, "synchronized", false, "Guard the simulator with a mutex")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runSimulator(cmd *cobra.Command) error {
	config := defaultConfig()
	if configPath != "" {
		loaded, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		config = loaded
	}
	config.applyFlags(cmd)

	logger, err := config.newLogger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	totalSize, err := config.memoryBytes()
	if err != nil {
		return err
	}

	var options sim.CreateOptions
	if !config.Synchronized {
		options.Flags |= sim.SimulatorCreateExternallySynchronized
	}

	if config.MetricsAddr != "" {
		registry := prometheus.NewRegistry()
		options.Registerer = registry
		serveMetrics(config.MetricsAddr, registry, cmd)
	}

	repl := &session{
		in:        cmd.InOrStdin(),
		out:       cmd.OutOrStdout(),
		logger:    logger,
		options:   options,
		jsonStats: config.JSONStats,
	}
	return repl.run(totalSize)
}

func serveMetrics(addr string, registry *prometheus.Registry, cmd *cobra.Command) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	go func() {
		err := http.ListenAndServe(addr, mux)
		if err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), errors.Wrapf(err, "metrics endpoint %s", addr))
		}
	}()
}
