// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/anonymoushlmnop/matrix-discovery/analysis"
	"github.com/anonymoushlmnop/matrix-discovery/config"
	"github.com/anonymoushlmnop/matrix-discovery/dependency"
	"github.com/anonymoushlmnop/matrix-discovery/eventlog"
	"github.com/anonymoushlmnop/matrix-discovery/eventlog/ingest"
	"github.com/anonymoushlmnop/matrix-discovery/logger"
	"github.com/anonymoushlmnop/matrix-discovery/logger/console"
)

// Output formats accepted by --output.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// app is the state shared by all subcommands of one invocation.
type app struct {
	configPath string
	envFiles   []string
	debug      bool
	logJSON    bool

	cfg      config.Config
	pipeline *ingest.Pipeline
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:          "depmatrix",
		Short:        "Discover temporal and existential dependencies in event logs",
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}
	pf := root.PersistentFlags()
	pf.StringVarP(&a.configPath, "config", "c", "", "YAML configuration file")
	pf.StringSliceVar(&a.envFiles, "env-file", nil, "dotenv files to load (default .env)")
	pf.BoolVar(&a.debug, "debug", false, "enable debug logging")
	pf.BoolVar(&a.logJSON, "log-json", false, "log as JSON lines")

	root.AddCommand(
		newDiscoverCmd(a),
		newEvaluateCmd(a),
		newConvertCmd(a),
		newGenerateCmd(a),
		newStatsCmd(a),
		newServeCmd(a),
		newMCPCmd(a),
	)

	return root
}

// setup loads .env, the config file and the environment, then installs the
// console logger. Flags win over every other source.
func (a *app) setup(cmd *cobra.Command) error {
	config.LoadEnv(a.envFiles...)
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("debug") {
		cfg.Log.Debug = a.debug
	}
	if cmd.Flags().Changed("log-json") {
		cfg.Log.JSON = a.logJSON
	}
	a.cfg = cfg
	a.pipeline = ingest.DefaultPipeline(cfg.Ingest.PipelineOptions()...)
	logger.Init(console.New(console.Params{
		Debug:  cfg.Log.Debug,
		JSON:   cfg.Log.JSON,
		Output: cmd.ErrOrStderr(),
		Prefix: cmd.Name(),
	}))

	return nil
}

// discoveryFlags are the per-command overrides of the discovery config.
type discoveryFlags struct {
	temporal    float64
	existential float64
	granularity string
	workers     int
}

func (f *discoveryFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.Float64VarP(&f.temporal, "temporal", "t", 1.0, "temporal threshold in [0,1]")
	fs.Float64VarP(&f.existential, "existential", "e", 1.0, "existential threshold in [0,1]")
	fs.StringVarP(&f.granularity, "granularity", "g", "first", "temporal granularity: first or every")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel rows (0 = all CPUs)")
}

// params merges changed flags over the loaded configuration.
func (f *discoveryFlags) params(cmd *cobra.Command, cfg config.Discovery) (analysis.Params, error) {
	fs := cmd.Flags()
	if fs.Changed("temporal") {
		cfg.TemporalThreshold = f.temporal
	}
	if fs.Changed("existential") {
		cfg.ExistentialThreshold = f.existential
	}
	if fs.Changed("granularity") {
		if _, err := dependency.ParseGranularity(f.granularity); err != nil {
			return analysis.Params{}, err
		}
		cfg.Granularity = f.granularity
	}
	if fs.Changed("workers") {
		if f.workers < 0 {
			return analysis.Params{}, fmt.Errorf("--workers must be >= 0, got %d", f.workers)
		}
		cfg.Workers = f.workers
	}

	return analysis.ParamsFromConfig(cfg)
}

// readLogs loads and concatenates every input file.
func (a *app) readLogs(cmd *cobra.Command, paths []string) (*eventlog.Log, error) {
	l, err := a.pipeline.ReadFiles(cmd.Context(), 0, paths...)
	if err != nil {
		return nil, err
	}
	logger.Debug("logs loaded", "files", len(paths), "traces", l.Len(), "events", l.EventCount())

	return l, nil
}

// openOutput returns stdout for "" and "-", otherwise the created file.
// The returned close func must be called once writing is done.
func openOutput(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}

	return f, f.Close, nil
}

func writeYAML(w io.Writer, v any) error {
	out, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	_, err = w.Write(out)

	return err
}

func checkFormat(format string) error {
	switch format {
	case formatText, formatJSON, formatYAML:
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want text, json or yaml)", format)
	}
}
