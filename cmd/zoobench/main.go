// Command zoobench benchmarks znode create/read throughput against a
// ZooKeeper-compatible cluster.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"zoobench/internal/collector"
	"zoobench/internal/config"
	"zoobench/internal/coordinator"
	"zoobench/internal/core"
	"zoobench/internal/partition"
	"zoobench/internal/payload"
	"zoobench/internal/progress"
	"zoobench/internal/ratelimit"
	"zoobench/internal/session"
	"zoobench/internal/worker"
)

const (
	ExitSuccess         = 0
	ExitThresholdFailed = 1
	ExitError           = 2
)

var errThresholdFailed = errors.New("threshold check failed")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if errors.Is(err, errThresholdFailed) {
			os.Exit(ExitThresholdFailed)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(ExitError)
	}
	os.Exit(ExitSuccess)
}

type options struct {
	configPath string
	timeout    int
	iteration  int
	threads    int
	nodeSize   string
	ephemeral  bool
	prefix     string
	rps        int
	skipReads  bool
	digest     string
	output     string
	quiet      bool
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "zoobench [flags] hosts",
		Short: "Load-generation benchmark for ZooKeeper-compatible tree stores",
		Long: `zoobench creates a configurable number of znodes across a pool of
concurrent workers through one shared session, optionally reads them all
back, and reports throughput and latency for each pass.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.output != "text" && opts.output != "json" {
				return fmt.Errorf("--output must be 'text' or 'json', got %q", opts.output)
			}
			cfg, err := buildConfig(cmd, args, opts)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.configPath, "config", "",
		"Path to YAML run configuration")
	flags.IntVarP(&opts.timeout, "timeout", "t", 10,
		"Connection timeout in seconds")
	flags.IntVarP(&opts.iteration, "iteration", "n", 1000,
		"Number of total znodes")
	flags.IntVarP(&opts.threads, "threads", "j", 8,
		"Number of worker threads")
	flags.StringVarP(&opts.nodeSize, "node-size", "s", "128K",
		"ZNode value size in bytes (accepts K/M/G suffixes)")
	flags.BoolVarP(&opts.ephemeral, "ephemeral", "e", false,
		"Create ephemeral znodes")
	flags.StringVarP(&opts.prefix, "prefix", "p", "/zoobench",
		"Test prefix")
	flags.IntVar(&opts.rps, "rps", 0,
		"Cap on operations per second (0 = uncapped)")
	flags.BoolVar(&opts.skipReads, "skip-reads", false,
		"Skip the read (QPS) pass")
	flags.StringVar(&opts.digest, "digest", "",
		"Digest auth credentials (user:password)")
	flags.StringVar(&opts.output, "output", "text",
		"Output format: text, json")
	flags.BoolVar(&opts.quiet, "quiet", false,
		"Suppress progress output during the run")
	flags.BoolVar(&opts.verbose, "verbose", false,
		"Enable debug logging")
	return cmd
}

// buildConfig merges the optional YAML run configuration with the CLI flags.
// Flags set explicitly override the file; without a file the flag values
// cover the whole surface.
func buildConfig(cmd *cobra.Command, args []string, opts *options) (*config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	set := func(name string) bool {
		return opts.configPath == "" || cmd.Flags().Changed(name)
	}
	if set("timeout") {
		cfg.TimeoutSeconds = opts.timeout
	}
	if set("iteration") {
		cfg.Iterations = opts.iteration
	}
	if set("threads") {
		cfg.Threads = opts.threads
	}
	if set("node-size") {
		n, err := config.ParseSize(opts.nodeSize)
		if err != nil {
			return nil, err
		}
		cfg.NodeSize = config.Size(n)
	}
	if set("ephemeral") {
		cfg.Ephemeral = opts.ephemeral
	}
	if set("prefix") {
		cfg.Prefix = opts.prefix
	}
	if set("rps") {
		cfg.RPS = opts.rps
	}
	if set("skip-reads") {
		cfg.SkipReads = opts.skipReads
	}
	if set("digest") {
		cfg.Digest = opts.digest
	}
	if len(args) == 1 {
		cfg.Hosts = args[0]
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	zcfg := zap.NewProductionConfig()
	zcfg.DisableCaller = true
	zcfg.DisableStacktrace = true
	return zcfg.Build()
}

func run(ctx context.Context, cfg *config.Config, opts *options) error {
	logger, err := newLogger(opts.verbose)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Warn("interrupt received, shutting down")
		cancel()
	}()

	logger.Info("connecting",
		zap.String("hosts", cfg.Hosts),
		zap.Duration("timeout", cfg.Timeout()))
	sess, err := session.Dial(cfg.Hosts, cfg.Timeout(), logger)
	if err != nil {
		// Fatal: without a session there are no statistics to report.
		return err
	}
	defer sess.Close()

	if cfg.Digest != "" {
		if err := sess.AddDigestAuth(cfg.Digest); err != nil {
			return fmt.Errorf("digest auth: %w", err)
		}
	}

	logger.Info("preparing", zap.String("prefix", cfg.Prefix))
	if err := sess.Prepare(cfg.Prefix); err != nil {
		return err
	}

	data := payload.Generate(int(cfg.NodeSize))
	slices := partition.Split(cfg.Iterations, cfg.Threads)
	var limiter *ratelimit.Limiter
	if cfg.RPS > 0 {
		limiter = ratelimit.New(cfg.RPS)
	}

	logger.Info("running create pass",
		zap.Int("iterations", cfg.Iterations),
		zap.Int("threads", cfg.Threads),
		zap.Int64("nodeSize", int64(cfg.NodeSize)),
		zap.Bool("ephemeral", cfg.Ephemeral))
	createStats := runPass(ctx, core.OpCreate, cfg, sess, data, slices, limiter, opts.quiet)
	logger.Info("create pass complete",
		zap.Float64("tps", createStats.Throughput),
		zap.Int("failed", createStats.Failed))
	passes := []*collector.Stats{createStats}

	if !cfg.SkipReads && ctx.Err() == nil {
		logger.Info("running read pass")
		readStats := runPass(ctx, core.OpRead, cfg, sess, nil, slices, limiter, opts.quiet)
		logger.Info("read pass complete",
			zap.Float64("qps", readStats.Throughput),
			zap.Int("failed", readStats.Failed))
		passes = append(passes, readStats)
	}

	var thresholdResults *collector.ThresholdResults
	if cfg.Thresholds != nil {
		thresholdResults = cfg.Thresholds.Check(passes)
	}

	if opts.output == "json" {
		collector.FormatJSON(os.Stdout, passes, thresholdResults)
	} else {
		collector.FormatText(os.Stdout, passes, thresholdResults)
	}

	if thresholdResults != nil && !thresholdResults.Passed {
		if opts.output == "text" {
			fmt.Fprintln(os.Stderr, "\nThreshold check failed!")
		}
		return errThresholdFailed
	}
	return nil
}

// runPass executes one benchmark pass: partitioned workers fan out over the
// shared session, join, and the collector finalizes only after the join.
func runPass(ctx context.Context, op core.Op, cfg *config.Config, sess core.Session, data []byte, slices []partition.Slice, limiter *ratelimit.Limiter, quiet bool) *collector.Stats {
	coll := collector.NewCollector()
	prog := progress.New(coll, string(op), cfg.Iterations, quiet)

	workers := make([]*worker.Worker, len(slices))
	for i, s := range slices {
		workers[i] = &worker.Worker{
			Slice:     s,
			Session:   sess,
			Payload:   data,
			Prefix:    cfg.Prefix,
			Ephemeral: cfg.Ephemeral,
			Limiter:   limiter,
		}
	}

	coord := coordinator.New(coll)
	prog.Start()
	wall := coord.Run(ctx, op, workers)
	prog.Stop()
	coll.Close()
	return coll.Compute(op, wall)
}
