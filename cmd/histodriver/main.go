package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/hepworks/histodriver/cmd/histodriver/commands"
	"github.com/hepworks/histodriver/config"
	"github.com/hepworks/histodriver/dispatch"
	"github.com/hepworks/histodriver/errors"
	"github.com/hepworks/histodriver/logger"
)

var rootCmd = &cobra.Command{
	Use:   "histodriver",
	Short: "Dispatch the analysis executable across all configured samples",
	Long: `histodriver runs the external analysis executable once per sample,
spreading invocations across a bounded worker pool and collecting their
outputs under one directory.

Each sample becomes one invocation:
  RunSimpleAnalyzer -I <sample> -D <outdir>

The sample list, analyzer command, and pool size come from histodriver.toml
(or --config), overridable per flag. The analyzer's exit status is recorded
per job and summarized at the end of the run; use --strict to turn any
failed job into a non-zero exit.

Examples:
  histodriver                            # all samples, 4 workers, ./myhistos
  histodriver -o histos2016 -n 8         # custom output dir, 8 workers
  histodriver --samples QCD,ST --dry-run # show commands without running
  histodriver samples                    # print the effective sample list`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		jsonOutput, _ := cmd.Flags().GetBool("json")
		verbosity, _ := cmd.Flags().GetCount("verbose")
		if err := logger.Initialize(jsonOutput, verbosity); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	RunE: runDispatch,
}

func runDispatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("outdir") {
		cfg.OutDir, _ = flags.GetString("outdir")
	}
	if flags.Changed("npool") {
		cfg.Workers, _ = flags.GetInt("npool")
	}
	if flags.Changed("analyzer") {
		cfg.Analyzer, _ = flags.GetString("analyzer")
	}
	if flags.Changed("samples") {
		cfg.Samples, _ = flags.GetStringSlice("samples")
	}
	if flags.Changed("strict") {
		cfg.Strict, _ = flags.GetBool("strict")
	}
	if flags.Changed("rate") {
		cfg.Rate, _ = flags.GetFloat64("rate")
	}

	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}

	invoker, err := dispatch.NewExecInvoker(cfg.Analyzer, logger.Logger)
	if err != nil {
		return err
	}

	jobs := dispatch.BuildJobs(cfg.Samples, cfg.OutDir)

	if dryRun, _ := flags.GetBool("dry-run"); dryRun {
		for _, job := range jobs {
			pterm.Printf("%s\n", strings.Join(invoker.Command(job), " "))
		}
		return nil
	}

	if err := dispatch.EnsureOutputDir(cfg.OutDir); err != nil {
		return err
	}

	// Interrupt cancels the run: running analyzers are killed, queued
	// jobs are never started
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			logger.Logger.Warnw("Interrupt received, cancelling run")
			cancel()
		case <-ctx.Done():
		}
	}()

	pool := dispatch.NewPool(invoker, dispatch.PoolConfig{
		Workers: cfg.Workers,
		Rate:    cfg.Rate,
	}, logger.Logger)

	reporter := dispatch.NewReporter()
	reporter.Start(len(jobs), cfg.Workers)

	results := pool.Run(ctx, jobs)

	reporter.Finish(results)

	if failed := dispatch.Failures(results); cfg.Strict && len(failed) > 0 {
		return errors.Newf("%d of %d jobs failed", len(failed), len(results))
	}
	return nil
}

// loadConfig resolves the run configuration, honoring --config when given.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Config file path (default: histodriver.toml found upward from cwd)")
	rootCmd.PersistentFlags().Bool("json", false, "JSON log output")
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase log verbosity")

	rootCmd.Flags().StringP("outdir", "o", "myhistos", "Output directory to store the files")
	rootCmd.Flags().IntP("npool", "n", 4, "Number of analyzer processes to run concurrently")
	rootCmd.Flags().String("analyzer", "./RunSimpleAnalyzer", "Analyzer command line")
	rootCmd.Flags().StringSlice("samples", nil, "Sample names to dispatch (default: configured list)")
	rootCmd.Flags().Bool("dry-run", false, "Print the commands without executing them")
	rootCmd.Flags().Bool("strict", false, "Exit non-zero if any analyzer invocation failed")
	rootCmd.Flags().Float64("rate", 0, "Max job launches per second (0 = unlimited)")

	rootCmd.AddCommand(commands.SamplesCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
