// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// paybatch replays a comma-separated stream of deposit, withdrawal, and
// dispute-lifecycle operations against per-client accounts and prints
// the final account state per client touched.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/prometheus/common/expfmt"
	"github.com/urfave/cli/v2"

	"github.com/luxfi/paybatch/internal/config"
	paylog "github.com/luxfi/paybatch/internal/log"
	paymetrics "github.com/luxfi/paybatch/internal/metrics"
	"github.com/luxfi/paybatch/internal/pipeline"
	"github.com/luxfi/paybatch/internal/record"
)

const clientIdentifier = "paybatch"

var app = &cli.App{
	Name:      clientIdentifier,
	Usage:     "batch payment engine — replay transaction and dispute records into final account state",
	Version:   "1.0.0",
	ArgsUsage: "<input-file>",
}

func init() {
	app.Action = run
	app.Flags = flagsFromFlagSet()
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// flagsFromFlagSet mirrors internal/config's pflag.FlagSet as urfave/cli
// flags, so --help and usage text stay in sync with what config.BuildConfig
// actually resolves.
func flagsFromFlagSet() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{Name: config.ShardsKey, Value: 0, Usage: "number of shard workers (0 = detected host parallelism)"},
		&cli.StringFlag{Name: config.LogLevelKey, Value: "info", Usage: "log level: debug, info, warn, error"},
		&cli.StringFlag{Name: config.LogFileKey, Usage: "write logs to this rotated file instead of stderr"},
		&cli.BoolFlag{Name: config.SkipMalformedKey, Usage: "skip malformed input records instead of aborting the run"},
		&cli.StringFlag{Name: config.MetricsFileKey, Usage: "write a Prometheus text-format dump of run metrics to this path"},
	}
}

func run(cctx *cli.Context) error {
	if cctx.NArg() != 1 {
		return cli.Exit("paybatch: expected exactly one argument, the input file path", 1)
	}
	inputPath := cctx.Args().Get(0)

	fs := config.BuildFlagSet()
	v, err := config.BuildViper(fs, os.Args[1:])
	if err != nil {
		return cli.Exit(fmt.Sprintf("paybatch: parsing flags: %v", err), 1)
	}
	cfg, err := config.BuildConfig(v)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	level, err := paylog.LevelFromString(cfg.LogLevelValue)
	if err != nil {
		return cli.Exit(fmt.Sprintf("paybatch: %v", err), 1)
	}
	if cfg.LogFile != "" {
		paylog.SetDefault(paylog.NewFile(cfg.LogFile, level))
	} else {
		paylog.SetDefault(paylog.New(level))
	}

	in, err := os.Open(inputPath)
	if err != nil {
		return cli.Exit(fmt.Sprintf("paybatch: %v", err), 1)
	}
	defer in.Close()

	reader, err := record.NewReader(in)
	if err != nil {
		return cli.Exit(fmt.Sprintf("paybatch: %v", err), 1)
	}
	writer, err := record.NewWriter(os.Stdout)
	if err != nil {
		return cli.Exit(fmt.Sprintf("paybatch: %v", err), 1)
	}

	runMetrics := paymetrics.NewRun(cfg.Shards)
	pipelineCfg := pipeline.Config{
		Shards:        cfg.Shards,
		SkipMalformed: cfg.SkipMalformed,
		Metrics:       runMetrics,
	}

	paylog.Info("paybatch: starting run", "input", inputPath, "shards", cfg.Shards)
	if err := pipeline.Run(context.Background(), reader, writer, pipelineCfg); err != nil {
		return cli.Exit(fmt.Sprintf("paybatch: %v", err), 1)
	}
	if err := writer.Flush(); err != nil {
		return cli.Exit(fmt.Sprintf("paybatch: flushing output: %v", err), 1)
	}

	if cfg.MetricsFile != "" {
		if err := dumpMetrics(runMetrics, cfg.MetricsFile); err != nil {
			paylog.Warn("paybatch: could not write metrics file", "err", err)
		}
	}
	paylog.Info("paybatch: run complete")
	return nil
}

func dumpMetrics(run *paymetrics.Run, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	gatherer := paymetrics.NewGatherer(run.Registry())
	families, err := gatherer.Gather()
	if err != nil {
		return err
	}
	enc := expfmt.NewEncoder(f, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}
