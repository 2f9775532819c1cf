// Package pipeline orchestrates a full run: it spawns the shard workers,
// wires the input iterator through the router, drains on end-of-input,
// and collects every shard's reported snapshots into the output sink.
package pipeline

import (
	"context"
	"errors"
	"io"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/luxfi/paybatch/internal/log"
	"github.com/luxfi/paybatch/internal/metrics"
	"github.com/luxfi/paybatch/internal/model"
	"github.com/luxfi/paybatch/internal/router"
	"github.com/luxfi/paybatch/internal/shard"
)

// defaultChannelCapacity bounds memory when one shard is slower than the
// producer.
const defaultChannelCapacity = 4096

// OperationSource is the input iterator the core depends on. Next
// returns io.EOF once the stream is exhausted, or any other error for a
// record-level or I/O-level failure.
type OperationSource interface {
	Next() (model.Operation, error)
}

// SnapshotSink is the output sink the core depends on. Shards report
// concurrently, but the Pipeline serializes their calls to WriteSnapshot,
// so an implementation need not be goroutine-safe itself.
type SnapshotSink interface {
	WriteSnapshot(model.AccountSnapshot) error
}

// Config configures one run.
type Config struct {
	// Shards is the number of ShardEngine workers. Values < 1 are
	// clamped to 1.
	Shards int
	// ChannelCapacity bounds each shard's delivery channel. Zero selects
	// defaultChannelCapacity.
	ChannelCapacity int
	// SkipMalformed, when true, logs and skips a record-level error from
	// the source instead of aborting the run.
	SkipMalformed bool
	// Metrics, if non-nil, receives run counters and per-shard gauges.
	Metrics *metrics.Run
}

// Run drives src to completion, routing every parsed operation to its
// client's shard, then flushes every shard's account snapshots to sink.
// It returns the first stream-level error encountered (a malformed
// record when SkipMalformed is false, or a sink write failure); the
// account state machine itself never fails.
func Run(ctx context.Context, src OperationSource, sink SnapshotSink, cfg Config) error {
	numShards := cfg.Shards
	if numShards < 1 {
		numShards = 1
	}
	capacity := cfg.ChannelCapacity
	if capacity <= 0 {
		capacity = defaultChannelCapacity
	}

	chans := make([]chan model.Operation, numShards)
	sendOnly := make([]chan<- model.Operation, numShards)
	for i := range chans {
		chans[i] = make(chan model.Operation, capacity)
		sendOnly[i] = chans[i]
	}

	engines := make([]*shard.Engine, numShards)
	for i := range engines {
		engines[i] = shard.New(i, chans[i], cfg.Metrics)
	}

	runGroup, _ := errgroup.WithContext(ctx)
	for _, eng := range engines {
		eng := eng
		runGroup.Go(func() error {
			eng.Run()
			return nil
		})
	}

	rtr := router.New(sendOnly)
	streamErr := drive(src, rtr, cfg)

	for _, ch := range chans {
		close(ch)
	}
	// Run never returns an error itself; Wait only waits for drain.
	_ = runGroup.Wait()

	if streamErr != nil {
		return streamErr
	}

	var mu sync.Mutex
	reportGroup, _ := errgroup.WithContext(ctx)
	for _, eng := range engines {
		eng := eng
		reportGroup.Go(func() error {
			return eng.Report(func(snap model.AccountSnapshot) error {
				mu.Lock()
				defer mu.Unlock()
				return sink.WriteSnapshot(snap)
			})
		})
	}
	return reportGroup.Wait()
}

// drive pulls operations from src until end-of-input or a stream-level
// error, forwarding each to the router. Per Config.SkipMalformed, a
// non-EOF error either aborts the run or is logged and skipped.
func drive(src OperationSource, rtr *router.Router, cfg Config) error {
	for {
		op, err := src.Next()
		switch {
		case errors.Is(err, io.EOF):
			return nil
		case err != nil:
			if cfg.Metrics != nil {
				cfg.Metrics.OpSkipped()
			}
			if cfg.SkipMalformed {
				log.Warn("pipeline: skipping malformed record", "err", err)
				continue
			}
			log.Error("pipeline: aborting on malformed record", "err", err)
			return err
		default:
			rtr.Route(op)
		}
	}
}
