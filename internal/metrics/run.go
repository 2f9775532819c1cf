// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package metrics

import (
	"fmt"

	gethmetrics "github.com/luxfi/geth/metrics"
)

// Run holds the counters and gauges for a single pipeline invocation,
// registered against a fresh github.com/luxfi/geth/metrics registry so a
// caller can scrape it (via Gatherer) without interfering with any other
// concurrently running instance of the engine.
type Run struct {
	registry gethmetrics.Registry

	opsApplied      *gethmetrics.Counter
	opsSkipped      *gethmetrics.Counter
	accountsTouched *gethmetrics.Gauge
	shardDepth      []*gethmetrics.Gauge
}

// NewRun creates a Run with per-shard queue-depth gauges for numShards
// shards.
func NewRun(numShards int) *Run {
	reg := gethmetrics.NewRegistry()
	r := &Run{
		registry:        reg,
		opsApplied:      gethmetrics.NewRegisteredCounter("paybatch/ops_applied", reg),
		opsSkipped:      gethmetrics.NewRegisteredCounter("paybatch/ops_skipped", reg),
		accountsTouched: gethmetrics.NewRegisteredGauge("paybatch/accounts_touched", reg),
		shardDepth:      make([]*gethmetrics.Gauge, numShards),
	}
	for i := 0; i < numShards; i++ {
		name := fmt.Sprintf("paybatch/shard/%d/queue_depth", i)
		r.shardDepth[i] = gethmetrics.NewRegisteredGauge(name, reg)
	}
	return r
}

// Registry returns the underlying registry, for wiring into a Gatherer.
func (r *Run) Registry() gethmetrics.Registry { return r.registry }

// OpApplied records one operation successfully dispatched to an account.
func (r *Run) OpApplied() { r.opsApplied.Inc(1) }

// OpSkipped records one malformed record rejected by the reader.
func (r *Run) OpSkipped() { r.opsSkipped.Inc(1) }

// AddAccountsTouched adds n to the count of distinct accounts reported.
func (r *Run) AddAccountsTouched(n int64) { r.accountsTouched.Inc(n) }

// SetShardQueueDepth records shard i's channel occupancy at sample time.
func (r *Run) SetShardQueueDepth(i int, depth int64) {
	if i < 0 || i >= len(r.shardDepth) {
		return
	}
	r.shardDepth[i].Update(depth)
}
