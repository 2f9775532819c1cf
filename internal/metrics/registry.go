// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package metrics exposes per-run counters and gauges for the payment
// pipeline (operations applied, malformed records skipped, per-shard
// queue depth, accounts touched), registered against a
// github.com/luxfi/geth/metrics registry and exportable as Prometheus
// metric families through Gatherer.
package metrics

import "github.com/luxfi/geth/metrics"

// Registry is the minimal surface Gatherer needs from a metrics
// registry: enumerate registered metrics and fetch one by name.
// github.com/luxfi/geth/metrics.Registry satisfies this.
type Registry interface {
	Each(func(string, any))
	Get(string) any
}

var _ Registry = metrics.Registry(nil)
