// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package metrics

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	gethmetrics "github.com/luxfi/geth/metrics"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// Gatherer implements [prometheus.Gatherer] by converting every metric in
// a Registry to a Prometheus metric family. The conversion depends only on
// the metric kind, not on what domain registered it; counters, gauges and
// float64 gauges are supported, and any other kind (meter, timer,
// histogram) makes Gather return an error.
type Gatherer struct {
	registry Registry
}

var _ prometheus.Gatherer = (*Gatherer)(nil)

// NewGatherer returns a Gatherer reading from registry.
func NewGatherer(registry Registry) *Gatherer {
	return &Gatherer{registry: registry}
}

var (
	errMetricSkip             = errors.New("metric skipped")
	errMetricTypeNotSupported = errors.New("metric type is not supported")
)

func ptrTo[T any](x T) *T { return &x }

// Gather implements prometheus.Gatherer.
func (g *Gatherer) Gather() ([]*dto.MetricFamily, error) {
	var names []string
	g.registry.Each(func(name string, _ any) {
		names = append(names, name)
	})
	sort.Strings(names)

	mfs := make([]*dto.MetricFamily, 0, len(names))
	for _, name := range names {
		mf, err := metricFamily(g.registry, name)
		switch {
		case errors.Is(err, errMetricSkip):
			continue
		case err != nil:
			return nil, err
		}
		mfs = append(mfs, mf)
	}
	return mfs, nil
}

func metricFamily(registry Registry, name string) (*dto.MetricFamily, error) {
	metric := registry.Get(name)
	name = strings.ReplaceAll(name, "/", "_")

	if metric == nil {
		return nil, fmt.Errorf("%w: %q metric is nil", errMetricSkip, name)
	}

	switch m := metric.(type) {
	case *gethmetrics.Counter:
		snapshot := m.Snapshot()
		return &dto.MetricFamily{
			Name: &name,
			Type: dto.MetricType_COUNTER.Enum(),
			Metric: []*dto.Metric{{
				Counter: &dto.Counter{Value: ptrTo(float64(snapshot.Count()))},
			}},
		}, nil

	case *gethmetrics.Gauge:
		return &dto.MetricFamily{
			Name: &name,
			Type: dto.MetricType_GAUGE.Enum(),
			Metric: []*dto.Metric{{
				Gauge: &dto.Gauge{Value: ptrTo(float64(m.Snapshot().Value()))},
			}},
		}, nil

	case *gethmetrics.GaugeFloat64:
		return &dto.MetricFamily{
			Name: &name,
			Type: dto.MetricType_GAUGE.Enum(),
			Metric: []*dto.Metric{{
				Gauge: &dto.Gauge{Value: ptrTo(m.Snapshot().Value())},
			}},
		}, nil

	default:
		return nil, fmt.Errorf("%w: metric %q type %T", errMetricTypeNotSupported, name, metric)
	}
}
