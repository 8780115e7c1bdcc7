/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */


package nodes

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	meterName           = "github.com/carverauto/nodeview/pkg/nodes"
	fetchCountMetric    = "nodeview.fetch.count"
	fetchDurationMetric = "nodeview.fetch.duration"
	outcomeAttribute    = "outcome"
	outcomeOK           = "ok"
)

type fetchMetrics struct {
	count    metric.Int64Counter
	duration metric.Float64Histogram
}

func newFetchMetrics(provider metric.MeterProvider) (*fetchMetrics, error) {
	if provider == nil {
		provider = otel.GetMeterProvider()
	}

	meter := provider.Meter(meterName)

	count, err := meter.Int64Counter(fetchCountMetric,
		metric.WithDescription("Node fetches by outcome"),
		metric.WithUnit("{fetch}"))
	if err != nil {
		return nil, fmt.Errorf("create fetch counter: %w", err)
	}

	duration, err := meter.Float64Histogram(fetchDurationMetric,
		metric.WithDescription("Node fetch latency"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, fmt.Errorf("create fetch histogram: %w", err)
	}

	return &fetchMetrics{count: count, duration: duration}, nil
}

// record notes one fetch; outcome is "ok" or the failure reason.
func (m *fetchMetrics) record(ctx context.Context, outcome string, elapsed time.Duration) {
	attrs := metric.WithAttributes(attribute.String(outcomeAttribute, outcome))

	m.count.Add(ctx, 1, attrs)
	m.duration.Record(ctx, elapsed.Seconds(), attrs)
}
