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
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/carverauto/nodeview/pkg/logger"
)

func newMeteredFetcher(t *testing.T, handler http.HandlerFunc) (*HTTPFetcher, *sdkmetric.ManualReader) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	f, err := NewHTTPFetcher(HTTPClientConfig{
		BaseURL:       srv.URL,
		Logger:        logger.NewTestLogger(),
		MeterProvider: provider,
	})
	require.NoError(t, err)

	return f, reader
}

// fetchCounts collects the fetch counter keyed by outcome.
func fetchCounts(t *testing.T, reader *sdkmetric.ManualReader) (map[string]int64, uint64) {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	counts := make(map[string]int64)

	var observations uint64

	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				if m.Name != fetchCountMetric {
					continue
				}

				for _, dp := range data.DataPoints {
					outcome, _ := dp.Attributes.Value(outcomeAttribute)
					counts[outcome.AsString()] += dp.Value
				}
			case metricdata.Histogram[float64]:
				if m.Name != fetchDurationMetric {
					continue
				}

				for _, dp := range data.DataPoints {
					observations += dp.Count
				}
			}
		}
	}

	return counts, observations
}

func TestFetchMetricsByOutcome(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		outcome string
	}{
		{name: "ok", handler: respondWith(http.StatusOK, `[]`), outcome: outcomeOK},
		{name: "status", handler: respondWith(http.StatusServiceUnavailable, ``), outcome: string(ReasonHTTPStatus)},
		{name: "decode", handler: respondWith(http.StatusOK, `{}`), outcome: string(ReasonDecode)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, reader := newMeteredFetcher(t, tt.handler)

			_, _ = f.FetchNodes(context.Background())

			counts, observations := fetchCounts(t, reader)
			assert.Equal(t, map[string]int64{tt.outcome: 1}, counts)
			assert.Equal(t, uint64(1), observations)
		})
	}
}

func TestFetchMetricsTransport(t *testing.T) {
	srv := httptest.NewServer(respondWith(http.StatusOK, `[]`))
	srv.Close()

	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	f, err := NewHTTPFetcher(HTTPClientConfig{BaseURL: srv.URL, MeterProvider: provider})
	require.NoError(t, err)

	_, err = f.FetchNodes(context.Background())
	require.Error(t, err)

	counts, _ := fetchCounts(t, reader)
	assert.Equal(t, map[string]int64{string(ReasonTransport): 1}, counts)
}
