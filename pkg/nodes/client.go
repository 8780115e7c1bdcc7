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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/carverauto/nodeview/pkg/logger"
	"github.com/carverauto/nodeview/pkg/models"
	"github.com/carverauto/nodeview/pkg/version"
)

const (
	defaultNodesPath = models.DefaultNodesPath
	tracerName       = "github.com/carverauto/nodeview/pkg/nodes"
	requestIDHeader  = "X-Request-ID"
)

// HTTPClientConfig controls how the node fetcher talks to the backend.
type HTTPClientConfig struct {
	BaseURL string
	Path    string
	Timeout time.Duration // zero leaves the request unbounded
	HTTP    *http.Client
	Logger  logger.Logger
	// MeterProvider defaults to the global provider.
	MeterProvider metric.MeterProvider
}

// HTTPFetcher issues GET <BaseURL><Path> and decodes the JSON node array.
type HTTPFetcher struct {
	endpoint string
	client   *http.Client
	logger   logger.Logger
	tracer   trace.Tracer
	metrics  *fetchMetrics
}

var _ Fetcher = (*HTTPFetcher)(nil)

// NewHTTPFetcher constructs a Fetcher backed by HTTP.
func NewHTTPFetcher(cfg HTTPClientConfig) (*HTTPFetcher, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errBaseURLRequired
	}

	parsed, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid nodes base url: %w", err)
	}

	p := cfg.Path
	if strings.TrimSpace(p) == "" {
		p = defaultNodesPath
	}

	parsed.Path = path.Join("/", parsed.Path, p)

	httpClient := cfg.HTTP
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	log := cfg.Logger
	if log == nil {
		log = logger.NewTestLogger()
	}

	metrics, err := newFetchMetrics(cfg.MeterProvider)
	if err != nil {
		return nil, err
	}

	return &HTTPFetcher{
		endpoint: parsed.String(),
		client:   httpClient,
		logger:   log,
		tracer:   otel.Tracer(tracerName),
		metrics:  metrics,
	}, nil
}

// Endpoint returns the absolute URL the fetcher requests.
func (f *HTTPFetcher) Endpoint() string {
	return f.endpoint
}

// FetchNodes performs exactly one GET and never retries.
func (f *HTTPFetcher) FetchNodes(ctx context.Context) ([]models.Node, error) {
	requestID := uuid.NewString()

	ctx, span := f.tracer.Start(ctx, "nodes.FetchNodes",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", http.MethodGet),
			attribute.String("url.full", f.endpoint),
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()

	start := time.Now()

	result, err := f.fetch(ctx, requestID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		reason, _ := ReasonOf(err)
		f.metrics.record(ctx, string(reason), time.Since(start))

		f.logger.Warn().
			Str("request_id", requestID).
			Str("endpoint", f.endpoint).
			Str("reason", string(reason)).
			Dur("elapsed", time.Since(start)).
			Err(err).
			Msg("Node fetch failed")

		return nil, err
	}

	span.SetAttributes(attribute.Int("nodes.count", len(result)))
	f.metrics.record(ctx, outcomeOK, time.Since(start))

	f.logger.Debug().
		Str("request_id", requestID).
		Str("endpoint", f.endpoint).
		Int("node_count", len(result)).
		Dur("elapsed", time.Since(start)).
		Msg("Fetched nodes")

	return result, nil
}

func (f *HTTPFetcher) fetch(ctx context.Context, requestID string) ([]models.Node, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.endpoint, http.NoBody)
	if err != nil {
		return nil, &FetchError{Reason: ReasonTransport, Detail: err.Error(), Err: err}
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, requestID)
	req.Header.Set("User-Agent", version.UserAgent())
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{Reason: ReasonTransport, Detail: err.Error(), Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	trace.SpanFromContext(ctx).SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 2048))

		return nil, &FetchError{
			Reason:     ReasonHTTPStatus,
			Detail:     strconv.Itoa(resp.StatusCode),
			StatusCode: resp.StatusCode,
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Reason: ReasonTransport, Detail: err.Error(), Err: err}
	}

	return DecodeNodes(body)
}

// DecodeNodes parses a JSON array of nodes and checks collection invariants.
// An empty array yields an empty, non-nil slice.
func DecodeNodes(body []byte) ([]models.Node, error) {
	trimmed := bytes.TrimSpace(body)

	switch {
	case len(trimmed) == 0:
		return nil, &FetchError{Reason: ReasonDecode, Detail: errEmptyBody.Error(), Err: errEmptyBody}
	case trimmed[0] != '[':
		return nil, &FetchError{Reason: ReasonDecode, Detail: errNotAnArray.Error(), Err: errNotAnArray}
	}

	result := make([]models.Node, 0)

	if err := json.Unmarshal(trimmed, &result); err != nil {
		return nil, &FetchError{Reason: ReasonDecode, Detail: err.Error(), Err: err}
	}

	if err := models.ValidateNodes(result); err != nil {
		return nil, &FetchError{Reason: ReasonDecode, Detail: err.Error(), Err: err}
	}

	return result, nil
}
