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

// Package api provides the HTTP API serving the node listing.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	nvHttp "github.com/carverauto/nodeview/pkg/http"
	"github.com/carverauto/nodeview/pkg/logger"
	"github.com/carverauto/nodeview/pkg/models"
	"github.com/carverauto/nodeview/pkg/swagger"
)

const (
	defaultReadTimeout       = 10 * time.Second
	defaultReadHeaderTimeout = 5 * time.Second
	defaultWriteTimeout      = 10 * time.Second
	defaultIdleTimeout       = 60 * time.Second
	defaultShutdownTimeout   = 10 * time.Second
)

var (
	errNoNodeLister = errors.New("api server requires a node lister")
	errInvalidTime  = errors.New("invalid RFC 3339 time")
	errInvalidLimit = errors.New("limit must be an integer")
)

// APIServer routes the nodes API.
type APIServer struct {
	router      *mux.Router
	nodes       NodeLister
	metrics     MetricsQuerier
	corsOrigins []string
	logger      logger.Logger
}

// NewAPIServer creates a new API server instance.
func NewAPIServer(options ...func(server *APIServer)) (*APIServer, error) {
	s := &APIServer{
		router: mux.NewRouter(),
		logger: logger.NewTestLogger(),
	}

	for _, o := range options {
		o(s)
	}

	if s.nodes == nil {
		return nil, errNoNodeLister
	}

	s.setupRoutes()

	return s, nil
}

// WithNodeLister sets the source of the node listing.
func WithNodeLister(l NodeLister) func(*APIServer) {
	return func(s *APIServer) {
		s.nodes = l
	}
}

// WithMetricsQuerier enables GET /api/v1/metrics.
func WithMetricsQuerier(q MetricsQuerier) func(*APIServer) {
	return func(s *APIServer) {
		s.metrics = q
	}
}

// WithCORSOrigins restricts browser origins. Empty allows any.
func WithCORSOrigins(origins []string) func(*APIServer) {
	return func(s *APIServer) {
		s.corsOrigins = origins
	}
}

// WithLogger sets the server logger.
func WithLogger(log logger.Logger) func(*APIServer) {
	return func(s *APIServer) {
		if log != nil {
			s.logger = log
		}
	}
}

func (s *APIServer) setupRoutes() {
	s.router.Use(
		nvHttp.RequestIDMiddleware,
		nvHttp.LoggingMiddleware(s.logger),
		nvHttp.CORSMiddleware(s.corsOrigins),
	)

	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet, http.MethodOptions)
	s.router.HandleFunc("/swagger/doc.json", swagger.Handler()).Methods(http.MethodGet, http.MethodOptions)

	v1 := s.router.PathPrefix("/api/v1").Subrouter()
	v1.HandleFunc("/nodes", s.handleNodes).Methods(http.MethodGet, http.MethodOptions)

	if s.metrics != nil {
		v1.HandleFunc("/metrics", s.handleMetrics).Methods(http.MethodGet, http.MethodOptions)
	}
}

// Handler exposes the router, middleware included.
func (s *APIServer) Handler() http.Handler {
	return s.router
}

// Start serves on addr until ctx is canceled, then shuts down gracefully.
func (s *APIServer) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadTimeout:       defaultReadTimeout,
		ReadHeaderTimeout: defaultReadHeaderTimeout,
		WriteTimeout:      defaultWriteTimeout,
		IdleTimeout:       defaultIdleTimeout,
	}

	errCh := make(chan error, 1)

	go func() {
		s.logger.Info().Str("addr", addr).Msg("nodes api listening")

		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return fmt.Errorf("nodes api: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), defaultShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("nodes api shutdown: %w", err)
	}

	s.logger.Info().Msg("nodes api stopped")

	return nil
}

func (*APIServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *APIServer) handleNodes(w http.ResponseWriter, r *http.Request) {
	list, err := s.nodes.ListNodes(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list nodes")
		writeError(w, http.StatusInternalServerError, "failed to list nodes")

		return
	}

	if list == nil {
		list = []models.Node{}
	}

	s.writeJSONResponse(w, http.StatusOK, list)
}

type metricsResponse struct {
	Series []models.MetricRow `json:"series"`
}

func (s *APIServer) handleMetrics(w http.ResponseWriter, r *http.Request) {
	q, err := parseMetricsQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())

		return
	}

	rows, err := s.metrics.QueryMetrics(r.Context(), q)
	if err != nil {
		s.logger.Error().Err(err).Str("node_id", q.NodeID).Msg("failed to query metrics")
		writeError(w, http.StatusInternalServerError, "failed to query metrics")

		return
	}

	if rows == nil {
		rows = []models.MetricRow{}
	}

	s.writeJSONResponse(w, http.StatusOK, metricsResponse{Series: rows})
}

// parseMetricsQuery reads node_id, metric, from, to (RFC 3339) and limit.
func parseMetricsQuery(v url.Values) (models.MetricsQuery, error) {
	q := models.MetricsQuery{
		NodeID: v.Get("node_id"),
		Metric: v.Get("metric"),
	}

	var err error

	if q.From, err = parseInstant(v.Get("from")); err != nil {
		return models.MetricsQuery{}, fmt.Errorf("%w: from", errInvalidTime)
	}

	if q.To, err = parseInstant(v.Get("to")); err != nil {
		return models.MetricsQuery{}, fmt.Errorf("%w: to", errInvalidTime)
	}

	if raw := v.Get("limit"); raw != "" {
		if q.Limit, err = strconv.Atoi(raw); err != nil {
			return models.MetricsQuery{}, errInvalidLimit
		}
	}

	if err := q.Validate(); err != nil {
		return models.MetricsQuery{}, err
	}

	return q, nil
}

func parseInstant(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}

	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}

	ts = ts.UTC()

	return &ts, nil
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: msg})
}

// writeJSONResponse marshals data fully before any header is written.
func (s *APIServer) writeJSONResponse(w http.ResponseWriter, status int, data interface{}) {
	body, err := json.Marshal(data)
	if err != nil {
		s.logger.Error().Err(err).Msg("error encoding response")
		writeError(w, http.StatusInternalServerError, "internal server error")

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
