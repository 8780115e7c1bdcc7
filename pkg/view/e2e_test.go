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

package view_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/nodeview/pkg/logger"
	"github.com/carverauto/nodeview/pkg/models"
	"github.com/carverauto/nodeview/pkg/nodes"
	"github.com/carverauto/nodeview/pkg/view"
)

func settle(t *testing.T, c *view.Controller) view.State {
	t.Helper()

	select {
	case <-c.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("controller did not settle")
	}

	return c.State()
}

func startAgainst(t *testing.T, cfg nodes.HTTPClientConfig) *view.Controller {
	t.Helper()

	cfg.Logger = logger.NewTestLogger()

	fetcher, err := nodes.NewHTTPFetcher(cfg)
	require.NoError(t, err)

	c := view.NewController(fetcher, logger.NewTestLogger())
	t.Cleanup(c.Close)

	c.Start(context.Background())

	return c
}

func TestEndToEndKitchenSensor(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != models.DefaultNodesPath {
			http.NotFound(w, r)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"n1","name":"Kitchen Sensor","last_seen":"2024-01-01T00:00:00Z"}]`))
	}))
	t.Cleanup(srv.Close)

	state := settle(t, startAgainst(t, nodes.HTTPClientConfig{BaseURL: srv.URL}))

	require.Equal(t, view.PhaseLoaded, state.Phase)
	assert.Equal(t, []models.Node{{ID: "n1", Name: "Kitchen Sensor", LastSeen: "2024-01-01T00:00:00Z"}}, state.Nodes)

	panel := view.Projector{Location: time.UTC}.Project(state)
	require.Equal(t, view.PanelList, panel.Kind)
	require.Len(t, panel.Items, 1)
	assert.Equal(t, "Kitchen Sensor (n1)", panel.Items[0].Label)
	assert.Equal(t, "1/1/2024, 12:00:00 AM", panel.Items[0].LastSeen)

	local := view.Project(state)
	want := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).In(time.Local).Format(models.DefaultTimeLayout)
	assert.Equal(t, want, local.Items[0].LastSeen)
}

func TestEndToEndUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	state := settle(t, startAgainst(t, nodes.HTTPClientConfig{BaseURL: base}))

	require.Equal(t, view.PhaseError, state.Phase)
	assert.Contains(t, state.Message, "transport: ")

	panel := view.Project(state)
	assert.Equal(t, view.PanelError, panel.Kind)
	assert.Empty(t, panel.Items)
	assert.NotEqual(t, view.EmptyMessage, panel.Text())
}

func TestEndToEndTimeout(t *testing.T) {
	release := make(chan struct{})

	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		srv.Close()
	})

	state := settle(t, startAgainst(t, nodes.HTTPClientConfig{BaseURL: srv.URL, Timeout: 50 * time.Millisecond}))

	require.Equal(t, view.PhaseError, state.Phase)
	assert.Contains(t, state.Message, "transport: ")
}

func TestEndToEndStatusAndDecode(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		prefix string
	}{
		{name: "not found", status: http.StatusNotFound, prefix: "http-status: 404"},
		{name: "server error", status: http.StatusInternalServerError, prefix: "http-status: 500"},
		{name: "unavailable", status: http.StatusServiceUnavailable, prefix: "http-status: 503"},
		{name: "missing id", status: http.StatusOK, body: `[{"name":"x","last_seen":"2024-01-01T00:00:00Z"}]`, prefix: "decode: "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			t.Cleanup(srv.Close)

			state := settle(t, startAgainst(t, nodes.HTTPClientConfig{BaseURL: srv.URL}))

			require.Equal(t, view.PhaseError, state.Phase)
			assert.NotEmpty(t, state.Message)
			assert.Contains(t, state.Message, tt.prefix)
		})
	}
}
