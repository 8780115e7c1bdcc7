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

package app

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/nodeview/pkg/logger"
)

func quietEnv(t *testing.T) {
	t.Helper()

	t.Setenv("CONFIG_SOURCE", "")
	t.Setenv("LOG_OUTPUT", logger.OutputDiscard)
	t.Setenv("OTEL_TRACES_ENABLED", "false")
}

func nodesServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	return srv
}

func TestRunPlainOutcomes(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantCode int
		wantOut  []string
	}{
		{
			name:     "nodes",
			status:   http.StatusOK,
			body:     `[{"id":"n1","name":"Kitchen Sensor","last_seen":"2024-01-01T00:00:00Z"}]`,
			wantCode: ExitOK,
			wantOut:  []string{"Home Telemetry\nNodes\n\n", "Kitchen Sensor (n1)\n  Last seen: "},
		},
		{
			name:     "empty",
			status:   http.StatusOK,
			body:     `[]`,
			wantCode: ExitOK,
			wantOut:  []string{"No nodes yet."},
		},
		{
			name:     "server error",
			status:   http.StatusInternalServerError,
			wantCode: ExitError,
			wantOut:  []string{"Error: http-status: 500"},
		},
		{
			name:     "not an array",
			status:   http.StatusOK,
			body:     `{"nodes":[]}`,
			wantCode: ExitError,
			wantOut:  []string{"Error: decode: "},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quietEnv(t)

			srv := nodesServer(t, tt.status, tt.body)

			var out bytes.Buffer

			code, err := Run(context.Background(), Options{BaseURL: srv.URL, Plain: true, Stdout: &out})
			require.NoError(t, err)
			assert.Equal(t, tt.wantCode, code)

			for _, want := range tt.wantOut {
				assert.Contains(t, out.String(), want)
			}
		})
	}
}

func TestRunNonInteractiveFallsBackToPlain(t *testing.T) {
	quietEnv(t)

	srv := nodesServer(t, http.StatusOK, `[]`)

	var out bytes.Buffer

	code, err := Run(context.Background(), Options{
		BaseURL:     srv.URL,
		Stdout:      &out,
		Interactive: func() bool { return false },
	})
	require.NoError(t, err)
	assert.Equal(t, ExitOK, code)
	assert.Contains(t, out.String(), "No nodes yet.")
}

func TestRunTimeout(t *testing.T) {
	quietEnv(t)

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

	timeout := 50 * time.Millisecond

	var out bytes.Buffer

	code, err := Run(context.Background(), Options{BaseURL: srv.URL, Timeout: &timeout, Plain: true, Stdout: &out})
	require.NoError(t, err)
	assert.Equal(t, ExitError, code)
	assert.Contains(t, out.String(), "Error: transport: ")
}

func TestRunConfigFile(t *testing.T) {
	quietEnv(t)

	srv := nodesServer(t, http.StatusOK, `[{"id":"n1","name":"Porch","last_seen":"2024-01-01T00:00:00Z"}]`)

	path := filepath.Join(t.TempDir(), "dashboard.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"base_url": "`+srv.URL+`",
		"title": "Lab Telemetry",
		"time_layout": "2006-01-02",
		"logging": {"output": "discard"}
	}`), 0o600))

	var out bytes.Buffer

	code, err := Run(context.Background(), Options{ConfigPath: path, ConfigRequired: true, Plain: true, Stdout: &out})
	require.NoError(t, err)
	assert.Equal(t, ExitOK, code)
	assert.Contains(t, out.String(), "Lab Telemetry\nNodes")
	assert.Contains(t, out.String(), "Porch (n1)")
}

func TestRunMissingConfig(t *testing.T) {
	quietEnv(t)

	srv := nodesServer(t, http.StatusOK, `[]`)
	missing := filepath.Join(t.TempDir(), "absent.json")

	var out bytes.Buffer

	code, err := Run(context.Background(), Options{ConfigPath: missing, BaseURL: srv.URL, Plain: true, Stdout: &out})
	require.NoError(t, err, "an absent default config file is not an error")
	assert.Equal(t, ExitOK, code)

	code, err = Run(context.Background(), Options{ConfigPath: missing, ConfigRequired: true, BaseURL: srv.URL, Plain: true, Stdout: &out})
	require.Error(t, err)
	assert.Equal(t, ExitError, code)
}

func TestRunInvalidBaseURL(t *testing.T) {
	quietEnv(t)

	code, err := Run(context.Background(), Options{BaseURL: "not a url", Plain: true, Stdout: &bytes.Buffer{}})
	require.Error(t, err)
	assert.Equal(t, ExitError, code)
}

func TestRunCanceledBeforeSettle(t *testing.T) {
	quietEnv(t)

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

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancel)

	code, err := Run(ctx, Options{BaseURL: srv.URL, Plain: true, Stdout: &bytes.Buffer{}})
	assert.Equal(t, ExitError, code)

	// Either the fetch settles first with a transport error or the wait is
	// interrupted; both are failures.
	if err != nil {
		require.ErrorIs(t, err, context.Canceled)
	}
}

func TestLoggingConfig(t *testing.T) {
	t.Setenv("LOG_OUTPUT", "")

	tests := []struct {
		name        string
		cfg         *logger.Config
		interactive bool
		want        string
	}{
		{name: "plain default", cfg: nil, interactive: false, want: logger.OutputStderr},
		{name: "interactive default", cfg: nil, interactive: true, want: logger.OutputDiscard},
		{name: "interactive stdout", cfg: &logger.Config{Output: logger.OutputStdout}, interactive: true, want: logger.OutputDiscard},
		{name: "interactive file", cfg: &logger.Config{Output: "/tmp/nodeview.log"}, interactive: true, want: "/tmp/nodeview.log"},
		{name: "plain stdout kept", cfg: &logger.Config{Output: logger.OutputStdout}, interactive: false, want: logger.OutputStdout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, loggingConfig(tt.cfg, tt.interactive).Output)
		})
	}
}

func TestLoggingConfigDoesNotMutateInput(t *testing.T) {
	cfg := &logger.Config{Output: logger.OutputStdout}

	_ = loggingConfig(cfg, true)

	assert.Equal(t, logger.OutputStdout, cfg.Output)
}
