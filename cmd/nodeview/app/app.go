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
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/carverauto/nodeview/pkg/config"
	"github.com/carverauto/nodeview/pkg/dashboard"
	"github.com/carverauto/nodeview/pkg/lifecycle"
	"github.com/carverauto/nodeview/pkg/logger"
	"github.com/carverauto/nodeview/pkg/models"
	"github.com/carverauto/nodeview/pkg/nodes"
	"github.com/carverauto/nodeview/pkg/version"
	"github.com/carverauto/nodeview/pkg/view"
)

const serviceName = "nodeview"

// Exit codes reported by Run.
const (
	ExitOK    = 0
	ExitError = 1
)

// Options contains runtime configuration derived from CLI flags.
type Options struct {
	ConfigPath string
	// ConfigRequired makes a missing ConfigPath an error.
	ConfigRequired bool
	BaseURL        string
	Timeout        *time.Duration
	Plain          bool
	Stdout         io.Writer
	// Interactive reports whether Stdout is a terminal.
	Interactive func() bool
}

// Run loads configuration, fetches the node list once and presents it.
// In plain mode the exit code is ExitError when the fetch failed.
func Run(ctx context.Context, opts Options) (int, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}

	interactive := !opts.Plain && opts.Interactive != nil && opts.Interactive()

	cfg, err := loadConfig(ctx, opts)
	if err != nil {
		return ExitError, err
	}

	logCfg := loggingConfig(cfg.Logging, interactive)

	mainLogger, err := lifecycle.CreateComponentLogger(ctx, "nodeview-main", logCfg)
	if err != nil {
		return ExitError, err
	}

	defer func() { _ = mainLogger.Close() }()

	tp, ctxWithTrace, rootSpan, err := logger.InitializeTracing(ctx, logger.TracingConfig{
		ServiceName:    serviceName,
		ServiceVersion: version.GetVersion(),
		Logger:         mainLogger,
		OTel:           &logCfg.OTel,
	})
	if err != nil {
		return ExitError, err
	}

	ctx = ctxWithTrace

	defer func() {
		rootSpan.End()

		if err := tp.Shutdown(context.Background()); err != nil {
			mainLogger.Error().Err(err).Msg("Error shutting down tracer provider")
		}
	}()

	if _, err := logger.InitializeMetrics(ctx, logger.MetricsConfig{
		ServiceName:    serviceName,
		ServiceVersion: version.GetVersion(),
		OTel:           &logCfg.OTel,
	}); err != nil && !errors.Is(err, logger.ErrOTelMetricsDisabled) {
		return ExitError, err
	}

	defer func() {
		if err := lifecycle.ShutdownLogger(); err != nil {
			mainLogger.Error().Err(err).Msg("Error shutting down logger")
		}
	}()

	fetcher, err := nodes.NewHTTPFetcher(nodes.HTTPClientConfig{
		BaseURL: cfg.BaseURL,
		Path:    cfg.NodesPath,
		Timeout: time.Duration(cfg.Timeout),
		Logger:  mainLogger,
	})
	if err != nil {
		return ExitError, err
	}

	mainLogger.Info().
		Str("endpoint", fetcher.Endpoint()).
		Bool("interactive", interactive).
		Msg("Starting node view")

	ctrl := view.NewController(fetcher, mainLogger)
	defer ctrl.Close()

	projector := view.Projector{Layout: cfg.TimeLayout}

	if !interactive {
		return runPlain(ctx, ctrl, projector, cfg.Title, opts.Stdout)
	}

	model := dashboard.New(ctx, ctrl, dashboard.Options{Title: cfg.Title, Projector: projector})

	program := tea.NewProgram(model, tea.WithContext(ctx), tea.WithOutput(opts.Stdout))
	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return ExitError, fmt.Errorf("dashboard: %w", err)
	}

	return ExitOK, nil
}

func loadConfig(ctx context.Context, opts Options) (*models.DashboardConfig, error) {
	var cfg models.DashboardConfig

	path := opts.ConfigPath
	if path != "" && !opts.ConfigRequired {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			path = ""
		}
	}

	if err := config.NewConfig(nil).Load(ctx, path, &cfg); err != nil {
		return nil, err
	}

	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = models.DefaultBaseURL
	}

	if opts.Timeout != nil {
		cfg.Timeout = models.Duration(*opts.Timeout)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid dashboard config: %w", err)
	}

	return &cfg, nil
}

// loggingConfig keeps log lines off the terminal the dashboard draws on.
func loggingConfig(cfg *logger.Config, interactive bool) *logger.Config {
	out := logger.DefaultConfig()
	if cfg != nil {
		c := *cfg
		out = &c
	} else if os.Getenv("LOG_OUTPUT") == "" {
		out.Output = logger.OutputStderr
	}

	if interactive {
		switch out.Output {
		case "", logger.OutputStdout, logger.OutputStderr:
			out.Output = logger.OutputDiscard
		}
	}

	return out
}

func runPlain(ctx context.Context, ctrl *view.Controller, p view.Projector, title string, w io.Writer) (int, error) {
	ctrl.Start(ctx)

	select {
	case <-ctrl.Done():
	case <-ctx.Done():
		return ExitError, ctx.Err()
	}

	state := ctrl.State()

	if _, err := fmt.Fprintf(w, "%s\nNodes\n\n%s\n", title, p.Project(state).Text()); err != nil {
		return ExitError, err
	}

	if state.Phase == view.PhaseError {
		return ExitError, nil
	}

	return ExitOK, nil
}
