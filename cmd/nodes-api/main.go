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

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/carverauto/nodeview/pkg/api"
	"github.com/carverauto/nodeview/pkg/config"
	"github.com/carverauto/nodeview/pkg/lifecycle"
	"github.com/carverauto/nodeview/pkg/logger"
	"github.com/carverauto/nodeview/pkg/models"
	"github.com/carverauto/nodeview/pkg/store"
	"github.com/carverauto/nodeview/pkg/version"
)

const serviceName = "nodes-api"

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	configPath := flag.String("config", "/etc/nodeview/nodes-api.json", "Path to nodes API config file")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Banner(serviceName))

		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(ctx, *configPath)
	if err != nil {
		return err
	}

	logCfg := cfg.Logging
	if logCfg == nil {
		logCfg = logger.DefaultConfig()
	}

	mainLogger, err := lifecycle.CreateComponentLogger(ctx, "nodes-api-main", logCfg)
	if err != nil {
		return err
	}

	defer func() { _ = mainLogger.Close() }()

	tp, ctxWithTrace, rootSpan, err := logger.InitializeTracing(ctx, logger.TracingConfig{
		ServiceName:    serviceName,
		ServiceVersion: version.GetVersion(),
		Logger:         mainLogger,
		OTel:           &logCfg.OTel,
	})
	if err != nil {
		return err
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
		return err
	}

	defer func() {
		if err := lifecycle.ShutdownLogger(); err != nil {
			mainLogger.Error().Err(err).Msg("Error shutting down logger")
		}
	}()

	if redacted, err := config.Redact(cfg); err == nil {
		mainLogger.Debug().RawJSON("config", redacted).Msg("Loaded configuration")
	}

	pool, err := store.NewPool(ctx, cfg.Database, mainLogger)
	if err != nil {
		return err
	}
	defer pool.Close()

	nodeStore, err := store.New(pool, mainLogger)
	if err != nil {
		return err
	}

	server, err := api.NewAPIServer(
		api.WithNodeLister(nodeStore),
		api.WithMetricsQuerier(nodeStore),
		api.WithCORSOrigins(cfg.CORSOrigins),
		api.WithLogger(mainLogger),
	)
	if err != nil {
		return err
	}

	return server.Start(ctx, cfg.ListenAddr)
}

func loadConfig(ctx context.Context, path string) (*models.APIServerConfig, error) {
	var cfg models.APIServerConfig

	if err := config.NewConfig(nil).LoadAndValidate(ctx, path, &cfg); err != nil {
		return nil, fmt.Errorf("nodes api config: %w", err)
	}

	return &cfg, nil
}
