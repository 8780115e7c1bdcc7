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

package lifecycle

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/carverauto/nodeview/pkg/logger"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateComponentLoggerWritesComponentField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "component.log")

	log, err := CreateComponentLogger(context.Background(), "dashboard", &logger.Config{Level: "debug", Output: path})
	require.NoError(t, err)

	log.Info().Msg("started")
	require.NoError(t, log.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"component":"dashboard"`)
	assert.Contains(t, string(data), `"message":"started"`)
}

func TestNewLoggerImplLevels(t *testing.T) {
	log, err := NewLoggerImpl(context.Background(), &logger.Config{Level: "warn", Output: logger.OutputDiscard})
	require.NoError(t, err)
	assert.Equal(t, zerolog.WarnLevel, log.logger.GetLevel())

	log.SetDebug(true)
	assert.Equal(t, zerolog.DebugLevel, log.logger.GetLevel())

	require.NoError(t, log.Close())
}

func TestNewLoggerImplBadLevel(t *testing.T) {
	_, err := NewLoggerImpl(context.Background(), &logger.Config{Level: "nope", Output: logger.OutputDiscard})
	require.Error(t, err)
}

func TestNewLoggerImplOTelLogsNeedEndpoint(t *testing.T) {
	log, err := NewLoggerImpl(context.Background(), &logger.Config{
		Output: logger.OutputDiscard,
		OTel:   logger.OTelConfig{Enabled: true, Logs: true},
	})
	require.NoError(t, err, "without an endpoint log export stays off")
	require.NoError(t, log.Close())
}

func TestShutdownLoggerWithoutPipelines(t *testing.T) {
	require.NoError(t, ShutdownLogger())
}
