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

package models

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/carverauto/nodeview/pkg/logger"
)

const (
	DefaultNodesPath  = "/api/v1/nodes"
	DefaultTimeLayout = "1/2/2006, 3:04:05 PM"
	DefaultTitle      = "Home Telemetry"
	DefaultListenAddr = ":8080"
	DefaultBaseURL    = "http://localhost:8080"
)

var (
	errInvalidDuration     = fmt.Errorf("invalid duration")
	errBaseURLRequired     = fmt.Errorf("base_url is required")
	errInvalidBaseURL      = fmt.Errorf("base_url must be an absolute http(s) url")
	errNegativeTimeout     = fmt.Errorf("timeout must not be negative")
	errDatabaseRequired    = fmt.Errorf("database configuration is required")
	errDatabaseHostMissing = fmt.Errorf("database host is required")
	errDatabaseNameMissing = fmt.Errorf("database name is required")
)

// Duration is a time.Duration that reads either a Go duration string or a
// number of nanoseconds from JSON.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		// parse numeric as nanoseconds
		*d = Duration(time.Duration(value))
		return nil
	case string:
		dur, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("%w: %w", errInvalidDuration, err)
		}

		*d = Duration(dur)

		return nil
	default:
		return errInvalidDuration
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// DashboardConfig configures the node dashboard client.
type DashboardConfig struct {
	BaseURL    string         `json:"base_url"`
	NodesPath  string         `json:"nodes_path"`
	Timeout    Duration       `json:"timeout"` // zero leaves the request unbounded
	TimeLayout string         `json:"time_layout"`
	Title      string         `json:"title"`
	Logging    *logger.Config `json:"logging"`
}

// Validate fills defaults and rejects unusable endpoint settings.
func (c *DashboardConfig) Validate() error {
	if strings.TrimSpace(c.BaseURL) == "" {
		return errBaseURLRequired
	}

	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", errInvalidBaseURL, c.BaseURL)
	}

	if c.Timeout < 0 {
		return errNegativeTimeout
	}

	if c.NodesPath == "" {
		c.NodesPath = DefaultNodesPath
	}

	if c.TimeLayout == "" {
		c.TimeLayout = DefaultTimeLayout
	}

	if c.Title == "" {
		c.Title = DefaultTitle
	}

	return nil
}

// DatabaseConfig describes the Postgres cluster holding the nodes table.
type DatabaseConfig struct {
	Host              string            `json:"host"`
	Port              int               `json:"port,omitempty"`
	Database          string            `json:"database"`
	Username          string            `json:"username,omitempty"`
	Password          string            `json:"password,omitempty" sensitive:"true"`
	SSLMode           string            `json:"ssl_mode,omitempty"`
	ApplicationName   string            `json:"application_name,omitempty"`
	MaxConnections    int32             `json:"max_connections,omitempty"`
	MinConnections    int32             `json:"min_connections,omitempty"`
	MaxConnLifetime   Duration          `json:"max_conn_lifetime,omitempty"`
	HealthCheckPeriod Duration          `json:"health_check_period,omitempty"`
	RuntimeParams     map[string]string `json:"runtime_params,omitempty"`
}

// APIServerConfig configures the nodes API server.
type APIServerConfig struct {
	ListenAddr  string          `json:"listen_addr"`
	CORSOrigins []string        `json:"cors_origins"`
	Database    *DatabaseConfig `json:"database"`
	Logging     *logger.Config  `json:"logging"`
}

func (c *APIServerConfig) Validate() error {
	if c.ListenAddr == "" {
		c.ListenAddr = DefaultListenAddr
	}

	if c.Database == nil {
		return errDatabaseRequired
	}

	if c.Database.Host == "" {
		return errDatabaseHostMissing
	}

	if c.Database.Database == "" {
		return errDatabaseNameMissing
	}

	return nil
}
