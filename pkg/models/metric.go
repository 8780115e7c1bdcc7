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
	"errors"
	"time"
)

const (
	DefaultMetricsLimit = 1000
	MaxMetricsLimit     = 10000
)

var (
	ErrNodeIDRequired = errors.New("node_id is required")
	ErrInvertedRange  = errors.New("from is after to")
)

// MetricRow is one sample of a node metric.
type MetricRow struct {
	Time   time.Time         `json:"time"`
	Metric string            `json:"metric"`
	Value  float64           `json:"value"`
	Labels map[string]string `json:"labels,omitempty"`
}

// MetricsQuery selects samples for one node. From and To are inclusive.
type MetricsQuery struct {
	NodeID string
	Metric string
	From   *time.Time
	To     *time.Time
	Limit  int
}

func (q *MetricsQuery) Validate() error {
	if q.NodeID == "" {
		return ErrNodeIDRequired
	}

	if q.From != nil && q.To != nil && q.From.After(*q.To) {
		return ErrInvertedRange
	}

	return nil
}

// EffectiveLimit clamps Limit to (0, MaxMetricsLimit]; zero or negative
// selects DefaultMetricsLimit.
func (q *MetricsQuery) EffectiveLimit() int {
	switch {
	case q.Limit <= 0:
		return DefaultMetricsLimit
	case q.Limit > MaxMetricsLimit:
		return MaxMetricsLimit
	default:
		return q.Limit
	}
}
