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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetricsQueryValidate(t *testing.T) {
	early := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	late := early.Add(time.Hour)

	tests := []struct {
		name  string
		query MetricsQuery
		want  error
	}{
		{name: "node only", query: MetricsQuery{NodeID: "n1"}},
		{name: "range", query: MetricsQuery{NodeID: "n1", From: &early, To: &late}},
		{name: "same instant", query: MetricsQuery{NodeID: "n1", From: &early, To: &early}},
		{name: "missing node", query: MetricsQuery{Metric: "cpu.temp_c"}, want: ErrNodeIDRequired},
		{name: "inverted", query: MetricsQuery{NodeID: "n1", From: &late, To: &early}, want: ErrInvertedRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.query.Validate(), tt.want)
		})
	}
}

func TestMetricsQueryEffectiveLimit(t *testing.T) {
	tests := map[int]int{
		-5:    DefaultMetricsLimit,
		0:     DefaultMetricsLimit,
		1:     1,
		500:   500,
		10000: MaxMetricsLimit,
		50000: MaxMetricsLimit,
	}

	for in, want := range tests {
		q := MetricsQuery{NodeID: "n1", Limit: in}
		assert.Equal(t, want, q.EffectiveLimit(), "limit %d", in)
	}
}
