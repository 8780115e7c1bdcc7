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

// Package api pkg/api/interfaces.go
package api

import (
	"context"

	"github.com/carverauto/nodeview/pkg/models"
)

//go:generate mockgen -destination=mock_node_lister.go -package=api github.com/carverauto/nodeview/pkg/api NodeLister
//go:generate mockgen -destination=mock_metrics_querier.go -package=api github.com/carverauto/nodeview/pkg/api MetricsQuerier

// NodeLister supplies the node listing served by the API.
type NodeLister interface {
	ListNodes(ctx context.Context) ([]models.Node, error)
}

// MetricsQuerier supplies metric samples for one node.
type MetricsQuerier interface {
	QueryMetrics(ctx context.Context, q models.MetricsQuery) ([]models.MetricRow, error)
}
