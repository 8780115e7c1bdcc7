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

//go:generate mockgen -destination=mock_fetcher.go -package=nodes github.com/carverauto/nodeview/pkg/nodes Fetcher

// Package nodes retrieves the monitored node list from the telemetry backend.
package nodes

import (
	"context"

	"github.com/carverauto/nodeview/pkg/models"
)

// Fetcher performs one retrieval of the node list. Every call yields either
// the nodes in the order the backend sent them or a *FetchError.
type Fetcher interface {
	FetchNodes(ctx context.Context) ([]models.Node, error)
}
