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

// Package store reads nodes and metric samples from Postgres.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/carverauto/nodeview/pkg/logger"
	"github.com/carverauto/nodeview/pkg/models"
)

const listNodesSQL = `SELECT id, name, last_seen, meta FROM nodes ORDER BY name`

// Querier is the subset of pgxpool.Pool the store needs.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type rowScanner interface {
	Scan(dest ...any) error
}

// Store serves node listings.
type Store struct {
	db     Querier
	logger logger.Logger
}

// New wraps db.
func New(db Querier, log logger.Logger) (*Store, error) {
	if db == nil {
		return nil, errNilQuerier
	}

	if log == nil {
		log = logger.NewTestLogger()
	}

	return &Store{db: db, logger: log}, nil
}

// ListNodes returns every node ordered by name. An empty table yields an
// empty, non-nil slice.
func (s *Store) ListNodes(ctx context.Context) ([]models.Node, error) {
	rows, err := s.db.Query(ctx, listNodesSQL)
	if err != nil {
		return nil, fmt.Errorf("store: list nodes: %w", err)
	}
	defer rows.Close()

	out := make([]models.Node, 0)

	for rows.Next() {
		n, err := scanNode(rows)
		if err != nil {
			return nil, fmt.Errorf("store: scan node: %w", err)
		}

		out = append(out, n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate nodes: %w", err)
	}

	s.logger.Debug().Int("count", len(out)).Msg("listed nodes")

	return out, nil
}

func scanNode(row rowScanner) (models.Node, error) {
	var (
		n        models.Node
		lastSeen time.Time
		meta     []byte
	)

	if err := row.Scan(&n.ID, &n.Name, &lastSeen, &meta); err != nil {
		return models.Node{}, err
	}

	n.LastSeen = lastSeen.UTC().Format(time.RFC3339)
	n.Meta = decodeMeta(meta)

	return n, nil
}

// decodeMeta returns nil for empty, null or non-string-valued meta.
func decodeMeta(raw []byte) map[string]string {
	if len(raw) == 0 {
		return nil
	}

	var meta map[string]string
	if err := json.Unmarshal(raw, &meta); err != nil || len(meta) == 0 {
		return nil
	}

	return meta
}
