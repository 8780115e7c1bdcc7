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


package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/carverauto/nodeview/pkg/models"
)

// buildMetricsQuery renders the metrics SELECT and its positional args.
func buildMetricsQuery(q *models.MetricsQuery) (string, []any) {
	args := []any{q.NodeID}
	clauses := []string{"node_id = $1"}

	if q.Metric != "" {
		args = append(args, q.Metric)
		clauses = append(clauses, fmt.Sprintf("metric = $%d", len(args)))
	}

	if q.From != nil {
		args = append(args, q.From.UTC())
		clauses = append(clauses, fmt.Sprintf("time >= $%d", len(args)))
	}

	if q.To != nil {
		args = append(args, q.To.UTC())
		clauses = append(clauses, fmt.Sprintf("time <= $%d", len(args)))
	}

	args = append(args, q.EffectiveLimit())

	sql := "SELECT time, metric, value, labels FROM metrics WHERE " +
		strings.Join(clauses, " AND ") +
		fmt.Sprintf(" ORDER BY time ASC LIMIT $%d", len(args))

	return sql, args
}

// QueryMetrics returns the samples matching q in time order. No match yields
// an empty, non-nil slice.
func (s *Store) QueryMetrics(ctx context.Context, q models.MetricsQuery) ([]models.MetricRow, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("store: query metrics: %w", err)
	}

	sql, args := buildMetricsQuery(&q)

	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("store: query metrics: %w", err)
	}
	defer rows.Close()

	out := make([]models.MetricRow, 0)

	for rows.Next() {
		r, err := scanMetricRow(rows)
		if err != nil {
			return nil, fmt.Errorf("store: scan metric: %w", err)
		}

		out = append(out, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate metrics: %w", err)
	}

	s.logger.Debug().
		Str("node_id", q.NodeID).
		Str("metric", q.Metric).
		Int("count", len(out)).
		Msg("queried metrics")

	return out, nil
}

func scanMetricRow(row rowScanner) (models.MetricRow, error) {
	var (
		r      models.MetricRow
		ts     time.Time
		labels []byte
	)

	if err := row.Scan(&ts, &r.Metric, &r.Value, &labels); err != nil {
		return models.MetricRow{}, err
	}

	r.Time = ts.UTC()
	r.Labels = decodeMeta(labels)

	return r, nil
}
