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
	"errors"
	"fmt"
	"time"
)

var (
	errEmptyNodeID      = errors.New("node id is empty")
	errDuplicateNodeID  = errors.New("duplicate node id")
	errUnparseableStamp = errors.New("unparseable timestamp")
	errNullMetaValue    = errors.New("meta value is null")
)

type stampLayout struct {
	layout string
	local  bool // date-times without an offset are wall-clock local time
}

// lastSeenLayouts are tried in order when parsing Node.LastSeen.
var lastSeenLayouts = []stampLayout{
	{layout: time.RFC3339Nano},
	{layout: time.RFC3339},
	{layout: "2006-01-02 15:04:05Z07:00"},
	{layout: "2006-01-02 15:04:05.999999999Z07:00"},
	{layout: "2006-01-02T15:04:05.999999999", local: true},
	{layout: "2006-01-02 15:04:05.999999999", local: true},
	{layout: "2006-01-02"},
}

// Node is a monitored device as reported by the nodes listing endpoint.
type Node struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	LastSeen string            `json:"last_seen"`
	Meta     map[string]string `json:"meta,omitempty"`
}

// UnmarshalJSON decodes a node, rejecting null meta values that would
// otherwise collapse to empty strings.
func (n *Node) UnmarshalJSON(b []byte) error {
	type plain Node

	var raw struct {
		plain
		Meta map[string]*string `json:"meta,omitempty"`
	}

	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	node := Node(raw.plain)
	node.Meta = nil

	if raw.Meta != nil {
		node.Meta = make(map[string]string, len(raw.Meta))

		for k, v := range raw.Meta {
			if v == nil {
				return fmt.Errorf("%w: %q", errNullMetaValue, k)
			}

			node.Meta[k] = *v
		}
	}

	*n = node

	return nil
}

// LastSeenTime parses LastSeen. Date-times without a zone offset are read in
// the local zone; a bare date is midnight UTC.
func (n *Node) LastSeenTime() (time.Time, error) {
	for _, l := range lastSeenLayouts {
		loc := time.UTC
		if l.local {
			loc = time.Local
		}

		if ts, err := time.ParseInLocation(l.layout, n.LastSeen, loc); err == nil {
			return ts, nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %q", errUnparseableStamp, n.LastSeen)
}

// ValidateNodes checks that every node carries a non-empty id and that ids are
// unique within the collection.
func ValidateNodes(nodes []Node) error {
	seen := make(map[string]int, len(nodes))

	for i := range nodes {
		id := nodes[i].ID
		if id == "" {
			return fmt.Errorf("%w at index %d", errEmptyNodeID, i)
		}

		if prev, ok := seen[id]; ok {
			return fmt.Errorf("%w %q at index %d (first seen at %d)", errDuplicateNodeID, id, i, prev)
		}

		seen[id] = i
	}

	return nil
}
