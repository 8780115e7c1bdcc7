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

package view

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/carverauto/nodeview/pkg/models"
)

const (
	EmptyMessage   = "No nodes yet."
	ErrorPrefix    = "Error: "
	LastSeenPrefix = "Last seen: "
)

// PanelKind selects what the content area shows.
type PanelKind int

const (
	// PanelNone is the Loading projection: only the header is drawn.
	PanelNone PanelKind = iota
	PanelError
	PanelEmpty
	PanelList
)

func (k PanelKind) String() string {
	switch k {
	case PanelNone:
		return "none"
	case PanelError:
		return "error"
	case PanelEmpty:
		return "empty"
	case PanelList:
		return "list"
	default:
		return "unknown"
	}
}

// Item is one rendered node row.
type Item struct {
	ID       string
	Name     string
	Label    string // "<name> (<id>)"
	LastSeen string // localized timestamp, or the raw value when unparseable
	Meta     []MetaEntry
}

// MetaEntry is a meta key/value pair; entries are sorted by key.
type MetaEntry struct {
	Key   string
	Value string
}

// Panel is the content area for one State.
type Panel struct {
	Kind    PanelKind
	Message string
	Items   []Item
}

// Projector maps State to Panel. The zero value renders timestamps with
// models.DefaultTimeLayout in the local time zone.
type Projector struct {
	Layout   string
	Location *time.Location
}

// Project renders s with the zero Projector.
func Project(s State) Panel {
	return Projector{}.Project(s)
}

func (p Projector) Project(s State) Panel {
	switch s.Phase {
	case PhaseError:
		return Panel{Kind: PanelError, Message: s.Message}
	case PhaseLoaded:
		if len(s.Nodes) == 0 {
			return Panel{Kind: PanelEmpty, Message: EmptyMessage}
		}

		items := make([]Item, 0, len(s.Nodes))
		for i := range s.Nodes {
			items = append(items, p.item(&s.Nodes[i]))
		}

		return Panel{Kind: PanelList, Items: items}
	case PhaseLoading:
		return Panel{Kind: PanelNone}
	default:
		return Panel{Kind: PanelNone}
	}
}

func (p Projector) item(n *models.Node) Item {
	it := Item{
		ID:       n.ID,
		Name:     n.Name,
		Label:    fmt.Sprintf("%s (%s)", n.Name, n.ID),
		LastSeen: p.LocalizeTimestamp(n),
	}

	for _, k := range slices.Sorted(maps.Keys(n.Meta)) {
		it.Meta = append(it.Meta, MetaEntry{Key: k, Value: n.Meta[k]})
	}

	return it
}

// LocalizeTimestamp formats the node's last_seen instant in the projector's
// zone and layout.
func (p Projector) LocalizeTimestamp(n *models.Node) string {
	ts, err := n.LastSeenTime()
	if err != nil {
		return n.LastSeen
	}

	layout := p.Layout
	if layout == "" {
		layout = models.DefaultTimeLayout
	}

	loc := p.Location
	if loc == nil {
		loc = time.Local
	}

	return ts.In(loc).Format(layout)
}

// Text renders the panel as plain text.
func (p Panel) Text() string {
	switch p.Kind {
	case PanelError:
		return ErrorPrefix + p.Message
	case PanelEmpty:
		return EmptyMessage
	case PanelList:
		var b strings.Builder

		for i, it := range p.Items {
			if i > 0 {
				b.WriteByte('\n')
			}

			fmt.Fprintf(&b, "%s\n  %s%s", it.Label, LastSeenPrefix, it.LastSeen)
		}

		return b.String()
	case PanelNone:
		return ""
	default:
		return ""
	}
}
