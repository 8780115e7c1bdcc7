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

// Package view holds the dashboard's render state: a controller that drives a
// single node fetch from Loading to Loaded or Error, and a stateless projection
// of that state into panels.
package view

import (
	"slices"

	"github.com/carverauto/nodeview/pkg/models"
)

// Phase identifies which of the three render states is active.
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseError
	PhaseLoaded
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseError:
		return "error"
	case PhaseLoaded:
		return "loaded"
	default:
		return "unknown"
	}
}

// State is exactly one of Loading, Error(Message) or Loaded(Nodes). Nodes may
// be empty in the Loaded phase.
type State struct {
	Phase   Phase
	Message string
	Nodes   []models.Node
}

func Loading() State {
	return State{Phase: PhaseLoading}
}

func Errored(message string) State {
	return State{Phase: PhaseError, Message: message}
}

// Loaded keeps the nodes in the given order. A nil slice is stored as empty.
func Loaded(nodes []models.Node) State {
	if nodes == nil {
		nodes = []models.Node{}
	}

	return State{Phase: PhaseLoaded, Nodes: nodes}
}

// Terminal reports whether no further transition can leave this state.
func (s State) Terminal() bool {
	return s.Phase == PhaseError || s.Phase == PhaseLoaded
}

// clone copies the node slice so readers cannot alias the controller's copy.
func (s State) clone() State {
	if s.Nodes != nil {
		s.Nodes = slices.Clone(s.Nodes)
	}

	return s
}
