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
	"context"
	"slices"
	"sync"

	"github.com/carverauto/nodeview/pkg/logger"
	"github.com/carverauto/nodeview/pkg/nodes"
)

// Controller owns one view's State. It starts in Loading, issues exactly one
// fetch when started and settles once into Loaded or Error.
type Controller struct {
	fetcher nodes.Fetcher
	logger  logger.Logger

	startOnce sync.Once
	doneOnce  sync.Once
	done      chan struct{}

	mu          sync.RWMutex
	state       State
	closed      bool
	cancel      context.CancelFunc
	subs        []subscriber
	nextSubID   int
	transitions int
}

type subscriber struct {
	id int
	fn func(State)
}

// NewController creates a controller in the Loading state. Nothing is fetched
// until Start is called.
func NewController(fetcher nodes.Fetcher, log logger.Logger) *Controller {
	if log == nil {
		log = logger.NewTestLogger()
	}

	return &Controller{
		fetcher: fetcher,
		logger:  log,
		done:    make(chan struct{}),
		state:   Loading(),
	}
}

// Start launches the single fetch without blocking. Calls after the first,
// and calls on a closed controller, do nothing.
func (c *Controller) Start(ctx context.Context) {
	c.startOnce.Do(func() {
		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			return
		}

		fetchCtx, cancel := context.WithCancel(ctx)
		c.cancel = cancel
		c.mu.Unlock()

		c.logger.Debug().Msg("Starting node fetch")

		go c.run(fetchCtx, cancel)
	})
}

func (c *Controller) run(ctx context.Context, cancel context.CancelFunc) {
	defer cancel()

	result, err := c.fetcher.FetchNodes(ctx)
	if err != nil {
		c.apply(Errored(err.Error()))
		return
	}

	c.apply(Loaded(result))
}

// apply performs the one permitted transition. Results arriving after Close
// or after the state settled are dropped.
func (c *Controller) apply(next State) {
	c.mu.Lock()

	if c.closed || c.state.Terminal() {
		c.mu.Unlock()
		c.logger.Debug().Str("phase", next.Phase.String()).Msg("Discarding fetch result for closed view")

		return
	}

	c.state = next
	c.transitions++
	subs := slices.Clone(c.subs)
	c.mu.Unlock()

	c.logger.Info().
		Str("phase", next.Phase.String()).
		Int("node_count", len(next.Nodes)).
		Str("message", next.Message).
		Msg("View state changed")

	for _, s := range subs {
		s.fn(next.clone())
	}

	c.doneOnce.Do(func() { close(c.done) })
}

// State returns a snapshot of the current state.
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.state.clone()
}

// Done is closed once the state has settled and subscribers were notified,
// or when the controller was closed.
func (c *Controller) Done() <-chan struct{} {
	return c.done
}

// Transitions counts applied state changes; it never exceeds one.
func (c *Controller) Transitions() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.transitions
}

// Subscribe registers fn to be called with the new state after each change.
// The returned func removes the subscription.
func (c *Controller) Subscribe(fn func(State)) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextSubID
	c.nextSubID++
	c.subs = append(c.subs, subscriber{id: id, fn: fn})

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()

		c.subs = slices.DeleteFunc(c.subs, func(s subscriber) bool { return s.id == id })
	}
}

// Close tears the view down: an in-flight fetch is canceled and its result
// discarded. Close is idempotent.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}

	c.closed = true
	cancel := c.cancel
	c.subs = nil
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	c.doneOnce.Do(func() { close(c.done) })
}
