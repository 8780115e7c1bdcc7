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
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/carverauto/nodeview/pkg/logger"
	"github.com/carverauto/nodeview/pkg/models"
	"github.com/carverauto/nodeview/pkg/nodes"
)

const settleTimeout = 2 * time.Second

func waitSettled(t *testing.T, c *Controller) State {
	t.Helper()

	select {
	case <-c.Done():
	case <-time.After(settleTimeout):
		t.Fatal("controller did not settle")
	}

	return c.State()
}

func sampleNodes() []models.Node {
	return []models.Node{
		{ID: "n2", Name: "Porch", LastSeen: "2024-01-02T00:00:00Z"},
		{ID: "n1", Name: "Kitchen Sensor", LastSeen: "2024-01-01T00:00:00Z", Meta: map[string]string{"room": "kitchen"}},
		{ID: "n3", Name: "Attic", LastSeen: "2024-01-03T00:00:00Z"},
	}
}

func TestControllerStartsLoading(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := nodes.NewMockFetcher(ctrl)

	c := NewController(fetcher, logger.NewTestLogger())

	state := c.State()
	assert.Equal(t, PhaseLoading, state.Phase)
	assert.Empty(t, state.Message)
	assert.Nil(t, state.Nodes)
	assert.Equal(t, PanelNone, Project(state).Kind)
	assert.Equal(t, 0, c.Transitions())
}

func TestControllerLoadedPreservesOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := nodes.NewMockFetcher(ctrl)
	fetcher.EXPECT().FetchNodes(gomock.Any()).Return(sampleNodes(), nil).Times(1)

	c := NewController(fetcher, logger.NewTestLogger())
	c.Start(context.Background())

	state := waitSettled(t, c)
	require.Equal(t, PhaseLoaded, state.Phase)
	assert.Equal(t, sampleNodes(), state.Nodes)
	assert.Equal(t, 1, c.Transitions())
}

func TestControllerEmptyResult(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := nodes.NewMockFetcher(ctrl)
	fetcher.EXPECT().FetchNodes(gomock.Any()).Return(nil, nil)

	c := NewController(fetcher, logger.NewTestLogger())
	c.Start(context.Background())

	state := waitSettled(t, c)
	require.Equal(t, PhaseLoaded, state.Phase)
	require.NotNil(t, state.Nodes)
	assert.Empty(t, state.Nodes)
	assert.Equal(t, PanelEmpty, Project(state).Kind)
}

func TestControllerErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "http status",
			err:  &nodes.FetchError{Reason: nodes.ReasonHTTPStatus, Detail: "503", StatusCode: 503},
			want: "http-status: 503",
		},
		{
			name: "transport",
			err:  &nodes.FetchError{Reason: nodes.ReasonTransport, Detail: "connection refused"},
			want: "transport: connection refused",
		},
		{
			name: "decode",
			err:  &nodes.FetchError{Reason: nodes.ReasonDecode, Detail: "node id is empty at index 0"},
			want: "decode: node id is empty at index 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			fetcher := nodes.NewMockFetcher(ctrl)
			fetcher.EXPECT().FetchNodes(gomock.Any()).Return(nil, tt.err)

			c := NewController(fetcher, logger.NewTestLogger())
			c.Start(context.Background())

			state := waitSettled(t, c)
			require.Equal(t, PhaseError, state.Phase)
			assert.Equal(t, tt.want, state.Message)
			assert.Nil(t, state.Nodes)
		})
	}
}

func TestControllerFetchesAtMostOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := nodes.NewMockFetcher(ctrl)
	fetcher.EXPECT().FetchNodes(gomock.Any()).Return(sampleNodes(), nil).Times(1)

	c := NewController(fetcher, logger.NewTestLogger())

	var notified atomic.Int32

	c.Subscribe(func(State) { notified.Add(1) })

	for i := 0; i < 5; i++ {
		c.Start(context.Background())
	}

	state := waitSettled(t, c)

	for i := 0; i < 10; i++ {
		assert.Equal(t, PanelList, Project(c.State()).Kind)
		c.Start(context.Background())
	}

	assert.Equal(t, PhaseLoaded, state.Phase)
	assert.Equal(t, 1, c.Transitions())
	assert.Equal(t, int32(1), notified.Load())
}

func TestControllerSubscribeReceivesState(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := nodes.NewMockFetcher(ctrl)
	fetcher.EXPECT().FetchNodes(gomock.Any()).Return(sampleNodes(), nil)

	c := NewController(fetcher, logger.NewTestLogger())

	got := make(chan State, 1)
	c.Subscribe(func(s State) { got <- s })

	removed := make(chan State, 1)
	unsubscribe := c.Subscribe(func(s State) { removed <- s })
	unsubscribe()

	c.Start(context.Background())

	select {
	case s := <-got:
		assert.Equal(t, PhaseLoaded, s.Phase)
		assert.Len(t, s.Nodes, 3)
	case <-time.After(settleTimeout):
		t.Fatal("subscriber was not notified")
	}

	assert.Empty(t, removed)
}

func TestControllerCloseDiscardsLateResult(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := nodes.NewMockFetcher(ctrl)

	started := make(chan struct{})
	canceled := make(chan struct{})

	fetcher.EXPECT().FetchNodes(gomock.Any()).DoAndReturn(func(ctx context.Context) ([]models.Node, error) {
		close(started)
		<-ctx.Done()
		close(canceled)

		// a backend that ignores cancellation and answers anyway
		return sampleNodes(), nil
	})

	c := NewController(fetcher, logger.NewTestLogger())

	var notified atomic.Int32

	c.Subscribe(func(State) { notified.Add(1) })
	c.Start(context.Background())

	<-started
	c.Close()

	select {
	case <-canceled:
	case <-time.After(settleTimeout):
		t.Fatal("fetch context was not canceled on Close")
	}

	select {
	case <-c.Done():
	default:
		t.Fatal("Done must be closed after Close")
	}

	require.Never(t, func() bool { return c.Transitions() > 0 }, 100*time.Millisecond, 5*time.Millisecond)
	assert.Equal(t, PhaseLoading, c.State().Phase)
	assert.Equal(t, int32(0), notified.Load())

	c.Close()
}

func TestControllerStartAfterCloseDoesNotFetch(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := nodes.NewMockFetcher(ctrl)

	c := NewController(fetcher, logger.NewTestLogger())
	c.Close()
	c.Start(context.Background())

	<-c.Done()
	assert.Equal(t, PhaseLoading, c.State().Phase)
}

func TestControllerStateIsSnapshot(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := nodes.NewMockFetcher(ctrl)
	fetcher.EXPECT().FetchNodes(gomock.Any()).Return(sampleNodes(), nil)

	c := NewController(fetcher, nil)
	c.Start(context.Background())

	state := waitSettled(t, c)
	state.Nodes[0].Name = "mutated"

	assert.Equal(t, "Porch", c.State().Nodes[0].Name)
}
