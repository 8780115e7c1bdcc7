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

// Package dashboard draws the node view in a terminal.
package dashboard

import (
	"context"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/carverauto/nodeview/pkg/models"
	"github.com/carverauto/nodeview/pkg/view"
)

const (
	subtitle = "Nodes"

	msgCopied      = "Copied to clipboard!"
	msgCopyFailed  = "Failed to copy to clipboard"
	msgNothingToCp = "Nothing to copy yet"
)

// Options tunes the dashboard model.
type Options struct {
	Title     string
	Projector view.Projector
	// Clipboard overrides the system clipboard writer. Nil uses the system
	// clipboard when one is available.
	Clipboard func(string) error
}

type stateMsg struct {
	state view.State
}

// Model is the bubbletea model for one controller.
type Model struct {
	ctx       context.Context
	ctrl      *view.Controller
	projector view.Projector
	title     string

	state view.State

	spinner spinner.Model
	help    help.Model
	keys    keyMap
	styles  styles

	updates     chan view.State
	unsubscribe func()

	copyFn      func(string) error
	copyMessage string
	quitting    bool
}

var _ tea.Model = (*Model)(nil)

// New wraps ctrl. The controller is started by Init and closed on quit.
func New(ctx context.Context, ctrl *view.Controller, opts Options) *Model {
	st := newStyles()

	sp := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(st.spinner),
	)

	title := opts.Title
	if title == "" {
		title = models.DefaultTitle
	}

	copyFn := opts.Clipboard
	if copyFn == nil && !clipboard.Unsupported {
		copyFn = clipboard.WriteAll
	}

	// the controller changes state at most once
	updates := make(chan view.State, 1)
	unsubscribe := ctrl.Subscribe(func(s view.State) {
		select {
		case updates <- s:
		default:
		}
	})

	return &Model{
		ctx:         ctx,
		ctrl:        ctrl,
		projector:   opts.Projector,
		title:       title,
		state:       ctrl.State(),
		spinner:     sp,
		help:        help.New(),
		keys:        defaultKeyMap(),
		styles:      st,
		updates:     updates,
		unsubscribe: unsubscribe,
		copyFn:      copyFn,
	}
}

// State is the last state the model received.
func (m *Model) State() view.State {
	return m.state
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.waitForState())
}

// waitForState starts the controller and forwards the state its
// subscription delivers. Done fires without a notification only when the
// controller was closed first.
func (m *Model) waitForState() tea.Cmd {
	return func() tea.Msg {
		m.ctrl.Start(m.ctx)

		select {
		case s := <-m.updates:
			return stateMsg{state: s}
		case <-m.ctrl.Done():
		}

		select {
		case s := <-m.updates:
			return stateMsg{state: s}
		default:
			return stateMsg{state: m.ctrl.State()}
		}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stateMsg:
		m.state = msg.state

		return m, nil
	case spinner.TickMsg:
		if m.state.Terminal() {
			return m, nil
		}

		var cmd tea.Cmd

		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width

		return m, nil
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	return m, nil
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Copy):
		m.copy()
	}

	return m, nil
}

func (m *Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.unsubscribe()
	m.ctrl.Close()

	return m, tea.Quit
}

func (m *Model) copy() {
	text := copyText(m.state)
	if text == "" {
		m.copyMessage = msgNothingToCp
		return
	}

	if m.copyFn == nil {
		m.copyMessage = msgCopyFailed
		return
	}

	if err := m.copyFn(text); err != nil {
		m.copyMessage = msgCopyFailed
		return
	}

	m.copyMessage = msgCopied
}

// copyText is the node IDs of a list or the message of an error.
func copyText(s view.State) string {
	switch s.Phase {
	case view.PhaseError:
		return s.Message
	case view.PhaseLoaded:
		ids := make([]string, 0, len(s.Nodes))
		for i := range s.Nodes {
			ids = append(ids, s.Nodes[i].ID)
		}

		return strings.Join(ids, "\n")
	case view.PhaseLoading:
		return ""
	default:
		return ""
	}
}

func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var content strings.Builder

	content.WriteString(m.renderHeader())

	if body := m.renderPanel(m.projector.Project(m.state)); body != "" {
		content.WriteString("\n\n" + body)
	}

	if m.copyMessage != "" {
		content.WriteString("\n\n" + m.styles.notice.Render(m.copyMessage))
	}

	content.WriteString("\n\n" + m.help.View(m.keys))

	return m.styles.app.Align(lipgloss.Left).Render(content.String())
}

func (m *Model) renderHeader() string {
	parts := []string{m.styles.title.Render(m.title)}
	if !m.state.Terminal() {
		parts = append(parts, " ", m.spinner.View())
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, parts...),
		m.styles.subtitle.Render(subtitle),
	)
}

func (m *Model) renderPanel(p view.Panel) string {
	switch p.Kind {
	case view.PanelError:
		return m.styles.error.Render(p.Text())
	case view.PanelEmpty:
		return m.styles.empty.Render(p.Text())
	case view.PanelList:
		rows := make([]string, 0, len(p.Items))
		for _, it := range p.Items {
			rows = append(rows, m.renderItem(it))
		}

		return lipgloss.JoinVertical(lipgloss.Left, rows...)
	case view.PanelNone:
		return ""
	default:
		return ""
	}
}

func (m *Model) renderItem(it view.Item) string {
	lines := []string{
		m.styles.label.Render(it.Label),
		"  " + m.styles.lastSeen.Render(view.LastSeenPrefix+it.LastSeen),
	}

	if len(it.Meta) > 0 {
		pairs := make([]string, 0, len(it.Meta))
		for _, e := range it.Meta {
			pairs = append(pairs, e.Key+"="+e.Value)
		}

		lines = append(lines, "  "+m.styles.meta.Render(strings.Join(pairs, " ")))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
