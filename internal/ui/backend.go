package ui

import (
	"github.com/atomicstack/listy-city/internal/backend"
	"github.com/atomicstack/listy-city/internal/logging"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

func waitForBackendEvent(w *backend.Watcher) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-w.Events()
		if !ok {
			return backendDoneMsg{}
		}
		return backendEventMsg{event: evt}
	}
}

type backendEventMsg struct {
	event backend.Event
}

type backendDoneMsg struct{}

func (m *Model) handleBackendEventMsg(msg tea.Msg) tea.Cmd {
	eventMsg, ok := msg.(backendEventMsg)
	if !ok {
		return nil
	}
	cmd := m.applyBackendEvent(eventMsg.event)
	if m.backend != nil {
		waitCmd := waitForBackendEvent(m.backend)
		if cmd != nil {
			return tea.Batch(cmd, waitCmd)
		}
		return waitCmd
	}
	return cmd
}

func (m *Model) handleBackendDoneMsg(msg tea.Msg) tea.Cmd {
	if m.backend != nil {
		logging.Warn("snapshot stream closed", zap.String("collection", m.collection))
	}
	m.backend = nil
	return nil
}

// applyBackendEvent hands the push to the controller, which rebuilds the
// cache and calls Refresh. Errors leave the list as it was.
func (m *Model) applyBackendEvent(evt backend.Event) tea.Cmd {
	if !m.controller.ApplyEvent(evt) {
		return nil
	}
	return m.refreshDocument()
}
