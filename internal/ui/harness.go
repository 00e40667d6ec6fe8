package ui

import (
	"time"

	"github.com/atomicstack/listy-city/internal/backend"
	tea "github.com/charmbracelet/bubbletea"
)

// Harness drives a Model without a terminal. Commands run synchronously and
// the messages they produce are fed back into Update in arrival order until
// nothing is left.
type Harness struct {
	model *Model
}

// NewHarness creates a harness for the provided model.
func NewHarness(model *Model) *Harness {
	return &Harness{model: model}
}

// Send delivers msg and everything that follows from it.
func (h *Harness) Send(msg tea.Msg) {
	if h.model == nil {
		return
	}
	queue := []tea.Msg{msg}
	for len(queue) > 0 {
		msg, queue = queue[0], queue[1:]
		if batch, ok := msg.(tea.BatchMsg); ok {
			for _, cmd := range batch {
				queue = appendResult(queue, cmd)
			}
			continue
		}
		_, cmd := h.model.Update(msg)
		queue = appendResult(queue, cmd)
	}
}

func appendResult(queue []tea.Msg, cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return queue
	}
	if msg := cmd(); msg != nil {
		return append(queue, msg)
	}
	return queue
}

// Pump delivers the next watcher event to the model. It reports false when
// nothing arrived within timeout or the watcher is closed.
func (h *Harness) Pump(w *backend.Watcher, timeout time.Duration) bool {
	select {
	case evt, ok := <-w.Events():
		if !ok {
			return false
		}
		h.Send(backendEventMsg{event: evt})
		return true
	case <-time.After(timeout):
		return false
	}
}

// View renders the model.
func (h *Harness) View() string {
	if h.model == nil {
		return ""
	}
	return h.model.View()
}

// Model exposes the underlying model.
func (h *Harness) Model() *Model {
	return h.model
}
