// Package command runs menu actions as Bubble Tea commands.
package command

import (
	"fmt"
	"sync/atomic"

	"github.com/atomicstack/listy-city/internal/logging/events"
	"github.com/atomicstack/listy-city/internal/menu"
	tea "github.com/charmbracelet/bubbletea"
)

// Request is a menu action bound to the row it was chosen from. Actions run
// off the update loop, so the request carries its own copy of the context.
type Request struct {
	Node    string
	Item    menu.Item
	Context menu.Context
	Handler menu.Action
}

// Bus dispatches menu actions and numbers them for tracing.
type Bus struct {
	seq atomic.Uint64
}

// New initialises a command bus instance.
func New() *Bus {
	return &Bus{}
}

// Dispatch wraps req into a command. The command always yields a message so
// the caller's pending state is released: an action that produces nothing
// reports an empty menu.ActionResult.
func (b *Bus) Dispatch(req Request) tea.Cmd {
	if req.Handler == nil {
		events.Command.Missing(req.Node)
		err := fmt.Errorf("%s: no action registered", req.Node)
		return func() tea.Msg { return menu.ActionResult{Err: err} }
	}
	seq := b.seq.Add(1)
	events.Command.Queue(seq, req.Node, req.Item.Label)
	return func() tea.Msg {
		var msg tea.Msg = menu.ActionResult{}
		if cmd := req.Handler(req.Context, req.Item); cmd != nil {
			if out := cmd(); out != nil {
				msg = out
			}
		}
		events.Command.Result(seq, req.Node, fmt.Sprintf("%T", msg))
		return msg
	}
}
