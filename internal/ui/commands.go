package ui

import (
	"context"

	"github.com/atomicstack/listy-city/internal/logging"
	"github.com/atomicstack/listy-city/internal/logging/events"
	"github.com/atomicstack/listy-city/internal/menu"
	"github.com/atomicstack/listy-city/internal/screen"
	tea "github.com/charmbracelet/bubbletea"
)

// opResultMsg carries a finished store mutation back to the update loop.
type opResultMsg struct {
	result screen.Result
}

// runOp runs op off the update loop. In-flight mutations are never cancelled.
func runOp(op screen.Op) tea.Cmd {
	if op == nil {
		return nil
	}
	return func() tea.Msg {
		return opResultMsg{result: op(context.Background())}
	}
}

func (m *Model) handleOpResultMsg(msg tea.Msg) tea.Cmd {
	res, ok := msg.(opResultMsg)
	if !ok {
		return nil
	}
	m.controller.HandleResult(res.result)
	return nil
}

func (m *Model) handleActionResultMsg(msg tea.Msg) tea.Cmd {
	result, ok := msg.(menu.ActionResult)
	if !ok {
		return nil
	}
	m.settle()
	if result.Err != nil {
		m.errMsg = result.Err.Error()
		m.forceClearInfo()
		events.Action.Error(result.Err)
		return nil
	}
	if result.Info != "" && m.verbose {
		m.setInfo(result.Info)
	}
	events.Action.Success(result.Info)
	m.popToRoot()
	return m.refreshDocument()
}

func (m *Model) handleDeleteRequestMsg(msg tea.Msg) tea.Cmd {
	req, ok := msg.(menu.DeleteRequest)
	if !ok {
		return nil
	}
	return m.withPrompt(func() promptResult {
		target := req.City
		op := m.controller.DeleteCity(&target)
		m.popToRoot()
		return promptResult{Cmd: runOp(op)}
	})
}

func (m *Model) loadMenuCmd(id, title string, loader menu.Loader) tea.Cmd {
	ctx := m.menuContext()
	return func() tea.Msg {
		items, err := loader(ctx)
		if err != nil {
			logging.Error(err)
		}
		return categoryLoadedMsg{id: id, title: title, items: items, err: err}
	}
}

// categoryLoadedMsg mirrors the async loader response.
type categoryLoadedMsg struct {
	id    string
	title string
	items []menu.Item
	err   error
}

func (m *Model) menuContext() menu.Context {
	ctx := menu.Context{Cities: m.controller.Cities()}
	if m.selected != nil {
		selected := *m.selected
		ctx.Selected = &selected
	}
	return ctx
}
