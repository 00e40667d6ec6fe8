package ui

import (
	"fmt"

	"github.com/atomicstack/listy-city/internal/menu"
	tea "github.com/charmbracelet/bubbletea"
)

type promptResult struct {
	Cmd  tea.Cmd
	Info string
	Err  error
}

// withPrompt centralises the common prompt flow: reset the pending state and
// execute the provided action. The action can return a promptResult to
// control follow-up behaviour (command to run, informational message, or
// error).
func (m *Model) withPrompt(action func() promptResult) tea.Cmd {
	m.settle()
	m.forceClearInfo()
	m.errMsg = ""
	if action == nil {
		return nil
	}
	result := action()
	if result.Err != nil {
		m.errMsg = result.Err.Error()
		return nil
	}
	if result.Info != "" && m.verbose {
		m.setInfo(result.Info)
	}
	return result.Cmd
}

func (m *Model) handleCityPromptMsg(msg tea.Msg) tea.Cmd {
	prompt, ok := msg.(menu.CityPrompt)
	if !ok {
		return nil
	}
	return m.withPrompt(func() promptResult {
		m.startCityForm(prompt)
		return promptResult{}
	})
}

func (m *Model) handleChooserPromptMsg(msg tea.Msg) tea.Cmd {
	prompt, ok := msg.(menu.ChooserPrompt)
	if !ok {
		return nil
	}
	return m.withPrompt(func() promptResult {
		node, ok := m.registry.Find("city")
		if !ok || node.Loader == nil {
			return promptResult{Err: fmt.Errorf("city chooser is not registered")}
		}
		selected := prompt.City
		m.selected = &selected
		m.selectedIndex = prompt.Index
		return promptResult{Cmd: m.openLevel(node, selected.Label())}
	})
}
