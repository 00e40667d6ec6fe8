package ui

import (
	"strings"

	"github.com/atomicstack/listy-city/internal/city"
	"github.com/atomicstack/listy-city/internal/menu"
	"github.com/atomicstack/listy-city/internal/screen"
	tea "github.com/charmbracelet/bubbletea"
)

// handleCityForm routes key presses to the open form. Other messages are
// passed to the form as well but remain unhandled so pushes keep flowing.
func (m *Model) handleCityForm(msg tea.Msg) (bool, tea.Cmd) {
	if m.cityForm == nil {
		return false, nil
	}
	_, isKey := msg.(tea.KeyMsg)
	cmd, done, cancel := m.cityForm.Update(msg)
	if !isKey {
		return false, cmd
	}
	if cancel {
		m.cityForm = nil
		m.mode = ModeMenu
		m.popToRoot()
		return true, cmd
	}
	if done {
		sub := m.cityForm.Submit()
		m.cityForm = nil
		m.mode = ModeMenu
		m.popToRoot()
		var op screen.Op
		if sub.Original == nil {
			op = m.controller.AddCity(&city.City{Name: sub.Name, Province: sub.Province})
		} else {
			op = m.controller.UpdateCity(sub.Original, sub.Name, sub.Province)
		}
		return true, runOp(op)
	}
	return true, cmd
}

func (m *Model) startCityForm(prompt menu.CityPrompt) {
	if m.controller.Tracking() {
		m.controller.PointerCancel("form")
	}
	m.cityForm = menu.NewCityForm(prompt)
	m.mode = ModeCityForm
}

func (m *Model) viewCityFormWithHeader(header string) string {
	lines := []string{}
	if header != "" {
		lines = append(lines, header)
	}
	fields := []string{m.cityForm.NameView(), m.cityForm.ProvinceView()}
	for i, field := range fields {
		marker := "  "
		if i == m.cityForm.Focused() {
			marker = renderStyled(styles.SelectedItemIndicator, rowMarker) + " "
		}
		fields[i] = marker + field
	}
	lines = append(lines, m.cityForm.Title(), "")
	lines = append(lines, fields...)
	if info := m.currentInfo(); info != "" {
		lines = append(lines, "", styles.Info.Render(info))
	}
	lines = append(lines, "", m.cityForm.Help())
	return strings.Join(lines, "\n")
}
