// Package theme holds the Lip Gloss styles of the city list screens.
package theme

import "github.com/charmbracelet/lipgloss"

// ANSI 256 palette entries shared by several styles.
const (
	accent  = lipgloss.Color("33")
	green   = lipgloss.Color("34")
	red     = lipgloss.Color("196")
	rowBg   = lipgloss.Color("238")
	dim     = lipgloss.Color("241")
	muted   = lipgloss.Color("245")
	text    = lipgloss.Color("249")
	bright  = lipgloss.Color("255")
	outline = lipgloss.Color("240")
)

// Styles describes reusable Lip Gloss styles shared across the UI. Fields
// are pointers so callers can tell an unset style from a plain one.
type Styles struct {
	// list rows
	Item                  *lipgloss.Style
	ItemIndicator         *lipgloss.Style
	SelectedItem          *lipgloss.Style
	SelectedItemIndicator *lipgloss.Style
	Swipe                 *lipgloss.Style
	Button                *lipgloss.Style

	// chrome
	Loading *lipgloss.Style
	Header  *lipgloss.Style
	Footer  *lipgloss.Style
	Info    *lipgloss.Style
	Error   *lipgloss.Style

	// filter prompt
	Filter            *lipgloss.Style
	FilterPrompt      *lipgloss.Style
	FilterPlaceholder *lipgloss.Style
	Cursor            *lipgloss.Style

	// document panel
	PanelTitle  *lipgloss.Style
	PanelBody   *lipgloss.Style
	PanelError  *lipgloss.Style
	PanelBorder *lipgloss.Style
}

func fg(c lipgloss.Color) *lipgloss.Style {
	s := lipgloss.NewStyle().Foreground(c)
	return &s
}

func bold(c lipgloss.Color) *lipgloss.Style {
	s := lipgloss.NewStyle().Foreground(c).Bold(true)
	return &s
}

func on(c, bg lipgloss.Color) *lipgloss.Style {
	s := lipgloss.NewStyle().Foreground(c).Background(bg)
	return &s
}

var defaultStyles = Styles{
	Item:                  fg(text),
	ItemIndicator:         fg(rowBg),
	SelectedItem:          ptr(on(bright, rowBg).Bold(true)),
	SelectedItemIndicator: on(accent, rowBg),
	Swipe:                 ptr(on(bright, lipgloss.Color("124")).Bold(true)),
	Button:                bold(green),

	Loading: ptr(fg(accent).Italic(true)),
	Header:  bold(muted),
	Footer:  fg(text),
	Info:    fg(text),
	Error:   bold(red),

	Filter:            fg(text),
	FilterPrompt:      bold(green),
	FilterPlaceholder: fg(dim),
	Cursor:            ptr(on(lipgloss.Color("0"), accent).Blink(true)),

	PanelTitle:  bold(muted),
	PanelBody:   fg(lipgloss.Color("250")),
	PanelError:  bold(red),
	PanelBorder: ptr(lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(outline)),
}

// Default exposes the standard style set used across the application.
func Default() *Styles {
	return &defaultStyles
}

func ptr(style lipgloss.Style) *lipgloss.Style {
	return &style
}
