package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/wippyai/blueprint-hook/merge"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))
)

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Confirm key.Binding
	Cancel  key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Confirm, k.Cancel}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Confirm: key.NewBinding(
		key.WithKeys("y", "enter"),
		key.WithHelp("y/enter", "apply"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("n", "esc", "q", "ctrl+c"),
		key.WithHelp("n/q", "abort"),
	),
}

type confirmModel struct {
	plan     *merge.Plan
	help     help.Model
	selected int
	accepted bool
	done     bool
}

func newConfirmModel(plan *merge.Plan) *confirmModel {
	return &confirmModel{plan: plan, help: help.New()}
}

// confirm shows the plan and asks whether to apply it.
func confirm(plan *merge.Plan) (bool, error) {
	final, err := tea.NewProgram(newConfirmModel(plan)).Run()
	if err != nil {
		return false, fmt.Errorf("interactive confirmation: %w", err)
	}
	return final.(*confirmModel).accepted, nil
}

func (m *confirmModel) Init() tea.Cmd {
	return nil
}

func (m *confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Cancel):
			m.done = true
			return m, tea.Quit

		case key.Matches(msg, keys.Confirm):
			m.accepted = true
			m.done = true
			return m, tea.Quit

		case key.Matches(msg, keys.Up):
			if m.selected > 0 {
				m.selected--
			}

		case key.Matches(msg, keys.Down):
			if m.selected < len(m.plan.Candidates)-1 {
				m.selected++
			}
		}

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
	}
	return m, nil
}

func (m *confirmModel) View() string {
	if m.done {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Merge plan"))
	b.WriteString("\n\n")

	for i, c := range m.plan.Candidates {
		line := m.describe(c)
		if i == m.selected {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	for _, name := range m.plan.Skipped {
		b.WriteString(noteStyle.Render("  " + name + " already installed, skipped"))
		b.WriteString("\n")
	}

	if m.selected < len(m.plan.Candidates) {
		c := m.plan.Candidates[m.selected]
		b.WriteString("\n")
		for _, p := range c.Function.Params() {
			b.WriteString(noteStyle.Render("    " + p.Type.String() + " " + p.Name.String()))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(keys))
	return b.String()
}

func (m *confirmModel) describe(c merge.Candidate) string {
	if c.Pair != nil {
		return hookedStyle.Render("hook ") + c.Name + noteStyle.Render(" (original kept as "+merge.OrigPrefix+c.Name+")")
	}
	return addedStyle.Render("add  ") + c.Name
}
