package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles all messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case CalculationCompleteMsg:
		m.calculating = false
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.err = nil
		m.previous = m.result
		m.result = msg.Result
		m.scene = SceneResults
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) {
			return m, tea.Quit
		}
		if m.scene == SceneResults {
			return m.updateResults(msg)
		}
		return m.updateForm(msg)
	}

	if m.scene == SceneForm {
		return m.updateFocusedInput(msg)
	}
	return m, nil
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Next):
		cmd := m.setFocus(m.focus + 1)
		return m, cmd

	case key.Matches(msg, keys.Prev):
		cmd := m.setFocus(m.focus - 1)
		return m, cmd

	case key.Matches(msg, keys.Submit):
		input, err := readInput(m.inputs)
		if err != nil {
			m.err = err
			return m, nil
		}
		m.err = nil
		m.calculating = true
		return m, calculateCmd(m.engine, input)

	case key.Matches(msg, keys.Back):
		return m, tea.Quit
	}

	return m.updateFocusedInput(msg)
}

func (m Model) updateResults(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "backspace", "e":
		m.scene = SceneForm
		cmd := m.setFocus(m.focus)
		return m, cmd
	case "q":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updateFocusedInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

// setFocus moves focus to index i, wrapping at both ends
func (m *Model) setFocus(i int) tea.Cmd {
	n := len(m.inputs)
	m.focus = ((i % n) + n) % n
	var cmd tea.Cmd
	for j := range m.inputs {
		if j == m.focus {
			cmd = m.inputs[j].Focus()
		} else {
			m.inputs[j].Blur()
		}
	}
	return cmd
}
