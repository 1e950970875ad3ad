package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/jptax/internal/calculation"
	"github.com/rgehrsitz/jptax/internal/domain"
)

type keyMap struct {
	Next   key.Binding
	Prev   key.Binding
	Submit key.Binding
	Back   key.Binding
	Quit   key.Binding
}

var keys = keyMap{
	Next:   key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
	Prev:   key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "previous field")),
	Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "calculate")),
	Back:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Quit:   key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
}

// Model represents the entire application state
type Model struct {
	scene Scene

	width  int
	height int

	engine *calculation.TaxEngine

	inputs []textinput.Model
	focus  int

	result   *domain.ScenarioResult
	previous *domain.ScenarioResult // last result, for deltas between runs

	calculating bool
	err         error
}

// NewModel creates the form pre-filled with initial
func NewModel(engine *calculation.TaxEngine, initial domain.TaxInput) Model {
	if engine == nil {
		engine = calculation.NewTaxEngine()
	}
	m := Model{
		scene:  SceneForm,
		engine: engine,
		inputs: newInputs(initial),
		width:  80,
		height: 24,
	}
	m.inputs[0].Focus()
	return m
}

// Init initializes the model (required by tea.Model interface)
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// calculateCmd runs the engine off the update loop
func calculateCmd(engine *calculation.TaxEngine, input domain.TaxInput) tea.Cmd {
	return func() tea.Msg {
		res, err := engine.RunScenario(context.Background(), &domain.Scenario{Name: "Form", Input: input})
		return CalculationCompleteMsg{Result: res, Err: err}
	}
}

// Scene returns the active screen
func (m Model) Scene() Scene { return m.scene }

// Result returns the last completed estimate, if any
func (m Model) Result() *domain.ScenarioResult { return m.result }

// Err returns the current form or calculation error
func (m Model) Err() error { return m.err }
