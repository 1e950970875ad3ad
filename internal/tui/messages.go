package tui

import (
	"github.com/rgehrsitz/jptax/internal/domain"
)

// Scene represents the two screens of the TUI
type Scene int

const (
	SceneForm Scene = iota
	SceneResults
)

func (s Scene) String() string {
	switch s {
	case SceneForm:
		return "Input"
	case SceneResults:
		return "Results"
	default:
		return "Unknown"
	}
}

// CalculationCompleteMsg carries the estimate for the submitted form
type CalculationCompleteMsg struct {
	Result *domain.ScenarioResult
	Err    error
}
