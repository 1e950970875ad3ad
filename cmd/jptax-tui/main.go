package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/jptax/internal/calculation"
	"github.com/rgehrsitz/jptax/internal/config"
	"github.com/rgehrsitz/jptax/internal/tui"
)

// Usage: jptax-tui [scenarios.yaml [scenario-name]]
// With a scenarios file the form starts from the named (or first) scenario.
func main() {
	settings, err := config.LoadEnvironment()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	rulesFile := settings.RulesFile
	initial := config.DefaultInput()

	if len(os.Args) > 1 {
		cfg, err := config.NewInputParser().LoadFromFile(os.Args[1])
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		if cfg.RulesFile != "" {
			rulesFile = cfg.RulesFile
		}

		scenario := &cfg.Scenarios[0]
		if len(os.Args) > 2 {
			var ok bool
			if scenario, ok = cfg.FindScenario(os.Args[2]); !ok {
				fmt.Printf("Error: scenario %q not found in %s\n", os.Args[2], os.Args[1])
				os.Exit(1)
			}
		}
		initial = scenario.Input
	}

	rules, err := config.LoadRules(rulesFile)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	model := tui.NewModel(calculation.NewTaxEngineWithRules(rules), initial)

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

