package domain

import (
	"github.com/shopspring/decimal"
)

// Configuration is the top-level scenarios file
type Configuration struct {
	// RulesFile optionally points at a fiscal-year rules YAML, relative to the scenarios file
	RulesFile string     `yaml:"rules_file,omitempty" json:"rulesFile,omitempty"`
	Profile   Profile    `yaml:"profile" json:"profile"`
	Scenarios []Scenario `yaml:"scenarios" json:"scenarios"`
}

// Profile carries descriptive information about the filer
type Profile struct {
	Name string `yaml:"name" json:"name"`
	Note string `yaml:"note,omitempty" json:"note,omitempty"`
}

// Scenario is a named TaxInput
type Scenario struct {
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	Input       TaxInput `yaml:"input" json:"input"`
}

// DeepCopy returns an independent copy of the scenario. TaxInput holds only
// values, so a plain copy is enough.
func (s *Scenario) DeepCopy() *Scenario {
	c := *s
	return &c
}

// FindScenario returns the scenario with the given name
func (c *Configuration) FindScenario(name string) (*Scenario, bool) {
	for i := range c.Scenarios {
		if c.Scenarios[i].Name == name {
			return &c.Scenarios[i], true
		}
	}
	return nil, false
}

// AdvisoryCode identifies an advisory note
type AdvisoryCode string

const (
	AdvisorySeparateFiling   AdvisoryCode = "separate_filing"
	AdvisoryHighMarginalRate AdvisoryCode = "high_marginal_rate"
	AdvisorySavings          AdvisoryCode = "savings"
	AdvisoryBracketEdge      AdvisoryCode = "bracket_edge"
)

// Advisory is an informational note attached to a scenario result
type Advisory struct {
	Code    AdvisoryCode `json:"code" yaml:"code"`
	Message string       `json:"message" yaml:"message"`
}

// ScenarioResult pairs a scenario with its computed estimate
type ScenarioResult struct {
	Name        string          `json:"name" yaml:"name"`
	Description string          `json:"description,omitempty" yaml:"description,omitempty"`
	Input       TaxInput        `json:"input" yaml:"input"`
	Result      TaxResult       `json:"result" yaml:"result"`
	TakeHome    decimal.Decimal `json:"takeHome" yaml:"take_home"`
	Advisories  []Advisory      `json:"advisories,omitempty" yaml:"advisories,omitempty"`
}

// Report is the output of a scenarios run
type Report struct {
	Profile   Profile          `json:"profile" yaml:"profile"`
	Rules     RulesMetadata    `json:"rules" yaml:"rules"`
	Scenarios []ScenarioResult `json:"scenarios" yaml:"scenarios"`
}
