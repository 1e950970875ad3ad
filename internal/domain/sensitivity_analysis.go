package domain

import (
	"github.com/shopspring/decimal"
)

// SweepParameter describes one input field swept across a range
type SweepParameter struct {
	Name     string          `yaml:"name" json:"name"` // salary, ideco, crypto, stock, social_insurance, dependents
	MinValue decimal.Decimal `yaml:"min_value" json:"minValue"`
	MaxValue decimal.Decimal `yaml:"max_value" json:"maxValue"`
	Steps    int             `yaml:"steps" json:"steps"`
}

// SweepPoint is the estimate at one parameter value
type SweepPoint struct {
	Value         decimal.Decimal `json:"value"`
	TotalTax      decimal.Decimal `json:"totalTax"`
	NationalTax   decimal.Decimal `json:"nationalTax"`
	ResidentTax   decimal.Decimal `json:"residentTax"`
	MarginalRate  decimal.Decimal `json:"marginalRate"`
	EffectiveRate decimal.Decimal `json:"effectiveRate"`
	TakeHome      decimal.Decimal `json:"takeHome"`
	FurusatoLimit decimal.Decimal `json:"furusatoLimit"`
}

// BracketChange marks where the marginal rate changes between two sweep points
type BracketChange struct {
	From     decimal.Decimal `json:"from"`
	To       decimal.Decimal `json:"to"`
	FromRate decimal.Decimal `json:"fromRate"`
	ToRate   decimal.Decimal `json:"toRate"`
}

// SweepAnalysis is a complete single-parameter sweep
type SweepAnalysis struct {
	ScenarioName   string          `json:"scenarioName"`
	Parameter      SweepParameter  `json:"parameter"`
	Points         []SweepPoint    `json:"points"`
	BracketChanges []BracketChange `json:"bracketChanges"`
	// AverageSlope is the mean change in total tax per yen of parameter change
	AverageSlope decimal.Decimal `json:"averageSlope"`
}
