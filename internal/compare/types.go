package compare

import (
	"fmt"

	"github.com/rgehrsitz/jptax/internal/domain"
	"github.com/shopspring/decimal"
)

// ComparisonResult represents a single scenario comparison with calculated metrics
type ComparisonResult struct {
	ScenarioName string                 `json:"scenarioName"`
	Description  string                 `json:"description"`
	Scenario     *domain.ScenarioResult `json:"scenario,omitempty"`

	// Key Metrics
	TotalTax      decimal.Decimal `json:"totalTax"`
	NationalTax   decimal.Decimal `json:"nationalTax"`
	ResidentTax   decimal.Decimal `json:"residentTax"`
	TakeHome      decimal.Decimal `json:"takeHome"`
	EffectiveRate decimal.Decimal `json:"effectiveRate"`
	MarginalRate  decimal.Decimal `json:"marginalRate"`
	FurusatoLimit decimal.Decimal `json:"furusatoLimit"`
	Savings       decimal.Decimal `json:"savings"` // iDeCo + NISA

	// Comparison to Base
	TaxDiffFromBase      decimal.Decimal `json:"taxDiffFromBase"`
	TaxPctFromBase       decimal.Decimal `json:"taxPctFromBase"`
	TakeHomeDiffFromBase decimal.Decimal `json:"takeHomeDiffFromBase"`
	FurusatoDiffFromBase decimal.Decimal `json:"furusatoDiffFromBase"`
}

// ComparisonSet represents a collection of scenario comparisons
type ComparisonSet struct {
	BaseScenarioName   string             `json:"baseScenarioName"`
	BaseResult         *ComparisonResult  `json:"baseResult"`
	AlternativeResults []ComparisonResult `json:"alternativeResults"`
	Recommendations    []string           `json:"recommendations"`
	ConfigPath         string             `json:"configPath,omitempty"`
}

// All returns the base result followed by the alternatives
func (cs *ComparisonSet) All() []ComparisonResult {
	out := make([]ComparisonResult, 0, len(cs.AlternativeResults)+1)
	if cs.BaseResult != nil {
		out = append(out, *cs.BaseResult)
	}
	return append(out, cs.AlternativeResults...)
}

// MetricsCalculator extracts key metrics from scenario results
type MetricsCalculator struct{}

// NewMetricsCalculator creates a new metrics calculator
func NewMetricsCalculator() *MetricsCalculator {
	return &MetricsCalculator{}
}

// CalculateMetrics computes all comparison metrics for a scenario result
func (mc *MetricsCalculator) CalculateMetrics(res *domain.ScenarioResult) ComparisonResult {
	r := res.Result
	return ComparisonResult{
		ScenarioName:  res.Name,
		Description:   res.Description,
		Scenario:      res,
		TotalTax:      r.TotalTax,
		NationalTax:   r.TotalNationalIncomeTax,
		ResidentTax:   r.TotalResidentTax,
		TakeHome:      res.TakeHome,
		EffectiveRate: r.EffectiveTaxRate,
		MarginalRate:  r.Breakdown.MarginalRate,
		FurusatoLimit: r.FurusatoLimit,
		Savings:       r.IDeCoTaxSavings.Add(r.NISATaxSavings),
	}
}

// CalculateComparison computes comparison metrics between a scenario and a base
func (mc *MetricsCalculator) CalculateComparison(scenario, base ComparisonResult) ComparisonResult {
	scenario.TaxDiffFromBase = scenario.TotalTax.Sub(base.TotalTax)

	if !base.TotalTax.IsZero() {
		scenario.TaxPctFromBase = scenario.TaxDiffFromBase.
			Div(base.TotalTax).
			Mul(decimal.NewFromInt(100))
	}

	scenario.TakeHomeDiffFromBase = scenario.TakeHome.Sub(base.TakeHome)
	scenario.FurusatoDiffFromBase = scenario.FurusatoLimit.Sub(base.FurusatoLimit)

	return scenario
}

// GenerateRecommendations creates recommendations based on comparison results
func GenerateRecommendations(compSet *ComparisonSet) []string {
	recommendations := []string{}

	if compSet.BaseResult == nil || len(compSet.AlternativeResults) == 0 {
		return recommendations
	}

	// Find lowest tax burden
	lowestTax := compSet.BaseResult
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if alt.TotalTax.LessThan(lowestTax.TotalTax) {
			lowestTax = alt
		}
	}

	if lowestTax != compSet.BaseResult {
		savings := compSet.BaseResult.TotalTax.Sub(lowestTax.TotalTax)
		recommendations = append(recommendations,
			fmt.Sprintf("Lowest Tax: %s pays ¥%s less tax than the base scenario",
				lowestTax.ScenarioName, savings.StringFixed(0)))
	}

	// Find highest take-home
	bestTakeHome := compSet.BaseResult
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if alt.TakeHome.GreaterThan(bestTakeHome.TakeHome) {
			bestTakeHome = alt
		}
	}

	if bestTakeHome != compSet.BaseResult {
		gain := bestTakeHome.TakeHome.Sub(compSet.BaseResult.TakeHome)
		recommendations = append(recommendations,
			fmt.Sprintf("Highest Take-Home: %s keeps ¥%s more than the base scenario",
				bestTakeHome.ScenarioName, gain.StringFixed(0)))
	}

	// Find largest donation ceiling
	bestFurusato := compSet.BaseResult
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if alt.FurusatoLimit.GreaterThan(bestFurusato.FurusatoLimit) {
			bestFurusato = alt
		}
	}

	if bestFurusato != compSet.BaseResult {
		recommendations = append(recommendations,
			fmt.Sprintf("Largest Furusato Ceiling: %s allows ¥%s in donations",
				bestFurusato.ScenarioName, bestFurusato.FurusatoLimit.StringFixed(0)))
	}

	return recommendations
}
