package calculation

import (
	"context"
	"fmt"
	"sort"

	"github.com/rgehrsitz/jptax/internal/domain"
	"github.com/shopspring/decimal"
)

// MaxSweepSteps caps the number of points in a single sweep
const MaxSweepSteps = 1000

// MaxDependents caps dependent-count sweeps and solves
const MaxDependents = 99

// sweepSetters maps a parameter name to the input field it overrides
var sweepSetters = map[string]func(in *domain.TaxInput, v decimal.Decimal){
	"salary":           func(in *domain.TaxInput, v decimal.Decimal) { in.SalaryRevenue = v },
	"social_insurance": func(in *domain.TaxInput, v decimal.Decimal) { in.SocialInsurancePaid = v },
	"crypto":           func(in *domain.TaxInput, v decimal.Decimal) { in.CryptoProfit = v },
	"stock":            func(in *domain.TaxInput, v decimal.Decimal) { in.StockProfit = v },
	"ideco":            func(in *domain.TaxInput, v decimal.Decimal) { in.IDeCoContribution = v },
	"life_insurance":   func(in *domain.TaxInput, v decimal.Decimal) { in.LifeInsuranceDeduction = v },
	"dependents":       func(in *domain.TaxInput, v decimal.Decimal) { in.DependentsCount = int(v.IntPart()) },
}

// SweepParameterNames returns the supported sweep parameters, sorted
func SweepParameterNames() []string {
	names := make([]string, 0, len(sweepSetters))
	for name := range sweepSetters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ApplyParameter sets the named input field on input. Names are the
// sweep parameter names.
func ApplyParameter(input *domain.TaxInput, name string, v decimal.Decimal) error {
	set, ok := sweepSetters[name]
	if !ok {
		return fmt.Errorf("unknown parameter %q (supported: %v)", name, SweepParameterNames())
	}
	set(input, v)
	return nil
}

// SweepAnalyzer performs single-parameter sweeps over a base scenario
type SweepAnalyzer struct {
	engine *TaxEngine
}

// NewSweepAnalyzer creates a sweep analyzer backed by the given engine
func NewSweepAnalyzer(engine *TaxEngine) *SweepAnalyzer {
	if engine == nil {
		engine = NewTaxEngine()
	}
	return &SweepAnalyzer{engine: engine}
}

// Analyze sweeps one parameter from MinValue to MaxValue and records the
// estimate at every step
func (sa *SweepAnalyzer) Analyze(ctx context.Context, scenario *domain.Scenario, param domain.SweepParameter) (*domain.SweepAnalysis, error) {
	if scenario == nil {
		return nil, fmt.Errorf("scenario cannot be nil")
	}
	set, ok := sweepSetters[param.Name]
	if !ok {
		return nil, fmt.Errorf("unknown sweep parameter %q (supported: %v)", param.Name, SweepParameterNames())
	}
	if err := validateSweep(param); err != nil {
		return nil, fmt.Errorf("invalid sweep for %s: %w", param.Name, err)
	}

	values := generateSweepValues(param)
	points := make([]domain.SweepPoint, 0, len(values))

	for _, v := range values {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		input := scenario.Input
		set(&input, v)

		result := sa.engine.Calculate(input)
		points = append(points, domain.SweepPoint{
			Value:         v,
			TotalTax:      result.TotalTax,
			NationalTax:   result.TotalNationalIncomeTax,
			ResidentTax:   result.TotalResidentTax,
			MarginalRate:  result.Breakdown.MarginalRate,
			EffectiveRate: result.EffectiveTaxRate,
			TakeHome:      TakeHome(input, result),
			FurusatoLimit: result.FurusatoLimit,
		})
	}

	analysis := &domain.SweepAnalysis{
		ScenarioName:   scenario.Name,
		Parameter:      param,
		Points:         points,
		BracketChanges: findBracketChanges(points),
	}

	first, last := points[0], points[len(points)-1]
	if span := last.Value.Sub(first.Value); !span.IsZero() {
		analysis.AverageSlope = last.TotalTax.Sub(first.TotalTax).Div(span)
	}

	sa.engine.Logger.Infof("sweep %s over %s: %d points, %d bracket changes",
		param.Name, scenario.Name, len(points), len(analysis.BracketChanges))

	return analysis, nil
}

func validateSweep(param domain.SweepParameter) error {
	if param.Steps < 2 || param.Steps > MaxSweepSteps {
		return fmt.Errorf("steps must be between 2 and %d", MaxSweepSteps)
	}
	if param.MinValue.IsNegative() {
		return fmt.Errorf("min value cannot be negative")
	}
	if param.MaxValue.LessThan(param.MinValue) {
		return fmt.Errorf("max value must not be less than min value")
	}
	if param.Name == "dependents" && param.MaxValue.GreaterThan(decimal.NewFromInt(MaxDependents)) {
		return fmt.Errorf("dependents cannot exceed %d", MaxDependents)
	}
	return nil
}

// generateSweepValues spaces Steps values evenly over [MinValue, MaxValue],
// truncated to whole yen (or whole people for dependents)
func generateSweepValues(param domain.SweepParameter) []decimal.Decimal {
	values := make([]decimal.Decimal, 0, param.Steps)
	span := param.MaxValue.Sub(param.MinValue)
	denom := decimal.NewFromInt(int64(param.Steps - 1))

	for i := 0; i < param.Steps; i++ {
		v := param.MinValue.Add(span.Mul(decimal.NewFromInt(int64(i))).Div(denom)).Floor()
		if i == param.Steps-1 {
			v = param.MaxValue.Floor()
		}
		values = append(values, v)
	}
	return values
}

func findBracketChanges(points []domain.SweepPoint) []domain.BracketChange {
	changes := []domain.BracketChange{}
	for i := 1; i < len(points); i++ {
		prev, cur := points[i-1], points[i]
		if !prev.MarginalRate.Equal(cur.MarginalRate) {
			changes = append(changes, domain.BracketChange{
				From:     prev.Value,
				To:       cur.Value,
				FromRate: prev.MarginalRate,
				ToRate:   cur.MarginalRate,
			})
		}
	}
	return changes
}
