package calculation

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/jptax/internal/domain"
	"github.com/shopspring/decimal"
)

// TaxEngine orchestrates the tax estimate for one fiscal-year rule set. It
// holds no mutable state after construction and is safe for concurrent use.
type TaxEngine struct {
	Rules  domain.FiscalYearRules
	Logger Logger
	Debug  bool // Log intermediate values for every scenario
}

// NewTaxEngine creates an engine with the built-in Reiwa 7 rules
func NewTaxEngine() *TaxEngine {
	return NewTaxEngineWithRules(domain.Reiwa7Rules())
}

// NewTaxEngineWithRules creates an engine with a caller-supplied rule set
func NewTaxEngineWithRules(rules domain.FiscalYearRules) *TaxEngine {
	return &TaxEngine{
		Rules:  rules,
		Logger: NopLogger{},
	}
}

// SetLogger replaces the engine logger; nil restores the no-op logger
func (e *TaxEngine) SetLogger(l Logger) {
	if l == nil {
		e.Logger = NopLogger{}
		return
	}
	e.Logger = l
}

// Calculate runs the full pipeline for one input. It performs no I/O and
// always succeeds for well-formed input.
func (e *TaxEngine) Calculate(input domain.TaxInput) domain.TaxResult {
	rules := &e.Rules

	// 1. Income aggregation
	income := CalculateAggregateIncome(rules, input)

	// 2. Deductions
	deductions := ComposeDeductions(rules, input)

	// 3-5. National and resident tax
	separate := SeparateTaxableIncome(input)
	national := CalculateNationalTax(rules, income.Total, deductions, separate, input.DependentsCount)
	resident := CalculateResidentTax(rules, income.Total, deductions, separate, input.DependentsCount)
	totalTax := national.Total.Add(resident.Total)

	// 6. Insights
	marginal := MarginalRate(rules, national.TaxableIncome)
	revenue := TotalRevenue(input)

	return domain.TaxResult{
		TaxableSalaryIncome:    income.TaxableSalaryIncome,
		AggregateTaxableIncome: national.TaxableIncome,
		IDeCoTaxSavings:        IDeCoTaxSavings(rules, input.IDeCoContribution, marginal),
		NISATaxSavings:         NISATaxSavings(rules, input),
		IncomeTaxAggregate:     national.Aggregate,
		IncomeTaxSeparate:      national.Separate,
		ReconstructionTax:      national.Surcharge,
		TotalNationalIncomeTax: national.Total,
		ResidentTaxIncomeBased: resident.IncomeBased,
		ResidentTaxPerCapita:   resident.PerCapita,
		TotalResidentTax:       resident.Total,
		TotalTax:               totalTax,
		EffectiveTaxRate:       EffectiveTaxRate(totalTax, revenue),
		FurusatoLimit:          FurusatoLimit(rules, resident.Aggregate, marginal),
		Breakdown: domain.TaxBreakdown{
			SalaryDeduction:       income.SalaryDeduction,
			MiscIncome:            income.MiscIncome,
			AggregateIncome:       income.Total,
			CommonDeductions:      deductions.Common,
			NationalDeductions:    deductions.National,
			ResidentDeductions:    deductions.Resident,
			ResidentTaxableIncome: resident.TaxableIncome,
			SeparateTaxableIncome: separate,
			ResidentTaxAggregate:  resident.Aggregate,
			ResidentTaxSeparate:   resident.Separate,
			NationalPreCredit:     national.PreCredit,
			FixedCreditNational:   national.Credit,
			FixedCreditResident:   resident.Credit,
			MarginalRate:          marginal,
			TotalRevenue:          revenue,
			Bracket:               LocateBracket(rules, national.TaxableIncome),
		},
	}
}

// TakeHome is revenue left after tax and social insurance, floored at zero
func TakeHome(input domain.TaxInput, result domain.TaxResult) decimal.Decimal {
	net := result.Breakdown.TotalRevenue.Sub(result.TotalTax).Sub(input.SocialInsurancePaid)
	return decimal.Max(decimal.Zero, net)
}

// Evaluate calculates one scenario and attaches take-home and advisories
func (e *TaxEngine) Evaluate(scenario *domain.Scenario) domain.ScenarioResult {
	result := e.Calculate(scenario.Input)

	if e.Debug {
		b := result.Breakdown
		e.Logger.Debugf("scenario %q: aggregate=%s national_base=%s resident_base=%s separate=%s",
			scenario.Name, b.AggregateIncome, result.AggregateTaxableIncome, b.ResidentTaxableIncome, b.SeparateTaxableIncome)
		e.Logger.Debugf("scenario %q: national=%s resident=%s total=%s marginal=%s",
			scenario.Name, result.TotalNationalIncomeTax, result.TotalResidentTax, result.TotalTax, b.MarginalRate)
	}

	return domain.ScenarioResult{
		Name:        scenario.Name,
		Description: scenario.Description,
		Input:       scenario.Input,
		Result:      result,
		TakeHome:    TakeHome(scenario.Input, result),
		Advisories:  Advise(&e.Rules, scenario.Input, result),
	}
}

// RunScenario calculates a single named scenario
func (e *TaxEngine) RunScenario(ctx context.Context, scenario *domain.Scenario) (*domain.ScenarioResult, error) {
	if scenario == nil {
		return nil, fmt.Errorf("scenario cannot be nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}
	res := e.Evaluate(scenario)
	return &res, nil
}

// RunScenarios calculates every scenario in the configuration in file order
func (e *TaxEngine) RunScenarios(ctx context.Context, config *domain.Configuration) (*domain.Report, error) {
	if config == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	report := &domain.Report{
		Profile:   config.Profile,
		Rules:     e.Rules.Metadata,
		Scenarios: make([]domain.ScenarioResult, 0, len(config.Scenarios)),
	}

	for i := range config.Scenarios {
		res, err := e.RunScenario(ctx, &config.Scenarios[i])
		if err != nil {
			return nil, err
		}
		e.Logger.Infof("calculated scenario %s: total tax %s", res.Name, res.Result.TotalTax)
		report.Scenarios = append(report.Scenarios, *res)
	}

	return report, nil
}

// RunScenarioByName calculates the named scenario from the configuration
func (e *TaxEngine) RunScenarioByName(ctx context.Context, config *domain.Configuration, name string) (*domain.ScenarioResult, error) {
	scenario, ok := config.FindScenario(name)
	if !ok {
		return nil, fmt.Errorf("scenario %s not found in configuration", name)
	}
	return e.RunScenario(ctx, scenario)
}
