package domain

import (
	"github.com/shopspring/decimal"
)

// FiscalYearRules contains every statutory constant and lookup table used by the
// tax engine for a single fiscal year. It is loaded once (built-in or from a
// rules YAML file) and never mutated afterwards.
type FiscalYearRules struct {
	Metadata RulesMetadata `yaml:"metadata" json:"metadata"`

	// Basic deduction differs between the national and resident regimes
	BasicDeductionNational decimal.Decimal `yaml:"basic_deduction_national" json:"basicDeductionNational"`
	BasicDeductionResident decimal.Decimal `yaml:"basic_deduction_resident" json:"basicDeductionResident"`
	DependentDeduction     decimal.Decimal `yaml:"dependent_deduction" json:"dependentDeduction"`

	StockRateNational     decimal.Decimal `yaml:"stock_rate_national" json:"stockRateNational"`
	StockRateResident     decimal.Decimal `yaml:"stock_rate_resident" json:"stockRateResident"`
	ResidentAggregateRate decimal.Decimal `yaml:"resident_aggregate_rate" json:"residentAggregateRate"`
	ResidentPerCapita     decimal.Decimal `yaml:"resident_per_capita" json:"residentPerCapita"`
	ReconstructionRate    decimal.Decimal `yaml:"reconstruction_rate" json:"reconstructionRate"`

	// Fixed tax reduction per filer and per dependent
	FixedCreditNational decimal.Decimal `yaml:"fixed_credit_national" json:"fixedCreditNational"`
	FixedCreditResident decimal.Decimal `yaml:"fixed_credit_resident" json:"fixedCreditResident"`

	// TaxableRoundingUnit is the truncation unit applied to taxable income
	TaxableRoundingUnit decimal.Decimal `yaml:"taxable_rounding_unit" json:"taxableRoundingUnit"`

	Insights InsightRules `yaml:"insights" json:"insights"`

	EmploymentDeduction []EmploymentDeductionRow `yaml:"employment_deduction" json:"employmentDeduction"`
	Brackets            []ProgressiveBracket     `yaml:"brackets" json:"brackets"`
}

// RulesMetadata describes where a rule set comes from
type RulesMetadata struct {
	FiscalYear  int    `yaml:"fiscal_year" json:"fiscalYear"`
	Era         string `yaml:"era" json:"era"`
	Description string `yaml:"description" json:"description"`
}

// InsightRules holds the constants used only by the insight calculations
type InsightRules struct {
	ExemptAccountRate    decimal.Decimal `yaml:"exempt_account_rate" json:"exemptAccountRate"`
	FurusatoSelfPay      decimal.Decimal `yaml:"furusato_self_pay" json:"furusatoSelfPay"`
	FurusatoSpecialShare decimal.Decimal `yaml:"furusato_special_share" json:"furusatoSpecialShare"`
	FurusatoRoundingUnit decimal.Decimal `yaml:"furusato_rounding_unit" json:"furusatoRoundingUnit"`
	HighMarginalRate     decimal.Decimal `yaml:"high_marginal_rate" json:"highMarginalRate"`
}

// EmploymentDeductionRow is one row of the employment-income deduction table.
// The deduction is Rate*gross + Add. A nil UpTo marks the catch-all row.
type EmploymentDeductionRow struct {
	UpTo *decimal.Decimal `yaml:"up_to,omitempty" json:"upTo,omitempty"`
	Rate decimal.Decimal  `yaml:"rate" json:"rate"`
	Add  decimal.Decimal  `yaml:"add" json:"add"`
}

// ProgressiveBracket is one row of the national income tax table.
// Tax is Rate*income - Subtract. A nil UpTo marks the top bracket.
type ProgressiveBracket struct {
	UpTo     *decimal.Decimal `yaml:"up_to,omitempty" json:"upTo,omitempty"`
	Rate     decimal.Decimal  `yaml:"rate" json:"rate"`
	Subtract decimal.Decimal  `yaml:"subtract" json:"subtract"`
}

// Covers reports whether amount falls within this row's inclusive upper bound
func (r EmploymentDeductionRow) Covers(amount decimal.Decimal) bool {
	return r.UpTo == nil || amount.LessThanOrEqual(*r.UpTo)
}

// Covers reports whether amount falls within this bracket's inclusive upper bound
func (b ProgressiveBracket) Covers(amount decimal.Decimal) bool {
	return b.UpTo == nil || amount.LessThanOrEqual(*b.UpTo)
}

func yen(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func bound(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func rate(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// Reiwa7Rules returns the built-in 2025 (Reiwa 7) rule set
func Reiwa7Rules() FiscalYearRules {
	return FiscalYearRules{
		Metadata: RulesMetadata{
			FiscalYear:  2025,
			Era:         "Reiwa 7",
			Description: "Income tax and resident tax estimate rules for 2025",
		},
		BasicDeductionNational: yen(480000),
		BasicDeductionResident: yen(430000),
		DependentDeduction:     yen(380000),
		StockRateNational:      rate("0.15"),
		StockRateResident:      rate("0.05"),
		ResidentAggregateRate:  rate("0.10"),
		ResidentPerCapita:      yen(5000),
		ReconstructionRate:     rate("0.021"),
		FixedCreditNational:    yen(30000),
		FixedCreditResident:    yen(10000),
		TaxableRoundingUnit:    yen(1000),
		Insights: InsightRules{
			ExemptAccountRate:    rate("0.20315"),
			FurusatoSelfPay:      yen(2000),
			FurusatoSpecialShare: rate("0.20"),
			FurusatoRoundingUnit: yen(1000),
			HighMarginalRate:     rate("0.33"),
		},
		EmploymentDeduction: []EmploymentDeductionRow{
			{UpTo: bound(1625000), Rate: decimal.Zero, Add: yen(550000)},
			{UpTo: bound(1800000), Rate: rate("0.4"), Add: yen(-100000)},
			{UpTo: bound(3600000), Rate: rate("0.3"), Add: yen(80000)},
			{UpTo: bound(6600000), Rate: rate("0.2"), Add: yen(440000)},
			{UpTo: bound(8500000), Rate: rate("0.1"), Add: yen(1100000)},
			{Rate: decimal.Zero, Add: yen(1950000)},
		},
		Brackets: []ProgressiveBracket{
			{UpTo: bound(1950000), Rate: rate("0.05"), Subtract: decimal.Zero},
			{UpTo: bound(3300000), Rate: rate("0.10"), Subtract: yen(97500)},
			{UpTo: bound(6950000), Rate: rate("0.20"), Subtract: yen(427500)},
			{UpTo: bound(8999000), Rate: rate("0.23"), Subtract: yen(636000)},
			{UpTo: bound(17999000), Rate: rate("0.33"), Subtract: yen(1536000)},
			{UpTo: bound(39999000), Rate: rate("0.40"), Subtract: yen(2796000)},
			{Rate: rate("0.45"), Subtract: yen(4796000)},
		},
	}
}
