package domain

import (
	"github.com/shopspring/decimal"
)

// TaxInput is a validated income and deduction record for one filer and one
// fiscal year. All money fields are whole-yen, non-negative amounts.
type TaxInput struct {
	// Withholding slip (gensen choshu hyo)
	SalaryRevenue       decimal.Decimal `yaml:"salary_revenue" json:"salaryRevenue"`
	SocialInsurancePaid decimal.Decimal `yaml:"social_insurance_paid" json:"socialInsurancePaid"`

	// Investments
	CryptoProfit   decimal.Decimal `yaml:"crypto_profit" json:"cryptoProfit"`     // misc income, aggregate taxation
	StockProfit    decimal.Decimal `yaml:"stock_profit" json:"stockProfit"`       // separate taxation
	StockDividends decimal.Decimal `yaml:"stock_dividends" json:"stockDividends"` // separate taxation

	// Deductions and status
	DependentsCount        int             `yaml:"dependents_count" json:"dependentsCount"`
	IsSingle               bool            `yaml:"is_single" json:"isSingle"` // carried, not used by any formula
	LifeInsuranceDeduction decimal.Decimal `yaml:"life_insurance_deduction" json:"lifeInsuranceDeduction"`
	IDeCoContribution      decimal.Decimal `yaml:"ideco_contribution" json:"idecoContribution"`

	// Tax-exempt account (NISA); used for revenue and savings insight only
	NISACapitalGains decimal.Decimal `yaml:"nisa_capital_gains" json:"nisaCapitalGains"`
	NISADividends    decimal.Decimal `yaml:"nisa_dividends" json:"nisaDividends"`
}

// TaxResult is the full tax estimate for one TaxInput
type TaxResult struct {
	// Taxable bases
	TaxableSalaryIncome    decimal.Decimal `json:"taxableSalaryIncome" yaml:"taxable_salary_income"`
	AggregateTaxableIncome decimal.Decimal `json:"aggregateTaxableIncome" yaml:"aggregate_taxable_income"`

	// Savings insights
	IDeCoTaxSavings decimal.Decimal `json:"idecoTaxSavings" yaml:"ideco_tax_savings"`
	NISATaxSavings  decimal.Decimal `json:"nisaTaxSavings" yaml:"nisa_tax_savings"`

	// National income tax
	IncomeTaxAggregate     decimal.Decimal `json:"incomeTaxAggregate" yaml:"income_tax_aggregate"`
	IncomeTaxSeparate      decimal.Decimal `json:"incomeTaxSeparate" yaml:"income_tax_separate"`
	ReconstructionTax      decimal.Decimal `json:"reconstructionTax" yaml:"reconstruction_tax"`
	TotalNationalIncomeTax decimal.Decimal `json:"totalNationalIncomeTax" yaml:"total_national_income_tax"`

	// Resident tax
	ResidentTaxIncomeBased decimal.Decimal `json:"residentTaxIncomeBased" yaml:"resident_tax_income_based"`
	ResidentTaxPerCapita   decimal.Decimal `json:"residentTaxPerCapita" yaml:"resident_tax_per_capita"`
	TotalResidentTax       decimal.Decimal `json:"totalResidentTax" yaml:"total_resident_tax"`

	TotalTax         decimal.Decimal `json:"totalTax" yaml:"total_tax"`
	EffectiveTaxRate decimal.Decimal `json:"effectiveTaxRate" yaml:"effective_tax_rate"` // percent

	// Donation deduction (furusato nozei) ceiling estimate
	FurusatoLimit decimal.Decimal `json:"furusatoLimit" yaml:"furusato_limit"`

	Breakdown TaxBreakdown `json:"breakdown" yaml:"breakdown"`
}

// TaxBreakdown exposes the intermediate values behind a TaxResult so that
// renderers never have to recompute them.
type TaxBreakdown struct {
	SalaryDeduction        decimal.Decimal `json:"salaryDeduction" yaml:"salary_deduction"`
	MiscIncome             decimal.Decimal `json:"miscIncome" yaml:"misc_income"`
	AggregateIncome        decimal.Decimal `json:"aggregateIncome" yaml:"aggregate_income"`
	CommonDeductions       decimal.Decimal `json:"commonDeductions" yaml:"common_deductions"`
	NationalDeductions     decimal.Decimal `json:"nationalDeductions" yaml:"national_deductions"`
	ResidentDeductions     decimal.Decimal `json:"residentDeductions" yaml:"resident_deductions"`
	ResidentTaxableIncome  decimal.Decimal `json:"residentTaxableIncome" yaml:"resident_taxable_income"`
	SeparateTaxableIncome  decimal.Decimal `json:"separateTaxableIncome" yaml:"separate_taxable_income"`
	ResidentTaxAggregate   decimal.Decimal `json:"residentTaxAggregate" yaml:"resident_tax_aggregate"`
	ResidentTaxSeparate    decimal.Decimal `json:"residentTaxSeparate" yaml:"resident_tax_separate"`
	NationalPreCredit      decimal.Decimal `json:"nationalPreCredit" yaml:"national_pre_credit"`
	FixedCreditNational    decimal.Decimal `json:"fixedCreditNational" yaml:"fixed_credit_national"`
	FixedCreditResident    decimal.Decimal `json:"fixedCreditResident" yaml:"fixed_credit_resident"`
	MarginalRate           decimal.Decimal `json:"marginalRate" yaml:"marginal_rate"`
	TotalRevenue           decimal.Decimal `json:"totalRevenue" yaml:"total_revenue"`
	Bracket                BracketPosition `json:"bracket" yaml:"bracket"`
}

// BracketPosition locates the aggregate taxable income inside the progressive table
type BracketPosition struct {
	Index      int              `json:"index" yaml:"index"`
	Rate       decimal.Decimal  `json:"rate" yaml:"rate"`
	LowerBound decimal.Decimal  `json:"lowerBound" yaml:"lower_bound"`
	UpperBound *decimal.Decimal `json:"upperBound,omitempty" yaml:"upper_bound,omitempty"`
	Headroom   decimal.Decimal  `json:"headroom" yaml:"headroom"` // zero in the top bracket
}

// IsTopBracket reports whether the position is in the unbounded top bracket
func (b BracketPosition) IsTopBracket() bool {
	return b.UpperBound == nil
}

// NationalShare returns the share of total tax that is national income tax
func (r TaxResult) NationalShare() decimal.Decimal {
	if r.TotalTax.IsZero() {
		return decimal.Zero
	}
	return r.TotalNationalIncomeTax.Div(r.TotalTax)
}
