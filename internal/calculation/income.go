package calculation

import (
	"github.com/rgehrsitz/jptax/internal/domain"
	"github.com/shopspring/decimal"
)

// AggregateIncome is the output of the income aggregation step
type AggregateIncome struct {
	SalaryDeduction     decimal.Decimal
	TaxableSalaryIncome decimal.Decimal
	MiscIncome          decimal.Decimal
	Total               decimal.Decimal
}

// Deductions is the output of the deduction composition step
type Deductions struct {
	Common   decimal.Decimal
	National decimal.Decimal
	Resident decimal.Decimal
}

// SalaryDeduction looks up the employment-income deduction for a gross salary.
// Rows are evaluated in order and the first row whose upper bound covers the
// salary wins; the last row is the catch-all.
func SalaryDeduction(rules *domain.FiscalYearRules, gross decimal.Decimal) decimal.Decimal {
	for _, row := range rules.EmploymentDeduction {
		if row.Covers(gross) {
			return gross.Mul(row.Rate).Add(row.Add)
		}
	}
	// validated tables always end with a catch-all row
	return decimal.Zero
}

// CalculateAggregateIncome converts gross salary into taxable employment income
// and adds misc (crypto) income. Misc losses do not offset salary.
func CalculateAggregateIncome(rules *domain.FiscalYearRules, input domain.TaxInput) AggregateIncome {
	deduction := SalaryDeduction(rules, input.SalaryRevenue)
	salaryIncome := decimal.Max(decimal.Zero, input.SalaryRevenue.Sub(deduction))
	misc := decimal.Max(decimal.Zero, input.CryptoProfit)

	return AggregateIncome{
		SalaryDeduction:     deduction,
		TaxableSalaryIncome: salaryIncome,
		MiscIncome:          misc,
		Total:               salaryIncome.Add(misc),
	}
}

// ComposeDeductions sums the deductions shared by both regimes and adds the
// regime-specific basic deduction.
func ComposeDeductions(rules *domain.FiscalYearRules, input domain.TaxInput) Deductions {
	dependents := rules.DependentDeduction.Mul(decimal.NewFromInt(int64(input.DependentsCount)))
	common := input.SocialInsurancePaid.
		Add(input.LifeInsuranceDeduction).
		Add(input.IDeCoContribution).
		Add(dependents)

	return Deductions{
		Common:   common,
		National: common.Add(rules.BasicDeductionNational),
		Resident: common.Add(rules.BasicDeductionResident),
	}
}

// SeparateTaxableIncome nets stock gains against dividends. A net loss floors
// at zero and never reaches the aggregate base.
func SeparateTaxableIncome(input domain.TaxInput) decimal.Decimal {
	return decimal.Max(decimal.Zero, input.StockProfit.Add(input.StockDividends))
}

// TotalRevenue sums every income source used for the effective rate
func TotalRevenue(input domain.TaxInput) decimal.Decimal {
	return input.SalaryRevenue.
		Add(decimal.Max(decimal.Zero, input.CryptoProfit)).
		Add(SeparateTaxableIncome(input)).
		Add(input.NISACapitalGains).
		Add(input.NISADividends)
}
