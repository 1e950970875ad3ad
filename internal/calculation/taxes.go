package calculation

import (
	"github.com/rgehrsitz/jptax/internal/domain"
	"github.com/shopspring/decimal"
)

// TAX CALCULATION ASSUMPTIONS:
//
// 1. Aggregate taxation: salary and crypto (misc) income share one progressive base.
//    Crypto losses are floored at zero and do not offset salary.
//
// 2. Separate taxation: stock gains and dividends are netted together and taxed
//    flat (15% national, 5% resident). Net losses are floored at zero.
//
// 3. Taxable income is truncated down to the rounding unit (1,000 yen)
//    independently for the national and resident bases.
//
// 4. The fixed tax reduction counts the filer plus each dependent and is
//    non-refundable.

// NationalTax holds the national income tax components
type NationalTax struct {
	TaxableIncome decimal.Decimal
	Aggregate     decimal.Decimal
	Separate      decimal.Decimal
	Surcharge     decimal.Decimal
	PreCredit     decimal.Decimal
	Credit        decimal.Decimal
	Total         decimal.Decimal
}

// ResidentTax holds the resident tax components
type ResidentTax struct {
	TaxableIncome decimal.Decimal
	Aggregate     decimal.Decimal
	Separate      decimal.Decimal
	IncomeBased   decimal.Decimal
	PerCapita     decimal.Decimal
	Credit        decimal.Decimal
	Total         decimal.Decimal
}

// TruncateToUnit floors amount to a multiple of unit and clamps negatives to zero
func TruncateToUnit(amount, unit decimal.Decimal) decimal.Decimal {
	if unit.LessThanOrEqual(decimal.Zero) {
		return decimal.Max(decimal.Zero, amount.Floor())
	}
	return decimal.Max(decimal.Zero, amount.Div(unit).Floor().Mul(unit))
}

// TaxableBase subtracts regime deductions from aggregate income and truncates
func TaxableBase(rules *domain.FiscalYearRules, aggregate, deductions decimal.Decimal) decimal.Decimal {
	return TruncateToUnit(aggregate.Sub(deductions), rules.TaxableRoundingUnit)
}

// FindBracket returns the index of the first bracket covering income
func FindBracket(brackets []domain.ProgressiveBracket, income decimal.Decimal) int {
	for i, b := range brackets {
		if b.Covers(income) {
			return i
		}
	}
	return len(brackets) - 1
}

// ProgressiveTax applies the bracket table using the rate*income - subtract form
func ProgressiveTax(rules *domain.FiscalYearRules, taxableIncome decimal.Decimal) decimal.Decimal {
	if taxableIncome.LessThanOrEqual(decimal.Zero) || len(rules.Brackets) == 0 {
		return decimal.Zero
	}
	b := rules.Brackets[FindBracket(rules.Brackets, taxableIncome)]
	return taxableIncome.Mul(b.Rate).Sub(b.Subtract)
}

// MarginalRate returns the bracket rate for the aggregate national base
func MarginalRate(rules *domain.FiscalYearRules, taxableIncome decimal.Decimal) decimal.Decimal {
	if len(rules.Brackets) == 0 {
		return decimal.Zero
	}
	return rules.Brackets[FindBracket(rules.Brackets, taxableIncome)].Rate
}

// CalculateNationalTax computes aggregate, separate and surcharge components
// and applies the fixed national credit.
func CalculateNationalTax(rules *domain.FiscalYearRules, aggregate decimal.Decimal, deductions Deductions, separate decimal.Decimal, dependents int) NationalTax {
	taxable := TaxableBase(rules, aggregate, deductions.National)
	aggTax := ProgressiveTax(rules, taxable)
	sepTax := separate.Mul(rules.StockRateNational).Floor()
	surcharge := aggTax.Add(sepTax).Mul(rules.ReconstructionRate).Floor()
	preCredit := aggTax.Add(sepTax).Add(surcharge)
	credit := FixedCredit(rules.FixedCreditNational, dependents)

	return NationalTax{
		TaxableIncome: taxable,
		Aggregate:     aggTax,
		Separate:      sepTax,
		Surcharge:     surcharge,
		PreCredit:     preCredit,
		Credit:        credit,
		Total:         decimal.Max(decimal.Zero, preCredit.Sub(credit)),
	}
}

// CalculateResidentTax computes the income-based and per-capita resident tax
// and applies the fixed resident credit.
func CalculateResidentTax(rules *domain.FiscalYearRules, aggregate decimal.Decimal, deductions Deductions, separate decimal.Decimal, dependents int) ResidentTax {
	taxable := TaxableBase(rules, aggregate, deductions.Resident)
	aggTax := taxable.Mul(rules.ResidentAggregateRate).Floor()
	sepTax := separate.Mul(rules.StockRateResident).Floor()
	incomeBased := aggTax.Add(sepTax)
	credit := FixedCredit(rules.FixedCreditResident, dependents)

	return ResidentTax{
		TaxableIncome: taxable,
		Aggregate:     aggTax,
		Separate:      sepTax,
		IncomeBased:   incomeBased,
		PerCapita:     rules.ResidentPerCapita,
		Credit:        credit,
		Total:         decimal.Max(decimal.Zero, incomeBased.Add(rules.ResidentPerCapita).Sub(credit)),
	}
}

// FixedCredit is the per-person reduction; the filer always counts as one
func FixedCredit(perPerson decimal.Decimal, dependents int) decimal.Decimal {
	return perPerson.Mul(decimal.NewFromInt(int64(1 + dependents)))
}
