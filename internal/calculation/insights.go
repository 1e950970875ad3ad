package calculation

import (
	"github.com/rgehrsitz/jptax/internal/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// surchargedRate grosses a national rate up by the reconstruction surcharge
func surchargedRate(rules *domain.FiscalYearRules, rate decimal.Decimal) decimal.Decimal {
	return rate.Mul(decimal.NewFromInt(1).Add(rules.ReconstructionRate))
}

// IDeCoTaxSavings estimates national + resident tax saved by deducting the
// retirement-account contribution at the marginal rate.
func IDeCoTaxSavings(rules *domain.FiscalYearRules, contribution, marginalRate decimal.Decimal) decimal.Decimal {
	combined := surchargedRate(rules, marginalRate).Add(rules.ResidentAggregateRate)
	return contribution.Mul(combined).Floor()
}

// NISATaxSavings estimates the tax that exempt-account gains would have borne
// in a taxable account.
func NISATaxSavings(rules *domain.FiscalYearRules, input domain.TaxInput) decimal.Decimal {
	exempt := input.NISACapitalGains.Add(input.NISADividends)
	return exempt.Mul(rules.Insights.ExemptAccountRate).Floor()
}

// FurusatoLimit estimates the donation amount fully credited apart from the
// self-pay floor. Returns zero when the denominator is not positive or when
// there is no resident aggregate tax to credit against.
func FurusatoLimit(rules *domain.FiscalYearRules, residentAggregateTax, marginalRate decimal.Decimal) decimal.Decimal {
	if residentAggregateTax.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	denominator := decimal.NewFromInt(1).
		Sub(rules.ResidentAggregateRate).
		Sub(surchargedRate(rules, marginalRate))
	if denominator.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	limit := residentAggregateTax.Mul(rules.Insights.FurusatoSpecialShare).
		Div(denominator).
		Add(rules.Insights.FurusatoSelfPay)
	return TruncateToUnit(limit, rules.Insights.FurusatoRoundingUnit)
}

// EffectiveTaxRate returns total tax as a percentage of revenue
func EffectiveTaxRate(totalTax, revenue decimal.Decimal) decimal.Decimal {
	if revenue.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return totalTax.Div(revenue).Mul(hundred)
}

// LocateBracket describes where taxable income sits in the bracket table
func LocateBracket(rules *domain.FiscalYearRules, taxableIncome decimal.Decimal) domain.BracketPosition {
	if len(rules.Brackets) == 0 {
		return domain.BracketPosition{}
	}
	idx := FindBracket(rules.Brackets, taxableIncome)
	b := rules.Brackets[idx]

	pos := domain.BracketPosition{Index: idx, Rate: b.Rate}
	if idx > 0 && rules.Brackets[idx-1].UpTo != nil {
		pos.LowerBound = *rules.Brackets[idx-1].UpTo
	}
	if b.UpTo != nil {
		upper := *b.UpTo
		pos.UpperBound = &upper
		pos.Headroom = decimal.Max(decimal.Zero, upper.Sub(taxableIncome))
	}
	return pos
}
