package calculation

import (
	"fmt"

	"github.com/rgehrsitz/jptax/internal/domain"
	"github.com/shopspring/decimal"
)

// BracketEdgeDistance is how close (in yen of taxable income) the aggregate
// base must be to the next bracket before a note is raised
var BracketEdgeDistance = decimal.NewFromInt(100000)

// Advise derives informational notes from an input and its result
func Advise(rules *domain.FiscalYearRules, input domain.TaxInput, result domain.TaxResult) []domain.Advisory {
	var notes []domain.Advisory

	if result.IncomeTaxAggregate.IsPositive() && result.IncomeTaxSeparate.IsPositive() {
		notes = append(notes, domain.Advisory{
			Code: domain.AdvisorySeparateFiling,
			Message: "Stock gains are taxed separately. Filing is normally required, but gains in a " +
				"withholding specified account may be left out of the return; declaring them can " +
				"raise national health insurance premiums.",
		})
	}

	marginal := result.Breakdown.MarginalRate
	if !rules.Insights.HighMarginalRate.IsZero() && marginal.GreaterThanOrEqual(rules.Insights.HighMarginalRate) {
		msg := fmt.Sprintf("Marginal income tax rate is %s%%.", marginal.Mul(hundred).StringFixed(0))
		if input.IDeCoContribution.IsZero() {
			msg += " Deductible contributions such as iDeCo save the most at this rate."
		}
		notes = append(notes, domain.Advisory{Code: domain.AdvisoryHighMarginalRate, Message: msg})
	}

	pos := result.Breakdown.Bracket
	if !pos.IsTopBracket() && result.AggregateTaxableIncome.IsPositive() && pos.Headroom.LessThanOrEqual(BracketEdgeDistance) {
		notes = append(notes, domain.Advisory{
			Code: domain.AdvisoryBracketEdge,
			Message: fmt.Sprintf("Taxable income is %s yen below the next bracket.",
				pos.Headroom.StringFixed(0)),
		})
	}

	savings := result.IDeCoTaxSavings.Add(result.NISATaxSavings)
	if savings.IsPositive() {
		notes = append(notes, domain.Advisory{
			Code: domain.AdvisorySavings,
			Message: fmt.Sprintf("Estimated savings: iDeCo %s yen, NISA %s yen, total %s yen.",
				result.IDeCoTaxSavings.StringFixed(0), result.NISATaxSavings.StringFixed(0), savings.StringFixed(0)),
		})
	}

	return notes
}
