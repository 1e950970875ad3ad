package calculation

import (
	"testing"

	"github.com/rgehrsitz/jptax/internal/domain"
	"github.com/stretchr/testify/assert"
)

func advisoryCodes(notes []domain.Advisory) []domain.AdvisoryCode {
	codes := make([]domain.AdvisoryCode, 0, len(notes))
	for _, n := range notes {
		codes = append(codes, n.Code)
	}
	return codes
}

func TestAdvise(t *testing.T) {
	engine := NewTaxEngine()

	tests := []struct {
		name     string
		input    domain.TaxInput
		expected []domain.AdvisoryCode
	}{
		{
			name:     "plain salary",
			input:    salaryInput(),
			expected: []domain.AdvisoryCode{},
		},
		{
			name:     "salary with stocks",
			input:    domain.TaxInput{SalaryRevenue: d(6000000), SocialInsurancePaid: d(900000), StockProfit: d(1000000)},
			expected: []domain.AdvisoryCode{domain.AdvisorySeparateFiling},
		},
		{
			name:     "stocks only",
			input:    domain.TaxInput{StockProfit: d(1000000)},
			expected: []domain.AdvisoryCode{},
		},
		{
			name:     "high earner",
			input:    domain.TaxInput{SalaryRevenue: d(20000000), SocialInsurancePaid: d(2000000)},
			expected: []domain.AdvisoryCode{domain.AdvisoryHighMarginalRate},
		},
		{
			name:     "close to next bracket",
			input:    domain.TaxInput{SalaryRevenue: d(5212500)},
			expected: []domain.AdvisoryCode{domain.AdvisoryBracketEdge},
		},
		{
			name:     "tax-advantaged accounts",
			input:    domain.TaxInput{SalaryRevenue: d(6000000), SocialInsurancePaid: d(900000), IDeCoContribution: d(276000), NISACapitalGains: d(500000)},
			expected: []domain.AdvisoryCode{domain.AdvisorySavings},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := engine.Calculate(tt.input)
			notes := Advise(&engine.Rules, tt.input, result)
			assert.Equal(t, tt.expected, advisoryCodes(notes))
		})
	}
}

func TestAdvise_HighMarginalSuggestion(t *testing.T) {
	engine := NewTaxEngine()

	input := domain.TaxInput{SalaryRevenue: d(20000000), SocialInsurancePaid: d(2000000)}
	notes := Advise(&engine.Rules, input, engine.Calculate(input))
	assert.Contains(t, notes[0].Message, "33%")
	assert.Contains(t, notes[0].Message, "iDeCo")

	input.IDeCoContribution = d(276000)
	notes = Advise(&engine.Rules, input, engine.Calculate(input))
	assert.Equal(t, domain.AdvisoryHighMarginalRate, notes[0].Code)
	assert.NotContains(t, notes[0].Message, "iDeCo")
}

func TestAdvise_BracketEdgeMessage(t *testing.T) {
	engine := NewTaxEngine()

	input := domain.TaxInput{SalaryRevenue: d(5212500)}
	result := engine.Calculate(input)
	notes := Advise(&engine.Rules, input, result)

	assert.True(t, result.AggregateTaxableIncome.Equal(d(3250000)))
	assert.Contains(t, notes[0].Message, "50000 yen below")
}
