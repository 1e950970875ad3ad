package calculation

import (
	"testing"

	"github.com/rgehrsitz/jptax/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTruncateToUnit(t *testing.T) {
	tests := []struct {
		name     string
		amount   decimal.Decimal
		unit     decimal.Decimal
		expected decimal.Decimal
	}{
		{"exact multiple", d(2980000), d(1000), d(2980000)},
		{"truncates down", d(2980999), d(1000), d(2980000)},
		{"fractional yen", decimal.RequireFromString("1999.99"), d(1000), d(1000)},
		{"negative clamps to zero", d(-5000), d(1000), d(0)},
		{"zero unit floors to yen", decimal.RequireFromString("1234.7"), d(0), d(1234)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncateToUnit(tt.amount, tt.unit)
			assert.True(t, tt.expected.Equal(got), "expected %s, got %s", tt.expected, got)
		})
	}
}

func TestProgressiveTax(t *testing.T) {
	rules := domain.Reiwa7Rules()

	tests := []struct {
		name     string
		taxable  decimal.Decimal
		expected decimal.Decimal
	}{
		{"zero", d(0), d(0)},
		{"negative", d(-1000), d(0)},
		{"first bracket", d(1000000), d(50000)},
		{"first bracket upper bound", d(1950000), d(97500)},
		{"second bracket", d(2980000), d(200500)},
		{"third bracket", d(5000000), d(572500)},
		{"fourth bracket", d(8000000), d(1204000)},
		{"fifth bracket", d(15000000), d(3414000)},
		{"sixth bracket", d(30000000), d(9204000)},
		{"top bracket", d(50000000), d(17704000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ProgressiveTax(&rules, tt.taxable)
			assert.True(t, tt.expected.Equal(got), "expected %s, got %s", tt.expected, got)
		})
	}
}

func TestProgressiveTax_BracketContinuity(t *testing.T) {
	rules := domain.Reiwa7Rules()
	step := rules.TaxableRoundingUnit

	for i := 0; i < len(rules.Brackets)-1; i++ {
		upper := *rules.Brackets[i].UpTo
		next := rules.Brackets[i+1]

		atBound := ProgressiveTax(&rules, upper)
		afterBound := ProgressiveTax(&rules, upper.Add(step))

		// Stepping one rounding unit over the bound costs at most the new marginal rate
		jump := afterBound.Sub(atBound)
		assert.False(t, jump.IsNegative(), "bracket %d: tax decreased", i)
		assert.True(t, jump.LessThanOrEqual(step.Mul(next.Rate)), "bracket %d: jump %s", i, jump)
	}
}

func TestProgressiveTax_ExactBoundaries(t *testing.T) {
	rules := domain.Reiwa7Rules()

	for _, bound := range []int64{1950000, 3300000, 6950000} {
		idx := FindBracket(rules.Brackets, d(bound))
		lower := rules.Brackets[idx]
		upper := rules.Brackets[idx+1]

		assert.True(t,
			d(bound).Mul(lower.Rate).Sub(lower.Subtract).Equal(d(bound).Mul(upper.Rate).Sub(upper.Subtract)),
			"formulas diverge at %d", bound)
	}
}

func TestMarginalRate(t *testing.T) {
	rules := domain.Reiwa7Rules()

	tests := []struct {
		taxable  int64
		expected string
	}{
		{0, "0.05"},
		{1950000, "0.05"},
		{1951000, "0.10"},
		{3300000, "0.10"},
		{6950000, "0.20"},
		{8999000, "0.23"},
		{9000000, "0.33"},
		{17999000, "0.33"},
		{39999000, "0.40"},
		{40000000, "0.45"},
	}

	for _, tt := range tests {
		got := MarginalRate(&rules, d(tt.taxable))
		assert.True(t, decimal.RequireFromString(tt.expected).Equal(got), "taxable %d: got %s", tt.taxable, got)
	}
}

func TestCalculateNationalTax_CreditFloorsAtZero(t *testing.T) {
	rules := domain.Reiwa7Rules()

	// 10,000 yen of separate income owes 1,500 + 31 surcharge, below the credit
	national := CalculateNationalTax(&rules, d(0), Deductions{National: rules.BasicDeductionNational}, d(10000), 0)

	assert.True(t, national.Separate.Equal(d(1500)))
	assert.True(t, national.Surcharge.Equal(d(31)))
	assert.True(t, national.PreCredit.Equal(d(1531)))
	assert.True(t, national.Total.IsZero())
}

func TestCalculateResidentTax(t *testing.T) {
	rules := domain.Reiwa7Rules()
	deductions := Deductions{Resident: d(1330000)}

	resident := CalculateResidentTax(&rules, d(4360000), deductions, d(200000), 2)

	assert.True(t, resident.TaxableIncome.Equal(d(3030000)))
	assert.True(t, resident.Aggregate.Equal(d(303000)))
	assert.True(t, resident.Separate.Equal(d(10000)))
	assert.True(t, resident.IncomeBased.Equal(d(313000)))
	assert.True(t, resident.Credit.Equal(d(30000)))
	assert.True(t, resident.Total.Equal(d(288000)))
}

func TestFixedCredit(t *testing.T) {
	assert.True(t, FixedCredit(d(30000), 0).Equal(d(30000)))
	assert.True(t, FixedCredit(d(30000), 3).Equal(d(120000)))
	assert.True(t, FixedCredit(d(10000), 1).Equal(d(20000)))
}
